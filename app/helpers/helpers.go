package helpers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/Rakhulsr/go-foodie/app/apperr"
	"github.com/Rakhulsr/go-foodie/app/models"
	"github.com/go-playground/validator/v10"
)

type contextKey string

const (
	ContextKeyUser contextKey = "userObject"
)

const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their JSON names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, ContextKeyUser, user)
}

func CurrentUser(r *http.Request) *models.User {
	user, _ := r.Context().Value(ContextKeyUser).(*models.User)
	return user
}

// DecodeJSONBody decodes a JSON request body into dst and runs its validate tags.
// An empty body decodes to the zero value.
func DecodeJSONBody(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return apperr.Validation("malformed JSON body: %v", err)
	}
	return Validate(dst)
}

func Validate(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return apperr.ValidationFields("invalid request", FormatValidationErrors(verrs))
	}
	return apperr.Validation("invalid request: %v", err)
}

func FormatValidationErrors(errs validator.ValidationErrors) map[string]string {
	errorMessages := make(map[string]string)
	for _, err := range errs {
		field := err.Field()
		switch err.Tag() {
		case "required":
			errorMessages[field] = fmt.Sprintf("%s is required.", field)
		case "email":
			errorMessages[field] = fmt.Sprintf("%s must be a valid email address.", field)
		case "min":
			errorMessages[field] = fmt.Sprintf("%s must be at least %s.", field, err.Param())
		case "max":
			errorMessages[field] = fmt.Sprintf("%s must be at most %s.", field, err.Param())
		default:
			errorMessages[field] = fmt.Sprintf("%s failed on the %s rule.", field, err.Tag())
		}
	}
	return errorMessages
}

// BaseURL is the scheme and host the client used to reach us, for building
// absolute callback URLs. fallback wins when set.
func BaseURL(r *http.Request, fallback string) string {
	if fallback != "" {
		return strings.TrimRight(fallback, "/")
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if fwd := r.Header.Get("X-Forwarded-Proto"); fwd != "" {
		scheme = fwd
	}
	return scheme + "://" + r.Host
}
