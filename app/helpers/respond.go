package helpers

import (
	"errors"
	"log"
	"net/http"

	"github.com/Rakhulsr/go-foodie/app/apperr"
	"github.com/unrolled/render"
)

type ErrorBody struct {
	Error   apperr.Kind       `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func StatusForKind(kind apperr.Kind) int {
	switch kind {
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindGateway:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes err as {"error": kind, "message": msg}. Internal errors
// are logged and their details are not sent to the client.
func RespondError(rnd *render.Render, w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.KindInternal {
		log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
	}

	body := ErrorBody{Error: kind, Message: apperr.MessageOf(err)}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		body.Fields = appErr.Fields
	}
	_ = rnd.JSON(w, StatusForKind(kind), body)
}
