package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Rakhulsr/go-foodie/app/apperr"
	"github.com/Rakhulsr/go-foodie/app/configs"
)

const (
	sslcommerzSandboxURL = "https://sandbox.sslcommerz.com"
	sslcommerzLiveURL    = "https://securepay.sslcommerz.com"
	sslcommerzSessionAPI = "/gwprocess/v4/api.php"
)

type sslcommerzResponse struct {
	Status         string `json:"status"`
	FailedReason   string `json:"failedreason"`
	SessionKey     string `json:"sessionkey"`
	GatewayPageURL string `json:"GatewayPageURL"`
}

type SSLCommerzGateway struct {
	storeID   string
	storePass string
	baseURL   string
	client    *http.Client
}

func NewSSLCommerzGateway(storeID, storePass, baseURL string, client *http.Client) *SSLCommerzGateway {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &SSLCommerzGateway{
		storeID:   storeID,
		storePass: storePass,
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    client,
	}
}

func NewSSLCommerzGatewayFromEnv(env configs.ENV) *SSLCommerzGateway {
	base := env.SSLCommerzBaseURL
	if base == "" {
		base = sslcommerzLiveURL
		if env.SSLCommerzSandbox {
			base = sslcommerzSandboxURL
		}
	}
	return NewSSLCommerzGateway(env.SSLCommerzStoreID, env.SSLCommerzPass, base, nil)
}

func (g *SSLCommerzGateway) Name() string { return GatewaySSLCommerz }

func (g *SSLCommerzGateway) CreateSession(ctx context.Context, req SessionRequest) (*Session, error) {
	form := g.sessionForm(req)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+sslcommerzSessionAPI, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, apperr.Gateway(err, "unable to create payment session")
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		log.Printf("SSLCommerzGateway.CreateSession: request for order %s failed: %v", req.OrderID, err)
		return nil, apperr.Gateway(err, "unable to create payment session")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, apperr.Gateway(err, "unable to create payment session")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("SSLCommerzGateway.CreateSession: order %s got HTTP %d", req.OrderID, resp.StatusCode)
		return nil, apperr.Gateway(fmt.Errorf("unexpected status %d", resp.StatusCode), "unable to create payment session")
	}

	var out sslcommerzResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, apperr.Gateway(err, "unable to create payment session")
	}
	if out.Status != "SUCCESS" || out.GatewayPageURL == "" {
		log.Printf("SSLCommerzGateway.CreateSession: order %s rejected: status=%q reason=%q", req.OrderID, out.Status, out.FailedReason)
		return nil, apperr.Gateway(fmt.Errorf("session status %q", out.Status), "unable to create payment session")
	}

	return &Session{RedirectURL: out.GatewayPageURL, Reference: out.SessionKey}, nil
}

func (g *SSLCommerzGateway) sessionForm(req SessionRequest) url.Values {
	form := url.Values{}
	form.Set("store_id", g.storeID)
	form.Set("store_passwd", g.storePass)
	form.Set("total_amount", req.Amount.StringFixed(2))
	form.Set("currency", req.Currency)
	form.Set("tran_id", req.TransactionID)
	form.Set("success_url", req.SuccessURL)
	form.Set("fail_url", req.FailURL)
	form.Set("cancel_url", req.CancelURL)
	form.Set("emi_option", "0")
	form.Set("cus_name", req.Payer.Username)
	form.Set("cus_email", req.Payer.Email)
	form.Set("cus_phone", req.Payer.Phone)
	form.Set("cus_add1", req.ShippingAddress)
	form.Set("cus_city", req.ShippingCity)
	form.Set("cus_country", req.ShippingCountry)
	form.Set("shipping_method", "NO")
	form.Set("num_of_item", strconv.Itoa(len(req.Items)))
	form.Set("product_name", productNames(req.Items))
	form.Set("product_category", "food")
	form.Set("product_profile", "general")
	form.Set("value_a", req.OrderID)
	return form
}

func productNames(items []SessionItem) string {
	if len(items) == 0 {
		return "Order"
	}
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name)
	}
	return strings.Join(names, ", ")
}
