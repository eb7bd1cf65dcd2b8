package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/Rakhulsr/go-foodie/app/apperr"
	"github.com/Rakhulsr/go-foodie/app/helpers"
	"github.com/Rakhulsr/go-foodie/app/middlewares"
	"github.com/Rakhulsr/go-foodie/app/services"
	"github.com/Rakhulsr/go-foodie/app/utils/format"
	"github.com/unrolled/render"
)

type PaymentResponse struct {
	URL           string `json:"url"`
	OrderID       string `json:"order_id"`
	TransactionID string `json:"transaction_id"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	DisplayAmount string `json:"display_amount"`
}

type PaymentHandler struct {
	paymentSvc    *services.PaymentService
	render        *render.Render
	appURL        string
	storefrontURL string
}

// NewPaymentHandler builds the payment endpoints. appURL is the public base
// for callback URLs; when empty the request host is used.
func NewPaymentHandler(paymentSvc *services.PaymentService, render *render.Render, appURL, storefrontURL string) *PaymentHandler {
	return &PaymentHandler{
		paymentSvc:    paymentSvc,
		render:        render,
		appURL:        appURL,
		storefrontURL: storefrontURL,
	}
}

func (h *PaymentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	user := helpers.CurrentUser(r)

	session, err := h.paymentSvc.InitiatePayment(r.Context(), user, helpers.BaseURL(r, h.appURL))
	middlewares.RecordOrderOperation("payment_create", err == nil)
	if err != nil {
		helpers.RespondError(h.render, w, r, err)
		return
	}

	h.render.JSON(w, http.StatusOK, PaymentResponse{
		URL:           session.RedirectURL,
		OrderID:       session.OrderID,
		TransactionID: session.TransactionID,
		Amount:        session.Amount.StringFixed(2),
		Currency:      session.Currency,
		DisplayAmount: format.Money(session.Amount, session.Currency),
	})
}

// Success, Fail and Cancel are the browser return URLs. The gateway may use
// GET or a form POST, so ids are read with FormValue.
func (h *PaymentHandler) Success(w http.ResponseWriter, r *http.Request) {
	_, err := h.paymentSvc.OnSuccess(r.Context(), r.FormValue("order_id"), r.FormValue("tran_id"))
	middlewares.RecordOrderOperation("payment_success", err == nil)
	if err != nil {
		helpers.RespondError(h.render, w, r, err)
		return
	}
	http.Redirect(w, r, h.storefrontURL, http.StatusFound)
}

func (h *PaymentHandler) Fail(w http.ResponseWriter, r *http.Request) {
	order, err := h.paymentSvc.OnFail(r.Context(), r.FormValue("order_id"), r.FormValue("tran_id"))
	middlewares.RecordOrderOperation("payment_fail", err == nil)
	if err != nil {
		helpers.RespondError(h.render, w, r, err)
		return
	}
	h.render.HTML(w, http.StatusOK, "payments/fail", map[string]interface{}{
		"Title": "Payment failed",
		"Order": order,
	})
}

func (h *PaymentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	order, err := h.paymentSvc.OnCancel(r.Context(), r.FormValue("order_id"), r.FormValue("tran_id"))
	middlewares.RecordOrderOperation("payment_cancel", err == nil)
	if err != nil {
		helpers.RespondError(h.render, w, r, err)
		return
	}
	h.render.HTML(w, http.StatusOK, "payments/cancel", map[string]interface{}{
		"Title": "Payment cancelled",
		"Order": order,
	})
}

func (h *PaymentHandler) MidtransNotification(w http.ResponseWriter, r *http.Request) {
	var payload services.MidtransNotification
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		helpers.RespondError(h.render, w, r, apperr.Validation("malformed notification body"))
		return
	}

	order, err := h.paymentSvc.HandleMidtransNotification(r.Context(), payload)
	middlewares.RecordOrderOperation("payment_notification", err == nil)
	if err != nil {
		log.Printf("PaymentHandler.MidtransNotification: %s: %v", payload.OrderID, err)
		helpers.RespondError(h.render, w, r, err)
		return
	}

	resp := map[string]string{"status": "ok"}
	if order != nil {
		resp["order_status"] = string(order.Status)
	}
	h.render.JSON(w, http.StatusOK, resp)
}
