package handlers

import (
	"net/http"

	"github.com/Rakhulsr/go-foodie/app/helpers"
	"github.com/Rakhulsr/go-foodie/app/middlewares"
	"github.com/Rakhulsr/go-foodie/app/services"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
)

type CreateOrderRequest struct {
	Items []services.LineRequest `json:"items" validate:"required,min=1,dive"`
}

type OrderHandler struct {
	orderSvc *services.OrderService
	render   *render.Render
}

func NewOrderHandler(orderSvc *services.OrderService, render *render.Render) *OrderHandler {
	return &OrderHandler{orderSvc: orderSvc, render: render}
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	user := helpers.CurrentUser(r)

	orders, err := h.orderSvc.ListOrders(r.Context(), user.ID)
	if err != nil {
		helpers.RespondError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	user := helpers.CurrentUser(r)

	var req CreateOrderRequest
	if err := helpers.DecodeJSONBody(r, &req); err != nil {
		helpers.RespondError(h.render, w, r, err)
		return
	}

	order, err := h.orderSvc.CreateOrderFromItems(r.Context(), user.ID, req.Items)
	middlewares.RecordOrderOperation("create", err == nil)
	if err != nil {
		helpers.RespondError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	user := helpers.CurrentUser(r)

	order, err := h.orderSvc.CheckoutFromCart(r.Context(), user.ID)
	middlewares.RecordOrderOperation("checkout", err == nil)
	if err != nil {
		helpers.RespondError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orderSvc.GetOrder(r.Context(), helpers.CurrentUser(r), mux.Vars(r)["id"])
	if err != nil {
		helpers.RespondError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, order)
}

func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	user := helpers.CurrentUser(r)

	err := h.orderSvc.DeleteOrder(r.Context(), user.ID, mux.Vars(r)["id"])
	middlewares.RecordOrderOperation("delete", err == nil)
	if err != nil {
		helpers.RespondError(h.render, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
