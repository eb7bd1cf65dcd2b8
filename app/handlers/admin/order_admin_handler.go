package admin

import (
	"log"
	"net/http"

	"github.com/Rakhulsr/go-foodie/app/helpers"
	"github.com/Rakhulsr/go-foodie/app/middlewares"
	"github.com/Rakhulsr/go-foodie/app/services"
	"github.com/gorilla/mux"
)

// ListOrders returns every customer's orders, newest first, optionally
// filtered by ?status=.
func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderSvc.ListAllOrders(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		helpers.RespondError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, orders)
}

func (h *AdminHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orderSvc.GetOrder(r.Context(), helpers.CurrentUser(r), mux.Vars(r)["id"])
	if err != nil {
		helpers.RespondError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, order)
}

func (h *AdminHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	orderID := mux.Vars(r)["id"]

	var input services.UpdateOrderInput
	if err := helpers.DecodeJSONBody(r, &input); err != nil {
		helpers.RespondError(h.render, w, r, err)
		return
	}

	order, err := h.orderSvc.UpdateOrderAdmin(r.Context(), orderID, input)
	middlewares.RecordOrderOperation("admin_update", err == nil)
	if err != nil {
		helpers.RespondError(h.render, w, r, err)
		return
	}

	log.Printf("AdminHandler.UpdateOrder: %s updated order %s to %s", helpers.CurrentUser(r).Username, orderID, order.Status)
	h.render.JSON(w, http.StatusOK, order)
}
