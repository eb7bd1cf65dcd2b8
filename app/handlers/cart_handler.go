package handlers

import (
	"log"
	"net/http"

	"github.com/Rakhulsr/go-foodie/app/helpers"
	"github.com/Rakhulsr/go-foodie/app/services"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
)

type AddCartItemRequest struct {
	FoodItemID string `json:"food_item_id" validate:"required"`
	Quantity   int    `json:"quantity" validate:"required,min=1"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1"`
}

type CartHandler struct {
	cartSvc *services.CartService
	render  *render.Render
}

func NewCartHandler(cartSvc *services.CartService, render *render.Render) *CartHandler {
	return &CartHandler{cartSvc: cartSvc, render: render}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	user := helpers.CurrentUser(r)

	items, err := h.cartSvc.ListCart(r.Context(), user.ID)
	if err != nil {
		helpers.RespondError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, items)
}

func (h *CartHandler) AddToCart(w http.ResponseWriter, r *http.Request) {
	user := helpers.CurrentUser(r)

	var req AddCartItemRequest
	if err := helpers.DecodeJSONBody(r, &req); err != nil {
		helpers.RespondError(h.render, w, r, err)
		return
	}

	item, err := h.cartSvc.AddToCart(r.Context(), user.ID, req.FoodItemID, req.Quantity)
	if err != nil {
		log.Printf("CartHandler.AddToCart: user %s item %s: %v", user.ID, req.FoodItemID, err)
		helpers.RespondError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusCreated, item)
}

func (h *CartHandler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	user := helpers.CurrentUser(r)

	var req UpdateCartItemRequest
	if err := helpers.DecodeJSONBody(r, &req); err != nil {
		helpers.RespondError(h.render, w, r, err)
		return
	}

	item, err := h.cartSvc.UpdateQuantity(r.Context(), user.ID, mux.Vars(r)["id"], req.Quantity)
	if err != nil {
		helpers.RespondError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, item)
}

func (h *CartHandler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	user := helpers.CurrentUser(r)

	if err := h.cartSvc.Remove(r.Context(), user.ID, mux.Vars(r)["id"]); err != nil {
		helpers.RespondError(h.render, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) CartCount(w http.ResponseWriter, r *http.Request) {
	user := helpers.CurrentUser(r)

	count, err := h.cartSvc.Count(r.Context(), user.ID)
	if err != nil {
		helpers.RespondError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, map[string]int{"count": count})
}
