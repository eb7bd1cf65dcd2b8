package admin

import (
	"net/http"

	"github.com/Rakhulsr/go-foodie/app/helpers"
	"github.com/Rakhulsr/go-foodie/app/services"
	"github.com/gorilla/mux"
)

func (h *AdminHandler) CreateFoodItem(w http.ResponseWriter, r *http.Request) {
	var input services.FoodItemInput
	if err := helpers.DecodeJSONBody(r, &input); err != nil {
		helpers.RespondError(h.render, w, r, err)
		return
	}

	item, err := h.catalogSvc.CreateFoodItem(r.Context(), input)
	if err != nil {
		helpers.RespondError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusCreated, item)
}

func (h *AdminHandler) UpdateFoodItem(w http.ResponseWriter, r *http.Request) {
	var input services.FoodItemInput
	if err := helpers.DecodeJSONBody(r, &input); err != nil {
		helpers.RespondError(h.render, w, r, err)
		return
	}

	item, err := h.catalogSvc.UpdateFoodItem(r.Context(), mux.Vars(r)["id"], input)
	if err != nil {
		helpers.RespondError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, item)
}

func (h *AdminHandler) DeleteFoodItem(w http.ResponseWriter, r *http.Request) {
	if err := h.catalogSvc.DeleteFoodItem(r.Context(), mux.Vars(r)["id"]); err != nil {
		helpers.RespondError(h.render, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
