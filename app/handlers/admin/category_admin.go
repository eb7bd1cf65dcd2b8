package admin

import (
	"net/http"

	"github.com/Rakhulsr/go-foodie/app/helpers"
	"github.com/Rakhulsr/go-foodie/app/services"
	"github.com/gorilla/mux"
)

func (h *AdminHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var input services.CategoryInput
	if err := helpers.DecodeJSONBody(r, &input); err != nil {
		helpers.RespondError(h.render, w, r, err)
		return
	}

	category, err := h.catalogSvc.CreateCategory(r.Context(), input)
	if err != nil {
		helpers.RespondError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusCreated, category)
}

func (h *AdminHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var input services.CategoryInput
	if err := helpers.DecodeJSONBody(r, &input); err != nil {
		helpers.RespondError(h.render, w, r, err)
		return
	}

	category, err := h.catalogSvc.UpdateCategory(r.Context(), mux.Vars(r)["id"], input)
	if err != nil {
		helpers.RespondError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, category)
}

func (h *AdminHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.catalogSvc.DeleteCategory(r.Context(), mux.Vars(r)["id"]); err != nil {
		helpers.RespondError(h.render, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
