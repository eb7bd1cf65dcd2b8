package handlers

import (
	"net/http"

	"github.com/Rakhulsr/go-foodie/app/helpers"
	"github.com/Rakhulsr/go-foodie/app/services"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
)

type CatalogHandler struct {
	catalogSvc *services.CatalogService
	reviewSvc  *services.ReviewService
	render     *render.Render
}

func NewCatalogHandler(catalogSvc *services.CatalogService, reviewSvc *services.ReviewService, render *render.Render) *CatalogHandler {
	return &CatalogHandler{catalogSvc: catalogSvc, reviewSvc: reviewSvc, render: render}
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.catalogSvc.ListCategories(r.Context())
	if err != nil {
		helpers.RespondError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, categories)
}

// ListFoodItems supports ?category=<slug> and a case-insensitive ?search= over
// name and description.
func (h *CatalogHandler) ListFoodItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, err := h.catalogSvc.ListFoodItems(r.Context(), q.Get("category"), q.Get("search"))
	if err != nil {
		helpers.RespondError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, items)
}

func (h *CatalogHandler) FoodItemsByCategory(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalogSvc.FoodItemsByCategory(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		helpers.RespondError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, items)
}

func (h *CatalogHandler) GetFoodItem(w http.ResponseWriter, r *http.Request) {
	item, err := h.catalogSvc.GetFoodItem(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		helpers.RespondError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, item)
}

func (h *CatalogHandler) Specials(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalogSvc.Specials(r.Context())
	if err != nil {
		helpers.RespondError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, items)
}

func (h *CatalogHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviewSvc.ListReviews(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		helpers.RespondError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusOK, reviews)
}

func (h *CatalogHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var input services.ReviewInput
	if err := helpers.DecodeJSONBody(r, &input); err != nil {
		helpers.RespondError(h.render, w, r, err)
		return
	}

	review, err := h.reviewSvc.CreateReview(r.Context(), helpers.CurrentUser(r), mux.Vars(r)["id"], input)
	if err != nil {
		helpers.RespondError(h.render, w, r, err)
		return
	}
	h.render.JSON(w, http.StatusCreated, review)
}
