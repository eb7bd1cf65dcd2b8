package admin

import (
	"github.com/Rakhulsr/go-foodie/app/services"
	"github.com/unrolled/render"
)

type AdminHandler struct {
	orderSvc   *services.OrderService
	catalogSvc *services.CatalogService
	render     *render.Render
}

func NewAdminHandler(orderSvc *services.OrderService, catalogSvc *services.CatalogService, render *render.Render) *AdminHandler {
	return &AdminHandler{
		orderSvc:   orderSvc,
		catalogSvc: catalogSvc,
		render:     render,
	}
}
