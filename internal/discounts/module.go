// Package discounts provides the discount code bounded context module.
package discounts

import (
	"appraisal_portal_backend/internal/discounts/handler"
	"appraisal_portal_backend/internal/discounts/service"
	apphttp "appraisal_portal_backend/internal/http"
	"appraisal_portal_backend/platform/validator"
)

type Module struct {
	handler *handler.Handler
}

func NewModule(resolver *service.Resolver, admin *service.Admin, val *validator.Validator) *Module {
	return &Module{handler: handler.New(resolver, admin, val)}
}

func (m *Module) Name() string { return "discounts" }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Public.POST("/discounts/validate", m.handler.Validate)

	admin := ctx.Admin.Group("/discounts")
	admin.GET("", m.handler.List)
	admin.POST("", m.handler.Create)
	admin.GET("/:id", m.handler.GetByID)
	admin.PUT("/:id", m.handler.Update)
	admin.DELETE("/:id", m.handler.Delete)
	admin.PATCH("/:id/toggle-active", m.handler.ToggleActive)
}

var _ apphttp.Module = (*Module)(nil)
