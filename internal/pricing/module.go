// Package pricing provides the tier pricing bounded context module.
package pricing

import (
	apphttp "appraisal_portal_backend/internal/http"
	"appraisal_portal_backend/internal/pricing/handler"
	"appraisal_portal_backend/internal/pricing/service"
	"appraisal_portal_backend/platform/validator"
)

// Module is the pricing bounded context module implementing http.Module.
type Module struct {
	handler  *handler.Handler
	resolver *service.Resolver
}

// NewModule wires the resolver and the admin editor into HTTP routes. The
// resolver is shared with the quote wizard and the submission builder.
func NewModule(resolver *service.Resolver, admin *service.Admin, val *validator.Validator) *Module {
	return &Module{
		handler:  handler.New(resolver, admin, val),
		resolver: resolver,
	}
}

func (m *Module) Name() string { return "pricing" }

// Resolver returns the shared price resolver.
func (m *Module) Resolver() *service.Resolver { return m.resolver }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Public.GET("/pricing/quote", m.handler.Quote)

	admin := ctx.Admin.Group("/pricing/tiers")
	admin.GET("", m.handler.ListTiers)
	admin.PUT("/:tier/:serviceId", m.handler.SetTierPrice)
	admin.DELETE("/:tier/:serviceId", m.handler.DeleteTierPrice)
}

var _ apphttp.Module = (*Module)(nil)
