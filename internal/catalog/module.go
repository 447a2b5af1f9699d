package catalog

import (
	apphttp "appraisal_portal_backend/internal/http"
)

// Module exposes the service catalog over HTTP.
type Module struct {
	handler *Handler
}

func NewModule(c *Catalog) *Module {
	return &Module{handler: NewHandler(c)}
}

func (m *Module) Name() string { return "catalog" }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Public.GET("/services", m.handler.List)
}

var _ apphttp.Module = (*Module)(nil)
