// Package properties looks up county property records and normalises them.
package properties

import (
	apphttp "appraisal_portal_backend/internal/http"
)

// Module wires the property search HTTP routes.
type Module struct {
	handler *Handler
}

func NewModule(svc *Service) *Module {
	return &Module{handler: NewHandler(svc)}
}

func (m *Module) Name() string {
	return "properties"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Public.GET("/properties/search", m.handler.Search)
}

var _ apphttp.Module = (*Module)(nil)
