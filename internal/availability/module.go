// Package availability provides the appointment availability module.
package availability

import (
	"appraisal_portal_backend/internal/availability/handler"
	"appraisal_portal_backend/internal/availability/service"
	apphttp "appraisal_portal_backend/internal/http"
	"appraisal_portal_backend/platform/validator"
)

type Module struct {
	handler *handler.Handler
}

func NewModule(checker *service.Checker, val *validator.Validator) *Module {
	return &Module{handler: handler.New(checker, val)}
}

func (m *Module) Name() string { return "availability" }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Public.GET("/availability/slots", m.handler.Slots)
}

var _ apphttp.Module = (*Module)(nil)
