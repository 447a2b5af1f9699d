// Package wizard provides the public quote wizard module.
package wizard

import (
	apphttp "appraisal_portal_backend/internal/http"
	"appraisal_portal_backend/internal/wizard/handler"
	"appraisal_portal_backend/internal/wizard/service"
	"appraisal_portal_backend/platform/validator"
)

type Module struct {
	handler *handler.Handler
}

func NewModule(svc *service.Service, val *validator.Validator) *Module {
	return &Module{handler: handler.New(svc, val)}
}

func (m *Module) Name() string { return "wizard" }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Public.GET("/appraisal-options", m.handler.AppraisalOptions)

	sessions := ctx.Public.Group("/quote-sessions")
	sessions.POST("", m.handler.Create)
	sessions.GET("/:id", m.handler.Get)
	sessions.POST("/:id/actions", m.handler.Apply)
	sessions.POST("/:id/submit", m.handler.Submit)
	sessions.DELETE("/:id", m.handler.Close)
	sessions.GET("/:id/slots", m.handler.Slots)
}

var _ apphttp.Module = (*Module)(nil)
