// Package jobs provides the admin job back office module.
package jobs

import (
	apphttp "appraisal_portal_backend/internal/http"
	"appraisal_portal_backend/internal/jobs/handler"
	"appraisal_portal_backend/internal/jobs/service"
	"appraisal_portal_backend/platform/validator"
)

type Module struct {
	handler *handler.Handler
}

func NewModule(svc *service.Service, val *validator.Validator) *Module {
	return &Module{handler: handler.New(svc, val)}
}

func (m *Module) Name() string { return "jobs" }

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	jobs := ctx.Admin.Group("/jobs")
	jobs.GET("", m.handler.List)
	jobs.GET("/:id", m.handler.GetByID)
	jobs.PATCH("/:id/status", m.handler.UpdateStatus)
	jobs.GET("/:id/quote-pdf", m.handler.QuotePDF)
}

var _ apphttp.Module = (*Module)(nil)
