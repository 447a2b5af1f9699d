package catalog

import (
	"appraisal_portal_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Handler serves the public service list.
type Handler struct {
	catalog *Catalog
}

func NewHandler(c *Catalog) *Handler {
	return &Handler{catalog: c}
}

type serviceListResponse struct {
	Items []Service `json:"items"`
}

// List returns all services.
// GET /api/v1/services
func (h *Handler) List(c *gin.Context) {
	httpkit.OK(c, serviceListResponse{Items: h.catalog.All()})
}
