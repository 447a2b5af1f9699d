package properties

import (
	"errors"
	"net/http"

	"appraisal_portal_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Handler exposes the property search endpoint.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type searchResponse struct {
	Items []PropertyInfo `json:"items"`
}

// Search handles GET /api/v1/properties/search?address=...&limit=...
func (h *Handler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "query 'address' is required (min 3 chars)", nil)
		return
	}

	results, err := h.svc.Search(c.Request.Context(), req.Address, req.Limit)
	if errors.Is(err, ErrLookupDisabled) {
		httpkit.Error(c, http.StatusServiceUnavailable, "property lookup is not available", nil)
		return
	}
	if err != nil {
		httpkit.Error(c, http.StatusBadGateway, "property lookup service unavailable", nil)
		return
	}

	httpkit.OK(c, searchResponse{Items: results})
}
