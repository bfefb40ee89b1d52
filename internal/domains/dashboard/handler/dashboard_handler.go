package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"publisher-backoffice/internal/domains/dashboard/service"
	"publisher-backoffice/internal/shared/response"
)

type DashboardHandler struct {
	service service.ServiceInterface
}

func NewDashboardHandler(svc service.ServiceInterface) *DashboardHandler {
	return &DashboardHandler{service: svc}
}

// GET /v1/dashboard
func (h *DashboardHandler) Summary(c *gin.Context) {
	s, err := h.service.Summary(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Get dashboard successfully", s.ToResponse())
}
