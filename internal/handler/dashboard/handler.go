package dashboard

import (
	"github.com/gin-gonic/gin"

	"github.com/denticore/clinic-api/internal/middleware"
	"github.com/denticore/clinic-api/internal/service/dashboard"
	"github.com/denticore/clinic-api/pkg/httputil"
)

type Handler struct {
	service dashboard.Service
	auth    *middleware.AuthMiddleware
}

func NewHandler(service dashboard.Service, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{service: service, auth: auth}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.auth.RequirePermission("dashboard:read"), h.Overview)
}

func (h *Handler) Overview(c *gin.Context) {
	overview, err := h.service.Overview(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, overview)
}
