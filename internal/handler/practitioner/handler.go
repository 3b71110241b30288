package practitioner

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/denticore/clinic-api/internal/middleware"
	"github.com/denticore/clinic-api/internal/model"
	"github.com/denticore/clinic-api/internal/service/practitioner"
	apperrors "github.com/denticore/clinic-api/pkg/errors"
	"github.com/denticore/clinic-api/pkg/httputil"
)

type Handler struct {
	service practitioner.Service
	auth    *middleware.AuthMiddleware
}

func NewHandler(service practitioner.Service, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{service: service, auth: auth}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	read := h.auth.RequirePermission("practitioners:read")
	write := h.auth.RequirePermission("practitioners:write")

	practitioners := rg.Group("/practitioners")
	{
		practitioners.POST("", write, h.Create)
		practitioners.GET("", read, h.List)
		practitioners.GET("/:id", read, h.Get)
		practitioners.PUT("/:id", write, h.Update)
		practitioners.DELETE("/:id", write, h.Delete)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreatePractitionerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	p, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, p)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid practitioner id"))
		return
	}

	p, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, p)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid practitioner id"))
		return
	}

	var req model.UpdatePractitionerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	p, err := h.service.Update(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, p)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid practitioner id"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"deleted": id})
}

func (h *Handler) List(c *gin.Context) {
	activeOnly, _ := strconv.ParseBool(c.DefaultQuery("active_only", "false"))

	practitioners, err := h.service.List(c.Request.Context(), activeOnly)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, practitioners)
}
