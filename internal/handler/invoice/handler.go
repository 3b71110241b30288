package invoice

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/denticore/clinic-api/internal/middleware"
	"github.com/denticore/clinic-api/internal/model"
	"github.com/denticore/clinic-api/internal/service/invoice"
	apperrors "github.com/denticore/clinic-api/pkg/errors"
	"github.com/denticore/clinic-api/pkg/httputil"
)

type Handler struct {
	service invoice.Service
	auth    *middleware.AuthMiddleware
}

func NewHandler(service invoice.Service, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{service: service, auth: auth}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	read := h.auth.RequirePermission("invoices:read")
	write := h.auth.RequirePermission("invoices:write")

	invoices := rg.Group("/invoices")
	{
		invoices.POST("", write, h.Create)
		invoices.GET("", read, h.List)
		invoices.GET("/:id", read, h.Get)
		invoices.POST("/:id/status", write, h.Transition)
		invoices.POST("/:id/payments", write, h.RecordPayment)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	createdBy := uuid.Nil
	if claims, ok := middleware.ClaimsFromContext(c); ok {
		createdBy = claims.UserID
	}

	inv, err := h.service.Create(c.Request.Context(), &req, createdBy)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, inv)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid invoice id"))
		return
	}

	inv, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, inv)
}

func (h *Handler) List(c *gin.Context) {
	var filters model.InvoiceFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	invoices, total, err := h.service.List(c.Request.Context(), &filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithPagination(c, invoices, filters.Page, filters.PageSize, total)
}

func (h *Handler) Transition(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid invoice id"))
		return
	}

	var req model.TransitionInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	inv, err := h.service.Transition(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, inv)
}

func (h *Handler) RecordPayment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid invoice id"))
		return
	}

	var req model.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	inv, err := h.service.RecordPayment(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, inv)
}
