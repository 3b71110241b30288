package appointment

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/denticore/clinic-api/internal/middleware"
	"github.com/denticore/clinic-api/internal/model"
	"github.com/denticore/clinic-api/internal/service/appointment"
	apperrors "github.com/denticore/clinic-api/pkg/errors"
	"github.com/denticore/clinic-api/pkg/httputil"
)

type Handler struct {
	service appointment.Service
	auth    *middleware.AuthMiddleware
}

func NewHandler(service appointment.Service, auth *middleware.AuthMiddleware) *Handler {
	return &Handler{service: service, auth: auth}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	read := h.auth.RequirePermission("appointments:read")
	write := h.auth.RequirePermission("appointments:write")

	appointments := rg.Group("/appointments")
	{
		appointments.POST("", write, h.Create)
		appointments.GET("", read, h.List)
		appointments.GET("/slots", read, h.ListAvailableSlots)
		appointments.GET("/:id", read, h.Get)
		appointments.PATCH("/:id/reschedule", write, h.Reschedule)
		appointments.POST("/:id/status", write, h.TransitionStatus)
		appointments.DELETE("/:id", write, h.Delete)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	apt, err := h.service.Propose(c.Request.Context(), &req, currentUserID(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, apt)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid appointment id"))
		return
	}

	apt, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, apt)
}

func (h *Handler) List(c *gin.Context) {
	var filters model.AppointmentFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	appointments, total, err := h.service.List(c.Request.Context(), &filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithPagination(c, appointments, filters.Page, filters.PageSize, total)
}

func (h *Handler) Reschedule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid appointment id"))
		return
	}

	var req model.RescheduleAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	apt, err := h.service.Reschedule(c.Request.Context(), id, &req, currentUserID(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, apt)
}

func (h *Handler) TransitionStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid appointment id"))
		return
	}

	var req model.TransitionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.Validation(err.Error()))
		return
	}

	apt, err := h.service.TransitionStatus(c.Request.Context(), id, req.Status, currentUserID(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, apt)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid appointment id"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"deleted": id})
}

// ListAvailableSlots returns the free slots of a practitioner on a given day.
// Date defaults to today, slot size to the clinic default.
func (h *Handler) ListAvailableSlots(c *gin.Context) {
	practitionerID, err := uuid.Parse(c.Query("practitioner_id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.Validation("invalid practitioner id"))
		return
	}

	day := time.Now()
	if raw := c.Query("date"); raw != "" {
		day, err = time.Parse("2006-01-02", raw)
		if err != nil {
			httputil.RespondWithError(c, apperrors.Validation("invalid date, expected YYYY-MM-DD"))
			return
		}
	}

	var slotDuration time.Duration
	if raw := c.Query("slot_minutes"); raw != "" {
		minutes, err := time.ParseDuration(raw + "m")
		if err != nil {
			httputil.RespondWithError(c, apperrors.Validation("invalid slot_minutes"))
			return
		}
		slotDuration = minutes
	}

	slots, err := h.service.ListAvailableSlots(c.Request.Context(), practitionerID, day, slotDuration)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{
		"practitioner_id": practitionerID,
		"date":            day.Format("2006-01-02"),
		"slots":           slots,
	})
}

func currentUserID(c *gin.Context) uuid.UUID {
	if claims, ok := middleware.ClaimsFromContext(c); ok {
		return claims.UserID
	}
	return uuid.Nil
}
