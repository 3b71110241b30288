package router

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/denticore/clinic-api/internal/middleware"
	"github.com/denticore/clinic-api/internal/model"
	"github.com/denticore/clinic-api/pkg/logger"
)

// Handler is anything that can mount its routes on a group.
type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

type Router struct {
	engine        *gin.Engine
	auth          *middleware.AuthMiddleware
	authH         Handler
	healthH       Handler
	appointmentH  Handler
	patientH      Handler
	practitionerH Handler
	treatmentH    Handler
	invoiceH      Handler
	dashboardH    Handler
	metrics       *routerMetrics
}

type Config struct {
	RateLimitRPS   float64
	RateLimitBurst int
	Timeout        time.Duration
	CORS           middleware.CORSConfig
	MetricsPrefix  string
}

func DefaultConfig() Config {
	return Config{
		RateLimitRPS:   50,
		RateLimitBurst: 100,
		Timeout:        30 * time.Second,
		CORS:           middleware.DefaultCORSConfig(),
		MetricsPrefix:  "clinic_api",
	}
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
}

func New(
	log *logger.Logger,
	auth *middleware.AuthMiddleware,
	authH Handler,
	healthH Handler,
	appointmentH Handler,
	patientH Handler,
	practitionerH Handler,
	treatmentH Handler,
	invoiceH Handler,
	dashboardH Handler,
	config Config,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	registerValidations()
	engine := gin.New()

	r := &Router{
		engine:        engine,
		auth:          auth,
		authH:         authH,
		healthH:       healthH,
		appointmentH:  appointmentH,
		patientH:      patientH,
		practitionerH: practitionerH,
		treatmentH:    treatmentH,
		invoiceH:      invoiceH,
		dashboardH:    dashboardH,
		metrics:       newRouterMetrics(config.MetricsPrefix),
	}

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RPS:   config.RateLimitRPS,
		Burst: config.RateLimitBurst,
	})

	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(log),
		r.metricsMiddleware(),
		middleware.Timeout(middleware.TimeoutConfig{Duration: config.Timeout}),
		middleware.CORS(config.CORS),
		rateLimiter.RateLimit(),
	)

	return r
}

func (r *Router) Setup() {
	api := r.engine.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		c.Header("X-API-Version", "1.0")
		c.Next()
	})

	r.healthH.RegisterRoutes(api)
	r.authH.RegisterRoutes(api)

	protected := api.Group("")
	protected.Use(r.auth.Authenticate())

	r.appointmentH.RegisterRoutes(protected)
	r.patientH.RegisterRoutes(protected)
	r.practitionerH.RegisterRoutes(protected)
	r.treatmentH.RegisterRoutes(protected)
	r.invoiceH.RegisterRoutes(protected)
	r.dashboardH.RegisterRoutes(protected)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

// registerValidations adds custom binding validators so malformed enum values
// are rejected at the edge.
func registerValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("appointment_status", func(fl validator.FieldLevel) bool {
		switch model.AppointmentStatus(fl.Field().String()) {
		case model.AppointmentStatusScheduled,
			model.AppointmentStatusConfirmed,
			model.AppointmentStatusCompleted,
			model.AppointmentStatusCancelled,
			model.AppointmentStatusNoShow:
			return true
		}
		return false
	})
	_ = v.RegisterValidation("invoice_status", func(fl validator.FieldLevel) bool {
		switch model.InvoiceStatus(fl.Field().String()) {
		case model.InvoiceStatusDraft,
			model.InvoiceStatusSent,
			model.InvoiceStatusPaid,
			model.InvoiceStatusPartial,
			model.InvoiceStatusOverdue,
			model.InvoiceStatusCancelled:
			return true
		}
		return false
	})
}

func newRouterMetrics(prefix string) *routerMetrics {
	return &routerMetrics{
		requestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: prefix + "_request_duration_seconds",
				Help: "Duration of HTTP requests in seconds",
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: prefix + "_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
	}
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()

		c.Next()

		status := fmt.Sprintf("%d", c.Writer.Status())
		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}
