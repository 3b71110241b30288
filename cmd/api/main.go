package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/denticore/clinic-api/internal/config"
	appointmentHandler "github.com/denticore/clinic-api/internal/handler/appointment"
	authHandler "github.com/denticore/clinic-api/internal/handler/auth"
	dashboardHandler "github.com/denticore/clinic-api/internal/handler/dashboard"
	healthHandler "github.com/denticore/clinic-api/internal/handler/health"
	invoiceHandler "github.com/denticore/clinic-api/internal/handler/invoice"
	patientHandler "github.com/denticore/clinic-api/internal/handler/patient"
	practitionerHandler "github.com/denticore/clinic-api/internal/handler/practitioner"
	treatmentHandler "github.com/denticore/clinic-api/internal/handler/treatment"
	"github.com/denticore/clinic-api/internal/middleware"
	"github.com/denticore/clinic-api/internal/repository/postgres"
	"github.com/denticore/clinic-api/internal/router"
	"github.com/denticore/clinic-api/internal/scheduling"
	appointmentService "github.com/denticore/clinic-api/internal/service/appointment"
	authService "github.com/denticore/clinic-api/internal/service/auth"
	dashboardService "github.com/denticore/clinic-api/internal/service/dashboard"
	invoiceService "github.com/denticore/clinic-api/internal/service/invoice"
	patientService "github.com/denticore/clinic-api/internal/service/patient"
	practitionerService "github.com/denticore/clinic-api/internal/service/practitioner"
	treatmentService "github.com/denticore/clinic-api/internal/service/treatment"
	"github.com/denticore/clinic-api/pkg/auth"
	"github.com/denticore/clinic-api/pkg/locker"
	"github.com/denticore/clinic-api/pkg/logger"
	"github.com/denticore/clinic-api/pkg/metrics"
	"github.com/denticore/clinic-api/pkg/security"
)

func main() {
	log := logger.New(nil)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err, "failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	clinicHours, err := buildClinicHours(cfg.Clinic)
	if err != nil {
		log.Fatal(err, "invalid clinic configuration")
	}

	m := metrics.New("clinic")

	// Repositories
	appointmentRepo := postgres.NewAppointmentRepository(db, m)
	practitionerRepo := postgres.NewPractitionerRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	treatmentRepo := postgres.NewTreatmentRepository(db)
	invoiceRepo := postgres.NewInvoiceRepository(db)
	userRepo := postgres.NewUserRepository(db)
	dashboardRepo := postgres.NewDashboardRepository(db)

	// Shared infrastructure
	practitionerLock := locker.NewRedisLocker(redisClient, time.Duration(cfg.Clinic.LockTTLSeconds)*time.Second)
	jwtSvc := auth.NewJWTService(auth.Config{
		Secret:        cfg.JWT.Secret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		Expiry:        time.Duration(cfg.JWT.ExpiryHours) * time.Hour,
		RefreshExpiry: time.Duration(cfg.JWT.RefreshExpiryHours) * time.Hour,
	})
	hasher := security.NewBcryptHasher(0)

	// Services
	appointmentSvc := appointmentService.NewService(appointmentRepo, practitionerRepo, patientRepo, practitionerLock, clinicHours, m)
	patientSvc := patientService.NewService(patientRepo)
	practitionerSvc := practitionerService.NewService(practitionerRepo)
	treatmentSvc := treatmentService.NewService(treatmentRepo)
	invoiceSvc := invoiceService.NewService(invoiceRepo, patientRepo)
	authSvc := authService.NewService(userRepo, jwtSvc, hasher, log)
	dashboardSvc := dashboardService.NewService(dashboardRepo)

	// HTTP layer
	authMiddleware := middleware.NewAuthMiddleware(jwtSvc)
	r := router.New(
		log,
		authMiddleware,
		authHandler.NewHandler(authSvc),
		healthHandler.NewHandler(db, redisClient),
		appointmentHandler.NewHandler(appointmentSvc, authMiddleware),
		patientHandler.NewHandler(patientSvc, authMiddleware),
		practitionerHandler.NewHandler(practitionerSvc, authMiddleware),
		treatmentHandler.NewHandler(treatmentSvc, authMiddleware),
		invoiceHandler.NewHandler(invoiceSvc, authMiddleware),
		dashboardHandler.NewHandler(dashboardSvc, authMiddleware),
		router.DefaultConfig(),
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err, "server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error(err, "forced shutdown")
	}
}

func buildClinicHours(cfg config.ClinicConfig) (appointmentService.ClinicHours, error) {
	open, close, err := cfg.WorkingHours()
	if err != nil {
		return appointmentService.ClinicHours{}, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return appointmentService.ClinicHours{}, err
	}
	return appointmentService.ClinicHours{
		Window:              scheduling.WorkingWindow{Open: open, Close: close},
		DefaultSlotDuration: time.Duration(cfg.DefaultSlotMinutes) * time.Minute,
		Location:            loc,
	}, nil
}
