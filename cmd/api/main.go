package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dentflow/dentflow/internal/config"
	v1 "github.com/dentflow/dentflow/internal/handler/v1"
	"github.com/dentflow/dentflow/internal/repository/postgres"
	"github.com/dentflow/dentflow/internal/service"
	"github.com/dentflow/dentflow/pkg/auth"
	"github.com/dentflow/dentflow/pkg/cache"
	"github.com/dentflow/dentflow/pkg/database"
	"github.com/dentflow/dentflow/pkg/logger"
	"github.com/dentflow/dentflow/pkg/metrics"
	"github.com/dentflow/dentflow/pkg/tracer"
)

func main() {
	// Missing .env is fine; environment variables win either way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	tp, err := tracer.Init(cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Warn("tracer shutdown failed", zap.Error(err))
		}
	}()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	if err := database.Migrate(db, log); err != nil {
		return err
	}

	m := metrics.NewCollector("dentflow")
	if sqlDB, err := db.DB(); err == nil {
		m.DBConnections.Set(float64(sqlDB.Stats().OpenConnections))
	}

	var slotCache *cache.SlotCache
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			log.Warn("redis unreachable, slot cache disabled", zap.Error(err))
		} else {
			slotCache = cache.NewSlotCache(rdb, cfg.Redis.SlotTTL)
			log.Info("slot cache enabled", zap.String("addr", cfg.Redis.Addr))
		}
	}

	loc, err := cfg.Clinic.Location()
	if err != nil {
		return err
	}

	apptRepo := postgres.NewAppointmentRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)
	treatmentRepo := postgres.NewTreatmentRepository(db)
	lesionRepo := postgres.NewLesionRepository(db)
	odontogramRepo := postgres.NewOdontogramRepository(db)
	userRepo := postgres.NewUserRepository(db)
	auditRepo := postgres.NewAuditRepository(db)

	auditSvc := service.NewAuditService(auditRepo, m, log)
	defer auditSvc.Shutdown()

	jwtManager := auth.NewJWTManager(cfg.JWT)
	checker := service.NewOverlapChecker(apptRepo)

	scheduleSvc, err := service.NewScheduleService(apptRepo, doctorRepo, cfg.Clinic, slotCache, m, log)
	if err != nil {
		return err
	}

	deps := v1.RouterDeps{
		Config:     cfg,
		Log:        log,
		Metrics:    m,
		JWTManager: jwtManager,

		AuthSvc:        service.NewAuthService(userRepo, jwtManager, auditSvc, log),
		PatientSvc:     service.NewPatientService(patientRepo, auditSvc, m, log),
		DoctorSvc:      service.NewDoctorService(doctorRepo, auditSvc, log),
		ScheduleSvc:    scheduleSvc,
		AppointmentSvc: service.NewAppointmentService(apptRepo, patientRepo, doctorRepo, checker, slotCache, auditSvc, m, log, loc),
		CatalogSvc:     service.NewCatalogService(treatmentRepo, lesionRepo, auditSvc, log),
		OdontogramSvc:  service.NewOdontogramService(odontogramRepo, patientRepo, auditSvc, log),
	}

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      v1.NewRouter(deps),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.App.Environment),
			zap.String("version", cfg.App.Version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	log.Info("server stopped")
	return nil
}
