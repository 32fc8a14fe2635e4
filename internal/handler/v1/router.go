package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dentflow/dentflow/internal/config"
	"github.com/dentflow/dentflow/internal/domain"
	"github.com/dentflow/dentflow/internal/service"
	"github.com/dentflow/dentflow/pkg/auth"
	"github.com/dentflow/dentflow/pkg/metrics"
)

type RouterDeps struct {
	Config     *config.Config
	Log        *zap.Logger
	Metrics    *metrics.Collector
	JWTManager *auth.JWTManager

	AuthSvc        *service.AuthService
	PatientSvc     *service.PatientService
	DoctorSvc      *service.DoctorService
	ScheduleSvc    *service.ScheduleService
	AppointmentSvc *service.AppointmentService
	CatalogSvc     *service.CatalogService
	OdontogramSvc  *service.OdontogramService
}

// NewRouter builds the full /api/v1 surface. Clinical writes need a clinical
// role; catalog management is admin-only.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(AccessLog(deps.Log))
	r.Use(Metrics(deps.Metrics))
	r.Use(CORS(deps.Config.CORS.AllowedOrigins))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": deps.Config.App.Version})
	})
	r.GET("/metrics", gin.WrapH(metrics.MetricsHandler()))

	authHandler := NewAuthHandler(deps.AuthSvc)
	patientHandler := NewPatientHandler(deps.PatientSvc)
	doctorHandler := NewDoctorHandler(deps.DoctorSvc, deps.ScheduleSvc)
	apptHandler := NewAppointmentHandler(deps.AppointmentSvc)
	catalogHandler := NewCatalogHandler(deps.CatalogSvc)
	odontogramHandler := NewOdontogramHandler(deps.OdontogramSvc)

	api := r.Group("/api/v1")

	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)

	authed := api.Group("")
	authed.Use(Auth(deps.JWTManager))

	authed.POST("/auth/change-password", authHandler.ChangePassword)

	anyStaff := []domain.Role{domain.RoleAdmin, domain.RoleDoctor, domain.RoleAssistant, domain.RoleReceptionist}
	clinical := []domain.Role{domain.RoleAdmin, domain.RoleDoctor, domain.RoleAssistant}

	patients := authed.Group("/patients")
	{
		patients.GET("", RequireRoles(anyStaff...), patientHandler.List)
		patients.POST("", RequireRoles(anyStaff...), patientHandler.Create)
		patients.GET("/:id", RequireRoles(anyStaff...), patientHandler.Get)
		patients.PATCH("/:id", RequireRoles(anyStaff...), patientHandler.Update)
		patients.DELETE("/:id", RequireRoles(domain.RoleAdmin), patientHandler.Archive)

		patients.GET("/:id/odontogram", RequireRoles(clinical...), odontogramHandler.Get)
		patients.PUT("/:id/odontogram/teeth/:tooth/findings", RequireRoles(domain.RoleAdmin, domain.RoleDoctor), odontogramHandler.RecordFinding)
		patients.DELETE("/:id/odontogram/teeth/:tooth/findings/:surface", RequireRoles(domain.RoleAdmin, domain.RoleDoctor), odontogramHandler.ClearFinding)
		patients.PUT("/:id/odontogram/teeth/:tooth/missing", RequireRoles(domain.RoleAdmin, domain.RoleDoctor), odontogramHandler.SetToothMissing)
	}

	doctors := authed.Group("/doctors")
	{
		doctors.GET("", RequireRoles(anyStaff...), doctorHandler.List)
		doctors.POST("", RequireRoles(domain.RoleAdmin), doctorHandler.Create)
		doctors.GET("/:id", RequireRoles(anyStaff...), doctorHandler.Get)
		doctors.PATCH("/:id", RequireRoles(domain.RoleAdmin), doctorHandler.Update)
		doctors.DELETE("/:id", RequireRoles(domain.RoleAdmin), doctorHandler.Deactivate)

		doctors.PUT("/:id/availability", RequireRoles(domain.RoleAdmin, domain.RoleDoctor), doctorHandler.SetAvailability)
		doctors.POST("/:id/availability", RequireRoles(domain.RoleAdmin, domain.RoleDoctor), doctorHandler.AddAvailability)
		doctors.GET("/:id/slots", RequireRoles(anyStaff...), doctorHandler.Slots)
	}

	appointments := authed.Group("/appointments")
	{
		appointments.GET("", RequireRoles(anyStaff...), apptHandler.List)
		appointments.POST("", RequireRoles(anyStaff...), apptHandler.Book)
		appointments.GET("/:id", RequireRoles(anyStaff...), apptHandler.Get)
		appointments.PUT("/:id/schedule", RequireRoles(anyStaff...), apptHandler.Reschedule)

		appointments.POST("/:id/check-in", RequireRoles(anyStaff...), apptHandler.CheckIn)
		appointments.POST("/:id/start", RequireRoles(domain.RoleAdmin, domain.RoleDoctor, domain.RoleAssistant), apptHandler.Start)
		appointments.POST("/:id/complete", RequireRoles(domain.RoleAdmin, domain.RoleDoctor), apptHandler.Complete)
		appointments.POST("/:id/cancel", RequireRoles(anyStaff...), apptHandler.Cancel)

		appointments.PUT("/:id/treatment-plan", RequireRoles(domain.RoleAdmin, domain.RoleDoctor), apptHandler.SetTreatmentPlan)
	}

	treatments := authed.Group("/treatments")
	{
		treatments.GET("", RequireRoles(anyStaff...), catalogHandler.ListTreatments)
		treatments.POST("", RequireRoles(domain.RoleAdmin), catalogHandler.CreateTreatment)
		treatments.GET("/:id", RequireRoles(anyStaff...), catalogHandler.GetTreatment)
		treatments.PATCH("/:id", RequireRoles(domain.RoleAdmin), catalogHandler.UpdateTreatment)
		treatments.DELETE("/:id", RequireRoles(domain.RoleAdmin), catalogHandler.DeleteTreatment)
	}

	lesions := authed.Group("/lesions")
	{
		lesions.GET("", RequireRoles(anyStaff...), catalogHandler.ListLesions)
		lesions.POST("", RequireRoles(domain.RoleAdmin), catalogHandler.CreateLesion)
		lesions.GET("/:id", RequireRoles(anyStaff...), catalogHandler.GetLesion)
		lesions.PATCH("/:id", RequireRoles(domain.RoleAdmin), catalogHandler.UpdateLesion)
		lesions.DELETE("/:id", RequireRoles(domain.RoleAdmin), catalogHandler.DeleteLesion)
	}

	return r
}
