package v1

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dentflow/dentflow/internal/domain/appointment"
	"github.com/dentflow/dentflow/internal/domain/doctor"
	"github.com/dentflow/dentflow/internal/domain/lesion"
	"github.com/dentflow/dentflow/internal/domain/odontogram"
	"github.com/dentflow/dentflow/internal/domain/patient"
	"github.com/dentflow/dentflow/internal/domain/schedule"
	"github.com/dentflow/dentflow/internal/domain/treatment"
	"github.com/dentflow/dentflow/internal/service"
)

type APIResponse[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

type ValidationErrorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields"`
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, APIResponse[any]{Data: data})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, APIResponse[any]{Data: data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

func respondServiceError(c *gin.Context, err error) {
	var validErr *service.ValidationError
	if errors.As(err, &validErr) {
		c.JSON(http.StatusBadRequest, ValidationErrorResponse{
			Error:  "validation failed",
			Fields: validErr.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, patient.ErrPatientNotFound),
		errors.Is(err, doctor.ErrDoctorNotFound),
		errors.Is(err, appointment.ErrAppointmentNotFound),
		errors.Is(err, treatment.ErrTreatmentNotFound),
		errors.Is(err, lesion.ErrLesionNotFound),
		errors.Is(err, odontogram.ErrOdontogramNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})

	case errors.Is(err, appointment.ErrSchedulingConflict):
		c.JSON(http.StatusConflict, ErrorResponse{
			Error: err.Error(),
			Code:  "SLOT_TAKEN",
		})

	case errors.Is(err, patient.ErrPatientAlreadyExists),
		errors.Is(err, doctor.ErrDoctorAlreadyExists),
		errors.Is(err, treatment.ErrTreatmentAlreadyExists),
		errors.Is(err, lesion.ErrLesionAlreadyExists):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})

	case errors.Is(err, appointment.ErrScheduledInPast),
		errors.Is(err, appointment.ErrInvalidStatusTransition),
		errors.Is(err, appointment.ErrEmptyTreatmentPlan),
		errors.Is(err, appointment.ErrProcedureNeedsSurfaces),
		errors.Is(err, appointment.ErrMissingPatientID),
		errors.Is(err, appointment.ErrMissingDoctorID),
		errors.Is(err, appointment.ErrMissingInterval),
		errors.Is(err, schedule.ErrInvalidTimeOfDay),
		errors.Is(err, schedule.ErrInvalidInterval),
		errors.Is(err, schedule.ErrOverlappingAvailability),
		errors.Is(err, doctor.ErrOutsideAvailability),
		errors.Is(err, doctor.ErrInvalidSpecialty),
		errors.Is(err, doctor.ErrDoctorInactive),
		errors.Is(err, patient.ErrPatientInactive),
		errors.Is(err, patient.ErrPatientDeceased),
		errors.Is(err, patient.ErrInvalidGender),
		errors.Is(err, treatment.ErrInvalidDuration),
		errors.Is(err, odontogram.ErrInvalidToothNumber),
		errors.Is(err, odontogram.ErrInvalidSurface),
		errors.Is(err, odontogram.ErrInvalidFindingState),
		errors.Is(err, odontogram.ErrEmptyFinding):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})

	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "access denied"})

	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrAccountInactive):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})

	case errors.Is(err, service.ErrAccountLocked):
		c.JSON(http.StatusTooManyRequests, ErrorResponse{
			Error: "account temporarily locked",
			Code:  "ACCOUNT_LOCKED",
		})

	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return false
	}
	return true
}

func parseUUID(c *gin.Context, param string) (uuid.UUID, bool) {
	raw := c.Param(param)
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + param + ": must be a valid UUID"})
		return uuid.Nil, false
	}
	return id, true
}

func parseQueryInt(c *gin.Context, key string, defaultVal int) int {
	if raw := c.Query(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			return v
		}
	}
	return defaultVal
}

// parseDate reads a "YYYY-MM-DD" value, either from the JSON payload layer
// (already parsed) or a query/path string.
func parseDate(raw string) (time.Time, error) {
	return time.Parse("2006-01-02", raw)
}

// parseInterval builds a validated interval from "HH:MM" strings.
func parseInterval(start, end string) (schedule.TimeInterval, error) {
	s, err := schedule.ParseTimeOfDay(start)
	if err != nil {
		return schedule.TimeInterval{}, err
	}
	e, err := schedule.ParseTimeOfDay(end)
	if err != nil {
		return schedule.TimeInterval{}, err
	}
	return schedule.NewTimeInterval(s, e)
}
