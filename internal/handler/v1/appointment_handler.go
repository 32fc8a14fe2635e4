package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dentflow/dentflow/internal/domain/appointment"
	"github.com/dentflow/dentflow/internal/service"
)

type AppointmentHandler struct {
	apptSvc *service.AppointmentService
}

func NewAppointmentHandler(apptSvc *service.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{apptSvc: apptSvc}
}

type bookAppointmentRequest struct {
	PatientID uuid.UUID                  `json:"patient_id" binding:"required"`
	DoctorID  uuid.UUID                  `json:"doctor_id" binding:"required"`
	Date      string                     `json:"date" binding:"required"`
	Start     string                     `json:"start" binding:"required"`
	End       string                     `json:"end" binding:"required"`
	Notes     string                     `json:"notes"`
	Plan      *appointment.TreatmentPlan `json:"treatment_plan"`
}

func (h *AppointmentHandler) Book(c *gin.Context) {
	var req bookAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		respondError(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	iv, err := parseInterval(req.Start, req.End)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	callerID, callerRole := caller(c)
	a, err := h.apptSvc.Book(c.Request.Context(), &appointment.CreateCommand{
		PatientID: req.PatientID,
		DoctorID:  req.DoctorID,
		Date:      date,
		Interval:  iv,
		Notes:     req.Notes,
		Plan:      req.Plan,
		CreatedBy: callerID,
	}, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, a)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	a, err := h.apptSvc.GetAppointment(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, a)
}

func (h *AppointmentHandler) List(c *gin.Context) {
	q := &appointment.ListQuery{
		Page:     parseQueryInt(c, "page", 1),
		PageSize: parseQueryInt(c, "page_size", 20),
	}

	if raw := c.Query("patient_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid patient_id")
			return
		}
		q.PatientID = &id
	}
	if raw := c.Query("doctor_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "invalid doctor_id")
			return
		}
		q.DoctorID = &id
	}
	if raw := c.Query("status"); raw != "" {
		st := appointment.Status(raw)
		if !st.IsValid() {
			respondError(c, http.StatusBadRequest, "invalid status")
			return
		}
		q.Status = &st
	}
	if raw := c.Query("from"); raw != "" {
		from, err := parseDate(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "from must be YYYY-MM-DD")
			return
		}
		q.DateFrom = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := parseDate(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "to must be YYYY-MM-DD")
			return
		}
		q.DateTo = &to
	}

	page, err := h.apptSvc.ListAppointments(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, page)
}

type rescheduleRequest struct {
	Date  string `json:"date" binding:"required"`
	Start string `json:"start" binding:"required"`
	End   string `json:"end" binding:"required"`
}

func (h *AppointmentHandler) Reschedule(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req rescheduleRequest
	if !bindJSON(c, &req) {
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		respondError(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	iv, err := parseInterval(req.Start, req.End)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	callerID, callerRole := caller(c)
	a, err := h.apptSvc.Reschedule(c.Request.Context(), id, &appointment.RescheduleCommand{
		Date:     date,
		Interval: iv,
	}, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, a)
}

// CheckIn moves the appointment to the waiting room when the patient arrives.
func (h *AppointmentHandler) CheckIn(c *gin.Context) {
	h.statusChange(c, h.apptSvc.MarkWaitingRoom)
}

func (h *AppointmentHandler) Start(c *gin.Context) {
	h.statusChange(c, h.apptSvc.MarkInProgress)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	h.statusChange(c, h.apptSvc.MarkCompleted)
}

type cancelRequest struct {
	Reason string `json:"reason" binding:"required"`
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req cancelRequest
	if !bindJSON(c, &req) {
		return
	}

	callerID, callerRole := caller(c)
	a, err := h.apptSvc.CancelAppointment(c.Request.Context(), id, &appointment.CancelCommand{
		Reason:      req.Reason,
		CancelledBy: callerID,
	}, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, a)
}

func (h *AppointmentHandler) SetTreatmentPlan(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var plan appointment.TreatmentPlan
	if !bindJSON(c, &plan) {
		return
	}

	callerID, callerRole := caller(c)
	a, err := h.apptSvc.SetTreatmentPlan(c.Request.Context(), id, &plan, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, a)
}

type statusOp func(ctx context.Context, id uuid.UUID, callerID uuid.UUID, callerRole string, ip string) (*appointment.Appointment, error)

func (h *AppointmentHandler) statusChange(c *gin.Context, op statusOp) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	callerID, callerRole := caller(c)
	a, err := op(c.Request.Context(), id, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, a)
}
