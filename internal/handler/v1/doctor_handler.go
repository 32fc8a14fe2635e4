package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dentflow/dentflow/internal/domain/doctor"
	"github.com/dentflow/dentflow/internal/domain/schedule"
	"github.com/dentflow/dentflow/internal/service"
)

type DoctorHandler struct {
	doctorSvc   *service.DoctorService
	scheduleSvc *service.ScheduleService
}

func NewDoctorHandler(doctorSvc *service.DoctorService, scheduleSvc *service.ScheduleService) *DoctorHandler {
	return &DoctorHandler{doctorSvc: doctorSvc, scheduleSvc: scheduleSvc}
}

type createDoctorRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Specialty string `json:"specialty" binding:"required"`
	LicenseNo string `json:"license_no" binding:"required"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

func (h *DoctorHandler) Create(c *gin.Context) {
	var req createDoctorRequest
	if !bindJSON(c, &req) {
		return
	}

	callerID, callerRole := caller(c)
	d, err := h.doctorSvc.CreateDoctor(c.Request.Context(), &doctor.CreateDoctorCommand{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Specialty: doctor.Specialty(req.Specialty),
		LicenseNo: req.LicenseNo,
		Phone:     req.Phone,
		Email:     req.Email,
		CreatedBy: callerID,
	}, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondCreated(c, d)
}

func (h *DoctorHandler) Get(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	d, err := h.doctorSvc.GetDoctor(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, d)
}

type updateDoctorRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Specialty *string `json:"specialty"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
	IsActive  *bool   `json:"is_active"`
}

func (h *DoctorHandler) Update(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req updateDoctorRequest
	if !bindJSON(c, &req) {
		return
	}

	cmd := &doctor.UpdateDoctorCommand{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Email:     req.Email,
		IsActive:  req.IsActive,
	}
	if req.Specialty != nil {
		sp := doctor.Specialty(*req.Specialty)
		cmd.Specialty = &sp
	}

	callerID, callerRole := caller(c)
	d, err := h.doctorSvc.UpdateDoctor(c.Request.Context(), id, cmd, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, d)
}

func (h *DoctorHandler) Deactivate(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	callerID, callerRole := caller(c)
	if err := h.doctorSvc.DeactivateDoctor(c.Request.Context(), id, callerID, callerRole, c.ClientIP()); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, APIResponse[any]{Message: "doctor deactivated"})
}

func (h *DoctorHandler) List(c *gin.Context) {
	q := &doctor.ListDoctorsQuery{
		OnlyActive: c.Query("only_active") == "true",
		Page:       parseQueryInt(c, "page", 1),
		PageSize:   parseQueryInt(c, "page_size", 20),
	}
	if raw := c.Query("specialty"); raw != "" {
		sp := doctor.Specialty(raw)
		q.Specialty = &sp
	}

	page, err := h.doctorSvc.ListDoctors(c.Request.Context(), q)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, page)
}

// SetAvailability replaces the doctor's full weekly schedule with the
// submitted one. The body is a map of lowercase day names to interval lists.
func (h *DoctorHandler) SetAvailability(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var w schedule.WeeklyAvailability
	if !bindJSON(c, &w) {
		return
	}

	callerID, callerRole := caller(c)
	d, err := h.doctorSvc.SetAvailability(c.Request.Context(), id, w, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, d)
}

type addAvailabilityRequest struct {
	Day   string `json:"day" binding:"required"`
	Start string `json:"start" binding:"required"`
	End   string `json:"end" binding:"required"`
}

func (h *DoctorHandler) AddAvailability(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	var req addAvailabilityRequest
	if !bindJSON(c, &req) {
		return
	}

	day, ok2 := schedule.ParseWeekday(req.Day)
	if !ok2 {
		respondError(c, http.StatusBadRequest, "day must be a lowercase weekday name")
		return
	}
	iv, err := parseInterval(req.Start, req.End)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	callerID, callerRole := caller(c)
	d, err := h.doctorSvc.AddAvailability(c.Request.Context(), id, day, iv, callerID, callerRole, c.ClientIP())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, d)
}

// Slots answers "when can this doctor see someone on this day".
func (h *DoctorHandler) Slots(c *gin.Context) {
	id, ok := parseUUID(c, "id")
	if !ok {
		return
	}

	date, err := parseDate(c.Query("date"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "date query parameter must be YYYY-MM-DD")
		return
	}
	units := parseQueryInt(c, "units", 1)

	slots, err := h.scheduleSvc.AvailableSlots(c.Request.Context(), id, date, units)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	respondOK(c, gin.H{
		"doctor_id": id,
		"date":      date.Format("2006-01-02"),
		"units":     units,
		"slots":     slots,
	})
}
