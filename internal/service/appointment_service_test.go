package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dentflow/dentflow/internal/domain/appointment"
	"github.com/dentflow/dentflow/internal/domain/doctor"
	"github.com/dentflow/dentflow/internal/domain/odontogram"
	"github.com/dentflow/dentflow/internal/domain/patient"
	"github.com/dentflow/dentflow/internal/domain/schedule"
	"github.com/dentflow/dentflow/internal/service"
)

type appointmentFixture struct {
	svc     *service.AppointmentService
	repo    *fakeAppointmentRepo
	patient *patient.Patient
	doctor  *doctor.Doctor
}

func newAppointmentFixture(t *testing.T) *appointmentFixture {
	t.Helper()

	repo := newFakeAppointmentRepo()
	p := &patient.Patient{ID: uuid.New(), FirstName: "Ana", LastName: "Reyes", Status: patient.StatusActive}
	d := &doctor.Doctor{ID: uuid.New(), FirstName: "Luis", LastName: "Mora", IsActive: true}

	auditSvc := service.NewAuditService(fakeAuditRepo{}, nil, zap.NewNop())
	t.Cleanup(auditSvc.Shutdown)

	checker := service.NewOverlapChecker(repo)
	svc := service.NewAppointmentService(
		repo,
		newFakePatientRepo(p),
		newFakeDoctorRepo(d),
		checker,
		nil,
		auditSvc,
		nil,
		zap.NewNop(),
		time.UTC,
	)

	return &appointmentFixture{svc: svc, repo: repo, patient: p, doctor: d}
}

func (f *appointmentFixture) book(t *testing.T, date time.Time, iv schedule.TimeInterval) *appointment.Appointment {
	t.Helper()
	a, err := f.svc.Book(context.Background(), &appointment.CreateCommand{
		PatientID: f.patient.ID,
		DoctorID:  f.doctor.ID,
		Date:      date,
		Interval:  iv,
	}, uuid.New(), "receptionist", "127.0.0.1")
	require.NoError(t, err)
	return a
}

func TestBook_HappyPath(t *testing.T) {
	f := newAppointmentFixture(t)
	date := nextWeekday(time.Monday)

	a := f.book(t, date, schedule.MustInterval("10:00", "10:30"))

	assert.Equal(t, appointment.StatusScheduled, a.Status)
	assert.Equal(t, f.patient.ID, a.PatientID)
	assert.True(t, appointment.DateOnly(date).Equal(a.Date))

	stored, err := f.repo.GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, schedule.MustInterval("10:00", "10:30"), stored.Interval())
}

func TestBook_ConflictingSlot(t *testing.T) {
	f := newAppointmentFixture(t)
	date := nextWeekday(time.Monday)
	f.book(t, date, schedule.MustInterval("10:00", "10:30"))

	_, err := f.svc.Book(context.Background(), &appointment.CreateCommand{
		PatientID: f.patient.ID,
		DoctorID:  f.doctor.ID,
		Date:      date,
		Interval:  schedule.MustInterval("10:15", "10:45"),
	}, uuid.New(), "receptionist", "127.0.0.1")

	assert.ErrorIs(t, err, appointment.ErrSchedulingConflict)
}

func TestBook_AdjacentSlotsDoNotConflict(t *testing.T) {
	f := newAppointmentFixture(t)
	date := nextWeekday(time.Monday)
	f.book(t, date, schedule.MustInterval("10:00", "10:30"))

	// Back to back bookings share a boundary minute but never overlap.
	f.book(t, date, schedule.MustInterval("10:30", "11:00"))
	f.book(t, date, schedule.MustInterval("09:30", "10:00"))
}

func TestBook_PastDate(t *testing.T) {
	f := newAppointmentFixture(t)
	yesterday := appointment.DateOnly(time.Now().UTC()).AddDate(0, 0, -1)

	_, err := f.svc.Book(context.Background(), &appointment.CreateCommand{
		PatientID: f.patient.ID,
		DoctorID:  f.doctor.ID,
		Date:      yesterday,
		Interval:  schedule.MustInterval("10:00", "10:30"),
	}, uuid.New(), "receptionist", "127.0.0.1")

	assert.ErrorIs(t, err, appointment.ErrScheduledInPast)
}

func TestBook_InactivePatient(t *testing.T) {
	f := newAppointmentFixture(t)
	f.patient.Status = patient.StatusInactive

	_, err := f.svc.Book(context.Background(), &appointment.CreateCommand{
		PatientID: f.patient.ID,
		DoctorID:  f.doctor.ID,
		Date:      nextWeekday(time.Monday),
		Interval:  schedule.MustInterval("10:00", "10:30"),
	}, uuid.New(), "receptionist", "127.0.0.1")

	assert.ErrorIs(t, err, patient.ErrPatientInactive)
}

func TestBook_OutsideDoctorAvailability(t *testing.T) {
	f := newAppointmentFixture(t)

	avail, err := schedule.NewWeeklyAvailability(map[time.Weekday][]schedule.TimeInterval{
		time.Monday: {schedule.MustInterval("09:00", "13:00")},
	})
	require.NoError(t, err)
	f.doctor.SetAvailability(avail)

	_, err = f.svc.Book(context.Background(), &appointment.CreateCommand{
		PatientID: f.patient.ID,
		DoctorID:  f.doctor.ID,
		Date:      nextWeekday(time.Monday),
		Interval:  schedule.MustInterval("14:00", "14:30"),
	}, uuid.New(), "receptionist", "127.0.0.1")

	assert.ErrorIs(t, err, doctor.ErrOutsideAvailability)
}

func TestReschedule_ExcludesSelfFromOverlapCheck(t *testing.T) {
	f := newAppointmentFixture(t)
	date := nextWeekday(time.Monday)
	a := f.book(t, date, schedule.MustInterval("10:00", "10:30"))

	// Shifting within the original window overlaps only itself.
	moved, err := f.svc.Reschedule(context.Background(), a.ID, &appointment.RescheduleCommand{
		Date:     date,
		Interval: schedule.MustInterval("10:15", "10:45"),
	}, uuid.New(), "receptionist", "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, schedule.MustInterval("10:15", "10:45"), moved.Interval())
}

func TestReschedule_ConflictsWithOtherBooking(t *testing.T) {
	f := newAppointmentFixture(t)
	date := nextWeekday(time.Monday)
	a := f.book(t, date, schedule.MustInterval("10:00", "10:30"))
	f.book(t, date, schedule.MustInterval("11:00", "11:30"))

	_, err := f.svc.Reschedule(context.Background(), a.ID, &appointment.RescheduleCommand{
		Date:     date,
		Interval: schedule.MustInterval("11:00", "11:30"),
	}, uuid.New(), "receptionist", "127.0.0.1")

	assert.ErrorIs(t, err, appointment.ErrSchedulingConflict)
}

func TestReschedule_TerminalAppointment(t *testing.T) {
	f := newAppointmentFixture(t)
	date := nextWeekday(time.Monday)
	a := f.book(t, date, schedule.MustInterval("10:00", "10:30"))

	_, err := f.svc.CancelAppointment(context.Background(), a.ID, &appointment.CancelCommand{
		Reason:      "patient request",
		CancelledBy: uuid.New(),
	}, uuid.New(), "receptionist", "127.0.0.1")
	require.NoError(t, err)

	_, err = f.svc.Reschedule(context.Background(), a.ID, &appointment.RescheduleCommand{
		Date:     date,
		Interval: schedule.MustInterval("12:00", "12:30"),
	}, uuid.New(), "receptionist", "127.0.0.1")

	assert.ErrorIs(t, err, appointment.ErrInvalidStatusTransition)
}

func TestVisitFlow_StatusProgression(t *testing.T) {
	f := newAppointmentFixture(t)
	caller := uuid.New()
	a := f.book(t, nextWeekday(time.Monday), schedule.MustInterval("10:00", "10:30"))

	a, err := f.svc.MarkWaitingRoom(context.Background(), a.ID, caller, "receptionist", "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, appointment.StatusWaitingRoom, a.Status)

	a, err = f.svc.MarkInProgress(context.Background(), a.ID, caller, "doctor", "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, appointment.StatusInProgress, a.Status)

	a, err = f.svc.MarkCompleted(context.Background(), a.ID, caller, "doctor", "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, appointment.StatusCompleted, a.Status)
	assert.NotNil(t, a.CompletedAt)

	// Completed is terminal.
	_, err = f.svc.CancelAppointment(context.Background(), a.ID, &appointment.CancelCommand{
		Reason: "too late", CancelledBy: caller,
	}, caller, "receptionist", "127.0.0.1")
	assert.ErrorIs(t, err, appointment.ErrInvalidStatusTransition)
}

func TestVisitFlow_SkippingWaitingRoom(t *testing.T) {
	f := newAppointmentFixture(t)
	a := f.book(t, nextWeekday(time.Monday), schedule.MustInterval("10:00", "10:30"))

	_, err := f.svc.MarkInProgress(context.Background(), a.ID, uuid.New(), "doctor", "127.0.0.1")
	assert.ErrorIs(t, err, appointment.ErrInvalidStatusTransition)

	var terr *appointment.TransitionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, appointment.StatusScheduled, terr.From)
	assert.Equal(t, appointment.StatusInProgress, terr.To)

	// The stored record is untouched by the rejected transition.
	stored, err := f.repo.GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, appointment.StatusScheduled, stored.Status)
}

func TestCancelledSlot_IsBookableAgain(t *testing.T) {
	f := newAppointmentFixture(t)
	date := nextWeekday(time.Monday)
	caller := uuid.New()

	a := f.book(t, date, schedule.MustInterval("10:00", "10:30"))
	_, err := f.svc.CancelAppointment(context.Background(), a.ID, &appointment.CancelCommand{
		Reason: "patient request", CancelledBy: caller,
	}, caller, "receptionist", "127.0.0.1")
	require.NoError(t, err)

	// The freed slot accepts a new booking.
	f.book(t, date, schedule.MustInterval("10:00", "10:30"))
}

func TestSetTreatmentPlan_ViaService(t *testing.T) {
	f := newAppointmentFixture(t)
	a := f.book(t, nextWeekday(time.Monday), schedule.MustInterval("10:00", "10:30"))

	treatmentID := uuid.New()
	plan := &appointment.TreatmentPlan{
		Procedures: []appointment.PlannedProcedure{
			{
				TreatmentID: treatmentID,
				ToothNumber: 16,
				Surfaces:    []odontogram.ToothSurface{odontogram.SurfaceOcclusal},
			},
		},
	}

	updated, err := f.svc.SetTreatmentPlan(context.Background(), a.ID, plan, uuid.New(), "doctor", "127.0.0.1")
	require.NoError(t, err)
	require.NotNil(t, updated.Plan)
	assert.Len(t, updated.Plan.Procedures, 1)

	_, err = f.svc.SetTreatmentPlan(context.Background(), a.ID, &appointment.TreatmentPlan{}, uuid.New(), "doctor", "127.0.0.1")
	assert.ErrorIs(t, err, appointment.ErrEmptyTreatmentPlan)
}
