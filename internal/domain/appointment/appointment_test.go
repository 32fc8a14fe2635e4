package appointment_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentflow/dentflow/internal/domain/appointment"
	"github.com/dentflow/dentflow/internal/domain/odontogram"
	"github.com/dentflow/dentflow/internal/domain/schedule"
)

func newScheduled(t *testing.T) *appointment.Appointment {
	t.Helper()
	a, err := appointment.New(uuid.New())
	require.NoError(t, err)
	return a
}

func TestNew_RequiresID(t *testing.T) {
	_, err := appointment.New(uuid.Nil)
	assert.ErrorIs(t, err, appointment.ErrMissingID)

	a := newScheduled(t)
	assert.Equal(t, appointment.StatusScheduled, a.Status)
}

func TestSetBasicInfo(t *testing.T) {
	now := time.Date(2024, time.June, 10, 11, 0, 0, 0, time.UTC)
	iv := schedule.MustInterval("10:00", "10:30")

	tests := []struct {
		name      string
		patientID uuid.UUID
		doctorID  uuid.UUID
		date      time.Time
		iv        schedule.TimeInterval
		wantErr   error
	}{
		{"valid same day", uuid.New(), uuid.New(), now, iv, nil},
		{"valid future", uuid.New(), uuid.New(), now.AddDate(0, 0, 7), iv, nil},
		{"missing patient", uuid.Nil, uuid.New(), now, iv, appointment.ErrMissingPatientID},
		{"missing doctor", uuid.New(), uuid.Nil, now, iv, appointment.ErrMissingDoctorID},
		{"zero interval", uuid.New(), uuid.New(), now, schedule.TimeInterval{}, appointment.ErrMissingInterval},
		{"yesterday", uuid.New(), uuid.New(), now.AddDate(0, 0, -1), iv, appointment.ErrScheduledInPast},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newScheduled(t)
			err := a.SetBasicInfo(tt.patientID, tt.doctorID, tt.date, tt.iv, now)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.iv, a.Interval())
			// The stored date is stripped to midnight.
			assert.Equal(t, 0, a.Date.Hour())
		})
	}
}

func TestSetBasicInfo_EarlierTodayStillBookable(t *testing.T) {
	// 23:00 on booking day: a slot earlier the same day is not "in the past"
	// because the comparison is date-only.
	now := time.Date(2024, time.June, 10, 23, 0, 0, 0, time.UTC)
	a := newScheduled(t)

	err := a.SetBasicInfo(uuid.New(), uuid.New(), now, schedule.MustInterval("09:00", "09:30"), now)
	assert.NoError(t, err)
}

func TestStatusMachine_HappyPath(t *testing.T) {
	a := newScheduled(t)

	require.NoError(t, a.MarkWaitingRoom())
	assert.Equal(t, appointment.StatusWaitingRoom, a.Status)

	require.NoError(t, a.MarkInProgress())
	assert.Equal(t, appointment.StatusInProgress, a.Status)

	require.NoError(t, a.MarkCompleted())
	assert.Equal(t, appointment.StatusCompleted, a.Status)
	require.NotNil(t, a.CompletedAt)
}

func TestStatusMachine_Closure(t *testing.T) {
	// Every operation not listed in the transition table for a state must
	// fail and leave the status untouched.
	ops := map[appointment.Status]func(a *appointment.Appointment) error{
		appointment.StatusWaitingRoom: func(a *appointment.Appointment) error { return a.MarkWaitingRoom() },
		appointment.StatusInProgress:  func(a *appointment.Appointment) error { return a.MarkInProgress() },
		appointment.StatusCompleted:   func(a *appointment.Appointment) error { return a.MarkCompleted() },
		appointment.StatusCancelled:   func(a *appointment.Appointment) error { return a.Cancel("", uuid.Nil) },
	}

	for from := range map[appointment.Status]struct{}{
		appointment.StatusScheduled:   {},
		appointment.StatusWaitingRoom: {},
		appointment.StatusInProgress:  {},
		appointment.StatusCompleted:   {},
		appointment.StatusCancelled:   {},
	} {
		for to, op := range ops {
			t.Run(string(from)+"_to_"+string(to), func(t *testing.T) {
				a := newScheduled(t)
				a.Status = from

				err := op(a)
				if from.CanTransitionTo(to) {
					require.NoError(t, err)
					assert.Equal(t, to, a.Status)
					return
				}

				require.ErrorIs(t, err, appointment.ErrInvalidStatusTransition)
				assert.Equal(t, from, a.Status, "status must not change on rejected transition")

				var transErr *appointment.TransitionError
				require.ErrorAs(t, err, &transErr)
				assert.Equal(t, from, transErr.From)
				assert.Equal(t, to, transErr.To)
			})
		}
	}
}

func TestCancel_FromCompletedFails(t *testing.T) {
	a := newScheduled(t)
	a.Status = appointment.StatusCompleted

	err := a.Cancel("patient request", uuid.New())
	assert.ErrorIs(t, err, appointment.ErrInvalidStatusTransition)
}

func TestCancel_RecordsReason(t *testing.T) {
	a := newScheduled(t)
	by := uuid.New()

	require.NoError(t, a.Cancel("patient moved", by))
	assert.Equal(t, appointment.StatusCancelled, a.Status)
	assert.Equal(t, "patient moved", a.CancellationReason)
	require.NotNil(t, a.CancelledBy)
	assert.Equal(t, by, *a.CancelledBy)
	assert.NotNil(t, a.CancelledAt)
}

func TestSetTreatmentPlan(t *testing.T) {
	a := newScheduled(t)

	assert.ErrorIs(t, a.SetTreatmentPlan(nil), appointment.ErrEmptyTreatmentPlan)
	assert.ErrorIs(t, a.SetTreatmentPlan(&appointment.TreatmentPlan{}), appointment.ErrEmptyTreatmentPlan)

	noSurfaces := &appointment.TreatmentPlan{Procedures: []appointment.PlannedProcedure{
		{TreatmentID: uuid.New(), ToothNumber: 11},
	}}
	assert.ErrorIs(t, a.SetTreatmentPlan(noSurfaces), appointment.ErrProcedureNeedsSurfaces)

	badTooth := &appointment.TreatmentPlan{Procedures: []appointment.PlannedProcedure{
		{TreatmentID: uuid.New(), ToothNumber: 99, Surfaces: []odontogram.ToothSurface{odontogram.SurfaceMesial}},
	}}
	assert.ErrorIs(t, a.SetTreatmentPlan(badTooth), odontogram.ErrInvalidToothNumber)

	valid := &appointment.TreatmentPlan{Procedures: []appointment.PlannedProcedure{
		{TreatmentID: uuid.New(), ToothNumber: 36, Surfaces: []odontogram.ToothSurface{odontogram.SurfaceOcclusal, odontogram.SurfaceMesial}},
		{TreatmentID: uuid.New(), ToothNumber: 11},
	}}
	require.NoError(t, a.SetTreatmentPlan(valid))
	assert.Equal(t, valid, a.Plan)
}
