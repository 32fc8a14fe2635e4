package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dentflow/dentflow/internal/config"
	"github.com/dentflow/dentflow/internal/domain/appointment"
	"github.com/dentflow/dentflow/internal/domain/doctor"
	"github.com/dentflow/dentflow/internal/domain/schedule"
	"github.com/dentflow/dentflow/internal/service"
)

func testClinic() config.ClinicConfig {
	return config.ClinicConfig{
		OpenTime:    "09:00",
		CloseTime:   "19:00",
		SlotMinutes: 30,
		Timezone:    "UTC",
	}
}

// nextWeekday returns the next future occurrence of the given weekday,
// normalized to midnight UTC.
func nextWeekday(day time.Weekday) time.Time {
	d := appointment.DateOnly(time.Now().UTC()).AddDate(0, 0, 1)
	for d.Weekday() != day {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

func mustBook(t *testing.T, repo *fakeAppointmentRepo, doctorID uuid.UUID, date time.Time, iv schedule.TimeInterval) *appointment.Appointment {
	t.Helper()
	a, err := appointment.New(uuid.New())
	require.NoError(t, err)
	require.NoError(t, a.SetBasicInfo(uuid.New(), doctorID, date, iv, date.AddDate(0, 0, -1)))
	require.NoError(t, repo.CreateBooked(context.Background(), a))
	return a
}

func TestOverlapChecker_HasOverlap(t *testing.T) {
	repo := newFakeAppointmentRepo()
	checker := service.NewOverlapChecker(repo)

	doctorID := uuid.New()
	date := nextWeekday(time.Monday)
	booked := mustBook(t, repo, doctorID, date, schedule.MustInterval("10:00", "10:30"))

	tests := []struct {
		name      string
		candidate schedule.TimeInterval
		exclude   *uuid.UUID
		want      bool
	}{
		{"same slot", schedule.MustInterval("10:00", "10:30"), nil, true},
		{"straddles start", schedule.MustInterval("09:45", "10:15"), nil, true},
		{"touching before", schedule.MustInterval("09:30", "10:00"), nil, false},
		{"touching after", schedule.MustInterval("10:30", "11:00"), nil, false},
		{"excluded self", schedule.MustInterval("10:00", "10:30"), &booked.ID, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := checker.HasOverlap(context.Background(), doctorID, date, tt.candidate, tt.exclude)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOverlapChecker_IgnoresCancelled(t *testing.T) {
	repo := newFakeAppointmentRepo()
	checker := service.NewOverlapChecker(repo)

	doctorID := uuid.New()
	date := nextWeekday(time.Tuesday)
	a := mustBook(t, repo, doctorID, date, schedule.MustInterval("11:00", "11:30"))
	require.NoError(t, a.Cancel("patient called", uuid.New()))
	require.NoError(t, repo.UpdateStatus(context.Background(), a))

	got, err := checker.HasOverlap(context.Background(), doctorID, date, schedule.MustInterval("11:00", "11:30"), nil)
	require.NoError(t, err)
	assert.False(t, got, "cancelled appointments must not block the slot")
}

func TestOverlapChecker_RejectsBadInput(t *testing.T) {
	checker := service.NewOverlapChecker(newFakeAppointmentRepo())

	_, err := checker.HasOverlap(context.Background(), uuid.Nil, time.Now(), schedule.MustInterval("10:00", "10:30"), nil)
	assert.ErrorIs(t, err, appointment.ErrMissingDoctorID)

	_, err = checker.HasOverlap(context.Background(), uuid.New(), time.Now(), schedule.TimeInterval{}, nil)
	assert.ErrorIs(t, err, appointment.ErrMissingInterval)
}

func newScheduleService(t *testing.T, repo *fakeAppointmentRepo, doctors *fakeDoctorRepo) *service.ScheduleService {
	t.Helper()
	svc, err := service.NewScheduleService(repo, doctors, testClinic(), nil, nil, zap.NewNop())
	require.NoError(t, err)
	return svc
}

func TestAvailableSlots_SkipsBookedSlot(t *testing.T) {
	repo := newFakeAppointmentRepo()
	doc := &doctor.Doctor{ID: uuid.New(), IsActive: true}
	svc := newScheduleService(t, repo, newFakeDoctorRepo(doc))

	date := nextWeekday(time.Wednesday)
	mustBook(t, repo, doc.ID, date, schedule.MustInterval("10:00", "10:30"))

	slots, err := svc.AvailableSlots(context.Background(), doc.ID, date, 1)
	require.NoError(t, err)

	// 09:00-19:00 yields 20 half-hour slots; one is taken.
	assert.Len(t, slots, 19)
	assert.NotContains(t, slots, schedule.MustInterval("10:00", "10:30"))
	assert.Contains(t, slots, schedule.MustInterval("09:30", "10:00"))
	assert.Contains(t, slots, schedule.MustInterval("10:30", "11:00"))
}

func TestAvailableSlots_Deterministic(t *testing.T) {
	repo := newFakeAppointmentRepo()
	doc := &doctor.Doctor{ID: uuid.New(), IsActive: true}
	svc := newScheduleService(t, repo, newFakeDoctorRepo(doc))

	date := nextWeekday(time.Thursday)
	mustBook(t, repo, doc.ID, date, schedule.MustInterval("14:00", "14:30"))

	first, err := svc.AvailableSlots(context.Background(), doc.ID, date, 1)
	require.NoError(t, err)
	second, err := svc.AvailableSlots(context.Background(), doc.ID, date, 1)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	for i := 1; i < len(first); i++ {
		assert.True(t, first[i-1].Start.Before(first[i].Start), "slots must ascend by start time")
	}
}

func TestAvailableSlots_MultiUnit(t *testing.T) {
	repo := newFakeAppointmentRepo()
	doc := &doctor.Doctor{ID: uuid.New(), IsActive: true}
	svc := newScheduleService(t, repo, newFakeDoctorRepo(doc))

	date := nextWeekday(time.Friday)
	mustBook(t, repo, doc.ID, date, schedule.MustInterval("10:00", "10:30"))

	slots, err := svc.AvailableSlots(context.Background(), doc.ID, date, 2)
	require.NoError(t, err)

	assert.Contains(t, slots, schedule.MustInterval("09:00", "10:00"))
	assert.Contains(t, slots, schedule.MustInterval("10:30", "11:30"))
	assert.NotContains(t, slots, schedule.MustInterval("09:30", "10:30"))
	assert.NotContains(t, slots, schedule.MustInterval("10:00", "11:00"))
	// Last hour-long slot must still end by close.
	assert.Contains(t, slots, schedule.MustInterval("18:00", "19:00"))
	assert.NotContains(t, slots, schedule.MustInterval("18:30", "19:30"))
}

func TestAvailableSlots_RespectsDoctorAvailability(t *testing.T) {
	repo := newFakeAppointmentRepo()

	avail, err := schedule.NewWeeklyAvailability(map[time.Weekday][]schedule.TimeInterval{
		time.Monday: {schedule.MustInterval("09:00", "12:00")},
	})
	require.NoError(t, err)

	doc := &doctor.Doctor{ID: uuid.New(), IsActive: true, Availability: avail}
	svc := newScheduleService(t, repo, newFakeDoctorRepo(doc))

	monday := nextWeekday(time.Monday)
	slots, err := svc.AvailableSlots(context.Background(), doc.ID, monday, 1)
	require.NoError(t, err)

	assert.Len(t, slots, 6) // 09:00 through 11:30 starts
	assert.Equal(t, schedule.MustInterval("09:00", "09:30"), slots[0])
	assert.Equal(t, schedule.MustInterval("11:30", "12:00"), slots[len(slots)-1])

	// Off-day: no availability configured for Tuesday.
	tuesday := nextWeekday(time.Tuesday)
	slots, err = svc.AvailableSlots(context.Background(), doc.ID, tuesday, 1)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestAvailableSlots_CancelledFreesSlot(t *testing.T) {
	repo := newFakeAppointmentRepo()
	doc := &doctor.Doctor{ID: uuid.New(), IsActive: true}
	svc := newScheduleService(t, repo, newFakeDoctorRepo(doc))

	date := nextWeekday(time.Wednesday)
	a := mustBook(t, repo, doc.ID, date, schedule.MustInterval("15:00", "15:30"))

	slots, err := svc.AvailableSlots(context.Background(), doc.ID, date, 1)
	require.NoError(t, err)
	assert.NotContains(t, slots, schedule.MustInterval("15:00", "15:30"))

	require.NoError(t, a.Cancel("rescheduling externally", uuid.New()))
	require.NoError(t, repo.UpdateStatus(context.Background(), a))

	slots, err = svc.AvailableSlots(context.Background(), doc.ID, date, 1)
	require.NoError(t, err)
	assert.Contains(t, slots, schedule.MustInterval("15:00", "15:30"))
}

func TestAvailableSlots_UnknownDoctor(t *testing.T) {
	svc := newScheduleService(t, newFakeAppointmentRepo(), newFakeDoctorRepo())

	_, err := svc.AvailableSlots(context.Background(), uuid.New(), nextWeekday(time.Monday), 1)
	assert.ErrorIs(t, err, doctor.ErrDoctorNotFound)
}
