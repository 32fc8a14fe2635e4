package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dentflow/dentflow/internal/domain"
	"github.com/dentflow/dentflow/internal/domain/appointment"
	"github.com/dentflow/dentflow/internal/domain/doctor"
	"github.com/dentflow/dentflow/internal/domain/patient"
)

// In-memory repositories backing the service tests. They mirror the postgres
// implementations' contracts, including the overlap re-check CreateBooked and
// RescheduleBooked perform under the doctor-day lock.

type fakeAppointmentRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*appointment.Appointment
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{items: make(map[uuid.UUID]*appointment.Appointment)}
}

func (r *fakeAppointmentRepo) CreateBooked(_ context.Context, a *appointment.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conflicts(a, nil) {
		return appointment.ErrSchedulingConflict
	}
	cp := *a
	r.items[a.ID] = &cp
	return nil
}

func (r *fakeAppointmentRepo) RescheduleBooked(_ context.Context, a *appointment.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conflicts(a, &a.ID) {
		return appointment.ErrSchedulingConflict
	}
	cp := *a
	r.items[a.ID] = &cp
	return nil
}

func (r *fakeAppointmentRepo) GetByID(_ context.Context, id uuid.UUID) (*appointment.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.items[id]
	if !ok {
		return nil, appointment.ErrAppointmentNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAppointmentRepo) UpdateStatus(_ context.Context, a *appointment.Appointment) error {
	return r.store(a)
}

func (r *fakeAppointmentRepo) Update(_ context.Context, a *appointment.Appointment) error {
	return r.store(a)
}

func (r *fakeAppointmentRepo) List(_ context.Context, q *appointment.ListQuery) (*appointment.PagedAppointments, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*appointment.Appointment, 0, len(r.items))
	for _, a := range r.items {
		cp := *a
		out = append(out, &cp)
	}
	return &appointment.PagedAppointments{
		Appointments: out,
		TotalCount:   int64(len(out)),
		Page:         q.Page,
		PageSize:     q.PageSize,
		TotalPages:   1,
	}, nil
}

func (r *fakeAppointmentRepo) ListByDoctorAndDate(_ context.Context, doctorID uuid.UUID, date time.Time) ([]*appointment.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	day := appointment.DateOnly(date)
	var out []*appointment.Appointment
	for _, a := range r.items {
		if a.DoctorID == doctorID && appointment.DateOnly(a.Date).Equal(day) {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) store(a *appointment.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[a.ID]; !ok {
		return appointment.ErrAppointmentNotFound
	}
	cp := *a
	r.items[a.ID] = &cp
	return nil
}

func (r *fakeAppointmentRepo) conflicts(a *appointment.Appointment, excludeID *uuid.UUID) bool {
	day := appointment.DateOnly(a.Date)
	for _, existing := range r.items {
		if existing.Status == appointment.StatusCancelled {
			continue
		}
		if excludeID != nil && existing.ID == *excludeID {
			continue
		}
		if existing.DoctorID != a.DoctorID || !appointment.DateOnly(existing.Date).Equal(day) {
			continue
		}
		if existing.Interval().Overlaps(a.Interval()) {
			return true
		}
	}
	return false
}

type fakeDoctorRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*doctor.Doctor
}

func newFakeDoctorRepo(docs ...*doctor.Doctor) *fakeDoctorRepo {
	r := &fakeDoctorRepo{items: make(map[uuid.UUID]*doctor.Doctor)}
	for _, d := range docs {
		r.items[d.ID] = d
	}
	return r
}

func (r *fakeDoctorRepo) Create(_ context.Context, d *doctor.Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	r.items[d.ID] = d
	return nil
}

func (r *fakeDoctorRepo) GetByID(_ context.Context, id uuid.UUID) (*doctor.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.items[id]
	if !ok {
		return nil, doctor.ErrDoctorNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *fakeDoctorRepo) Update(_ context.Context, id uuid.UUID, _ *doctor.UpdateDoctorCommand) (*doctor.Doctor, error) {
	return r.GetByID(context.Background(), id)
}

func (r *fakeDoctorRepo) UpdateAvailability(_ context.Context, d *doctor.Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[d.ID]; !ok {
		return doctor.ErrDoctorNotFound
	}
	cp := *d
	r.items[d.ID] = &cp
	return nil
}

func (r *fakeDoctorRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

func (r *fakeDoctorRepo) List(_ context.Context, q *doctor.ListDoctorsQuery) (*doctor.PagedDoctors, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*doctor.Doctor, 0, len(r.items))
	for _, d := range r.items {
		cp := *d
		out = append(out, &cp)
	}
	return &doctor.PagedDoctors{Doctors: out, TotalCount: int64(len(out)), Page: q.Page, PageSize: q.PageSize, TotalPages: 1}, nil
}

type fakePatientRepo struct {
	mu    sync.Mutex
	items map[uuid.UUID]*patient.Patient
}

func newFakePatientRepo(patients ...*patient.Patient) *fakePatientRepo {
	r := &fakePatientRepo{items: make(map[uuid.UUID]*patient.Patient)}
	for _, p := range patients {
		r.items[p.ID] = p
	}
	return r
}

func (r *fakePatientRepo) Create(_ context.Context, p *patient.Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.items[p.ID] = p
	return nil
}

func (r *fakePatientRepo) GetByID(_ context.Context, id uuid.UUID) (*patient.Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[id]
	if !ok {
		return nil, patient.ErrPatientNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePatientRepo) Update(_ context.Context, id uuid.UUID, _ *patient.UpdatePatientCommand) (*patient.Patient, error) {
	return r.GetByID(context.Background(), id)
}

func (r *fakePatientRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

func (r *fakePatientRepo) List(_ context.Context, q *patient.ListPatientsQuery) (*patient.PagedPatients, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*patient.Patient, 0, len(r.items))
	for _, p := range r.items {
		cp := *p
		out = append(out, &cp)
	}
	return &patient.PagedPatients{Patients: out, TotalCount: int64(len(out)), Page: q.Page, PageSize: q.PageSize, TotalPages: 1}, nil
}

func (r *fakePatientRepo) ExistsByNationalID(_ context.Context, nationalID string, excludeID *uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.items {
		if excludeID != nil && p.ID == *excludeID {
			continue
		}
		if p.NationalID == nationalID {
			return true, nil
		}
	}
	return false, nil
}

type fakeAuditRepo struct{}

func (fakeAuditRepo) Create(_ context.Context, _ *domain.AuditLog) error { return nil }
