// Package memory provides a mutex-guarded in-memory appointment store. It
// backs the test suite and the STORAGE=memory development mode; the atomic
// claim and delete guarantees match the Postgres implementation.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bluclinic/appointment-service/internal/model"
)

type AppointmentRepository struct {
	mu           sync.Mutex
	appointments map[int64]*model.Appointment
	nextID       int64
}

func NewAppointmentRepository() *AppointmentRepository {
	return &AppointmentRepository{
		appointments: make(map[int64]*model.Appointment),
		nextID:       1,
	}
}

func (r *AppointmentRepository) GetByID(_ context.Context, id int64) (*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	appointment, ok := r.appointments[id]
	if !ok {
		return nil, nil
	}
	copied := *appointment
	return &copied, nil
}

func (r *AppointmentRepository) ListAll(_ context.Context) ([]*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.collect(func(*model.Appointment) bool { return true }), nil
}

func (r *AppointmentRepository) ListByStatus(_ context.Context, status model.AppointmentStatus) ([]*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.collect(func(a *model.Appointment) bool { return a.Status == status }), nil
}

func (r *AppointmentRepository) ListByPhoneNumber(_ context.Context, phone string) ([]*model.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.collect(func(a *model.Appointment) bool { return a.PatientPhoneNumber == phone }), nil
}

// collect returns copies of the matching appointments in chronological
// order. Callers must hold the lock.
func (r *AppointmentRepository) collect(match func(*model.Appointment) bool) []*model.Appointment {
	var appointments []*model.Appointment
	for _, appointment := range r.appointments {
		if match(appointment) {
			copied := *appointment
			appointments = append(appointments, &copied)
		}
	}
	sort.Slice(appointments, func(i, j int) bool {
		if appointments[i].StartTime.Equal(appointments[j].StartTime) {
			return appointments[i].ID < appointments[j].ID
		}
		return appointments[i].StartTime.Before(appointments[j].StartTime)
	})
	return appointments
}

func (r *AppointmentRepository) CreateBatch(_ context.Context, appointments []*model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for _, appointment := range appointments {
		appointment.ID = r.nextID
		appointment.CreatedAt = now
		r.nextID++

		copied := *appointment
		r.appointments[appointment.ID] = &copied
	}

	return nil
}

func (r *AppointmentRepository) BookIfOpen(_ context.Context, id int64, patientName, patientPhone string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	appointment, ok := r.appointments[id]
	if !ok || !appointment.IsOpen() {
		return false, nil
	}

	appointment.Status = model.AppointmentStatusTaken
	appointment.PatientName = patientName
	appointment.PatientPhoneNumber = patientPhone

	return true, nil
}

func (r *AppointmentRepository) DeleteIfOpen(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	appointment, ok := r.appointments[id]
	if !ok || !appointment.IsOpen() {
		return false, nil
	}

	delete(r.appointments, id)
	return true, nil
}

func (r *AppointmentRepository) DeleteExpiredOpen(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed int64
	for id, appointment := range r.appointments {
		if appointment.IsOpen() && appointment.StartTime.Before(before) {
			delete(r.appointments, id)
			removed++
		}
	}

	return removed, nil
}
