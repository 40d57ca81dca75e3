package service

import (
	"context"
	"time"

	"github.com/bluclinic/appointment-service/internal/model"
)

// AppointmentStore is the storage contract the service operates against.
// All status transitions go through BookIfOpen and DeleteIfOpen; callers
// must never read a slot's status and write it back in separate calls.
type AppointmentStore interface {
	// GetByID returns the appointment or nil when no row matches.
	GetByID(ctx context.Context, id int64) (*model.Appointment, error)

	// ListAll returns every appointment in chronological order.
	ListAll(ctx context.Context) ([]*model.Appointment, error)

	// ListByStatus returns appointments with the given status in
	// chronological order.
	ListByStatus(ctx context.Context, status model.AppointmentStatus) ([]*model.Appointment, error)

	// ListByPhoneNumber returns every appointment ever claimed with the
	// given phone number.
	ListByPhoneNumber(ctx context.Context, phone string) ([]*model.Appointment, error)

	// CreateBatch persists new appointments and fills in their assigned
	// ids and creation timestamps.
	CreateBatch(ctx context.Context, appointments []*model.Appointment) error

	// BookIfOpen atomically sets status to taken and writes the patient
	// fields, but only when the slot is currently open. Reports whether
	// the swap happened. This is the only serialization point guarding
	// against double-booking.
	BookIfOpen(ctx context.Context, id int64, patientName, patientPhone string) (bool, error)

	// DeleteIfOpen atomically removes the slot only while it is still
	// open. Reports whether a row was deleted.
	DeleteIfOpen(ctx context.Context, id int64) (bool, error)

	// DeleteExpiredOpen removes open slots whose start time is before the
	// given instant and returns how many were removed. Taken slots are
	// never touched.
	DeleteExpiredOpen(ctx context.Context, before time.Time) (int64, error)
}
