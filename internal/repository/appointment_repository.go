package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/bluclinic/appointment-service/internal/model"
	"github.com/bluclinic/appointment-service/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AppointmentRepository is the Postgres-backed appointment store. Status
// transitions are guarded by conditional UPDATE/DELETE statements so a slot
// can only ever be claimed once.
type AppointmentRepository struct {
	*base.Repository
}

func NewAppointmentRepository(pool *pgxpool.Pool) *AppointmentRepository {
	return &AppointmentRepository{Repository: base.NewRepository(pool)}
}

const appointmentColumns = `id, start_time, end_time, status, patient_name, patient_phone_number, created_at`

func scanAppointment(row interface{ Scan(dest ...any) error }) (*model.Appointment, error) {
	var appointment model.Appointment
	err := row.Scan(
		&appointment.ID,
		&appointment.StartTime,
		&appointment.EndTime,
		&appointment.Status,
		&appointment.PatientName,
		&appointment.PatientPhoneNumber,
		&appointment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &appointment, nil
}

// GetByID returns the appointment or nil when it does not exist.
func (r *AppointmentRepository) GetByID(ctx context.Context, id int64) (*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE id = $1
	`

	appointment, err := scanAppointment(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get appointment by id: %w", err)
	}

	return appointment, nil
}

// ListAll returns every appointment ordered by start time.
func (r *AppointmentRepository) ListAll(ctx context.Context) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		ORDER BY start_time
	`

	return r.list(ctx, query)
}

// ListByStatus returns appointments with the given status ordered by start time.
func (r *AppointmentRepository) ListByStatus(ctx context.Context, status model.AppointmentStatus) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE status = $1
		ORDER BY start_time
	`

	return r.list(ctx, query, status)
}

// ListByPhoneNumber returns every appointment claimed with the given phone
// number, current and historical.
func (r *AppointmentRepository) ListByPhoneNumber(ctx context.Context, phone string) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE patient_phone_number = $1
		ORDER BY start_time
	`

	return r.list(ctx, query, phone)
}

func (r *AppointmentRepository) list(ctx context.Context, query string, args ...any) ([]*model.Appointment, error) {
	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	var appointments []*model.Appointment
	for rows.Next() {
		appointment, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		appointments = append(appointments, appointment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read appointments: %w", err)
	}

	return appointments, nil
}

// CreateBatch inserts the given appointments inside one transaction and
// fills in their assigned ids and creation timestamps.
func (r *AppointmentRepository) CreateBatch(ctx context.Context, appointments []*model.Appointment) error {
	tx, err := r.Pool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO appointments (start_time, end_time, status, patient_name, patient_phone_number)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	for _, appointment := range appointments {
		err := tx.QueryRow(
			ctx, query,
			appointment.StartTime,
			appointment.EndTime,
			appointment.Status,
			appointment.PatientName,
			appointment.PatientPhoneNumber,
		).Scan(&appointment.ID, &appointment.CreatedAt)

		if err != nil {
			return fmt.Errorf("insert appointment: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// BookIfOpen claims the slot for the patient. The status check and the
// patient write happen in a single conditional UPDATE, so of any number of
// concurrent claimants exactly one sees a row affected.
func (r *AppointmentRepository) BookIfOpen(ctx context.Context, id int64, patientName, patientPhone string) (bool, error) {
	query := `
		UPDATE appointments
		SET status = 'taken', patient_name = $1, patient_phone_number = $2
		WHERE id = $3 AND status = 'open'
	`

	affected, err := r.ExecAffected(ctx, query, patientName, patientPhone, id)
	if err != nil {
		return false, fmt.Errorf("book appointment: %w", err)
	}

	return affected > 0, nil
}

// DeleteIfOpen removes the slot only while it is still open.
func (r *AppointmentRepository) DeleteIfOpen(ctx context.Context, id int64) (bool, error) {
	query := `
		DELETE FROM appointments
		WHERE id = $1 AND status = 'open'
	`

	affected, err := r.ExecAffected(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("delete appointment: %w", err)
	}

	return affected > 0, nil
}

// DeleteExpiredOpen removes open slots that started before the given instant.
func (r *AppointmentRepository) DeleteExpiredOpen(ctx context.Context, before time.Time) (int64, error) {
	query := `
		DELETE FROM appointments
		WHERE status = 'open' AND start_time < $1
	`

	affected, err := r.ExecAffected(ctx, query, before)
	if err != nil {
		return 0, fmt.Errorf("delete expired appointments: %w", err)
	}

	return affected, nil
}
