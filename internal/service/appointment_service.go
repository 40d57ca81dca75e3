package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bluclinic/appointment-service/internal/apperror"
	"github.com/bluclinic/appointment-service/internal/model"
	"go.uber.org/zap"
)

type AppointmentService struct {
	store  AppointmentStore
	logger *zap.Logger
}

func NewAppointmentService(store AppointmentStore, logger *zap.Logger) *AppointmentService {
	return &AppointmentService{
		store:  store,
		logger: logger,
	}
}

// CreateAppointments slices [start, end) into contiguous 30-minute open
// slots and persists them. A trailing remainder shorter than one slot is
// dropped, never padded into a short slot.
func (s *AppointmentService) CreateAppointments(ctx context.Context, start, end time.Time) ([]*model.Appointment, error) {
	if end.Before(start) || end.Sub(start) < model.SlotDuration {
		return nil, apperror.ErrInvalidRange
	}

	var appointments []*model.Appointment
	for cursor := start; !cursor.Add(model.SlotDuration).After(end); cursor = cursor.Add(model.SlotDuration) {
		appointments = append(appointments, &model.Appointment{
			StartTime: cursor,
			EndTime:   cursor.Add(model.SlotDuration),
			Status:    model.AppointmentStatusOpen,
		})
	}

	if err := s.store.CreateBatch(ctx, appointments); err != nil {
		return nil, fmt.Errorf("create appointments: %w", err)
	}

	s.logger.Info("Appointments created",
		zap.Int("count", len(appointments)),
		zap.Time("from", start),
		zap.Time("to", end),
	)

	return appointments, nil
}

// Book claims the slot for the patient. The open check and the patient
// write happen in a single atomic store operation; losers of the race get
// ErrAlreadyTaken. A taken slot never transitions back to open.
func (s *AppointmentService) Book(ctx context.Context, id int64, patientName, patientPhone string) (*model.Appointment, error) {
	patientName = strings.TrimSpace(patientName)
	patientPhone = strings.TrimSpace(patientPhone)
	if patientName == "" || patientPhone == "" {
		return nil, apperror.ErrInvalidInput
	}

	booked, err := s.store.BookIfOpen(ctx, id, patientName, patientPhone)
	if err != nil {
		return nil, fmt.Errorf("book appointment: %w", err)
	}

	if !booked {
		// The claim failed; a follow-up read only refines the reason.
		appointment, err := s.store.GetByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("get appointment: %w", err)
		}
		if appointment == nil {
			return nil, apperror.ErrNotFound
		}
		return nil, apperror.ErrAlreadyTaken
	}

	appointment, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}

	s.logger.Info("Appointment booked",
		zap.Int64("appointment_id", id),
		zap.String("patient_phone", patientPhone),
	)

	return appointment, nil
}

// DeleteOpen removes a slot that has not been claimed yet. Taken slots are
// permanent and cannot be deleted.
func (s *AppointmentService) DeleteOpen(ctx context.Context, id int64) error {
	deleted, err := s.store.DeleteIfOpen(ctx, id)
	if err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}

	if !deleted {
		appointment, err := s.store.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("get appointment: %w", err)
		}
		if appointment == nil {
			return apperror.ErrNotFound
		}
		return apperror.ErrCannotDeleteTaken
	}

	s.logger.Info("Appointment deleted", zap.Int64("appointment_id", id))

	return nil
}

// OpenAppointments returns only the slots still available for claiming.
func (s *AppointmentService) OpenAppointments(ctx context.Context) ([]*model.Appointment, error) {
	return s.store.ListByStatus(ctx, model.AppointmentStatusOpen)
}

// AllAppointments returns every slot, open and taken, for the admin listing.
func (s *AppointmentService) AllAppointments(ctx context.Context) ([]*model.Appointment, error) {
	return s.store.ListAll(ctx)
}

// AppointmentsByPhoneNumber returns every slot ever claimed with the phone
// number, including past ones.
func (s *AppointmentService) AppointmentsByPhoneNumber(ctx context.Context, phone string) ([]*model.Appointment, error) {
	return s.store.ListByPhoneNumber(ctx, phone)
}

// PurgeExpiredOpen drops open slots whose start time already passed.
func (s *AppointmentService) PurgeExpiredOpen(ctx context.Context, now time.Time) (int64, error) {
	removed, err := s.store.DeleteExpiredOpen(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("purge expired appointments: %w", err)
	}

	if removed > 0 {
		s.logger.Info("Expired open appointments purged", zap.Int64("count", removed))
	}

	return removed, nil
}
