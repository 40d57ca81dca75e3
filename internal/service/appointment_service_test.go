package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/bluclinic/appointment-service/internal/apperror"
	"github.com/bluclinic/appointment-service/internal/model"
	"github.com/bluclinic/appointment-service/internal/repository/memory"
	"github.com/bluclinic/appointment-service/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService(t *testing.T) (*service.AppointmentService, *memory.AppointmentRepository) {
	t.Helper()
	store := memory.NewAppointmentRepository()
	return service.NewAppointmentService(store, zap.NewNop()), store
}

func mustCreateWindow(t *testing.T, svc *service.AppointmentService, start, end time.Time) []*model.Appointment {
	t.Helper()
	appointments, err := svc.CreateAppointments(context.Background(), start, end)
	require.NoError(t, err)
	return appointments
}

func at(hour, minute int) time.Time {
	return time.Date(2026, time.September, 1, hour, minute, 0, 0, time.UTC)
}

func TestCreateAppointmentsRejectsInvalidRange(t *testing.T) {
	svc, _ := newService(t)

	cases := []struct {
		name       string
		start, end time.Time
	}{
		{"end before start", at(10, 0), at(9, 0)},
		{"window shorter than one slot", at(9, 0), at(9, 15)},
		{"empty window", at(9, 0), at(9, 0)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateAppointments(context.Background(), tc.start, tc.end)
			assert.ErrorIs(t, err, apperror.ErrInvalidRange)
		})
	}
}

func TestCreateAppointmentsSlicesWindowIntoSlots(t *testing.T) {
	svc, _ := newService(t)

	appointments := mustCreateWindow(t, svc, at(9, 0), at(10, 0))

	require.Len(t, appointments, 2)
	assert.Equal(t, at(9, 0), appointments[0].StartTime)
	assert.Equal(t, at(9, 30), appointments[0].EndTime)
	assert.Equal(t, at(9, 30), appointments[1].StartTime)
	assert.Equal(t, at(10, 0), appointments[1].EndTime)

	for _, appointment := range appointments {
		assert.Equal(t, model.AppointmentStatusOpen, appointment.Status)
		assert.Equal(t, model.SlotDuration, appointment.EndTime.Sub(appointment.StartTime))
		assert.NotZero(t, appointment.ID)
		assert.Empty(t, appointment.PatientName)
		assert.Empty(t, appointment.PatientPhoneNumber)
	}
}

func TestCreateAppointmentsDropsTrailingRemainder(t *testing.T) {
	svc, _ := newService(t)

	appointments := mustCreateWindow(t, svc, at(9, 0), at(10, 10))

	require.Len(t, appointments, 2)
	assert.Equal(t, at(10, 0), appointments[1].EndTime)
}

func TestBookUnknownAppointment(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Book(context.Background(), 999, "Jane", "555-1111")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestBookRequiresPatientFields(t *testing.T) {
	svc, store := newService(t)
	appointments := mustCreateWindow(t, svc, at(9, 0), at(9, 30))
	id := appointments[0].ID

	_, err := svc.Book(context.Background(), id, "", "555-1111")
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	_, err = svc.Book(context.Background(), id, "Jane", "  ")
	assert.ErrorIs(t, err, apperror.ErrInvalidInput)

	appointment, err := store.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusOpen, appointment.Status)
	assert.Empty(t, appointment.PatientName)
}

func TestBookConflictKeepsFirstClaim(t *testing.T) {
	svc, _ := newService(t)
	appointments := mustCreateWindow(t, svc, at(9, 0), at(9, 30))
	id := appointments[0].ID

	booked, err := svc.Book(context.Background(), id, "Jane", "555-1111")
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusTaken, booked.Status)
	assert.Equal(t, "Jane", booked.PatientName)
	assert.Equal(t, "555-1111", booked.PatientPhoneNumber)

	_, err = svc.Book(context.Background(), id, "John", "555-2222")
	assert.ErrorIs(t, err, apperror.ErrAlreadyTaken)

	appointment, err := svc.AppointmentsByPhoneNumber(context.Background(), "555-1111")
	require.NoError(t, err)
	require.Len(t, appointment, 1)
	assert.Equal(t, "Jane", appointment[0].PatientName)
}

func TestBookIsExclusiveUnderConcurrency(t *testing.T) {
	svc, store := newService(t)
	appointments := mustCreateWindow(t, svc, at(9, 0), at(9, 30))
	id := appointments[0].ID

	const claimants = 32

	var wg sync.WaitGroup
	errs := make([]error, claimants)

	for i := 0; i < claimants; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Book(
				context.Background(),
				id,
				fmt.Sprintf("patient-%d", i),
				fmt.Sprintf("555-%04d", i),
			)
		}(i)
	}
	wg.Wait()

	winner := -1
	for i, err := range errs {
		if err == nil {
			require.Equal(t, -1, winner, "more than one claimant succeeded")
			winner = i
			continue
		}
		assert.ErrorIs(t, err, apperror.ErrAlreadyTaken)
	}
	require.NotEqual(t, -1, winner, "no claimant succeeded")

	appointment, err := store.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusTaken, appointment.Status)
	assert.Equal(t, fmt.Sprintf("patient-%d", winner), appointment.PatientName)
	assert.Equal(t, fmt.Sprintf("555-%04d", winner), appointment.PatientPhoneNumber)
}

func TestDeleteOpen(t *testing.T) {
	svc, _ := newService(t)
	appointments := mustCreateWindow(t, svc, at(9, 0), at(10, 0))
	openID, takenID := appointments[0].ID, appointments[1].ID

	_, err := svc.Book(context.Background(), takenID, "Jane", "555-1111")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteOpen(context.Background(), 999), apperror.ErrNotFound)

	err = svc.DeleteOpen(context.Background(), takenID)
	assert.ErrorIs(t, err, apperror.ErrCannotDeleteTaken)

	remaining, err := svc.AllAppointments(context.Background())
	require.NoError(t, err)
	assert.Len(t, remaining, 2, "failed delete must not mutate anything")

	require.NoError(t, svc.DeleteOpen(context.Background(), openID))

	remaining, err = svc.AllAppointments(context.Background())
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, takenID, remaining[0].ID)
	assert.Equal(t, "Jane", remaining[0].PatientName)
}

func TestOpenAppointmentsExcludesTaken(t *testing.T) {
	svc, _ := newService(t)
	appointments := mustCreateWindow(t, svc, at(9, 0), at(10, 0))

	_, err := svc.Book(context.Background(), appointments[0].ID, "Jane", "555-1111")
	require.NoError(t, err)

	open, err := svc.OpenAppointments(context.Background())
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, appointments[1].ID, open[0].ID)

	// Pure read: a second call without writes returns the same set.
	again, err := svc.OpenAppointments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, open, again)
}

func TestAppointmentsByPhoneNumberSpansStatuses(t *testing.T) {
	svc, _ := newService(t)
	appointments := mustCreateWindow(t, svc, at(9, 0), at(10, 30))

	for _, id := range []int64{appointments[0].ID, appointments[2].ID} {
		_, err := svc.Book(context.Background(), id, "Jane", "555-1111")
		require.NoError(t, err)
	}

	matched, err := svc.AppointmentsByPhoneNumber(context.Background(), "555-1111")
	require.NoError(t, err)
	assert.Len(t, matched, 2)

	matched, err = svc.AppointmentsByPhoneNumber(context.Background(), "555-9999")
	require.NoError(t, err)
	assert.Empty(t, matched)
}

func TestPurgeExpiredOpenKeepsTakenSlots(t *testing.T) {
	svc, _ := newService(t)
	appointments := mustCreateWindow(t, svc, at(9, 0), at(10, 0))

	_, err := svc.Book(context.Background(), appointments[0].ID, "Jane", "555-1111")
	require.NoError(t, err)

	removed, err := svc.PurgeExpiredOpen(context.Background(), at(11, 0))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	remaining, err := svc.AllAppointments(context.Background())
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, model.AppointmentStatusTaken, remaining[0].Status)
}

// storeMock covers the error-propagation paths the in-memory store cannot
// produce.
type storeMock struct {
	GetByIDFunc           func(ctx context.Context, id int64) (*model.Appointment, error)
	ListAllFunc           func(ctx context.Context) ([]*model.Appointment, error)
	ListByStatusFunc      func(ctx context.Context, status model.AppointmentStatus) ([]*model.Appointment, error)
	ListByPhoneNumberFunc func(ctx context.Context, phone string) ([]*model.Appointment, error)
	CreateBatchFunc       func(ctx context.Context, appointments []*model.Appointment) error
	BookIfOpenFunc        func(ctx context.Context, id int64, patientName, patientPhone string) (bool, error)
	DeleteIfOpenFunc      func(ctx context.Context, id int64) (bool, error)
	DeleteExpiredOpenFunc func(ctx context.Context, before time.Time) (int64, error)
}

var _ service.AppointmentStore = (*storeMock)(nil)

func (m *storeMock) GetByID(ctx context.Context, id int64) (*model.Appointment, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *storeMock) ListAll(ctx context.Context) ([]*model.Appointment, error) {
	return m.ListAllFunc(ctx)
}

func (m *storeMock) ListByStatus(ctx context.Context, status model.AppointmentStatus) ([]*model.Appointment, error) {
	return m.ListByStatusFunc(ctx, status)
}

func (m *storeMock) ListByPhoneNumber(ctx context.Context, phone string) ([]*model.Appointment, error) {
	return m.ListByPhoneNumberFunc(ctx, phone)
}

func (m *storeMock) CreateBatch(ctx context.Context, appointments []*model.Appointment) error {
	return m.CreateBatchFunc(ctx, appointments)
}

func (m *storeMock) BookIfOpen(ctx context.Context, id int64, patientName, patientPhone string) (bool, error) {
	return m.BookIfOpenFunc(ctx, id, patientName, patientPhone)
}

func (m *storeMock) DeleteIfOpen(ctx context.Context, id int64) (bool, error) {
	return m.DeleteIfOpenFunc(ctx, id)
}

func (m *storeMock) DeleteExpiredOpen(ctx context.Context, before time.Time) (int64, error) {
	return m.DeleteExpiredOpenFunc(ctx, before)
}

func TestStorageFailuresPropagateOpaquely(t *testing.T) {
	storageErr := errors.New("connection refused")
	mock := &storeMock{
		BookIfOpenFunc: func(context.Context, int64, string, string) (bool, error) {
			return false, storageErr
		},
		CreateBatchFunc: func(context.Context, []*model.Appointment) error {
			return storageErr
		},
	}
	svc := service.NewAppointmentService(mock, zap.NewNop())

	_, err := svc.Book(context.Background(), 1, "Jane", "555-1111")
	assert.ErrorIs(t, err, storageErr)
	assert.NotErrorIs(t, err, apperror.ErrAlreadyTaken)
	assert.NotErrorIs(t, err, apperror.ErrNotFound)

	_, err = svc.CreateAppointments(context.Background(), at(9, 0), at(10, 0))
	assert.ErrorIs(t, err, storageErr)
}
