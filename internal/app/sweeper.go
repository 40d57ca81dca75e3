package app

import (
	"context"
	"time"

	"github.com/bluclinic/appointment-service/internal/service"
	"go.uber.org/zap"
)

// Sweeper periodically purges open slots whose start time already passed.
// Taken slots are never touched; the purge goes through the same if-open
// guard as an administrative delete.
type Sweeper struct {
	appointments *service.AppointmentService
	interval     time.Duration
	logger       *zap.Logger
	stopChan     chan struct{}
}

func NewSweeper(appointments *service.AppointmentService, interval time.Duration, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		appointments: appointments,
		interval:     interval,
		logger:       logger,
		stopChan:     make(chan struct{}),
	}
}

// Start launches the sweep loop. A non-positive interval disables it.
func (s *Sweeper) Start(ctx context.Context) {
	if s.interval <= 0 {
		s.logger.Info("Expired slot sweeper disabled")
		return
	}

	s.logger.Info("Starting expired slot sweeper", zap.Duration("interval", s.interval))
	go s.run(ctx)
}

// Stop terminates the sweep loop.
func (s *Sweeper) Stop() {
	close(s.stopChan)
}

func (s *Sweeper) run(ctx context.Context) {
	// First sweep right away so a restart does not leave stale slots
	// around for a full interval.
	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.sweep(ctx)
		case <-s.stopChan:
			s.logger.Info("Expired slot sweeper stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Expired slot sweeper cancelled")
			return
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	if _, err := s.appointments.PurgeExpiredOpen(ctx, time.Now()); err != nil {
		s.logger.Error("Failed to purge expired slots", zap.Error(err))
	}
}
