package service

import (
	"context"
	"log/slog"
	"time"
)

// HousekeepingService periodically removes expired sessions and
// verification records so the tables don't grow without bound.
type HousekeepingService struct {
	Sessions      *SessionService
	Verifications *VerificationService
	Logger        *slog.Logger
	Interval      time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService builds the service. An interval of zero or
// less defaults to one hour.
func NewHousekeepingService(
	sessions *SessionService,
	verifications *VerificationService,
	logger *slog.Logger,
	interval time.Duration,
) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &HousekeepingService{
		Sessions:      sessions,
		Verifications: verifications,
		Logger:        logger,
		Interval:      interval,
		stopCh:        make(chan struct{}),
		doneCh:        make(chan struct{}),
	}
}

// Start launches the background worker. Non-blocking; call Stop to
// shut it down.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping started", "interval", s.Interval)
}

// Stop shuts the worker down, blocking until any in-progress cleanup
// finishes.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping stopped")
}

func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run once at startup, then on the ticker.
	s.cleanup()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

// cleanup runs each sweep independently; one failure does not stop
// the others.
func (s *HousekeepingService) cleanup() {
	ctx := context.Background()

	if n, err := s.Sessions.Cleanup(ctx); err != nil {
		s.Logger.Error("failed to delete expired sessions", "error", err)
	} else if n > 0 {
		s.Logger.Info("deleted expired sessions", "count", n)
	}

	if n, err := s.Verifications.Cleanup(ctx); err != nil {
		s.Logger.Error("failed to delete expired verification records", "error", err)
	} else if n > 0 {
		s.Logger.Info("deleted expired verification records", "count", n)
	}
}
