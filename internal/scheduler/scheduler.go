package scheduler

import (
	"errors"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
)

// Refresher re-fetches whatever the dashboard is currently showing.
type Refresher interface {
	Refresh() error
}

// Scheduler periodically refreshes the dashboard.
type Scheduler struct {
	scheduler *gocron.Scheduler
	refresher Refresher
	interval  time.Duration
	log       logrus.FieldLogger
}

// New creates a new Scheduler.
func New(interval time.Duration, refresher Refresher, log logrus.FieldLogger) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler: s,
		refresher: refresher,
		interval:  interval,
		log:       log.WithField("component", "scheduler"),
	}
}

// Start schedules the periodic job and starts the underlying scheduler. The
// first refresh happens one interval after Start.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		return errors.New("scheduler: refresh interval must be positive")
	}

	_, err := s.scheduler.Every(s.interval).WaitForSchedule().Do(func() {
		s.log.Debug("running dashboard refresh")
		if err := s.refresher.Refresh(); err != nil {
			s.log.WithError(err).Warn("dashboard refresh failed")
		}
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.log.WithField("interval", s.interval.String()).Info("scheduler started")
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
