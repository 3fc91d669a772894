// Package scheduler promotes tasks to urgent as their due dates approach.
//
// A task with auto_urgent_days set is flipped to urgent once the current
// date is within that many days of its due date. The scheduler sweeps the
// active store on a fixed interval and handles graceful shutdown.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/quadranthq/quadrant/internal/model"
)

// TaskStore is the store the scheduler sweeps. The local store satisfies it
// while signed out; a cloud-backed adapter can while signed in.
type TaskStore interface {
	Tasks(ctx context.Context) ([]*model.Task, error)
	MarkUrgent(ctx context.Context, id string) error
}

// Config holds configuration for the scheduler.
type Config struct {
	// SweepInterval is how often to scan for due tasks
	SweepInterval time.Duration

	// Logger for scheduler activity
	Logger *log.Logger
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		SweepInterval: time.Minute,
		Logger:        log.New(os.Stderr, "[scheduler] ", log.LstdFlags),
	}
}

// Scheduler periodically promotes due tasks to urgent.
type Scheduler struct {
	store  TaskStore
	config *Config

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// now is swappable for tests.
	now func() time.Time
}

// New creates a Scheduler over the given store.
func New(store TaskStore, config *Config) (*Scheduler, error) {
	if store == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	if config == nil {
		config = DefaultConfig()
	}
	if config.Logger == nil {
		config.Logger = log.New(os.Stderr, "[scheduler] ", log.LstdFlags)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		store:  store,
		config: config,
		ctx:    ctx,
		cancel: cancel,
		now:    time.Now,
	}, nil
}

// Start runs an immediate sweep and then sweeps on the configured interval.
// This blocks until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.config.Logger.Println("Starting scheduler")

	if err := s.Sweep(ctx); err != nil {
		return fmt.Errorf("initial sweep failed: %w", err)
	}

	s.wg.Add(1)
	go s.loop()

	select {
	case <-ctx.Done():
		return s.Stop()
	case <-s.ctx.Done():
		return nil
	}
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() error {
	s.cancel()
	s.wg.Wait()
	s.config.Logger.Println("Scheduler stopped")
	return nil
}

func (s *Scheduler) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return

		case <-ticker.C:
			if err := s.Sweep(s.ctx); err != nil {
				s.config.Logger.Printf("Sweep error: %v", err)
			}
		}
	}
}

// Sweep scans all tasks and promotes the ones inside their auto-urgent
// window. Individual promotion failures are logged and don't stop the sweep.
func (s *Scheduler) Sweep(ctx context.Context) error {
	tasks, err := s.store.Tasks(ctx)
	if err != nil {
		return fmt.Errorf("failed to read tasks: %w", err)
	}

	promoted := 0
	for _, task := range tasks {
		if !s.shouldPromote(task) {
			continue
		}
		if err := s.store.MarkUrgent(ctx, task.ID); err != nil {
			s.config.Logger.Printf("Warning: failed to promote task %s: %v", task.ID, err)
			continue
		}
		s.config.Logger.Printf("Promoted to urgent: %s (%s)", task.ID, task.Title)
		promoted++
	}

	if promoted > 0 {
		s.config.Logger.Printf("Sweep complete: %d task(s) promoted", promoted)
	}
	return nil
}

// shouldPromote reports whether the task is due for promotion.
func (s *Scheduler) shouldPromote(task *model.Task) bool {
	if task.Completed {
		return false
	}
	if task.AutoUrgentDays == nil || task.DueDate == nil {
		return false
	}
	if task.Urgent != nil && *task.Urgent {
		return false
	}

	threshold := task.DueDate.AddDate(0, 0, -*task.AutoUrgentDays)
	return !s.now().Before(threshold)
}
