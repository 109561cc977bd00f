// Package daemon provides the long-running snapshot service. On a cron
// schedule it recomputes every owner's current week and month summaries
// and persists them as period snapshots; a small HTTP endpoint reports
// service health. Snapshots are cached artifacts only — daily records
// stay the source of truth.
package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/planfacthq/planfact/internal/model"
	"github.com/planfacthq/planfact/internal/report"
)

// DefaultSchedule snapshots near the end of each working day.
const DefaultSchedule = "55 23 * * *"

// Store is the storage surface the daemon needs.
type Store interface {
	report.RecordStore
	ListOwners() ([]string, error)
	SavePeriodSummary(summary model.PeriodSummary) error
}

// Config controls the daemon runtime behavior.
type Config struct {
	Schedule string // cron expression, minute granularity
	Addr     string
	Calendar report.Calendar
	Now      func() time.Time // test hook, defaults to time.Now
}

// RunStats summarizes one snapshot pass.
type RunStats struct {
	At       time.Time `json:"at"`
	Owners   int       `json:"owners"`
	Written  int       `json:"written"`
	Failures int       `json:"failures"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt time.Time `json:"started_at"`
	Schedule  string    `json:"schedule"`
	LastRunAt time.Time `json:"last_run_at,omitzero"`
	RunCount  int64     `json:"run_count"`
	LastRun   RunStats  `json:"last_run"`
	LastError string    `json:"last_error,omitempty"`
}

// Service is the snapshot daemon runtime.
type Service struct {
	cfg     Config
	store   Store
	builder *report.Builder

	mu        sync.RWMutex
	startedAt time.Time
	lastRunAt time.Time
	runCount  int64
	lastRun   RunStats
	lastError string
}

// New returns a snapshot service over the given store.
func New(cfg Config, store Store) *Service {
	if cfg.Schedule == "" {
		cfg.Schedule = DefaultSchedule
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8791"
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Service{
		cfg:       cfg,
		store:     store,
		builder:   report.NewBuilder(store, cfg.Calendar, 0),
		startedAt: cfg.Now(),
	}
}

// Run starts the schedule and HTTP endpoint until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	c := cron.New()
	if _, err := c.AddFunc(s.cfg.Schedule, s.runOnce); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", s.cfg.Schedule, err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/status", s.handleStatus)

	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Seed a first pass so status is useful immediately.
	s.runOnce()
	c.Start()

	select {
	case <-ctx.Done():
		stop := c.Stop()
		<-stop.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		c.Stop()
		return fmt.Errorf("daemon http server: %w", err)
	}
}

// runOnce recomputes and persists week and month snapshots for every owner.
func (s *Service) runOnce() {
	now := s.cfg.Now()
	stats := RunStats{At: now}

	owners, err := s.store.ListOwners()
	if err != nil {
		s.finishRun(stats, fmt.Errorf("listing owners: %w", err))
		return
	}
	stats.Owners = len(owners)

	// Always recompute fresh: a snapshot pass exists to capture edits.
	s.builder.InvalidateAll()

	var firstErr error
	for _, owner := range owners {
		for _, window := range snapshotWindows(now) {
			r, err := s.builder.Build(owner, window.start, window.end, now)
			if err != nil {
				stats.Failures++
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			if len(r.Summary) == 0 {
				continue // nothing logged in this window yet
			}
			if err := s.store.SavePeriodSummary(r.PeriodSummary(now)); err != nil {
				stats.Failures++
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			stats.Written++
		}
	}

	s.finishRun(stats, firstErr)
}

type window struct {
	start, end time.Time
}

// snapshotWindows returns the current week and month ranges for ref.
func snapshotWindows(ref time.Time) []window {
	ws, we := report.WeekBounds(ref)
	ms, me := report.MonthBounds(ref)
	return []window{{ws, we}, {ms, me}}
}

func (s *Service) finishRun(stats RunStats, err error) {
	s.mu.Lock()
	s.lastRunAt = stats.At
	s.runCount++
	s.lastRun = stats
	if err != nil {
		s.lastError = err.Error()
	} else {
		s.lastError = ""
	}
	s.mu.Unlock()

	if err != nil {
		log.Printf("planfact daemon snapshot error: %v", err)
		return
	}
	log.Printf("planfact daemon snapshot: %d owners, %d summaries written", stats.Owners, stats.Written)
}

func (s *Service) status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt: s.startedAt,
		Schedule:  s.cfg.Schedule,
		LastRunAt: s.lastRunAt,
		RunCount:  s.runCount,
		LastRun:   s.lastRun,
		LastError: s.lastError,
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.status()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
