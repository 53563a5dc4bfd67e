package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"feedpulse/backend/internal/config"
	"feedpulse/backend/internal/logger"
	"feedpulse/backend/internal/metrics"
	"feedpulse/backend/internal/service"
)

// Scheduler runs ingestion on a fixed interval and on demand. At most one run
// or repair pass is in flight: ticks that find one in progress are dropped and
// manual triggers get service.ErrAlreadyRunning.
type Scheduler struct {
	ingest   service.IngestService
	repair   service.RepairService
	interval time.Duration
	metrics  *metrics.Ingest

	running atomic.Bool

	mu      sync.Mutex // protects started and stopped
	started bool
	stopped bool

	stopCh chan struct{}
	wg     sync.WaitGroup
	ctx    context.Context    // cancelled by Stop, parent of every run
	cancel context.CancelFunc // cancels ctx
}

// New creates a scheduler. repair may be nil when base URL repair is not offered.
func New(ingest service.IngestService, repair service.RepairService, interval time.Duration, m *metrics.Ingest) *Scheduler {
	if interval <= 0 {
		interval = config.DefaultFetchInterval
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		ingest:   ingest,
		repair:   repair,
		interval: interval,
		metrics:  m,
		stopCh:   make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start launches the recurring job. Calling it again is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started || s.stopped {
		return
	}
	s.started = true

	s.wg.Add(1)
	go s.run()
	logger.Info("scheduler started", "module", "scheduler", "action", "ingest", "resource", "feed", "result", "ok", "interval_ms", s.interval.Milliseconds())
}

// Stop cancels any in-flight run and waits for the job to exit.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.mu.Unlock()

	s.cancel()
	close(s.stopCh)
	s.wg.Wait()
	logger.Info("scheduler stopped", "module", "scheduler", "action", "ingest", "resource", "feed", "result", "ok")
}

// Running reports whether a run or repair pass is in flight.
func (s *Scheduler) Running() bool {
	return s.running.Load()
}

// TriggerNow runs ingestion synchronously, optionally for one owner.
func (s *Scheduler) TriggerNow(ctx context.Context, ownerID *int64) (service.RunReport, error) {
	if !s.running.CompareAndSwap(false, true) {
		return service.RunReport{}, service.ErrAlreadyRunning
	}
	defer s.running.Store(false)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(s.ctx, cancel)
	defer stop()

	logger.Info("manual ingest started", "module", "scheduler", "action", "trigger", "resource", "feed", "result", "ok")
	return s.ingest.Run(runCtx, ownerID)
}

// TriggerRepair rewrites stored feed base URLs while holding the run flag, so
// no ingestion inserts under an identity that is being moved.
func (s *Scheduler) TriggerRepair(ctx context.Context) (service.RepairReport, error) {
	if s.repair == nil {
		return service.RepairReport{}, service.ErrInvalid
	}
	if !s.running.CompareAndSwap(false, true) {
		return service.RepairReport{}, service.ErrAlreadyRunning
	}
	defer s.running.Store(false)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(s.ctx, cancel)
	defer stop()

	logger.Info("repair started", "module", "scheduler", "action", "repair", "resource", "subscription", "result", "ok")
	return s.repair.RepairBaseURLs(runCtx)
}

func (s *Scheduler) run() {
	defer s.wg.Done()

	s.tick()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.tick()
		case <-s.stopCh:
			return
		}
	}
}

func (s *Scheduler) tick() {
	if !s.running.CompareAndSwap(false, true) {
		s.metrics.SkippedTick()
		logger.Info("scheduled ingest skipped", "module", "scheduler", "action", "ingest", "resource", "feed", "result", "skipped", "reason", "run in progress")
		return
	}
	defer s.running.Store(false)

	logger.Info("scheduled ingest started", "module", "scheduler", "action", "ingest", "resource", "feed", "result", "ok")
	report, err := s.ingest.Run(s.ctx, nil)
	switch {
	case s.ctx.Err() != nil:
		logger.Warn("scheduled ingest cancelled", "module", "scheduler", "action", "ingest", "resource", "feed", "result", "cancelled")
	case err != nil:
		logger.Error("scheduled ingest failed", "module", "scheduler", "action", "ingest", "resource", "feed", "result", "failed", "error", err)
	case !report.Success():
		logger.Warn("scheduled ingest incomplete", "module", "scheduler", "action", "ingest", "resource", "feed", "result", "failed", "run_id", report.RunID, "new_posts", report.NewPosts, "skipped", report.Skipped)
	default:
		logger.Info("scheduled ingest completed", "module", "scheduler", "action", "ingest", "resource", "feed", "result", "ok", "run_id", report.RunID, "new_posts", report.NewPosts, "skipped", report.Skipped)
	}
}
