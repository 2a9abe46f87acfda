package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/HariniKartheeswaran/queuectl/id"
	"github.com/HariniKartheeswaran/queuectl/job"
)

// Pool supervises a set of execution loops sharing one store. Each loop
// has its own worker identity, claims at most one job at a time, and
// observes a cooperative shutdown flag checked only between jobs — an
// in-flight job is always allowed to finish.
type Pool struct {
	store    job.Store
	executor *Executor
	logger   *slog.Logger

	count             int
	heartbeatInterval time.Duration
	staleThreshold    time.Duration

	stopCh  chan struct{}
	wg      sync.WaitGroup
	mu      sync.Mutex
	running bool

	// activeJobs maps job id → owning worker id for the heartbeat loop.
	activeJobs map[id.JobID]id.WorkerID
	activeMu   sync.Mutex
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithCount sets the number of execution loops.
func WithCount(n int) PoolOption {
	return func(p *Pool) {
		if n > 0 {
			p.count = n
		}
	}
}

// WithHeartbeatInterval sets how often running jobs are heartbeated.
// Zero disables heartbeats.
func WithHeartbeatInterval(d time.Duration) PoolOption {
	return func(p *Pool) { p.heartbeatInterval = d }
}

// WithStaleThreshold sets the age after which another worker's claim
// without a heartbeat is reclaimed. Zero disables the reaper.
func WithStaleThreshold(d time.Duration) PoolOption {
	return func(p *Pool) { p.staleThreshold = d }
}

// NewPool creates a worker pool over store.
func NewPool(store job.Store, executor *Executor, logger *slog.Logger, opts ...PoolOption) *Pool {
	p := &Pool{
		store:             store,
		executor:          executor,
		logger:            logger,
		count:             2,
		heartbeatInterval: 10 * time.Second,
		staleThreshold:    time.Minute,
		activeJobs:        make(map[id.JobID]id.WorkerID),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start launches the execution loops. It returns immediately.
func (p *Pool) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return
	}
	p.running = true

	// A fresh channel per start, so a pool stopped earlier can be
	// started again.
	stop := make(chan struct{})
	p.stopCh = stop

	p.logger.Info("worker pool starting",
		slog.Int("count", p.count),
		slog.Duration("heartbeat_interval", p.heartbeatInterval),
		slog.Duration("stale_threshold", p.staleThreshold),
	)

	for n := 1; n <= p.count; n++ {
		worker := id.NewWorkerID(n)
		p.wg.Add(1)
		go p.runLoop(worker, stop)
	}

	if p.heartbeatInterval > 0 {
		p.wg.Add(1)
		go p.heartbeatLoop(stop)
	}
	if p.staleThreshold > 0 {
		p.wg.Add(1)
		go p.reaperLoop(stop)
	}
}

// Stop sets the shutdown flag and waits for every loop to drain. Loops
// finish the job they are executing before exiting; if ctx expires first,
// Stop returns ctx.Err() with jobs still in flight.
func (p *Pool) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return nil
	}
	p.running = false
	close(p.stopCh)
	p.mu.Unlock()

	p.logger.Info("worker pool stopping, draining in-flight jobs")

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("worker pool stopped")
		return nil
	case <-ctx.Done():
		p.logger.Warn("worker pool shutdown timed out with jobs in flight")
		return ctx.Err()
	}
}

// runLoop is one execution loop: claim, execute, report, repeat. The
// shutdown flag is only checked between jobs.
func (p *Pool) runLoop(worker id.WorkerID, stop <-chan struct{}) {
	defer p.wg.Done()

	p.logger.Info("worker started", slog.String("worker_id", worker.String()))
	defer p.logger.Info("worker stopped", slog.String("worker_id", worker.String()))

	for {
		select {
		case <-stop:
			return
		default:
		}

		// Settings are read fresh each iteration so config changes apply
		// without a restart.
		settings, err := p.store.Settings(context.Background())
		if err != nil {
			p.logger.Error("load settings",
				slog.String("worker_id", worker.String()),
				slog.String("error", err.Error()),
			)
			p.sleep(time.Second, stop)
			continue
		}

		claimed, err := p.store.ClaimNext(context.Background(), worker)
		if err != nil {
			p.logger.Error("claim failed",
				slog.String("worker_id", worker.String()),
				slog.String("error", err.Error()),
			)
			p.sleep(settings.PollInterval, stop)
			continue
		}
		if claimed == nil {
			p.sleep(settings.PollInterval, stop)
			continue
		}

		p.trackJob(claimed.ID, worker)
		res := p.executor.Run(context.Background(), claimed, settings.Timeout)
		p.untrackJob(claimed.ID)

		if err := p.store.Report(context.Background(), claimed.ID, worker, res); err != nil {
			p.logger.Error("report failed",
				slog.String("job_id", claimed.ID.String()),
				slog.String("error", err.Error()),
			)
		}
	}
}

// heartbeatLoop refreshes the liveness timestamp of every job this pool is
// currently executing.
func (p *Pool) heartbeatLoop(stop <-chan struct{}) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			p.sendHeartbeats()
		}
	}
}

func (p *Pool) sendHeartbeats() {
	p.activeMu.Lock()
	active := make(map[id.JobID]id.WorkerID, len(p.activeJobs))
	for jobID, worker := range p.activeJobs {
		active[jobID] = worker
	}
	p.activeMu.Unlock()

	for jobID, worker := range active {
		if err := p.store.Heartbeat(context.Background(), jobID, worker); err != nil {
			p.logger.Warn("heartbeat failed",
				slog.String("job_id", jobID.String()),
				slog.String("error", err.Error()),
			)
		}
	}
}

// reaperLoop reclaims running jobs abandoned by crashed workers.
func (p *Pool) reaperLoop(stop <-chan struct{}) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.staleThreshold)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if _, err := p.store.ReapStale(context.Background(), p.staleThreshold); err != nil {
				p.logger.Error("reap stale claims", slog.String("error", err.Error()))
			}
		}
	}
}

func (p *Pool) sleep(d time.Duration, stop <-chan struct{}) {
	select {
	case <-time.After(d):
	case <-stop:
	}
}

func (p *Pool) trackJob(jobID id.JobID, worker id.WorkerID) {
	p.activeMu.Lock()
	p.activeJobs[jobID] = worker
	p.activeMu.Unlock()
}

func (p *Pool) untrackJob(jobID id.JobID) {
	p.activeMu.Lock()
	delete(p.activeJobs, jobID)
	p.activeMu.Unlock()
}
