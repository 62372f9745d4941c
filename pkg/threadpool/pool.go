package threadpool

import (
	"sync"
	"sync/atomic"
	"time"

	tperrors "github.com/ejgdlyz/threadpool/pkg/common/errors"
	"github.com/ejgdlyz/threadpool/pkg/common/validation"
)

// Mode selects the pool's scaling policy.
type Mode int

const (
	// ModeFixed keeps a constant worker count for the pool's entire lifetime.
	ModeFixed Mode = iota

	// ModeCached grows the worker count under load, up to MaxWorkers, and
	// reclaims workers above the initial count after they idle past
	// IdleTimeout.
	ModeCached
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	switch m {
	case ModeFixed:
		return "fixed"
	case ModeCached:
		return "cached"
	default:
		return "unknown"
	}
}

// Defaults applied by NewWithConfig for zero-valued Config fields.
const (
	// DefaultMaxQueueDepth is the default capacity of the task queue.
	DefaultMaxQueueDepth = 1024

	// DefaultMaxWorkers is the default cached-mode worker ceiling.
	DefaultMaxWorkers = 10

	// DefaultIdleTimeout is how long a cached-mode worker above the initial
	// count may idle before it reclaims itself.
	DefaultIdleTimeout = 10 * time.Second

	// DefaultSubmitTimeout is how long a submission waits for queue space
	// before it is rejected.
	DefaultSubmitTimeout = time.Second
)

// idlePollInterval is the granularity at which cached-mode workers wake to
// evaluate their idle time.
const idlePollInterval = time.Second

// Job is a unit of work carrying its own argument bindings. The returned
// value is delivered to the submitter through the job's result handle.
type Job func() (any, error)

// Config holds configuration options for creating a pool.
type Config struct {
	// Mode is the scaling policy. The zero value is ModeFixed.
	Mode Mode

	// MaxQueueDepth is the capacity of the task queue.
	MaxQueueDepth int

	// MaxWorkers is the worker-count ceiling for ModeCached.
	MaxWorkers int

	// IdleTimeout is how long a cached-mode worker above the initial count
	// may remain without work before self-terminating.
	IdleTimeout time.Duration

	// SubmitTimeout bounds how long a submission waits for queue space.
	SubmitTimeout time.Duration

	// OnWorkerStart is called when a worker starts.
	OnWorkerStart func(workerID uint64)

	// OnWorkerStop is called when a worker deregisters, either at shutdown
	// or through cached-mode idle reclamation.
	OnWorkerStop func(workerID uint64)

	// OnSubmitted is called after a job is accepted into the queue.
	OnSubmitted func()

	// OnJobComplete is called after a job finishes (success or failure).
	OnJobComplete func(workerID uint64, duration time.Duration, err error)

	// OnRejected is called when a submission is rejected, either by
	// backpressure or because the pool is not running.
	OnRejected func()
}

// Pool executes submitted jobs on a set of worker goroutines. It owns a
// bounded FIFO task queue and a registry of live workers keyed by identity.
//
// A Pool is configured before Start and is single-use: once Shutdown has
// begun it cannot be started again.
type Pool struct {
	mu   sync.Mutex
	conf Config

	running bool
	stopped bool
	queue   *taskQueue

	// Worker registry. IDs are unique and monotonically assigned for the
	// pool's lifetime; entries are removed only by the worker that owns
	// that identity.
	workers        map[uint64]*worker
	nextWorkerID   uint64
	initialWorkers int
	currentWorkers int
	idleWorkers    int

	shutdownCh   chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}
	wg           sync.WaitGroup

	// slowSubmitters tracks submissions waiting on a full queue, so shutdown
	// drains the queue only after every in-flight submission has settled.
	slowSubmitters sync.WaitGroup

	submitted atomic.Int64
	completed atomic.Int64
	rejected  atomic.Int64
}

// worker is a single worker bound to its owning pool.
type worker struct {
	id   uint64
	pool *Pool
}

// New creates a fixed-mode pool with default configuration.
func New() *Pool {
	return NewWithConfig(Config{})
}

// NewWithConfig creates a pool with the specified configuration.
// Zero-valued fields take the package defaults.
func NewWithConfig(conf Config) *Pool {
	if conf.MaxQueueDepth <= 0 {
		conf.MaxQueueDepth = DefaultMaxQueueDepth
	}
	if conf.MaxWorkers <= 0 {
		conf.MaxWorkers = DefaultMaxWorkers
	}
	if conf.IdleTimeout <= 0 {
		conf.IdleTimeout = DefaultIdleTimeout
	}
	if conf.SubmitTimeout <= 0 {
		conf.SubmitTimeout = DefaultSubmitTimeout
	}

	return &Pool{
		conf:       conf,
		workers:    make(map[uint64]*worker),
		shutdownCh: make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// SetMode sets the scaling policy. Valid only before Start.
func (p *Pool) SetMode(mode Mode) error {
	if mode != ModeFixed && mode != ModeCached {
		return tperrors.NewValidationError("threadpool", "mode", mode, "unknown mode")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return tperrors.ErrPoolRunning
	}
	p.conf.Mode = mode
	return nil
}

// SetMaxQueueDepth sets the task queue capacity. Valid only before Start.
func (p *Pool) SetMaxQueueDepth(n int) error {
	if err := validation.ValidatePositive("threadpool", "maxQueueDepth", n); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return tperrors.ErrPoolRunning
	}
	p.conf.MaxQueueDepth = n
	return nil
}

// SetMaxWorkers sets the cached-mode worker ceiling. Valid only before Start
// and only when the pool is in ModeCached.
func (p *Pool) SetMaxWorkers(n int) error {
	if err := validation.ValidatePositive("threadpool", "maxWorkers", n); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return tperrors.ErrPoolRunning
	}
	if p.conf.Mode != ModeCached {
		return tperrors.NewOperationError("threadpool", "SetMaxWorkers", tperrors.ErrInvalidConfiguration).
			WithContext("ceiling only applies in cached mode")
	}
	p.conf.MaxWorkers = n
	return nil
}

// SetIdleTimeout sets the cached-mode idle reclamation threshold.
// Valid only before Start.
func (p *Pool) SetIdleTimeout(d time.Duration) error {
	if err := validation.ValidatePositiveDuration("threadpool", "idleTimeout", d); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return tperrors.ErrPoolRunning
	}
	p.conf.IdleTimeout = d
	return nil
}

// SetSubmitTimeout sets the submission backpressure window.
// Valid only before Start.
func (p *Pool) SetSubmitTimeout(d time.Duration) error {
	if err := validation.ValidatePositiveDuration("threadpool", "submitTimeout", d); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return tperrors.ErrPoolRunning
	}
	p.conf.SubmitTimeout = d
	return nil
}

// Start launches the pool with the given number of workers, all idle.
// In cached mode the worker count may later grow up to MaxWorkers.
func (p *Pool) Start(initialWorkers int) error {
	if err := validation.ValidatePositive("threadpool", "initialWorkers", initialWorkers); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return tperrors.ErrPoolRunning
	}
	if p.stopped {
		return tperrors.ErrPoolStopped
	}
	if p.conf.Mode == ModeCached && initialWorkers > p.conf.MaxWorkers {
		return tperrors.NewValidationError("threadpool", "initialWorkers", initialWorkers, "exceeds MaxWorkers").
			WithHint("raise MaxWorkers or start with fewer workers")
	}

	p.queue = newTaskQueue(p.conf.MaxQueueDepth)
	p.running = true
	p.initialWorkers = initialWorkers
	for i := 0; i < initialWorkers; i++ {
		p.spawnWorkerLocked()
	}
	return nil
}

// spawnWorkerLocked registers and starts one worker. The new worker begins
// idle. Caller must hold p.mu.
func (p *Pool) spawnWorkerLocked() {
	p.nextWorkerID++
	w := &worker{id: p.nextWorkerID, pool: p}
	p.workers[w.id] = w
	p.currentWorkers++
	p.idleWorkers++
	p.wg.Add(1)
	go w.run()
}

// maybeGrowLocked spawns one worker if the cached-mode growth condition
// holds: more queued jobs than idle workers and headroom under the ceiling.
// The check and the spawn happen under the same lock so the ceiling is
// never overshot. Caller must hold p.mu.
func (p *Pool) maybeGrowLocked() {
	if p.conf.Mode != ModeCached || !p.running {
		return
	}
	if p.queue.depth() > p.idleWorkers && p.currentWorkers < p.conf.MaxWorkers {
		p.spawnWorkerLocked()
	}
}

func (p *Pool) markBusy() {
	p.mu.Lock()
	p.idleWorkers--
	p.mu.Unlock()
}

func (p *Pool) markIdle() {
	p.mu.Lock()
	p.idleWorkers++
	p.mu.Unlock()
}

// deregisterLocked removes a worker from the registry. Caller must hold p.mu.
func (p *Pool) deregisterLocked(id uint64) {
	delete(p.workers, id)
	p.currentWorkers--
	p.idleWorkers--
}

// idlePoll returns the cached-mode wake granularity, capped by the idle
// timeout so short configurations are still reclaimed promptly.
func (p *Pool) idlePoll() time.Duration {
	if p.conf.IdleTimeout < idlePollInterval {
		return p.conf.IdleTimeout
	}
	return idlePollInterval
}

// Mode returns the configured scaling policy.
func (p *Pool) Mode() Mode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conf.Mode
}

// Running reports whether the pool has been started and not yet shut down.
func (p *Pool) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// InitialWorkers returns the worker count the pool was started with.
func (p *Pool) InitialWorkers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.initialWorkers
}

// CurrentWorkers returns the number of live workers.
func (p *Pool) CurrentWorkers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.currentWorkers
}

// IdleWorkers returns the number of workers waiting for work.
func (p *Pool) IdleWorkers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.idleWorkers
}

// QueueDepth returns the number of queued jobs waiting for a worker.
func (p *Pool) QueueDepth() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.queue == nil {
		return 0
	}
	return p.queue.depth()
}

// MaxQueueDepth returns the configured task queue capacity.
func (p *Pool) MaxQueueDepth() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.conf.MaxQueueDepth
}

// TotalSubmitted returns the total number of jobs accepted into the queue.
func (p *Pool) TotalSubmitted() int64 {
	return p.submitted.Load()
}

// TotalCompleted returns the total number of jobs executed.
func (p *Pool) TotalCompleted() int64 {
	return p.completed.Load()
}

// TotalRejected returns the total number of rejected submissions.
func (p *Pool) TotalRejected() int64 {
	return p.rejected.Load()
}
