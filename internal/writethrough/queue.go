// Package writethrough runs background persistence of locally applied store
// mutations. Tasks sharing a key run in submission order on the same worker.
package writethrough

import (
	"context"
	"errors"
	"hash/fnv"
	"log/slog"
	"sync"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/aaravmahajanofficial/storefront/internal/metrics"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
)

var (
	ErrQueueClosed = errors.New("write-through queue is closed")
	ErrQueueFull   = errors.New("write-through queue is full")
)

type Task func(ctx context.Context) error

// Enqueuer is the part of the queue that stores depend on.
type Enqueuer interface {
	Enqueue(ctx context.Context, key, name string, task Task) *PendingSync
}

// PendingSync tracks one enqueued write. Done is closed once the write has
// committed or failed.
type PendingSync struct {
	name string
	done chan struct{}

	mu     sync.Mutex
	status models.SyncStatus
	err    error
}

func newPendingSync(name string) *PendingSync {
	return &PendingSync{name: name, done: make(chan struct{}), status: models.SyncStatusPending}
}

// Resolved returns an already completed handle.
func Resolved(name string, err error) *PendingSync {
	p := newPendingSync(name)
	p.finish(err)

	return p
}

func (p *PendingSync) Name() string {
	return p.name
}

func (p *PendingSync) Done() <-chan struct{} {
	return p.done
}

func (p *PendingSync) Status() models.SyncStatus {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.status
}

func (p *PendingSync) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.err
}

// Wait blocks until the write completes or ctx ends. Giving up on the wait
// does not cancel the write.
func (p *PendingSync) Wait(ctx context.Context) error {
	select {
	case <-p.done:
		return p.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *PendingSync) finish(err error) {
	p.mu.Lock()
	if err != nil {
		p.status = models.SyncStatusFailed
		p.err = err
	} else {
		p.status = models.SyncStatusCommitted
	}
	p.mu.Unlock()

	close(p.done)
}

type job struct {
	ctx     context.Context
	name    string
	task    Task
	pending *PendingSync
}

type Queue struct {
	shards  []chan job
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

func NewQueue(cfg *config.Sync) *Queue {

	workers := max(cfg.Workers, 1)
	perShard := max(cfg.QueueSize/workers, 1)

	q := &Queue{
		shards:  make([]chan job, workers),
		timeout: cfg.WriteTimeout,
	}

	for i := range q.shards {
		q.shards[i] = make(chan job, perShard)
	}

	return q
}

// Start launches one worker per shard.
func (q *Queue) Start() {
	for i, shard := range q.shards {
		q.wg.Add(1)
		go q.worker(i, shard)
	}
}

// Run starts the workers and drains them once ctx is cancelled.
func (q *Queue) Run(ctx context.Context) error {
	q.Start()
	<-ctx.Done()
	q.Close()

	return nil
}

// Enqueue schedules task. The request context only contributes its values;
// its cancellation never reaches the task.
func (q *Queue) Enqueue(ctx context.Context, key, name string, task Task) *PendingSync {

	logger := middleware.LoggerFromContext(ctx)

	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		logger.Warn("Write-through rejected, queue closed", slog.String("task", name))
		metrics.RecordSyncTask(name, string(models.SyncStatusFailed), 0)

		return Resolved(name, ErrQueueClosed)
	}

	pending := newPendingSync(name)

	j := job{ctx: context.WithoutCancel(ctx), name: name, task: task, pending: pending}

	select {
	case q.shards[q.shardFor(key)] <- j:
		logger.Debug("Write-through enqueued", slog.String("task", name), slog.String("key", key))
	default:
		logger.Error("Write-through rejected, queue full", slog.String("task", name), slog.String("key", key))
		pending.finish(ErrQueueFull)
		metrics.RecordSyncTask(name, string(models.SyncStatusFailed), 0)
	}

	return pending
}

// Close stops accepting tasks and waits for queued ones to finish.
func (q *Queue) Close() {

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	for _, shard := range q.shards {
		close(shard)
	}
	q.mu.Unlock()

	q.wg.Wait()
	slog.Info("✅ Write-through queue drained")
}

func (q *Queue) shardFor(key string) int {
	h := fnv.New32a()
	h.Write([]byte(key))

	return int(h.Sum32() % uint32(len(q.shards)))
}

func (q *Queue) worker(id int, jobs <-chan job) {
	defer q.wg.Done()

	for j := range jobs {
		q.execute(id, j)
	}
}

func (q *Queue) execute(worker int, j job) {

	logger := middleware.LoggerFromContext(j.ctx).With(slog.String("task", j.name), slog.Int("worker", worker))

	ctx, cancel := utils.WithDetachedTimeout(j.ctx, q.timeout)
	defer cancel()

	start := time.Now()
	err := runTask(ctx, j.task)
	took := time.Since(start)

	if err != nil {
		logger.Error("Write-through failed", slog.String("error", err.Error()), slog.Duration("duration", took))
		metrics.RecordSyncTask(j.name, string(models.SyncStatusFailed), took)
	} else {
		logger.Debug("Write-through committed", slog.Duration("duration", took))
		metrics.RecordSyncTask(j.name, string(models.SyncStatusCommitted), took)
	}

	j.pending.finish(err)
}

// runTask converts a panicking task into a failed write.
func runTask(ctx context.Context, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New("write-through task panicked")
			slog.Error("Write-through task panicked", slog.Any("panic", r))
		}
	}()

	return task(ctx)
}
