package worker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/tasklist/internal/repo"
)

// Pool writes snapshots to the repository in the background. Only the
// latest value per key is kept; a write that is superseded before a worker
// claims it is never performed. Failed writes are logged and dropped.
type Pool struct {
	repo    repo.SnapshotRepository
	logger  *zap.Logger
	count   int
	timeout time.Duration
	wg      sync.WaitGroup
	stop    chan struct{}
	wake    chan struct{}

	mu       sync.Mutex
	pending  map[string][]byte
	inflight map[string]bool
	stopped  bool
}

type job struct {
	key   string
	value []byte
}

func NewPool(r repo.SnapshotRepository, logger *zap.Logger, count int) *Pool {
	if count < 1 {
		count = 1
	}
	return &Pool{
		repo:     r,
		logger:   logger,
		count:    count,
		timeout:  5 * time.Second,
		stop:     make(chan struct{}),
		wake:     make(chan struct{}, 1),
		pending:  make(map[string][]byte),
		inflight: make(map[string]bool),
	}
}

func (p *Pool) Start(ctx context.Context) {
	p.logger.Info("Starting snapshot flusher", zap.Int("workers", p.count))

	for i := 0; i < p.count; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
}

// Submit queues value for key, replacing anything not yet written.
// It never blocks.
func (p *Pool) Submit(key string, value []byte) {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		p.logger.Warn("snapshot submitted after stop", zap.String("key", key))
		return
	}
	p.pending[key] = value
	p.mu.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// Stop halts the workers and writes whatever is still pending.
func (p *Pool) Stop() {
	p.logger.Info("Stopping snapshot flusher...")
	p.mu.Lock()
	p.stopped = true
	p.mu.Unlock()

	close(p.stop)
	p.wg.Wait()

	for {
		j, ok := p.claim()
		if !ok {
			break
		}
		p.write(context.Background(), -1, j)
	}
	p.logger.Info("Snapshot flusher stopped")
}

func (p *Pool) worker(ctx context.Context, id int) {
	defer p.wg.Done()

	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-p.stop:
			return
		case <-ctx.Done():
			return
		case <-p.wake:
		case <-ticker.C:
		}
		p.drain(ctx, id)
	}
}

func (p *Pool) drain(ctx context.Context, workerID int) {
	for {
		j, ok := p.claim()
		if !ok {
			return
		}
		p.write(ctx, workerID, j)

		// Let a sibling pick up anything left behind.
		select {
		case p.wake <- struct{}{}:
		default:
		}
	}
}

// claim takes the pending value of a key no other worker is writing.
func (p *Pool) claim() (job, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for key, value := range p.pending {
		if p.inflight[key] {
			continue
		}
		delete(p.pending, key)
		p.inflight[key] = true
		return job{key: key, value: value}, true
	}
	return job{}, false
}

func (p *Pool) complete(key string) {
	p.mu.Lock()
	delete(p.inflight, key)
	p.mu.Unlock()
}

func (p *Pool) write(ctx context.Context, workerID int, j job) {
	defer p.complete(j.key)

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	if err := p.repo.Set(ctx, j.key, j.value); err != nil {
		p.logger.Warn("snapshot write failed",
			zap.Int("worker", workerID),
			zap.String("key", j.key),
			zap.Error(err),
		)
		return
	}
	p.logger.Debug("snapshot written",
		zap.Int("worker", workerID),
		zap.String("key", j.key),
		zap.Int("bytes", len(j.value)),
	)
}
