package weather

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Snapshot is what the tracker currently knows.
type Snapshot struct {
	Report  *Report
	Err     error
	Loading bool
	City    string
}

// Tracker runs weather fetches in the background. Each request gets a
// generation number and supersedes the ones before it: an older fetch is
// cancelled and its result, if it still arrives, is dropped.
type Tracker struct {
	fetcher Fetcher
	logger  *zap.Logger
	timeout time.Duration

	mu      sync.Mutex
	gen     uint64
	cancel  context.CancelFunc
	current Snapshot

	wg sync.WaitGroup
}

func NewTracker(fetcher Fetcher, logger *zap.Logger, timeout time.Duration) *Tracker {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Tracker{
		fetcher: fetcher,
		logger:  logger,
		timeout: timeout,
	}
}

// Request starts a fetch for city and returns its generation.
func (t *Tracker) Request(city string) uint64 {
	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)

	t.mu.Lock()
	if t.cancel != nil {
		t.cancel()
	}
	t.gen++
	gen := t.gen
	t.cancel = cancel
	t.current.Loading = true
	t.current.City = city
	t.mu.Unlock()

	t.logger.Info("fetching weather", zap.String("city", city), zap.Uint64("generation", gen))

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		defer cancel()

		report, err := t.fetcher.Current(ctx, city)
		t.publish(gen, city, report, err)
	}()
	return gen
}

func (t *Tracker) publish(gen uint64, city string, report Report, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if gen != t.gen {
		t.logger.Debug("dropping superseded weather result", zap.String("city", city), zap.Uint64("generation", gen))
		return
	}

	t.current.Loading = false
	t.cancel = nil
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			t.logger.Warn("weather fetch failed", zap.String("city", city), zap.Error(err))
		}
		t.current.Err = err
		return
	}
	t.current.Report = &report
	t.current.Err = nil
}

// Clear resets the error state and supersedes any fetch in flight.
func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
		t.cancel = nil
	}
	t.gen++
	t.current.Err = nil
	t.current.Loading = false
}

func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.current
	if s.Report != nil {
		r := *s.Report
		s.Report = &r
	}
	return s
}

// Wait blocks until every started fetch has returned.
func (t *Tracker) Wait() {
	t.wg.Wait()
}

// Stop cancels the in-flight fetch and waits for it to finish.
func (t *Tracker) Stop() {
	t.Clear()
	t.wg.Wait()
}
