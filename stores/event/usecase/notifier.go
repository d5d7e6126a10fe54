package usecase

import (
	"sync"
	"time"

	"github.com/viney-shih/goroutines"
	"golang.org/x/xerrors"

	"github.com/x-xyz/settlement/base/backoff"
	bCtx "github.com/x-xyz/settlement/base/ctx"
	"github.com/x-xyz/settlement/base/goroutine"
	"github.com/x-xyz/settlement/base/log"
	"github.com/x-xyz/settlement/base/metrics"
	"github.com/x-xyz/settlement/domain/event"
)

const (
	defaultWorkers    = 4
	defaultBufferSize = 1024
	defaultRetryStart = 50 * time.Millisecond
	defaultRetryLimit = 2 * time.Second
)

type NotifierCfg struct {
	Sinks      []event.Sink
	Workers    int
	BufferSize int
	// Attempts is how many times a failing sink write is tried, at least once
	Attempts   int
	RetryStart time.Duration
	RetryLimit time.Duration
	// RetryStrategy paces the retries, nil means exponential
	RetryStrategy backoff.Strategy
	Metrics       metrics.Service
}

type delivery struct {
	ctx bCtx.Ctx
	e   *event.Event
}

type impl struct {
	sinks      []event.Sink
	met        metrics.Service
	pool       *goroutines.Pool
	attempts   int
	retryStart time.Duration
	retryLimit time.Duration
	strategy   backoff.Strategy

	// closeMu guards queue against sends after Close
	closeMu sync.RWMutex
	closed  bool
	queue   chan delivery

	pending sync.WaitGroup
	done    chan struct{}
}

// New starts the delivery loop. Events reach every sink in emission order;
// the sinks of one event are written concurrently.
func New(cfg *NotifierCfg) event.Notifier {
	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	size := cfg.BufferSize
	if size <= 0 {
		size = defaultBufferSize
	}
	im := &impl{
		sinks:      cfg.Sinks,
		met:        cfg.Metrics,
		pool:       goroutines.NewPool(workers),
		attempts:   cfg.Attempts,
		retryStart: cfg.RetryStart,
		retryLimit: cfg.RetryLimit,
		strategy:   cfg.RetryStrategy,
		queue:      make(chan delivery, size),
		done:       make(chan struct{}),
	}
	if im.attempts <= 0 {
		im.attempts = 1
	}
	if im.retryStart <= 0 {
		im.retryStart = defaultRetryStart
	}
	if im.retryLimit <= 0 {
		im.retryLimit = defaultRetryLimit
	}
	if im.strategy == nil {
		im.strategy = backoff.Exponential
	}
	if im.met == nil {
		im.met = metrics.NewLogMetrics("notifier")
	}

	goroutine.RecoverableGo(im.loop, goroutine.WithAfterEnded(func() { close(im.done) }))
	return im
}

func (im *impl) Notify(ctx bCtx.Ctx, e *event.Event) {
	im.closeMu.RLock()
	defer im.closeMu.RUnlock()

	if im.closed {
		ctx.WithFields(log.Fields{"type": e.Type, "id": e.AuctionId}).Warn("notify after close, event dropped")
		im.met.BumpSum("event.dropped", 1, "reason", "closed")
		return
	}

	im.pending.Add(1)
	select {
	case im.queue <- delivery{ctx: ctx, e: e}:
	default:
		im.pending.Done()
		ctx.WithFields(log.Fields{"type": e.Type, "id": e.AuctionId}).Error("event queue full, event dropped")
		im.met.BumpSum("event.dropped", 1, "reason", "full")
	}
}

func (im *impl) loop() {
	for d := range im.queue {
		im.deliver(d)
	}
}

func (im *impl) deliver(d delivery) {
	defer im.pending.Done()
	defer im.met.BumpTime("event.deliver.time", "type", string(d.e.Type)).End()

	wg := sync.WaitGroup{}
	for _, sink := range im.sinks {
		sink := sink
		wg.Add(1)
		task := func() {
			defer wg.Done()
			im.write(d, sink)
		}
		if err := im.pool.Schedule(task); err != nil {
			d.ctx.WithFields(log.Fields{"sink": sink.Name(), "err": err}).Warn("pool.Schedule failed, writing inline")
			task()
		}
	}
	wg.Wait()
}

func (im *impl) write(d delivery, sink event.Sink) {
	logger := d.ctx.WithFields(log.Fields{"sink": sink.Name(), "type": d.e.Type, "id": d.e.AuctionId})
	tries := 0
	err := backoff.Retry(d.ctx, backoff.New(im.strategy, im.retryStart, im.retryLimit), im.attempts, func() error {
		tries++
		var err error
		if p := goroutine.RecoverableRun(func() { err = sink.Write(d.ctx, d.e) }); p != nil {
			return xerrors.Errorf("sink panicked: %v", p.Panic)
		}
		return err
	})
	if err != nil {
		logger.WithFields(log.Fields{"err": err, "tries": tries}).Error("sink.Write failed")
		im.met.BumpSum("event.sink.err", 1, "sink", sink.Name())
		return
	}
	if tries > 1 {
		im.met.BumpSum("event.sink.retried", float64(tries-1), "sink", sink.Name())
	}
	im.met.BumpSum("event.delivered", 1, "sink", sink.Name())
}

func (im *impl) Flush() {
	im.pending.Wait()
}

// Close drains the queue, then releases the pool. Sinks are left to their owners.
func (im *impl) Close() error {
	im.closeMu.Lock()
	if im.closed {
		im.closeMu.Unlock()
		return nil
	}
	im.closed = true
	close(im.queue)
	im.closeMu.Unlock()

	<-im.done
	im.pool.Release()
	return nil
}
