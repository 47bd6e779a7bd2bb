package engine

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/roach88/primecart/internal/store"
)

// writeTimeout bounds a single Save so a wedged medium cannot stall the
// persister forever.
const writeTimeout = 5 * time.Second

// persister drains the write queue into the key-value store from a single
// goroutine. Writes are attempted in the order they were scheduled.
type persister struct {
	kv      store.KV
	queue   *writeQueue
	clock   *Clock
	logger  *slog.Logger
	stopped chan struct{}

	written atomic.Int64
	failed  atomic.Int64
}

func newPersister(kv store.KV, logger *slog.Logger) *persister {
	p := &persister{
		kv:      kv,
		queue:   newWriteQueue(),
		clock:   NewClock(),
		logger:  logger,
		stopped: make(chan struct{}),
	}
	go p.run()
	return p
}

// schedule enqueues a snapshot write and returns its seq.
// Returns 0 if the persister has been stopped.
func (p *persister) schedule(key string, value []byte) int64 {
	seq := p.clock.Next()
	if !p.queue.Enqueue(write{Seq: seq, Key: key, Value: value}) {
		p.logger.Warn("persistence stopped, write dropped", "key", key, "seq", seq)
		return 0
	}
	p.logger.Debug("write scheduled", "key", key, "seq", seq, "bytes", len(value))
	return seq
}

// flush blocks until every write scheduled before the call has been attempted.
func (p *persister) flush(ctx context.Context) error {
	barrier := make(chan struct{})
	if !p.queue.Enqueue(write{Barrier: barrier}) {
		// Stopped: wait for the drain that Close started.
		select {
		case <-p.stopped:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	select {
	case <-barrier:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// stop closes the queue and waits for pending writes to drain.
func (p *persister) stop(ctx context.Context) error {
	p.queue.Close()
	select {
	case <-p.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *persister) run() {
	defer close(p.stopped)

	for {
		w, ok, closed := p.queue.TryDequeue()
		if ok {
			p.process(w)
			continue
		}
		if closed {
			return
		}
		<-p.queue.Wait()
	}
}

// process attempts one write. Failures are logged and counted; the in-memory
// state stays authoritative, so there is no retry.
func (p *persister) process(w write) {
	if w.Barrier != nil {
		close(w.Barrier)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	if err := p.kv.Save(ctx, w.Key, w.Value); err != nil {
		p.failed.Add(1)
		p.logger.Error("persist failed",
			"key", w.Key,
			"seq", w.Seq,
			"error", err,
		)
		return
	}

	p.written.Add(1)
	p.logger.Debug("write persisted", "key", w.Key, "seq", w.Seq)
}
