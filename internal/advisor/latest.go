package advisor

import (
	"context"
	"sync"

	"github.com/roach88/primecart/internal/domain"
)

// Latest wraps an Advisor so that only the most recent request counts.
//
// Starting a request cancels the context of the one in flight, and a result
// that arrives after a newer request started is discarded with
// ErrSuperseded. Use one Latest per view: a product page and the admin
// dashboard should not supersede each other.
type Latest struct {
	next Advisor

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// NewLatest wraps next.
func NewLatest(next Advisor) *Latest {
	return &Latest{next: next}
}

func (l *Latest) Recommend(ctx context.Context, p domain.Product) (string, error) {
	ctx, gen := l.begin(ctx)
	text, err := l.next.Recommend(ctx, p)
	return l.finish(gen, text, err)
}

func (l *Latest) Insight(ctx context.Context, catalog []domain.Product) (string, error) {
	ctx, gen := l.begin(ctx)
	text, err := l.next.Insight(ctx, catalog)
	return l.finish(gen, text, err)
}

func (l *Latest) begin(parent context.Context) (context.Context, uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cancel != nil {
		l.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	l.gen++
	l.cancel = cancel
	return ctx, l.gen
}

func (l *Latest) finish(gen uint64, text string, err error) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if gen != l.gen {
		return "", ErrSuperseded
	}
	l.cancel()
	l.cancel = nil
	return text, err
}
