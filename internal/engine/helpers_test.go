package engine

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roach88/primecart/internal/domain"
	"github.com/roach88/primecart/internal/store"
	"github.com/roach88/primecart/internal/testutil"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestEngine builds an engine over kv with deterministic time and ids.
func newTestEngine(t *testing.T, kv store.KV, opts ...Option) *Engine {
	t.Helper()
	base := []Option{
		WithLogger(quietLogger()),
		WithClock(testutil.NewDeterministicClock().Now),
		WithIDGenerator(testutil.NewSequentialIDs("id")),
	}
	e := New(context.Background(), kv, append(base, opts...)...)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = e.Close(ctx)
	})
	return e
}

func setupSQLiteStore(t *testing.T) (*store.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := store.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, path
}

func flush(t *testing.T, e *Engine) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, e.Flush(ctx))
}

func product(id string, price float64) domain.Product {
	return domain.Product{
		ID:          id,
		Name:        "Product " + id,
		Price:       price,
		Category:    string(domain.CategoryWomen),
		Image:       "img/" + id + ".jpg",
		Description: "desc " + id,
		Rating:      4.5,
		Reviews:     12,
		Stock:       20,
		Features:    []string{"Silk"},
	}
}
