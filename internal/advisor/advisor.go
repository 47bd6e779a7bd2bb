// Package advisor adapts the product recommendation service.
//
// The service is an external collaborator: it reads product snapshots and
// returns display text. It never touches engine state, and every failure is
// turned into a message the shop can show as-is.
package advisor

import (
	"context"
	"errors"
	"log/slog"

	"github.com/roach88/primecart/internal/domain"
)

// Messages shown in place of advice.
const (
	MsgRecommendUnavailable = "AI Features unavailable. Please configure your API Key in the deployment settings."
	MsgInsightUnavailable   = "AI Analytics unavailable. Please configure API_KEY."
	MsgNoProducts           = "No products available to analyze."
	MsgStylistsBusy         = "Our stylists are currently busy. Please try again later."
	MsgRecommendFailed      = "Unable to load AI recommendations at this moment."
	MsgInsightFailed        = "Could not generate insights."
	MsgAnalysisPending      = "Analysis pending..."
)

// ErrSuperseded is returned by Latest when a newer request replaced this one.
var ErrSuperseded = errors.New("advisor: request superseded")

// Advisor produces styling advice for a product and merchandising insight for
// a catalog.
type Advisor interface {
	Recommend(ctx context.Context, p domain.Product) (string, error)
	Insight(ctx context.Context, catalog []domain.Product) (string, error)
}

// Settings selects and configures the recommendation service.
type Settings struct {
	Key     string
	Model   string // DefaultModel when empty
	BaseURL string // service endpoint override, mainly for tests
}

// New returns the advisor for s: Offline when no key is configured or the
// client cannot be created, otherwise Gemini behind the failure fallback.
func New(ctx context.Context, s Settings, logger *slog.Logger) Advisor {
	if logger == nil {
		logger = slog.Default()
	}
	if s.Key == "" {
		return Offline{}
	}
	g, err := NewGemini(ctx, s)
	if err != nil {
		logger.Error("recommendation service unavailable", "error", err)
		return Offline{}
	}
	return WithFallback(g, logger)
}

// Offline is the advisor used when no service key is configured.
type Offline struct{}

func (Offline) Recommend(context.Context, domain.Product) (string, error) {
	return MsgRecommendUnavailable, nil
}

func (Offline) Insight(context.Context, []domain.Product) (string, error) {
	return MsgInsightUnavailable, nil
}

// fallback converts service failures into display messages.
type fallback struct {
	next   Advisor
	logger *slog.Logger
}

// WithFallback wraps next so errors become the standard failure messages and
// empty replies become MsgStylistsBusy or MsgAnalysisPending. Cancellation
// and ErrSuperseded pass through untouched; the caller is no longer waiting
// for text.
func WithFallback(next Advisor, logger *slog.Logger) Advisor {
	if logger == nil {
		logger = slog.Default()
	}
	return fallback{next: next, logger: logger}
}

func (f fallback) Recommend(ctx context.Context, p domain.Product) (string, error) {
	text, err := f.next.Recommend(ctx, p)
	if passThrough(err) {
		return "", err
	}
	if err != nil {
		f.logger.Error("recommendation failed", "product_id", p.ID, "error", err)
		return MsgRecommendFailed, nil
	}
	if text == "" {
		return MsgStylistsBusy, nil
	}
	return text, nil
}

func (f fallback) Insight(ctx context.Context, catalog []domain.Product) (string, error) {
	if len(catalog) == 0 {
		return MsgNoProducts, nil
	}
	text, err := f.next.Insight(ctx, catalog)
	if passThrough(err) {
		return "", err
	}
	if err != nil {
		f.logger.Error("insight failed", "products", len(catalog), "error", err)
		return MsgInsightFailed, nil
	}
	if text == "" {
		return MsgAnalysisPending, nil
	}
	return text, nil
}

func passThrough(err error) bool {
	return errors.Is(err, ErrSuperseded) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}
