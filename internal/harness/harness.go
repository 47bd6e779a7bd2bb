package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/roach88/primecart/internal/catalog"
	"github.com/roach88/primecart/internal/domain"
	"github.com/roach88/primecart/internal/engine"
	"github.com/roach88/primecart/internal/store"
	"github.com/roach88/primecart/internal/testutil"
)

// closeTimeout bounds the flush on restart and at the end of a run.
const closeTimeout = 5 * time.Second

// Harness drives one engine through a scenario.
type Harness struct {
	kv     store.KV
	engine *engine.Engine
	clock  *testutil.DeterministicClock
	ids    *testutil.SequentialIDs
	logger *slog.Logger
	strict bool

	// seen holds every product the scenario created, including deleted
	// ones, so later steps can use stale handles.
	seen map[string]domain.Product
	refs map[string]string
	seq  int64
}

// Run executes a scenario against a fresh in-memory store.
func Run(scenario *Scenario) (*Result, error) {
	return RunOn(store.NewMemory(), scenario)
}

// RunOn executes a scenario against kv. State already in kv is loaded
// first, the way a restarted process would see it.
//
// Execution flow:
// 1. Build the engine with deterministic clock and ids
// 2. Execute setup steps (any failure aborts the run)
// 3. Execute steps, checking expectations
// 4. Flush, snapshot the final state and evaluate assertions
func RunOn(kv store.KV, scenario *Scenario) (*Result, error) {
	h := &Harness{
		kv:     kv,
		clock:  testutil.NewDeterministicClock(),
		ids:    testutil.NewSequentialIDs("id"),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		strict: scenario.Strict,
		seen:   make(map[string]domain.Product),
		refs:   make(map[string]string),
	}
	h.engine = h.newEngine()
	defer h.close()

	result := NewResult()

	for i, step := range scenario.Setup {
		ev, res, err := h.execute(step)
		if err != nil {
			return nil, fmt.Errorf("setup step %d (%s): %w", i, step.Action, err)
		}
		if res.err != nil {
			return nil, fmt.Errorf("setup step %d (%s): %w", i, step.Action, res.err)
		}
		result.AddTrace(ev)
	}

	for i, step := range scenario.Steps {
		ev, res, err := h.execute(step)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i, step.Action, err)
		}
		result.AddTrace(ev)
		for _, msg := range checkExpect(i, step, res) {
			result.AddError(msg)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	if err := h.engine.Flush(ctx); err != nil {
		return nil, fmt.Errorf("flush: %w", err)
	}

	result.Final = FinalState{
		State:     h.engine.Snapshot(),
		Subtotal:  h.engine.Subtotal(),
		ItemCount: h.engine.ItemCount(),
	}

	for _, msg := range EvaluateAssertions(h, result, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}

func (h *Harness) newEngine() *engine.Engine {
	opts := []engine.Option{
		engine.WithClock(h.clock.Now),
		engine.WithIDGenerator(h.ids),
		engine.WithLogger(h.logger),
	}
	if h.strict {
		opts = append(opts, engine.WithStrictValidation(catalog.ValidateDraft))
	}
	return engine.New(context.Background(), h.kv, opts...)
}

func (h *Harness) close() {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	if err := h.engine.Close(ctx); err != nil {
		h.logger.Error("close engine", "error", err)
	}
}

// execute runs one step and returns its trace event.
func (h *Harness) execute(step Step) (TraceEvent, stepResult, error) {
	h.seq++
	ev := TraceEvent{Seq: h.seq, Action: step.Action, Args: step.Args, Outcome: OutcomeOK}

	if step.Restart {
		h.close()
		h.engine = h.newEngine()
		ev.Action = "restart"
		h.logger.Info("engine restarted", "seq", h.seq)
		return ev, stepResult{}, nil
	}

	fn, ok := actions[step.Action]
	if !ok {
		return ev, stepResult{}, fmt.Errorf("unknown action %q", step.Action)
	}
	res, err := fn(h, step.Args)
	if err != nil {
		return ev, stepResult{}, err
	}

	switch {
	case res.err != nil:
		ev.Outcome = OutcomeError
		h.logger.Info("step rejected", "seq", h.seq, "action", step.Action, "error", res.err)
	case res.changed != nil && *res.changed:
		ev.Outcome = OutcomeChanged
	case res.changed != nil:
		ev.Outcome = OutcomeUnchanged
	}

	h.logger.Info("step completed", "seq", h.seq, "action", step.Action, "outcome", ev.Outcome)
	return ev, res, nil
}

// checkExpect compares a step result with its expect clause.
func checkExpect(index int, step Step, res stepResult) []string {
	var errs []string
	label := fmt.Sprintf("steps[%d] %s", index, step.Action)

	wantErr := step.Expect != nil && step.Expect.Error != ""
	switch {
	case res.err != nil && !wantErr:
		errs = append(errs, fmt.Sprintf("%s: unexpected error: %v", label, res.err))
	case res.err == nil && wantErr:
		errs = append(errs, fmt.Sprintf("%s: expected error containing %q, got success", label, step.Expect.Error))
	case res.err != nil && !strings.Contains(res.err.Error(), step.Expect.Error):
		errs = append(errs, fmt.Sprintf("%s: expected error containing %q, got %q", label, step.Expect.Error, res.err))
	}

	if step.Expect != nil && step.Expect.Changed != nil {
		switch {
		case res.changed == nil:
			errs = append(errs, fmt.Sprintf("%s: does not report changes", label))
		case *res.changed != *step.Expect.Changed:
			errs = append(errs, fmt.Sprintf("%s: expected changed=%t, got %t", label, *step.Expect.Changed, *res.changed))
		}
	}
	return errs
}

// resolveID maps a ref to its product id. Anything else is taken as an id.
func (h *Harness) resolveID(ref string) string {
	if id, ok := h.refs[ref]; ok {
		return id
	}
	return ref
}

// product finds a product handle by id or ref: the catalog entry if it is
// still listed, otherwise the last version the scenario saw.
func (h *Harness) product(ref string) (domain.Product, error) {
	id := h.resolveID(ref)
	if p, ok := h.engine.Product(id); ok {
		return p, nil
	}
	if p, ok := h.seen[id]; ok {
		return p, nil
	}
	return domain.Product{}, fmt.Errorf("unknown product %q", ref)
}
