package actions

import (
	"context"
	"log/slog"
	"time"

	"github.com/mj1618/weel/internal/model"
)

// maxNesting bounds how deep composite actions may reference each other.
const maxNesting = 8

type depthKey struct{}

func nestingDepth(ctx context.Context) int {
	d, _ := ctx.Value(depthKey{}).(int)
	return d
}

func withNesting(ctx context.Context) context.Context {
	return context.WithValue(ctx, depthKey{}, nestingDepth(ctx)+1)
}

// DispatchFunc executes a single action the same way a button press would.
type DispatchFunc func(ctx context.Context, action model.ButtonAction, buttonID string, hc HandlerContext) Result

// MultiActionHandler runs an ordered list of steps, waiting each step's
// delay before it runs.
type MultiActionHandler struct {
	dispatch DispatchFunc
	logger   *slog.Logger
}

func NewMultiActionHandler(dispatch DispatchFunc, logger *slog.Logger) *MultiActionHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &MultiActionHandler{dispatch: dispatch, logger: logger}
}

// Execute runs the enabled steps in order. The result is a success when
// at least one step succeeded; the message tells apart a full run from a
// partial one.
func (h *MultiActionHandler) Execute(ctx context.Context, steps []model.Step, buttonID string, hc HandlerContext) Result {
	if len(steps) == 0 {
		return fail("No steps defined for multi action")
	}
	if nestingDepth(ctx) >= maxNesting {
		return fail("Action nesting too deep")
	}
	ctx = withNesting(ctx)
	stepCtx := hc.forStep()

	var (
		total     int
		succeeded int
		lastError string
	)
	for _, step := range steps {
		if !step.IsEnabled() {
			continue
		}
		total++

		if step.Delay > 0 {
			if err := sleepCtx(ctx, time.Duration(step.Delay)*time.Millisecond); err != nil {
				lastError = err.Error()
				continue
			}
		}

		res := h.dispatch(ctx, step.Action(), buttonID, stepCtx)
		if res.Success {
			succeeded++
			continue
		}
		lastError = res.Message
		h.logger.Warn("multi-action step failed", "button", buttonID, "step", step.Label(), "error", res.Message)
	}

	switch {
	case succeeded == total:
		return succeed("All %d actions executed successfully", total)
	case succeeded > 0:
		return succeed("%d/%d actions executed successfully. Last error: %s", succeeded, total, lastError)
	default:
		return fail("All actions failed. Last error: %s", lastError)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
