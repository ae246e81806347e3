package actions

import (
	"context"

	"github.com/mj1618/weel/internal/model"
)

// MultiActionSwitchHandler cycles through action sets, one set per press.
// The cursor lives in the action itself and is persisted with UpdateAction.
type MultiActionSwitchHandler struct {
	multi *MultiActionHandler
}

func NewMultiActionSwitchHandler(multi *MultiActionHandler) *MultiActionSwitchHandler {
	return &MultiActionSwitchHandler{multi: multi}
}

// Execute runs the current set and advances the cursor to the next one,
// wrapping around after the last set. The cursor advances whether or not
// the set succeeded.
func (h *MultiActionSwitchHandler) Execute(ctx context.Context, a model.SwitchSets, buttonID string, hc HandlerContext) Result {
	n := len(a.ActionSets)
	if n == 0 {
		return fail("No action sets defined for multi action switch")
	}

	current := a.CurrentSetIndex
	if current < 0 || current >= n {
		current = ((current % n) + n) % n
	}
	set := a.ActionSets[current]
	if len(set) == 0 {
		return fail("Action set %d is empty", current+1)
	}

	res := h.multi.Execute(ctx, set, buttonID, hc)

	next := (current + 1) % n
	a.CurrentSetIndex = next
	hc.updateAction(a)

	if !res.Success {
		return fail("Failed to execute action set %d: %s", current+1, res.Message)
	}
	return succeed("Executed action set %d/%d. Next: Set %d", current+1, n, next+1)
}
