package actions

import (
	"context"
	"math/rand/v2"

	"github.com/mj1618/weel/internal/model"
)

// RandomActionHandler runs one enabled candidate chosen uniformly at random.
type RandomActionHandler struct {
	multi *MultiActionHandler
	intn  func(n int) int
}

func NewRandomActionHandler(multi *MultiActionHandler) *RandomActionHandler {
	return &RandomActionHandler{multi: multi, intn: rand.IntN}
}

func (h *RandomActionHandler) Execute(ctx context.Context, a model.RandomSet, buttonID string, hc HandlerContext) Result {
	if len(a.RandomActions) == 0 {
		return fail("No random actions defined")
	}
	enabled := make([]model.Step, 0, len(a.RandomActions))
	for _, s := range a.RandomActions {
		if s.IsEnabled() {
			enabled = append(enabled, s)
		}
	}
	if len(enabled) == 0 {
		return fail("No enabled random actions found")
	}

	i := h.intn(len(enabled))
	chosen := enabled[i]
	res := h.multi.Execute(ctx, []model.Step{chosen}, buttonID, hc)
	if !res.Success {
		return fail("Failed to execute random action: %s", res.Message)
	}
	return succeed("Executed random action %d/%d: %s", i+1, len(enabled), chosen.Label())
}
