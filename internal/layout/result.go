package layout

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/piwi3910/PalletCut/internal/engine"
	"github.com/piwi3910/PalletCut/internal/model"
)

// Params converts a problem into solver parameters.
func Params(p model.Problem, budget int64) engine.Parameters {
	return engine.Parameters{
		Length:       p.Length,
		Width:        p.Width,
		BoxLength:    p.BoxLength,
		BoxWidth:     p.BoxWidth,
		Depth:        p.Depth,
		MemoryBudget: budget,
	}
}

// Solve solves p, places its boxes and checks the placement. A zero
// budget selects the engine default.
func Solve(ctx context.Context, p model.Problem, budget int64) (model.Result, error) {
	out, err := engine.Solve(ctx, Params(p, budget))
	if err != nil {
		return model.Result{}, fmt.Errorf("solve %s: %w", p, err)
	}

	boxes, err := Materialize(out)
	if err != nil {
		return model.Result{}, fmt.Errorf("layout %s: %w", p, err)
	}
	if err := Validate(boxes, p.Length, p.Width, p.BoxLength, p.BoxWidth); err != nil {
		return model.Result{}, fmt.Errorf("layout %s: %w", p, err)
	}

	res := model.Result{
		Problem:    p,
		Count:      out.Count,
		UpperBound: out.UpperBound,
		Optimal:    out.Optimal,
		Method:     string(out.Method),
		Boxes:      boxes,
		Elapsed:    out.Elapsed,
	}
	if out.LBlock != nil {
		res.Strategy = out.Strategy.String()
	}

	log.FromContext(ctx).Info("solved",
		"problem", p.String(), "count", res.Count, "upper", res.UpperBound,
		"optimal", res.Optimal, "method", res.Method, "elapsed", res.Elapsed)
	return res, nil
}
