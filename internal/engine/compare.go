package engine

import (
	"context"
	"fmt"
	"time"
)

// ComparisonScenario defines a named set of parameters to compare.
type ComparisonScenario struct {
	Name   string
	Params Parameters
}

// ComparisonResult holds the outcome and computed statistics for a single
// scenario.
type ComparisonResult struct {
	Scenario ComparisonScenario
	Count    int
	Optimal  bool
	Method   Method
	Elapsed  time.Duration
	Err      error
}

// CompareScenarios solves each scenario in order and returns one result per
// scenario. A failing scenario records its error and does not stop the
// others; a cancelled context does.
func CompareScenarios(ctx context.Context, scenarios []ComparisonScenario) ([]ComparisonResult, error) {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res := ComparisonResult{Scenario: scenario}
		out, err := Solve(ctx, scenario.Params)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return results, ctxErr
		}
		if err != nil {
			res.Err = err
		} else {
			res.Count = out.Count
			res.Optimal = out.Optimal
			res.Method = out.Method
			res.Elapsed = out.Elapsed
		}
		results = append(results, res)
	}

	return results, nil
}

// BuildDefaultScenarios varies the recursion depth around base to show how
// much a deeper search buys for this instance.
func BuildDefaultScenarios(base Parameters) []ComparisonScenario {
	scenarios := []ComparisonScenario{
		{Name: "Current Settings", Params: base},
	}

	for _, depth := range []int{1, 2, 3} {
		if depth == base.Depth {
			continue
		}
		p := base
		p.Depth = depth
		scenarios = append(scenarios, ComparisonScenario{
			Name:   fmt.Sprintf("Depth %d", depth),
			Params: p,
		})
	}

	// Scenario: unbounded search
	if base.Depth > 0 {
		p := base
		p.Depth = 0
		scenarios = append(scenarios, ComparisonScenario{
			Name:   "Unbounded Depth",
			Params: p,
		})
	}

	return scenarios
}
