package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// Method names the solver whose packing was kept.
type Method string

const (
	MethodFiveBlock Method = "five-block"
	MethodLBlock    Method = "l-block"
)

// Outcome is the result of a full solve. The session and solvers stay
// attached so the layout package can walk the recorded divisions.
type Outcome struct {
	Params     Parameters    `json:"params"`
	Count      int           `json:"count"`
	UpperBound int           `json:"upper_bound"`
	Optimal    bool          `json:"optimal"`
	Method     Method        `json:"method"`
	Strategy   MemoStrategy  `json:"strategy"`
	Elapsed    time.Duration `json:"elapsed"`

	Session   *Session   `json:"-"`
	FiveBlock *FiveBlock `json:"-"`
	LBlock    *LBlock    `json:"-"` // nil when Five-Block was proven optimal
}

// Solve runs Five-Block on p and, when its count is not proven optimal,
// L-Block on the whole pallet; the larger count wins. Both searches poll
// ctx and give up with its error once it is done.
func Solve(ctx context.Context, p Parameters) (*Outcome, error) {
	logger := log.FromContext(ctx)
	start := time.Now()

	fb, err := NewFiveBlock(p)
	if err != nil {
		return nil, err
	}
	s := fb.Session()
	s.Watch(ctx)
	out := &Outcome{
		Params:     p,
		Method:     MethodFiveBlock,
		Session:    s,
		FiveBlock:  fb,
		UpperBound: fb.UpperBound(),
	}

	out.Count = fb.Solve()
	if err := s.Err(); err != nil {
		logger.Debug("five-block interrupted", "err", err)
		return nil, err
	}
	out.Optimal = fb.IsSolutionOptimal()
	logger.Debug("five-block finished",
		"pallet", fmt.Sprintf("%dx%d", s.lengthN, s.widthN),
		"count", out.Count, "upper", out.UpperBound, "optimal", out.Optimal)

	if !out.Optimal {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lb, err := NewLBlock(s, p.MemoryBudget)
		if err != nil {
			return nil, err
		}
		out.LBlock = lb
		out.Strategy = lb.Strategy()

		sol := lb.Solve(Rect(s.lengthN, s.widthN))
		if err := s.Err(); err != nil {
			logger.Debug("l-block interrupted", "err", err)
			return nil, err
		}
		logger.Debug("l-block finished",
			"count", sol.Count, "division", sol.Division.String(),
			"strategy", lb.Strategy().String(), "entries", lb.Entries())

		if sol.Count > out.Count {
			out.Count = sol.Count
			out.Method = MethodLBlock
		}
		out.Optimal = out.Count == out.UpperBound
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out.Elapsed = time.Since(start)
	return out, nil
}
