package cache

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/piwi3910/PalletCut/internal/layout"
	"github.com/piwi3910/PalletCut/internal/model"
)

// Solve returns the cached layout of p or solves and stores it. Cache
// failures are logged and never fail the solve. cached reports a hit.
func Solve(ctx context.Context, c Cache, p model.Problem, budget int64) (res model.Result, cached bool, err error) {
	logger := log.FromContext(ctx)

	res, hit, err := GetResult(ctx, c, p, budget)
	if err != nil {
		logger.Warn("cache read failed", "problem", p.String(), "err", err)
	} else if hit {
		logger.Debug("cache hit", "problem", p.String())
		return res, true, nil
	}

	res, err = layout.Solve(ctx, p, budget)
	if err != nil {
		return model.Result{}, false, err
	}
	if err := SetResult(ctx, c, res, budget, DefaultTTL); err != nil {
		logger.Warn("cache write failed", "problem", p.String(), "err", err)
	}
	return res, false, nil
}
