package netcheck

import (
	"context"
	"math"
	"time"

	"github.com/ferrovax/domaintracker/internal/domain"
)

// HealthScore rates an entity 0..100: base points for its current
// status, a bonus scaled by its historical success ratio, a capped
// penalty per recorded error, a recency bonus, and points from a live
// timing probe. Do not rebalance the tiers without revisiting every
// consumer of the score.
func (c *Checker) HealthScore(ctx context.Context, e domain.Entity) float64 {
	score := 0.0

	// base accessibility (50)
	switch e.Status {
	case domain.StatusActive:
		score += 50
	case domain.StatusUnknown:
		score += 25
	}

	// historical success ratio (up to 20)
	if e.CheckCount > 0 {
		ratio := float64(e.CheckCount-e.ErrorCount) / float64(e.CheckCount)
		if ratio < 0 {
			ratio = 0
		}
		score += ratio * 20
	}

	// error penalty (up to -30)
	score -= math.Min(30, float64(e.ErrorCount)*5)

	// recency bonus (10 within 1h, 5 within 24h)
	if e.IsRecentlyChecked(time.Hour) {
		score += 10
	} else if e.IsRecentlyChecked(24 * time.Hour) {
		score += 5
	}

	// live timing probe (up to 20)
	start := time.Now()
	res := c.CheckSimple(ctx, e.URL)
	elapsed := time.Since(start).Seconds()
	if res.Accessible {
		switch {
		case elapsed < 2:
			score += 20
		case elapsed < 5:
			score += 15
		case elapsed < 10:
			score += 10
		default:
			score += 5
		}
	}

	return math.Max(0, math.Min(100, score))
}
