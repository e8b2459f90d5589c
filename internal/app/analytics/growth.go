// Package analytics holds the pure aggregation rules applied to approved snapshots.
// Callers load the data; nothing here touches storage.
package analytics

import (
	"math"
	"time"

	"github.com/yigit/codetrack/internal/app/models"
)

// Growth compares the two most recent approved snapshots of one account.
// Available is false when fewer than two exist; the other fields are then zero.
type Growth struct {
	Available    bool       `json:"available"`
	Delta        int        `json:"totalGrowth"`
	Percent      float64    `json:"growthPercentage"`
	RatingDelta  int        `json:"ratingGrowth"`
	LatestDate   *time.Time `json:"latestSnapshotDate,omitempty"`
	PreviousDate *time.Time `json:"previousSnapshotDate,omitempty"`
	LatestTotal  int        `json:"latestTotalSolved"`
	PrevTotal    int        `json:"previousTotalSolved"`
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func ratingOrZero(r *int) int {
	if r == nil {
		return 0
	}
	return *r
}

// ComputeGrowth takes snapshots newest first and compares the first two.
// The percentage is zero when the previous count is zero.
func ComputeGrowth(recent []*models.Snapshot) Growth {
	if len(recent) < 2 {
		return Growth{}
	}
	latest, previous := recent[0], recent[1]

	g := Growth{
		Available:    true,
		Delta:        latest.TotalSolved - previous.TotalSolved,
		RatingDelta:  ratingOrZero(latest.ContestRating) - ratingOrZero(previous.ContestRating),
		LatestDate:   &latest.SnapshotDate,
		PreviousDate: &previous.SnapshotDate,
		LatestTotal:  latest.TotalSolved,
		PrevTotal:    previous.TotalSolved,
	}
	if previous.TotalSolved > 0 {
		g.Percent = Round2(float64(g.Delta) / float64(previous.TotalSolved) * 100)
	}
	return g
}

// Contribution is the growth counted towards aggregates: zero when unavailable.
func (g Growth) Contribution() int {
	if !g.Available {
		return 0
	}
	return g.Delta
}
