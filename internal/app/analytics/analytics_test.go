package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/codetrack/internal/app/models"
)

var day0 = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func snap(solved int, daysAgo int, rating ...int) *models.Snapshot {
	s := &models.Snapshot{
		SnapshotMetrics: models.SnapshotMetrics{TotalSolved: solved},
		SnapshotDate:    day0.AddDate(0, 0, -daysAgo),
		Status:          models.SnapshotApproved,
	}
	if len(rating) > 0 {
		r := rating[0]
		s.ContestRating = &r
	}
	return s
}

func TestComputeGrowth(t *testing.T) {
	tests := []struct {
		name        string
		recent      []*models.Snapshot
		wantOK      bool
		wantDelta   int
		wantPercent float64
	}{
		{name: "no snapshots", recent: nil},
		{name: "single snapshot", recent: []*models.Snapshot{snap(10, 0)}},
		{name: "100 to 130", recent: []*models.Snapshot{snap(130, 0), snap(100, 7)}, wantOK: true, wantDelta: 30, wantPercent: 30.0},
		{name: "0 to 30", recent: []*models.Snapshot{snap(30, 0), snap(0, 7)}, wantOK: true, wantDelta: 30, wantPercent: 0},
		{name: "decline", recent: []*models.Snapshot{snap(90, 0), snap(100, 7)}, wantOK: true, wantDelta: -10, wantPercent: -10},
		{name: "rounding", recent: []*models.Snapshot{snap(4, 0), snap(3, 7)}, wantOK: true, wantDelta: 1, wantPercent: 33.33},
		{name: "only first two count", recent: []*models.Snapshot{snap(50, 0), snap(40, 1), snap(0, 2)}, wantOK: true, wantDelta: 10, wantPercent: 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := ComputeGrowth(tt.recent)
			assert.Equal(t, tt.wantOK, g.Available)
			assert.Equal(t, tt.wantDelta, g.Delta)
			assert.InDelta(t, tt.wantPercent, g.Percent, 1e-9)
		})
	}
}

func TestComputeGrowthRatingDelta(t *testing.T) {
	g := ComputeGrowth([]*models.Snapshot{snap(10, 0, 1500), snap(5, 3)})
	assert.Equal(t, 1500, g.RatingDelta)
}

func TestSummarize(t *testing.T) {
	lc := &models.PlatformAccount{ID: 1, Platform: models.PlatformLeetCode}
	cf := &models.PlatformAccount{ID: 2, Platform: models.PlatformCodeforces}
	gh := &models.PlatformAccount{ID: 3, Platform: models.PlatformGitHub}

	sum := Summarize([]AccountStats{
		NewAccountStats(lc, []*models.Snapshot{snap(130, 2, 1600), snap(100, 9, 1500)}),
		NewAccountStats(cf, []*models.Snapshot{snap(40, 5, 1200)}),
		NewAccountStats(gh, nil),
	})

	assert.Equal(t, 3, sum.LinkedAccounts)
	assert.Equal(t, 170, sum.TotalSolved)
	assert.Equal(t, 30, sum.TotalGrowth, "insufficient data contributes zero")
	assert.Equal(t, 2, sum.RatedAccounts)
	assert.InDelta(t, 1400.0, sum.AverageRating, 1e-9)
	require.NotNil(t, sum.LastActive)
	assert.True(t, sum.LastActive.Equal(day0.AddDate(0, 0, -2)))
}

func TestSummarizeIgnoresUnratedAccountsInAverage(t *testing.T) {
	a := &models.PlatformAccount{ID: 1}
	b := &models.PlatformAccount{ID: 2}
	sum := Summarize([]AccountStats{
		NewAccountStats(a, []*models.Snapshot{snap(10, 0, 1000)}),
		NewAccountStats(b, []*models.Snapshot{snap(10, 0)}),
	})
	assert.InDelta(t, 1000.0, sum.AverageRating, 1e-9)
}

func TestRankLeaderboard(t *testing.T) {
	in := []LeaderboardEntry{
		{StudentID: 1, TotalSolved: 50},
		{StudentID: 4, TotalSolved: 80},
		{StudentID: 2, TotalSolved: 80},
		{StudentID: 3, TotalSolved: 10},
	}
	ranked := RankLeaderboard(in)

	require.Len(t, ranked, len(in))
	want := []struct {
		id    int64
		rank  int
		total int
	}{
		{2, 1, 80},
		{4, 2, 80},
		{1, 3, 50},
		{3, 4, 10},
	}
	for i, w := range want {
		assert.Equal(t, w.id, ranked[i].StudentID)
		assert.Equal(t, w.rank, ranked[i].Rank)
		assert.Equal(t, w.total, ranked[i].TotalSolved)
	}
	assert.Equal(t, 0, in[0].Rank, "input must not be mutated")

	assert.Len(t, Top(ranked, 2), 2)
	assert.Len(t, Top(ranked, 0), 4)
	assert.Len(t, Top(ranked, 10), 4)
}

func TestRiskPolicy(t *testing.T) {
	policy := RiskPolicy{Window: 30 * 24 * time.Hour}
	now := day0
	acct := &models.PlatformAccount{ID: 1}

	tests := []struct {
		name       string
		sum        StudentSummary
		policy     RiskPolicy
		wantEval   bool
		wantRisk   bool
		wantReason string
	}{
		{
			name:     "no accounts skipped",
			sum:      Summarize(nil),
			policy:   policy,
			wantEval: false,
		},
		{
			name:       "no accounts flagged when enabled",
			sum:        Summarize(nil),
			policy:     RiskPolicy{Window: policy.Window, FlagWithoutAccounts: true},
			wantEval:   true,
			wantRisk:   true,
			wantReason: ReasonNoAccounts,
		},
		{
			name:       "never active",
			sum:        Summarize([]AccountStats{NewAccountStats(acct, nil)}),
			policy:     policy,
			wantEval:   true,
			wantRisk:   true,
			wantReason: "Inactive (>30 days)",
		},
		{
			name:       "stale",
			sum:        Summarize([]AccountStats{NewAccountStats(acct, []*models.Snapshot{snap(20, 31), snap(10, 40)})}),
			policy:     policy,
			wantEval:   true,
			wantRisk:   true,
			wantReason: "Inactive (>30 days)",
		},
		{
			name:       "recent but flat",
			sum:        Summarize([]AccountStats{NewAccountStats(acct, []*models.Snapshot{snap(20, 1), snap(20, 8)})}),
			policy:     policy,
			wantEval:   true,
			wantRisk:   true,
			wantReason: ReasonNoGrowth,
		},
		{
			name:       "recent single snapshot has no growth",
			sum:        Summarize([]AccountStats{NewAccountStats(acct, []*models.Snapshot{snap(20, 1)})}),
			policy:     policy,
			wantEval:   true,
			wantRisk:   true,
			wantReason: ReasonNoGrowth,
		},
		{
			name:     "boundary day counts as recent",
			sum:      Summarize([]AccountStats{NewAccountStats(acct, []*models.Snapshot{snap(30, 30), snap(20, 35)})}),
			policy:   policy,
			wantEval: true,
		},
		{
			name:     "healthy",
			sum:      Summarize([]AccountStats{NewAccountStats(acct, []*models.Snapshot{snap(30, 1), snap(20, 8)})}),
			policy:   policy,
			wantEval: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.policy.Assess(tt.sum, now)
			assert.Equal(t, tt.wantEval, got.Evaluated)
			assert.Equal(t, tt.wantRisk, got.AtRisk)
			assert.Equal(t, tt.wantReason, got.Reason)
		})
	}
}
