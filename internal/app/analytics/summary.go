package analytics

import (
	"time"

	"github.com/yigit/codetrack/internal/app/models"
)

// RecentWindow is how many approved snapshots per account the aggregates need.
const RecentWindow = 2

// AccountStats is the view of one account derived from its recent approved snapshots.
type AccountStats struct {
	AccountID        int64           `json:"platformAccountId"`
	Platform         models.Platform `json:"platform"`
	Username         string          `json:"username"`
	HasSnapshot      bool            `json:"hasSnapshot"`
	LatestSolved     int             `json:"latestTotalSolved"`
	LatestRating     *int            `json:"latestRating,omitempty"`
	LastSnapshotDate *time.Time      `json:"lastSnapshotDate,omitempty"`
	Growth           Growth          `json:"growth"`
}

// NewAccountStats builds stats from approved snapshots ordered newest first.
func NewAccountStats(account *models.PlatformAccount, recent []*models.Snapshot) AccountStats {
	st := AccountStats{
		AccountID: account.ID,
		Platform:  account.Platform,
		Username:  account.Username,
		Growth:    ComputeGrowth(recent),
	}
	if len(recent) > 0 {
		latest := recent[0]
		st.HasSnapshot = true
		st.LatestSolved = latest.TotalSolved
		st.LatestRating = latest.ContestRating
		date := latest.SnapshotDate
		st.LastSnapshotDate = &date
	}
	return st
}

// StudentSummary aggregates every account of one student.
type StudentSummary struct {
	LinkedAccounts int            `json:"totalPlatformsLinked"`
	TotalSolved    int            `json:"overallTotalSolved"`
	AverageRating  float64        `json:"overallRatingAverage"`
	RatedAccounts  int            `json:"ratedPlatforms"`
	TotalGrowth    int            `json:"overallGrowth"`
	LastActive     *time.Time     `json:"lastActive,omitempty"`
	Accounts       []AccountStats `json:"platformSummary"`
}

// Summarize sums latest solved counts and growth contributions, and averages the
// ratings of accounts whose latest snapshot reports one.
func Summarize(accounts []AccountStats) StudentSummary {
	sum := StudentSummary{
		LinkedAccounts: len(accounts),
		Accounts:       accounts,
	}
	if sum.Accounts == nil {
		sum.Accounts = []AccountStats{}
	}

	ratingTotal := 0
	for _, a := range accounts {
		if !a.HasSnapshot {
			continue
		}
		sum.TotalSolved += a.LatestSolved
		sum.TotalGrowth += a.Growth.Contribution()
		if a.LatestRating != nil {
			ratingTotal += *a.LatestRating
			sum.RatedAccounts++
		}
		if sum.LastActive == nil || a.LastSnapshotDate.After(*sum.LastActive) {
			d := *a.LastSnapshotDate
			sum.LastActive = &d
		}
	}
	if sum.RatedAccounts > 0 {
		sum.AverageRating = Round2(float64(ratingTotal) / float64(sum.RatedAccounts))
	}
	return sum
}
