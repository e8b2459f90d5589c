package analytics

import "sort"

// LeaderboardEntry is one ranked student.
type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	StudentID   int64  `json:"studentId"`
	FullName    string `json:"fullName"`
	TotalSolved int    `json:"totalSolved"`
}

// RankLeaderboard orders entries by total solved, highest first, breaking ties by
// ascending student ID, and assigns rank as the 1-based position. Tied students
// therefore receive distinct consecutive ranks.
func RankLeaderboard(entries []LeaderboardEntry) []LeaderboardEntry {
	out := make([]LeaderboardEntry, len(entries))
	copy(out, entries)

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalSolved != out[j].TotalSolved {
			return out[i].TotalSolved > out[j].TotalSolved
		}
		return out[i].StudentID < out[j].StudentID
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// Top returns at most n leading entries of an already ranked board.
func Top(ranked []LeaderboardEntry, n int) []LeaderboardEntry {
	if n <= 0 || n >= len(ranked) {
		return ranked
	}
	return ranked[:n]
}
