package progress

import (
	"fmt"
	"sort"
)

const topPerformerCount = 3

// Summary holds the aggregate widgets shown above the classroom table.
type Summary struct {
	TotalBooksRead            int     `json:"totalBooksRead"`
	AverageReadingTimeSeconds float64 `json:"averageReadingTimeSeconds"`
}

// ExportRow is one line of the tabular progress report, in display-ready
// form.
type ExportRow struct {
	Name                  string `json:"name"`
	Email                 string `json:"email"`
	CompletedCount        int    `json:"completedCount"`
	InProgressCount       int    `json:"inProgressCount"`
	ReadingTime           string `json:"formattedReadingTime"`
	AvgComprehensionScore int    `json:"avgComprehensionScore"`
	LastActivity          string `json:"lastActivity"`
	Status                Status `json:"status"`
}

// TopPerformers returns the first three rollups by descending average
// score, ties keeping input order.
func TopPerformers(rollups []StudentRollup) []StudentRollup {
	ranked := make([]StudentRollup, len(rollups))
	copy(ranked, rollups)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].AvgComprehensionScore > ranked[j].AvgComprehensionScore
	})
	if len(ranked) > topPerformerCount {
		ranked = ranked[:topPerformerCount]
	}
	return ranked
}

// NeedingAttention returns every rollup classified NeedsAttention, in input
// order.
func NeedingAttention(rollups []StudentRollup) []StudentRollup {
	out := make([]StudentRollup, 0, len(rollups))
	for _, r := range rollups {
		if r.Status == StatusNeedsAttention {
			out = append(out, r)
		}
	}
	return out
}

// Summarize computes the aggregate widgets over a filtered set. An empty
// set yields zeroes.
func Summarize(rollups []StudentRollup) Summary {
	var s Summary
	if len(rollups) == 0 {
		return s
	}
	var totalSeconds float64
	for _, r := range rollups {
		s.TotalBooksRead += r.CompletedCount
		totalSeconds += r.TotalReadingTimeSeconds
	}
	s.AverageReadingTimeSeconds = totalSeconds / float64(len(rollups))
	return s
}

// ExportHeader returns the column names of the tabular report.
func ExportHeader() []string {
	return []string{
		"Name", "Email", "Books Completed", "Books In Progress",
		"Reading Time", "Avg Comprehension Score", "Last Activity", "Status",
	}
}

// ExportRows projects a filtered, sorted set of rollups into flat report
// rows, preserving order.
func ExportRows(rollups []StudentRollup) []ExportRow {
	rows := make([]ExportRow, 0, len(rollups))
	for _, r := range rollups {
		lastActivity := "Never"
		if r.LastActivityDate != nil {
			lastActivity = r.LastActivityDate.Format("2006-01-02")
		}
		rows = append(rows, ExportRow{
			Name:                  r.Name,
			Email:                 r.Email,
			CompletedCount:        r.CompletedCount,
			InProgressCount:       r.InProgressCount,
			ReadingTime:           FormatReadingTime(r.TotalReadingTimeSeconds),
			AvgComprehensionScore: r.AvgComprehensionScore,
			LastActivity:          lastActivity,
			Status:                r.Status,
		})
	}
	return rows
}

// Fields returns the row in export column order.
func (r ExportRow) Fields() []string {
	return []string{
		r.Name,
		r.Email,
		fmt.Sprintf("%d", r.CompletedCount),
		fmt.Sprintf("%d", r.InProgressCount),
		r.ReadingTime,
		fmt.Sprintf("%d", r.AvgComprehensionScore),
		r.LastActivity,
		string(r.Status),
	}
}

// FormatReadingTime renders a seconds total as "{h}h {m}m {s}s".
func FormatReadingTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%dh %dm %ds", h, m, s)
}
