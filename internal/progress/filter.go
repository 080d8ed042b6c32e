package progress

import (
	"sort"
	"strings"
	"time"
)

type PerformanceBand string

const (
	PerformanceAll    PerformanceBand = "all"
	PerformanceHigh   PerformanceBand = "high"
	PerformanceMedium PerformanceBand = "medium"
	PerformanceLow    PerformanceBand = "low"
)

type ActivityBand string

const (
	ActivityAll    ActivityBand = "all"
	ActivityRecent ActivityBand = "recent" // within the last week
	ActivityWeek   ActivityBand = "week"   // between one week and one month
	ActivityMonth  ActivityBand = "month"  // over a month ago
)

type SortKey string

const (
	SortNone        SortKey = "none"
	SortPerformance SortKey = "performance"
	SortActivity    SortKey = "activity"
)

type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// Criteria filters and orders a set of rollups. Zero values mean "no
// filtering" for every field.
type Criteria struct {
	ClassroomID uint            `json:"scopeClassroomId,omitempty"`
	Search      string          `json:"searchTerm,omitempty"`
	Performance PerformanceBand `json:"performanceBand,omitempty"`
	Activity    ActivityBand    `json:"activityBand,omitempty"`
	Sort        SortKey         `json:"sortKey,omitempty"`
	Order       SortOrder       `json:"sortOrder,omitempty"`
}

// Filter applies the criteria to a set of rollups: membership, search and
// band predicates AND together, then the sort runs over what survived. The
// input slice is never mutated and ties keep their input order.
func Filter(rollups []StudentRollup, c Criteria) []StudentRollup {
	out := make([]StudentRollup, 0, len(rollups))
	for _, r := range rollups {
		if matches(r, c) {
			out = append(out, r)
		}
	}
	sortRollups(out, c)
	return out
}

func matches(r StudentRollup, c Criteria) bool {
	if c.ClassroomID != 0 && r.ClassroomID != c.ClassroomID {
		return false
	}
	if term := strings.TrimSpace(c.Search); term != "" {
		term = strings.ToLower(term)
		if !strings.Contains(strings.ToLower(r.Name), term) &&
			!strings.Contains(strings.ToLower(r.Email), term) {
			return false
		}
	}
	if !inPerformanceBand(r.AvgComprehensionScore, c.Performance) {
		return false
	}
	if !inActivityBand(r.DaysSinceLastActivity, c.Activity) {
		return false
	}
	return true
}

func inPerformanceBand(score int, band PerformanceBand) bool {
	switch band {
	case PerformanceHigh:
		return score >= 80
	case PerformanceMedium:
		return score >= 60 && score < 80
	case PerformanceLow:
		return score < 60
	}
	return true
}

func inActivityBand(days *int, band ActivityBand) bool {
	switch band {
	case ActivityRecent, ActivityWeek, ActivityMonth:
		// A student with no recorded activity belongs to no concrete band.
		if days == nil {
			return false
		}
	default:
		return true
	}
	switch band {
	case ActivityRecent:
		return *days <= 7
	case ActivityWeek:
		return *days > 7 && *days <= 30
	case ActivityMonth:
		return *days > 30
	}
	return true
}

func sortRollups(rollups []StudentRollup, c Criteria) {
	var less func(a, b StudentRollup) bool
	switch c.Sort {
	case SortPerformance:
		less = func(a, b StudentRollup) bool {
			return a.AvgComprehensionScore < b.AvgComprehensionScore
		}
	case SortActivity:
		less = func(a, b StudentRollup) bool {
			return activityInstant(a).Before(activityInstant(b))
		}
	default:
		return
	}

	sort.SliceStable(rollups, func(i, j int) bool {
		if c.Order == OrderDesc {
			return less(rollups[j], rollups[i])
		}
		return less(rollups[i], rollups[j])
	})
}

// activityInstant treats a missing activity date as the earliest possible
// value so those students sort first ascending, last descending.
func activityInstant(r StudentRollup) time.Time {
	if r.LastActivityDate == nil {
		return time.Time{}
	}
	return *r.LastActivityDate
}
