package repository

import (
	"context"
	"time"

	"readle/internal/database"
)

type ReadingTimelinePoint struct {
	Week    time.Time `json:"week"`
	Seconds float64   `json:"seconds"`
}

// GetReadingTimeline sums the classroom's recorded reading time per week
// over the trailing ninety days, for the dashboard timeline chart. Only the
// directly-reported seconds column participates here; legacy-shape rows are
// reconciled on the rollup path, not in SQL.
func GetReadingTimeline(ctx context.Context, classroomID uint) ([]ReadingTimelinePoint, error) {
	var points []ReadingTimelinePoint

	query := `
		SELECT
			date_trunc('week', updated_at) AS week,
			COALESCE(SUM(reading_time_seconds), 0) AS seconds
		FROM book_progresses
		WHERE classroom_id = ? AND updated_at > now() - interval '90 days'
		GROUP BY 1
		ORDER BY 1;
	`
	err := database.DB.WithContext(ctx).Raw(query, classroomID).Scan(&points).Error
	return points, err
}
