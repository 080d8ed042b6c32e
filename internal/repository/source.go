package repository

import (
	"context"

	"readle/internal/progress"
	"readle/internal/scoring"
)

// Source is the database-backed record source for the rollup builder.
type Source struct{}

var _ progress.RecordSource = Source{}

func (Source) BookProgress(ctx context.Context, studentID, classroomID uint) ([]progress.RawBookProgress, error) {
	rows, err := BookProgressRows(ctx, studentID, classroomID)
	if err != nil {
		return nil, err
	}
	raws := make([]progress.RawBookProgress, 0, len(rows))
	for _, row := range rows {
		raws = append(raws, RawProgressRecord(row))
	}
	return raws, nil
}

func (Source) ActivityAttempt(ctx context.Context, studentID uint, bookID string, activity scoring.ActivityType) (scoring.AttemptRecord, error) {
	return GetActivityAttempt(ctx, studentID, bookID, activity)
}
