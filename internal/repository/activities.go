package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"readle/internal/database"
	"readle/internal/models"
	"readle/internal/scoring"
)

// GetActivityAttempt fetches the stored attempt record for one student,
// book, and activity type. Prediction is a dependent two-step lookup: the
// book's checkpoint first, then that checkpoint's latest attempt. Callers
// treat any error, including gorm.ErrRecordNotFound, as "not attempted".
func GetActivityAttempt(ctx context.Context, studentID uint, bookID string, activity scoring.ActivityType) (scoring.AttemptRecord, error) {
	if activity == scoring.Prediction {
		return getPredictionAttempt(ctx, studentID, bookID)
	}

	var row models.ActivityAttempt
	err := database.DB.WithContext(ctx).
		Where("student_id = ? AND book_id = ? AND activity_type = ?", studentID, bookID, string(activity)).
		First(&row).Error
	if err != nil {
		return scoring.AttemptRecord{}, err
	}
	return scoring.AttemptRecord{
		BookID:   bookID,
		Activity: activity,
		Attempts: row.AttemptCount,
	}, nil
}

func getPredictionAttempt(ctx context.Context, studentID uint, bookID string) (scoring.AttemptRecord, error) {
	// Step 1: the book's checkpoint.
	var checkpoint models.PredictionCheckpoint
	err := database.DB.WithContext(ctx).Where("book_id = ?", bookID).First(&checkpoint).Error
	if err != nil {
		return scoring.AttemptRecord{}, err
	}

	// Step 2: the student's latest attempt against that checkpoint.
	var attempt models.PredictionAttempt
	err = database.DB.WithContext(ctx).
		Where("checkpoint_id = ? AND student_id = ?", checkpoint.ID, studentID).
		Order("created_at DESC").
		First(&attempt).Error
	if err != nil {
		return scoring.AttemptRecord{}, err
	}

	rec := scoring.AttemptRecord{
		BookID:   bookID,
		Activity: scoring.Prediction,
		Attempts: 1,
	}
	// Newer clients set the boolean directly; older rows only carry the
	// overloaded integer. Either way only a boolean leaves this layer.
	if attempt.Correct != nil {
		rec.Correct = attempt.Correct
	} else if correct, ok := scoring.CorrectFromLegacyOutcome(attempt.Outcome); ok {
		rec.Correct = &correct
	}
	return rec, nil
}

// RecordActivityAttempt stores a snake-game or sequencing play-through. An
// attempts value of 0 bumps the server-side counter by one; a positive value
// is a client-kept tally and replaces the count, which keeps replayed legacy
// uploads idempotent.
func RecordActivityAttempt(ctx context.Context, studentID uint, bookID string, activity scoring.ActivityType, attempts int) error {
	if activity == scoring.Prediction {
		return fmt.Errorf("prediction attempts are recorded per checkpoint")
	}

	var row models.ActivityAttempt
	err := database.DB.WithContext(ctx).
		Where("student_id = ? AND book_id = ? AND activity_type = ?", studentID, bookID, string(activity)).
		First(&row).Error
	switch {
	case err == nil:
		if attempts > 0 {
			return database.DB.WithContext(ctx).Model(&row).
				Update("attempt_count", attempts).Error
		}
		return database.DB.WithContext(ctx).Model(&row).
			Update("attempt_count", gorm.Expr("attempt_count + 1")).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		if attempts == 0 {
			attempts = 1
		}
		row = models.ActivityAttempt{
			StudentID:    studentID,
			BookID:       bookID,
			ActivityType: string(activity),
			AttemptCount: attempts,
		}
		return database.DB.WithContext(ctx).Create(&row).Error
	default:
		return err
	}
}

// RecordPredictionAttempt stores one prediction answer against the book's
// checkpoint.
func RecordPredictionAttempt(ctx context.Context, studentID uint, bookID string, correct bool) error {
	var checkpoint models.PredictionCheckpoint
	err := database.DB.WithContext(ctx).Where("book_id = ?", bookID).First(&checkpoint).Error
	if err != nil {
		return fmt.Errorf("no prediction checkpoint for book %s: %w", bookID, err)
	}

	attempt := models.PredictionAttempt{
		CheckpointID: checkpoint.ID,
		StudentID:    studentID,
		Correct:      &correct,
	}
	return database.DB.WithContext(ctx).Create(&attempt).Error
}
