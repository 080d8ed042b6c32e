package repository

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/gorm"

	"readle/internal/database"
	"readle/internal/models"
	"readle/internal/progress"
)

// sessionPayload is the blob the mobile reader posts alongside a progress
// update. Only the nested duration matters to aggregation; the rest of the
// blob is opaque.
type sessionPayload struct {
	Duration *progress.RawDuration `json:"duration"`
}

// BookProgressRows returns a student's raw progress rows, restricted to one
// classroom when classroomID is non-zero.
func BookProgressRows(ctx context.Context, studentID, classroomID uint) ([]models.BookProgress, error) {
	var rows []models.BookProgress
	q := database.DB.WithContext(ctx).Where("student_id = ?", studentID)
	if classroomID != 0 {
		q = q.Where("classroom_id = ?", classroomID)
	}
	result := q.Order("book_id").Find(&rows)
	return rows, result.Error
}

// RawProgressRecord converts a stored row into the raw shape the normalizer
// consumes. A session blob that fails to decode simply contributes no
// duration; the normalizer's fallback chain handles the rest.
func RawProgressRecord(row models.BookProgress) progress.RawBookProgress {
	raw := progress.RawBookProgress{
		BookID:             row.BookID,
		ClassroomID:        row.ClassroomID,
		Completed:          row.Completed,
		LastPageRead:       row.LastPageRead,
		TotalPages:         row.TotalPages,
		ReadingTimeSeconds: row.ReadingTimeSeconds,
		ReadingTimeMinutes: row.ReadingTimeMinutes,
		LastReadAt:         row.LastReadAt,
		CompletedAt:        row.CompletedAt,
	}
	if len(row.SessionData) > 0 {
		var session sessionPayload
		if err := json.Unmarshal(row.SessionData, &session); err == nil {
			raw.Duration = session.Duration
		}
	}
	return raw
}

// UpsertBookProgress writes one progress update, keyed by student and book.
func UpsertBookProgress(ctx context.Context, row models.BookProgress) error {
	var existing models.BookProgress
	err := database.DB.WithContext(ctx).
		Where("student_id = ? AND book_id = ?", row.StudentID, row.BookID).
		First(&existing).Error
	switch {
	case err == nil:
		row.ID = existing.ID
		row.CreatedAt = existing.CreatedAt
		return database.DB.WithContext(ctx).Save(&row).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		return database.DB.WithContext(ctx).Create(&row).Error
	default:
		return err
	}
}
