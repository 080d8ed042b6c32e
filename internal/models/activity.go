package models

import "time"

// ActivityAttempt is the per-student, per-book attempt counter for the
// snake game and sequencing activities. Prediction attempts live in their
// own table keyed by checkpoint.
type ActivityAttempt struct {
	ID           uint   `gorm:"primaryKey"`
	StudentID    uint   `gorm:"index:idx_attempt,unique"`
	Student      User   `gorm:"foreignKey:StudentID"`
	BookID       string `gorm:"index:idx_attempt,unique"`
	ActivityType string `gorm:"index:idx_attempt,unique"`
	AttemptCount int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PredictionCheckpoint is the mid-book prompt a prediction activity hangs
// off. One per book.
type PredictionCheckpoint struct {
	ID        uint   `gorm:"primaryKey"`
	BookID    string `gorm:"uniqueIndex"`
	PageAt    int
	Prompt    string
	CreatedAt time.Time
}

// PredictionAttempt records one prediction answer. Older clients wrote the
// overloaded Outcome integer (1 = correct, 2 = incorrect); newer ones set
// Correct directly. Both shapes survive in the table.
type PredictionAttempt struct {
	ID           uint                 `gorm:"primaryKey"`
	CheckpointID uint                 `gorm:"index"`
	Checkpoint   PredictionCheckpoint `gorm:"foreignKey:CheckpointID"`
	StudentID    uint                 `gorm:"index"`
	Student      User                 `gorm:"foreignKey:StudentID"`
	Outcome      int
	Correct      *bool
	CreatedAt    time.Time
}
