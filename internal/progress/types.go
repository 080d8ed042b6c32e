package progress

import (
	"time"

	"readle/internal/scoring"
)

// Status classifies how a student is doing based on recency and average
// comprehension score.
type Status string

const (
	StatusOnTrack        Status = "OnTrack"
	StatusNeedsAttention Status = "NeedsAttention"
	StatusUnknown        Status = "Unknown"
)

// BookProgressRecord is the canonical per-student, per-book progress record
// produced by the normalizer. Exactly one of LastReadAt/CompletedAt is
// meaningful depending on Completed.
type BookProgressRecord struct {
	BookID             string     `json:"bookId"`
	ClassroomID        uint       `json:"classroomId"`
	Completed          bool       `json:"completed"`
	LastPageRead       int        `json:"lastPageRead"`
	TotalPages         int        `json:"totalPages"`
	ReadingTimeSeconds float64    `json:"totalReadingTimeSeconds"`
	LastReadAt         *time.Time `json:"lastReadAt,omitempty"`
	CompletedAt        *time.Time `json:"completedAt,omitempty"`
}

// ActivityScoreSet holds the three activity scores for one book.
type ActivityScoreSet struct {
	SnakeGame  scoring.Score `json:"snakeGame"`
	Sequencing scoring.Score `json:"sequencing"`
	Prediction scoring.Score `json:"prediction"`
}

// Set stores a score on the slot for its activity type.
func (s *ActivityScoreSet) Set(activity scoring.ActivityType, score scoring.Score) {
	switch activity {
	case scoring.SnakeGame:
		s.SnakeGame = score
	case scoring.Sequencing:
		s.Sequencing = score
	case scoring.Prediction:
		s.Prediction = score
	}
}

// Scores returns the set in catalog order.
func (s ActivityScoreSet) Scores() []scoring.Score {
	return []scoring.Score{s.SnakeGame, s.Sequencing, s.Prediction}
}

// StudentRollup is the aggregated summary of one student's progress across
// some scope (global, or one classroom when ClassroomID is non-zero). It is
// recomputed on every request and never persisted.
type StudentRollup struct {
	StudentID   uint   `json:"studentId"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	ClassroomID uint   `json:"classroomId,omitempty"`

	CompletedCount          int     `json:"completedCount"`
	InProgressCount         int     `json:"inProgressCount"`
	TotalReadingTimeSeconds float64 `json:"totalReadingTimeSeconds"`
	AvgComprehensionScore   int     `json:"avgComprehensionScore"`

	LastActivityDate      *time.Time `json:"lastActivityDate,omitempty"`
	DaysSinceLastActivity *int       `json:"daysSinceLastActivity,omitempty"`
	Status                Status     `json:"status"`

	// BookScores keys per-book activity scores by book id, for the student
	// detail view.
	BookScores map[string]ActivityScoreSet `json:"bookScores,omitempty"`
}
