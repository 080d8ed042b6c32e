package models

import (
	"time"

	"github.com/lib/pq"
)

// BookProgress is one student's raw progress row for one book. The
// reading-time columns mirror what the clients actually send: the web
// reader writes seconds, the mobile app posts a session blob with a nested
// duration, and the original tablet build reported whole minutes. The
// timestamp columns are kept as text because legacy clients submitted
// whatever format they liked; parsing happens in the progress normalizer.
type BookProgress struct {
	ID          uint `gorm:"primaryKey"`
	StudentID   uint `gorm:"index:idx_progress_scope"`
	Student     User `gorm:"foreignKey:StudentID"`
	ClassroomID uint `gorm:"index:idx_progress_scope"`
	BookID      string

	Completed    bool
	LastPageRead int
	TotalPages   int
	PagesVisited pq.Int64Array `gorm:"type:integer[]"`

	ReadingTimeSeconds *float64
	SessionData        []byte `gorm:"type:jsonb"`
	ReadingTimeMinutes *float64

	LastReadAt  string
	CompletedAt string

	CreatedAt time.Time
	UpdatedAt time.Time
}
