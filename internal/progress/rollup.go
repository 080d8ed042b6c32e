package progress

import (
	"context"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"readle/internal/scoring"
)

// Thresholds for the status classifier.
const (
	attentionAfterDays = 14
	attentionBelow     = 70
)

// RecordSource supplies raw progress and attempt records for the rollup
// builder. Implementations may fail per call; the builder degrades a failed
// call to "no data for that entity" and never aborts the whole rollup.
type RecordSource interface {
	// BookProgress returns every raw progress record for the student,
	// restricted to one classroom when classroomID is non-zero.
	BookProgress(ctx context.Context, studentID, classroomID uint) ([]RawBookProgress, error)

	// ActivityAttempt returns the student's attempt record for one book and
	// activity type. A "not found" error means the activity was never tried.
	ActivityAttempt(ctx context.Context, studentID uint, bookID string, activity scoring.ActivityType) (scoring.AttemptRecord, error)
}

// StudentRef identifies one student for rollup building. The caller passes
// the acting scope explicitly; the builder never consults ambient session
// state.
type StudentRef struct {
	ID    uint
	Name  string
	Email string
}

// Builder turns raw records into StudentRollups. All computation is pure;
// the only concurrency is the per-book, per-activity fan-out against the
// record source.
type Builder struct {
	src RecordSource
	log *zap.Logger
	now func() time.Time
}

func NewBuilder(src RecordSource, log *zap.Logger) *Builder {
	return &Builder{src: src, log: log, now: time.Now}
}

// StudentRollup builds the aggregate for one student. classroomID of 0
// means global scope. The rollup is produced only after every per-book
// fetch has settled; individual fetch failures degrade to "not attempted".
func (b *Builder) StudentRollup(ctx context.Context, student StudentRef, classroomID uint) StudentRollup {
	rollup := StudentRollup{
		StudentID:   student.ID,
		Name:        student.Name,
		Email:       student.Email,
		ClassroomID: classroomID,
		Status:      StatusUnknown,
	}

	raws, err := b.src.BookProgress(ctx, student.ID, classroomID)
	if err != nil {
		b.log.Warn("Progress records unavailable, rollup degrades to empty",
			zap.Uint("studentID", student.ID),
			zap.Uint("classroomID", classroomID),
			zap.Error(err))
		return rollup
	}
	if len(raws) == 0 {
		return rollup
	}

	records := make([]BookProgressRecord, 0, len(raws))
	for _, raw := range raws {
		if _, ok := ResolveReadingTime(raw); !ok && hasReadingTimeShape(raw) {
			b.log.Debug("Unrecognized reading time shape, falling back to 0",
				zap.Uint("studentID", student.ID),
				zap.String("bookID", raw.BookID))
		}
		records = append(records, NormalizeRecord(raw))
	}

	rollup.BookScores = b.fetchBookScores(ctx, student.ID, records)

	totalScore := 0
	activityCount := 0
	for _, set := range rollup.BookScores {
		for _, score := range set.Scores() {
			if score.Attempted {
				totalScore += score.Value
				activityCount++
			}
		}
	}
	if activityCount > 0 {
		rollup.AvgComprehensionScore = int(math.Round(float64(totalScore) / float64(activityCount)))
	}

	var last *time.Time
	for i := range records {
		rec := records[i]
		rollup.TotalReadingTimeSeconds += rec.ReadingTimeSeconds
		if rec.Completed {
			rollup.CompletedCount++
			last = laterOf(last, rec.CompletedAt)
		} else {
			rollup.InProgressCount++
			last = laterOf(last, rec.LastReadAt)
		}
	}
	rollup.LastActivityDate = last

	if last != nil {
		days := int(b.now().Sub(*last).Hours() / 24)
		rollup.DaysSinceLastActivity = &days
	}

	rollup.Status = classify(rollup)
	return rollup
}

// ClassroomRollups builds one rollup per student in the roster, preserving
// roster order.
func (b *Builder) ClassroomRollups(ctx context.Context, students []StudentRef, classroomID uint) []StudentRollup {
	rollups := make([]StudentRollup, 0, len(students))
	for _, student := range students {
		rollups = append(rollups, b.StudentRollup(ctx, student, classroomID))
	}
	return rollups
}

// fetchBookScores fans out one fetch per book per activity type. Fetches
// run concurrently and each failure is isolated: that one activity stays
// "not attempted" while the rest proceed.
func (b *Builder) fetchBookScores(ctx context.Context, studentID uint, records []BookProgressRecord) map[string]ActivityScoreSet {
	scores := make(map[string]ActivityScoreSet, len(records))
	for _, rec := range records {
		scores[rec.BookID] = ActivityScoreSet{}
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for bookID := range scores {
		for _, activity := range scoring.ActivityTypes {
			wg.Add(1)
			go func(bookID string, activity scoring.ActivityType) {
				defer wg.Done()
				rec, err := b.src.ActivityAttempt(ctx, studentID, bookID, activity)
				if err != nil {
					// Not found or a transport failure: this one activity
					// degrades to not attempted, the others are unaffected.
					b.log.Debug("Attempt record unavailable",
						zap.Uint("studentID", studentID),
						zap.String("bookID", bookID),
						zap.String("activity", string(activity)),
						zap.Error(err))
					return
				}
				score := scoring.ScoreAttempt(rec)
				if !score.Attempted {
					return
				}
				mu.Lock()
				set := scores[bookID]
				set.Set(activity, score)
				scores[bookID] = set
				mu.Unlock()
			}(bookID, activity)
		}
	}
	wg.Wait()
	return scores
}

func classify(r StudentRollup) Status {
	if r.CompletedCount == 0 && r.InProgressCount == 0 {
		return StatusUnknown
	}
	// Recency rule first: a stale student needs attention no matter how
	// well they scored when they were active.
	if r.DaysSinceLastActivity == nil || *r.DaysSinceLastActivity > attentionAfterDays {
		return StatusNeedsAttention
	}
	if r.AvgComprehensionScore < attentionBelow {
		return StatusNeedsAttention
	}
	return StatusOnTrack
}

func laterOf(a, b *time.Time) *time.Time {
	if b == nil {
		return a
	}
	if a == nil || b.After(*a) {
		return b
	}
	return a
}

func hasReadingTimeShape(raw RawBookProgress) bool {
	return raw.ReadingTimeSeconds != nil || raw.Duration != nil || raw.ReadingTimeMinutes != nil
}
