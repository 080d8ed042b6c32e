package progress

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"readle/internal/scoring"
)

// fakeSource is an in-memory RecordSource. Attempt records key on
// student/book/activity; missing keys behave like a not-found response.
type fakeSource struct {
	progress    map[uint][]RawBookProgress
	attempts    map[string]scoring.AttemptRecord
	failing     map[string]bool
	progressErr error
}

func attemptKey(studentID uint, bookID string, activity scoring.ActivityType) string {
	return fmt.Sprintf("%d/%s/%s", studentID, bookID, activity)
}

func (f *fakeSource) BookProgress(_ context.Context, studentID, classroomID uint) ([]RawBookProgress, error) {
	if f.progressErr != nil {
		return nil, f.progressErr
	}
	var out []RawBookProgress
	for _, raw := range f.progress[studentID] {
		if classroomID == 0 || raw.ClassroomID == classroomID {
			out = append(out, raw)
		}
	}
	return out, nil
}

func (f *fakeSource) ActivityAttempt(_ context.Context, studentID uint, bookID string, activity scoring.ActivityType) (scoring.AttemptRecord, error) {
	key := attemptKey(studentID, bookID, activity)
	if f.failing[key] {
		return scoring.AttemptRecord{}, errors.New("record source unavailable")
	}
	rec, ok := f.attempts[key]
	if !ok {
		return scoring.AttemptRecord{}, errors.New("not found")
	}
	return rec, nil
}

func testBuilder(src RecordSource, now time.Time) *Builder {
	b := NewBuilder(src, zap.NewNop())
	b.now = func() time.Time { return now }
	return b
}

var testNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func daysAgo(n int) string {
	return testNow.AddDate(0, 0, -n).Format(time.RFC3339)
}

func TestStudentRollupScenario(t *testing.T) {
	// One completed book with snake attempts=3 and sequencing attempts=1,
	// one in-progress book with no activities.
	src := &fakeSource{
		progress: map[uint][]RawBookProgress{
			1: {
				{BookID: "bk-1", ClassroomID: 10, Completed: true, ReadingTimeSeconds: fptr(600), CompletedAt: daysAgo(2)},
				{BookID: "bk-2", ClassroomID: 10, LastPageRead: 5, TotalPages: 30, ReadingTimeMinutes: fptr(4), LastReadAt: daysAgo(1)},
			},
		},
		attempts: map[string]scoring.AttemptRecord{
			attemptKey(1, "bk-1", scoring.SnakeGame):  {BookID: "bk-1", Activity: scoring.SnakeGame, Attempts: 3},
			attemptKey(1, "bk-1", scoring.Sequencing): {BookID: "bk-1", Activity: scoring.Sequencing, Attempts: 1},
		},
	}

	b := testBuilder(src, testNow)
	rollup := b.StudentRollup(context.Background(), StudentRef{ID: 1, Name: "Ada Reader"}, 10)

	assert.Equal(t, 1, rollup.CompletedCount)
	assert.Equal(t, 1, rollup.InProgressCount)
	// round((96 + 100) / 2) = 98
	assert.Equal(t, 98, rollup.AvgComprehensionScore)
	assert.Equal(t, float64(600+240), rollup.TotalReadingTimeSeconds)
	require.NotNil(t, rollup.DaysSinceLastActivity)
	assert.Equal(t, 1, *rollup.DaysSinceLastActivity)
	assert.Equal(t, StatusOnTrack, rollup.Status)
}

func TestStudentRollupRecencyDominatesScore(t *testing.T) {
	src := &fakeSource{
		progress: map[uint][]RawBookProgress{
			1: {{BookID: "bk-1", Completed: false, LastReadAt: daysAgo(20)}},
		},
		attempts: map[string]scoring.AttemptRecord{
			attemptKey(1, "bk-1", scoring.SnakeGame): {Activity: scoring.SnakeGame, Attempts: 1},
		},
	}

	rollup := testBuilder(src, testNow).StudentRollup(context.Background(), StudentRef{ID: 1}, 0)
	assert.GreaterOrEqual(t, rollup.AvgComprehensionScore, 70)
	assert.Equal(t, StatusNeedsAttention, rollup.Status)
}

func TestStudentRollupLowScoreNeedsAttention(t *testing.T) {
	incorrect := false
	src := &fakeSource{
		progress: map[uint][]RawBookProgress{
			1: {{BookID: "bk-1", Completed: true, CompletedAt: daysAgo(1)}},
		},
		attempts: map[string]scoring.AttemptRecord{
			attemptKey(1, "bk-1", scoring.Prediction): {Activity: scoring.Prediction, Correct: &incorrect},
		},
	}

	rollup := testBuilder(src, testNow).StudentRollup(context.Background(), StudentRef{ID: 1}, 0)
	assert.Equal(t, 0, rollup.AvgComprehensionScore)
	assert.Equal(t, StatusNeedsAttention, rollup.Status)
}

func TestStudentRollupEmpty(t *testing.T) {
	src := &fakeSource{}
	rollup := testBuilder(src, testNow).StudentRollup(context.Background(), StudentRef{ID: 9}, 0)

	assert.Zero(t, rollup.CompletedCount)
	assert.Zero(t, rollup.InProgressCount)
	assert.Zero(t, rollup.AvgComprehensionScore)
	assert.Nil(t, rollup.LastActivityDate)
	assert.Nil(t, rollup.DaysSinceLastActivity)
	assert.Equal(t, StatusUnknown, rollup.Status)
}

func TestStudentRollupSourceFailureDegradesToEmpty(t *testing.T) {
	src := &fakeSource{progressErr: errors.New("connection refused")}
	rollup := testBuilder(src, testNow).StudentRollup(context.Background(), StudentRef{ID: 1}, 0)
	assert.Equal(t, StatusUnknown, rollup.Status)
}

func TestStudentRollupFetchFailureIsIsolated(t *testing.T) {
	src := &fakeSource{
		progress: map[uint][]RawBookProgress{
			1: {{BookID: "bk-1", Completed: true, CompletedAt: daysAgo(3)}},
		},
		attempts: map[string]scoring.AttemptRecord{
			attemptKey(1, "bk-1", scoring.SnakeGame):  {Activity: scoring.SnakeGame, Attempts: 1},
			attemptKey(1, "bk-1", scoring.Sequencing): {Activity: scoring.Sequencing, Attempts: 1},
		},
		failing: map[string]bool{
			attemptKey(1, "bk-1", scoring.Sequencing): true,
		},
	}

	rollup := testBuilder(src, testNow).StudentRollup(context.Background(), StudentRef{ID: 1}, 0)

	// The failed sequencing fetch is excluded from the average, not scored
	// as 0: the snake game alone yields 100.
	assert.Equal(t, 100, rollup.AvgComprehensionScore)
	set := rollup.BookScores["bk-1"]
	assert.True(t, set.SnakeGame.Attempted)
	assert.False(t, set.Sequencing.Attempted)
}

func TestStudentRollupInvalidDatesExcluded(t *testing.T) {
	src := &fakeSource{
		progress: map[uint][]RawBookProgress{
			1: {
				{BookID: "bk-1", Completed: true, CompletedAt: "garbage"},
				{BookID: "bk-2", Completed: false, LastReadAt: daysAgo(4)},
			},
		},
	}

	rollup := testBuilder(src, testNow).StudentRollup(context.Background(), StudentRef{ID: 1}, 0)
	require.NotNil(t, rollup.LastActivityDate)
	assert.Equal(t, 4, *rollup.DaysSinceLastActivity)
}

func TestStudentRollupClassroomScope(t *testing.T) {
	src := &fakeSource{
		progress: map[uint][]RawBookProgress{
			1: {
				{BookID: "bk-1", ClassroomID: 10, Completed: true, CompletedAt: daysAgo(1)},
				{BookID: "bk-2", ClassroomID: 20, Completed: true, CompletedAt: daysAgo(1)},
			},
		},
	}

	b := testBuilder(src, testNow)
	scoped := b.StudentRollup(context.Background(), StudentRef{ID: 1}, 10)
	assert.Equal(t, 1, scoped.CompletedCount)

	global := b.StudentRollup(context.Background(), StudentRef{ID: 1}, 0)
	assert.Equal(t, 2, global.CompletedCount)
}

func TestStudentRollupIdempotent(t *testing.T) {
	src := &fakeSource{
		progress: map[uint][]RawBookProgress{
			1: {
				{BookID: "bk-1", ClassroomID: 10, Completed: true, ReadingTimeSeconds: fptr(300), CompletedAt: daysAgo(5)},
				{BookID: "bk-2", ClassroomID: 10, LastReadAt: daysAgo(2)},
			},
		},
		attempts: map[string]scoring.AttemptRecord{
			attemptKey(1, "bk-1", scoring.SnakeGame): {Activity: scoring.SnakeGame, Attempts: 7},
			attemptKey(1, "bk-2", scoring.Sequencing): {Activity: scoring.Sequencing, Attempts: 2},
		},
	}

	b := testBuilder(src, testNow)
	first := b.StudentRollup(context.Background(), StudentRef{ID: 1, Name: "Ada"}, 10)
	second := b.StudentRollup(context.Background(), StudentRef{ID: 1, Name: "Ada"}, 10)
	assert.Equal(t, first, second)
}

func TestClassroomRollupsPreserveRosterOrder(t *testing.T) {
	src := &fakeSource{
		progress: map[uint][]RawBookProgress{
			2: {{BookID: "bk-1", ClassroomID: 10, Completed: true, CompletedAt: daysAgo(1)}},
		},
	}

	roster := []StudentRef{{ID: 1, Name: "Ada"}, {ID: 2, Name: "Ben"}, {ID: 3, Name: "Cam"}}
	rollups := testBuilder(src, testNow).ClassroomRollups(context.Background(), roster, 10)

	require.Len(t, rollups, 3)
	assert.Equal(t, "Ada", rollups[0].Name)
	assert.Equal(t, "Ben", rollups[1].Name)
	assert.Equal(t, "Cam", rollups[2].Name)
	assert.Equal(t, StatusUnknown, rollups[0].Status)
	assert.Equal(t, 1, rollups[1].CompletedCount)
}
