package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnakeGameScore(t *testing.T) {
	tests := []struct {
		name      string
		attempts  int
		value     int
		attempted bool
	}{
		{"first attempt is perfect", 1, 100, true},
		{"two points per extra attempt", 6, 90, true},
		{"floor at zero", 51, 0, true},
		{"floor holds for large inputs", 500, 0, true},
		{"zero attempts means not attempted", 0, 0, false},
		{"negative attempts means not attempted", -3, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SnakeGameScore(tt.attempts)
			assert.Equal(t, tt.attempted, got.Attempted)
			assert.Equal(t, tt.value, got.Value)
		})
	}
}

func TestSequencingScore(t *testing.T) {
	tests := []struct {
		name      string
		attempts  int
		value     int
		attempted bool
	}{
		{"first attempt is perfect", 1, 100, true},
		{"second attempt", 2, 75, true},
		{"fifth attempt reaches zero", 5, 0, true},
		{"never negative", 10, 0, true},
		{"zero attempts means not attempted", 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SequencingScore(tt.attempts)
			assert.Equal(t, tt.attempted, got.Attempted)
			assert.Equal(t, tt.value, got.Value)
		})
	}
}

func TestScoreMonotonicity(t *testing.T) {
	// More attempts must never raise a score.
	for attempts := 1; attempts < 120; attempts++ {
		snake := SnakeGameScore(attempts)
		snakeNext := SnakeGameScore(attempts + 1)
		assert.LessOrEqual(t, snakeNext.Value, snake.Value, "snake score rose at %d attempts", attempts)

		seq := SequencingScore(attempts)
		seqNext := SequencingScore(attempts + 1)
		assert.LessOrEqual(t, seqNext.Value, seq.Value, "sequencing score rose at %d attempts", attempts)
	}
}

func TestPredictionScore(t *testing.T) {
	assert.Equal(t, Score{Value: 100, Attempted: true}, PredictionScore(true))
	assert.Equal(t, Score{Value: 0, Attempted: true}, PredictionScore(false))
}

func TestScoreAttempt(t *testing.T) {
	correct := true
	incorrect := false

	tests := []struct {
		name string
		rec  AttemptRecord
		want Score
	}{
		{"snake game dispatch", AttemptRecord{Activity: SnakeGame, Attempts: 3}, Score{Value: 96, Attempted: true}},
		{"sequencing dispatch", AttemptRecord{Activity: Sequencing, Attempts: 2}, Score{Value: 75, Attempted: true}},
		{"prediction correct", AttemptRecord{Activity: Prediction, Correct: &correct}, Score{Value: 100, Attempted: true}},
		{"prediction incorrect", AttemptRecord{Activity: Prediction, Correct: &incorrect}, Score{Value: 0, Attempted: true}},
		{"prediction without outcome is not attempted", AttemptRecord{Activity: Prediction, Attempts: 1}, Score{}},
		{"unknown activity is not attempted", AttemptRecord{Activity: "word_search", Attempts: 4}, Score{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScoreAttempt(tt.rec))
		})
	}
}

func TestCorrectFromLegacyOutcome(t *testing.T) {
	correct, ok := CorrectFromLegacyOutcome(1)
	assert.True(t, ok)
	assert.True(t, correct)

	correct, ok = CorrectFromLegacyOutcome(2)
	assert.True(t, ok)
	assert.False(t, correct)

	for _, v := range []int{0, 3, -1, 100} {
		_, ok := CorrectFromLegacyOutcome(v)
		assert.False(t, ok, "outcome %d should not decode", v)
	}
}

func TestNormalizeAttemptCount(t *testing.T) {
	assert.Equal(t, 0, NormalizeAttemptCount(math.NaN()))
	assert.Equal(t, 0, NormalizeAttemptCount(math.Inf(1)))
	assert.Equal(t, 0, NormalizeAttemptCount(-2))
	assert.Equal(t, 0, NormalizeAttemptCount(0))
	assert.Equal(t, 3, NormalizeAttemptCount(3))
	assert.Equal(t, 3, NormalizeAttemptCount(3.7))
}
