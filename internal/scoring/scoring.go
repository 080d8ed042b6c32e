package scoring

import "math"

// ActivityType identifies one of the three comprehension activities a book
// can ship with.
type ActivityType string

const (
	SnakeGame  ActivityType = "snake_game"
	Sequencing ActivityType = "sequencing"
	Prediction ActivityType = "prediction"
)

// ActivityTypes lists every supported activity, in display order.
var ActivityTypes = []ActivityType{SnakeGame, Sequencing, Prediction}

// Valid reports whether t is one of the supported activity types.
func (t ActivityType) Valid() bool {
	switch t {
	case SnakeGame, Sequencing, Prediction:
		return true
	}
	return false
}

// AttemptRecord is the raw per-student, per-book, per-activity data as
// fetched from storage. Prediction carries a correctness flag instead of a
// meaningful attempt count; Correct is nil for the other types.
type AttemptRecord struct {
	BookID   string       `json:"bookId"`
	Activity ActivityType `json:"activityType"`
	Attempts int          `json:"attemptCount"`
	Correct  *bool        `json:"latestCorrect,omitempty"`
}

// Score is one computed comprehension score. Attempted is false when the
// student never tried the activity; such scores are excluded from averages
// rather than counted as 0.
type Score struct {
	Value     int  `json:"value"`
	Attempted bool `json:"attempted"`
}

// SnakeGameScore maps a snake-game attempt count to a 0-100 score. The
// first attempt is worth 100 and every extra attempt costs 2 points, with a
// floor at 0.
func SnakeGameScore(attempts int) Score {
	return penaltyScore(attempts, 2)
}

// SequencingScore maps a sequencing attempt count to a 0-100 score. Same
// shape as the snake game but the penalty is 25 per extra attempt, so the
// 5th attempt already scores 0.
func SequencingScore(attempts int) Score {
	return penaltyScore(attempts, 25)
}

func penaltyScore(attempts, penalty int) Score {
	if attempts <= 0 {
		return Score{}
	}
	value := 100 - (attempts-1)*penalty
	if value < 0 {
		value = 0
	}
	return Score{Value: value, Attempted: true}
}

// PredictionScore maps a prediction outcome to a score: 100 if the recorded
// attempt was correct, 0 otherwise.
func PredictionScore(correct bool) Score {
	s := Score{Attempted: true}
	if correct {
		s.Value = 100
	}
	return s
}

// ScoreAttempt computes the score for one attempt record. A prediction with
// no recorded outcome, or any other activity with no attempts, comes back
// as not attempted.
func ScoreAttempt(rec AttemptRecord) Score {
	switch rec.Activity {
	case SnakeGame:
		return SnakeGameScore(rec.Attempts)
	case Sequencing:
		return SequencingScore(rec.Attempts)
	case Prediction:
		if rec.Correct == nil {
			return Score{}
		}
		return PredictionScore(*rec.Correct)
	}
	return Score{}
}

// Legacy prediction outcome encoding still sent by old reader clients.
const (
	legacyOutcomeCorrect   = 1
	legacyOutcomeIncorrect = 2
)

// CorrectFromLegacyOutcome translates the overloaded integer encoding
// (1 = correct, 2 = incorrect) into a boolean. ok is false for any other
// value, which callers treat as "no recorded outcome".
func CorrectFromLegacyOutcome(outcome int) (correct, ok bool) {
	switch outcome {
	case legacyOutcomeCorrect:
		return true, true
	case legacyOutcomeIncorrect:
		return false, true
	}
	return false, false
}

// NormalizeAttemptCount coerces an attempt count taken from a JSON payload
// into a usable integer. NaN, infinities and negative values all mean the
// activity was never attempted and normalize to 0.
func NormalizeAttemptCount(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0
	}
	return int(v)
}
