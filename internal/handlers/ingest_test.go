package handlers

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeAttempt(t *testing.T, body string) attemptPayload {
	t.Helper()
	var payload attemptPayload
	require.NoError(t, json.Unmarshal([]byte(body), &payload))
	return payload
}

func TestAttemptCountFromPayload(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"absent tally defers to the server counter", `{"bookId":"b1","activityType":"snake_game"}`, 0},
		{"whole tally passes through", `{"bookId":"b1","activityType":"snake_game","attempts":3}`, 3},
		{"fractional tally truncates", `{"bookId":"b1","activityType":"sequencing","attempts":2.7}`, 2},
		{"negative tally means never attempted", `{"bookId":"b1","activityType":"snake_game","attempts":-4}`, 0},
		{"zero tally defers to the server counter", `{"bookId":"b1","activityType":"sequencing","attempts":0}`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := decodeAttempt(t, tt.body)
			assert.Equal(t, tt.want, attemptCount(payload))
		})
	}
}

func TestPredictionOutcomeFromPayload(t *testing.T) {
	correct, ok := predictionOutcome(decodeAttempt(t, `{"bookId":"b1","activityType":"prediction","correct":true}`))
	require.True(t, ok)
	assert.True(t, correct)

	// The legacy integer encoding: 1 is correct, 2 is incorrect.
	correct, ok = predictionOutcome(decodeAttempt(t, `{"bookId":"b1","activityType":"prediction","outcome":2}`))
	require.True(t, ok)
	assert.False(t, correct)

	// The boolean wins when both are present.
	correct, ok = predictionOutcome(decodeAttempt(t, `{"bookId":"b1","activityType":"prediction","correct":false,"outcome":1}`))
	require.True(t, ok)
	assert.False(t, correct)

	// No outcome at all.
	_, ok = predictionOutcome(decodeAttempt(t, `{"bookId":"b1","activityType":"prediction"}`))
	assert.False(t, ok)
}
