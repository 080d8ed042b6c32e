package progress

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fptr(v float64) *float64 { return &v }

func TestResolveReadingTime(t *testing.T) {
	tests := []struct {
		name    string
		raw     RawBookProgress
		seconds float64
		ok      bool
	}{
		{"direct seconds", RawBookProgress{ReadingTimeSeconds: fptr(1234)}, 1234, true},
		{"nested duration seconds", RawBookProgress{Duration: &RawDuration{Seconds: fptr(90)}}, 90, true},
		{"legacy minutes convert", RawBookProgress{ReadingTimeMinutes: fptr(5)}, 300, true},
		{"direct seconds beats nested duration", RawBookProgress{
			ReadingTimeSeconds: fptr(10),
			Duration:           &RawDuration{Seconds: fptr(999)},
		}, 10, true},
		{"nested duration beats legacy minutes", RawBookProgress{
			Duration:           &RawDuration{Seconds: fptr(45)},
			ReadingTimeMinutes: fptr(99),
		}, 45, true},
		{"NaN seconds falls through to duration", RawBookProgress{
			ReadingTimeSeconds: fptr(math.NaN()),
			Duration:           &RawDuration{Seconds: fptr(30)},
		}, 30, true},
		{"negative seconds rejected", RawBookProgress{ReadingTimeSeconds: fptr(-5)}, 0, false},
		{"empty duration object rejected", RawBookProgress{Duration: &RawDuration{}}, 0, false},
		{"no shape at all", RawBookProgress{}, 0, false},
		{"zero seconds is a valid value", RawBookProgress{ReadingTimeSeconds: fptr(0)}, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seconds, ok := ResolveReadingTime(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.seconds, seconds)
		})
	}
}

func TestNormalizeRecordNeverFails(t *testing.T) {
	rec := NormalizeRecord(RawBookProgress{
		BookID:      "bk-1",
		ClassroomID: 7,
		Completed:   true,
		LastReadAt:  "not a date",
		CompletedAt: "also junk",
	})
	assert.Equal(t, "bk-1", rec.BookID)
	assert.Equal(t, uint(7), rec.ClassroomID)
	assert.True(t, rec.Completed)
	assert.Zero(t, rec.ReadingTimeSeconds)
	assert.Nil(t, rec.LastReadAt)
	assert.Nil(t, rec.CompletedAt)
}

func TestNormalizeRecordCanonicalFields(t *testing.T) {
	rec := NormalizeRecord(RawBookProgress{
		BookID:             "bk-2",
		ClassroomID:        3,
		LastPageRead:       12,
		TotalPages:         40,
		ReadingTimeMinutes: fptr(2),
		LastReadAt:         "2026-03-04T10:00:00Z",
	})
	assert.Equal(t, 12, rec.LastPageRead)
	assert.Equal(t, 40, rec.TotalPages)
	assert.Equal(t, float64(120), rec.ReadingTimeSeconds)
	require.NotNil(t, rec.LastReadAt)
	assert.Equal(t, time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC), rec.LastReadAt.UTC())
}

func TestParseTimestamp(t *testing.T) {
	assert.Nil(t, ParseTimestamp(""))
	assert.Nil(t, ParseTimestamp("yesterday"))
	assert.Nil(t, ParseTimestamp("2026-13-45"))

	require.NotNil(t, ParseTimestamp("2026-01-15T09:30:00Z"))
	require.NotNil(t, ParseTimestamp("2026-01-15 09:30:00"))

	legacy := ParseTimestamp("2026-01-15")
	require.NotNil(t, legacy)
	assert.Equal(t, 2026, legacy.Year())
}
