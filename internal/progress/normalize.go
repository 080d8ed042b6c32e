package progress

import (
	"math"
	"time"
)

// RawDuration is the nested shape some reader clients use for reading time.
type RawDuration struct {
	Seconds *float64 `json:"seconds"`
}

// RawBookProgress is a progress record as it arrives from storage or from a
// client payload, before any shape reconciliation. Reading time may come as
// direct seconds, as seconds nested in Duration, or as legacy whole minutes;
// timestamps arrive as strings that may or may not parse.
type RawBookProgress struct {
	BookID      string `json:"bookId"`
	ClassroomID uint   `json:"classroomId"`
	Completed   bool   `json:"completed"`

	LastPageRead int `json:"lastPageRead"`
	TotalPages   int `json:"totalPages"`

	ReadingTimeSeconds *float64     `json:"totalReadingTimeSeconds,omitempty"`
	Duration           *RawDuration `json:"duration,omitempty"`
	ReadingTimeMinutes *float64     `json:"readingTimeMinutes,omitempty"`

	LastReadAt  string `json:"lastReadAt,omitempty"`
	CompletedAt string `json:"completedAt,omitempty"`
}

// NormalizeRecord reconciles a raw progress record into the canonical form.
// It never fails: unrecognized reading-time shapes fall through to 0 and
// unparsable timestamps are dropped.
func NormalizeRecord(raw RawBookProgress) BookProgressRecord {
	seconds, _ := ResolveReadingTime(raw)
	return BookProgressRecord{
		BookID:             raw.BookID,
		ClassroomID:        raw.ClassroomID,
		Completed:          raw.Completed,
		LastPageRead:       raw.LastPageRead,
		TotalPages:         raw.TotalPages,
		ReadingTimeSeconds: seconds,
		LastReadAt:         ParseTimestamp(raw.LastReadAt),
		CompletedAt:        ParseTimestamp(raw.CompletedAt),
	}
}

// ResolveReadingTime extracts reading time in seconds from whichever raw
// shape is present, in priority order: direct seconds, seconds nested in a
// duration object, then legacy minutes converted. ok is false when no shape
// yielded a usable value and the fallback 0 was used.
func ResolveReadingTime(raw RawBookProgress) (seconds float64, ok bool) {
	if v, valid := usableSeconds(raw.ReadingTimeSeconds); valid {
		return v, true
	}
	if raw.Duration != nil {
		if v, valid := usableSeconds(raw.Duration.Seconds); valid {
			return v, true
		}
	}
	if v, valid := usableSeconds(raw.ReadingTimeMinutes); valid {
		return v * 60, true
	}
	return 0, false
}

func usableSeconds(v *float64) (float64, bool) {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) || *v < 0 {
		return 0, false
	}
	return *v, true
}

// Timestamp layouts seen across reader clients. The legacy mobile app sends
// bare dates.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses a raw timestamp string, returning nil for anything
// that does not resolve to a real date. Invalid values are excluded from
// recency math rather than treated as epoch zero.
func ParseTimestamp(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
