package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"
)

// TimestampLayout is the ISO-8601 form used for record timestamps: UTC with
// millisecond precision, e.g. 2024-03-01T14:05:09.120Z.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

var (
	// ErrNoWorkspace is returned when tracking is started without a workspace folder
	ErrNoWorkspace = errors.New("no workspace folder open")

	// ErrMalformedLog is returned when the persisted log exists but is not a JSON array
	ErrMalformedLog = errors.New("malformed productivity log")
)

// LogRecord is one persisted activity entry
type LogRecord struct {
	Timestamp  string `json:"timestamp"`
	CharsAdded int    `json:"charsAdded"`
	FileName   string `json:"fileName"`
}

// UnmarshalJSON accepts any JSON number for charsAdded, truncating fractions
// toward zero. A missing, null or non-numeric value counts as 0 so a log the
// writer accepted can always be summarized.
func (r *LogRecord) UnmarshalJSON(data []byte) error {
	var raw struct {
		Timestamp  string          `json:"timestamp"`
		CharsAdded json.RawMessage `json:"charsAdded"`
		FileName   string          `json:"fileName"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	r.Timestamp = raw.Timestamp
	r.FileName = raw.FileName
	r.CharsAdded = 0

	var n float64
	if len(raw.CharsAdded) > 0 && json.Unmarshal(raw.CharsAdded, &n) == nil &&
		!math.IsInf(n, 0) && math.Abs(n) < math.MaxInt32 {
		r.CharsAdded = int(n)
	}
	return nil
}

// Time parses the record timestamp
func (r LogRecord) Time() (time.Time, error) {
	return time.Parse(time.RFC3339, r.Timestamp)
}

// FormatTimestamp renders t in TimestampLayout
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// NewBatch stamps every delta with the same timestamp, preserving delta order
func NewBatch(deltas []Delta, now time.Time) []LogRecord {
	if len(deltas) == 0 {
		return nil
	}

	ts := FormatTimestamp(now)
	batch := make([]LogRecord, 0, len(deltas))
	for _, d := range deltas {
		batch = append(batch, LogRecord{
			Timestamp:  ts,
			CharsAdded: d.Chars,
			FileName:   d.FileName,
		})
	}
	return batch
}

// ParseLog decodes the contents of a log file into its records.
// Anything that is not a JSON array of objects wraps ErrMalformedLog.
func ParseLog(data []byte) ([]LogRecord, error) {
	var records []LogRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedLog, err)
	}
	if records == nil {
		// "null" decodes without error but is not a record sequence
		return nil, fmt.Errorf("%w: expected a JSON array", ErrMalformedLog)
	}
	return records, nil
}
