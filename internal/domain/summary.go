package domain

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Summary aggregates the whole log
type Summary struct {
	Count           int    // number of records
	TotalCharsAdded int    // sum of charsAdded across records
	DistinctFiles   int    // number of different fileName values
	First           string // timestamp of the oldest record
	Last            string // timestamp of the newest record
}

// Summarize reduces records to a Summary. Records are assumed oldest first.
func Summarize(records []LogRecord) Summary {
	s := Summary{Count: len(records)}
	files := make(map[string]struct{})
	for _, r := range records {
		s.TotalCharsAdded += r.CharsAdded
		files[r.FileName] = struct{}{}
	}
	s.DistinctFiles = len(files)

	if len(records) > 0 {
		s.First = records[0].Timestamp
		s.Last = records[len(records)-1].Timestamp
	}
	return s
}

// Message renders the summary the way it is shown to the user
func (s Summary) Message() string {
	return fmt.Sprintf("Activity Summary:\nFiles Saved: %s\nTotal Characters Added: %s",
		humanize.Comma(int64(s.Count)),
		humanize.Comma(int64(s.TotalCharsAdded)),
	)
}
