package domain

import (
	"path/filepath"
	"sync"
)

// Delta is the accumulated growth of one file since the last drain
type Delta struct {
	FileName string
	Chars    int
}

// Tracker keeps per-file baselines and the positive deltas observed since the
// last drain. A file saved before it was ever opened has a baseline of 0, so
// its whole content counts as added.
//
// The mutex is uncontended while events arrive on a single dispatcher; it only
// serializes those events against the periodic flush.
type Tracker struct {
	mu       sync.Mutex
	logPath  string
	logName  string
	baseline map[string]int
	pending  map[string]int
	order    []string
}

// NewTracker creates a tracker that ignores events for the log file at logPath
func NewTracker(logPath string) *Tracker {
	t := &Tracker{
		baseline: make(map[string]int),
		pending:  make(map[string]int),
	}
	if logPath != "" {
		t.logPath = filepath.Clean(logPath)
		t.logName = filepath.Base(logPath)
	}
	return t
}

// IsExcluded reports whether fileID refers to the tracker's own log file
func (t *Tracker) IsExcluded(fileID string) bool {
	if t.logPath == "" {
		return false
	}
	return filepath.Clean(fileID) == t.logPath || filepath.Base(fileID) == t.logName
}

// Open records the baseline for fileID unless one already exists.
// It reports whether a new baseline was set.
func (t *Tracker) Open(fileID, text string) bool {
	if t.IsExcluded(fileID) {
		return false
	}
	n := CountVisible(text)

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.baseline[fileID]; ok {
		return false
	}
	t.baseline[fileID] = n
	return true
}

// Save compares text against the baseline, accumulates any growth and moves the
// baseline to the new length. It returns the growth recorded, 0 if none.
func (t *Tracker) Save(fileID, text string) int {
	if t.IsExcluded(fileID) {
		return 0
	}
	n := CountVisible(text)

	t.mu.Lock()
	defer t.mu.Unlock()

	delta := n - t.baseline[fileID]
	t.baseline[fileID] = n
	if delta <= 0 {
		return 0
	}

	if _, ok := t.pending[fileID]; !ok {
		t.order = append(t.order, fileID)
	}
	t.pending[fileID] += delta
	return delta
}

// Drain returns the pending deltas in the order files first grew and clears
// the accumulator.
func (t *Tracker) Drain() []Delta {
	t.mu.Lock()
	defer t.mu.Unlock()

	deltas := make([]Delta, 0, len(t.order))
	for _, fileID := range t.order {
		deltas = append(deltas, Delta{FileName: fileID, Chars: t.pending[fileID]})
	}

	t.pending = make(map[string]int)
	t.order = nil
	return deltas
}

// Baseline returns the last observed visible length of fileID
func (t *Tracker) Baseline(fileID string) (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	n, ok := t.baseline[fileID]
	return n, ok
}

// Pending returns the growth accumulated for fileID since the last drain
func (t *Tracker) Pending(fileID string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.pending[fileID]
}

// PendingFiles returns how many files have growth waiting to be flushed
func (t *Tracker) PendingFiles() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.pending)
}
