package commands

import (
	"context"
	"errors"
	"os/exec"
	"sort"

	"prodtrack/internal/domain"
)

// memoryLog is an in-memory ports.ActivityLog
type memoryLog struct {
	path      string
	raw       []byte
	exists    bool
	appendErr error

	appends int
	reads   int
}

func newMemoryLog(raw string) *memoryLog {
	return &memoryLog{path: "/work/productivity_log.json", raw: []byte(raw), exists: true}
}

func (m *memoryLog) Path() string { return m.path }

func (m *memoryLog) Exists() (bool, error) { return m.exists, nil }

func (m *memoryLog) ReadRaw() ([]byte, error) {
	m.reads++
	return m.raw, nil
}

func (m *memoryLog) Load() ([]domain.LogRecord, error) {
	m.reads++
	return domain.ParseLog(m.raw)
}

func (m *memoryLog) Append(records []domain.LogRecord) error {
	m.appends++
	if m.appendErr != nil {
		return m.appendErr
	}
	existing := []domain.LogRecord{}
	if m.exists {
		var err error
		if existing, err = domain.ParseLog(m.raw); err != nil {
			return err
		}
	}
	existing = append(existing, records...)
	m.raw = mustJSON(existing)
	m.exists = true
	return nil
}

func (m *memoryLog) Stamp() (domain.LogStamp, error) {
	return domain.LogStamp{Size: int64(len(m.raw)), Mtime: int64(m.appends)}, nil
}

// fakePipeline records invocations instead of running scripts
type fakePipeline struct {
	script   string
	trainErr error
	plotErr  error
	calls    [][]string
}

func (f *fakePipeline) TrainScript() string { return f.script }

func (f *fakePipeline) Train(_ context.Context, logPath, modelPath string) (string, error) {
	f.calls = append(f.calls, []string{"train", logPath, modelPath})
	if f.trainErr != nil {
		return "Error: Productivity log file is empty!", f.trainErr
	}
	return "Model saved", nil
}

func (f *fakePipeline) Plot(_ context.Context, modelPath, logPath, outputPath string) (string, error) {
	f.calls = append(f.calls, []string{"plot", modelPath, logPath, outputPath})
	if f.plotErr != nil {
		return "", f.plotErr
	}
	return "Time series plot saved", nil
}

// fakeOpener remembers opened paths
type fakeOpener struct {
	opened []string
	err    error
}

func (f *fakeOpener) OpenFile(path string) error {
	if f.err != nil {
		return f.err
	}
	f.opened = append(f.opened, path)
	return nil
}

func (f *fakeOpener) Command(path string) (*exec.Cmd, error) {
	return nil, errors.New("not supported")
}

// memoryIndex is an in-memory ports.ActivityIndex
type memoryIndex struct {
	stamp   domain.LogStamp
	records []domain.LogRecord
	syncs   int
}

func (m *memoryIndex) Open(string) error { return nil }
func (m *memoryIndex) Close() error      { return nil }

func (m *memoryIndex) NeedsSync(stamp domain.LogStamp) bool {
	return m.syncs == 0 || stamp != m.stamp
}

func (m *memoryIndex) Sync(records []domain.LogRecord, stamp domain.LogStamp) (*domain.SyncStats, error) {
	m.syncs++
	m.records = append([]domain.LogRecord(nil), records...)
	m.stamp = stamp
	return &domain.SyncStats{Records: len(records)}, nil
}

func (m *memoryIndex) FileTotals(limit int) ([]domain.FileTotal, error) {
	totals := map[string]*domain.FileTotal{}
	for _, r := range m.records {
		ft, ok := totals[r.FileName]
		if !ok {
			ft = &domain.FileTotal{FileName: r.FileName}
			totals[r.FileName] = ft
		}
		ft.CharsAdded += r.CharsAdded
		ft.Records++
	}
	var out []domain.FileTotal
	for _, ft := range totals {
		out = append(out, *ft)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CharsAdded > out[j].CharsAdded })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memoryIndex) HourTotals() ([]domain.HourTotal, error) {
	var out []domain.HourTotal
	for _, r := range m.records {
		ts, err := r.Time()
		if err != nil {
			continue
		}
		out = append(out, domain.HourTotal{Weekday: domain.ISOWeekday(ts), Hour: ts.Hour(), CharsAdded: r.CharsAdded})
	}
	return out, nil
}
