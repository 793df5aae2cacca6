package filesystem

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"prodtrack/internal/domain"
	"prodtrack/internal/ports"
)

// LogStore implements ports.ActivityLog as a pretty-printed JSON array file
type LogStore struct {
	path string
}

// Ensure LogStore implements ActivityLog
var _ ports.ActivityLog = (*LogStore)(nil)

// NewLogStore creates a new log store at path
func NewLogStore(path string) *LogStore {
	return &LogStore{path: ExpandHome(path)}
}

// ExpandHome expands a leading ~ to the user's home directory
func ExpandHome(path string) string {
	if strings.HasPrefix(path, "~") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[1:])
	}
	return path
}

// Path returns the log file location
func (s *LogStore) Path() string {
	return s.path
}

// Exists reports whether the log file is present
func (s *LogStore) Exists() (bool, error) {
	_, err := os.Stat(s.path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat log: %w", err)
}

// ReadRaw returns the file contents as stored
func (s *LogStore) ReadRaw() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read log: %w", err)
	}
	return data, nil
}

// Load parses every record in the log
func (s *LogStore) Load() ([]domain.LogRecord, error) {
	data, err := s.ReadRaw()
	if err != nil {
		return nil, err
	}
	return domain.ParseLog(data)
}

// Append reads the existing array, adds records after it and overwrites the
// file. Existing entries are carried over as raw JSON so fields this program
// does not know about survive the rewrite.
func (s *LogStore) Append(records []domain.LogRecord) error {
	if len(records) == 0 {
		return nil
	}

	existing := []json.RawMessage{}
	data, err := os.ReadFile(s.path)
	switch {
	case err == nil:
		existing, err = decodeEntries(data)
		if err != nil {
			return err
		}
	case errors.Is(err, fs.ErrNotExist):
		// first flush creates the file
	default:
		return fmt.Errorf("failed to read log: %w", err)
	}

	for _, r := range records {
		raw, err := encodeRecord(r)
		if err != nil {
			return err
		}
		existing = append(existing, raw)
	}

	out, err := encodeEntries(existing)
	if err != nil {
		return err
	}

	if err := os.WriteFile(s.path, out, 0o644); err != nil {
		return fmt.Errorf("failed to write log: %w", err)
	}
	return nil
}

// Stamp returns the size and modification time of the log file
func (s *LogStore) Stamp() (domain.LogStamp, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return domain.LogStamp{}, fmt.Errorf("failed to stat log: %w", err)
	}
	return domain.LogStamp{Size: info.Size(), Mtime: info.ModTime().UnixNano()}, nil
}

func decodeEntries(data []byte) ([]json.RawMessage, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedLog, err)
	}
	if entries == nil {
		return nil, fmt.Errorf("%w: expected a JSON array", domain.ErrMalformedLog)
	}
	return entries, nil
}

// encodeRecord marshals r without escaping <, > and &
func encodeRecord(r domain.LogRecord) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r); err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func encodeEntries(entries []json.RawMessage) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return nil, fmt.Errorf("failed to encode log: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
