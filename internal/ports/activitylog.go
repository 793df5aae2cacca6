package ports

import "prodtrack/internal/domain"

// ActivityLog defines the persisted activity log
type ActivityLog interface {
	// Path returns the absolute location of the log file
	Path() string

	// Exists reports whether the log file is present
	Exists() (bool, error)

	// ReadRaw returns the file contents as stored
	ReadRaw() ([]byte, error)

	// Load parses every record in the log, oldest first
	Load() ([]domain.LogRecord, error)

	// Append writes records after the existing ones and rewrites the file
	Append(records []domain.LogRecord) error

	// Stamp identifies the current version of the file on disk
	Stamp() (domain.LogStamp, error)
}
