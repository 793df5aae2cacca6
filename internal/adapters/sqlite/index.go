package sqlite

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"prodtrack/internal/domain"
	"prodtrack/internal/ports"

	_ "modernc.org/sqlite"
)

const schemaVersion = "1"

// Index implements ports.ActivityIndex using SQLite
type Index struct {
	db      *sql.DB
	logPath string
	dbPath  string
}

// Ensure Index implements ActivityIndex
var _ ports.ActivityIndex = (*Index)(nil)

// Option configures the Index
type Option func(*Index)

// WithDatabasePath stores the index at path instead of the XDG data directory
func WithDatabasePath(path string) Option {
	return func(idx *Index) {
		idx.dbPath = path
	}
}

// NewIndex creates a new SQLite index
func NewIndex(opts ...Option) *Index {
	idx := &Index{}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// Open initializes the index for the given log file
func (idx *Index) Open(logPath string) error {
	idx.logPath = logPath
	if idx.dbPath == "" {
		idx.dbPath = databasePath(logPath)
	}

	if err := os.MkdirAll(filepath.Dir(idx.dbPath), 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	db, err := sql.Open("sqlite", idx.dbPath+"?_pragma=journal_mode(WAL)")
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	idx.db = db

	_, err = db.Exec(`
		PRAGMA synchronous = NORMAL;
		PRAGMA temp_store = MEMORY;
		PRAGMA busy_timeout = 5000;

		CREATE TABLE IF NOT EXISTS records (
			seq INTEGER PRIMARY KEY,
			timestamp TEXT NOT NULL,
			weekday INTEGER,
			hour INTEGER,
			chars_added INTEGER NOT NULL,
			file_name TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_records_file ON records(file_name);
		CREATE INDEX IF NOT EXISTS idx_records_slot ON records(weekday, hour);
	`)
	if err != nil {
		db.Close()
		return fmt.Errorf("failed to setup database: %w", err)
	}

	return nil
}

// Close closes the database connection
func (idx *Index) Close() error {
	if idx.db != nil {
		return idx.db.Close()
	}
	return nil
}

// NeedsSync returns true if the index was built from a different version of the log
func (idx *Index) NeedsSync(stamp domain.LogStamp) bool {
	var version, logHash, size, mtime string

	idx.db.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&version)
	idx.db.QueryRow("SELECT value FROM meta WHERE key = 'log_path_hash'").Scan(&logHash)
	idx.db.QueryRow("SELECT value FROM meta WHERE key = 'log_size'").Scan(&size)
	idx.db.QueryRow("SELECT value FROM meta WHERE key = 'log_mtime'").Scan(&mtime)

	return version != schemaVersion ||
		logHash != hashLogPath(idx.logPath) ||
		size != strconv.FormatInt(stamp.Size, 10) ||
		mtime != strconv.FormatInt(stamp.Mtime, 10)
}

// databasePath returns the path for the SQLite database
func databasePath(logPath string) string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}

	return filepath.Join(dataHome, "prodtrack", hashLogPath(logPath)+".db")
}

// hashLogPath returns a short hash of the log path
func hashLogPath(logPath string) string {
	h := sha256.Sum256([]byte(logPath))
	return hex.EncodeToString(h[:8]) // First 8 bytes = 16 hex chars
}

// FileTotals returns per-file growth, largest first
func (idx *Index) FileTotals(limit int) ([]domain.FileTotal, error) {
	rows, err := idx.db.Query(`
		SELECT file_name, SUM(chars_added) AS total, COUNT(*)
		FROM records
		GROUP BY file_name
		ORDER BY total DESC, file_name ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []domain.FileTotal
	for rows.Next() {
		var ft domain.FileTotal
		if err := rows.Scan(&ft.FileName, &ft.CharsAdded, &ft.Records); err != nil {
			return nil, err
		}
		totals = append(totals, ft)
	}

	return totals, rows.Err()
}

// HourTotals returns growth per weekday/hour slot in calendar order.
// Records with unparseable timestamps are left out.
func (idx *Index) HourTotals() ([]domain.HourTotal, error) {
	rows, err := idx.db.Query(`
		SELECT weekday, hour, SUM(chars_added)
		FROM records
		WHERE weekday IS NOT NULL
		GROUP BY weekday, hour
		ORDER BY weekday, hour
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []domain.HourTotal
	for rows.Next() {
		var ht domain.HourTotal
		if err := rows.Scan(&ht.Weekday, &ht.Hour, &ht.CharsAdded); err != nil {
			return nil, err
		}
		totals = append(totals, ht)
	}

	return totals, rows.Err()
}

// beginTx starts a new transaction
func (idx *Index) beginTx() (*indexTx, error) {
	tx, err := idx.db.Begin()
	if err != nil {
		return nil, err
	}
	return &indexTx{tx: tx}, nil
}
