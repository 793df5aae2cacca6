package sqlite

import (
	"database/sql"
	"strconv"

	"prodtrack/internal/domain"
)

// indexTx groups the writes of one sync
type indexTx struct {
	tx *sql.Tx
}

// Reset removes every indexed record
func (t *indexTx) Reset() error {
	_, err := t.tx.Exec(`DELETE FROM records`)
	return err
}

// InsertRecord adds one record at position seq. Slot columns stay NULL when
// the timestamp cannot be parsed.
func (t *indexTx) InsertRecord(seq int, r domain.LogRecord) (bool, error) {
	var weekday, hour sql.NullInt64
	if ts, err := r.Time(); err == nil {
		ts = ts.UTC()
		weekday = sql.NullInt64{Int64: int64(domain.ISOWeekday(ts)), Valid: true}
		hour = sql.NullInt64{Int64: int64(ts.Hour()), Valid: true}
	}

	_, err := t.tx.Exec(`
		INSERT INTO records (seq, timestamp, weekday, hour, chars_added, file_name)
		VALUES (?, ?, ?, ?, ?, ?)
	`, seq, r.Timestamp, weekday, hour, r.CharsAdded, r.FileName)
	return weekday.Valid, err
}

// UpdateMeta records which log version the index was built from
func (t *indexTx) UpdateMeta(logHash string, stamp domain.LogStamp) error {
	meta := [][2]string{
		{"schema_version", schemaVersion},
		{"log_path_hash", logHash},
		{"log_size", strconv.FormatInt(stamp.Size, 10)},
		{"log_mtime", strconv.FormatInt(stamp.Mtime, 10)},
	}
	for _, kv := range meta {
		if _, err := t.tx.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?)`, kv[0], kv[1]); err != nil {
			return err
		}
	}
	return nil
}

// Commit commits the transaction
func (t *indexTx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction
func (t *indexTx) Rollback() error {
	return t.tx.Rollback()
}
