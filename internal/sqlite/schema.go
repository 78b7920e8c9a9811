// Package sqlite implements the SQLite storage backend.
package sqlite

// Schema DDL for the record table.
const (
	createRecords = `CREATE TABLE IF NOT EXISTS records (
    record_key TEXT PRIMARY KEY,
    value BLOB NOT NULL,
    updated_at TEXT NOT NULL
);`

	idxRecordsUpdated = `CREATE INDEX IF NOT EXISTS idx_records_updated ON records(updated_at);`
)

// schemaDDL lists the statements executed on Attach, in order.
var schemaDDL = []string{
	createRecords,
	idxRecordsUpdated,
}

// Record statements.
const (
	selectRecord = `SELECT value FROM records WHERE record_key = ?`
	upsertRecord = `INSERT INTO records (record_key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(record_key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	deleteRecord = `DELETE FROM records WHERE record_key = ?`
	selectKeys   = `SELECT record_key FROM records ORDER BY record_key ASC`
)
