package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jgoulah/heatsplit/pkg/models"
	_ "modernc.org/sqlite"
)

// DB wraps the database connection
type DB struct {
	conn *sql.DB
}

// New creates a new database connection and initializes the schema
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// initSchema creates the necessary tables
func (db *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS daily_records (
		date TEXT PRIMARY KEY,
		kwh REAL NOT NULL,
		mean_temp REAL NOT NULL,
		min_temp REAL NOT NULL,
		max_temp REAL NOT NULL,
		cost REAL NOT NULL,
		updated_at TEXT NOT NULL
	);
	`

	_, err := db.conn.Exec(schema)
	return err
}

// UpsertRecord inserts a daily record, replacing any existing record for the
// same date (last write wins)
func (db *DB) UpsertRecord(rec *models.DailyRecord) error {
	query := `
	INSERT INTO daily_records (date, kwh, mean_temp, min_temp, max_temp, cost, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(date) DO UPDATE SET
		kwh = excluded.kwh,
		mean_temp = excluded.mean_temp,
		min_temp = excluded.min_temp,
		max_temp = excluded.max_temp,
		cost = excluded.cost,
		updated_at = excluded.updated_at
	`

	updatedAt := time.Now().UTC().Format(time.RFC3339)

	_, err := db.conn.Exec(query, rec.DateKey(), rec.KWh, rec.MeanTemp, rec.MinTemp, rec.MaxTemp, rec.Cost, updatedAt)
	if err != nil {
		return fmt.Errorf("upserting daily record: %w", err)
	}

	return nil
}

// GetRecord retrieves the record for a specific date, or nil if none exists
func (db *DB) GetRecord(date time.Time) (*models.DailyRecord, error) {
	query := `
	SELECT date, kwh, mean_temp, min_temp, max_temp, cost
	FROM daily_records
	WHERE date = ?
	`

	row := db.conn.QueryRow(query, date.Format("2006-01-02"))

	rec, err := scanRecord(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying daily record: %w", err)
	}

	return rec, nil
}

// ListRange retrieves all records with dates inside the inclusive [start, end]
// window, ordered by date ascending
func (db *DB) ListRange(start, end time.Time) ([]models.DailyRecord, error) {
	query := `
	SELECT date, kwh, mean_temp, min_temp, max_temp, cost
	FROM daily_records
	WHERE date >= ? AND date <= ?
	ORDER BY date ASC
	`

	rows, err := db.conn.Query(query, start.Format("2006-01-02"), end.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("querying daily records: %w", err)
	}
	defer rows.Close()

	var results []models.DailyRecord
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		results = append(results, *rec)
	}

	return results, rows.Err()
}

// ListAll retrieves every stored record, ordered by date ascending
func (db *DB) ListAll() ([]models.DailyRecord, error) {
	query := `
	SELECT date, kwh, mean_temp, min_temp, max_temp, cost
	FROM daily_records
	ORDER BY date ASC
	`

	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("querying daily records: %w", err)
	}
	defer rows.Close()

	var results []models.DailyRecord
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		results = append(results, *rec)
	}

	return results, rows.Err()
}

// Count returns the number of stored records
func (db *DB) Count() (int, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM daily_records`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting daily records: %w", err)
	}
	return n, nil
}

func scanRecord(scan func(dest ...any) error) (*models.DailyRecord, error) {
	var rec models.DailyRecord
	var dateStr string

	if err := scan(&dateStr, &rec.KWh, &rec.MeanTemp, &rec.MinTemp, &rec.MaxTemp, &rec.Cost); err != nil {
		return nil, err
	}

	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return nil, fmt.Errorf("parsing date: %w", err)
	}
	rec.Date = date

	return &rec, nil
}
