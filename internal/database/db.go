package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jgoulah/simbev/pkg/models"
	_ "modernc.org/sqlite"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02 15:04:05"
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
	// one connection so concurrent region writers queue instead of failing with SQLITE_BUSY
	conn.SetMaxOpenConns(1)

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
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		step_size INTEGER NOT NULL,
		seed INTEGER NOT NULL,
		soc_min REAL,
		eta_cp REAL,
		home_private REAL,
		work_private REAL
	);
	CREATE TABLE IF NOT EXISTS series_buckets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		region TEXT NOT NULL,
		bucket_start TEXT NOT NULL,
		work REAL NOT NULL,
		business REAL NOT NULL,
		school REAL NOT NULL,
		shopping REAL NOT NULL,
		private REAL NOT NULL,
		leisure REAL NOT NULL,
		home REAL NOT NULL,
		published INTEGER DEFAULT 0,
		UNIQUE(run_id, region, bucket_start)
	);
	CREATE INDEX IF NOT EXISTS idx_buckets_run_region ON series_buckets(run_id, region);
	CREATE INDEX IF NOT EXISTS idx_buckets_published ON series_buckets(published);
	CREATE TABLE IF NOT EXISTS trips (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		region TEXT NOT NULL,
		week_id TEXT NOT NULL,
		day INTEGER NOT NULL,
		departure_time REAL NOT NULL,
		time_step INTEGER NOT NULL,
		attributes TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_trips_run_region ON trips(run_id, region);
	`

	_, err := db.conn.Exec(schema)
	return err
}

// CreateRun inserts a run record
func (db *DB) CreateRun(run *models.Run) error {
	query := `
	INSERT INTO runs (id, created_at, start_date, end_date, step_size, seed, soc_min, eta_cp, home_private, work_private)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	_, err := db.conn.Exec(query, run.ID, run.CreatedAt.Format(time.RFC3339),
		run.StartDate.Format(dateLayout), run.EndDate.Format(dateLayout),
		run.StepSize, run.Seed, run.SocMin, run.EtaCP, run.HomePrivate, run.WorkPrivate)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	return nil
}

const runColumns = `id, created_at, start_date, end_date, step_size, seed, soc_min, eta_cp, home_private, work_private`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*models.Run, error) {
	var run models.Run
	var createdAt, startDate, endDate string
	err := row.Scan(&run.ID, &createdAt, &startDate, &endDate, &run.StepSize, &run.Seed,
		&run.SocMin, &run.EtaCP, &run.HomePrivate, &run.WorkPrivate)
	if err != nil {
		return nil, err
	}

	if run.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if run.StartDate, err = time.Parse(dateLayout, startDate); err != nil {
		return nil, fmt.Errorf("parsing start_date: %w", err)
	}
	if run.EndDate, err = time.Parse(dateLayout, endDate); err != nil {
		return nil, fmt.Errorf("parsing end_date: %w", err)
	}
	return &run, nil
}

// GetRun retrieves a run by id, or nil if it does not exist
func (db *DB) GetRun(id string) (*models.Run, error) {
	row := db.conn.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying run: %w", err)
	}
	return run, nil
}

// ListRuns retrieves all runs, newest first
func (db *DB) ListRuns() ([]models.Run, error) {
	rows, err := db.conn.Query(`SELECT ` + runColumns + ` FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var results []models.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		results = append(results, *run)
	}
	return results, rows.Err()
}

// InsertBuckets stores a region's buckets in one transaction, ignoring
// buckets that already exist
func (db *DB) InsertBuckets(buckets []models.Bucket) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
	INSERT OR IGNORE INTO series_buckets (run_id, region, bucket_start, work, business, school, shopping, private, leisure, home)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, b := range buckets {
		v := b.Values
		_, err := stmt.Exec(b.RunID, b.Region, b.Start.Format(timestampLayout), v[0], v[1], v[2], v[3], v[4], v[5], v[6])
		if err != nil {
			return fmt.Errorf("inserting bucket: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing buckets: %w", err)
	}
	return nil
}

const bucketColumns = `id, run_id, region, bucket_start, work, business, school, shopping, private, leisure, home`

func (db *DB) queryBuckets(where string, args ...any) ([]models.Bucket, error) {
	rows, err := db.conn.Query(`SELECT `+bucketColumns+` FROM series_buckets WHERE `+where+` ORDER BY region, bucket_start`, args...)
	if err != nil {
		return nil, fmt.Errorf("querying buckets: %w", err)
	}
	defer rows.Close()

	var results []models.Bucket
	for rows.Next() {
		var b models.Bucket
		var start string
		v := &b.Values
		if err := rows.Scan(&b.ID, &b.RunID, &b.Region, &start, &v[0], &v[1], &v[2], &v[3], &v[4], &v[5], &v[6]); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		b.Start, err = time.Parse(timestampLayout, start)
		if err != nil {
			return nil, fmt.Errorf("parsing bucket_start: %w", err)
		}
		results = append(results, b)
	}
	return results, rows.Err()
}

// ListBuckets retrieves a run's buckets, optionally for one region only
func (db *DB) ListBuckets(runID, region string) ([]models.Bucket, error) {
	if region == "" {
		return db.queryBuckets(`run_id = ?`, runID)
	}
	return db.queryBuckets(`run_id = ? AND region = ?`, runID, region)
}

// ListUnpublishedBuckets retrieves buckets not yet marked published
func (db *DB) ListUnpublishedBuckets(runID, region string) ([]models.Bucket, error) {
	if region == "" {
		return db.queryBuckets(`run_id = ? AND published = 0`, runID)
	}
	return db.queryBuckets(`run_id = ? AND region = ? AND published = 0`, runID, region)
}

// MarkPublished marks a bucket as published
func (db *DB) MarkPublished(id int) error {
	_, err := db.conn.Exec(`UPDATE series_buckets SET published = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("marking bucket as published: %w", err)
	}
	return nil
}

// Regions returns the regions stored for a run
func (db *DB) Regions(runID string) ([]string, error) {
	rows, err := db.conn.Query(`SELECT DISTINCT region FROM series_buckets WHERE run_id = ? ORDER BY region`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying regions: %w", err)
	}
	defer rows.Close()

	var regions []string
	for rows.Next() {
		var r string
		if err := rows.Scan(&r); err != nil {
			return nil, fmt.Errorf("scanning region: %w", err)
		}
		regions = append(regions, r)
	}
	return regions, rows.Err()
}

// InsertTrips stores synthetic trips in one transaction
func (db *DB) InsertTrips(trips []models.Trip) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
	INSERT INTO trips (run_id, region, week_id, day, departure_time, time_step, attributes)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range trips {
		attrs := strings.Join(t.Attributes, "\t")
		if _, err := stmt.Exec(t.RunID, t.Region, t.WeekID, t.Day, t.DepartureTime, t.TimeStep, attrs); err != nil {
			return fmt.Errorf("inserting trip: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing trips: %w", err)
	}
	return nil
}

// ListTrips retrieves a region's trips ordered by time step
func (db *DB) ListTrips(runID, region string) ([]models.Trip, error) {
	rows, err := db.conn.Query(`
	SELECT id, run_id, region, week_id, day, departure_time, time_step, attributes
	FROM trips
	WHERE run_id = ? AND region = ?
	ORDER BY time_step, id
	`, runID, region)
	if err != nil {
		return nil, fmt.Errorf("querying trips: %w", err)
	}
	defer rows.Close()

	var results []models.Trip
	for rows.Next() {
		var t models.Trip
		var attrs sql.NullString
		if err := rows.Scan(&t.ID, &t.RunID, &t.Region, &t.WeekID, &t.Day, &t.DepartureTime, &t.TimeStep, &attrs); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if attrs.Valid && attrs.String != "" {
			t.Attributes = strings.Split(attrs.String, "\t")
		}
		results = append(results, t)
	}
	return results, rows.Err()
}

// CountTrips returns the number of trips stored for a run and region
func (db *DB) CountTrips(runID, region string) (int, error) {
	var n int
	err := db.conn.QueryRow(`SELECT COUNT(*) FROM trips WHERE run_id = ? AND region = ?`, runID, region).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting trips: %w", err)
	}
	return n, nil
}
