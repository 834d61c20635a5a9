package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/easonai/armorytune/pkg/config"

	_ "github.com/lib/pq"
)

var DebugLog func(string, ...interface{})

type DB struct {
	conn    *sql.DB
	enabled bool
}

// CategoryResult is the per-category outcome stored with an evaluation run.
type CategoryResult struct {
	Category string
	Total    int
	Passed   int
}

// EvalRun is one recorded evaluation of a model build.
type EvalRun struct {
	Model      string
	Total      int
	Passed     int
	Categories []CategoryResult
}

// EvalRunRecord is a stored run row joined with its category breakdown.
type EvalRunRecord struct {
	ID       int64
	Model    string
	Total    int
	Passed   int
	Category string
	CatTotal int
	CatPass  int
	RunAt    time.Time
}

const DBName = "armorytune_track"

func New(cfg *config.Database) (*DB, error) {
	db := &DB{
		enabled: cfg.Enabled,
	}

	if !cfg.Enabled {
		fmt.Println("[INF] Database connection disabled.")
		return db, nil
	}

	postgresConnStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=postgres sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password)

	postgresConn, err := sql.Open("postgres", postgresConnStr)
	if err != nil {
		fmt.Println("[INF] Database connection disabled.")
		return db, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer postgresConn.Close()

	if err := postgresConn.Ping(); err != nil {
		fmt.Println("[INF] Database connection disabled.")
		return db, fmt.Errorf("failed to ping postgres: %w", err)
	}

	var exists bool
	err = postgresConn.QueryRow("SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", DBName).Scan(&exists)
	if err != nil {
		fmt.Println("[INF] Database connection disabled.")
		return db, fmt.Errorf("failed to check database existence: %w", err)
	}

	if !exists {
		_, err = postgresConn.Exec(fmt.Sprintf("CREATE DATABASE %s", DBName))
		if err != nil {
			fmt.Println("[INF] Database connection disabled.")
			return db, fmt.Errorf("failed to create database: %w", err)
		}
		fmt.Printf("[INF] Database '%s' created successfully.\n", DBName)
	}

	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, DBName)

	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		fmt.Println("[INF] Database connection disabled.")
		return db, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		fmt.Println("[INF] Database connection disabled.")
		return db, fmt.Errorf("failed to ping database: %w", err)
	}

	db.conn = conn
	fmt.Println("[INF] Database connection active.")

	if err := db.initSchema(); err != nil {
		return db, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, nil
}

func (db *DB) initSchema() error {
	if !db.enabled || db.conn == nil {
		return nil
	}

	schema := `
	CREATE TABLE IF NOT EXISTS eval_runs (
		id SERIAL PRIMARY KEY,
		model VARCHAR(255) NOT NULL,
		total INT NOT NULL,
		passed INT NOT NULL,
		run_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS eval_categories (
		id SERIAL PRIMARY KEY,
		run_id INT NOT NULL REFERENCES eval_runs(id) ON DELETE CASCADE,
		category VARCHAR(64) NOT NULL,
		total INT NOT NULL,
		passed INT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_eval_runs_model ON eval_runs(model);
	CREATE INDEX IF NOT EXISTS idx_eval_categories_run ON eval_categories(run_id);
	`

	_, err := db.conn.Exec(schema)
	return err
}

func (db *DB) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}

func (db *DB) IsEnabled() bool {
	return db.enabled && db.conn != nil
}

// TrackEvalRun stores a completed evaluation run with its per-category
// breakdown in one transaction.
func (db *DB) TrackEvalRun(run EvalRun) error {
	if !db.IsEnabled() {
		return nil
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var runID int64
	err = tx.QueryRow(`
		INSERT INTO eval_runs (model, total, passed, run_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id
	`, run.Model, run.Total, run.Passed).Scan(&runID)
	if err != nil {
		return err
	}

	if DebugLog != nil {
		DebugLog("recorded eval run %d for model %s", runID, run.Model)
	}

	for _, cat := range run.Categories {
		_, err = tx.Exec(`
			INSERT INTO eval_categories (run_id, category, total, passed)
			VALUES ($1, $2, $3, $4)
		`, runID, cat.Category, cat.Total, cat.Passed)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// QueryRuns returns the stored category rows for one model, newest first.
func (db *DB) QueryRuns(model string) ([]EvalRunRecord, error) {
	if !db.IsEnabled() {
		return nil, fmt.Errorf("database is not enabled")
	}

	query := `
		SELECT r.id, r.model, r.total, r.passed, c.category, c.total, c.passed, r.run_at
		FROM eval_runs r
		JOIN eval_categories c ON c.run_id = r.id
		WHERE r.model = $1
		ORDER BY r.run_at DESC, c.id
	`

	return db.queryRecords(query, model)
}

// QueryAllRuns returns the stored category rows for every model.
func (db *DB) QueryAllRuns() ([]EvalRunRecord, error) {
	if !db.IsEnabled() {
		return nil, fmt.Errorf("database is not enabled")
	}

	query := `
		SELECT r.id, r.model, r.total, r.passed, c.category, c.total, c.passed, r.run_at
		FROM eval_runs r
		JOIN eval_categories c ON c.run_id = r.id
		ORDER BY r.run_at DESC, c.id
	`

	return db.queryRecords(query)
}

func (db *DB) queryRecords(query string, args ...interface{}) ([]EvalRunRecord, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []EvalRunRecord
	for rows.Next() {
		var r EvalRunRecord
		if err := rows.Scan(&r.ID, &r.Model, &r.Total, &r.Passed, &r.Category, &r.CatTotal, &r.CatPass, &r.RunAt); err != nil {
			return nil, err
		}
		records = append(records, r)
	}

	return records, rows.Err()
}
