package store

import (
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// #region schema
const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id      TEXT PRIMARY KEY,
	source      TEXT NOT NULL,
	mode        TEXT NOT NULL,
	dimensions  INTEGER NOT NULL,
	num_points  INTEGER NOT NULL,
	seed        TEXT NOT NULL,
	result_json TEXT NOT NULL,
	points      BLOB,
	created_at  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS run_metrics (
	run_id TEXT NOT NULL,
	name   TEXT NOT NULL,
	value  REAL NOT NULL,
	PRIMARY KEY (run_id, name),
	FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_runs_source ON runs(source, created_at);
`

// #endregion schema

// timeLayout is fixed-width so created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// #region store-struct

// Store keeps evaluation history in SQLite.
type Store struct {
	db *sql.DB
}

// #endregion store-struct

// #region constructor

// NewStore opens a SQLite database and runs migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// Pragmas are per connection.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma fk: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// #endregion constructor

// #region save-run

// SaveRun inserts rec and its per-metric rows in one transaction. An empty
// RunID gets a fresh UUID and a zero CreatedAt gets the current time; the
// stored record is returned.
func (s *Store) SaveRun(rec RunRecord) (RunRecord, error) {
	if rec.RunID == "" {
		rec.RunID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if rec.NumPoints == 0 {
		rec.NumPoints = len(rec.Points)
	}
	resultJSON, err := json.Marshal(rec.Result)
	if err != nil {
		return RunRecord{}, fmt.Errorf("marshal result: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return RunRecord{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs (run_id, source, mode, dimensions, num_points, seed, result_json, points, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID, rec.Source, rec.Mode, rec.Dimensions, rec.NumPoints,
		strconv.FormatUint(rec.Seed, 10), string(resultJSON), encodePoints(rec.Points),
		rec.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return RunRecord{}, fmt.Errorf("insert run: %w", err)
	}

	for _, m := range rec.Result.Metrics() {
		if _, err := tx.Exec(
			`INSERT INTO run_metrics (run_id, name, value) VALUES (?, ?, ?)`,
			rec.RunID, m.Name, m.Value,
		); err != nil {
			return RunRecord{}, fmt.Errorf("insert metric %s: %w", m.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return RunRecord{}, fmt.Errorf("commit run: %w", err)
	}
	return rec, nil
}

// #endregion save-run

// #region get-run

const selectRun = `SELECT run_id, source, mode, dimensions, num_points, seed, result_json, points, created_at FROM runs`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (RunRecord, error) {
	var rec RunRecord
	var seed, resultJSON, createdStr string
	var blob []byte
	if err := row.Scan(&rec.RunID, &rec.Source, &rec.Mode, &rec.Dimensions, &rec.NumPoints,
		&seed, &resultJSON, &blob, &createdStr); err != nil {
		return RunRecord{}, err
	}
	var err error
	if rec.Seed, err = strconv.ParseUint(seed, 10, 64); err != nil {
		return RunRecord{}, fmt.Errorf("parse seed: %w", err)
	}
	if err := json.Unmarshal([]byte(resultJSON), &rec.Result); err != nil {
		return RunRecord{}, fmt.Errorf("unmarshal result: %w", err)
	}
	rec.Points = decodePoints(blob, rec.Dimensions)
	rec.CreatedAt, _ = time.Parse(timeLayout, createdStr)
	return rec, nil
}

// GetRun returns the run with the given ID.
func (s *Store) GetRun(id string) (RunRecord, error) {
	rec, err := scanRun(s.db.QueryRow(selectRun+` WHERE run_id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return RunRecord{}, fmt.Errorf("get run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return RunRecord{}, fmt.Errorf("get run %s: %w", id, err)
	}
	return rec, nil
}

// #endregion get-run

// #region list-runs

// ListRuns returns the most recent runs, newest first. limit <= 0 returns all.
func (s *Store) ListRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.Query(selectRun+` ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// BestRun returns the run for source with the highest overall score.
// Ties go to the earliest run.
func (s *Store) BestRun(source string) (RunRecord, error) {
	rec, err := scanRun(s.db.QueryRow(
		`SELECT r.run_id, r.source, r.mode, r.dimensions, r.num_points, r.seed, r.result_json, r.points, r.created_at
		 FROM runs r JOIN run_metrics m ON m.run_id = r.run_id AND m.name = 'overall'
		 WHERE r.source = ?
		 ORDER BY m.value DESC, r.created_at ASC, r.rowid ASC LIMIT 1`, source,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return RunRecord{}, fmt.Errorf("best run for %s: %w", source, ErrRunNotFound)
	}
	if err != nil {
		return RunRecord{}, fmt.Errorf("best run for %s: %w", source, err)
	}
	return rec, nil
}

// MetricHistory returns a metric's values for source, oldest first.
func (s *Store) MetricHistory(source, metric string) ([]float64, error) {
	rows, err := s.db.Query(
		`SELECT m.value FROM run_metrics m JOIN runs r ON r.run_id = m.run_id
		 WHERE r.source = ? AND m.name = ?
		 ORDER BY r.created_at ASC, r.rowid ASC`, source, metric,
	)
	if err != nil {
		return nil, fmt.Errorf("metric history: %w", err)
	}
	defer rows.Close()

	var values []float64
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

// DeleteRun removes a run and its metric rows.
func (s *Store) DeleteRun(id string) error {
	res, err := s.db.Exec(`DELETE FROM runs WHERE run_id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("delete run %s: %w", id, ErrRunNotFound)
	}
	return nil
}

// #endregion list-runs

// #region point-encoding

func encodePoints(points [][]float64) []byte {
	var n int
	for _, p := range points {
		n += len(p)
	}
	buf := make([]byte, 0, n*8)
	for _, p := range points {
		for _, v := range p {
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
		}
	}
	return buf
}

func decodePoints(b []byte, dims int) [][]float64 {
	if dims <= 0 || len(b) == 0 {
		return nil
	}
	count := len(b) / (8 * dims)
	out := make([][]float64, count)
	for i := range out {
		row := make([]float64, dims)
		for j := range row {
			off := (i*dims + j) * 8
			row[j] = math.Float64frombits(binary.LittleEndian.Uint64(b[off:]))
		}
		out[i] = row
	}
	return out
}

// #endregion point-encoding
