package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/jiyunpark/mulog/internal/models"
)

const schema = `
-- Intake events, one row per logged drink
CREATE TABLE IF NOT EXISTS water_logs (
    id TEXT PRIMARY KEY,
    intensity TEXT NOT NULL CHECK (intensity IN ('high','medium','low')),
    recorded_at TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

-- Daily condition memos, at most one per calendar day
CREATE TABLE IF NOT EXISTS condition_memos (
    memo_date TEXT PRIMARY KEY,
    condition_type TEXT,
    note TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);

-- Generated reports, insert-only
CREATE TABLE IF NOT EXISTS ai_reports (
    id TEXT PRIMARY KEY,
    period_start TEXT NOT NULL,
    period_end TEXT NOT NULL,
    content TEXT NOT NULL,
    report_type TEXT NOT NULL CHECK (report_type IN ('weekly','on_demand')),
    created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_water_logs_recorded ON water_logs(recorded_at);
CREATE INDEX IF NOT EXISTS idx_reports_created ON ai_reports(created_at DESC);
`

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return db, nil
}

func (db *DB) migrate() error {
	_, err := db.conn.Exec(schema)
	if err != nil {
		return fmt.Errorf("executing migration: %w", err)
	}
	return nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping checks database liveness for the health endpoint.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// InsertIntake stores a new intake event and returns it with the
// store-assigned id and timestamps.
func (db *DB) InsertIntake(ctx context.Context, intensity models.Intensity, recordedAt time.Time) (*models.IntakeEvent, error) {
	now := time.Now().UTC()
	ev := &models.IntakeEvent{
		ID:         uuid.NewString(),
		Intensity:  intensity,
		RecordedAt: recordedAt,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO water_logs (id, intensity, recorded_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, ev.ID, string(ev.Intensity), ev.RecordedAt.UTC().Format(time.RFC3339), now.Format(time.RFC3339), now.Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	return ev, nil
}

// ListIntake returns intake events with start <= recorded_at < end,
// ordered by recorded_at ascending.
func (db *DB) ListIntake(ctx context.Context, start, end time.Time) ([]models.IntakeEvent, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, intensity, recorded_at, created_at, updated_at
		FROM water_logs
		WHERE recorded_at >= ? AND recorded_at < ?
		ORDER BY recorded_at ASC
	`, start.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.IntakeEvent
	for rows.Next() {
		ev, err := scanIntake(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *ev)
	}
	return events, rows.Err()
}

// UpdateIntakeIntensity changes the intensity of an existing event.
// Returns false when no row has the given id.
func (db *DB) UpdateIntakeIntensity(ctx context.Context, id string, intensity models.Intensity) (bool, error) {
	result, err := db.conn.ExecContext(ctx, `
		UPDATE water_logs SET intensity = ?, updated_at = ? WHERE id = ?
	`, string(intensity), time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	return affected > 0, err
}

// DeleteIntake removes an event by id. Returns false when no row matched.
func (db *DB) DeleteIntake(ctx context.Context, id string) (bool, error) {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM water_logs WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	return affected > 0, err
}

// UpsertMemo creates or replaces the memo for a date. The date is the
// natural key, so a second save for the same day wins over the first.
func (db *DB) UpsertMemo(ctx context.Context, memoDate string, conditionType models.ConditionType, note string) (*models.ConditionMemo, error) {
	now := time.Now().UTC()
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO condition_memos (memo_date, condition_type, note, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(memo_date) DO UPDATE SET
			condition_type = excluded.condition_type,
			note = excluded.note,
			updated_at = excluded.updated_at
	`, memoDate, nullable(string(conditionType)), nullable(note), now.Format(time.RFC3339), now.Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	return db.GetMemo(ctx, memoDate)
}

// GetMemo returns the memo for a date, or nil when none exists.
func (db *DB) GetMemo(ctx context.Context, memoDate string) (*models.ConditionMemo, error) {
	row := db.conn.QueryRowContext(ctx, `
		SELECT memo_date, condition_type, note, created_at, updated_at
		FROM condition_memos WHERE memo_date = ?
	`, memoDate)
	memo, err := scanMemo(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return memo, nil
}

// ListMemos returns memos with from <= memo_date <= to, oldest first.
func (db *DB) ListMemos(ctx context.Context, from, to string) ([]models.ConditionMemo, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT memo_date, condition_type, note, created_at, updated_at
		FROM condition_memos
		WHERE memo_date >= ? AND memo_date <= ?
		ORDER BY memo_date ASC
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var memos []models.ConditionMemo
	for rows.Next() {
		memo, err := scanMemo(rows)
		if err != nil {
			return nil, err
		}
		memos = append(memos, *memo)
	}
	return memos, rows.Err()
}

// InsertReport persists a generated report, assigning id and created_at.
func (db *DB) InsertReport(ctx context.Context, draft models.ReportDraft) (*models.Report, error) {
	now := time.Now().UTC()
	report := &models.Report{
		ID:          uuid.NewString(),
		PeriodStart: draft.PeriodStart,
		PeriodEnd:   draft.PeriodEnd,
		Content:     draft.Content,
		ReportType:  draft.ReportType,
		CreatedAt:   now,
	}
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO ai_reports (id, period_start, period_end, content, report_type, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, report.ID, report.PeriodStart, report.PeriodEnd, report.Content, string(report.ReportType), now.Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	return report, nil
}

// ListReports returns up to limit reports, newest first.
func (db *DB) ListReports(ctx context.Context, limit int) ([]models.Report, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, period_start, period_end, content, report_type, created_at
		FROM ai_reports
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []models.Report
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *r)
	}
	return reports, rows.Err()
}

// GetReport returns a report by id, or nil when none exists.
func (db *DB) GetReport(ctx context.Context, id string) (*models.Report, error) {
	row := db.conn.QueryRowContext(ctx, `
		SELECT id, period_start, period_end, content, report_type, created_at
		FROM ai_reports WHERE id = ?
	`, id)
	r, err := scanReport(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanIntake(row rowScanner) (*models.IntakeEvent, error) {
	var ev models.IntakeEvent
	var intensity, recordedStr, createdStr, updatedStr string
	if err := row.Scan(&ev.ID, &intensity, &recordedStr, &createdStr, &updatedStr); err != nil {
		return nil, err
	}
	ev.Intensity = models.Intensity(intensity)
	ev.RecordedAt, _ = time.Parse(time.RFC3339, recordedStr)
	ev.CreatedAt, _ = time.Parse(time.RFC3339, createdStr)
	ev.UpdatedAt, _ = time.Parse(time.RFC3339, updatedStr)
	return &ev, nil
}

func scanMemo(row rowScanner) (*models.ConditionMemo, error) {
	var memo models.ConditionMemo
	var conditionType, note sql.NullString
	var createdStr, updatedStr string
	if err := row.Scan(&memo.MemoDate, &conditionType, &note, &createdStr, &updatedStr); err != nil {
		return nil, err
	}
	memo.ConditionType = models.ConditionType(conditionType.String)
	memo.Note = note.String
	memo.CreatedAt, _ = time.Parse(time.RFC3339, createdStr)
	memo.UpdatedAt, _ = time.Parse(time.RFC3339, updatedStr)
	return &memo, nil
}

func scanReport(row rowScanner) (*models.Report, error) {
	var r models.Report
	var reportType, createdStr string
	if err := row.Scan(&r.ID, &r.PeriodStart, &r.PeriodEnd, &r.Content, &reportType, &createdStr); err != nil {
		return nil, err
	}
	r.ReportType = models.ReportType(reportType)
	r.CreatedAt, _ = time.Parse(time.RFC3339, createdStr)
	return &r, nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
