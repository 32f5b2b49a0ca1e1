package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/see/internal/ids"
	"github.com/example/see/internal/ports/secondary"
)

// FaenaRepository implements secondary.FaenaRepository with SQLite.
type FaenaRepository struct {
	db        *sql.DB
	logWriter secondary.LogWriter
}

// NewFaenaRepository creates a new SQLite site repository.
func NewFaenaRepository(db *sql.DB, logWriter secondary.LogWriter) *FaenaRepository {
	return &FaenaRepository{db: db, logWriter: logWriter}
}

// Create persists a new site.
func (r *FaenaRepository) Create(ctx context.Context, f *secondary.FaenaRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO faenas (id, engagement_id, name, code) VALUES (?, ?, ?, ?)",
		f.ID, f.EngagementID, f.Name, nullString(f.Code))
	if err != nil {
		return fmt.Errorf("failed to create faena: %w", err)
	}
	if r.logWriter != nil {
		_ = r.logWriter.LogCreate(ctx, "faena", f.ID)
	}
	return nil
}

func scanFaena(row rowScanner) (*secondary.FaenaRecord, error) {
	var (
		code      sql.NullString
		createdAt time.Time
	)
	f := &secondary.FaenaRecord{}
	if err := row.Scan(&f.ID, &f.EngagementID, &f.Name, &code, &createdAt); err != nil {
		return nil, err
	}
	f.Code = code.String
	f.CreatedAt = formatTime(createdAt)
	return f, nil
}

// GetByID retrieves a site by its ID.
func (r *FaenaRepository) GetByID(ctx context.Context, id string) (*secondary.FaenaRecord, error) {
	f, err := scanFaena(r.db.QueryRowContext(ctx,
		"SELECT id, engagement_id, name, code, created_at FROM faenas WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("faena", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get faena: %w", err)
	}
	return f, nil
}

// List returns the sites of an engagement ordered by name.
func (r *FaenaRepository) List(ctx context.Context, engagementID string) ([]*secondary.FaenaRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, engagement_id, name, code, created_at FROM faenas WHERE engagement_id = ? ORDER BY name",
		engagementID)
	if err != nil {
		return nil, fmt.Errorf("failed to list faenas: %w", err)
	}
	defer rows.Close()

	var faenas []*secondary.FaenaRecord
	for rows.Next() {
		f, err := scanFaena(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan faena: %w", err)
		}
		faenas = append(faenas, f)
	}
	return faenas, rows.Err()
}

// GetNextID returns the next available site ID.
func (r *FaenaRepository) GetNextID(ctx context.Context) (string, error) {
	return nextSequentialID(ctx, r.db, "faenas", "FAENA")
}

// WeeklyReportRepository implements secondary.WeeklyReportRepository with SQLite.
type WeeklyReportRepository struct {
	db        *sql.DB
	logWriter secondary.LogWriter
}

// NewWeeklyReportRepository creates a new SQLite weekly report repository.
func NewWeeklyReportRepository(db *sql.DB, logWriter secondary.LogWriter) *WeeklyReportRepository {
	return &WeeklyReportRepository{db: db, logWriter: logWriter}
}

// CreateToken persists a new access token.
func (r *WeeklyReportRepository) CreateToken(ctx context.Context, t *secondary.WeeklyTokenRecord) error {
	if t.ID == "" {
		t.ID = ids.NewULID()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO weekly_report_tokens (id, token, engagement_id, faena_id, week_start, week_end, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Token, t.EngagementID, t.FaenaID, t.WeekStart, t.WeekEnd, nullTime(t.ExpiresAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create weekly report token: %w", err)
	}
	return nil
}

// GetToken returns the token row for a public token or ErrNotFound.
func (r *WeeklyReportRepository) GetToken(ctx context.Context, token string) (*secondary.WeeklyTokenRecord, error) {
	var (
		expiresAt      time.Time
		opened, usedAt sql.NullTime
		createdAt      time.Time
	)
	t := &secondary.WeeklyTokenRecord{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, token, engagement_id, faena_id, week_start, week_end, expires_at, last_opened_at, used_at, created_at
		FROM weekly_report_tokens WHERE token = ?`, token,
	).Scan(&t.ID, &t.Token, &t.EngagementID, &t.FaenaID, &t.WeekStart, &t.WeekEnd, &expiresAt, &opened, &usedAt, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("weekly report token %w", secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get weekly report token: %w", err)
	}
	t.ExpiresAt = formatTime(expiresAt)
	t.LastOpenedAt = formatNullTime(opened)
	t.UsedAt = formatNullTime(usedAt)
	t.CreatedAt = formatTime(createdAt)
	return t, nil
}

// TouchToken stamps last_opened_at, and used_at when used is true.
func (r *WeeklyReportRepository) TouchToken(ctx context.Context, tokenID, at string, used bool) error {
	query := "UPDATE weekly_report_tokens SET last_opened_at = ?"
	if used {
		query += ", used_at = ?"
	}
	query += " WHERE id = ?"

	args := []any{nullTime(at)}
	if used {
		args = append(args, nullTime(at))
	}
	args = append(args, tokenID)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update weekly report token: %w", err)
	}
	return checkAffected(result, "weekly report token", tokenID)
}

// DeleteToken removes a token.
func (r *WeeklyReportRepository) DeleteToken(ctx context.Context, tokenID string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM weekly_report_tokens WHERE id = ?", tokenID)
	if err != nil {
		return fmt.Errorf("failed to delete weekly report token: %w", err)
	}
	return checkAffected(result, "weekly report token", tokenID)
}

// CreateReport persists a new report.
func (r *WeeklyReportRepository) CreateReport(ctx context.Context, w *secondary.WeeklyReportRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO weekly_reports (id, engagement_id, faena_id, week_key, week_start, week_end, status,
			semaphore, payload_json, token_id, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		w.ID, w.EngagementID, w.FaenaID, w.WeekKey, w.WeekStart, w.WeekEnd, w.Status, w.Semaphore,
		nullString(w.PayloadJSON), nullString(w.TokenID), nullTime(w.SubmittedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create weekly report: %w", err)
	}
	if r.logWriter != nil {
		_ = r.logWriter.LogCreate(ctx, "weekly_report", w.ID)
	}
	return nil
}

const weeklyReportSelect = `SELECT w.id, w.engagement_id, w.faena_id, f.name, w.week_key, w.week_start, w.week_end,
	w.status, w.semaphore, w.payload_json, w.token_id, w.submitted_at, w.created_at, w.updated_at
	FROM weekly_reports w JOIN faenas f ON f.id = w.faena_id`

func scanWeeklyReport(row rowScanner) (*secondary.WeeklyReportRecord, error) {
	var (
		payload, tokenID     sql.NullString
		submittedAt          sql.NullTime
		createdAt, updatedAt time.Time
	)
	w := &secondary.WeeklyReportRecord{}
	if err := row.Scan(&w.ID, &w.EngagementID, &w.FaenaID, &w.FaenaName, &w.WeekKey, &w.WeekStart, &w.WeekEnd,
		&w.Status, &w.Semaphore, &payload, &tokenID, &submittedAt, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	w.PayloadJSON = payload.String
	w.TokenID = tokenID.String
	w.SubmittedAt = formatNullTime(submittedAt)
	w.CreatedAt = formatTime(createdAt)
	w.UpdatedAt = formatTime(updatedAt)
	return w, nil
}

// GetReportByID retrieves a report by its ID.
func (r *WeeklyReportRepository) GetReportByID(ctx context.Context, id string) (*secondary.WeeklyReportRecord, error) {
	w, err := scanWeeklyReport(r.db.QueryRowContext(ctx, weeklyReportSelect+" WHERE w.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("weekly report", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get weekly report: %w", err)
	}
	return w, nil
}

// GetReportByWeek returns the report for (faena, week key) or ErrNotFound.
func (r *WeeklyReportRepository) GetReportByWeek(ctx context.Context, faenaID, weekKey string) (*secondary.WeeklyReportRecord, error) {
	w, err := scanWeeklyReport(r.db.QueryRowContext(ctx,
		weeklyReportSelect+" WHERE w.faena_id = ? AND w.week_key = ?", faenaID, weekKey))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("weekly report", faenaID+"/"+weekKey)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get weekly report: %w", err)
	}
	return w, nil
}

// UpdateReport writes status, semaphore, payload, token and submitted_at.
func (r *WeeklyReportRepository) UpdateReport(ctx context.Context, w *secondary.WeeklyReportRecord) error {
	old, err := r.GetReportByID(ctx, w.ID)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE weekly_reports SET status = ?, semaphore = ?, payload_json = ?, token_id = ?, submitted_at = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		w.Status, w.Semaphore, nullString(w.PayloadJSON), nullString(w.TokenID), nullTime(w.SubmittedAt), w.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update weekly report: %w", err)
	}
	if r.logWriter != nil && old.Status != w.Status {
		_ = r.logWriter.LogUpdate(ctx, "weekly_report", w.ID, "status", old.Status, w.Status)
	}
	return nil
}

// ListReports returns reports newest week first.
func (r *WeeklyReportRepository) ListReports(ctx context.Context, filters secondary.WeeklyReportFilters) ([]*secondary.WeeklyReportRecord, error) {
	query := weeklyReportSelect + " WHERE 1=1"
	args := []any{}
	if filters.EngagementID != "" {
		query += " AND w.engagement_id = ?"
		args = append(args, filters.EngagementID)
	}
	if filters.FaenaID != "" {
		query += " AND w.faena_id = ?"
		args = append(args, filters.FaenaID)
	}
	if filters.Status != "" {
		query += " AND w.status = ?"
		args = append(args, filters.Status)
	}
	query += " ORDER BY w.week_start DESC, f.name"
	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list weekly reports: %w", err)
	}
	defer rows.Close()

	var reports []*secondary.WeeklyReportRecord
	for rows.Next() {
		w, err := scanWeeklyReport(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan weekly report: %w", err)
		}
		reports = append(reports, w)
	}
	return reports, rows.Err()
}

// GetNextReportID returns the next available report ID.
func (r *WeeklyReportRepository) GetNextReportID(ctx context.Context) (string, error) {
	return nextSequentialID(ctx, r.db, "weekly_reports", "WFR")
}

var (
	_ secondary.FaenaRepository        = (*FaenaRepository)(nil)
	_ secondary.WeeklyReportRepository = (*WeeklyReportRepository)(nil)
)
