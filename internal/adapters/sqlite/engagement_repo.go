package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/see/internal/ports/secondary"
)

// EngagementRepository implements secondary.EngagementRepository with SQLite.
type EngagementRepository struct {
	db        *sql.DB
	logWriter secondary.LogWriter
}

// NewEngagementRepository creates a new SQLite engagement repository.
// logWriter is optional - if nil, no audit logging is performed.
func NewEngagementRepository(db *sql.DB, logWriter secondary.LogWriter) *EngagementRepository {
	return &EngagementRepository{db: db, logWriter: logWriter}
}

const engagementColumns = `id, company_name, name, client_contact, industry, status, locale,
	business_context, goals, constraints_text, success_definition, start_date, end_date,
	created_at, updated_at, closed_at`

// Create persists a new engagement.
func (r *EngagementRepository) Create(ctx context.Context, e *secondary.EngagementRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO engagements (id, company_name, name, client_contact, industry, status, locale,
			business_context, goals, constraints_text, success_definition, start_date, end_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.CompanyName, nullString(e.Name), nullString(e.ClientContact), nullString(e.Industry),
		e.Status, e.Locale, nullString(e.BusinessContext), nullString(e.Goals), nullString(e.Constraints),
		nullString(e.SuccessDefinition), nullString(e.StartDate), nullString(e.EndDate),
	)
	if err != nil {
		return fmt.Errorf("failed to create engagement: %w", err)
	}

	if r.logWriter != nil {
		_ = r.logWriter.LogCreate(ctx, "engagement", e.ID)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEngagement(row rowScanner) (*secondary.EngagementRecord, error) {
	var (
		name, contact, industry, bizContext, goals, constraints, success, start, end sql.NullString
		createdAt, updatedAt                                                         time.Time
		closedAt                                                                     sql.NullTime
	)
	e := &secondary.EngagementRecord{}
	err := row.Scan(&e.ID, &e.CompanyName, &name, &contact, &industry, &e.Status, &e.Locale,
		&bizContext, &goals, &constraints, &success, &start, &end, &createdAt, &updatedAt, &closedAt)
	if err != nil {
		return nil, err
	}
	e.Name = name.String
	e.ClientContact = contact.String
	e.Industry = industry.String
	e.BusinessContext = bizContext.String
	e.Goals = goals.String
	e.Constraints = constraints.String
	e.SuccessDefinition = success.String
	e.StartDate = start.String
	e.EndDate = end.String
	e.CreatedAt = formatTime(createdAt)
	e.UpdatedAt = formatTime(updatedAt)
	e.ClosedAt = formatNullTime(closedAt)
	return e, nil
}

// GetByID retrieves an engagement by its ID.
func (r *EngagementRepository) GetByID(ctx context.Context, id string) (*secondary.EngagementRecord, error) {
	e, err := scanEngagement(r.db.QueryRowContext(ctx,
		"SELECT "+engagementColumns+" FROM engagements WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("engagement", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get engagement: %w", err)
	}
	return e, nil
}

// Update updates an existing engagement's descriptive fields.
func (r *EngagementRepository) Update(ctx context.Context, e *secondary.EngagementRecord) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE engagements SET company_name = ?, name = ?, client_contact = ?, industry = ?, locale = ?,
			business_context = ?, goals = ?, constraints_text = ?, success_definition = ?,
			start_date = ?, end_date = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		e.CompanyName, nullString(e.Name), nullString(e.ClientContact), nullString(e.Industry), e.Locale,
		nullString(e.BusinessContext), nullString(e.Goals), nullString(e.Constraints),
		nullString(e.SuccessDefinition), nullString(e.StartDate), nullString(e.EndDate), e.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update engagement: %w", err)
	}
	return checkAffected(result, "engagement", e.ID)
}

// UpdateStatus changes the lifecycle status, stamping closed_at when closing.
func (r *EngagementRepository) UpdateStatus(ctx context.Context, id, status string) error {
	var oldStatus string
	err := r.db.QueryRowContext(ctx, "SELECT status FROM engagements WHERE id = ?", id).Scan(&oldStatus)
	if errors.Is(err, sql.ErrNoRows) {
		return notFound("engagement", id)
	}
	if err != nil {
		return fmt.Errorf("failed to read engagement status: %w", err)
	}

	query := "UPDATE engagements SET status = ?, updated_at = CURRENT_TIMESTAMP"
	if status == "CLOSED" {
		query += ", closed_at = CURRENT_TIMESTAMP"
	} else {
		query += ", closed_at = NULL"
	}
	query += " WHERE id = ?"

	if _, err := r.db.ExecContext(ctx, query, status, id); err != nil {
		return fmt.Errorf("failed to update engagement status: %w", err)
	}

	if r.logWriter != nil && oldStatus != status {
		_ = r.logWriter.LogUpdate(ctx, "engagement", id, "status", oldStatus, status)
	}
	return nil
}

// Delete removes an engagement and everything it owns.
func (r *EngagementRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM engagements WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete engagement: %w", err)
	}
	if err := checkAffected(result, "engagement", id); err != nil {
		return err
	}

	if r.logWriter != nil {
		_ = r.logWriter.LogDelete(ctx, "engagement", id)
	}
	return nil
}

// List retrieves engagements matching the given filters, newest first.
func (r *EngagementRepository) List(ctx context.Context, filters secondary.EngagementFilters) ([]*secondary.EngagementRecord, error) {
	query := "SELECT " + engagementColumns + " FROM engagements WHERE 1=1"
	args := []any{}

	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}

	query += " ORDER BY created_at DESC, id DESC"
	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list engagements: %w", err)
	}
	defer rows.Close()

	var engagements []*secondary.EngagementRecord
	for rows.Next() {
		e, err := scanEngagement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan engagement: %w", err)
		}
		engagements = append(engagements, e)
	}
	return engagements, rows.Err()
}

// CountByStatus returns how many engagements have the given status.
func (r *EngagementRepository) CountByStatus(ctx context.Context, status string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM engagements WHERE status = ?", status).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count engagements: %w", err)
	}
	return n, nil
}

// GetNextID returns the next available engagement ID.
func (r *EngagementRepository) GetNextID(ctx context.Context) (string, error) {
	return nextSequentialID(ctx, r.db, "engagements", "ENG")
}

// Ensure EngagementRepository implements the interface
var _ secondary.EngagementRepository = (*EngagementRepository)(nil)
