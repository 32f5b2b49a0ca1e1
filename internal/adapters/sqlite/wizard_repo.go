package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/see/internal/ports/secondary"
)

// WizardProgressRepository implements secondary.WizardProgressRepository with SQLite.
type WizardProgressRepository struct {
	db *sql.DB
}

// NewWizardProgressRepository creates a new SQLite wizard progress repository.
func NewWizardProgressRepository(db *sql.DB) *WizardProgressRepository {
	return &WizardProgressRepository{db: db}
}

func scanProgress(row rowScanner) (*secondary.WizardProgressRecord, error) {
	var (
		notes     sql.NullString
		updatedAt time.Time
	)
	p := &secondary.WizardProgressRecord{}
	if err := row.Scan(&p.EngagementID, &p.StepKey, &p.Status, &notes, &updatedAt); err != nil {
		return nil, err
	}
	p.Notes = notes.String
	p.UpdatedAt = formatTime(updatedAt)
	return p, nil
}

// List returns every progress row of an engagement.
func (r *WizardProgressRepository) List(ctx context.Context, engagementID string) ([]*secondary.WizardProgressRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT engagement_id, step_key, status, notes, updated_at
		FROM wizard_progress WHERE engagement_id = ? ORDER BY step_key`, engagementID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wizard progress: %w", err)
	}
	defer rows.Close()

	var records []*secondary.WizardProgressRecord
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wizard progress: %w", err)
		}
		records = append(records, p)
	}
	return records, rows.Err()
}

// Get returns one row or ErrNotFound.
func (r *WizardProgressRepository) Get(ctx context.Context, engagementID, stepKey string) (*secondary.WizardProgressRecord, error) {
	p, err := scanProgress(r.db.QueryRowContext(ctx,
		`SELECT engagement_id, step_key, status, notes, updated_at
		FROM wizard_progress WHERE engagement_id = ? AND step_key = ?`, engagementID, stepKey))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("wizard step", stepKey)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wizard progress: %w", err)
	}
	return p, nil
}

// Upsert inserts or replaces the row for (engagement, step key).
func (r *WizardProgressRepository) Upsert(ctx context.Context, p *secondary.WizardProgressRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO wizard_progress (engagement_id, step_key, status, notes, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(engagement_id, step_key) DO UPDATE SET
			status = excluded.status,
			notes = excluded.notes,
			updated_at = CURRENT_TIMESTAMP`,
		p.EngagementID, p.StepKey, p.Status, nullString(p.Notes),
	)
	if err != nil {
		return fmt.Errorf("failed to save wizard progress: %w", err)
	}
	return nil
}

var _ secondary.WizardProgressRepository = (*WizardProgressRepository)(nil)
