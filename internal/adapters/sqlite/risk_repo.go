package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/see/internal/ports/secondary"
)

// RiskRepository implements secondary.RiskRepository with SQLite.
type RiskRepository struct {
	db        *sql.DB
	logWriter secondary.LogWriter
}

// NewRiskRepository creates a new SQLite risk repository.
func NewRiskRepository(db *sql.DB, logWriter secondary.LogWriter) *RiskRepository {
	return &RiskRepository{db: db, logWriter: logWriter}
}

const riskColumns = `id, engagement_id, description, owner, mitigation, probability, impact, status,
	review_date, notes, created_at, updated_at`

func scanRisk(row rowScanner) (*secondary.RiskRecord, error) {
	var (
		owner, mitigation, review, notes sql.NullString
		createdAt, updatedAt             time.Time
	)
	k := &secondary.RiskRecord{}
	err := row.Scan(&k.ID, &k.EngagementID, &k.Description, &owner, &mitigation, &k.Probability,
		&k.Impact, &k.Status, &review, &notes, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	k.Owner = owner.String
	k.Mitigation = mitigation.String
	k.ReviewDate = review.String
	k.Notes = notes.String
	k.CreatedAt = formatTime(createdAt)
	k.UpdatedAt = formatTime(updatedAt)
	return k, nil
}

// Create persists a new risk.
func (r *RiskRepository) Create(ctx context.Context, k *secondary.RiskRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO risks (id, engagement_id, description, owner, mitigation, probability, impact,
			status, review_date, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		k.ID, k.EngagementID, k.Description, nullString(k.Owner), nullString(k.Mitigation),
		k.Probability, k.Impact, k.Status, nullString(k.ReviewDate), nullString(k.Notes),
	)
	if err != nil {
		return fmt.Errorf("failed to create risk: %w", err)
	}
	if r.logWriter != nil {
		_ = r.logWriter.LogCreate(ctx, "risk", k.ID)
	}
	return nil
}

// GetByID retrieves a risk by its ID.
func (r *RiskRepository) GetByID(ctx context.Context, id string) (*secondary.RiskRecord, error) {
	k, err := scanRisk(r.db.QueryRowContext(ctx, "SELECT "+riskColumns+" FROM risks WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("risk", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get risk: %w", err)
	}
	return k, nil
}

// Update replaces a risk.
func (r *RiskRepository) Update(ctx context.Context, k *secondary.RiskRecord) error {
	old, err := r.GetByID(ctx, k.ID)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE risks SET description = ?, owner = ?, mitigation = ?, probability = ?, impact = ?,
			status = ?, review_date = ?, notes = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		k.Description, nullString(k.Owner), nullString(k.Mitigation), k.Probability, k.Impact,
		k.Status, nullString(k.ReviewDate), nullString(k.Notes), k.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update risk: %w", err)
	}
	if r.logWriter != nil && old.Status != k.Status {
		_ = r.logWriter.LogUpdate(ctx, "risk", k.ID, "status", old.Status, k.Status)
	}
	return nil
}

// Delete removes a risk.
func (r *RiskRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM risks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete risk: %w", err)
	}
	if err := checkAffected(result, "risk", id); err != nil {
		return err
	}
	if r.logWriter != nil {
		_ = r.logWriter.LogDelete(ctx, "risk", id)
	}
	return nil
}

// List returns risks ordered by probability × impact, highest first.
func (r *RiskRepository) List(ctx context.Context, engagementID string) ([]*secondary.RiskRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+riskColumns+` FROM risks WHERE engagement_id = ?
		ORDER BY probability * impact DESC, id`, engagementID)
	if err != nil {
		return nil, fmt.Errorf("failed to list risks: %w", err)
	}
	defer rows.Close()

	var risks []*secondary.RiskRecord
	for rows.Next() {
		k, err := scanRisk(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan risk: %w", err)
		}
		risks = append(risks, k)
	}
	return risks, rows.Err()
}

// GetNextID returns the next available risk ID.
func (r *RiskRepository) GetNextID(ctx context.Context) (string, error) {
	return nextSequentialID(ctx, r.db, "risks", "RISK")
}

var _ secondary.RiskRepository = (*RiskRepository)(nil)
