package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/see/internal/ports/secondary"
)

// ActionItemRepository implements secondary.ActionItemRepository with SQLite.
type ActionItemRepository struct {
	db        *sql.DB
	logWriter secondary.LogWriter
}

// NewActionItemRepository creates a new SQLite action item repository.
func NewActionItemRepository(db *sql.DB, logWriter secondary.LogWriter) *ActionItemRepository {
	return &ActionItemRepository{db: db, logWriter: logWriter}
}

const actionColumns = "id, engagement_id, task, owner, due_date, status, blocker, comments, created_at, updated_at"

func scanAction(row rowScanner) (*secondary.ActionItemRecord, error) {
	var (
		owner, due, blocker, comments sql.NullString
		createdAt, updatedAt          time.Time
	)
	a := &secondary.ActionItemRecord{}
	if err := row.Scan(&a.ID, &a.EngagementID, &a.Task, &owner, &due, &a.Status, &blocker, &comments,
		&createdAt, &updatedAt); err != nil {
		return nil, err
	}
	a.Owner = owner.String
	a.DueDate = due.String
	a.Blocker = blocker.String
	a.Comments = comments.String
	a.CreatedAt = formatTime(createdAt)
	a.UpdatedAt = formatTime(updatedAt)
	return a, nil
}

// Create persists a new action item.
func (r *ActionItemRepository) Create(ctx context.Context, a *secondary.ActionItemRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO action_items (id, engagement_id, task, owner, due_date, status, blocker, comments)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.EngagementID, a.Task, nullString(a.Owner), nullString(a.DueDate), a.Status,
		nullString(a.Blocker), nullString(a.Comments),
	)
	if err != nil {
		return fmt.Errorf("failed to create action item: %w", err)
	}
	if r.logWriter != nil {
		_ = r.logWriter.LogCreate(ctx, "action_item", a.ID)
	}
	return nil
}

// GetByID retrieves an action item by its ID.
func (r *ActionItemRepository) GetByID(ctx context.Context, id string) (*secondary.ActionItemRecord, error) {
	a, err := scanAction(r.db.QueryRowContext(ctx, "SELECT "+actionColumns+" FROM action_items WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("action item", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get action item: %w", err)
	}
	return a, nil
}

// Update replaces an action item.
func (r *ActionItemRepository) Update(ctx context.Context, a *secondary.ActionItemRecord) error {
	old, err := r.GetByID(ctx, a.ID)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE action_items SET task = ?, owner = ?, due_date = ?, status = ?, blocker = ?, comments = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		a.Task, nullString(a.Owner), nullString(a.DueDate), a.Status, nullString(a.Blocker),
		nullString(a.Comments), a.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update action item: %w", err)
	}
	if r.logWriter != nil && old.Status != a.Status {
		_ = r.logWriter.LogUpdate(ctx, "action_item", a.ID, "status", old.Status, a.Status)
	}
	return nil
}

// Delete removes an action item.
func (r *ActionItemRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM action_items WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete action item: %w", err)
	}
	if err := checkAffected(result, "action item", id); err != nil {
		return err
	}
	if r.logWriter != nil {
		_ = r.logWriter.LogDelete(ctx, "action_item", id)
	}
	return nil
}

// List returns items ordered by due date, undated last.
func (r *ActionItemRepository) List(ctx context.Context, filters secondary.ActionItemFilters) ([]*secondary.ActionItemRecord, error) {
	query := "SELECT " + actionColumns + " FROM action_items WHERE 1=1"
	args := []any{}
	if filters.EngagementID != "" {
		query += " AND engagement_id = ?"
		args = append(args, filters.EngagementID)
	}
	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}
	query += " ORDER BY due_date IS NULL, due_date, id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list action items: %w", err)
	}
	defer rows.Close()

	var items []*secondary.ActionItemRecord
	for rows.Next() {
		a, err := scanAction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan action item: %w", err)
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

// GetNextID returns the next available action item ID.
func (r *ActionItemRepository) GetNextID(ctx context.Context) (string, error) {
	return nextSequentialID(ctx, r.db, "action_items", "ACT")
}

// DecisionRepository implements secondary.DecisionRepository with SQLite.
type DecisionRepository struct {
	db        *sql.DB
	logWriter secondary.LogWriter
}

// NewDecisionRepository creates a new SQLite decision repository.
func NewDecisionRepository(db *sql.DB, logWriter secondary.LogWriter) *DecisionRepository {
	return &DecisionRepository{db: db, logWriter: logWriter}
}

const decisionColumns = `id, engagement_id, decided_on, decision, options, recommendation, responsible,
	status, notes, created_at, updated_at`

func scanDecision(row rowScanner) (*secondary.DecisionRecord, error) {
	var (
		decidedOn, options, recommendation, responsible, notes sql.NullString
		createdAt, updatedAt                                   time.Time
	)
	d := &secondary.DecisionRecord{}
	if err := row.Scan(&d.ID, &d.EngagementID, &decidedOn, &d.Decision, &options, &recommendation,
		&responsible, &d.Status, &notes, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	d.DecidedOn = decidedOn.String
	d.Options = options.String
	d.Recommendation = recommendation.String
	d.Responsible = responsible.String
	d.Notes = notes.String
	d.CreatedAt = formatTime(createdAt)
	d.UpdatedAt = formatTime(updatedAt)
	return d, nil
}

// Create persists a new decision.
func (r *DecisionRepository) Create(ctx context.Context, d *secondary.DecisionRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO decisions (id, engagement_id, decided_on, decision, options, recommendation, responsible, status, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.EngagementID, nullString(d.DecidedOn), d.Decision, nullString(d.Options),
		nullString(d.Recommendation), nullString(d.Responsible), d.Status, nullString(d.Notes),
	)
	if err != nil {
		return fmt.Errorf("failed to create decision: %w", err)
	}
	if r.logWriter != nil {
		_ = r.logWriter.LogCreate(ctx, "decision", d.ID)
	}
	return nil
}

// GetByID retrieves a decision by its ID.
func (r *DecisionRepository) GetByID(ctx context.Context, id string) (*secondary.DecisionRecord, error) {
	d, err := scanDecision(r.db.QueryRowContext(ctx, "SELECT "+decisionColumns+" FROM decisions WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("decision", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get decision: %w", err)
	}
	return d, nil
}

// Update replaces a decision.
func (r *DecisionRepository) Update(ctx context.Context, d *secondary.DecisionRecord) error {
	old, err := r.GetByID(ctx, d.ID)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE decisions SET decided_on = ?, decision = ?, options = ?, recommendation = ?, responsible = ?,
			status = ?, notes = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		nullString(d.DecidedOn), d.Decision, nullString(d.Options), nullString(d.Recommendation),
		nullString(d.Responsible), d.Status, nullString(d.Notes), d.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update decision: %w", err)
	}
	if r.logWriter != nil && old.Status != d.Status {
		_ = r.logWriter.LogUpdate(ctx, "decision", d.ID, "status", old.Status, d.Status)
	}
	return nil
}

// Delete removes a decision.
func (r *DecisionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM decisions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete decision: %w", err)
	}
	if err := checkAffected(result, "decision", id); err != nil {
		return err
	}
	if r.logWriter != nil {
		_ = r.logWriter.LogDelete(ctx, "decision", id)
	}
	return nil
}

// List returns decisions newest first.
func (r *DecisionRepository) List(ctx context.Context, engagementID string) ([]*secondary.DecisionRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+decisionColumns+" FROM decisions WHERE engagement_id = ? ORDER BY decided_on DESC, id DESC",
		engagementID)
	if err != nil {
		return nil, fmt.Errorf("failed to list decisions: %w", err)
	}
	defer rows.Close()

	var decisions []*secondary.DecisionRecord
	for rows.Next() {
		d, err := scanDecision(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan decision: %w", err)
		}
		decisions = append(decisions, d)
	}
	return decisions, rows.Err()
}

// GetNextID returns the next available decision ID.
func (r *DecisionRepository) GetNextID(ctx context.Context) (string, error) {
	return nextSequentialID(ctx, r.db, "decisions", "DEC")
}

// RaciRepository implements secondary.RaciRepository with SQLite.
type RaciRepository struct {
	db        *sql.DB
	logWriter secondary.LogWriter
}

// NewRaciRepository creates a new SQLite RACI repository.
func NewRaciRepository(db *sql.DB, logWriter secondary.LogWriter) *RaciRepository {
	return &RaciRepository{db: db, logWriter: logWriter}
}

// Create persists a new RACI row.
func (r *RaciRepository) Create(ctx context.Context, row *secondary.RaciRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO raci_rows (id, engagement_id, initiative, responsible, accountable, consulted, informed)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		row.ID, row.EngagementID, row.Initiative, row.Responsible, row.Accountable,
		nullString(row.Consulted), nullString(row.Informed),
	)
	if err != nil {
		return fmt.Errorf("failed to create raci row: %w", err)
	}
	if r.logWriter != nil {
		_ = r.logWriter.LogCreate(ctx, "raci", row.ID)
	}
	return nil
}

// Delete removes a RACI row.
func (r *RaciRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM raci_rows WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete raci row: %w", err)
	}
	if err := checkAffected(result, "raci row", id); err != nil {
		return err
	}
	if r.logWriter != nil {
		_ = r.logWriter.LogDelete(ctx, "raci", id)
	}
	return nil
}

// List returns the RACI matrix of an engagement.
func (r *RaciRepository) List(ctx context.Context, engagementID string) ([]*secondary.RaciRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, engagement_id, initiative, responsible, accountable, consulted, informed, created_at
		FROM raci_rows WHERE engagement_id = ? ORDER BY id`, engagementID)
	if err != nil {
		return nil, fmt.Errorf("failed to list raci rows: %w", err)
	}
	defer rows.Close()

	var out []*secondary.RaciRecord
	for rows.Next() {
		var (
			consulted, informed sql.NullString
			createdAt           time.Time
		)
		row := &secondary.RaciRecord{}
		if err := rows.Scan(&row.ID, &row.EngagementID, &row.Initiative, &row.Responsible, &row.Accountable,
			&consulted, &informed, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan raci row: %w", err)
		}
		row.Consulted = consulted.String
		row.Informed = informed.String
		row.CreatedAt = formatTime(createdAt)
		out = append(out, row)
	}
	return out, rows.Err()
}

// GetNextID returns the next available RACI ID.
func (r *RaciRepository) GetNextID(ctx context.Context) (string, error) {
	return nextSequentialID(ctx, r.db, "raci_rows", "RACI")
}

var (
	_ secondary.ActionItemRepository = (*ActionItemRepository)(nil)
	_ secondary.DecisionRepository   = (*DecisionRepository)(nil)
	_ secondary.RaciRepository       = (*RaciRepository)(nil)
)
