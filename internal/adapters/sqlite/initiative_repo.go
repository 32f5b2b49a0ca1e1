package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/example/see/internal/ports/secondary"
)

// InitiativeRepository implements secondary.InitiativeRepository with SQLite.
type InitiativeRepository struct {
	db        *sql.DB
	logWriter secondary.LogWriter
}

// NewInitiativeRepository creates a new SQLite initiative repository.
// logWriter is optional - if nil, no audit logging is performed.
func NewInitiativeRepository(db *sql.DB, logWriter secondary.LogWriter) *InitiativeRepository {
	return &InitiativeRepository{db: db, logWriter: logWriter}
}

const initiativeColumns = `id, engagement_id, title, owner, perspective, kpi_id, problem, definition_of_done,
	status, impact, effort, risk, start_date, end_date, dependencies, notes, progress_pct, created_at, updated_at`

func scanInitiative(row rowScanner) (*secondary.InitiativeRecord, error) {
	var (
		owner, perspective, kpiID, problem, dod, start, end, deps, notes sql.NullString
		impact, effort, risk, progress                                  sql.NullInt64
		createdAt, updatedAt                                            time.Time
	)
	i := &secondary.InitiativeRecord{}
	err := row.Scan(&i.ID, &i.EngagementID, &i.Title, &owner, &perspective, &kpiID, &problem, &dod,
		&i.Status, &impact, &effort, &risk, &start, &end, &deps, &notes, &progress, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	i.Owner = owner.String
	i.Perspective = perspective.String
	i.KpiID = kpiID.String
	i.Problem = problem.String
	i.DefinitionOfDone = dod.String
	i.Impact = int(impact.Int64)
	i.Effort = int(effort.Int64)
	i.Risk = int(risk.Int64)
	i.StartDate = start.String
	i.EndDate = end.String
	i.Dependencies = deps.String
	i.Notes = notes.String
	i.ProgressPct = intPtr(progress)
	i.CreatedAt = formatTime(createdAt)
	i.UpdatedAt = formatTime(updatedAt)
	return i, nil
}

func nullRating(v int) sql.NullInt64 {
	if v == 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(v), Valid: true}
}

// Create persists a new initiative.
func (r *InitiativeRepository) Create(ctx context.Context, i *secondary.InitiativeRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO initiatives (id, engagement_id, title, owner, perspective, kpi_id, problem,
			definition_of_done, status, impact, effort, risk, start_date, end_date, dependencies, notes, progress_pct)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		i.ID, i.EngagementID, i.Title, nullString(i.Owner), nullString(i.Perspective), nullString(i.KpiID),
		nullString(i.Problem), nullString(i.DefinitionOfDone), i.Status, nullRating(i.Impact),
		nullRating(i.Effort), nullRating(i.Risk), nullString(i.StartDate), nullString(i.EndDate),
		nullString(i.Dependencies), nullString(i.Notes), nullInt(i.ProgressPct),
	)
	if err != nil {
		return fmt.Errorf("failed to create initiative: %w", err)
	}
	if r.logWriter != nil {
		_ = r.logWriter.LogCreate(ctx, "initiative", i.ID)
	}
	return nil
}

// GetByID retrieves an initiative by its ID.
func (r *InitiativeRepository) GetByID(ctx context.Context, id string) (*secondary.InitiativeRecord, error) {
	i, err := scanInitiative(r.db.QueryRowContext(ctx,
		"SELECT "+initiativeColumns+" FROM initiatives WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("initiative", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get initiative: %w", err)
	}
	return i, nil
}

// Update replaces an initiative, logging status and progress changes.
func (r *InitiativeRepository) Update(ctx context.Context, i *secondary.InitiativeRecord) error {
	old, err := r.GetByID(ctx, i.ID)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`UPDATE initiatives SET title = ?, owner = ?, perspective = ?, kpi_id = ?, problem = ?,
			definition_of_done = ?, status = ?, impact = ?, effort = ?, risk = ?, start_date = ?,
			end_date = ?, dependencies = ?, notes = ?, progress_pct = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		i.Title, nullString(i.Owner), nullString(i.Perspective), nullString(i.KpiID), nullString(i.Problem),
		nullString(i.DefinitionOfDone), i.Status, nullRating(i.Impact), nullRating(i.Effort),
		nullRating(i.Risk), nullString(i.StartDate), nullString(i.EndDate), nullString(i.Dependencies),
		nullString(i.Notes), nullInt(i.ProgressPct), i.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update initiative: %w", err)
	}

	if r.logWriter != nil {
		if old.Status != i.Status {
			_ = r.logWriter.LogUpdate(ctx, "initiative", i.ID, "status", old.Status, i.Status)
		}
		if oldP, newP := formatOptionalInt(old.ProgressPct), formatOptionalInt(i.ProgressPct); oldP != newP {
			_ = r.logWriter.LogUpdate(ctx, "initiative", i.ID, "progress_pct", oldP, newP)
		}
	}
	return nil
}

func formatOptionalInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

// Delete removes an initiative.
func (r *InitiativeRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM initiatives WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete initiative: %w", err)
	}
	if err := checkAffected(result, "initiative", id); err != nil {
		return err
	}
	if r.logWriter != nil {
		_ = r.logWriter.LogDelete(ctx, "initiative", id)
	}
	return nil
}

// List retrieves initiatives matching the given filters.
func (r *InitiativeRepository) List(ctx context.Context, filters secondary.InitiativeFilters) ([]*secondary.InitiativeRecord, error) {
	query := "SELECT " + initiativeColumns + " FROM initiatives WHERE 1=1"
	args := []any{}

	if filters.EngagementID != "" {
		query += " AND engagement_id = ?"
		args = append(args, filters.EngagementID)
	}
	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}
	if filters.KpiID != "" {
		query += " AND kpi_id = ?"
		args = append(args, filters.KpiID)
	}
	query += " ORDER BY id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list initiatives: %w", err)
	}
	defer rows.Close()

	var initiatives []*secondary.InitiativeRecord
	for rows.Next() {
		i, err := scanInitiative(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan initiative: %w", err)
		}
		initiatives = append(initiatives, i)
	}
	return initiatives, rows.Err()
}

// GetNextID returns the next available initiative ID.
func (r *InitiativeRepository) GetNextID(ctx context.Context) (string, error) {
	return nextSequentialID(ctx, r.db, "initiatives", "INIT")
}

var _ secondary.InitiativeRepository = (*InitiativeRepository)(nil)
