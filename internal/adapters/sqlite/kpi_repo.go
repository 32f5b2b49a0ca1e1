package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/example/see/internal/ids"
	"github.com/example/see/internal/ports/secondary"
)

// KpiRepository implements secondary.KpiRepository with SQLite.
type KpiRepository struct {
	db        *sql.DB
	logWriter secondary.LogWriter
}

// NewKpiRepository creates a new SQLite KPI repository.
// logWriter is optional - if nil, no audit logging is performed.
func NewKpiRepository(db *sql.DB, logWriter secondary.LogWriter) *KpiRepository {
	return &KpiRepository{db: db, logWriter: logWriter}
}

const kpiColumns = `id, engagement_id, name_es, name_en, description, perspective, frequency, direction,
	basis, unit, target_value, target_text, owner_email, created_at, updated_at`

func scanKpi(row rowScanner) (*secondary.KpiRecord, error) {
	var (
		nameEn, desc, unit, targetText, owner sql.NullString
		target                                sql.NullFloat64
		createdAt, updatedAt                  time.Time
	)
	k := &secondary.KpiRecord{}
	err := row.Scan(&k.ID, &k.EngagementID, &k.NameEs, &nameEn, &desc, &k.Perspective, &k.Frequency,
		&k.Direction, &k.Basis, &unit, &target, &targetText, &owner, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	k.NameEn = nameEn.String
	k.Description = desc.String
	k.Unit = unit.String
	k.TargetValue = floatPtr(target)
	k.TargetText = targetText.String
	k.OwnerEmail = owner.String
	k.CreatedAt = formatTime(createdAt)
	k.UpdatedAt = formatTime(updatedAt)
	return k, nil
}

// Create persists a new KPI.
func (r *KpiRepository) Create(ctx context.Context, k *secondary.KpiRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO kpis (id, engagement_id, name_es, name_en, description, perspective, frequency,
			direction, basis, unit, target_value, target_text, owner_email)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		k.ID, k.EngagementID, k.NameEs, nullString(k.NameEn), nullString(k.Description), k.Perspective,
		k.Frequency, k.Direction, k.Basis, nullString(k.Unit), nullFloat(k.TargetValue),
		nullString(k.TargetText), nullString(k.OwnerEmail),
	)
	if err != nil {
		return fmt.Errorf("failed to create kpi: %w", err)
	}
	if r.logWriter != nil {
		_ = r.logWriter.LogCreate(ctx, "kpi", k.ID)
	}
	return nil
}

// GetByID retrieves a KPI by its ID.
func (r *KpiRepository) GetByID(ctx context.Context, id string) (*secondary.KpiRecord, error) {
	k, err := scanKpi(r.db.QueryRowContext(ctx, "SELECT "+kpiColumns+" FROM kpis WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("kpi", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get kpi: %w", err)
	}
	return k, nil
}

// FindByName looks up a KPI by its Spanish name within an engagement.
func (r *KpiRepository) FindByName(ctx context.Context, engagementID, nameEs string) (*secondary.KpiRecord, error) {
	k, err := scanKpi(r.db.QueryRowContext(ctx,
		"SELECT "+kpiColumns+" FROM kpis WHERE engagement_id = ? AND LOWER(name_es) = LOWER(?) LIMIT 1",
		engagementID, nameEs))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("kpi", nameEs)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find kpi: %w", err)
	}
	return k, nil
}

// Update replaces a KPI's definition, logging a changed target.
func (r *KpiRepository) Update(ctx context.Context, k *secondary.KpiRecord) error {
	var oldTarget sql.NullFloat64
	err := r.db.QueryRowContext(ctx, "SELECT target_value FROM kpis WHERE id = ?", k.ID).Scan(&oldTarget)
	if errors.Is(err, sql.ErrNoRows) {
		return notFound("kpi", k.ID)
	}
	if err != nil {
		return fmt.Errorf("failed to read kpi: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`UPDATE kpis SET name_es = ?, name_en = ?, description = ?, perspective = ?, frequency = ?,
			direction = ?, basis = ?, unit = ?, target_value = ?, target_text = ?, owner_email = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		k.NameEs, nullString(k.NameEn), nullString(k.Description), k.Perspective, k.Frequency,
		k.Direction, k.Basis, nullString(k.Unit), nullFloat(k.TargetValue), nullString(k.TargetText),
		nullString(k.OwnerEmail), k.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update kpi: %w", err)
	}

	oldText, newText := formatOptionalFloat(floatPtr(oldTarget)), formatOptionalFloat(k.TargetValue)
	if r.logWriter != nil && oldText != newText {
		_ = r.logWriter.LogUpdate(ctx, "kpi", k.ID, "target_value", oldText, newText)
	}
	return nil
}

func formatOptionalFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// Delete removes a KPI and its values.
func (r *KpiRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM kpis WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete kpi: %w", err)
	}
	if err := checkAffected(result, "kpi", id); err != nil {
		return err
	}
	if r.logWriter != nil {
		_ = r.logWriter.LogDelete(ctx, "kpi", id)
	}
	return nil
}

// List returns the KPIs of an engagement ordered by perspective then name.
func (r *KpiRepository) List(ctx context.Context, engagementID string) ([]*secondary.KpiRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+kpiColumns+` FROM kpis WHERE engagement_id = ?
		ORDER BY CASE perspective
			WHEN 'FINANCIAL' THEN 0 WHEN 'CUSTOMER' THEN 1
			WHEN 'INTERNAL_PROCESS' THEN 2 ELSE 3 END, name_es`, engagementID)
	if err != nil {
		return nil, fmt.Errorf("failed to list kpis: %w", err)
	}
	defer rows.Close()

	var kpis []*secondary.KpiRecord
	for rows.Next() {
		k, err := scanKpi(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan kpi: %w", err)
		}
		kpis = append(kpis, k)
	}
	return kpis, rows.Err()
}

// GetNextID returns the next available KPI ID.
func (r *KpiRepository) GetNextID(ctx context.Context) (string, error) {
	return nextSequentialID(ctx, r.db, "kpis", "KPI")
}

// KpiValueRepository implements secondary.KpiValueRepository with SQLite.
type KpiValueRepository struct {
	db *sql.DB
}

// NewKpiValueRepository creates a new SQLite KPI value repository.
func NewKpiValueRepository(db *sql.DB) *KpiValueRepository {
	return &KpiValueRepository{db: db}
}

// Upsert writes the value for (kpi, period, scope).
func (r *KpiValueRepository) Upsert(ctx context.Context, v *secondary.KpiValueRecord) error {
	id := v.ID
	if id == "" {
		id = ids.NewULID()
	}
	var isGreen sql.NullBool
	if v.IsGreen != nil {
		isGreen = sql.NullBool{Bool: *v.IsGreen, Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO kpi_values (id, kpi_id, period_key, scope_key, value, note, is_green, period_start, period_end)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(kpi_id, period_key, scope_key) DO UPDATE SET
			value = excluded.value,
			note = excluded.note,
			is_green = excluded.is_green,
			period_start = excluded.period_start,
			period_end = excluded.period_end,
			updated_at = CURRENT_TIMESTAMP`,
		id, v.KpiID, v.PeriodKey, v.ScopeKey, nullFloat(v.Value), nullString(v.Note), isGreen,
		nullTime(v.PeriodStart), nullTime(v.PeriodEnd),
	)
	if err != nil {
		return fmt.Errorf("failed to save kpi value: %w", err)
	}
	return nil
}

// Delete removes the value for (kpi, period, scope), if any.
func (r *KpiValueRepository) Delete(ctx context.Context, kpiID, periodKey, scopeKey string) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM kpi_values WHERE kpi_id = ? AND period_key = ? AND scope_key = ?",
		kpiID, periodKey, scopeKey)
	if err != nil {
		return fmt.Errorf("failed to delete kpi value: %w", err)
	}
	return nil
}

// List returns values matching the filters ordered by period.
func (r *KpiValueRepository) List(ctx context.Context, filters secondary.KpiValueFilters) ([]*secondary.KpiValueRecord, error) {
	query := `SELECT v.id, v.kpi_id, v.period_key, v.scope_key, v.value, v.note, v.is_green,
		v.period_start, v.period_end, v.created_at, v.updated_at
		FROM kpi_values v JOIN kpis k ON k.id = v.kpi_id WHERE 1=1`
	args := []any{}

	if filters.EngagementID != "" {
		query += " AND k.engagement_id = ?"
		args = append(args, filters.EngagementID)
	}
	if filters.KpiID != "" {
		query += " AND v.kpi_id = ?"
		args = append(args, filters.KpiID)
	}
	if filters.ScopeKey != "" {
		query += " AND v.scope_key = ?"
		args = append(args, filters.ScopeKey)
	}
	if filters.FromPeriod != "" {
		query += " AND v.period_key >= ?"
		args = append(args, filters.FromPeriod)
	}
	if filters.ToPeriod != "" {
		query += " AND v.period_key <= ?"
		args = append(args, filters.ToPeriod)
	}
	query += " ORDER BY v.period_key, v.kpi_id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list kpi values: %w", err)
	}
	defer rows.Close()

	var values []*secondary.KpiValueRecord
	for rows.Next() {
		var (
			value                sql.NullFloat64
			note                 sql.NullString
			isGreen              sql.NullBool
			start, end           sql.NullTime
			createdAt, updatedAt time.Time
		)
		v := &secondary.KpiValueRecord{}
		if err := rows.Scan(&v.ID, &v.KpiID, &v.PeriodKey, &v.ScopeKey, &value, &note, &isGreen,
			&start, &end, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan kpi value: %w", err)
		}
		v.Value = floatPtr(value)
		v.Note = note.String
		if isGreen.Valid {
			g := isGreen.Bool
			v.IsGreen = &g
		}
		v.PeriodStart = formatNullTime(start)
		v.PeriodEnd = formatNullTime(end)
		v.CreatedAt = formatTime(createdAt)
		v.UpdatedAt = formatTime(updatedAt)
		values = append(values, v)
	}
	return values, rows.Err()
}

var (
	_ secondary.KpiRepository      = (*KpiRepository)(nil)
	_ secondary.KpiValueRepository = (*KpiValueRepository)(nil)
)
