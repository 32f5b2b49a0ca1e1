package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/see/internal/ctxutil"
	"github.com/example/see/internal/ids"
	"github.com/example/see/internal/ports/secondary"
)

// LogWriterAdapter implements secondary.LogWriter by writing audit_log rows.
type LogWriterAdapter struct {
	db *sql.DB
}

// NewLogWriterAdapter creates a new LogWriterAdapter.
func NewLogWriterAdapter(db *sql.DB) *LogWriterAdapter {
	return &LogWriterAdapter{db: db}
}

// LogCreate logs a create operation for an entity.
func (w *LogWriterAdapter) LogCreate(ctx context.Context, entityType, entityID string) error {
	return w.writeLog(ctx, entityType, entityID, "create", "", "", "")
}

// LogUpdate logs an update operation for an entity field.
func (w *LogWriterAdapter) LogUpdate(ctx context.Context, entityType, entityID, fieldName, oldValue, newValue string) error {
	return w.writeLog(ctx, entityType, entityID, "update", fieldName, oldValue, newValue)
}

// LogDelete logs a delete operation for an entity.
func (w *LogWriterAdapter) LogDelete(ctx context.Context, entityType, entityID string) error {
	return w.writeLog(ctx, entityType, entityID, "delete", "", "", "")
}

func (w *LogWriterAdapter) writeLog(ctx context.Context, entityType, entityID, action, fieldName, oldValue, newValue string) error {
	engagementID := ctxutil.EngagementFromContext(ctx)
	if entityType == "engagement" && engagementID == "" {
		engagementID = entityID
	}

	_, err := w.db.ExecContext(ctx,
		`INSERT INTO audit_log (id, engagement_id, actor, entity_type, entity_id, action, field_name, old_value, new_value, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ids.NewULID(), nullString(engagementID), nullString(ctxutil.ActorFromContext(ctx)),
		entityType, entityID, action, nullString(fieldName), nullString(oldValue), nullString(newValue),
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

// AuditLogRepository implements secondary.AuditLogRepository with SQLite.
type AuditLogRepository struct {
	db *sql.DB
}

// NewAuditLogRepository creates a new SQLite audit log repository.
func NewAuditLogRepository(db *sql.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

// List returns entries newest first.
func (r *AuditLogRepository) List(ctx context.Context, filters secondary.AuditLogFilters) ([]*secondary.AuditLogRecord, error) {
	query := `SELECT id, engagement_id, actor, entity_type, entity_id, action, field_name, old_value, new_value, created_at
		FROM audit_log WHERE 1=1`
	args := []any{}

	if filters.EngagementID != "" {
		query += " AND engagement_id = ?"
		args = append(args, filters.EngagementID)
	}
	if filters.EntityType != "" {
		query += " AND entity_type = ?"
		args = append(args, filters.EntityType)
	}
	if filters.EntityID != "" {
		query += " AND entity_id = ?"
		args = append(args, filters.EntityID)
	}

	query += " ORDER BY id DESC"
	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit log: %w", err)
	}
	defer rows.Close()

	var entries []*secondary.AuditLogRecord
	for rows.Next() {
		var (
			engagementID, actor, field, oldValue, newValue sql.NullString
			createdAt                                      time.Time
		)
		record := &secondary.AuditLogRecord{}
		if err := rows.Scan(&record.ID, &engagementID, &actor, &record.EntityType, &record.EntityID,
			&record.Action, &field, &oldValue, &newValue, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit log: %w", err)
		}
		record.EngagementID = engagementID.String
		record.Actor = actor.String
		record.FieldName = field.String
		record.OldValue = oldValue.String
		record.NewValue = newValue.String
		record.CreatedAt = formatTime(createdAt)
		entries = append(entries, record)
	}
	return entries, rows.Err()
}

// Ensure LogWriterAdapter implements the interface
var _ secondary.LogWriter = (*LogWriterAdapter)(nil)
var _ secondary.AuditLogRepository = (*AuditLogRepository)(nil)
