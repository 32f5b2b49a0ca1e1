package secondary

import "context"

// LogWriter defines the interface for writing audit log entries.
// Implementations extract actor and engagement from context.
type LogWriter interface {
	// LogCreate logs a create operation for an entity.
	LogCreate(ctx context.Context, entityType, entityID string) error

	// LogUpdate logs an update operation for an entity field.
	// fieldName, oldValue, newValue describe what changed.
	LogUpdate(ctx context.Context, entityType, entityID, fieldName, oldValue, newValue string) error

	// LogDelete logs a delete operation for an entity.
	LogDelete(ctx context.Context, entityType, entityID string) error
}

// AuditLogRepository reads back what LogWriter recorded.
type AuditLogRepository interface {
	// List returns entries newest first.
	List(ctx context.Context, filters AuditLogFilters) ([]*AuditLogRecord, error)
}

// AuditLogRecord is one audit_log row.
type AuditLogRecord struct {
	ID           string
	EngagementID string
	Actor        string
	EntityType   string
	EntityID     string
	Action       string
	FieldName    string
	OldValue     string
	NewValue     string
	CreatedAt    string
}

// AuditLogFilters narrows an audit log query.
type AuditLogFilters struct {
	EngagementID string
	EntityType   string
	EntityID     string
	Limit        int
}
