package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/see/internal/ports/secondary"
)

// DataRoomRepository implements secondary.DataRoomRepository with SQLite.
type DataRoomRepository struct {
	db        *sql.DB
	logWriter secondary.LogWriter
}

// NewDataRoomRepository creates a new SQLite data room repository.
func NewDataRoomRepository(db *sql.DB, logWriter secondary.LogWriter) *DataRoomRepository {
	return &DataRoomRepository{db: db, logWriter: logWriter}
}

// InsertMissing adds items whose code is not yet present.
func (r *DataRoomRepository) InsertMissing(ctx context.Context, items []*secondary.DataRoomItemRecord) (int, error) {
	inserted := 0
	for _, item := range items {
		result, err := r.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO data_room_items (id, engagement_id, area, code, title, description, status)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			item.ID, item.EngagementID, item.Area, item.Code, item.Title, nullString(item.Description), item.Status,
		)
		if err != nil {
			return inserted, fmt.Errorf("failed to create data room item %s: %w", item.Code, err)
		}
		if n, _ := result.RowsAffected(); n > 0 {
			inserted++
		}
	}
	return inserted, nil
}

const dataRoomColumns = "id, engagement_id, area, code, title, description, status, has_data, comment, file_refs, updated_at"

func scanDataRoomItem(row rowScanner) (*secondary.DataRoomItemRecord, error) {
	var (
		desc, comment, refs sql.NullString
		updatedAt           time.Time
	)
	item := &secondary.DataRoomItemRecord{}
	if err := row.Scan(&item.ID, &item.EngagementID, &item.Area, &item.Code, &item.Title, &desc,
		&item.Status, &item.HasData, &comment, &refs, &updatedAt); err != nil {
		return nil, err
	}
	item.Description = desc.String
	item.Comment = comment.String
	item.FileRefs = refs.String
	item.UpdatedAt = formatTime(updatedAt)
	return item, nil
}

// GetByCode returns one item or ErrNotFound.
func (r *DataRoomRepository) GetByCode(ctx context.Context, engagementID, code string) (*secondary.DataRoomItemRecord, error) {
	item, err := scanDataRoomItem(r.db.QueryRowContext(ctx,
		"SELECT "+dataRoomColumns+" FROM data_room_items WHERE engagement_id = ? AND code = ?", engagementID, code))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("data room item", code)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get data room item: %w", err)
	}
	return item, nil
}

// Update writes status, has-data flag, comment and file references.
func (r *DataRoomRepository) Update(ctx context.Context, item *secondary.DataRoomItemRecord) error {
	old, err := r.GetByCode(ctx, item.EngagementID, item.Code)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE data_room_items SET status = ?, has_data = ?, comment = ?, file_refs = ?, updated_at = CURRENT_TIMESTAMP
		WHERE engagement_id = ? AND code = ?`,
		item.Status, item.HasData, nullString(item.Comment), nullString(item.FileRefs), item.EngagementID, item.Code,
	)
	if err != nil {
		return fmt.Errorf("failed to update data room item: %w", err)
	}
	if r.logWriter != nil && old.Status != item.Status {
		_ = r.logWriter.LogUpdate(ctx, "data_room_item", old.ID, "status", old.Status, item.Status)
	}
	return nil
}

// List returns the checklist ordered by code.
func (r *DataRoomRepository) List(ctx context.Context, engagementID string) ([]*secondary.DataRoomItemRecord, error) {
	// Codes are A.2.N; order numerically on the last component.
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+dataRoomColumns+` FROM data_room_items WHERE engagement_id = ?
		ORDER BY CAST(SUBSTR(code, 5) AS INTEGER), code`, engagementID)
	if err != nil {
		return nil, fmt.Errorf("failed to list data room: %w", err)
	}
	defer rows.Close()

	var items []*secondary.DataRoomItemRecord
	for rows.Next() {
		item, err := scanDataRoomItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan data room item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

var _ secondary.DataRoomRepository = (*DataRoomRepository)(nil)
