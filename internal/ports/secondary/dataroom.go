package secondary

import "context"

// DataRoomRepository stores the per-engagement data room checklist.
type DataRoomRepository interface {
	// InsertMissing adds items whose code is not yet present, returning how
	// many were inserted.
	InsertMissing(ctx context.Context, items []*DataRoomItemRecord) (int, error)

	// GetByCode returns one item or ErrNotFound.
	GetByCode(ctx context.Context, engagementID, code string) (*DataRoomItemRecord, error)

	// Update writes status, has-data flag, comment and file references.
	Update(ctx context.Context, item *DataRoomItemRecord) error

	// List returns the checklist ordered by code.
	List(ctx context.Context, engagementID string) ([]*DataRoomItemRecord, error)
}

// DataRoomItemRecord is one data_room_items row.
type DataRoomItemRecord struct {
	ID           string
	EngagementID string
	Area         string
	Code         string
	Title        string
	Description  string
	Status       string
	HasData      bool
	Comment      string
	FileRefs     string
	UpdatedAt    string
}
