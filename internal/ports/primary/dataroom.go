package primary

import "context"

// DataRoomService defines the primary port for the data room checklist.
type DataRoomService interface {
	// InitDataRoom copies the master checklist into the engagement,
	// returning how many items were added.
	InitDataRoom(ctx context.Context, engagementID string) (int, error)

	GetDataRoom(ctx context.Context, engagementID string) (*DataRoom, error)
	UpdateItem(ctx context.Context, req UpdateDataRoomItemRequest) (*DataRoomItem, error)
}

// UpdateDataRoomItemRequest updates one checklist item. Nil HasData keeps
// the stored flag.
type UpdateDataRoomItemRequest struct {
	EngagementID string
	Code         string
	Status       string
	HasData      *bool
	Comment      string
	FileRefs     string
}

// DataRoom is the checklist with its completion counts.
type DataRoom struct {
	EngagementID  string
	Items         []*DataRoomItem
	Total         int
	Received      int
	Partial       int
	Pending       int
	NotApplicable int
	CompletionPct int
}

// DataRoomItem is one checklist entry.
type DataRoomItem struct {
	Area        string
	Code        string
	Title       string
	Description string
	Status      string
	HasData     bool
	Comment     string
	FileRefs    string
}
