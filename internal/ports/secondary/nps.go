package secondary

import "context"

// NpsRepository stores NPS invites and their responses.
type NpsRepository interface {
	CreateInvite(ctx context.Context, invite *NpsInviteRecord) error

	// GetInviteByToken returns the invite for a public token or ErrNotFound.
	GetInviteByToken(ctx context.Context, token string) (*NpsInviteRecord, error)

	GetInviteByID(ctx context.Context, id string) (*NpsInviteRecord, error)

	// UpdateInvite writes status and the sent/responded timestamps.
	UpdateInvite(ctx context.Context, invite *NpsInviteRecord) error

	ListInvites(ctx context.Context, filters NpsInviteFilters) ([]*NpsInviteRecord, error)

	// CreateResponse persists a response. A second response for the same
	// invite violates the unique constraint and returns an error.
	CreateResponse(ctx context.Context, response *NpsResponseRecord) error

	// GetResponseByInvite returns the response or ErrNotFound.
	GetResponseByInvite(ctx context.Context, inviteID string) (*NpsResponseRecord, error)

	// ListResponses returns responses of an engagement.
	ListResponses(ctx context.Context, engagementID string) ([]*NpsResponseRecord, error)

	GetNextInviteID(ctx context.Context) (string, error)
}

// NpsInviteRecord is one nps_invites row.
type NpsInviteRecord struct {
	ID           string
	EngagementID string
	ContactName  string
	ContactEmail string
	ContactRole  string
	Token        string
	Status       string
	SentAt       string
	RespondedAt  string
	ExpiresAt    string
	CreatedAt    string
}

// NpsInviteFilters contains filter options for querying invites.
type NpsInviteFilters struct {
	EngagementID string
	Status       string
}

// NpsResponseRecord is one nps_responses row.
type NpsResponseRecord struct {
	ID          string
	InviteID    string
	Score       int
	Reason      string
	Focus       string
	Comment     string
	UserAgent   string
	IPHash      string
	SubmittedAt string
}
