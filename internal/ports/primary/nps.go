package primary

import (
	"context"
	"io"
)

// NpsService defines the primary port for the client NPS survey.
type NpsService interface {
	// CreateInvites creates one invite per contact with a fresh token.
	CreateInvites(ctx context.Context, req CreateNpsInvitesRequest) ([]*NpsInvite, error)

	// ImportContactsCSV creates invites from a contacts CSV (name, email, role).
	ImportContactsCSV(ctx context.Context, engagementID string, r io.Reader) (*NpsImportResult, error)

	// ContactsTemplateCSV returns the semicolon separated contacts template.
	ContactsTemplateCSV() []byte

	// SendInvite mails the survey link of one invite and marks it SENT.
	SendInvite(ctx context.Context, inviteID string) error

	// SendPending mails every PENDING invite of an engagement.
	SendPending(ctx context.Context, engagementID string) (int, error)

	ListInvites(ctx context.Context, engagementID, status string) ([]*NpsInvite, error)

	// OpenSurvey resolves a public token. Unknown tokens are ErrNotFound,
	// expired ones ErrTokenExpired.
	OpenSurvey(ctx context.Context, token string) (*NpsSurvey, error)

	// SubmitResponse records the single response of an invite. A second
	// submission returns ErrAlreadySubmitted.
	SubmitResponse(ctx context.Context, req SubmitNpsRequest) error

	GetMetrics(ctx context.Context, engagementID string) (*NpsMetrics, error)
}

// CreateNpsInvitesRequest lists the contacts to invite.
type CreateNpsInvitesRequest struct {
	EngagementID  string
	Contacts      []NpsContact
	ExpiresInDays int
}

// NpsContact is a client contact to survey.
type NpsContact struct {
	Name  string
	Email string
	Role  string
}

// NpsInvite is a survey invitation.
type NpsInvite struct {
	ID           string
	EngagementID string
	ContactName  string
	ContactEmail string
	ContactRole  string
	Token        string
	URL          string
	Status       string
	SentAt       string
	RespondedAt  string
	ExpiresAt    string
}

// NpsImportResult summarises a contacts import.
type NpsImportResult struct {
	Invites []*NpsInvite
	Skipped int
	Errors  []string
}

// NpsSurvey is what a respondent sees when opening the link.
type NpsSurvey struct {
	InviteID    string
	CompanyName string
	ContactName string
	Locale      string
	Answered    bool
	Reasons     []string
	Focuses     []string
}

// SubmitNpsRequest is a respondent's answer.
type SubmitNpsRequest struct {
	Token     string
	Score     float64
	Reason    string
	Focus     string
	Comment   string
	UserAgent string
	ClientIP  string
}

// NpsMetrics aggregates the responses of an engagement.
type NpsMetrics struct {
	Invited      int
	Responded    int
	Total        int
	Promoters    int
	Passives     int
	Detractors   int
	NPS          int
	Distribution []int // index is the 0..10 score
	Comments     []string
}
