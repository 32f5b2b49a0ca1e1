package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/see/internal/ids"
	"github.com/example/see/internal/ports/secondary"
)

// NpsRepository implements secondary.NpsRepository with SQLite.
type NpsRepository struct {
	db        *sql.DB
	logWriter secondary.LogWriter
}

// NewNpsRepository creates a new SQLite NPS repository.
func NewNpsRepository(db *sql.DB, logWriter secondary.LogWriter) *NpsRepository {
	return &NpsRepository{db: db, logWriter: logWriter}
}

const inviteColumns = `id, engagement_id, contact_name, contact_email, contact_role, token, status,
	sent_at, responded_at, expires_at, created_at`

func scanInvite(row rowScanner) (*secondary.NpsInviteRecord, error) {
	var (
		name, role                  sql.NullString
		sentAt, respondedAt, expiry sql.NullTime
		createdAt                   time.Time
	)
	i := &secondary.NpsInviteRecord{}
	if err := row.Scan(&i.ID, &i.EngagementID, &name, &i.ContactEmail, &role, &i.Token, &i.Status,
		&sentAt, &respondedAt, &expiry, &createdAt); err != nil {
		return nil, err
	}
	i.ContactName = name.String
	i.ContactRole = role.String
	i.SentAt = formatNullTime(sentAt)
	i.RespondedAt = formatNullTime(respondedAt)
	i.ExpiresAt = formatNullTime(expiry)
	i.CreatedAt = formatTime(createdAt)
	return i, nil
}

// CreateInvite persists a new invite.
func (r *NpsRepository) CreateInvite(ctx context.Context, i *secondary.NpsInviteRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO nps_invites (id, engagement_id, contact_name, contact_email, contact_role, token, status, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		i.ID, i.EngagementID, nullString(i.ContactName), i.ContactEmail, nullString(i.ContactRole),
		i.Token, i.Status, nullTime(i.ExpiresAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create nps invite: %w", err)
	}
	if r.logWriter != nil {
		_ = r.logWriter.LogCreate(ctx, "nps_invite", i.ID)
	}
	return nil
}

// GetInviteByToken returns the invite for a public token or ErrNotFound.
func (r *NpsRepository) GetInviteByToken(ctx context.Context, token string) (*secondary.NpsInviteRecord, error) {
	i, err := scanInvite(r.db.QueryRowContext(ctx, "SELECT "+inviteColumns+" FROM nps_invites WHERE token = ?", token))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("nps invite %w", secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get nps invite: %w", err)
	}
	return i, nil
}

// GetInviteByID retrieves an invite by its ID.
func (r *NpsRepository) GetInviteByID(ctx context.Context, id string) (*secondary.NpsInviteRecord, error) {
	i, err := scanInvite(r.db.QueryRowContext(ctx, "SELECT "+inviteColumns+" FROM nps_invites WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("nps invite", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get nps invite: %w", err)
	}
	return i, nil
}

// UpdateInvite writes status and the sent/responded timestamps.
func (r *NpsRepository) UpdateInvite(ctx context.Context, i *secondary.NpsInviteRecord) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE nps_invites SET status = ?, sent_at = ?, responded_at = ? WHERE id = ?",
		i.Status, nullTime(i.SentAt), nullTime(i.RespondedAt), i.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update nps invite: %w", err)
	}
	return checkAffected(result, "nps invite", i.ID)
}

// ListInvites returns invites matching the filters, oldest first.
func (r *NpsRepository) ListInvites(ctx context.Context, filters secondary.NpsInviteFilters) ([]*secondary.NpsInviteRecord, error) {
	query := "SELECT " + inviteColumns + " FROM nps_invites WHERE 1=1"
	args := []any{}
	if filters.EngagementID != "" {
		query += " AND engagement_id = ?"
		args = append(args, filters.EngagementID)
	}
	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}
	query += " ORDER BY id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list nps invites: %w", err)
	}
	defer rows.Close()

	var invites []*secondary.NpsInviteRecord
	for rows.Next() {
		i, err := scanInvite(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan nps invite: %w", err)
		}
		invites = append(invites, i)
	}
	return invites, rows.Err()
}

// CreateResponse persists a response.
func (r *NpsRepository) CreateResponse(ctx context.Context, resp *secondary.NpsResponseRecord) error {
	if resp.ID == "" {
		resp.ID = ids.NewULID()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO nps_responses (id, invite_id, score, reason, focus, comment, user_agent, ip_hash, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		resp.ID, resp.InviteID, resp.Score, nullString(resp.Reason), nullString(resp.Focus),
		nullString(resp.Comment), nullString(resp.UserAgent), nullString(resp.IPHash),
		nullTime(resp.SubmittedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("nps invite %s already answered: %w", resp.InviteID, secondary.ErrConflict)
		}
		return fmt.Errorf("failed to save nps response: %w", err)
	}
	return nil
}

const responseColumns = "r.id, r.invite_id, r.score, r.reason, r.focus, r.comment, r.user_agent, r.ip_hash, r.submitted_at"

func scanResponse(row rowScanner) (*secondary.NpsResponseRecord, error) {
	var (
		reason, focus, comment, ua, ipHash sql.NullString
		submittedAt                        sql.NullTime
	)
	resp := &secondary.NpsResponseRecord{}
	if err := row.Scan(&resp.ID, &resp.InviteID, &resp.Score, &reason, &focus, &comment, &ua, &ipHash,
		&submittedAt); err != nil {
		return nil, err
	}
	resp.Reason = reason.String
	resp.Focus = focus.String
	resp.Comment = comment.String
	resp.UserAgent = ua.String
	resp.IPHash = ipHash.String
	resp.SubmittedAt = formatNullTime(submittedAt)
	return resp, nil
}

// GetResponseByInvite returns the response or ErrNotFound.
func (r *NpsRepository) GetResponseByInvite(ctx context.Context, inviteID string) (*secondary.NpsResponseRecord, error) {
	resp, err := scanResponse(r.db.QueryRowContext(ctx,
		"SELECT "+responseColumns+" FROM nps_responses r WHERE r.invite_id = ?", inviteID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("nps response for invite", inviteID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get nps response: %w", err)
	}
	return resp, nil
}

// ListResponses returns responses of an engagement.
func (r *NpsRepository) ListResponses(ctx context.Context, engagementID string) ([]*secondary.NpsResponseRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+responseColumns+` FROM nps_responses r JOIN nps_invites i ON i.id = r.invite_id
		WHERE i.engagement_id = ? ORDER BY r.submitted_at`, engagementID)
	if err != nil {
		return nil, fmt.Errorf("failed to list nps responses: %w", err)
	}
	defer rows.Close()

	var responses []*secondary.NpsResponseRecord
	for rows.Next() {
		resp, err := scanResponse(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan nps response: %w", err)
		}
		responses = append(responses, resp)
	}
	return responses, rows.Err()
}

// GetNextInviteID returns the next available invite ID.
func (r *NpsRepository) GetNextInviteID(ctx context.Context) (string, error) {
	return nextSequentialID(ctx, r.db, "nps_invites", "NPS")
}

var _ secondary.NpsRepository = (*NpsRepository)(nil)
