package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/mail"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/see/internal/core/nps"
	"github.com/example/see/internal/core/textnorm"
	"github.com/example/see/internal/ctxutil"
	"github.com/example/see/internal/ids"
	"github.com/example/see/internal/ports/primary"
	"github.com/example/see/internal/ports/secondary"
	"github.com/example/see/internal/templates"
)

// NpsOptions configures invite links and their lifetime.
type NpsOptions struct {
	BaseURL       string
	ExpiresInDays int
}

// NpsServiceImpl implements the NpsService interface.
type NpsServiceImpl struct {
	engagementRepo secondary.EngagementRepository
	npsRepo        secondary.NpsRepository
	mailer         secondary.Mailer
	opts           NpsOptions
	logger         *zap.Logger
	now            func() time.Time
}

// NewNpsService creates a new NpsService with injected dependencies.
func NewNpsService(
	engagementRepo secondary.EngagementRepository,
	npsRepo secondary.NpsRepository,
	mailer secondary.Mailer,
	opts NpsOptions,
	logger *zap.Logger,
) *NpsServiceImpl {
	if opts.ExpiresInDays <= 0 {
		opts.ExpiresInDays = 30
	}
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	return &NpsServiceImpl{
		engagementRepo: engagementRepo,
		npsRepo:        npsRepo,
		mailer:         mailer,
		opts:           opts,
		logger:         logger,
		now:            time.Now,
	}
}

// CreateInvites creates one invite per contact with a fresh token.
func (s *NpsServiceImpl) CreateInvites(ctx context.Context, req primary.CreateNpsInvitesRequest) ([]*primary.NpsInvite, error) {
	if _, err := s.engagementRepo.GetByID(ctx, req.EngagementID); err != nil {
		return nil, err
	}
	if len(req.Contacts) == 0 {
		return nil, invalidInput("at least one contact is required")
	}
	for i, c := range req.Contacts {
		if err := checkContact(c); err != nil {
			return nil, invalidInput("contact %d: %v", i+1, err)
		}
	}

	days := req.ExpiresInDays
	if days <= 0 {
		days = s.opts.ExpiresInDays
	}
	expiresAt := s.now().UTC().AddDate(0, 0, days).Format(time.RFC3339)

	ctx = ctxutil.WithEngagementID(ctx, req.EngagementID)
	out := make([]*primary.NpsInvite, 0, len(req.Contacts))
	for _, c := range req.Contacts {
		invite, err := s.createInvite(ctx, req.EngagementID, c, expiresAt)
		if err != nil {
			return out, err
		}
		out = append(out, invite)
	}
	s.logger.Info("nps invites created", zap.String("engagement_id", req.EngagementID), zap.Int("count", len(out)))
	return out, nil
}

func (s *NpsServiceImpl) createInvite(ctx context.Context, engagementID string, c primary.NpsContact, expiresAt string) (*primary.NpsInvite, error) {
	token, err := ids.NewToken()
	if err != nil {
		return nil, err
	}
	nextID, err := s.npsRepo.GetNextInviteID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate invite ID: %w", err)
	}
	record := &secondary.NpsInviteRecord{
		ID:           nextID,
		EngagementID: engagementID,
		ContactName:  strings.TrimSpace(c.Name),
		ContactEmail: strings.ToLower(strings.TrimSpace(c.Email)),
		ContactRole:  strings.TrimSpace(c.Role),
		Token:        token,
		Status:       nps.InvitePending,
		ExpiresAt:    expiresAt,
	}
	if err := s.npsRepo.CreateInvite(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create invite: %w", err)
	}
	return s.recordToInvite(record), nil
}

func checkContact(c primary.NpsContact) error {
	email := strings.TrimSpace(c.Email)
	if email == "" {
		return errors.New("email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("invalid email %q", email)
	}
	return nil
}

var contactAliases = map[string]string{
	"full_name": "name",
	"name":      "name",
	"nombre":    "name",
	"email":     "email",
	"e_mail":    "email",
	"correo":    "email",
	"mail":      "email",
	"role_name": "role",
	"role":      "role",
	"rol":       "role",
	"title":     "title",
	"cargo":     "title",
}

// ImportContactsCSV creates invites from a contacts CSV. Rows without a
// valid email are reported and skipped; the rest are invited.
func (s *NpsServiceImpl) ImportContactsCSV(ctx context.Context, engagementID string, r io.Reader) (*primary.NpsImportResult, error) {
	if _, err := s.engagementRepo.GetByID(ctx, engagementID); err != nil {
		return nil, err
	}
	rows, err := readCSV(r, maxImportBytes)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, invalidInput("csv is empty")
	}

	cols := map[string]int{}
	for i, h := range rows[0] {
		if key, ok := contactAliases[textnorm.HeaderKey(h)]; ok {
			if _, seen := cols[key]; !seen {
				cols[key] = i
			}
		}
	}
	if _, ok := cols["email"]; !ok {
		return nil, invalidInput("csv has no email column")
	}
	cell := func(row []string, key string) string {
		i, ok := cols[key]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	result := &primary.NpsImportResult{}
	var contacts []primary.NpsContact
	seen := map[string]bool{}
	for n, row := range rows[1:] {
		line := n + 2
		if isBlankRow(row) {
			continue
		}
		c := primary.NpsContact{Name: cell(row, "name"), Email: cell(row, "email"), Role: cell(row, "role")}
		if c.Role == "" {
			c.Role = cell(row, "title")
		}
		if err := checkContact(c); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		key := strings.ToLower(c.Email)
		if seen[key] {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("line %d: duplicate email %s", line, c.Email))
			continue
		}
		seen[key] = true
		contacts = append(contacts, c)
	}
	if len(contacts) == 0 {
		return result, nil
	}

	invites, err := s.CreateInvites(ctx, primary.CreateNpsInvitesRequest{EngagementID: engagementID, Contacts: contacts})
	result.Invites = invites
	if err != nil {
		return result, err
	}
	return result, nil
}

// ContactsTemplateCSV returns the contacts import template.
func (s *NpsServiceImpl) ContactsTemplateCSV() []byte {
	return []byte("\ufefffull_name;email;company;phone;title;role_code;role_name;unit_code;unit_name\n" +
		"Ana Pérez;ana.perez@cliente.cl;Minera Cliente;+56 9 1111 1111;Superintendente;OPS;Operaciones;FN;Faena Norte\n")
}

// SendInvite mails the survey link of one invite and marks it SENT.
func (s *NpsServiceImpl) SendInvite(ctx context.Context, inviteID string) error {
	invite, err := s.npsRepo.GetInviteByID(ctx, inviteID)
	if err != nil {
		return err
	}
	if invite.Status == nps.InviteResponded {
		return refused(fmt.Sprintf("invite %s was already answered", inviteID))
	}
	eng, err := s.engagementRepo.GetByID(ctx, invite.EngagementID)
	if err != nil {
		return err
	}
	msg, err := s.inviteMessage(eng, invite)
	if err != nil {
		return err
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send invite %s: %w", inviteID, err)
	}

	invite.Status = nps.InviteSent
	invite.SentAt = s.now().UTC().Format(time.RFC3339)
	if err := s.npsRepo.UpdateInvite(ctxutil.WithEngagementID(ctx, invite.EngagementID), invite); err != nil {
		return fmt.Errorf("failed to mark invite sent: %w", err)
	}
	s.logger.Info("nps invite sent", zap.String("invite_id", inviteID), zap.String("engagement_id", invite.EngagementID))
	return nil
}

// SendPending mails every PENDING invite. It stops at the first failure and
// reports how many were sent before it.
func (s *NpsServiceImpl) SendPending(ctx context.Context, engagementID string) (int, error) {
	pending, err := s.npsRepo.ListInvites(ctx, secondary.NpsInviteFilters{EngagementID: engagementID, Status: nps.InvitePending})
	if err != nil {
		return 0, fmt.Errorf("failed to list invites: %w", err)
	}
	sent := 0
	for _, invite := range pending {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		if err := s.SendInvite(ctx, invite.ID); err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}

func (s *NpsServiceImpl) inviteMessage(eng *secondary.EngagementRecord, invite *secondary.NpsInviteRecord) (secondary.MailMessage, error) {
	body, err := templates.RenderNpsInvite(eng.Locale, templates.NpsInvite{
		CompanyName: eng.CompanyName,
		Name:        invite.ContactName,
		URL:         s.inviteURL(invite.Token),
	})
	if err != nil {
		return secondary.MailMessage{}, fmt.Errorf("failed to render invite mail: %w", err)
	}
	return secondary.MailMessage{
		To:      invite.ContactEmail,
		Subject: body.Subject,
		Text:    body.Text,
		HTML:    body.HTML,
	}, nil
}

func (s *NpsServiceImpl) inviteURL(token string) string {
	return s.opts.BaseURL + "/nps/" + token
}

// ListInvites returns the invites of an engagement, optionally by status.
func (s *NpsServiceImpl) ListInvites(ctx context.Context, engagementID, status string) ([]*primary.NpsInvite, error) {
	records, err := s.npsRepo.ListInvites(ctx, secondary.NpsInviteFilters{
		EngagementID: engagementID,
		Status:       strings.ToUpper(strings.TrimSpace(status)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list invites: %w", err)
	}
	out := make([]*primary.NpsInvite, len(records))
	for i, r := range records {
		out[i] = s.recordToInvite(r)
	}
	return out, nil
}

// OpenSurvey resolves a public token.
func (s *NpsServiceImpl) OpenSurvey(ctx context.Context, token string) (*primary.NpsSurvey, error) {
	invite, err := s.activeInvite(ctx, token)
	if err != nil {
		return nil, err
	}
	eng, err := s.engagementRepo.GetByID(ctx, invite.EngagementID)
	if err != nil {
		return nil, err
	}
	return &primary.NpsSurvey{
		InviteID:    invite.ID,
		CompanyName: eng.CompanyName,
		ContactName: invite.ContactName,
		Locale:      eng.Locale,
		Answered:    invite.Status == nps.InviteResponded,
		Reasons:     nps.Reasons,
		Focuses:     nps.Focuses,
	}, nil
}

// activeInvite looks up a token and refuses expired invites. An expired
// invite that was never answered is marked EXPIRED.
func (s *NpsServiceImpl) activeInvite(ctx context.Context, token string) (*secondary.NpsInviteRecord, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, invalidInput("token is required")
	}
	invite, err := s.npsRepo.GetInviteByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if invite.Status == nps.InviteResponded {
		return invite, nil
	}
	if invite.Status == nps.InviteExpired {
		return nil, primary.ErrTokenExpired
	}
	if invite.ExpiresAt != "" {
		expiry, err := time.Parse(time.RFC3339, invite.ExpiresAt)
		if err == nil && s.now().After(expiry) {
			invite.Status = nps.InviteExpired
			if err := s.npsRepo.UpdateInvite(ctxutil.WithEngagementID(ctx, invite.EngagementID), invite); err != nil {
				s.logger.Warn("failed to mark invite expired", zap.String("invite_id", invite.ID), zap.Error(err))
			}
			return nil, primary.ErrTokenExpired
		}
	}
	return invite, nil
}

// SubmitResponse records the single response of an invite.
func (s *NpsServiceImpl) SubmitResponse(ctx context.Context, req primary.SubmitNpsRequest) error {
	if err := nps.ValidateScore(req.Score); err != nil {
		return invalidInput("%s", err.Error())
	}
	invite, err := s.activeInvite(ctx, req.Token)
	if err != nil {
		return err
	}
	if invite.Status == nps.InviteResponded {
		return primary.ErrAlreadySubmitted
	}

	now := s.now().UTC().Format(time.RFC3339)
	ctx = ctxutil.WithEngagementID(ctx, invite.EngagementID)
	err = s.npsRepo.CreateResponse(ctx, &secondary.NpsResponseRecord{
		InviteID:    invite.ID,
		Score:       int(req.Score),
		Reason:      nps.FilterChoice(req.Reason, nps.Reasons),
		Focus:       nps.FilterChoice(req.Focus, nps.Focuses),
		Comment:     nps.TrimComment(req.Comment),
		UserAgent:   strings.TrimSpace(req.UserAgent),
		IPHash:      nps.HashIP(req.ClientIP),
		SubmittedAt: now,
	})
	if errors.Is(err, secondary.ErrConflict) {
		return primary.ErrAlreadySubmitted
	}
	if err != nil {
		return fmt.Errorf("failed to save response: %w", err)
	}

	invite.Status = nps.InviteResponded
	invite.RespondedAt = now
	if err := s.npsRepo.UpdateInvite(ctx, invite); err != nil {
		return fmt.Errorf("failed to mark invite answered: %w", err)
	}
	s.logger.Info("nps response recorded", zap.String("invite_id", invite.ID), zap.String("bucket", nps.Bucket(int(req.Score))))
	return nil
}

// GetMetrics aggregates the responses of an engagement.
func (s *NpsServiceImpl) GetMetrics(ctx context.Context, engagementID string) (*primary.NpsMetrics, error) {
	invites, err := s.npsRepo.ListInvites(ctx, secondary.NpsInviteFilters{EngagementID: engagementID})
	if err != nil {
		return nil, fmt.Errorf("failed to list invites: %w", err)
	}
	responses, err := s.npsRepo.ListResponses(ctx, engagementID)
	if err != nil {
		return nil, fmt.Errorf("failed to list responses: %w", err)
	}

	scores := make([]float64, len(responses))
	var comments []string
	for i, r := range responses {
		scores[i] = float64(r.Score)
		if r.Comment != "" {
			comments = append(comments, r.Comment)
		}
	}
	m := nps.Compute(scores)

	out := &primary.NpsMetrics{
		Invited:      len(invites),
		Responded:    len(responses),
		Total:        m.Total,
		Promoters:    m.Promoters,
		Passives:     m.Passives,
		Detractors:   m.Detractors,
		NPS:          m.NPS,
		Distribution: make([]int, len(m.Distribution)),
		Comments:     comments,
	}
	for i, slot := range m.Distribution {
		out.Distribution[i] = slot.Count
	}
	return out, nil
}

func (s *NpsServiceImpl) recordToInvite(r *secondary.NpsInviteRecord) *primary.NpsInvite {
	return &primary.NpsInvite{
		ID:           r.ID,
		EngagementID: r.EngagementID,
		ContactName:  r.ContactName,
		ContactEmail: r.ContactEmail,
		ContactRole:  r.ContactRole,
		Token:        r.Token,
		URL:          s.inviteURL(r.Token),
		Status:       r.Status,
		SentAt:       r.SentAt,
		RespondedAt:  r.RespondedAt,
		ExpiresAt:    r.ExpiresAt,
	}
}

var _ primary.NpsService = (*NpsServiceImpl)(nil)
