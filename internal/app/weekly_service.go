package app

import (
	"bytes"
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/see/internal/core/weekly"
	"github.com/example/see/internal/ctxutil"
	"github.com/example/see/internal/ids"
	"github.com/example/see/internal/ports/primary"
	"github.com/example/see/internal/ports/secondary"
)

// WeeklyOptions configures report links.
type WeeklyOptions struct {
	BaseURL       string
	AdminToken    string
	ExpiresInDays int
}

// WeeklyReportServiceImpl implements the WeeklyReportService interface.
type WeeklyReportServiceImpl struct {
	engagementRepo secondary.EngagementRepository
	faenaRepo      secondary.FaenaRepository
	weeklyRepo     secondary.WeeklyReportRepository
	opts           WeeklyOptions
	logger         *zap.Logger
	now            func() time.Time
}

// NewWeeklyReportService creates a new WeeklyReportService with injected dependencies.
func NewWeeklyReportService(
	engagementRepo secondary.EngagementRepository,
	faenaRepo secondary.FaenaRepository,
	weeklyRepo secondary.WeeklyReportRepository,
	opts WeeklyOptions,
	logger *zap.Logger,
) *WeeklyReportServiceImpl {
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	opts.AdminToken = strings.TrimSpace(opts.AdminToken)
	return &WeeklyReportServiceImpl{
		engagementRepo: engagementRepo,
		faenaRepo:      faenaRepo,
		weeklyRepo:     weeklyRepo,
		opts:           opts,
		logger:         logger,
		now:            time.Now,
	}
}

// CreateFaena registers a site under an engagement.
func (s *WeeklyReportServiceImpl) CreateFaena(ctx context.Context, req primary.CreateFaenaRequest) (*primary.Faena, error) {
	if _, err := s.engagementRepo.GetByID(ctx, req.EngagementID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, invalidInput("faena name is required")
	}
	id, err := s.faenaRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get next faena ID: %w", err)
	}
	record := &secondary.FaenaRecord{
		ID:           id,
		EngagementID: req.EngagementID,
		Name:         name,
		Code:         strings.TrimSpace(req.Code),
	}
	if err := s.faenaRepo.Create(ctxutil.WithEngagementID(ctx, req.EngagementID), record); err != nil {
		return nil, fmt.Errorf("failed to create faena: %w", err)
	}
	return recordToFaena(record), nil
}

// ListFaenas returns the sites of an engagement.
func (s *WeeklyReportServiceImpl) ListFaenas(ctx context.Context, engagementID string) ([]*primary.Faena, error) {
	records, err := s.faenaRepo.List(ctx, engagementID)
	if err != nil {
		return nil, fmt.Errorf("failed to list faenas: %w", err)
	}
	out := make([]*primary.Faena, len(records))
	for i, r := range records {
		out[i] = recordToFaena(r)
	}
	return out, nil
}

// CreateLink issues a token for (faena, week) and makes sure the draft
// report exists. A report that already had a token loses the old one.
func (s *WeeklyReportServiceImpl) CreateLink(ctx context.Context, req primary.CreateWeeklyLinkRequest) (*primary.WeeklyLink, error) {
	if err := s.Authorize(req.AdminToken); err != nil {
		return nil, err
	}
	faena, err := s.faenaRepo.GetByID(ctx, req.FaenaID)
	if err != nil {
		return nil, err
	}
	if req.EngagementID != "" && faena.EngagementID != req.EngagementID {
		return nil, invalidInput("faena %s does not belong to engagement %s", faena.ID, req.EngagementID)
	}

	days := req.ExpiresInDays
	if days == 0 {
		days = s.opts.ExpiresInDays
	}
	window, err := weekly.ResolveWindow(req.WeekStart, req.WeekEnd, days, s.now().UTC())
	if err != nil {
		return nil, invalidInput("%s", err.Error())
	}

	value, err := ids.NewToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	ctx = ctxutil.WithEngagementID(ctx, faena.EngagementID)
	token := &secondary.WeeklyTokenRecord{
		Token:        value,
		EngagementID: faena.EngagementID,
		FaenaID:      faena.ID,
		WeekStart:    weekly.WeekKey(window.Start),
		WeekEnd:      weekly.WeekKey(window.End),
		ExpiresAt:    window.ExpiresAt.Format(time.RFC3339),
	}
	if err := s.weeklyRepo.CreateToken(ctx, token); err != nil {
		return nil, fmt.Errorf("failed to create link: %w", err)
	}

	report, err := s.weeklyRepo.GetReportByWeek(ctx, faena.ID, token.WeekStart)
	switch {
	case errors.Is(err, secondary.ErrNotFound):
		if report, err = s.createDraft(ctx, token); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, fmt.Errorf("failed to look up report: %w", err)
	default:
		previous := report.TokenID
		report.TokenID = token.ID
		if err := s.weeklyRepo.UpdateReport(ctx, report); err != nil {
			return nil, fmt.Errorf("failed to re-point report: %w", err)
		}
		if previous != "" {
			if err := s.weeklyRepo.DeleteToken(ctx, previous); err != nil && !errors.Is(err, secondary.ErrNotFound) {
				return nil, fmt.Errorf("failed to retire previous link: %w", err)
			}
		}
	}

	s.logger.Info("weekly report link created",
		zap.String("engagement_id", faena.EngagementID),
		zap.String("faena_id", faena.ID),
		zap.String("week_key", token.WeekStart),
		zap.String("report_id", report.ID))

	return &primary.WeeklyLink{
		Token:     token.Token,
		URL:       s.linkURL(token.Token),
		ReportID:  report.ID,
		WeekKey:   token.WeekStart,
		WeekStart: token.WeekStart,
		WeekEnd:   token.WeekEnd,
		ExpiresAt: token.ExpiresAt,
	}, nil
}

// Authorize checks an admin token. With no token configured every caller
// is refused.
func (s *WeeklyReportServiceImpl) Authorize(adminToken string) error {
	if s.opts.AdminToken == "" {
		return primary.ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(strings.TrimSpace(adminToken)), []byte(s.opts.AdminToken)) != 1 {
		return primary.ErrUnauthorized
	}
	return nil
}

func (s *WeeklyReportServiceImpl) linkURL(token string) string {
	return s.opts.BaseURL + "/api/weekly-report/by-token?token=" + url.QueryEscape(token)
}

// OpenByToken resolves a link, stamps it as opened and returns the report,
// creating the draft on first use.
func (s *WeeklyReportServiceImpl) OpenByToken(ctx context.Context, token string) (*primary.WeeklyReportForm, error) {
	row, err := s.activeToken(ctx, token)
	if err != nil {
		return nil, err
	}
	ctx = ctxutil.WithEngagementID(ctx, row.EngagementID)
	if err := s.weeklyRepo.TouchToken(ctx, row.ID, s.now().UTC().Format(time.RFC3339), false); err != nil {
		return nil, fmt.Errorf("failed to stamp link: %w", err)
	}
	report, err := s.reportForToken(ctx, row)
	if err != nil {
		return nil, err
	}

	form := &primary.WeeklyReportForm{Report: recordToWeeklyReport(report), ExpiresAt: row.ExpiresAt}
	if eng, err := s.engagementRepo.GetByID(ctx, row.EngagementID); err == nil {
		form.CompanyName = eng.CompanyName
	}
	return form, nil
}

// Submit validates the payload and stores it on the link's report.
// Resubmitting before the link expires overwrites the previous answers.
func (s *WeeklyReportServiceImpl) Submit(ctx context.Context, req primary.SubmitWeeklyReportRequest) (*primary.WeeklyReport, error) {
	if len(bytes.TrimSpace(req.Payload)) == 0 {
		return nil, invalidInput("payload is required")
	}
	var payload weekly.Payload
	if err := json.Unmarshal(req.Payload, &payload); err != nil {
		return nil, invalidInput("invalid payload: %s", err.Error())
	}
	if err := payload.Validate(); err != nil {
		return nil, invalidInput("%s", err.Error())
	}

	row, err := s.activeToken(ctx, req.Token)
	if err != nil {
		return nil, err
	}
	ctx = ctxutil.WithEngagementID(ctx, row.EngagementID)
	report, err := s.reportForToken(ctx, row)
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}
	at := s.now().UTC().Format(time.RFC3339)
	report.Status = weekly.StatusSubmitted
	report.Semaphore = payload.Semaphore
	report.PayloadJSON = string(encoded)
	report.TokenID = row.ID
	report.SubmittedAt = at
	if err := s.weeklyRepo.UpdateReport(ctx, report); err != nil {
		return nil, fmt.Errorf("failed to submit weekly report: %w", err)
	}
	if err := s.weeklyRepo.TouchToken(ctx, row.ID, at, true); err != nil {
		return nil, fmt.Errorf("failed to stamp link: %w", err)
	}

	s.logger.Info("weekly report submitted",
		zap.String("report_id", report.ID),
		zap.String("faena_id", report.FaenaID),
		zap.String("semaphore", report.Semaphore))
	if payload.NeedsSupport != nil && *payload.NeedsSupport {
		s.logger.Warn("site requested support",
			zap.String("faena_id", report.FaenaID),
			zap.Strings("support_types", payload.SupportTypes))
	}

	stored, err := s.weeklyRepo.GetReportByID(ctx, report.ID)
	if err != nil {
		return nil, err
	}
	return recordToWeeklyReport(stored), nil
}

// activeToken looks up a public token and refuses expired ones.
func (s *WeeklyReportServiceImpl) activeToken(ctx context.Context, token string) (*secondary.WeeklyTokenRecord, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, invalidInput("token is required")
	}
	row, err := s.weeklyRepo.GetToken(ctx, token)
	if err != nil {
		return nil, err
	}
	expiry, err := time.Parse(time.RFC3339, row.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("weekly report token %s has a malformed expiry %q", row.ID, row.ExpiresAt)
	}
	if s.now().After(expiry) {
		return nil, primary.ErrTokenExpired
	}
	return row, nil
}

// reportForToken returns the report of the token's week, creating the
// draft when none exists yet.
func (s *WeeklyReportServiceImpl) reportForToken(ctx context.Context, row *secondary.WeeklyTokenRecord) (*secondary.WeeklyReportRecord, error) {
	start, err := weekly.ParseDate(row.WeekStart)
	if err != nil {
		return nil, err
	}
	report, err := s.weeklyRepo.GetReportByWeek(ctx, row.FaenaID, weekly.WeekKey(start))
	if errors.Is(err, secondary.ErrNotFound) {
		return s.createDraft(ctx, row)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up report: %w", err)
	}
	return report, nil
}

func (s *WeeklyReportServiceImpl) createDraft(ctx context.Context, row *secondary.WeeklyTokenRecord) (*secondary.WeeklyReportRecord, error) {
	id, err := s.weeklyRepo.GetNextReportID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get next report ID: %w", err)
	}
	draft := &secondary.WeeklyReportRecord{
		ID:           id,
		EngagementID: row.EngagementID,
		FaenaID:      row.FaenaID,
		WeekKey:      row.WeekStart,
		WeekStart:    row.WeekStart,
		WeekEnd:      row.WeekEnd,
		Status:       weekly.StatusDraft,
		Semaphore:    weekly.Green,
		TokenID:      row.ID,
	}
	if err := s.weeklyRepo.CreateReport(ctx, draft); err != nil {
		return nil, fmt.Errorf("failed to create draft report: %w", err)
	}
	return s.weeklyRepo.GetReportByID(ctx, id)
}

// GetReport retrieves a report by ID.
func (s *WeeklyReportServiceImpl) GetReport(ctx context.Context, reportID string) (*primary.WeeklyReport, error) {
	record, err := s.weeklyRepo.GetReportByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	return recordToWeeklyReport(record), nil
}

// ListReports lists reports newest week first.
func (s *WeeklyReportServiceImpl) ListReports(ctx context.Context, filters primary.WeeklyReportFilters) ([]*primary.WeeklyReport, error) {
	records, err := s.weeklyRepo.ListReports(ctx, secondary.WeeklyReportFilters{
		EngagementID: filters.EngagementID,
		FaenaID:      filters.FaenaID,
		Status:       strings.ToUpper(strings.TrimSpace(filters.Status)),
		Limit:        filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list weekly reports: %w", err)
	}
	out := make([]*primary.WeeklyReport, len(records))
	for i, r := range records {
		out[i] = recordToWeeklyReport(r)
	}
	return out, nil
}

func recordToFaena(r *secondary.FaenaRecord) *primary.Faena {
	return &primary.Faena{ID: r.ID, EngagementID: r.EngagementID, Name: r.Name, Code: r.Code}
}

// recordToWeeklyReport derives the compliance percentages from the stored
// payload. A payload that no longer decodes is returned without them.
func recordToWeeklyReport(r *secondary.WeeklyReportRecord) *primary.WeeklyReport {
	report := &primary.WeeklyReport{
		ID:           r.ID,
		EngagementID: r.EngagementID,
		FaenaID:      r.FaenaID,
		FaenaName:    r.FaenaName,
		WeekKey:      r.WeekKey,
		WeekStart:    r.WeekStart,
		WeekEnd:      r.WeekEnd,
		Status:       r.Status,
		Semaphore:    r.Semaphore,
		SubmittedAt:  r.SubmittedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if r.PayloadJSON == "" {
		return report
	}
	report.Payload = json.RawMessage(r.PayloadJSON)
	var payload weekly.Payload
	if err := json.Unmarshal([]byte(r.PayloadJSON), &payload); err == nil {
		report.M2CompliancePct = payload.M2CompliancePct()
		report.ShiftCompliancePct = payload.ShiftCompliancePct()
	}
	return report
}

var _ primary.WeeklyReportService = (*WeeklyReportServiceImpl)(nil)
