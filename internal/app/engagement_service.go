package app

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/example/see/internal/core/engagement"
	"github.com/example/see/internal/ctxutil"
	"github.com/example/see/internal/ports/primary"
	"github.com/example/see/internal/ports/secondary"
)

// EngagementServiceImpl implements the EngagementService interface.
type EngagementServiceImpl struct {
	engagementRepo secondary.EngagementRepository
	auditRepo      secondary.AuditLogRepository
	logger         *zap.Logger
}

// NewEngagementService creates a new EngagementService with injected dependencies.
func NewEngagementService(
	engagementRepo secondary.EngagementRepository,
	auditRepo secondary.AuditLogRepository,
	logger *zap.Logger,
) *EngagementServiceImpl {
	return &EngagementServiceImpl{
		engagementRepo: engagementRepo,
		auditRepo:      auditRepo,
		logger:         logger,
	}
}

// CreateEngagement creates a new engagement in DRAFT.
func (s *EngagementServiceImpl) CreateEngagement(ctx context.Context, req primary.CreateEngagementRequest) (*primary.Engagement, error) {
	locale := strings.ToLower(strings.TrimSpace(req.Locale))
	if locale == "" {
		locale = engagement.LocaleES
	}

	guardCtx := engagement.CreateEngagementContext{
		CompanyName: req.CompanyName,
		Locale:      locale,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}
	if result := engagement.CanCreateEngagement(guardCtx); !result.Allowed {
		return nil, refused(result.Reason)
	}

	nextID, err := s.engagementRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate engagement ID: %w", err)
	}

	record := &secondary.EngagementRecord{
		ID:                nextID,
		CompanyName:       strings.TrimSpace(req.CompanyName),
		Name:              strings.TrimSpace(req.Name),
		ClientContact:     req.ClientContact,
		Industry:          req.Industry,
		Status:            engagement.StatusDraft,
		Locale:            locale,
		BusinessContext:   req.BusinessContext,
		Goals:             req.Goals,
		Constraints:       req.Constraints,
		SuccessDefinition: req.SuccessDefinition,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
	}

	ctx = ctxutil.WithEngagementID(ctx, nextID)
	if err := s.engagementRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create engagement: %w", err)
	}

	created, err := s.engagementRepo.GetByID(ctx, nextID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch created engagement: %w", err)
	}
	s.logger.Info("engagement created", zap.String("engagement_id", nextID), zap.String("company", record.CompanyName))
	return recordToEngagement(created), nil
}

// GetEngagement retrieves an engagement by ID.
func (s *EngagementServiceImpl) GetEngagement(ctx context.Context, engagementID string) (*primary.Engagement, error) {
	record, err := s.engagementRepo.GetByID(ctx, engagementID)
	if err != nil {
		return nil, err
	}
	return recordToEngagement(record), nil
}

// ListEngagements lists engagements with optional filters.
func (s *EngagementServiceImpl) ListEngagements(ctx context.Context, filters primary.EngagementFilters) ([]*primary.Engagement, error) {
	records, err := s.engagementRepo.List(ctx, secondary.EngagementFilters{
		Status: filters.Status,
		Limit:  filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list engagements: %w", err)
	}

	engagements := make([]*primary.Engagement, len(records))
	for i, r := range records {
		engagements[i] = recordToEngagement(r)
	}
	return engagements, nil
}

// UpdateEngagement updates the descriptive fields of an engagement.
func (s *EngagementServiceImpl) UpdateEngagement(ctx context.Context, req primary.UpdateEngagementRequest) (*primary.Engagement, error) {
	record, err := s.engagementRepo.GetByID(ctx, req.EngagementID)
	if err != nil {
		return nil, err
	}

	setIfPresent(&record.CompanyName, req.CompanyName)
	setIfPresent(&record.Name, req.Name)
	setIfPresent(&record.ClientContact, req.ClientContact)
	setIfPresent(&record.Industry, req.Industry)
	setIfPresent(&record.Locale, strings.ToLower(req.Locale))
	setIfPresent(&record.BusinessContext, req.BusinessContext)
	setIfPresent(&record.Goals, req.Goals)
	setIfPresent(&record.Constraints, req.Constraints)
	setIfPresent(&record.SuccessDefinition, req.SuccessDefinition)
	setIfPresent(&record.StartDate, req.StartDate)
	setIfPresent(&record.EndDate, req.EndDate)

	guardCtx := engagement.CreateEngagementContext{
		CompanyName: record.CompanyName,
		Locale:      record.Locale,
		StartDate:   record.StartDate,
		EndDate:     record.EndDate,
	}
	if result := engagement.CanCreateEngagement(guardCtx); !result.Allowed {
		return nil, refused(result.Reason)
	}

	ctx = ctxutil.WithEngagementID(ctx, record.ID)
	if err := s.engagementRepo.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to update engagement: %w", err)
	}
	return s.GetEngagement(ctx, record.ID)
}

// ActivateEngagement moves a DRAFT engagement to ACTIVE.
func (s *EngagementServiceImpl) ActivateEngagement(ctx context.Context, engagementID string) error {
	return s.transition(ctx, engagementID, engagement.StatusActive, engagement.CanActivate)
}

// CloseEngagement closes an ACTIVE engagement.
func (s *EngagementServiceImpl) CloseEngagement(ctx context.Context, engagementID string) error {
	return s.transition(ctx, engagementID, engagement.StatusClosed, engagement.CanClose)
}

// ReopenEngagement moves a CLOSED engagement back to ACTIVE.
func (s *EngagementServiceImpl) ReopenEngagement(ctx context.Context, engagementID string) error {
	return s.transition(ctx, engagementID, engagement.StatusActive, engagement.CanReopen)
}

func (s *EngagementServiceImpl) transition(
	ctx context.Context,
	engagementID, target string,
	guard func(engagement.StatusContext) engagement.GuardResult,
) error {
	record, err := s.engagementRepo.GetByID(ctx, engagementID)
	if err != nil {
		return err
	}
	if result := guard(engagement.StatusContext{EngagementID: engagementID, Status: record.Status}); !result.Allowed {
		return refused(result.Reason)
	}

	ctx = ctxutil.WithEngagementID(ctx, engagementID)
	if err := s.engagementRepo.UpdateStatus(ctx, engagementID, target); err != nil {
		return fmt.Errorf("failed to update engagement status: %w", err)
	}
	s.logger.Info("engagement status changed",
		zap.String("engagement_id", engagementID),
		zap.String("from", record.Status),
		zap.String("to", target))
	return nil
}

// DeleteEngagement deletes a DRAFT or CLOSED engagement.
func (s *EngagementServiceImpl) DeleteEngagement(ctx context.Context, engagementID string) error {
	record, err := s.engagementRepo.GetByID(ctx, engagementID)
	if err != nil {
		return err
	}
	if result := engagement.CanDelete(engagement.StatusContext{EngagementID: engagementID, Status: record.Status}); !result.Allowed {
		return refused(result.Reason)
	}

	if err := s.engagementRepo.Delete(ctxutil.WithEngagementID(ctx, engagementID), engagementID); err != nil {
		return fmt.Errorf("failed to delete engagement: %w", err)
	}
	s.logger.Info("engagement deleted", zap.String("engagement_id", engagementID))
	return nil
}

// CountActive returns the number of ACTIVE engagements.
func (s *EngagementServiceImpl) CountActive(ctx context.Context) (int, error) {
	n, err := s.engagementRepo.CountByStatus(ctx, engagement.StatusActive)
	if err != nil {
		return 0, fmt.Errorf("failed to count active engagements: %w", err)
	}
	return n, nil
}

// ListAudit returns the audit trail of an engagement, newest first.
func (s *EngagementServiceImpl) ListAudit(ctx context.Context, engagementID string, limit int) ([]*primary.AuditEntry, error) {
	records, err := s.auditRepo.List(ctx, secondary.AuditLogFilters{EngagementID: engagementID, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("failed to list audit log: %w", err)
	}

	entries := make([]*primary.AuditEntry, len(records))
	for i, r := range records {
		entries[i] = &primary.AuditEntry{
			ID:         r.ID,
			Actor:      r.Actor,
			EntityType: r.EntityType,
			EntityID:   r.EntityID,
			Action:     r.Action,
			FieldName:  r.FieldName,
			OldValue:   r.OldValue,
			NewValue:   r.NewValue,
			CreatedAt:  r.CreatedAt,
		}
	}
	return entries, nil
}

func setIfPresent(dst *string, v string) {
	if strings.TrimSpace(v) != "" {
		*dst = strings.TrimSpace(v)
	}
}

func recordToEngagement(r *secondary.EngagementRecord) *primary.Engagement {
	return &primary.Engagement{
		ID:                r.ID,
		CompanyName:       r.CompanyName,
		Name:              r.Name,
		ClientContact:     r.ClientContact,
		Industry:          r.Industry,
		Status:            r.Status,
		Locale:            r.Locale,
		BusinessContext:   r.BusinessContext,
		Goals:             r.Goals,
		Constraints:       r.Constraints,
		SuccessDefinition: r.SuccessDefinition,
		StartDate:         r.StartDate,
		EndDate:           r.EndDate,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
		ClosedAt:          r.ClosedAt,
	}
}

var _ primary.EngagementService = (*EngagementServiceImpl)(nil)
