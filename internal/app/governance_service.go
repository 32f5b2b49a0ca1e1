package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/see/internal/core/governance"
	"github.com/example/see/internal/ctxutil"
	"github.com/example/see/internal/ports/primary"
	"github.com/example/see/internal/ports/secondary"
)

// GovernanceServiceImpl implements the GovernanceService interface.
type GovernanceServiceImpl struct {
	engagementRepo secondary.EngagementRepository
	actionRepo     secondary.ActionItemRepository
	decisionRepo   secondary.DecisionRepository
	raciRepo       secondary.RaciRepository
	logger         *zap.Logger
	now            func() time.Time
}

// NewGovernanceService creates a new GovernanceService with injected dependencies.
func NewGovernanceService(
	engagementRepo secondary.EngagementRepository,
	actionRepo secondary.ActionItemRepository,
	decisionRepo secondary.DecisionRepository,
	raciRepo secondary.RaciRepository,
	logger *zap.Logger,
) *GovernanceServiceImpl {
	return &GovernanceServiceImpl{
		engagementRepo: engagementRepo,
		actionRepo:     actionRepo,
		decisionRepo:   decisionRepo,
		raciRepo:       raciRepo,
		logger:         logger,
		now:            time.Now,
	}
}

// CreateAction adds an item to the action board.
func (s *GovernanceServiceImpl) CreateAction(ctx context.Context, req primary.CreateActionRequest) (*primary.ActionItem, error) {
	_, exists, err := lookupEngagement(ctx, s.engagementRepo, req.EngagementID)
	if err != nil {
		return nil, err
	}
	dueDate := strings.TrimSpace(req.DueDate)
	guard := governance.CanCreateAction(governance.CreateActionContext{
		EngagementID:     req.EngagementID,
		EngagementExists: exists,
		Task:             req.Task,
		DueDate:          dueDate,
	})
	if !guard.Allowed {
		return nil, refused(guard.Reason)
	}
	status, ok := governance.NormalizeActionStatus(req.Status)
	if !ok {
		return nil, invalidInput("unknown action status %q", req.Status)
	}

	nextID, err := s.actionRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate action ID: %w", err)
	}
	record := &secondary.ActionItemRecord{
		ID:           nextID,
		EngagementID: req.EngagementID,
		Task:         strings.TrimSpace(req.Task),
		Owner:        strings.TrimSpace(req.Owner),
		DueDate:      dueDate,
		Status:       status,
		Blocker:      strings.TrimSpace(req.Blocker),
		Comments:     strings.TrimSpace(req.Comments),
	}
	if err := s.actionRepo.Create(ctxutil.WithEngagementID(ctx, req.EngagementID), record); err != nil {
		return nil, fmt.Errorf("failed to create action: %w", err)
	}
	return recordToAction(record, s.now()), nil
}

// ListActions returns the action board ordered by due date.
func (s *GovernanceServiceImpl) ListActions(ctx context.Context, engagementID, status string, today time.Time) ([]*primary.ActionItem, error) {
	if status != "" {
		normalized, ok := governance.NormalizeActionStatus(status)
		if !ok {
			return nil, invalidInput("unknown action status %q", status)
		}
		status = normalized
	}
	records, err := s.actionRepo.List(ctx, secondary.ActionItemFilters{EngagementID: engagementID, Status: status})
	if err != nil {
		return nil, fmt.Errorf("failed to list actions: %w", err)
	}
	out := make([]*primary.ActionItem, len(records))
	for i, r := range records {
		out[i] = recordToAction(r, today)
	}
	return out, nil
}

// UpdateActionStatus moves an action on the board.
func (s *GovernanceServiceImpl) UpdateActionStatus(ctx context.Context, actionID, status string) error {
	normalized, ok := governance.NormalizeActionStatus(status)
	if !ok || strings.TrimSpace(status) == "" {
		return invalidInput("unknown action status %q", status)
	}
	record, err := s.actionRepo.GetByID(ctx, actionID)
	if err != nil {
		return err
	}
	record.Status = normalized
	if err := s.actionRepo.Update(ctxutil.WithEngagementID(ctx, record.EngagementID), record); err != nil {
		return fmt.Errorf("failed to update action: %w", err)
	}
	return nil
}

// DeleteAction removes an action.
func (s *GovernanceServiceImpl) DeleteAction(ctx context.Context, actionID string) error {
	record, err := s.actionRepo.GetByID(ctx, actionID)
	if err != nil {
		return err
	}
	if err := s.actionRepo.Delete(ctxutil.WithEngagementID(ctx, record.EngagementID), actionID); err != nil {
		return fmt.Errorf("failed to delete action: %w", err)
	}
	return nil
}

// CreateDecision logs a decision. The date defaults to today.
func (s *GovernanceServiceImpl) CreateDecision(ctx context.Context, req primary.CreateDecisionRequest) (*primary.Decision, error) {
	_, exists, err := lookupEngagement(ctx, s.engagementRepo, req.EngagementID)
	if err != nil {
		return nil, err
	}
	guard := governance.CanCreateDecision(governance.CreateDecisionContext{
		EngagementID:     req.EngagementID,
		EngagementExists: exists,
		Decision:         req.Decision,
	})
	if !guard.Allowed {
		return nil, refused(guard.Reason)
	}
	status, ok := governance.NormalizeDecisionStatus(req.Status)
	if !ok {
		return nil, invalidInput("unknown decision status %q", req.Status)
	}
	decidedOn := strings.TrimSpace(req.DecidedOn)
	if decidedOn == "" {
		decidedOn = s.now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", decidedOn); err != nil {
		return nil, invalidInput("invalid decision date %q: want YYYY-MM-DD", decidedOn)
	}

	nextID, err := s.decisionRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate decision ID: %w", err)
	}
	record := &secondary.DecisionRecord{
		ID:             nextID,
		EngagementID:   req.EngagementID,
		DecidedOn:      decidedOn,
		Decision:       strings.TrimSpace(req.Decision),
		Options:        strings.TrimSpace(req.Options),
		Recommendation: strings.TrimSpace(req.Recommendation),
		Responsible:    strings.TrimSpace(req.Responsible),
		Status:         status,
		Notes:          strings.TrimSpace(req.Notes),
	}
	if err := s.decisionRepo.Create(ctxutil.WithEngagementID(ctx, req.EngagementID), record); err != nil {
		return nil, fmt.Errorf("failed to create decision: %w", err)
	}
	s.logger.Info("decision logged", zap.String("engagement_id", req.EngagementID), zap.String("decision_id", nextID))
	return recordToDecision(record), nil
}

// ListDecisions returns the decision log, newest first.
func (s *GovernanceServiceImpl) ListDecisions(ctx context.Context, engagementID string) ([]*primary.Decision, error) {
	records, err := s.decisionRepo.List(ctx, engagementID)
	if err != nil {
		return nil, fmt.Errorf("failed to list decisions: %w", err)
	}
	out := make([]*primary.Decision, len(records))
	for i, r := range records {
		out[i] = recordToDecision(r)
	}
	return out, nil
}

// UpdateDecisionStatus approves, rejects or defers a decision.
func (s *GovernanceServiceImpl) UpdateDecisionStatus(ctx context.Context, decisionID, status string) error {
	normalized, ok := governance.NormalizeDecisionStatus(status)
	if !ok || strings.TrimSpace(status) == "" {
		return invalidInput("unknown decision status %q", status)
	}
	record, err := s.decisionRepo.GetByID(ctx, decisionID)
	if err != nil {
		return err
	}
	record.Status = normalized
	if err := s.decisionRepo.Update(ctxutil.WithEngagementID(ctx, record.EngagementID), record); err != nil {
		return fmt.Errorf("failed to update decision: %w", err)
	}
	return nil
}

// DeleteDecision removes a decision.
func (s *GovernanceServiceImpl) DeleteDecision(ctx context.Context, decisionID string) error {
	record, err := s.decisionRepo.GetByID(ctx, decisionID)
	if err != nil {
		return err
	}
	if err := s.decisionRepo.Delete(ctxutil.WithEngagementID(ctx, record.EngagementID), decisionID); err != nil {
		return fmt.Errorf("failed to delete decision: %w", err)
	}
	return nil
}

// CreateRaciRow adds a RACI matrix row.
func (s *GovernanceServiceImpl) CreateRaciRow(ctx context.Context, req primary.CreateRaciRequest) (*primary.RaciRow, error) {
	_, exists, err := lookupEngagement(ctx, s.engagementRepo, req.EngagementID)
	if err != nil {
		return nil, err
	}
	guard := governance.CanCreateRaci(governance.CreateRaciContext{
		EngagementID:     req.EngagementID,
		EngagementExists: exists,
		Initiative:       req.Initiative,
		Responsible:      req.Responsible,
		Accountable:      req.Accountable,
	})
	if !guard.Allowed {
		return nil, refused(guard.Reason)
	}

	nextID, err := s.raciRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate RACI ID: %w", err)
	}
	record := &secondary.RaciRecord{
		ID:           nextID,
		EngagementID: req.EngagementID,
		Initiative:   strings.TrimSpace(req.Initiative),
		Responsible:  strings.TrimSpace(req.Responsible),
		Accountable:  strings.TrimSpace(req.Accountable),
		Consulted:    strings.TrimSpace(req.Consulted),
		Informed:     strings.TrimSpace(req.Informed),
	}
	if err := s.raciRepo.Create(ctxutil.WithEngagementID(ctx, req.EngagementID), record); err != nil {
		return nil, fmt.Errorf("failed to create RACI row: %w", err)
	}
	return recordToRaci(record), nil
}

// ListRaciRows returns the RACI matrix.
func (s *GovernanceServiceImpl) ListRaciRows(ctx context.Context, engagementID string) ([]*primary.RaciRow, error) {
	records, err := s.raciRepo.List(ctx, engagementID)
	if err != nil {
		return nil, fmt.Errorf("failed to list RACI rows: %w", err)
	}
	out := make([]*primary.RaciRow, len(records))
	for i, r := range records {
		out[i] = recordToRaci(r)
	}
	return out, nil
}

// DeleteRaciRow removes a RACI row.
func (s *GovernanceServiceImpl) DeleteRaciRow(ctx context.Context, rowID string) error {
	return s.raciRepo.Delete(ctx, rowID)
}

func recordToAction(r *secondary.ActionItemRecord, today time.Time) *primary.ActionItem {
	return &primary.ActionItem{
		ID:       r.ID,
		Task:     r.Task,
		Owner:    r.Owner,
		DueDate:  r.DueDate,
		Status:   r.Status,
		Blocker:  r.Blocker,
		Comments: r.Comments,
		Overdue:  governance.IsOverdue(r.Status, r.DueDate, today),
	}
}

func recordToDecision(r *secondary.DecisionRecord) *primary.Decision {
	return &primary.Decision{
		ID:             r.ID,
		DecidedOn:      r.DecidedOn,
		Decision:       r.Decision,
		Options:        r.Options,
		Recommendation: r.Recommendation,
		Responsible:    r.Responsible,
		Status:         r.Status,
		Notes:          r.Notes,
	}
}

func recordToRaci(r *secondary.RaciRecord) *primary.RaciRow {
	return &primary.RaciRow{
		ID:          r.ID,
		Initiative:  r.Initiative,
		Responsible: r.Responsible,
		Accountable: r.Accountable,
		Consulted:   r.Consulted,
		Informed:    r.Informed,
	}
}

var _ primary.GovernanceService = (*GovernanceServiceImpl)(nil)
