package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/example/see/internal/core/kpi"
	"github.com/example/see/internal/core/wizard"
	"github.com/example/see/internal/ctxutil"
	"github.com/example/see/internal/ports/primary"
	"github.com/example/see/internal/ports/secondary"
)

// CheckinServiceImpl implements the CheckinService interface on top of the
// KPI and initiative services.
type CheckinServiceImpl struct {
	engagementRepo    secondary.EngagementRepository
	progressRepo      secondary.WizardProgressRepository
	accountRepo       secondary.AccountRepository
	kpiService        primary.KpiService
	initiativeService primary.InitiativeService
	logger            *zap.Logger
}

// NewCheckinService creates a new CheckinService with injected dependencies.
func NewCheckinService(
	engagementRepo secondary.EngagementRepository,
	progressRepo secondary.WizardProgressRepository,
	accountRepo secondary.AccountRepository,
	kpiService primary.KpiService,
	initiativeService primary.InitiativeService,
	logger *zap.Logger,
) *CheckinServiceImpl {
	return &CheckinServiceImpl{
		engagementRepo:    engagementRepo,
		progressRepo:      progressRepo,
		accountRepo:       accountRepo,
		kpiService:        kpiService,
		initiativeService: initiativeService,
		logger:            logger,
	}
}

// GetStatus reports KPI coverage, initiative coverage and the stored status
// of each progress-backed step.
func (s *CheckinServiceImpl) GetStatus(ctx context.Context, engagementID, scopeKey, periodKey string) (*primary.CheckinStatus, error) {
	scopeKey, err := checkinScope(scopeKey, periodKey)
	if err != nil {
		return nil, err
	}
	if _, err := s.engagementRepo.GetByID(ctx, engagementID); err != nil {
		return nil, err
	}

	card, err := s.kpiService.GetScorecard(ctx, engagementID, periodKey, scopeKey)
	if err != nil {
		return nil, err
	}
	initiatives, err := s.initiativeService.ListInitiatives(ctx, primary.InitiativeFilters{EngagementID: engagementID})
	if err != nil {
		return nil, err
	}
	snap, err := loadCheckinSnapshot(ctx, s.progressRepo, engagementID, scopeKey, periodKey)
	if err != nil {
		return nil, err
	}

	status := &primary.CheckinStatus{
		EngagementID:     engagementID,
		PeriodKey:        periodKey,
		ScopeKey:         scopeKey,
		KpisTotal:        len(card.Rows),
		InitiativesTotal: len(initiatives),
	}
	for _, row := range card.Rows {
		if row.Current != nil {
			status.KpisWithValue++
		}
	}
	recorded := snap.ByID()
	for _, in := range initiatives {
		if _, ok := recorded[in.ID]; ok {
			status.InitiativesUpdated++
		}
	}

	for _, step := range wizard.CheckinSteps {
		key := wizard.CheckinKey(step, scopeKey, periodKey)
		stepStatus := wizard.StatusPending
		row, err := s.progressRepo.Get(ctx, engagementID, key)
		switch {
		case err == nil:
			stepStatus = row.Status
		case !errors.Is(err, secondary.ErrNotFound):
			return nil, fmt.Errorf("failed to read check-in progress: %w", err)
		}
		status.Steps = append(status.Steps, primary.CheckinStep{Step: step, Key: key, Status: stepStatus})
		if step == wizard.CheckinInitiatives {
			status.InitiativesStepDone = stepStatus == wizard.StatusDone
		}
	}
	status.KpiStepDone = status.KpisTotal > 0 && status.KpisWithValue == status.KpisTotal
	return status, nil
}

// GetSummary pairs the scorecard with each initiative's snapshot for the
// period. Initiatives not covered by the check-in have a nil snapshot.
func (s *CheckinServiceImpl) GetSummary(ctx context.Context, engagementID, scopeKey, periodKey string) (*primary.CheckinSummary, error) {
	scopeKey, err := checkinScope(scopeKey, periodKey)
	if err != nil {
		return nil, err
	}
	record, err := s.engagementRepo.GetByID(ctx, engagementID)
	if err != nil {
		return nil, err
	}
	card, err := s.kpiService.GetScorecard(ctx, engagementID, periodKey, scopeKey)
	if err != nil {
		return nil, err
	}
	initiatives, err := s.initiativeService.ListInitiatives(ctx, primary.InitiativeFilters{EngagementID: engagementID})
	if err != nil {
		return nil, err
	}
	checkin, err := s.initiativeService.GetCheckin(ctx, engagementID, scopeKey, periodKey)
	if err != nil {
		return nil, err
	}

	summary := &primary.CheckinSummary{Engagement: recordToEngagement(record), Scorecard: card}
	byID := map[string]*primary.InitiativeSnapshot{}
	if checkin != nil {
		summary.SavedAt = checkin.SavedAt
		for i := range checkin.Items {
			byID[checkin.Items[i].InitiativeID] = &checkin.Items[i]
		}
	}
	for _, in := range initiatives {
		summary.Initiatives = append(summary.Initiatives, &primary.InitiativeSummaryRow{Initiative: in, Snapshot: byID[in.ID]})
	}
	return summary, nil
}

// SetStepStatus records a check-in step, keeping any snapshot stored in
// the step's notes.
func (s *CheckinServiceImpl) SetStepStatus(ctx context.Context, engagementID, step, scopeKey, periodKey, status string) error {
	scopeKey, err := checkinScope(scopeKey, periodKey)
	if err != nil {
		return err
	}
	if !isCheckinStep(step) {
		return invalidInput("unknown check-in step %q (use %s)", step, strings.Join(wizard.CheckinSteps, ", "))
	}
	status = strings.ToUpper(strings.TrimSpace(status))
	if !wizard.ValidStatus(status) {
		return invalidInput("unknown step status %q (use PENDING, IN_PROGRESS or DONE)", status)
	}
	if _, err := s.engagementRepo.GetByID(ctx, engagementID); err != nil {
		return err
	}
	if err := checkScope(ctx, s.accountRepo, engagementID, scopeKey); err != nil {
		return err
	}

	key := wizard.CheckinKey(step, scopeKey, periodKey)
	record := &secondary.WizardProgressRecord{EngagementID: engagementID, StepKey: key, Status: status}
	existing, err := s.progressRepo.Get(ctx, engagementID, key)
	switch {
	case err == nil:
		record.Notes = existing.Notes
	case !errors.Is(err, secondary.ErrNotFound):
		return fmt.Errorf("failed to read check-in progress: %w", err)
	}
	if err := s.progressRepo.Upsert(ctxutil.WithEngagementID(ctx, engagementID), record); err != nil {
		return fmt.Errorf("failed to record check-in step: %w", err)
	}
	s.logger.Info("check-in step recorded",
		zap.String("engagement_id", engagementID),
		zap.String("key", key),
		zap.String("status", status))
	return nil
}

// checkinScope validates the period and defaults the scope to GLOBAL.
func checkinScope(scopeKey, periodKey string) (string, error) {
	if !kpi.ValidMonthKey(periodKey) {
		return "", invalidInput("invalid period %q: want YYYY-MM", periodKey)
	}
	scopeKey = strings.TrimSpace(scopeKey)
	if scopeKey == "" {
		return kpi.GlobalScope, nil
	}
	if !kpi.ValidScopeKey(scopeKey) {
		return "", invalidInput("invalid scope %q", scopeKey)
	}
	return scopeKey, nil
}

func isCheckinStep(step string) bool {
	for _, s := range wizard.CheckinSteps {
		if s == step {
			return true
		}
	}
	return false
}

var _ primary.CheckinService = (*CheckinServiceImpl)(nil)
