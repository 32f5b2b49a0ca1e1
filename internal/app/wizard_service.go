package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/example/see/internal/core/wizard"
	"github.com/example/see/internal/ctxutil"
	"github.com/example/see/internal/ports/primary"
	"github.com/example/see/internal/ports/secondary"
)

// WizardServiceImpl implements the WizardService interface.
type WizardServiceImpl struct {
	engagementRepo secondary.EngagementRepository
	progressRepo   secondary.WizardProgressRepository
}

// NewWizardService creates a new WizardService with injected dependencies.
func NewWizardService(
	engagementRepo secondary.EngagementRepository,
	progressRepo secondary.WizardProgressRepository,
) *WizardServiceImpl {
	return &WizardServiceImpl{
		engagementRepo: engagementRepo,
		progressRepo:   progressRepo,
	}
}

// SetStepStatus records the status of a wizard step or check-in key.
// Empty notes keep the stored notes.
func (s *WizardServiceImpl) SetStepStatus(ctx context.Context, req primary.SetStepStatusRequest) error {
	if _, err := s.engagementRepo.GetByID(ctx, req.EngagementID); err != nil {
		return err
	}

	key := strings.TrimSpace(req.StepKey)
	if _, ok := wizard.CanonicalStepKey(key); !ok && !isCheckinKey(key) {
		return invalidInput("unknown wizard step %q", req.StepKey)
	}
	status := strings.ToUpper(strings.TrimSpace(req.Status))
	if !wizard.ValidStatus(status) {
		return invalidInput("unknown step status %q (use PENDING, IN_PROGRESS or DONE)", req.Status)
	}
	if req.Notes != "" && !json.Valid([]byte(req.Notes)) {
		return invalidInput("step notes must be valid JSON")
	}

	notes := req.Notes
	if notes == "" {
		existing, err := s.progressRepo.Get(ctx, req.EngagementID, key)
		switch {
		case err == nil:
			notes = existing.Notes
		case !errors.Is(err, secondary.ErrNotFound):
			return fmt.Errorf("failed to read wizard progress: %w", err)
		}
	}

	ctx = ctxutil.WithEngagementID(ctx, req.EngagementID)
	return s.progressRepo.Upsert(ctx, &secondary.WizardProgressRecord{
		EngagementID: req.EngagementID,
		StepKey:      key,
		Status:       status,
		Notes:        notes,
	})
}

// GetOverview summarises the ten wizard steps of an engagement.
func (s *WizardServiceImpl) GetOverview(ctx context.Context, engagementID string) (*primary.WizardOverview, error) {
	record, err := s.engagementRepo.GetByID(ctx, engagementID)
	if err != nil {
		return nil, err
	}
	rows, err := s.progressRepo.List(ctx, engagementID)
	if err != nil {
		return nil, fmt.Errorf("failed to load wizard progress: %w", err)
	}

	progress := make(map[string]string, len(rows))
	for _, r := range rows {
		progress[r.StepKey] = r.Status
	}
	ov := wizard.BuildOverview(progress)

	out := &primary.WizardOverview{
		EngagementID:  engagementID,
		Done:          ov.Done,
		CompletionPct: ov.CompletionPct,
	}
	for _, st := range ov.Steps {
		out.Steps = append(out.Steps, primary.WizardStep{
			Number: st.Step.Number,
			Key:    st.Step.Key,
			Phase:  st.Step.Phase,
			Label:  st.Step.Label(record.Locale),
			Status: st.Status,
		})
	}
	if ov.NextStep != nil {
		out.NextStepKey = ov.NextStep.Key
	}
	return out, nil
}

// isCheckinKey reports whether key is prefix:scope:period for a check-in step.
func isCheckinKey(key string) bool {
	parts := strings.SplitN(key, ":", 3)
	if len(parts) != 3 || parts[1] == "" || parts[2] == "" {
		return false
	}
	for _, p := range wizard.CheckinSteps {
		if p == parts[0] {
			return true
		}
	}
	return false
}

var _ primary.WizardService = (*WizardServiceImpl)(nil)
