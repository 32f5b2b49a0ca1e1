package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/see/internal/core/risk"
	"github.com/example/see/internal/ctxutil"
	"github.com/example/see/internal/ports/primary"
	"github.com/example/see/internal/ports/secondary"
)

// RiskServiceImpl implements the RiskService interface.
type RiskServiceImpl struct {
	engagementRepo secondary.EngagementRepository
	riskRepo       secondary.RiskRepository
	logger         *zap.Logger
}

// NewRiskService creates a new RiskService with injected dependencies.
func NewRiskService(engagementRepo secondary.EngagementRepository, riskRepo secondary.RiskRepository, logger *zap.Logger) *RiskServiceImpl {
	return &RiskServiceImpl{
		engagementRepo: engagementRepo,
		riskRepo:       riskRepo,
		logger:         logger,
	}
}

// CreateRisk registers a risk.
func (s *RiskServiceImpl) CreateRisk(ctx context.Context, req primary.CreateRiskRequest) (*primary.Risk, error) {
	if _, err := s.engagementRepo.GetByID(ctx, req.EngagementID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, invalidInput("risk description is required")
	}
	status, err := riskStatus(req.Status)
	if err != nil {
		return nil, err
	}
	if err := checkReviewDate(req.ReviewDate); err != nil {
		return nil, err
	}

	nextID, err := s.riskRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate risk ID: %w", err)
	}
	record := &secondary.RiskRecord{
		ID:           nextID,
		EngagementID: req.EngagementID,
		Description:  strings.TrimSpace(req.Description),
		Owner:        strings.TrimSpace(req.Owner),
		Mitigation:   strings.TrimSpace(req.Mitigation),
		Probability:  risk.ClampRating(req.Probability),
		Impact:       risk.ClampRating(req.Impact),
		Status:       status,
		ReviewDate:   strings.TrimSpace(req.ReviewDate),
		Notes:        strings.TrimSpace(req.Notes),
	}
	if err := s.riskRepo.Create(ctxutil.WithEngagementID(ctx, req.EngagementID), record); err != nil {
		return nil, fmt.Errorf("failed to create risk: %w", err)
	}
	result := recordToRisk(record)
	if result.Level == risk.LevelHigh {
		s.logger.Warn("high risk registered", zap.String("engagement_id", req.EngagementID), zap.String("risk_id", nextID), zap.Int("score", result.Score))
	}
	return result, nil
}

// ListRisks returns the register by score, highest first.
func (s *RiskServiceImpl) ListRisks(ctx context.Context, engagementID string) ([]*primary.Risk, error) {
	records, err := s.riskRepo.List(ctx, engagementID)
	if err != nil {
		return nil, fmt.Errorf("failed to list risks: %w", err)
	}
	out := make([]*primary.Risk, len(records))
	for i, r := range records {
		out[i] = recordToRisk(r)
	}
	return out, nil
}

// UpdateRisk merges the given fields into a risk.
func (s *RiskServiceImpl) UpdateRisk(ctx context.Context, req primary.UpdateRiskRequest) (*primary.Risk, error) {
	record, err := s.riskRepo.GetByID(ctx, req.RiskID)
	if err != nil {
		return nil, err
	}
	setIfPresent(&record.Description, req.Description)
	setIfPresent(&record.Owner, req.Owner)
	setIfPresent(&record.Mitigation, req.Mitigation)
	setIfPresent(&record.Notes, req.Notes)
	if req.Probability != 0 {
		record.Probability = risk.ClampRating(req.Probability)
	}
	if req.Impact != 0 {
		record.Impact = risk.ClampRating(req.Impact)
	}
	if strings.TrimSpace(req.Status) != "" {
		if record.Status, err = riskStatus(req.Status); err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(req.ReviewDate) != "" {
		if err := checkReviewDate(req.ReviewDate); err != nil {
			return nil, err
		}
		record.ReviewDate = strings.TrimSpace(req.ReviewDate)
	}

	if err := s.riskRepo.Update(ctxutil.WithEngagementID(ctx, record.EngagementID), record); err != nil {
		return nil, fmt.Errorf("failed to update risk: %w", err)
	}
	return recordToRisk(record), nil
}

// DeleteRisk removes a risk.
func (s *RiskServiceImpl) DeleteRisk(ctx context.Context, riskID string) error {
	record, err := s.riskRepo.GetByID(ctx, riskID)
	if err != nil {
		return err
	}
	if err := s.riskRepo.Delete(ctxutil.WithEngagementID(ctx, record.EngagementID), riskID); err != nil {
		return fmt.Errorf("failed to delete risk: %w", err)
	}
	return nil
}

func riskStatus(raw string) (string, error) {
	status := strings.ToUpper(strings.TrimSpace(raw))
	if status == "" {
		return risk.StatusOpen, nil
	}
	if !risk.ValidStatus(status) {
		return "", invalidInput("unknown risk status %q", raw)
	}
	return status, nil
}

func checkReviewDate(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", raw); err != nil {
		return invalidInput("invalid review date %q: want YYYY-MM-DD", raw)
	}
	return nil
}

func recordToRisk(r *secondary.RiskRecord) *primary.Risk {
	score := risk.Score(r.Probability, r.Impact)
	return &primary.Risk{
		ID:           r.ID,
		EngagementID: r.EngagementID,
		Description:  r.Description,
		Owner:        r.Owner,
		Mitigation:   r.Mitigation,
		Probability:  r.Probability,
		Impact:       r.Impact,
		Score:        score,
		Level:        risk.Level(score),
		Status:       r.Status,
		ReviewDate:   r.ReviewDate,
		Notes:        r.Notes,
	}
}

var _ primary.RiskService = (*RiskServiceImpl)(nil)
