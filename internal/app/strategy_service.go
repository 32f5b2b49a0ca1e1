package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/example/see/internal/core/strategy"
	"github.com/example/see/internal/ctxutil"
	"github.com/example/see/internal/ports/primary"
	"github.com/example/see/internal/ports/secondary"
)

// StrategyServiceImpl implements the StrategyService interface.
type StrategyServiceImpl struct {
	engagementRepo secondary.EngagementRepository
	strategyRepo   secondary.StrategyRepository
	swotRepo       secondary.SwotRepository
}

// NewStrategyService creates a new StrategyService with injected dependencies.
func NewStrategyService(
	engagementRepo secondary.EngagementRepository,
	strategyRepo secondary.StrategyRepository,
	swotRepo secondary.SwotRepository,
) *StrategyServiceImpl {
	return &StrategyServiceImpl{
		engagementRepo: engagementRepo,
		strategyRepo:   strategyRepo,
		swotRepo:       swotRepo,
	}
}

// SetStrategy replaces the vision, mission and objectives of an engagement.
func (s *StrategyServiceImpl) SetStrategy(ctx context.Context, req primary.SetStrategyRequest) (*primary.Strategy, error) {
	if _, err := s.engagementRepo.GetByID(ctx, req.EngagementID); err != nil {
		return nil, err
	}

	ctx = ctxutil.WithEngagementID(ctx, req.EngagementID)
	record := &secondary.StrategyRecord{
		EngagementID: req.EngagementID,
		Vision:       strings.TrimSpace(req.Vision),
		Mission:      strings.TrimSpace(req.Mission),
		Objectives:   strings.TrimSpace(req.Objectives),
	}
	if err := s.strategyRepo.Upsert(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save strategy: %w", err)
	}
	return s.GetStrategy(ctx, req.EngagementID)
}

// GetStrategy returns the strategy texts, empty when none were saved.
func (s *StrategyServiceImpl) GetStrategy(ctx context.Context, engagementID string) (*primary.Strategy, error) {
	record, err := s.strategyRepo.Get(ctx, engagementID)
	if errors.Is(err, secondary.ErrNotFound) {
		return &primary.Strategy{EngagementID: engagementID}, nil
	}
	if err != nil {
		return nil, err
	}
	return &primary.Strategy{
		EngagementID: record.EngagementID,
		Vision:       record.Vision,
		Mission:      record.Mission,
		Objectives:   record.Objectives,
		UpdatedAt:    record.UpdatedAt,
	}, nil
}

// AddSwotItem appends an item to a SWOT quadrant.
func (s *StrategyServiceImpl) AddSwotItem(ctx context.Context, req primary.AddSwotItemRequest) (*primary.SwotItem, error) {
	_, exists, err := lookupEngagement(ctx, s.engagementRepo, req.EngagementID)
	if err != nil {
		return nil, err
	}

	quadrant, ok := strategy.ParseQuadrant(req.Quadrant)
	if !ok {
		quadrant = req.Quadrant
	}
	guardCtx := strategy.AddSwotContext{
		EngagementID:     req.EngagementID,
		EngagementExists: exists,
		Quadrant:         quadrant,
		Text:             req.Text,
	}
	if result := strategy.CanAddSwotItem(guardCtx); !result.Allowed {
		return nil, refused(result.Reason)
	}

	nextID, err := s.swotRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate swot item ID: %w", err)
	}
	order, err := s.swotRepo.NextSortOrder(ctx, req.EngagementID, quadrant)
	if err != nil {
		return nil, err
	}

	record := &secondary.SwotItemRecord{
		ID:           nextID,
		EngagementID: req.EngagementID,
		Quadrant:     quadrant,
		Text:         strings.TrimSpace(req.Text),
		SortOrder:    order,
	}
	if err := s.swotRepo.Create(ctxutil.WithEngagementID(ctx, req.EngagementID), record); err != nil {
		return nil, fmt.Errorf("failed to create swot item: %w", err)
	}
	return recordToSwot(record), nil
}

// ListSwotItems returns the SWOT items grouped by quadrant.
func (s *StrategyServiceImpl) ListSwotItems(ctx context.Context, engagementID string) ([]*primary.SwotItem, error) {
	records, err := s.swotRepo.List(ctx, engagementID)
	if err != nil {
		return nil, fmt.Errorf("failed to list swot items: %w", err)
	}
	items := make([]*primary.SwotItem, len(records))
	for i, r := range records {
		items[i] = recordToSwot(r)
	}
	return items, nil
}

// DeleteSwotItem removes a SWOT item.
func (s *StrategyServiceImpl) DeleteSwotItem(ctx context.Context, itemID string) error {
	record, err := s.swotRepo.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	return s.swotRepo.Delete(ctxutil.WithEngagementID(ctx, record.EngagementID), itemID)
}

func recordToSwot(r *secondary.SwotItemRecord) *primary.SwotItem {
	return &primary.SwotItem{
		ID:        r.ID,
		Quadrant:  r.Quadrant,
		Text:      r.Text,
		SortOrder: r.SortOrder,
	}
}

var _ primary.StrategyService = (*StrategyServiceImpl)(nil)
