package app

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/example/see/internal/core/dataroom"
	"github.com/example/see/internal/core/textnorm"
	"github.com/example/see/internal/ctxutil"
	"github.com/example/see/internal/ports/primary"
	"github.com/example/see/internal/ports/secondary"
)

// DataRoomServiceImpl implements the DataRoomService interface.
type DataRoomServiceImpl struct {
	engagementRepo secondary.EngagementRepository
	dataRoomRepo   secondary.DataRoomRepository
	logger         *zap.Logger
}

// NewDataRoomService creates a new DataRoomService with injected dependencies.
func NewDataRoomService(engagementRepo secondary.EngagementRepository, dataRoomRepo secondary.DataRoomRepository, logger *zap.Logger) *DataRoomServiceImpl {
	return &DataRoomServiceImpl{
		engagementRepo: engagementRepo,
		dataRoomRepo:   dataRoomRepo,
		logger:         logger,
	}
}

// InitDataRoom copies the missing master items into the engagement.
func (s *DataRoomServiceImpl) InitDataRoom(ctx context.Context, engagementID string) (int, error) {
	if _, err := s.engagementRepo.GetByID(ctx, engagementID); err != nil {
		return 0, err
	}
	items := make([]*secondary.DataRoomItemRecord, len(dataroom.Master))
	for i, m := range dataroom.Master {
		items[i] = &secondary.DataRoomItemRecord{
			ID:           fmt.Sprintf("DR-%s-%s", engagementID, strings.TrimPrefix(m.Code, "A.2.")),
			EngagementID: engagementID,
			Area:         m.Area,
			Code:         m.Code,
			Title:        m.Title,
			Description:  m.Description,
			Status:       dataroom.StatusPending,
		}
	}
	inserted, err := s.dataRoomRepo.InsertMissing(ctxutil.WithEngagementID(ctx, engagementID), items)
	if err != nil {
		return 0, fmt.Errorf("failed to initialise data room: %w", err)
	}
	if inserted > 0 {
		s.logger.Info("data room initialised", zap.String("engagement_id", engagementID), zap.Int("items", inserted))
	}
	return inserted, nil
}

// GetDataRoom returns the checklist and its completion counts.
func (s *DataRoomServiceImpl) GetDataRoom(ctx context.Context, engagementID string) (*primary.DataRoom, error) {
	records, err := s.dataRoomRepo.List(ctx, engagementID)
	if err != nil {
		return nil, fmt.Errorf("failed to load data room: %w", err)
	}
	room := &primary.DataRoom{EngagementID: engagementID, Items: make([]*primary.DataRoomItem, len(records))}
	statuses := make([]string, len(records))
	for i, r := range records {
		room.Items[i] = recordToDataRoomItem(r)
		statuses[i] = r.Status
	}
	counts := dataroom.Count(statuses)
	room.Total = counts.Total
	room.Received = counts.Received
	room.Partial = counts.Partial
	room.Pending = counts.Pending
	room.NotApplicable = counts.NotApplicable
	room.CompletionPct = counts.CompletionPct()
	return room, nil
}

// UpdateItem writes the status, flag, comment and file references of one item.
func (s *DataRoomServiceImpl) UpdateItem(ctx context.Context, req primary.UpdateDataRoomItemRequest) (*primary.DataRoomItem, error) {
	record, err := s.dataRoomRepo.GetByCode(ctx, req.EngagementID, strings.TrimSpace(req.Code))
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Status) != "" {
		status, ok := normalizeDataRoomStatus(req.Status)
		if !ok {
			return nil, invalidInput("unknown data room status %q", req.Status)
		}
		record.Status = status
	}
	if req.HasData != nil {
		record.HasData = *req.HasData
	}
	setIfPresent(&record.Comment, req.Comment)
	setIfPresent(&record.FileRefs, req.FileRefs)

	if err := s.dataRoomRepo.Update(ctxutil.WithEngagementID(ctx, req.EngagementID), record); err != nil {
		return nil, fmt.Errorf("failed to update data room item: %w", err)
	}
	return recordToDataRoomItem(record), nil
}

func normalizeDataRoomStatus(raw string) (string, bool) {
	up := strings.ToUpper(strings.TrimSpace(raw))
	if dataroom.ValidStatus(up) {
		return up, true
	}
	switch textnorm.Fold(raw) {
	case "pendiente":
		return dataroom.StatusPending, true
	case "parcial":
		return dataroom.StatusPartial, true
	case "recibido", "recibida":
		return dataroom.StatusReceived, true
	case "n/a", "na", "no aplica", "not applicable":
		return dataroom.StatusNotApplicable, true
	}
	return "", false
}

func recordToDataRoomItem(r *secondary.DataRoomItemRecord) *primary.DataRoomItem {
	return &primary.DataRoomItem{
		Area:        r.Area,
		Code:        r.Code,
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
		HasData:     r.HasData,
		Comment:     r.Comment,
		FileRefs:    r.FileRefs,
	}
}

var _ primary.DataRoomService = (*DataRoomServiceImpl)(nil)
