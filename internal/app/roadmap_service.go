package app

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/see/internal/core/roadmap"
	"github.com/example/see/internal/ctxutil"
	"github.com/example/see/internal/ports/primary"
	"github.com/example/see/internal/ports/secondary"
)

// RoadmapServiceImpl implements the RoadmapService interface.
type RoadmapServiceImpl struct {
	engagementRepo secondary.EngagementRepository
	roadmapRepo    secondary.RoadmapRepository
	sheets         secondary.SpreadsheetWriter
	logger         *zap.Logger
}

// NewRoadmapService creates a new RoadmapService with injected dependencies.
func NewRoadmapService(
	engagementRepo secondary.EngagementRepository,
	roadmapRepo secondary.RoadmapRepository,
	sheets secondary.SpreadsheetWriter,
	logger *zap.Logger,
) *RoadmapServiceImpl {
	return &RoadmapServiceImpl{
		engagementRepo: engagementRepo,
		roadmapRepo:    roadmapRepo,
		sheets:         sheets,
		logger:         logger,
	}
}

// GenerateRoadmap creates the missing weeks of the 20-week skeleton.
func (s *RoadmapServiceImpl) GenerateRoadmap(ctx context.Context, engagementID string) (int, error) {
	if _, err := s.engagementRepo.GetByID(ctx, engagementID); err != nil {
		return 0, err
	}

	weeks := make([]int, roadmap.Weeks)
	for i := range weeks {
		weeks[i] = i + 1
	}
	created, err := s.roadmapRepo.EnsureWeeks(ctxutil.WithEngagementID(ctx, engagementID), engagementID, weeks)
	if err != nil {
		return 0, fmt.Errorf("failed to generate roadmap: %w", err)
	}
	if created > 0 {
		s.logger.Info("roadmap generated", zap.String("engagement_id", engagementID), zap.Int("weeks", created))
	}
	return created, nil
}

// SetWeek writes one week of the roadmap.
func (s *RoadmapServiceImpl) SetWeek(ctx context.Context, req primary.SetRoadmapWeekRequest) (*primary.RoadmapWeek, error) {
	eng, exists, err := lookupEngagement(ctx, s.engagementRepo, req.EngagementID)
	if err != nil {
		return nil, err
	}
	guard := roadmap.CanUpsertWeek(roadmap.UpsertWeekContext{
		EngagementID:     req.EngagementID,
		EngagementExists: exists,
		Week:             req.Week,
	})
	if !guard.Allowed {
		return nil, refused(guard.Reason)
	}

	record := &secondary.RoadmapWeekRecord{
		EngagementID:  req.EngagementID,
		Week:          req.Week,
		Objective:     strings.TrimSpace(req.Objective),
		KeyActivities: strings.TrimSpace(req.KeyActivities),
		Deliverables:  strings.TrimSpace(req.Deliverables),
		KpiFocus:      strings.TrimSpace(req.KpiFocus),
		Ritual:        strings.TrimSpace(req.Ritual),
	}
	if err := s.roadmapRepo.Upsert(ctxutil.WithEngagementID(ctx, req.EngagementID), record); err != nil {
		return nil, fmt.Errorf("failed to save roadmap week: %w", err)
	}
	return recordToRoadmapWeek(record, startDate(eng)), nil
}

// ListWeeks returns the roadmap ordered by week.
func (s *RoadmapServiceImpl) ListWeeks(ctx context.Context, engagementID string) ([]*primary.RoadmapWeek, error) {
	eng, err := s.engagementRepo.GetByID(ctx, engagementID)
	if err != nil {
		return nil, err
	}
	records, err := s.roadmapRepo.List(ctx, engagementID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roadmap: %w", err)
	}
	start := startDate(eng)
	out := make([]*primary.RoadmapWeek, len(records))
	for i, r := range records {
		out[i] = recordToRoadmapWeek(r, start)
	}
	return out, nil
}

// ClearRoadmap deletes every week of an engagement.
func (s *RoadmapServiceImpl) ClearRoadmap(ctx context.Context, engagementID string) error {
	if _, err := s.engagementRepo.GetByID(ctx, engagementID); err != nil {
		return err
	}
	if err := s.roadmapRepo.DeleteAll(ctxutil.WithEngagementID(ctx, engagementID), engagementID); err != nil {
		return fmt.Errorf("failed to clear roadmap: %w", err)
	}
	return nil
}

var roadmapImportAliases = map[string]string{
	"semana":            "week",
	"n_semana":          "week",
	"numero_semana":     "week",
	"objetivo":          "objective",
	"keyactivities":     "key_activities",
	"actividades":       "key_activities",
	"actividades_clave": "key_activities",
	"entregables":       "deliverables",
	"kpifocus":          "kpi_focus",
	"kpi":               "kpi_focus",
	"kpi_foco":          "kpi_focus",
}

// ImportCSV writes each row of a filled template to its week. Rows with a
// missing or out-of-range week are counted as failed.
func (s *RoadmapServiceImpl) ImportCSV(ctx context.Context, req primary.CSVImportRequest) (*primary.CSVImportResult, error) {
	if _, exists, err := lookupEngagement(ctx, s.engagementRepo, req.EngagementID); err != nil {
		return nil, err
	} else if !exists {
		return nil, invalidInput("engagement %s not found", req.EngagementID)
	}

	rows, err := readCSV(req.Source, maxImportBytes)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, invalidInput("csv has no rows")
	}
	cols := csvColumns(rows[0], roadmapImportAliases)
	if _, ok := cols["week"]; !ok {
		return nil, invalidInput("csv has no week column (week or semana)")
	}

	if req.ReplaceAll {
		if err := s.ClearRoadmap(ctx, req.EngagementID); err != nil {
			return nil, err
		}
	}

	result := &primary.CSVImportResult{}
	fail := func(line int, format string, args ...any) {
		result.Failed++
		result.Errors = append(result.Errors, fmt.Sprintf("line %d: ", line)+fmt.Sprintf(format, args...))
	}

	for i, row := range rows[1:] {
		line := i + 2
		get := func(col string) string { return csvCell(row, cols, col) }
		if isBlankRow(row) {
			continue
		}

		raw := get("week")
		if raw == "" {
			fail(line, "week is required")
			continue
		}
		week, err := strconv.Atoi(raw)
		if err != nil {
			fail(line, "invalid week %q", raw)
			continue
		}
		_, err = s.SetWeek(ctx, primary.SetRoadmapWeekRequest{
			EngagementID:  req.EngagementID,
			Week:          week,
			Objective:     get("objective"),
			KeyActivities: get("key_activities"),
			Deliverables:  get("deliverables"),
			KpiFocus:      get("kpi_focus"),
			Ritual:        get("ritual"),
		})
		if err != nil {
			if !errors.Is(err, primary.ErrInvalidInput) {
				return nil, err
			}
			fail(line, "%v", err)
			continue
		}
		result.Imported++
	}

	s.logger.Info("roadmap imported",
		zap.String("engagement_id", req.EngagementID),
		zap.Bool("replace_all", req.ReplaceAll),
		zap.Int("imported", result.Imported),
		zap.Int("failed", result.Failed))
	return result, nil
}

// TemplateCSV returns a header plus one empty row per week.
func (s *RoadmapServiceImpl) TemplateCSV() []byte {
	var buf bytes.Buffer
	buf.WriteString("\ufeff")
	w := csv.NewWriter(&buf)
	_ = w.Write(roadmap.TemplateHeader)
	for week := 1; week <= roadmap.Weeks; week++ {
		row := make([]string, len(roadmap.TemplateHeader))
		row[0] = strconv.Itoa(week)
		_ = w.Write(row)
	}
	w.Flush()
	return buf.Bytes()
}

// ExportXLSX writes the roadmap to a one-sheet workbook.
func (s *RoadmapServiceImpl) ExportXLSX(ctx context.Context, engagementID string) ([]byte, error) {
	weeks, err := s.ListWeeks(ctx, engagementID)
	if err != nil {
		return nil, err
	}
	sheet := secondary.Sheet{
		Name:    "Roadmap",
		Headers: []string{"week", "phase", "starts_on", "objective", "key_activities", "deliverables", "kpi_focus", "ritual"},
	}
	for _, w := range weeks {
		sheet.Rows = append(sheet.Rows, []any{w.Week, w.Phase, w.StartsOn, w.Objective, w.KeyActivities,
			w.Deliverables, w.KpiFocus, w.Ritual})
	}
	data, err := s.sheets.Write(ctx, []secondary.Sheet{sheet})
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return data, nil
}

// startDate parses the engagement start date; the zero time means unset.
func startDate(eng *secondary.EngagementRecord) time.Time {
	if eng == nil || eng.StartDate == "" {
		return time.Time{}
	}
	t, err := time.Parse("2006-01-02", eng.StartDate)
	if err != nil {
		return time.Time{}
	}
	return t
}

func recordToRoadmapWeek(r *secondary.RoadmapWeekRecord, start time.Time) *primary.RoadmapWeek {
	w := &primary.RoadmapWeek{
		Week:          r.Week,
		Phase:         roadmap.Phase(r.Week),
		Objective:     r.Objective,
		KeyActivities: r.KeyActivities,
		Deliverables:  r.Deliverables,
		KpiFocus:      r.KpiFocus,
		Ritual:        r.Ritual,
	}
	if !start.IsZero() {
		w.StartsOn = roadmap.WeekStart(start, r.Week).Format("2006-01-02")
	}
	return w
}

var _ primary.RoadmapService = (*RoadmapServiceImpl)(nil)
