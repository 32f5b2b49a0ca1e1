package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/see/internal/core/initiative"
	"github.com/example/see/internal/core/kpi"
	"github.com/example/see/internal/core/wizard"
	"github.com/example/see/internal/ctxutil"
	"github.com/example/see/internal/ports/primary"
	"github.com/example/see/internal/ports/secondary"
)

// InitiativeServiceImpl implements the InitiativeService interface.
type InitiativeServiceImpl struct {
	engagementRepo secondary.EngagementRepository
	initiativeRepo secondary.InitiativeRepository
	kpiRepo        secondary.KpiRepository
	accountRepo    secondary.AccountRepository
	progressRepo   secondary.WizardProgressRepository
	logger         *zap.Logger
	now            func() time.Time
}

// NewInitiativeService creates a new InitiativeService with injected dependencies.
func NewInitiativeService(
	engagementRepo secondary.EngagementRepository,
	initiativeRepo secondary.InitiativeRepository,
	kpiRepo secondary.KpiRepository,
	accountRepo secondary.AccountRepository,
	progressRepo secondary.WizardProgressRepository,
	logger *zap.Logger,
) *InitiativeServiceImpl {
	return &InitiativeServiceImpl{
		engagementRepo: engagementRepo,
		initiativeRepo: initiativeRepo,
		kpiRepo:        kpiRepo,
		accountRepo:    accountRepo,
		progressRepo:   progressRepo,
		logger:         logger,
		now:            time.Now,
	}
}

// CreateInitiative adds an initiative to the portfolio.
func (s *InitiativeServiceImpl) CreateInitiative(ctx context.Context, req primary.CreateInitiativeRequest) (*primary.Initiative, error) {
	_, exists, err := lookupEngagement(ctx, s.engagementRepo, req.EngagementID)
	if err != nil {
		return nil, err
	}

	status, ok := initiative.NormalizeStatus(req.Status)
	if !ok {
		return nil, invalidInput("unknown initiative status %q", req.Status)
	}

	record := &secondary.InitiativeRecord{
		EngagementID:     req.EngagementID,
		Title:            strings.TrimSpace(req.Title),
		Owner:            strings.TrimSpace(req.Owner),
		Perspective:      canonicalOptionalPerspective(req.Perspective),
		KpiID:            strings.TrimSpace(req.KpiID),
		Problem:          strings.TrimSpace(req.Problem),
		DefinitionOfDone: strings.TrimSpace(req.DefinitionOfDone),
		Status:           status,
		Impact:           req.Impact,
		Effort:           req.Effort,
		Risk:             req.Risk,
		StartDate:        strings.TrimSpace(req.StartDate),
		EndDate:          strings.TrimSpace(req.EndDate),
		Dependencies:     strings.TrimSpace(req.Dependencies),
		Notes:            strings.TrimSpace(req.Notes),
	}
	if err := s.checkInitiative(ctx, exists, record); err != nil {
		return nil, err
	}

	nextID, err := s.initiativeRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate initiative ID: %w", err)
	}
	record.ID = nextID

	ctx = ctxutil.WithEngagementID(ctx, req.EngagementID)
	if err := s.initiativeRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create initiative: %w", err)
	}
	s.logger.Info("initiative created", zap.String("engagement_id", req.EngagementID), zap.String("initiative_id", nextID))
	return s.GetInitiative(ctx, nextID)
}

func (s *InitiativeServiceImpl) checkInitiative(ctx context.Context, engagementExists bool, record *secondary.InitiativeRecord) error {
	guardCtx := initiative.CreateInitiativeContext{
		EngagementID:     record.EngagementID,
		EngagementExists: engagementExists,
		Title:            record.Title,
		KpiID:            record.KpiID,
		StartDate:        record.StartDate,
		EndDate:          record.EndDate,
		Impact:           record.Impact,
		Effort:           record.Effort,
		Risk:             record.Risk,
	}
	if record.KpiID != "" {
		k, err := s.kpiRepo.GetByID(ctx, record.KpiID)
		switch {
		case err == nil:
			guardCtx.KpiInEngagement = k.EngagementID == record.EngagementID
		case !errors.Is(err, secondary.ErrNotFound):
			return fmt.Errorf("failed to validate kpi: %w", err)
		}
	}
	if result := initiative.CanCreateInitiative(guardCtx); !result.Allowed {
		return refused(result.Reason)
	}
	return nil
}

// GetInitiative retrieves an initiative by ID.
func (s *InitiativeServiceImpl) GetInitiative(ctx context.Context, initiativeID string) (*primary.Initiative, error) {
	record, err := s.initiativeRepo.GetByID(ctx, initiativeID)
	if err != nil {
		return nil, err
	}
	return recordToInitiative(record), nil
}

// ListInitiatives returns initiatives, highest priority first.
func (s *InitiativeServiceImpl) ListInitiatives(ctx context.Context, filters primary.InitiativeFilters) ([]*primary.Initiative, error) {
	status := filters.Status
	if status != "" {
		normalized, ok := initiative.NormalizeStatus(status)
		if !ok {
			return nil, invalidInput("unknown initiative status %q", status)
		}
		status = normalized
	}

	records, err := s.initiativeRepo.List(ctx, secondary.InitiativeFilters{
		EngagementID: filters.EngagementID,
		Status:       status,
		KpiID:        filters.KpiID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list initiatives: %w", err)
	}

	out := make([]*primary.Initiative, len(records))
	for i, r := range records {
		out[i] = recordToInitiative(r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PriorityScore > out[j].PriorityScore })
	return out, nil
}

// UpdateInitiative merges the given fields into an initiative.
func (s *InitiativeServiceImpl) UpdateInitiative(ctx context.Context, req primary.UpdateInitiativeRequest) (*primary.Initiative, error) {
	record, err := s.initiativeRepo.GetByID(ctx, req.InitiativeID)
	if err != nil {
		return nil, err
	}

	setIfPresent(&record.Title, req.Title)
	setIfPresent(&record.Owner, req.Owner)
	setIfPresent(&record.Perspective, canonicalOptionalPerspective(req.Perspective))
	setIfPresent(&record.KpiID, req.KpiID)
	setIfPresent(&record.Problem, req.Problem)
	setIfPresent(&record.DefinitionOfDone, req.DefinitionOfDone)
	setIfPresent(&record.StartDate, req.StartDate)
	setIfPresent(&record.EndDate, req.EndDate)
	setIfPresent(&record.Dependencies, req.Dependencies)
	setIfPresent(&record.Notes, req.Notes)
	if strings.TrimSpace(req.Status) != "" {
		status, ok := initiative.NormalizeStatus(req.Status)
		if !ok {
			return nil, invalidInput("unknown initiative status %q", req.Status)
		}
		record.Status = status
	}
	if req.Impact != nil {
		record.Impact = *req.Impact
	}
	if req.Effort != nil {
		record.Effort = *req.Effort
	}
	if req.Risk != nil {
		record.Risk = *req.Risk
	}
	if req.ProgressPct != nil {
		p := initiative.ClampProgress(*req.ProgressPct)
		record.ProgressPct = &p
	}

	if err := s.checkInitiative(ctx, true, record); err != nil {
		return nil, err
	}

	ctx = ctxutil.WithEngagementID(ctx, record.EngagementID)
	if err := s.initiativeRepo.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to update initiative: %w", err)
	}
	return s.GetInitiative(ctx, record.ID)
}

// DeleteInitiative removes an initiative.
func (s *InitiativeServiceImpl) DeleteInitiative(ctx context.Context, initiativeID string) error {
	record, err := s.initiativeRepo.GetByID(ctx, initiativeID)
	if err != nil {
		return err
	}
	if err := s.initiativeRepo.Delete(ctxutil.WithEngagementID(ctx, record.EngagementID), initiativeID); err != nil {
		return fmt.Errorf("failed to delete initiative: %w", err)
	}
	return nil
}

var initiativeImportAliases = map[string]string{
	"id":          "id_ref",
	"titulo":      "title",
	"area":        "perspective",
	"perspectiva": "perspective",
	"dueno":       "owner",
	"responsable": "owner",
	"horizonte":   "horizon",
	"estado":      "status",
	"nota":        "notes",
	"notas":       "notes",
	"kpiname":     "kpi_name",
	"kpiid":       "kpi_id",
	"startdate":   "start_date",
	"inicio":      "start_date",
	"start":       "start_date",
	"enddate":     "end_date",
	"fin":         "end_date",
	"end":         "end_date",
	"i":           "impact",
	"impacto":     "impact",
	"e":           "effort",
	"esfuerzo":    "effort",
	"r":           "risk",
	"riesgo":      "risk",
}

// importDateLayouts are tried in order; a cell matching none is dropped.
var importDateLayouts = []string{"2006-01-02", "02-01-2006", "02/01/2006", "2006/01/02"}

// ImportCSV creates initiatives from a portfolio spreadsheet. A kpi_id
// outside the engagement falls back to matching kpi_name or kpi by name.
// When neither date is given, a horizon such as "0-8 semanas" sets them
// from today.
func (s *InitiativeServiceImpl) ImportCSV(ctx context.Context, req primary.CSVImportRequest) (*primary.CSVImportResult, error) {
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
	cols := csvColumns(rows[0], initiativeImportAliases)
	if _, ok := cols["title"]; !ok {
		return nil, invalidInput("csv has no title column (title or titulo)")
	}

	kpis, err := s.kpiRepo.List(ctx, req.EngagementID)
	if err != nil {
		return nil, fmt.Errorf("failed to list kpis: %w", err)
	}
	names := make([]initiative.KpiName, len(kpis))
	owned := make(map[string]bool, len(kpis))
	for i, k := range kpis {
		names[i] = initiative.KpiName{ID: k.ID, NameEs: k.NameEs, NameEn: k.NameEn}
		owned[k.ID] = true
	}

	if req.ReplaceAll {
		if err := s.deleteAll(ctx, req.EngagementID); err != nil {
			return nil, err
		}
	}

	result := &primary.CSVImportResult{}
	fail := func(line int, format string, args ...any) {
		result.Failed++
		result.Errors = append(result.Errors, fmt.Sprintf("line %d: ", line)+fmt.Sprintf(format, args...))
	}

	today := s.now().UTC()
	for i, row := range rows[1:] {
		line := i + 2
		get := func(col string) string { return csvCell(row, cols, col) }
		if isBlankRow(row) {
			continue
		}

		title, owner := get("title"), get("owner")
		if title == "" || owner == "" {
			fail(line, "title and owner are required")
			continue
		}
		status, ok := initiative.NormalizeStatus(get("status"))
		if !ok {
			fail(line, "unknown initiative status %q", get("status"))
			continue
		}

		kpiID := get("kpi_id")
		if !owned[kpiID] {
			kpiID = initiative.MatchKpi(firstNonEmpty(get("kpi_name"), get("kpi")), names)
		}

		start, end := importDate(get("start_date")), importDate(get("end_date"))
		horizon := get("horizon")
		if start == "" && end == "" && horizon != "" {
			if weeks, ok := initiative.HorizonWeeks(horizon); ok {
				start = today.Format("2006-01-02")
				end = today.AddDate(0, 0, weeks*7).Format("2006-01-02")
			}
		}

		var ref, horizonNote, kpiText string
		if v := get("id_ref"); v != "" {
			ref = "Ref: " + v
		}
		if horizon != "" {
			horizonNote = "Horizonte: " + horizon
		}
		if v := get("kpi"); kpiID == "" && v != "" {
			kpiText = "KPI texto: " + v
		}

		_, err := s.CreateInitiative(ctx, primary.CreateInitiativeRequest{
			EngagementID: req.EngagementID,
			Title:        title,
			Owner:        owner,
			Perspective:  string(kpi.GuessPerspective(get("perspective"))),
			KpiID:        kpiID,
			Status:       status,
			Impact:       initiative.ParseRating(get("impact")),
			Effort:       initiative.ParseRating(get("effort")),
			Risk:         initiative.ParseRating(get("risk")),
			StartDate:    start,
			EndDate:      end,
			Notes:        initiative.JoinNotes(get("notes"), ref, horizonNote, kpiText),
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

	s.logger.Info("initiatives imported",
		zap.String("engagement_id", req.EngagementID),
		zap.Bool("replace_all", req.ReplaceAll),
		zap.Int("imported", result.Imported),
		zap.Int("failed", result.Failed))
	return result, nil
}

func (s *InitiativeServiceImpl) deleteAll(ctx context.Context, engagementID string) error {
	records, err := s.initiativeRepo.List(ctx, secondary.InitiativeFilters{EngagementID: engagementID})
	if err != nil {
		return fmt.Errorf("failed to list initiatives: %w", err)
	}
	ctx = ctxutil.WithEngagementID(ctx, engagementID)
	for _, r := range records {
		if err := s.initiativeRepo.Delete(ctx, r.ID); err != nil {
			return fmt.Errorf("failed to delete initiative %s: %w", r.ID, err)
		}
	}
	return nil
}

func importDate(raw string) string {
	if raw == "" {
		return ""
	}
	for _, layout := range importDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Checkin records the initiatives step of a check-in. Items are merged into
// any snapshot already stored for the period, so a partial submission keeps
// the other initiatives' entries.
func (s *InitiativeServiceImpl) Checkin(ctx context.Context, req primary.InitiativeCheckinRequest) (*primary.InitiativeCheckin, error) {
	scope := strings.TrimSpace(req.ScopeKey)
	if scope == "" {
		scope = kpi.GlobalScope
	}
	if !kpi.ValidMonthKey(req.PeriodKey) {
		return nil, invalidInput("invalid period %q: want YYYY-MM", req.PeriodKey)
	}
	if !kpi.ValidScopeKey(scope) {
		return nil, invalidInput("invalid scope %q", scope)
	}
	if _, err := s.engagementRepo.GetByID(ctx, req.EngagementID); err != nil {
		return nil, err
	}
	if err := checkScope(ctx, s.accountRepo, req.EngagementID, scope); err != nil {
		return nil, err
	}

	records, err := s.initiativeRepo.List(ctx, secondary.InitiativeFilters{EngagementID: req.EngagementID})
	if err != nil {
		return nil, fmt.Errorf("failed to list initiatives: %w", err)
	}
	byID := make(map[string]*secondary.InitiativeRecord, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}

	snapshots := make([]initiative.Snapshot, 0, len(req.Items))
	for _, it := range req.Items {
		if _, ok := byID[it.InitiativeID]; !ok {
			return nil, invalidInput("initiative %s does not belong to engagement %s", it.InitiativeID, req.EngagementID)
		}
		snap := initiative.Snapshot{
			InitiativeID: it.InitiativeID,
			Notes:        strings.TrimSpace(it.Notes),
			Blockers:     strings.TrimSpace(it.Blockers),
			EvidenceURLs: initiative.SplitEvidence(it.Evidence),
		}
		if strings.TrimSpace(it.Status) != "" {
			status, ok := initiative.NormalizeStatus(it.Status)
			if !ok {
				return nil, invalidInput("unknown initiative status %q for %s", it.Status, it.InitiativeID)
			}
			snap.Status = status
		}
		if it.ProgressPct != nil {
			p := initiative.ClampProgress(*it.ProgressPct)
			snap.ProgressPct = &p
		}
		snapshots = append(snapshots, snap)
	}

	stored, err := s.loadCheckin(ctx, req.EngagementID, scope, req.PeriodKey)
	if err != nil {
		return nil, err
	}
	merged := stored.ByID()
	for _, snap := range snapshots {
		merged[snap.InitiativeID] = snap
	}

	checkin := initiative.CheckinSnapshot{
		PeriodKey: req.PeriodKey,
		ScopeKey:  scope,
		SavedAt:   s.now().UTC().Format(time.RFC3339),
	}
	for _, r := range records {
		if snap, ok := merged[r.ID]; ok {
			checkin.Items = append(checkin.Items, snap)
		}
	}

	notes, err := json.Marshal(checkin)
	if err != nil {
		return nil, fmt.Errorf("failed to encode check-in: %w", err)
	}

	ctx = ctxutil.WithEngagementID(ctx, req.EngagementID)
	err = s.progressRepo.Upsert(ctx, &secondary.WizardProgressRecord{
		EngagementID: req.EngagementID,
		StepKey:      wizard.CheckinKey(wizard.CheckinInitiatives, scope, req.PeriodKey),
		Status:       wizard.StatusDone,
		Notes:        string(notes),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save check-in: %w", err)
	}

	for _, snap := range snapshots {
		record := byID[snap.InitiativeID]
		changed := false
		if snap.ProgressPct != nil {
			record.ProgressPct = snap.ProgressPct
			changed = true
		}
		if snap.Status != "" && snap.Status != record.Status {
			record.Status = snap.Status
			changed = true
		}
		if !changed {
			continue
		}
		if err := s.initiativeRepo.Update(ctx, record); err != nil {
			return nil, fmt.Errorf("failed to mirror check-in onto %s: %w", record.ID, err)
		}
	}

	s.logger.Info("initiative check-in saved",
		zap.String("engagement_id", req.EngagementID),
		zap.String("period", req.PeriodKey),
		zap.String("scope", scope),
		zap.Int("items", len(snapshots)))
	return snapshotToCheckin(req.EngagementID, checkin), nil
}

// GetCheckin returns the stored snapshot for a period, or nil.
func (s *InitiativeServiceImpl) GetCheckin(ctx context.Context, engagementID, scopeKey, periodKey string) (*primary.InitiativeCheckin, error) {
	if strings.TrimSpace(scopeKey) == "" {
		scopeKey = kpi.GlobalScope
	}
	snap, err := s.loadCheckin(ctx, engagementID, scopeKey, periodKey)
	if err != nil {
		return nil, err
	}
	if snap.SavedAt == "" {
		return nil, nil
	}
	return snapshotToCheckin(engagementID, snap), nil
}

func (s *InitiativeServiceImpl) loadCheckin(ctx context.Context, engagementID, scope, period string) (initiative.CheckinSnapshot, error) {
	return loadCheckinSnapshot(ctx, s.progressRepo, engagementID, scope, period)
}

// loadCheckinSnapshot reads the initiatives snapshot stored in wizard
// progress. A missing row yields a zero snapshot.
func loadCheckinSnapshot(ctx context.Context, repo secondary.WizardProgressRepository, engagementID, scope, period string) (initiative.CheckinSnapshot, error) {
	var snap initiative.CheckinSnapshot
	row, err := repo.Get(ctx, engagementID, wizard.CheckinKey(wizard.CheckinInitiatives, scope, period))
	if errors.Is(err, secondary.ErrNotFound) {
		return snap, nil
	}
	if err != nil {
		return snap, fmt.Errorf("failed to load check-in: %w", err)
	}
	if strings.TrimSpace(row.Notes) == "" {
		return snap, nil
	}
	if err := json.Unmarshal([]byte(row.Notes), &snap); err != nil {
		return snap, fmt.Errorf("failed to decode check-in %s: %w", row.StepKey, err)
	}
	return snap, nil
}

func snapshotToCheckin(engagementID string, snap initiative.CheckinSnapshot) *primary.InitiativeCheckin {
	out := &primary.InitiativeCheckin{
		EngagementID: engagementID,
		PeriodKey:    snap.PeriodKey,
		ScopeKey:     snap.ScopeKey,
		SavedAt:      snap.SavedAt,
		Items:        make([]primary.InitiativeSnapshot, len(snap.Items)),
	}
	for i, it := range snap.Items {
		out.Items[i] = primary.InitiativeSnapshot{
			InitiativeID: it.InitiativeID,
			ProgressPct:  it.ProgressPct,
			Status:       it.Status,
			Notes:        it.Notes,
			Blockers:     it.Blockers,
			EvidenceURLs: it.EvidenceURLs,
		}
	}
	return out
}

// canonicalOptionalPerspective keeps an empty perspective empty.
func canonicalOptionalPerspective(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	return canonicalPerspective(raw)
}

func recordToInitiative(r *secondary.InitiativeRecord) *primary.Initiative {
	return &primary.Initiative{
		ID:               r.ID,
		EngagementID:     r.EngagementID,
		Title:            r.Title,
		Owner:            r.Owner,
		Perspective:      r.Perspective,
		KpiID:            r.KpiID,
		Problem:          r.Problem,
		DefinitionOfDone: r.DefinitionOfDone,
		Status:           r.Status,
		Impact:           r.Impact,
		Effort:           r.Effort,
		Risk:             r.Risk,
		StartDate:        r.StartDate,
		EndDate:          r.EndDate,
		Dependencies:     r.Dependencies,
		Notes:            r.Notes,
		ProgressPct:      r.ProgressPct,
		PriorityScore:    initiative.PriorityScore(r.Impact, r.Effort, r.Risk),
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

var _ primary.InitiativeService = (*InitiativeServiceImpl)(nil)
