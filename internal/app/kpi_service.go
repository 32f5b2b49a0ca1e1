package app

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/see/internal/core/kpi"
	"github.com/example/see/internal/core/textnorm"
	"github.com/example/see/internal/ctxutil"
	"github.com/example/see/internal/ports/primary"
	"github.com/example/see/internal/ports/secondary"
)

// maxImportBytes caps uploaded CSV catalogues.
const maxImportBytes = 2 << 20

// KpiServiceImpl implements the KpiService interface.
type KpiServiceImpl struct {
	engagementRepo secondary.EngagementRepository
	kpiRepo        secondary.KpiRepository
	valueRepo      secondary.KpiValueRepository
	accountRepo    secondary.AccountRepository
	sheets         secondary.SpreadsheetWriter
	logger         *zap.Logger
	now            func() time.Time
}

// NewKpiService creates a new KpiService with injected dependencies.
func NewKpiService(
	engagementRepo secondary.EngagementRepository,
	kpiRepo secondary.KpiRepository,
	valueRepo secondary.KpiValueRepository,
	accountRepo secondary.AccountRepository,
	sheets secondary.SpreadsheetWriter,
	logger *zap.Logger,
) *KpiServiceImpl {
	return &KpiServiceImpl{
		engagementRepo: engagementRepo,
		kpiRepo:        kpiRepo,
		valueRepo:      valueRepo,
		accountRepo:    accountRepo,
		sheets:         sheets,
		logger:         logger,
		now:            time.Now,
	}
}

// CreateKpi adds a KPI to an engagement's catalogue.
func (s *KpiServiceImpl) CreateKpi(ctx context.Context, req primary.CreateKpiRequest) (*primary.Kpi, error) {
	_, exists, err := lookupEngagement(ctx, s.engagementRepo, req.EngagementID)
	if err != nil {
		return nil, err
	}

	record := &secondary.KpiRecord{
		EngagementID: req.EngagementID,
		NameEs:       strings.TrimSpace(req.NameEs),
		NameEn:       strings.TrimSpace(req.NameEn),
		Description:  strings.TrimSpace(req.Description),
		Perspective:  canonicalPerspective(req.Perspective),
		Frequency:    canonicalFrequency(req.Frequency),
		Direction:    canonicalDirection(req.Direction),
		Basis:        canonicalBasis(req.Basis),
		Unit:         strings.TrimSpace(req.Unit),
		TargetValue:  req.TargetValue,
		TargetText:   strings.TrimSpace(req.TargetText),
		OwnerEmail:   strings.ToLower(strings.TrimSpace(req.OwnerEmail)),
	}
	if err := s.checkKpi(req.EngagementID, exists, record); err != nil {
		return nil, err
	}

	existing, err := s.kpiRepo.FindByName(ctx, req.EngagementID, record.NameEs)
	if err == nil {
		return nil, invalidInput("kpi %q already exists in %s (%s)", record.NameEs, req.EngagementID, existing.ID)
	}
	if !errors.Is(err, secondary.ErrNotFound) {
		return nil, fmt.Errorf("failed to check kpi name: %w", err)
	}

	nextID, err := s.kpiRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate kpi ID: %w", err)
	}
	record.ID = nextID

	ctx = ctxutil.WithEngagementID(ctx, req.EngagementID)
	if err := s.kpiRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create kpi: %w", err)
	}
	s.logger.Info("kpi created", zap.String("engagement_id", req.EngagementID), zap.String("kpi_id", nextID))
	return s.GetKpi(ctx, nextID)
}

func (s *KpiServiceImpl) checkKpi(engagementID string, exists bool, record *secondary.KpiRecord) error {
	result := kpi.CanCreateKpi(kpi.CreateKpiContext{
		EngagementID:     engagementID,
		EngagementExists: exists,
		NameEs:           record.NameEs,
		Perspective:      kpi.Perspective(record.Perspective),
		Frequency:        kpi.Frequency(record.Frequency),
		Direction:        kpi.Direction(record.Direction),
		Basis:            kpi.Basis(record.Basis),
	})
	if !result.Allowed {
		return refused(result.Reason)
	}
	return nil
}

// GetKpi retrieves a KPI by ID.
func (s *KpiServiceImpl) GetKpi(ctx context.Context, kpiID string) (*primary.Kpi, error) {
	record, err := s.kpiRepo.GetByID(ctx, kpiID)
	if err != nil {
		return nil, err
	}
	return recordToKpi(record), nil
}

// ListKpis returns an engagement's KPIs in perspective order.
func (s *KpiServiceImpl) ListKpis(ctx context.Context, engagementID string) ([]*primary.Kpi, error) {
	records, err := s.kpiRepo.List(ctx, engagementID)
	if err != nil {
		return nil, fmt.Errorf("failed to list kpis: %w", err)
	}
	kpis := make([]*primary.Kpi, len(records))
	for i, r := range records {
		kpis[i] = recordToKpi(r)
	}
	return kpis, nil
}

// UpdateKpi merges the given fields into a KPI definition.
func (s *KpiServiceImpl) UpdateKpi(ctx context.Context, req primary.UpdateKpiRequest) (*primary.Kpi, error) {
	record, err := s.kpiRepo.GetByID(ctx, req.KpiID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(req.NameEs); name != "" && !strings.EqualFold(name, record.NameEs) {
		if other, err := s.kpiRepo.FindByName(ctx, record.EngagementID, name); err == nil && other.ID != record.ID {
			return nil, invalidInput("kpi %q already exists in %s (%s)", name, record.EngagementID, other.ID)
		}
	}

	setIfPresent(&record.NameEs, req.NameEs)
	setIfPresent(&record.NameEn, req.NameEn)
	setIfPresent(&record.Description, req.Description)
	setIfPresent(&record.Perspective, canonicalPerspective(req.Perspective))
	setIfPresent(&record.Frequency, canonicalFrequency(req.Frequency))
	setIfPresent(&record.Direction, canonicalDirection(req.Direction))
	if req.Basis != "" {
		record.Basis = canonicalBasis(req.Basis)
	}
	setIfPresent(&record.Unit, req.Unit)
	setIfPresent(&record.TargetText, req.TargetText)
	setIfPresent(&record.OwnerEmail, strings.ToLower(req.OwnerEmail))
	switch {
	case req.ClearTarget:
		record.TargetValue = nil
	case req.TargetValue != nil:
		record.TargetValue = req.TargetValue
	}

	if err := s.checkKpi(record.EngagementID, true, record); err != nil {
		return nil, err
	}

	ctx = ctxutil.WithEngagementID(ctx, record.EngagementID)
	if err := s.kpiRepo.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to update kpi: %w", err)
	}
	return s.GetKpi(ctx, record.ID)
}

// DeleteKpi removes a KPI and its values.
func (s *KpiServiceImpl) DeleteKpi(ctx context.Context, kpiID string) error {
	record, err := s.kpiRepo.GetByID(ctx, kpiID)
	if err != nil {
		return err
	}
	if err := s.kpiRepo.Delete(ctxutil.WithEngagementID(ctx, record.EngagementID), kpiID); err != nil {
		return fmt.Errorf("failed to delete kpi: %w", err)
	}
	return nil
}

type pendingValue struct {
	kpi   *secondary.KpiRecord
	value *float64
	note  string
}

// RecordValues validates every entry before writing any of them.
func (s *KpiServiceImpl) RecordValues(ctx context.Context, req primary.RecordValuesRequest) (*primary.RecordValuesResponse, error) {
	scope := strings.TrimSpace(req.ScopeKey)
	if scope == "" {
		scope = kpi.GlobalScope
	}

	eng, exists, err := lookupEngagement(ctx, s.engagementRepo, req.EngagementID)
	if err != nil {
		return nil, err
	}
	guardCtx := kpi.RecordValuesContext{
		EngagementID:     req.EngagementID,
		EngagementExists: exists,
		PeriodKey:        req.PeriodKey,
		ScopeKey:         scope,
	}
	if exists {
		guardCtx.EngagementStatus = eng.Status
	}
	if result := kpi.CanRecordValues(guardCtx); !result.Allowed {
		return nil, refused(result.Reason)
	}
	if err := checkScope(ctx, s.accountRepo, req.EngagementID, scope); err != nil {
		return nil, err
	}

	records, err := s.kpiRepo.List(ctx, req.EngagementID)
	if err != nil {
		return nil, fmt.Errorf("failed to list kpis: %w", err)
	}
	byID := make(map[string]*secondary.KpiRecord, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}

	pending := make([]pendingValue, 0, len(req.Values))
	for _, in := range req.Values {
		k, ok := byID[in.KpiID]
		if !ok {
			return nil, invalidInput("kpi %s does not belong to engagement %s", in.KpiID, req.EngagementID)
		}
		p := pendingValue{kpi: k, note: strings.TrimSpace(in.Note)}
		if raw := strings.TrimSpace(in.Raw); raw != "" {
			v, ok := kpi.NormalizeNumber(raw)
			if !ok {
				return nil, invalidInput("invalid value %q for %s: want a number such as 10 or 10,5", in.Raw, k.ID)
			}
			p.value = &v
		}
		pending = append(pending, p)
	}

	start, end, err := kpi.MonthBounds(req.PeriodKey)
	if err != nil {
		return nil, invalidInput("%v", err)
	}

	ctx = ctxutil.WithEngagementID(ctx, req.EngagementID)
	resp := &primary.RecordValuesResponse{}
	for _, p := range pending {
		if p.value == nil && p.note == "" {
			if err := s.valueRepo.Delete(ctx, p.kpi.ID, req.PeriodKey, scope); err != nil {
				return nil, fmt.Errorf("failed to clear value of %s: %w", p.kpi.ID, err)
			}
			resp.Cleared++
			continue
		}

		var isGreen *bool
		if p.value != nil {
			g := kpi.IsGreen(kpi.Direction(p.kpi.Direction), p.value, p.kpi.TargetValue)
			isGreen = &g
		}
		err := s.valueRepo.Upsert(ctx, &secondary.KpiValueRecord{
			KpiID:       p.kpi.ID,
			PeriodKey:   req.PeriodKey,
			ScopeKey:    scope,
			Value:       p.value,
			Note:        p.note,
			IsGreen:     isGreen,
			PeriodStart: start.Format(time.RFC3339),
			PeriodEnd:   end.Format(time.RFC3339),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to save value of %s: %w", p.kpi.ID, err)
		}
		resp.Saved++
	}

	s.logger.Info("kpi values recorded",
		zap.String("engagement_id", req.EngagementID),
		zap.String("period", req.PeriodKey),
		zap.String("scope", scope),
		zap.Int("saved", resp.Saved),
		zap.Int("cleared", resp.Cleared))
	return resp, nil
}

// GetSeries returns a KPI's monthly window. Values eleven months before
// the window are loaded so the trailing rollup of the first month is full.
func (s *KpiServiceImpl) GetSeries(ctx context.Context, req primary.KpiSeriesRequest) (*primary.KpiSeries, error) {
	record, err := s.kpiRepo.GetByID(ctx, req.KpiID)
	if err != nil {
		return nil, err
	}
	if req.EngagementID != "" && record.EngagementID != req.EngagementID {
		return nil, invalidInput("kpi %s does not belong to engagement %s", req.KpiID, req.EngagementID)
	}

	period := strings.TrimSpace(req.PeriodKey)
	if period == "" {
		period = kpi.CurrentMonthKey(s.now())
	}
	if !kpi.ValidMonthKey(period) {
		return nil, invalidInput("invalid period %q: want YYYY-MM", period)
	}
	months := req.Months
	if months <= 0 {
		months = 12
	}
	scope := strings.TrimSpace(req.ScopeKey)
	if scope == "" {
		scope = kpi.GlobalScope
	}

	keys, err := kpi.BuildMonthKeysBack(period, months)
	if err != nil {
		return nil, invalidInput("%v", err)
	}
	from, err := kpi.AddMonths(keys[0], -11)
	if err != nil {
		return nil, invalidInput("%v", err)
	}

	values, err := s.valueRepo.List(ctx, secondary.KpiValueFilters{
		KpiID:      record.ID,
		ScopeKey:   scope,
		FromPeriod: from,
		ToPeriod:   period,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load kpi values: %w", err)
	}
	byPeriod := kpi.ValuesByPeriod(toPoints(values))

	evaluated, err := kpi.ComputeEvaluatedSeries(kpi.Basis(record.Basis), record.Unit, byPeriod, keys)
	if err != nil {
		return nil, invalidInput("%v", err)
	}

	series := &primary.KpiSeries{Kpi: recordToKpi(record), Points: make([]primary.KpiSeriesPoint, len(keys))}
	for i, key := range keys {
		point := primary.KpiSeriesPoint{PeriodKey: key, Evaluated: evaluated[i]}
		if v, ok := byPeriod[key]; ok {
			point.Value = &v
		}
		if evaluated[i] != nil {
			g := kpi.IsGreen(kpi.Direction(record.Direction), evaluated[i], record.TargetValue)
			point.IsGreen = &g
		}
		series.Points[i] = point
	}
	return series, nil
}

// GetScorecard evaluates every KPI of an engagement for one period.
func (s *KpiServiceImpl) GetScorecard(ctx context.Context, engagementID, periodKey, scopeKey string) (*primary.Scorecard, error) {
	if !kpi.ValidMonthKey(periodKey) {
		return nil, invalidInput("invalid period %q: want YYYY-MM", periodKey)
	}
	if strings.TrimSpace(scopeKey) == "" {
		scopeKey = kpi.GlobalScope
	}

	records, err := s.kpiRepo.List(ctx, engagementID)
	if err != nil {
		return nil, fmt.Errorf("failed to list kpis: %w", err)
	}
	from, err := kpi.AddMonths(periodKey, -12)
	if err != nil {
		return nil, invalidInput("%v", err)
	}
	values, err := s.valueRepo.List(ctx, secondary.KpiValueFilters{
		EngagementID: engagementID,
		ScopeKey:     scopeKey,
		FromPeriod:   from,
		ToPeriod:     periodKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load kpi values: %w", err)
	}

	byKpi := make(map[string][]*secondary.KpiValueRecord)
	notes := make(map[string]string)
	for _, v := range values {
		byKpi[v.KpiID] = append(byKpi[v.KpiID], v)
		if v.PeriodKey == periodKey {
			notes[v.KpiID] = v.Note
		}
	}

	card := &primary.Scorecard{EngagementID: engagementID, PeriodKey: periodKey, ScopeKey: scopeKey}
	for _, r := range records {
		row, err := kpi.EvaluateRow(kpi.RowInput{
			PeriodKey: periodKey,
			Basis:     kpi.Basis(r.Basis),
			Direction: kpi.Direction(r.Direction),
			Unit:      r.Unit,
			Target:    r.TargetValue,
			Values:    kpi.ValuesByPeriod(toPoints(byKpi[r.ID])),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to evaluate %s: %w", r.ID, err)
		}
		card.Rows = append(card.Rows, &primary.ScorecardRow{
			Kpi:             recordToKpi(r),
			Previous:        row.Previous,
			Current:         row.Current,
			Evaluated:       row.Evaluated,
			Target:          row.Target,
			DeltaVsTarget:   row.DeltaVsTarget,
			DeltaVsPrevious: row.DeltaVsPrevious,
			Status:          string(row.Status),
			Note:            notes[r.ID],
		})
		switch row.Status {
		case kpi.StatusGreen:
			card.Green++
		case kpi.StatusRed:
			card.Red++
		default:
			card.NoData++
		}
	}
	return card, nil
}

// importAliases maps normalised CSV headers to catalogue columns.
var importAliases = map[string]string{
	"nombre":    "name_es",
	"name":      "name_es",
	"name_es":   "name_es",
	"nombre_es": "name_es",
	"kpi":       "name_es",
	"kpi_es":    "name_es",
	"indicador": "name_es",

	"name_en":   "name_en",
	"nombre_en": "name_en",
	"kpi_en":    "name_en",

	"perspectiva": "perspective",
	"perspective": "perspective",
	"frecuencia":  "frequency",
	"frequency":   "frequency",
	"direccion":   "direction",
	"direction":   "direction",
	"sentido":     "direction",

	"base":              "basis",
	"basis":             "basis",
	"tipo":              "basis",
	"calc_basis":        "basis",
	"calculation_basis": "basis",
	"periodo_base":      "basis",
	"base_calculo":      "basis",

	"unidad": "unit",
	"unit":   "unit",

	"target_value":  "target_value",
	"meta_numerica": "target_value",
	"meta_num":      "target_value",
	"target":        "target_value",
	"meta":          "target_value",
	"objetivo":      "target_value",

	"target_text":        "target_text",
	"meta_texto":         "target_text",
	"meta_text":          "target_text",
	"detalle_meta":       "target_text",
	"detalle_de_meta":    "target_text",
	"detalle_de_la_meta": "target_text",
	"target_detail":      "target_text",
	"target_details":     "target_text",

	"responsable_email": "owner_email",
	"owner_email":       "owner_email",
	"owner":             "owner_email",
	"responsable":       "owner_email",
	"email":             "owner_email",

	"accion":         "description",
	"action":         "description",
	"action_text":    "description",
	"accion_clave":   "description",
	"descripcion":    "description",
	"description":    "description",
	"description_es": "description",
	"descripcion_es": "description",
}

// ImportCSV creates or updates KPIs from a catalogue. Rows are matched to
// existing KPIs by Spanish name. Rows missing a name, perspective,
// frequency or direction are counted as failed and do not stop the import.
func (s *KpiServiceImpl) ImportCSV(ctx context.Context, engagementID string, r io.Reader) (*primary.KpiImportResult, error) {
	if _, exists, err := lookupEngagement(ctx, s.engagementRepo, engagementID); err != nil {
		return nil, err
	} else if !exists {
		return nil, invalidInput("engagement %s not found", engagementID)
	}

	rows, err := readCSV(r, maxImportBytes)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &primary.KpiImportResult{}, nil
	}

	cols := csvColumns(rows[0], importAliases)
	if _, ok := cols["name_es"]; !ok {
		return nil, invalidInput("csv has no name column (nombre, name_es or kpi)")
	}

	result := &primary.KpiImportResult{}
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

		name := get("name_es")
		perspective, pOK := kpi.ParsePerspective(get("perspective"))
		frequency, fOK := kpi.ParseFrequency(get("frequency"))
		direction, dOK := kpi.ParseDirection(get("direction"))
		if name == "" || !pOK || !fOK || !dOK {
			fail(line, "name, perspective, frequency and direction are required")
			continue
		}
		basis, ok := kpi.ParseBasis(get("basis"))
		if !ok {
			basis = kpi.BasisYTD
		}

		var target *float64
		if raw := get("target_value"); raw != "" {
			v, ok := kpi.NormalizeNumber(raw)
			if !ok {
				fail(line, "invalid target %q: must be numeric, put text in target_text", raw)
				continue
			}
			target = &v
		}

		existing, err := s.kpiRepo.FindByName(ctx, engagementID, name)
		switch {
		case err == nil:
			_, err = s.UpdateKpi(ctx, primary.UpdateKpiRequest{
				KpiID:       existing.ID,
				NameEn:      get("name_en"),
				Description: get("description"),
				Perspective: string(perspective),
				Frequency:   string(frequency),
				Direction:   string(direction),
				Basis:       string(basis),
				Unit:        get("unit"),
				TargetValue: target,
				TargetText:  get("target_text"),
				OwnerEmail:  get("owner_email"),
			})
			if err != nil {
				fail(line, "%v", err)
				continue
			}
			result.Updated++
		case errors.Is(err, secondary.ErrNotFound):
			_, err = s.CreateKpi(ctx, primary.CreateKpiRequest{
				EngagementID: engagementID,
				NameEs:       name,
				NameEn:       get("name_en"),
				Description:  get("description"),
				Perspective:  string(perspective),
				Frequency:    string(frequency),
				Direction:    string(direction),
				Basis:        string(basis),
				Unit:         get("unit"),
				TargetValue:  target,
				TargetText:   get("target_text"),
				OwnerEmail:   get("owner_email"),
			})
			if err != nil {
				fail(line, "%v", err)
				continue
			}
			result.Created++
		default:
			return nil, fmt.Errorf("failed to look up kpi %q: %w", name, err)
		}
	}

	s.logger.Info("kpi catalogue imported",
		zap.String("engagement_id", engagementID),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("failed", result.Failed))
	return result, nil
}

// readCSV reads a whole CSV document. The delimiter is whichever of comma,
// semicolon or tab appears most often in the header line.
func readCSV(r io.Reader, limit int64) ([][]string, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, invalidInput("csv exceeds %d bytes", limit)
	}
	text := textnorm.StripBOM(string(data))
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	header, _, _ := strings.Cut(text, "\n")
	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = detectDelimiter(header)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, invalidInput("malformed csv: %v", err)
	}
	return rows, nil
}

// csvColumns maps canonical column names to their index. Headers are
// folded with textnorm.HeaderKey and then renamed through aliases; the
// first occurrence of a column wins.
func csvColumns(header []string, aliases map[string]string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		key := textnorm.HeaderKey(h)
		if canon, ok := aliases[key]; ok {
			key = canon
		}
		if _, seen := cols[key]; !seen && key != "" {
			cols[key] = i
		}
	}
	return cols
}

func csvCell(row []string, cols map[string]int, col string) string {
	idx, ok := cols[col]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isBlankRow(row []string) bool {
	return strings.TrimSpace(strings.Join(row, "")) == ""
}

func detectDelimiter(header string) rune {
	best, bestCount := ',', strings.Count(header, ",")
	for _, d := range []rune{';', '\t'} {
		if n := strings.Count(header, string(d)); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

// TemplateCSV returns the import template with two example rows.
func (s *KpiServiceImpl) TemplateCSV() []byte {
	var buf bytes.Buffer
	buf.WriteString("\ufeff")
	w := csv.NewWriter(&buf)
	_ = w.WriteAll([][]string{
		{"name_es", "name_en", "perspective", "frequency", "direction", "basis", "unit", "target_value", "target_text", "owner_email", "description"},
		{"Cumplimiento de riego", "", "CUSTOMER", "WEEKLY", "HIGHER_IS_BETTER", "A", "%", "95", "≥ 95% de cumplimiento", "operaciones@empresa.com", "Checklist + auditoría semanal"},
		{"Costo por km", "", "FINANCIAL", "MONTHLY", "LOWER_IS_BETTER", "L", "USD", "10", "≤ 10 USD/km", "finanzas@empresa.com", "Renegociar proveedores + control de consumo"},
	})
	return buf.Bytes()
}

// ExportXLSX writes the catalogue and every stored value to a workbook.
func (s *KpiServiceImpl) ExportXLSX(ctx context.Context, engagementID string) ([]byte, error) {
	records, err := s.kpiRepo.List(ctx, engagementID)
	if err != nil {
		return nil, fmt.Errorf("failed to list kpis: %w", err)
	}
	values, err := s.valueRepo.List(ctx, secondary.KpiValueFilters{EngagementID: engagementID})
	if err != nil {
		return nil, fmt.Errorf("failed to load kpi values: %w", err)
	}

	catalogue := secondary.Sheet{
		Name: "KPIs",
		Headers: []string{"id", "name_es", "name_en", "perspective", "frequency", "direction", "basis",
			"unit", "target_value", "target_text", "owner_email", "description"},
	}
	names := make(map[string]string, len(records))
	for _, r := range records {
		names[r.ID] = r.NameEs
		catalogue.Rows = append(catalogue.Rows, []any{r.ID, r.NameEs, r.NameEn, r.Perspective, r.Frequency,
			r.Direction, r.Basis, r.Unit, optionalCell(r.TargetValue), r.TargetText, r.OwnerEmail, r.Description})
	}

	valueSheet := secondary.Sheet{
		Name:    "Valores",
		Headers: []string{"kpi_id", "kpi", "period", "scope", "value", "green", "note"},
	}
	for _, v := range values {
		green := ""
		if v.IsGreen != nil {
			green = fmt.Sprintf("%t", *v.IsGreen)
		}
		valueSheet.Rows = append(valueSheet.Rows, []any{v.KpiID, names[v.KpiID], v.PeriodKey, v.ScopeKey,
			optionalCell(v.Value), green, v.Note})
	}

	data, err := s.sheets.Write(ctx, []secondary.Sheet{catalogue, valueSheet})
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return data, nil
}

func optionalCell(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func toPoints(values []*secondary.KpiValueRecord) []kpi.Point {
	points := make([]kpi.Point, len(values))
	for i, v := range values {
		points[i] = kpi.Point{PeriodKey: v.PeriodKey, Value: v.Value}
	}
	return points
}

// canonical* accept enum codes or human labels; unknown input is returned
// upper-cased so the guard can name it.

func canonicalPerspective(raw string) string {
	if p, ok := kpi.ParsePerspective(raw); ok {
		return string(p)
	}
	return strings.ToUpper(strings.TrimSpace(raw))
}

func canonicalFrequency(raw string) string {
	if f, ok := kpi.ParseFrequency(raw); ok {
		return string(f)
	}
	return strings.ToUpper(strings.TrimSpace(raw))
}

func canonicalDirection(raw string) string {
	if d, ok := kpi.ParseDirection(raw); ok {
		return string(d)
	}
	return strings.ToUpper(strings.TrimSpace(raw))
}

func canonicalBasis(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return string(kpi.BasisYTD)
	}
	if b, ok := kpi.ParseBasis(raw); ok {
		return string(b)
	}
	return strings.ToUpper(strings.TrimSpace(raw))
}

func recordToKpi(r *secondary.KpiRecord) *primary.Kpi {
	return &primary.Kpi{
		ID:           r.ID,
		EngagementID: r.EngagementID,
		NameEs:       r.NameEs,
		NameEn:       r.NameEn,
		Description:  r.Description,
		Perspective:  r.Perspective,
		Frequency:    r.Frequency,
		Direction:    r.Direction,
		Basis:        r.Basis,
		Unit:         r.Unit,
		TargetValue:  r.TargetValue,
		TargetText:   r.TargetText,
		OwnerEmail:   r.OwnerEmail,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

var _ primary.KpiService = (*KpiServiceImpl)(nil)
