package app

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/example/see/internal/ports/secondary"
)

// ============================================================================
// Mock Implementations
// ============================================================================

// mockEngagementRepository implements secondary.EngagementRepository for testing.
type mockEngagementRepository struct {
	engagements map[string]*secondary.EngagementRecord
	nextID      int
	createErr   error
	getErr      error
	updateErr   error
}

func newMockEngagementRepository() *mockEngagementRepository {
	return &mockEngagementRepository{engagements: make(map[string]*secondary.EngagementRecord), nextID: 1}
}

func (m *mockEngagementRepository) add(id, status string) *secondary.EngagementRecord {
	rec := &secondary.EngagementRecord{ID: id, CompanyName: "Cliente " + id, Status: status, Locale: "es"}
	m.engagements[id] = rec
	return rec
}

func (m *mockEngagementRepository) Create(ctx context.Context, e *secondary.EngagementRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	copied := *e
	m.engagements[e.ID] = &copied
	return nil
}

func (m *mockEngagementRepository) GetByID(ctx context.Context, id string) (*secondary.EngagementRecord, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if e, ok := m.engagements[id]; ok {
		copied := *e
		return &copied, nil
	}
	return nil, fmt.Errorf("engagement %s %w", id, secondary.ErrNotFound)
}

func (m *mockEngagementRepository) Update(ctx context.Context, e *secondary.EngagementRecord) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.engagements[e.ID]; !ok {
		return fmt.Errorf("engagement %s %w", e.ID, secondary.ErrNotFound)
	}
	copied := *e
	m.engagements[e.ID] = &copied
	return nil
}

func (m *mockEngagementRepository) UpdateStatus(ctx context.Context, id, status string) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	e, ok := m.engagements[id]
	if !ok {
		return fmt.Errorf("engagement %s %w", id, secondary.ErrNotFound)
	}
	e.Status = status
	return nil
}

func (m *mockEngagementRepository) Delete(ctx context.Context, id string) error {
	delete(m.engagements, id)
	return nil
}

func (m *mockEngagementRepository) List(ctx context.Context, filters secondary.EngagementFilters) ([]*secondary.EngagementRecord, error) {
	var out []*secondary.EngagementRecord
	for _, e := range m.engagements {
		if filters.Status == "" || e.Status == filters.Status {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockEngagementRepository) CountByStatus(ctx context.Context, status string) (int, error) {
	n := 0
	for _, e := range m.engagements {
		if e.Status == status {
			n++
		}
	}
	return n, nil
}

func (m *mockEngagementRepository) GetNextID(ctx context.Context) (string, error) {
	id := fmt.Sprintf("ENG-%03d", m.nextID)
	m.nextID++
	return id, nil
}

// mockAuditLogRepository implements secondary.AuditLogRepository for testing.
type mockAuditLogRepository struct {
	entries []*secondary.AuditLogRecord
}

func (m *mockAuditLogRepository) List(ctx context.Context, filters secondary.AuditLogFilters) ([]*secondary.AuditLogRecord, error) {
	var out []*secondary.AuditLogRecord
	for _, e := range m.entries {
		if filters.EngagementID == "" || e.EngagementID == filters.EngagementID {
			out = append(out, e)
		}
	}
	if filters.Limit > 0 && len(out) > filters.Limit {
		out = out[:filters.Limit]
	}
	return out, nil
}

// mockWizardProgressRepository implements secondary.WizardProgressRepository for testing.
type mockWizardProgressRepository struct {
	rows      map[string]*secondary.WizardProgressRecord
	upsertErr error
}

func newMockWizardProgressRepository() *mockWizardProgressRepository {
	return &mockWizardProgressRepository{rows: make(map[string]*secondary.WizardProgressRecord)}
}

func (m *mockWizardProgressRepository) List(ctx context.Context, engagementID string) ([]*secondary.WizardProgressRecord, error) {
	var out []*secondary.WizardProgressRecord
	for _, r := range m.rows {
		if r.EngagementID == engagementID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StepKey < out[j].StepKey })
	return out, nil
}

func (m *mockWizardProgressRepository) Get(ctx context.Context, engagementID, stepKey string) (*secondary.WizardProgressRecord, error) {
	if r, ok := m.rows[engagementID+"|"+stepKey]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, fmt.Errorf("wizard step %s %w", stepKey, secondary.ErrNotFound)
}

func (m *mockWizardProgressRepository) Upsert(ctx context.Context, r *secondary.WizardProgressRecord) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	copied := *r
	m.rows[r.EngagementID+"|"+r.StepKey] = &copied
	return nil
}

// mockStrategyRepository implements secondary.StrategyRepository for testing.
type mockStrategyRepository struct {
	strategies map[string]*secondary.StrategyRecord
}

func newMockStrategyRepository() *mockStrategyRepository {
	return &mockStrategyRepository{strategies: make(map[string]*secondary.StrategyRecord)}
}

func (m *mockStrategyRepository) Get(ctx context.Context, engagementID string) (*secondary.StrategyRecord, error) {
	if r, ok := m.strategies[engagementID]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, fmt.Errorf("strategy %s %w", engagementID, secondary.ErrNotFound)
}

func (m *mockStrategyRepository) Upsert(ctx context.Context, r *secondary.StrategyRecord) error {
	copied := *r
	m.strategies[r.EngagementID] = &copied
	return nil
}

// mockSwotRepository implements secondary.SwotRepository for testing.
type mockSwotRepository struct {
	items  map[string]*secondary.SwotItemRecord
	nextID int
}

func newMockSwotRepository() *mockSwotRepository {
	return &mockSwotRepository{items: make(map[string]*secondary.SwotItemRecord), nextID: 1}
}

func (m *mockSwotRepository) Create(ctx context.Context, item *secondary.SwotItemRecord) error {
	copied := *item
	m.items[item.ID] = &copied
	return nil
}

func (m *mockSwotRepository) GetByID(ctx context.Context, id string) (*secondary.SwotItemRecord, error) {
	if r, ok := m.items[id]; ok {
		return r, nil
	}
	return nil, fmt.Errorf("swot item %s %w", id, secondary.ErrNotFound)
}

func (m *mockSwotRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return fmt.Errorf("swot item %s %w", id, secondary.ErrNotFound)
	}
	delete(m.items, id)
	return nil
}

func (m *mockSwotRepository) List(ctx context.Context, engagementID string) ([]*secondary.SwotItemRecord, error) {
	var out []*secondary.SwotItemRecord
	for _, r := range m.items {
		if r.EngagementID == engagementID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quadrant != out[j].Quadrant {
			return out[i].Quadrant < out[j].Quadrant
		}
		return out[i].SortOrder < out[j].SortOrder
	})
	return out, nil
}

func (m *mockSwotRepository) NextSortOrder(ctx context.Context, engagementID, quadrant string) (int, error) {
	next := 1
	for _, r := range m.items {
		if r.EngagementID == engagementID && r.Quadrant == quadrant && r.SortOrder >= next {
			next = r.SortOrder + 1
		}
	}
	return next, nil
}

func (m *mockSwotRepository) GetNextID(ctx context.Context) (string, error) {
	id := fmt.Sprintf("SWOT-%03d", m.nextID)
	m.nextID++
	return id, nil
}

// mockKpiRepository implements secondary.KpiRepository for testing.
type mockKpiRepository struct {
	kpis      map[string]*secondary.KpiRecord
	nextID    int
	createErr error
}

func newMockKpiRepository() *mockKpiRepository {
	return &mockKpiRepository{kpis: make(map[string]*secondary.KpiRecord), nextID: 1}
}

func (m *mockKpiRepository) Create(ctx context.Context, k *secondary.KpiRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	copied := *k
	m.kpis[k.ID] = &copied
	return nil
}

func (m *mockKpiRepository) GetByID(ctx context.Context, id string) (*secondary.KpiRecord, error) {
	if k, ok := m.kpis[id]; ok {
		copied := *k
		return &copied, nil
	}
	return nil, fmt.Errorf("kpi %s %w", id, secondary.ErrNotFound)
}

func (m *mockKpiRepository) FindByName(ctx context.Context, engagementID, nameEs string) (*secondary.KpiRecord, error) {
	for _, k := range m.kpis {
		if k.EngagementID == engagementID && strings.EqualFold(k.NameEs, nameEs) {
			copied := *k
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("kpi %s %w", nameEs, secondary.ErrNotFound)
}

func (m *mockKpiRepository) Update(ctx context.Context, k *secondary.KpiRecord) error {
	if _, ok := m.kpis[k.ID]; !ok {
		return fmt.Errorf("kpi %s %w", k.ID, secondary.ErrNotFound)
	}
	copied := *k
	m.kpis[k.ID] = &copied
	return nil
}

func (m *mockKpiRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.kpis[id]; !ok {
		return fmt.Errorf("kpi %s %w", id, secondary.ErrNotFound)
	}
	delete(m.kpis, id)
	return nil
}

func (m *mockKpiRepository) List(ctx context.Context, engagementID string) ([]*secondary.KpiRecord, error) {
	var out []*secondary.KpiRecord
	for _, k := range m.kpis {
		if k.EngagementID == engagementID {
			copied := *k
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *mockKpiRepository) GetNextID(ctx context.Context) (string, error) {
	id := fmt.Sprintf("KPI-%03d", m.nextID)
	m.nextID++
	return id, nil
}

// mockKpiValueRepository implements secondary.KpiValueRepository for testing.
// It resolves engagement filters through the kpi mock it is linked to.
type mockKpiValueRepository struct {
	kpis      *mockKpiRepository
	values    map[string]*secondary.KpiValueRecord
	upsertErr error
}

func newMockKpiValueRepository(kpis *mockKpiRepository) *mockKpiValueRepository {
	return &mockKpiValueRepository{kpis: kpis, values: make(map[string]*secondary.KpiValueRecord)}
}

func valueKey(kpiID, periodKey, scopeKey string) string {
	return kpiID + "|" + periodKey + "|" + scopeKey
}

func (m *mockKpiValueRepository) Upsert(ctx context.Context, v *secondary.KpiValueRecord) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	copied := *v
	m.values[valueKey(v.KpiID, v.PeriodKey, v.ScopeKey)] = &copied
	return nil
}

func (m *mockKpiValueRepository) Delete(ctx context.Context, kpiID, periodKey, scopeKey string) error {
	delete(m.values, valueKey(kpiID, periodKey, scopeKey))
	return nil
}

func (m *mockKpiValueRepository) List(ctx context.Context, f secondary.KpiValueFilters) ([]*secondary.KpiValueRecord, error) {
	var out []*secondary.KpiValueRecord
	for _, v := range m.values {
		if f.KpiID != "" && v.KpiID != f.KpiID {
			continue
		}
		if f.ScopeKey != "" && v.ScopeKey != f.ScopeKey {
			continue
		}
		if f.FromPeriod != "" && v.PeriodKey < f.FromPeriod {
			continue
		}
		if f.ToPeriod != "" && v.PeriodKey > f.ToPeriod {
			continue
		}
		if f.EngagementID != "" {
			k, ok := m.kpis.kpis[v.KpiID]
			if !ok || k.EngagementID != f.EngagementID {
				continue
			}
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PeriodKey != out[j].PeriodKey {
			return out[i].PeriodKey < out[j].PeriodKey
		}
		return out[i].KpiID < out[j].KpiID
	})
	return out, nil
}

// mockSpreadsheetWriter records the sheets it was asked to write.
type mockSpreadsheetWriter struct {
	sheets []secondary.Sheet
}

func (m *mockSpreadsheetWriter) Write(ctx context.Context, sheets []secondary.Sheet) ([]byte, error) {
	m.sheets = sheets
	return []byte("xlsx"), nil
}

// mockAccountRepository serves account lookups for scope checks.
type mockAccountRepository struct {
	secondary.AccountRepository
	accounts map[string]*secondary.AccountRecord
}

func newMockAccountRepository(accounts ...*secondary.AccountRecord) *mockAccountRepository {
	m := &mockAccountRepository{accounts: make(map[string]*secondary.AccountRecord)}
	for _, a := range accounts {
		m.accounts[a.ID] = a
	}
	return m
}

func (m *mockAccountRepository) GetByID(ctx context.Context, id string) (*secondary.AccountRecord, error) {
	if a, ok := m.accounts[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, fmt.Errorf("account %s %w", id, secondary.ErrNotFound)
}

// mockDocumentRenderer records the last document rendered.
type mockDocumentRenderer struct {
	doc *secondary.Document
}

func (m *mockDocumentRenderer) Render(ctx context.Context, doc *secondary.Document) ([]byte, error) {
	m.doc = doc
	return []byte("%PDF-mock"), nil
}

// mockMailer collects sent messages.
type mockMailer struct {
	mu      sync.Mutex
	sent    []secondary.MailMessage
	sendErr error
}

func (m *mockMailer) Send(ctx context.Context, msg secondary.MailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, msg)
	return nil
}

var (
	_ secondary.EngagementRepository     = (*mockEngagementRepository)(nil)
	_ secondary.AuditLogRepository       = (*mockAuditLogRepository)(nil)
	_ secondary.WizardProgressRepository = (*mockWizardProgressRepository)(nil)
	_ secondary.StrategyRepository       = (*mockStrategyRepository)(nil)
	_ secondary.SwotRepository           = (*mockSwotRepository)(nil)
	_ secondary.KpiRepository            = (*mockKpiRepository)(nil)
	_ secondary.KpiValueRepository       = (*mockKpiValueRepository)(nil)
	_ secondary.AccountRepository        = (*mockAccountRepository)(nil)
	_ secondary.SpreadsheetWriter        = (*mockSpreadsheetWriter)(nil)
	_ secondary.DocumentRenderer         = (*mockDocumentRenderer)(nil)
	_ secondary.Mailer                   = (*mockMailer)(nil)
)
