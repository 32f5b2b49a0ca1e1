package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/example/see/internal/ports/primary"
)

func init() {
	color.NoColor = true
}

// mockEngagementService implements primary.EngagementService for testing
type mockEngagementService struct {
	primary.EngagementService

	createFn func(ctx context.Context, req primary.CreateEngagementRequest) (*primary.Engagement, error)
	listFn   func(ctx context.Context, filters primary.EngagementFilters) ([]*primary.Engagement, error)
	getFn    func(ctx context.Context, id string) (*primary.Engagement, error)
	closeFn  func(ctx context.Context, id string) error
	deleteFn func(ctx context.Context, id string) error
	auditFn  func(ctx context.Context, id string, limit int) ([]*primary.AuditEntry, error)

	// Track calls for verification
	lastCreateReq primary.CreateEngagementRequest
	lastFilters   primary.EngagementFilters
	deletedID     string
}

func (m *mockEngagementService) CreateEngagement(ctx context.Context, req primary.CreateEngagementRequest) (*primary.Engagement, error) {
	m.lastCreateReq = req
	if m.createFn != nil {
		return m.createFn(ctx, req)
	}
	return &primary.Engagement{ID: "ENG-001", CompanyName: req.CompanyName, Status: "DRAFT", Locale: "es"}, nil
}

func (m *mockEngagementService) ListEngagements(ctx context.Context, filters primary.EngagementFilters) ([]*primary.Engagement, error) {
	m.lastFilters = filters
	if m.listFn != nil {
		return m.listFn(ctx, filters)
	}
	return nil, nil
}

func (m *mockEngagementService) GetEngagement(ctx context.Context, id string) (*primary.Engagement, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return &primary.Engagement{ID: id, CompanyName: "Minera Andina", Status: "ACTIVE", Locale: "es"}, nil
}

func (m *mockEngagementService) UpdateEngagement(ctx context.Context, req primary.UpdateEngagementRequest) (*primary.Engagement, error) {
	return &primary.Engagement{ID: req.EngagementID}, nil
}

func (m *mockEngagementService) ActivateEngagement(ctx context.Context, id string) error {
	return nil
}

func (m *mockEngagementService) CloseEngagement(ctx context.Context, id string) error {
	if m.closeFn != nil {
		return m.closeFn(ctx, id)
	}
	return nil
}

func (m *mockEngagementService) DeleteEngagement(ctx context.Context, id string) error {
	m.deletedID = id
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockEngagementService) ListAudit(ctx context.Context, id string, limit int) ([]*primary.AuditEntry, error) {
	if m.auditFn != nil {
		return m.auditFn(ctx, id, limit)
	}
	return nil, nil
}

func TestEngagementAdapter_Create(t *testing.T) {
	mock := &mockEngagementService{}
	var out bytes.Buffer
	adapter := NewEngagementAdapter(mock, &out)

	eng, err := adapter.Create(context.Background(), primary.CreateEngagementRequest{CompanyName: "Minera Andina"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if eng.ID != "ENG-001" {
		t.Errorf("expected ENG-001, got %q", eng.ID)
	}
	if mock.lastCreateReq.CompanyName != "Minera Andina" {
		t.Errorf("company not passed through: %q", mock.lastCreateReq.CompanyName)
	}
	if !strings.Contains(out.String(), "✓ Created engagement ENG-001: Minera Andina") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestEngagementAdapter_CreateError(t *testing.T) {
	mock := &mockEngagementService{
		createFn: func(ctx context.Context, req primary.CreateEngagementRequest) (*primary.Engagement, error) {
			return nil, primary.ErrInvalidInput
		},
	}
	var out bytes.Buffer
	adapter := NewEngagementAdapter(mock, &out)

	_, err := adapter.Create(context.Background(), primary.CreateEngagementRequest{})
	if !errors.Is(err, primary.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("expected no output on error, got %q", out.String())
	}
}

func TestEngagementAdapter_List(t *testing.T) {
	tests := []struct {
		name        string
		engagements []*primary.Engagement
		wantOutput  []string
	}{
		{
			name:       "empty",
			wantOutput: []string{"No engagements found"},
		},
		{
			name: "rows",
			engagements: []*primary.Engagement{
				{ID: "ENG-001", CompanyName: "Minera Andina", Status: "ACTIVE", StartDate: "2024-01-08", EndDate: "2024-05-24"},
				{ID: "ENG-002", CompanyName: "Frutícola Sur", Name: "Turnaround", Status: "DRAFT"},
			},
			wantOutput: []string{"ID", "ENG-001", "Minera Andina", "2024-01-08 → 2024-05-24", "ENG-002", "Turnaround", "DRAFT"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockEngagementService{
				listFn: func(ctx context.Context, filters primary.EngagementFilters) ([]*primary.Engagement, error) {
					return tt.engagements, nil
				},
			}
			var out bytes.Buffer
			adapter := NewEngagementAdapter(mock, &out)

			if err := adapter.List(context.Background(), "ACTIVE"); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if mock.lastFilters.Status != "ACTIVE" {
				t.Errorf("status filter not passed: %q", mock.lastFilters.Status)
			}
			for _, want := range tt.wantOutput {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output missing %q:\n%s", want, out.String())
				}
			}
		})
	}
}

func TestEngagementAdapter_Show(t *testing.T) {
	mock := &mockEngagementService{
		getFn: func(ctx context.Context, id string) (*primary.Engagement, error) {
			return &primary.Engagement{
				ID:          id,
				CompanyName: "Minera Andina",
				Status:      "CLOSED",
				Locale:      "en",
				Goals:       "Reduce costs 10%",
				ClosedAt:    "2024-06-01T10:00:00Z",
			}, nil
		},
	}
	var out bytes.Buffer
	adapter := NewEngagementAdapter(mock, &out)

	eng, err := adapter.Show(context.Background(), "ENG-004")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if eng.ID != "ENG-004" {
		t.Errorf("expected ENG-004, got %q", eng.ID)
	}
	for _, want := range []string{"Engagement: ENG-004", "Goals:\n  Reduce costs 10%", "Closed:     2024-06-01T10:00:00Z", "Dates:      -"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestEngagementAdapter_CloseError(t *testing.T) {
	mock := &mockEngagementService{
		closeFn: func(ctx context.Context, id string) error {
			return errors.New("cannot close a DRAFT engagement")
		},
	}
	var out bytes.Buffer
	adapter := NewEngagementAdapter(mock, &out)

	if err := adapter.Close(context.Background(), "ENG-001"); err == nil {
		t.Fatal("expected error")
	}
	if out.Len() != 0 {
		t.Errorf("expected no output, got %q", out.String())
	}
}

func TestEngagementAdapter_Delete(t *testing.T) {
	mock := &mockEngagementService{}
	var out bytes.Buffer
	adapter := NewEngagementAdapter(mock, &out)

	if err := adapter.Delete(context.Background(), "ENG-002"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.deletedID != "ENG-002" {
		t.Errorf("expected ENG-002 deleted, got %q", mock.deletedID)
	}
	if !strings.Contains(out.String(), "✓ Deleted engagement ENG-002: Minera Andina") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestEngagementAdapter_DeleteNotFound(t *testing.T) {
	mock := &mockEngagementService{
		getFn: func(ctx context.Context, id string) (*primary.Engagement, error) {
			return nil, errors.New("not found")
		},
	}
	var out bytes.Buffer
	adapter := NewEngagementAdapter(mock, &out)

	if err := adapter.Delete(context.Background(), "ENG-404"); err == nil {
		t.Fatal("expected error")
	}
	if mock.deletedID != "" {
		t.Errorf("delete should not be called, got %q", mock.deletedID)
	}
}

func TestEngagementAdapter_Audit(t *testing.T) {
	mock := &mockEngagementService{
		auditFn: func(ctx context.Context, id string, limit int) ([]*primary.AuditEntry, error) {
			if limit != 20 {
				t.Errorf("expected limit 20, got %d", limit)
			}
			return []*primary.AuditEntry{
				{CreatedAt: "2024-06-01", Actor: "consultor", Action: "update", EntityType: "engagement", EntityID: id, FieldName: "status", OldValue: "DRAFT", NewValue: "ACTIVE"},
				{CreatedAt: "2024-05-30", Action: "create", EntityType: "engagement", EntityID: id},
			}, nil
		},
	}
	var out bytes.Buffer
	adapter := NewEngagementAdapter(mock, &out)

	if err := adapter.Audit(context.Background(), "ENG-001", 20); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "status: DRAFT → ACTIVE") {
		t.Errorf("missing change line:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "create") {
		t.Errorf("missing create entry:\n%s", out.String())
	}
}
