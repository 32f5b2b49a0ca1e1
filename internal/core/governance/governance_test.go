package governance

import (
	"testing"
	"time"
)

func TestNormalizeActionStatus(t *testing.T) {
	tests := []struct {
		raw    string
		want   string
		wantOK bool
	}{
		{"Por iniciar", ActionTodo, true},
		{"", ActionTodo, true},
		{"En curso", ActionInProgress, true},
		{"IN_PROGRESS", ActionInProgress, true},
		{"Bloqueada", ActionBlocked, true},
		{"Cerrada", ActionDone, true},
		{"done", ActionDone, true},
		{"archivada", "", false},
	}
	for _, tt := range tests {
		got, ok := NormalizeActionStatus(tt.raw)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("NormalizeActionStatus(%q) = %q, %v; want %q, %v", tt.raw, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestActionStatusLabelRoundTrip(t *testing.T) {
	for _, s := range []string{ActionTodo, ActionInProgress, ActionBlocked, ActionDone} {
		got, ok := NormalizeActionStatus(ActionStatusLabel(s))
		if !ok || got != s {
			t.Errorf("label of %s does not normalise back: %q", s, got)
		}
	}
}

func TestIsOverdue(t *testing.T) {
	today := time.Date(2026, 10, 19, 15, 0, 0, 0, time.UTC)
	tests := []struct {
		name   string
		status string
		due    string
		want   bool
	}{
		{"due yesterday", ActionTodo, "2026-10-18", true},
		{"due today", ActionInProgress, "2026-10-19", false},
		{"done is never overdue", ActionDone, "2026-01-01", false},
		{"no due date", ActionBlocked, "", false},
		{"unparseable date", ActionTodo, "18/10/2026", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsOverdue(tt.status, tt.due, today); got != tt.want {
				t.Errorf("IsOverdue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsUpcoming(t *testing.T) {
	today := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	if !IsUpcoming(ActionTodo, "2026-10-19", today, 7) {
		t.Error("due today should be upcoming")
	}
	if !IsUpcoming(ActionTodo, "2026-10-26", today, 7) {
		t.Error("due in 7 days should be upcoming")
	}
	if IsUpcoming(ActionTodo, "2026-10-27", today, 7) {
		t.Error("due in 8 days should not be upcoming")
	}
	if IsUpcoming(ActionDone, "2026-10-20", today, 7) {
		t.Error("done actions are not upcoming")
	}
}

func TestNormalizeDecisionStatus(t *testing.T) {
	got, ok := NormalizeDecisionStatus("Aprobada")
	if !ok || got != DecisionApproved {
		t.Errorf("NormalizeDecisionStatus(Aprobada) = %q, %v", got, ok)
	}
	if _, ok := NormalizeDecisionStatus("maybe"); ok {
		t.Error("expected unknown decision status to fail")
	}
}

func TestCanCreateAction(t *testing.T) {
	tests := []struct {
		name        string
		ctx         CreateActionContext
		wantAllowed bool
		wantReason  string
	}{
		{"valid", CreateActionContext{EngagementID: "ENG-001", EngagementExists: true, Task: "Definir KPIs", DueDate: "2026-11-01"}, true, ""},
		{"no engagement", CreateActionContext{EngagementID: "ENG-002", Task: "x"}, false, "engagement ENG-002 not found"},
		{"no task", CreateActionContext{EngagementID: "ENG-001", EngagementExists: true}, false, "task is required"},
		{"bad date", CreateActionContext{EngagementID: "ENG-001", EngagementExists: true, Task: "x", DueDate: "2026-13-01"}, false, `invalid due date "2026-13-01": want YYYY-MM-DD`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanCreateAction(tt.ctx)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if result.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", result.Reason, tt.wantReason)
			}
		})
	}
}

func TestCanCreateDecision(t *testing.T) {
	if r := CanCreateDecision(CreateDecisionContext{EngagementID: "ENG-001", EngagementExists: true, Decision: "Priorizar contrato A"}); !r.Allowed {
		t.Errorf("expected allowed, got %q", r.Reason)
	}
	if r := CanCreateDecision(CreateDecisionContext{EngagementID: "ENG-001", EngagementExists: true}); r.Reason != "decision text is required" {
		t.Errorf("Reason = %q", r.Reason)
	}
}

func TestCanCreateRaci(t *testing.T) {
	tests := []struct {
		name        string
		ctx         CreateRaciContext
		wantAllowed bool
		wantReason  string
	}{
		{"valid", CreateRaciContext{EngagementID: "ENG-001", EngagementExists: true, Initiative: "Data pack", Responsible: "Ana", Accountable: "Gerente"}, true, ""},
		{"missing accountable", CreateRaciContext{EngagementID: "ENG-001", EngagementExists: true, Initiative: "Data pack", Responsible: "Ana"}, false, "RACI row needs a responsible (R) and an accountable (A)"},
		{"missing initiative", CreateRaciContext{EngagementID: "ENG-001", EngagementExists: true, Responsible: "Ana", Accountable: "B"}, false, "initiative name is required"},
		{"missing engagement", CreateRaciContext{EngagementID: "ENG-003"}, false, "engagement ENG-003 not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanCreateRaci(tt.ctx)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if result.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", result.Reason, tt.wantReason)
			}
		})
	}
}
