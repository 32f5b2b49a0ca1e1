package kpi

import (
	"strings"
	"testing"
)

func TestCanCreateKpi(t *testing.T) {
	valid := CreateKpiContext{
		EngagementID:     "ENG-001",
		EngagementExists: true,
		NameEs:           "Margen EBITDA",
		Perspective:      PerspectiveFinancial,
		Frequency:        FrequencyMonthly,
		Direction:        HigherIsBetter,
		Basis:            BasisYTD,
	}

	tests := []struct {
		name        string
		mutate      func(c *CreateKpiContext)
		wantAllowed bool
		wantReason  string
	}{
		{
			name:        "valid kpi",
			mutate:      func(c *CreateKpiContext) {},
			wantAllowed: true,
		},
		{
			name:        "empty basis is allowed",
			mutate:      func(c *CreateKpiContext) { c.Basis = "" },
			wantAllowed: true,
		},
		{
			name:        "missing engagement",
			mutate:      func(c *CreateKpiContext) { c.EngagementExists = false },
			wantAllowed: false,
			wantReason:  "engagement ENG-001 not found",
		},
		{
			name:        "blank name",
			mutate:      func(c *CreateKpiContext) { c.NameEs = "   " },
			wantAllowed: false,
			wantReason:  "kpi name is required",
		},
		{
			name:        "unknown perspective",
			mutate:      func(c *CreateKpiContext) { c.Perspective = "MARKETING" },
			wantAllowed: false,
			wantReason:  `unknown perspective "MARKETING"`,
		},
		{
			name:        "unknown frequency",
			mutate:      func(c *CreateKpiContext) { c.Frequency = "DAILY" },
			wantAllowed: false,
			wantReason:  `unknown frequency "DAILY"`,
		},
		{
			name:        "unknown direction",
			mutate:      func(c *CreateKpiContext) { c.Direction = "SIDEWAYS" },
			wantAllowed: false,
			wantReason:  `unknown direction "SIDEWAYS"`,
		},
		{
			name:        "unknown basis",
			mutate:      func(c *CreateKpiContext) { c.Basis = "X" },
			wantAllowed: false,
			wantReason:  `unknown basis "X" (use A or L)`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := valid
			tt.mutate(&ctx)
			result := CanCreateKpi(ctx)

			if result.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if result.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", result.Reason, tt.wantReason)
			}
		})
	}
}

func TestCanRecordValues(t *testing.T) {
	tests := []struct {
		name        string
		ctx         RecordValuesContext
		wantAllowed bool
		wantReason  string
	}{
		{
			name: "active engagement, global scope",
			ctx: RecordValuesContext{
				EngagementID: "ENG-001", EngagementExists: true, EngagementStatus: "ACTIVE",
				PeriodKey: "2024-06", ScopeKey: GlobalScope,
			},
			wantAllowed: true,
		},
		{
			name: "closed engagement",
			ctx: RecordValuesContext{
				EngagementID: "ENG-002", EngagementExists: true, EngagementStatus: "CLOSED",
				PeriodKey: "2024-06", ScopeKey: GlobalScope,
			},
			wantAllowed: false,
			wantReason:  "engagement ENG-002 is closed. Reopen first with: see engagement reopen ENG-002",
		},
		{
			name: "bad period",
			ctx: RecordValuesContext{
				EngagementID: "ENG-001", EngagementExists: true, EngagementStatus: "ACTIVE",
				PeriodKey: "2024-6", ScopeKey: GlobalScope,
			},
			wantAllowed: false,
			wantReason:  `invalid period "2024-6": want YYYY-MM`,
		},
		{
			name: "path-like scope",
			ctx: RecordValuesContext{
				EngagementID: "ENG-001", EngagementExists: true, EngagementStatus: "ACTIVE",
				PeriodKey: "2024-06", ScopeKey: "../faena",
			},
			wantAllowed: false,
			wantReason:  `invalid scope "../faena"`,
		},
		{
			name:        "missing engagement",
			ctx:         RecordValuesContext{EngagementID: "ENG-404"},
			wantAllowed: false,
			wantReason:  "engagement ENG-404 not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanRecordValues(tt.ctx)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if result.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", result.Reason, tt.wantReason)
			}
		})
	}
}

func TestValidScopeKey(t *testing.T) {
	if !ValidScopeKey("FAENA-001") {
		t.Error("FAENA-001 should be valid")
	}
	for _, s := range []string{"", "  ", "a/b", `a\b`, "..", strings.Repeat("x", 121)} {
		if ValidScopeKey(s) {
			t.Errorf("ValidScopeKey(%q) should be false", s)
		}
	}
}

func TestGuardResult_Error(t *testing.T) {
	if err := (GuardResult{Allowed: true}).Error(); err != nil {
		t.Errorf("allowed result should have nil error, got %v", err)
	}
	err := GuardResult{Allowed: false, Reason: "nope"}.Error()
	if err == nil || err.Error() != "nope" {
		t.Errorf("Error() = %v, want nope", err)
	}
}
