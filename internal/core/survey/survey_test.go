package survey

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestValidateAnswer(t *testing.T) {
	tests := []struct {
		name    string
		q       Question
		raw     string
		want    any
		wantErr bool
	}{
		{"text", Question{Key: "q", Type: TypeText}, " hola ", "hola", false},
		{"optional empty", Question{Key: "q", Type: TypeLongText}, "  ", nil, false},
		{"required empty", Question{Key: "q", Type: TypeText, Required: true}, "", nil, true},
		{"number with comma", Question{Key: "q", Type: TypeNumber}, "10,5", 10.5, false},
		{"number garbage", Question{Key: "q", Type: TypeNumber}, "12abc", nil, true},
		{"date", Question{Key: "q", Type: TypeDate}, "2026-10-19", "2026-10-19", false},
		{"bad date", Question{Key: "q", Type: TypeDate}, "19-10-2026", nil, true},
		{"scale ok", Question{Key: "B1.1", Type: TypeScale15}, "4", 4, false},
		{"scale out of range", Question{Key: "B1.1", Type: TypeScale15}, "6", nil, true},
		{"scale decimal", Question{Key: "B1.1", Type: TypeScale15}, "3.5", nil, true},
		{"single select ok", Question{Key: "q", Type: TypeSingleSelect, Options: []string{"Sí", "No"}}, "No", "No", false},
		{"single select bad", Question{Key: "q", Type: TypeSingleSelect, Options: []string{"Sí", "No"}}, "Tal vez", nil, true},
		{"multi select", Question{Key: "q", Type: TypeMultiSelect, Options: []string{"a", "b", "c"}}, "a, c", []string{"a", "c"}, false},
		{"multi select bad", Question{Key: "q", Type: TypeMultiSelect, Options: []string{"a"}}, "a,z", nil, true},
		{"unknown type", Question{Key: "q", Type: "MATRIX"}, "x", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateAnswer(tt.q, tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("value mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestComputeAverages(t *testing.T) {
	answers := []ScaleAnswer{
		{QuestionKey: "B1.1", ValueJSON: `{"value":4,"area":"Operaciones"}`},
		{QuestionKey: "B1.2", ValueJSON: `{"value":2,"area":"Operaciones"}`},
		{QuestionKey: "B1.3", ValueJSON: `{"value":"5","area":"Comercial"}`},
		{QuestionKey: "B1.4", ValueJSON: `{"value":3}`},
		{QuestionKey: "B1.5", ValueJSON: `{"value":9}`},
		{QuestionKey: "B2.1", ValueJSON: `{"value":5}`},
		{QuestionKey: "B1.6", ValueJSON: `not json`},
	}

	got := ComputeAverages(answers)
	if got.Count != 4 {
		t.Errorf("Count = %d, want 4", got.Count)
	}
	if got.Overall == nil || *got.Overall != 3.5 {
		t.Errorf("Overall = %v, want 3.5", got.Overall)
	}
	want := []AreaAverage{
		{Area: NoArea, Average: 3, Count: 1},
		{Area: "Comercial", Average: 5, Count: 1},
		{Area: "Operaciones", Average: 3, Count: 2},
	}
	if diff := cmp.Diff(want, got.ByArea); diff != "" {
		t.Errorf("ByArea mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeAverages_Empty(t *testing.T) {
	got := ComputeAverages(nil)
	if got.Overall != nil || got.Count != 0 || len(got.ByArea) != 0 {
		t.Errorf("ComputeAverages(nil) = %+v", got)
	}
}

func TestEncodeAnswer(t *testing.T) {
	s, err := EncodeAnswer(4, " Operaciones ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != `{"value":4,"area":"Operaciones"}` {
		t.Errorf("EncodeAnswer = %s", s)
	}
}
