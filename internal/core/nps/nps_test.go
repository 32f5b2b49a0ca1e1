package nps

import (
	"strings"
	"testing"
)

func TestBucket(t *testing.T) {
	tests := map[int]string{0: Detractor, 6: Detractor, 7: Passive, 8: Passive, 9: Promoter, 10: Promoter}
	for score, want := range tests {
		if got := Bucket(score); got != want {
			t.Errorf("Bucket(%d) = %s, want %s", score, got, want)
		}
	}
}

func TestCompute(t *testing.T) {
	m := Compute([]float64{10, 9, 9, 8, 7, 6, 3, 0, 12, -1})

	if m.Total != 10 {
		t.Errorf("Total = %d, want 10", m.Total)
	}
	// 10, 9, 9, 12(->10) promote; 8, 7 passive; 6, 3, 0, -1(->0) detract
	if m.Promoters != 4 || m.Passives != 2 || m.Detractors != 4 {
		t.Errorf("buckets = %d/%d/%d", m.Promoters, m.Passives, m.Detractors)
	}
	if m.NPS != 0 {
		t.Errorf("NPS = %d, want 0", m.NPS)
	}
	if m.Distribution[10].Count != 2 || m.Distribution[0].Count != 2 || m.Distribution[9].Count != 2 {
		t.Errorf("distribution = %+v", m.Distribution)
	}
}

func TestCompute_Rounding(t *testing.T) {
	m := Compute([]float64{10, 10, 5})
	// (2/3 - 1/3) * 100 = 33.33
	if m.NPS != 33 {
		t.Errorf("NPS = %d, want 33", m.NPS)
	}
}

func TestCompute_NegativeHalfRoundsUp(t *testing.T) {
	tests := []struct {
		scores []float64
		want   int
	}{
		{[]float64{10, 7, 7, 7, 7, 7, 0, 0}, -12}, // -12.5
		{[]float64{10, 10, 7, 7, 7, 7, 7, 0}, 13}, // 12.5
		{[]float64{0, 7}, -50},
	}
	for _, tt := range tests {
		if got := Compute(tt.scores).NPS; got != tt.want {
			t.Errorf("Compute(%v).NPS = %d, want %d", tt.scores, got, tt.want)
		}
	}
}

func TestCompute_Empty(t *testing.T) {
	m := Compute(nil)
	if m.Total != 0 || m.NPS != 0 || len(m.Distribution) != 11 {
		t.Errorf("empty metrics = %+v", m)
	}
	if m.Distribution[7].Score != 7 {
		t.Errorf("distribution slots are not numbered")
	}
}

func TestValidateScore(t *testing.T) {
	for _, ok := range []float64{0, 5, 10} {
		if err := ValidateScore(ok); err != nil {
			t.Errorf("ValidateScore(%v) unexpected error: %v", ok, err)
		}
	}
	for _, bad := range []float64{-1, 11, 7.5} {
		if err := ValidateScore(bad); err == nil {
			t.Errorf("ValidateScore(%v) expected error", bad)
		}
	}
}

func TestFilterChoice(t *testing.T) {
	if got := FilterChoice(" SEGURIDAD_HSEC ", Reasons); got != "SEGURIDAD_HSEC" {
		t.Errorf("FilterChoice = %q", got)
	}
	if got := FilterChoice("PRICE", Reasons); got != "" {
		t.Errorf("unknown reason should be dropped, got %q", got)
	}
	if got := FilterChoice("MAS_DATOS_INSIGHTS", Focuses); got != "MAS_DATOS_INSIGHTS" {
		t.Errorf("FilterChoice focus = %q", got)
	}
}

func TestTrimComment(t *testing.T) {
	long := strings.Repeat("ñ", MaxComment+10)
	if got := TrimComment(long); len([]rune(got)) != MaxComment {
		t.Errorf("TrimComment kept %d runes", len([]rune(got)))
	}
	if got := TrimComment("  hola "); got != "hola" {
		t.Errorf("TrimComment = %q", got)
	}
}

func TestHashIP(t *testing.T) {
	if HashIP("") != "" {
		t.Error("empty ip should hash to empty")
	}
	h := HashIP("203.0.113.7")
	if len(h) != 64 || h == "203.0.113.7" {
		t.Errorf("HashIP = %q", h)
	}
	if HashIP("203.0.113.7") != h {
		t.Error("HashIP should be deterministic")
	}
}
