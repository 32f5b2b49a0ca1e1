package kpi

import "testing"

func TestNormalizeNumber(t *testing.T) {
	tests := []struct {
		raw    string
		want   float64
		wantOK bool
	}{
		{"10", 10, true},
		{"10.5", 10.5, true},
		{"10,5", 10.5, true},
		{" -3 ", -3, true},
		{"1 000", 1000, true},
		{"", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"1,2,3", 0, false},
		{"12%", 0, false},
	}

	for _, tt := range tests {
		got, ok := NormalizeNumber(tt.raw)
		if ok != tt.wantOK || (ok && got != tt.want) {
			t.Errorf("NormalizeNumber(%q) = %v, %v; want %v, %v", tt.raw, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestParseBasis(t *testing.T) {
	tests := []struct {
		raw    string
		want   Basis
		wantOK bool
	}{
		{"A", BasisYTD, true},
		{"l", BasisTTM, true},
		{"YTD", BasisYTD, true},
		{"Promedio AVG", BasisYTD, true},
		{"LTM", BasisTTM, true},
		{"ttm", BasisTTM, true},
		{"", "", false},
		{"monthly", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseBasis(tt.raw)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseBasis(%q) = %q, %v; want %q, %v", tt.raw, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestParsePerspective(t *testing.T) {
	tests := []struct {
		raw    string
		want   Perspective
		wantOK bool
	}{
		{"FINANCIAL", PerspectiveFinancial, true},
		{"customer", PerspectiveCustomer, true},
		{"Financiera", PerspectiveFinancial, true},
		{"Procesos Internos", PerspectiveInternalProcess, true},
		{"Aprendizaje y  Crecimiento", PerspectiveLearningGrowth, true},
		{"Clientes", PerspectiveCustomer, true},
		{"marketing", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParsePerspective(tt.raw)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParsePerspective(%q) = %q, %v; want %q, %v", tt.raw, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestGuessPerspective(t *testing.T) {
	tests := map[string]Perspective{
		"Finanzas":            PerspectiveFinancial,
		"Operación":           PerspectiveInternalProcess,
		"Equipo comercial":    PerspectiveLearningGrowth,
		"Resultados fin. Q3":  PerspectiveFinancial,
		"Experiencia cliente": PerspectiveCustomer,
		"marketing":           PerspectiveInternalProcess,
		"":                    PerspectiveInternalProcess,
	}
	for raw, want := range tests {
		if got := GuessPerspective(raw); got != want {
			t.Errorf("GuessPerspective(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestParseFrequency(t *testing.T) {
	tests := []struct {
		raw    string
		want   Frequency
		wantOK bool
	}{
		{"MONTHLY", FrequencyMonthly, true},
		{"Mensual", FrequencyMonthly, true},
		{"Trimestral", FrequencyQuarterly, true},
		{"cada trimestre", FrequencyQuarterly, true},
		{"Semanal", FrequencyWeekly, true},
		{"Anual", FrequencyYearly, true},
		{"A demanda", FrequencyAdhoc, true},
		{"adhoc", FrequencyAdhoc, true},
		{"nunca", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseFrequency(tt.raw)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseFrequency(%q) = %q, %v; want %q, %v", tt.raw, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestParseDirection(t *testing.T) {
	tests := []struct {
		raw    string
		want   Direction
		wantOK bool
	}{
		{"HIGHER_IS_BETTER", HigherIsBetter, true},
		{"lower_is_better", LowerIsBetter, true},
		{"↑", HigherIsBetter, true},
		{"↓ Menor", LowerIsBetter, true},
		{"Más alto es mejor", HigherIsBetter, true},
		{"Más bajo es mejor", LowerIsBetter, true},
		{"sideways", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseDirection(tt.raw)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseDirection(%q) = %q, %v; want %q, %v", tt.raw, got, ok, tt.want, tt.wantOK)
		}
	}
}
