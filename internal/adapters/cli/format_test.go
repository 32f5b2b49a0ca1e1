package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/example/see/internal/ports/primary"
)

func TestPrintImportResult(t *testing.T) {
	color.NoColor = true
	var out bytes.Buffer
	PrintImportResult(&out, "initiatives", &primary.CSVImportResult{
		Imported: 3,
		Failed:   1,
		Errors:   []string{"line 4: title and owner are required"},
	})
	assert.Equal(t, "✓ Imported initiatives: 3 imported, 1 failed\n  ✗ line 4: title and owner are required\n", out.String())
}

func TestPrintUnitEconomics(t *testing.T) {
	var out bytes.Buffer
	err := PrintUnitEconomics(&out, []*primary.UnitEconomics{
		{ID: "UE-001", AccountLabel: "Mall Norte", ClientSite: "Bodega 4", M2Month: f64(1200), PriceUSDM2: f64(3.5), RevenueMonth: f64(4200)},
		{ID: "UE-002", MarginPct: f64(12.346)},
	})
	assert.NoError(t, err)
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, []string{"UE-001", "Mall", "Norte", "Bodega", "4", "1200", "3.5", "4200", "—", "—", "—"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"UE-002", "-", "-", "—", "—", "—", "—", "—", "12.35"}, strings.Fields(lines[2]))
}
