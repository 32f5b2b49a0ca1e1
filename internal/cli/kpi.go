package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	cliadapter "github.com/example/see/internal/adapters/cli"
	"github.com/example/see/internal/ports/primary"
)

var kpiCmd = &cobra.Command{
	Use:   "kpi",
	Short: "Manage BSC KPIs, monthly values and the scorecard",
}

func kpiAdapter() (*cliadapter.KpiAdapter, error) {
	a, err := app()
	if err != nil {
		return nil, err
	}
	return cliadapter.NewKpiAdapter(a.Kpis, os.Stdout, a.Config.Locale), nil
}

var kpiCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a KPI",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := engagementID(cmd)
		if err != nil {
			return err
		}
		a, err := app()
		if err != nil {
			return err
		}
		target, err := floatFlag(cmd, "target")
		if err != nil {
			return err
		}
		req := primary.CreateKpiRequest{EngagementID: id, NameEs: args[0], TargetValue: target}
		req.NameEn, _ = cmd.Flags().GetString("name-en")
		req.Description, _ = cmd.Flags().GetString("description")
		req.Perspective, _ = cmd.Flags().GetString("perspective")
		req.Frequency, _ = cmd.Flags().GetString("frequency")
		req.Direction, _ = cmd.Flags().GetString("direction")
		req.Basis, _ = cmd.Flags().GetString("basis")
		req.Unit, _ = cmd.Flags().GetString("unit")
		req.TargetText, _ = cmd.Flags().GetString("target-text")
		req.OwnerEmail, _ = cmd.Flags().GetString("owner")

		k, err := a.Kpis.CreateKpi(cmd.Context(), req)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Created KPI %s: %s (%s, basis %s)\n", k.ID, k.NameEs, k.Perspective, k.Basis)
		return nil
	},
}

var kpiListCmd = &cobra.Command{
	Use:   "list",
	Short: "List KPIs in perspective order",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := engagementID(cmd)
		if err != nil {
			return err
		}
		adapter, err := kpiAdapter()
		if err != nil {
			return err
		}
		return adapter.List(cmd.Context(), id)
	},
}

var kpiShowCmd = &cobra.Command{
	Use:   "show [kpi-id]",
	Short: "Show a KPI definition",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		adapter, err := kpiAdapter()
		if err != nil {
			return err
		}
		return adapter.Show(cmd.Context(), args[0])
	},
}

var kpiUpdateCmd = &cobra.Command{
	Use:   "update [kpi-id]",
	Short: "Update a KPI definition",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app()
		if err != nil {
			return err
		}
		target, err := floatFlag(cmd, "target")
		if err != nil {
			return err
		}
		req := primary.UpdateKpiRequest{KpiID: args[0], TargetValue: target}
		req.NameEs, _ = cmd.Flags().GetString("name")
		req.NameEn, _ = cmd.Flags().GetString("name-en")
		req.Description, _ = cmd.Flags().GetString("description")
		req.Perspective, _ = cmd.Flags().GetString("perspective")
		req.Frequency, _ = cmd.Flags().GetString("frequency")
		req.Direction, _ = cmd.Flags().GetString("direction")
		req.Basis, _ = cmd.Flags().GetString("basis")
		req.Unit, _ = cmd.Flags().GetString("unit")
		req.TargetText, _ = cmd.Flags().GetString("target-text")
		req.OwnerEmail, _ = cmd.Flags().GetString("owner")
		req.ClearTarget, _ = cmd.Flags().GetBool("clear-target")

		if _, err := a.Kpis.UpdateKpi(cmd.Context(), req); err != nil {
			return err
		}
		fmt.Printf("✓ KPI %s updated\n", args[0])
		return nil
	},
}

var kpiRmCmd = &cobra.Command{
	Use:   "rm [kpi-id]",
	Short: "Delete a KPI and its values",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app()
		if err != nil {
			return err
		}
		if err := a.Kpis.DeleteKpi(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("✓ Deleted KPI %s\n", args[0])
		return nil
	},
}

var kpiRecordCmd = &cobra.Command{
	Use:   "record [kpi-id=value]...",
	Short: "Record monthly values (an empty value clears the stored one)",
	Long: `Record the values of one period and scope. Decimal commas are accepted.

Examples:
  see kpi record KPI-001=12,5 KPI-002=340 --period 2024-06
  see kpi record KPI-003= --period 2024-06     # clear the value`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := engagementID(cmd)
		if err != nil {
			return err
		}
		adapter, err := kpiAdapter()
		if err != nil {
			return err
		}
		note, _ := cmd.Flags().GetString("note")
		values := make([]primary.KpiValueInput, 0, len(args))
		for _, arg := range args {
			kpiID, raw, ok := strings.Cut(arg, "=")
			if !ok || strings.TrimSpace(kpiID) == "" {
				return fmt.Errorf("expected kpi-id=value, got %q", arg)
			}
			values = append(values, primary.KpiValueInput{KpiID: strings.TrimSpace(kpiID), Raw: raw, Note: note})
		}
		return adapter.Record(cmd.Context(), primary.RecordValuesRequest{
			EngagementID: id,
			PeriodKey:    periodKey(cmd),
			ScopeKey:     scopeKey(cmd),
			Values:       values,
		})
	},
}

var kpiSeriesCmd = &cobra.Command{
	Use:   "series [kpi-id]",
	Short: "Show the monthly series of a KPI",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := engagementID(cmd)
		if err != nil {
			return err
		}
		adapter, err := kpiAdapter()
		if err != nil {
			return err
		}
		months, _ := cmd.Flags().GetInt("months")
		return adapter.Series(cmd.Context(), primary.KpiSeriesRequest{
			EngagementID: id,
			KpiID:        args[0],
			PeriodKey:    periodKey(cmd),
			Months:       months,
			ScopeKey:     scopeKey(cmd),
		})
	},
}

var kpiScorecardCmd = &cobra.Command{
	Use:   "scorecard",
	Short: "Evaluate every KPI for a period",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := engagementID(cmd)
		if err != nil {
			return err
		}
		adapter, err := kpiAdapter()
		if err != nil {
			return err
		}
		_, err = adapter.Scorecard(cmd.Context(), id, periodKey(cmd), scopeKey(cmd))
		return err
	},
}

var kpiImportCmd = &cobra.Command{
	Use:   "import [file.csv]",
	Short: "Create or update KPIs from a CSV catalogue (- for stdin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := engagementID(cmd)
		if err != nil {
			return err
		}
		adapter, err := kpiAdapter()
		if err != nil {
			return err
		}
		f, err := openInput(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		return adapter.Import(cmd.Context(), id, f)
	},
}

var kpiTemplateCmd = &cobra.Command{
	Use:   "template",
	Short: "Write the KPI import template",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app()
		if err != nil {
			return err
		}
		out, _ := cmd.Flags().GetString("output")
		return writeOutput(out, a.Kpis.TemplateCSV())
	},
}

var kpiExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the catalogue and values as XLSX",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := engagementID(cmd)
		if err != nil {
			return err
		}
		a, err := app()
		if err != nil {
			return err
		}
		data, err := a.Kpis.ExportXLSX(cmd.Context(), id)
		if err != nil {
			return err
		}
		out, _ := cmd.Flags().GetString("output")
		if out == "" {
			out = fmt.Sprintf("kpis-%s.xlsx", id)
		}
		return writeOutput(out, data)
	},
}

func init() {
	for _, c := range []*cobra.Command{kpiCreateCmd, kpiUpdateCmd} {
		c.Flags().String("name-en", "", "English name")
		c.Flags().String("description", "", "Description")
		c.Flags().String("perspective", "", "FINANCIAL, CUSTOMER, INTERNAL_PROCESS or LEARNING_GROWTH")
		c.Flags().String("frequency", "", "WEEKLY, MONTHLY, QUARTERLY, YEARLY or ADHOC")
		c.Flags().String("direction", "", "HIGHER_IS_BETTER or LOWER_IS_BETTER")
		c.Flags().String("basis", "", "A (year to date) or L (last twelve months)")
		c.Flags().String("unit", "", "Unit, e.g. % or USD")
		c.Flags().String("target", "", "Numeric target")
		c.Flags().String("target-text", "", "Target as free text")
		c.Flags().String("owner", "", "Owner email")
	}
	kpiUpdateCmd.Flags().String("name", "", "Spanish name")
	kpiUpdateCmd.Flags().Bool("clear-target", false, "Remove the numeric target")
	kpiRecordCmd.Flags().String("note", "", "Note stored with each value")
	kpiSeriesCmd.Flags().Int("months", 12, "Months in the window")
	kpiTemplateCmd.Flags().StringP("output", "o", "kpis-template.csv", "Output file (- for stdout)")
	kpiExportCmd.Flags().StringP("output", "o", "", "Output file (default kpis-<engagement>.xlsx)")
	addEngagementFlag(kpiCreateCmd, kpiListCmd, kpiRecordCmd, kpiSeriesCmd, kpiScorecardCmd, kpiImportCmd, kpiExportCmd)
	addPeriodFlags(kpiRecordCmd, kpiSeriesCmd, kpiScorecardCmd)

	kpiCmd.AddCommand(kpiCreateCmd)
	kpiCmd.AddCommand(kpiListCmd)
	kpiCmd.AddCommand(kpiShowCmd)
	kpiCmd.AddCommand(kpiUpdateCmd)
	kpiCmd.AddCommand(kpiRmCmd)
	kpiCmd.AddCommand(kpiRecordCmd)
	kpiCmd.AddCommand(kpiSeriesCmd)
	kpiCmd.AddCommand(kpiScorecardCmd)
	kpiCmd.AddCommand(kpiImportCmd)
	kpiCmd.AddCommand(kpiTemplateCmd)
	kpiCmd.AddCommand(kpiExportCmd)
}

// KpiCmd returns the kpi command
func KpiCmd() *cobra.Command {
	return kpiCmd
}
