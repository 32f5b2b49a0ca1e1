package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/see/internal/db"
	"github.com/example/see/internal/ports/primary"
)

var surveyCmd = &cobra.Command{
	Use:   "survey",
	Short: "Question sets and internal survey answers",
}

var surveySeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the built-in question sets",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app()
		if err != nil {
			return err
		}
		if err := db.SeedQuestionSets(a.DB); err != nil {
			return err
		}
		fmt.Println("✓ Question sets loaded")
		return nil
	},
}

var surveyListCmd = &cobra.Command{
	Use:   "list [set-id]",
	Short: "List question sets, or the questions of one set",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := app()
		if err != nil {
			return err
		}
		locale := a.Config.Locale
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

		if len(args) == 1 {
			set, err := a.Surveys.GetQuestionSet(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to get question set: %w", err)
			}
			fmt.Printf("\n%s · %s\n\n", set.ID, localized(locale, set.TitleEs, set.TitleEn))
			fmt.Fprintln(w, "KEY\tTYPE\tREQ\tPROMPT")
			fmt.Fprintln(w, "---\t----\t---\t------")
			for _, q := range set.Questions {
				req := ""
				if q.Required {
					req = "*"
				}
				prompt := localized(locale, q.PromptEs, q.PromptEn)
				if len(q.Options) > 0 {
					prompt += " [" + strings.Join(q.Options, " | ") + "]"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", q.Key, q.Type, req, prompt)
			}
			return w.Flush()
		}

		all, _ := cmd.Flags().GetBool("all")
		sets, err := a.Surveys.ListQuestionSets(cmd.Context(), !all)
		if err != nil {
			return fmt.Errorf("failed to list question sets: %w", err)
		}
		if len(sets) == 0 {
			fmt.Println("No question sets\nHint: run 'see survey seed'")
			return nil
		}
		fmt.Fprintln(w, "ID\tKIND\tTITLE\tACTIVE")
		fmt.Fprintln(w, "--\t----\t-----\t------")
		for _, s := range sets {
			fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", s.ID, s.Kind, localized(locale, s.TitleEs, s.TitleEn), s.Active)
		}
		return w.Flush()
	},
}

var surveyAnswerCmd = &cobra.Command{
	Use:   "answer [set-id] [key=value]...",
	Short: "Record one respondent's answers",
	Long: `Record one respondent's answers to a question set. Multi-choice answers
are comma separated.

Example:
  see survey answer QS-006 q1=4 q2=5 q3="Falta de datos" --respondent jefe-turno --area Operaciones`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := engagementID(cmd)
		if err != nil {
			return err
		}
		a, err := app()
		if err != nil {
			return err
		}
		answers := make(map[string]string, len(args)-1)
		for _, arg := range args[1:] {
			key, value, ok := strings.Cut(arg, "=")
			if !ok || strings.TrimSpace(key) == "" {
				return fmt.Errorf("expected key=value, got %q", arg)
			}
			answers[strings.TrimSpace(key)] = value
		}
		respondent, _ := cmd.Flags().GetString("respondent")
		area, _ := cmd.Flags().GetString("area")

		n, err := a.Surveys.RecordAnswers(cmd.Context(), primary.RecordAnswersRequest{
			EngagementID: id,
			SetID:        args[0],
			Respondent:   respondent,
			Area:         area,
			Answers:      answers,
		})
		if err != nil {
			return err
		}
		fmt.Printf("✓ Recorded %d answer(s)\n", n)
		return nil
	},
}

var surveyAveragesCmd = &cobra.Command{
	Use:   "averages",
	Short: "Average the internal survey's 1-5 block",
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := engagementID(cmd)
		if err != nil {
			return err
		}
		a, err := app()
		if err != nil {
			return err
		}
		avg, err := a.Surveys.GetAverages(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to get averages: %w", err)
		}
		if avg.Overall == nil {
			fmt.Println("No answers yet")
			return nil
		}
		fmt.Printf("\nOverall: %.2f / 5 (%d answers)\n\n", *avg.Overall, avg.Count)
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "AREA\tAVERAGE\tANSWERS")
		fmt.Fprintln(w, "----\t-------\t-------")
		for _, ar := range avg.ByArea {
			fmt.Fprintf(w, "%s\t%.2f\t%d\n", dashText(ar.Area), ar.Average, ar.Count)
		}
		return w.Flush()
	},
}

func localized(locale, es, en string) string {
	if locale == "en" && en != "" {
		return en
	}
	return es
}

func init() {
	surveyListCmd.Flags().Bool("all", false, "Include inactive sets")
	surveyAnswerCmd.Flags().String("respondent", "", "Respondent name or role")
	surveyAnswerCmd.Flags().String("area", "", "Respondent area")
	addEngagementFlag(surveyAnswerCmd, surveyAveragesCmd)

	surveyCmd.AddCommand(surveySeedCmd)
	surveyCmd.AddCommand(surveyListCmd)
	surveyCmd.AddCommand(surveyAnswerCmd)
	surveyCmd.AddCommand(surveyAveragesCmd)
}

// SurveyCmd returns the survey command
func SurveyCmd() *cobra.Command {
	return surveyCmd
}
