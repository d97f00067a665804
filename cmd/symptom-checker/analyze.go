package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/symptom-checker-server/internal/domain"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var (
		age        int
		gender     string
		duration   string
		severity   string
		additional []string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "analyze <primary symptom>",
		Short: "Rank likely conditions for a set of symptoms",
		Example: `  symptom-checker analyze headache --duration 1-3-days --severity moderate --also nausea,fatigue
  symptom-checker analyze cough --age 70 --gender male --duration 1-3-days --severity severe --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}

			profile := domain.PatientProfile{
				Gender:             strings.ToLower(gender),
				PrimarySymptom:     args[0],
				Duration:           domain.DurationBucket(duration),
				Severity:           domain.Severity(severity),
				AdditionalSymptoms: additional,
			}
			if cmd.Flags().Changed("age") {
				profile.Age = &age
			}

			report, err := svc.Analyze(cmd.Context(), profile)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			printReport(out, report)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&age, "age", 0, "age in years")
	flags.StringVar(&gender, "gender", "", "male, female, other or prefer-not-to-say")
	flags.StringVar(&duration, "duration", "", "less-than-day, 1-3-days, 4-7-days, 1-2-weeks or more-than-2-weeks")
	flags.StringVar(&severity, "severity", "", "mild, moderate, severe or very-severe")
	flags.StringSliceVar(&additional, "also", nil, "additional symptoms, comma separated or repeated")
	flags.BoolVar(&asJSON, "json", false, "output the report as JSON")
	_ = cmd.MarkFlagRequired("duration")
	_ = cmd.MarkFlagRequired("severity")

	return cmd
}

func printReport(w io.Writer, report *domain.AnalysisReport) {
	fmt.Fprintf(w, "Analysis %s\n\n", report.AnalysisID)

	if report.Emergency {
		fmt.Fprintln(w, "!! Your symptoms may need immediate medical attention. Call your local emergency number.")
		fmt.Fprintln(w)
	}

	if len(report.Results) == 0 {
		fmt.Fprintln(w, "No matching conditions.")
	}
	for i, r := range report.Results {
		fmt.Fprintf(w, "%d. %-22s %3d%%  %-6s %s\n", i+1, r.Condition.Name, r.Confidence, r.Band, r.Condition.Category)
		if len(r.MatchingSymptoms) > 0 {
			fmt.Fprintf(w, "   matching: %s\n", strings.Join(r.MatchingSymptoms, ", "))
		}
		if len(r.RiskFactors) > 0 {
			fmt.Fprintf(w, "   risk factors: %s\n", strings.Join(r.RiskFactors, "; "))
		}
	}

	fmt.Fprintln(w, "\nRecommendations:")
	for _, rec := range report.Recommendations {
		fmt.Fprintf(w, "  [%s] %s: %s\n", rec.Type, rec.Title, rec.Description)
	}

	fmt.Fprintf(w, "\n%s\n", report.Disclaimer)
}
