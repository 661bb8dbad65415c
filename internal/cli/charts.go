package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/me/heroconsole/internal/session"
	"github.com/me/heroconsole/pkg/model"
)

// chartsOutput is what `charts -o json|yaml` prints.
type chartsOutput struct {
	Counts  []model.CountSlice  `json:"counts"`
	Total   int                 `json:"total"`
	Metrics []model.MetricPoint `json:"metrics"`
}

func newChartsCmd() *cobra.Command {
	var from, to, class, output string

	cmd := &cobra.Command{
		Use:   "charts",
		Short: "Show classification counts and engagement metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAccess(session.Protected); err != nil {
				return err
			}
			format, err := parseOutput(output)
			if err != nil {
				return err
			}

			f := model.ChartFilter{FromDateTime: strings.TrimSpace(from), ToDateTime: strings.TrimSpace(to)}
			if class != "" {
				c, ok := model.ParseClassification(class)
				if !ok {
					return fmt.Errorf("--classification: unknown classification %q", class)
				}
				f.Classification = &c
			}

			counts, err := client.ClassificationCounts(cmd.Context(), f)
			if err != nil {
				return fmt.Errorf("charts: %w", err)
			}
			metrics, err := client.Metrics(cmd.Context(), f)
			if err != nil {
				return fmt.Errorf("charts: %w", err)
			}

			res := chartsOutput{Counts: counts.Slices(), Total: counts.Total(), Metrics: metrics}
			out := cmd.OutOrStdout()
			switch format {
			case outputJSON:
				return writeJSON(out, res)
			case outputYAML:
				return writeYAML(out, res)
			}

			rows := make([][]string, 0, len(res.Counts))
			for _, s := range res.Counts {
				rows = append(rows, []string{s.Label, humanize.Comma(int64(s.Value)), percent(s.Value, res.Total)})
			}
			writeTable(out, []string{"Classification", "Records", "Share"}, rows)
			fmt.Fprintf(out, "Total: %s\n", humanize.Comma(int64(res.Total)))

			if len(metrics) > 0 {
				rows = rows[:0]
				for _, m := range metrics {
					rows = append(rows, []string{m.Date, ratio(m.VR), ratio(m.ER), ratio(m.Average)})
				}
				writeTable(out, []string{"Date", "VR", "ER", "Average"}, rows)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "From date (YYYY-MM-DDTHH:MM)")
	cmd.Flags().StringVar(&to, "to", "", "To date (YYYY-MM-DDTHH:MM)")
	cmd.Flags().StringVar(&class, "classification", "", "Classification name or number (Svo, Vov, Work, ...)")
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "Output format (table, json, yaml)")
	return cmd
}

func percent(n, total int) string {
	if total == 0 {
		return "0%"
	}
	return strconv.Itoa(n*100/total) + "%"
}

func ratio(v float64) string {
	return humanize.FtoaWithDigits(v, 4)
}
