package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/me/heroconsole/internal/apiclient"
	"github.com/me/heroconsole/internal/session"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Run batch operations on the records (Admin only)",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "mark",
			Short: "Classify every unmarked record",
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := requireAccess(session.AdminOnly); err != nil {
					return err
				}
				res, err := client.Mark(cmd.Context())
				if err != nil {
					return fmt.Errorf("mark: %s", apiclient.ErrorMessage(err, err.Error()))
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Marked:           %d\n", res.MarkedCount)
				fmt.Fprintf(out, "No hero word:     %d\n", res.NoHeroCount)
				fmt.Fprintf(out, "Unknown category: %d\n", res.UnknownCategoryCount)
				return nil
			},
		},
		adminActionCmd("reset-mark", "Clear every classification", "Marks reset", func(ctx context.Context) error {
			return client.ResetMark(ctx)
		}),
		adminActionCmd("recalculate", "Recompute the engagement metrics", "Metrics recalculated", func(ctx context.Context) error {
			return client.RecalculateMetrics(ctx)
		}),
	)
	return cmd
}

// adminActionCmd builds a command that runs one result-less batch operation.
func adminActionCmd(use, short, okMsg string, run func(context.Context) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAccess(session.AdminOnly); err != nil {
				return err
			}
			if err := run(cmd.Context()); err != nil {
				return fmt.Errorf("%s: %s", use, apiclient.ErrorMessage(err, err.Error()))
			}
			fmt.Fprintln(cmd.OutOrStdout(), okMsg)
			return nil
		},
	}
}
