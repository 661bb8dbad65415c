package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/me/heroconsole/internal/columns"
	"github.com/me/heroconsole/internal/export"
	"github.com/me/heroconsole/internal/session"
	"github.com/me/heroconsole/internal/table"
	"github.com/me/heroconsole/internal/tui"
	"github.com/me/heroconsole/pkg/model"
)

func newRecordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Search, browse and export hero records",
	}
	cmd.AddCommand(newRecordsListCmd(), newRecordsBrowseCmd(), newRecordsExportCmd())
	return cmd
}

// recordFlags binds one flag per records search field.
type recordFlags struct {
	values   map[string]*string
	page     int
	pageSize int
}

// recordFlagName maps a search field key to its flag name.
func recordFlagName(key string) string {
	switch key {
	case "fromDateTime":
		return "from"
	case "toDateTime":
		return "to"
	}
	var b strings.Builder
	for _, r := range key {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('-')
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func addRecordFlags(cmd *cobra.Command) *recordFlags {
	rf := &recordFlags{values: make(map[string]*string, len(model.RecordFilterFields))}
	for _, field := range model.RecordFilterFields {
		usage := field.Label
		if field.DateTime {
			usage += " (YYYY-MM-DDTHH:MM)"
		}
		rf.values[field.Key] = cmd.Flags().String(recordFlagName(field.Key), "", usage)
	}
	cmd.Flags().IntVar(&rf.page, "page", 1, "Page number")
	cmd.Flags().IntVar(&rf.pageSize, "page-size", model.DefaultPageSize, "Records per page")
	return rf
}

// filter returns the search form the flags describe.
func (rf *recordFlags) filter() (model.RecordFilter, error) {
	var f model.RecordFilter
	for _, field := range model.RecordFilterFields {
		v := strings.TrimSpace(*rf.values[field.Key])
		if field.DateTime && v != "" {
			if _, ok := model.ParseRecordTime(v); !ok {
				return f, fmt.Errorf("--%s: cannot parse %q as a date", recordFlagName(field.Key), v)
			}
		}
		f.Set(field.Key, v)
	}
	if rf.pageSize <= 0 {
		return f, fmt.Errorf("--page-size must be positive")
	}
	return f, nil
}

func recordsTable(f model.RecordFilter, pageSize int, cols []table.Column[model.HeroRecord]) *table.Table[model.HeroRecord] {
	fetch := func(ctx context.Context, page, size int) (model.Page[model.HeroRecord], error) {
		return client.RecordsByFilter(ctx, f, model.PageRequest{PageNumber: page, PageSize: size})
	}
	return table.New(fetch, cols, pageSize)
}

func newRecordsListCmd() *cobra.Command {
	var (
		rf     *recordFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List one page of hero records",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAccess(session.Protected); err != nil {
				return err
			}
			format, err := parseOutput(output)
			if err != nil {
				return err
			}
			f, err := rf.filter()
			if err != nil {
				return err
			}

			t := recordsTable(f, rf.pageSize, columns.RecordsCompact)
			if err := t.Open(cmd.Context(), rf.page); err != nil {
				return fmt.Errorf("list records: %w", err)
			}
			return writePage(cmd, format, t, "No records found.")
		},
	}

	rf = addRecordFlags(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "Output format (table, json, yaml)")
	return cmd
}

// writePage prints the table's current page in format.
func writePage[Row any](cmd *cobra.Command, format string, t *table.Table[Row], empty string) error {
	out := cmd.OutOrStdout()
	view := t.Snapshot()
	items := t.Items()
	if format == outputTable && len(items) == 0 {
		fmt.Fprintln(out, empty)
		return nil
	}
	page := model.NewPage(items, view.Page, view.TotalPages, view.TotalCount)
	return writeOutput(out, format, page, view)
}

func newRecordsBrowseCmd() *cobra.Command {
	var rf *recordFlags

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Page through hero records interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAccess(session.Protected); err != nil {
				return err
			}
			f, err := rf.filter()
			if err != nil {
				return err
			}
			t := recordsTable(f, rf.pageSize, columns.RecordsCompact)
			return tui.Run(cmd.Context(), t, tui.Options{
				Title:  "Hero records",
				Input:  cmd.InOrStdin(),
				Output: cmd.OutOrStdout(),
				Page:   rf.page,
			})
		},
	}
	rf = addRecordFlags(cmd)
	return cmd
}

func newRecordsExportCmd() *cobra.Command {
	var (
		rf         *recordFlags
		formatFlag string
		outPath    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export one page of hero records as CSV or XLSX",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireAccess(session.Protected); err != nil {
				return err
			}
			format, err := export.ParseFormat(formatFlag)
			if err != nil {
				return err
			}
			f, err := rf.filter()
			if err != nil {
				return err
			}

			t := recordsTable(f, rf.pageSize, columns.Records)
			if err := t.Open(cmd.Context(), rf.page); err != nil {
				return fmt.Errorf("export records: %w", err)
			}

			if outPath == "" {
				outPath = fmt.Sprintf("hero-records-page-%d.%s", t.CurrentPage(), format)
			}
			file, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("create %s: %w", outPath, err)
			}
			if err := export.Write(file, format, t.Snapshot()); err != nil {
				file.Close()
				return fmt.Errorf("export records: %w", err)
			}
			if err := file.Close(); err != nil {
				return fmt.Errorf("close %s: %w", outPath, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d records to %s\n", len(t.Items()), outPath)
			return nil
		},
	}

	rf = addRecordFlags(cmd)
	cmd.Flags().StringVar(&formatFlag, "format", string(export.FormatCSV), "Export format (csv, xlsx)")
	cmd.Flags().StringVar(&outPath, "out", "", "Output file (default hero-records-page-N.<format>)")
	return cmd
}
