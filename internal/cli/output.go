package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/me/heroconsole/internal/table"
)

// Output formats accepted by --output.
const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

func parseOutput(s string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case outputTable, outputJSON, outputYAML:
		return f, nil
	case "yml":
		return outputYAML, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want table, json or yaml)", s)
	}
}

// writeOutput prints v as JSON or YAML, or view as a bordered table.
func writeOutput(w io.Writer, format string, v any, view table.View) error {
	switch format {
	case outputJSON:
		return writeJSON(w, v)
	case outputYAML:
		return writeYAML(w, v)
	default:
		writeTable(w, view.Headers, view.Rows)
		if view.TotalPages > 0 {
			fmt.Fprintf(w, "Page %d of %d (%d total)\n", view.Page, view.TotalPages, view.TotalCount)
		}
		return nil
	}
}

func writeTable(w io.Writer, headers []string, rows [][]string) {
	t := ltable.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...)
	fmt.Fprintln(w, t.Render())
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeYAML goes through JSON first so keys keep the API's field names.
func writeYAML(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("write yaml: %w", err)
	}
	return enc.Close()
}
