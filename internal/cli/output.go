package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/mvp-joe/code-metrics/internal/config"
	"github.com/mvp-joe/code-metrics/internal/metrics"
)

// writeReport renders report in the given format.
func writeReport(w io.Writer, report metrics.Report, format string) error {
	switch strings.ToLower(format) {
	case config.FormatJSON:
		data, err := json.Marshal(report)
		if err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		return enc.Close()
	case config.FormatTable:
		return writeTable(w, report)
	default:
		return fmt.Errorf("%w: %s", config.ErrInvalidFormat, format)
	}
}

// writeTable prints the member totals, a separator and the complexity scores,
// each sorted by name. Nothing is printed when both tables are empty.
func writeTable(w io.Writer, report metrics.Report) error {
	members := report.Members()
	complexity := report.Complexity()
	if len(members) == 0 && len(complexity) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "Item\tAMF")
	for _, name := range sortedKeys(members) {
		fmt.Fprintf(tw, "%s\t%d\n", name, members[name].Total())
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w, "==========================")

	tw = tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "Function\tComplexity")
	for _, name := range sortedKeys(complexity) {
		fmt.Fprintf(tw, "%s\t%d\n", name, complexity[name])
	}
	return tw.Flush()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
