package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Tiliavir/memex/internal/codec"
	"github.com/Tiliavir/memex/internal/model"
)

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all messages to stdout",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "txt", "Output format: txt, json, yaml, csv")
}

func runExport(cmd *cobra.Command, args []string) error {
	s := mustOpen()
	defer s.close()

	return writeExport(cmd.OutOrStdout(), exportFormat, s.engine.Entries())
}

func writeExport(w io.Writer, format string, entries []model.Entry) error {
	switch format {
	case "txt":
		for _, e := range entries {
			fmt.Fprintln(w, codec.Encode(e))
		}
	case "json":
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("error encoding JSON: %w", err)
		}
		fmt.Fprintln(w, string(data))
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return fmt.Errorf("error encoding YAML: %w", err)
		}
		return enc.Close()
	case "csv":
		printCSV(w, entries)
	default:
		return fmt.Errorf("unknown format %q: use txt, json, yaml or csv", format)
	}
	return nil
}

func printCSV(w io.Writer, entries []model.Entry) {
	fmt.Fprintln(w, "date,time,text,comment")
	for _, e := range entries {
		comment := ""
		if e.Comment != nil {
			comment = *e.Comment
		}
		fmt.Fprintf(w, "%s,%s,%s,%s\n",
			e.Time.Format("2006-01-02"),
			e.Time.Format("15:04:05"),
			csvEscape(e.Text),
			csvEscape(comment),
		)
	}
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	// Escape internal double quotes by doubling them.
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
