package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/forgo/vidgram/internal/config"
)

// getOutputFormat returns the effective output format from the root command's persistent flags
func getOutputFormat(cmd *cobra.Command) string {
	v, _ := cmd.Root().PersistentFlags().GetString("output")
	return v
}

func isJSON(cmd *cobra.Command) bool {
	return getOutputFormat(cmd) == config.OutputJSON
}

// printJSON writes v as indented JSON
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printTable writes rows under headers, aligned in columns
func printTable(w io.Writer, headers []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, strings.Join(headers, "\t")); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := fmt.Fprintln(tw, strings.Join(row, "\t")); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// printMessage writes a one-line result, or {"message": msg} in JSON mode
func printMessage(cmd *cobra.Command, w io.Writer, msg string) error {
	if isJSON(cmd) {
		return printJSON(w, map[string]string{"message": msg})
	}
	_, err := fmt.Fprintln(w, msg)
	return err
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
