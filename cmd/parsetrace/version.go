package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"parsetrace/internal/trace"
	"parsetrace/internal/version"
)

// buildReport is what the version command prints.
type buildReport struct {
	Version string   `json:"version"`
	Tracing bool     `json:"tracing"`
	Formats []string `json:"formats"`
	Commit  string   `json:"commit,omitempty"`
	Built   string   `json:"built,omitempty"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show parsetrace build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := cmd.Flags().GetString("format")
		if err != nil {
			return err
		}
		report := buildReport{
			Version: version.Plain(),
			Tracing: trace.Compiled,
			Commit:  strings.TrimSpace(version.GitCommit),
			Built:   strings.TrimSpace(version.BuildDate),
		}
		for _, f := range []trace.Format{trace.FormatText, trace.FormatNDJSON, trace.FormatMsgpack} {
			report.Formats = append(report.Formats, f.String())
		}

		switch strings.ToLower(format) {
		case "pretty":
			writeVersionPretty(cmd.OutOrStdout(), report)
			return nil
		case "json":
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		default:
			return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
		}
	},
}

func init() {
	versionCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func writeVersionPretty(out io.Writer, r buildReport) {
	fmt.Fprintf(out, "parsetrace %s\n", version.Version)
	if r.Tracing {
		fmt.Fprintf(out, "tracing: on (%s)\n", strings.Join(r.Formats, ", "))
	} else {
		fmt.Fprintln(out, "tracing: compiled out (parsetrace_off)")
	}
	if r.Commit != "" {
		fmt.Fprintf(out, "commit:  %s\n", r.Commit)
	}
	if r.Built != "" {
		fmt.Fprintf(out, "built:   %s\n", r.Built)
	}
}
