package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"parsetrace/internal/trace"
)

var renderCmd = &cobra.Command{
	Use:   "render [flags] file",
	Short: "Render a recorded ndjson or msgpack trace as a call tree",
	Args:  cobra.ExactArgs(1),
	RunE:  renderExecution,
}

func init() {
	renderCmd.Flags().String("format", "", "input format (ndjson|msgpack); guessed from the extension when empty")
}

func renderExecution(cmd *cobra.Command, args []string) error {
	ts, err := setupTracing(cmd, false)
	if err != nil {
		return err
	}

	path := args[0]
	formatStr, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format, err := dumpFormat(path, formatStr)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	events, err := trace.Decode(f, format)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	ts.logger.Debug("trace loaded", "path", path, "events", len(events))
	return trace.Encode(cmd.OutOrStdout(), events, trace.FormatText, trace.RenderOptions{Color: ts.color})
}

// dumpFormat resolves the format of a recorded trace.
func dumpFormat(path, explicit string) (trace.Format, error) {
	if explicit != "" {
		return trace.ParseFormat(explicit)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ndjson", ".jsonl", ".json":
		return trace.FormatNDJSON, nil
	case ".msgpack", ".mp":
		return trace.FormatMsgpack, nil
	default:
		return trace.FormatText, fmt.Errorf("cannot tell the format of %s; pass --format", path)
	}
}
