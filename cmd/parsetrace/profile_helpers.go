package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"parsetrace/internal/prof"
)

// setupProfiling starts the profilers named by the run flags. The returned
// session may be stopped more than once.
func setupProfiling(cmd *cobra.Command) (*prof.Session, error) {
	var paths prof.Paths
	var err error
	if paths.CPU, err = cmd.Flags().GetString("cpu-profile"); err != nil {
		return nil, fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if paths.Mem, err = cmd.Flags().GetString("mem-profile"); err != nil {
		return nil, fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if paths.Trace, err = cmd.Flags().GetString("runtime-trace"); err != nil {
		return nil, fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	return prof.Start(paths)
}
