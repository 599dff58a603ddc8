package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"fortio.org/safecast"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"parsetrace/internal/grammar"
	"parsetrace/internal/observ"
	"parsetrace/internal/trace"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] input...",
	Short: "Parse inputs with a traced grammar and print the call tree",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runExecution,
}

func init() {
	runCmd.Flags().String("grammar", "greeting", "grammar to run (greeting|list|expr)")
	runCmd.Flags().String("tag", "", "trace tag (defaults to the configured default_tag)")
	runCmd.Flags().Uint("max-depth", 0, "depth ceiling for the tag (0 = none)")
	runCmd.Flags().StringSlice("silence", nil, "rules whose subtrees are not recorded")
	runCmd.Flags().Bool("print", false, "echo events as they are recorded")
	runCmd.Flags().String("format", "", "trace output format (text|ndjson|msgpack)")
	runCmd.Flags().String("out", "", "write the trace to a file instead of stdout")
	runCmd.Flags().Int("jobs", 0, "max inputs parsed in parallel (0 = one per input)")
	runCmd.Flags().Bool("metrics", false, "print event counters after the run")
	runCmd.Flags().String("cpu-profile", "", "write a CPU profile of the parse to this file")
	runCmd.Flags().String("mem-profile", "", "write a heap profile after the parse to this file")
	runCmd.Flags().String("runtime-trace", "", "write a runtime trace of the parse to this file")
}

// runOptions is the resolved flag set of the run command.
type runOptions struct {
	grammar  grammarRunner
	tag      string
	maxDepth int
	silence  []string
	print    bool
	format   trace.Format
	out      string
	jobs     int
	metrics  bool
	quiet    bool
	timings  bool
}

// runResult is what one input produced.
type runResult struct {
	input  string
	rest   string
	out    any
	err    error
	limit  *trace.DepthLimitError
	events []trace.Event
}

func (r *runResult) failed() bool { return r.err != nil || r.limit != nil }

func runExecution(cmd *cobra.Command, args []string) error {
	timer := observ.NewTimer()

	setupIdx := timer.Begin("setup")
	metrics, err := cmd.Flags().GetBool("metrics")
	if err != nil {
		return fmt.Errorf("failed to get metrics flag: %w", err)
	}
	ts, err := setupTracing(cmd, metrics)
	if err != nil {
		return err
	}
	opts, err := readRunOptions(cmd, ts)
	if err != nil {
		return err
	}
	ts.install()
	timer.End(setupIdx, "")

	profiles, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if err := profiles.Stop(); err != nil {
			ts.logger.Warn("profile write failed", "error", err)
		}
	}()

	parseIdx := timer.Begin("parse")
	results, err := parseAll(opts, args)
	if err != nil {
		return err
	}
	if err := profiles.Stop(); err != nil {
		return err
	}
	timer.End(parseIdx, fmt.Sprintf("%d input(s)", len(results)))

	renderIdx := timer.Begin("render")
	if err := writeResults(cmd.OutOrStdout(), ts, opts, results); err != nil {
		return err
	}
	timer.End(renderIdx, "")

	if opts.metrics && ts.metrics != nil {
		families, err := ts.metrics.Gather()
		if err != nil {
			return fmt.Errorf("failed to gather metrics: %w", err)
		}
		writeMetrics(cmd.ErrOrStderr(), families)
	}
	if opts.timings {
		printStageTimings(cmd.ErrOrStderr(), timer)
	}

	failed := 0
	for i := range results {
		if results[i].failed() {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d input(s) failed to parse", failed, len(results))
	}
	return nil
}

func readRunOptions(cmd *cobra.Command, ts *traceSetup) (runOptions, error) {
	var opts runOptions
	flags := cmd.Flags()

	name, err := flags.GetString("grammar")
	if err != nil {
		return opts, fmt.Errorf("failed to get grammar flag: %w", err)
	}
	if opts.grammar, err = lookupGrammar(name); err != nil {
		return opts, err
	}

	if opts.tag, err = flags.GetString("tag"); err != nil {
		return opts, fmt.Errorf("failed to get tag flag: %w", err)
	}
	if opts.tag == "" {
		opts.tag = ts.section.DefaultTag
	}

	maxDepth, err := flags.GetUint("max-depth")
	if err != nil {
		return opts, fmt.Errorf("failed to get max-depth flag: %w", err)
	}
	if opts.maxDepth, err = safecast.Conv[int](maxDepth); err != nil {
		return opts, fmt.Errorf("invalid --max-depth: %w", err)
	}

	if opts.silence, err = flags.GetStringSlice("silence"); err != nil {
		return opts, fmt.Errorf("failed to get silence flag: %w", err)
	}
	if opts.print, err = flags.GetBool("print"); err != nil {
		return opts, fmt.Errorf("failed to get print flag: %w", err)
	}
	if flags.Changed("print") {
		ts.cfg.Print = opts.print
	}
	opts.print = ts.cfg.Print

	formatStr, err := flags.GetString("format")
	if err != nil {
		return opts, fmt.Errorf("failed to get format flag: %w", err)
	}
	opts.format = ts.format
	if formatStr != "" {
		if opts.format, err = trace.ParseFormat(formatStr); err != nil {
			return opts, err
		}
	}

	if opts.out, err = flags.GetString("out"); err != nil {
		return opts, fmt.Errorf("failed to get out flag: %w", err)
	}
	if opts.jobs, err = flags.GetInt("jobs"); err != nil {
		return opts, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if opts.jobs < 0 {
		return opts, fmt.Errorf("invalid --jobs %d", opts.jobs)
	}
	if opts.print {
		// echoed lines of parallel inputs would interleave
		opts.jobs = 1
	}
	if opts.metrics, err = flags.GetBool("metrics"); err != nil {
		return opts, fmt.Errorf("failed to get metrics flag: %w", err)
	}
	if opts.quiet, err = cmd.Root().PersistentFlags().GetBool("quiet"); err != nil {
		return opts, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if opts.timings, err = cmd.Root().PersistentFlags().GetBool("timings"); err != nil {
		return opts, fmt.Errorf("failed to get timings flag: %w", err)
	}
	return opts, nil
}

// parseAll parses every input on its own goroutine, each with the
// goroutine's own registry.
func parseAll(opts runOptions, inputs []string) ([]runResult, error) {
	if opts.format != trace.FormatText && len(inputs) > 1 {
		return nil, fmt.Errorf("format %s takes a single input, got %d", opts.format, len(inputs))
	}

	results := make([]runResult, len(inputs))
	var g errgroup.Group
	if opts.jobs > 0 {
		g.SetLimit(opts.jobs)
	}
	for i, input := range inputs {
		g.Go(func() error {
			defer trace.Release()
			results[i] = parseOne(trace.Current(), opts, input)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func parseOne(r *trace.Registry, opts runOptions, input string) (res runResult) {
	res.input = input
	r.SetMaxDepth(opts.tag, opts.maxDepth)
	r.SetPrint(opts.tag, opts.print)

	rules := grammar.Rules{Registry: r, Tag: opts.tag}
	if len(opts.silence) > 0 {
		rules.Silenced = make(map[string]bool, len(opts.silence))
		for _, name := range opts.silence {
			rules.Silenced[strings.TrimSpace(name)] = true
		}
	}

	defer func() {
		res.events = r.Events(opts.tag)
		if rec := recover(); rec != nil {
			limit, ok := trace.IsDepthLimit(rec)
			if !ok {
				panic(rec)
			}
			res.limit = limit
		}
	}()
	res.rest, res.out, res.err = opts.grammar(rules, input)
	return res
}

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func styled(s lipgloss.Style, on bool, text string) string {
	if !on {
		return text
	}
	return s.Render(text)
}

func writeResults(stdout io.Writer, ts *traceSetup, opts runOptions, results []runResult) error {
	if opts.format != trace.FormatText {
		return writeEncoded(stdout, opts, results[0].events)
	}

	out := stdout
	if opts.out != "" {
		f, err := os.Create(opts.out)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", opts.out, err)
		}
		defer f.Close()
		out = f
	}

	render := trace.RenderOptions{Color: ts.color && opts.out == ""}
	for i := range results {
		res := &results[i]
		if !opts.quiet {
			fmt.Fprintln(out, styled(headerStyle, render.Color, fmt.Sprintf("== %q", res.input)))
			fmt.Fprintln(out, outcomeLine(res, render.Color))
		}
		if opts.print && opts.out == "" {
			// already echoed while parsing
			continue
		}
		if err := trace.Encode(out, res.events, trace.FormatText, render); err != nil {
			return err
		}
	}
	return nil
}

func writeEncoded(stdout io.Writer, opts runOptions, events []trace.Event) error {
	if opts.out == "" {
		return trace.Encode(stdout, events, opts.format, trace.RenderOptions{})
	}
	f, err := os.Create(opts.out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", opts.out, err)
	}
	if err := trace.Encode(f, events, opts.format, trace.RenderOptions{}); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func outcomeLine(res *runResult, color bool) string {
	switch {
	case res.limit != nil:
		return styled(failureStyle, color, "aborted: "+res.limit.Error())
	case res.err != nil:
		return styled(failureStyle, color, "error: "+res.err.Error())
	default:
		return styled(okStyle, color, fmt.Sprintf("ok: %v rest: %q", res.out, res.rest))
	}
}
