// Package config resolves the tracer configuration from defaults, an
// optional TOML file and PARSETRACE_* environment variables, in that order.
package config

import (
	"context"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"github.com/sethvargo/go-envconfig"

	"parsetrace/internal/trace"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "PARSETRACE_"

// File is the layout of parsetrace.toml.
type File struct {
	Trace TraceSection `toml:"trace"`
}

// TraceSection is the [trace] table.
type TraceSection struct {
	Enabled         bool   `toml:"enabled"`
	Color           bool   `toml:"color"`
	Print           bool   `toml:"print"`
	Context         bool   `toml:"context"`
	Silencing       bool   `toml:"silencing"`
	MaxDepth        bool   `toml:"max_depth"`
	ActiveByDefault bool   `toml:"active_by_default"`
	SummaryWidth    int    `toml:"summary_width"`
	DefaultTag      string `toml:"default_tag"`
	Format          string `toml:"format"`
}

// env mirrors TraceSection; nil fields were not set in the environment.
type env struct {
	Enabled         *bool   `env:"ENABLED, noinit"`
	Color           *bool   `env:"COLOR, noinit"`
	Print           *bool   `env:"PRINT, noinit"`
	Context         *bool   `env:"CONTEXT, noinit"`
	Silencing       *bool   `env:"SILENCING, noinit"`
	MaxDepth        *bool   `env:"MAX_DEPTH, noinit"`
	ActiveByDefault *bool   `env:"ACTIVE_BY_DEFAULT, noinit"`
	SummaryWidth    *int    `env:"SUMMARY_WIDTH, noinit"`
	DefaultTag      *string `env:"DEFAULT_TAG, noinit"`
	Format          *string `env:"FORMAT, noinit"`
}

// Defaults returns the [trace] table matching trace.DefaultConfig.
func Defaults() TraceSection {
	d := trace.DefaultConfig()
	return TraceSection{
		Enabled:         d.Enabled,
		Color:           d.Color,
		Print:           d.Print,
		Context:         d.Context,
		Silencing:       d.Silencing,
		MaxDepth:        d.MaxDepth,
		ActiveByDefault: d.ActiveByDefault,
		SummaryWidth:    d.SummaryWidth,
		DefaultTag:      trace.DefaultTag,
		Format:          trace.FormatText.String(),
	}
}

// Load resolves the configuration. path may be empty; a missing file at a
// non-empty path is an error.
func Load(ctx context.Context, path string) (TraceSection, error) {
	return LoadWith(ctx, path, envconfig.OsLookuper())
}

// LoadWith is Load reading the environment through l.
func LoadWith(ctx context.Context, path string, l envconfig.Lookuper) (TraceSection, error) {
	f := File{Trace: Defaults()}
	if path != "" {
		if err := decodeFile(path, &f); err != nil {
			return TraceSection{}, err
		}
	}

	var e env
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &e,
		Lookuper: envconfig.PrefixLookuper(EnvPrefix, l),
	}); err != nil {
		return TraceSection{}, errors.Wrap(err, "read environment")
	}
	e.apply(&f.Trace)

	if err := f.Trace.validate(); err != nil {
		return TraceSection{}, err
	}
	return f.Trace, nil
}

func decodeFile(path string, f *File) error {
	if _, err := os.Stat(path); err != nil {
		return errors.Wrapf(err, "config %s", path)
	}
	meta, err := toml.DecodeFile(path, f)
	if err != nil {
		return errors.Wrapf(err, "%s: failed to parse TOML", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return errors.Newf("%s: unknown key %q", path, undecoded[0].String())
	}
	return nil
}

func (e *env) apply(t *TraceSection) {
	setBool(&t.Enabled, e.Enabled)
	setBool(&t.Color, e.Color)
	setBool(&t.Print, e.Print)
	setBool(&t.Context, e.Context)
	setBool(&t.Silencing, e.Silencing)
	setBool(&t.MaxDepth, e.MaxDepth)
	setBool(&t.ActiveByDefault, e.ActiveByDefault)
	if e.SummaryWidth != nil {
		t.SummaryWidth = *e.SummaryWidth
	}
	if e.DefaultTag != nil {
		t.DefaultTag = *e.DefaultTag
	}
	if e.Format != nil {
		t.Format = *e.Format
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

func (t *TraceSection) validate() error {
	if t.SummaryWidth < 0 {
		return errors.Newf("summary_width must not be negative, got %d", t.SummaryWidth)
	}
	if t.DefaultTag == "" {
		return errors.New("default_tag must not be empty")
	}
	if _, err := trace.ParseFormat(t.Format); err != nil {
		return err
	}
	return nil
}

// TraceConfig converts the section to the engine configuration.
func (t TraceSection) TraceConfig() trace.Config {
	return trace.Config{
		Enabled:         t.Enabled,
		Color:           t.Color,
		Print:           t.Print,
		Context:         t.Context,
		Silencing:       t.Silencing,
		MaxDepth:        t.MaxDepth,
		ActiveByDefault: t.ActiveByDefault,
		SummaryWidth:    t.SummaryWidth,
	}
}
