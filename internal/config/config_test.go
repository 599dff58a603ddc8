package config

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/require"

	"parsetrace/internal/trace"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "parsetrace.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func load(t *testing.T, path string, env map[string]string) (TraceSection, error) {
	t.Helper()
	return LoadWith(context.Background(), path, envconfig.MapLookuper(env))
}

func TestDefaults(t *testing.T) {
	got, err := load(t, "", nil)
	require.NoError(t, err)
	require.Equal(t, Defaults(), got)
	if diff := cmp.Diff(trace.DefaultConfig(), got.TraceConfig()); diff != "" {
		t.Errorf("trace config mismatch (-want +got):\n%s", diff)
	}
}

func TestFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[trace]
color = true
silencing = false
summary_width = 32
default_tag = "parser"
format = "ndjson"
`)
	got, err := load(t, path, nil)
	require.NoError(t, err)

	want := Defaults()
	want.Color = true
	want.Silencing = false
	want.SummaryWidth = 32
	want.DefaultTag = "parser"
	want.Format = "ndjson"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("section mismatch (-want +got):\n%s", diff)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
[trace]
enabled = true
max_depth = true
summary_width = 32
`)
	got, err := load(t, path, map[string]string{
		"PARSETRACE_ENABLED":       "false",
		"PARSETRACE_SUMMARY_WIDTH": "0",
		"PARSETRACE_DEFAULT_TAG":   "env",
		"UNRELATED":                "1",
	})
	require.NoError(t, err)
	require.False(t, got.Enabled)
	require.True(t, got.MaxDepth, "unset env keeps the file value")
	require.Equal(t, 0, got.SummaryWidth)
	require.Equal(t, "env", got.DefaultTag)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		env  map[string]string
		want string
	}{
		{name: "unknown key", body: "[trace]\ncolour = true\n", want: `unknown key "trace.colour"`},
		{name: "bad toml", body: "[trace\n", want: "failed to parse TOML"},
		{name: "negative width", body: "[trace]\nsummary_width = -1\n", want: "summary_width must not be negative"},
		{name: "empty tag", body: "[trace]\ndefault_tag = \"\"\n", want: "default_tag must not be empty"},
		{name: "bad format", body: "[trace]\nformat = \"yaml\"\n", want: "invalid trace format"},
		{name: "bad env bool", env: map[string]string{"PARSETRACE_COLOR": "maybe"}, want: "read environment"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := ""
			if tt.body != "" {
				path = writeConfig(t, tt.body)
			}
			_, err := load(t, path, tt.env)
			require.ErrorContains(t, err, tt.want)
		})
	}
}

func TestMissingFile(t *testing.T) {
	_, err := load(t, filepath.Join(t.TempDir(), "nope.toml"), nil)
	require.ErrorIs(t, err, fs.ErrNotExist)
}
