//go:build !parsetrace_off

package trace

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func sampleEvents(t *testing.T) []Event {
	t.Helper()
	r := newTestRegistry(t, nil)
	inner := InstrumentWith(r, "t", "inner", "Parsing inner", lit("a"))
	outer := InstrumentWith(r, "t", "outer", "", inner)
	_, _, _ = outer("ab")
	_, _, _ = outer("zz")
	return r.Events("t")
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		err  bool
	}{
		{in: "text", want: FormatText},
		{in: "TREE", want: FormatText},
		{in: " ndjson ", want: FormatNDJSON},
		{in: "json", want: FormatNDJSON},
		{in: "msgpack", want: FormatMsgpack},
		{in: "mp", want: FormatMsgpack},
		{in: "yaml", err: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.Equal(t, got, mustParse(t, got.String()))
		})
	}
}

func mustParse(t *testing.T, s string) Format {
	t.Helper()
	f, err := ParseFormat(s)
	require.NoError(t, err)
	return f
}

func TestEncodeDecode(t *testing.T) {
	events := sampleEvents(t)
	require.Len(t, events, 8)

	for _, format := range []Format{FormatNDJSON, FormatMsgpack} {
		t.Run(format.String(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, events, format, RenderOptions{}))

			got, err := Decode(&buf, format)
			require.NoError(t, err)
			if diff := cmp.Diff(events, got); diff != "" {
				t.Errorf("decoded events mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncodeText(t *testing.T) {
	events := sampleEvents(t)
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, events, FormatText, RenderOptions{}))
	require.Equal(t, Render(events, RenderOptions{}), buf.String())

	_, err := Decode(&buf, FormatText)
	require.Error(t, err)
}

func TestNDJSONLayout(t *testing.T) {
	line := string(formatNDJSON(&Event{Seq: 3, Depth: 1, Phase: PhaseSuccess, Name: "p", Input: "", Detail: `"a"`}))
	require.Equal(t, `{"seq":3,"depth":1,"phase":"success","name":"p","input":"","detail":"\"a\""}`+"\n", line)
}

func TestNDJSONSkipsBlankLines(t *testing.T) {
	in := "\n" + `{"seq":1,"depth":0,"phase":"enter","name":"p","input":"a"}` + "\n\n"
	events, err := Decode(strings.NewReader(in), FormatNDJSON)
	require.NoError(t, err)
	require.Len(t, events, 1)

	_, err = Decode(strings.NewReader("{not json"), FormatNDJSON)
	require.ErrorContains(t, err, "line 1")
}

func TestDumpRejectsOtherSchema(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, msgpack.NewEncoder(&buf).Encode(&dump{Schema: dumpSchemaVersion + 1}))

	_, err := Decode(&buf, FormatMsgpack)
	require.ErrorContains(t, err, "schema 2 not supported")
}

func TestPhase(t *testing.T) {
	for _, p := range []Phase{PhaseEnter, PhaseSuccess, PhaseFailure, PhaseIncomplete} {
		got, err := ParsePhase(p.String())
		require.NoError(t, err)
		require.Equal(t, p, got)
		require.Equal(t, p != PhaseEnter, p.Terminal())
	}
	_, err := ParsePhase("nope")
	require.Error(t, err)
	require.Equal(t, "unknown", Phase(0).String())
}
