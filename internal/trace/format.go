package trace

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
)

// Format represents an encoding of an event log.
type Format uint8

const (
	FormatText    Format = iota // human-readable call tree
	FormatNDJSON                // newline-delimited JSON
	FormatMsgpack               // binary dump
)

// String returns the string representation of Format.
func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatNDJSON:
		return "ndjson"
	case FormatMsgpack:
		return "msgpack"
	default:
		return "unknown"
	}
}

// ParseFormat converts a string to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "tree":
		return FormatText, nil
	case "ndjson", "json":
		return FormatNDJSON, nil
	case "msgpack", "mp":
		return FormatMsgpack, nil
	default:
		return FormatText, errors.Newf("invalid trace format: %q (expected: text|ndjson|msgpack)", s)
	}
}

// Encode writes events to w in the given format.
func Encode(w io.Writer, events []Event, format Format, opts RenderOptions) error {
	switch format {
	case FormatText:
		_, err := io.WriteString(w, Render(events, opts))
		return err
	case FormatNDJSON:
		for i := range events {
			if _, err := w.Write(formatNDJSON(&events[i])); err != nil {
				return err
			}
		}
		return nil
	case FormatMsgpack:
		return writeDump(w, events)
	default:
		return errors.Newf("unknown trace format: %v", format)
	}
}

// Decode reads an event log written by Encode. Text is not decodable.
func Decode(r io.Reader, format Format) ([]Event, error) {
	switch format {
	case FormatNDJSON:
		return parseNDJSON(r)
	case FormatMsgpack:
		return readDump(r)
	default:
		return nil, errors.Newf("trace format %s cannot be decoded", format)
	}
}

type jsonEvent struct {
	Seq     uint64 `json:"seq"`
	Depth   int    `json:"depth"`
	Phase   string `json:"phase"`
	Name    string `json:"name"`
	Context string `json:"context,omitempty"`
	Input   string `json:"input"`
	Detail  string `json:"detail,omitempty"`
}

// formatNDJSON formats an event as newline-delimited JSON.
func formatNDJSON(ev *Event) []byte {
	j := jsonEvent{
		Seq:     ev.Seq,
		Depth:   ev.Depth,
		Phase:   ev.Phase.String(),
		Name:    ev.Name,
		Context: ev.Context,
		Input:   ev.Input,
		Detail:  ev.Detail,
	}

	data, _ := json.Marshal(j)
	data = append(data, '\n')
	return data
}

func parseNDJSON(r io.Reader) ([]Event, error) {
	var events []Event
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		raw := strings.TrimSpace(sc.Text())
		if raw == "" {
			continue
		}
		var j jsonEvent
		if err := json.Unmarshal([]byte(raw), &j); err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		phase, err := ParsePhase(j.Phase)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", line)
		}
		events = append(events, Event{
			Seq:     j.Seq,
			Depth:   j.Depth,
			Phase:   phase,
			Name:    j.Name,
			Context: j.Context,
			Input:   j.Input,
			Detail:  j.Detail,
		})
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "read ndjson trace")
	}
	return events, nil
}
