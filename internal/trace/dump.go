package trace

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when the dump layout changes
const dumpSchemaVersion uint16 = 1

// dump is the msgpack envelope of an event log.
type dump struct {
	Schema uint16  `msgpack:"schema"`
	Events []Event `msgpack:"events"`
}

func writeDump(w io.Writer, events []Event) error {
	enc := msgpack.NewEncoder(w)
	if err := enc.Encode(&dump{Schema: dumpSchemaVersion, Events: events}); err != nil {
		return errors.Wrap(err, "encode trace dump")
	}
	return nil
}

func readDump(r io.Reader) ([]Event, error) {
	var d dump
	dec := msgpack.NewDecoder(r)
	if err := dec.Decode(&d); err != nil {
		return nil, errors.Wrap(err, "decode trace dump")
	}
	if d.Schema != dumpSchemaVersion {
		return nil, errors.Newf("trace dump schema %d not supported (want %d)", d.Schema, dumpSchemaVersion)
	}
	return d.Events, nil
}
