package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/syssam/storago/dialect"
)

// encoder writes a value in an output format.
type encoder func(w io.Writer, v any) error

// newEncoder returns the encoder of the named output format.
func newEncoder(format string) (encoder, error) {
	switch format {
	case "json":
		return func(w io.Writer, v any) error {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(v)
		}, nil
	case "yaml":
		return func(w io.Writer, v any) error {
			enc := yaml.NewEncoder(w)
			enc.SetIndent(2)
			if err := enc.Encode(v); err != nil {
				return err
			}
			return enc.Close()
		}, nil
	case "msgpack":
		return func(w io.Writer, v any) error {
			return msgpack.NewEncoder(w).Encode(v)
		}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// writeRows writes rows in the named output format. UUIDs are written in
// their canonical text form.
func writeRows(w io.Writer, format string, rows []dialect.Row) error {
	enc, err := newEncoder(format)
	if err != nil {
		return err
	}
	out := make([]dialect.Row, len(rows))
	for i, row := range rows {
		out[i] = make(dialect.Row, len(row))
		for k, v := range row {
			if u, ok := v.(uuid.UUID); ok {
				v = u.String()
			}
			out[i][k] = v
		}
	}
	return enc(w, out)
}
