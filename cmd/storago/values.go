package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/syssam/storago/dialect"
	"github.com/syssam/storago/schema"
	"github.com/syssam/storago/schema/field"
)

// splitAssign splits a col=value argument.
func splitAssign(s string) (string, string, error) {
	col, value, ok := strings.Cut(s, "=")
	if !ok || col == "" {
		return "", "", fmt.Errorf("invalid assignment %q, expected col=value", s)
	}
	return col, value, nil
}

// parseValue converts a command line value to an application value of f.
// JSON values are decoded from their text; the remaining types are left to
// the storage coercion. An empty value is NULL unless f holds text.
func parseValue(f *field.Field, raw string) (any, error) {
	switch t := f.Type(); {
	case raw == "" && t != field.TypeText && t != field.TypeVarchar && t != field.TypeCharacter:
		return nil, nil
	case t == field.TypeJSON:
		var v any
		if err := yaml.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name(), err)
		}
		return v, nil
	case t == field.TypeBlob:
		return []byte(raw), nil
	default:
		return raw, nil
	}
}

// parseRow builds a row from col=value assignments.
func parseRow(s *schema.Schema, sets []string) (dialect.Row, error) {
	row := make(dialect.Row, len(sets))
	for _, set := range sets {
		col, raw, err := splitAssign(set)
		if err != nil {
			return nil, err
		}
		f, ok := s.Field(col)
		if !ok {
			return nil, fmt.Errorf("unknown field %q of %s", col, s.Name())
		}
		if row[col], err = parseValue(f, raw); err != nil {
			return nil, err
		}
	}
	return row, nil
}

// parseArg converts a bind argument given on the command line. Decimal
// numbers are bound as numbers and everything else as text; leading zeros
// are decimal, and hexadecimal or non-finite forms stay text.
func parseArg(raw string) any {
	if strings.TrimSpace(raw) == "" {
		return raw
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i
	}
	if strings.ContainsAny(raw, "xXpP") {
		return raw
	}
	f, err := cast.ToFloat64E(raw)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return raw
	}
	return f
}
