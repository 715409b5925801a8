package sql

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cast"

	"github.com/syssam/storago"
	"github.com/syssam/storago/schema/field"
)

// storageTypes maps every supported field type to its SQLite column type.
// A zero entry marks an unsupported type.
var storageTypes = [...]field.StorageType{
	field.TypeText:      field.StorageText,
	field.TypeVarchar:   field.StorageText,
	field.TypeCharacter: field.StorageText,
	field.TypeJSON:      field.StorageText,
	field.TypeUUID:      field.StorageText,
	field.TypeNumeric:   field.StorageNumeric,
	field.TypeDateTime:  field.StorageNumeric,
	field.TypeDate:      field.StorageNumeric,
	field.TypeDecimal:   field.StorageNumeric,
	field.TypeInteger:   field.StorageInteger,
	field.TypeBoolean:   field.StorageInteger,
	field.TypeTinyInt:   field.StorageInteger,
	field.TypeSmallInt:  field.StorageInteger,
	field.TypeMediumInt: field.StorageInteger,
	field.TypeBigInt:    field.StorageInteger,
	field.TypeReal:      field.StorageReal,
	field.TypeDouble:    field.StorageReal,
	field.TypeFloat:     field.StorageReal,
	field.TypeBlob:      field.StorageBlob,
}

// CastColumnType returns the SQLite column type of a field type.
func CastColumnType(t field.Type) (field.StorageType, error) {
	if int(t) < len(storageTypes) && storageTypes[t] != "" {
		return storageTypes[t], nil
	}
	return "", &field.KindNotSupportedError{Type: t}
}

// ToStorage converts an application value of the given field type to the
// value bound to the statement. A nil value is stored as NULL.
//
// Booleans are stored as the integers 0 and 1, dates as epoch milliseconds,
// JSON as its text encoding and UUIDs in their canonical text form.
func ToStorage(t field.Type, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	var (
		sv  any
		err error
	)
	switch {
	case t == field.TypeBoolean:
		var b bool
		if b, err = cast.ToBoolE(text(v)); err == nil {
			sv = boolInt(b)
		}
	case t.Integer():
		sv, err = toInt64(v)
	case t.Float():
		sv, err = cast.ToFloat64E(text(v))
	case t.Time():
		var tm time.Time
		if tm, err = toTime(v); err == nil {
			sv = tm.UnixMilli()
		}
	case t == field.TypeJSON:
		var b []byte
		if b, err = json.Marshal(v); err == nil {
			sv = string(b)
		}
	case t == field.TypeUUID:
		var u uuid.UUID
		if u, err = toUUID(v); err == nil {
			sv = u.String()
		}
	default:
		return v, nil
	}
	if err != nil {
		return nil, storago.NewValueError(t.String(), v, err)
	}
	return sv, nil
}

// FromStorage converts a value read from storage to the application value of
// the given field type. NULL is returned as nil.
func FromStorage(t field.Type, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	var (
		av  any
		err error
	)
	switch {
	case t == field.TypeBoolean:
		av, err = cast.ToBoolE(text(v))
	case t.Integer():
		av, err = toInt64(v)
	case t.Float():
		av, err = cast.ToFloat64E(text(v))
	case t.Time():
		av, err = toTime(v)
	case t == field.TypeJSON:
		var decoded any
		switch s := v.(type) {
		case string:
			err = json.Unmarshal([]byte(s), &decoded)
		case []byte:
			err = json.Unmarshal(s, &decoded)
		default:
			err = fmt.Errorf("unexpected JSON storage type %T", v)
		}
		av = decoded
	case t == field.TypeUUID:
		av, err = toUUID(v)
	default:
		return v, nil
	}
	if err != nil {
		return nil, storago.NewValueError(t.String(), v, err)
	}
	return av, nil
}

// text returns byte slices as strings so that the cast helpers parse them.
func text(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// toInt64 accepts integers that fit in an int64 and their decimal text.
// Text is always read in base 10, so leading zeros never select octal.
func toInt64(v any) (int64, error) {
	switch v := text(v).(type) {
	case string:
		return parseInt(v)
	case uint:
		return uintInt64(uint64(v))
	case uint64:
		return uintInt64(v)
	case uintptr:
		return uintInt64(uint64(v))
	default:
		return cast.ToInt64E(v)
	}
}

// parseInt parses s as a base 10 integer. Integral decimal forms such as
// "3.0" or "1e3" are accepted; fractions and hexadecimal are not.
func parseInt(s string) (int64, error) {
	s = strings.TrimSpace(s)
	i, err := strconv.ParseInt(s, 10, 64)
	if err == nil {
		return i, nil
	}
	if strings.HasPrefix(strings.TrimLeft(s, "+-"), "0x") || strings.HasPrefix(strings.TrimLeft(s, "+-"), "0X") {
		return 0, fmt.Errorf("%q is not a base 10 integer", s)
	}
	f, ferr := strconv.ParseFloat(s, 64)
	if ferr != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, fmt.Errorf("%q is not a base 10 integer", s)
	}
	return int64(f), nil
}

func uintInt64(u uint64) (int64, error) {
	if u > math.MaxInt64 {
		return 0, fmt.Errorf("%d overflows int64", u)
	}
	return int64(u), nil
}

// toTime accepts time values, epoch milliseconds and textual timestamps.
// Text is read as a timestamp first, including a bare year such as "2024",
// and as epoch milliseconds only when no timestamp layout matches.
func toTime(v any) (time.Time, error) {
	switch v := text(v).(type) {
	case time.Time:
		return v, nil
	case *time.Time:
		if v == nil {
			return time.Time{}, fmt.Errorf("nil time pointer")
		}
		return *v, nil
	case string:
		return parseTime(v)
	default:
		ms, err := toInt64(v)
		if err != nil {
			return time.Time{}, err
		}
		return time.UnixMilli(ms), nil
	}
}

// partialLayouts are the date layouts tried after the timestamp layouts
// known to cast.
var partialLayouts = []string{"2006-01", "2006"}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	tm, err := cast.ToTimeE(s)
	if err == nil {
		return tm, nil
	}
	for _, layout := range partialLayouts {
		if tm, perr := time.Parse(layout, s); perr == nil {
			return tm, nil
		}
	}
	if ms, perr := strconv.ParseInt(s, 10, 64); perr == nil {
		return time.UnixMilli(ms), nil
	}
	return time.Time{}, err
}

// toUUID accepts UUID values and their text or binary forms.
func toUUID(v any) (uuid.UUID, error) {
	switch v := v.(type) {
	case uuid.UUID:
		return v, nil
	case [16]byte:
		return uuid.UUID(v), nil
	case string:
		return uuid.Parse(v)
	case []byte:
		if len(v) == 16 {
			return uuid.FromBytes(v)
		}
		return uuid.ParseBytes(v)
	case fmt.Stringer:
		return uuid.Parse(v.String())
	default:
		return uuid.Nil, fmt.Errorf("unexpected UUID type %T", v)
	}
}
