package field

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Type is the declared logical type of a field.
type Type uint8

// List of field types.
const (
	TypeInvalid Type = iota
	TypeText
	TypeVarchar
	TypeCharacter
	TypeJSON
	TypeUUID
	TypeNumeric
	TypeDate
	TypeDateTime
	TypeDecimal
	TypeInteger
	TypeBoolean
	TypeTinyInt
	TypeSmallInt
	TypeMediumInt
	TypeBigInt
	TypeReal
	TypeDouble
	TypeFloat
	TypeBlob
	endTypes
)

var typeNames = [...]string{
	TypeInvalid:   "invalid",
	TypeText:      "TEXT",
	TypeVarchar:   "VARCHAR",
	TypeCharacter: "CHARACTER",
	TypeJSON:      "JSON",
	TypeUUID:      "UUID",
	TypeNumeric:   "NUMERIC",
	TypeDate:      "DATE",
	TypeDateTime:  "DATETIME",
	TypeDecimal:   "DECIMAL",
	TypeInteger:   "INTEGER",
	TypeBoolean:   "BOOLEAN",
	TypeTinyInt:   "TINYINT",
	TypeSmallInt:  "SMALLINT",
	TypeMediumInt: "MEDIUMINT",
	TypeBigInt:    "BIGINT",
	TypeReal:      "REAL",
	TypeDouble:    "DOUBLE",
	TypeFloat:     "FLOAT",
	TypeBlob:      "BLOB",
}

// Types returns all valid field types in declaration order.
func Types() []Type {
	types := make([]Type, 0, endTypes-1)
	for t := TypeText; t < endTypes; t++ {
		types = append(types, t)
	}
	return types
}

// String returns the SQL-style name of the type.
func (t Type) String() string {
	if t < endTypes {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// Valid reports if the given type is a known field type.
func (t Type) Valid() bool {
	return t > TypeInvalid && t < endTypes
}

// Integer reports if the type belongs to the integer family.
func (t Type) Integer() bool {
	switch t {
	case TypeInteger, TypeTinyInt, TypeSmallInt, TypeMediumInt, TypeBigInt:
		return true
	}
	return false
}

// Float reports if the type belongs to the real family.
func (t Type) Float() bool {
	return t == TypeReal || t == TypeDouble || t == TypeFloat
}

// Time reports if the type holds a date or a timestamp.
func (t Type) Time() bool {
	return t == TypeDate || t == TypeDateTime
}

// ParseType returns the type with the given name. Matching is case-insensitive
// and ignores surrounding whitespace.
func ParseType(name string) (Type, error) {
	name = cases.Upper(language.Und).String(strings.TrimSpace(name))
	for t := TypeText; t < endTypes; t++ {
		if typeNames[t] == name {
			return t, nil
		}
	}
	return TypeInvalid, fmt.Errorf("field: unknown type %q", name)
}

// StorageType is the column type of the underlying SQLite engine.
type StorageType string

// SQLite storage classes used as column types.
const (
	StorageText    StorageType = "TEXT"
	StorageNumeric StorageType = "NUMERIC"
	StorageInteger StorageType = "INTEGER"
	StorageReal    StorageType = "REAL"
	StorageBlob    StorageType = "BLOB"
)

// String returns the column type as written in DDL.
func (s StorageType) String() string { return string(s) }

// ErrKindNotSupported is matched by every KindNotSupportedError.
var ErrKindNotSupported = errors.New("storago: field kind not supported")

// KindNotSupportedError is returned when a field declares a type that has no
// storage mapping. It reports a schema defect and is not recoverable.
type KindNotSupportedError struct {
	Type Type
}

// Error returns the error string.
func (e *KindNotSupportedError) Error() string {
	return fmt.Sprintf("storago: field kind not supported: %s", e.Type)
}

// Is reports whether the target error matches ErrKindNotSupported.
func (e *KindNotSupportedError) Is(err error) bool {
	return err == ErrKindNotSupported
}

// IsKindNotSupported returns true if the error is a KindNotSupportedError.
func IsKindNotSupported(err error) bool {
	if err == nil {
		return false
	}
	var e *KindNotSupportedError
	return errors.As(err, &e) || errors.Is(err, ErrKindNotSupported)
}
