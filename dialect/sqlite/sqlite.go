// Package sqlite opens storago adapters over SQLite, supporting both pure Go
// (modernc.org/sqlite) and CGO (mattn/go-sqlite3) implementations.
//
// Build modes:
//   - Default: Uses pure Go modernc.org/sqlite
//   - CGO mode (CGO_ENABLED=1 -tags cgo_sqlite): Uses mattn/go-sqlite3
//
// Use Open instead of sql.Open to ensure the correct driver is used:
//
//	adapter, err := sqlite.Open("cars.db", dialect.ModeStatement)
//	if err != nil {
//	    return err
//	}
//	if err := adapter.Connect(ctx); err != nil {
//	    return err
//	}
//	defer adapter.Close()
package sqlite

import (
	"fmt"
	"strings"

	"github.com/syssam/storago/dialect"
	"github.com/syssam/storago/dialect/sql"
)

// Memory is the path of a private in-memory database.
const Memory = ":memory:"

// DriverName returns the database/sql driver name of the build.
// It is "sqlite" for modernc.org/sqlite and "sqlite3" for mattn/go-sqlite3.
func DriverName() string {
	return driverName
}

// DriverType returns a string identifying the underlying implementation.
// Returns "cgo" for mattn/go-sqlite3, "purego" for modernc.org/sqlite.
func DriverType() string {
	return driverType
}

// IsCGO returns true if the CGO implementation is being used.
func IsCGO() bool {
	return driverType == "cgo"
}

// DSN returns the data source name of the database file at path, with
// foreign key enforcement turned on.
func DSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + foreignKeys
}

// Connector returns the connector of the given mode for the database at path.
func Connector(path string, mode dialect.Mode) (dialect.Connector, error) {
	switch mode {
	case dialect.ModeStatement, "":
		return sql.Statement(driverName, DSN(path)), nil
	case dialect.ModeTransaction:
		return sql.Transaction(driverName, DSN(path)), nil
	default:
		return nil, fmt.Errorf("sqlite: unknown mode %q", mode)
	}
}

// Open returns a disconnected adapter for the database at path.
func Open(path string, mode dialect.Mode, opts ...sql.Option) (*sql.Adapter, error) {
	c, err := Connector(path, mode)
	if err != nil {
		return nil, err
	}
	return sql.NewAdapter(c, opts...), nil
}

// Info contains information about the SQLite driver configuration.
type Info struct {
	DriverName string `json:"driver_name" yaml:"driver_name"`
	DriverType string `json:"driver_type" yaml:"driver_type"`
	IsCGO      bool   `json:"is_cgo" yaml:"is_cgo"`
	Package    string `json:"package" yaml:"package"`
}

// GetInfo returns information about the current SQLite configuration.
func GetInfo() Info {
	return Info{
		DriverName: driverName,
		DriverType: driverType,
		IsCGO:      IsCGO(),
		Package:    driverPackage,
	}
}
