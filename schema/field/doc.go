// Package field provides the field declarations used by storago schemas.
//
// A field is a column name plus one of the logical field types below. The
// type decides the SQLite column type in CREATE TABLE and how values are
// converted when they cross the storage boundary:
//
//	field.Text("id")          // TEXT
//	field.Varchar("brand")    // TEXT
//	field.JSON("options")     // TEXT, JSON-encoded
//	field.UUID("owner_id")    // TEXT, canonical UUID form
//	field.DateTime("sold_at") // NUMERIC, epoch milliseconds
//	field.Bool("used")        // INTEGER, 0 or 1
//	field.BigInt("mileage")   // INTEGER
//	field.Double("price")     // REAL
//	field.Blob("photo")       // BLOB
//
// # Defaults
//
// Fields may declare a generator used for rows staged without a value:
//
//	field.UUID("id").Default(func() any { return uuid.New() })
//
// # Unsupported Types
//
// A field of an unknown type can be declared, but casting it fails with a
// KindNotSupportedError, which matches ErrKindNotSupported:
//
//	_, err := field.New("x", field.Type(99)).CastDB(adapter)
//	errors.Is(err, field.ErrKindNotSupported) // true
package field
