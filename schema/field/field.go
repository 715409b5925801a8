package field

// Caster maps field types to storage column types.
type Caster interface {
	CastColumnType(Type) (StorageType, error)
}

// Coercer converts values across the application/storage boundary.
type Coercer interface {
	Caster
	ToStorage(Type, any) (any, error)
	FromStorage(Type, any) (any, error)
}

// Field is a named, typed column declaration of a schema.
// A field is declared once and must not be changed after its schema is built.
type Field struct {
	name     string
	typ      Type
	defaultF func() any
	comment  string
}

// New returns a field with the given name and type.
func New(name string, t Type) *Field {
	return &Field{name: name, typ: t}
}

// Text returns a new field with type TEXT.
func Text(name string) *Field { return New(name, TypeText) }

// Varchar returns a new field with type VARCHAR.
func Varchar(name string) *Field { return New(name, TypeVarchar) }

// Character returns a new field with type CHARACTER.
func Character(name string) *Field { return New(name, TypeCharacter) }

// JSON returns a new field with type JSON.
func JSON(name string) *Field { return New(name, TypeJSON) }

// UUID returns a new field with type UUID.
func UUID(name string) *Field { return New(name, TypeUUID) }

// Numeric returns a new field with type NUMERIC.
func Numeric(name string) *Field { return New(name, TypeNumeric) }

// Date returns a new field with type DATE.
func Date(name string) *Field { return New(name, TypeDate) }

// DateTime returns a new field with type DATETIME.
func DateTime(name string) *Field { return New(name, TypeDateTime) }

// Decimal returns a new field with type DECIMAL.
func Decimal(name string) *Field { return New(name, TypeDecimal) }

// Int returns a new field with type INTEGER.
func Int(name string) *Field { return New(name, TypeInteger) }

// Bool returns a new field with type BOOLEAN.
func Bool(name string) *Field { return New(name, TypeBoolean) }

// TinyInt returns a new field with type TINYINT.
func TinyInt(name string) *Field { return New(name, TypeTinyInt) }

// SmallInt returns a new field with type SMALLINT.
func SmallInt(name string) *Field { return New(name, TypeSmallInt) }

// MediumInt returns a new field with type MEDIUMINT.
func MediumInt(name string) *Field { return New(name, TypeMediumInt) }

// BigInt returns a new field with type BIGINT.
func BigInt(name string) *Field { return New(name, TypeBigInt) }

// Real returns a new field with type REAL.
func Real(name string) *Field { return New(name, TypeReal) }

// Double returns a new field with type DOUBLE.
func Double(name string) *Field { return New(name, TypeDouble) }

// Float returns a new field with type FLOAT.
func Float(name string) *Field { return New(name, TypeFloat) }

// Blob returns a new field with type BLOB.
func Blob(name string) *Field { return New(name, TypeBlob) }

// Default sets a generator for the value of rows staged without this field.
func (f *Field) Default(fn func() any) *Field {
	f.defaultF = fn
	return f
}

// Comment sets the comment of the field.
func (f *Field) Comment(c string) *Field {
	f.comment = c
	return f
}

// Name returns the column name of the field.
func (f *Field) Name() string { return f.name }

// Type returns the declared type of the field.
func (f *Field) Type() Type { return f.typ }

// Describe returns the comment of the field.
func (f *Field) Describe() string { return f.comment }

// HasDefault reports if the field declares a default generator.
func (f *Field) HasDefault() bool { return f.defaultF != nil }

// DefaultValue calls the default generator. It returns nil if none is declared.
func (f *Field) DefaultValue() any {
	if f.defaultF == nil {
		return nil
	}
	return f.defaultF()
}

// CastDB returns the storage column type of the field.
func (f *Field) CastDB(c Caster) (StorageType, error) {
	return c.CastColumnType(f.typ)
}

// ToDB returns the storage value of this field in the given row.
// A missing key converts like nil.
func (f *Field) ToDB(c Coercer, row map[string]any) (any, error) {
	return c.ToStorage(f.typ, row[f.name])
}

// FromDB converts a storage value of this field to its application value.
func (f *Field) FromDB(c Coercer, v any) (any, error) {
	return c.FromStorage(f.typ, v)
}
