// Package mixin provides common mixin implementations for storago schemas.
//
// These mixins are OPTIONAL and provided as convenient starting points.
// Users are encouraged to create their own mixins tailored to their needs.
//
// Available mixins:
//   - CreateTime: Adds created_at timestamp field
//   - UpdateTime: Adds updated_at timestamp field
//   - Time: Combines CreateTime and UpdateTime
//   - ID: Adds a UUID id field with auto-generation
//   - SoftDelete: Adds deleted_at field for soft deletion
//   - TimeSoftDelete: Combines Time and SoftDelete
//
// Usage:
//
//	import "github.com/syssam/storago/contrib/mixin"
//
//	cars := schema.MustNew("cars", adapter, schema.Fields(
//	    []schema.Mixin{mixin.ID{}, mixin.Time{}},
//	    field.Text("brand"),
//	)...)
package mixin

import (
	"time"

	"github.com/google/uuid"

	"github.com/syssam/storago/schema"
	"github.com/syssam/storago/schema/field"
	"github.com/syssam/storago/schema/mixin"
)

func now() any { return time.Now() }

// CreateTime adds created_at time field.
// Rows inserted without it are stamped with the current time.
//
// Generated column:
//
//	created_at NUMERIC
type CreateTime struct{ mixin.Schema }

// Fields of the create time mixin.
func (CreateTime) Fields() []*field.Field {
	return []*field.Field{
		field.DateTime("created_at").
			Default(now).
			Comment("Timestamp when the row was created"),
	}
}

// create time mixin must implement `Mixin` interface.
var _ schema.Mixin = (*CreateTime)(nil)

// UpdateTime adds updated_at time field.
//
// Generated column:
//
//	updated_at NUMERIC
type UpdateTime struct{ mixin.Schema }

// Fields of the update time mixin.
func (UpdateTime) Fields() []*field.Field {
	return []*field.Field{
		field.DateTime("updated_at").
			Default(now).
			Comment("Timestamp when the row was last updated"),
	}
}

// update time mixin must implement `Mixin` interface.
var _ schema.Mixin = (*UpdateTime)(nil)

// Time composes CreateTime and UpdateTime mixins.
// Provides both created_at and updated_at fields.
type Time struct{ mixin.Schema }

// Fields of the time mixin.
func (Time) Fields() []*field.Field {
	return append(
		CreateTime{}.Fields(),
		UpdateTime{}.Fields()...,
	)
}

// time mixin must implement `Mixin` interface.
var _ schema.Mixin = (*Time)(nil)

// ID adds a UUID id field generated with github.com/google/uuid.
//
// Generated column:
//
//	id TEXT
//
// For other ID types, create your own mixin:
//
//	type SerialID struct{ mixin.Schema }
//
//	func (SerialID) Fields() []*field.Field {
//	    return []*field.Field{
//	        field.BigInt("id").Default(nextID),
//	    }
//	}
type ID struct{ mixin.Schema }

// Fields of the ID mixin.
func (ID) Fields() []*field.Field {
	return []*field.Field{
		field.UUID("id").
			Default(func() any { return uuid.New() }),
	}
}

// id mixin must implement `Mixin` interface.
var _ schema.Mixin = (*ID)(nil)

// SoftDelete adds a deleted_at field for soft deletion.
// Rows are not physically deleted but marked with a deletion timestamp:
//
//	cars.Select().WhereP(sql.C(deletedAt).IsNull())
//
// Generated column:
//
//	deleted_at NUMERIC
type SoftDelete struct{ mixin.Schema }

// Fields of the SoftDelete mixin.
func (SoftDelete) Fields() []*field.Field {
	return []*field.Field{
		field.DateTime("deleted_at").
			Comment("Timestamp when the row was soft deleted (NULL means not deleted)"),
	}
}

// soft delete mixin must implement `Mixin` interface.
var _ schema.Mixin = (*SoftDelete)(nil)

// TimeSoftDelete combines Time and SoftDelete mixins.
// Adds created_at, updated_at, and deleted_at fields.
type TimeSoftDelete struct{ mixin.Schema }

// Fields returns all timestamp and soft delete fields.
func (TimeSoftDelete) Fields() []*field.Field {
	return append(Time{}.Fields(), SoftDelete{}.Fields()...)
}

// time soft delete mixin must implement `Mixin` interface.
var _ schema.Mixin = (*TimeSoftDelete)(nil)
