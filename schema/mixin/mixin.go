package mixin

import (
	"github.com/syssam/storago/schema"
	"github.com/syssam/storago/schema/field"
)

// Schema is the default implementation for the schema.Mixin interface.
// It should be embedded in all custom mixin definitions.
//
// Example:
//
//	type Audit struct {
//	    mixin.Schema
//	}
//
//	func (Audit) Fields() []*field.Field {
//	    return []*field.Field{
//	        field.Text("created_by"),
//	        field.Text("updated_by"),
//	    }
//	}
type Schema struct{}

// Fields returns the fields of the mixin.
// Override this method to add custom fields.
func (Schema) Fields() []*field.Field { return nil }

// schema mixin must implement `Mixin` interface.
var _ schema.Mixin = (*Schema)(nil)

// CommentFields wraps a mixin and sets the comment of every field it
// declares that has none.
//
// Example:
//
//	mixin.CommentFields(Audit{}, "maintained by the audit trail")
func CommentFields(m schema.Mixin, comment string) schema.Mixin {
	return fieldCommenter{Mixin: m, comment: comment}
}

type fieldCommenter struct {
	schema.Mixin
	comment string
}

func (c fieldCommenter) Fields() []*field.Field {
	fields := c.Mixin.Fields()
	for _, f := range fields {
		if f.Describe() == "" {
			f.Comment(c.comment)
		}
	}
	return fields
}
