// Package mixin provides the base of reusable field sets for storago schemas.
//
// A mixin embeds Schema and overrides Fields. Each call to Fields must
// return new field values, since a field belongs to a single schema:
//
//	type Audit struct{ mixin.Schema }
//
//	func (Audit) Fields() []*field.Field {
//	    return []*field.Field{
//	        field.Text("created_by"),
//	        field.Text("updated_by"),
//	    }
//	}
//
// Mixins are combined with the fields of a schema by schema.Fields:
//
//	schema.MustNew("cars", adapter, schema.Fields(
//	    []schema.Mixin{Audit{}},
//	    field.Text("brand"),
//	)...)
//
// Ready-to-use mixins (ID, Time, SoftDelete) live in contrib/mixin.
package mixin
