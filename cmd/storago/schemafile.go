package main

import (
	"fmt"
	"os"

	"github.com/go-openapi/inflect"
	"gopkg.in/yaml.v3"

	"github.com/syssam/storago/contrib/mixin"
	"github.com/syssam/storago/dialect/sql"
	"github.com/syssam/storago/schema"
	"github.com/syssam/storago/schema/field"
)

// schemaFile is the YAML document declaring the schemas of the CLI.
//
//	schemas:
//	  - name: car
//	    mixins: [id, time]
//	    fields:
//	      - name: brand
//	        type: text
//	      - name: sold
//	        type: boolean
//	        comment: set once the car leaves the lot
type schemaFile struct {
	Schemas []schemaDef `yaml:"schemas"`
}

type schemaDef struct {
	Name   string     `yaml:"name"`
	Table  string     `yaml:"table,omitempty"`
	Mixins []string   `yaml:"mixins,omitempty"`
	Fields []fieldDef `yaml:"fields"`
}

type fieldDef struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	Comment string `yaml:"comment,omitempty"`
}

// mixins are the mixins a schema file can refer to by name.
var mixins = map[string]func() schema.Mixin{
	"id":               func() schema.Mixin { return mixin.ID{} },
	"time":             func() schema.Mixin { return mixin.Time{} },
	"create_time":      func() schema.Mixin { return mixin.CreateTime{} },
	"update_time":      func() schema.Mixin { return mixin.UpdateTime{} },
	"soft_delete":      func() schema.Mixin { return mixin.SoftDelete{} },
	"time_soft_delete": func() schema.Mixin { return mixin.TimeSoftDelete{} },
}

// registry holds the schemas loaded from a schema file, in file order.
type registry struct {
	schemas []*schema.Schema
	byName  map[string]*schema.Schema
}

// lookup returns the schema with the given entity or table name.
func (r *registry) lookup(name string) (*schema.Schema, error) {
	if s, ok := r.byName[name]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("unknown schema %q", name)
}

// loadSchemas reads the schema file at path and binds its schemas to adapter.
func loadSchemas(path string, adapter *sql.Adapter) (*registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}
	return parseSchemas(data, adapter)
}

func parseSchemas(data []byte, adapter *sql.Adapter) (*registry, error) {
	var file schemaFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse schema file: %w", err)
	}
	r := &registry{byName: make(map[string]*schema.Schema)}
	for _, def := range file.Schemas {
		s, err := def.build(adapter)
		if err != nil {
			return nil, err
		}
		if _, ok := r.byName[def.Name]; ok {
			return nil, fmt.Errorf("schema %q declared twice", def.Name)
		}
		r.byName[def.Name] = s
		r.byName[s.Name()] = s
		r.schemas = append(r.schemas, s)
	}
	return r, nil
}

// build returns the schema declared by def. The table name defaults to the
// plural of the entity name.
func (def schemaDef) build(adapter *sql.Adapter) (*schema.Schema, error) {
	if def.Name == "" {
		return nil, fmt.Errorf("schema without name")
	}
	table := def.Table
	if table == "" {
		table = inflect.Pluralize(inflect.Underscore(def.Name))
	}
	ms := make([]schema.Mixin, 0, len(def.Mixins))
	for _, name := range def.Mixins {
		m, ok := mixins[name]
		if !ok {
			return nil, fmt.Errorf("schema %q: unknown mixin %q", def.Name, name)
		}
		ms = append(ms, m())
	}
	fields := make([]*field.Field, 0, len(def.Fields))
	for _, fd := range def.Fields {
		t, err := field.ParseType(fd.Type)
		if err != nil {
			return nil, fmt.Errorf("schema %q: field %q: %w", def.Name, fd.Name, err)
		}
		fields = append(fields, field.New(fd.Name, t).Comment(fd.Comment))
	}
	return schema.New(table, adapter, schema.Fields(ms, fields...)...)
}
