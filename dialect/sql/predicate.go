package sql

import (
	"strings"

	"github.com/syssam/storago"
	"github.com/syssam/storago/schema/field"
)

// Predicate is a WHERE condition with its bind arguments.
type Predicate struct {
	expr string
	args []any
	err  error
}

// Expr returns a predicate from a raw expression.
//
//	sql.Expr("brand = ? OR brand = ?", "ford", "fiat")
func Expr(expr string, args ...any) *Predicate {
	return &Predicate{expr: expr, args: args}
}

// String returns the expression of the predicate.
func (p *Predicate) String() string { return p.expr }

// Args returns the bind arguments of the predicate.
func (p *Predicate) Args() []any { return p.args }

// Err returns the error raised while converting the predicate operands.
func (p *Predicate) Err() error { return p.err }

// And joins the predicates with AND. With no predicates it matches everything.
func And(ps ...*Predicate) *Predicate {
	if len(ps) == 0 {
		return Expr("1 = 1")
	}
	return joinPredicates(" AND ", ps)
}

// Or joins the predicates with OR. With no predicates it matches nothing.
func Or(ps ...*Predicate) *Predicate {
	if len(ps) == 0 {
		return Expr("1 = 0")
	}
	return joinPredicates(" OR ", ps)
}

// Not negates the predicate.
func Not(p *Predicate) *Predicate {
	return &Predicate{expr: "NOT (" + p.expr + ")", args: p.args, err: p.err}
}

func joinPredicates(op string, ps []*Predicate) *Predicate {
	var (
		exprs = make([]string, len(ps))
		joint = &Predicate{}
	)
	for i, p := range ps {
		exprs[i] = p.expr
		joint.args = append(joint.args, p.args...)
		if joint.err == nil {
			joint.err = p.err
		}
	}
	joint.expr = "(" + strings.Join(exprs, op) + ")"
	return joint
}

// Column builds predicates over a declared field. Operands are converted to
// the storage representation of the field type before they are bound.
//
//	sold := sql.C(field.Bool("sold"))
//	cars.Select().WhereP(sold.EQ(true)).All(ctx)
type Column struct {
	f *field.Field
}

// C returns the column of the given field.
func C(f *field.Field) Column { return Column{f: f} }

// Name returns the column name.
func (c Column) Name() string { return c.f.Name() }

// EQ returns a predicate that checks if the column equals the given value.
func (c Column) EQ(v any) *Predicate { return c.op("=", v) }

// NEQ returns a predicate that checks if the column does not equal the given value.
func (c Column) NEQ(v any) *Predicate { return c.op("<>", v) }

// GT returns a predicate that checks if the column is greater than the given value.
func (c Column) GT(v any) *Predicate { return c.op(">", v) }

// GTE returns a predicate that checks if the column is greater than or equal to the given value.
func (c Column) GTE(v any) *Predicate { return c.op(">=", v) }

// LT returns a predicate that checks if the column is less than the given value.
func (c Column) LT(v any) *Predicate { return c.op("<", v) }

// LTE returns a predicate that checks if the column is less than or equal to the given value.
func (c Column) LTE(v any) *Predicate { return c.op("<=", v) }

// In returns a predicate that checks if the column value is in the given list.
func (c Column) In(vs ...any) *Predicate { return c.list("IN", vs) }

// NotIn returns a predicate that checks if the column value is not in the given list.
func (c Column) NotIn(vs ...any) *Predicate { return c.list("NOT IN", vs) }

// IsNull returns a predicate that checks if the column is NULL.
func (c Column) IsNull() *Predicate { return Expr(c.Name() + " IS NULL") }

// NotNull returns a predicate that checks if the column is not NULL.
func (c Column) NotNull() *Predicate { return Expr(c.Name() + " IS NOT NULL") }

// Contains returns a predicate that checks if the column contains the given substring.
func (c Column) Contains(s string) *Predicate {
	return Expr(c.Name()+" LIKE ? ESCAPE '\\'", "%"+escapeLike(s)+"%")
}

// HasPrefix returns a predicate that checks if the column starts with the given prefix.
func (c Column) HasPrefix(s string) *Predicate {
	return Expr(c.Name()+" LIKE ? ESCAPE '\\'", escapeLike(s)+"%")
}

// HasSuffix returns a predicate that checks if the column ends with the given suffix.
func (c Column) HasSuffix(s string) *Predicate {
	return Expr(c.Name()+" LIKE ? ESCAPE '\\'", "%"+escapeLike(s))
}

// EqualFold returns a predicate that checks if the column equals the given
// string, ignoring ASCII case.
func (c Column) EqualFold(s string) *Predicate {
	return Expr(c.Name()+" = ? COLLATE NOCASE", s)
}

func (c Column) op(op string, v any) *Predicate {
	sv, err := c.value(v)
	return &Predicate{expr: c.Name() + " " + op + " ?", args: []any{sv}, err: err}
}

func (c Column) list(op string, vs []any) *Predicate {
	if len(vs) == 0 {
		// An empty IN list matches nothing; an empty NOT IN list matches everything.
		if op == "IN" {
			return Expr("1 = 0")
		}
		return Expr("1 = 1")
	}
	p := &Predicate{expr: c.Name() + " " + op + " (" + strings.Repeat("?, ", len(vs)-1) + "?)"}
	for _, v := range vs {
		sv, err := c.value(v)
		if err != nil && p.err == nil {
			p.err = err
		}
		p.args = append(p.args, sv)
	}
	return p
}

func (c Column) value(v any) (any, error) {
	sv, err := ToStorage(c.f.Type(), v)
	if err != nil {
		return nil, storago.NewValidationError(c.Name(), err)
	}
	return sv, nil
}

// escapeLike escapes the LIKE wildcards of s.
func escapeLike(s string) string {
	if !strings.ContainsAny(s, `\%_`) {
		return s
	}
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
