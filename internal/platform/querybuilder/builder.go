package querybuilder

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrMissingTable   = errors.New("table is required")
	ErrMissingColumns = errors.New("columns are required")
	ErrMissingValues  = errors.New("values are required")
	ErrMissingWhere   = errors.New("where clause is required")
)

// params collects bind arguments and hands out postgres placeholders.
type params struct {
	args []any
}

func (p *params) bind(v any) string {
	p.args = append(p.args, v)
	return "$" + strconv.Itoa(len(p.args))
}

// expand replaces each '?' in expr with the next bound argument.
func (p *params) expand(expr string, exprArgs []any) string {
	if len(exprArgs) == 0 {
		return expr
	}
	var out strings.Builder
	next := 0
	for i := 0; i < len(expr); i++ {
		if expr[i] == '?' && next < len(exprArgs) {
			out.WriteString(p.bind(exprArgs[next]))
			next++
			continue
		}
		out.WriteByte(expr[i])
	}
	return out.String()
}

type Condition interface {
	render(p *params) string
}

type conditionFunc func(p *params) string

func (f conditionFunc) render(p *params) string { return f(p) }

func Eq(column string, value any) Condition {
	return conditionFunc(func(p *params) string {
		return column + " = " + p.bind(value)
	})
}

// In renders a never-true predicate for an empty value list.
func In(column string, values []any) Condition {
	return conditionFunc(func(p *params) string {
		if len(values) == 0 {
			return "1=0"
		}
		holders := make([]string, len(values))
		for i, v := range values {
			holders[i] = p.bind(v)
		}
		return column + " IN (" + strings.Join(holders, ", ") + ")"
	})
}

func IsNull(column string) Condition {
	return conditionFunc(func(*params) string {
		return column + " IS NULL"
	})
}

// Expr embeds raw SQL using '?' for arguments.
func Expr(expr string, args ...any) Condition {
	return conditionFunc(func(p *params) string {
		return p.expand(expr, args)
	})
}

func renderWhere(buf *strings.Builder, conds []Condition, p *params) {
	if len(conds) == 0 {
		return
	}
	buf.WriteString(" WHERE ")
	for i, c := range conds {
		if i > 0 {
			buf.WriteString(" AND ")
		}
		buf.WriteString(c.render(p))
	}
}

type SelectBuilder struct {
	columns   []string
	table     string
	where     []Condition
	orderBy   []string
	limit     int
	forUpdate bool
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, parts...)
	return b
}

func (b *SelectBuilder) Limit(limit int) *SelectBuilder {
	b.limit = limit
	return b
}

// ForUpdate appends a row lock held until the enclosing transaction ends.
func (b *SelectBuilder) ForUpdate() *SelectBuilder {
	b.forUpdate = true
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("select: %w", ErrMissingTable)
	}
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("select: %w", ErrMissingColumns)
	}

	var (
		buf strings.Builder
		p   params
	)
	buf.WriteString("SELECT ")
	buf.WriteString(strings.Join(b.columns, ", "))
	buf.WriteString(" FROM ")
	buf.WriteString(b.table)
	renderWhere(&buf, b.where, &p)
	if len(b.orderBy) > 0 {
		buf.WriteString(" ORDER BY ")
		buf.WriteString(strings.Join(b.orderBy, ", "))
	}
	if b.limit > 0 {
		buf.WriteString(" LIMIT ")
		buf.WriteString(strconv.Itoa(b.limit))
	}
	if b.forUpdate {
		buf.WriteString(" FOR UPDATE")
	}
	return buf.String(), p.args, nil
}

type InsertBuilder struct {
	table   string
	columns []string
	rows    [][]any
	suffix  string
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = append([]string(nil), columns...)
	return b
}

func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.rows = append(b.rows, append([]any(nil), values...))
	return b
}

// Suffix is appended verbatim, e.g. an ON CONFLICT clause.
func (b *InsertBuilder) Suffix(sql string) *InsertBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	switch {
	case strings.TrimSpace(b.table) == "":
		return "", nil, fmt.Errorf("insert: %w", ErrMissingTable)
	case len(b.columns) == 0:
		return "", nil, fmt.Errorf("insert: %w", ErrMissingColumns)
	case len(b.rows) == 0:
		return "", nil, fmt.Errorf("insert: %w", ErrMissingValues)
	}

	var (
		buf strings.Builder
		p   params
	)
	buf.WriteString("INSERT INTO ")
	buf.WriteString(b.table)
	buf.WriteString(" (")
	buf.WriteString(strings.Join(b.columns, ", "))
	buf.WriteString(") VALUES ")

	for i, row := range b.rows {
		if len(row) != len(b.columns) {
			return "", nil, fmt.Errorf("insert row %d has %d values, expected %d", i, len(row), len(b.columns))
		}
		if i > 0 {
			buf.WriteString(", ")
		}
		holders := make([]string, len(row))
		for j, v := range row {
			holders[j] = p.bind(v)
		}
		buf.WriteString("(")
		buf.WriteString(strings.Join(holders, ", "))
		buf.WriteString(")")
	}
	if b.suffix != "" {
		buf.WriteString(" ")
		buf.WriteString(b.suffix)
	}
	return buf.String(), p.args, nil
}

type assignment struct {
	column string
	value  any
	expr   string
	args   []any
	raw    bool
}

type UpdateBuilder struct {
	table string
	sets  []assignment
	where []Condition
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.sets = append(b.sets, assignment{column: column, value: value})
	return b
}

func (b *UpdateBuilder) SetExpr(column, expr string, args ...any) *UpdateBuilder {
	b.sets = append(b.sets, assignment{column: column, expr: expr, args: args, raw: true})
	return b
}

func (b *UpdateBuilder) Where(conditions ...Condition) *UpdateBuilder {
	b.where = append(b.where, conditions...)
	return b
}

// ToSQL refuses to build an UPDATE without a WHERE clause.
func (b *UpdateBuilder) ToSQL() (string, []any, error) {
	switch {
	case strings.TrimSpace(b.table) == "":
		return "", nil, fmt.Errorf("update: %w", ErrMissingTable)
	case len(b.sets) == 0:
		return "", nil, fmt.Errorf("update: %w", ErrMissingValues)
	case len(b.where) == 0:
		return "", nil, fmt.Errorf("update: %w", ErrMissingWhere)
	}

	var (
		buf strings.Builder
		p   params
	)
	buf.WriteString("UPDATE ")
	buf.WriteString(b.table)
	buf.WriteString(" SET ")
	for i, s := range b.sets {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(s.column)
		buf.WriteString(" = ")
		if s.raw {
			buf.WriteString(p.expand(s.expr, s.args))
			continue
		}
		buf.WriteString(p.bind(s.value))
	}
	renderWhere(&buf, b.where, &p)
	return buf.String(), p.args, nil
}

type DeleteBuilder struct {
	table string
	where []Condition
}

func DeleteFrom(table string) *DeleteBuilder {
	return &DeleteBuilder{table: table}
}

func (b *DeleteBuilder) Where(conditions ...Condition) *DeleteBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *DeleteBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("delete: %w", ErrMissingTable)
	}
	if len(b.where) == 0 {
		return "", nil, fmt.Errorf("delete: %w", ErrMissingWhere)
	}

	var (
		buf strings.Builder
		p   params
	)
	buf.WriteString("DELETE FROM ")
	buf.WriteString(b.table)
	renderWhere(&buf, b.where, &p)
	return buf.String(), p.args, nil
}
