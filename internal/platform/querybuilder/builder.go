package querybuilder

import (
	"fmt"
	"strconv"
	"strings"
)

// sqlWriter accumulates SQL text and its bind args. Placeholders are
// numbered in order of appearance so nested subqueries share one sequence.
type sqlWriter struct {
	buf  strings.Builder
	args []any
}

func (w *sqlWriter) raw(s string) {
	w.buf.WriteString(s)
}

func (w *sqlWriter) bind(value any) {
	w.args = append(w.args, value)
	w.buf.WriteString("$")
	w.buf.WriteString(strconv.Itoa(len(w.args)))
}

// expr copies s, binding each ? to the next value.
func (w *sqlWriter) expr(s string, values []any) {
	next := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '?' && next < len(values) {
			w.bind(values[next])
			next++
			continue
		}
		w.buf.WriteByte(s[i])
	}
}

type Condition interface {
	writeTo(w *sqlWriter)
}

type eqCondition struct {
	column string
	value  any
}

func Eq(column string, value any) Condition {
	return eqCondition{column: column, value: value}
}

func (c eqCondition) writeTo(w *sqlWriter) {
	w.raw(c.column + " = ")
	w.bind(c.value)
}

type exprCondition struct {
	expr string
	args []any
}

// Expr embeds raw SQL; each ? is bound to the next arg.
func Expr(expr string, args ...any) Condition {
	return exprCondition{expr: expr, args: args}
}

func (c exprCondition) writeTo(w *sqlWriter) {
	w.expr(c.expr, c.args)
}

type existsCondition struct {
	sub    *SelectBuilder
	negate bool
}

// Exists renders EXISTS (sub) sharing the outer placeholder sequence.
func Exists(sub *SelectBuilder) Condition {
	return existsCondition{sub: sub}
}

func NotExists(sub *SelectBuilder) Condition {
	return existsCondition{sub: sub, negate: true}
}

func (c existsCondition) writeTo(w *sqlWriter) {
	if c.negate {
		w.raw("NOT ")
	}
	w.raw("EXISTS (")
	c.sub.writeTo(w)
	w.raw(")")
}

type groupCondition struct {
	op         string
	empty      string
	conditions []Condition
}

// And groups conditions with AND, for use inside Or.
func And(conditions ...Condition) Condition {
	return groupCondition{op: " AND ", empty: "1=1", conditions: conditions}
}

// Or joins conditions with OR inside parentheses.
func Or(conditions ...Condition) Condition {
	return groupCondition{op: " OR ", empty: "1=0", conditions: conditions}
}

func (c groupCondition) writeTo(w *sqlWriter) {
	if len(c.conditions) == 0 {
		w.raw(c.empty)
		return
	}
	w.raw("(")
	writeJoined(w, c.conditions, c.op)
	w.raw(")")
}

func writeJoined(w *sqlWriter, conditions []Condition, sep string) {
	for i, cond := range conditions {
		if i > 0 {
			w.raw(sep)
		}
		cond.writeTo(w)
	}
}

type SelectBuilder struct {
	columns []string
	table   string
	where   []Condition
	orderBy []string
	limit   int
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

// Where adds conditions joined with AND.
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

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("select columns are required")
	}
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("select table is required")
	}

	w := &sqlWriter{}
	b.writeTo(w)
	return w.buf.String(), w.args, nil
}

func (b *SelectBuilder) writeTo(w *sqlWriter) {
	w.raw("SELECT " + strings.Join(b.columns, ", ") + " FROM " + b.table)
	if len(b.where) > 0 {
		w.raw(" WHERE ")
		writeJoined(w, b.where, " AND ")
	}
	if len(b.orderBy) > 0 {
		w.raw(" ORDER BY " + strings.Join(b.orderBy, ", "))
	}
	if b.limit > 0 {
		w.raw(" LIMIT " + strconv.Itoa(b.limit))
	}
}

// InsertBuilder renders a single-row INSERT with an optional
// ON CONFLICT ... DO UPDATE clause understood by postgres and sqlite.
type InsertBuilder struct {
	table    string
	columns  []string
	values   []any
	conflict []string
	updates  []string
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Value(column string, value any) *InsertBuilder {
	b.columns = append(b.columns, column)
	b.values = append(b.values, value)
	return b
}

// OnConflict names the unique key that turns the insert into an upsert.
func (b *InsertBuilder) OnConflict(columns ...string) *InsertBuilder {
	b.conflict = append(b.conflict, columns...)
	return b
}

// UpdateExcluded overwrites the given columns with the incoming row on conflict.
func (b *InsertBuilder) UpdateExcluded(columns ...string) *InsertBuilder {
	for _, col := range columns {
		b.updates = append(b.updates, col+" = EXCLUDED."+col)
	}
	return b
}

// UpdateRaw adds literal assignments such as "ingested_at = CURRENT_TIMESTAMP".
func (b *InsertBuilder) UpdateRaw(assignments ...string) *InsertBuilder {
	b.updates = append(b.updates, assignments...)
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("insert table is required")
	}
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("insert columns are required")
	}
	if len(b.updates) > 0 && len(b.conflict) == 0 {
		return "", nil, fmt.Errorf("conflict columns are required for an upsert")
	}

	w := &sqlWriter{args: make([]any, 0, len(b.values))}
	w.raw("INSERT INTO " + b.table + " (" + strings.Join(b.columns, ", ") + ") VALUES (")
	for i, value := range b.values {
		if i > 0 {
			w.raw(", ")
		}
		w.bind(value)
	}
	w.raw(")")

	if len(b.conflict) > 0 {
		w.raw(" ON CONFLICT (" + strings.Join(b.conflict, ", ") + ")")
		if len(b.updates) == 0 {
			w.raw(" DO NOTHING")
		} else {
			w.raw(" DO UPDATE SET " + strings.Join(b.updates, ", "))
		}
	}
	return w.buf.String(), w.args, nil
}
