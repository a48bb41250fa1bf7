// Package database builds parameterized SELECT statements for list pages.
package database

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
)

var rePlaceholder = regexp.MustCompile(`\$(\d+)`)

// Query accumulates the parts of a list query. From, column and order
// expressions are trusted SQL; values only ever travel as arguments.
type Query struct {
	from    string
	columns []string
	conds   []string
	args    []any
	orderBy string
	limit   int
	offset  int
}

// Select starts a query over a FROM clause (which may contain joins).
func Select(from string, columns ...string) *Query {
	return &Query{from: from, columns: columns, limit: -1, offset: -1}
}

// Where adds an AND condition. Placeholders in expr are numbered from $1
// locally and renumbered to follow the arguments already collected.
func (q *Query) Where(expr string, args ...any) *Query {
	base := len(q.args)
	renumbered := rePlaceholder.ReplaceAllStringFunc(expr, func(m string) string {
		n, err := strconv.Atoi(m[1:])
		if err != nil || n < 1 || n > len(args) {
			return m
		}
		return "$" + strconv.Itoa(base+n)
	})
	q.conds = append(q.conds, renumbered)
	q.args = append(q.args, args...)
	return q
}

// WhereEq adds "column = value" when value is not empty.
func (q *Query) WhereEq(column, value string) *Query {
	if strings.TrimSpace(value) == "" {
		return q
	}
	return q.Where(pgx.Identifier(strings.Split(column, ".")).Sanitize()+" = $1", strings.TrimSpace(value))
}

// WhereContains adds a case-insensitive substring match across columns,
// combined with OR. Empty terms are ignored.
func (q *Query) WhereContains(term string, columns ...string) *Query {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return q
	}
	parts := make([]string, len(columns))
	for i, c := range columns {
		parts[i] = pgx.Identifier(strings.Split(c, ".")).Sanitize() + ` ILIKE $1 ESCAPE '\'`
	}
	return q.Where("("+strings.Join(parts, " OR ")+")", "%"+EscapeLike(term)+"%")
}

// OrderBy sets the ORDER BY expression.
func (q *Query) OrderBy(expr string) *Query {
	q.orderBy = expr
	return q
}

// Page sets LIMIT and OFFSET. Non-positive limits are ignored; negative
// offsets are clamped to zero.
func (q *Query) Page(limit, offset int) *Query {
	if limit > 0 {
		q.limit = limit
	}
	q.offset = max(offset, 0)
	return q
}

// Build returns the SELECT statement and its arguments.
func (q *Query) Build() (string, []any) {
	var b strings.Builder
	cols := "*"
	if len(q.columns) > 0 {
		cols = strings.Join(q.columns, ", ")
	}
	fmt.Fprintf(&b, "SELECT %s FROM %s", cols, q.from)
	q.writeWhere(&b)
	if q.orderBy != "" {
		b.WriteString(" ORDER BY " + q.orderBy)
	}
	args := append([]any(nil), q.args...)
	if q.limit >= 0 {
		args = append(args, q.limit)
		fmt.Fprintf(&b, " LIMIT $%d", len(args))
	}
	if q.offset >= 0 {
		args = append(args, q.offset)
		fmt.Fprintf(&b, " OFFSET $%d", len(args))
	}
	return b.String(), args
}

// BuildCount returns a COUNT(*) statement over the same FROM and WHERE.
func (q *Query) BuildCount() (string, []any) {
	var b strings.Builder
	b.WriteString("SELECT COUNT(*) FROM " + q.from)
	q.writeWhere(&b)
	return b.String(), append([]any(nil), q.args...)
}

func (q *Query) writeWhere(b *strings.Builder) {
	if len(q.conds) == 0 {
		return
	}
	b.WriteString(" WHERE " + strings.Join(q.conds, " AND "))
}

// EscapeLike escapes LIKE metacharacters using backslash.
func EscapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
