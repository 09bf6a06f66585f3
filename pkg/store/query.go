package store

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

// Table is a table the store is allowed to count.
type Table string

const (
	TableProfiles      Table = "profiles"
	TableOrganizations Table = "organizations"
	TableCanteras      Table = "canteras"
	TableClientes      Table = "clientes"
	TableProduccion    Table = "produccion"
	TableVentas        Table = "ventas"
	TableSubscriptions Table = "subscriptions"
)

// IsValid reports whether t is a table the store may count.
func (t Table) IsValid() bool {
	switch t {
	case TableProfiles, TableOrganizations, TableCanteras, TableClientes,
		TableProduccion, TableVentas, TableSubscriptions:
		return true
	}
	return false
}

// Filter is a single column predicate. Filters are joined with AND.
type Filter struct {
	Column string
	Op     string
	Value  any
}

// Eq, Gte and Lt build column predicates.
func Eq(column string, v any) Filter  { return Filter{Column: column, Op: "=", Value: v} }
func Gte(column string, v any) Filter { return Filter{Column: column, Op: ">=", Value: v} }
func Lt(column string, v any) Filter  { return Filter{Column: column, Op: "<", Value: v} }

// countQuery builds an exact count over t. Identifiers are quoted and
// values are always bound as parameters.
func countQuery(t Table, where ...Filter) (string, []any, error) {
	if !t.IsValid() {
		return "", nil, fmt.Errorf("%w: %q", ErrUnknownTable, string(t))
	}

	var b strings.Builder
	b.WriteString("SELECT count(*) FROM ")
	b.WriteString(pgx.Identifier{string(t)}.Sanitize())

	args := make([]any, 0, len(where))
	for i, f := range where {
		if i == 0 {
			b.WriteString(" WHERE ")
		} else {
			b.WriteString(" AND ")
		}
		switch f.Op {
		case "=", ">=", "<", "<=", ">":
		default:
			return "", nil, fmt.Errorf("store: unsupported operator %q", f.Op)
		}
		args = append(args, f.Value)
		fmt.Fprintf(&b, "%s %s $%d", pgx.Identifier{f.Column}.Sanitize(), f.Op, len(args))
	}
	return b.String(), args, nil
}
