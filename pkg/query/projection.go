// Package query builds parameterized PostgreSQL SELECT statements over a
// single table, mapping client-facing field names to qualified columns.
package query

import "strings"

// ProjectionMap maps field names to alias-qualified columns of one table.
// Column order follows the order of Project calls, which is also the scan
// order of rows returned by Builder queries.
type ProjectionMap struct {
	from    string
	alias   string
	byField map[string]string
	ordered []string
}

// NewProjectionMap creates a ProjectionMap over schema.table aliased as alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		from:    schema + "." + table + " " + alias,
		alias:   alias,
		byField: make(map[string]string),
	}
}

// Project maps field to column and appends the column to the select list.
func (p *ProjectionMap) Project(column, field string) *ProjectionMap {
	qualified := p.alias + "." + column
	p.byField[field] = qualified
	p.ordered = append(p.ordered, qualified)
	return p
}

// From returns the FROM target, "schema.table alias".
func (p *ProjectionMap) From() string {
	return p.from
}

// Column returns the qualified column for field. Unmapped names pass
// through unchanged, so only call it with names from code.
func (p *ProjectionMap) Column(field string) string {
	if col, ok := p.byField[field]; ok {
		return col
	}
	return field
}

// Lookup returns the qualified column for field and whether it is mapped.
// Names that come from a client go through Lookup.
func (p *ProjectionMap) Lookup(field string) (string, bool) {
	col, ok := p.byField[field]
	return col, ok
}

// Columns returns the select list.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.ordered, ", ")
}
