package query

import (
	"reflect"
	"strconv"
	"strings"
)

// Op is a comparison operator accepted by WhereCompare.
type Op string

// Supported comparison operators.
const (
	Eq Op = "="
	Ne Op = "<>"
	Lt Op = "<"
	Le Op = "<="
	Gt Op = ">"
	Ge Op = ">="
)

func (o Op) valid() bool {
	switch o {
	case Eq, Ne, Lt, Le, Gt, Ge:
		return true
	}
	return false
}

// SortField is one ORDER BY term. Field is a projection field name.
type SortField struct {
	Field      string
	Descending bool
}

// ParseSortFields parses "title,-created_at" style input. A leading "-"
// sorts descending. Blank input yields nil.
func ParseSortFields(s string) []SortField {
	if s == "" {
		return nil
	}

	fields := []SortField{}
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, desc := strings.CutPrefix(part, "-")
		fields = append(fields, SortField{Field: name, Descending: desc})
	}
	return fields
}

// Builder accumulates WHERE conditions and ordering for one projection.
// Conditions are ANDed and parameters are numbered $1, $2, ... in the
// order conditions were added. Nil filter values add nothing, so optional
// filters can be applied unconditionally.
type Builder struct {
	projection  *ProjectionMap
	where       []string
	args        []any
	sort        []SortField
	defaultSort []SortField
}

// NewBuilder creates a Builder ordered by defaultSort unless OrderByFields
// overrides it.
func NewBuilder(projection *ProjectionMap, defaultSort ...SortField) *Builder {
	return &Builder{projection: projection, defaultSort: defaultSort}
}

// OrderByFields replaces the default ordering. Unmapped fields are dropped.
func (b *Builder) OrderByFields(fields []SortField) *Builder {
	b.sort = fields
	return b
}

// WhereEquals adds "field = value".
func (b *Builder) WhereEquals(field string, value any) *Builder {
	return b.WhereCompare(field, Eq, value)
}

// WhereCompare adds "field op value". Unsupported operators are ignored.
func (b *Builder) WhereCompare(field string, op Op, value any) *Builder {
	if isNil(value) || !op.valid() {
		return b
	}
	b.add(b.projection.Column(field)+" "+string(op)+" ?", value)
	return b
}

// WhereContains adds a case-insensitive substring match on field.
func (b *Builder) WhereContains(field string, value *string) *Builder {
	return b.WhereSearch(value, field)
}

// WhereSearch adds a case-insensitive substring match ORed across fields.
// LIKE wildcards in the search text match literally.
func (b *Builder) WhereSearch(search *string, fields ...string) *Builder {
	if search == nil || *search == "" || len(fields) == 0 {
		return b
	}

	pattern := "%" + escapeLike(*search) + "%"
	terms := make([]string, len(fields))
	args := make([]any, len(fields))
	for i, field := range fields {
		terms[i] = b.projection.Column(field) + ` ILIKE ?`
		args[i] = pattern
	}

	clause := strings.Join(terms, " OR ")
	if len(terms) > 1 {
		clause = "(" + clause + ")"
	}
	b.add(clause, args...)
	return b
}

// Build returns the full SELECT with conditions and ordering.
func (b *Builder) Build() (string, []any) {
	return b.selectAll() + b.whereClause() + b.orderClause(), b.args
}

// BuildCount returns a COUNT(*) over the same conditions.
func (b *Builder) BuildCount() (string, []any) {
	return "SELECT COUNT(*) FROM " + b.projection.From() + b.whereClause(), b.args
}

// BuildPage returns Build with LIMIT and OFFSET for a 1-based page.
func (b *Builder) BuildPage(page, pageSize int) (string, []any) {
	offset := (max(page, 1) - 1) * pageSize
	sql, args := b.Build()
	return sql + " LIMIT " + strconv.Itoa(pageSize) + " OFFSET " + strconv.Itoa(offset), args
}

// BuildSingle selects the row whose idField equals id. Accumulated
// conditions and ordering are not applied.
func (b *Builder) BuildSingle(idField string, id any) (string, []any) {
	return b.selectAll() + " WHERE " + b.projection.Column(idField) + " = $1", []any{id}
}

func (b *Builder) selectAll() string {
	return "SELECT " + b.projection.Columns() + " FROM " + b.projection.From()
}

// add numbers each ? in clause after the parameters already collected.
func (b *Builder) add(clause string, args ...any) {
	var sb strings.Builder
	n := len(b.args)
	for _, r := range clause {
		if r == '?' {
			n++
			sb.WriteString("$" + strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}

	b.where = append(b.where, sb.String())
	b.args = append(b.args, args...)
}

func (b *Builder) whereClause() string {
	if len(b.where) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.where, " AND ")
}

func (b *Builder) orderClause() string {
	fields := b.sort
	if len(fields) == 0 {
		fields = b.defaultSort
	}

	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		col, ok := b.projection.Lookup(f.Field)
		if !ok {
			continue
		}
		if f.Descending {
			terms = append(terms, col+" DESC")
		} else {
			terms = append(terms, col+" ASC")
		}
	}

	if len(terms) == 0 {
		return ""
	}
	return " ORDER BY " + strings.Join(terms, ", ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func isNil(value any) bool {
	if value == nil {
		return true
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	}
	return false
}
