package queries

import (
	"strings"
)

// Record exposes column values to in-memory predicate evaluation. Columns are qualified
// ("funnels.name", "websites.domain"); ok is false when the value is absent or NULL.
type Record interface {
	Field(column string) (value string, ok bool)
}

// Predicate is a node of a WHERE clause. It compiles to SQL and can be evaluated directly.
type Predicate interface {
	SQL() (string, []interface{})
	Match(r Record) bool
}

type eqPredicate struct {
	column string
	value  string
}

// Eq matches rows where column equals value.
func Eq(column, value string) Predicate {
	return eqPredicate{column: column, value: value}
}

func (p eqPredicate) SQL() (string, []interface{}) {
	return p.column + " = ?", []interface{}{p.value}
}

func (p eqPredicate) Match(r Record) bool {
	v, ok := r.Field(p.column)
	return ok && v == p.value
}

type inPredicate struct {
	column string
	values []string
}

// In matches rows where column is one of values. An empty set matches nothing.
func In(column string, values []string) Predicate {
	return inPredicate{column: column, values: values}
}

func (p inPredicate) SQL() (string, []interface{}) {
	if len(p.values) == 0 {
		return "1 = 0", nil
	}
	return p.column + " IN ?", []interface{}{p.values}
}

func (p inPredicate) Match(r Record) bool {
	v, ok := r.Field(p.column)
	if !ok {
		return false
	}
	for _, candidate := range p.values {
		if v == candidate {
			return true
		}
	}
	return false
}

type containsFoldPredicate struct {
	column string
	needle string
}

// ContainsFold is a case-insensitive substring match. LIKE wildcards in needle match literally.
func ContainsFold(column, needle string) Predicate {
	return containsFoldPredicate{column: column, needle: needle}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (p containsFoldPredicate) SQL() (string, []interface{}) {
	return p.column + " ILIKE ?", []interface{}{"%" + likeEscaper.Replace(p.needle) + "%"}
}

func (p containsFoldPredicate) Match(r Record) bool {
	v, ok := r.Field(p.column)
	return ok && strings.Contains(strings.ToLower(v), strings.ToLower(p.needle))
}

type junction struct {
	op    string
	parts []Predicate
}

// And matches when every part matches. With no parts it matches everything.
func And(parts ...Predicate) Predicate {
	return junction{op: "AND", parts: parts}
}

// Or matches when any part matches. With no parts it matches nothing.
func Or(parts ...Predicate) Predicate {
	return junction{op: "OR", parts: parts}
}

func (j junction) SQL() (string, []interface{}) {
	if len(j.parts) == 0 {
		if j.op == "AND" {
			return "1 = 1", nil
		}
		return "1 = 0", nil
	}
	if len(j.parts) == 1 {
		return j.parts[0].SQL()
	}

	clauses := make([]string, 0, len(j.parts))
	var args []interface{}
	for _, part := range j.parts {
		sql, partArgs := part.SQL()
		if _, nested := part.(junction); nested {
			sql = "(" + sql + ")"
		}
		clauses = append(clauses, sql)
		args = append(args, partArgs...)
	}
	return strings.Join(clauses, " "+j.op+" "), args
}

func (j junction) Match(r Record) bool {
	if j.op == "AND" {
		for _, part := range j.parts {
			if !part.Match(r) {
				return false
			}
		}
		return true
	}
	for _, part := range j.parts {
		if part.Match(r) {
			return true
		}
	}
	return false
}
