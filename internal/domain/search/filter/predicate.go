package filter

import (
	"strings"
	"time"
)

// Op tags a predicate node.
type Op string

// Predicate node kinds.
const (
	OpEq     Op = "eq"
	OpMember Op = "member"
	OpRange  Op = "range"
	OpAnd    Op = "and"
	OpOr     Op = "or"
)

// Predicate is a backend-agnostic boolean condition tree.
// Leaves carry Field; Range covers [From, To).
type Predicate struct {
	Op       Op
	Field    string
	Value    string
	From     time.Time
	To       time.Time
	Children []*Predicate
}

// Eq matches a single-valued attribute by equality.
func Eq(field, value string) *Predicate {
	return &Predicate{Op: OpEq, Field: field, Value: value}
}

// Member matches when value is an element of a multi-valued attribute.
func Member(field, value string) *Predicate {
	return &Predicate{Op: OpMember, Field: field, Value: value}
}

// Range matches a date attribute in [from, to).
func Range(field string, from, to time.Time) *Predicate {
	return &Predicate{Op: OpRange, Field: field, From: from, To: to}
}

// And matches when every child matches.
func And(children ...*Predicate) *Predicate {
	return &Predicate{Op: OpAnd, Children: children}
}

// Or matches when any child matches.
func Or(children ...*Predicate) *Predicate {
	return &Predicate{Op: OpOr, Children: children}
}

// Source exposes document attributes to Eval.
type Source interface {
	Attribute(name string) []string
	Time(name string) (time.Time, bool)
}

// Eval reports whether src satisfies p. A nil predicate matches everything.
func (p *Predicate) Eval(src Source) bool {
	if p == nil {
		return true
	}
	switch p.Op {
	case OpEq:
		vals := src.Attribute(p.Field)
		return len(vals) == 1 && vals[0] == p.Value
	case OpMember:
		for _, v := range src.Attribute(p.Field) {
			if v == p.Value {
				return true
			}
		}
		return false
	case OpRange:
		ts, ok := src.Time(p.Field)
		return ok && !ts.Before(p.From) && ts.Before(p.To)
	case OpAnd:
		for _, c := range p.Children {
			if !c.Eval(src) {
				return false
			}
		}
		return true
	case OpOr:
		for _, c := range p.Children {
			if c.Eval(src) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// Fields lists the distinct leaf fields in first-seen order.
func (p *Predicate) Fields() []string {
	var out []string
	seen := map[string]bool{}
	var visit func(*Predicate)
	visit = func(n *Predicate) {
		if n == nil {
			return
		}
		if n.Field != "" && !seen[n.Field] {
			seen[n.Field] = true
			out = append(out, n.Field)
		}
		for _, c := range n.Children {
			visit(c)
		}
	}
	visit(p)
	return out
}

// Scoped resolves prefixed attribute names against an unprefixed source.
type Scoped struct {
	Prefix string
	Source Source
}

// Attribute strips the prefix before delegating.
func (s Scoped) Attribute(name string) []string {
	return s.Source.Attribute(strings.TrimPrefix(name, s.Prefix))
}

// Time strips the prefix before delegating.
func (s Scoped) Time(name string) (time.Time, bool) {
	return s.Source.Time(strings.TrimPrefix(name, s.Prefix))
}
