// Package document holds the retrievable legal document kinds.
package document

import "time"

// Case is a judged court case. Name is its unique, immutable identity.
type Case struct {
	ID              string            `json:"id,omitempty"`
	Name            string            `json:"name"`
	Title           string            `json:"title"`
	Subtitle        string            `json:"subtitle,omitempty"`
	Court           string            `json:"court,omitempty"`
	CourtLevel      string            `json:"courtLevel,omitempty"`
	Type            string            `json:"type,omitempty"`
	TrialProcedure  string            `json:"trialProcedure,omitempty"`
	JudgedAt        time.Time         `json:"judgedAt"`
	Cause           []string          `json:"cause"`
	Keywords        []string          `json:"keywords"`
	Content         map[string]string `json:"content"`
	RelatedLaw      string            `json:"relatedLaw,omitempty"`
	RelationalIndex string            `json:"relationalIndex,omitempty"`
}

// Identity returns the case name.
func (c Case) Identity() string { return c.Name }

// Shape classifies how a case attribute can be filtered.
type Shape int

const (
	// ShapeNone marks names a Case does not expose.
	ShapeNone Shape = iota
	// ShapeScalar is a single string value.
	ShapeScalar
	// ShapeArray is an ordered list of values, such as a cause path.
	ShapeArray
	// ShapeDate is a point in time, read through Time.
	ShapeDate
)

type attribute struct {
	shape  Shape
	values func(Case) []string
	date   func(Case) time.Time
}

var caseAttributes = map[string]attribute{
	"name":           {shape: ShapeScalar, values: func(c Case) []string { return single(c.Name) }},
	"court":          {shape: ShapeScalar, values: func(c Case) []string { return single(c.Court) }},
	"courtLevel":     {shape: ShapeScalar, values: func(c Case) []string { return single(c.CourtLevel) }},
	"type":           {shape: ShapeScalar, values: func(c Case) []string { return single(c.Type) }},
	"trialProcedure": {shape: ShapeScalar, values: func(c Case) []string { return single(c.TrialProcedure) }},
	"cause":          {shape: ShapeArray, values: func(c Case) []string { return c.Cause }},
	"keywords":       {shape: ShapeArray, values: func(c Case) []string { return c.Keywords }},
	"judgedAt":       {shape: ShapeDate, date: func(c Case) time.Time { return c.JudgedAt }},
}

// AttributeShape reports the shape of a named case attribute.
func AttributeShape(name string) Shape {
	return caseAttributes[name].shape
}

// Attribute returns the filterable values of a named attribute.
// Scalars yield a single value, cause yields the full path. Date and
// unknown attributes yield nil.
func (c Case) Attribute(name string) []string {
	a, ok := caseAttributes[name]
	if !ok || a.values == nil {
		return nil
	}
	return a.values(c)
}

// Time returns a date attribute.
func (c Case) Time(name string) (time.Time, bool) {
	a, ok := caseAttributes[name]
	if !ok || a.date == nil {
		return time.Time{}, false
	}
	t := a.date(c)
	if t.IsZero() {
		return time.Time{}, false
	}
	return t, true
}

func single(v string) []string {
	if v == "" {
		return nil
	}
	return []string{v}
}

// Section is a node of a statute's content tree (编, 章, 节, 条).
type Section struct {
	Index    string    `json:"index"`
	Name     string    `json:"name,omitempty"`
	Content  string    `json:"content,omitempty"`
	Children []Section `json:"children,omitempty"`
}

// PathSegment locates a matched passage inside a statute.
type PathSegment struct {
	Index string `json:"index"`
	Name  string `json:"name,omitempty"`
}

// Law is a statute. Title is its unique identity.
type Law struct {
	Title        string          `json:"title"`
	Introduction string          `json:"introduction,omitempty"`
	Notification string          `json:"notification,omitempty"`
	Content      []Section       `json:"content"`
	Path         [][]PathSegment `json:"path,omitempty"`
}

// Identity returns the law title.
func (l Law) Identity() string { return l.Title }

// WithPaths returns a copy carrying the given passage paths, appended after existing ones.
func (l Law) WithPaths(paths ...[]PathSegment) Law {
	out := l
	out.Path = make([][]PathSegment, 0, len(l.Path)+len(paths))
	out.Path = append(out.Path, l.Path...)
	out.Path = append(out.Path, paths...)
	return out
}
