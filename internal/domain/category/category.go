// Package category describes the filterable attributes of case documents.
package category

import (
	"fmt"

	"github.com/kailas-cloud/legalsearch/internal/domain"
	"github.com/kailas-cloud/legalsearch/internal/domain/document"
)

// Kind determines how a selected value turns into a predicate.
type Kind string

const (
	// KindScalar matches a single-valued attribute by equality.
	KindScalar Kind = "scalar"
	// KindHierarchy matches an array-valued path attribute by membership.
	KindHierarchy Kind = "hierarchy"
	// KindYear matches a date attribute by calendar year range.
	KindYear Kind = "year"
)

// Well-known case attributes.
const (
	Cause          = "cause"
	Type           = "type"
	TrialProcedure = "trialProcedure"
	JudgedAt       = "judgedAt"
	CourtLevel     = "courtLevel"
	Court          = "court"
)

// Category is a filterable attribute and its presentation.
type Category struct {
	Name        string
	DisplayName string
	Kind        Kind
}

// Schema maps category names to their kinds. Order is presentation order.
type Schema struct {
	categories []Category
	byName     map[string]int
}

// shapes maps each kind to the case attribute shape it filters.
var shapes = map[Kind]document.Shape{
	KindScalar:    document.ShapeScalar,
	KindHierarchy: document.ShapeArray,
	KindYear:      document.ShapeDate,
}

// NewSchema creates a schema from categories. Duplicate names are rejected,
// and every category must name a case attribute of the shape its kind filters.
func NewSchema(categories ...Category) (*Schema, error) {
	s := &Schema{byName: make(map[string]int, len(categories))}
	for _, c := range categories {
		if c.Name == "" {
			return nil, fmt.Errorf("%w: empty category name", domain.ErrInvalidRequest)
		}
		want, ok := shapes[c.Kind]
		if !ok {
			return nil, fmt.Errorf("%w: category %q has unknown kind %q", domain.ErrInvalidRequest, c.Name, c.Kind)
		}
		if document.AttributeShape(c.Name) != want {
			return nil, fmt.Errorf("%w: category %q is not a %s attribute of cases", domain.ErrInvalidRequest, c.Name, c.Kind)
		}
		if _, dup := s.byName[c.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate category %q", domain.ErrInvalidRequest, c.Name)
		}
		s.byName[c.Name] = len(s.categories)
		s.categories = append(s.categories, c)
	}
	return s, nil
}

// Default returns the case schema served by the filter tree.
func Default() *Schema {
	s, err := NewSchema(
		Category{Name: Cause, DisplayName: "案由", Kind: KindHierarchy},
		Category{Name: Type, DisplayName: "参照级别", Kind: KindScalar},
		Category{Name: TrialProcedure, DisplayName: "审判程序", Kind: KindScalar},
		Category{Name: JudgedAt, DisplayName: "审判时间", Kind: KindYear},
		Category{Name: CourtLevel, DisplayName: "法院级别", Kind: KindScalar},
		Category{Name: Court, DisplayName: "法院", Kind: KindScalar},
	)
	if err != nil {
		panic(err) // static table
	}
	return s
}

// Lookup returns the category with the given name.
func (s *Schema) Lookup(name string) (Category, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Category{}, false
	}
	return s.categories[i], true
}

// MustKind returns the kind of a category or ErrInvalidRequest for unknown names.
func (s *Schema) MustKind(name string) (Kind, error) {
	c, ok := s.Lookup(name)
	if !ok {
		return "", fmt.Errorf("%w: unknown category %q", domain.ErrInvalidRequest, name)
	}
	return c.Kind, nil
}

// All returns categories in presentation order.
func (s *Schema) All() []Category {
	out := make([]Category, len(s.categories))
	copy(out, s.categories)
	return out
}
