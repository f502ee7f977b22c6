package filter

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/kailas-cloud/legalsearch/internal/domain"
	"github.com/kailas-cloud/legalsearch/internal/domain/category"
)

var yearRegex = regexp.MustCompile(`^[0-9]{4}$`)

// Build converts selections into a predicate. Selections are grouped by
// category in first-seen order; values inside a group are ORed and groups
// are ANDed. Every field is prefixed with prefix. No selections yield nil.
func Build(schema *category.Schema, selected []Selected, prefix string) (*Predicate, error) {
	if len(selected) == 0 {
		return nil, nil
	}
	if len(selected) > MaxSelected {
		return nil, fmt.Errorf("%w: too many filters (max %d)", domain.ErrInvalidRequest, MaxSelected)
	}

	var order []string
	groups := make(map[string][]*Predicate)
	for _, s := range selected {
		if s.Value == "" {
			return nil, fmt.Errorf("%w: empty value for category %q", domain.ErrInvalidRequest, s.Category)
		}
		kind, err := schema.MustKind(s.Category)
		if err != nil {
			return nil, fmt.Errorf("build filter: %w", err)
		}
		leaf, err := condition(kind, prefix+s.Category, s.Value)
		if err != nil {
			return nil, err
		}
		if _, ok := groups[s.Category]; !ok {
			order = append(order, s.Category)
		}
		groups[s.Category] = append(groups[s.Category], leaf)
	}

	and := make([]*Predicate, 0, len(order))
	for _, cat := range order {
		and = append(and, Or(groups[cat]...))
	}
	return And(and...), nil
}

func condition(kind category.Kind, field, value string) (*Predicate, error) {
	switch kind {
	case category.KindHierarchy:
		return Member(field, value), nil
	case category.KindYear:
		from, to, err := YearBounds(value)
		if err != nil {
			return nil, err
		}
		return Range(field, from, to), nil
	default:
		return Eq(field, value), nil
	}
}

// YearBounds returns [Y-01-01, (Y+1)-01-01) in UTC for a 4-digit year.
func YearBounds(value string) (time.Time, time.Time, error) {
	if !yearRegex.MatchString(value) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q is not a 4-digit year", domain.ErrInvalidRequest, value)
	}
	y, _ := strconv.Atoi(value)
	from := time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(1, 0, 0), nil
}
