package filter

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/legalsearch/internal/domain"
)

// MaxSelected caps the number of selections in one request.
const MaxSelected = 64

// Selected is a (category, value) pair chosen by the caller.
// Selections in the same category are ORed, categories are ANDed.
type Selected struct {
	Category string `json:"category"`
	Value    string `json:"value"`
}

// Parse reads a "category:value" pair. The value may itself contain colons.
func Parse(raw string) (Selected, error) {
	cat, val, ok := strings.Cut(raw, ":")
	if !ok || cat == "" || val == "" {
		return Selected{}, fmt.Errorf("%w: filter %q must be category:value", domain.ErrInvalidRequest, raw)
	}
	return Selected{Category: cat, Value: val}, nil
}

// ParseAll reads every raw pair, failing on the first malformed one.
func ParseAll(raws []string) ([]Selected, error) {
	if len(raws) > MaxSelected {
		return nil, fmt.Errorf("%w: too many filters (max %d)", domain.ErrInvalidRequest, MaxSelected)
	}
	out := make([]Selected, 0, len(raws))
	for _, r := range raws {
		s, err := Parse(r)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// String renders the selection as category:value.
func (s Selected) String() string { return s.Category + ":" + s.Value }
