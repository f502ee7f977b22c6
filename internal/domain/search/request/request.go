package request

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/legalsearch/internal/domain"
	"github.com/kailas-cloud/legalsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/legalsearch/internal/domain/search/mode"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length in bytes.
	MaxQueryLength  = 4096
	DefaultPageSize = 10
	MaxPageSize     = 100
	MaxPage         = 1000
)

// Limits bounds page sizes. Zero fields fall back to package defaults.
type Limits struct {
	DefaultPageSize int
	MaxPageSize     int
}

func (l Limits) withDefaults() Limits {
	if l.DefaultPageSize <= 0 {
		l.DefaultPageSize = DefaultPageSize
	}
	if l.MaxPageSize <= 0 {
		l.MaxPageSize = MaxPageSize
	}
	if l.DefaultPageSize > l.MaxPageSize {
		l.DefaultPageSize = l.MaxPageSize
	}
	return l
}

// Search is a case search request. Page is zero-based.
// An empty Query selects the pure-filter path.
type Search struct {
	Query          string            `json:"query"`
	Filters        []filter.Selected `json:"filters,omitempty"`
	ScoreThreshold float64           `json:"scoreThreshold"`
	PageSize       int               `json:"pageSize"`
	Page           int               `json:"page"`
	Mode           mode.Mode         `json:"mode"`
}

// Statute is a law search request. Filters do not apply to statutes.
// An empty Query pages through the laws in store order.
type Statute struct {
	Query          string    `json:"query"`
	ScoreThreshold float64   `json:"scoreThreshold"`
	PageSize       int       `json:"pageSize"`
	Page           int       `json:"page"`
	Mode           mode.Mode `json:"mode"`
}

// Normalize validates the request and fills defaults.
func (r Search) Normalize(l Limits) (Search, error) {
	if len(r.Filters) > filter.MaxSelected {
		return Search{}, fmt.Errorf("%w: too many filters (max %d)", domain.ErrInvalidRequest, filter.MaxSelected)
	}
	q, m, size, err := normalize(r.Query, r.Mode, r.PageSize, r.Page, r.ScoreThreshold, l)
	if err != nil {
		return Search{}, err
	}
	r.Query, r.Mode, r.PageSize = q, m, size
	return r, nil
}

// Normalize validates the request and fills defaults.
func (r Statute) Normalize(l Limits) (Statute, error) {
	q, m, size, err := normalize(r.Query, r.Mode, r.PageSize, r.Page, r.ScoreThreshold, l)
	if err != nil {
		return Statute{}, err
	}
	r.Query, r.Mode, r.PageSize = q, m, size
	return r, nil
}

func normalize(query string, m mode.Mode, pageSize, page int, threshold float64, l Limits) (string, mode.Mode, int, error) {
	l = l.withDefaults()
	query = strings.TrimSpace(query)
	if len(query) > MaxQueryLength {
		return "", "", 0, fmt.Errorf("%w: query too long (max %d bytes)", domain.ErrInvalidRequest, MaxQueryLength)
	}
	m, err := mode.Parse(string(m))
	if err != nil {
		return "", "", 0, fmt.Errorf("normalize: %w", err)
	}
	if page < 0 || page > MaxPage {
		return "", "", 0, fmt.Errorf("%w: page must be between 0 and %d", domain.ErrInvalidRequest, MaxPage)
	}
	if pageSize < 0 {
		return "", "", 0, fmt.Errorf("%w: page size must be positive", domain.ErrInvalidRequest)
	}
	if pageSize == 0 {
		pageSize = l.DefaultPageSize
	}
	if pageSize > l.MaxPageSize {
		pageSize = l.MaxPageSize
	}
	if threshold < 0 {
		return "", "", 0, fmt.Errorf("%w: score threshold must not be negative", domain.ErrInvalidRequest)
	}
	return query, m, pageSize, nil
}

// Window is the number of fused candidates needed to serve the page.
func Window(page, pageSize int) int {
	return page*pageSize + pageSize
}
