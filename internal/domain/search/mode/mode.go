package mode

import (
	"fmt"

	"github.com/kailas-cloud/legalsearch/internal/domain"
)

// Mode selects which retrieval channels serve a query.
type Mode string

// Search mode constants.
const (
	// Hybrid runs the lexical and vector channels and fuses them.
	Hybrid Mode = "hybrid"
	// Lexical runs full-text search only.
	Lexical Mode = "lexical"
	// Vector runs KNN search over embeddings only.
	Vector Mode = "vector"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Hybrid || m == Lexical || m == Vector
}

// UsesLexical reports whether the lexical channel participates.
func (m Mode) UsesLexical() bool { return m == Hybrid || m == Lexical }

// UsesVector reports whether the vector channel participates.
func (m Mode) UsesVector() bool { return m == Hybrid || m == Vector }

// Parse converts a raw string into a Mode. Empty input means Hybrid.
func Parse(s string) (Mode, error) {
	if s == "" {
		return Hybrid, nil
	}
	m := Mode(s)
	if !m.IsValid() {
		return "", fmt.Errorf("%w: invalid search mode %q", domain.ErrInvalidRequest, s)
	}
	return m, nil
}
