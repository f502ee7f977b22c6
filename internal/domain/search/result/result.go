package result

// Scores are the per-channel relevance values of a fused hit.
type Scores struct {
	TextScore   float64 `json:"textScore"`
	VectorScore float64 `json:"vectorScore"`
	SortScore   float64 `json:"sortScore"`
}

// SortScore fuses channel scores: text² + (10·vector)².
func SortScore(text, vector float64) float64 {
	v := 10 * vector
	return text*text + v*v
}

// NewScores builds scores with the derived sort score.
func NewScores(text, vector float64) *Scores {
	return &Scores{TextScore: text, VectorScore: vector, SortScore: SortScore(text, vector)}
}

// Hit is a returned document. Scores is nil on the pure-filter path.
type Hit[D any] struct {
	Document D       `json:"document"`
	Scores   *Scores `json:"scores,omitempty"`
}

// Candidate is one channel hit before fusion. Partial marks a document
// that carries only its identity (and passage path) and must be hydrated.
type Candidate[D any] struct {
	Document D
	Score    float64
	Partial  bool
}

// Channel names.
const (
	ChannelLexical = "lexical"
	ChannelVector  = "vector"
)

// Status is the outcome of one retrieval channel.
type Status string

// Channel outcomes.
const (
	StatusOK          Status = "ok"
	StatusEmpty       Status = "empty"
	StatusFailed      Status = "failed"
	StatusUnavailable Status = "unavailable"
	StatusSkipped     Status = "skipped"
)

// Degraded reports whether the channel was requested but could not serve.
func (s Status) Degraded() bool {
	return s == StatusFailed || s == StatusUnavailable
}

// Page is one page of hits plus per-channel outcomes.
// Channels is empty on the pure-filter path.
type Page[D any] struct {
	Hits     []Hit[D]          `json:"hits"`
	Page     int               `json:"page"`
	PageSize int               `json:"pageSize"`
	Channels map[string]Status `json:"channels,omitempty"`
}

// Degraded reports whether any channel was requested but failed.
func (p Page[D]) Degraded() bool {
	for _, s := range p.Channels {
		if s.Degraded() {
			return true
		}
	}
	return false
}
