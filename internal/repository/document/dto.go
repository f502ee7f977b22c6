package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	domdoc "github.com/kailas-cloud/legalsearch/internal/domain/document"
)

// caseRecord is the stored JSON shape of a case. judgedAt is unix seconds so
// the index can range over it numerically.
type caseRecord struct {
	ID              string            `json:"id,omitempty"`
	Name            string            `json:"name"`
	Title           string            `json:"title"`
	Subtitle        string            `json:"subtitle,omitempty"`
	Court           string            `json:"court,omitempty"`
	CourtLevel      string            `json:"courtLevel,omitempty"`
	Type            string            `json:"type,omitempty"`
	TrialProcedure  string            `json:"trialProcedure,omitempty"`
	JudgedAt        int64             `json:"judgedAt,omitempty"`
	Cause           []string          `json:"cause"`
	Keywords        []string          `json:"keywords"`
	Content         map[string]string `json:"content"`
	RelatedLaw      string            `json:"relatedLaw,omitempty"`
	RelationalIndex string            `json:"relationalIndex,omitempty"`
}

func (r caseRecord) toDomain() domdoc.Case {
	c := domdoc.Case{
		ID:              r.ID,
		Name:            r.Name,
		Title:           r.Title,
		Subtitle:        r.Subtitle,
		Court:           r.Court,
		CourtLevel:      r.CourtLevel,
		Type:            r.Type,
		TrialProcedure:  r.TrialProcedure,
		Cause:           r.Cause,
		Keywords:        r.Keywords,
		Content:         r.Content,
		RelatedLaw:      r.RelatedLaw,
		RelationalIndex: r.RelationalIndex,
	}
	if r.JudgedAt != 0 {
		c.JudgedAt = time.Unix(r.JudgedAt, 0).UTC()
	}
	return c
}

// DecodeCase parses a stored case. Both a bare object and the
// single-element array returned by JSON.GET $ are accepted.
func DecodeCase(raw []byte) (domdoc.Case, error) {
	var rec caseRecord
	if err := decodeOne(raw, &rec); err != nil {
		return domdoc.Case{}, fmt.Errorf("decode case: %w", err)
	}
	return rec.toDomain(), nil
}

// DecodeLaw parses a stored law.
func DecodeLaw(raw []byte) (domdoc.Law, error) {
	var law domdoc.Law
	if err := decodeOne(raw, &law); err != nil {
		return domdoc.Law{}, fmt.Errorf("decode law: %w", err)
	}
	law.Path = nil
	return law, nil
}

// DecodeStrings parses a stored string array, accepting one level of wrapping.
func DecodeStrings(raw []byte) ([]string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, nil
	}
	var nested [][]string
	if err := json.Unmarshal(trimmed, &nested); err == nil {
		if len(nested) == 0 {
			return nil, nil
		}
		return nested[0], nil
	}
	var flat []string
	if err := json.Unmarshal(trimmed, &flat); err != nil {
		return nil, fmt.Errorf("decode strings: %w", err)
	}
	return flat, nil
}

func decodeOne(raw []byte, v any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return fmt.Errorf("empty document")
	}
	if trimmed[0] != '[' {
		return json.Unmarshal(trimmed, v)
	}
	var arr []json.RawMessage
	if err := json.Unmarshal(trimmed, &arr); err != nil {
		return err
	}
	if len(arr) == 0 {
		return fmt.Errorf("empty document")
	}
	return json.Unmarshal(arr[0], v)
}
