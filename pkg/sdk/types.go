package legalsearch

import (
	"github.com/kailas-cloud/legalsearch/internal/domain/category"
	"github.com/kailas-cloud/legalsearch/internal/domain/document"
	"github.com/kailas-cloud/legalsearch/internal/domain/facet"
	"github.com/kailas-cloud/legalsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/legalsearch/internal/domain/search/mode"
	"github.com/kailas-cloud/legalsearch/internal/domain/search/request"
	"github.com/kailas-cloud/legalsearch/internal/domain/search/result"
)

// Documents.
type (
	Case        = document.Case
	Law         = document.Law
	Section     = document.Section
	PathSegment = document.PathSegment
)

// Requests.
type (
	SearchRequest  = request.Search
	StatuteRequest = request.Statute
	Filter         = filter.Selected
	SearchMode     = mode.Mode
)

// Search mode constants.
const (
	ModeHybrid  = mode.Hybrid
	ModeLexical = mode.Lexical
	ModeVector  = mode.Vector
)

// Results.
type (
	CasePage      = result.Page[document.Case]
	LawPage       = result.Page[document.Law]
	CaseHit       = result.Hit[document.Case]
	LawHit        = result.Hit[document.Law]
	Scores        = result.Scores
	ChannelStatus = result.Status
)

// Channel status constants.
const (
	ChannelOK          = result.StatusOK
	ChannelEmpty       = result.StatusEmpty
	ChannelFailed      = result.StatusFailed
	ChannelUnavailable = result.StatusUnavailable
	ChannelSkipped     = result.StatusSkipped
)

// Facets.
type (
	FacetNode     = facet.Node
	FacetCategory = facet.Category
)

// Filterable case categories.
const (
	CategoryCause          = category.Cause
	CategoryType           = category.Type
	CategoryTrialProcedure = category.TrialProcedure
	CategoryJudgedAt       = category.JudgedAt
	CategoryCourtLevel     = category.CourtLevel
	CategoryCourt          = category.Court
)
