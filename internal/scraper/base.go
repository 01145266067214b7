// Shared search model for the job-board scrapers.

package scraper

import (
	"context"
	"strings"

	"go-linkedin-scraper/internal/textutil"
)

const (
	DefaultKeyword  = "python developer"
	DefaultLocation = "remote"
)

// MaxPostings bounds how many result cards one invocation visits.
const MaxPostings = 5

// Modality is the workplace type filter.
type Modality int

const (
	ModalityUnset Modality = iota
	ModalityRemote
	ModalityHybrid
	ModalityOnsite
)

var modalityNames = map[string]Modality{
	"remoto":     ModalityRemote,
	"remote":     ModalityRemote,
	"hibrido":    ModalityHybrid,
	"hybrid":     ModalityHybrid,
	"presencial": ModalityOnsite,
	"onsite":     ModalityOnsite,
	"on-site":    ModalityOnsite,
}

// ParseModality accepts the Spanish and English names, ignoring case and
// accents. Anything else means no filter.
func ParseModality(s string) Modality {
	return modalityNames[strings.TrimSpace(textutil.StripAccents(s))]
}

// WorkplaceType is LinkedIn's f_WT code, or 0 when unset.
func (m Modality) WorkplaceType() int {
	switch m {
	case ModalityOnsite:
		return 1
	case ModalityRemote:
		return 2
	case ModalityHybrid:
		return 3
	}
	return 0
}

func (m Modality) String() string {
	switch m {
	case ModalityRemote:
		return "remote"
	case ModalityHybrid:
		return "hybrid"
	case ModalityOnsite:
		return "onsite"
	}
	return "unset"
}

// Recency restricts results to postings newer than a window.
type Recency string

const RecencyNone Recency = ""

var recencyHours = map[Recency]int{
	"1h":  1,
	"2h":  2,
	"3h":  3,
	"6h":  6,
	"12h": 12,
	"24h": 24,
	"72h": 72,
}

// ParseRecency returns RecencyNone for anything outside the supported windows.
func ParseRecency(s string) Recency {
	r := Recency(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := recencyHours[r]; ok {
		return r
	}
	return RecencyNone
}

// Seconds is the window length, 0 for RecencyNone.
func (r Recency) Seconds() int {
	return recencyHours[r] * 3600
}

// SearchQuery is one validated search request.
type SearchQuery struct {
	Keyword  string
	Location string
	Modality Modality
	Recency  Recency
	Exclude  []string
}

// NewSearchQuery applies the defaults for empty keyword and location and
// drops blank exclusion words.
func NewSearchQuery(keyword, location string, exclude []string, modality, recency string) SearchQuery {
	q := SearchQuery{
		Keyword:  strings.TrimSpace(keyword),
		Location: strings.TrimSpace(location),
		Modality: ParseModality(modality),
		Recency:  ParseRecency(recency),
		Exclude:  []string{},
	}
	if q.Keyword == "" {
		q.Keyword = DefaultKeyword
	}
	if q.Location == "" {
		q.Location = DefaultLocation
	}
	for _, word := range exclude {
		if word = strings.TrimSpace(word); word != "" {
			q.Exclude = append(q.Exclude, word)
		}
	}
	return q
}

// JobPosting is one extracted result.
type JobPosting struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Description string `json:"description"`
	URL         string `json:"link"`
}

// ResultPage is the outcome of a successful invocation. Empty marks the
// search engine's explicit no-results state, which is distinct from every
// card having been filtered out.
type ResultPage struct {
	Postings []JobPosting
	Empty    bool
	Message  string
}

func NoResults(message string) *ResultPage {
	return &ResultPage{Postings: []JobPosting{}, Empty: true, Message: message}
}

// Add appends p unless the page is already full.
func (r *ResultPage) Add(p JobPosting) bool {
	if len(r.Postings) >= MaxPostings {
		return false
	}
	r.Postings = append(r.Postings, p)
	return true
}

// Scraper runs one complete search invocation.
type Scraper interface {
	Run(ctx context.Context, q SearchQuery) (*ResultPage, error)

	// Name is the platform name
	Name() string
}
