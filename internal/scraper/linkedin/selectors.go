package linkedin

import (
	"net/url"
	"regexp"
	"time"
)

const (
	BaseURL   = "https://www.linkedin.com"
	LoginURL  = BaseURL + "/login"
	SearchURL = BaseURL + "/jobs/search/"
)

// login page
const (
	selUsername  = "#username"
	selPassword  = "#password"
	selSubmit    = "button[type='submit']"
	selNavSearch = "#global-nav-search"
)

// search results and the detail pane
const (
	selResultCard     = ".job-card-container"
	selNoResults      = ".jobs-search-no-results-banner"
	selDetailTitle    = ".job-details-jobs-unified-top-card__job-title"
	selDetailCompany  = ".job-details-jobs-unified-top-card__company-name"
	selDetailDescript = "#job-details"
)

const NoResultsMessage = "No jobs matched the search."

var (
	// pages only a signed-in member can reach
	authenticatedPath = regexp.MustCompile(`^/(feed|in|mynetwork|jobs)(/|$)`)
	// where LinkedIn sends a session it no longer trusts
	reauthPath = regexp.MustCompile(`^/(login|authwall|checkpoint|uas/login)(/|$)`)
)

// Timeouts bounds every wait of a session.
type Timeouts struct {
	PageLoad  time.Duration
	LoginForm time.Duration
	PostLogin time.Duration
	Results   time.Duration
	Detail    time.Duration
	// Settle is the pause after selecting a card, before the detail pane is read.
	Settle time.Duration
}

func DefaultTimeouts() Timeouts {
	return Timeouts{
		PageLoad:  45 * time.Second,
		LoginForm: 15 * time.Second,
		PostLogin: 20 * time.Second,
		Results:   10 * time.Second,
		Detail:    10 * time.Second,
		Settle:    2 * time.Second,
	}
}

func pathOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Path
}
