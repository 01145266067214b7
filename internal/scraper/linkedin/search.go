package linkedin

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"

	"go-linkedin-scraper/internal/browser"
	"go-linkedin-scraper/internal/scraper"
)

// BuildSearchURL appends the query filters to base. Unset modality and
// recency add nothing.
func BuildSearchURL(base string, q scraper.SearchQuery) string {
	var b strings.Builder
	b.WriteString(base)
	b.WriteString("?keywords=")
	b.WriteString(url.QueryEscape(q.Keyword))
	b.WriteString("&location=")
	b.WriteString(url.QueryEscape(q.Location))
	if wt := q.Modality.WorkplaceType(); wt != 0 {
		fmt.Fprintf(&b, "&f_WT=%d", wt)
	}
	if secs := q.Recency.Seconds(); secs > 0 {
		fmt.Fprintf(&b, "&f_TPR=r%d", secs)
	}
	return b.String()
}

// Navigator opens the filtered job search of an authenticated session.
type Navigator struct {
	SearchURL string
	Timeouts  Timeouts
}

func NewNavigator(timeouts Timeouts) *Navigator {
	return &Navigator{SearchURL: SearchURL, Timeouts: timeouts}
}

// Search loads the result list. It reports empty when LinkedIn shows its
// no-results banner; that is an answer, not an error.
func (n *Navigator) Search(ctx context.Context, page browser.Page, q scraper.SearchQuery) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	target := BuildSearchURL(n.SearchURL, q)
	log.Printf("🌐 Visiting job search: %s", target)
	if err := page.Goto(target, n.Timeouts.PageLoad); err != nil {
		return false, &scraper.NavigationError{Stage: "search", URL: target, Err: err}
	}
	if err := checkSession(page); err != nil {
		return false, err
	}

	if err := page.WaitFor(selResultCard, n.Timeouts.Results); err != nil {
		if !errors.Is(err, browser.ErrTimeout) {
			return false, fmt.Errorf("wait for result list: %w", err)
		}
		log.Println("  ⚠️ Result list not ready, checking for the empty state")
		if err := checkSession(page); err != nil {
			return false, err
		}
	}

	if page.Visible(selNoResults) {
		log.Println("  📭 LinkedIn reports no results")
		return true, nil
	}
	return false, nil
}

func checkSession(page browser.Page) error {
	current := page.URL()
	if reauthPath.MatchString(pathOf(current)) {
		log.Printf("❌ Session was sent back to %s", current)
		return &scraper.ReauthRequiredError{URL: current}
	}
	return nil
}
