package linkedin

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"go-linkedin-scraper/internal/browser"
	"go-linkedin-scraper/internal/dedup"
	"go-linkedin-scraper/internal/filter"
	"go-linkedin-scraper/internal/scraper"
	"go-linkedin-scraper/internal/textutil"
)

// Observer is told what happened to each card.
type Observer interface {
	CardExtracted()
	CardFailed(err error)
	PostingExcluded(word string)
}

type nopObserver struct{}

func (nopObserver) CardExtracted()         {}
func (nopObserver) CardFailed(error)       {}
func (nopObserver) PostingExcluded(string) {}

// Extractor reads the first Limit result cards through the detail pane.
type Extractor struct {
	Limit    int
	Timeouts Timeouts
	Observer Observer

	settle func(time.Duration)
}

func NewExtractor(timeouts Timeouts, observer Observer) *Extractor {
	return &Extractor{
		Limit:    scraper.MaxPostings,
		Timeouts: timeouts,
		Observer: observer,
	}
}

// Extract returns the postings of the first cards in page order. A card that
// cannot be read is logged and skipped; an excluded posting is dropped.
func (e *Extractor) Extract(ctx context.Context, page browser.Page, exclude []string) ([]scraper.JobPosting, error) {
	observer := e.Observer
	if observer == nil {
		observer = nopObserver{}
	}

	total, err := page.Count(selResultCard)
	if err != nil {
		return nil, fmt.Errorf("count result cards: %w", err)
	}
	limit := min(total, e.limit())
	log.Printf("📄 Found %d result cards, reading %d", total, limit)

	seen := dedup.NewGuard()
	postings := make([]scraper.JobPosting, 0, limit)
	for i := 0; i < limit; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		posting, err := e.extractCard(page, i)
		if err == nil && seen.Seen(postingKey(posting)) {
			err = fmt.Errorf("detail pane did not change, still showing %q at %s", posting.Title, posting.URL)
		}
		if err != nil {
			itemErr := &scraper.ExtractionItemError{Index: i, Err: err}
			log.Printf("  ⚠️ Skipping %v", itemErr)
			observer.CardFailed(itemErr)
			continue
		}

		if word := filter.Match(posting.Title+" "+posting.Description, exclude); word != "" {
			log.Printf("  🚫 Excluded %q (matched %q)", posting.Title, word)
			observer.PostingExcluded(word)
			continue
		}

		log.Printf("  ✅ [%d] %s - %s", i+1, posting.Title, posting.Company)
		observer.CardExtracted()
		postings = append(postings, posting)
	}
	return postings, nil
}

func (e *Extractor) extractCard(page browser.Page, index int) (scraper.JobPosting, error) {
	if err := page.ClickNth(selResultCard, index); err != nil {
		return scraper.JobPosting{}, fmt.Errorf("select card: %w", err)
	}

	settle := e.settle
	if settle == nil {
		settle = browser.Settle
	}
	settle(e.Timeouts.Settle)

	if err := page.WaitFor(selDetailTitle, e.Timeouts.Detail); err != nil {
		return scraper.JobPosting{}, fmt.Errorf("detail pane: %w", err)
	}
	title, err := page.Text(selDetailTitle)
	if err != nil {
		return scraper.JobPosting{}, fmt.Errorf("read title: %w", err)
	}
	company, err := page.Text(selDetailCompany)
	if err != nil {
		return scraper.JobPosting{}, fmt.Errorf("read company: %w", err)
	}
	description, err := readDescription(page)
	if err != nil {
		return scraper.JobPosting{}, err
	}

	return scraper.JobPosting{
		Title:       textutil.CleanText(title),
		Company:     textutil.CleanText(company),
		Description: description,
		URL:         textutil.CanonicalJobURL(page.URL()),
	}, nil
}

// readDescription prefers the rendered HTML so paragraphs and bullets keep
// their line breaks, falling back to the element's inner text.
func readDescription(page browser.Page) (string, error) {
	if html, err := page.HTML(selDetailDescript); err == nil {
		if text, err := textutil.HTMLToText(html); err == nil && text != "" {
			return text, nil
		}
	}
	text, err := page.Text(selDetailDescript)
	if err != nil {
		return "", fmt.Errorf("read description: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// postingKey identifies a detail pane. The URL alone is not enough: search
// pages without currentJobId canonicalise to the same address for every card.
func postingKey(p scraper.JobPosting) string {
	return strings.Join([]string{p.Title, p.Company, p.URL}, "\x00")
}

func (e *Extractor) limit() int {
	if e.Limit <= 0 || e.Limit > scraper.MaxPostings {
		return scraper.MaxPostings
	}
	return e.Limit
}
