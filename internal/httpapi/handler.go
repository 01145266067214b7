package httpapi

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"go-linkedin-scraper/internal/metrics"
	"go-linkedin-scraper/internal/scraper"
)

// Runner executes one scrape invocation.
type Runner interface {
	Run(ctx context.Context, q scraper.SearchQuery) (*scraper.ResultPage, error)
}

// Notifier is told about every invocation that reached the scraper.
type Notifier interface {
	NotifyResults(q scraper.SearchQuery, page *scraper.ResultPage) error
	NotifyError(q scraper.SearchQuery, err error) error
}

type Handler struct {
	Runner   Runner
	Notifier Notifier
	Metrics  *metrics.Recorder
	// Timeout caps one invocation; zero means no cap beyond the request context.
	Timeout time.Duration
}

func (h *Handler) Scrape(c *gin.Context) {
	started := time.Now()

	body, err := c.GetRawData()
	if err != nil {
		h.fail(c, &RequestError{Msg: "could not read body"}, started)
		return
	}
	q, err := parseRequest(body)
	if err != nil {
		h.fail(c, err, started)
		return
	}

	ctx := c.Request.Context()
	if h.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.Timeout)
		defer cancel()
	}

	page, err := h.Runner.Run(ctx, q)
	if err != nil {
		h.notifyError(q, err)
		h.fail(c, err, started)
		return
	}

	if h.Notifier != nil {
		if err := h.Notifier.NotifyResults(q, page); err != nil {
			log.Printf("⚠️ Failed to send results notification: %v", err)
		}
	}

	postings := page.Postings
	if postings == nil {
		postings = []scraper.JobPosting{}
	}
	if page.Empty {
		h.Metrics.Invocation("no_results", time.Since(started))
		c.JSON(http.StatusOK, gin.H{"results": postings, "message": page.Message})
		return
	}
	h.Metrics.Invocation("success", time.Since(started))
	c.JSON(http.StatusOK, gin.H{"results": postings})
}

func (h *Handler) fail(c *gin.Context, err error, started time.Time) {
	f := classify(err)
	log.Printf("❌ Scrape failed (%d %s): %v", f.status, f.outcome, err)
	h.Metrics.Invocation(f.outcome, time.Since(started))
	c.JSON(f.status, f.body)
}

func (h *Handler) notifyError(q scraper.SearchQuery, err error) {
	if h.Notifier == nil {
		return
	}
	if nerr := h.Notifier.NotifyError(q, err); nerr != nil {
		log.Printf("⚠️ Failed to send error notification: %v", nerr)
	}
}
