package browser

import (
	"context"
	"fmt"
	"time"
)

// Page is the subset of a browser tab the scrapers drive. Every blocking
// call takes an explicit timeout.
type Page interface {
	Goto(url string, timeout time.Duration) error
	// WaitFor blocks until the first element matching selector is visible.
	WaitFor(selector string, timeout time.Duration) error
	Fill(selector, value string) error
	Click(selector string) error
	ClickNth(selector string, index int) error
	// Visible reports whether selector currently matches a visible element.
	// Absence is a normal answer, not an error.
	Visible(selector string) bool
	Count(selector string) (int, error)
	Text(selector string) (string, error)
	HTML(selector string) (string, error)
	URL() string
	Title() string
	Screenshot(path string) error
}

// DefaultPollInterval is how often WaitUntil re-evaluates its condition.
const DefaultPollInterval = 250 * time.Millisecond

// WaitUntil evaluates cond until it holds or timeout expires. It returns
// ErrTimeout on expiry and the context error if ctx ends first.
func WaitUntil(ctx context.Context, timeout, interval time.Duration, cond func() bool) error {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if cond() {
		return nil
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	tick := time.NewTicker(interval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			if cond() {
				return nil
			}
			return fmt.Errorf("%w after %s", ErrTimeout, timeout)
		case <-tick.C:
			if cond() {
				return nil
			}
		}
	}
}
