package linkedin

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go-linkedin-scraper/internal/browser"
	"go-linkedin-scraper/internal/scraper"
)

type Credentials struct {
	Email    string
	Password string
}

// Authenticator signs a fresh session in with email and password.
// It never attempts to solve a security challenge.
type Authenticator struct {
	LoginURL     string
	Timeouts     Timeouts
	PollInterval time.Duration
	Screenshots  *browser.ScreenshotDebugger
}

func NewAuthenticator(timeouts Timeouts, screenshots *browser.ScreenshotDebugger) *Authenticator {
	return &Authenticator{
		LoginURL:     LoginURL,
		Timeouts:     timeouts,
		PollInterval: browser.DefaultPollInterval,
		Screenshots:  screenshots,
	}
}

func (a *Authenticator) Login(ctx context.Context, page browser.Page, creds Credentials) error {
	log.Println("🔐 Opening LinkedIn login page...")
	if err := page.Goto(a.LoginURL, a.Timeouts.PageLoad); err != nil {
		return &scraper.NavigationError{Stage: "login", URL: a.LoginURL, Err: err}
	}

	// seeded cookies can make the login page redirect straight to the feed
	if authenticated(page) {
		log.Println("✅ Session already authenticated.")
		return nil
	}

	deadline := time.Now().Add(a.Timeouts.LoginForm)
	for _, sel := range []string{selUsername, selPassword} {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return &scraper.LoginFormTimeoutError{URL: page.URL()}
		}
		if err := page.WaitFor(sel, remaining); err != nil {
			if errors.Is(err, browser.ErrTimeout) {
				log.Printf("❌ Login form field %s never appeared", sel)
				return &scraper.LoginFormTimeoutError{URL: page.URL()}
			}
			return fmt.Errorf("wait for login form: %w", err)
		}
	}

	if err := page.Fill(selUsername, creds.Email); err != nil {
		return fmt.Errorf("fill email: %w", err)
	}
	if err := page.Fill(selPassword, creds.Password); err != nil {
		return fmt.Errorf("fill password: %w", err)
	}
	if err := page.Click(selSubmit); err != nil {
		return fmt.Errorf("submit login form: %w", err)
	}
	log.Println("⏳ Credentials submitted, waiting for the feed...")

	err := browser.WaitUntil(ctx, a.Timeouts.PostLogin, a.PollInterval, func() bool {
		return authenticated(page)
	})
	if err == nil {
		log.Println("✅ Login confirmed.")
		return nil
	}
	if !errors.Is(err, browser.ErrTimeout) {
		return err
	}

	timeoutErr := &scraper.PostLoginTimeoutError{URL: page.URL(), Title: page.Title()}
	a.Screenshots.CaptureAndLog(page, "linkedin_post_login", "No authenticated page after login, possible challenge")
	return timeoutErr
}

// authenticated holds once the global navigation search box is visible or
// the URL moved to a members-only page.
func authenticated(page browser.Page) bool {
	if authenticatedPath.MatchString(pathOf(page.URL())) {
		return true
	}
	return page.Visible(selNavSearch)
}
