package linkedin

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/playwright-community/playwright-go"

	"go-linkedin-scraper/internal/browser"
	"go-linkedin-scraper/internal/config"
	"go-linkedin-scraper/internal/scraper"
)

// Scraper runs one LinkedIn job search in its own browser session.
type Scraper struct {
	Provisioner *browser.Provisioner
	Credentials Credentials
	Auth        *Authenticator
	Nav         *Navigator
	Extract     *Extractor
}

var _ scraper.Scraper = (*Scraper)(nil)

// New wires a scraper from cfg. tracker and observer may be nil.
func New(cfg *config.Config, launcher browser.Launcher, tracker browser.Tracker, observer Observer) *Scraper {
	timeouts := TimeoutsFromConfig(cfg.Timeouts)
	provisioner := browser.NewProvisioner(SessionConfigFromConfig(cfg.Browser), cfg.Browser.BinaryPath, launcher, tracker)
	provisioner.ProfileRoot = cfg.Browser.ProfileRoot

	return &Scraper{
		Provisioner: provisioner,
		Credentials: Credentials{Email: cfg.LinkedIn.Email, Password: cfg.LinkedIn.Password},
		Auth:        NewAuthenticator(timeouts, browser.NewScreenshotDebugger(cfg.Browser.ScreenshotDir)),
		Nav:         NewNavigator(timeouts),
		Extract:     NewExtractor(timeouts, observer),
	}
}

func (s *Scraper) Name() string {
	return "LinkedIn"
}

// Run provisions a session, signs in, searches and extracts. The session is
// released on every return path, including panics.
func (s *Scraper) Run(ctx context.Context, q scraper.SearchQuery) (*scraper.ResultPage, error) {
	started := time.Now()
	sess, err := s.Provisioner.Provision(ctx)
	if err != nil {
		return nil, err
	}
	defer sess.Release()

	log.Printf("💼 [%s] Searching LinkedIn for %q in %q (modality %s, recency %q)",
		sess.ID, q.Keyword, q.Location, q.Modality, q.Recency)

	page, err := sess.Page()
	if err != nil {
		return nil, fmt.Errorf("open browser tab: %w", err)
	}

	if err := s.Auth.Login(ctx, page, s.Credentials); err != nil {
		return nil, err
	}

	empty, err := s.Nav.Search(ctx, page, q)
	if err != nil {
		return nil, err
	}
	if empty {
		log.Printf("📭 [%s] No results after %s", sess.ID, time.Since(started).Round(time.Millisecond))
		return scraper.NoResults(NoResultsMessage), nil
	}

	postings, err := s.Extract.Extract(ctx, page, q.Exclude)
	if err != nil {
		return nil, err
	}

	result := &scraper.ResultPage{Postings: make([]scraper.JobPosting, 0, len(postings))}
	for _, p := range postings {
		result.Add(p)
	}
	log.Printf("🏁 [%s] %d posting(s) in %s", sess.ID, len(result.Postings), time.Since(started).Round(time.Millisecond))
	return result, nil
}

// NewLauncher returns the Playwright launcher for cfg, seeded with the
// exported session cookies when a cookie file is configured.
func NewLauncher(cfg config.BrowserConfig) *browser.PlaywrightLauncher {
	var cookies []playwright.OptionalCookie
	if cfg.CookiesPath != "" {
		loaded, err := browser.LoadCookies(cfg.CookiesPath)
		if err != nil {
			log.Printf("⚠️ Could not load LinkedIn cookies: %v. Continuing with a password login.", err)
		} else {
			log.Printf("🍪 Loaded LinkedIn cookies (%d)", len(loaded))
			cookies = loaded
		}
	}
	return browser.NewPlaywrightLauncher(cfg.DriverPath, cookies)
}

// TimeoutsFromConfig fills unset durations with the defaults.
func TimeoutsFromConfig(c config.TimeoutConfig) Timeouts {
	t := DefaultTimeouts()
	set := func(dst *time.Duration, v time.Duration) {
		if v > 0 {
			*dst = v
		}
	}
	set(&t.PageLoad, c.PageLoad)
	set(&t.LoginForm, c.LoginForm)
	set(&t.PostLogin, c.PostLogin)
	set(&t.Results, c.Results)
	set(&t.Detail, c.Detail)
	set(&t.Settle, c.Settle)
	return t
}

func SessionConfigFromConfig(c config.BrowserConfig) browser.SessionConfig {
	sc := browser.DefaultSessionConfig()
	sc.Headless = c.Headless
	sc.BlockImages = c.BlockImages
	if c.UserAgent != "" {
		sc.UserAgent = c.UserAgent
	}
	if c.PageLoad != "" {
		sc.PageLoad = browser.PageLoad(c.PageLoad)
	}
	return sc
}
