package browser

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"
)

// PlaywrightLauncher starts Chromium through the Playwright driver.
type PlaywrightLauncher struct {
	// DriverPath overrides the driver directory when it exists on disk.
	DriverPath string
	// Cookies are added to every new context, e.g. an exported li_at session.
	Cookies []playwright.OptionalCookie
	// ActionTimeout bounds clicks and fills on pages of this launcher.
	ActionTimeout time.Duration
	// CloseTimeout bounds how long Release waits for the browser context to
	// close before stopping the driver anyway.
	CloseTimeout time.Duration

	exists func(string) bool
}

func NewPlaywrightLauncher(driverPath string, cookies []playwright.OptionalCookie) *PlaywrightLauncher {
	return &PlaywrightLauncher{
		DriverPath:    driverPath,
		Cookies:       cookies,
		ActionTimeout: 10 * time.Second,
		CloseTimeout:  DefaultCloseTimeout,
	}
}

func (l *PlaywrightLauncher) Launch(ctx context.Context, cfg SessionConfig, profileDir string) (Process, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	exists := l.exists
	if exists == nil {
		exists = fileExists
	}
	// a leftover SingletonLock means another chromium owns this directory
	if exists(filepath.Join(profileDir, "SingletonLock")) {
		return nil, &ProfileLockError{Dir: profileDir}
	}

	pw, driverPath, err := l.startDriver(cfg.BinaryPath == "")
	if err != nil {
		return nil, &LaunchError{DriverPath: driverPath, Err: err}
	}

	bctx, err := pw.Chromium.LaunchPersistentContext(profileDir, cfg.launchOptions())
	if err != nil {
		if stopErr := pw.Stop(); stopErr != nil {
			log.Printf("⚠️ Failed to stop playwright driver: %v", stopErr)
		}
		return nil, &LaunchError{DriverPath: driverPath, Err: classifyLaunchError(profileDir, err)}
	}

	proc := &playwrightProcess{
		pw:            pw,
		ctx:           bctx,
		waitUntil:     cfg.waitUntil(),
		driverPath:    driverPath,
		actionTimeout: l.ActionTimeout,
		closeTimeout:  l.CloseTimeout,
	}
	if err := l.prepareContext(bctx, cfg); err != nil {
		if closeErr := proc.Close(); closeErr != nil {
			log.Printf("⚠️ Failed to close half-started browser: %v", closeErr)
		}
		return nil, &LaunchError{DriverPath: driverPath, Err: err}
	}
	return proc, nil
}

// startDriver uses the override directory, then an already installed driver,
// and finally downloads one on demand.
func (l *PlaywrightLauncher) startDriver(needBrowser bool) (*playwright.Playwright, string, error) {
	opts := &playwright.RunOptions{
		SkipInstallBrowsers: !needBrowser,
		Browsers:            []string{"chromium"},
	}
	exists := l.exists
	if exists == nil {
		exists = fileExists
	}
	if l.DriverPath != "" {
		if exists(l.DriverPath) {
			opts.DriverDirectory = l.DriverPath
		} else {
			log.Printf("⚠️ Driver override %s does not exist, ignoring", l.DriverPath)
		}
	}

	pw, err := playwright.Run(opts)
	if err == nil {
		return pw, opts.DriverDirectory, nil
	}

	log.Printf("📥 Playwright driver not ready (%v), installing...", err)
	if installErr := playwright.Install(opts); installErr != nil {
		return nil, opts.DriverDirectory, fmt.Errorf("install playwright driver: %w", installErr)
	}
	pw, err = playwright.Run(opts)
	if err != nil {
		return nil, opts.DriverDirectory, fmt.Errorf("start playwright driver: %w", err)
	}
	return pw, opts.DriverDirectory, nil
}

func (l *PlaywrightLauncher) prepareContext(bctx playwright.BrowserContext, cfg SessionConfig) error {
	if cfg.HideAutomation {
		if err := bctx.AddInitScript(playwright.Script{Content: playwright.String(stealthScript)}); err != nil {
			return fmt.Errorf("add stealth script: %w", err)
		}
	}
	if cfg.BlockImages {
		err := bctx.Route("**/*", func(route playwright.Route) {
			if blockedResource(route.Request().ResourceType()) {
				_ = route.Abort()
				return
			}
			_ = route.Continue()
		})
		if err != nil {
			return fmt.Errorf("install resource filter: %w", err)
		}
	}
	if len(l.Cookies) > 0 {
		if err := bctx.AddCookies(l.Cookies); err != nil {
			return fmt.Errorf("add cookies: %w", err)
		}
	}
	return nil
}

type playwrightProcess struct {
	pw            *playwright.Playwright
	ctx           playwright.BrowserContext
	waitUntil     *playwright.WaitUntilState
	driverPath    string
	actionTimeout time.Duration
	closeTimeout  time.Duration
}

func (p *playwrightProcess) DriverPath() string {
	return p.driverPath
}

func (p *playwrightProcess) NewPage() (Page, error) {
	var page playwright.Page
	// persistent contexts start with one blank tab
	if pages := p.ctx.Pages(); len(pages) > 0 {
		page = pages[0]
	} else {
		var err error
		page, err = p.ctx.NewPage()
		if err != nil {
			return nil, err
		}
	}
	if p.actionTimeout > 0 {
		page.SetDefaultTimeout(millis(p.actionTimeout))
	}
	return &playwrightPage{page: page, waitUntil: p.waitUntil}, nil
}

// Close stops the driver even when the context does not close in time; the
// driver takes the browser process down with it.
func (p *playwrightProcess) Close() error {
	var errs []error
	if err := closeWithin(p.closeTimeout, func() error { return p.ctx.Close() }); err != nil {
		errs = append(errs, fmt.Errorf("close context: %w", err))
	}
	if err := p.pw.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("stop driver: %w", err))
	}
	return errors.Join(errs...)
}

type playwrightPage struct {
	page      playwright.Page
	waitUntil *playwright.WaitUntilState
}

func (p *playwrightPage) Goto(url string, timeout time.Duration) error {
	_, err := p.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: p.waitUntil,
		Timeout:   playwright.Float(millis(timeout)),
	})
	return translate(err)
}

func (p *playwrightPage) WaitFor(selector string, timeout time.Duration) error {
	err := p.page.Locator(selector).First().WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(millis(timeout)),
	})
	return translate(err)
}

func (p *playwrightPage) Fill(selector, value string) error {
	return translate(p.page.Locator(selector).First().Fill(value))
}

func (p *playwrightPage) Click(selector string) error {
	return translate(p.page.Locator(selector).First().Click())
}

func (p *playwrightPage) ClickNth(selector string, index int) error {
	return translate(p.page.Locator(selector).Nth(index).Click())
}

func (p *playwrightPage) Visible(selector string) bool {
	visible, err := p.page.Locator(selector).First().IsVisible()
	return err == nil && visible
}

func (p *playwrightPage) Count(selector string) (int, error) {
	n, err := p.page.Locator(selector).Count()
	return n, translate(err)
}

func (p *playwrightPage) Text(selector string) (string, error) {
	text, err := p.page.Locator(selector).First().InnerText()
	return text, translate(err)
}

func (p *playwrightPage) HTML(selector string) (string, error) {
	html, err := p.page.Locator(selector).First().InnerHTML()
	return html, translate(err)
}

func (p *playwrightPage) URL() string {
	return p.page.URL()
}

func (p *playwrightPage) Title() string {
	title, _ := p.page.Title()
	return title
}

func (p *playwrightPage) Screenshot(path string) error {
	_, err := p.page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	})
	return err
}

// translate maps playwright timeouts onto ErrTimeout.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, playwright.ErrTimeout) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return err
}

func millis(d time.Duration) float64 {
	return float64(d / time.Millisecond)
}
