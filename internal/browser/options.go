package browser

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// PageLoad is the readiness state a navigation waits for before returning.
type PageLoad string

const (
	PageLoadCommit           PageLoad = "commit"
	PageLoadDOMContentLoaded PageLoad = "domcontentloaded"
	PageLoadLoad             PageLoad = "load"
)

const (
	DefaultWindowWidth  = 1920
	DefaultWindowHeight = 1080
	DefaultUserAgent    = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
)

// SessionConfig holds the launch options of one browser session.
// It is passed by value; WithBinary returns a modified copy.
type SessionConfig struct {
	Headless       bool
	NoSandbox      bool
	DisableDevShm  bool
	DisableGPU     bool
	WindowWidth    int
	WindowHeight   int
	UserAgent      string
	HideAutomation bool
	BlockImages    bool
	PageLoad       PageLoad
	BinaryPath     string
}

// DefaultSessionConfig returns options suited to running inside a container.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		Headless:       true,
		NoSandbox:      true,
		DisableDevShm:  true,
		DisableGPU:     true,
		WindowWidth:    DefaultWindowWidth,
		WindowHeight:   DefaultWindowHeight,
		UserAgent:      DefaultUserAgent,
		HideAutomation: true,
		BlockImages:    true,
		PageLoad:       PageLoadDOMContentLoaded,
	}
}

func (c SessionConfig) WithBinary(path string) SessionConfig {
	c.BinaryPath = path
	return c
}

// Args returns the chromium switches for c. Headless mode is passed through
// the launch options instead.
func (c SessionConfig) Args() []string {
	var args []string
	if c.NoSandbox {
		args = append(args, "--no-sandbox")
	}
	if c.DisableDevShm {
		args = append(args, "--disable-dev-shm-usage")
	}
	if c.DisableGPU {
		args = append(args, "--disable-gpu")
	}
	if c.WindowWidth > 0 && c.WindowHeight > 0 {
		args = append(args, fmt.Sprintf("--window-size=%d,%d", c.WindowWidth, c.WindowHeight))
	}
	if c.HideAutomation {
		args = append(args,
			"--disable-blink-features=AutomationControlled",
			"--disable-infobars",
		)
	}
	if c.BlockImages {
		args = append(args, "--blink-settings=imagesEnabled=false")
	}
	return args
}

func (c SessionConfig) waitUntil() *playwright.WaitUntilState {
	switch c.PageLoad {
	case PageLoadCommit:
		return playwright.WaitUntilStateCommit
	case PageLoadLoad:
		return playwright.WaitUntilStateLoad
	default:
		return playwright.WaitUntilStateDomcontentloaded
	}
}

func (c SessionConfig) launchOptions() playwright.BrowserTypeLaunchPersistentContextOptions {
	opts := playwright.BrowserTypeLaunchPersistentContextOptions{
		Headless: playwright.Bool(c.Headless),
		Args:     c.Args(),
	}
	if c.WindowWidth > 0 && c.WindowHeight > 0 {
		opts.Viewport = &playwright.Size{Width: c.WindowWidth, Height: c.WindowHeight}
	}
	if c.UserAgent != "" {
		opts.UserAgent = playwright.String(c.UserAgent)
	}
	if c.BinaryPath != "" {
		opts.ExecutablePath = playwright.String(c.BinaryPath)
	}
	if c.HideAutomation {
		opts.IgnoreDefaultArgs = []string{"--enable-automation"}
	}
	return opts
}
