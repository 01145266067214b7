package browser_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-linkedin-scraper/internal/browser"
	"go-linkedin-scraper/internal/browser/browsertest"
)

const loginHTML = `<!doctype html>
<html><head><title>Sign In</title></head>
<body>
<form onsubmit="event.preventDefault(); document.getElementById('nav').style.display='block'; history.pushState({}, '', '/feed/');">
  <input id="username"><input id="password" type="password">
  <button type="submit">Sign in</button>
</form>
<div id="nav" style="display:none"><input id="global-nav-search"></div>
<p id="webdriver"></p>
<script>document.getElementById('webdriver').innerText = String(navigator.webdriver);</script>
</body></html>`

// Launches a real Chromium through Playwright. Set PLAYWRIGHT_IT=1 to run.
func TestPlaywrightLauncher_Integration(t *testing.T) {
	if testing.Short() || os.Getenv("PLAYWRIGHT_IT") == "" {
		t.Skip("set PLAYWRIGHT_IT=1 to run against a real browser")
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, loginHTML)
	}))
	defer srv.Close()

	tracker := browsertest.NewTracker()
	launcher := browser.NewPlaywrightLauncher(os.Getenv("PLAYWRIGHT_DRIVER_PATH"), nil)
	p := browser.NewProvisioner(browser.DefaultSessionConfig(), os.Getenv("CHROME_BIN"), launcher, tracker)
	p.ProfileRoot = t.TempDir()

	sess, err := p.Provision(context.Background())
	require.NoError(t, err)
	defer sess.Release()

	page, err := sess.Page()
	require.NoError(t, err)

	require.NoError(t, page.Goto(srv.URL+"/login", 20*time.Second))
	require.NoError(t, page.WaitFor("#username", 5*time.Second))
	assert.Equal(t, "Sign In", page.Title())
	assert.False(t, page.Visible("#global-nav-search"))

	text, err := page.Text("#webdriver")
	require.NoError(t, err)
	assert.NotEqual(t, "true", text, "automation flag must be hidden")

	require.NoError(t, page.Fill("#username", "me@example.com"))
	require.NoError(t, page.Fill("#password", "pw"))
	require.NoError(t, page.Click("button[type='submit']"))

	err = browser.WaitUntil(context.Background(), 5*time.Second, 100*time.Millisecond, func() bool {
		return page.Visible("#global-nav-search")
	})
	require.NoError(t, err)
	assert.Contains(t, page.URL(), "/feed/")

	err = page.WaitFor(".jobs-search-no-results-banner", 300*time.Millisecond)
	assert.True(t, errors.Is(err, browser.ErrTimeout), "missing elements time out with ErrTimeout, got %v", err)

	sess.Release()
	assert.NoDirExists(t, sess.ProfileDir)
	assert.NoError(t, tracker.Balanced())
}
