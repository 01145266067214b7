package browser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go-linkedin-scraper/internal/browser"
)

func TestResolveBinary(t *testing.T) {
	installed := func(paths ...string) func(string) bool {
		set := map[string]bool{}
		for _, p := range paths {
			set[p] = true
		}
		return func(p string) bool { return set[p] }
	}

	tests := []struct {
		name     string
		override string
		exists   func(string) bool
		want     string
		checked  int
	}{
		{
			name:     "override wins when present",
			override: "/opt/chrome",
			exists:   installed("/opt/chrome", "/usr/bin/chromium"),
			want:     "/opt/chrome",
			checked:  1,
		},
		{
			name:     "missing override is recorded then skipped",
			override: "/opt/chrome",
			exists:   installed("/usr/bin/chromium"),
			want:     "/usr/bin/chromium",
			checked:  4,
		},
		{
			name:    "first candidate in order wins",
			exists:  installed("/usr/bin/google-chrome", "/usr/bin/chromium"),
			want:    "/usr/bin/google-chrome",
			checked: 2,
		},
		{
			name:    "nothing installed",
			exists:  installed(),
			want:    "",
			checked: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, checked := browser.ResolveBinary(tt.override, browser.DefaultBinaryCandidates, tt.exists)
			assert.Equal(t, tt.want, got)
			assert.Len(t, checked, tt.checked)
			if tt.override != "" {
				assert.Equal(t, tt.override, checked[0].Path)
			}
		})
	}
}

func TestClassifyLaunchError(t *testing.T) {
	locked := browser.ClassifyLaunchError("/tmp/p", launchFailure("Failed to create a ProcessSingleton for your profile directory"))
	assert.True(t, browser.IsProfileLock(locked))

	inUse := browser.ClassifyLaunchError("/tmp/p", launchFailure("The user data directory is already in use, please specify a unique value"))
	assert.True(t, browser.IsProfileLock(inUse))

	other := browser.ClassifyLaunchError("/tmp/p", launchFailure("Executable doesn't exist at /ms-playwright/chromium"))
	assert.False(t, browser.IsProfileLock(other))

	assert.NoError(t, browser.ClassifyLaunchError("/tmp/p", nil))
}

type launchFailure string

func (e launchFailure) Error() string { return string(e) }

func TestSessionConfigArgs(t *testing.T) {
	cfg := browser.DefaultSessionConfig()
	args := browser.LaunchArgs(cfg)

	assert.Contains(t, args, "--no-sandbox")
	assert.Contains(t, args, "--disable-dev-shm-usage")
	assert.Contains(t, args, "--disable-gpu")
	assert.Contains(t, args, "--window-size=1920,1080")
	assert.Contains(t, args, "--disable-blink-features=AutomationControlled")
	assert.Contains(t, args, "--blink-settings=imagesEnabled=false")

	cfg.BlockImages = false
	cfg.HideAutomation = false
	args = browser.LaunchArgs(cfg)
	assert.NotContains(t, args, "--blink-settings=imagesEnabled=false")
	assert.NotContains(t, args, "--disable-blink-features=AutomationControlled")
}

func TestSessionConfigWithBinaryCopies(t *testing.T) {
	base := browser.DefaultSessionConfig()
	withBin := base.WithBinary("/usr/bin/chromium")

	assert.Empty(t, base.BinaryPath)
	assert.Equal(t, "/usr/bin/chromium", withBin.BinaryPath)
}
