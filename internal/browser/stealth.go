package browser

import "time"

// stealthScript runs before any page script and hides the usual automation
// fingerprints.
const stealthScript = `
Object.defineProperty(navigator, 'webdriver', { get: () => undefined, configurable: true });
Object.defineProperty(navigator, 'languages', { get: () => ['en-US', 'en'], configurable: true });
Object.defineProperty(navigator, 'plugins', { get: () => [1, 2, 3, 4, 5], configurable: true });
window.chrome = window.chrome || { runtime: {} };
const originalQuery = window.navigator.permissions && window.navigator.permissions.query;
if (originalQuery) {
	window.navigator.permissions.query = (parameters) => (
		parameters.name === 'notifications'
			? Promise.resolve({ state: Notification.permission })
			: originalQuery(parameters)
	);
}
`

var blockedResourceTypes = map[string]bool{
	"image": true,
	"media": true,
	"font":  true,
}

func blockedResource(resourceType string) bool {
	return blockedResourceTypes[resourceType]
}

// Settle pauses after a UI interaction whose rendering has no reliable
// readiness signal. It is the only fixed sleep in a session.
func Settle(d time.Duration) {
	if d <= 0 {
		return
	}
	time.Sleep(d)
}
