package browser

import "os"

// DefaultBinaryCandidates are probed in order when no override is usable.
var DefaultBinaryCandidates = []string{
	"/usr/bin/google-chrome-stable",
	"/usr/bin/google-chrome",
	"/usr/bin/chromium",
	"/usr/bin/chromium-browser",
}

// Candidate records one probed browser binary location.
type Candidate struct {
	Path   string `json:"path"`
	Exists bool   `json:"exists"`
}

// ResolveBinary picks the browser executable. A non-existent override is
// recorded and ignored, then candidates are checked in order and the first
// existing one wins. An empty result means the driver's bundled browser.
func ResolveBinary(override string, candidates []string, exists func(string) bool) (string, []Candidate) {
	if exists == nil {
		exists = fileExists
	}

	var checked []Candidate
	if override != "" {
		ok := exists(override)
		checked = append(checked, Candidate{Path: override, Exists: ok})
		if ok {
			return override, checked
		}
	}

	for _, path := range candidates {
		ok := exists(path)
		checked = append(checked, Candidate{Path: path, Exists: ok})
		if ok {
			return path, checked
		}
	}
	return "", checked
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
