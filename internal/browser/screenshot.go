package browser

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

// ScreenshotDebugger saves full-page screenshots when a session gets stuck,
// e.g. on a security challenge. A nil debugger does nothing.
type ScreenshotDebugger struct {
	outputDir string
	now       func() time.Time
}

// NewScreenshotDebugger returns nil when dir is empty.
func NewScreenshotDebugger(dir string) *ScreenshotDebugger {
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Printf("⚠️ Screenshots disabled, cannot create %s: %v", dir, err)
		return nil
	}
	return &ScreenshotDebugger{outputDir: dir, now: time.Now}
}

func (s *ScreenshotDebugger) CaptureAndLog(page Page, name, message string) (string, error) {
	if s == nil || page == nil {
		return "", nil
	}
	log.Printf("📸 %s", message)

	filename := fmt.Sprintf("%s_%s.png", name, s.now().Format("2006-01-02_15-04-05"))
	path := filepath.Join(s.outputDir, filename)
	if err := page.Screenshot(path); err != nil {
		log.Printf("⚠️ Failed to capture screenshot: %v", err)
		return "", err
	}

	log.Printf("   Screenshot saved: %s", path)
	return path, nil
}
