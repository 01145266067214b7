package browser

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"
)

// DefaultCloseTimeout bounds a browser shutdown step.
const DefaultCloseTimeout = 10 * time.Second

// ResourceKind names what a session allocates on the host.
type ResourceKind string

const (
	ResourceProcess    ResourceKind = "process"
	ResourceProfileDir ResourceKind = "profile_dir"
)

// Tracker observes host resource allocation. Released is called once per
// Allocated, with the cleanup error if cleanup failed.
type Tracker interface {
	Allocated(kind ResourceKind, id string)
	Released(kind ResourceKind, id string, err error)
}

type nopTracker struct{}

func (nopTracker) Allocated(ResourceKind, string)       {}
func (nopTracker) Released(ResourceKind, string, error) {}

// Process is a running browser together with its driver.
type Process interface {
	NewPage() (Page, error)
	Close() error
}

// Session owns exactly one browser process and one temporary profile
// directory. Release tears both down and is safe to call repeatedly.
type Session struct {
	ID         string
	ProfileDir string
	BinaryPath string
	DriverPath string

	proc      Process
	tracker   Tracker
	removeAll func(string) error

	mu       sync.Mutex
	page     Page
	released bool
	once     sync.Once
}

// Page returns the session's tab, opening it on first use.
func (s *Session) Page() (Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return nil, ErrSessionReleased
	}
	if s.page != nil {
		return s.page, nil
	}
	page, err := s.proc.NewPage()
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	s.page = page
	return page, nil
}

// Release terminates the browser and removes the profile directory. Both
// steps run even if the other fails; failures are logged, never returned.
func (s *Session) Release() {
	s.once.Do(func() {
		s.mu.Lock()
		s.released = true
		s.page = nil
		s.mu.Unlock()

		closeErr := guarded(s.proc.Close)
		if closeErr != nil {
			log.Printf("⚠️ [%s] Browser shutdown failed: %v", s.ID, closeErr)
		}
		s.tracker.Released(ResourceProcess, s.ID, closeErr)

		rmErr := removeProfile(s.removeAll, s.ProfileDir)
		if rmErr != nil {
			log.Printf("⚠️ [%s] Could not remove profile %s: %v", s.ID, s.ProfileDir, rmErr)
		}
		s.tracker.Released(ResourceProfileDir, s.ProfileDir, rmErr)

		log.Printf("🧹 [%s] Session released", s.ID)
	})
}

func removeProfile(removeAll func(string) error, dir string) error {
	if removeAll == nil {
		removeAll = os.RemoveAll
	}
	return guarded(func() error { return removeAll(dir) })
}

// guarded runs fn and converts a panic into an error so teardown keeps going.
func guarded(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}

// closeWithin runs fn and gives up waiting after timeout. fn keeps running in
// the background when it overruns; a non-positive timeout waits forever.
func closeWithin(timeout time.Duration, fn func() error) error {
	if timeout <= 0 {
		return guarded(fn)
	}
	done := make(chan error, 1)
	go func() { done <- guarded(fn) }()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case err := <-done:
		return err
	case <-timer.C:
		return fmt.Errorf("%w: close did not finish within %s", ErrTimeout, timeout)
	}
}
