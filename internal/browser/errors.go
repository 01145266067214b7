package browser

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrTimeout         = errors.New("wait timed out")
	ErrSessionReleased = errors.New("browser session released")
)

// ProfileLockError reports that the browser refused a profile directory
// because another process holds it.
type ProfileLockError struct {
	Dir string
	Err error
}

func (e *ProfileLockError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("profile directory %s is locked: %v", e.Dir, e.Err)
	}
	return fmt.Sprintf("profile directory %s is locked", e.Dir)
}

func (e *ProfileLockError) Unwrap() error {
	return e.Err
}

// LaunchError carries the driver location used by a failed launch.
type LaunchError struct {
	DriverPath string
	Err        error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch browser: %v", e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// ProvisioningError is returned when no session could be started.
type ProvisioningError struct {
	Err        error
	BinaryPath string
	DriverPath string
	Candidates []Candidate
	Attempts   int
}

func (e *ProvisioningError) Error() string {
	return fmt.Sprintf("provision browser (%d attempt(s)): %v", e.Attempts, e.Err)
}

func (e *ProvisioningError) Unwrap() error {
	return e.Err
}

// IsProfileLock reports whether err was caused by a locked profile directory.
func IsProfileLock(err error) bool {
	var lockErr *ProfileLockError
	return errors.As(err, &lockErr)
}

// Chromium reports a held user data dir with one of these messages depending
// on version and platform.
var profileLockMessages = []string{
	"user data directory is already in use",
	"profile appears to be in use",
	"processsingleton",
	"singletonlock",
}

// classifyLaunchError turns the driver's textual launch failure into a typed
// error so callers never inspect messages themselves.
func classifyLaunchError(dir string, err error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	for _, m := range profileLockMessages {
		if strings.Contains(msg, m) {
			return &ProfileLockError{Dir: dir, Err: err}
		}
	}
	return err
}
