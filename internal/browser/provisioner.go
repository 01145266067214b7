package browser

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
)

// Launcher starts a browser bound to profileDir.
type Launcher interface {
	Launch(ctx context.Context, cfg SessionConfig, profileDir string) (Process, error)
}

// Provisioner turns a SessionConfig into a live Session.
type Provisioner struct {
	Config         SessionConfig
	BinaryOverride string
	Candidates     []string
	Launcher       Launcher
	Tracker        Tracker
	// ProfileRoot is where profile directories are created; empty means os.TempDir.
	ProfileRoot string

	exists    func(string) bool
	mkdirTemp func(dir, pattern string) (string, error)
	removeAll func(string) error
}

func NewProvisioner(cfg SessionConfig, binaryOverride string, launcher Launcher, tracker Tracker) *Provisioner {
	return &Provisioner{
		Config:         cfg,
		BinaryOverride: binaryOverride,
		Candidates:     DefaultBinaryCandidates,
		Launcher:       launcher,
		Tracker:        tracker,
	}
}

// Provision starts a browser with a fresh profile directory. A profile lock
// conflict on the first launch is retried once with a new directory; any
// other failure is returned as a *ProvisioningError with nothing left behind.
func (p *Provisioner) Provision(ctx context.Context) (*Session, error) {
	tracker := p.tracker()
	binary, checked := ResolveBinary(p.BinaryOverride, p.Candidates, p.exists)
	cfg := p.Config.WithBinary(binary)
	if binary != "" {
		log.Printf("🌐 Using browser binary %s", binary)
	} else {
		log.Printf("🌐 No system browser found (%d checked), using bundled Chromium", len(checked))
	}

	fail := func(err error, attempts int) (*Session, error) {
		perr := &ProvisioningError{
			Err:        err,
			BinaryPath: binary,
			Candidates: checked,
			Attempts:   attempts,
		}
		var launchErr *LaunchError
		if errors.As(err, &launchErr) {
			perr.DriverPath = launchErr.DriverPath
		}
		log.Printf("❌ Browser provisioning failed: %v", perr)
		return nil, perr
	}

	const maxAttempts = 2
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return fail(err, attempt-1)
		}

		id := uuid.NewString()
		dir, err := p.mkdir(id)
		if err != nil {
			return fail(fmt.Errorf("create profile directory: %w", err), attempt)
		}
		tracker.Allocated(ResourceProfileDir, dir)

		proc, err := p.Launcher.Launch(ctx, cfg, dir)
		if err == nil {
			tracker.Allocated(ResourceProcess, id)
			sess := &Session{
				ID:         id,
				ProfileDir: dir,
				BinaryPath: binary,
				proc:       proc,
				tracker:    tracker,
				removeAll:  p.removeAll,
			}
			if dp, ok := proc.(interface{ DriverPath() string }); ok {
				sess.DriverPath = dp.DriverPath()
			}
			log.Printf("🚀 [%s] Browser started (profile %s)", id, dir)
			return sess, nil
		}

		rmErr := removeProfile(p.removeAll, dir)
		tracker.Released(ResourceProfileDir, dir, rmErr)

		if attempt < maxAttempts && IsProfileLock(err) {
			log.Printf("⚠️ Profile directory locked, retrying with a new one: %v", err)
			continue
		}
		return fail(err, attempt)
	}
	// unreachable: the last attempt always returns
	return fail(errors.New("no launch attempts made"), maxAttempts)
}

func (p *Provisioner) tracker() Tracker {
	if p.Tracker == nil {
		return nopTracker{}
	}
	return p.Tracker
}

func (p *Provisioner) mkdir(id string) (string, error) {
	mkdirTemp := p.mkdirTemp
	if mkdirTemp == nil {
		mkdirTemp = os.MkdirTemp
	}
	return mkdirTemp(p.ProfileRoot, "chrome-profile-"+id[:8]+"-")
}
