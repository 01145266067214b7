package browser

// Test hooks for the external browser_test package.

func SetRemoveAll(p *Provisioner, fn func(string) error) {
	p.removeAll = fn
}

var ClassifyLaunchError = classifyLaunchError

func LaunchArgs(cfg SessionConfig) []string {
	opts := cfg.launchOptions()
	return opts.Args
}
var CloseWithin = closeWithin
