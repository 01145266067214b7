package scraper

import "fmt"

// LoginFormTimeoutError means the login page never showed its credential fields.
type LoginFormTimeoutError struct {
	URL string
}

func (e *LoginFormTimeoutError) Error() string {
	return fmt.Sprintf("login form did not appear (url %s)", e.URL)
}

// PostLoginTimeoutError means the credentials were submitted but no
// authenticated page followed, usually a security challenge.
type PostLoginTimeoutError struct {
	URL   string
	Title string
}

func (e *PostLoginTimeoutError) Error() string {
	return fmt.Sprintf("no authenticated page after login, possible security challenge (url %s, title %q)", e.URL, e.Title)
}

// ReauthRequiredError means the session was sent back to a login wall after
// it had authenticated.
type ReauthRequiredError struct {
	URL string
}

func (e *ReauthRequiredError) Error() string {
	return fmt.Sprintf("session asked to authenticate again (url %s)", e.URL)
}

// NavigationError is a page load that failed outright.
type NavigationError struct {
	Stage string
	URL   string
	Err   error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("%s: navigate to %s: %v", e.Stage, e.URL, e.Err)
}

func (e *NavigationError) Unwrap() error {
	return e.Err
}

// ExtractionItemError is a failure confined to one result card.
type ExtractionItemError struct {
	Index int
	Err   error
}

func (e *ExtractionItemError) Error() string {
	return fmt.Sprintf("card %d: %v", e.Index, e.Err)
}

func (e *ExtractionItemError) Unwrap() error {
	return e.Err
}
