// Package browsertest provides in-memory stand-ins for browser sessions.
package browsertest

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"go-linkedin-scraper/internal/browser"
)

// Card is one result card and the detail pane it opens when clicked.
type Card struct {
	URL      string
	Text     map[string]string
	HTML     map[string]string
	Err      map[string]error
	ClickErr error
}

// Page is a scripted browser.Page. Waits never block: a selector listed in
// Present is ready, anything else times out at once.
type Page struct {
	mu sync.Mutex

	CurrentURL   string
	PageTitle    string
	Present      map[string]bool
	Texts        map[string]string
	CardSelector string
	Cards        []Card

	// Redirects rewrites the URL after Goto, e.g. a session ending on an authwall.
	Redirects map[string]string
	GotoErr   map[string]error
	ClickErr  map[string]error
	OnClick   map[string]func(p *Page)

	Visits      []string
	Filled      map[string]string
	Clicked     []string
	Screenshots []string

	selected int
}

func NewPage() *Page {
	return &Page{
		Present:  map[string]bool{},
		Texts:    map[string]string{},
		Filled:   map[string]string{},
		selected: -1,
	}
}

func (p *Page) Goto(url string, _ time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Visits = append(p.Visits, url)
	if err := p.GotoErr[url]; err != nil {
		return err
	}
	p.CurrentURL = url
	if to, ok := p.Redirects[url]; ok {
		p.CurrentURL = to
	}
	return nil
}

func (p *Page) WaitFor(selector string, timeout time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.present(selector) {
		return nil
	}
	return fmt.Errorf("%w: %s not visible after %s", browser.ErrTimeout, selector, timeout)
}

func (p *Page) Fill(selector, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.present(selector) {
		return fmt.Errorf("fill %s: no such element", selector)
	}
	p.Filled[selector] = value
	return nil
}

func (p *Page) Click(selector string) error {
	p.mu.Lock()
	p.Clicked = append(p.Clicked, selector)
	if err := p.ClickErr[selector]; err != nil {
		p.mu.Unlock()
		return err
	}
	hook := p.OnClick[selector]
	p.mu.Unlock()
	if hook != nil {
		hook(p)
	}
	return nil
}

func (p *Page) ClickNth(selector string, index int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Clicked = append(p.Clicked, fmt.Sprintf("%s[%d]", selector, index))
	if selector != p.CardSelector || index < 0 || index >= len(p.Cards) {
		return fmt.Errorf("click %s[%d]: no such element", selector, index)
	}
	card := p.Cards[index]
	if card.ClickErr != nil {
		return card.ClickErr
	}
	p.selected = index
	if card.URL != "" {
		p.CurrentURL = card.URL
	}
	return nil
}

func (p *Page) Visible(selector string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.present(selector)
}

func (p *Page) Count(selector string) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if selector == p.CardSelector && p.CardSelector != "" {
		return len(p.Cards), nil
	}
	if p.present(selector) {
		return 1, nil
	}
	return 0, nil
}

func (p *Page) Text(selector string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if card := p.card(); card != nil {
		if err := card.Err[selector]; err != nil {
			return "", err
		}
		if text, ok := card.Text[selector]; ok {
			return text, nil
		}
	}
	if text, ok := p.Texts[selector]; ok {
		return text, nil
	}
	return "", fmt.Errorf("%w: %s not found", browser.ErrTimeout, selector)
}

func (p *Page) HTML(selector string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if card := p.card(); card != nil {
		if html, ok := card.HTML[selector]; ok {
			return html, nil
		}
	}
	return "", fmt.Errorf("%w: %s not found", browser.ErrTimeout, selector)
}

func (p *Page) URL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.CurrentURL
}

func (p *Page) Title() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.PageTitle
}

func (p *Page) Screenshot(path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Screenshots = append(p.Screenshots, path)
	return nil
}

// SetURL simulates a client-side navigation.
func (p *Page) SetURL(url string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.CurrentURL = url
}

// Show marks selectors as present and visible.
func (p *Page) Show(selectors ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, s := range selectors {
		p.Present[s] = true
	}
}

func (p *Page) present(selector string) bool {
	if p.Present[selector] {
		return true
	}
	if card := p.card(); card != nil {
		if _, ok := card.Text[selector]; ok {
			return true
		}
	}
	return false
}

func (p *Page) card() *Card {
	if p.selected < 0 || p.selected >= len(p.Cards) {
		return nil
	}
	return &p.Cards[p.selected]
}

// Process is a fake browser process handing out one Page.
type Process struct {
	mu       sync.Mutex
	Page     browser.Page
	PageErr  error
	CloseErr error
	Closed   int
}

func (p *Process) NewPage() (browser.Page, error) {
	if p.PageErr != nil {
		return nil, p.PageErr
	}
	if p.Page == nil {
		p.Page = NewPage()
	}
	return p.Page, nil
}

func (p *Process) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Closed++
	return p.CloseErr
}

// Launcher fails its first len(Errs) launches with the listed errors
// (nil entries succeed) and then returns NewProcess().
type Launcher struct {
	mu         sync.Mutex
	Errs       []error
	NewProcess func() *Process
	Dirs       []string
	Processes  []*Process
}

func (l *Launcher) Launch(_ context.Context, _ browser.SessionConfig, profileDir string) (browser.Process, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	attempt := len(l.Dirs)
	l.Dirs = append(l.Dirs, profileDir)

	if _, err := os.Stat(profileDir); err != nil {
		return nil, fmt.Errorf("profile directory missing: %w", err)
	}
	if attempt < len(l.Errs) && l.Errs[attempt] != nil {
		return nil, l.Errs[attempt]
	}

	proc := &Process{}
	if l.NewProcess != nil {
		proc = l.NewProcess()
	}
	l.Processes = append(l.Processes, proc)
	return proc, nil
}

func (l *Launcher) Attempts() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.Dirs)
}

// Tracker records allocate/release calls.
type Tracker struct {
	mu        sync.Mutex
	allocated map[browser.ResourceKind][]string
	released  map[browser.ResourceKind][]string
	Failures  []error
}

func NewTracker() *Tracker {
	return &Tracker{
		allocated: map[browser.ResourceKind][]string{},
		released:  map[browser.ResourceKind][]string{},
	}
}

func (t *Tracker) Allocated(kind browser.ResourceKind, id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.allocated[kind] = append(t.allocated[kind], id)
}

func (t *Tracker) Released(kind browser.ResourceKind, id string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.released[kind] = append(t.released[kind], id)
	if err != nil {
		t.Failures = append(t.Failures, err)
	}
}

func (t *Tracker) Allocations(kind browser.ResourceKind) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.allocated[kind]...)
}

func (t *Tracker) Releases(kind browser.ResourceKind) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.released[kind]...)
}

// Balanced returns an error naming the first kind whose allocations and
// releases differ.
func (t *Tracker) Balanced() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, kind := range []browser.ResourceKind{browser.ResourceProcess, browser.ResourceProfileDir} {
		if a, r := len(t.allocated[kind]), len(t.released[kind]); a != r {
			return fmt.Errorf("%s: %d allocated, %d released", kind, a, r)
		}
	}
	return nil
}
