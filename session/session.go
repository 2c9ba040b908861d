// Package session tracks navigation history and persists it between
// runs.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"toad/page"
)

// Entry is one visited page. The built page stays in memory so going
// back is instant; only URL and scroll persist to disk.
type Entry struct {
	URL    string     `json:"url"`
	Scroll int        `json:"scroll"`
	Page   *page.Page `json:"-"`
}

// History is a back/current/forward stack of entries.
type History struct {
	Back    []Entry `json:"back"`
	Current *Entry  `json:"current"`
	Forward []Entry `json:"forward"`
}

// Loader builds a page from a URL. Implemented by the main fetch
// pipeline; tests substitute their own.
type Loader func(rawURL string) (*page.Page, error)

// Navigator drives history through a Loader. A failed load never
// disturbs the current entry: the old page stays up and the error goes
// to the caller.
type Navigator struct {
	History History
	Load    Loader
}

// Go navigates to rawURL. On success the current entry moves to the
// back stack and the forward stack clears.
func (n *Navigator) Go(rawURL string) (*page.Page, error) {
	p, err := n.Load(rawURL)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", rawURL, err)
	}
	if n.History.Current != nil {
		n.History.Back = append(n.History.Back, *n.History.Current)
	}
	n.History.Current = &Entry{URL: rawURL, Page: p}
	n.History.Forward = nil
	return p, nil
}

// Back moves one entry backward, pushing the current page onto the
// forward stack. Entries whose page was never built (a restored
// session) reload through the Loader.
func (n *Navigator) Back() (*page.Page, error) {
	if len(n.History.Back) == 0 {
		return nil, fmt.Errorf("history: nothing to go back to")
	}
	prev := n.History.Back[len(n.History.Back)-1]
	if prev.Page == nil {
		p, err := n.Load(prev.URL)
		if err != nil {
			return nil, fmt.Errorf("reloading %s: %w", prev.URL, err)
		}
		prev.Page = p
	}
	n.History.Back = n.History.Back[:len(n.History.Back)-1]
	if n.History.Current != nil {
		n.History.Forward = append(n.History.Forward, *n.History.Current)
	}
	n.History.Current = &prev
	return prev.Page, nil
}

// Forward moves one entry forward.
func (n *Navigator) Forward() (*page.Page, error) {
	if len(n.History.Forward) == 0 {
		return nil, fmt.Errorf("history: nothing to go forward to")
	}
	next := n.History.Forward[len(n.History.Forward)-1]
	if next.Page == nil {
		p, err := n.Load(next.URL)
		if err != nil {
			return nil, fmt.Errorf("reloading %s: %w", next.URL, err)
		}
		next.Page = p
	}
	n.History.Forward = n.History.Forward[:len(n.History.Forward)-1]
	if n.History.Current != nil {
		n.History.Back = append(n.History.Back, *n.History.Current)
	}
	n.History.Current = &next
	return next.Page, nil
}

// Reload rebuilds the current page through the Loader, keeping its
// history position. Scroll resets only on success.
func (n *Navigator) Reload() (*page.Page, error) {
	if n.History.Current == nil {
		return nil, fmt.Errorf("history: no page to reload")
	}
	p, err := n.Load(n.History.Current.URL)
	if err != nil {
		return nil, fmt.Errorf("reloading %s: %w", n.History.Current.URL, err)
	}
	n.History.Current.Page = p
	n.History.Current.Scroll = 0
	return p, nil
}

// CurrentPage returns the page on display, or nil before the first
// navigation.
func (n *Navigator) CurrentPage() *page.Page {
	if n.History.Current == nil {
		return nil
	}
	return n.History.Current.Page
}

// Path returns the session file location.
func Path() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "toad", "session.json"), nil
}

// Load reads the persisted history from disk.
func Load() (*History, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var h History
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// Save writes the history to disk. Pages themselves never persist;
// restored entries reload on demand.
func Save(h *History) error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clear removes the session file.
func Clear() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return os.Remove(path)
}
