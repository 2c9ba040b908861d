package config

import (
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
)

func TestDefaultsAreSane(t *testing.T) {
	cfg := Default()
	if cfg.Display.Theme != "light" {
		t.Errorf("theme = %q", cfg.Display.Theme)
	}
	if cfg.Fetcher.TimeoutSeconds != 30 {
		t.Errorf("timeout = %d", cfg.Fetcher.TimeoutSeconds)
	}
	if cfg.Keybindings.Quit != "q" || cfg.Keybindings.Activate != "\r" {
		t.Errorf("keybindings = %+v", cfg.Keybindings)
	}
}

func TestMergeOverridesOnlySetFields(t *testing.T) {
	user := &Config{}
	user.Display.Theme = "gruvbox-dark"
	user.Keybindings.Quit = "Q"
	user.Fetcher.TimeoutSeconds = 5

	got := merge(Default(), user)
	if got.Display.Theme != "gruvbox-dark" {
		t.Errorf("theme = %q", got.Display.Theme)
	}
	if got.Keybindings.Quit != "Q" {
		t.Errorf("quit = %q", got.Keybindings.Quit)
	}
	if got.Fetcher.TimeoutSeconds != 5 {
		t.Errorf("timeout = %d", got.Fetcher.TimeoutSeconds)
	}
	// Untouched fields keep defaults.
	if got.Keybindings.ScrollDown != "j" {
		t.Errorf("scrollDown = %q", got.Keybindings.ScrollDown)
	}
	if got.Fetcher.UserAgent == "" {
		t.Error("user agent lost in merge")
	}
}

func TestDefaultTOMLParses(t *testing.T) {
	var cfg Config
	if _, err := toml.Decode(DefaultTOML(), &cfg); err != nil {
		t.Fatalf("default TOML does not parse: %v", err)
	}
	if cfg.Display.Theme != "light" {
		t.Errorf("theme = %q", cfg.Display.Theme)
	}
	if cfg.Keybindings.NextLink != "\t" {
		t.Errorf("nextLink = %q", cfg.Keybindings.NextLink)
	}
	if cfg.Keybindings.PrevLink != "\x1b[Z" {
		t.Errorf("prevLink = %q", cfg.Keybindings.PrevLink)
	}
	if !strings.Contains(DefaultTOML(), "[keybindings]") {
		t.Error("missing keybindings section")
	}
}

func TestMatchSingle(t *testing.T) {
	if !MatchSingle('q', "q") {
		t.Error("q should match")
	}
	if MatchSingle('q', "Q") || MatchSingle('q', "") || MatchSingle('q', "qq") {
		t.Error("false positives")
	}
}

func TestMatchSequence(t *testing.T) {
	if !MatchSequence("\x1b[Z", "\x1b[Z") {
		t.Error("escape sequence should match")
	}
	if MatchSequence("", "") {
		t.Error("empty binding must never match")
	}
}
