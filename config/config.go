// Package config provides configuration loading for toad using TOML.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Display settings
type Display struct {
	Theme                string `toml:"theme"`
	ImagesEnabled        bool   `toml:"imagesEnabled"`
	ShowScrollPercentage bool   `toml:"showScrollPercentage"`
	ShowUrl              bool   `toml:"showUrl"`
}

// HTTP fetching settings
type Fetcher struct {
	UserAgent      string `toml:"userAgent"`
	TimeoutSeconds int    `toml:"timeoutSeconds"`
}

// Rendering settings
type Rendering struct {
	DefaultWidth int `toml:"defaultWidth"` // width when piping output
}

// Session settings
type Session struct {
	RestoreSession bool `toml:"restoreSession"`
}

// Logging settings
type Logging struct {
	Path  string `toml:"path"` // empty = default cache location
	Debug bool   `toml:"debug"`
}

// Keybindings configuration
type Keybindings struct {
	// Navigation
	Quit         string `toml:"quit"`
	ScrollDown   string `toml:"scrollDown"`
	ScrollUp     string `toml:"scrollUp"`
	HalfPageDown string `toml:"halfPageDown"`
	HalfPageUp   string `toml:"halfPageUp"`
	GoTop        string `toml:"goTop"`
	GoBottom     string `toml:"goBottom"`

	// Focus
	NextLink string `toml:"nextLink"`
	PrevLink string `toml:"prevLink"`
	Activate string `toml:"activate"`

	// Actions
	OpenUrl string `toml:"openUrl"`
	Refresh string `toml:"refresh"`

	// History
	Back    string `toml:"back"`
	Forward string `toml:"forward"`

	// Other
	Home         string `toml:"home"`
	ToggleTheme  string `toml:"toggleTheme"`
	ToggleImages string `toml:"toggleImages"`
}

// Config is the main configuration struct
type Config struct {
	Display     Display     `toml:"display"`
	Fetcher     Fetcher     `toml:"fetcher"`
	Rendering   Rendering   `toml:"rendering"`
	Session     Session     `toml:"session"`
	Logging     Logging     `toml:"logging"`
	Keybindings Keybindings `toml:"keybindings"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Display: Display{
			Theme:                "light",
			ImagesEnabled:        true,
			ShowScrollPercentage: true,
			ShowUrl:              true,
		},
		Fetcher: Fetcher{
			UserAgent:      "Mozilla/5.0 (compatible; toad/1.0)",
			TimeoutSeconds: 30,
		},
		Rendering: Rendering{
			DefaultWidth: 80,
		},
		Session: Session{
			RestoreSession: true,
		},
		Keybindings: Keybindings{
			Quit:         "q",
			ScrollDown:   "j",
			ScrollUp:     "k",
			HalfPageDown: "d",
			HalfPageUp:   "u",
			GoTop:        "g",
			GoBottom:     "G",
			NextLink:     "\t",
			PrevLink:     "\x1b[Z", // Shift-Tab
			Activate:     "\r",
			OpenUrl:      "o",
			Refresh:      "r",
			Back:         "b",
			Forward:      "f",
			Home:         "H",
			ToggleTheme:  "z",
			ToggleImages: "I",
		},
	}
}

// configDir returns the configuration directory path.
func configDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "toad"), nil
}

// ConfigPath returns the path to the user's config file.
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load loads configuration, layering user config on top of defaults.
// Returns the default config if no user config exists.
func Load() (*Config, error) {
	cfg := Default()

	configPath, err := ConfigPath()
	if err != nil {
		return cfg, nil
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	userCfg, err := loadFromTOML(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
	}
	return merge(cfg, userCfg), nil
}

// loadFromTOML loads a TOML config file and returns the config.
func loadFromTOML(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config TOML: %w", err)
	}
	return &cfg, nil
}

// merge layers user config on top of defaults. Only non-zero values
// from user config override defaults.
func merge(defaults, user *Config) *Config {
	result := *defaults

	if user.Display.Theme != "" {
		result.Display.Theme = user.Display.Theme
	}

	if user.Fetcher.UserAgent != "" {
		result.Fetcher.UserAgent = user.Fetcher.UserAgent
	}
	if user.Fetcher.TimeoutSeconds != 0 {
		result.Fetcher.TimeoutSeconds = user.Fetcher.TimeoutSeconds
	}

	if user.Rendering.DefaultWidth != 0 {
		result.Rendering.DefaultWidth = user.Rendering.DefaultWidth
	}

	if user.Logging.Path != "" {
		result.Logging.Path = user.Logging.Path
	}
	if user.Logging.Debug {
		result.Logging.Debug = true
	}

	mergeKeybinding(&result.Keybindings.Quit, user.Keybindings.Quit)
	mergeKeybinding(&result.Keybindings.ScrollDown, user.Keybindings.ScrollDown)
	mergeKeybinding(&result.Keybindings.ScrollUp, user.Keybindings.ScrollUp)
	mergeKeybinding(&result.Keybindings.HalfPageDown, user.Keybindings.HalfPageDown)
	mergeKeybinding(&result.Keybindings.HalfPageUp, user.Keybindings.HalfPageUp)
	mergeKeybinding(&result.Keybindings.GoTop, user.Keybindings.GoTop)
	mergeKeybinding(&result.Keybindings.GoBottom, user.Keybindings.GoBottom)
	mergeKeybinding(&result.Keybindings.NextLink, user.Keybindings.NextLink)
	mergeKeybinding(&result.Keybindings.PrevLink, user.Keybindings.PrevLink)
	mergeKeybinding(&result.Keybindings.Activate, user.Keybindings.Activate)
	mergeKeybinding(&result.Keybindings.OpenUrl, user.Keybindings.OpenUrl)
	mergeKeybinding(&result.Keybindings.Refresh, user.Keybindings.Refresh)
	mergeKeybinding(&result.Keybindings.Back, user.Keybindings.Back)
	mergeKeybinding(&result.Keybindings.Forward, user.Keybindings.Forward)
	mergeKeybinding(&result.Keybindings.Home, user.Keybindings.Home)
	mergeKeybinding(&result.Keybindings.ToggleTheme, user.Keybindings.ToggleTheme)
	mergeKeybinding(&result.Keybindings.ToggleImages, user.Keybindings.ToggleImages)

	return &result
}

func mergeKeybinding(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

// DefaultTOML returns the default configuration as a TOML string.
// Used for --init-config to generate a user config file.
func DefaultTOML() string {
	return `# toad configuration
# Save to the config dir (e.g. ~/.config/toad/config.toml) and customize.
# Only include settings you want to change from defaults.

# Display settings
[display]
theme = "light"               # light, dark, solarized-light, solarized-dark, gruvbox-light, gruvbox-dark
imagesEnabled = true          # Render images as half-block cells
showScrollPercentage = true   # Show scroll percentage in status bar
showUrl = true                # Show URL in status bar

# HTTP fetching settings
[fetcher]
userAgent = "Mozilla/5.0 (compatible; toad/1.0)"
timeoutSeconds = 30

# Rendering settings
[rendering]
defaultWidth = 80             # Width when piping output (not in terminal)

# Session settings
[session]
restoreSession = true         # Restore previous session on startup

# Logging
[logging]
path = ""                     # Empty = cache dir default
debug = false

# Keybindings - customize your keys here!
[keybindings]
quit = "q"
scrollDown = "j"
scrollUp = "k"
halfPageDown = "d"
halfPageUp = "u"
goTop = "g"
goBottom = "G"
nextLink = "\t"               # Tab cycles focus forward
prevLink = "\u001b[Z"        # Shift-Tab cycles focus backward
activate = "\r"               # Enter follows the focused link or control
openUrl = "o"
refresh = "r"
back = "b"
forward = "f"
home = "H"
toggleTheme = "z"
toggleImages = "I"
`
}

// MatchSingle is a simple helper for single-char bindings.
func MatchSingle(input byte, binding string) bool {
	return len(binding) == 1 && input == binding[0]
}

// MatchSequence reports whether a full input sequence (possibly a
// multi-byte escape like Shift-Tab) equals the binding.
func MatchSequence(input string, binding string) bool {
	return binding != "" && input == binding
}
