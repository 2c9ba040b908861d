// Package theme provides color palettes for the browser. Themes drive
// the page's default colors and UI chrome; document colors from
// stylesheets still override them.
package theme

import "toad/render"

// Color represents an RGB color that can render to ANSI.
type Color struct {
	R, G, B uint8
}

// Theme defines one palette.
type Theme struct {
	Name string
	Dark bool

	Background  Color // page background
	Foreground  Color // default text
	UI          Color // status bar, scrollbar, prompts
	Interactive Color // links and focusable controls
	Error       Color // status-bar error messages
}

// Render converts to a render color.
func (c Color) Render() render.Color {
	return render.RGB(c.R, c.G, c.B)
}

// Style creates a render.Style with the given foreground color.
func (c Color) Style() render.Style {
	return render.Style{Fg: c.Render()}
}

// StyleFgBg creates a render.Style with foreground and background.
func StyleFgBg(fg, bg Color) render.Style {
	return render.Style{Fg: fg.Render(), Bg: bg.Render()}
}

// BaseStyle returns the theme's default text-on-background style.
func (t *Theme) BaseStyle() render.Style {
	return StyleFgBg(t.Foreground, t.Background)
}

// Hex creates a Color from a hex string like "#RRGGBB" or "RRGGBB".
func Hex(s string) Color {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	if len(s) != 6 {
		return Color{}
	}
	return Color{
		R: hexByte(s[0:2]),
		G: hexByte(s[2:4]),
		B: hexByte(s[4:6]),
	}
}

func hexByte(s string) uint8 {
	var v uint8
	for _, c := range s {
		v *= 16
		switch {
		case c >= '0' && c <= '9':
			v += uint8(c - '0')
		case c >= 'a' && c <= 'f':
			v += uint8(c - 'a' + 10)
		case c >= 'A' && c <= 'F':
			v += uint8(c - 'A' + 10)
		}
	}
	return v
}

// Built-in themes. Light and Dark carry the classic palette; the rest
// are popular terminal schemes.
var (
	Light = &Theme{
		Name:        "light",
		Background:  Color{255, 255, 255},
		Foreground:  Color{0, 0, 0},
		UI:          Color{174, 175, 204},
		Interactive: Color{129, 154, 255},
		Error:       Hex("c62828"),
	}

	Dark = &Theme{
		Name:        "dark",
		Dark:        true,
		Background:  Color{55, 55, 55},
		Foreground:  Color{255, 255, 255},
		UI:          Color{0, 0, 0},
		Interactive: Color{192, 212, 255},
		Error:       Hex("ff6666"),
	}

	SolarizedDark = &Theme{
		Name:        "solarized-dark",
		Dark:        true,
		Background:  Hex("002b36"),
		Foreground:  Hex("839496"),
		UI:          Hex("073642"),
		Interactive: Hex("268bd2"),
		Error:       Hex("dc322f"),
	}

	SolarizedLight = &Theme{
		Name:        "solarized-light",
		Background:  Hex("fdf6e3"),
		Foreground:  Hex("657b83"),
		UI:          Hex("eee8d5"),
		Interactive: Hex("268bd2"),
		Error:       Hex("dc322f"),
	}

	GruvboxDark = &Theme{
		Name:        "gruvbox-dark",
		Dark:        true,
		Background:  Hex("282828"),
		Foreground:  Hex("ebdbb2"),
		UI:          Hex("3c3836"),
		Interactive: Hex("83a598"),
		Error:       Hex("fb4934"),
	}

	GruvboxLight = &Theme{
		Name:        "gruvbox-light",
		Background:  Hex("fbf1c7"),
		Foreground:  Hex("3c3836"),
		UI:          Hex("ebdbb2"),
		Interactive: Hex("076678"),
		Error:       Hex("9d0006"),
	}
)

// All contains all built-in themes for cycling.
var All = []*Theme{
	Light,
	Dark,
	SolarizedLight,
	SolarizedDark,
	GruvboxLight,
	GruvboxDark,
}

// ByName returns the named theme, or nil.
func ByName(name string) *Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// Toggle returns the opposite-brightness counterpart: the paired
// variant when one exists, otherwise the stock Light/Dark theme.
func Toggle(t *Theme) *Theme {
	base := t.Name
	if n := len(base); t.Dark && n > 5 && base[n-5:] == "-dark" {
		if v := ByName(base[:n-5] + "-light"); v != nil {
			return v
		}
	}
	if n := len(base); !t.Dark && n > 6 && base[n-6:] == "-light" {
		if v := ByName(base[:n-6] + "-dark"); v != nil {
			return v
		}
	}
	if t.Dark {
		return Light
	}
	return Dark
}
