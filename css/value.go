package css

import (
	"strconv"
	"strings"
)

// A terminal cell stands in for an EM x LH pixel tile; px values divide
// by these when layout converts to columns and rows.
const (
	EMPixels = 8
	LHPixels = 16
)

// Color is an opaque RGB triple.
type Color struct {
	R, G, B uint8
}

var namedColors = map[string]Color{
	"black":       {0, 0, 0},
	"silver":      {192, 192, 192},
	"gray":        {128, 128, 128},
	"grey":        {128, 128, 128},
	"white":       {255, 255, 255},
	"maroon":      {128, 0, 0},
	"red":         {255, 0, 0},
	"purple":      {128, 0, 128},
	"fuchsia":     {255, 0, 255},
	"magenta":     {255, 0, 255},
	"green":       {0, 128, 0},
	"lime":        {0, 255, 0},
	"olive":       {128, 128, 0},
	"yellow":      {255, 255, 0},
	"navy":        {0, 0, 128},
	"blue":        {0, 0, 255},
	"teal":        {0, 128, 128},
	"aqua":        {0, 255, 255},
	"cyan":        {0, 255, 255},
	"orange":      {255, 165, 0},
	"aliceblue":   {240, 248, 255},
	"brown":       {165, 42, 42},
	"chocolate":   {210, 105, 30},
	"coral":       {255, 127, 80},
	"crimson":     {220, 20, 60},
	"darkblue":    {0, 0, 139},
	"darkgray":    {169, 169, 169},
	"darkgreen":   {0, 100, 0},
	"darkorange":  {255, 140, 0},
	"darkred":     {139, 0, 0},
	"dimgray":     {105, 105, 105},
	"gold":        {255, 215, 0},
	"hotpink":     {255, 105, 180},
	"indigo":      {75, 0, 130},
	"ivory":       {255, 255, 240},
	"khaki":       {240, 230, 140},
	"lavender":    {230, 230, 250},
	"lightblue":   {173, 216, 230},
	"lightgray":   {211, 211, 211},
	"lightgreen":  {144, 238, 144},
	"lightyellow": {255, 255, 224},
	"pink":        {255, 192, 203},
	"plum":        {221, 160, 221},
	"royalblue":   {65, 105, 225},
	"salmon":      {250, 128, 114},
	"skyblue":     {135, 206, 235},
	"slateblue":   {106, 90, 205},
	"slategray":   {112, 128, 144},
	"snow":        {255, 250, 250},
	"tan":         {210, 180, 140},
	"tomato":      {255, 99, 71},
	"turquoise":   {64, 224, 208},
	"violet":      {238, 130, 238},
	"wheat":       {245, 222, 179},
	"whitesmoke":  {245, 245, 245},
}

// ParseColor understands named colors, #rgb, #rrggbb, and rgb()/rgba()
// (alpha dropped).
func ParseColor(s string) (Color, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := namedColors[s]; ok {
		return c, true
	}
	if strings.HasPrefix(s, "#") {
		return parseHexColor(s[1:])
	}
	if strings.HasPrefix(s, "rgb(") || strings.HasPrefix(s, "rgba(") {
		return parseRGBFunc(s)
	}
	return Color{}, false
}

func parseHexColor(hex string) (Color, bool) {
	switch len(hex) {
	case 3:
		r, ok1 := hexNibble(hex[0])
		g, ok2 := hexNibble(hex[1])
		b, ok3 := hexNibble(hex[2])
		if !(ok1 && ok2 && ok3) {
			return Color{}, false
		}
		return Color{r * 17, g * 17, b * 17}, true
	case 6:
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return Color{}, false
		}
		return Color{uint8(v >> 16), uint8(v >> 8), uint8(v)}, true
	}
	return Color{}, false
}

func hexNibble(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	}
	return 0, false
}

func parseRGBFunc(s string) (Color, bool) {
	open := strings.IndexByte(s, '(')
	end := strings.LastIndexByte(s, ')')
	if open < 0 || end < open {
		return Color{}, false
	}
	parts := strings.Split(s[open+1:end], ",")
	if len(parts) != 3 && len(parts) != 4 {
		return Color{}, false
	}
	var ch [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || v < 0 || v > 255 {
			return Color{}, false
		}
		ch[i] = uint8(v)
	}
	return Color{ch[0], ch[1], ch[2]}, true
}

// Unit classifies a Length. Px covers em and lh too: both convert to
// pixels at parse time.
type Unit int

const (
	UnitAuto Unit = iota
	UnitPx
	UnitPercent
	UnitFitContent
)

// Length is a resolved dimension value. Value is pixels for UnitPx and
// a 0-100 fraction for UnitPercent.
type Length struct {
	Unit  Unit
	Value float64
}

func Auto() Length         { return Length{Unit: UnitAuto} }
func Px(v float64) Length  { return Length{Unit: UnitPx, Value: v} }
func Pct(v float64) Length { return Length{Unit: UnitPercent, Value: v} }

// ParseLength understands px, em, lh, %, unitless zero, auto and
// fit-content.
func ParseLength(s string) (Length, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "auto":
		return Auto(), true
	case "fit-content":
		return Length{Unit: UnitFitContent}, true
	case "0":
		return Px(0), true
	}
	num := s
	unit := ""
	for i := len(s); i > 0; i-- {
		if c := s[i-1]; c >= '0' && c <= '9' || c == '.' {
			num, unit = s[:i], s[i:]
			break
		}
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, false
	}
	switch unit {
	case "px":
		return Px(v), true
	case "em", "rem", "ch":
		return Px(v * EMPixels), true
	case "lh":
		return Px(v * LHPixels), true
	case "%":
		return Pct(v), true
	case "":
		return Px(v), true // unitless quirk
	}
	return Length{}, false
}
