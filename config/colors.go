package config

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/BobdaProgrammer/karmen/wm"
)

var namedColors = map[string]string{
	"black":   "#000000",
	"white":   "#ffffff",
	"red":     "#ff0000",
	"green":   "#00ff00",
	"blue":    "#0000ff",
	"yellow":  "#ffff00",
	"cyan":    "#00ffff",
	"magenta": "#ff00ff",
	"gray":    "#bebebe",
	"grey":    "#bebebe",
}

// ParseColor accepts rgb:r/g/b with one to four hex digits per channel,
// #rrggbb, #rgb, bare rrggbb and a handful of names. Every channel,
// alpha included, is scaled by alpha.
func ParseColor(s string, alpha float64) (color.RGBA64, error) {
	c, err := parseColorful(strings.TrimSpace(s))
	if err != nil {
		return color.RGBA64{}, err
	}
	c = c.Clamped()
	scale := func(v float64) uint16 { return uint16(math.Round(v * alpha * 0xffff)) }
	return color.RGBA64{
		R: scale(c.R),
		G: scale(c.G),
		B: scale(c.B),
		A: scale(1),
	}, nil
}

func parseColorful(s string) (colorful.Color, error) {
	lower := strings.ToLower(s)
	if hex, ok := namedColors[lower]; ok {
		return colorful.Hex(hex)
	}
	if rest, ok := strings.CutPrefix(lower, "rgb:"); ok {
		return parseRGBSpec(s, rest)
	}
	if strings.HasPrefix(lower, "#") {
		c, err := colorful.Hex(lower)
		if err != nil {
			return colorful.Color{}, fmt.Errorf("invalid colour %q", s)
		}
		return c, nil
	}
	if len(lower) == 6 {
		if _, err := strconv.ParseUint(lower, 16, 32); err == nil {
			return colorful.Hex("#" + lower)
		}
	}
	return colorful.Color{}, fmt.Errorf("unknown colour %q", s)
}

func parseRGBSpec(orig, spec string) (colorful.Color, error) {
	parts := strings.Split(spec, "/")
	if len(parts) != 3 {
		return colorful.Color{}, fmt.Errorf("invalid colour %q", orig)
	}
	var ch [3]float64
	for i, p := range parts {
		if len(p) < 1 || len(p) > 4 {
			return colorful.Color{}, fmt.Errorf("invalid colour %q", orig)
		}
		v, err := strconv.ParseUint(p, 16, 16)
		if err != nil {
			return colorful.Color{}, fmt.Errorf("invalid colour %q", orig)
		}
		ch[i] = float64(v) / float64(uint64(1)<<(4*len(p))-1)
	}
	return colorful.Color{R: ch[0], G: ch[1], B: ch[2]}, nil
}

// Theme resolves the configured colours into the values the window
// manager draws with.
func (c *Config) Theme() (wm.Theme, error) {
	t := wm.Theme{BorderWidth: c.Border.Width}
	specs := []struct {
		name string
		spec string
		dst  *color.Color
	}{
		{"title.active.foreground", c.Title.Active.Foreground, &t.TitleActiveFg},
		{"title.active.background", c.Title.Active.Background, &t.TitleActiveBg},
		{"title.active.bright", c.Title.Active.Bright, &t.TitleActiveBgBright},
		{"title.inactive.foreground", c.Title.Inactive.Foreground, &t.TitleInactiveFg},
		{"title.inactive.background", c.Title.Inactive.Background, &t.TitleInactiveBg},
		{"title.inactive.bright", c.Title.Inactive.Bright, &t.TitleInactiveBgBright},
		{"menu.foreground", c.Menu.Foreground, &t.MenuFg},
		{"menu.background", c.Menu.Background, &t.MenuBg},
		{"menu.selection.foreground", c.Menu.Selection.Foreground, &t.MenuSelectionFg},
		{"menu.selection.background", c.Menu.Selection.Background, &t.MenuSelectionBg},
	}
	for _, s := range specs {
		col, err := ParseColor(s.spec, c.Alpha)
		if err != nil {
			return wm.Theme{}, fmt.Errorf("%s: %w", s.name, err)
		}
		*s.dst = col
	}
	return t, nil
}
