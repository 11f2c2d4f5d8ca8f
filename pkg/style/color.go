package style

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// Color is a straight-alpha RGBA color with components in [0, 1]
type Color struct {
	R, G, B, A float64
}

var (
	White = Color{R: 1, G: 1, B: 1, A: 1}
	Black = Color{A: 1}
)

// ParseColor parses #rgb, #rrggbb, #rrggbbaa, rgb(), rgba() and CSS color
// names.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return Color{}, fmt.Errorf("empty color")
	}

	switch {
	case strings.HasPrefix(s, "#"):
		return parseHex(s)
	case strings.HasPrefix(s, "rgb"):
		return parseFunctional(s)
	}

	if named, ok := colornames.Map[s]; ok {
		return Color{
			R: float64(named.R) / 255,
			G: float64(named.G) / 255,
			B: float64(named.B) / 255,
			A: float64(named.A) / 255,
		}, nil
	}
	return Color{}, fmt.Errorf("unknown color %q", s)
}

func parseHex(s string) (Color, error) {
	alpha := 1.0
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("invalid alpha in %q: %w", s, err)
		}
		alpha = float64(a) / 255
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return Color{R: c.R, G: c.G, B: c.B, A: alpha}, nil
}

func parseFunctional(s string) (Color, error) {
	open := strings.IndexByte(s, '(')
	end := strings.LastIndexByte(s, ')')
	if open < 0 || end < open {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	parts := strings.Split(s[open+1:end], ",")
	if len(parts) != 3 && len(parts) != 4 {
		return Color{}, fmt.Errorf("invalid color %q", s)
	}

	var values [4]float64
	values[3] = 1
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return Color{}, fmt.Errorf("invalid color component in %q: %w", s, err)
		}
		if i < 3 {
			f /= 255
		}
		values[i] = clamp01(f)
	}
	return Color{R: values[0], G: values[1], B: values[2], A: values[3]}, nil
}

// WithAlpha returns the color with the alpha replaced
func (c Color) WithAlpha(alpha float64) Color {
	c.A = clamp01(alpha)
	return c
}

// Hex returns the color as #rrggbb, dropping alpha
func (c Color) Hex() string {
	return colorful.Color{R: c.R, G: c.G, B: c.B}.Clamped().Hex()
}

// RGBA8 returns the color as 8-bit components
func (c Color) RGBA8() (r, g, b, a uint8) {
	return to8(c.R), to8(c.G), to8(c.B), to8(c.A)
}

func (c Color) String() string {
	return fmt.Sprintf("rgba(%d,%d,%d,%.3g)", to8(c.R), to8(c.G), to8(c.B), c.A)
}

// RandomTranslucent returns a pleasant translucent color derived from seed.
// The same seed always yields the same color.
func RandomTranslucent(seed string) Color {
	h := fnv.New64a()
	h.Write([]byte(seed))
	sum := h.Sum64()
	rng := rand.New(rand.NewPCG(sum, sum>>7|1))

	c := colorful.Hsv(rng.Float64()*360, 0.55+rng.Float64()*0.3, 0.75+rng.Float64()*0.2)
	c = c.Clamped()
	return Color{R: c.R, G: c.G, B: c.B, A: 0.5}
}

// colorValue combines a color key with its opacity key. A missing or
// unparsable color falls back to def.
func colorValue(cfg Config, colorKey, opacityKey string, def Color) Color {
	c := def
	if s := cfg.String(colorKey, ""); s != "" {
		if parsed, err := ParseColor(s); err == nil {
			c = parsed
		}
	}
	if opacityKey != "" && cfg.Has(opacityKey) {
		c = c.WithAlpha(cfg.Float(opacityKey, 1) * c.A)
	}
	return c
}

func clamp01(f float64) float64 {
	return math.Max(0, math.Min(1, f))
}

func to8(f float64) uint8 {
	return uint8(math.Round(clamp01(f) * 255))
}
