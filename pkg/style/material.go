package style

import "strings"

// MaterialType selects how a surface or line is filled
type MaterialType string

const (
	MaterialColor        MaterialType = "color"
	MaterialImage        MaterialType = "image"
	MaterialGrid         MaterialType = "grid"
	MaterialCheckerboard MaterialType = "checkerboard"
	MaterialStripe       MaterialType = "stripe"
	MaterialLineFlow     MaterialType = "lineFlow"
	MaterialCirclePulse  MaterialType = "circlePulse"
	MaterialRandom       MaterialType = "random"

	// Line-only materials, selected through lineType
	MaterialDash    MaterialType = "dash"
	MaterialGlow    MaterialType = "glow"
	MaterialArrow   MaterialType = "arrow"
	MaterialOutline MaterialType = "outline"
)

var fillTypeAliases = map[string]MaterialType{
	"":             MaterialColor,
	"color":        MaterialColor,
	"solid":        MaterialColor,
	"image":        MaterialImage,
	"grid":         MaterialGrid,
	"checkerboard": MaterialCheckerboard,
	"stripe":       MaterialStripe,
	"lineflow":     MaterialLineFlow,
	"flow":         MaterialLineFlow,
	"circlepulse":  MaterialCirclePulse,
	"pulse":        MaterialCirclePulse,
}

var lineTypeAliases = map[string]MaterialType{
	"solid":   MaterialColor,
	"dash":    MaterialDash,
	"glow":    MaterialGlow,
	"arrow":   MaterialArrow,
	"outline": MaterialOutline,
}

// Material is a closed description of a fill. Only the fields relevant to
// Type are meaningful.
type Material struct {
	Type MaterialType

	Color    Color
	OddColor Color // checkerboard and stripe
	GapColor Color // dash

	Image       string
	Repeat      Cartesian2
	Transparent bool

	CellAlpha     float64    // grid
	LineCount     Cartesian2 // grid
	LineThickness Cartesian2 // grid
	Horizontal    bool       // stripe

	DashLength   float64 // dash
	GlowPower    float64 // glow
	OutlineColor Color   // outline line type
	OutlineWidth float64 // outline line type

	Speed float64 // lineFlow and circlePulse
	Count int     // circlePulse rings
}

// fillTypeOf returns the material discriminant of cfg; the empty type means
// no color and no material were given.
func fillTypeOf(cfg Config) (MaterialType, bool) {
	raw := cfg.String("fillType", cfg.String("materialType", ""))
	if raw == "" {
		if cfg.Has("color") {
			return MaterialColor, true
		}
		return "", false
	}
	t, ok := fillTypeAliases[strings.ToLower(raw)]
	if !ok {
		return MaterialColor, true
	}
	return t, true
}

// buildMaterial builds the fill material of cfg. seed makes the random
// fallback color reproducible.
func buildMaterial(cfg Config, seed string) Material {
	t, ok := fillTypeOf(cfg)
	if !ok {
		return Material{Type: MaterialRandom, Color: RandomTranslucent(seed)}
	}

	color := colorValue(cfg, "color", "opacity", defaultFill)
	m := Material{Type: t, Color: color}

	switch t {
	case MaterialImage:
		m.Image = cfg.String("image", "")
		m.Repeat = Cartesian2{X: cfg.Float("repeat_x", 1), Y: cfg.Float("repeat_y", 1)}
		m.Transparent = cfg.Bool("transparent", cfg.Has("opacity"))
		m.Color = White.WithAlpha(cfg.Float("opacity", 1))
	case MaterialGrid:
		m.CellAlpha = cfg.Float("cellAlpha", 0.1)
		m.LineCount = Cartesian2{X: cfg.Float("lineCount_x", 8), Y: cfg.Float("lineCount_y", 8)}
		m.LineThickness = Cartesian2{X: cfg.Float("lineThickness_x", 2), Y: cfg.Float("lineThickness_y", 2)}
	case MaterialCheckerboard:
		m.OddColor = colorValue(cfg, "oddColor", "opacity", White)
		m.Repeat = Cartesian2{X: cfg.Float("repeat_x", 4), Y: cfg.Float("repeat_y", 4)}
	case MaterialStripe:
		m.OddColor = colorValue(cfg, "oddColor", "opacity", White)
		m.Repeat = Cartesian2{X: cfg.Float("repeat", 5), Y: cfg.Float("repeat", 5)}
		m.Horizontal = cfg.String("orientation", "horizontal") != "vertical"
	case MaterialLineFlow:
		m.Image = cfg.String("image", "")
		m.Speed = cfg.Float("speed", 10)
		m.Repeat = Cartesian2{X: cfg.Float("repeat_x", 1), Y: cfg.Float("repeat_y", 1)}
	case MaterialCirclePulse:
		m.Speed = cfg.Float("speed", 10)
		m.Count = cfg.Int("count", 1)
	}
	return m
}

// buildLineMaterial builds the material of a line, honoring lineType
// before the generic fill discriminant.
func buildLineMaterial(cfg Config, seed string) Material {
	if raw := cfg.String("lineType", ""); raw != "" {
		if t, ok := lineTypeAliases[strings.ToLower(raw)]; ok && t != MaterialColor {
			m := Material{Type: t, Color: colorValue(cfg, "color", "opacity", defaultLine)}
			switch t {
			case MaterialDash:
				m.GapColor = colorValue(cfg, "gapColor", "", Color{})
				m.DashLength = cfg.Float("dashLength", 16)
			case MaterialGlow:
				m.GlowPower = cfg.Float("glowPower", 0.1)
			case MaterialOutline:
				m.OutlineColor = colorValue(cfg, "outlineColor", "outlineOpacity", White)
				m.OutlineWidth = cfg.Float("outlineWidth", 2)
			}
			return m
		}
	}
	if _, ok := fillTypeOf(cfg); !ok {
		return Material{Type: MaterialColor, Color: defaultLine}
	}
	m := buildMaterial(cfg, seed)
	if m.Type == MaterialColor {
		m.Color = colorValue(cfg, "color", "opacity", defaultLine)
	}
	return m
}
