package style

var (
	defaultLine = Color{R: 0x33 / 255.0, G: 0x88 / 255.0, B: 1, A: 1}
	defaultFill = defaultLine.WithAlpha(0.5)
)

var outlineDefaults = Config{
	"outline":      true,
	"outlineColor": "#3388ff",
	"outlineWidth": 1.0,
}

var surfaceDefaults = Config{
	"fill":                     true,
	"clampToGround":            false,
	"distanceDisplayCondition": false,
}.Merge(outlineDefaults)

var markerDefaults = Config{
	"clampToGround":            false,
	"visibleDepth":             true,
	"scaleByDistance":          false,
	"distanceDisplayCondition": false,
	"hasPixelOffset":           false,
}

// defaults holds the value used for every optional key a kind translates.
// Area kinds carry no default color so that new features get a distinct
// translucent fill.
var defaults = map[Kind]Config{
	KindPoint: markerDefaults.Merge(Config{
		"pixelSize":    10.0,
		"color":        "#3388ff",
		"opacity":      1.0,
		"outline":      true,
		"outlineColor": "#ffffff",
		"outlineWidth": 2.0,
	}),
	KindBillboard: markerDefaults.Merge(Config{
		"image":            "",
		"opacity":          1.0,
		"scale":            1.0,
		"rotation":         0.0,
		"horizontalOrigin": "center",
		"verticalOrigin":   "bottom",
	}),
	KindLabel: markerDefaults.Merge(Config{
		"text":               "Label",
		"font_family":        "sans-serif",
		"font_size":          30.0,
		"font_weight":        "normal",
		"font_style":         "normal",
		"color":              "#ffffff",
		"opacity":            1.0,
		"outline":            true,
		"outlineColor":       "#000000",
		"outlineWidth":       2.0,
		"background":         false,
		"background_color":   "#000000",
		"background_opacity": 0.5,
		"horizontalOrigin":   "center",
		"verticalOrigin":     "bottom",
	}),
	KindModel: {
		"url":                      "",
		"scale":                    1.0,
		"minimumPixelSize":         0.0,
		"heading":                  0.0,
		"pitch":                    0.0,
		"roll":                     0.0,
		"fill":                     false,
		"silhouette":               false,
		"silhouetteColor":          "#ff0000",
		"silhouetteAlpha":          1.0,
		"silhouetteSize":           2.0,
		"clampToGround":            false,
		"distanceDisplayCondition": false,
	},
	KindPolyline: {
		"width":                    3.0,
		"color":                    "#3388ff",
		"opacity":                  1.0,
		"lineType":                 "solid",
		"clampToGround":            false,
		"zIndex":                   0.0,
		"distanceDisplayCondition": false,
	},
	KindPolygon:   surfaceDefaults.Merge(Config{"zIndex": 0.0}),
	KindRectangle: surfaceDefaults.Merge(Config{"zIndex": 0.0, "rotation": 0.0}),
	KindCircle:    surfaceDefaults.Merge(Config{"zIndex": 0.0, "rotation": 0.0}),
	KindEllipse:   surfaceDefaults.Merge(Config{"zIndex": 0.0, "rotation": 0.0}),
	KindBox: surfaceDefaults.Merge(Config{
		"dimensions_x": 100.0,
		"dimensions_y": 100.0,
		"dimensions_z": 100.0,
	}),
	KindCylinder: surfaceDefaults.Merge(Config{
		"length":       100.0,
		"topRadius":    50.0,
		"bottomRadius": 50.0,
		"slices":       128.0,
	}),
	KindEllipsoid: surfaceDefaults.Merge(Config{
		"radii_x": 50.0,
		"radii_y": 50.0,
		"radii_z": 50.0,
	}),
	KindPlane: surfaceDefaults.Merge(Config{
		"dimensions_x":   100.0,
		"dimensions_y":   100.0,
		"plane_normal":   "z",
		"plane_distance": 0.0,
	}),
	KindCorridor: surfaceDefaults.Merge(Config{
		"width":      10.0,
		"cornerType": "rounded",
		"zIndex":     0.0,
	}),
	KindWall:   surfaceDefaults.Merge(Config{"diffHeight": 100.0}),
	KindVolume: surfaceDefaults.Merge(Config{"diffHeight": 100.0}),
}

// Defaults returns a copy of the default style of kind
func Defaults(kind Kind) Config {
	return defaults[kind].Clone()
}

// WithDefaults returns cfg overlaid on the defaults of kind
func WithDefaults(kind Kind, cfg Config) Config {
	return defaults[kind].Merge(cfg)
}
