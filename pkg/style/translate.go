package style

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/golang/geo/s1"
	"github.com/philipparndt/geodraw/pkg/geometry"
)

// Translate converts a style config of kind into renderer attributes,
// writing into target (a new bag when target is nil) and returning it.
// Missing keys take the kind defaults; keys unknown to the kind are copied
// verbatim and removed again once cfg no longer has them. Translating the
// same config twice yields the same bag: derived attributes whose gate is
// off are removed from target.
func Translate(kind Kind, cfg Config, target Attr) Attr {
	if target == nil {
		target = Attr{}
	}
	fn, ok := translators[kind]
	if !ok {
		return target
	}

	previous, _ := target[passThroughKey].([]string)
	for _, key := range previous {
		delete(target, key)
	}

	t := &translation{
		cfg:  WithDefaults(kind, cfg),
		attr: target,
		seed: string(kind) + "|" + cfg.Canonical(),
	}
	fn(t)

	schema := schemas[kind]
	var copied []string
	for key, value := range cfg {
		if _, known := schema[key]; !known {
			target[key] = value
			copied = append(copied, key)
		}
	}
	if len(copied) == 0 {
		delete(target, passThroughKey)
	} else {
		sort.Strings(copied)
		target[passThroughKey] = copied
	}
	return target
}

// passThroughKey lists the keys Translate copied verbatim, so that a later
// translation into the same bag drops the ones no longer configured
const passThroughKey = "_passThrough"

type translation struct {
	cfg  Config
	attr Attr
	seed string
}

var translators = map[Kind]func(*translation){
	KindPoint:     translatePoint,
	KindBillboard: translateBillboard,
	KindLabel:     translateLabel,
	KindModel:     translateModel,
	KindPolyline:  translatePolyline,
	KindPolygon:   translatePolygon,
	KindRectangle: translateRectangle,
	KindCircle:    translateEllipse,
	KindEllipse:   translateEllipse,
	KindBox:       translateBox,
	KindCylinder:  translateCylinder,
	KindEllipsoid: translateEllipsoid,
	KindPlane:     translatePlane,
	KindCorridor:  translateCorridor,
	KindWall:      translateWall,
	KindVolume:    translateWall,
}

func translatePoint(t *translation) {
	t.number("pixelSize", "pixelSize")
	t.attr.Set("color", colorValue(t.cfg, "color", "opacity", defaultLine))
	t.outline()
	t.markerCommon()
}

func translateBillboard(t *translation) {
	t.attr.Set("image", t.cfg.String("image", ""))
	t.number("scale", "scale")
	t.attr.Set("color", White.WithAlpha(t.cfg.Float("opacity", 1)))
	t.angle("rotation", "rotation")
	t.origins()
	if t.cfg.Has("width") && t.cfg.Has("height") {
		t.number("width", "width")
		t.number("height", "height")
	} else {
		t.attr.Unset("width")
		t.attr.Unset("height")
	}
	t.markerCommon()
}

func translateLabel(t *translation) {
	t.attr.Set("text", t.cfg.String("text", ""))
	t.attr.Set("font", fmt.Sprintf("%s %s %gpx %s",
		t.cfg.String("font_style", "normal"),
		t.cfg.String("font_weight", "normal"),
		t.cfg.Float("font_size", 30),
		t.cfg.String("font_family", "sans-serif"),
	))
	t.attr.Set("fillColor", colorValue(t.cfg, "color", "opacity", White))

	if t.cfg.Bool("outline", true) {
		t.attr.Set("style", "FILL_AND_OUTLINE")
		t.attr.Set("outlineColor", colorValue(t.cfg, "outlineColor", "outlineOpacity", Black))
		t.number("outlineWidth", "outlineWidth")
	} else {
		t.attr.Set("style", "FILL")
		t.attr.Unset("outlineColor")
		t.attr.Unset("outlineWidth")
	}

	background := t.cfg.Bool("background", false)
	t.attr.Set("showBackground", background)
	if background {
		t.attr.Set("backgroundColor", colorValue(t.cfg, "background_color", "background_opacity", Black))
	} else {
		t.attr.Unset("backgroundColor")
	}

	t.origins()
	t.markerCommon()
}

func translateModel(t *translation) {
	t.attr.Set("uri", t.cfg.String("url", ""))
	t.number("scale", "scale")
	t.number("minimumPixelSize", "minimumPixelSize")
	t.attr.Set("orientation", HeadingPitchRoll{
		Heading: radians(t.cfg.Float("heading", 0)),
		Pitch:   radians(t.cfg.Float("pitch", 0)),
		Roll:    radians(t.cfg.Float("roll", 0)),
	})

	if t.cfg.Bool("fill", false) {
		t.attr.Set("color", colorValue(t.cfg, "color", "opacity", White))
		t.attr.Set("colorBlendMode", "MIX")
	} else {
		t.attr.Unset("color")
		t.attr.Unset("colorBlendMode")
	}

	if t.cfg.Bool("silhouette", false) {
		t.attr.Set("silhouetteColor", colorValue(t.cfg, "silhouetteColor", "silhouetteAlpha", Color{R: 1, A: 1}))
		t.number("silhouetteSize", "silhouetteSize")
	} else {
		t.attr.Unset("silhouetteColor")
		t.attr.Unset("silhouetteSize")
	}

	t.heightReference()
	t.distanceDisplayCondition()
}

func translatePolyline(t *translation) {
	t.number("width", "width")
	t.attr.Set("material", buildLineMaterial(t.cfg, t.seed))
	t.attr.Set("clampToGround", t.clamped())
	t.number("zIndex", "zIndex")
	t.distanceDisplayCondition()
}

func translatePolygon(t *translation) {
	t.surface()
	t.attr.Set("perPositionHeight", !t.clamped())
	t.heights()
	t.angle("stRotation", "stRotation")
	t.number("zIndex", "zIndex")
}

func translateRectangle(t *translation) {
	t.surface()
	t.heights()
	t.angle("rotation", "rotation")
	t.angle("stRotation", "stRotation")
	t.number("zIndex", "zIndex")
}

func translateEllipse(t *translation) {
	t.surface()
	t.heights()
	t.angle("rotation", "rotation")
	t.angle("stRotation", "stRotation")
	t.number("zIndex", "zIndex")
}

func translateBox(t *translation) {
	t.attr.Set("dimensions", geometry.Vector3{
		X: t.cfg.Float("dimensions_x", 100),
		Y: t.cfg.Float("dimensions_y", 100),
		Z: t.cfg.Float("dimensions_z", 100),
	})
	t.surface()
}

func translateCylinder(t *translation) {
	t.number("length", "length")
	t.number("topRadius", "topRadius")
	t.number("bottomRadius", "bottomRadius")
	t.attr.Set("slices", t.cfg.Int("slices", 128))
	t.surface()
}

func translateEllipsoid(t *translation) {
	t.attr.Set("radii", geometry.Vector3{
		X: t.cfg.Float("radii_x", 50),
		Y: t.cfg.Float("radii_y", 50),
		Z: t.cfg.Float("radii_z", 50),
	})
	t.surface()
}

func translatePlane(t *translation) {
	normal := geometry.Vector3{Z: 1}
	switch strings.ToLower(t.cfg.String("plane_normal", "z")) {
	case "x":
		normal = geometry.Vector3{X: 1}
	case "y":
		normal = geometry.Vector3{Y: 1}
	}
	t.attr.Set("plane", Plane{Normal: normal, Distance: t.cfg.Float("plane_distance", 0)})
	t.attr.Set("dimensions", Cartesian2{
		X: t.cfg.Float("dimensions_x", 100),
		Y: t.cfg.Float("dimensions_y", 100),
	})
	t.fill()
	t.outline()
	t.distanceDisplayCondition()
}

func translateCorridor(t *translation) {
	t.number("width", "width")
	t.attr.Set("cornerType", strings.ToUpper(t.cfg.String("cornerType", "rounded")))
	t.surface()
	t.heights()
	t.number("zIndex", "zIndex")
}

func translateWall(t *translation) {
	t.fill()
	t.outline()
	t.distanceDisplayCondition()
}

// markerCommon applies the keys shared by screen-space markers
func (t *translation) markerCommon() {
	t.scaleByDistance()
	t.distanceDisplayCondition()
	t.heightReference()
	t.depth()
	t.pixelOffset()
}

// surface applies the keys shared by filled volumes and areas
func (t *translation) surface() {
	t.fill()
	t.outline()
	t.heightReference()
	t.distanceDisplayCondition()
}

func (t *translation) fill() {
	t.attr.Set("fill", t.cfg.Bool("fill", true))
	t.attr.Set("material", buildMaterial(t.cfg, t.seed))
}

func (t *translation) outline() {
	if !t.cfg.Bool("outline", false) {
		t.attr.Unset("outline")
		t.attr.Unset("outlineColor")
		t.attr.Unset("outlineWidth")
		return
	}
	t.attr.Set("outline", true)
	t.attr.Set("outlineColor", colorValue(t.cfg, "outlineColor", "outlineOpacity", defaultLine))
	t.number("outlineWidth", "outlineWidth")
}

func (t *translation) heights() {
	if t.cfg.Has("height") && !t.clamped() {
		t.number("height", "height")
	} else {
		t.attr.Unset("height")
	}
	if t.cfg.Has("extrudedHeight") {
		t.number("extrudedHeight", "extrudedHeight")
	} else {
		t.attr.Unset("extrudedHeight")
	}
}

func (t *translation) scaleByDistance() {
	if !t.cfg.Bool("scaleByDistance", false) {
		t.attr.Unset("scaleByDistance")
		return
	}
	t.attr.Set("scaleByDistance", NearFarScalar{
		Near:      t.cfg.Float("scaleByDistance_near", 1.5e2),
		NearValue: t.cfg.Float("scaleByDistance_nearValue", 1),
		Far:       t.cfg.Float("scaleByDistance_far", 8e6),
		FarValue:  t.cfg.Float("scaleByDistance_farValue", 0),
	})
}

func (t *translation) distanceDisplayCondition() {
	if !t.cfg.Bool("distanceDisplayCondition", false) {
		t.attr.Unset("distanceDisplayCondition")
		return
	}
	t.attr.Set("distanceDisplayCondition", DistanceDisplayCondition{
		Near: t.cfg.Float("distanceDisplayCondition_near", 0),
		Far:  t.cfg.Float("distanceDisplayCondition_far", math.MaxFloat64),
	})
}

func (t *translation) heightReference() {
	t.attr.Set("heightReference", t.heightReferenceValue())
}

func (t *translation) heightReferenceValue() HeightReference {
	switch v := t.cfg["clampToGround"].(type) {
	case string:
		switch strings.ToLower(v) {
		case "relative", "relativetoground", "relative_to_ground":
			return HeightRelativeToGround
		case "true", "clamp", "clamptoground", "clamp_to_ground":
			return HeightClampToGround
		}
		return HeightNone
	default:
		if b, ok := toBool(v); ok && b {
			return HeightClampToGround
		}
	}
	return HeightNone
}

func (t *translation) clamped() bool {
	return t.heightReferenceValue() != HeightNone
}

func (t *translation) depth() {
	if t.cfg.Bool("visibleDepth", true) {
		t.attr.Unset("disableDepthTestDistance")
		return
	}
	t.attr.Set("disableDepthTestDistance", disabledDepthTest)
}

func (t *translation) pixelOffset() {
	if !t.cfg.Bool("hasPixelOffset", false) {
		t.attr.Unset("pixelOffset")
		return
	}
	t.attr.Set("pixelOffset", Cartesian2{
		X: t.cfg.Float("pixelOffsetX", 0),
		Y: t.cfg.Float("pixelOffsetY", 0),
	})
}

func (t *translation) origins() {
	t.attr.Set("horizontalOrigin", strings.ToUpper(t.cfg.String("horizontalOrigin", "center")))
	t.attr.Set("verticalOrigin", strings.ToUpper(t.cfg.String("verticalOrigin", "bottom")))
}

func (t *translation) number(attrKey, cfgKey string) {
	if !t.cfg.Has(cfgKey) {
		t.attr.Unset(attrKey)
		return
	}
	t.attr.Set(attrKey, t.cfg.Float(cfgKey, 0))
}

func (t *translation) angle(attrKey, cfgKey string) {
	t.attr.Set(attrKey, radians(t.cfg.Float(cfgKey, 0)))
}

func radians(deg float64) float64 {
	return (s1.Angle(deg) * s1.Degree).Radians()
}
