package style

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iancoleman/strcase"
)

// ErrInvalidStyle wraps every validation problem reported by Parse
var ErrInvalidStyle = errors.New("invalid style")

// ValueType is the expected type of a known style key
type ValueType int

const (
	TypeAny ValueType = iota
	TypeNumber
	TypeString
	TypeBool
	TypeColor
	TypeEnum
)

// Field describes one known style key
type Field struct {
	Type ValueType
	Enum []string
}

// Schema maps known keys of a kind to their field descriptions
type Schema map[string]Field

var (
	number   = Field{Type: TypeNumber}
	str      = Field{Type: TypeString}
	boolean  = Field{Type: TypeBool}
	color    = Field{Type: TypeColor}
	anyValue = Field{Type: TypeAny}
)

func enum(values ...string) Field {
	return Field{Type: TypeEnum, Enum: values}
}

var (
	clampFields = Schema{"clampToGround": anyValue}
	depthFields = Schema{"visibleDepth": boolean}
	scaleFields = Schema{
		"scaleByDistance":           boolean,
		"scaleByDistance_near":      number,
		"scaleByDistance_nearValue": number,
		"scaleByDistance_far":       number,
		"scaleByDistance_farValue":  number,
	}
	ddcFields = Schema{
		"distanceDisplayCondition":      boolean,
		"distanceDisplayCondition_near": number,
		"distanceDisplayCondition_far":  number,
	}
	offsetFields = Schema{
		"hasPixelOffset": boolean,
		"pixelOffsetX":   number,
		"pixelOffsetY":   number,
	}
	originFields = Schema{
		"horizontalOrigin": enum("left", "center", "right"),
		"verticalOrigin":   enum("top", "center", "bottom", "baseline"),
	}
	fillFields = Schema{
		"fill":            boolean,
		"fillType":        enum(fillTypeNames()...),
		"materialType":    enum(fillTypeNames()...),
		"color":           color,
		"opacity":         number,
		"image":           str,
		"repeat":          number,
		"repeat_x":        number,
		"repeat_y":        number,
		"transparent":     boolean,
		"cellAlpha":       number,
		"lineCount_x":     number,
		"lineCount_y":     number,
		"lineThickness_x": number,
		"lineThickness_y": number,
		"oddColor":        color,
		"orientation":     enum("horizontal", "vertical"),
		"speed":           number,
		"count":           number,
	}
	outlineFields = Schema{
		"outline":        boolean,
		"outlineColor":   color,
		"outlineOpacity": number,
		"outlineWidth":   number,
	}
	heightFields = Schema{
		"height":         number,
		"extrudedHeight": number,
		"diffHeight":     number,
		"rotation":       number,
		"stRotation":     number,
		"zIndex":         number,
	}
)

var schemas = map[Kind]Schema{
	KindPoint: merge(Schema{
		"pixelSize": number,
		"color":     color,
		"opacity":   number,
	}, outlineFields, offsetFields, scaleFields, ddcFields, clampFields, depthFields),

	KindBillboard: merge(Schema{
		"image":    str,
		"opacity":  number,
		"scale":    number,
		"rotation": number,
		"width":    number,
		"height":   number,
	}, originFields, offsetFields, scaleFields, ddcFields, clampFields, depthFields),

	KindLabel: merge(Schema{
		"text":               str,
		"font_family":        str,
		"font_size":          number,
		"font_weight":        enum("normal", "bold"),
		"font_style":         enum("normal", "italic"),
		"color":              color,
		"opacity":            number,
		"background":         boolean,
		"background_color":   color,
		"background_opacity": number,
	}, outlineFields, originFields, offsetFields, scaleFields, ddcFields, clampFields, depthFields),

	KindModel: merge(Schema{
		"url":              str,
		"scale":            number,
		"minimumPixelSize": number,
		"heading":          number,
		"pitch":            number,
		"roll":             number,
		"fill":             boolean,
		"color":            color,
		"opacity":          number,
		"silhouette":       boolean,
		"silhouetteColor":  color,
		"silhouetteAlpha":  number,
		"silhouetteSize":   number,
	}, ddcFields, clampFields),

	KindPolyline: merge(Schema{
		"width":      number,
		"lineType":   enum("solid", "dash", "glow", "arrow", "outline"),
		"gapColor":   color,
		"dashLength": number,
		"glowPower":  number,
		"zIndex":     number,
	}, fillFields, outlineFields, ddcFields, clampFields),

	KindPolygon:   merge(Schema{}, fillFields, outlineFields, heightFields, ddcFields, clampFields),
	KindRectangle: merge(Schema{}, fillFields, outlineFields, heightFields, ddcFields, clampFields),

	KindCircle: merge(Schema{
		"radius": number,
	}, fillFields, outlineFields, heightFields, ddcFields, clampFields),

	KindEllipse: merge(Schema{
		"semiMajorAxis": number,
		"semiMinorAxis": number,
	}, fillFields, outlineFields, heightFields, ddcFields, clampFields),

	KindBox: merge(Schema{
		"dimensions_x": number,
		"dimensions_y": number,
		"dimensions_z": number,
	}, fillFields, outlineFields, ddcFields, clampFields),

	KindCylinder: merge(Schema{
		"length":       number,
		"topRadius":    number,
		"bottomRadius": number,
		"slices":       number,
	}, fillFields, outlineFields, ddcFields, clampFields),

	KindEllipsoid: merge(Schema{
		"radii_x": number,
		"radii_y": number,
		"radii_z": number,
	}, fillFields, outlineFields, ddcFields, clampFields),

	KindPlane: merge(Schema{
		"dimensions_x":   number,
		"dimensions_y":   number,
		"plane_normal":   enum("x", "y", "z"),
		"plane_distance": number,
	}, fillFields, outlineFields, ddcFields, clampFields),

	KindCorridor: merge(Schema{
		"width":      number,
		"cornerType": enum("rounded", "mitered", "beveled"),
	}, fillFields, outlineFields, heightFields, ddcFields, clampFields),

	KindWall:   merge(Schema{"diffHeight": number}, fillFields, outlineFields, ddcFields, clampFields),
	KindVolume: merge(Schema{"diffHeight": number}, fillFields, outlineFields, ddcFields, clampFields),
}

func merge(base Schema, groups ...Schema) Schema {
	out := Schema{}
	for k, v := range base {
		out[k] = v
	}
	for _, g := range groups {
		for k, v := range g {
			if _, exists := out[k]; !exists {
				out[k] = v
			}
		}
	}
	return out
}

func fillTypeNames() []string {
	names := make([]string, 0, len(fillTypeAliases))
	for name := range fillTypeAliases {
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

// SchemaOf returns the known keys of a kind
func SchemaOf(kind Kind) Schema {
	return schemas[kind]
}

// Parse validates raw against the schema of kind and returns a cleaned
// config. Known keys are coerced to their canonical type (numbers become
// float64); keys written in snake_case or kebab-case whose lowerCamel form
// is known are renamed; unknown keys pass through. Invalid values are
// dropped and reported in the returned error, which wraps ErrInvalidStyle.
// The returned config is usable even when err is non-nil.
func Parse(kind Kind, raw map[string]any) (Config, error) {
	schema, ok := schemas[kind]
	if !ok {
		return Config{}, fmt.Errorf("%w: %q", ErrUnsupportedKind, kind)
	}

	cfg := make(Config, len(raw))
	var issues []error
	for key, value := range raw {
		name := key
		if _, known := schema[name]; !known {
			if camel := strcase.ToLowerCamel(key); camel != key {
				if _, known := schema[camel]; known {
					name = camel
				}
			}
		}

		field, known := schema[name]
		if !known {
			cfg[name] = value
			continue
		}

		coerced, err := coerce(field, value)
		if err != nil {
			issues = append(issues, fmt.Errorf("%s: %w", name, err))
			continue
		}
		cfg[name] = coerced
	}

	if len(issues) > 0 {
		return cfg, fmt.Errorf("%w for %s: %w", ErrInvalidStyle, kind, errors.Join(issues...))
	}
	return cfg, nil
}

func coerce(field Field, value any) (any, error) {
	switch field.Type {
	case TypeNumber:
		f, ok := toFloat(value)
		if !ok {
			return nil, fmt.Errorf("expected a number, got %T", value)
		}
		return f, nil
	case TypeBool:
		b, ok := toBool(value)
		if !ok {
			return nil, fmt.Errorf("expected a boolean, got %T", value)
		}
		return b, nil
	case TypeString:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("expected a string, got %T", value)
		}
		return s, nil
	case TypeColor:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("expected a color string, got %T", value)
		}
		if _, err := ParseColor(s); err != nil {
			return nil, err
		}
		return s, nil
	case TypeEnum:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("expected one of %v, got %T", field.Enum, value)
		}
		for _, allowed := range field.Enum {
			if strings.EqualFold(allowed, s) {
				return s, nil
			}
		}
		return nil, fmt.Errorf("expected one of %v, got %q", field.Enum, s)
	}
	return value, nil
}
