// Package style maps flat style records onto renderer attribute bags.
//
// A style record (Config) is an open map of primitives. Each geometry kind
// has a schema naming the keys the translator understands; keys outside the
// schema pass through to the attribute bag untouched so that renderer
// features this package does not know about still reach the host.
package style

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedKind is returned for kind names outside the supported set
var ErrUnsupportedKind = errors.New("unsupported kind")

// Kind identifies a geometry kind
type Kind string

const (
	KindPoint     Kind = "point"
	KindBillboard Kind = "billboard"
	KindLabel     Kind = "label"
	KindModel     Kind = "model"
	KindBox       Kind = "box"
	KindPlane     Kind = "plane"
	KindCylinder  Kind = "cylinder"
	KindEllipsoid Kind = "ellipsoid"
	KindPolyline  Kind = "polyline"
	KindCorridor  Kind = "corridor"
	KindWall      Kind = "wall"
	KindVolume    Kind = "volume"
	KindPolygon   Kind = "polygon"
	KindCircle    Kind = "circle"
	KindEllipse   Kind = "ellipse"
	KindRectangle Kind = "rectangle"
)

// Family groups kinds by their pointer protocol
type Family int

const (
	// FamilySinglePoint kinds are placed with one click
	FamilySinglePoint Family = iota
	// FamilyOpen kinds collect an open list of points
	FamilyOpen
	// FamilyClosed kinds collect a ring of points
	FamilyClosed
	// FamilyFixed kinds collect a fixed number of points
	FamilyFixed
)

func (f Family) String() string {
	switch f {
	case FamilySinglePoint:
		return "single-point"
	case FamilyOpen:
		return "open"
	case FamilyClosed:
		return "closed"
	case FamilyFixed:
		return "fixed"
	}
	return fmt.Sprintf("family(%d)", int(f))
}

var allKinds = []Kind{
	KindPoint, KindBillboard, KindLabel, KindModel,
	KindBox, KindPlane, KindCylinder, KindEllipsoid,
	KindPolyline, KindCorridor, KindWall, KindVolume,
	KindPolygon, KindCircle, KindEllipse, KindRectangle,
}

// AllKinds returns every supported kind in a stable order
func AllKinds() []Kind {
	out := make([]Kind, len(allKinds))
	copy(out, allKinds)
	return out
}

// ParseKind converts a kind name, case-insensitively
func ParseKind(name string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(name)))
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedKind, name)
	}
	return k, nil
}

// Valid reports whether k is one of the supported kinds
func (k Kind) Valid() bool {
	for _, known := range allKinds {
		if k == known {
			return true
		}
	}
	return false
}

// Family returns the pointer protocol family of the kind
func (k Kind) Family() Family {
	switch k {
	case KindPolyline, KindCorridor, KindWall, KindVolume:
		return FamilyOpen
	case KindPolygon:
		return FamilyClosed
	case KindCircle, KindEllipse, KindRectangle:
		return FamilyFixed
	}
	return FamilySinglePoint
}

// Extrudable reports whether the kind carries a vertical extrusion that
// can be edited with height handles.
func (k Kind) Extrudable() bool {
	switch k {
	case KindWall, KindVolume, KindPolygon, KindCircle, KindEllipse, KindRectangle:
		return true
	}
	return false
}

func (k Kind) String() string {
	return string(k)
}
