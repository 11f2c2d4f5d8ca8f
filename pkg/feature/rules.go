package feature

import (
	"math"

	"github.com/philipparndt/geodraw/pkg/style"
)

// Rules bound the number of control points of a kind
type Rules struct {
	MinPoints int
	MaxPoints int
	// AutoFinish ends drawing as soon as MaxPoints are placed; otherwise
	// further clicks are ignored until a double click
	AutoFinish bool
}

// Unbounded is the MaxPoints of kinds without an upper limit
const Unbounded = math.MaxInt

// DefaultRules returns the point rules of kind
func DefaultRules(kind style.Kind) Rules {
	switch kind {
	case style.KindPolyline, style.KindCorridor, style.KindWall, style.KindVolume:
		return Rules{MinPoints: 2, MaxPoints: Unbounded, AutoFinish: true}
	case style.KindPolygon:
		return Rules{MinPoints: 3, MaxPoints: Unbounded, AutoFinish: true}
	case style.KindCircle, style.KindRectangle:
		return Rules{MinPoints: 2, MaxPoints: 2, AutoFinish: true}
	case style.KindEllipse:
		return Rules{MinPoints: 2, MaxPoints: 3, AutoFinish: true}
	}
	return Rules{MinPoints: 1, MaxPoints: 1, AutoFinish: true}
}

// Allows reports whether n control points satisfy the rules
func (r Rules) Allows(n int) bool {
	return n >= r.MinPoints && n <= r.MaxPoints
}
