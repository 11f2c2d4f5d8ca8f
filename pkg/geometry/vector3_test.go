package geometry

import (
	"math"
	"testing"
)

func TestVector3Add(t *testing.T) {
	v1 := NewVector3(1, 2, 3)
	v2 := NewVector3(4, 5, 6)
	result := v1.Add(v2)

	expected := NewVector3(5, 7, 9)
	if result != expected {
		t.Errorf("Add failed: expected %v, got %v", expected, result)
	}
}

func TestVector3Sub(t *testing.T) {
	v1 := NewVector3(5, 7, 9)
	v2 := NewVector3(1, 2, 3)
	result := v1.Sub(v2)

	expected := NewVector3(4, 5, 6)
	if result != expected {
		t.Errorf("Sub failed: expected %v, got %v", expected, result)
	}
}

func TestVector3Length(t *testing.T) {
	v := NewVector3(3, 4, 0)
	length := v.Length()

	expected := 5.0
	if math.Abs(length-expected) > 1e-10 {
		t.Errorf("Length failed: expected %v, got %v", expected, length)
	}
}

func TestVector3Distance(t *testing.T) {
	v1 := NewVector3(0, 0, 0)
	v2 := NewVector3(3, 4, 0)
	distance := v1.Distance(v2)

	expected := 5.0
	if math.Abs(distance-expected) > 1e-10 {
		t.Errorf("Distance failed: expected %v, got %v", expected, distance)
	}
}

func TestVector3Normalize(t *testing.T) {
	v := NewVector3(3, 4, 0)
	normalized := v.Normalize()

	expectedLength := 1.0
	actualLength := normalized.Length()

	if math.Abs(actualLength-expectedLength) > 1e-10 {
		t.Errorf("Normalize failed: expected length %v, got %v", expectedLength, actualLength)
	}
}

func TestVector3Cross(t *testing.T) {
	v1 := NewVector3(1, 0, 0)
	v2 := NewVector3(0, 1, 0)
	result := v1.Cross(v2)

	expected := NewVector3(0, 0, 1)
	if result != expected {
		t.Errorf("Cross failed: expected %v, got %v", expected, result)
	}
}

func TestVector3Dot(t *testing.T) {
	v1 := NewVector3(1, 2, 3)
	v2 := NewVector3(4, 5, 6)
	result := v1.Dot(v2)

	expected := 32.0 // 1*4 + 2*5 + 3*6 = 32
	if math.Abs(result-expected) > 1e-10 {
		t.Errorf("Dot failed: expected %v, got %v", expected, result)
	}
}

func TestVector3Lerp(t *testing.T) {
	v1 := NewVector3(0, 0, 0)
	v2 := NewVector3(10, -4, 2)
	result := v1.Lerp(v2, 0.25)

	expected := NewVector3(2.5, -1, 0.5)
	if !result.Equals(expected, 1e-12) {
		t.Errorf("Lerp failed: expected %v, got %v", expected, result)
	}
}

func TestCentroid(t *testing.T) {
	points := []Vector3{
		NewVector3(0, 0, 0),
		NewVector3(2, 0, 0),
		NewVector3(2, 2, 0),
		NewVector3(0, 2, 0),
	}

	expected := NewVector3(1, 1, 0)
	if c := Centroid(points); c != expected {
		t.Errorf("Centroid failed: expected %v, got %v", expected, c)
	}
	if c := Centroid(nil); !c.IsZero() {
		t.Errorf("Centroid of nothing should be zero, got %v", c)
	}
}

func TestClonePointsDoesNotAlias(t *testing.T) {
	points := []Vector3{NewVector3(1, 2, 3)}
	clone := ClonePoints(points)
	clone[0].X = 99

	if points[0].X != 1 {
		t.Errorf("ClonePoints aliased the input slice")
	}
	if ClonePoints(nil) != nil {
		t.Errorf("ClonePoints(nil) should stay nil")
	}
}
