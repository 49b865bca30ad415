package mmath

import (
	"math"
	"testing"
)

func TestSlopeAngle(t *testing.T) {
	angle := SlopeAngle([]float64{0, 1, 2}, []float64{0, 1, 2})
	if math.Abs(angle-45) > 1e-8 {
		t.Errorf("Expected 45, got %f", angle)
	}

	angle = SlopeAngle([]float64{0, 1, 2}, []float64{0, -1, -2})
	if math.Abs(angle+45) > 1e-8 {
		t.Errorf("Expected -45, got %f", angle)
	}
}

func TestSlopeAngleDegenerate(t *testing.T) {
	if angle := SlopeAngle([]float64{1}, []float64{2}); angle != 0 {
		t.Errorf("Expected 0, got %f", angle)
	}
	if angle := SlopeAngle(nil, nil); angle != 0 {
		t.Errorf("Expected 0, got %f", angle)
	}
	if angle := SlopeAngle([]float64{3, 3, 3}, []float64{1, 1, 1}); angle != 0 {
		t.Errorf("Expected 0, got %f", angle)
	}
	if angle := SlopeAngle([]float64{3, 3, 3}, []float64{1, 2, 3}); angle != 0 {
		t.Errorf("Expected 0, got %f", angle)
	}
}

func TestTriangleArea(t *testing.T) {
	area := TriangleArea(&MVec2{0, 0}, &MVec2{2, 0}, &MVec2{0, 2})
	if area != 2 {
		t.Errorf("Expected 2, got %f", area)
	}

	collinear := TriangleArea(&MVec2{0, 0}, &MVec2{1, 1}, &MVec2{2, 2})
	if collinear != 0 {
		t.Errorf("Expected 0, got %f", collinear)
	}
}

func TestLawOfCosinesDegree(t *testing.T) {
	if angle := LawOfCosinesDegree(0, 1, 1); angle != 0 {
		t.Errorf("Expected 0, got %f", angle)
	}
	if angle := LawOfCosinesDegree(1, 1, math.Sqrt2); math.Abs(angle-90) > 1e-8 {
		t.Errorf("Expected 90, got %f", angle)
	}
	// 定義域外はクランプ
	if angle := LawOfCosinesDegree(1, 1, 5); math.IsNaN(angle) || math.Abs(angle-180) > 1e-8 {
		t.Errorf("Expected 180, got %f", angle)
	}
	if angle := LawOfCosinesDegree(10, 1, 1); math.IsNaN(angle) || angle != 0 {
		t.Errorf("Expected 0, got %f", angle)
	}
}

func TestMVec3Normalized(t *testing.T) {
	v := NewMVec3ByValues(3, 0, 4).Normalized()
	if !v.NearEquals(NewMVec3ByValues(0.6, 0, 0.8), 1e-10) {
		t.Errorf("Expected [0.6,0,0.8], got %v", v)
	}

	zero := NewMVec3().Normalized()
	if !zero.IsZero() {
		t.Errorf("Expected zero, got %v", zero)
	}
}

func TestClamp(t *testing.T) {
	if v := Clamp(5, 0, 3); v != 3 {
		t.Errorf("Expected 3, got %d", v)
	}
	if v := Clamp(-1.5, -1.0, 1.0); v != -1.0 {
		t.Errorf("Expected -1, got %f", v)
	}
}
