package mmath

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type MVec2 mgl64.Vec2

func NewMVec2() *MVec2 {
	return &MVec2{}
}

func (v *MVec2) GetX() float64 {
	return v[0]
}

func (v *MVec2) GetY() float64 {
	return v[1]
}

func (v *MVec2) SetX(x float64) {
	v[0] = x
}

func (v *MVec2) SetY(y float64) {
	v[1] = y
}

func (v *MVec2) String() string {
	return fmt.Sprintf("[x=%.5f, y=%.5f]", v[0], v[1])
}

func (v *MVec2) Subed(other *MVec2) *MVec2 {
	subed := MVec2(mgl64.Vec2(*v).Sub(mgl64.Vec2(*other)))
	return &subed
}

func (v *MVec2) Added(other *MVec2) *MVec2 {
	added := MVec2(mgl64.Vec2(*v).Add(mgl64.Vec2(*other)))
	return &added
}

func (v *MVec2) Length() float64 {
	return mgl64.Vec2(*v).Len()
}

func (v *MVec2) NearEquals(other *MVec2, epsilon float64) bool {
	return math.Abs(v[0]-other[0]) <= epsilon && math.Abs(v[1]-other[1]) <= epsilon
}

// TriangleArea 3点がなす三角形の面積
func TriangleArea(a, b, c *MVec2) float64 {
	return math.Abs(((a[1]-c[1])*(b[0]-c[0]) + (b[1]-c[1])*(c[0]-a[0])) / 2)
}
