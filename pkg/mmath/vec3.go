package mmath

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type MVec3 mgl64.Vec3

func NewMVec3() *MVec3 {
	return &MVec3{}
}

func NewMVec3ByValues(x, y, z float64) *MVec3 {
	return &MVec3{x, y, z}
}

func (v *MVec3) GetX() float64 {
	return v[0]
}

func (v *MVec3) GetY() float64 {
	return v[1]
}

func (v *MVec3) GetZ() float64 {
	return v[2]
}

func (v *MVec3) SetX(x float64) {
	v[0] = x
}

func (v *MVec3) SetY(y float64) {
	v[1] = y
}

func (v *MVec3) SetZ(z float64) {
	v[2] = z
}

// XY XY平面に投影した2次元ベクトル
func (v *MVec3) XY() *MVec2 {
	return &MVec2{v[0], v[1]}
}

func (v *MVec3) Vector() mgl64.Vec3 {
	return mgl64.Vec3(*v)
}

func (v *MVec3) String() string {
	return fmt.Sprintf("[x=%.7f, y=%.7f, z=%.7f]", v[0], v[1], v[2])
}

func (v *MVec3) Copy() *MVec3 {
	copied := *v
	return &copied
}

// Add 加算（自身を書き換える）
func (v *MVec3) Add(other *MVec3) *MVec3 {
	*v = MVec3(v.Vector().Add(other.Vector()))
	return v
}

// Added 加算した新しいベクトル
func (v *MVec3) Added(other *MVec3) *MVec3 {
	added := MVec3(v.Vector().Add(other.Vector()))
	return &added
}

func (v *MVec3) Sub(other *MVec3) *MVec3 {
	*v = MVec3(v.Vector().Sub(other.Vector()))
	return v
}

func (v *MVec3) Subed(other *MVec3) *MVec3 {
	subed := MVec3(v.Vector().Sub(other.Vector()))
	return &subed
}

func (v *MVec3) MulScalar(s float64) *MVec3 {
	*v = MVec3(v.Vector().Mul(s))
	return v
}

func (v *MVec3) MuledScalar(s float64) *MVec3 {
	muled := MVec3(v.Vector().Mul(s))
	return &muled
}

func (v *MVec3) DivScalar(s float64) *MVec3 {
	if s == 0 {
		*v = MVec3{}
		return v
	}
	return v.MulScalar(1 / s)
}

func (v *MVec3) Dot(other *MVec3) float64 {
	return v.Vector().Dot(other.Vector())
}

// Cross 外積
func (v *MVec3) Cross(other *MVec3) *MVec3 {
	crossed := MVec3(v.Vector().Cross(other.Vector()))
	return &crossed
}

func (v *MVec3) Length() float64 {
	return v.Vector().Len()
}

func (v *MVec3) LengthSqr() float64 {
	return v.Dot(v)
}

// Normalized 正規化した新しいベクトル。長さ0の場合はゼロベクトルのまま
func (v *MVec3) Normalized() *MVec3 {
	l := v.Length()
	if l < fuzzyEpsilon {
		return NewMVec3()
	}
	return v.MuledScalar(1 / l)
}

func (v *MVec3) Normalize() *MVec3 {
	*v = *v.Normalized()
	return v
}

func (v *MVec3) Distance(other *MVec3) float64 {
	return v.Subed(other).Length()
}

func (v *MVec3) IsZero() bool {
	return isFuzzyNull(v[0]) && isFuzzyNull(v[1]) && isFuzzyNull(v[2])
}

func (v *MVec3) NearEquals(other *MVec3, epsilon float64) bool {
	return math.Abs(v[0]-other[0]) <= epsilon &&
		math.Abs(v[1]-other[1]) <= epsilon &&
		math.Abs(v[2]-other[2]) <= epsilon
}

func (v *MVec3) Equals(other *MVec3) bool {
	return v[0] == other[0] && v[1] == other[1] && v[2] == other[2]
}

// Lerp 線形補間
func (v *MVec3) Lerp(other *MVec3, t float64) *MVec3 {
	return v.Added(other.Subed(v).MuledScalar(t))
}
