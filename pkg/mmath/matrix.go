package mmath

import "github.com/go-gl/mathgl/mgl64"

// MMat4 列優先の4x4行列
type MMat4 mgl64.Mat4

func NewMMat4() *MMat4 {
	m := MMat4(mgl64.Ident4())
	return &m
}

func (m *MMat4) Mat4() mgl64.Mat4 {
	return mgl64.Mat4(*m)
}

// Muled 積(m * other)
func (m *MMat4) Muled(other *MMat4) *MMat4 {
	muled := MMat4(m.Mat4().Mul4(other.Mat4()))
	return &muled
}

// Translate 右から平行移動を掛ける
func (m *MMat4) Translate(v *MVec3) *MMat4 {
	*m = MMat4(m.Mat4().Mul4(mgl64.Translate3D(v[0], v[1], v[2])))
	return m
}

// Rotate 右から回転を掛ける
func (m *MMat4) Rotate(q *MQuaternion) *MMat4 {
	*m = MMat4(m.Mat4().Mul4(q.ToMat4().Mat4()))
	return m
}

// MulVec3 点として変換する
func (m *MMat4) MulVec3(v *MVec3) *MVec3 {
	transformed := MVec3(m.Mat4().Mul4x1(v.Vector().Vec4(1)).Vec3())
	return &transformed
}

func (m *MMat4) Translation() *MVec3 {
	return &MVec3{m[12], m[13], m[14]}
}
