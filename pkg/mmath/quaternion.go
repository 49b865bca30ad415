package mmath

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type MQuaternion mgl64.Quat

func NewMQuaternion() *MQuaternion {
	q := MQuaternion(mgl64.QuatIdent())
	return &q
}

func NewMQuaternionByValues(x, y, z, w float64) *MQuaternion {
	return &MQuaternion{W: w, V: mgl64.Vec3{x, y, z}}
}

func (q *MQuaternion) GetX() float64 {
	return q.V[0]
}

func (q *MQuaternion) GetY() float64 {
	return q.V[1]
}

func (q *MQuaternion) GetZ() float64 {
	return q.V[2]
}

func (q *MQuaternion) GetW() float64 {
	return q.W
}

func (q *MQuaternion) Quat() mgl64.Quat {
	return mgl64.Quat(*q)
}

func (q *MQuaternion) String() string {
	return fmt.Sprintf("[x=%.7f, y=%.7f, z=%.7f, w=%.7f]", q.V[0], q.V[1], q.V[2], q.W)
}

func (q *MQuaternion) Copy() *MQuaternion {
	copied := *q
	return &copied
}

// Muled 積(q * other)
func (q *MQuaternion) Muled(other *MQuaternion) *MQuaternion {
	muled := MQuaternion(q.Quat().Mul(other.Quat()))
	return &muled
}

// Inverted 逆回転。長さ0の場合は単位クォータニオン
func (q *MQuaternion) Inverted() *MQuaternion {
	lenSqr := q.Quat().Dot(q.Quat())
	if isFuzzyNull(lenSqr) {
		return NewMQuaternion()
	}
	inverted := MQuaternion(q.Quat().Inverse())
	return &inverted
}

func (q *MQuaternion) Normalized() *MQuaternion {
	normalized := MQuaternion(q.Quat().Normalize())
	return &normalized
}

func (q *MQuaternion) Dot(other *MQuaternion) float64 {
	return q.Quat().Dot(other.Quat())
}

func (q *MQuaternion) Negated() *MQuaternion {
	return &MQuaternion{W: -q.W, V: q.V.Mul(-1)}
}

// MulVec3 ベクトルを回転させる
func (q *MQuaternion) MulVec3(v *MVec3) *MVec3 {
	rotated := MVec3(q.Quat().Rotate(v.Vector()))
	return &rotated
}

func (q *MQuaternion) IsIdent() bool {
	return q.NearEquals(NewMQuaternion(), 1e-8)
}

func (q *MQuaternion) NearEquals(other *MQuaternion, epsilon float64) bool {
	return math.Abs(q.W-other.W) <= epsilon &&
		math.Abs(q.V[0]-other.V[0]) <= epsilon &&
		math.Abs(q.V[1]-other.V[1]) <= epsilon &&
		math.Abs(q.V[2]-other.V[2]) <= epsilon
}

// SameRotation 符号違いも同じ回転とみなす
func (q *MQuaternion) SameRotation(other *MQuaternion, epsilon float64) bool {
	return q.NearEquals(other, epsilon) || q.NearEquals(other.Negated(), epsilon)
}

func (q *MQuaternion) Equals(other *MQuaternion) bool {
	return q.W == other.W && q.V == other.V
}

// ToEulerAngles オイラー角(度)。x=pitch, y=yaw, z=roll
func (q *MQuaternion) ToEulerAngles() *MVec3 {
	xx := q.V[0] * q.V[0]
	xy := q.V[0] * q.V[1]
	xz := q.V[0] * q.V[2]
	xw := q.V[0] * q.W
	yy := q.V[1] * q.V[1]
	yz := q.V[1] * q.V[2]
	yw := q.V[1] * q.W
	zz := q.V[2] * q.V[2]
	zw := q.V[2] * q.W

	lengthSqr := xx + yy + zz + q.W*q.W
	if !isFuzzyNull(lengthSqr-1) && !isFuzzyNull(lengthSqr) {
		xx /= lengthSqr
		xy /= lengthSqr
		xz /= lengthSqr
		xw /= lengthSqr
		yy /= lengthSqr
		yz /= lengthSqr
		yw /= lengthSqr
		zz /= lengthSqr
		zw /= lengthSqr
	}

	var pitch, yaw, roll float64
	pitch = SafeAsin(-2 * (yz - xw))
	if pitch < math.Pi/2 {
		if pitch > -math.Pi/2 {
			yaw = math.Atan2(2*(xz+yw), 1-2*(xx+yy))
			roll = math.Atan2(2*(xy+zw), 1-2*(xx+zz))
		} else {
			// 一意に決まらない
			roll = 0
			yaw = -math.Atan2(-2*(xy-zw), 1-2*(yy+zz))
		}
	} else {
		roll = 0
		yaw = math.Atan2(-2*(xy-zw), 1-2*(yy+zz))
	}

	return &MVec3{ToDegree(pitch), ToDegree(yaw), ToDegree(roll)}
}

// NewMQuaternionFromEulerAngles オイラー角(度)から回転を生成する。Y * X * Z の順で合成
func NewMQuaternionFromEulerAngles(pitch, yaw, roll float64) *MQuaternion {
	p := ToRadian(pitch) * 0.5
	y := ToRadian(yaw) * 0.5
	r := ToRadian(roll) * 0.5

	c1 := math.Cos(y)
	s1 := math.Sin(y)
	c2 := math.Cos(r)
	s2 := math.Sin(r)
	c3 := math.Cos(p)
	s3 := math.Sin(p)
	c1c2 := c1 * c2
	s1s2 := s1 * s2

	return &MQuaternion{
		W: c1c2*c3 + s1s2*s3,
		V: mgl64.Vec3{
			c1c2*s3 + s1s2*c3,
			s1*c2*c3 - c1*s2*s3,
			c1*s2*c3 - s1*c2*s3,
		},
	}
}

func NewMQuaternionFromAxisAngle(axis *MVec3, degree float64) *MQuaternion {
	a := axis.Normalized()
	rad := ToRadian(degree) * 0.5
	s := math.Sin(rad)
	return (&MQuaternion{W: math.Cos(rad), V: mgl64.Vec3{a[0] * s, a[1] * s, a[2] * s}}).Normalized()
}

// NewMQuaternionRotationTo fromからtoへの最短回転
func NewMQuaternionRotationTo(from, to *MVec3) *MQuaternion {
	v0 := from.Normalized()
	v1 := to.Normalized()
	d := v0.Dot(v1) + 1

	if isFuzzyNull(d) {
		// 真逆の場合はどの軸でもよい
		axis := NewMVec3ByValues(1, 0, 0).Cross(v0)
		if isFuzzyNull(axis.LengthSqr()) {
			axis = NewMVec3ByValues(0, 1, 0).Cross(v0)
		}
		axis.Normalize()
		return &MQuaternion{W: 0, V: axis.Vector()}
	}

	d = math.Sqrt(2 * d)
	axis := v0.Cross(v1).MuledScalar(1 / d)
	return (&MQuaternion{W: d * 0.5, V: axis.Vector()}).Normalized()
}

// NewMQuaternionFromAxes 3軸(回転行列の列)から回転を生成する
func NewMQuaternionFromAxes(xAxis, yAxis, zAxis *MVec3) *MQuaternion {
	// m[row][col]
	m := [3][3]float64{
		{xAxis[0], yAxis[0], zAxis[0]},
		{xAxis[1], yAxis[1], zAxis[1]},
		{xAxis[2], yAxis[2], zAxis[2]},
	}

	var scalar float64
	var axis [3]float64

	trace := m[0][0] + m[1][1] + m[2][2]
	if trace > 1e-8 {
		s := 2 * math.Sqrt(trace+1)
		scalar = 0.25 * s
		axis[0] = (m[2][1] - m[1][2]) / s
		axis[1] = (m[0][2] - m[2][0]) / s
		axis[2] = (m[1][0] - m[0][1]) / s
	} else {
		next := [3]int{1, 2, 0}
		i := 0
		if m[1][1] > m[0][0] {
			i = 1
		}
		if m[2][2] > m[i][i] {
			i = 2
		}
		j := next[i]
		k := next[j]

		s := 2 * math.Sqrt(m[i][i]-m[j][j]-m[k][k]+1)
		axis[i] = 0.25 * s
		scalar = (m[k][j] - m[j][k]) / s
		axis[j] = (m[j][i] + m[i][j]) / s
		axis[k] = (m[k][i] + m[i][k]) / s
	}

	return &MQuaternion{W: scalar, V: mgl64.Vec3{axis[0], axis[1], axis[2]}}
}

// NewMQuaternionFromDirection Z軸をdirectionに、Y軸をupに近づける回転
func NewMQuaternionFromDirection(direction, up *MVec3) *MQuaternion {
	if direction.IsZero() {
		return NewMQuaternion()
	}

	zAxis := direction.Normalized()
	xAxis := up.Cross(zAxis)
	if isFuzzyNull(xAxis.LengthSqr()) {
		// upが平行もしくは不正な場合は最短回転
		return NewMQuaternionRotationTo(NewMVec3ByValues(0, 0, 1), zAxis)
	}
	xAxis.Normalize()
	yAxis := zAxis.Cross(xAxis)

	return NewMQuaternionFromAxes(xAxis, yAxis, zAxis)
}

// Slerp 球面線形補間（最短経路）
func Slerp(q1, q2 *MQuaternion, t float64) *MQuaternion {
	if t <= 0 {
		return q1.Copy()
	} else if t >= 1 {
		return q2.Copy()
	}

	q2b := q2.Copy()
	dot := q1.Dot(q2)
	if dot < 0 {
		q2b = q2.Negated()
		dot = -dot
	}

	factor1 := 1 - t
	factor2 := t
	if 1-dot > 1e-7 {
		angle := math.Acos(Clamp(dot, -1.0, 1.0))
		sinOfAngle := math.Sin(angle)
		if sinOfAngle > 1e-7 {
			factor1 = math.Sin((1-t)*angle) / sinOfAngle
			factor2 = math.Sin(t*angle) / sinOfAngle
		}
	}

	return &MQuaternion{
		W: q1.W*factor1 + q2b.W*factor2,
		V: q1.V.Mul(factor1).Add(q2b.V.Mul(factor2)),
	}
}

// ToMat4 回転行列
func (q *MQuaternion) ToMat4() *MMat4 {
	m := MMat4(q.Normalized().Quat().Mat4())
	return &m
}
