package mmath

import (
	"math"
	"testing"
)

func TestMQuaternionFromDirectionIdent(t *testing.T) {
	q := NewMQuaternionFromDirection(NewMVec3ByValues(0, 0, 1), NewMVec3ByValues(0, 1, 0))

	if !q.NearEquals(NewMQuaternion(), 1e-10) {
		t.Errorf("Expected identity, got %v", q)
	}
}

func TestMQuaternionFromDirectionZero(t *testing.T) {
	q := NewMQuaternionFromDirection(NewMVec3(), NewMVec3ByValues(0, 1, 0))

	if !q.NearEquals(NewMQuaternion(), 1e-10) {
		t.Errorf("Expected identity, got %v", q)
	}
}

func TestMQuaternionFromDirectionParallelUp(t *testing.T) {
	// upが方向と平行でも最短回転で向きは合わせる
	q := NewMQuaternionFromDirection(NewMVec3ByValues(1, 0, 0), NewMVec3ByValues(2, 0, 0))

	v := q.MulVec3(NewMVec3ByValues(0, 0, 1))
	if !v.NearEquals(NewMVec3ByValues(1, 0, 0), 1e-10) {
		t.Errorf("Expected [1,0,0], got %v", v)
	}
	if math.IsNaN(q.GetW()) {
		t.Errorf("Expected valid quaternion, got %v", q)
	}
}

func TestMQuaternionFromDirectionAxes(t *testing.T) {
	dir := NewMVec3ByValues(1, 2, -0.5)
	up := NewMVec3ByValues(0.2, -0.3, 1)
	q := NewMQuaternionFromDirection(dir, up)

	z := q.MulVec3(NewMVec3ByValues(0, 0, 1))
	if !z.NearEquals(dir.Normalized(), 1e-10) {
		t.Errorf("Expected %v, got %v", dir.Normalized(), z)
	}

	x := q.MulVec3(NewMVec3ByValues(1, 0, 0))
	expectedX := up.Cross(dir).Normalized()
	if !x.NearEquals(expectedX, 1e-10) {
		t.Errorf("Expected %v, got %v", expectedX, x)
	}
}

func TestMQuaternionRotationTo(t *testing.T) {
	q := NewMQuaternionRotationTo(NewMVec3ByValues(1, 0, 0), NewMVec3ByValues(0, 1, 0))

	expected := NewMQuaternionByValues(0, 0, math.Sqrt2/2, math.Sqrt2/2)
	if !q.NearEquals(expected, 1e-10) {
		t.Errorf("Expected %v, got %v", expected, q)
	}

	v := q.MulVec3(NewMVec3ByValues(3, 0, 0))
	if !v.NearEquals(NewMVec3ByValues(0, 3, 0), 1e-10) {
		t.Errorf("Expected [0,3,0], got %v", v)
	}
}

func TestMQuaternionRotationToOpposite(t *testing.T) {
	q := NewMQuaternionRotationTo(NewMVec3ByValues(1, 0, 0), NewMVec3ByValues(-1, 0, 0))

	v := q.MulVec3(NewMVec3ByValues(1, 0, 0))
	if !v.NearEquals(NewMVec3ByValues(-1, 0, 0), 1e-10) {
		t.Errorf("Expected [-1,0,0], got %v", v)
	}
}

func TestMQuaternionRotationToZero(t *testing.T) {
	q := NewMQuaternionRotationTo(NewMVec3(), NewMVec3ByValues(0, 1, 0))

	if !q.NearEquals(NewMQuaternion(), 1e-10) {
		t.Errorf("Expected identity, got %v", q)
	}
}

func TestMQuaternionEulerAngles(t *testing.T) {
	q := NewMQuaternionFromEulerAngles(10, 20, 30)
	degrees := q.ToEulerAngles()

	if !degrees.NearEquals(NewMVec3ByValues(10, 20, 30), 1e-8) {
		t.Errorf("Expected [10,20,30], got %v", degrees)
	}

	yaw := NewMQuaternionFromEulerAngles(0, 90, 0).ToEulerAngles()
	if !yaw.NearEquals(NewMVec3ByValues(0, 90, 0), 1e-8) {
		t.Errorf("Expected [0,90,0], got %v", yaw)
	}
}

func TestMQuaternionEulerOrder(t *testing.T) {
	// Y * X * Z の順で合成されること
	pitch := NewMQuaternionFromAxisAngle(NewMVec3ByValues(1, 0, 0), 15)
	yaw := NewMQuaternionFromAxisAngle(NewMVec3ByValues(0, 1, 0), 25)
	roll := NewMQuaternionFromAxisAngle(NewMVec3ByValues(0, 0, 1), 35)

	expected := yaw.Muled(pitch).Muled(roll)
	q := NewMQuaternionFromEulerAngles(15, 25, 35)

	if !q.SameRotation(expected, 1e-10) {
		t.Errorf("Expected %v, got %v", expected, q)
	}
}

func TestMQuaternionInverted(t *testing.T) {
	q := NewMQuaternionFromEulerAngles(12, -40, 3)
	ident := q.Muled(q.Inverted())

	if !ident.NearEquals(NewMQuaternion(), 1e-10) {
		t.Errorf("Expected identity, got %v", ident)
	}

	zero := &MQuaternion{}
	if !zero.Inverted().NearEquals(NewMQuaternion(), 1e-10) {
		t.Errorf("Expected identity, got %v", zero.Inverted())
	}
}

func TestSlerp(t *testing.T) {
	q1 := NewMQuaternion()
	q2 := NewMQuaternionFromAxisAngle(NewMVec3ByValues(0, 0, 1), 90)

	half := Slerp(q1, q2, 0.5)
	expected := NewMQuaternionFromAxisAngle(NewMVec3ByValues(0, 0, 1), 45)
	if !half.SameRotation(expected, 1e-10) {
		t.Errorf("Expected %v, got %v", expected, half)
	}

	// 符号違いでも最短経路
	negated := Slerp(q1, q2.Negated(), 0.5)
	if !negated.SameRotation(expected, 1e-10) {
		t.Errorf("Expected %v, got %v", expected, negated)
	}

	if !Slerp(q1, q2, 0).NearEquals(q1, 1e-10) {
		t.Errorf("Expected %v, got %v", q1, Slerp(q1, q2, 0))
	}
	if !Slerp(q1, q2, 1).NearEquals(q2, 1e-10) {
		t.Errorf("Expected %v, got %v", q2, Slerp(q1, q2, 1))
	}
}

func TestMMat4TranslateRotate(t *testing.T) {
	m := NewMMat4()
	m.Translate(NewMVec3ByValues(1, 0, 0))
	m.Rotate(NewMQuaternionFromAxisAngle(NewMVec3ByValues(0, 0, 1), 90))

	v := m.MulVec3(NewMVec3ByValues(1, 0, 0))
	if !v.NearEquals(NewMVec3ByValues(1, 1, 0), 1e-10) {
		t.Errorf("Expected [1,1,0], got %v", v)
	}

	chained := NewMMat4().Translate(NewMVec3ByValues(0, 2, 0)).Muled(m)
	cv := chained.MulVec3(NewMVec3ByValues(1, 0, 0))
	if !cv.NearEquals(NewMVec3ByValues(1, 3, 0), 1e-10) {
		t.Errorf("Expected [1,3,0], got %v", cv)
	}
}
