package usecase

import (
	"math"
	"testing"

	"github.com/miu200521358/pos2vmd/pkg/mmath"
	"github.com/miu200521358/pos2vmd/pkg/pmx"
)

func TestSmooth_Rotation(t *testing.T) {
	state := newStateWithRotations(pmx.ARM_L, yawRotations(0, 40, 10, 20)...)

	Smooth(state, []pmx.BoneId{pmx.ARM_L}, nil, 1)

	// 前のフレームから順に上書きする
	expected := []float64{0, 5, 12.5, 20}
	for n, e := range expected {
		yaw := state.Channel(pmx.ARM_L).Get(n).Rotation.ToEulerAngles().GetY()
		if math.Abs(yaw-e) > 1e-6 {
			t.Errorf("Expected %f at %d, got %f", e, n, yaw)
		}
	}
}

func TestSmooth_RotationBounded(t *testing.T) {
	raw := []float64{0, 30, -20, 45, 10, -5, 25}
	state := newStateWithRotations(pmx.UPPER, yawRotations(raw...)...)

	Smooth(state, []pmx.BoneId{pmx.UPPER}, nil, 3)

	for n := range raw {
		yaw := state.Channel(pmx.UPPER).Get(n).Rotation.ToEulerAngles().GetY()
		if yaw < -20-1e-6 || yaw > 45+1e-6 {
			t.Errorf("Expected within [-20,45] at %d, got %f", n, yaw)
		}
	}
	// 先頭と末尾は変わらない
	if yaw := state.Channel(pmx.UPPER).Get(0).Rotation.ToEulerAngles().GetY(); math.Abs(yaw) > 1e-6 {
		t.Errorf("Expected 0, got %f", yaw)
	}
	if yaw := state.Channel(pmx.UPPER).Get(6).Rotation.ToEulerAngles().GetY(); math.Abs(yaw-25) > 1e-6 {
		t.Errorf("Expected 25, got %f", yaw)
	}
}

func TestSmooth_Position(t *testing.T) {
	state := newCenterState(0)
	appendPositions(state, pmx.CENTER, []mmath.MVec3{
		{0, 0, 0}, {0, 0, 0}, {0, 0, 0}, {10, 0, 0}, {0, 0, 0}, {6, 0, 0},
	})

	Smooth(state, nil, []pmx.BoneId{pmx.CENTER}, 1)

	// 4フレーム目から補間する
	expected := []float64{0, 0, 0, 10, 8, 6}
	for n, e := range expected {
		if x := state.Channel(pmx.CENTER).Get(n).Position.GetX(); math.Abs(x-e) > 1e-8 {
			t.Errorf("Expected %f at %d, got %f", e, n, x)
		}
	}
}

func TestSmooth_Zero(t *testing.T) {
	state := newStateWithRotations(pmx.ARM_L, yawRotations(0, 40, 10)...)

	Smooth(state, []pmx.BoneId{pmx.ARM_L}, nil, 0)

	if yaw := state.Channel(pmx.ARM_L).Get(1).Rotation.ToEulerAngles().GetY(); math.Abs(yaw-40) > 1e-6 {
		t.Errorf("Expected 40, got %f", yaw)
	}
}

func yawRotations(yaws ...float64) []*mmath.MQuaternion {
	rotations := make([]*mmath.MQuaternion, len(yaws))
	for i, yaw := range yaws {
		rotations[i] = mmath.NewMQuaternionFromEulerAngles(0, yaw, 0)
	}
	return rotations
}
