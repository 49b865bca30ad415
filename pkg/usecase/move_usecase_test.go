package usecase

import (
	"math"
	"testing"

	"github.com/miu200521358/pos2vmd/pkg/mmath"
	"github.com/miu200521358/pos2vmd/pkg/model"
	"github.com/miu200521358/pos2vmd/pkg/pmx"
	"github.com/miu200521358/pos2vmd/pkg/vmd"
)

func newTestKeypoints(dx, dy float64) model.Keypoints2D {
	var k model.Keypoints2D
	k[model.KP_NECK] = mmath.MVec2{100 + dx, 50 + dy}
	k[model.KP_RIGHT_HIP] = mmath.MVec2{90 + dx, 150 + dy}
	k[model.KP_LEFT_HIP] = mmath.MVec2{110 + dx, 150 + dy}
	k[model.KP_RIGHT_KNEE] = mmath.MVec2{90 + dx, 225 + dy}
	k[model.KP_LEFT_KNEE] = mmath.MVec2{110 + dx, 225 + dy}
	k[model.KP_RIGHT_ANKLE] = mmath.MVec2{90 + dx, 300 + dy}
	k[model.KP_LEFT_ANKLE] = mmath.MVec2{110 + dx, 300 + dy}
	return k
}

func newCenterState(count int) *vmd.AnimationState {
	state := vmd.NewAnimationState()
	appendPositions(state, pmx.CENTER, make([]mmath.MVec3, count))
	return state
}

func TestCalcCenter(t *testing.T) {
	config := model.NewConfig()
	config.CenterXYScale = 10
	inputs := &model.Inputs{
		Positions: make([]model.JointFrame, 2),
		Keypoints: []model.Keypoints2D{newTestKeypoints(0, 0), newTestKeypoints(10, -20)},
	}
	state := newCenterState(2)

	CalcCenter(state, inputs, newTestSkeleton(), []int{0}, config)

	// 面積比 6/1000*10、足首の倍率 1/300*(10/100)
	scale := 0.06
	ankleScale := 1.0 / 3000
	expected := []mmath.MVec3{
		{0, -300 * ankleScale, 0},
		{10 * scale, 20*scale - 280*ankleScale, 0},
	}
	for n, e := range expected {
		actual := state.Channel(pmx.CENTER).Get(n).Position
		if !actual.NearEquals(&e, 1e-8) {
			t.Errorf("Expected %v, got %v", e.String(), actual.String())
		}
	}
}

func TestCalcCenter_UprightTarget(t *testing.T) {
	config := model.NewConfig()
	config.CenterXYScale = 10
	config.HeelPosition = 0.5
	inputs := &model.Inputs{
		Positions:     make([]model.JointFrame, 1),
		Keypoints:     []model.Keypoints2D{newTestKeypoints(0, 0)},
		UprightTarget: &model.UprightTarget{Center: mmath.MVec3{3, 0, 0}},
	}
	state := newCenterState(1)

	CalcCenter(state, inputs, newTestSkeleton(), []int{0}, config)

	actual := state.Channel(pmx.CENTER).Get(0).Position
	if math.Abs(actual.GetX()-3) > 1e-8 {
		t.Errorf("Expected 3, got %f", actual.GetX())
	}
	if math.Abs(actual.GetY()-(0.5-0.1)) > 1e-8 {
		t.Errorf("Expected 0.4, got %f", actual.GetY())
	}
}

func TestCalcCenter_DegenerateTriangle(t *testing.T) {
	config := model.NewConfig()
	config.CenterXYScale = 10
	// 首と両足が一直線
	k := newTestKeypoints(0, 0)
	k[model.KP_NECK] = mmath.MVec2{100, 150}
	inputs := &model.Inputs{
		Positions: make([]model.JointFrame, 2),
		Keypoints: []model.Keypoints2D{k, newTestKeypoints(10, -20)},
	}
	state := newCenterState(2)

	CalcCenter(state, inputs, newTestSkeleton(), []int{0}, config)

	for n := range 2 {
		position := state.Channel(pmx.CENTER).Get(n).Position
		if !position.IsZero() {
			t.Errorf("Expected zero, got %v", position.String())
		}
	}
}

func TestCalcCenter_ZeroScale(t *testing.T) {
	inputs := &model.Inputs{
		Positions: make([]model.JointFrame, 1),
		Keypoints: []model.Keypoints2D{newTestKeypoints(10, 10)},
	}
	state := newCenterState(1)

	CalcCenter(state, inputs, newTestSkeleton(), []int{0}, model.NewConfig())

	if position := state.Channel(pmx.CENTER).Get(0).Position; !position.IsZero() {
		t.Errorf("Expected zero, got %v", position.String())
	}
}
