package usecase

import (
	"math"
	"testing"

	"github.com/miu200521358/pos2vmd/pkg/mmath"
	"github.com/miu200521358/pos2vmd/pkg/model"
	"github.com/miu200521358/pos2vmd/pkg/pmx"
	"github.com/miu200521358/pos2vmd/pkg/vmd"
)

// newTestSkeleton 足の長さ4ずつの簡易モデル
func newTestSkeleton() *pmx.SkeletonReference {
	skeleton := pmx.NewSkeletonReference()
	skeleton.Set(pmx.CENTER, mmath.NewMVec3ByValues(0, 8, 0))
	skeleton.Set(pmx.GROOVE, mmath.NewMVec3ByValues(0, 8.2, 0))
	skeleton.Set(pmx.LOWER, mmath.NewMVec3ByValues(0, 10, 0))
	skeleton.Set(pmx.UPPER, mmath.NewMVec3ByValues(0, 10, 0))
	skeleton.Set(pmx.NECK, mmath.NewMVec3ByValues(0, 15, 0))
	skeleton.Set(pmx.HEAD, mmath.NewMVec3ByValues(0, 16, 0))
	for _, direction := range []pmx.BoneDirection{pmx.BONE_DIRECTION_LEFT, pmx.BONE_DIRECTION_RIGHT} {
		x := 1.0
		if direction == pmx.BONE_DIRECTION_RIGHT {
			x = -1.0
		}
		skeleton.Set(pmx.LEG.By(direction), mmath.NewMVec3ByValues(x, 9, 0))
		skeleton.Set(pmx.KNEE.By(direction), mmath.NewMVec3ByValues(x, 5, 0))
		skeleton.Set(pmx.ANKLE.By(direction), mmath.NewMVec3ByValues(x, 1, 0))
		skeleton.Set(pmx.TOE.By(direction), mmath.NewMVec3ByValues(x, 0, -1))
		skeleton.Set(pmx.LEG_IK.By(direction), mmath.NewMVec3ByValues(x, 1, 0))
	}
	return skeleton
}

func newTestInputs(poses ...model.JointFrame) *model.Inputs {
	inputs := &model.Inputs{Positions: poses, Keypoints: make([]model.Keypoints2D, len(poses))}
	return inputs
}

// rotatedPose 基準姿勢を腰中心に回転させたもの
func rotatedPose(rotation *mmath.MQuaternion) model.JointFrame {
	pose := model.DefaultRestPose()
	hip := pose[model.HIP]
	for i := range pose {
		pose[i] = *rotation.MulVec3(pose[i].Subed(&hip)).Add(&hip)
	}
	return pose
}

func TestRotate_RestPoseIsIdentity(t *testing.T) {
	restPose := model.DefaultRestPose()
	// 拡大・平行移動しても回転は生じない
	inputs := newTestInputs(restPose, restPose.Transformed(2.5, mmath.NewMVec3ByValues(3, -1, 7)))

	state := Rotate(inputs, newTestSkeleton(), model.NewConfig())

	for _, bone := range append(append(append([]pmx.BoneId{}, trunkBones...), upperLimbBones...), legBones...) {
		if bone == pmx.UPPER2 {
			if state.Has(bone) {
				t.Errorf("Expected no %s without upper body2", bone)
			}
			continue
		}
		for n := range 2 {
			bf := state.Channel(bone).Get(n)
			if bf == nil {
				t.Fatalf("Expected %s frame %d", bone, n)
			}
			if !bf.Rotation.SameRotation(mmath.NewMQuaternion(), 1e-6) {
				t.Errorf("Expected identity for %s[%d], got %v", bone, n, bf.Rotation.String())
			}
		}
	}

	for _, bone := range []pmx.BoneId{pmx.CENTER, pmx.LEG_IK_L, pmx.LEG_IK_R} {
		if state.Channel(bone).Len() != 2 {
			t.Errorf("Expected 2 frames for %s, got %d", bone, state.Channel(bone).Len())
		}
	}
}

func TestRotate_WholeBodyYaw(t *testing.T) {
	yaw := mmath.NewMQuaternionFromEulerAngles(0, 40, 0)
	inputs := newTestInputs(rotatedPose(yaw))

	state := Rotate(inputs, newTestSkeleton(), model.NewConfig())

	for _, bone := range []pmx.BoneId{pmx.UPPER, pmx.LOWER} {
		rotation := &state.Channel(bone).Get(0).Rotation
		if !rotation.SameRotation(yaw, 1e-6) {
			t.Errorf("Expected %v for %s, got %v", yaw.String(), bone, rotation.String())
		}
	}
	// 親の回転はキャンセルされる
	for _, bone := range []pmx.BoneId{pmx.NECK, pmx.ARM_L, pmx.ELBOW_R, pmx.LEG_L, pmx.KNEE_R} {
		rotation := &state.Channel(bone).Get(0).Rotation
		if !rotation.SameRotation(mmath.NewMQuaternion(), 1e-6) {
			t.Errorf("Expected identity for %s, got %v", bone, rotation.String())
		}
	}
}

func TestRotate_UpperBody2(t *testing.T) {
	skeleton := newTestSkeleton()
	skeleton.Set(pmx.UPPER2, mmath.NewMVec3ByValues(0, 12, 0))
	inputs := newTestInputs(model.DefaultRestPose())

	state := Rotate(inputs, skeleton, model.NewConfig())

	if !state.Has(pmx.UPPER2) {
		t.Fatalf("Expected upper body2 frames")
	}
	rotation := &state.Channel(pmx.UPPER2).Get(0).Rotation
	if !rotation.SameRotation(mmath.NewMQuaternion(), 1e-6) {
		t.Errorf("Expected identity, got %v", rotation.String())
	}
}

func TestRotate_ForwardTilt(t *testing.T) {
	config := model.NewConfig()
	config.XAngle = 10
	inputs := newTestInputs(model.DefaultRestPose())

	state := Rotate(inputs, newTestSkeleton(), config)

	// 正面向きの上半身は1.5倍
	upper := state.Channel(pmx.UPPER).Get(0).Rotation.ToEulerAngles()
	if math.Abs(upper.GetX()-15) > 1e-6 {
		t.Errorf("Expected 15, got %f", upper.GetX())
	}
	lower := state.Channel(pmx.LOWER).Get(0).Rotation.ToEulerAngles()
	if math.Abs(lower.GetX()-10) > 1e-6 {
		t.Errorf("Expected 10, got %f", lower.GetX())
	}
}

func TestTierCorrection(t *testing.T) {
	config := model.NewConfig()
	config.XAngle = 10
	builder := newFrameBuilder(false, config)

	tests := []struct {
		tier     correctionTier
		yaw      float64
		expected float64
	}{
		{tierUpper, 0, 15},
		{tierUpper, 150, 10},
		{tierUpper, 90, 5},
		{tierUpper2, 0, 20},
		{tierUpper2, -170, 15},
		{tierLower, 60, 5},
	}

	for _, tt := range tests {
		quat := mmath.NewMQuaternionFromEulerAngles(0, tt.yaw, 0)
		actual := builder.tierCorrection(tt.tier, quat).ToEulerAngles().GetX()
		if math.Abs(actual-tt.expected) > 1e-6 {
			t.Errorf("Expected %f for tier %d yaw %f, got %f", tt.expected, tt.tier, tt.yaw, actual)
		}
	}
}

func TestBuildFrame_SecondaryTrunk(t *testing.T) {
	config := model.NewConfig()
	restPose := model.DefaultRestPose()
	tilted := rotatedPose(mmath.NewMQuaternionFromEulerAngles(60, 0, 0))
	inputs := &model.Inputs{
		Positions:          []model.JointFrame{restPose, restPose},
		SecondaryPositions: []model.JointFrame{restPose, tilted},
		Keypoints:          make([]model.Keypoints2D, 2),
	}
	builder := newFrameBuilder(false, config)

	first := builder.buildFrame(inputs, 0, nil)
	// 前フレームから大きく変わる補助姿勢は採用しない
	second := builder.buildFrame(inputs, 1, first)
	if !second[pmx.LOWER].SameRotation(mmath.NewMQuaternion(), 1e-6) {
		t.Errorf("Expected primary trunk, got %v", second[pmx.LOWER].String())
	}

	// 前フレームが近ければ傾いた補助姿勢を採用する
	prev := boneRotations{}
	for bone, rotation := range second {
		prev[bone] = rotation
	}
	prev[pmx.UPPER] = mmath.NewMQuaternionFromEulerAngles(50, 0, 0)
	prev[pmx.LOWER] = mmath.NewMQuaternionFromEulerAngles(50, 0, 0)
	third := builder.buildFrame(inputs, 1, prev)
	if math.Abs(third[pmx.LOWER].ToEulerAngles().GetX()-60) > 1e-4 {
		t.Errorf("Expected secondary trunk 60, got %v", third[pmx.LOWER].ToEulerAngles().String())
	}
}

func newStateWithRotations(bone pmx.BoneId, rotations ...*mmath.MQuaternion) *vmd.AnimationState {
	state := vmd.NewAnimationState()
	for n, rotation := range rotations {
		bf := vmd.NewBoneFrame(n)
		bf.Rotation = *rotation
		state.Channel(bone).Append(bf)
	}
	return state
}
