package usecase

import (
	"errors"
	"testing"

	"golang.org/x/exp/slices"

	"github.com/miu200521358/pos2vmd/pkg/mmath"
	"github.com/miu200521358/pos2vmd/pkg/model"
	"github.com/miu200521358/pos2vmd/pkg/mutils/merr"
	"github.com/miu200521358/pos2vmd/pkg/pmx"
)

func newStaticInputs(count int) *model.Inputs {
	inputs := &model.Inputs{
		Positions: make([]model.JointFrame, count),
		Keypoints: make([]model.Keypoints2D, count),
	}
	for n := range count {
		inputs.Positions[n] = model.DefaultRestPose()
		inputs.Keypoints[n] = newTestKeypoints(0, 0)
	}
	return inputs
}

func TestConvert_StaticPose(t *testing.T) {
	config := newDecimationConfig()
	config.CenterXYScale = 10

	state, target, err := Convert(newStaticInputs(10), newTestSkeleton(), config)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	for _, bone := range []pmx.BoneId{pmx.UPPER, pmx.LOWER, pmx.NECK, pmx.HEAD, pmx.ARM_L, pmx.ELBOW_R, pmx.LEG_L} {
		for _, bf := range state.Channel(bone).Frames() {
			if !bf.Rotation.SameRotation(mmath.NewMQuaternion(), 1e-6) {
				t.Errorf("Expected identity for %s[%d], got %v", bone, bf.Index, bf.Rotation.String())
			}
		}
	}
	if state.Has(pmx.KNEE_L) || !state.IkEnabled {
		t.Errorf("Expected knees driven by leg ik")
	}
	if state.Channel(pmx.LEG_IK_L).Len() != 10 {
		t.Errorf("Expected 10 leg ik frames, got %d", state.Channel(pmx.LEG_IK_L).Len())
	}
	// 上下の移動はグルーブに移る
	if !state.Has(pmx.GROOVE) || state.Channel(pmx.CENTER).Get(3).Position.GetY() != 0 {
		t.Errorf("Expected groove frames")
	}
	if target.UprightIndex != 0 {
		t.Errorf("Expected 0, got %d", target.UprightIndex)
	}

	decimated := Decimate(state, config)
	for _, bone := range decimated.BoneIds() {
		if indexes := decimated.Channel(bone).Indexes(); !slices.Equal(indexes, []int{0}) {
			t.Errorf("Expected [0] for %s, got %v", bone, indexes)
		}
	}
}

func TestConvert_MissingBone(t *testing.T) {
	skeleton := newTestSkeleton()
	broken := pmx.NewSkeletonReference()
	for _, bone := range []pmx.BoneId{pmx.CENTER, pmx.LOWER, pmx.UPPER} {
		broken.Set(bone, skeleton.Position(bone))
	}

	_, _, err := Convert(newStaticInputs(1), broken, model.NewConfig())
	if !errors.Is(err, merr.NameNotFoundError) {
		t.Errorf("Expected name not found, got %v", err)
	}
}
