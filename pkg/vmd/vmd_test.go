package vmd

import (
	"path/filepath"
	"testing"

	"github.com/miu200521358/pos2vmd/pkg/mmath"
	"github.com/miu200521358/pos2vmd/pkg/pmx"
)

func TestBoneChannel(t *testing.T) {
	channel := NewBoneChannel(pmx.CENTER)
	for _, index := range []int{5, 0, 10} {
		channel.Append(NewBoneFrame(index))
	}

	if channel.Len() != 3 {
		t.Errorf("Expected 3, got %d", channel.Len())
	}

	indexes := channel.Indexes()
	expected := []int{0, 5, 10}
	for i := range expected {
		if indexes[i] != expected[i] {
			t.Errorf("Expected %v, got %v", expected, indexes)
			break
		}
	}

	if prev := channel.PrevIndex(7); prev != 5 {
		t.Errorf("Expected 5, got %d", prev)
	}
	if prev := channel.PrevIndex(5); prev != 5 {
		t.Errorf("Expected 5, got %d", prev)
	}
	if channel.Get(3) != nil {
		t.Errorf("Expected nil")
	}
	if channel.MaxIndex() != 10 {
		t.Errorf("Expected 10, got %d", channel.MaxIndex())
	}

	// 同じ番号は置き換え
	bf := NewBoneFrame(5)
	bf.Position.SetX(3)
	channel.Append(bf)
	if channel.Len() != 3 || channel.Get(5).Position.GetX() != 3 {
		t.Errorf("Expected replaced frame, got %v", channel.Get(5))
	}
}

func TestAnimationStateCopy(t *testing.T) {
	state := NewAnimationState()
	bf := NewBoneFrame(0)
	bf.Position.SetY(2)
	state.Channel(pmx.CENTER).Append(bf)

	copied := state.Copy()
	copied.Channel(pmx.CENTER).Get(0).Position.SetY(5)

	if state.Channel(pmx.CENTER).Get(0).Position.GetY() != 2 {
		t.Errorf("Expected 2, got %f", state.Channel(pmx.CENTER).Get(0).Position.GetY())
	}
	if copied.FrameCount() != 1 {
		t.Errorf("Expected 1, got %d", copied.FrameCount())
	}
}

func TestWriteRead(t *testing.T) {
	state := NewAnimationState()
	state.IkEnabled = false

	for i := 0; i < 3; i++ {
		center := NewBoneFrame(i)
		center.Position = *mmath.NewMVec3ByValues(float64(i), 1.5, -2)
		state.Channel(pmx.CENTER).Append(center)

		ik := NewBoneFrame(i * 2)
		ik.Position = *mmath.NewMVec3ByValues(0.5, float64(i), 0)
		ik.Rotation = *mmath.NewMQuaternionFromEulerAngles(10, float64(i)*20, 0)
		state.Channel(pmx.LEG_IK_L).Append(ik)
	}
	upper := NewBoneFrame(1)
	upper.Rotation = *mmath.NewMQuaternionFromEulerAngles(0, 45, 0)
	state.Channel(pmx.UPPER2).Append(upper)

	path := filepath.Join(t.TempDir(), "test.vmd")
	if err := Write(path, state); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	read, err := Read(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if read.ModelName != state.ModelName {
		t.Errorf("Expected %s, got %s", state.ModelName, read.ModelName)
	}
	if read.IkEnabled {
		t.Errorf("Expected ik disabled")
	}
	if read.BoneFrameCount() != 7 {
		t.Errorf("Expected 7, got %d", read.BoneFrameCount())
	}

	for _, bone := range []pmx.BoneId{pmx.CENTER, pmx.LEG_IK_L, pmx.UPPER2} {
		expected := state.Channel(bone).Frames()
		actual := read.Channel(bone).Frames()
		if len(expected) != len(actual) {
			t.Errorf("Expected %d frames, got %d (%s)", len(expected), len(actual), bone)
			continue
		}
		for i := range expected {
			if expected[i].Index != actual[i].Index {
				t.Errorf("Expected %d, got %d (%s)", expected[i].Index, actual[i].Index, bone)
			}
			if !expected[i].Position.NearEquals(&actual[i].Position, 1e-5) {
				t.Errorf("Expected %v, got %v (%s)", expected[i].Position, actual[i].Position, bone)
			}
			if !expected[i].Rotation.NearEquals(&actual[i].Rotation, 1e-5) {
				t.Errorf("Expected %v, got %v (%s)", expected[i].Rotation, actual[i].Rotation, bone)
			}
		}
	}
}
