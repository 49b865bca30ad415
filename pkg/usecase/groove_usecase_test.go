package usecase

import (
	"testing"

	"github.com/miu200521358/pos2vmd/pkg/mmath"
	"github.com/miu200521358/pos2vmd/pkg/pmx"
)

func TestTransferGroove(t *testing.T) {
	state := newCenterState(0)
	appendPositions(state, pmx.CENTER, []mmath.MVec3{{1, 2, 3}, {-1, 0.5, 2}})

	TransferGroove(state, newTestSkeleton())

	for n, y := range []float64{2, 0.5} {
		if actual := state.Channel(pmx.GROOVE).Get(n).Position; actual.GetY() != y {
			t.Errorf("Expected %f, got %v", y, actual.String())
		}
		if actual := state.Channel(pmx.CENTER).Get(n).Position; actual.GetY() != 0 {
			t.Errorf("Expected 0, got %v", actual.String())
		}
	}
	if x := state.Channel(pmx.CENTER).Get(0).Position.GetX(); x != 1 {
		t.Errorf("Expected 1, got %f", x)
	}
}

func TestTransferGroove_NoGroove(t *testing.T) {
	state := newCenterState(0)
	appendPositions(state, pmx.CENTER, []mmath.MVec3{{1, 2, 3}})
	skeleton := pmx.NewSkeletonReference()
	skeleton.Set(pmx.CENTER, mmath.NewMVec3())

	TransferGroove(state, skeleton)

	if state.Has(pmx.GROOVE) {
		t.Errorf("Expected no groove frames")
	}
	if y := state.Channel(pmx.CENTER).Get(0).Position.GetY(); y != 2 {
		t.Errorf("Expected 2, got %f", y)
	}
}
