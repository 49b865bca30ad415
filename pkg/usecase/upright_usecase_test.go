package usecase

import (
	"math"
	"testing"

	"golang.org/x/exp/slices"

	"github.com/miu200521358/pos2vmd/pkg/model"
	"github.com/miu200521358/pos2vmd/pkg/pmx"
	"github.com/miu200521358/pos2vmd/pkg/vmd"
)

func TestSelectUpright(t *testing.T) {
	yaws := make([]float64, 60)
	for n := range yaws {
		yaws[n] = math.Min(math.Abs(float64(n-10)), math.Abs(float64(n-50))+0.5)
	}
	state := newStateWithRotations(pmx.UPPER, yawRotations(yaws...)...)
	appendIdentities(state, pmx.LOWER, 60)

	indexes := SelectUpright(state, model.NewConfig())

	if !slices.Equal(indexes, []int{10, 50}) {
		t.Errorf("Expected [10 50], got %v", indexes)
	}
}

func TestSelectUpright_Count(t *testing.T) {
	state := newStateWithRotations(pmx.UPPER, yawRotations(make([]float64, 100)...)...)
	config := model.NewConfig()
	config.UprightSpacing = 10
	config.UprightCount = 3

	indexes := SelectUpright(state, config)

	// 同じ角度はフレーム順
	if !slices.Equal(indexes, []int{0, 10, 20}) {
		t.Errorf("Expected [0 10 20], got %v", indexes)
	}
}

func TestSelectUpright_Empty(t *testing.T) {
	indexes := SelectUpright(vmd.NewAnimationState(), model.NewConfig())

	if !slices.Equal(indexes, []int{0}) {
		t.Errorf("Expected [0], got %v", indexes)
	}
}
