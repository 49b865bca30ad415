package usecase

import (
	"github.com/miu200521358/pos2vmd/pkg/pmx"
	"github.com/miu200521358/pos2vmd/pkg/vmd"
)

// TransferGroove グルーブがあるモデルの場合、センターの上下移動をグルーブに移す
func TransferGroove(state *vmd.AnimationState, skeleton *pmx.SkeletonReference) {
	if !skeleton.HasGroove || !state.Has(pmx.CENTER) {
		return
	}

	grooveChannel := state.Channel(pmx.GROOVE)
	for _, centerBf := range state.Channel(pmx.CENTER).Frames() {
		grooveBf := vmd.NewBoneFrame(centerBf.Index)
		grooveBf.Position.SetY(centerBf.Position.GetY())
		grooveChannel.Append(grooveBf)

		centerBf.Position.SetY(0)
	}
}
