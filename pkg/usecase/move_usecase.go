package usecase

import (
	"github.com/miu200521358/pos2vmd/pkg/mmath"
	"github.com/miu200521358/pos2vmd/pkg/model"
	"github.com/miu200521358/pos2vmd/pkg/mutils/mi18n"
	"github.com/miu200521358/pos2vmd/pkg/mutils/mlog"
	"github.com/miu200521358/pos2vmd/pkg/pmx"
	"github.com/miu200521358/pos2vmd/pkg/vmd"
)

// CalcCenter 2Dキーポイントからセンターの左右・上下の移動量を求める
func CalcCenter(
	state *vmd.AnimationState, inputs *model.Inputs, skeleton *pmx.SkeletonReference, uprightIndexes []int,
	config *model.Config,
) {
	if config.CenterXYScale == 0 {
		return
	}

	mlog.I("Start: Center =============================")
	defer mlog.I("End: Center =============================")

	uprightIndex := uprightIndexes[0]
	if uprightIndex >= len(inputs.Keypoints) {
		mlog.W("upright frame %d has no keypoints", uprightIndex)
		return
	}
	upright := &inputs.Keypoints[uprightIndex]

	scale := calcCenterScale(skeleton, upright, config.CenterXYScale)
	if scale == 0 {
		mlog.W(mi18n.T("三角形面積ゼロ", map[string]interface{}{"Frame": uprightIndex}))
		return
	}
	ankleScale := calcAnkleScale(skeleton, upright, config.CenterXYScale)
	mlog.D("center scale=%.5f, ankle scale=%.5f", scale, ankleScale)

	targetCenter := inputs.UprightTarget.CenterPosition()
	uprightHipY := upright.HipAverageY()
	uprightX := upright.TrunkAverageX()

	channel := state.Channel(pmx.CENTER)
	for n := range min(channel.MaxIndex()+1, len(inputs.Keypoints)) {
		bf := channel.Get(n)
		if bf == nil {
			continue
		}
		keypoints := &inputs.Keypoints[n]

		// 足首が上がっている分だけセンターを下げる
		ankleMin := min(keypoints.Get(model.KP_RIGHT_ANKLE).GetY(), keypoints.Get(model.KP_LEFT_ANKLE).GetY())
		centerY := (uprightHipY-keypoints.HipAverageY())*scale - ankleMin*ankleScale
		centerX := (keypoints.TrunkAverageX() - uprightX) * scale

		bf.Position.SetY(centerY + config.HeelPosition)
		bf.Position.SetX(centerX + targetCenter.GetX())

		mlog.V("[%d] center x=%.5f, y=%.5f", n, bf.Position.GetX(), bf.Position.GetY())
	}
}

// calcCenterScale ボーンの首・両足の三角形と直立フレームの2D三角形の面積比。
// 2D側の面積が0の場合は0
func calcCenterScale(skeleton *pmx.SkeletonReference, upright *model.Keypoints2D, xyScale float64) float64 {
	boneArea := mmath.TriangleArea(
		skeleton.Position(pmx.NECK).XY(),
		skeleton.Position(pmx.LEG_R).XY(),
		skeleton.Position(pmx.LEG_L).XY(),
	)
	uprightArea := mmath.TriangleArea(
		upright.Get(model.KP_NECK),
		upright.Get(model.KP_RIGHT_HIP),
		upright.Get(model.KP_LEFT_HIP),
	)
	if mmath.NearEquals(uprightArea, 0, 1e-10) {
		return 0
	}
	return boneArea / uprightArea * xyScale
}

// calcAnkleScale 足首の高さに掛ける倍率
func calcAnkleScale(skeleton *pmx.SkeletonReference, upright *model.Keypoints2D, xyScale float64) float64 {
	uprightAnkleY := (upright.Get(model.KP_RIGHT_ANKLE).GetY() + upright.Get(model.KP_LEFT_ANKLE).GetY()) / 2
	if uprightAnkleY < 0 {
		uprightAnkleY = -uprightAnkleY
	}
	if uprightAnkleY == 0 {
		return 0
	}
	boneAnkleY := (skeleton.Position(pmx.ANKLE_R).GetY() + skeleton.Position(pmx.ANKLE_L).GetY()) / 2
	return (boneAnkleY / uprightAnkleY) * (xyScale / 100)
}
