package usecase

import (
	"math"

	"github.com/montanaflynn/stats"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"

	"github.com/miu200521358/pos2vmd/pkg/mmath"
	"github.com/miu200521358/pos2vmd/pkg/model"
	"github.com/miu200521358/pos2vmd/pkg/mutils/mi18n"
	"github.com/miu200521358/pos2vmd/pkg/mutils/mlog"
	"github.com/miu200521358/pos2vmd/pkg/pmx"
	"github.com/miu200521358/pos2vmd/pkg/vmd"
)

// CalcCenterZ 深度からセンターの前後移動量と、見かけの上半身の長さを打ち消す上下補正を求める
func CalcCenterZ(state *vmd.AnimationState, inputs *model.Inputs, uprightIndexes []int, config *model.Config) {
	if config.CenterZScale == 0 {
		return
	}
	if len(inputs.Depths) == 0 {
		mlog.I(mi18n.T("深度なし"))
		return
	}

	mlog.I("Start: Center Z =============================")
	defer mlog.I("End: Center Z =============================")

	zScale := config.CenterZScale
	depthIndexes := lo.Map(inputs.Depths, func(d model.DepthSample, _ int) float64 {
		return float64(d.Index)
	})
	waists := lo.Map(inputs.Depths, func(d model.DepthSample, _ int) float64 {
		return d.Waist
	})

	// 最も近い深度と最も遠い深度の差
	perspectiveDiffZScale := 0.0
	if perspectiveDiff := floats.Max(waists) - floats.Min(waists); perspectiveDiff != 0 {
		perspectiveDiffZScale = zScale / perspectiveDiff
	}

	uprightDepth := waists[nearestIndex(depthIndexes, uprightIndexes[0])]

	viewRadian := estimateViewRadian(inputs, uprightIndexes, depthIndexes, waists, config)
	mlog.I(mi18n.T("画角推定", map[string]interface{}{
		"Radian": viewRadian, "Degree": mmath.ToDegree(viewRadian)}))

	// 直立時の上半身の長さ(推定)
	uprightUpperLength := uprightDepth * math.Tan(viewRadian)
	targetCenter := inputs.UprightTarget.CenterPosition()
	channel := state.Channel(pmx.CENTER)

	setDepth := func(index int, depth float64) {
		bf := channel.Get(index - inputs.StartFrame)
		if bf == nil {
			return
		}
		nowUpperLength := (depth + uprightDepth) * math.Tan(viewRadian)
		bf.Position.SetZ(depth*zScale*perspectiveDiffZScale + targetCenter.GetZ())
		bf.Position.SetY(bf.Position.GetY() + (uprightUpperLength-nowUpperLength)/zScale)
		mlog.V("[%d] depth=%.5f, center z=%.5f", index, depth, bf.Position.GetZ())
	}

	for i, sample := range inputs.Depths {
		if sample.Index <= inputs.StartFrame {
			continue
		}

		nowDepth := sample.Waist - uprightDepth
		setDepth(sample.Index, nowDepth)

		if i == 0 {
			continue
		}

		// 前の深度との間を線形補間
		prev := inputs.Depths[i-1]
		if prev.Index <= inputs.StartFrame {
			continue
		}
		interval := sample.Index - prev.Index
		prevDepth := prev.Waist - uprightDepth
		for m := prev.Index + 1; m < sample.Index; m++ {
			setDepth(m, prevDepth+(nowDepth-prevDepth)*float64(m-prev.Index)/float64(interval))
		}
	}
}

// estimateViewRadian 直立フレームの上半身の長さと深度から画角を推定する
func estimateViewRadian(
	inputs *model.Inputs, uprightIndexes []int, depthIndexes, waists []float64, config *model.Config,
) float64 {
	radians := make(stats.Float64Data, 0, config.DepthCalibrationCount)
	usedIndexes := make([]int, 0, config.DepthCalibrationCount)

	for _, uprightIndex := range uprightIndexes {
		nearest := nearestIndex(depthIndexes, uprightIndex)
		depthIndex := inputs.Depths[nearest].Index
		if lo.Contains(usedIndexes, depthIndex) {
			continue
		}
		usedIndexes = append(usedIndexes, depthIndex)

		upperLength := 0.0
		if depthIndex >= 0 && depthIndex < len(inputs.Keypoints) && config.CenterXYScale != 0 {
			keypoints := &inputs.Keypoints[depthIndex]
			hipY := (keypoints.Get(model.KP_RIGHT_HIP).GetY() + keypoints.Get(model.KP_LEFT_HIP).GetY()) / 2
			upperLength = (hipY - keypoints.Get(model.KP_NECK).GetY()) / config.CenterXYScale
		}

		radian := math.Atan2(upperLength, waists[nearest]*config.CenterZScale)
		mlog.D("upright depth index=%d, radian=%.5f, degree=%.5f", depthIndex, radian, mmath.ToDegree(radian))
		radians = append(radians, radian)

		if len(usedIndexes) >= config.DepthCalibrationCount {
			break
		}
	}

	viewRadian, err := radians.Mean()
	if err != nil || math.IsNaN(viewRadian) {
		return 0
	}
	return viewRadian
}

// nearestIndex valuesの中でnに最も近い値の位置
func nearestIndex(values []float64, n int) int {
	nearest := 0
	nearestDiff := math.Inf(1)
	for i, v := range values {
		if diff := math.Abs(v - float64(n)); diff < nearestDiff {
			nearest = i
			nearestDiff = diff
		}
	}
	return nearest
}
