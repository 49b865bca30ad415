package usecase

import (
	"github.com/pkg/errors"

	"github.com/miu200521358/pos2vmd/pkg/model"
	"github.com/miu200521358/pos2vmd/pkg/mutils/merr"
	"github.com/miu200521358/pos2vmd/pkg/mutils/mi18n"
	"github.com/miu200521358/pos2vmd/pkg/mutils/mlog"
	"github.com/miu200521358/pos2vmd/pkg/pmx"
	"github.com/miu200521358/pos2vmd/pkg/utils"
	"github.com/miu200521358/pos2vmd/pkg/vmd"
)

// Convert 入力一式から間引き前のモーションを作る
// 戻り値の直立情報は次回の実行でセンター位置を揃えるために出力する
func Convert(
	inputs *model.Inputs, skeleton *pmx.SkeletonReference, config *model.Config,
) (*vmd.AnimationState, *model.UprightTarget, error) {
	if err := skeleton.Validate(); err != nil {
		mlog.WT(mi18n.T("ボーン不足"), mi18n.T("ボーン不足詳細", map[string]interface{}{"BoneName": err.Error()}))
		return nil, nil, err
	}
	if inputs.FrameCount() == 0 {
		return nil, nil, errors.Wrap(merr.InvalidInputError, "no frames")
	}

	state := Rotate(inputs, skeleton, config)
	writeDebugMotion(state, config, "1_rotate")

	uprightIndexes := SelectUpright(state, config)

	CalcCenter(state, inputs, skeleton, uprightIndexes, config)
	CalcCenterZ(state, inputs, uprightIndexes, config)
	writeDebugMotion(state, config, "2_center")

	Smooth(state, fkSmoothBones, nil, config.SmoothTimes)
	writeDebugMotion(state, config, "3_smooth")

	ConvertLegIk(state, inputs, skeleton, config)
	writeDebugMotion(state, config, "4_leg_ik")

	ikBones := []pmx.BoneId{pmx.LEG_IK_L, pmx.LEG_IK_R}
	Smooth(state, ikBones, append(ikBones, pmx.CENTER), config.SmoothTimes)

	target := &model.UprightTarget{UprightIndex: uprightIndexes[0]}
	if bf := state.Channel(pmx.CENTER).Get(0); bf != nil {
		target.Center = *bf.Position.Copy()
	}
	if len(inputs.Keypoints) > 0 {
		target.Keypoints = inputs.Keypoints[0]
	}

	TransferGroove(state, skeleton)

	return state, target, nil
}

// writeDebugMotion デバッグ時だけ途中経過を出力する。失敗しても処理は続ける
func writeDebugMotion(state *vmd.AnimationState, config *model.Config, suffix string) {
	if config.DebugDir == "" || !mlog.IsDebug() {
		return
	}

	motions := []*utils.OutputMotion{{Suffix: suffix, State: state.Copy()}}
	if err := utils.WriteVmdMotions(motions, config.DebugDir, "debug", ""); err != nil {
		mlog.W("Failed to write debug motion %s: %v", suffix, err)
	}
}
