package pmx

import (
	"strings"
)

type BoneId int

const (
	CENTER BoneId = iota
	GROOVE
	UPPER
	UPPER2
	LOWER
	NECK
	HEAD
	SHOULDER_L
	ARM_L
	ELBOW_L
	SHOULDER_R
	ARM_R
	ELBOW_R
	LEG_L
	KNEE_L
	ANKLE_L
	TOE_L
	LEG_R
	KNEE_R
	ANKLE_R
	TOE_R
	LEG_IK_L
	LEG_IK_R
	TOE_IK_L
	TOE_IK_R
	BONE_COUNT
)

type boneName struct {
	ja string
	en string
}

// PmxEditorのボーンCSVで使われる日本語名・英語名
var boneNames = [BONE_COUNT]boneName{
	CENTER:     {"センター", "center"},
	GROOVE:     {"グルーブ", "groove"},
	UPPER:      {"上半身", "upper body"},
	UPPER2:     {"上半身2", "upper body2"},
	LOWER:      {"下半身", "lower body"},
	NECK:       {"首", "neck"},
	HEAD:       {"頭", "head"},
	SHOULDER_L: {"左肩", "shoulder_l"},
	ARM_L:      {"左腕", "arm_l"},
	ELBOW_L:    {"左ひじ", "elbow_l"},
	SHOULDER_R: {"右肩", "shoulder_r"},
	ARM_R:      {"右腕", "arm_r"},
	ELBOW_R:    {"右ひじ", "elbow_r"},
	LEG_L:      {"左足", "leg_l"},
	KNEE_L:     {"左ひざ", "knee_l"},
	ANKLE_L:    {"左足首", "ankle_l"},
	TOE_L:      {"左つま先", "l toe"},
	LEG_R:      {"右足", "leg_r"},
	KNEE_R:     {"右ひざ", "knee_r"},
	ANKLE_R:    {"右足首", "ankle_r"},
	TOE_R:      {"右つま先", "r toe"},
	LEG_IK_L:   {"左足ＩＫ", "leg ik_l"},
	LEG_IK_R:   {"右足ＩＫ", "leg ik_r"},
	TOE_IK_L:   {"左つま先ＩＫ", "toe ik_l"},
	TOE_IK_R:   {"右つま先ＩＫ", "toe ik_r"},
}

var boneIdsByName map[string]BoneId

func init() {
	boneIdsByName = make(map[string]BoneId, int(BONE_COUNT)*2)
	for i, names := range boneNames {
		boneIdsByName[names.ja] = BoneId(i)
		boneIdsByName[names.en] = BoneId(i)
	}
}

// String VMDに出力する日本語名
func (b BoneId) String() string {
	if b < 0 || b >= BONE_COUNT {
		return ""
	}
	return boneNames[b].ja
}

func (b BoneId) EnglishName() string {
	if b < 0 || b >= BONE_COUNT {
		return ""
	}
	return boneNames[b].en
}

// IsTranslatable 移動値を持つボーンか
func (b BoneId) IsTranslatable() bool {
	switch b {
	case CENTER, GROOVE, LEG_IK_L, LEG_IK_R, TOE_IK_L, TOE_IK_R:
		return true
	}
	return false
}

// BoneIdByName 日本語名もしくは英語名(大文字小文字無視)から引く
func BoneIdByName(name string) (BoneId, bool) {
	if id, ok := boneIdsByName[name]; ok {
		return id, true
	}
	id, ok := boneIdsByName[strings.ToLower(strings.TrimSpace(name))]
	return id, ok
}

type BoneDirection int

const (
	BONE_DIRECTION_LEFT BoneDirection = iota
	BONE_DIRECTION_RIGHT
)

func (d BoneDirection) String() string {
	if d == BONE_DIRECTION_LEFT {
		return "左"
	}
	return "右"
}

// StandardBone 左右のあるボーン
type StandardBone struct {
	left  BoneId
	right BoneId
}

var (
	SHOULDER = StandardBone{SHOULDER_L, SHOULDER_R}
	ARM      = StandardBone{ARM_L, ARM_R}
	ELBOW    = StandardBone{ELBOW_L, ELBOW_R}
	LEG      = StandardBone{LEG_L, LEG_R}
	KNEE     = StandardBone{KNEE_L, KNEE_R}
	ANKLE    = StandardBone{ANKLE_L, ANKLE_R}
	TOE      = StandardBone{TOE_L, TOE_R}
	LEG_IK   = StandardBone{LEG_IK_L, LEG_IK_R}
	TOE_IK   = StandardBone{TOE_IK_L, TOE_IK_R}
)

func (s StandardBone) Left() BoneId {
	return s.left
}

func (s StandardBone) Right() BoneId {
	return s.right
}

func (s StandardBone) By(direction BoneDirection) BoneId {
	if direction == BONE_DIRECTION_LEFT {
		return s.left
	}
	return s.right
}
