package pmx

import (
	"github.com/pkg/errors"

	"github.com/miu200521358/pos2vmd/pkg/mmath"
	"github.com/miu200521358/pos2vmd/pkg/mutils/merr"
)

// SkeletonReference 対象モデルのボーン初期位置
type SkeletonReference struct {
	positions map[BoneId]*mmath.MVec3
	HasUpper2 bool
	HasGroove bool
}

func NewSkeletonReference() *SkeletonReference {
	return &SkeletonReference{positions: make(map[BoneId]*mmath.MVec3)}
}

func (s *SkeletonReference) Set(bone BoneId, position *mmath.MVec3) {
	s.positions[bone] = position
	switch bone {
	case UPPER2:
		s.HasUpper2 = true
	case GROOVE:
		s.HasGroove = true
	}
}

func (s *SkeletonReference) Has(bone BoneId) bool {
	_, ok := s.positions[bone]
	return ok
}

// Position ボーン初期位置のコピー。ない場合は原点
func (s *SkeletonReference) Position(bone BoneId) *mmath.MVec3 {
	if position, ok := s.positions[bone]; ok {
		return position.Copy()
	}
	return mmath.NewMVec3()
}

var requiredBones = []BoneId{
	CENTER, LOWER, UPPER, NECK,
	LEG_L, KNEE_L, ANKLE_L, TOE_L, LEG_IK_L,
	LEG_R, KNEE_R, ANKLE_R, TOE_R, LEG_IK_R,
}

// Validate 計算に必要なボーンが揃っているか
func (s *SkeletonReference) Validate() error {
	for _, bone := range requiredBones {
		if !s.Has(bone) {
			return errors.Wrapf(merr.NameNotFoundError, "%s (%s)", bone.String(), bone.EnglishName())
		}
	}
	return nil
}
