package usecase

import (
	"math"

	"github.com/miu200521358/pos2vmd/pkg/mmath"
	"github.com/miu200521358/pos2vmd/pkg/mutils/mlog"
	"github.com/miu200521358/pos2vmd/pkg/pmx"
)

// fixGround 足首が地面(Y=0)より下にある場合に持ち上げる
func fixGround(left, right *legIkResult, center *mmath.MVec3) {
	leftY := left.AnklePosition.GetY()
	rightY := right.AnklePosition.GetY()

	if leftY < 0 && rightY < 0 {
		// 両足とも沈んでいる場合、深い方に合わせて全体を持ち上げる
		raise := -min(leftY, rightY)
		left.AnklePosition.SetY(leftY + raise)
		right.AnklePosition.SetY(rightY + raise)
		center.SetY(center.GetY() + raise)

		left.IkRotation = *withoutPitch(&left.IkRotation)
		right.IkRotation = *withoutPitch(&right.IkRotation)

		mlog.V("ground: raise both %.5f", raise)
		return
	}

	if leftY < 0 {
		left.AnklePosition.SetY(0)
		left.IkRotation = *withoutPitch(&left.IkRotation)
	}
	if rightY < 0 {
		right.AnklePosition.SetY(0)
		right.IkRotation = *withoutPitch(&right.IkRotation)
	}
}

// withoutPitch 前後の傾き(X軸回転)を除いた回転
func withoutPitch(rotation *mmath.MQuaternion) *mmath.MQuaternion {
	euler := rotation.ToEulerAngles()
	return mmath.NewMQuaternionFromEulerAngles(0, euler.GetY(), euler.GetZ())
}

// sunkenCenter センターが初期位置からの足の長さ以上に沈んだ場合の補正
type sunkenCenter struct {
	// センターから足首までの高さ
	limit float64
	// センターから足までの高さ
	offset float64
}

func newSunkenCenter(skeleton *pmx.SkeletonReference) *sunkenCenter {
	centerY := skeleton.Position(pmx.CENTER).GetY()
	return &sunkenCenter{
		limit:  centerY - skeleton.Position(pmx.ANKLE_R).GetY(),
		offset: centerY - skeleton.Position(pmx.LEG_R).GetY(),
	}
}

func (s *sunkenCenter) fix(center *mmath.MVec3) {
	if math.Abs(center.GetY()) > s.limit {
		mlog.V("sunken center: %.5f -> %.5f", center.GetY(), center.GetY()-s.offset)
		center.SetY(center.GetY() - s.offset)
	}
}
