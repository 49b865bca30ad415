package model

import "github.com/miu200521358/pos2vmd/pkg/mmath"

// UprightTarget 直立情報。次回以降の実行でセンター位置を揃えるために使う
type UprightTarget struct {
	UprightIndex int
	// 先頭フレームのセンター位置
	Center    mmath.MVec3
	Keypoints Keypoints2D
}

// CenterPosition 前回の直立情報のセンター。ない場合は原点
func (t *UprightTarget) CenterPosition() *mmath.MVec3 {
	if t == nil {
		return mmath.NewMVec3()
	}
	return t.Center.Copy()
}
