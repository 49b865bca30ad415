package usecase

import (
	"math"

	"github.com/miu200521358/pos2vmd/pkg/mmath"
	"github.com/miu200521358/pos2vmd/pkg/mutils/mlog"
	"github.com/miu200521358/pos2vmd/pkg/pmx"
	"github.com/miu200521358/pos2vmd/pkg/vmd"
)

// decimationFit 間引き後に残すキーフレーム番号。常に0から始まり昇順
type decimationFit struct {
	frames []int
}

func newDecimationFit() *decimationFit {
	return &decimationFit{frames: []int{0}}
}

func (f *decimationFit) append(n int) {
	if n > f.last() {
		f.frames = append(f.frames, n)
	}
}

func (f *decimationFit) last() int {
	return f.frames[len(f.frames)-1]
}

// translationFitter 移動の傾き変化から残すキーフレームを選ぶ
type translationFitter struct {
	raw            []mmath.MVec3
	fit            *decimationFit
	slopeThreshold float64
	moveThreshold  float64
}

func newTranslationFitter(raw []mmath.MVec3, slopeThreshold, moveThreshold float64) *translationFitter {
	return &translationFitter{
		raw:            raw,
		fit:            newDecimationFit(),
		slopeThreshold: slopeThreshold,
		moveThreshold:  moveThreshold,
	}
}

// slopeWindows 直前に残した2点、現在から3点、現在から6点、3つ先から3点
func (t *translationFitter) slopeWindows(n int) (prev, now, long, next []mmath.MVec3) {
	fitFrames := t.fit.frames[max(0, len(t.fit.frames)-2):]
	prev = make([]mmath.MVec3, len(fitFrames))
	for i, f := range fitFrames {
		prev[i] = t.raw[f]
	}
	return prev, t.window(n, n+3), t.window(n, n+6), t.window(n+3, n+6)
}

func (t *translationFitter) window(start, end int) []mmath.MVec3 {
	start = min(start, len(t.raw))
	end = min(end, len(t.raw))
	return t.raw[start:end]
}

// planeSlopes XY平面とXZ平面での傾き角度(度)
func planeSlopes(points []mmath.MVec3) (xy, xz float64) {
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	zs := make([]float64, len(points))
	for i, p := range points {
		xs[i], ys[i], zs[i] = p.GetX(), p.GetY(), p.GetZ()
	}
	return mmath.SlopeAngle(xs, ys), mmath.SlopeAngle(xs, zs)
}

// slopeChanges 現在の傾きと、直前・長期・先の傾きとの差
type slopeChanges struct {
	prevXY, longXY, nextXY float64
	prevXZ, longXZ, nextXZ float64
}

func (t *translationFitter) slopeChanges(n int) *slopeChanges {
	prev, now, long, next := t.slopeWindows(n)
	prevXY, prevXZ := planeSlopes(prev)
	nowXY, nowXZ := planeSlopes(now)
	longXY, longXZ := planeSlopes(long)
	nextXY, nextXZ := planeSlopes(next)

	return &slopeChanges{
		prevXY: math.Abs(prevXY - nowXY),
		longXY: math.Abs(longXY - nowXY),
		nextXY: math.Abs(nextXY - nowXY),
		prevXZ: math.Abs(prevXZ - nowXZ),
		longXZ: math.Abs(longXZ - nowXZ),
		nextXZ: math.Abs(nextXZ - nowXZ),
	}
}

// isCurved 直前とも長期とも傾きが変わっている
func (t *translationFitter) isCurved(c *slopeChanges) bool {
	return (c.prevXY > t.slopeThreshold && c.longXY > t.slopeThreshold) ||
		(c.prevXZ > t.slopeThreshold && c.longXZ > t.slopeThreshold)
}

// isCurvingNext 先の区間で傾きが変わる
func (t *translationFitter) isCurvingNext(c *slopeChanges) bool {
	return (c.nextXY > t.slopeThreshold && c.longXY > t.slopeThreshold) ||
		(c.nextXZ > t.slopeThreshold && c.longXZ > t.slopeThreshold)
}

// isMoved 直前に残した値からどれかの軸が閾値以上動いたか
func (t *translationFitter) isMoved(n int) bool {
	if n >= len(t.raw) {
		return false
	}
	last := &t.raw[t.fit.last()]
	now := &t.raw[n]
	for i := range 3 {
		if math.Abs(now[i]-last[i]) >= t.moveThreshold {
			return true
		}
	}
	return false
}

// decimateCenter センターの移動を間引く。グルーブがある場合はその上下の折り返しも残す
func decimateCenter(center, groove []mmath.MVec3, config decimateConfig) *decimationFit {
	t := newTranslationFitter(center, config.centerSlope, config.centerMove)

	for n := 1; n < len(center); n++ {
		changes := t.slopeChanges(n)

		if t.isCurved(changes) && t.isMoved(n) {
			mlog.V("[center][%d] curved", n)
			t.fit.append(n)
		} else if n+1 < len(center) && t.isCurvingNext(changes) && !t.isMoved(n) && t.isMoved(n+1) {
			mlog.V("[center][%d] anticipation", n)
			t.fit.append(n)
		} else if len(groove) == len(center) && isGrooveTurned(n, groove, t.fit, config.centerMove) {
			mlog.V("[center][%d] groove turned", n)
			t.fit.append(n)
		}
	}

	return t.fit
}

// isGrooveTurned グルーブの上下の向きが変わった、もしくは次で変わるか
func isGrooveTurned(n int, groove []mmath.MVec3, fit *decimationFit, threshold float64) bool {
	prevY1 := groove[fit.last()].GetY()
	prevY2 := prevY1
	if len(fit.frames) > 1 {
		prevY2 = groove[fit.frames[len(fit.frames)-2]].GetY()
	}
	nowY := groove[n].GetY()
	nextY := nowY
	if n+1 < len(groove) {
		nextY = groove[n+1].GetY()
	}

	if (nowY-prevY1 < 0 && prevY1-prevY2 >= 0 && math.Abs(nowY-prevY1) >= threshold) ||
		(nowY-prevY1 > 0 && prevY1-prevY2 <= 0 && math.Abs(nowY-prevY1) >= threshold) {
		return true
	}

	return (nextY-nowY < 0 && nowY-prevY1 >= 0 && math.Abs(nextY-nowY) >= threshold) ||
		(nextY-nowY > 0 && nowY-prevY1 <= 0 && math.Abs(nextY-nowY) >= threshold)
}

// decimateLegIk 足IKの移動・回転と、それに連動するボーンの回転を間引く
func decimateLegIk(
	positions []mmath.MVec3, ikRotations []mmath.MQuaternion, followers [][]mmath.MQuaternion,
	config decimateConfig,
) *decimationFit {
	t := newTranslationFitter(positions, config.ikSlope, config.ikMove)
	fit := t.fit
	isSamed := false

	for n := 1; n < len(positions); n++ {
		// 同じ値が続いている間は飛ばし、動き出す直前の位置で止める
		if positions[fit.last()].Equals(&positions[n]) {
			isSamed = true
			continue
		} else if isSamed {
			mlog.V("[leg ik][%d] stop", n-1)
			fit.append(n - 1)
			isSamed = false
		}

		changes := t.slopeChanges(n)
		if t.isCurved(changes) {
			if t.isMoved(n) {
				mlog.V("[leg ik][%d] curved", n)
				fit.append(n)
			} else if n+1 < len(positions) && t.isMoved(n+1) {
				mlog.V("[leg ik][%d] anticipation", n)
				fit.append(n)
			}
		} else if config.rotation > 0 {
			if isRotationRetained(ikRotations, n, fit.last(), false, config.rotation) {
				mlog.V("[leg ik][%d] rotated", n)
				fit.append(n)
			} else {
				for _, rotations := range followers {
					if isRotationRetained(rotations, n, fit.last(), false, config.rotation) && fit.last()+1 < n {
						mlog.V("[leg ik][%d] follower rotated", n)
						fit.append(n)
						break
					}
				}
			}
		}

		// この先しばらく止まる場合は、止まった位置を残す
		if n < len(positions)-2 && fit.last() != n &&
			positions[n].Equals(&positions[n+1]) && positions[n+1].Equals(&positions[n+2]) {
			mlog.V("[leg ik][%d] planted", n)
			fit.append(n)
		}
	}

	return fit
}

// channelPositions 0から count-1 までの移動量。キーフレームがない場合は直前の値
func channelPositions(channel *vmd.BoneChannel, count int) []mmath.MVec3 {
	positions := make([]mmath.MVec3, count)
	for n := range count {
		if bf := channel.Get(n); bf != nil {
			positions[n] = bf.Position
		} else if n > 0 {
			positions[n] = positions[n-1]
		}
	}
	return positions
}

// channelRotations 0から count-1 までの回転。キーフレームがない場合は直前の値
func channelRotations(channel *vmd.BoneChannel, count int) []mmath.MQuaternion {
	rotations := make([]mmath.MQuaternion, count)
	for n := range count {
		if bf := channel.Get(n); bf != nil {
			rotations[n] = bf.Rotation
		} else if n > 0 {
			rotations[n] = rotations[n-1]
		} else {
			rotations[n] = *mmath.NewMQuaternion()
		}
	}
	return rotations
}

// commitFit 残すキーフレームだけのボーンに置き換える。値は元のキーフレームのまま
func commitFit(state *vmd.AnimationState, bones []pmx.BoneId, fit *decimationFit) {
	for _, bone := range bones {
		if !state.Has(bone) {
			continue
		}
		before := state.Channel(bone)
		after := vmd.NewBoneChannel(bone)
		for _, n := range fit.frames {
			if bf := before.Get(n); bf != nil {
				after.Append(bf.Copy())
			}
		}
		state.SetChannel(after)
	}
}
