package vmd

import (
	"github.com/samber/lo"
	"golang.org/x/exp/slices"

	"github.com/miu200521358/pos2vmd/pkg/pmx"
)

// AnimationState ボーンごとのキーフレーム列。パイプラインの各処理が参照で受け渡す
type AnimationState struct {
	ModelName string
	channels  map[pmx.BoneId]*BoneChannel
	// 足IKの表示・有効状態
	IkEnabled bool
}

func NewAnimationState() *AnimationState {
	return &AnimationState{
		ModelName: "Pos2Vmd Model",
		channels:  make(map[pmx.BoneId]*BoneChannel),
		IkEnabled: true,
	}
}

// Channel ボーンのキーフレーム列。なければ作る
func (s *AnimationState) Channel(bone pmx.BoneId) *BoneChannel {
	if channel, ok := s.channels[bone]; ok {
		return channel
	}
	channel := NewBoneChannel(bone)
	s.channels[bone] = channel
	return channel
}

func (s *AnimationState) Has(bone pmx.BoneId) bool {
	channel, ok := s.channels[bone]
	return ok && channel.Len() > 0
}

func (s *AnimationState) Remove(bone pmx.BoneId) {
	delete(s.channels, bone)
}

// SetChannel 間引き結果などで丸ごと差し替える
func (s *AnimationState) SetChannel(channel *BoneChannel) {
	s.channels[channel.Bone] = channel
}

// BoneIds キーフレームを持つボーン(BoneId順)
func (s *AnimationState) BoneIds() []pmx.BoneId {
	ids := lo.Filter(lo.Keys(s.channels), func(bone pmx.BoneId, _ int) bool {
		return s.channels[bone].Len() > 0
	})
	slices.Sort(ids)
	return ids
}

// FrameCount 最大キーフレーム番号+1
func (s *AnimationState) FrameCount() int {
	count := 0
	for _, channel := range s.channels {
		count = max(count, channel.MaxIndex()+1)
	}
	return count
}

func (s *AnimationState) BoneFrameCount() int {
	return lo.SumBy(lo.Values(s.channels), func(channel *BoneChannel) int {
		return channel.Len()
	})
}

func (s *AnimationState) Copy() *AnimationState {
	copied := NewAnimationState()
	copied.ModelName = s.ModelName
	copied.IkEnabled = s.IkEnabled
	for bone, channel := range s.channels {
		copied.channels[bone] = channel.Copy()
	}
	return copied
}
