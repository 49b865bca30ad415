package vmd

import (
	"github.com/petar/GoLLRB/llrb"

	"github.com/miu200521358/pos2vmd/pkg/pmx"
)

// BoneChannel 1ボーン分のキーフレーム列
type BoneChannel struct {
	Bone   pmx.BoneId
	frames *llrb.LLRB
}

func NewBoneChannel(bone pmx.BoneId) *BoneChannel {
	return &BoneChannel{Bone: bone, frames: llrb.New()}
}

// Append 同じキーフレーム番号があれば置き換える
func (c *BoneChannel) Append(bf *BoneFrame) {
	c.frames.ReplaceOrInsert(bf)
}

func (c *BoneChannel) Has(index int) bool {
	return c.frames.Has(&BoneFrame{Index: index})
}

// Get 登録済みのキーフレーム。なければnil
func (c *BoneChannel) Get(index int) *BoneFrame {
	item := c.frames.Get(&BoneFrame{Index: index})
	if item == nil {
		return nil
	}
	return item.(*BoneFrame)
}

// PrevIndex index以前で最も近い登録済みキーフレーム番号。なければ-1
func (c *BoneChannel) PrevIndex(index int) int {
	prev := -1
	c.frames.DescendLessOrEqual(&BoneFrame{Index: index}, func(item llrb.Item) bool {
		prev = item.(*BoneFrame).Index
		return false
	})
	return prev
}

func (c *BoneChannel) MaxIndex() int {
	item := c.frames.Max()
	if item == nil {
		return -1
	}
	return item.(*BoneFrame).Index
}

func (c *BoneChannel) Len() int {
	return c.frames.Len()
}

// Frames キーフレーム番号順の一覧
func (c *BoneChannel) Frames() []*BoneFrame {
	frames := make([]*BoneFrame, 0, c.frames.Len())
	c.frames.AscendGreaterOrEqual(c.frames.Min(), func(item llrb.Item) bool {
		frames = append(frames, item.(*BoneFrame))
		return true
	})
	return frames
}

func (c *BoneChannel) Indexes() []int {
	indexes := make([]int, 0, c.frames.Len())
	for _, bf := range c.Frames() {
		indexes = append(indexes, bf.Index)
	}
	return indexes
}

func (c *BoneChannel) Clear() {
	c.frames = llrb.New()
}

func (c *BoneChannel) Copy() *BoneChannel {
	copied := NewBoneChannel(c.Bone)
	for _, bf := range c.Frames() {
		copied.Append(bf.Copy())
	}
	return copied
}
