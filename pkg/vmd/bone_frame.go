package vmd

import (
	"github.com/jinzhu/copier"
	"github.com/petar/GoLLRB/llrb"

	"github.com/miu200521358/pos2vmd/pkg/mmath"
)

type BoneFrame struct {
	Index    int
	Position mmath.MVec3
	Rotation mmath.MQuaternion
}

func NewBoneFrame(index int) *BoneFrame {
	return &BoneFrame{
		Index:    index,
		Rotation: *mmath.NewMQuaternion(),
	}
}

// Less キーフレーム番号順
func (bf *BoneFrame) Less(than llrb.Item) bool {
	return bf.Index < than.(*BoneFrame).Index
}

func (bf *BoneFrame) Copy() *BoneFrame {
	copied := &BoneFrame{}
	if err := copier.Copy(copied, bf); err != nil {
		copied.Index = bf.Index
		copied.Position = bf.Position
		copied.Rotation = bf.Rotation
	}
	return copied
}
