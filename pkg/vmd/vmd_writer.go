package vmd

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/japanese"

	"github.com/miu200521358/pos2vmd/pkg/pmx"
)

const (
	vmdSignature    = "Vocaloid Motion Data 0002"
	signatureLength = 30
	modelNameLength = 20
	boneNameLength  = 15
	ikNameLength    = 20
)

// 線形補間
var linearInterpolation = func() [64]byte {
	row := []byte{20, 20, 20, 20, 20, 20, 20, 20, 107, 107, 107, 107, 107, 107, 107, 107}
	var curves [64]byte
	for i := 0; i < 4; i++ {
		for j := 0; j < 16; j++ {
			if j+i < 16 {
				curves[i*16+j] = row[j+i]
			} else if j+i == 16 {
				curves[i*16+j] = 1
			}
		}
	}
	return curves
}()

// Write VMDファイルとして出力する
func Write(path string, state *AnimationState) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create vmd %s", path)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := writeMotion(w, state); err != nil {
		return errors.Wrapf(err, "failed to write vmd %s", path)
	}
	return w.Flush()
}

func writeMotion(w io.Writer, state *AnimationState) error {
	if err := writeText(w, vmdSignature, signatureLength); err != nil {
		return err
	}
	if err := writeText(w, state.ModelName, modelNameLength); err != nil {
		return err
	}

	if err := binary.Write(w, binary.LittleEndian, uint32(state.BoneFrameCount())); err != nil {
		return err
	}
	for _, bone := range state.BoneIds() {
		for _, bf := range state.Channel(bone).Frames() {
			if err := writeBoneFrame(w, bone, bf); err != nil {
				return err
			}
		}
	}

	// モーフ・カメラ・照明・セルフ影
	for i := 0; i < 4; i++ {
		if err := binary.Write(w, binary.LittleEndian, uint32(0)); err != nil {
			return err
		}
	}

	return writeIkFrame(w, state.IkEnabled)
}

func writeBoneFrame(w io.Writer, bone pmx.BoneId, bf *BoneFrame) error {
	if err := writeText(w, bone.String(), boneNameLength); err != nil {
		return err
	}

	values := struct {
		Index    uint32
		Position [3]float32
		Rotation [4]float32
		Curves   [64]byte
	}{
		Index:    uint32(bf.Index),
		Position: [3]float32{float32(bf.Position.GetX()), float32(bf.Position.GetY()), float32(bf.Position.GetZ())},
		Rotation: [4]float32{
			float32(bf.Rotation.GetX()), float32(bf.Rotation.GetY()),
			float32(bf.Rotation.GetZ()), float32(bf.Rotation.GetW()),
		},
		Curves: linearInterpolation,
	}

	return binary.Write(w, binary.LittleEndian, &values)
}

// writeIkFrame 0フレーム目に足IK・つま先IKの有効/無効を1件出力する
func writeIkFrame(w io.Writer, enabled bool) error {
	ikBones := []pmx.BoneId{pmx.LEG_IK_L, pmx.LEG_IK_R, pmx.TOE_IK_L, pmx.TOE_IK_R}

	flag := byte(0)
	if enabled {
		flag = 1
	}

	if err := binary.Write(w, binary.LittleEndian, uint32(1)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(0)); err != nil {
		return err
	}
	// 表示
	if err := binary.Write(w, binary.LittleEndian, byte(1)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(ikBones))); err != nil {
		return err
	}
	for _, bone := range ikBones {
		if err := writeText(w, bone.String(), ikNameLength); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, flag); err != nil {
			return err
		}
	}
	return nil
}

// writeText Shift-JISで固定長に切り詰め、残りを0で埋める
func writeText(w io.Writer, text string, length int) error {
	encoded, err := japanese.ShiftJIS.NewEncoder().Bytes([]byte(text))
	if err != nil {
		encoded = []byte(text)
	}

	buf := make([]byte, length)
	copy(buf, encoded)
	_, err = w.Write(buf)
	return err
}
