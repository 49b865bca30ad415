package vmd

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/japanese"

	"github.com/miu200521358/pos2vmd/pkg/mmath"
	"github.com/miu200521358/pos2vmd/pkg/mutils/merr"
	"github.com/miu200521358/pos2vmd/pkg/mutils/mlog"
	"github.com/miu200521358/pos2vmd/pkg/pmx"
)

const (
	morphFrameSize  = 15 + 4 + 4
	cameraFrameSize = 4 + 4 + 12 + 12 + 24 + 4 + 1
	lightFrameSize  = 4 + 12 + 12
	shadowFrameSize = 4 + 1 + 4
)

// Read VMDファイルのボーンキーフレームとIK有効状態を読み込む
func Read(path string) (*AnimationState, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open vmd %s", path)
	}
	defer f.Close()

	state, err := readMotion(bufio.NewReader(f))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read vmd %s", path)
	}
	return state, nil
}

func readMotion(r io.Reader) (*AnimationState, error) {
	signature, err := readText(r, signatureLength)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(signature, vmdSignature) {
		return nil, errors.Wrapf(merr.InvalidInputError, "signature %q", signature)
	}

	state := NewAnimationState()
	if state.ModelName, err = readText(r, modelNameLength); err != nil {
		return nil, err
	}

	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, err
	}

	for i := uint32(0); i < count; i++ {
		name, err := readText(r, boneNameLength)
		if err != nil {
			return nil, err
		}

		var values struct {
			Index    uint32
			Position [3]float32
			Rotation [4]float32
			Curves   [64]byte
		}
		if err := binary.Read(r, binary.LittleEndian, &values); err != nil {
			return nil, err
		}

		bone, ok := pmx.BoneIdByName(name)
		if !ok {
			mlog.V("skip bone frame: %s", name)
			continue
		}

		bf := NewBoneFrame(int(values.Index))
		bf.Position = *mmath.NewMVec3ByValues(
			float64(values.Position[0]), float64(values.Position[1]), float64(values.Position[2]))
		bf.Rotation = *mmath.NewMQuaternionByValues(
			float64(values.Rotation[0]), float64(values.Rotation[1]),
			float64(values.Rotation[2]), float64(values.Rotation[3])).Normalized()
		state.Channel(bone).Append(bf)
	}

	// 古い形式はここで終わる
	for _, size := range []int{morphFrameSize, cameraFrameSize, lightFrameSize, shadowFrameSize} {
		if err := skipFrames(r, size); err != nil {
			if errors.Is(err, io.EOF) {
				return state, nil
			}
			return nil, err
		}
	}

	enabled, err := readIkEnabled(r)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return state, nil
		}
		return nil, err
	}
	state.IkEnabled = enabled

	return state, nil
}

func skipFrames(r io.Reader, size int) error {
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return err
	}
	_, err := io.CopyN(io.Discard, r, int64(count)*int64(size))
	return err
}

// readIkEnabled 先頭のIKフレームで足ＩＫが有効か
func readIkEnabled(r io.Reader) (bool, error) {
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return false, err
	}

	enabled := true
	for i := uint32(0); i < count; i++ {
		var header struct {
			Index   uint32
			Display byte
			IkCount uint32
		}
		if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
			return false, err
		}
		for j := uint32(0); j < header.IkCount; j++ {
			name, err := readText(r, ikNameLength)
			if err != nil {
				return false, err
			}
			var flag byte
			if err := binary.Read(r, binary.LittleEndian, &flag); err != nil {
				return false, err
			}
			if i == 0 && name == pmx.LEG_IK_L.String() {
				enabled = flag == 1
			}
		}
	}
	return enabled, nil
}

func readText(r io.Reader, length int) (string, error) {
	buf := make([]byte, length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		buf = buf[:i]
	}

	decoded, err := japanese.ShiftJIS.NewDecoder().Bytes(buf)
	if err != nil {
		return string(buf), nil
	}
	return string(decoded), nil
}
