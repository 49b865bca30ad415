package pmx

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"golang.org/x/text/encoding/japanese"

	"github.com/miu200521358/pos2vmd/pkg/mmath"
	"github.com/miu200521358/pos2vmd/pkg/mutils/merr"
	"github.com/miu200521358/pos2vmd/pkg/mutils/mlog"
)

var utf8Bom = []byte{0xEF, 0xBB, 0xBF}

// ReadBoneCsv PmxEditorのボーンCSVからボーン初期位置を読み込む
func ReadBoneCsv(path string) (*SkeletonReference, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read bone csv %s", path)
	}

	text, err := decodeText(data)
	if err != nil {
		return nil, errors.Wrapf(err, "bone csv %s", path)
	}

	skeleton, err := parseBoneCsv(strings.NewReader(text))
	if err != nil {
		return nil, errors.Wrapf(err, "bone csv %s", path)
	}

	return skeleton, nil
}

// decodeText UTF-8 でなければ Shift-JIS として読む
func decodeText(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8Bom)
	if utf8.Valid(data) {
		return string(data), nil
	}

	decoded, err := japanese.ShiftJIS.NewDecoder().Bytes(data)
	if err != nil || bytes.ContainsRune(decoded, utf8.RuneError) {
		return "", merr.UnknownEncodingError
	}

	return string(decoded), nil
}

func parseBoneCsv(r io.Reader) (*SkeletonReference, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	skeleton := NewSkeletonReference()

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(merr.InvalidInputError, err.Error())
		}

		// IKリンク行などはボーン名が重複するので Bone 行だけ見る
		if len(row) < 8 || row[0] != "Bone" {
			continue
		}

		bone, ok := BoneIdByName(row[1])
		if !ok {
			bone, ok = BoneIdByName(row[2])
		}
		if !ok || skeleton.Has(bone) {
			continue
		}

		position := mmath.NewMVec3()
		for i := 0; i < 3; i++ {
			v, err := strconv.ParseFloat(strings.TrimSpace(row[5+i]), 64)
			if err != nil {
				return nil, errors.Wrapf(merr.InvalidInputError, "bone %s position: %v", row[1], err)
			}
			position[i] = v
		}

		skeleton.Set(bone, position)
		mlog.V("bone: %s, position: %v", bone.String(), position)
	}

	return skeleton, nil
}
