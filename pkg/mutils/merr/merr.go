package merr

import "github.com/pkg/errors"

var (
	// NameNotFoundError 必須ボーンが見つからない
	NameNotFoundError = errors.New("bone name not found")
	// UnknownEncodingError UTF-8でもShift-JISでもない
	UnknownEncodingError = errors.New("unknown encoding")
	// InvalidInputError 入力ファイルの内容が不正
	InvalidInputError = errors.New("invalid input")
)
