package mlog

import (
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LogLevel int32

const (
	VERBOSE LogLevel = 0
	DEBUG   LogLevel = 10
	INFO    LogLevel = 20
	WARN    LogLevel = 30
	ERROR   LogLevel = 40
)

var level atomic.Int32
var zapLevel = zap.NewAtomicLevelAt(zapcore.InfoLevel)
var logger *zap.SugaredLogger

func init() {
	level.Store(int32(INFO))

	config := zap.NewDevelopmentConfig()
	config.Level = zapLevel
	config.DisableStacktrace = true
	config.DisableCaller = true
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	l, err := config.Build()
	if err != nil {
		l = zap.NewNop()
	}
	logger = l.Sugar()
}

// SetLevel ログレベルの設定
func SetLevel(l LogLevel) {
	level.Store(int32(l))

	switch {
	case l <= DEBUG:
		zapLevel.SetLevel(zapcore.DebugLevel)
	case l <= INFO:
		zapLevel.SetLevel(zapcore.InfoLevel)
	case l <= WARN:
		zapLevel.SetLevel(zapcore.WarnLevel)
	default:
		zapLevel.SetLevel(zapcore.ErrorLevel)
	}
}

func ParseLevel(name string) LogLevel {
	switch name {
	case "VERBOSE":
		return VERBOSE
	case "DEBUG":
		return DEBUG
	case "WARN":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

func IsVerbose() bool {
	return LogLevel(level.Load()) <= VERBOSE
}

func IsDebug() bool {
	return LogLevel(level.Load()) <= DEBUG
}

// V 冗長ログ
func V(message string, param ...interface{}) {
	if IsVerbose() {
		logger.Debugf(message, param...)
	}
}

// D デバッグログ
func D(message string, param ...interface{}) {
	if IsDebug() {
		logger.Debugf(message, param...)
	}
}

// I 情報ログ
func I(message string, param ...interface{}) {
	logger.Infof(message, param...)
}

// W 警告ログ
func W(message string, param ...interface{}) {
	logger.Warnf(message, param...)
}

// WT タイトル付き警告ログ
func WT(title, message string, param ...interface{}) {
	logger.Warnf("[%s] %s", title, fmt.Sprintf(message, param...))
}

// E エラーログ
func E(message string, param ...interface{}) {
	logger.Errorf(message, param...)
}

func Sync() {
	_ = logger.Sync()
}
