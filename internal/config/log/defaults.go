package log

import (
	"go.uber.org/zap/zapcore"
)

// 日志配置默认值
const (
	// defaultLogLevel 默认日志级别
	defaultLogLevel = "info"

	// defaultToConsole CLI 默认输出到 stderr，不污染 stdout 上的 JSON 结果
	defaultToConsole = true

	// defaultFilePath 空表示不写文件
	defaultFilePath = ""

	// === 日志轮转配置 ===

	defaultMaxSize    = 20 // MB
	defaultMaxBackups = 5
	defaultMaxAge     = 14 // days
	defaultCompress   = true

	// === 调试配置 ===

	defaultEnableCaller     = false
	defaultEnableStacktrace = false
)

// 默认的日志级别映射
var defaultLevelMap = map[string]zapcore.Level{
	"debug": zapcore.DebugLevel,
	"info":  zapcore.InfoLevel,
	"warn":  zapcore.WarnLevel,
	"error": zapcore.ErrorLevel,
}
