package ui

// Logger UI 组件使用的日志接口
//
// pkg/interfaces/infrastructure/log.Logger 满足该接口，可以直接传入。
type Logger interface {
	Debugf(format string, args ...interface{})
	Warnf(format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Debugf(string, ...interface{}) {}
func (noopLogger) Warnf(string, ...interface{})  {}

// NoopLogger 返回不输出任何内容的日志实例
func NoopLogger() Logger {
	return noopLogger{}
}
