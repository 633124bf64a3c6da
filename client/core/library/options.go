package library

import (
	"github.com/weisyn/bookshelf/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/bookshelf/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/bookshelf/pkg/interfaces/infrastructure/metrics"
)

// Option Session 配置项
type Option func(*options)

type options struct {
	logger      log.Logger
	bus         event.EventBus
	recorder    metrics.OperationRecorder
	autoRefresh bool
}

// WithLogger 设置日志记录器
func WithLogger(logger log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithEventBus 设置状态变化通知使用的事件总线
func WithEventBus(bus event.EventBus) Option {
	return func(o *options) { o.bus = bus }
}

// WithRecorder 设置指标记录器
func WithRecorder(recorder metrics.OperationRecorder) Option {
	return func(o *options) { o.recorder = recorder }
}

// WithAutoRefresh 修改类操作成功后自动刷新可借数量，默认关闭
//
// 关闭时可借数量只在绑定后和用户主动查询时更新，修改操作后的读数可能过期。
func WithAutoRefresh(enabled bool) Option {
	return func(o *options) { o.autoRefresh = enabled }
}
