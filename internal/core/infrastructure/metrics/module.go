// Package metrics 提供合约交互状态机的 Prometheus 指标
//
// 本模块提供：
// - Recorder: 操作生命周期计数、耗时直方图、在途与就绪状态
// - prometheus.Gatherer: 供 HTTP /metrics 端点导出
// - prometheus.Registerer: 供 HTTP 中间件注册请求指标
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	metricsiface "github.com/weisyn/bookshelf/pkg/interfaces/infrastructure/metrics"
)

// ModuleOutput 指标模块输出
type ModuleOutput struct {
	fx.Out

	Recorder   metricsiface.OperationRecorder
	Gatherer   prometheus.Gatherer
	Registerer prometheus.Registerer
}

// Module 返回 metrics 模块的 fx.Option
//
// 每个应用实例使用独立的注册表，便于测试中多次构建应用。
func Module() fx.Option {
	return fx.Module("metrics",
		fx.Provide(ProvideServices),
	)
}

// ProvideServices 创建独立注册表并注册记录器
func ProvideServices() (ModuleOutput, error) {
	registry := prometheus.NewRegistry()
	recorder, err := NewRecorder(registry)
	if err != nil {
		return ModuleOutput{}, err
	}
	return ModuleOutput{Recorder: recorder, Gatherer: registry, Registerer: registry}, nil
}
