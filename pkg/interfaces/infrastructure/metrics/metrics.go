// Package metrics 定义合约交互状态机的指标上报接口
//
// 接口定义与实现分离：接口在此定义，Prometheus 实现在
// internal/core/infrastructure/metrics。核心状态机只依赖本接口。
package metrics

import "time"

// OperationRecorder 操作生命周期指标记录器
type OperationRecorder interface {
	// OperationStarted 操作通过在途闸门，开始执行
	OperationStarted(kind string)

	// OperationFinished 操作结束，category 为空表示成功
	OperationFinished(kind string, category string, elapsed time.Duration)

	// OperationRejected 操作在执行前被拒绝（未就绪、已有在途操作、参数非法）
	OperationRejected(kind string, category string)

	// ContractReady 合约绑定状态变化
	ContractReady(ready bool)

	// AvailableBooks 最近一次读取到的可借图书数量
	AvailableBooks(count uint64)
}

// NopRecorder 不记录任何指标
type NopRecorder struct{}

func (NopRecorder) OperationStarted(string)                          {}
func (NopRecorder) OperationFinished(string, string, time.Duration) {}
func (NopRecorder) OperationRejected(string, string)                 {}
func (NopRecorder) ContractReady(bool)                               {}
func (NopRecorder) AvailableBooks(uint64)                            {}
