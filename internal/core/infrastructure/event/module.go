// Package event 提供事件管理功能
package event

import (
	"context"

	"go.uber.org/fx"

	eventconfig "github.com/weisyn/bookshelf/internal/config/event"
	eventInterface "github.com/weisyn/bookshelf/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/bookshelf/pkg/interfaces/infrastructure/log"
)

// ModuleInput 事件模块输入依赖
type ModuleInput struct {
	fx.In

	Options   *eventconfig.EventOptions `optional:"true"` // 事件配置（可选）
	Logger    log.Logger                `optional:"true"` // 日志记录器（可选）
	Lifecycle fx.Lifecycle              // 生命周期管理
}

// ModuleOutput 事件模块输出服务
type ModuleOutput struct {
	fx.Out

	EventBus eventInterface.EventBus // 基础事件总线
}

// Module 返回事件模块
func Module() fx.Option {
	return fx.Module("event",
		fx.Provide(ProvideServices),
	)
}

// ProvideServices 创建事件总线并挂接生命周期
func ProvideServices(input ModuleInput) ModuleOutput {
	bus := New(eventconfig.New(input.Options), input.Logger)

	input.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			bus.Publish(SystemStarted)
			return nil
		},
		OnStop: func(context.Context) error {
			bus.Publish(SystemStopped)
			bus.WaitAsync()
			return nil
		},
	})

	return ModuleOutput{EventBus: bus}
}
