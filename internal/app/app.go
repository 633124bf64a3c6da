// Package app 装配图书合约客户端
//
// 模块按依赖顺序组合：日志、事件、指标、链连接、会话，以及可选的 HTTP API。
package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/fx"

	"github.com/weisyn/bookshelf/client/core/library"
	"github.com/weisyn/bookshelf/client/core/wallet"
	apihttp "github.com/weisyn/bookshelf/internal/api/http"
	"github.com/weisyn/bookshelf/internal/core/infrastructure/event"
	logimpl "github.com/weisyn/bookshelf/internal/core/infrastructure/log"
	"github.com/weisyn/bookshelf/internal/core/infrastructure/metrics"
)

// App 应用实例
type App struct {
	fxApp   *fx.App
	session *library.Session
	source  *wallet.Source
	server  *apihttp.Server
}

// New 构建应用，节点连接在此时建立
func New(opts ...Option) (*App, error) {
	o := newOptions(opts...)
	a := &App{}

	modules := []fx.Option{
		fx.NopLogger,
		fx.StartTimeout(startTimeout(o)),
		fx.Supply(o.profile, o.logOptions),

		// 基础设施
		logimpl.Module(),
		event.Module(),
		metrics.Module(),

		// 链连接与会话
		chainModule(o),
		fx.Provide(wallet.NewSource, provideSession),
		fx.Invoke(func(lc fx.Lifecycle, session *library.Session, source *wallet.Source) {
			attachSession(lc, session, source, o)
		}),
		fx.Populate(&a.session, &a.source),
	}

	if o.enableAPI {
		modules = append(modules,
			fx.Supply(o.httpConfig),
			apihttp.Module(),
			fx.Populate(&a.server),
		)
	}

	a.fxApp = fx.New(modules...)
	if err := a.fxApp.Err(); err != nil {
		return nil, fmt.Errorf("build app: %w", err)
	}
	return a, nil
}

// startTimeout 启动时会等待首次自动刷新完成
func startTimeout(o *options) time.Duration {
	timeout := 2 * time.Duration(o.profile.Timeout)
	if timeout < 30*time.Second {
		timeout = 30 * time.Second
	}
	return timeout
}

// Start 启动应用
func (a *App) Start(ctx context.Context) error {
	if err := a.fxApp.Start(ctx); err != nil {
		return fmt.Errorf("启动应用失败: %w", err)
	}
	return nil
}

// Stop 停止应用
func (a *App) Stop(ctx context.Context) error {
	if err := a.fxApp.Stop(ctx); err != nil {
		return fmt.Errorf("停止应用失败: %w", err)
	}
	return nil
}

// Done 收到退出信号时关闭
func (a *App) Done() <-chan os.Signal {
	return a.fxApp.Done()
}

// Session 合约交互状态机
func (a *App) Session() *library.Session {
	return a.session
}

// Source 签名器来源
func (a *App) Source() *wallet.Source {
	return a.source
}

// Server HTTP服务器，未启用API时为 nil
func (a *App) Server() *apihttp.Server {
	return a.server
}
