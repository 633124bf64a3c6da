package http

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"github.com/weisyn/bookshelf/client/core/contract"
	"github.com/weisyn/bookshelf/client/core/library"
	"github.com/weisyn/bookshelf/client/core/transport"
	"github.com/weisyn/bookshelf/pkg/interfaces/infrastructure/log"
)

// ModuleInput HTTP 模块依赖
type ModuleInput struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Config     *Config `optional:"true"`
	Session    *library.Session
	Connection *transport.Connection `optional:"true"`
	Logger     log.Logger
	Gatherer   prometheus.Gatherer   `optional:"true"`
	Registerer prometheus.Registerer `optional:"true"`
}

// Module 返回HTTP API模块
func Module() fx.Option {
	return fx.Module("http",
		fx.Provide(ProvideServer),
	)
}

// ProvideServer 创建服务器并挂接生命周期
func ProvideServer(input ModuleInput) (*Server, error) {
	gin.SetMode(gin.ReleaseMode)

	config := Config{}
	if input.Config != nil {
		config = *input.Config
	}

	endpoint := ""
	if input.Connection != nil {
		endpoint = input.Connection.Client.Endpoint()
	}

	server, err := NewServer(config, Deps{
		Service:    input.Session,
		Contract:   contract.Address(),
		Endpoint:   endpoint,
		Logger:     input.Logger,
		Gatherer:   input.Gatherer,
		Registerer: input.Registerer,
	})
	if err != nil {
		return nil, err
	}

	input.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			return server.Start()
		},
		OnStop: func(ctx context.Context) error {
			return server.Stop(ctx)
		},
	})
	return server, nil
}
