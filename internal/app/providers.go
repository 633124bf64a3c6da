package app

import (
	"context"
	"fmt"

	"go.uber.org/fx"

	"github.com/weisyn/bookshelf/client/core/config"
	"github.com/weisyn/bookshelf/client/core/contract"
	"github.com/weisyn/bookshelf/client/core/library"
	"github.com/weisyn/bookshelf/client/core/transport"
	"github.com/weisyn/bookshelf/client/core/wallet"
	logimpl "github.com/weisyn/bookshelf/internal/core/infrastructure/log"
	"github.com/weisyn/bookshelf/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/bookshelf/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/bookshelf/pkg/interfaces/infrastructure/metrics"
)

// chainModule 连接节点并提供合约绑定器
func chainModule(o *options) fx.Option {
	if o.binder != nil {
		return fx.Module("chain",
			fx.Provide(func() library.Binder { return o.binder }),
		)
	}
	return fx.Module("chain",
		fx.Provide(
			func(lc fx.Lifecycle, profile *config.Profile, logger log.Logger) (*transport.Connection, error) {
				return provideConnection(lc, profile, logger, o.dial)
			},
			provideBinder,
		),
	)
}

// provideConnection 按profile连接节点，停止时关闭连接
func provideConnection(lc fx.Lifecycle, profile *config.Profile, logger log.Logger, dial transport.DialFunc) (*transport.Connection, error) {
	conn, err := transport.DialWith(context.Background(), profile.ClientConfig(), logimpl.NewModuleLogger(logger, "transport"), dial)
	if err != nil {
		return nil, fmt.Errorf("connect profile %s: %w", profile.Name, err)
	}

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			conn.Client.Close()
			return nil
		},
	})
	return conn, nil
}

func provideBinder(conn *transport.Connection) library.Binder {
	return contract.NewBinder(conn.Client, conn.ChainID)
}

// SessionInput 会话依赖
type SessionInput struct {
	fx.In

	Binder   library.Binder
	Profile  *config.Profile
	Logger   log.Logger
	Bus      event.EventBus            `optional:"true"`
	Recorder metrics.OperationRecorder `optional:"true"`
}

// provideSession 创建合约交互状态机
func provideSession(in SessionInput) *library.Session {
	opts := []library.Option{
		library.WithLogger(logimpl.NewModuleLogger(in.Logger, "library")),
		library.WithAutoRefresh(in.Profile.AutoRefresh),
	}
	if in.Bus != nil {
		opts = append(opts, library.WithEventBus(in.Bus))
	}
	if in.Recorder != nil {
		opts = append(opts, library.WithRecorder(in.Recorder))
	}
	return library.NewSession(in.Binder, opts...)
}

// attachSession 启动时让会话跟随签名器来源，并连接初始签名器
//
// 跟随使用独立的上下文，停止时取消，签名器变化触发的刷新不受启动超时限制。
func attachSession(lc fx.Lifecycle, session *library.Session, source *wallet.Source, o *options) {
	ctx, cancel := context.WithCancel(context.Background())
	var detach func()

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			if o.signer != nil {
				source.Connect(o.signer)
			}
			detach = session.Attach(ctx, source)
			return nil
		},
		OnStop: func(context.Context) error {
			if detach != nil {
				detach()
			}
			cancel()
			return nil
		},
	})
}
