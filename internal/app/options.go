package app

import (
	"github.com/weisyn/bookshelf/client/core/config"
	"github.com/weisyn/bookshelf/client/core/library"
	"github.com/weisyn/bookshelf/client/core/transport"
	"github.com/weisyn/bookshelf/client/core/wallet"
	apihttp "github.com/weisyn/bookshelf/internal/api/http"
	logconfig "github.com/weisyn/bookshelf/internal/config/log"
)

// Option 应用程序选项函数类型
type Option func(*options)

// options 应用程序选项
type options struct {
	// 当前profile
	profile *config.Profile

	// 启动时连接的签名器，为空则保持未绑定
	signer wallet.Signer

	// 日志配置，为空时由profile推导
	logOptions *logconfig.LogOptions

	// API支持开关（默认关闭）
	enableAPI  bool
	httpConfig *apihttp.Config

	// 测试替换点
	dial   transport.DialFunc
	binder library.Binder
}

// WithProfile 设置profile
func WithProfile(profile *config.Profile) Option {
	return func(o *options) {
		o.profile = profile
	}
}

// WithSigner 设置启动时连接的签名器
func WithSigner(signer wallet.Signer) Option {
	return func(o *options) {
		o.signer = signer
	}
}

// WithLogOptions 设置日志配置
func WithLogOptions(logOptions *logconfig.LogOptions) Option {
	return func(o *options) {
		o.logOptions = logOptions
	}
}

// WithAPI 启用HTTP API模块，listen 为空时使用profile中的地址
func WithAPI(listen string) Option {
	return func(o *options) {
		o.enableAPI = true
		if listen != "" {
			o.httpConfig = &apihttp.Config{Listen: listen}
		}
	}
}

// WithDialer 替换节点拨号函数
func WithDialer(dial transport.DialFunc) Option {
	return func(o *options) {
		o.dial = dial
	}
}

// WithBinder 直接使用给定的合约绑定器，不再连接节点
func WithBinder(binder library.Binder) Option {
	return func(o *options) {
		o.binder = binder
	}
}

// newOptions 创建选项
func newOptions(opts ...Option) *options {
	o := &options{dial: transport.DialEth}
	for _, opt := range opts {
		opt(o)
	}
	if o.profile == nil {
		o.profile = config.DefaultProfiles()[0]
	}
	if o.logOptions == nil {
		o.logOptions = &logconfig.LogOptions{
			Level:     o.profile.LogLevel,
			FilePath:  o.profile.LogFile,
			ToConsole: o.profile.LogFile == "",
		}
	}
	if o.enableAPI && o.httpConfig == nil {
		o.httpConfig = &apihttp.Config{Listen: o.profile.HTTPListen}
	}
	return o
}
