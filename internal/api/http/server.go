// Package http 提供图书合约客户端的 HTTP API
//
// 路由：
//   - GET  /api/v1/state              视图快照
//   - GET  /api/v1/books              最近读取到的可借图书
//   - POST /api/v1/books/refresh      重新读取
//   - POST /api/v1/books              登记新书
//   - POST /api/v1/books/:id/borrow   借书
//   - POST /api/v1/books/:id/return   还书
//   - GET  /api/v1/ws                 视图快照推送
//   - GET  /metrics, /health
package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/weisyn/bookshelf/client/core/library"
	"github.com/weisyn/bookshelf/internal/api/http/handlers"
	"github.com/weisyn/bookshelf/internal/api/http/middleware"
	"github.com/weisyn/bookshelf/pkg/interfaces/infrastructure/log"
)

// DefaultListen 默认监听地址
const DefaultListen = "127.0.0.1:8080"

// Config HTTP 服务配置
type Config struct {
	Listen            string        `json:"listen"`
	ReadHeaderTimeout time.Duration `json:"read_header_timeout"`
}

// Service 服务依赖的会话能力
type Service interface {
	handlers.LibraryService
	Subscribe(fn func(library.View)) (func(), error)
}

// Deps 服务依赖
type Deps struct {
	Service    Service
	Contract   common.Address
	Endpoint   string
	Logger     log.Logger
	Gatherer   prometheus.Gatherer
	Registerer prometheus.Registerer
}

// Server HTTP服务器
type Server struct {
	config      Config
	router      *gin.Engine
	httpServer  *http.Server
	listener    net.Listener
	logger      log.Logger
	hub         *Hub
	unsubscribe func()
}

// NewServer 创建HTTP服务器并注册路由
func NewServer(config Config, deps Deps) (*Server, error) {
	if config.Listen == "" {
		config.Listen = DefaultListen
	}
	if config.ReadHeaderTimeout <= 0 {
		config.ReadHeaderTimeout = 10 * time.Second
	}

	zl := deps.Logger.GetZapLogger()
	if zl == nil {
		zl = zap.NewNop()
	}

	router := gin.New()
	router.Use(
		middleware.NewRequestID().Middleware(),
		middleware.NewLogger(deps.Logger).Middleware(),
		middleware.Recovery(zl),
		middleware.ErrorHandler(zl),
	)
	if deps.Registerer != nil {
		m, err := middleware.NewMetrics(deps.Registerer, zl)
		if err != nil {
			return nil, err
		}
		router.Use(m.Middleware())
	}

	s := &Server{
		config: config,
		router: router,
		logger: deps.Logger,
		hub:    NewHub(deps.Logger, deps.Service.View),
	}

	unsubscribe, err := deps.Service.Subscribe(s.hub.Broadcast)
	switch {
	case errors.Is(err, library.ErrNoEventBus):
		s.logger.Warn("会话未配置事件总线，WebSocket 只推送连接时的快照")
		s.unsubscribe = func() {}
	case err != nil:
		return nil, fmt.Errorf("subscribe view changes: %w", err)
	default:
		s.unsubscribe = unsubscribe
	}

	s.setupRoutes(deps)

	s.httpServer = &http.Server{
		Handler:           router,
		ReadHeaderTimeout: config.ReadHeaderTimeout,
	}
	return s, nil
}

func (s *Server) setupRoutes(deps Deps) {
	handlers.NewHealthHandler(deps.Service, deps.Contract, deps.Endpoint).RegisterRoutes(s.router)

	if deps.Gatherer != nil {
		s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	v1 := s.router.Group("/api/v1")
	handlers.NewLibraryHandler(deps.Service, deps.Contract, deps.Logger).RegisterRoutes(v1)
	v1.GET("/ws", s.hub.Handle)
}

// Handler 返回路由处理器
func (s *Server) Handler() http.Handler {
	return s.router
}

// Hub 返回推送中心
func (s *Server) Hub() *Hub {
	return s.hub
}

// Start 监听端口并在后台提供服务
//
// 端口监听失败时同步返回错误。
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.config.Listen)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.config.Listen, err)
	}
	s.listener = ln

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Errorf("HTTP服务器运行失败: %v", err)
		}
	}()

	s.logger.Infof("HTTP服务器已启动: http://%s", ln.Addr())
	return nil
}

// Addr 实际监听地址，未启动时为空
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop 停止HTTP服务
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("正在关闭HTTP服务器")

	s.unsubscribe()
	s.hub.Close()

	// 5秒后仍未完成则放弃等待
	stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(stopCtx); err != nil {
		s.logger.Errorf("HTTP服务器关闭出错: %v", err)
		return err
	}

	s.logger.Info("HTTP服务器已关闭")
	return nil
}
