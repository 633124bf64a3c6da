package main

import (
	"github.com/spf13/cobra"

	"github.com/weisyn/bookshelf/internal/app"
)

var serveFlags struct {
	Listen string
}

// serveCmd HTTP API 服务
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动 HTTP API 服务",
	Long: `启动 HTTP API 服务,提供:
  GET  /api/v1/state               视图快照
  GET  /api/v1/books               最近读取到的可借图书
  POST /api/v1/books/refresh       重新读取
  POST /api/v1/books               登记新书
  POST /api/v1/books/:id/borrow    借书
  POST /api/v1/books/:id/return    还书
  GET  /api/v1/ws                  视图快照推送
  GET  /metrics  /health`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext(cmd.Context())
		defer cancel()

		a, _, err := startApp(ctx, false, true, app.WithAPI(serveFlags.Listen))
		if err != nil {
			return err
		}
		defer stopApp(a)

		formatter.PrintInfo("HTTP API 已启动: http://" + a.Server().Addr())

		select {
		case <-ctx.Done():
		case <-a.Done():
		}
		formatter.PrintInfo("正在停止服务")
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.Listen, "listen", "", "监听地址 (默认使用profile中的http_listen)")
}
