package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/weisyn/bookshelf/client/core/config"
	"github.com/weisyn/bookshelf/client/core/output"
	"github.com/weisyn/bookshelf/client/pkg/ux/ui"
	"github.com/weisyn/bookshelf/internal/app"
	"github.com/weisyn/bookshelf/internal/app/version"
	logconfig "github.com/weisyn/bookshelf/internal/config/log"
)

// GlobalFlags 全局标志
type GlobalFlags struct {
	Profile      string // Profile名称
	ConfigDir    string // 配置目录
	OutputFormat string // 输出格式
	Silent       bool   // 静默模式
	Verbose      bool   // 详细模式
}

var (
	globalFlags GlobalFlags
	profileMgr  *config.ProfileManager
	formatter   *output.Formatter
	components  ui.Components
)

// rootCmd 根命令
var rootCmd = &cobra.Command{
	Use:   "bookshelf",
	Short: "图书借阅合约命令行客户端",
	Long: `bookshelf - 图书借阅合约的命令行客户端

通过已连接的钱包向固定地址的图书合约提交交易:
- 查询可借图书数量与列表
- 登记新书
- 按编号借书、还书
- 以 HTTP API 形式提供同样的能力 (serve)

同一时刻只允许一个操作在途,写操作会等待交易上链并检查回执状态。`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		profileMgr, err = config.NewProfileManager(globalFlags.ConfigDir)
		if err != nil {
			return fmt.Errorf("初始化配置: %w", err)
		}

		format, err := output.ParseFormat(globalFlags.OutputFormat)
		if err != nil {
			return err
		}
		formatter = output.NewFormatter(format, cmd.OutOrStdout())
		formatter.SetLogWriter(cmd.ErrOrStderr())
		formatter.SetSilent(globalFlags.Silent)

		components = ui.NewComponentsWithWriter(nil, cmd.ErrOrStderr())
		return nil
	},
}

// Execute 执行根命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&globalFlags.Profile, "profile", "", "使用指定的Profile (默认使用当前Profile)")
	rootCmd.PersistentFlags().StringVar(&globalFlags.ConfigDir, "config-dir", "", "配置目录 (默认: ~/.bookshelf)")
	rootCmd.PersistentFlags().StringVarP(&globalFlags.OutputFormat, "output", "o", "text", "输出格式: json|pretty|table|text")
	rootCmd.PersistentFlags().BoolVar(&globalFlags.Silent, "silent", false, "静默模式 (仅输出结果)")
	rootCmd.PersistentFlags().BoolVarP(&globalFlags.Verbose, "verbose", "v", false, "详细输出")

	addSignerFlags(rootCmd)

	rootCmd.AddCommand(booksCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(walletCmd)
	rootCmd.AddCommand(versionCmd)
}

// currentProfile 获取--profile指定的或当前profile
func currentProfile() (*config.Profile, error) {
	var profile *config.Profile
	var err error

	if globalFlags.Profile != "" {
		profile, err = profileMgr.GetProfile(globalFlags.Profile)
	} else {
		profile, err = profileMgr.GetCurrentProfile()
	}
	if err != nil {
		return nil, fmt.Errorf("获取Profile: %w", err)
	}
	return profile, nil
}

// logOptionsFor 命令行默认只输出警告以上日志，--verbose 输出调试日志
func logOptionsFor(profile *config.Profile, service bool) *logconfig.LogOptions {
	level := "warn"
	switch {
	case globalFlags.Verbose:
		level = "debug"
	case service && profile.LogLevel != "":
		level = profile.LogLevel
	case service:
		level = "info"
	}
	return &logconfig.LogOptions{
		Level:     level,
		FilePath:  profile.LogFile,
		ToConsole: profile.LogFile == "",
	}
}

// startApp 连接节点、加载签名器并启动应用
//
// service 为 true 时按服务方式输出日志。
func startApp(ctx context.Context, requireSigner, service bool, extra ...app.Option) (*app.App, *config.Profile, error) {
	profile, err := currentProfile()
	if err != nil {
		return nil, nil, err
	}

	signer, err := loadSigner(profile)
	if err != nil {
		return nil, nil, err
	}
	if signer == nil && requireSigner {
		return nil, nil, fmt.Errorf("未配置钱包: 使用 --keystore、%s 或 %s", envPrivateKey, envMnemonic)
	}

	opts := []app.Option{
		app.WithProfile(profile),
		app.WithLogOptions(logOptionsFor(profile, service)),
	}
	if signer != nil {
		opts = append(opts, app.WithSigner(signer))
	}
	opts = append(opts, extra...)

	a, err := app.New(opts...)
	if err != nil {
		return nil, nil, err
	}
	if err := a.Start(ctx); err != nil {
		return nil, nil, err
	}
	return a, profile, nil
}

// stopApp 停止应用，忽略已取消的上下文
func stopApp(a *app.App) {
	if err := a.Stop(context.Background()); err != nil {
		formatter.PrintWarning(err.Error())
	}
}

// signalContext 收到中断信号时取消
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// interactive 是否显示加载动画等交互输出
func interactive() bool {
	f := formatter.Format()
	return !globalFlags.Silent && (f == output.FormatText || f == output.FormatTable)
}
