package main

import (
	"github.com/spf13/cobra"

	"github.com/weisyn/bookshelf/client/core/contract"
	"github.com/weisyn/bookshelf/client/core/output"
	"github.com/weisyn/bookshelf/client/pkg/ux/ui"
)

// statusCmd 会话状态
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "显示连接与合约状态",
	Long:  "连接节点与钱包(如已配置),完成自动刷新后显示视图状态",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext(cmd.Context())
		defer cancel()

		a, profile, err := startApp(ctx, false, false)
		if err != nil {
			return err
		}
		defer stopApp(a)

		session := a.Session()
		info := ui.StatusInfo{
			Profile:  profile.Name,
			Contract: contract.Address().Hex(),
			View:     session.View(),
		}
		if len(profile.Endpoints) > 0 {
			info.Endpoint = profile.ClientConfig().Endpoints[0].URL()
		}
		if addr, ok := session.Signer(); ok {
			info.Signer = addr.Hex()
		}

		if interactive() && formatter.Format() == output.FormatTable {
			return components.ShowStatus(info)
		}
		return formatter.PrintView(info.View)
	},
}
