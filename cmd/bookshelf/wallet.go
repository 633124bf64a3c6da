package main

import (
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/cobra"

	"github.com/weisyn/bookshelf/client/core/wallet"
)

// walletCmd 钱包命令
var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "钱包管理",
	Long:  "生成助记词或 keystore 文件,并显示当前签名器地址",
}

var walletNewFlags struct {
	Words    int
	Keystore bool
	Light    bool
}

// walletNewCmd 生成新钱包
var walletNewCmd = &cobra.Command{
	Use:   "new",
	Short: "生成新钱包",
	Long: `生成新钱包:
  默认生成助记词并显示派生地址(设置 BOOKSHELF_MNEMONIC 即可使用)
  --keystore-file 生成私钥并加密保存到当前profile的keystore目录`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if walletNewFlags.Keystore {
			return newKeystoreWallet()
		}
		return newMnemonicWallet()
	},
}

// walletAddressCmd 显示签名器地址
var walletAddressCmd = &cobra.Command{
	Use:   "address",
	Short: "显示当前签名器地址",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := currentProfile()
		if err != nil {
			return err
		}
		signer, err := loadSigner(profile)
		if err != nil {
			return err
		}
		if signer == nil {
			return fmt.Errorf("未配置钱包: 使用 --keystore、%s 或 %s", envPrivateKey, envMnemonic)
		}

		return formatter.Print(map[string]interface{}{
			"address": signer.Address().Hex(),
			"type":    signer.Type(),
		})
	},
}

func newMnemonicWallet() error {
	strength, err := wallet.StrengthForWords(walletNewFlags.Words)
	if err != nil {
		return err
	}
	mnemonic, err := wallet.GenerateMnemonic(strength)
	if err != nil {
		return err
	}

	var path *wallet.DerivationPath
	if signerFlags.HDPath != "" {
		if path, err = wallet.ParseDerivationPath(signerFlags.HDPath); err != nil {
			return err
		}
	}
	signer, err := wallet.NewMnemonicSigner(wallet.MnemonicSignerConfig{Mnemonic: mnemonic, Path: path})
	if err != nil {
		return err
	}

	formatter.PrintWarning("请离线保存助记词,丢失后无法恢复")
	return formatter.Print(map[string]interface{}{
		"mnemonic": mnemonic,
		"path":     signer.DerivationPath(),
		"address":  signer.Address().Hex(),
	})
}

func newKeystoreWallet() error {
	profile, err := currentProfile()
	if err != nil {
		return err
	}

	password, err := readPassword("新 keystore 密码: ")
	if err != nil {
		return err
	}
	if password == "" {
		return fmt.Errorf("密码不能为空")
	}

	key, err := crypto.GenerateKey()
	if err != nil {
		return fmt.Errorf("生成私钥: %w", err)
	}

	params := wallet.StandardScrypt
	if walletNewFlags.Light {
		params = wallet.LightScrypt
	}
	file, err := wallet.SaveKeystore(profile.KeystorePath, key, password, params)
	if err != nil {
		return err
	}

	formatter.PrintSuccess("keystore 已保存")
	return formatter.Print(map[string]interface{}{
		"address": crypto.PubkeyToAddress(key.PublicKey).Hex(),
		"file":    file,
	})
}

func init() {
	walletNewCmd.Flags().IntVar(&walletNewFlags.Words, "words", 12, "助记词单词数 (12/15/18/21/24)")
	walletNewCmd.Flags().BoolVar(&walletNewFlags.Keystore, "keystore-file", false, "生成 keystore 文件而不是助记词")
	walletNewCmd.Flags().BoolVar(&walletNewFlags.Light, "light", false, "使用低强度 scrypt 参数")

	walletCmd.AddCommand(walletNewCmd)
	walletCmd.AddCommand(walletAddressCmd)
}
