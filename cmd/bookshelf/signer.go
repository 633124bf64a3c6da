package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/weisyn/bookshelf/client/core/config"
	"github.com/weisyn/bookshelf/client/core/wallet"
)

const (
	envPassword   = "BOOKSHELF_PASSWORD"
	envPrivateKey = "BOOKSHELF_PRIVATE_KEY"
	envMnemonic   = "BOOKSHELF_MNEMONIC"
)

// SignerFlags 钱包相关标志
type SignerFlags struct {
	Keystore string // keystore 文件
	HDPath   string // 助记词派生路径
}

var signerFlags SignerFlags

func addSignerFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&signerFlags.Keystore, "keystore", "", "keystore 文件 (默认使用profile keystore目录中唯一的文件)")
	cmd.PersistentFlags().StringVar(&signerFlags.HDPath, "hd-path", "", "助记词派生路径 (默认: m/44'/60'/0'/0/0)")
}

// loadSigner 按优先级加载签名器：私钥环境变量、助记词环境变量、keystore
//
// 都未配置时返回 nil，会话保持未绑定。
func loadSigner(profile *config.Profile) (wallet.Signer, error) {
	if hexKey := strings.TrimSpace(os.Getenv(envPrivateKey)); hexKey != "" {
		signer, err := wallet.NewKeySignerFromHex(hexKey)
		if err != nil {
			return nil, fmt.Errorf("加载私钥: %w", err)
		}
		return signer, nil
	}

	if mnemonic := strings.TrimSpace(os.Getenv(envMnemonic)); mnemonic != "" {
		var path *wallet.DerivationPath
		if signerFlags.HDPath != "" {
			p, err := wallet.ParseDerivationPath(signerFlags.HDPath)
			if err != nil {
				return nil, err
			}
			path = p
		}
		signer, err := wallet.NewMnemonicSigner(wallet.MnemonicSignerConfig{
			Mnemonic:   mnemonic,
			Passphrase: os.Getenv(envPassword),
			Path:       path,
		})
		if err != nil {
			return nil, fmt.Errorf("加载助记词: %w", err)
		}
		return signer, nil
	}

	keystorePath := signerFlags.Keystore
	if keystorePath == "" {
		found, err := findKeystore(profile.KeystorePath)
		if err != nil || found == "" {
			return nil, err
		}
		keystorePath = found
	}

	signer, err := wallet.NewKeystoreSigner(keystorePath)
	if err != nil {
		return nil, err
	}
	password, err := readPassword(fmt.Sprintf("解锁 %s 的密码: ", signer.Address().Hex()))
	if err != nil {
		return nil, err
	}
	if err := signer.Unlock(password, 0); err != nil {
		return nil, err
	}
	return signer, nil
}

// findKeystore 目录中恰好有一个 keystore 文件时返回它
func findKeystore(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("读取keystore目录: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasPrefix(entry.Name(), "UTC--") {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	switch len(files) {
	case 0:
		return "", nil
	case 1:
		return files[0], nil
	default:
		return "", fmt.Errorf("keystore目录 %s 中有 %d 个文件，请用 --keystore 指定", dir, len(files))
	}
}

// readPassword 优先读取环境变量，否则在终端中无回显读取
func readPassword(prompt string) (string, error) {
	if password, ok := os.LookupEnv(envPassword); ok {
		return password, nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("需要密码: 请在终端中运行或设置 %s", envPassword)
	}

	fmt.Fprint(os.Stderr, prompt)
	data, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("读取密码: %w", err)
	}
	return string(data), nil
}
