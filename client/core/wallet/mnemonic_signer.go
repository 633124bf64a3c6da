package wallet

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// MnemonicSignerConfig 助记词签名器配置
type MnemonicSignerConfig struct {
	Mnemonic   string          // 助记词
	Passphrase string          // BIP39 密码（可选）
	Path       *DerivationPath // 派生路径（可选，默认为 m/44'/60'/0'/0/0）
}

// MnemonicSigner 助记词签名器
//
// 创建时即完成派生，私钥保存在内存中直到 Lock。
type MnemonicSigner struct {
	keyHolder
	address common.Address
	path    *DerivationPath
}

// NewMnemonicSigner 创建助记词签名器
func NewMnemonicSigner(config MnemonicSignerConfig) (*MnemonicSigner, error) {
	if config.Mnemonic == "" {
		return nil, errors.New("mnemonic is required")
	}

	path := config.Path
	if path == nil {
		path = DefaultDerivationPath()
	}
	if err := path.Validate(); err != nil {
		return nil, err
	}

	seed, err := MnemonicToSeed(config.Mnemonic, config.Passphrase)
	if err != nil {
		return nil, fmt.Errorf("mnemonic to seed: %w", err)
	}

	// 网络参数只影响扩展密钥序列化格式，不影响派生结果
	key, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, fmt.Errorf("create master key: %w", err)
	}
	for _, index := range path.ToUint32Array() {
		key, err = key.Derive(index)
		if err != nil {
			return nil, fmt.Errorf("derive %s: %w", path, err)
		}
	}

	btcKey, err := key.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("extract private key: %w", err)
	}
	privateKey, err := crypto.ToECDSA(btcKey.Serialize())
	if err != nil {
		return nil, fmt.Errorf("convert private key: %w", err)
	}

	s := &MnemonicSigner{
		address: crypto.PubkeyToAddress(privateKey.PublicKey),
		path:    path,
	}
	s.set(privateKey, 0)
	return s, nil
}

// DerivationPath 返回签名器使用的派生路径
func (s *MnemonicSigner) DerivationPath() string { return s.path.String() }

// Address 实现 Signer
func (s *MnemonicSigner) Address() common.Address { return s.address }

// TransactOpts 实现 Signer
func (s *MnemonicSigner) TransactOpts(chainID *big.Int) (*bind.TransactOpts, error) {
	return s.transactOpts(chainID)
}

// Type 实现 Signer
func (s *MnemonicSigner) Type() SignerType { return SignerTypeMnemonic }

var _ Signer = (*MnemonicSigner)(nil)
