package wallet

import (
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
)

// KeystoreSigner go-ethereum 加密 keystore 文件签名器
//
// 创建后处于锁定状态，需要 Unlock 后才能签名。
type KeystoreSigner struct {
	keyHolder
	keystorePath string
	address      common.Address
}

// keystoreHeader keystore 文件中无需解密即可读取的字段
type keystoreHeader struct {
	Address string `json:"address"`
}

// NewKeystoreSigner 创建 Keystore 签名器
func NewKeystoreSigner(keystorePath string) (*KeystoreSigner, error) {
	data, err := os.ReadFile(keystorePath)
	if err != nil {
		return nil, fmt.Errorf("read keystore: %w", err)
	}

	var header keystoreHeader
	if err := json.Unmarshal(data, &header); err != nil {
		return nil, fmt.Errorf("parse keystore: %w", err)
	}
	if !common.IsHexAddress(header.Address) {
		return nil, fmt.Errorf("parse keystore: invalid address %q", header.Address)
	}

	return &KeystoreSigner{
		keystorePath: keystorePath,
		address:      common.HexToAddress(header.Address),
	}, nil
}

// Unlock 解锁 keystore
// duration: 解锁时长，0 表示直到调用 Lock 前一直有效
func (ks *KeystoreSigner) Unlock(password string, duration time.Duration) error {
	data, err := os.ReadFile(ks.keystorePath)
	if err != nil {
		return fmt.Errorf("read keystore: %w", err)
	}

	key, err := keystore.DecryptKey(data, password)
	if err != nil {
		return fmt.Errorf("decrypt keystore: %w", err)
	}
	if key.Address != ks.address {
		return fmt.Errorf("keystore address mismatch: header %s, key %s", ks.address.Hex(), key.Address.Hex())
	}

	ks.set(key.PrivateKey, duration)
	return nil
}

// Address 实现 Signer
func (ks *KeystoreSigner) Address() common.Address { return ks.address }

// TransactOpts 实现 Signer
func (ks *KeystoreSigner) TransactOpts(chainID *big.Int) (*bind.TransactOpts, error) {
	return ks.transactOpts(chainID)
}

// Type 实现 Signer
func (ks *KeystoreSigner) Type() SignerType { return SignerTypeKeystore }

var _ Signer = (*KeystoreSigner)(nil)

// KeystoreScrypt keystore 加密强度参数
type KeystoreScrypt struct {
	N int
	P int
}

var (
	// StandardScrypt go-ethereum 默认强度
	StandardScrypt = KeystoreScrypt{N: keystore.StandardScryptN, P: keystore.StandardScryptP}
	// LightScrypt 低强度，用于测试和低配设备
	LightScrypt = KeystoreScrypt{N: keystore.LightScryptN, P: keystore.LightScryptP}
)

// SaveKeystore 将私钥加密写入 keystoreDir，返回文件路径
func SaveKeystore(keystoreDir string, privateKey *ecdsa.PrivateKey, password string, params KeystoreScrypt) (string, error) {
	if privateKey == nil {
		return "", fmt.Errorf("private key is required")
	}
	if err := os.MkdirAll(keystoreDir, 0o700); err != nil {
		return "", fmt.Errorf("create keystore dir: %w", err)
	}

	key := &keystore.Key{
		Id:         uuid.New(),
		Address:    crypto.PubkeyToAddress(privateKey.PublicKey),
		PrivateKey: privateKey,
	}
	data, err := keystore.EncryptKey(key, password, params.N, params.P)
	if err != nil {
		return "", fmt.Errorf("encrypt key: %w", err)
	}

	name := fmt.Sprintf("UTC--%s--%x", time.Now().UTC().Format("2006-01-02T15-04-05.000000000Z"), key.Address.Bytes())
	path := filepath.Join(keystoreDir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write keystore: %w", err)
	}
	return path, nil
}
