package wallet

import (
	"crypto/ecdsa"
	"errors"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// keyHolder 保存解锁后的私钥，供各类签名器复用
type keyHolder struct {
	mu          sync.RWMutex
	key         *ecdsa.PrivateKey
	unlockUntil time.Time
	approve     ApproveFunc
}

// set 放入私钥，duration 为 0 表示直到调用 Lock 前一直有效
func (h *keyHolder) set(key *ecdsa.PrivateKey, duration time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.key = key
	if duration > 0 {
		h.unlockUntil = time.Now().Add(duration)
	} else {
		h.unlockUntil = time.Time{}
	}
}

// Lock 清除内存中的私钥
func (h *keyHolder) Lock() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.key = nil
	h.unlockUntil = time.Time{}
}

// IsLocked 检查是否锁定（包括解锁过期）
func (h *keyHolder) IsLocked() bool {
	_, ok := h.current()
	return !ok
}

// SetApprover 设置签名前确认回调，nil 表示无需确认
func (h *keyHolder) SetApprover(fn ApproveFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.approve = fn
}

func (h *keyHolder) current() (*ecdsa.PrivateKey, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.key == nil {
		return nil, false
	}
	if !h.unlockUntil.IsZero() && time.Now().After(h.unlockUntil) {
		return nil, false
	}
	return h.key, true
}

func (h *keyHolder) approver() ApproveFunc {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.approve
}

// transactOpts 生成交易选项，签名时再次检查确认回调
func (h *keyHolder) transactOpts(chainID *big.Int) (*bind.TransactOpts, error) {
	if chainID == nil {
		return nil, errors.New("chain id is required")
	}
	key, ok := h.current()
	if !ok {
		return nil, &RejectedError{Message: "signer is locked"}
	}

	opts, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		return nil, err
	}

	sign := opts.Signer
	opts.Signer = func(from common.Address, tx *types.Transaction) (*types.Transaction, error) {
		if approve := h.approver(); approve != nil {
			if err := approve(tx); err != nil {
				return nil, &RejectedError{Message: err.Error(), Err: err}
			}
		}
		return sign(from, tx)
	}
	return opts, nil
}

// KeySigner 内存私钥签名器
type KeySigner struct {
	keyHolder
	address common.Address
}

// NewKeySigner 从私钥创建签名器
func NewKeySigner(key *ecdsa.PrivateKey) (*KeySigner, error) {
	if key == nil {
		return nil, errors.New("private key is required")
	}
	s := &KeySigner{address: crypto.PubkeyToAddress(key.PublicKey)}
	s.set(key, 0)
	return s, nil
}

// NewKeySignerFromHex 从十六进制私钥创建签名器，允许 0x 前缀
func NewKeySignerFromHex(hexKey string) (*KeySigner, error) {
	if len(hexKey) >= 2 && hexKey[0] == '0' && (hexKey[1] == 'x' || hexKey[1] == 'X') {
		hexKey = hexKey[2:]
	}
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, err
	}
	return NewKeySigner(key)
}

// Address 实现 Signer
func (s *KeySigner) Address() common.Address { return s.address }

// TransactOpts 实现 Signer
func (s *KeySigner) TransactOpts(chainID *big.Int) (*bind.TransactOpts, error) {
	return s.transactOpts(chainID)
}

// Type 实现 Signer
func (s *KeySigner) Type() SignerType { return SignerTypeKey }

var _ Signer = (*KeySigner)(nil)
