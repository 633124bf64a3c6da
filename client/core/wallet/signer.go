// Package wallet 提供会话内使用的交易签名器
//
// 签名器只负责为合约交易产出 bind.TransactOpts，密钥仅在内存中保存，
// 不做账户管理。支持两种来源：go-ethereum 加密 keystore 文件和 BIP39 助记词。
package wallet

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// ErrSignerRejected 签名器拒绝了签名请求（用户拒绝、签名器已锁定等）
var ErrSignerRejected = errors.New("signer rejected request")

// RejectedError 携带拒绝原因的签名错误，errors.Is(err, ErrSignerRejected) 为真
type RejectedError struct {
	Message string
	Err     error
}

func (e *RejectedError) Error() string {
	if e.Message == "" {
		return ErrSignerRejected.Error()
	}
	return ErrSignerRejected.Error() + ": " + e.Message
}

// Reason 返回面向用户的拒绝原因
func (e *RejectedError) Reason() string {
	if e.Message == "" {
		return ErrSignerRejected.Error()
	}
	return e.Message
}

// Unwrap 返回底层错误
func (e *RejectedError) Unwrap() error { return e.Err }

// Is 使 RejectedError 匹配 ErrSignerRejected
func (e *RejectedError) Is(target error) bool { return target == ErrSignerRejected }

// ApproveFunc 签名前的确认回调，返回错误表示拒绝签名
type ApproveFunc func(tx *types.Transaction) error

// Signer 签名器接口
type Signer interface {
	// Address 签名账户地址
	Address() common.Address

	// TransactOpts 为指定链生成交易选项
	// 签名器已锁定时返回 RejectedError
	TransactOpts(chainID *big.Int) (*bind.TransactOpts, error)

	// Type 返回签名器类型
	Type() SignerType
}

// SignerType 签名器类型
type SignerType string

const (
	SignerTypeKeystore SignerType = "keystore" // go-ethereum 加密 keystore 文件
	SignerTypeMnemonic SignerType = "mnemonic" // BIP39 助记词
	SignerTypeKey      SignerType = "key"      // 内存中的原始私钥
)
