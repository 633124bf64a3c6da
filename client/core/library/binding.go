package library

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/weisyn/bookshelf/client/core/wallet"
)

// Book 合约返回的图书条目
//
// 字段名与合约 ABI 元组的组件名对应，供 abi.ConvertType 转换。
type Book struct {
	Id     *big.Int `json:"id"`
	Name   string   `json:"name"`
	Author string   `json:"author"`
}

// Contract 绑定到固定地址的图书合约句柄
type Contract interface {
	// Address 合约地址
	Address() common.Address

	// GetAvailableBooks 只读调用，返回当前可借的图书副本
	GetAvailableBooks(ctx context.Context) ([]Book, error)

	// AddBook 提交登记新书交易
	AddBook(ctx context.Context, name, author string, copies *big.Int) (*types.Transaction, error)

	// BorrowBook 提交借书交易
	BorrowBook(ctx context.Context, id *big.Int) (*types.Transaction, error)

	// ReturnBook 提交还书交易
	ReturnBook(ctx context.Context, id *big.Int) (*types.Transaction, error)

	// WaitMined 等待交易被打包，返回回执
	WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)
}

// Binder 为签名器构造合约句柄，不做网络 I/O
type Binder interface {
	Bind(signer wallet.Signer) (Contract, error)
}

// ContractBinding 当前签名器下的合约绑定
type ContractBinding struct {
	Address  common.Address
	Signer   common.Address
	Contract Contract
}

// Bind 为签名器构造合约绑定
func Bind(binder Binder, signer wallet.Signer) (*ContractBinding, error) {
	if binder == nil {
		return nil, errors.New("binder is required")
	}
	if signer == nil {
		return nil, errors.New("signer is required")
	}

	contract, err := binder.Bind(signer)
	if err != nil {
		return nil, fmt.Errorf("bind contract: %w", err)
	}

	return &ContractBinding{
		Address:  contract.Address(),
		Signer:   signer.Address(),
		Contract: contract,
	}, nil
}
