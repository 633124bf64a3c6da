package contract

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/weisyn/bookshelf/client/core/library"
	"github.com/weisyn/bookshelf/client/core/wallet"
)

// Backend 合约调用所需的链后端
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

// LibraryContract 图书合约句柄，实现 library.Contract
type LibraryContract struct {
	bound   *bind.BoundContract
	backend Backend
	signer  wallet.Signer
	chainID *big.Int
}

// NewLibraryContract 为签名器创建合约句柄，不做网络 I/O
func NewLibraryContract(backend Backend, chainID *big.Int, signer wallet.Signer) (*LibraryContract, error) {
	if backend == nil {
		return nil, errors.New("backend is required")
	}
	if chainID == nil {
		return nil, errors.New("chain id is required")
	}
	if signer == nil {
		return nil, errors.New("signer is required")
	}
	return &LibraryContract{
		bound:   bind.NewBoundContract(libraryAddress, parsedABI, backend, backend, backend),
		backend: backend,
		signer:  signer,
		chainID: new(big.Int).Set(chainID),
	}, nil
}

// Address 实现 library.Contract
func (c *LibraryContract) Address() common.Address {
	return libraryAddress
}

// GetAvailableBooks 实现 library.Contract
func (c *LibraryContract) GetAvailableBooks(ctx context.Context) ([]library.Book, error) {
	var out []interface{}
	opts := &bind.CallOpts{Context: ctx, From: c.signer.Address()}
	if err := c.bound.Call(opts, &out, MethodGetAvailableBooks); err != nil {
		return nil, newCallError(MethodGetAvailableBooks, err)
	}
	if len(out) == 0 {
		return nil, newCallError(MethodGetAvailableBooks, errors.New("empty result"))
	}

	books := *abi.ConvertType(out[0], new([]library.Book)).(*[]library.Book)
	return books, nil
}

// AddBook 实现 library.Contract
func (c *LibraryContract) AddBook(ctx context.Context, name, author string, copies *big.Int) (*types.Transaction, error) {
	return c.transact(ctx, MethodAddBook, name, author, copies)
}

// BorrowBook 实现 library.Contract
func (c *LibraryContract) BorrowBook(ctx context.Context, id *big.Int) (*types.Transaction, error) {
	return c.transact(ctx, MethodBorrowBook, id)
}

// ReturnBook 实现 library.Contract
func (c *LibraryContract) ReturnBook(ctx context.Context, id *big.Int) (*types.Transaction, error) {
	return c.transact(ctx, MethodReturnBook, id)
}

// WaitMined 实现 library.Contract，没有超时，取消由 ctx 控制
func (c *LibraryContract) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, c.backend, tx)
	if err != nil {
		return nil, fmt.Errorf("wait for %s: %w", tx.Hash().Hex(), err)
	}
	return receipt, nil
}

func (c *LibraryContract) transact(ctx context.Context, method string, args ...interface{}) (*types.Transaction, error) {
	opts, err := c.signer.TransactOpts(c.chainID)
	if err != nil {
		return nil, newCallError(method, err)
	}
	opts.Context = ctx

	tx, err := c.bound.Transact(opts, method, args...)
	if err != nil {
		return nil, newCallError(method, err)
	}
	return tx, nil
}

var _ library.Contract = (*LibraryContract)(nil)

// Binder 为签名器构造合约句柄，实现 library.Binder
type Binder struct {
	backend Backend
	chainID *big.Int
}

// NewBinder 创建 Binder，chainID 在拨号时从链上获取
func NewBinder(backend Backend, chainID *big.Int) *Binder {
	return &Binder{backend: backend, chainID: chainID}
}

// Bind 实现 library.Binder
func (b *Binder) Bind(signer wallet.Signer) (library.Contract, error) {
	return NewLibraryContract(b.backend, b.chainID, signer)
}

var _ library.Binder = (*Binder)(nil)
