package library

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/core/types"

	"github.com/weisyn/bookshelf/pkg/interfaces/infrastructure/log"
)

// Executor 执行单次合约调用：提交 → 等待打包 → 分类结果
//
// Executor 本身无状态，在途闸门和状态更新由 Session 负责。
// 所有错误都在这里转换为失败结果，不向调用方返回 error。
type Executor struct {
	logger log.Logger
}

// NewExecutor 创建执行器
func NewExecutor(logger log.Logger) *Executor {
	return &Executor{logger: logger}
}

// Execute 执行请求
func (e *Executor) Execute(ctx context.Context, binding *ContractBinding, req OperationRequest) (outcome Outcome) {
	req, ok := normalize(req)
	if !ok {
		return failure("", CategoryInvalidRequest, "request is required", ErrInvalidRequest)
	}
	kind := req.Kind()

	if binding == nil || binding.Contract == nil {
		return failure(kind, CategoryNotReady, ErrNotReady.Error(), ErrNotReady)
	}
	if err := req.validate(); err != nil {
		return failure(kind, CategoryInvalidRequest, err.Error(), err)
	}

	defer func() {
		if r := recover(); r != nil {
			if e.logger != nil {
				e.logger.Errorf("合约调用异常: kind=%s, panic=%v", kind, r)
			}
			outcome = failure(kind, CategoryNetworkFailure, genericReason, fmt.Errorf("panic: %v", r))
		}
	}()

	contract := binding.Contract
	switch r := req.(type) {
	case GetAvailableBooks:
		return e.read(ctx, contract)
	case AddBook:
		return e.mutate(ctx, contract, kind, func() (*types.Transaction, error) {
			return contract.AddBook(ctx, r.Name, r.Author, r.Copies)
		})
	case BorrowBook:
		return e.mutate(ctx, contract, kind, func() (*types.Transaction, error) {
			return contract.BorrowBook(ctx, r.BookID)
		})
	case ReturnBook:
		return e.mutate(ctx, contract, kind, func() (*types.Transaction, error) {
			return contract.ReturnBook(ctx, r.BookID)
		})
	}
	return failure(kind, CategoryInvalidRequest, "unsupported request", ErrInvalidRequest)
}

// read 只读查询，payload 为返回列表长度
func (e *Executor) read(ctx context.Context, contract Contract) Outcome {
	books, err := contract.GetAvailableBooks(ctx)
	if err != nil {
		return failure(KindGetAvailableBooks, classify(err), "", err)
	}

	count := uint64(len(books))
	out := success(KindGetAvailableBooks)
	out.Payload = &count
	out.Books = books
	return out
}

// mutate 提交交易并等待回执，只有状态为成功的回执算成功
func (e *Executor) mutate(ctx context.Context, contract Contract, kind OperationKind, submit func() (*types.Transaction, error)) Outcome {
	tx, err := submit()
	if err != nil {
		return failure(kind, classify(err), "", err)
	}
	if tx == nil {
		return failure(kind, CategoryNetworkFailure, genericReason, errors.New("no transaction returned"))
	}
	hash := tx.Hash().Hex()
	if e.logger != nil {
		e.logger.Debugf("交易已提交，等待打包: kind=%s, tx=%s", kind, hash)
	}

	receipt, err := contract.WaitMined(ctx, tx)
	if err != nil {
		out := failure(kind, classify(err), "", err)
		out.TxHash = hash
		return out
	}
	if receipt == nil || receipt.Status != types.ReceiptStatusSuccessful {
		out := failure(kind, CategoryLogicalRevert, ErrTransactionFailed.Error(), ErrTransactionFailed)
		out.TxHash = hash
		return out
	}

	out := success(kind)
	out.TxHash = hash
	return out
}
