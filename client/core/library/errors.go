package library

import (
	"errors"
	"fmt"

	"github.com/weisyn/bookshelf/client/core/wallet"
)

// ErrorCategory 操作失败分类
type ErrorCategory string

const (
	CategoryNone                ErrorCategory = ""
	CategoryNotReady            ErrorCategory = "NotReady"
	CategoryConcurrentOperation ErrorCategory = "ConcurrentOperationRejected"
	CategorySignerRejected      ErrorCategory = "SignerRejected"
	CategoryNetworkFailure      ErrorCategory = "NetworkFailure"
	CategoryLogicalRevert       ErrorCategory = "LogicalRevert"
	CategoryInvalidRequest      ErrorCategory = "InvalidRequest"
)

var (
	// ErrNotReady 合约尚未绑定
	ErrNotReady = errors.New("contract not ready")
	// ErrConcurrentOperation 已有操作在途
	ErrConcurrentOperation = errors.New("another operation is in flight")
	// ErrInvalidRequest 请求参数非法
	ErrInvalidRequest = errors.New("invalid request")
	// ErrTransactionFailed 交易已上链但回执状态不是成功
	ErrTransactionFailed = errors.New("transaction did not succeed")
)

// genericReason 错误没有可读原因时使用的消息
const genericReason = "operation failed"

// OperationError 操作失败的错误值，Err 为底层错误或上述哨兵错误
type OperationError struct {
	Kind     OperationKind
	Category ErrorCategory
	Reason   string
	Err      error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

func (e *OperationError) Unwrap() error { return e.Err }

// reasoner 带有领域原因的错误（回滚原因、签名拒绝原因）
type reasoner interface {
	Reason() string
}

// reverter 能识别合约执行回滚的错误
type reverter interface {
	Reverted() bool
}

// reasonOf 提取错误中的领域原因，没有时返回通用消息
func reasonOf(err error) string {
	var r reasoner
	if errors.As(err, &r) {
		if reason := r.Reason(); reason != "" {
			return reason
		}
	}
	return genericReason
}

// classify 把提交或等待阶段的错误归类
func classify(err error) ErrorCategory {
	if errors.Is(err, wallet.ErrSignerRejected) {
		return CategorySignerRejected
	}
	if errors.Is(err, ErrTransactionFailed) {
		return CategoryLogicalRevert
	}
	var r reverter
	if errors.As(err, &r) && r.Reverted() {
		return CategoryLogicalRevert
	}
	return CategoryNetworkFailure
}
