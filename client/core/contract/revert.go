package contract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

const revertPrefix = "execution reverted"

// CallError 合约调用错误，携带可读原因
type CallError struct {
	Method   string
	reason   string
	reverted bool
	Err      error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s: %v", e.Method, e.Err)
}

// Unwrap 返回底层错误
func (e *CallError) Unwrap() error { return e.Err }

// Reason 可读原因，无法提取时为空
func (e *CallError) Reason() string { return e.reason }

// Reverted 合约执行是否回滚
func (e *CallError) Reverted() bool { return e.reverted }

type reasoner interface {
	Reason() string
}

// newCallError 包装调用错误并提取原因
//
// 依次尝试：错误自带的 Reason()、JSON-RPC 错误中的回滚数据、
// 错误消息中的 "execution reverted: " 后缀。
func newCallError(method string, err error) error {
	if err == nil {
		return nil
	}
	ce := &CallError{Method: method, Err: err}

	var r reasoner
	if errors.As(err, &r) {
		ce.reason = r.Reason()
	}

	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		if reason, ok := decodeRevertData(dataErr.ErrorData()); ok {
			ce.reverted = true
			if ce.reason == "" {
				ce.reason = reason
			}
		}
	}

	msg := err.Error()
	if idx := strings.Index(msg, revertPrefix); idx >= 0 {
		ce.reverted = true
		if ce.reason == "" {
			rest := strings.TrimPrefix(msg[idx+len(revertPrefix):], ":")
			ce.reason = strings.TrimSpace(rest)
		}
		if ce.reason == "" {
			ce.reason = revertPrefix
		}
	}
	return ce
}

// decodeRevertData 解码 Error(string) 回滚数据
func decodeRevertData(data interface{}) (string, bool) {
	hexData, ok := data.(string)
	if !ok {
		return "", false
	}
	raw, err := hexutil.Decode(hexData)
	if err != nil {
		return "", false
	}
	reason, err := abi.UnpackRevert(raw)
	if err != nil {
		return "", false
	}
	return reason, true
}
