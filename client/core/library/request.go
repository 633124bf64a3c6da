package library

import (
	"fmt"
	"math/big"
	"strings"
)

// OperationKind 操作类型，取值与合约方法名一致
type OperationKind string

const (
	KindGetAvailableBooks OperationKind = "getAvailableBooks"
	KindAddBook           OperationKind = "addBook"
	KindBorrowBook        OperationKind = "borrowBook"
	KindReturnBook        OperationKind = "returnBook"
)

// IsMutation 是否为修改链上状态的操作
func (k OperationKind) IsMutation() bool {
	return k == KindAddBook || k == KindBorrowBook || k == KindReturnBook
}

// maxUint256 合约整数参数上限 2^256-1
var maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// OperationRequest 用户发起的操作请求
//
// 只有本包定义的四种请求类型实现该接口。请求构造后不可修改，
// 执行器在发起网络调用前会再次校验整数参数。
type OperationRequest interface {
	Kind() OperationKind
	validate() error
}

// GetAvailableBooks 查询可借图书（只读调用）
type GetAvailableBooks struct{}

// AddBook 登记新书
type AddBook struct {
	Name   string
	Author string
	Copies *big.Int
}

// BorrowBook 借书
type BorrowBook struct {
	BookID *big.Int
}

// ReturnBook 还书
type ReturnBook struct {
	BookID *big.Int
}

func (GetAvailableBooks) Kind() OperationKind { return KindGetAvailableBooks }
func (AddBook) Kind() OperationKind           { return KindAddBook }
func (BorrowBook) Kind() OperationKind        { return KindBorrowBook }
func (ReturnBook) Kind() OperationKind        { return KindReturnBook }

func (GetAvailableBooks) validate() error { return nil }

func (r AddBook) validate() error {
	return checkUint256("copies", r.Copies)
}

func (r BorrowBook) validate() error {
	return checkUint256("book id", r.BookID)
}

func (r ReturnBook) validate() error {
	return checkUint256("book id", r.BookID)
}

// checkUint256 校验整数参数在 [0, 2^256-1] 范围内
func checkUint256(field string, v *big.Int) error {
	if v == nil {
		return fmt.Errorf("%w: %s is required", ErrInvalidRequest, field)
	}
	if v.Sign() < 0 {
		return fmt.Errorf("%w: %s must not be negative", ErrInvalidRequest, field)
	}
	if v.Cmp(maxUint256) > 0 {
		return fmt.Errorf("%w: %s exceeds uint256", ErrInvalidRequest, field)
	}
	return nil
}

// ParseUint256 解析十进制非负整数，用于 CLI 与 HTTP 输入
func ParseUint256(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.TrimLeft(s, "0123456789") != "" {
		return nil, fmt.Errorf("%w: %q is not a decimal integer", ErrInvalidRequest, s)
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not an integer", ErrInvalidRequest, s)
	}
	if err := checkUint256("value", v); err != nil {
		return nil, err
	}
	return v, nil
}

// normalize 把指针形式的请求转换为值，nil 请求返回 false
func normalize(req OperationRequest) (OperationRequest, bool) {
	switch r := req.(type) {
	case nil:
		return nil, false
	case *GetAvailableBooks:
		if r == nil {
			return nil, false
		}
		return *r, true
	case *AddBook:
		if r == nil {
			return nil, false
		}
		return *r, true
	case *BorrowBook:
		if r == nil {
			return nil, false
		}
		return *r, true
	case *ReturnBook:
		if r == nil {
			return nil, false
		}
		return *r, true
	}
	return req, true
}
