package library

// Outcome 单次操作的结果，每个请求恰好产生一个
type Outcome struct {
	ID       string        `json:"id"`
	Kind     OperationKind `json:"kind"`
	Success  bool          `json:"success"`
	Payload  *uint64       `json:"payload,omitempty"` // 只读查询返回的可借数量
	Books    []Book        `json:"-"`
	TxHash   string        `json:"tx_hash,omitempty"`
	Reason   string        `json:"reason,omitempty"`
	Category ErrorCategory `json:"category,omitempty"`
	Err      error         `json:"-"`
}

func success(kind OperationKind) Outcome {
	return Outcome{Kind: kind, Success: true}
}

// failure 构造失败结果，reason 为空时从 err 中提取
func failure(kind OperationKind, category ErrorCategory, reason string, err error) Outcome {
	if reason == "" {
		reason = reasonOf(err)
	}
	return Outcome{
		Kind:     kind,
		Category: category,
		Reason:   reason,
		Err:      &OperationError{Kind: kind, Category: category, Reason: reason, Err: err},
	}
}
