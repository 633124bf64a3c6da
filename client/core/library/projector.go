package library

// View 视图层可见的四个字段
type View struct {
	Loading        bool    `json:"loading"`
	Error          *string `json:"error"`
	AvailableBooks *uint64 `json:"availableBooks"`
	Ready          bool    `json:"ready"`
}

// Project 把 CoreState 投影为视图快照，纯函数
func Project(s CoreState) View {
	v := View{
		Loading: s.OperationInFlight,
		Ready:   s.ContractReady,
	}
	if s.LastError != nil && *s.LastError != "" {
		msg := *s.LastError
		v.Error = &msg
	}
	if s.AvailableBooks != nil {
		n := *s.AvailableBooks
		v.AvailableBooks = &n
	}
	return v
}
