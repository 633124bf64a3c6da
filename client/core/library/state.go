package library

// CoreState 状态机的唯一可变状态，由 Session 持有
type CoreState struct {
	ContractReady     bool
	OperationInFlight bool
	LastError         *string
	AvailableBooks    *uint64
}

// Phase 状态机阶段
type Phase string

const (
	PhaseUnbound Phase = "unbound"
	PhaseIdle    Phase = "idle"
	PhaseBusy    Phase = "busy"
	PhaseError   Phase = "error"
)

// Phase 根据状态计算当前阶段
func (s CoreState) Phase() Phase {
	switch {
	case !s.ContractReady:
		return PhaseUnbound
	case s.OperationInFlight:
		return PhaseBusy
	case s.LastError != nil:
		return PhaseError
	default:
		return PhaseIdle
	}
}

// clone 返回不共享指针的副本
func (s CoreState) clone() CoreState {
	out := s
	if s.LastError != nil {
		v := *s.LastError
		out.LastError = &v
	}
	if s.AvailableBooks != nil {
		v := *s.AvailableBooks
		out.AvailableBooks = &v
	}
	return out
}
