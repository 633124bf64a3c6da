package wallet

import "sync"

// Source 会话内的签名器来源
//
// 签名器可以在会话中连接、断开或切换账户，每次变化都会通知订阅者。
// 通知在锁外按订阅顺序同步执行，回调收到 nil 表示已断开。
type Source struct {
	mu      sync.Mutex
	current Signer
	subs    []*subscription
}

type subscription struct {
	fn func(Signer)
}

// NewSource 创建空的签名器来源
func NewSource() *Source {
	return &Source{}
}

// Connect 连接或切换签名器，nil 等同于 Disconnect
func (s *Source) Connect(signer Signer) {
	s.mu.Lock()
	s.current = signer
	subs := append([]*subscription(nil), s.subs...)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(signer)
	}
}

// Disconnect 断开当前签名器
func (s *Source) Disconnect() {
	s.Connect(nil)
}

// Current 返回当前签名器，未连接时返回 nil
func (s *Source) Current() Signer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Subscribe 订阅签名器变化，返回取消订阅函数
func (s *Source) Subscribe(fn func(Signer)) func() {
	sub := &subscription{fn: fn}

	s.mu.Lock()
	s.subs = append(s.subs, sub)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, existing := range s.subs {
			if existing == sub {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}
