package library

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"

	"github.com/weisyn/bookshelf/client/core/wallet"
	"github.com/weisyn/bookshelf/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/bookshelf/pkg/interfaces/infrastructure/metrics"
)

// EventViewChanged 每次状态变化后发布，参数为 View
const EventViewChanged event.EventType = "library:view_changed"

// ErrNoEventBus 未配置事件总线时无法订阅
var ErrNoEventBus = errors.New("event bus not configured")

// Session 合约交互状态机
//
// Session 持有唯一的合约绑定与 CoreState。操作通过在途闸门串行执行：
// 闸门在互斥锁内检查并设置，已有操作在途时新请求立即被拒绝，不排队。
// 网络调用期间不持锁，状态变化通知在释放锁后发布。
//
// 签名器切换会使绑定代数递增；旧代数的操作结束时只释放闸门，
// 结果不会写入新绑定的状态。
type Session struct {
	mu         sync.Mutex
	binder     Binder
	executor   *Executor
	cache      ReadCache
	state      CoreState
	binding    *ContractBinding
	generation uint64
	// 绑定时已有操作在途，待其结束后补一次自动刷新
	refreshPending bool

	opts options
}

// NewSession 创建状态机，初始为未绑定状态
func NewSession(binder Binder, opts ...Option) *Session {
	o := options{recorder: metrics.NopRecorder{}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.recorder == nil {
		o.recorder = metrics.NopRecorder{}
	}
	return &Session{
		binder:   binder,
		executor: NewExecutor(o.logger),
		opts:     o,
	}
}

// ========== 绑定 ==========

// SignerChanged 响应签名器变化
//
// signer 为 nil 表示断开，状态回到未绑定。否则构造新绑定并立即自动刷新一次
// 可借数量；若此时已有操作在途，刷新推迟到该操作结束后。
func (s *Session) SignerChanged(ctx context.Context, signer wallet.Signer) error {
	if signer == nil {
		s.unbind()
		return nil
	}

	binding, err := Bind(s.binder, signer)
	if err != nil {
		s.unbind()
		s.logError("合约绑定失败: %v", err)
		return err
	}

	s.mu.Lock()
	s.binding = binding
	s.generation++
	s.state.ContractReady = true
	s.state.LastError = nil
	busy := s.state.OperationInFlight
	if busy {
		s.refreshPending = true
	}
	view := Project(s.state)
	s.mu.Unlock()

	s.logInfo("合约已绑定: contract=%s, signer=%s", binding.Address.Hex(), binding.Signer.Hex())
	s.opts.recorder.ContractReady(true)
	s.publish(view)

	if !busy {
		s.Submit(ctx, GetAvailableBooks{})
	}
	return nil
}

// Attach 跟随签名器来源的变化，返回取消跟随函数
//
// 来源当前已有签名器时立即绑定。
func (s *Session) Attach(ctx context.Context, source *wallet.Source) func() {
	unsubscribe := source.Subscribe(func(signer wallet.Signer) {
		_ = s.SignerChanged(ctx, signer)
	})
	if current := source.Current(); current != nil {
		_ = s.SignerChanged(ctx, current)
	}
	return unsubscribe
}

// unbind 丢弃绑定与缓存，在途操作仍会结束并释放闸门
func (s *Session) unbind() {
	s.mu.Lock()
	wasReady := s.state.ContractReady
	s.binding = nil
	s.generation++
	s.refreshPending = false
	s.cache.Reset()
	s.state.ContractReady = false
	s.state.AvailableBooks = nil
	s.state.LastError = nil
	view := Project(s.state)
	s.mu.Unlock()

	if wasReady {
		s.logInfo("合约绑定已解除")
	}
	s.opts.recorder.ContractReady(false)
	s.publish(view)
}

// ========== 操作触发 ==========

// GetAvailableBooks 查询可借图书数量
func (s *Session) GetAvailableBooks(ctx context.Context) Outcome {
	return s.Submit(ctx, GetAvailableBooks{})
}

// AddBook 登记新书
func (s *Session) AddBook(ctx context.Context, name, author string, copies *big.Int) Outcome {
	return s.Submit(ctx, AddBook{Name: name, Author: author, Copies: copies})
}

// BorrowBook 借书
func (s *Session) BorrowBook(ctx context.Context, id *big.Int) Outcome {
	return s.Submit(ctx, BorrowBook{BookID: id})
}

// ReturnBook 还书
func (s *Session) ReturnBook(ctx context.Context, id *big.Int) Outcome {
	return s.Submit(ctx, ReturnBook{BookID: id})
}

// RefreshAvailableBooks 刷新可借数量
func (s *Session) RefreshAvailableBooks(ctx context.Context) (uint64, error) {
	out := s.Submit(ctx, GetAvailableBooks{})
	if !out.Success {
		return 0, out.Err
	}
	return *out.Payload, nil
}

// Submit 执行一个请求，阻塞直到结果产生
func (s *Session) Submit(ctx context.Context, req OperationRequest) Outcome {
	id := uuid.NewString()

	req, ok := normalize(req)
	if !ok {
		out := failure("", CategoryInvalidRequest, "request is required", ErrInvalidRequest)
		out.ID = id
		return out
	}
	kind := req.Kind()

	s.mu.Lock()
	if s.binding == nil {
		out := failure(kind, CategoryNotReady, ErrNotReady.Error(), ErrNotReady)
		out.ID = id
		reason := out.Reason
		s.state.LastError = &reason
		view := Project(s.state)
		s.mu.Unlock()

		s.reject(out)
		s.publish(view)
		return out
	}
	if s.state.OperationInFlight {
		// 拒绝只通过返回的 Outcome 告知调用方（HTTP 409、CLI 错误）。
		// LastError 与视图保持在途操作的状态，不发布变更。
		s.mu.Unlock()
		out := failure(kind, CategoryConcurrentOperation, ErrConcurrentOperation.Error(), ErrConcurrentOperation)
		out.ID = id
		s.reject(out)
		return out
	}
	s.state.OperationInFlight = true
	s.state.LastError = nil
	binding := s.binding
	generation := s.generation
	view := Project(s.state)
	s.mu.Unlock()

	s.logDebug("操作开始: id=%s, kind=%s", id, kind)
	s.opts.recorder.OperationStarted(string(kind))
	s.publish(view)

	start := time.Now()
	out := s.executor.Execute(ctx, binding, req)
	out.ID = id

	s.resolve(ctx, generation, out, time.Since(start))
	return out
}

// resolve 释放闸门并在绑定未变化时写入结果
func (s *Session) resolve(ctx context.Context, generation uint64, out Outcome, elapsed time.Duration) {
	s.mu.Lock()
	s.state.OperationInFlight = false
	current := generation == s.generation && s.binding != nil

	var count *uint64
	if current {
		if out.Success {
			if out.Kind == KindGetAvailableBooks {
				n := s.cache.Store(out.Books)
				s.state.AvailableBooks = &n
				count = &n
			}
		} else {
			reason := out.Reason
			s.state.LastError = &reason
		}
	}

	refresh := false
	if s.refreshPending && s.binding != nil {
		s.refreshPending = false
		refresh = true
	}
	if current && out.Success && s.opts.autoRefresh && out.Kind.IsMutation() {
		refresh = true
	}
	view := Project(s.state)
	s.mu.Unlock()

	s.opts.recorder.OperationFinished(string(out.Kind), string(out.Category), elapsed)
	if count != nil {
		s.opts.recorder.AvailableBooks(*count)
	}
	switch {
	case !current:
		s.logInfo("绑定已变化，丢弃操作结果: id=%s, kind=%s", out.ID, out.Kind)
	case out.Success:
		s.logInfo("操作成功: id=%s, kind=%s, tx=%s", out.ID, out.Kind, out.TxHash)
	default:
		s.logWarn("操作失败: id=%s, kind=%s, category=%s, reason=%s, tx=%s", out.ID, out.Kind, out.Category, out.Reason, out.TxHash)
	}
	s.publish(view)

	if refresh {
		s.Submit(ctx, GetAvailableBooks{})
	}
}

// ========== 快照 ==========

// State 返回 CoreState 快照
func (s *Session) State() CoreState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// View 返回视图快照
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Project(s.state)
}

// Books 返回最近一次读取到的可借图书
func (s *Session) Books() []Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache.Books()
}

// Signer 返回当前绑定的签名地址
func (s *Session) Signer() (common.Address, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.binding == nil {
		return common.Address{}, false
	}
	return s.binding.Signer, true
}

// Subscribe 订阅视图变化，fn 在发布方的 goroutine 中同步调用
func (s *Session) Subscribe(fn func(View)) (func(), error) {
	if s.opts.bus == nil {
		return nil, ErrNoEventBus
	}
	if err := s.opts.bus.Subscribe(EventViewChanged, fn); err != nil {
		return nil, err
	}
	return func() {
		_ = s.opts.bus.Unsubscribe(EventViewChanged, fn)
	}, nil
}

// ========== 内部方法 ==========

func (s *Session) publish(view View) {
	if s.opts.bus != nil {
		s.opts.bus.Publish(EventViewChanged, view)
	}
}

func (s *Session) reject(out Outcome) {
	s.opts.recorder.OperationRejected(string(out.Kind), string(out.Category))
	s.logWarn("操作被拒绝: id=%s, kind=%s, category=%s", out.ID, out.Kind, out.Category)
}

func (s *Session) logDebug(format string, args ...interface{}) {
	if s.opts.logger != nil {
		s.opts.logger.Debugf(format, args...)
	}
}

func (s *Session) logInfo(format string, args ...interface{}) {
	if s.opts.logger != nil {
		s.opts.logger.Infof(format, args...)
	}
}

func (s *Session) logWarn(format string, args ...interface{}) {
	if s.opts.logger != nil {
		s.opts.logger.Warnf(format, args...)
	}
}

func (s *Session) logError(format string, args ...interface{}) {
	if s.opts.logger != nil {
		s.opts.logger.Errorf(format, args...)
	}
}
