// 基于asaskevich/EventBus的事件总线实现

package event

import (
	"fmt"
	"sync"

	evbus "github.com/asaskevich/EventBus"
	eventconfig "github.com/weisyn/bookshelf/internal/config/event"
	"github.com/weisyn/bookshelf/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/bookshelf/pkg/interfaces/infrastructure/log"
)

// ErrTooManySubscribers 订阅者数量超过配置上限
var ErrTooManySubscribers = fmt.Errorf("too many subscribers")

// EventBus 是对 asaskevich/EventBus 的薄封装
//
// 在底层总线之上增加：
// - 配置开关（未启用时所有操作静默成功）
// - 每个事件类型的订阅者上限
// - 处理函数 panic 隔离，避免视图层错误影响状态机
type EventBus struct {
	bus    evbus.Bus
	config *eventconfig.Config
	logger log.Logger

	mu          sync.Mutex
	subscribers map[event.EventType]int
}

// New 创建事件总线实例
// 所有事件总线实例必须通过此函数创建，确保配置被正确应用
func New(config *eventconfig.Config, logger log.Logger) *EventBus {
	if config == nil {
		config = eventconfig.New(nil)
	}
	return &EventBus{
		bus:         evbus.New(),
		config:      config,
		logger:      logger,
		subscribers: make(map[event.EventType]int),
	}
}

// ========== 订阅 ==========

// Subscribe 实现订阅
func (eb *EventBus) Subscribe(eventType event.EventType, handler interface{}) error {
	if !eb.config.IsEnabled() {
		return nil
	}
	if err := eb.reserve(eventType); err != nil {
		return err
	}
	if err := eb.bus.Subscribe(string(eventType), handler); err != nil {
		eb.release(eventType)
		return fmt.Errorf("subscribe %s: %w", eventType, err)
	}
	return nil
}

// SubscribeAsync 实现异步订阅
func (eb *EventBus) SubscribeAsync(eventType event.EventType, handler interface{}, transactional bool) error {
	if !eb.config.IsEnabled() {
		return nil
	}
	if err := eb.reserve(eventType); err != nil {
		return err
	}
	if err := eb.bus.SubscribeAsync(string(eventType), handler, transactional); err != nil {
		eb.release(eventType)
		return fmt.Errorf("subscribe async %s: %w", eventType, err)
	}
	return nil
}

// Unsubscribe 取消订阅
func (eb *EventBus) Unsubscribe(eventType event.EventType, handler interface{}) error {
	if !eb.config.IsEnabled() {
		return nil
	}
	if err := eb.bus.Unsubscribe(string(eventType), handler); err != nil {
		return fmt.Errorf("unsubscribe %s: %w", eventType, err)
	}
	eb.release(eventType)
	return nil
}

// ========== 发布 ==========

// Publish 发布事件
func (eb *EventBus) Publish(eventType event.EventType, args ...interface{}) {
	if !eb.config.IsEnabled() {
		return
	}
	defer func() {
		if r := recover(); r != nil && eb.logger != nil {
			eb.logger.Errorf("事件处理函数异常: type=%s, panic=%v", eventType, r)
		}
	}()
	eb.bus.Publish(string(eventType), args...)
}

// PublishEvent 发布Event接口类型事件
func (eb *EventBus) PublishEvent(e event.Event) {
	if e == nil {
		return
	}
	eb.Publish(e.Type(), e.Data())
}

// WaitAsync 等待所有异步处理完成
func (eb *EventBus) WaitAsync() {
	eb.bus.WaitAsync()
}

// HasCallback 检查是否有回调函数
func (eb *EventBus) HasCallback(eventType event.EventType) bool {
	return eb.bus.HasCallback(string(eventType))
}

// ========== 内部方法 ==========

func (eb *EventBus) reserve(eventType event.EventType) error {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	if eb.subscribers[eventType] >= eb.config.GetMaxSubscribers() {
		return fmt.Errorf("%w: %s", ErrTooManySubscribers, eventType)
	}
	eb.subscribers[eventType]++
	return nil
}

func (eb *EventBus) release(eventType event.EventType) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	if eb.subscribers[eventType] > 0 {
		eb.subscribers[eventType]--
	}
}

// 确保实现接口
var _ event.EventBus = (*EventBus)(nil)
