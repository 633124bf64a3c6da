package event

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	eventconfig "github.com/weisyn/bookshelf/internal/config/event"
	logimpl "github.com/weisyn/bookshelf/internal/core/infrastructure/log"
	"github.com/weisyn/bookshelf/pkg/interfaces/infrastructure/event"
)

type testEvent struct{ data string }

func (e testEvent) Type() event.EventType { return "test:typed" }
func (e testEvent) Data() interface{}     { return e.data }

func TestEventBusSync(t *testing.T) {
	bus := New(nil, logimpl.NewNop())

	var received string
	handler := func(data string) { received = data }

	require.NoError(t, bus.Subscribe("test-event", handler))
	assert.True(t, bus.HasCallback("test-event"))

	bus.Publish("test-event", "hello world")
	assert.Equal(t, "hello world", received)

	require.NoError(t, bus.Unsubscribe("test-event", handler))
	assert.False(t, bus.HasCallback("test-event"))
}

func TestEventBusAsync(t *testing.T) {
	bus := New(nil, logimpl.NewNop())

	var (
		mu   sync.Mutex
		data string
	)
	require.NoError(t, bus.SubscribeAsync("async-event", func(s string) {
		time.Sleep(10 * time.Millisecond)
		mu.Lock()
		data = s
		mu.Unlock()
	}, false))

	bus.Publish("async-event", "async data")
	bus.WaitAsync()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "async data", data)
}

func TestPublishEvent(t *testing.T) {
	bus := New(nil, logimpl.NewNop())

	var got string
	require.NoError(t, bus.Subscribe("test:typed", func(s string) { got = s }))

	bus.PublishEvent(testEvent{data: "payload"})
	bus.PublishEvent(nil)
	assert.Equal(t, "payload", got)
}

func TestDisabledBusIsSilent(t *testing.T) {
	bus := New(eventconfig.New(&eventconfig.EventOptions{Enabled: false}), logimpl.NewNop())

	called := false
	require.NoError(t, bus.Subscribe("x", func() { called = true }))
	bus.Publish("x")
	assert.False(t, called)
}

func TestMaxSubscribers(t *testing.T) {
	bus := New(eventconfig.New(&eventconfig.EventOptions{Enabled: true, MaxSubscribers: 1}), logimpl.NewNop())

	first := func() {}
	require.NoError(t, bus.Subscribe("limited", first))

	err := bus.Subscribe("limited", func() {})
	assert.ErrorIs(t, err, ErrTooManySubscribers)

	require.NoError(t, bus.Unsubscribe("limited", first))
	assert.NoError(t, bus.Subscribe("limited", func() {}))
}

func TestInvalidHandler(t *testing.T) {
	bus := New(nil, logimpl.NewNop())
	assert.Error(t, bus.Subscribe("bad", "not a function"))
	// 失败的订阅不占用名额
	assert.Equal(t, 0, bus.subscribers["bad"])
}

func TestHandlerPanicIsRecovered(t *testing.T) {
	bus := New(nil, logimpl.NewNop())
	require.NoError(t, bus.Subscribe("boom", func() { panic("handler failed") }))

	assert.NotPanics(t, func() { bus.Publish("boom") })
}
