package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDefaults(t *testing.T) {
	cfg := New(nil)
	assert.True(t, cfg.IsEnabled())
	assert.Equal(t, defaultMaxSubscribers, cfg.GetMaxSubscribers())
}

func TestNewUserOptions(t *testing.T) {
	cfg := New(&EventOptions{Enabled: false})
	assert.False(t, cfg.IsEnabled())
	// 未设置时保留默认上限
	assert.Equal(t, defaultMaxSubscribers, cfg.GetMaxSubscribers())

	cfg = New(&EventOptions{Enabled: true, MaxSubscribers: 3})
	assert.Equal(t, 3, cfg.GetMaxSubscribers())
}
