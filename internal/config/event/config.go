package event

// EventOptions 事件系统配置选项
type EventOptions struct {
	Enabled        bool `json:"enabled"`         // 是否启用事件系统
	MaxSubscribers int  `json:"max_subscribers"` // 单个事件类型的最大订阅者数量
}

// Config 事件配置实现
type Config struct {
	options *EventOptions
}

// New 创建事件配置实现，userOptions 为 nil 时使用默认配置
func New(userOptions *EventOptions) *Config {
	options := createDefaultEventOptions()
	if userOptions != nil {
		options.Enabled = userOptions.Enabled
		if userOptions.MaxSubscribers > 0 {
			options.MaxSubscribers = userOptions.MaxSubscribers
		}
	}
	return &Config{options: options}
}

// createDefaultEventOptions 创建默认事件配置
func createDefaultEventOptions() *EventOptions {
	return &EventOptions{
		Enabled:        defaultEnabled,
		MaxSubscribers: defaultMaxSubscribers,
	}
}

// IsEnabled 是否启用事件系统
func (c *Config) IsEnabled() bool {
	return c.options.Enabled
}

// GetMaxSubscribers 获取单个事件类型的最大订阅者数量
func (c *Config) GetMaxSubscribers() int {
	return c.options.MaxSubscribers
}

// GetOptions 获取完整配置选项
func (c *Config) GetOptions() *EventOptions {
	return c.options
}
