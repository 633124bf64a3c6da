// 事件类型常量定义

package event

import "github.com/weisyn/bookshelf/pkg/interfaces/infrastructure/event"

// 基础的系统事件类型
// 业务事件类型（如视图状态变化）由各自的业务模块定义
const (
	SystemStarted event.EventType = "system:started"
	SystemStopped event.EventType = "system:stopped"
)
