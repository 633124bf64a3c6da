// Package types provides HTTP error type definitions.
package types

// ErrorResponse 统一错误响应格式
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail 错误详情
type ErrorDetail struct {
	Code      string      `json:"code"`                // 错误码
	Message   string      `json:"message"`             // 错误消息
	Details   interface{} `json:"details,omitempty"`   // 详细信息
	RequestID string      `json:"requestId,omitempty"` // 请求ID
}

// 错误码常量
const (
	// 请求错误（400-499）
	ErrInvalidArgument     = "INVALID_ARGUMENT"
	ErrConcurrentOperation = "CONCURRENT_OPERATION"

	// 交易错误
	ErrSignerRejected    = "SIGNER_REJECTED"
	ErrExecutionReverted = "EXECUTION_REVERTED"
	ErrNetworkFailure    = "NETWORK_FAILURE"

	// 服务器错误码（500-599）
	ErrNotReady           = "NOT_READY"
	ErrInternal           = "INTERNAL"
	ErrServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// NewErrorResponse 创建错误响应
func NewErrorResponse(code, message string, details interface{}) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

// WithRequestID 添加请求ID
func (e *ErrorResponse) WithRequestID(requestID string) *ErrorResponse {
	e.Error.RequestID = requestID
	return e
}
