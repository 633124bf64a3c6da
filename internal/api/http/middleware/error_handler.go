package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/weisyn/bookshelf/internal/api/http/types"
)

// ErrorHandler 错误处理中间件
//
// 处理器通过 c.Error 登记但未写响应的错误统一转换为 500。
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		logger.Error("HTTP error",
			zap.String("request_id", GetRequestID(c)),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		WriteError(c, http.StatusInternalServerError, types.ErrInternal, "internal server error", nil)
	}
}

// Recovery 捕获处理器 panic 并返回统一错误格式
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("HTTP handler panic",
			zap.String("request_id", GetRequestID(c)),
			zap.String("path", c.Request.URL.Path),
			zap.Any("panic", recovered))
		WriteError(c, http.StatusInternalServerError, types.ErrInternal, "internal server error", nil)
	})
}

// WriteError 写入错误响应并终止处理链
func WriteError(c *gin.Context, status int, code, message string, details interface{}) {
	c.AbortWithStatusJSON(status, types.NewErrorResponse(code, message, details).WithRequestID(GetRequestID(c)))
}
