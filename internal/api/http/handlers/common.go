// Package handlers provides HTTP API handlers for the bookshelf library client.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/weisyn/bookshelf/client/core/library"
	"github.com/weisyn/bookshelf/internal/api/http/middleware"
	"github.com/weisyn/bookshelf/internal/api/http/types"
)

// statusForCategory 失败分类到 HTTP 状态码的映射
func statusForCategory(category library.ErrorCategory) int {
	switch category {
	case library.CategoryConcurrentOperation:
		return http.StatusConflict
	case library.CategoryNotReady:
		return http.StatusServiceUnavailable
	case library.CategoryInvalidRequest:
		return http.StatusBadRequest
	default:
		return http.StatusUnprocessableEntity
	}
}

// codeForCategory 失败分类到错误码的映射
func codeForCategory(category library.ErrorCategory) string {
	switch category {
	case library.CategoryConcurrentOperation:
		return types.ErrConcurrentOperation
	case library.CategoryNotReady:
		return types.ErrNotReady
	case library.CategoryInvalidRequest:
		return types.ErrInvalidArgument
	case library.CategorySignerRejected:
		return types.ErrSignerRejected
	case library.CategoryLogicalRevert:
		return types.ErrExecutionReverted
	default:
		return types.ErrNetworkFailure
	}
}

// writeSuccess 写入成功响应
func writeSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, types.NewSuccessResponse(data).WithRequestID(middleware.GetRequestID(c)))
}

// writeOutcome 按操作结果写入响应
func writeOutcome(c *gin.Context, out library.Outcome) {
	if out.Success {
		writeSuccess(c, out)
		return
	}
	middleware.WriteError(c, statusForCategory(out.Category), codeForCategory(out.Category), out.Reason, out)
}

// writeBadRequest 写入参数错误响应
func writeBadRequest(c *gin.Context, message string) {
	middleware.WriteError(c, http.StatusBadRequest, types.ErrInvalidArgument, message, nil)
}
