package handlers

import (
	"context"
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"

	"github.com/weisyn/bookshelf/client/core/library"
	"github.com/weisyn/bookshelf/pkg/interfaces/infrastructure/log"
)

// LibraryService 处理器依赖的会话能力
type LibraryService interface {
	View() library.View
	Books() []library.Book
	Signer() (common.Address, bool)
	GetAvailableBooks(ctx context.Context) library.Outcome
	AddBook(ctx context.Context, name, author string, copies *big.Int) library.Outcome
	BorrowBook(ctx context.Context, id *big.Int) library.Outcome
	ReturnBook(ctx context.Context, id *big.Int) library.Outcome
}

// LibraryHandler 图书合约 API 处理器
type LibraryHandler struct {
	service  LibraryService
	contract common.Address
	logger   log.Logger
}

// NewLibraryHandler 创建图书合约处理器
func NewLibraryHandler(service LibraryService, contract common.Address, logger log.Logger) *LibraryHandler {
	return &LibraryHandler{service: service, contract: contract, logger: logger}
}

// StateResponse 视图快照及绑定信息
type StateResponse struct {
	library.View
	Contract string `json:"contract"`
	Signer   string `json:"signer,omitempty"`
}

// BooksResponse 可借图书列表
type BooksResponse struct {
	AvailableBooks *uint64        `json:"availableBooks"`
	Books          []library.Book `json:"books"`
}

// AddBookRequest 登记新书请求
//
// copies 同时接受 JSON 数字和十进制字符串。
type AddBookRequest struct {
	Name   string      `json:"name" binding:"required"`
	Author string      `json:"author" binding:"required"`
	Copies json.Number `json:"copies" binding:"required"`
}

// RegisterRoutes 注册路由
func (h *LibraryHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/state", h.GetState)

	books := r.Group("/books")
	{
		books.GET("", h.ListBooks)
		books.POST("", h.AddBook)
		books.POST("/refresh", h.Refresh)
		books.POST("/:id/borrow", h.BorrowBook)
		books.POST("/:id/return", h.ReturnBook)
	}
}

// GetState 返回当前视图快照
//
// GET /api/v1/state
func (h *LibraryHandler) GetState(c *gin.Context) {
	resp := StateResponse{
		View:     h.service.View(),
		Contract: h.contract.Hex(),
	}
	if signer, ok := h.service.Signer(); ok {
		resp.Signer = signer.Hex()
	}
	writeSuccess(c, resp)
}

// ListBooks 返回最近一次读取到的可借图书，不访问网络
//
// GET /api/v1/books
func (h *LibraryHandler) ListBooks(c *gin.Context) {
	books := h.service.Books()
	if books == nil {
		books = []library.Book{}
	}
	writeSuccess(c, BooksResponse{
		AvailableBooks: h.service.View().AvailableBooks,
		Books:          books,
	})
}

// Refresh 重新读取可借图书
//
// POST /api/v1/books/refresh
func (h *LibraryHandler) Refresh(c *gin.Context) {
	writeOutcome(c, h.service.GetAvailableBooks(operationContext(c)))
}

// AddBook 登记新书
//
// POST /api/v1/books
func (h *LibraryHandler) AddBook(c *gin.Context) {
	var req AddBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "invalid request body: "+err.Error())
		return
	}
	copies, err := library.ParseUint256(req.Copies.String())
	if err != nil {
		writeBadRequest(c, err.Error())
		return
	}

	h.logger.Debugf("登记新书: name=%s, author=%s, copies=%s", req.Name, req.Author, copies)
	writeOutcome(c, h.service.AddBook(operationContext(c), req.Name, req.Author, copies))
}

// BorrowBook 借书
//
// POST /api/v1/books/:id/borrow
func (h *LibraryHandler) BorrowBook(c *gin.Context) {
	id, ok := h.bookID(c)
	if !ok {
		return
	}
	writeOutcome(c, h.service.BorrowBook(operationContext(c), id))
}

// ReturnBook 还书
//
// POST /api/v1/books/:id/return
func (h *LibraryHandler) ReturnBook(c *gin.Context) {
	id, ok := h.bookID(c)
	if !ok {
		return
	}
	writeOutcome(c, h.service.ReturnBook(operationContext(c), id))
}

// operationContext 触发操作使用的上下文
//
// 客户端断开不会取消已提交的操作，交易会一直等到回执，在途标志随之释放。
func operationContext(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}

func (h *LibraryHandler) bookID(c *gin.Context) (*big.Int, bool) {
	id, err := library.ParseUint256(c.Param("id"))
	if err != nil {
		writeBadRequest(c, err.Error())
		return nil, false
	}
	return id, true
}
