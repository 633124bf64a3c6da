// Package ui 提供基础 UI 组件库
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pterm/pterm"

	"github.com/weisyn/bookshelf/client/core/library"
)

// Components UI组件接口，定义终端可用的UI组件
type Components interface {
	// === 数据展示组件 ===

	// ShowTable 显示表格数据
	// title: 表格标题
	// data: 表格数据，第一行为表头
	ShowTable(title string, data [][]string) error

	// ShowBooks 显示可借图书
	ShowBooks(books []library.Book) error

	// ShowStatus 显示会话状态面板
	ShowStatus(status StatusInfo) error

	// === 进度反馈组件 ===

	// ShowSpinner 显示加载动画
	// message: 加载消息
	ShowSpinner(message string) Spinner

	// === 状态显示组件 ===

	ShowSuccess(message string) error
	ShowError(message string) error
	ShowWarning(message string) error
	ShowInfo(message string) error
}

// Spinner 加载动画接口
type Spinner interface {
	// Start 开始动画
	Start() error

	// UpdateText 更新文本
	UpdateText(text string) error

	// Stop 停止动画
	Stop() error

	// Success 以成功状态停止
	Success(message string) error

	// Fail 以失败状态停止
	Fail(message string) error
}

// StatusInfo 状态面板数据
type StatusInfo struct {
	Profile  string
	Endpoint string
	Contract string
	Signer   string // 为空表示未连接钱包
	View     library.View
}

// ThemeConfig 主题配置
type ThemeConfig struct {
	PrimaryColor   pterm.Color // 主色调
	SecondaryColor pterm.Color // 辅助色
	SuccessColor   pterm.Color // 成功色
	WarningColor   pterm.Color // 警告色
	ErrorColor     pterm.Color // 错误色
	InfoColor      pterm.Color // 信息色
}

// GetDefaultTheme 获取默认主题配置
func GetDefaultTheme() *ThemeConfig {
	return &ThemeConfig{
		PrimaryColor:   pterm.FgLightBlue,
		SecondaryColor: pterm.FgLightCyan,
		SuccessColor:   pterm.FgGreen,
		WarningColor:   pterm.FgYellow,
		ErrorColor:     pterm.FgRed,
		InfoColor:      pterm.FgCyan,
	}
}

type components struct {
	logger Logger
	theme  *ThemeConfig
	writer io.Writer
}

// NewComponents 创建UI组件实例，输出到 stderr 以免污染 stdout 上的数据
func NewComponents(logger Logger) Components {
	return NewComponentsWithWriter(logger, os.Stderr)
}

// NewComponentsWithWriter 创建输出到指定 writer 的UI组件
func NewComponentsWithWriter(logger Logger, writer io.Writer) Components {
	if logger == nil {
		logger = NoopLogger()
	}
	if writer == nil {
		writer = os.Stderr
	}
	return &components{
		logger: logger,
		theme:  GetDefaultTheme(),
		writer: writer,
	}
}

// ShowTable 显示表格
func (c *components) ShowTable(title string, data [][]string) error {
	if len(data) == 0 {
		return fmt.Errorf("表格数据为空")
	}

	if title != "" {
		c.println(pterm.NewStyle(c.theme.PrimaryColor, pterm.Bold).Sprint(title))
	}

	out, err := pterm.DefaultTable.WithHasHeader().WithHeaderRowSeparator("-").WithData(data).Srender()
	if err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	c.println(out)
	return nil
}

// ShowBooks 显示图书表格
func (c *components) ShowBooks(books []library.Book) error {
	if len(books) == 0 {
		return c.ShowInfo("当前没有可借的图书")
	}
	return c.ShowTable(fmt.Sprintf("可借图书 (%d)", len(books)), BooksTable(books))
}

// ShowStatus 显示状态面板
func (c *components) ShowStatus(status StatusInfo) error {
	c.println(pterm.DefaultBox.
		WithTitle("bookshelf").
		WithTitleTopCenter().
		WithBoxStyle(pterm.NewStyle(c.theme.PrimaryColor)).
		Sprint(StatusText(status)))
	return nil
}

// ShowSpinner 创建加载动画
func (c *components) ShowSpinner(message string) Spinner {
	return &spinnerImpl{
		message: message,
		theme:   c.theme,
		writer:  c.writer,
	}
}

// ShowSuccess 显示成功消息
func (c *components) ShowSuccess(message string) error {
	c.println(pterm.Success.WithWriter(c.writer).Sprint(message))
	return nil
}

// ShowError 显示错误消息
func (c *components) ShowError(message string) error {
	c.logger.Debugf("ui error: %s", message)
	c.println(pterm.Error.WithWriter(c.writer).Sprint(message))
	return nil
}

// ShowWarning 显示警告消息
func (c *components) ShowWarning(message string) error {
	c.logger.Warnf("ui warning: %s", message)
	c.println(pterm.Warning.WithWriter(c.writer).Sprint(message))
	return nil
}

// ShowInfo 显示信息消息
func (c *components) ShowInfo(message string) error {
	c.println(pterm.Info.WithWriter(c.writer).Sprint(message))
	return nil
}

func (c *components) println(s string) {
	_, _ = fmt.Fprintln(c.writer, strings.TrimRight(s, "\n"))
}

// ========== 渲染辅助 ==========

// BooksTable 把图书列表转换为带表头的表格数据
func BooksTable(books []library.Book) [][]string {
	data := [][]string{{"ID", "书名", "作者"}}
	for _, b := range books {
		id := "-"
		if b.Id != nil {
			id = b.Id.String()
		}
		data = append(data, []string{id, b.Name, b.Author})
	}
	return data
}

// StatusText 状态面板正文
func StatusText(status StatusInfo) string {
	signer := status.Signer
	if signer == "" {
		signer = "未连接"
	}

	state := "未就绪"
	switch {
	case status.View.Loading:
		state = "处理中"
	case status.View.Error != nil:
		state = "出错"
	case status.View.Ready:
		state = "就绪"
	}

	available := "-"
	if status.View.AvailableBooks != nil {
		available = fmt.Sprintf("%d", *status.View.AvailableBooks)
	}

	lines := []string{
		"Profile:  " + status.Profile,
		"节点:     " + status.Endpoint,
		"合约:     " + status.Contract,
		"账户:     " + signer,
		"状态:     " + state,
		"可借数量: " + available,
	}
	if status.View.Error != nil {
		lines = append(lines, "错误:     "+*status.View.Error)
	}
	return strings.Join(lines, "\n")
}

// TruncateString 截断字符串
func TruncateString(str string, maxLen int) string {
	if len(str) <= maxLen {
		return str
	}
	return str[:maxLen-3] + "..."
}

// ========== 加载动画 ==========

type spinnerImpl struct {
	message string
	spinner *pterm.SpinnerPrinter
	theme   *ThemeConfig
	writer  io.Writer
}

func (s *spinnerImpl) Start() error {
	var err error
	s.spinner, err = pterm.DefaultSpinner.
		WithWriter(s.writer).
		WithText(s.message).
		WithStyle(pterm.NewStyle(s.theme.PrimaryColor)).
		WithRemoveWhenDone(false).
		Start()
	return err
}

func (s *spinnerImpl) UpdateText(text string) error {
	if s.spinner == nil {
		return fmt.Errorf("加载动画未启动")
	}
	s.message = text
	s.spinner.UpdateText(text)
	return nil
}

func (s *spinnerImpl) Stop() error {
	if s.spinner == nil {
		return nil
	}
	return s.spinner.Stop()
}

func (s *spinnerImpl) Success(message string) error {
	if s.spinner == nil {
		return fmt.Errorf("加载动画未启动")
	}
	s.spinner.Success(message)
	return nil
}

func (s *spinnerImpl) Fail(message string) error {
	if s.spinner == nil {
		return fmt.Errorf("加载动画未启动")
	}
	s.spinner.Fail(message)
	return nil
}
