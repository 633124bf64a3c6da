// Package output provides output formatting functionality for client commands.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/weisyn/bookshelf/client/core/library"
)

// Format 输出格式
type Format string

const (
	// FormatJSON JSON格式（默认）
	FormatJSON Format = "json"
	// FormatPretty 美化JSON格式
	FormatPretty Format = "pretty"
	// FormatTable 表格格式
	FormatTable Format = "table"
	// FormatText 纯文本格式
	FormatText Format = "text"
)

// ParseFormat 解析输出格式
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatJSON, FormatPretty, FormatTable, FormatText:
		return f, nil
	case "":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown output format: %s", s)
	}
}

// Formatter 输出格式化器
type Formatter struct {
	format    Format
	writer    io.Writer // 数据输出（JSON/表格等）
	logWriter io.Writer // 日志输出（Info/Success/Error等）
	silent    bool
}

// NewFormatter 创建格式化器
func NewFormatter(format Format, writer io.Writer) *Formatter {
	if writer == nil {
		writer = os.Stdout
	}

	return &Formatter{
		format:    format,
		writer:    writer,    // 数据输出到 stdout
		logWriter: os.Stderr, // 日志输出到 stderr（避免污染 JSON）
	}
}

// SetLogWriter 设置日志输出目标（默认 stderr）
func (f *Formatter) SetLogWriter(writer io.Writer) {
	if writer == nil {
		writer = os.Stderr
	}
	f.logWriter = writer
}

// SetSilent 设置静默模式
func (f *Formatter) SetSilent(silent bool) {
	f.silent = silent
}

// Format 返回当前输出格式
func (f *Formatter) Format() Format {
	return f.format
}

// Print 以 JSON 打印任意数据，表格与文本格式降级为美化 JSON
func (f *Formatter) Print(data interface{}) error {
	if f.silent {
		return nil
	}
	return f.printJSON(data, f.format != FormatJSON)
}

// PrintView 打印视图快照
func (f *Formatter) PrintView(view library.View) error {
	if f.silent {
		return nil
	}

	switch f.format {
	case FormatTable, FormatText:
		return f.writeRows([][2]string{
			{"ready", fmt.Sprintf("%t", view.Ready)},
			{"loading", fmt.Sprintf("%t", view.Loading)},
			{"available books", optionalCount(view.AvailableBooks)},
			{"error", optionalString(view.Error)},
		})
	default:
		return f.printJSON(view, f.format == FormatPretty)
	}
}

// PrintBooks 打印可借图书列表
func (f *Formatter) PrintBooks(books []library.Book) error {
	if f.silent {
		return nil
	}

	switch f.format {
	case FormatTable, FormatText:
		tw := tabwriter.NewWriter(f.writer, 0, 0, 2, ' ', 0)
		if _, err := fmt.Fprintln(tw, "ID\tNAME\tAUTHOR"); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		for _, b := range books {
			if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\n", bookID(b), b.Name, b.Author); err != nil {
				return fmt.Errorf("write row: %w", err)
			}
		}
		return tw.Flush()
	default:
		if books == nil {
			books = []library.Book{}
		}
		return f.printJSON(books, f.format == FormatPretty)
	}
}

// PrintOutcome 打印操作结果
func (f *Formatter) PrintOutcome(out library.Outcome) error {
	if f.silent {
		return nil
	}

	switch f.format {
	case FormatTable, FormatText:
		status := "success"
		if !out.Success {
			status = "failure"
		}
		rows := [][2]string{
			{"operation", string(out.Kind)},
			{"status", status},
		}
		if out.Payload != nil {
			rows = append(rows, [2]string{"available books", optionalCount(out.Payload)})
		}
		if out.TxHash != "" {
			rows = append(rows, [2]string{"tx", out.TxHash})
		}
		if !out.Success {
			rows = append(rows,
				[2]string{"category", string(out.Category)},
				[2]string{"reason", out.Reason},
			)
		}
		return f.writeRows(rows)
	default:
		return f.printJSON(out, f.format == FormatPretty)
	}
}

// printJSON 打印JSON格式
func (f *Formatter) printJSON(data interface{}, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if _, err := fmt.Fprintln(f.writer, string(output)); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// writeRows 打印对齐的两列键值
func (f *Formatter) writeRows(rows [][2]string) error {
	tw := tabwriter.NewWriter(f.writer, 0, 0, 2, ' ', 0)
	for _, row := range rows {
		if _, err := fmt.Fprintf(tw, "%s:\t%s\n", row[0], row[1]); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	return tw.Flush()
}

// PrintSuccess 打印成功消息（输出到 stderr，避免污染 JSON）
func (f *Formatter) PrintSuccess(message string) {
	if f.silent {
		return
	}
	_, _ = fmt.Fprintf(f.logWriter, "✅ %s\n", message)
}

// PrintError 打印错误消息（输出到 stderr，避免污染 JSON）
func (f *Formatter) PrintError(err error) {
	_, _ = fmt.Fprintf(f.logWriter, "❌ Error: %v\n", err)
}

// PrintWarning 打印警告消息（输出到 stderr，避免污染 JSON）
func (f *Formatter) PrintWarning(message string) {
	if f.silent {
		return
	}
	_, _ = fmt.Fprintf(f.logWriter, "⚠️  %s\n", message)
}

// PrintInfo 打印信息消息（输出到 stderr，避免污染 JSON）
func (f *Formatter) PrintInfo(message string) {
	if f.silent {
		return
	}
	_, _ = fmt.Fprintf(f.logWriter, "ℹ️  %s\n", message)
}

// ===== 辅助函数 =====

func optionalCount(n *uint64) string {
	if n == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *n)
}

func optionalString(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func bookID(b library.Book) string {
	if b.Id == nil {
		return "-"
	}
	return b.Id.String()
}

// ErrorOutput 错误输出结构
type ErrorOutput struct {
	Error struct {
		Code    string      `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	} `json:"error"`
}

// NewErrorOutput 创建错误输出
func NewErrorOutput(code string, message string, details interface{}) *ErrorOutput {
	output := &ErrorOutput{}
	output.Error.Code = code
	output.Error.Message = message
	output.Error.Details = details
	return output
}
