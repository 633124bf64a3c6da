package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/weisyn/bookshelf/client/core/library"
	"github.com/weisyn/bookshelf/client/core/output"
)

// booksCmd 图书操作命令
var booksCmd = &cobra.Command{
	Use:   "books",
	Short: "图书操作",
	Long:  "查询可借图书、登记新书、借书与还书",
}

// booksAvailableCmd 查询可借数量
var booksAvailableCmd = &cobra.Command{
	Use:   "available",
	Short: "查询可借图书数量",
	Long:  "调用合约只读方法,返回当前可借的图书副本数量",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOperation(cmd.Context(), "正在查询可借图书", func(ctx context.Context, s *library.Session) library.Outcome {
			return s.GetAvailableBooks(ctx)
		})
	},
}

// booksListCmd 列出可借图书
var booksListCmd = &cobra.Command{
	Use:   "list",
	Short: "列出可借图书",
	Long:  "列出连接钱包后自动读取到的可借图书(每个副本一行)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext(cmd.Context())
		defer cancel()

		a, _, err := startApp(ctx, true, false)
		if err != nil {
			return err
		}
		defer stopApp(a)

		session := a.Session()
		if view := session.View(); view.Error != nil {
			return fmt.Errorf("读取图书失败: %s", *view.Error)
		}

		if interactive() && formatter.Format() == output.FormatTable {
			return components.ShowBooks(session.Books())
		}
		return formatter.PrintBooks(session.Books())
	},
}

var addBookFlags struct {
	Name   string
	Author string
	Copies string
}

// booksAddCmd 登记新书
var booksAddCmd = &cobra.Command{
	Use:   "add",
	Short: "登记新书",
	Long:  "提交 addBook 交易并等待上链",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if addBookFlags.Name == "" || addBookFlags.Author == "" {
			return fmt.Errorf("--name 和 --author 不能为空")
		}
		copies, err := library.ParseUint256(addBookFlags.Copies)
		if err != nil {
			return err
		}

		msg := fmt.Sprintf("正在登记《%s》(%s) × %s", addBookFlags.Name, addBookFlags.Author, copies)
		return runOperation(cmd.Context(), msg, func(ctx context.Context, s *library.Session) library.Outcome {
			return s.AddBook(ctx, addBookFlags.Name, addBookFlags.Author, copies)
		})
	},
}

// booksBorrowCmd 借书
var booksBorrowCmd = &cobra.Command{
	Use:   "borrow <book-id>",
	Short: "借书",
	Long:  "提交 borrowBook 交易并等待上链",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := library.ParseUint256(args[0])
		if err != nil {
			return err
		}
		return runOperation(cmd.Context(), fmt.Sprintf("正在借阅图书 #%s", id), func(ctx context.Context, s *library.Session) library.Outcome {
			return s.BorrowBook(ctx, id)
		})
	},
}

// booksReturnCmd 还书
var booksReturnCmd = &cobra.Command{
	Use:   "return <book-id>",
	Short: "还书",
	Long:  "提交 returnBook 交易并等待上链",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := library.ParseUint256(args[0])
		if err != nil {
			return err
		}
		return runOperation(cmd.Context(), fmt.Sprintf("正在归还图书 #%s", id), func(ctx context.Context, s *library.Session) library.Outcome {
			return s.ReturnBook(ctx, id)
		})
	},
}

func init() {
	booksAddCmd.Flags().StringVar(&addBookFlags.Name, "name", "", "书名")
	booksAddCmd.Flags().StringVar(&addBookFlags.Author, "author", "", "作者")
	booksAddCmd.Flags().StringVar(&addBookFlags.Copies, "copies", "1", "副本数量")

	booksCmd.AddCommand(booksAvailableCmd)
	booksCmd.AddCommand(booksListCmd)
	booksCmd.AddCommand(booksAddCmd)
	booksCmd.AddCommand(booksBorrowCmd)
	booksCmd.AddCommand(booksReturnCmd)
}

// runOperation 启动应用并执行一次操作，失败时返回错误以设置退出码
func runOperation(parent context.Context, message string, op func(context.Context, *library.Session) library.Outcome) error {
	ctx, cancel := signalContext(parent)
	defer cancel()

	a, _, err := startApp(ctx, true, false)
	if err != nil {
		return err
	}
	defer stopApp(a)

	var out library.Outcome
	if interactive() {
		spinner := components.ShowSpinner(message)
		_ = spinner.Start()
		out = op(ctx, a.Session())
		if out.Success {
			_ = spinner.Success(fmt.Sprintf("%s: 完成", out.Kind))
		} else {
			_ = spinner.Fail(fmt.Sprintf("%s: %s", out.Kind, out.Reason))
		}
	} else {
		out = op(ctx, a.Session())
	}

	if err := formatter.PrintOutcome(out); err != nil {
		return err
	}
	if !out.Success {
		return out.Err
	}
	return nil
}
