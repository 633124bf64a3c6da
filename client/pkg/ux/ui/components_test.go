package ui

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/bookshelf/client/core/library"
)

func newTestComponents(t *testing.T) (Components, *bytes.Buffer) {
	t.Helper()
	pterm.DisableStyling()
	t.Cleanup(pterm.EnableStyling)

	var buf bytes.Buffer
	return NewComponentsWithWriter(nil, &buf), &buf
}

func TestBooksTable(t *testing.T) {
	data := BooksTable([]library.Book{
		{Id: big.NewInt(7), Name: "Dune", Author: "Herbert"},
		{Name: "Unknown", Author: "Anon"},
	})

	require.Len(t, data, 3)
	assert.Equal(t, []string{"ID", "书名", "作者"}, data[0])
	assert.Equal(t, []string{"7", "Dune", "Herbert"}, data[1])
	assert.Equal(t, "-", data[2][0])
}

func TestStatusText(t *testing.T) {
	n := uint64(3)
	msg := "transaction did not succeed"

	text := StatusText(StatusInfo{Profile: "local", View: library.View{Ready: true, AvailableBooks: &n}})
	assert.Contains(t, text, "未连接")
	assert.Contains(t, text, "就绪")
	assert.Contains(t, text, "可借数量: 3")
	assert.NotContains(t, text, "错误")

	text = StatusText(StatusInfo{Signer: "0xabc", View: library.View{Ready: true, Error: &msg}})
	assert.Contains(t, text, "0xabc")
	assert.Contains(t, text, "出错")
	assert.Contains(t, text, msg)

	text = StatusText(StatusInfo{View: library.View{Ready: true, Loading: true}})
	assert.Contains(t, text, "处理中")
}

func TestShowBooks(t *testing.T) {
	comp, buf := newTestComponents(t)

	require.NoError(t, comp.ShowBooks([]library.Book{{Id: big.NewInt(1), Name: "Dune", Author: "Herbert"}}))
	assert.Contains(t, buf.String(), "可借图书 (1)")
	assert.Contains(t, buf.String(), "Herbert")

	buf.Reset()
	require.NoError(t, comp.ShowBooks(nil))
	assert.Contains(t, buf.String(), "当前没有可借的图书")
}

func TestShowTableEmpty(t *testing.T) {
	comp, _ := newTestComponents(t)
	assert.Error(t, comp.ShowTable("空表格", nil))
}

func TestMessages(t *testing.T) {
	comp, buf := newTestComponents(t)

	require.NoError(t, comp.ShowSuccess("借书成功"))
	require.NoError(t, comp.ShowError("交易失败"))
	require.NoError(t, comp.ShowWarning("注意"))
	require.NoError(t, comp.ShowInfo("提示"))

	out := buf.String()
	for _, s := range []string{"借书成功", "交易失败", "注意", "提示"} {
		assert.Contains(t, out, s)
	}
}

func TestSpinnerNotStarted(t *testing.T) {
	comp, _ := newTestComponents(t)
	sp := comp.ShowSpinner("等待确认")

	assert.Error(t, sp.UpdateText("x"))
	assert.Error(t, sp.Success("ok"))
	assert.Error(t, sp.Fail("no"))
	assert.NoError(t, sp.Stop())
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", TruncateString("short", 10))
	assert.Equal(t, "0x12345...", TruncateString("0x1234567890", 10))
}
