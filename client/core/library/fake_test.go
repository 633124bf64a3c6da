package library

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/weisyn/bookshelf/client/core/wallet"
)

const (
	aliceKey = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"
	bobKey   = "8f2a55949038a9610f50fb23b5883af3b4ecb3c3bb792cbcefbd1542c692be63"
)

var testAddress = common.HexToAddress("0xE663074c9ca6B331526E592196Bd6f2d192FA827")

// fakeContract 可控的合约实现，记录每个方法的调用次数
type fakeContract struct {
	mu     sync.Mutex
	calls  map[string]int
	books  []Book
	status uint64

	readErr   error
	submitErr error
	waitErr   error
	panicOn   string

	// gate 非 nil 时，GetAvailableBooks 和 WaitMined 在返回前等待其关闭
	gate    chan struct{}
	entered chan string
	// during 在调用进行中执行，用于观察状态
	during func()
}

func newFakeContract(n int) *fakeContract {
	c := &fakeContract{
		calls:  make(map[string]int),
		status: types.ReceiptStatusSuccessful,
	}
	c.setBooks(n)
	return c
}

func (c *fakeContract) setBooks(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.books = make([]Book, n)
	for i := range c.books {
		c.books[i] = Book{Id: big.NewInt(int64(i + 1)), Name: "book", Author: "author"}
	}
}

// block 让后续调用阻塞，返回释放函数
func (c *fakeContract) block() func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	gate := make(chan struct{})
	c.gate = gate
	c.entered = make(chan string, 8)
	var once sync.Once
	return func() {
		once.Do(func() { close(gate) })
	}
}

func (c *fakeContract) count(method string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[method]
}

func (c *fakeContract) total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, v := range c.calls {
		n += v
	}
	return n
}

func (c *fakeContract) enter(method string) (chan struct{}, func()) {
	c.mu.Lock()
	c.calls[method]++
	gate, entered, during, panicOn := c.gate, c.entered, c.during, c.panicOn
	c.mu.Unlock()

	if panicOn == method {
		panic("fake contract failure")
	}
	if entered != nil {
		entered <- method
	}
	return gate, during
}

func (c *fakeContract) wait(ctx context.Context, gate chan struct{}, during func()) error {
	if during != nil {
		during()
	}
	if gate == nil {
		return nil
	}
	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *fakeContract) Address() common.Address { return testAddress }

func (c *fakeContract) GetAvailableBooks(ctx context.Context) ([]Book, error) {
	gate, during := c.enter("getAvailableBooks")
	if err := c.wait(ctx, gate, during); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readErr != nil {
		return nil, c.readErr
	}
	return append([]Book(nil), c.books...), nil
}

func (c *fakeContract) submit(method string) (*types.Transaction, error) {
	c.enter(method)
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.submitErr != nil {
		return nil, c.submitErr
	}
	return types.NewTx(&types.LegacyTx{Nonce: uint64(c.calls[method]), To: &testAddress, Gas: 100000, GasPrice: big.NewInt(1)}), nil
}

func (c *fakeContract) AddBook(_ context.Context, _, _ string, _ *big.Int) (*types.Transaction, error) {
	return c.submit("addBook")
}

func (c *fakeContract) BorrowBook(_ context.Context, _ *big.Int) (*types.Transaction, error) {
	return c.submit("borrowBook")
}

func (c *fakeContract) ReturnBook(_ context.Context, _ *big.Int) (*types.Transaction, error) {
	return c.submit("returnBook")
}

func (c *fakeContract) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	gate, during := c.enter("waitMined")
	if err := c.wait(ctx, gate, during); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.waitErr != nil {
		return nil, c.waitErr
	}
	return &types.Receipt{Status: c.status, TxHash: tx.Hash()}, nil
}

// fakeBinder 为任意签名器返回同一个 fakeContract
type fakeBinder struct {
	contract *fakeContract
	err      error
	bound    []common.Address
}

func (b *fakeBinder) Bind(signer wallet.Signer) (Contract, error) {
	if b.err != nil {
		return nil, b.err
	}
	b.bound = append(b.bound, signer.Address())
	return b.contract, nil
}

// reasonError 带领域原因的错误
type reasonError struct {
	reason   string
	reverted bool
}

func (e *reasonError) Error() string  { return "call failed: " + e.reason }
func (e *reasonError) Reason() string { return e.reason }
func (e *reasonError) Reverted() bool { return e.reverted }

var errNetwork = errors.New("dial tcp 127.0.0.1:8545: connection refused")

// fakeRecorder 记录指标调用
type fakeRecorder struct {
	mu       sync.Mutex
	started  []string
	finished []string
	rejected []string
	ready    []bool
}

func (r *fakeRecorder) OperationStarted(kind string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = append(r.started, kind)
}

func (r *fakeRecorder) OperationFinished(kind, category string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.finished = append(r.finished, kind+":"+category)
}

func (r *fakeRecorder) OperationRejected(kind, category string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejected = append(r.rejected, kind+":"+category)
}

func (r *fakeRecorder) ContractReady(ready bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ready = append(r.ready, ready)
}

func (r *fakeRecorder) AvailableBooks(uint64) {}

func (c *fakeContract) setStatus(status uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = status
}

func (c *fakeContract) setErrors(readErr, submitErr, waitErr error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.readErr, c.submitErr, c.waitErr = readErr, submitErr, waitErr
}
