package contract

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/bookshelf/client/core/library"
	"github.com/weisyn/bookshelf/client/core/wallet"
)

const testKey = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"

// fakeBackend 只实现合约调用路径上用到的方法，其余方法调用会 panic
type fakeBackend struct {
	bind.ContractBackend

	mu       sync.Mutex
	output   []byte
	callErr  error
	gasErr   error
	sent     []*types.Transaction
	status   uint64
	lastCall ethereum.CallMsg
}

func (b *fakeBackend) CallContract(_ context.Context, call ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lastCall = call
	return b.output, b.callErr
}

func (b *fakeBackend) CodeAt(context.Context, common.Address, *big.Int) ([]byte, error) {
	return []byte{0x60, 0x80}, nil
}

func (b *fakeBackend) PendingCodeAt(context.Context, common.Address) ([]byte, error) {
	return []byte{0x60, 0x80}, nil
}

func (b *fakeBackend) HeaderByNumber(context.Context, *big.Int) (*types.Header, error) {
	return &types.Header{Number: big.NewInt(1)}, nil
}

func (b *fakeBackend) SuggestGasPrice(context.Context) (*big.Int, error) {
	return big.NewInt(1_000_000_000), nil
}

func (b *fakeBackend) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	return 7, nil
}

func (b *fakeBackend) EstimateGas(context.Context, ethereum.CallMsg) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return 90_000, b.gasErr
}

func (b *fakeBackend) SendTransaction(_ context.Context, tx *types.Transaction) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, tx)
	return nil
}

func (b *fakeBackend) TransactionReceipt(_ context.Context, hash common.Hash) (*types.Receipt, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, tx := range b.sent {
		if tx.Hash() == hash {
			return &types.Receipt{TxHash: hash, Status: b.status}, nil
		}
	}
	return nil, ethereum.NotFound
}

// rpcRevertError 模拟节点返回的带回滚数据的 JSON-RPC 错误
type rpcRevertError struct {
	data string
}

func (e *rpcRevertError) Error() string          { return "execution reverted" }
func (e *rpcRevertError) ErrorCode() int         { return 3 }
func (e *rpcRevertError) ErrorData() interface{} { return e.data }

func revertData(t *testing.T, reason string) string {
	t.Helper()
	stringType, err := abi.NewType("string", "", nil)
	require.NoError(t, err)
	packed, err := abi.Arguments{{Type: stringType}}.Pack(reason)
	require.NoError(t, err)
	selector := crypto.Keccak256([]byte("Error(string)"))[:4]
	return hexutil.Encode(append(selector, packed...))
}

func newTestContract(t *testing.T) (*LibraryContract, *fakeBackend, wallet.Signer) {
	t.Helper()
	signer, err := wallet.NewKeySignerFromHex(testKey)
	require.NoError(t, err)
	backend := &fakeBackend{status: types.ReceiptStatusSuccessful}

	bound, err := NewBinder(backend, big.NewInt(5)).Bind(signer)
	require.NoError(t, err)
	return bound.(*LibraryContract), backend, signer
}

func TestParsedABI(t *testing.T) {
	a := ParsedABI()
	for _, name := range []string{MethodGetAvailableBooks, MethodAddBook, MethodBorrowBook, MethodReturnBook} {
		_, ok := a.Methods[name]
		assert.True(t, ok, name)
	}
	assert.True(t, a.Methods[MethodGetAvailableBooks].IsConstant())
	assert.Equal(t, common.HexToAddress("0xE663074c9ca6B331526E592196Bd6f2d192FA827"), Address())
}

func TestGetAvailableBooksDecodesTuples(t *testing.T) {
	c, backend, signer := newTestContract(t)

	want := []library.Book{
		{Id: big.NewInt(1), Name: "Dune", Author: "Herbert"},
		{Id: big.NewInt(1), Name: "Dune", Author: "Herbert"},
		{Id: big.NewInt(2), Name: "Solaris", Author: "Lem"},
	}
	output, err := parsedABI.Methods[MethodGetAvailableBooks].Outputs.Pack(want)
	require.NoError(t, err)
	backend.output = output

	books, err := c.GetAvailableBooks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, books)

	assert.Equal(t, signer.Address(), backend.lastCall.From)
	require.NotNil(t, backend.lastCall.To)
	assert.Equal(t, Address(), *backend.lastCall.To)
	assert.Equal(t, parsedABI.Methods[MethodGetAvailableBooks].ID, backend.lastCall.Data[:4])
}

func TestGetAvailableBooksRevertReason(t *testing.T) {
	c, backend, _ := newTestContract(t)
	backend.callErr = &rpcRevertError{data: revertData(t, "Library: paused")}

	_, err := c.GetAvailableBooks(context.Background())
	require.Error(t, err)

	var ce *CallError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, MethodGetAvailableBooks, ce.Method)
	assert.Equal(t, "Library: paused", ce.Reason())
	assert.True(t, ce.Reverted())
}

func TestBorrowBookSendsSignedTx(t *testing.T) {
	c, backend, signer := newTestContract(t)

	tx, err := c.BorrowBook(context.Background(), big.NewInt(7))
	require.NoError(t, err)
	require.Len(t, backend.sent, 1)
	assert.Equal(t, tx.Hash(), backend.sent[0].Hash())
	assert.Equal(t, uint64(7), tx.Nonce())

	sender, err := types.Sender(types.LatestSignerForChainID(big.NewInt(5)), tx)
	require.NoError(t, err)
	assert.Equal(t, signer.Address(), sender)

	args, err := parsedABI.Methods[MethodBorrowBook].Inputs.Unpack(tx.Data()[4:])
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(7), args[0])

	receipt, err := c.WaitMined(context.Background(), tx)
	require.NoError(t, err)
	assert.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)
}

func TestAddBookEncodesArguments(t *testing.T) {
	c, _, _ := newTestContract(t)

	tx, err := c.AddBook(context.Background(), "Dune", "Herbert", big.NewInt(2))
	require.NoError(t, err)

	method, err := parsedABI.MethodById(tx.Data()[:4])
	require.NoError(t, err)
	assert.Equal(t, MethodAddBook, method.Name)

	args, err := method.Inputs.Unpack(tx.Data()[4:])
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"Dune", "Herbert", big.NewInt(2)}, args)
}

func TestReturnBookGasEstimationRevert(t *testing.T) {
	c, backend, _ := newTestContract(t)
	backend.gasErr = errors.New("execution reverted: Library: book not borrowed")

	_, err := c.ReturnBook(context.Background(), big.NewInt(1))
	require.Error(t, err)

	var ce *CallError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "Library: book not borrowed", ce.Reason())
	assert.True(t, ce.Reverted())
	assert.Empty(t, backend.sent)
}

func TestLockedSignerRejected(t *testing.T) {
	c, backend, signer := newTestContract(t)
	signer.(*wallet.KeySigner).Lock()

	_, err := c.BorrowBook(context.Background(), big.NewInt(1))
	require.Error(t, err)
	assert.ErrorIs(t, err, wallet.ErrSignerRejected)

	var ce *CallError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "signer is locked", ce.Reason())
	assert.False(t, ce.Reverted())
	assert.Empty(t, backend.sent)
}

func TestWaitMinedCancelled(t *testing.T) {
	c, _, _ := newTestContract(t)
	tx := types.NewTx(&types.LegacyTx{Nonce: 1, Gas: 21000, GasPrice: big.NewInt(1)})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.WaitMined(ctx, tx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewLibraryContractValidation(t *testing.T) {
	signer, err := wallet.NewKeySignerFromHex(testKey)
	require.NoError(t, err)
	backend := &fakeBackend{}

	_, err = NewLibraryContract(nil, big.NewInt(1), signer)
	assert.Error(t, err)
	_, err = NewLibraryContract(backend, nil, signer)
	assert.Error(t, err)
	_, err = NewLibraryContract(backend, big.NewInt(1), nil)
	assert.Error(t, err)
}
