package library

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutorNotReady(t *testing.T) {
	e := NewExecutor(nil)
	out := e.Execute(context.Background(), nil, BorrowBook{BookID: big.NewInt(1)})
	assert.Equal(t, CategoryNotReady, out.Category)

	out = e.Execute(context.Background(), &ContractBinding{}, BorrowBook{BookID: big.NewInt(1)})
	assert.Equal(t, CategoryNotReady, out.Category)
}

func TestExecutorReadPayload(t *testing.T) {
	contract := newFakeContract(4)
	e := NewExecutor(nil)

	out := e.Execute(context.Background(), &ContractBinding{Contract: contract}, GetAvailableBooks{})
	require.True(t, out.Success)
	require.NotNil(t, out.Payload)
	assert.Equal(t, uint64(4), *out.Payload)
	assert.Len(t, out.Books, 4)
	assert.Empty(t, out.TxHash)
}

func TestExecutorMutationCarriesTxHash(t *testing.T) {
	contract := newFakeContract(0)
	e := NewExecutor(nil)

	out := e.Execute(context.Background(), &ContractBinding{Contract: contract}, AddBook{Name: "Dune", Author: "Herbert", Copies: big.NewInt(2)})
	require.True(t, out.Success)
	assert.Regexp(t, "^0x[0-9a-f]{64}$", out.TxHash)
	assert.Nil(t, out.Payload)
	assert.Equal(t, 1, contract.count("waitMined"))
}

func TestExecutorSubmitErrorSkipsWait(t *testing.T) {
	contract := newFakeContract(0)
	contract.setErrors(nil, errNetwork, nil)

	out := NewExecutor(nil).Execute(context.Background(), &ContractBinding{Contract: contract}, ReturnBook{BookID: big.NewInt(1)})
	assert.False(t, out.Success)
	assert.Equal(t, 0, contract.count("waitMined"))
	assert.Empty(t, out.TxHash)
	assert.ErrorIs(t, out.Err, errNetwork)

	var opErr *OperationError
	require.ErrorAs(t, out.Err, &opErr)
	assert.Equal(t, KindReturnBook, opErr.Kind)
	assert.Equal(t, "returnBook: operation failed", opErr.Error())
}

func TestExecutorContextCancelled(t *testing.T) {
	contract := newFakeContract(0)
	release := contract.block()
	defer release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := NewExecutor(nil).Execute(ctx, &ContractBinding{Contract: contract}, BorrowBook{BookID: big.NewInt(1)})
	assert.False(t, out.Success)
	assert.Equal(t, CategoryNetworkFailure, out.Category)
	assert.ErrorIs(t, out.Err, context.Canceled)
	assert.NotEmpty(t, out.TxHash)
}
