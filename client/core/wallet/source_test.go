package wallet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceNotifiesSubscribers(t *testing.T) {
	src := NewSource()
	assert.Nil(t, src.Current())

	var seen []Signer
	unsubscribe := src.Subscribe(func(s Signer) { seen = append(seen, s) })

	first, err := NewKeySignerFromHex(testKeyHex)
	require.NoError(t, err)
	second, err := NewMnemonicSigner(MnemonicSignerConfig{Mnemonic: testMnemonic})
	require.NoError(t, err)

	src.Connect(first)
	assert.Equal(t, Signer(first), src.Current())

	src.Connect(second)
	src.Disconnect()
	assert.Nil(t, src.Current())

	require.Len(t, seen, 3)
	assert.Equal(t, Signer(first), seen[0])
	assert.Equal(t, Signer(second), seen[1])
	assert.Nil(t, seen[2])

	unsubscribe()
	src.Connect(first)
	assert.Len(t, seen, 3)

	// 重复取消订阅无副作用
	unsubscribe()
}

func TestSourceSubscriberMaySubscribe(t *testing.T) {
	src := NewSource()
	calls := 0
	src.Subscribe(func(Signer) {
		calls++
		src.Subscribe(func(Signer) {})
	})

	src.Disconnect()
	assert.Equal(t, 1, calls)
}
