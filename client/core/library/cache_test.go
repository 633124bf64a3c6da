package library

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCache(t *testing.T) {
	var c ReadCache
	assert.Nil(t, c.Count())
	assert.Empty(t, c.Books())

	books := []Book{{Id: big.NewInt(1), Name: "Dune", Author: "Herbert"}, {Id: big.NewInt(1), Name: "Dune", Author: "Herbert"}}
	assert.Equal(t, uint64(2), c.Store(books))

	count := c.Count()
	require.NotNil(t, count)
	assert.Equal(t, uint64(2), *count)

	// 返回副本
	*count = 9
	got := c.Books()
	got[0].Name = "changed"
	assert.Equal(t, uint64(2), *c.Count())
	assert.Equal(t, "Dune", c.Books()[0].Name)

	assert.Equal(t, uint64(0), c.Store(nil))
	require.NotNil(t, c.Count())

	c.Reset()
	assert.Nil(t, c.Count())
}
