package datagen

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	T "itemfreq/transaction"
)

var opts = Options{Transactions: 2000, Items: 50, AvgLength: 4, ZipfS: 1.3, Seed: 42}

func TestWriteRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.Nil(t, Write(&buf, opts))

	loaded, err := T.Load(&buf)
	require.Nil(t, err)
	generated, err := GenerateStore(opts)
	require.Nil(t, err)

	require.Equal(t, opts.Transactions, loaded.Count())
	for i := 0; i < loaded.Count(); i++ {
		assert.Equal(t, generated.At(i).Items(), loaded.At(i).Items())
	}
	assert.True(t, loaded.MaxItem() <= opts.Items)
}

func TestSkew(t *testing.T) {
	store, err := GenerateStore(opts)
	require.Nil(t, err)
	counts := make([]int, opts.Items+1)
	for _, tx := range store.All() {
		assert.True(t, tx.Len() >= 1 && tx.Len() <= 2*opts.AvgLength-1)
		for _, item := range tx.Items() {
			counts[item]++
		}
	}
	assert.Equal(t, 0, counts[0])
	assert.True(t, counts[1] > counts[10])
	assert.True(t, counts[2] > counts[30])
}

func TestLongTransactionsUnderSteepSkew(t *testing.T) {
	steep := Options{Transactions: 20, Items: 200, AvgLength: 200, ZipfS: 3, Seed: 1}
	g, err := New(steep)
	require.Nil(t, err)

	full := 0
	for i := 0; i < steep.Transactions; i++ {
		items := g.Next()
		require.True(t, len(items) >= 1 && len(items) <= steep.Items)
		for j, item := range items {
			assert.True(t, item >= 1 && item <= steep.Items)
			if j > 0 {
				assert.True(t, items[j-1] < item)
			}
		}
		if len(items) == steep.Items {
			full++
		}
	}
	assert.True(t, full > 0)
}

func TestInvalidOptions(t *testing.T) {
	for _, bad := range []Options{
		{Transactions: 0, Items: 5, AvgLength: 2, ZipfS: 1.5},
		{Transactions: 5, Items: 5, AvgLength: 2, ZipfS: 1},
		{Transactions: 5, Items: 0, AvgLength: 2, ZipfS: 1.5},
	} {
		_, err := New(bad)
		assert.Equal(t, ErrInvalidOptions, errors.Cause(err))
	}
}
