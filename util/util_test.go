package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRankByValueStable(t *testing.T) {
	values := []float64{0.2, 0.5, 0.2, 0.9, 0.5}
	assert.Equal(t, []int{3, 1, 4, 0, 2}, RankByValue(values))
	assert.Equal(t, []int{}, RankByValue([]float64{}))
}

func TestRankByCountStable(t *testing.T) {
	counts := []int{3, 3, 7, 0, 3}
	assert.Equal(t, []int{2, 0, 1, 4, 3}, RankByCount(counts))
}

func TestDeriveSeed(t *testing.T) {
	a := DeriveSeed(42, 0)
	b := DeriveSeed(42, 1)
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, DeriveSeed(42, 0))
	assert.True(t, a >= 0)
}

func TestCeilToInt(t *testing.T) {
	assert.Equal(t, 3, CeilToInt(2.01))
	assert.Equal(t, 2, CeilToInt(2.0))
	assert.Equal(t, 0, CeilToInt(-1.5))
	assert.Equal(t, 0.0, SafeDivide(1, 0))
	assert.Equal(t, 0.5, SafeDivide(1, 2))
}

func TestGetFloatListFromString(t *testing.T) {
	values, err := GetFloatListFromString("0.1, 0.05,,0.01")
	assert.Nil(t, err)
	assert.Equal(t, []float64{0.1, 0.05, 0.01}, values)

	_, err = GetFloatListFromString("0.1,abc")
	assert.NotNil(t, err)

	assert.Equal(t, []string{"exact", "ru"}, GetStringListFromString("exact, ,ru"))
}

func TestContainsStringInArray(t *testing.T) {
	assert.True(t, ContainsStringInArray([]string{"exact", "RU-bound"}, "RU-bound"))
	assert.False(t, ContainsStringInArray([]string{"exact"}, "ru-bound"))
	assert.False(t, ContainsStringInArray(nil, "exact"))
	assert.NotEqual(t, GetUUID(), GetUUID())
}
