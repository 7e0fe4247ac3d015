package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatUnits(t *testing.T) {
	assert.Equal(t, "0.024981836", FormatUnits(24981836, 9))
	assert.Equal(t, "1.000000000", FormatUnits(1_000_000_000, 9))
	assert.Equal(t, "0.000000001", FormatUnits(1, 9))
	assert.Equal(t, "0.000000000", FormatUnits(0, 9))
	assert.Equal(t, "42", FormatUnits(42, 0))
}

func TestParseUnits(t *testing.T) {
	n, err := ParseUnits("0.024981836", 9)
	require.NoError(t, err)
	assert.Equal(t, uint64(24981836), n)

	n, err = ParseUnits("2", 9)
	require.NoError(t, err)
	assert.Equal(t, uint64(2_000_000_000), n)

	n, err = ParseUnits(".5", 9)
	require.NoError(t, err)
	assert.Equal(t, uint64(500_000_000), n)

	n, err = ParseUnits("0.1234567891234", 9)
	require.NoError(t, err)
	assert.Equal(t, uint64(123456789), n)

	_, err = ParseUnits("", 9)
	assert.Error(t, err)
	_, err = ParseUnits("1.2.3", 9)
	assert.Error(t, err)
}

func TestTransactionsLeft(t *testing.T) {
	assert.Equal(t, uint64(10), TransactionsLeft(10, 1))
	assert.Equal(t, uint64(0), TransactionsLeft(1, 1), "balance equal to one fee leaves nothing")
	assert.Equal(t, uint64(0), TransactionsLeft(0, 1))
	assert.Equal(t, uint64(2), TransactionsLeft(25, 10))
	assert.Equal(t, uint64(0), TransactionsLeft(100, 0))
}

func TestFormatCountdown(t *testing.T) {
	assert.Equal(t, "02:31", FormatCountdown(151))
	assert.Equal(t, "00:00", FormatCountdown(-4))
}
