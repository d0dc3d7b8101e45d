package bignum

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecimalRoundTrip(t *testing.T) {
	cases := []string{"0", "1", "2000000000000000000", "115792089237316195423570985008687907853269984665640564039457584007913129639935"}
	for _, c := range cases {
		n, err := DecodeDecimal(c)
		require.NoError(t, err)
		assert.Equal(t, c, EncodeDecimal(n))
	}
}

func TestHexRoundTrip(t *testing.T) {
	n := big.NewInt(255)
	assert.Equal(t, "0xff", EncodeHex(n))

	decoded, err := DecodeHex("0xff")
	require.NoError(t, err)
	assert.Equal(t, n, decoded)

	decoded, err = DecodeHex("ff")
	require.NoError(t, err)
	assert.Equal(t, n, decoded)
}

func TestMalformed(t *testing.T) {
	_, err := DecodeDecimal("")
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = DecodeDecimal("-1")
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = DecodeDecimal("not-a-number")
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = DecodeHex("0x")
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = DecodeHex("zz")
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestZero(t *testing.T) {
	assert.True(t, Zero(nil))
	assert.True(t, Zero(big.NewInt(0)))
	assert.False(t, Zero(big.NewInt(1)))
}
