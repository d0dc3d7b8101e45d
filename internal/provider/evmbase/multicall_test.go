package evmbase

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeBalanceOf(t *testing.T) {
	addr := common.HexToAddress("0x0000000000000000000000000000000000000001")
	data := EncodeBalanceOf(addr)
	require.Len(t, data, 36)
	assert.Equal(t, erc20BalanceOfSelector, data[:4])
}

func TestEncodeAggregate3HasSelectorAndOffset(t *testing.T) {
	addr1 := common.HexToAddress("0x1111111111111111111111111111111111111111")
	addr2 := common.HexToAddress("0x2222222222222222222222222222222222222222")

	calls := []Call3{
		{Target: addr1, AllowFailure: true, CallData: EncodeBalanceOf(addr1)},
		{Target: addr2, AllowFailure: true, CallData: EncodeBalanceOf(addr2)},
	}
	encoded := EncodeAggregate3(common.Address{}, calls)
	require.True(t, len(encoded) > 4)
	assert.Equal(t, aggregate3Selector, encoded[:4])
	assert.Equal(t, word32(32), encoded[4:36])
}

// encodeBoolBytesTuple builds one (bool, bytes) tuple the way aggregate3's
// Result[] return shape encodes it, for use only in this round-trip test.
func encodeBoolBytesTuple(success bool, data []byte) []byte {
	boolWord := make([]byte, 32)
	if success {
		boolWord[31] = 1
	}
	head := append(append([]byte{}, boolWord...), word32(64)...)
	return append(head, encodeDynamicBytes(data)...)
}

func encodeResultArray(tuples [][]byte) []byte {
	out := word32(32) // offset to array
	out = append(out, word32(uint64(len(tuples)))...)

	offset := uint64(32 * len(tuples))
	var heads, tails []byte
	for _, tup := range tuples {
		heads = append(heads, word32(offset)...)
		tails = append(tails, tup...)
		offset += uint64(len(tup))
	}
	out = append(out, heads...)
	out = append(out, tails...)
	return out
}

func TestDecodeAggregate3ResultRoundTrip(t *testing.T) {
	tuple1 := encodeBoolBytesTuple(true, word32(100))
	tuple2 := encodeBoolBytesTuple(false, nil)
	payload := encodeResultArray([][]byte{tuple1, tuple2})

	results, err := DecodeAggregate3Result(payload)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.True(t, results[0].Success)
	assert.Equal(t, word32(100), results[0].ReturnData)

	assert.False(t, results[1].Success)
	assert.Empty(t, results[1].ReturnData)
}
