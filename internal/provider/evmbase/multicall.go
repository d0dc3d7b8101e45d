package evmbase

import (
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// erc20BalanceOfSelector is the 4-byte selector for balanceOf(address),
// per spec.md §4.E.
var erc20BalanceOfSelector = []byte{0x70, 0xa0, 0x82, 0x31}

// aggregate3Selector is Multicall3's aggregate3((address,bool,bytes)[])
// selector.
var aggregate3Selector = []byte{0x82, 0xad, 0x56, 0xcb}

// EncodeBalanceOf builds the calldata for balanceOf(address).
func EncodeBalanceOf(address common.Address) []byte {
	data := make([]byte, 0, 36)
	data = append(data, erc20BalanceOfSelector...)
	data = append(data, common.LeftPadBytes(address.Bytes(), 32)...)
	return data
}

// Call3 mirrors Multicall3.Call3: a target contract, whether its failure is
// tolerated, and the calldata to send it.
type Call3 struct {
	Target       common.Address
	AllowFailure bool
	CallData     []byte
}

// EncodeAggregate3 ABI-encodes a call to aggregate3(Call3[] calls). Every
// Call3 element is a dynamic tuple (it embeds a dynamic `bytes` field), so
// the array itself is an array-of-dynamic-tuples: head offsets to each
// tuple, then each tuple's own head (address, bool, offset-to-bytes) and
// tail (bytes length + data).
func EncodeAggregate3(target common.Address, calls []Call3) []byte {
	out := make([]byte, 0, 4+32+32*len(calls)*4)
	out = append(out, aggregate3Selector...)
	out = append(out, word32(32)...) // offset to the single array argument

	out = append(out, encodeDynamicCall3Array(calls)...)
	return out
}

func encodeDynamicCall3Array(calls []Call3) []byte {
	var headsAndLength []byte
	headsAndLength = append(headsAndLength, word32(uint64(len(calls)))...)

	tupleBodies := make([][]byte, len(calls))
	for i, c := range calls {
		tupleBodies[i] = encodeCall3Tuple(c)
	}

	headSize := 32 * len(calls)
	offset := uint64(headSize)
	var heads []byte
	var tails []byte
	for _, body := range tupleBodies {
		heads = append(heads, word32(offset)...)
		tails = append(tails, body...)
		offset += uint64(len(body))
	}

	headsAndLength = append(headsAndLength, heads...)
	headsAndLength = append(headsAndLength, tails...)
	return headsAndLength
}

// encodeCall3Tuple encodes one (address, bool, bytes) tuple: a 3-word head
// (address, bool, offset-to-bytes-within-this-tuple) followed by the bytes
// tail (length word + right-padded data).
func encodeCall3Tuple(c Call3) []byte {
	boolWord := make([]byte, 32)
	if c.AllowFailure {
		boolWord[31] = 1
	}

	bytesTail := encodeDynamicBytes(c.CallData)

	head := make([]byte, 0, 96)
	head = append(head, common.LeftPadBytes(c.Target.Bytes(), 32)...)
	head = append(head, boolWord...)
	head = append(head, word32(96)...) // offset to bytes tail, fixed: 3 head words = 96 bytes

	return append(head, bytesTail...)
}

func encodeDynamicBytes(data []byte) []byte {
	out := word32(uint64(len(data)))
	out = append(out, rightPad32(data)...)
	return out
}

func word32(v uint64) []byte {
	word := make([]byte, 32)
	binary.BigEndian.PutUint64(word[24:], v)
	return word
}

func rightPad32(data []byte) []byte {
	padded := (len(data) + 31) / 32 * 32
	out := make([]byte, padded)
	copy(out, data)
	return out
}

// Aggregate3Result is one decoded element of aggregate3's return array.
type Aggregate3Result struct {
	Success    bool
	ReturnData []byte
}

// DecodeAggregate3Result decodes the return bytes of an aggregate3 call —
// a single dynamic array of (bool, bytes) tuples — into an ordered slice
// matching the input call order.
func DecodeAggregate3Result(data []byte) ([]Aggregate3Result, error) {
	if len(data) < 32 {
		return nil, fmt.Errorf("evmbase: aggregate3 result too short")
	}
	arrayOffset := beUint64(data[:32])
	if int(arrayOffset)+32 > len(data) {
		return nil, fmt.Errorf("evmbase: aggregate3 result malformed array offset")
	}
	arrayData := data[arrayOffset:]
	if len(arrayData) < 32 {
		return nil, fmt.Errorf("evmbase: aggregate3 result truncated array")
	}
	length := beUint64(arrayData[:32])
	heads := arrayData[32:]

	results := make([]Aggregate3Result, 0, length)
	for i := uint64(0); i < length; i++ {
		headStart := i * 32
		if int(headStart)+32 > len(heads) {
			return nil, fmt.Errorf("evmbase: aggregate3 result truncated head")
		}
		tupleOffset := beUint64(heads[headStart : headStart+32])
		tupleData := heads[tupleOffset:]
		if len(tupleData) < 64 {
			return nil, fmt.Errorf("evmbase: aggregate3 result truncated tuple")
		}
		success := tupleData[31] == 1
		bytesOffset := beUint64(tupleData[32:64])
		bytesTail := tupleData[bytesOffset:]
		if len(bytesTail) < 32 {
			return nil, fmt.Errorf("evmbase: aggregate3 result truncated bytes")
		}
		bytesLen := beUint64(bytesTail[:32])
		returnData := bytesTail[32 : 32+bytesLen]

		results = append(results, Aggregate3Result{Success: success, ReturnData: append([]byte(nil), returnData...)})
	}
	return results, nil
}

func beUint64(word []byte) uint64 {
	return binary.BigEndian.Uint64(word[len(word)-8:])
}
