package jsonrpc

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePoster struct {
	response string
}

func (f *fakePoster) Post(ctx context.Context, path string, body interface{}, headers map[string]string, out interface{}) error {
	return json.Unmarshal([]byte(f.response), out)
}

func TestCallSuccess(t *testing.T) {
	poster := &fakePoster{response: `{"id":1,"result":"0x1"}`}
	c := New(poster)
	v, err := Call[string](context.Background(), c, "eth_getBalance", []interface{}{"0x0", "latest"})
	require.NoError(t, err)
	assert.Equal(t, "0x1", v)
}

func TestCallError(t *testing.T) {
	poster := &fakePoster{response: `{"id":1,"error":{"code":-32601,"message":"method not found"}}`}
	c := New(poster)
	_, err := Call[string](context.Background(), c, "bogus", nil)
	require.Error(t, err)
}

func TestBatchCallPreservesOrderRegardlessOfReturnedIDOrder(t *testing.T) {
	// server returns ids reordered as [2,3,1]
	poster := &fakePoster{response: `[
		{"id":2,"result":"b"},
		{"id":3,"result":"c"},
		{"id":1,"result":"a"}
	]`}
	c := New(poster)
	calls := []BatchElement{
		{Method: "m1", Params: nil},
		{Method: "m2", Params: nil},
		{Method: "m3", Params: nil},
	}
	results, err := BatchCall[string](context.Background(), c, calls)
	require.NoError(t, err)
	extracted := results.Extract(nil)
	// BatchCall resequences by echoed id before returning, so request
	// order (m1, m2, m3 -> a, b, c) holds regardless of the array order
	// the server actually sent the response in.
	assert.Equal(t, []string{"a", "b", "c"}, extracted)
}

func TestBatchCallFallsBackToResponseOrderWhenIDsUnusable(t *testing.T) {
	// a server that omits ids entirely can't be resequenced; BatchCall
	// falls back to the response array's own order rather than guessing.
	poster := &fakePoster{response: `[
		{"result":"b"},
		{"result":"c"},
		{"result":"a"}
	]`}
	c := New(poster)
	calls := []BatchElement{
		{Method: "m1", Params: nil},
		{Method: "m2", Params: nil},
		{Method: "m3", Params: nil},
	}
	results, err := BatchCall[string](context.Background(), c, calls)
	require.NoError(t, err)
	extracted := results.Extract(nil)
	assert.Equal(t, []string{"b", "c", "a"}, extracted)
}

func TestExtractDropsErrorsPreservingOrder(t *testing.T) {
	poster := &fakePoster{response: `[
		{"id":1,"result":10},
		{"id":2,"error":{"code":-32603,"message":"boom"}},
		{"id":3,"result":20}
	]`}
	c := New(poster)
	calls := []BatchElement{{Method: "m1"}, {Method: "m2"}, {Method: "m3"}}
	results, err := BatchCall[int](context.Background(), c, calls)
	require.NoError(t, err)

	var dropped []int
	extracted := results.Extract(func(index int, err error) {
		dropped = append(dropped, index)
	})
	assert.Equal(t, []int{10, 20}, extracted)
	assert.Equal(t, []int{1}, dropped)
}

func TestEmptyBatchReturnsNil(t *testing.T) {
	c := New(&fakePoster{})
	results, err := BatchCall[int](context.Background(), c, nil)
	require.NoError(t, err)
	assert.Nil(t, results)
}
