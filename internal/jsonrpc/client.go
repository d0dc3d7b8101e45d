package jsonrpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/web3-fighter/balance-aggregator/internal/transport"
)

// Poster is the subset of transport.Client a Client needs: POST a JSON body
// to the base URL and decode the response. Accepting an interface here (as
// the teacher's evmbase.RPC and svmbase.JSONRpc types do for their
// respective clients) keeps this package independent of the concrete
// transport implementation and easy to fake in tests.
type Poster interface {
	Post(ctx context.Context, path string, body interface{}, headers map[string]string, out interface{}) error
}

// Client drives single and batched JSON-RPC 2.0 calls over a Poster,
// posting to "/" of the poster's configured base URL.
type Client struct {
	poster Poster
}

// New wraps an HTTP transport as a JSON-RPC client.
func New(poster Poster) *Client {
	return &Client{poster: poster}
}

// Call issues one JSON-RPC request and decodes its result as T.
func Call[T any](ctx context.Context, c *Client, method string, params interface{}) (T, error) {
	var zero T
	req := NewRequest(1, method, params)
	var result Result[T]
	if err := c.poster.Post(ctx, "/", req, nil, &result); err != nil {
		return zero, fmt.Errorf("jsonrpc: call %s: %w", method, err)
	}
	v, err := result.Take()
	if err != nil {
		return zero, fmt.Errorf("jsonrpc: call %s: %w", method, err)
	}
	return v, nil
}

// BatchCall posts an ordered array of (method, params) pairs in a single
// request, assigning sequential ids starting at 1 within this batch, and
// returns the per-element outcomes resequenced into request order by the
// id each element echoes back — a server is free to return the response
// array in a different order than it received the requests (spec.md §8's
// batch-ordering property), so the raw decode order is not trusted as
// request order on its own. The response parser tolerates a
// single-element array, since a batch was sent.
func BatchCall[T any](ctx context.Context, c *Client, calls []BatchElement) (Results[T], error) {
	if len(calls) == 0 {
		return nil, nil
	}
	reqs := make([]Request, len(calls))
	for i, call := range calls {
		reqs[i] = NewRequest(uint64(i+1), call.Method, call.Params)
	}

	var raw json.RawMessage
	if err := c.poster.Post(ctx, "/", reqs, nil, &raw); err != nil {
		return nil, fmt.Errorf("jsonrpc: batch call: %w", err)
	}

	var decoded Results[T]
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("jsonrpc: batch call: decode response: %w", err)
	}
	return reorderByID(decoded, len(reqs)), nil
}

// reorderByID places each result at the slice index its echoed id implies
// (id N belongs at index N-1, matching NewRequest's 1-based assignment
// above). If any id is missing, out of range, or duplicated — the server
// didn't echo ids usably — it falls back to the server's raw response
// order rather than guessing.
func reorderByID[T any](decoded Results[T], want int) Results[T] {
	if len(decoded) != want {
		return decoded
	}
	ordered := make(Results[T], want)
	placed := make([]bool, want)
	for _, res := range decoded {
		id, ok := res.ID()
		if !ok || id < 1 || int(id) > want || placed[id-1] {
			return decoded
		}
		ordered[id-1] = res
		placed[id-1] = true
	}
	return ordered
}

// BatchElement is one (method, params) pair submitted to BatchCall.
type BatchElement struct {
	Method string
	Params interface{}
}
