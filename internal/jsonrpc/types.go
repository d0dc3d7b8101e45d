// Package jsonrpc implements JSON-RPC 2.0 request/response framing over an
// arbitrary transport, including batched calls whose individual elements
// carry their own success/error outcome.
//
// Grounded on original_source's crates/core_jsonrpc/src/types.rs, whose
// field names, error codes, and Extract drop-and-log semantics this
// package reproduces.
package jsonrpc

import (
	"encoding/json"
	"fmt"
)

const Version = "2.0"

// Standard JSON-RPC 2.0 error codes.
const (
	ErrCodeInvalidRequest  = -32600
	ErrCodeMethodNotFound  = -32601
	ErrCodeInvalidParams   = -32602
	ErrCodeInternalError   = -32603
)

// Request is a single JSON-RPC 2.0 call.
type Request struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      uint64      `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
}

// NewRequest builds a Request with the fixed "2.0" protocol version.
func NewRequest(id uint64, method string, params interface{}) Request {
	return Request{JSONRPC: Version, ID: id, Method: method, Params: params}
}

// Error is the {code, message} shape of a failed JSON-RPC call. It
// implements the error interface so it can be returned and wrapped like any
// other Go error.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%d)", e.Message, e.Code)
}

// Response is the successful-call shape: {id, result}.
type Response[T any] struct {
	ID     *uint64 `json:"id"`
	Result T       `json:"result"`
}

// ErrorResponse is the failed-call shape: {id, error}.
type ErrorResponse struct {
	ID    *uint64 `json:"id"`
	Error Error   `json:"error"`
}

// Result is the tagged union a single JSON-RPC call resolves to: either a
// successful Response or an ErrorResponse. Because the wire encoding is
// untagged (distinguished only by the presence of "result" vs "error"),
// UnmarshalJSON probes for the "error" key before falling back to the
// success shape.
type Result[T any] struct {
	value T
	err   *Error
	id    *uint64
}

func (r *Result[T]) UnmarshalJSON(data []byte) error {
	var probe struct {
		ID    *uint64         `json:"id"`
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if len(probe.Error) > 0 && string(probe.Error) != "null" {
		var errResp ErrorResponse
		if err := json.Unmarshal(data, &errResp); err != nil {
			return err
		}
		r.id = errResp.ID
		r.err = &errResp.Error
		return nil
	}

	var resp Response[T]
	if err := json.Unmarshal(data, &resp); err != nil {
		return err
	}
	r.id = resp.ID
	r.value = resp.Result
	return nil
}

// Take converts Result into a plain (value, error) pair.
func (r Result[T]) Take() (T, error) {
	if r.err != nil {
		return r.value, r.err
	}
	return r.value, nil
}

// ID reports the request id this result echoed back, if the server sent
// one. Used to resequence a batch response into request order when the
// server is free to reorder the response array.
func (r Result[T]) ID() (uint64, bool) {
	if r.id == nil {
		return 0, false
	}
	return *r.id, true
}

// Results is an ordered collection of batch-call outcomes, as decoded
// directly off the wire: position in the slice corresponds to the response
// array's own order, which a server is free to make different from the
// request array's order (distinguishable only by each element's echoed
// id). BatchCall resequences a decoded Results value by id into request
// order before handing it back to callers, so callers normally see request
// order; constructing or decoding a Results value any other way carries no
// such guarantee on its own.
type Results[T any] []Result[T]

// Extract returns only the successful values, in input order, silently
// dropping failed elements after invoking onError (if non-nil) for each —
// the batch-level call never fails because one element did.
func (r Results[T]) Extract(onError func(index int, err error)) []T {
	out := make([]T, 0, len(r))
	for i, res := range r {
		v, err := res.Take()
		if err != nil {
			if onError != nil {
				onError(i, err)
			}
			continue
		}
		out = append(out, v)
	}
	return out
}
