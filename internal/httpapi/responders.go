// Package httpapi is the thin gin-based HTTP façade exposing
// /v1/balances/... (spec.md §6), grounded on the teacher-adjacent
// Dorafanboy-balance_checker repo's gin router/handler idiom (the
// balance-aggregation teacher itself carries no HTTP layer).
package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/web3-fighter/balance-aggregator/internal/provider"
)

// Envelope is the uniform response shape every route renders, per
// spec.md §6: {success, data, error}.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Error   string      `json:"error,omitempty"`
}

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// respondError maps an error to its façade HTTP status per spec.md §7:
// 400 for bad chain/address input, 404 for an unconfigured chain, 500 for
// any upstream/provider failure.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	var notConfigured *provider.NotConfiguredError
	var badRequest *badRequestError
	switch {
	case errors.As(err, &notConfigured):
		status = http.StatusNotFound
	case errors.As(err, &badRequest):
		status = http.StatusBadRequest
	}

	c.JSON(status, Envelope{Success: false, Data: nil, Error: err.Error()})
}

// badRequestError marks an error as caused by malformed client input
// (unknown chain tag, empty or malformed address) so respondError can
// recognize it via errors.As. It adds no text of its own: Error() returns
// exactly the wrapped error's message, so the rendered body is the literal
// validation message (e.g. "unknown chain: dogecoin"), never a "bad
// request: " prefix.
type badRequestError struct {
	err error
}

func newBadRequestError(err error) error {
	return &badRequestError{err: err}
}

func (e *badRequestError) Error() string { return e.err.Error() }
func (e *badRequestError) Unwrap() error { return e.err }
