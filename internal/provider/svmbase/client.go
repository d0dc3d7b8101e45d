// Package svmbase holds the Solana JSON-RPC plumbing shared by the Solana
// chain provider: getBalance/getTokenAccountsByOwner/getProgramAccounts/
// getSlot/getGenesisHash/getEpochInfo calls built on internal/jsonrpc +
// internal/transport.
//
// Grounded on original_source's crates/core_solana/src/rpc/client.rs for
// the operation set and exact RPC parameter shapes, generalized from its
// generic core_jsonrpc::JsonRpcClient to this repository's own JSON-RPC
// layer, and on the teacher's service/svmbase for the Go client-wrapping
// idiom (one struct per chain family wrapping an HTTP-backed RPC client).
package svmbase

import (
	"context"
	"fmt"
	"math/big"

	"github.com/web3-fighter/balance-aggregator/internal/jsonrpc"
)

// StakeProgramID is the Solana native stake program.
const StakeProgramID = "Stake11111111111111111111111111111111111111"

// TokenProgramID is the original SPL Token program.
const TokenProgramID = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"

// Client drives Solana JSON-RPC calls over a jsonrpc.Client.
type Client struct {
	rpc *jsonrpc.Client
}

// New wraps a JSON-RPC client as a Solana client.
func New(rpc *jsonrpc.Client) *Client {
	return &Client{rpc: rpc}
}

// GetBalance is getBalance(address), in lamports.
func (c *Client) GetBalance(ctx context.Context, address string) (*big.Int, error) {
	result, err := jsonrpc.Call[ValueResult[uint64]](ctx, c.rpc, "getBalance", []interface{}{address})
	if err != nil {
		return nil, fmt.Errorf("svmbase: getBalance: %w", err)
	}
	return new(big.Int).SetUint64(result.Value), nil
}

// GetTokenAccountsByOwner is getTokenAccountsByOwner(owner, {programId},
// {encoding: jsonParsed}) — every SPL token account owner holds under the
// given program.
func (c *Client) GetTokenAccountsByOwner(ctx context.Context, owner, programID string) ([]TokenAccount, error) {
	params := []interface{}{
		owner,
		map[string]string{"programId": programID},
		map[string]string{"encoding": "jsonParsed"},
	}
	result, err := jsonrpc.Call[ValueResult[[]TokenAccount]](ctx, c.rpc, "getTokenAccountsByOwner", params)
	if err != nil {
		return nil, fmt.Errorf("svmbase: getTokenAccountsByOwner: %w", err)
	}
	return result.Value, nil
}

// GetTokenAccountsForMints batches one getTokenAccountsByOwner(owner,
// {mint}, jsonParsed) call per mint, preserving input order.
func (c *Client) GetTokenAccountsForMints(ctx context.Context, owner string, mints []string) ([][]TokenAccount, error) {
	if len(mints) == 0 {
		return nil, nil
	}
	calls := make([]jsonrpc.BatchElement, len(mints))
	for i, mint := range mints {
		calls[i] = jsonrpc.BatchElement{
			Method: "getTokenAccountsByOwner",
			Params: []interface{}{
				owner,
				map[string]string{"mint": mint},
				map[string]string{"encoding": "jsonParsed"},
			},
		}
	}

	results, err := jsonrpc.BatchCall[ValueResult[[]TokenAccount]](ctx, c.rpc, calls)
	if err != nil {
		return nil, fmt.Errorf("svmbase: batch getTokenAccountsByOwner: %w", err)
	}

	// jsonrpc.BatchCall already resequences results by echoed request id
	// (falling back to response order only if ids come back unusable), so
	// results is indexed in request order here. A failed element's slot is
	// still left as a nil/empty holding rather than compacted away, so
	// output stays aligned with mints by position even on a partial
	// failure.
	out := make([][]TokenAccount, len(mints))
	for i, result := range results {
		if i >= len(out) {
			break
		}
		if value, err := result.Take(); err == nil {
			out[i] = value.Value
		}
	}
	return out, nil
}

// GetStakeAccounts is getProgramAccounts(StakeProgramID, jsonParsed,
// memcmp offset 12 == address) — every stake account delegated from or
// authorized by address, matching the stake account layout's staker
// authority field offset.
func (c *Client) GetStakeAccounts(ctx context.Context, address string) ([]StakeAccount, error) {
	params := []interface{}{
		StakeProgramID,
		map[string]interface{}{
			"encoding": "jsonParsed",
			"filters": []interface{}{
				map[string]interface{}{
					"memcmp": map[string]interface{}{
						"offset": 12,
						"bytes":  address,
					},
				},
			},
		},
	}
	accounts, err := jsonrpc.Call[[]StakeAccount](ctx, c.rpc, "getProgramAccounts", params)
	if err != nil {
		return nil, fmt.Errorf("svmbase: getProgramAccounts(stake): %w", err)
	}
	return accounts, nil
}

// GetGenesisHash is getGenesisHash — Solana's chain-identity equivalent of
// an EVM chain id.
func (c *Client) GetGenesisHash(ctx context.Context) (string, error) {
	hash, err := jsonrpc.Call[string](ctx, c.rpc, "getGenesisHash", []interface{}{})
	if err != nil {
		return "", fmt.Errorf("svmbase: getGenesisHash: %w", err)
	}
	return hash, nil
}

// GetSlot is getSlot — Solana's latest-block-number equivalent.
func (c *Client) GetSlot(ctx context.Context) (uint64, error) {
	slot, err := jsonrpc.Call[uint64](ctx, c.rpc, "getSlot", []interface{}{})
	if err != nil {
		return 0, fmt.Errorf("svmbase: getSlot: %w", err)
	}
	return slot, nil
}

// EpochInfo is getEpochInfo's result, used to classify a stake account's
// activation/deactivation epoch against the current one.
type EpochInfo struct {
	Epoch uint64 `json:"epoch"`
}

// GetEpochInfo is getEpochInfo.
func (c *Client) GetEpochInfo(ctx context.Context) (EpochInfo, error) {
	info, err := jsonrpc.Call[EpochInfo](ctx, c.rpc, "getEpochInfo", []interface{}{})
	if err != nil {
		return EpochInfo{}, fmt.Errorf("svmbase: getEpochInfo: %w", err)
	}
	return info, nil
}
