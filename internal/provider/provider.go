// Package provider defines the chain capability interface every concrete
// chain implementation satisfies, and the registry that dispatches a
// chain tag to its configured provider.
//
// Grounded on original_source's crates/core_evm/src/provider/accounts.rs
// (trait-composition "every provider implements the same operation set")
// and crates/settings_chain/src/chain_providers.rs (linear-scan registry),
// and on the teacher's evmbase.EVMClient / svmbase.SVMClient interfaces
// for the Go idiom of a single fat capability interface per chain family.
package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/web3-fighter/balance-aggregator/internal/chain"
)

// NodeState summarizes a chain node's sync status.
type NodeState int

const (
	NodeSyncing NodeState = iota
	NodeSynced
	NodeStalled
)

func (s NodeState) String() string {
	switch s {
	case NodeSynced:
		return "synced"
	case NodeStalled:
		return "stalled"
	default:
		return "syncing"
	}
}

// NodeStatus is the result of a chain-state health check.
type NodeStatus struct {
	LatestBlock uint64
	State       NodeState
}

// ChainProvider is the uniform surface every chain implementation
// exposes: coin balance, explicit token balances, staking balance, full
// asset portfolio, and basic chain-state queries. Any method may fail;
// failures are surfaced by the registry unchanged (spec.md §4.D).
type ChainProvider interface {
	Chain() chain.Chain
	BalanceCoin(ctx context.Context, address string) (chain.AssetBalance, error)
	BalanceTokens(ctx context.Context, address string, tokenIDs []string) ([]chain.AssetBalance, error)
	BalanceStaking(ctx context.Context, address string) (*chain.AssetBalance, error)
	BalanceAssets(ctx context.Context, address string) ([]chain.AssetBalance, error)
	ChainID(ctx context.Context) (string, error)
	NodeStatus(ctx context.Context) (NodeStatus, error)
	BlockLatestNumber(ctx context.Context) (uint64, error)
}

// ErrNotConfigured is returned by Registry.Get when no provider was built
// for the requested chain.
var ErrNotConfigured = errors.New("provider: chain not configured")

// NotConfiguredError names the chain that had no configured provider.
type NotConfiguredError struct {
	Chain chain.Chain
}

func (e *NotConfiguredError) Error() string {
	return fmt.Sprintf("provider: chain not configured: %s", e.Chain)
}

func (e *NotConfiguredError) Unwrap() error {
	return ErrNotConfigured
}

// Registry holds every chain provider built at startup and dispatches by
// chain tag via linear scan — the chain set is small and fixed, so a map
// buys nothing a slice doesn't already give plus it matches the teacher's
// and original_source's registry shape.
type Registry struct {
	providers []ChainProvider
}

// NewRegistry builds a Registry over the given providers.
func NewRegistry(providers ...ChainProvider) *Registry {
	return &Registry{providers: providers}
}

// Get returns the provider registered for c, or a NotConfiguredError.
func (r *Registry) Get(c chain.Chain) (ChainProvider, error) {
	for _, p := range r.providers {
		if p.Chain() == c {
			return p, nil
		}
	}
	return nil, &NotConfiguredError{Chain: c}
}

// BalanceCoin dispatches to the chain's provider.
func (r *Registry) BalanceCoin(ctx context.Context, c chain.Chain, address string) (chain.AssetBalance, error) {
	p, err := r.Get(c)
	if err != nil {
		return chain.AssetBalance{}, err
	}
	return p.BalanceCoin(ctx, address)
}

// BalanceTokens dispatches to the chain's provider.
func (r *Registry) BalanceTokens(ctx context.Context, c chain.Chain, address string, tokenIDs []string) ([]chain.AssetBalance, error) {
	p, err := r.Get(c)
	if err != nil {
		return nil, err
	}
	return p.BalanceTokens(ctx, address, tokenIDs)
}

// BalanceStaking dispatches to the chain's provider.
func (r *Registry) BalanceStaking(ctx context.Context, c chain.Chain, address string) (*chain.AssetBalance, error) {
	p, err := r.Get(c)
	if err != nil {
		return nil, err
	}
	return p.BalanceStaking(ctx, address)
}

// BalanceAssets dispatches to the chain's provider.
func (r *Registry) BalanceAssets(ctx context.Context, c chain.Chain, address string) ([]chain.AssetBalance, error) {
	p, err := r.Get(c)
	if err != nil {
		return nil, err
	}
	return p.BalanceAssets(ctx, address)
}
