// Package evm implements the ChainProvider capability (spec.md §4.D) for
// every EVM-compatible chain this service supports: Ethereum, SmartChain,
// Arbitrum, Polygon.
//
// Grounded on original_source's crates/core_evm/src/provider/{balances,
// staking_ethereum,state}.rs for per-operation semantics and on the
// teacher's service/evmbase for the Go client-wrapping idiom.
package evm

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/web3-fighter/balance-aggregator/internal/chain"
	"github.com/web3-fighter/balance-aggregator/internal/provider"
	"github.com/web3-fighter/balance-aggregator/internal/provider/evmbase"
)

// multicall3Address is the canonical Multicall3 deployment address, the
// same on every EVM chain this service supports.
var multicall3Address = common.HexToAddress("0xcA11bde05977b3631167028862bE2a173976CA11")

// AnkrFetcher fetches a full token-balance portfolio from an Ankr-style
// aggregation endpoint. Kept as an interface so the Ankr HTTP client
// (ankr.go) and a test double can both satisfy it.
type AnkrFetcher interface {
	GetAccountBalance(ctx context.Context, chainTag, address string) ([]AnkrTokenBalance, error)
}

// ExplorerFetcher is the supplemental etherscan-family fallback asset
// source used when Ankr is not configured (SPEC_FULL.md §5).
type ExplorerFetcher interface {
	GetTokenBalances(ctx context.Context, address string) ([]ExplorerTokenBalance, error)
}

// Provider implements provider.ChainProvider for one EVM chain.
type Provider struct {
	chainTag chain.Chain
	client   *evmbase.Client
	ankr     AnkrFetcher
	explorer ExplorerFetcher
}

// Config is the per-chain construction input.
type Config struct {
	Chain    chain.Chain
	Client   *evmbase.Client
	Ankr     AnkrFetcher
	Explorer ExplorerFetcher
}

// New builds an EVM Provider for the given chain.
func New(cfg Config) *Provider {
	return &Provider{chainTag: cfg.Chain, client: cfg.Client, ankr: cfg.Ankr, explorer: cfg.Explorer}
}

var _ provider.ChainProvider = (*Provider)(nil)

func (p *Provider) Chain() chain.Chain {
	return p.chainTag
}

// BalanceCoin is eth_getBalance wrapped as a coin-shaped AssetBalance.
func (p *Provider) BalanceCoin(ctx context.Context, address string) (chain.AssetBalance, error) {
	balance, err := p.client.GetBalance(ctx, address)
	if err != nil {
		return chain.AssetBalance{}, fmt.Errorf("evm: balance coin: %w", err)
	}
	return chain.NewAssetBalance(chain.CoinID(p.chainTag), balance), nil
}

// BalanceTokens batches N balanceOf(address) calls through Multicall3's
// aggregate3, preserving input order and zero-filling failures, per
// spec.md §4.E.
func (p *Provider) BalanceTokens(ctx context.Context, address string, tokenIDs []string) ([]chain.AssetBalance, error) {
	if len(tokenIDs) == 0 {
		return nil, nil
	}

	owner := common.HexToAddress(address)
	calls := make([]evmbase.Call3, len(tokenIDs))
	for i, tokenID := range tokenIDs {
		token := common.HexToAddress(tokenID)
		calldata := evmbase.EncodeBalanceOf(owner)
		calls[i] = evmbase.Call3{Target: token, AllowFailure: true, CallData: calldata}
	}

	calldata := evmbase.EncodeAggregate3(multicall3Address, calls)
	returnData, err := p.client.Call(ctx, multicall3Address, calldata)
	if err != nil {
		return nil, fmt.Errorf("evm: balance tokens: multicall: %w", err)
	}

	results, err := evmbase.DecodeAggregate3Result(returnData)
	if err != nil {
		return nil, fmt.Errorf("evm: balance tokens: decode multicall result: %w", err)
	}

	out := make([]chain.AssetBalance, len(tokenIDs))
	for i, tokenID := range tokenIDs {
		id := chain.TokenAssetID(p.chainTag, tokenID)
		if i >= len(results) || !results[i].Success || len(results[i].ReturnData) < 32 {
			out[i] = chain.NewZeroAssetBalance(id)
			continue
		}
		amount := new(big.Int).SetBytes(results[i].ReturnData[len(results[i].ReturnData)-32:])
		out[i] = chain.NewAssetBalance(id, amount)
	}
	return out, nil
}

// BalanceStaking dispatches to the chain's staking pool, if any
// (Ethereum/Everstake, SmartChain/BNB staking); other chains return nil.
func (p *Provider) BalanceStaking(ctx context.Context, address string) (*chain.AssetBalance, error) {
	switch p.chainTag {
	case chain.Ethereum:
		return p.everstakeBalance(ctx, address)
	case chain.SmartChain:
		return p.bnbStakingBalance(ctx, address)
	default:
		return nil, nil
	}
}

// BalanceAssets returns the full token portfolio via Ankr when configured,
// falling back to an explorer-based listing, or empty otherwise.
func (p *Provider) BalanceAssets(ctx context.Context, address string) ([]chain.AssetBalance, error) {
	if p.ankr != nil {
		tokens, err := p.ankr.GetAccountBalance(ctx, string(p.chainTag), address)
		if err != nil {
			return nil, fmt.Errorf("evm: balance assets: ankr: %w", err)
		}
		return ankrTokensToAssetBalances(p.chainTag, tokens), nil
	}
	if p.explorer != nil {
		tokens, err := p.explorer.GetTokenBalances(ctx, address)
		if err != nil {
			return nil, fmt.Errorf("evm: balance assets: explorer: %w", err)
		}
		return explorerTokensToAssetBalances(p.chainTag, tokens), nil
	}
	return nil, nil
}

func (p *Provider) ChainID(ctx context.Context) (string, error) {
	id, err := p.client.ChainID(ctx)
	if err != nil {
		return "", fmt.Errorf("evm: chain id: %w", err)
	}
	return fmt.Sprintf("%d", id), nil
}

func (p *Provider) NodeStatus(ctx context.Context) (provider.NodeStatus, error) {
	syncing, err := p.client.Syncing(ctx)
	if err != nil {
		return provider.NodeStatus{}, fmt.Errorf("evm: node status: %w", err)
	}
	latest, err := p.client.BlockNumber(ctx)
	if err != nil {
		return provider.NodeStatus{}, fmt.Errorf("evm: node status: %w", err)
	}
	state := provider.NodeSynced
	if syncing {
		state = provider.NodeSyncing
	}
	return provider.NodeStatus{LatestBlock: latest, State: state}, nil
}

func (p *Provider) BlockLatestNumber(ctx context.Context) (uint64, error) {
	latest, err := p.client.BlockNumber(ctx)
	if err != nil {
		return 0, fmt.Errorf("evm: block latest number: %w", err)
	}
	return latest, nil
}
