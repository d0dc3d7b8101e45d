// Package solana implements the ChainProvider capability (spec.md §4.D)
// for Solana.
//
// Grounded on original_source's crates/core_solana/src/provider/{balances,
// state}.rs for per-operation semantics and on the teacher's
// service/svmbase for the Go client-wrapping idiom.
package solana

import (
	"context"
	"fmt"
	"math/big"

	"github.com/gagliardetto/solana-go"

	"github.com/web3-fighter/balance-aggregator/internal/chain"
	"github.com/web3-fighter/balance-aggregator/internal/provider"
	"github.com/web3-fighter/balance-aggregator/internal/provider/svmbase"
)

// Provider implements provider.ChainProvider for Solana.
type Provider struct {
	client *svmbase.Client
}

// New builds a Solana Provider.
func New(client *svmbase.Client) *Provider {
	return &Provider{client: client}
}

var _ provider.ChainProvider = (*Provider)(nil)

func (p *Provider) Chain() chain.Chain {
	return chain.Solana
}

// BalanceCoin is getBalance wrapped as a coin-shaped AssetBalance.
func (p *Provider) BalanceCoin(ctx context.Context, address string) (chain.AssetBalance, error) {
	if _, err := solana.PublicKeyFromBase58(address); err != nil {
		return chain.AssetBalance{}, fmt.Errorf("solana: balance coin: invalid address: %w", err)
	}
	lamports, err := p.client.GetBalance(ctx, address)
	if err != nil {
		return chain.AssetBalance{}, fmt.Errorf("solana: balance coin: %w", err)
	}
	return chain.NewAssetBalance(chain.CoinID(chain.Solana), lamports), nil
}

// BalanceTokens resolves each of the given mints' token-account balance
// for address in one batched getTokenAccountsByOwner-per-mint round trip,
// preserving input order and zero-filling mints address holds no account
// for, per spec.md §4.E.
func (p *Provider) BalanceTokens(ctx context.Context, address string, tokenIDs []string) ([]chain.AssetBalance, error) {
	if len(tokenIDs) == 0 {
		return nil, nil
	}

	perMint, err := p.client.GetTokenAccountsForMints(ctx, address, tokenIDs)
	if err != nil {
		return nil, fmt.Errorf("solana: balance tokens: %w", err)
	}

	out := make([]chain.AssetBalance, len(tokenIDs))
	for i, mint := range tokenIDs {
		id := chain.TokenAssetID(chain.Solana, mint)
		accounts := perMint[i]
		amount := sumTokenAccounts(accounts)
		if amount == nil {
			out[i] = chain.NewZeroAssetBalance(id)
			continue
		}
		out[i] = chain.NewAssetBalance(id, amount)
	}
	return out, nil
}

func sumTokenAccounts(accounts []svmbase.TokenAccount) *big.Int {
	total := big.NewInt(0)
	found := false
	for _, acc := range accounts {
		info := acc.Info()
		if info.TokenAmount == nil {
			continue
		}
		amount, ok := new(big.Int).SetString(info.TokenAmount.Amount, 10)
		if !ok {
			continue
		}
		total.Add(total, amount)
		found = true
	}
	if !found {
		return nil
	}
	return total
}

// BalanceAssets scans every SPL token account address owns under the
// standard token program, returning one AssetBalance per mint with a
// nonzero balance, per spec.md §4.E and original_source's
// get_balance_assets (TOKEN_PROGRAM scan, filter zero-amount accounts).
func (p *Provider) BalanceAssets(ctx context.Context, address string) ([]chain.AssetBalance, error) {
	accounts, err := p.client.GetTokenAccountsByOwner(ctx, address, svmbase.TokenProgramID)
	if err != nil {
		return nil, fmt.Errorf("solana: balance assets: %w", err)
	}

	out := make([]chain.AssetBalance, 0, len(accounts))
	for _, acc := range accounts {
		info := acc.Info()
		if info.TokenAmount == nil || info.Mint == "" {
			continue
		}
		amount, ok := new(big.Int).SetString(info.TokenAmount.Amount, 10)
		if !ok || amount.Sign() <= 0 {
			continue
		}
		id := chain.TokenAssetID(chain.Solana, info.Mint)
		out = append(out, chain.NewAssetBalance(id, amount))
	}
	return out, nil
}

func (p *Provider) ChainID(ctx context.Context) (string, error) {
	hash, err := p.client.GetGenesisHash(ctx)
	if err != nil {
		return "", fmt.Errorf("solana: chain id: %w", err)
	}
	return hash, nil
}

func (p *Provider) NodeStatus(ctx context.Context) (provider.NodeStatus, error) {
	slot, err := p.client.GetSlot(ctx)
	if err != nil {
		return provider.NodeStatus{}, fmt.Errorf("solana: node status: %w", err)
	}
	return provider.NodeStatus{LatestBlock: slot, State: provider.NodeSynced}, nil
}

func (p *Provider) BlockLatestNumber(ctx context.Context) (uint64, error) {
	slot, err := p.client.GetSlot(ctx)
	if err != nil {
		return 0, fmt.Errorf("solana: block latest number: %w", err)
	}
	return slot, nil
}
