package evm

import (
	"context"
	"fmt"
	"math/big"

	"github.com/web3-fighter/balance-aggregator/internal/chain"
	"github.com/web3-fighter/balance-aggregator/internal/jsonrpc"
)

// Ankr fetches a full token-balance portfolio from Ankr's multichain
// JSON-RPC API (ankr_getAccountBalance), the primary asset-listing source
// per spec.md §4.E, grounded on original_source's
// crates/core_evm/src/rpc/ankr/model.rs for the response shape and
// crates/core_evm/src/provider/balances.rs for how it's consumed.
type Ankr struct {
	rpc *jsonrpc.Client
}

// NewAnkr wraps a JSON-RPC client pointed at an Ankr endpoint.
func NewAnkr(rpc *jsonrpc.Client) *Ankr {
	return &Ankr{rpc: rpc}
}

var _ AnkrFetcher = (*Ankr)(nil)

// AnkrTokenBalance is one asset entry from ankr_getAccountBalance's
// "assets" array. ContractAddress is nil for the chain's native coin
// entry.
type AnkrTokenBalance struct {
	ContractAddress *string
	RawBalance      string
}

type ankrAsset struct {
	ContractAddress *string `json:"contractAddress"`
	BalanceRawInteger string `json:"balanceRawInteger"`
}

type ankrAccountBalanceResult struct {
	Assets []ankrAsset `json:"assets"`
}

// ankrChain maps an internal chain tag to Ankr's "blockchain" identifier.
// Ankr has no Solana coverage in this service; callers never invoke Ankr
// for Solana.
func ankrChain(c chain.Chain) (string, bool) {
	switch c {
	case chain.Ethereum:
		return "eth", true
	case chain.Polygon:
		return "polygon", true
	case chain.SmartChain:
		return "bsc", true
	case chain.Arbitrum:
		return "arbitrum", true
	default:
		return "", false
	}
}

// GetAccountBalance calls ankr_getAccountBalance for address on the given
// chain tag, translated to Ankr's own blockchain naming.
func (a *Ankr) GetAccountBalance(ctx context.Context, chainTag, address string) ([]AnkrTokenBalance, error) {
	blockchain, ok := ankrChain(chain.Chain(chainTag))
	if !ok {
		return nil, fmt.Errorf("evm: ankr: unsupported chain %q", chainTag)
	}

	params := map[string]interface{}{
		"blockchain":      blockchain,
		"walletAddress":   address,
		"onlyWhitelisted": false,
	}

	result, err := jsonrpc.Call[ankrAccountBalanceResult](ctx, a.rpc, "ankr_getAccountBalance", params)
	if err != nil {
		return nil, fmt.Errorf("evm: ankr_getAccountBalance: %w", err)
	}

	out := make([]AnkrTokenBalance, len(result.Assets))
	for i, asset := range result.Assets {
		out[i] = AnkrTokenBalance{ContractAddress: asset.ContractAddress, RawBalance: asset.BalanceRawInteger}
	}
	return out, nil
}

// ankrTokensToAssetBalances converts Ankr's asset list into AssetBalances,
// skipping the native-coin entry (nil ContractAddress, already covered by
// BalanceCoin) and any entry whose amount fails to parse, matching
// original_source's filter_map over contract_address.
func ankrTokensToAssetBalances(chainTag chain.Chain, tokens []AnkrTokenBalance) []chain.AssetBalance {
	out := make([]chain.AssetBalance, 0, len(tokens))
	for _, t := range tokens {
		if t.ContractAddress == nil || *t.ContractAddress == "" {
			continue
		}
		amount, ok := new(big.Int).SetString(t.RawBalance, 10)
		if !ok {
			continue
		}
		id := chain.TokenAssetID(chainTag, *t.ContractAddress)
		out = append(out, chain.NewAssetBalance(id, amount))
	}
	return out
}
