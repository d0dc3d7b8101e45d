package evm

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/web3-fighter/chain-explorer-api/client/etherscan"
	"github.com/web3-fighter/chain-explorer-api/types"

	"github.com/web3-fighter/balance-aggregator/internal/chain"
)

// ExplorerTokenBalance is one token holding as reported by an
// etherscan-family block explorer's address-balance endpoint.
type ExplorerTokenBalance struct {
	ContractAddress string
	RawBalance      string
}

// Explorer is the supplemental etherscan-family asset-listing fallback
// used when Ankr is not configured (SPEC_FULL.md §5), adapted from the
// teacher's service/evmbase/erc20data.go EthScan wrapper.
type Explorer struct {
	client *etherscan.ChainExplorerClient
	chain  string
}

// NewExplorer builds an etherscan-family explorer client scoped to one
// chain's short name (e.g. "ETH", "BSC", "MATIC").
func NewExplorer(baseURL, apiKey, chainShortName string, timeout time.Duration) (*Explorer, error) {
	cli, err := etherscan.NewChainExplorerClient(apiKey, baseURL, false, timeout)
	if err != nil {
		return nil, fmt.Errorf("evm: new explorer client: %w", err)
	}
	return &Explorer{client: cli, chain: chainShortName}, nil
}

var _ ExplorerFetcher = (*Explorer)(nil)

// GetTokenBalances lists every token holding the explorer reports for
// address, across all contracts (empty ContractAddress filter).
func (e *Explorer) GetTokenBalances(ctx context.Context, address string) ([]ExplorerTokenBalance, error) {
	request := &types.AccountBalanceRequest{
		ChainShortName:  e.chain,
		ExplorerName:    "etherscan",
		Account:         []string{address},
		ContractAddress: []string{""},
		ProtocolType:    []string{""},
		Page:            []string{"1"},
		Limit:           []string{"50"},
	}

	response, err := e.client.GetAccountBalance(request)
	if err != nil {
		return nil, fmt.Errorf("evm: explorer get account balance: %w", err)
	}
	if response == nil {
		return nil, nil
	}

	out := make([]ExplorerTokenBalance, 0, len(response.Data))
	for _, item := range response.Data {
		out = append(out, ExplorerTokenBalance{
			ContractAddress: item.TokenContractAddress,
			RawBalance:      item.HoldingAmount,
		})
	}
	return out, nil
}

// explorerTokensToAssetBalances converts the explorer's holdings list into
// AssetBalances, skipping the native-coin row (empty contract address,
// already covered by BalanceCoin) and any entry whose amount fails to
// parse.
func explorerTokensToAssetBalances(chainTag chain.Chain, tokens []ExplorerTokenBalance) []chain.AssetBalance {
	out := make([]chain.AssetBalance, 0, len(tokens))
	for _, t := range tokens {
		if t.ContractAddress == "" {
			continue
		}
		amount, ok := new(big.Int).SetString(t.RawBalance, 10)
		if !ok {
			continue
		}
		id := chain.TokenAssetID(chainTag, t.ContractAddress)
		out = append(out, chain.NewAssetBalance(id, amount))
	}
	return out
}
