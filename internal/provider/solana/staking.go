package solana

import (
	"context"
	"fmt"
	"math/big"

	"github.com/web3-fighter/balance-aggregator/internal/chain"
	"github.com/web3-fighter/balance-aggregator/internal/provider/svmbase"
)

// noEpochSet is the sentinel Solana uses for "this delegation has no
// activation/deactivation epoch set" (u64::MAX on the wire).
const noEpochSet = "18446744073709551615"

// BalanceStaking scans every stake account delegated from or authorized by
// address (getProgramAccounts against the stake program, memcmp offset
// 12), classifies each by comparing its activation/deactivation epoch to
// the current epoch, and folds the result through chain.FoldDelegations,
// per spec.md §4.E.
func (p *Provider) BalanceStaking(ctx context.Context, address string) (*chain.AssetBalance, error) {
	accounts, err := p.client.GetStakeAccounts(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("solana: balance staking: %w", err)
	}
	if len(accounts) == 0 {
		return nil, nil
	}

	epochInfo, err := p.client.GetEpochInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("solana: balance staking: current epoch: %w", err)
	}

	var delegations []chain.Delegation
	for _, acc := range accounts {
		delegation, ok := acc.Delegation()
		if !ok {
			continue
		}
		stake, ok := new(big.Int).SetString(delegation.Stake, 10)
		if !ok {
			continue
		}
		delegations = append(delegations, chain.Delegation{
			State:   classifyStakeState(delegation, epochInfo.Epoch),
			Balance: stake,
		})
	}

	if len(delegations) == 0 {
		return nil, nil
	}

	balance := chain.FoldDelegations(delegations)
	ab := chain.NewAssetBalanceFromBalance(chain.CoinID(chain.Solana), balance)
	return &ab, nil
}

// classifyStakeState derives a DelegationState from a stake delegation's
// activation/deactivation epoch relative to the network's current epoch:
// a set deactivation epoch that has already elapsed means the stake is
// awaiting withdrawal; a set but not yet elapsed deactivation epoch means
// it's deactivating; no deactivation epoch but a not-yet-elapsed
// activation epoch means it's still activating; otherwise it's active.
func classifyStakeState(d svmbase.StakeDelegation, currentEpoch uint64) chain.DelegationState {
	if d.DeactivationEpoch != "" && d.DeactivationEpoch != noEpochSet {
		deactivationEpoch, ok := new(big.Int).SetString(d.DeactivationEpoch, 10)
		if ok && deactivationEpoch.IsUint64() {
			if deactivationEpoch.Uint64() <= currentEpoch {
				return chain.DelegationAwaitingWithdrawal
			}
			return chain.DelegationDeactivating
		}
	}
	if d.ActivationEpoch != "" && d.ActivationEpoch != noEpochSet {
		activationEpoch, ok := new(big.Int).SetString(d.ActivationEpoch, 10)
		if ok && activationEpoch.IsUint64() && activationEpoch.Uint64() >= currentEpoch {
			return chain.DelegationActivating
		}
	}
	return chain.DelegationActive
}
