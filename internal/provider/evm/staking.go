package evm

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/web3-fighter/balance-aggregator/internal/chain"
)

// everstakePoolAddress is Everstake's Ethereum staking pool contract.
var everstakePoolAddress = common.HexToAddress("0xF224ab004461540778a914Ea397c589f5F561Da")

// bnbStakingAddress is the BNB Smart Chain native staking contract.
var bnbStakingAddress = common.HexToAddress("0x00000000000000000000000000000000002001")

// getAccountStateSelector is the pool's per-address account-state getter:
// getAccountState(address) -> (uint256 depositedBalance,
// uint256 restakedReward, uint256 pendingBalance,
// uint256 pendingDepositedBalance, (uint256 amount, uint256 unlockEpoch)[]
// withdrawRequests).
var getAccountStateSelector = []byte{0x13, 0xa9, 0xf4, 0x18}

type everstakeAccountState struct {
	DepositedBalance       *big.Int
	RestakedReward         *big.Int
	PendingBalance         *big.Int
	PendingDepositedBalance *big.Int
	WithdrawRequests       []withdrawRequest
}

type withdrawRequest struct {
	Amount      *big.Int
	UnlockEpoch uint64
}

func (p *Provider) getEverstakeAccountState(ctx context.Context, address string) (*everstakeAccountState, error) {
	calldata := append(append([]byte{}, getAccountStateSelector...), common.LeftPadBytes(common.HexToAddress(address).Bytes(), 32)...)
	data, err := p.client.Call(ctx, everstakePoolAddress, calldata)
	if err != nil {
		return nil, fmt.Errorf("evm: everstake account state: %w", err)
	}
	return decodeEverstakeAccountState(data)
}

// decodeEverstakeAccountState decodes the pool's getAccountState return
// value: four fixed uint256 words followed by a dynamic array of
// (amount, unlockEpoch) withdraw requests.
func decodeEverstakeAccountState(data []byte) (*everstakeAccountState, error) {
	if len(data) < 5*32 {
		return nil, fmt.Errorf("evm: everstake account state: truncated response")
	}
	state := &everstakeAccountState{
		DepositedBalance:        new(big.Int).SetBytes(data[0:32]),
		RestakedReward:          new(big.Int).SetBytes(data[32:64]),
		PendingBalance:          new(big.Int).SetBytes(data[64:96]),
		PendingDepositedBalance: new(big.Int).SetBytes(data[96:128]),
	}

	arrayOffset := new(big.Int).SetBytes(data[128:160]).Uint64()
	if int(arrayOffset)+32 > len(data) {
		return state, nil
	}
	arrayData := data[arrayOffset:]
	length := new(big.Int).SetBytes(arrayData[:32]).Uint64()
	body := arrayData[32:]

	for i := uint64(0); i < length; i++ {
		start := i * 64
		if int(start)+64 > len(body) {
			break
		}
		state.WithdrawRequests = append(state.WithdrawRequests, withdrawRequest{
			Amount:      new(big.Int).SetBytes(body[start : start+32]),
			UnlockEpoch: new(big.Int).SetBytes(body[start+32 : start+64]).Uint64(),
		})
	}
	return state, nil
}

// everstakeBalance derives delegations from the pool's account state and
// folds them into the Balance slots, per spec.md §4.E: deposited>0 yields
// one Active delegation (rewards=restaked_reward); pending+pending_deposited>0
// yields one Activating delegation; each withdraw request yields an
// AwaitingWithdrawal or Deactivating delegation depending on whether its
// unlock epoch has passed the chain's current block.
func (p *Provider) everstakeBalance(ctx context.Context, address string) (*chain.AssetBalance, error) {
	state, err := p.getEverstakeAccountState(ctx, address)
	if err != nil {
		return nil, err
	}

	currentEpoch, err := p.client.BlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("evm: everstake: current block: %w", err)
	}

	var delegations []chain.Delegation
	if state.DepositedBalance.Sign() > 0 {
		delegations = append(delegations, chain.Delegation{
			State:   chain.DelegationActive,
			Balance: state.DepositedBalance,
			Rewards: state.RestakedReward,
		})
	}

	pendingTotal := new(big.Int).Add(state.PendingBalance, state.PendingDepositedBalance)
	if pendingTotal.Sign() > 0 {
		delegations = append(delegations, chain.Delegation{State: chain.DelegationActivating, Balance: pendingTotal})
	}

	for _, wr := range state.WithdrawRequests {
		delegationState := chain.DelegationDeactivating
		if wr.UnlockEpoch >= currentEpoch {
			delegationState = chain.DelegationAwaitingWithdrawal
		}
		delegations = append(delegations, chain.Delegation{State: delegationState, Balance: wr.Amount})
	}

	if len(delegations) == 0 {
		return nil, nil
	}

	balance := chain.FoldDelegations(delegations)
	ab := chain.NewAssetBalanceFromBalance(chain.CoinID(p.chainTag), balance)
	return &ab, nil
}

// bnbStakingDelegatorStateSelector is BNB Smart Chain's native staking
// contract delegator-state getter, analogous in shape to Everstake's.
var bnbStakingDelegatorStateSelector = []byte{0x77, 0x59, 0x6b, 0x71}

// bnbStakingBalance is analogous to everstakeBalance over the BNB native
// staking contract; when there are no delegations it returns nil per
// spec.md §4.E.
func (p *Provider) bnbStakingBalance(ctx context.Context, address string) (*chain.AssetBalance, error) {
	calldata := append(append([]byte{}, bnbStakingDelegatorStateSelector...), common.LeftPadBytes(common.HexToAddress(address).Bytes(), 32)...)
	data, err := p.client.Call(ctx, bnbStakingAddress, calldata)
	if err != nil {
		return nil, fmt.Errorf("evm: bnb staking: %w", err)
	}
	state, err := decodeEverstakeAccountState(data)
	if err != nil {
		return nil, fmt.Errorf("evm: bnb staking: decode: %w", err)
	}

	currentEpoch, err := p.client.BlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("evm: bnb staking: current block: %w", err)
	}

	var delegations []chain.Delegation
	if state.DepositedBalance.Sign() > 0 {
		delegations = append(delegations, chain.Delegation{State: chain.DelegationActive, Balance: state.DepositedBalance, Rewards: state.RestakedReward})
	}
	pendingTotal := new(big.Int).Add(state.PendingBalance, state.PendingDepositedBalance)
	if pendingTotal.Sign() > 0 {
		delegations = append(delegations, chain.Delegation{State: chain.DelegationActivating, Balance: pendingTotal})
	}
	for _, wr := range state.WithdrawRequests {
		s := chain.DelegationDeactivating
		if wr.UnlockEpoch >= currentEpoch {
			s = chain.DelegationAwaitingWithdrawal
		}
		delegations = append(delegations, chain.Delegation{State: s, Balance: wr.Amount})
	}

	if len(delegations) == 0 {
		return nil, nil
	}
	balance := chain.FoldDelegations(delegations)
	ab := chain.NewAssetBalanceFromBalance(chain.CoinID(p.chainTag), balance)
	return &ab, nil
}
