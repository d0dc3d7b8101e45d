package chain

import (
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/web3-fighter/balance-aggregator/internal/bignum"
)

// BigInt is a non-negative arbitrary-precision integer that always
// marshals to and from a decimal-string JSON value, never a JSON number —
// balances routinely exceed 2^53 and a bare number would lose precision in
// most JSON consumers. Grounded on original_source's
// crates/serde_serializers (serialize_biguint/deserialize_biguint_from_str)
// and spec.md §4.A/§8.
type BigInt struct {
	n *big.Int
}

// NewBigInt wraps n (nil treated as zero).
func NewBigInt(n *big.Int) BigInt {
	return BigInt{n: n}
}

// BigIntFromUint64 wraps a uint64 value.
func BigIntFromUint64(v uint64) BigInt {
	return BigInt{n: new(big.Int).SetUint64(v)}
}

// Int returns the underlying big.Int, never nil.
func (b BigInt) Int() *big.Int {
	if b.n == nil {
		return big.NewInt(0)
	}
	return b.n
}

// DecimalString renders the wire-precision integer as a human-scaled
// decimal string (e.g. wei -> ether with decimals=18), for the display
// layer only — the wire value itself always stays raw-integer (see
// MarshalJSON).
func (b BigInt) DecimalString(decimals int32) string {
	return decimal.NewFromBigInt(b.Int(), -decimals).String()
}

func (b BigInt) MarshalJSON() ([]byte, error) {
	return []byte(`"` + bignum.EncodeDecimal(b.Int()) + `"`), nil
}

func (b *BigInt) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	n, err := bignum.DecodeDecimal(s)
	if err != nil {
		return err
	}
	b.n = n
	return nil
}

// BalanceMetadata carries governance/resource counters some chains expose
// alongside a balance (votes, TRON-style energy/bandwidth). Zero value
// means "not applicable" for chains that don't report these.
type BalanceMetadata struct {
	Votes              uint32 `json:"votes"`
	EnergyAvailable    uint32 `json:"energyAvailable"`
	EnergyTotal        uint32 `json:"energyTotal"`
	BandwidthAvailable uint32 `json:"bandwidthAvailable"`
	BandwidthTotal     uint32 `json:"bandwidthTotal"`
}

// Balance is the uniform balance vocabulary every chain decoder maps into.
// Every slot is an independently well-defined, non-negative integer; the
// model does not enforce that the slots sum to any particular total, they
// are an additive decomposition of what the chain reports in distinct
// categories.
type Balance struct {
	Available    BigInt           `json:"available"`
	Frozen       BigInt           `json:"frozen"`
	Locked       BigInt           `json:"locked"`
	Staked       BigInt           `json:"staked"`
	Pending      BigInt           `json:"pending"`
	Rewards      BigInt           `json:"rewards"`
	Reserved     BigInt           `json:"reserved"`
	Withdrawable BigInt           `json:"withdrawable"`
	Metadata     *BalanceMetadata `json:"metadata"`
}

// CoinBalance builds a Balance with only Available populated — the shape
// every provider's native-coin query returns.
func CoinBalance(available *big.Int) Balance {
	return Balance{Available: NewBigInt(available)}
}

// ZeroBalance is the all-zero Balance.
func ZeroBalance() Balance {
	return CoinBalance(big.NewInt(0))
}

// WithReserved builds a Balance with Available and Reserved populated.
func WithReserved(available, reserved *big.Int) Balance {
	return Balance{Available: NewBigInt(available), Reserved: NewBigInt(reserved)}
}

// StakeBalance builds a Balance with Staked/Pending/Rewards populated and
// Available zero.
func StakeBalance(staked, pending, rewards *big.Int) Balance {
	return StakeBalanceWithMetadata(staked, pending, rewards, nil)
}

// StakeBalanceWithMetadata is StakeBalance plus optional resource metadata.
func StakeBalanceWithMetadata(staked, pending, rewards *big.Int, metadata *BalanceMetadata) Balance {
	b := Balance{
		Staked:  NewBigInt(staked),
		Pending: NewBigInt(pending),
		Metadata: metadata,
	}
	if rewards != nil {
		b.Rewards = NewBigInt(rewards)
	}
	return b
}

// AssetBalance pairs an AssetID with its Balance and an activity flag.
type AssetBalance struct {
	AssetID  AssetID `json:"asset_id"`
	Balance  Balance `json:"balance"`
	IsActive bool    `json:"is_active"`
}

// NewAssetBalance builds an active coin-shaped AssetBalance.
func NewAssetBalance(id AssetID, available *big.Int) AssetBalance {
	return AssetBalance{AssetID: id, Balance: CoinBalance(available), IsActive: true}
}

// NewZeroAssetBalance builds an active, all-zero AssetBalance.
func NewZeroAssetBalance(id AssetID) AssetBalance {
	return NewAssetBalance(id, big.NewInt(0))
}

// NewAssetBalanceFromBalance pairs id with an already-built Balance.
func NewAssetBalanceFromBalance(id AssetID, balance Balance) AssetBalance {
	return AssetBalance{AssetID: id, Balance: balance, IsActive: true}
}

// NewStakingAssetBalance builds an AssetBalance whose Balance is a stake
// shape.
func NewStakingAssetBalance(id AssetID, staked, pending, rewards *big.Int) AssetBalance {
	return AssetBalance{AssetID: id, Balance: StakeBalance(staked, pending, rewards), IsActive: true}
}

// DelegationState classifies one stake-account-like record prior to being
// folded into Balance slots. Used only inside the EVM and Solana staking
// derivations (spec.md §4.E/§4.F); never serialized to the wire.
type DelegationState int

const (
	DelegationActive DelegationState = iota
	DelegationActivating
	DelegationDeactivating
	DelegationAwaitingWithdrawal
)

func (s DelegationState) String() string {
	switch s {
	case DelegationActive:
		return "active"
	case DelegationActivating:
		return "activating"
	case DelegationDeactivating:
		return "deactivating"
	case DelegationAwaitingWithdrawal:
		return "awaiting_withdrawal"
	default:
		return "unknown"
	}
}

// Delegation is one stake-account-like record: a balance plus a state,
// associated with (but not naming) a validator.
type Delegation struct {
	State   DelegationState
	Balance *big.Int
	Rewards *big.Int
}

// FoldDelegations collapses a list of Delegation records into one Balance,
// per spec.md §4.E: Staked/Rewards sum over Active delegations, Pending
// sums over Activating+Deactivating+AwaitingWithdrawal (directionality is
// intentionally lost here, matching the upstream behavior spec.md §9
// documents as a preserved quirk).
func FoldDelegations(delegations []Delegation) Balance {
	staked := big.NewInt(0)
	rewards := big.NewInt(0)
	pending := big.NewInt(0)

	for _, d := range delegations {
		amount := d.Balance
		if amount == nil {
			amount = big.NewInt(0)
		}
		switch d.State {
		case DelegationActive:
			staked.Add(staked, amount)
			if d.Rewards != nil {
				rewards.Add(rewards, d.Rewards)
			}
		case DelegationActivating, DelegationDeactivating, DelegationAwaitingWithdrawal:
			pending.Add(pending, amount)
		}
	}

	return StakeBalance(staked, pending, rewards)
}
