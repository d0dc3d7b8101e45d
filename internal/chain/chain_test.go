package chain

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUnknownChain(t *testing.T) {
	_, err := Parse("dogecoin")
	require.Error(t, err)
	assert.Equal(t, "unknown chain: dogecoin", err.Error())
}

func TestIsEVM(t *testing.T) {
	assert.True(t, Ethereum.IsEVM())
	assert.True(t, Polygon.IsEVM())
	assert.False(t, Solana.IsEVM())
}

func TestSLIP44(t *testing.T) {
	assert.Equal(t, int64(60), Ethereum.SLIP44())
	assert.Equal(t, int64(501), Solana.SLIP44())
}

func TestAssetIDWireForm(t *testing.T) {
	assert.Equal(t, "ethereum", CoinID(Ethereum).String())
	assert.Equal(t, "ethereum_0xabc", TokenAssetID(Ethereum, "0xabc").String())

	parsed, err := ParseAssetID("ethereum_0xabc")
	require.NoError(t, err)
	assert.Equal(t, TokenAssetID(Ethereum, "0xabc"), parsed)
}

func TestBalanceRoundTripJSON(t *testing.T) {
	b := CoinBalance(big.NewInt(1))
	encoded, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"available":"1"`)
	assert.Contains(t, string(encoded), `"frozen":"0"`)

	var decoded Balance
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	assert.Equal(t, b.Available.Int(), decoded.Available.Int())
}

func TestAssetBalanceSerializesIDAsWireString(t *testing.T) {
	ab := NewAssetBalance(CoinID(Ethereum), big.NewInt(1))
	encoded, err := json.Marshal(ab)
	require.NoError(t, err)
	assert.Contains(t, string(encoded), `"asset_id":"ethereum"`)
}

func TestFoldDelegationsMatchesEverstakeScenario(t *testing.T) {
	deposited, _ := new(big.Int).SetString("2000000000000000000", 10)
	restaked, _ := new(big.Int).SetString("100000000000000000", 10)

	delegations := []Delegation{
		{State: DelegationActive, Balance: deposited, Rewards: restaked},
	}
	balance := FoldDelegations(delegations)

	assert.Equal(t, "2000000000000000000", balance.Staked.Int().String())
	assert.Equal(t, "100000000000000000", balance.Rewards.Int().String())
	assert.Equal(t, "0", balance.Pending.Int().String())
}

func TestFoldDelegationsMixesNonActiveIntoPending(t *testing.T) {
	delegations := []Delegation{
		{State: DelegationActivating, Balance: big.NewInt(10)},
		{State: DelegationDeactivating, Balance: big.NewInt(20)},
		{State: DelegationAwaitingWithdrawal, Balance: big.NewInt(30)},
	}
	balance := FoldDelegations(delegations)
	assert.Equal(t, "60", balance.Pending.Int().String())
	assert.Equal(t, "0", balance.Staked.Int().String())
}
