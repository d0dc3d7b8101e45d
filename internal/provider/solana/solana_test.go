package solana

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/web3-fighter/balance-aggregator/internal/chain"
	"github.com/web3-fighter/balance-aggregator/internal/provider/svmbase"
)

func TestClassifyStakeStateActive(t *testing.T) {
	d := svmbase.StakeDelegation{ActivationEpoch: "10", DeactivationEpoch: noEpochSet}
	assert.Equal(t, chain.DelegationActive, classifyStakeState(d, 20))
}

func TestClassifyStakeStateActivating(t *testing.T) {
	d := svmbase.StakeDelegation{ActivationEpoch: "25", DeactivationEpoch: noEpochSet}
	assert.Equal(t, chain.DelegationActivating, classifyStakeState(d, 20))
}

func TestClassifyStakeStateDeactivating(t *testing.T) {
	d := svmbase.StakeDelegation{ActivationEpoch: "10", DeactivationEpoch: "25"}
	assert.Equal(t, chain.DelegationDeactivating, classifyStakeState(d, 20))
}

func TestClassifyStakeStateAwaitingWithdrawal(t *testing.T) {
	d := svmbase.StakeDelegation{ActivationEpoch: "10", DeactivationEpoch: "15"}
	assert.Equal(t, chain.DelegationAwaitingWithdrawal, classifyStakeState(d, 20))
}

func TestSumTokenAccountsEmpty(t *testing.T) {
	assert.Nil(t, sumTokenAccounts(nil))
}

func TestSumTokenAccountsSumsAcrossAccounts(t *testing.T) {
	accounts := []svmbase.TokenAccount{
		tokenAccountWithAmount(t, "100"),
		tokenAccountWithAmount(t, "250"),
	}
	total := sumTokenAccounts(accounts)
	assert.Equal(t, big.NewInt(350), total)
}

func tokenAccountWithAmount(t *testing.T, amount string) svmbase.TokenAccount {
	t.Helper()
	var acc svmbase.TokenAccount
	data := []byte(`{"pubkey":"x","account":{"data":{"parsed":{"info":{"mint":"m","owner":"o","tokenAmount":{"amount":"` + amount + `","decimals":6}}}}}}`)
	require.NoError(t, json.Unmarshal(data, &acc))
	return acc
}
