package httpapi

import (
	"context"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/web3-fighter/balance-aggregator/internal/chain"
	"github.com/web3-fighter/balance-aggregator/internal/provider"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubProvider struct {
	chainTag chain.Chain
	coin     chain.AssetBalance
	coinErr  error
	assets   []chain.AssetBalance
}

func (s *stubProvider) Chain() chain.Chain { return s.chainTag }
func (s *stubProvider) BalanceCoin(ctx context.Context, address string) (chain.AssetBalance, error) {
	return s.coin, s.coinErr
}
func (s *stubProvider) BalanceTokens(ctx context.Context, address string, tokenIDs []string) ([]chain.AssetBalance, error) {
	return nil, nil
}
func (s *stubProvider) BalanceStaking(ctx context.Context, address string) (*chain.AssetBalance, error) {
	return nil, nil
}
func (s *stubProvider) BalanceAssets(ctx context.Context, address string) ([]chain.AssetBalance, error) {
	return s.assets, nil
}
func (s *stubProvider) ChainID(ctx context.Context) (string, error) { return "1", nil }
func (s *stubProvider) NodeStatus(ctx context.Context) (provider.NodeStatus, error) {
	return provider.NodeStatus{State: provider.NodeSynced}, nil
}
func (s *stubProvider) BlockLatestNumber(ctx context.Context) (uint64, error) { return 1, nil }

func newTestRouter(providers ...provider.ChainProvider) *gin.Engine {
	registry := provider.NewRegistry(providers...)
	return NewRouter(NewBalanceHandler(registry))
}

// Scenario 1 (spec.md §8): an Ethereum coin-balance request returns the
// envelope with a raw decimal-string balance.
func TestCoinBalanceEthereum(t *testing.T) {
	stub := &stubProvider{
		chainTag: chain.Ethereum,
		coin:     chain.NewAssetBalance(chain.CoinID(chain.Ethereum), big.NewInt(1_000_000_000_000_000_000)),
	}
	router := newTestRouter(stub)

	req := httptest.NewRequest(http.MethodGet, "/v1/balances/coin/ethereum/0x00000000219ab540356cbb839cbe05303d7705fa", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":true`)
	assert.Contains(t, rec.Body.String(), `"1000000000000000000"`)
}

// Scenario 2 (spec.md §8): a Solana coin-balance request is dispatched the
// same way, with no EVM hex validation applied.
func TestCoinBalanceSolana(t *testing.T) {
	stub := &stubProvider{
		chainTag: chain.Solana,
		coin:     chain.NewAssetBalance(chain.CoinID(chain.Solana), big.NewInt(5_000_000_000)),
	}
	router := newTestRouter(stub)

	req := httptest.NewRequest(http.MethodGet, "/v1/balances/coin/solana/4Nd1mBQtrMJVYVfKf2PJy9NZUZdTAsp7D4xWLs4gDB4T", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"5000000000"`)
}

// Scenario 4 (spec.md §8): an assets listing renders every returned
// AssetBalance.
func TestAssetsListing(t *testing.T) {
	stub := &stubProvider{
		chainTag: chain.Polygon,
		assets: []chain.AssetBalance{
			chain.NewAssetBalance(chain.TokenAssetID(chain.Polygon, "0x2791bca1f2de4661ed88a30c99a7a9449aa84174"), big.NewInt(42)),
		},
	}
	router := newTestRouter(stub)

	req := httptest.NewRequest(http.MethodGet, "/v1/balances/assets/polygon/0x00000000219ab540356cbb839cbe05303d7705fa", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"42"`)
}

// Scenario 5 (spec.md §8): an unrecognized chain tag renders 400 with the
// literal "unknown chain: dogecoin" message.
func TestUnknownChainRendersBadRequest(t *testing.T) {
	router := newTestRouter(&stubProvider{chainTag: chain.Ethereum})

	req := httptest.NewRequest(http.MethodGet, "/v1/balances/coin/dogecoin/0x00000000219ab540356cbb839cbe05303d7705fa", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"success":false,"data":null,"error":"unknown chain: dogecoin"}`, rec.Body.String())
}

// A chain with no configured provider renders 404.
func TestNotConfiguredChainRendersNotFound(t *testing.T) {
	router := newTestRouter(&stubProvider{chainTag: chain.Ethereum})

	req := httptest.NewRequest(http.MethodGet, "/v1/balances/coin/solana/4Nd1mBQtrMJVYVfKf2PJy9NZUZdTAsp7D4xWLs4gDB4T", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

// Scenario 6 (spec.md §8): an upstream timeout renders 500 with "Timeout"
// surfacing in the error message.
func TestUpstreamTimeoutRendersInternalError(t *testing.T) {
	stub := &stubProvider{
		chainTag: chain.Ethereum,
		coinErr:  errors.New("transport: request timed out: Timeout"),
	}
	router := newTestRouter(stub)

	req := httptest.NewRequest(http.MethodGet, "/v1/balances/coin/ethereum/0x00000000219ab540356cbb839cbe05303d7705fa", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Timeout")
}

// A malformed EVM address is rejected before reaching the provider.
func TestMalformedEVMAddressRendersBadRequest(t *testing.T) {
	router := newTestRouter(&stubProvider{chainTag: chain.Ethereum})

	req := httptest.NewRequest(http.MethodGet, "/v1/balances/coin/ethereum/not-an-address", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

// Liveness is a trivial 200.
func TestLiveness(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}
