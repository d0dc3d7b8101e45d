package httpapi

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/web3-fighter/balance-aggregator/internal/chain"
	"github.com/web3-fighter/balance-aggregator/internal/provider"
)

// BalanceHandler renders the four /v1/balances/... routes over a
// provider.Registry.
type BalanceHandler struct {
	registry *provider.Registry
}

// NewBalanceHandler builds a BalanceHandler over registry.
func NewBalanceHandler(registry *provider.Registry) *BalanceHandler {
	return &BalanceHandler{registry: registry}
}

// resolveChainAndAddress parses the shared ":chain"/":address" pair and,
// for EVM chains, rejects a malformed hex address before it reaches the
// RPC layer (Solana addresses are validated downstream by the provider's
// base58 public-key parse).
func resolveChainAndAddress(c *gin.Context) (chain.Chain, string, error) {
	chainTag, err := parseChain(c)
	if err != nil {
		return "", "", err
	}
	address, err := parseAddress(c)
	if err != nil {
		return "", "", err
	}
	if chainTag.IsEVM() {
		if err := requireEVMHexAddress(address); err != nil {
			return "", "", err
		}
	}
	return chainTag, address, nil
}

// Coin handles GET /v1/balances/coin/:chain/:address.
func (h *BalanceHandler) Coin(c *gin.Context) {
	chainTag, address, err := resolveChainAndAddress(c)
	if err != nil {
		respondError(c, err)
		return
	}

	balance, err := h.registry.BalanceCoin(c.Request.Context(), chainTag, address)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, decorateWithDecimalDisplay(c, balance))
}

// decorateWithDecimalDisplay adds a "display" decimal-scaled rendering of
// the available balance alongside its raw-integer wire value when the
// caller passes ?decimals=N, e.g. ?decimals=18 for an 18-decimal coin.
// Absent the query param the envelope is returned unchanged.
func decorateWithDecimalDisplay(c *gin.Context, balance chain.AssetBalance) interface{} {
	raw := c.Query("decimals")
	if raw == "" {
		return balance
	}
	decimals, err := strconv.Atoi(raw)
	if err != nil {
		return balance
	}
	return gin.H{
		"asset_id": balance.AssetID,
		"balance":  balance.Balance,
		"is_active": balance.IsActive,
		"display":  balance.Balance.Available.DecimalString(int32(decimals)),
	}
}

// Assets handles GET /v1/balances/assets/:chain/:address.
func (h *BalanceHandler) Assets(c *gin.Context) {
	chainTag, address, err := resolveChainAndAddress(c)
	if err != nil {
		respondError(c, err)
		return
	}

	balances, err := h.registry.BalanceAssets(c.Request.Context(), chainTag, address)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, balances)
}

// Staking handles GET /v1/balances/staking/:chain/:address.
func (h *BalanceHandler) Staking(c *gin.Context) {
	chainTag, address, err := resolveChainAndAddress(c)
	if err != nil {
		respondError(c, err)
		return
	}

	balance, err := h.registry.BalanceStaking(c.Request.Context(), chainTag, address)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, balance)
}

// Tokens handles GET /v1/balances/tokens/:chain/:address?token_ids=a,b,c —
// a supplemental route (not in the minimal §6 list) exposing the explicit
// token-list balance operation §4.D already requires every provider to
// implement.
func (h *BalanceHandler) Tokens(c *gin.Context) {
	chainTag, address, err := resolveChainAndAddress(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var tokenIDs []string
	if raw := c.Query("token_ids"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(id); trimmed != "" {
				tokenIDs = append(tokenIDs, trimmed)
			}
		}
	}

	balances, err := h.registry.BalanceTokens(c.Request.Context(), chainTag, address, tokenIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, balances)
}
