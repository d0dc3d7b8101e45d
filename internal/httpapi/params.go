package httpapi

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/status-im/keycard-go/hexutils"

	"github.com/web3-fighter/balance-aggregator/internal/chain"
)

// parseChain resolves the ":chain" path parameter, marking an unknown tag
// as a bad-request error so respondError renders it as HTTP 400 with the
// literal "unknown chain: x" message spec.md §8 scenario 5 expects — no
// added prefix, since chain.Parse's own error text is already the message
// to render.
func parseChain(c *gin.Context) (chain.Chain, error) {
	tag := c.Param("chain")
	tagged, err := chain.Parse(tag)
	if err != nil {
		return "", newBadRequestError(err)
	}
	return tagged, nil
}

// parseAddress resolves and minimally validates the ":address" path
// parameter. Deeper chain-specific address validation happens inside each
// provider (e.g. Solana's base58 public key parse); this only rejects the
// empty case uniformly across chains.
func parseAddress(c *gin.Context) (string, error) {
	address := strings.TrimSpace(c.Param("address"))
	if address == "" {
		return "", newBadRequestError(errors.New("empty address"))
	}
	return address, nil
}

// requireEVMHexAddress rejects an EVM address whose 0x-prefixed body does
// not round-trip through hex decode/encode at the canonical 20-byte
// length, catching malformed input before it reaches the RPC layer.
func requireEVMHexAddress(address string) error {
	trimmed := strings.TrimPrefix(address, "0x")
	decoded := hexutils.HexToBytes(trimmed)
	if len(decoded) != 20 || hexutils.BytesToHex(decoded) != strings.ToLower(trimmed) {
		return newBadRequestError(fmt.Errorf("malformed EVM address %q", address))
	}
	return nil
}
