package chain

import "strings"

// AssetID identifies either a chain's native coin (TokenID empty) or a
// contract-issued token/mint on that chain. Wire form is "chain" for the
// coin or "chain_tokenId" for a token, matching spec.md §3.
type AssetID struct {
	Chain   Chain
	TokenID string
}

// CoinID builds the AssetID denoting chain's native coin.
func CoinID(c Chain) AssetID {
	return AssetID{Chain: c}
}

// TokenAssetID builds the AssetID denoting a specific token/mint on chain.
func TokenAssetID(c Chain, tokenID string) AssetID {
	return AssetID{Chain: c, TokenID: tokenID}
}

// IsCoin reports whether this id denotes the chain's native coin.
func (a AssetID) IsCoin() bool {
	return a.TokenID == ""
}

// String renders the wire form: "chain" or "chain_tokenId".
func (a AssetID) String() string {
	if a.IsCoin() {
		return string(a.Chain)
	}
	return string(a.Chain) + "_" + a.TokenID
}

// ParseAssetID parses the wire form back into an AssetID.
func ParseAssetID(s string) (AssetID, error) {
	parts := strings.SplitN(s, "_", 2)
	c, err := Parse(parts[0])
	if err != nil {
		return AssetID{}, err
	}
	if len(parts) == 1 {
		return CoinID(c), nil
	}
	return TokenAssetID(c, parts[1]), nil
}

// MarshalJSON renders the AssetID as its wire string, not a nested object.
func (a AssetID) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

// UnmarshalJSON parses the AssetID from its wire string.
func (a *AssetID) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseAssetID(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
