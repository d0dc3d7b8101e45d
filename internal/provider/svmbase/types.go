package svmbase

// ValueResult wraps an RPC result carrying Solana's characteristic
// {context, value} envelope.
type ValueResult[T any] struct {
	Value T `json:"value"`
}

// TokenAmount is the jsonParsed "tokenAmount" sub-object: a raw integer
// string plus its mint's decimals.
type TokenAmount struct {
	Amount   string `json:"amount"`
	Decimals int    `json:"decimals"`
}

// TokenAccountParsedInfo is the jsonParsed SPL token account body.
type TokenAccountParsedInfo struct {
	Mint        string       `json:"mint"`
	Owner       string       `json:"owner"`
	TokenAmount *TokenAmount `json:"tokenAmount"`
}

type tokenAccountParsed struct {
	Info TokenAccountParsedInfo `json:"info"`
}

type tokenAccountData struct {
	Parsed tokenAccountParsed `json:"parsed"`
}

type tokenAccountPayload struct {
	Data tokenAccountData `json:"data"`
}

// TokenAccount is one entry of getTokenAccountsByOwner's result array.
type TokenAccount struct {
	Pubkey  string               `json:"pubkey"`
	Account tokenAccountPayload  `json:"account"`
}

// Info extracts the parsed token-account body.
func (t TokenAccount) Info() TokenAccountParsedInfo {
	return t.Account.Data.Parsed.Info
}

// StakeDelegation is the jsonParsed stake account's delegation sub-object.
type StakeDelegation struct {
	Voter             string `json:"voter"`
	Stake             string `json:"stake"`
	ActivationEpoch   string `json:"activationEpoch"`
	DeactivationEpoch string `json:"deactivationEpoch"`
}

type stakeInfo struct {
	Delegation StakeDelegation `json:"delegation"`
}

type stakeAccountParsedInfo struct {
	Stake stakeInfo `json:"stake"`
}

type stakeAccountParsed struct {
	Type string                 `json:"type"`
	Info stakeAccountParsedInfo `json:"info"`
}

type stakeAccountData struct {
	Parsed stakeAccountParsed `json:"parsed"`
}

type stakeAccountPayload struct {
	Lamports uint64           `json:"lamports"`
	Data     stakeAccountData `json:"data"`
}

// StakeAccount is one entry of getProgramAccounts' result array when
// queried against the stake program with jsonParsed encoding.
type StakeAccount struct {
	Pubkey  string              `json:"pubkey"`
	Account stakeAccountPayload `json:"account"`
}

// Delegation extracts the parsed stake delegation, ok=false if this
// account carries no active delegation (e.g. an uninitialized account).
func (s StakeAccount) Delegation() (StakeDelegation, bool) {
	if s.Account.Data.Parsed.Type != "delegated" {
		return StakeDelegation{}, false
	}
	return s.Account.Data.Parsed.Info.Stake.Delegation, true
}
