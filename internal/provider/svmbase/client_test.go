package svmbase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/web3-fighter/balance-aggregator/internal/jsonrpc"
)

// reorderingPoster answers a batch getTokenAccountsByOwner call with one
// token-account result per request, each still carrying its own echoed
// request id, but emitted in the reverse of request order — simulating a
// server that doesn't preserve array order across a batch.
type reorderingPoster struct{}

func (p *reorderingPoster) Post(ctx context.Context, path string, body interface{}, headers map[string]string, out interface{}) error {
	reqs, ok := body.([]jsonrpc.Request)
	if !ok {
		return errors.New("reorderingPoster: expected a batch request")
	}

	type rawResult struct {
		ID     uint64          `json:"id"`
		Result json.RawMessage `json:"result"`
	}
	results := make([]rawResult, len(reqs))
	for i, req := range reqs {
		params, _ := req.Params.([]interface{})
		mintFilter, _ := params[1].(map[string]string)
		mint := mintFilter["mint"]
		accountJSON := fmt.Sprintf(
			`{"value":[{"pubkey":"acct-%s","account":{"data":{"parsed":{"info":{"mint":%q,"owner":"owner","tokenAmount":{"amount":"%d","decimals":6}}}}}}]}`,
			mint, mint, (i+1)*100,
		)
		results[i] = rawResult{ID: req.ID, Result: json.RawMessage(accountJSON)}
	}
	for i, j := 0, len(results)-1; i < j; i, j = i+1, j-1 {
		results[i], results[j] = results[j], results[i]
	}

	encoded, err := json.Marshal(results)
	if err != nil {
		return err
	}
	rm, ok := out.(*json.RawMessage)
	if !ok {
		return errors.New("reorderingPoster: expected *json.RawMessage out")
	}
	*rm = encoded
	return nil
}

// A server that returns the batch's results in reverse array order must
// not desync GetTokenAccountsForMints' output from its input mint list:
// jsonrpc.BatchCall resequences by echoed id before this method ever sees
// the results.
func TestGetTokenAccountsForMintsSurvivesReorderedBatchResponse(t *testing.T) {
	client := New(jsonrpc.New(&reorderingPoster{}))

	mints := []string{"mintA", "mintB", "mintC"}
	accounts, err := client.GetTokenAccountsForMints(context.Background(), "owner", mints)
	require.NoError(t, err)
	require.Len(t, accounts, 3)

	for i, mint := range mints {
		require.Len(t, accounts[i], 1)
		assert.Equal(t, mint, accounts[i][0].Info().Mint)
	}
}
