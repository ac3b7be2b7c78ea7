package solana

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	transporthttp "github.com/chimkhongcanhcut-stack/wallet-scanner/internal/pkg/transport/http"
	"github.com/chimkhongcanhcut-stack/wallet-scanner/internal/pkg/transport/jsonrpc"
	"github.com/chimkhongcanhcut-stack/wallet-scanner/internal/scan"
)

type rpcRequest struct {
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(jsonrpc.NewClient(transporthttp.NewClient(), server.URL))
}

func rpcResult(w http.ResponseWriter, result string) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"jsonrpc":"2.0","id":"1","result":` + result + `}`))
}

func rpcError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	body, _ := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      "1",
		"error":   map[string]any{"code": code, "message": message},
	})
	w.Write(body)
}

func TestGetSignatures(t *testing.T) {
	t.Run("decodes the history page", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			var req rpcRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "getSignaturesForAddress", req.Method)
			require.Len(t, req.Params, 2)
			assert.JSONEq(t, `{"limit":1000}`, string(req.Params[1]))

			rpcResult(w, `[
				{"signature":"sig-new","blockTime":2000},
				{"signature":"sig-old","blockTime":null}
			]`)
		})

		sigs, err := c.GetSignatures(t.Context(), "addr", 1000)
		require.NoError(t, err)

		require.Len(t, sigs, 2)
		assert.Equal(t, "sig-new", sigs[0].Signature)
		require.NotNil(t, sigs[0].BlockTime)
		assert.Equal(t, int64(2000), *sigs[0].BlockTime)
		assert.Nil(t, sigs[1].BlockTime)
	})

	t.Run("http 429 maps to the rate limit sentinel", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		})

		_, err := c.GetSignatures(t.Context(), "addr", 1000)
		assert.ErrorIs(t, err, scan.ErrRateLimited)
	})

	t.Run("provider message maps to the rate limit sentinel", func(t *testing.T) {
		for _, message := range []string{
			"Rate limit exceeded",
			"Too Many Requests for this endpoint",
			"error 429",
		} {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				rpcError(w, -32005, message)
			})

			_, err := c.GetSignatures(t.Context(), "addr", 1000)
			assert.ErrorIs(t, err, scan.ErrRateLimited, "message: %s", message)
		}
	})

	t.Run("other provider errors pass through untouched", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			rpcError(w, -32602, "invalid params")
		})

		_, err := c.GetSignatures(t.Context(), "addr", 1000)
		require.Error(t, err)
		assert.NotErrorIs(t, err, scan.ErrRateLimited)
		assert.ErrorIs(t, err, jsonrpc.ErrProviderReturnedError)
	})
}

func TestGetTransaction(t *testing.T) {
	const txResult = `{
		"blockTime": 1700000000,
		"transaction": {
			"signatures": ["sig-1"],
			"message": {
				"accountKeys": [{"pubkey":"src"},{"pubkey":"dst"}],
				"instructions": [
					{
						"program": "system",
						"programId": "11111111111111111111111111111111",
						"parsed": {
							"type": "transfer",
							"info": {"source":"src","destination":"dst","lamports":1000000000}
						}
					},
					{"programId": "Vote111111111111111111111111111111111111111"}
				]
			}
		},
		"meta": {
			"preBalances": [2000000000, 0],
			"postBalances": [999995000, 1000000000],
			"innerInstructions": [
				{"instructions": [
					{
						"program": "system",
						"parsed": {
							"type": "transfer",
							"info": {"source":"dst","destination":"src","lamports":5}
						}
					}
				]}
			]
		}
	}`

	t.Run("decodes the parsed transaction", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			var req rpcRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "getTransaction", req.Method)
			require.Len(t, req.Params, 2)
			assert.JSONEq(t, `{"encoding":"jsonParsed","maxSupportedTransactionVersion":0}`, string(req.Params[1]))

			rpcResult(w, txResult)
		})

		tx, err := c.GetTransaction(t.Context(), "sig-1")
		require.NoError(t, err)
		require.NotNil(t, tx)

		assert.Equal(t, "sig-1", tx.Signature)
		require.NotNil(t, tx.BlockTime)
		assert.Equal(t, int64(1700000000), *tx.BlockTime)
		assert.Equal(t, []string{"src", "dst"}, tx.AccountKeys)
		assert.Equal(t, []uint64{2000000000, 0}, tx.PreBalances)
		assert.Equal(t, []uint64{999995000, 1000000000}, tx.PostBalances)

		require.Len(t, tx.Instructions, 2)
		require.NotNil(t, tx.Instructions[0].Parsed)
		assert.Equal(t, "transfer", tx.Instructions[0].Parsed.Type)
		assert.Equal(t, uint64(1000000000), tx.Instructions[0].Parsed.Info.Lamports)
		assert.Nil(t, tx.Instructions[1].Parsed)

		require.Len(t, tx.InnerInstructions, 1)
		require.Len(t, tx.InnerInstructions[0], 1)
		assert.Equal(t, uint64(5), tx.InnerInstructions[0][0].Parsed.Info.Lamports)
	})

	t.Run("unknown signature yields nil without error", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			rpcResult(w, "null")
		})

		tx, err := c.GetTransaction(t.Context(), "sig-missing")
		require.NoError(t, err)
		assert.Nil(t, tx)
	})

	t.Run("transient failures are retried once", func(t *testing.T) {
		var calls atomic.Int64
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				rpcError(w, -32000, "node is behind")
				return
			}
			rpcResult(w, txResult)
		})

		tx, err := c.GetTransaction(t.Context(), "sig-1")
		require.NoError(t, err)
		assert.NotNil(t, tx)
		assert.Equal(t, int64(2), calls.Load())
	})

	t.Run("rate limits are never retried", func(t *testing.T) {
		var calls atomic.Int64
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusTooManyRequests)
		})

		_, err := c.GetTransaction(t.Context(), "sig-1")
		assert.ErrorIs(t, err, scan.ErrRateLimited)
		assert.Equal(t, int64(1), calls.Load())
	})
}

func TestGetBalance(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "getBalance", req.Method)
		require.Len(t, req.Params, 2)
		assert.JSONEq(t, `{"commitment":"confirmed"}`, string(req.Params[1]))

		rpcResult(w, `{"context":{"slot":1},"value":123456789}`)
	})

	balance, err := c.GetBalance(t.Context(), "addr")
	require.NoError(t, err)
	assert.Equal(t, uint64(123456789), balance)
}
