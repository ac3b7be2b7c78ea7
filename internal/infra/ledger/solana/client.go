// Package solana implements the scan.Ledger interface on top of a Solana
// JSON-RPC node.
package solana

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/chimkhongcanhcut-stack/wallet-scanner/internal/pkg/resilience/retry"
	"github.com/chimkhongcanhcut-stack/wallet-scanner/internal/pkg/transport/jsonrpc"
	"github.com/chimkhongcanhcut-stack/wallet-scanner/internal/scan"
)

// rateLimitHints are the provider message fragments that indicate throttling.
// Public RPC endpoints are inconsistent about how they report it, so the raw
// status code, the numeric code in the message and the human phrasings are all
// checked.
var rateLimitHints = []string{
	"rate limit",
	"too many requests",
	"429",
}

type client struct {
	conn    jsonrpc.Client
	txRetry retry.Retry
}

var _ scan.Ledger = (*client)(nil)

// NewClient creates a scan.Ledger backed by the given JSON-RPC connection.
// Transaction lookups are retried once after a short fixed delay, but never
// when the first failure was a rate limit.
func NewClient(conn jsonrpc.Client) *client {
	return &client{
		conn: conn,
		txRetry: retry.New(
			retry.WithAttempts(2),
			retry.WithDelay(350*time.Millisecond),
			retry.WithFixedDelay(),
			retry.WithRetryIf(func(err error) bool {
				return !errors.Is(err, scan.ErrRateLimited)
			}),
		),
	}
}

// classify rewrites provider throttling signals into scan.ErrRateLimited and
// leaves every other error untouched.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var httpErr *jsonrpc.HTTPError
	if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %v", scan.ErrRateLimited, err)
	}

	var rpcErr *jsonrpc.Error
	if errors.As(err, &rpcErr) {
		msg := strings.ToLower(rpcErr.Message)
		for _, hint := range rateLimitHints {
			if strings.Contains(msg, hint) {
				return fmt.Errorf("%w: %v", scan.ErrRateLimited, err)
			}
		}
	}

	return err
}

func (c *client) fetch(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	raw, err := c.conn.Fetch(ctx, method, params...)
	return raw, classify(err)
}

type signatureEntry struct {
	Signature string `json:"signature"`
	BlockTime *int64 `json:"blockTime"`
}

func (c *client) GetSignatures(ctx context.Context, address string, limit int) ([]scan.SignatureInfo, error) {
	raw, err := c.fetch(ctx, "getSignaturesForAddress", address, map[string]any{
		"limit": limit,
	})
	if err != nil {
		return nil, err
	}

	var entries []signatureEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decoding signature history: %w", err)
	}

	out := make([]scan.SignatureInfo, len(entries))
	for i, e := range entries {
		out[i] = scan.SignatureInfo{
			Signature: e.Signature,
			BlockTime: e.BlockTime,
		}
	}

	return out, nil
}

// Response shapes for the jsonParsed transaction encoding. Only the fields
// the scanner inspects are decoded.
type (
	parsedInfo struct {
		Source      string `json:"source"`
		Destination string `json:"destination"`
		Lamports    uint64 `json:"lamports"`
	}

	parsedPayload struct {
		Type string     `json:"type"`
		Info parsedInfo `json:"info"`
	}

	instructionEntry struct {
		Program   string          `json:"program"`
		ProgramID string          `json:"programId"`
		Parsed    json.RawMessage `json:"parsed"`
	}

	accountKeyEntry struct {
		Pubkey string `json:"pubkey"`
	}

	innerInstructionGroup struct {
		Instructions []instructionEntry `json:"instructions"`
	}

	transactionResponse struct {
		BlockTime   *int64 `json:"blockTime"`
		Transaction struct {
			Signatures []string `json:"signatures"`
			Message    struct {
				AccountKeys  []accountKeyEntry  `json:"accountKeys"`
				Instructions []instructionEntry `json:"instructions"`
			} `json:"message"`
		} `json:"transaction"`
		Meta *struct {
			PreBalances       []uint64                `json:"preBalances"`
			PostBalances      []uint64                `json:"postBalances"`
			InnerInstructions []innerInstructionGroup `json:"innerInstructions"`
		} `json:"meta"`
	}
)

// toInstruction decodes one instruction entry. The parsed payload is an
// arbitrary JSON value for non-transfer programs; anything that is not an
// object with the expected fields is carried as unparsed.
func toInstruction(e instructionEntry) scan.Instruction {
	ix := scan.Instruction{
		Program:   e.Program,
		ProgramID: e.ProgramID,
	}

	if len(e.Parsed) > 0 {
		var payload parsedPayload
		if err := json.Unmarshal(e.Parsed, &payload); err == nil && payload.Type != "" {
			ix.Parsed = &scan.ParsedInstruction{
				Type: payload.Type,
				Info: scan.TransferInfo{
					Source:      payload.Info.Source,
					Destination: payload.Info.Destination,
					Lamports:    payload.Info.Lamports,
				},
			}
		}
	}

	return ix
}

func (c *client) GetTransaction(ctx context.Context, signature string) (*scan.TransactionRecord, error) {
	var resp *transactionResponse

	err := c.txRetry.Execute(ctx, func() error {
		raw, err := c.fetch(ctx, "getTransaction", signature, map[string]any{
			"encoding":                       "jsonParsed",
			"maxSupportedTransactionVersion": 0,
		})
		if err != nil {
			return err
		}

		resp = nil
		return json.Unmarshal(raw, &resp)
	})
	if err != nil {
		return nil, err
	}

	if resp == nil {
		return nil, nil
	}

	record := &scan.TransactionRecord{
		Signature: signature,
		BlockTime: resp.BlockTime,
	}
	if len(resp.Transaction.Signatures) > 0 {
		record.Signature = resp.Transaction.Signatures[0]
	}

	record.AccountKeys = make([]string, len(resp.Transaction.Message.AccountKeys))
	for i, key := range resp.Transaction.Message.AccountKeys {
		record.AccountKeys[i] = key.Pubkey
	}

	record.Instructions = make([]scan.Instruction, len(resp.Transaction.Message.Instructions))
	for i, e := range resp.Transaction.Message.Instructions {
		record.Instructions[i] = toInstruction(e)
	}

	if resp.Meta != nil {
		record.PreBalances = resp.Meta.PreBalances
		record.PostBalances = resp.Meta.PostBalances

		record.InnerInstructions = make([][]scan.Instruction, len(resp.Meta.InnerInstructions))
		for i, group := range resp.Meta.InnerInstructions {
			inner := make([]scan.Instruction, len(group.Instructions))
			for j, e := range group.Instructions {
				inner[j] = toInstruction(e)
			}
			record.InnerInstructions[i] = inner
		}
	}

	return record, nil
}

func (c *client) GetBalance(ctx context.Context, address string) (uint64, error) {
	raw, err := c.fetch(ctx, "getBalance", address, map[string]any{
		"commitment": "confirmed",
	})
	if err != nil {
		return 0, err
	}

	var resp struct {
		Value uint64 `json:"value"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return 0, fmt.Errorf("decoding balance: %w", err)
	}

	return resp.Value, nil
}
