package scan

import (
	"context"
	"errors"
)

// ErrRateLimited marks upstream throttling. It is the only failure class that
// crosses the per-wallet worker boundary: when one evaluation observes it, the
// whole batch stops dispatching new wallets. Ledger implementations must wrap
// this sentinel whenever the provider signals a rate limit, whether via HTTP
// status or error message.
var ErrRateLimited = errors.New("ledger rate limited")

// SignatureInfo is one entry of an address's signature history. The upstream
// returns entries newest-first; BlockTime may be nil when the node does not
// know the transaction's timestamp.
type SignatureInfo struct {
	Signature string
	BlockTime *int64
}

// TransferInfo holds the structured fields of a parsed native transfer
// instruction.
type TransferInfo struct {
	Source      string
	Destination string
	Lamports    uint64
}

// ParsedInstruction is the decoded payload of an instruction, available when
// the node could parse it.
type ParsedInstruction struct {
	Type string
	Info TransferInfo
}

// Instruction is one instruction of a ledger transaction. Program carries the
// node's program tag (e.g. "system"); ProgramID carries the raw program
// address. The tag is not always populated, which is why transfer detection
// accepts either.
type Instruction struct {
	Program   string
	ProgramID string
	Parsed    *ParsedInstruction
}

// TransactionRecord is the slice of a ledger transaction the scanner cares
// about. AccountKeys, PreBalances and PostBalances are aligned positionally:
// PreBalances[i] and PostBalances[i] are the native balances of
// AccountKeys[i] before and after the transaction.
type TransactionRecord struct {
	Signature         string
	BlockTime         *int64
	AccountKeys       []string
	PreBalances       []uint64
	PostBalances      []uint64
	Instructions      []Instruction
	InnerInstructions [][]Instruction
}

// Ledger abstracts the upstream history/transaction/balance API.
//
// Implementations own timeout, retry and rate-limit classification:
//
//   - Every call is bounded by a per-request timeout; a timeout surfaces as a
//     generic error, never as ErrRateLimited.
//   - GetTransaction may be retried once on transient failures; GetSignatures
//     and GetBalance are never retried.
//   - Throttling (HTTP 429 or a provider message indicating a rate limit) is
//     reported as an error wrapping ErrRateLimited.
//
// No caching happens at this layer; FactStorage one level up is the only
// cache.
type Ledger interface {
	// GetSignatures returns up to limit entries of the address's signature
	// history, newest-first. A single page is fetched; it is never chased
	// further.
	GetSignatures(ctx context.Context, address string, limit int) ([]SignatureInfo, error)

	// GetTransaction returns the transaction for the given signature, or nil
	// if the upstream does not know it.
	GetTransaction(ctx context.Context, signature string) (*TransactionRecord, error)

	// GetBalance returns the current native balance of the address, in
	// lamports.
	GetBalance(ctx context.Context, address string) (uint64, error)
}
