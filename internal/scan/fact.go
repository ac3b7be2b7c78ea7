package scan

import (
	"context"
	"encoding/json"
	"fmt"
)

// FactKind classifies what the scanner learned about a wallet's oldest
// transaction.
type FactKind string

const (
	// FactKnown means the oldest signature was identified and sits inside the
	// scan window at the time the fact was recorded.
	FactKnown FactKind = "known"

	// FactNoHistory means the wallet has no signature history at all.
	FactNoHistory FactKind = "no_history"

	// FactTooManyTx means the wallet's history exceeds the single-page limit,
	// so its true oldest transaction cannot be determined cheaply.
	FactTooManyTx FactKind = "too_many_tx"

	// FactTooOld means the oldest transaction predates the scan window.
	FactTooOld FactKind = "too_old"
)

// Markers used by the persisted fact format for the terminal kinds.
const (
	markerNoHistory = "NO_HISTORY"
	markerTooManyTx = "TOO_MANY_TX"
	markerTooOld    = "TOO_OLD"
)

// Fact is a durable conclusion about a wallet's oldest transaction. Signature
// and BlockTime are set for FactKnown and FactTooOld; the other kinds carry no
// payload. BlockTime may be nil even for a known signature when the node did
// not report a timestamp.
type Fact struct {
	Kind      FactKind
	Signature string
	BlockTime *int64
}

// factJSON is the wire form of a Fact. Terminal kinds are encoded as a marker
// string; a known oldest signature is encoded without a marker.
type factJSON struct {
	Marker    string `json:"marker,omitempty"`
	Signature string `json:"sig,omitempty"`
	BlockTime *int64 `json:"blockTime,omitempty"`
}

// MarshalJSON encodes the fact in its persisted format.
func (f Fact) MarshalJSON() ([]byte, error) {
	out := factJSON{
		Signature: f.Signature,
		BlockTime: f.BlockTime,
	}

	switch f.Kind {
	case FactKnown:
	case FactNoHistory:
		out = factJSON{Marker: markerNoHistory}
	case FactTooManyTx:
		out = factJSON{Marker: markerTooManyTx}
	case FactTooOld:
		out.Marker = markerTooOld
	default:
		return nil, fmt.Errorf("unknown fact kind %q", f.Kind)
	}

	return json.Marshal(out)
}

// UnmarshalJSON decodes the persisted fact format. Entries that carry neither
// a recognized marker nor a signature are rejected rather than silently
// treated as empty.
func (f *Fact) UnmarshalJSON(data []byte) error {
	var in factJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	switch in.Marker {
	case markerNoHistory:
		*f = Fact{Kind: FactNoHistory}
	case markerTooManyTx:
		*f = Fact{Kind: FactTooManyTx}
	case markerTooOld:
		*f = Fact{Kind: FactTooOld, Signature: in.Signature, BlockTime: in.BlockTime}
	case "":
		if in.Signature == "" {
			return fmt.Errorf("fact entry has neither marker nor signature")
		}
		*f = Fact{Kind: FactKnown, Signature: in.Signature, BlockTime: in.BlockTime}
	default:
		return fmt.Errorf("unknown fact marker %q", in.Marker)
	}

	return nil
}

// FactStorage persists oldest-transaction facts keyed by wallet address.
// Implementations must be safe for concurrent use; scan workers read and write
// facts in parallel.
type FactStorage interface {
	// GetFact returns the stored fact for the wallet, reporting whether one
	// exists.
	GetFact(ctx context.Context, address string) (Fact, bool, error)

	// PutFact stores the fact for the wallet, replacing any previous entry.
	PutFact(ctx context.Context, address string, fact Fact) error

	// InvalidateFact removes the wallet's fact, if present.
	InvalidateFact(ctx context.Context, address string) error

	// InvalidateAllFacts removes every stored fact.
	InvalidateAllFacts(ctx context.Context) error
}
