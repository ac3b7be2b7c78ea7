package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTransfers(t *testing.T) {
	t.Run("collects top level and inner transfers in order", func(t *testing.T) {
		tx := &TransactionRecord{
			Instructions: []Instruction{
				{
					Program: "system",
					Parsed: &ParsedInstruction{
						Type: "transfer",
						Info: TransferInfo{Source: "a", Destination: "b", Lamports: 10},
					},
				},
				{Program: "vote"},
			},
			InnerInstructions: [][]Instruction{
				{
					{
						ProgramID: systemProgramID,
						Parsed: &ParsedInstruction{
							Type: "transfer",
							Info: TransferInfo{Source: "c", Destination: "d", Lamports: 20},
						},
					},
				},
			},
		}

		events := ExtractTransfers(tx)
		require.Len(t, events, 2)
		assert.Equal(t, TransferEvent{From: "a", To: "b", Lamports: 10}, events[0])
		assert.Equal(t, TransferEvent{From: "c", To: "d", Lamports: 20}, events[1])
	})

	t.Run("ignores non transfer and unparsed instructions", func(t *testing.T) {
		tx := &TransactionRecord{
			Instructions: []Instruction{
				{Program: "system"},
				{
					Program: "system",
					Parsed:  &ParsedInstruction{Type: "createAccount"},
				},
				{
					Program: "spl-token",
					Parsed: &ParsedInstruction{
						Type: "transfer",
						Info: TransferInfo{Source: "a", Destination: "b", Lamports: 5},
					},
				},
			},
		}

		assert.Empty(t, ExtractTransfers(tx))
	})

	t.Run("nil transaction", func(t *testing.T) {
		assert.Empty(t, ExtractTransfers(nil))
	})
}

func TestExtractTransferByBalanceDelta(t *testing.T) {
	tx := &TransactionRecord{
		AccountKeys:  []string{"src", "dst", "fee"},
		PreBalances:  []uint64{5_000_000_000, 0, 100},
		PostBalances: []uint64{3_999_995_000, 1_000_000_000, 100},
	}

	t.Run("derives the transfer from balance movement", func(t *testing.T) {
		ev, ok := ExtractTransferByBalanceDelta(tx, "src", "dst")
		require.True(t, ok)
		assert.Equal(t, TransferEvent{From: "src", To: "dst", Lamports: 1_000_000_000}, ev)
	})

	t.Run("requires both parties in the account list", func(t *testing.T) {
		_, ok := ExtractTransferByBalanceDelta(tx, "src", "missing")
		assert.False(t, ok)
	})

	t.Run("requires the source to have lost funds", func(t *testing.T) {
		_, ok := ExtractTransferByBalanceDelta(tx, "fee", "dst")
		assert.False(t, ok)
	})

	t.Run("requires the destination to have gained funds", func(t *testing.T) {
		_, ok := ExtractTransferByBalanceDelta(tx, "src", "fee")
		assert.False(t, ok)
	})

	t.Run("rejects mismatched balance arrays", func(t *testing.T) {
		broken := &TransactionRecord{
			AccountKeys:  []string{"src", "dst"},
			PreBalances:  []uint64{10},
			PostBalances: []uint64{5, 5},
		}

		_, ok := ExtractTransferByBalanceDelta(broken, "src", "dst")
		assert.False(t, ok)
	})

	t.Run("rejects identical source and destination", func(t *testing.T) {
		_, ok := ExtractTransferByBalanceDelta(tx, "src", "src")
		assert.False(t, ok)
	})
}
