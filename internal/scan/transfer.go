package scan

import "slices"

// systemProgramID is the native transfer program of the ledger. Instruction
// tagging by the node is not always reliable, so extraction matches either the
// "system" program tag or this raw program address.
const systemProgramID = "11111111111111111111111111111111"

// LamportsPerSOL is the number of native units in one SOL. The scanner works
// in lamports internally; SOL amounts are a display concern.
const LamportsPerSOL uint64 = 1_000_000_000

// TransferEvent is one native-asset movement derived from a transaction.
type TransferEvent struct {
	From     string
	To       string
	Lamports uint64
}

func isNativeTransfer(ix Instruction) bool {
	if ix.Parsed == nil || ix.Parsed.Type != "transfer" {
		return false
	}

	return ix.Program == "system" || ix.ProgramID == systemProgramID
}

func toTransferEvent(ix Instruction) TransferEvent {
	return TransferEvent{
		From:     ix.Parsed.Info.Source,
		To:       ix.Parsed.Info.Destination,
		Lamports: ix.Parsed.Info.Lamports,
	}
}

// ExtractTransfers returns every native transfer found in the transaction's
// top-level instructions and inner instruction groups, in document order. This
// is the primary extraction path; see ExtractTransferByBalanceDelta for the
// fallback used when structured parsing comes up empty.
func ExtractTransfers(tx *TransactionRecord) []TransferEvent {
	if tx == nil {
		return nil
	}

	var out []TransferEvent
	for _, ix := range tx.Instructions {
		if isNativeTransfer(ix) {
			out = append(out, toTransferEvent(ix))
		}
	}

	for _, group := range tx.InnerInstructions {
		for _, ix := range group {
			if isNativeTransfer(ix) {
				out = append(out, toTransferEvent(ix))
			}
		}
	}

	return out
}

// ExtractTransferByBalanceDelta derives a transfer between one specific
// (source, dest) pair from the transaction's balance snapshots. Both addresses
// must appear in the participant list, dest must have gained and source must
// have lost native balance; the emitted amount is dest's gain.
//
// Structured transfer tagging is occasionally incomplete even when balances
// clearly moved, which this path is robust to. It cannot attribute a transfer
// between two arbitrary untested parties, so it only ever answers for the pair
// it is asked about.
func ExtractTransferByBalanceDelta(tx *TransactionRecord, source, dest string) (TransferEvent, bool) {
	if tx == nil || source == dest {
		return TransferEvent{}, false
	}

	srcIdx := slices.Index(tx.AccountKeys, source)
	dstIdx := slices.Index(tx.AccountKeys, dest)
	if srcIdx < 0 || dstIdx < 0 {
		return TransferEvent{}, false
	}

	n := len(tx.PreBalances)
	if len(tx.PostBalances) != n || srcIdx >= n || dstIdx >= n {
		return TransferEvent{}, false
	}

	deltaSource := int64(tx.PostBalances[srcIdx]) - int64(tx.PreBalances[srcIdx])
	deltaDest := int64(tx.PostBalances[dstIdx]) - int64(tx.PreBalances[dstIdx])
	if deltaDest <= 0 || deltaSource >= 0 {
		return TransferEvent{}, false
	}

	return TransferEvent{
		From:     source,
		To:       dest,
		Lamports: uint64(deltaDest),
	}, true
}
