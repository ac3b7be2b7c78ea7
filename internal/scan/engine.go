package scan

import (
	"context"
	"fmt"
	"time"

	"github.com/chimkhongcanhcut-stack/wallet-scanner/internal/pkg/logger"
)

// MatchRuleOldestFromSource names the single matching rule the engine applies:
// a wallet matches only when its oldest transaction is a qualifying transfer
// from the source. A newer funding transfer from the source never counts.
const MatchRuleOldestFromSource = "oldest_tx_from_source"

// ScanParams are the matching criteria shared by every wallet of a scan.
type ScanParams struct {
	// Source is the funding address wallets are tested against.
	Source string `validate:"required,solana_address"`

	// MinLamports is the minimum transfer amount for a funding to qualify.
	MinLamports uint64

	// Window bounds how far back the funding transaction may lie.
	Window time.Duration `validate:"required,min=1h,max=168h"`
}

// MatchResult describes one wallet that satisfied the matching rule.
type MatchResult struct {
	Wallet           string
	BalanceLamports  uint64
	Source           string
	FundedLamports   uint64
	Signature        string
	FundingBlockTime *int64
	Rule             string
}

// outsideWindow reports whether the given block time predates the window. A
// nil block time is treated as inside the window so that the transaction
// itself gets inspected; its real timestamp settles the question.
func (s *service) outsideWindow(blockTime *int64, window time.Duration) bool {
	if blockTime == nil {
		return false
	}

	return s.now().Unix()-*blockTime > int64(window.Seconds())
}

// resolveOldest returns the wallet's oldest-transaction fact, consulting
// storage first and fetching a single page of signature history on a miss.
// Every conclusion is written back, including window refinements of an already
// stored fact: a known signature whose timestamp has since fallen out of the
// window is rewritten as too-old so later scans skip the lookup entirely.
func (s *service) resolveOldest(ctx context.Context, wallet string, window time.Duration) (Fact, error) {
	fact, ok, err := s.factStorage.GetFact(ctx, wallet)
	if err != nil {
		return Fact{}, fmt.Errorf("loading fact for %s: %w", wallet, err)
	}

	if ok {
		if fact.Kind == FactKnown && s.outsideWindow(fact.BlockTime, window) {
			fact.Kind = FactTooOld
			if err := s.factStorage.PutFact(ctx, wallet, fact); err != nil {
				logger.Warn(ctx, "failed to persist fact refinement", "wallet", wallet, "error", err)
			}
		}

		return fact, nil
	}

	sigs, err := s.ledger.GetSignatures(ctx, wallet, s.sigPageLimit)
	if err != nil {
		return Fact{}, fmt.Errorf("fetching signatures for %s: %w", wallet, err)
	}

	switch {
	case len(sigs) == 0:
		fact = Fact{Kind: FactNoHistory}
	case len(sigs) >= s.sigPageLimit:
		fact = Fact{Kind: FactTooManyTx}
	default:
		oldest := sigs[len(sigs)-1]
		fact = Fact{Kind: FactKnown, Signature: oldest.Signature, BlockTime: oldest.BlockTime}
		if s.outsideWindow(oldest.BlockTime, window) {
			fact.Kind = FactTooOld
		}
	}

	if err := s.factStorage.PutFact(ctx, wallet, fact); err != nil {
		logger.Warn(ctx, "failed to persist fact", "wallet", wallet, "error", err)
	}

	return fact, nil
}

// evaluate applies the matching rule to one wallet. It returns a nil result
// when the wallet simply does not match; an error is reserved for failures
// that prevented a verdict.
func (s *service) evaluate(ctx context.Context, wallet string, params ScanParams) (*MatchResult, error) {
	fact, err := s.resolveOldest(ctx, wallet, params.Window)
	if err != nil {
		return nil, err
	}

	switch fact.Kind {
	case FactNoHistory, FactTooManyTx, FactTooOld:
		logger.Debug(ctx, "wallet ruled out by oldest-transaction fact", "wallet", wallet, "kind", fact.Kind)
		return nil, nil
	}

	tx, err := s.ledger.GetTransaction(ctx, fact.Signature)
	if err != nil {
		return nil, fmt.Errorf("fetching transaction %s: %w", fact.Signature, err)
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction %s not found", fact.Signature)
	}

	blockTime := tx.BlockTime
	if blockTime == nil {
		blockTime = fact.BlockTime
	}

	if s.outsideWindow(blockTime, params.Window) {
		refined := Fact{Kind: FactTooOld, Signature: fact.Signature, BlockTime: blockTime}
		if err := s.factStorage.PutFact(ctx, wallet, refined); err != nil {
			logger.Warn(ctx, "failed to persist fact refinement", "wallet", wallet, "error", err)
		}
		return nil, nil
	}

	transfers := ExtractTransfers(tx)
	if len(transfers) == 0 {
		if ev, ok := ExtractTransferByBalanceDelta(tx, params.Source, wallet); ok {
			transfers = append(transfers, ev)
		}
	}

	confirmed := Fact{Kind: FactKnown, Signature: fact.Signature, BlockTime: blockTime}

	for _, ev := range transfers {
		if ev.From != params.Source || ev.To != wallet || ev.Lamports < params.MinLamports {
			continue
		}

		balance, err := s.ledger.GetBalance(ctx, wallet)
		if err != nil {
			return nil, fmt.Errorf("fetching balance for %s: %w", wallet, err)
		}

		if err := s.factStorage.PutFact(ctx, wallet, confirmed); err != nil {
			logger.Warn(ctx, "failed to persist fact", "wallet", wallet, "error", err)
		}

		return &MatchResult{
			Wallet:           wallet,
			BalanceLamports:  balance,
			Source:           params.Source,
			FundedLamports:   ev.Lamports,
			Signature:        fact.Signature,
			FundingBlockTime: blockTime,
			Rule:             MatchRuleOldestFromSource,
		}, nil
	}

	if err := s.factStorage.PutFact(ctx, wallet, confirmed); err != nil {
		logger.Warn(ctx, "failed to persist fact", "wallet", wallet, "error", err)
	}

	return nil, nil
}
