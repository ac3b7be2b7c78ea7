// Package scan implements the wallet-funding scanner: given a funding source
// and a set of candidate wallets, it reports the wallets whose very first
// on-ledger activity was a sufficiently large native transfer from that
// source within a bounded time window.
package scan

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/chimkhongcanhcut-stack/wallet-scanner/internal/pkg/logger"
	"github.com/chimkhongcanhcut-stack/wallet-scanner/internal/pkg/types"
	"github.com/chimkhongcanhcut-stack/wallet-scanner/internal/pkg/validator"
)

var (
	// ErrNoWallets indicates a scan request carried no usable wallet address.
	ErrNoWallets = errors.New("no wallets to scan")

	// ErrBatchTooLarge indicates a batch exceeded the per-scan wallet cap
	// after deduplication.
	ErrBatchTooLarge = errors.New("too many wallets in one batch")
)

// StopReasonRateLimit is the stop reason recorded when a batch halts because
// the upstream started throttling.
const StopReasonRateLimit = "rate_limited"

// Report is the outcome of a scan.
type Report struct {
	// Hits holds the matched wallets, best first, truncated to the top-hit
	// cap. TotalMatches keeps the pre-truncation count.
	Hits         []MatchResult
	TotalMatches int

	// ScannedCount is the number of wallets actually dispatched for
	// evaluation. It equals the deduplicated input size unless the scan
	// stopped early.
	ScannedCount int

	// Stopped reports an early halt; StopReason says why.
	Stopped    bool
	StopReason string
}

// Service exposes the scanning operations.
type Service interface {
	// Scan evaluates a single wallet against the matching criteria.
	Scan(ctx context.Context, wallet string, params ScanParams) (Report, error)

	// ScanBatch evaluates a batch of wallets concurrently. Duplicate and
	// blank entries are dropped up front, keeping first-seen order.
	ScanBatch(ctx context.Context, wallets []string, params ScanParams) (Report, error)

	// InvalidateWallets drops the cached facts of the given wallets,
	// returning how many entries actually existed.
	InvalidateWallets(ctx context.Context, wallets []string) (int, error)

	// InvalidateAll drops every cached fact.
	InvalidateAll(ctx context.Context) error
}

type service struct {
	ledger      Ledger
	factStorage FactStorage

	concurrency  int
	sigPageLimit int
	maxBatchSize int
	topHits      int

	now func() time.Time
}

var _ Service = (*service)(nil)

// Option defines a functional option for configuring the scan service.
type Option func(*service)

// WithConcurrency sets the number of wallets evaluated in parallel.
// Default: 2.
func WithConcurrency(n int) Option {
	return func(s *service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithSignaturePageLimit sets the size of the single signature-history page
// fetched per wallet. Histories at or above this size are classified as too
// large to resolve. Default: 1000.
func WithSignaturePageLimit(n int) Option {
	return func(s *service) {
		if n > 0 {
			s.sigPageLimit = n
		}
	}
}

// WithMaxBatchSize sets the per-scan wallet cap, applied after deduplication.
// Default: 250.
func WithMaxBatchSize(n int) Option {
	return func(s *service) {
		if n > 0 {
			s.maxBatchSize = n
		}
	}
}

// WithTopHits sets how many matches a report retains. Default: 5.
func WithTopHits(n int) Option {
	return func(s *service) {
		if n > 0 {
			s.topHits = n
		}
	}
}

// New creates a scan Service backed by the given ledger and fact storage.
func New(ledger Ledger, factStorage FactStorage, opts ...Option) *service {
	svc := &service{
		ledger:       ledger,
		factStorage:  factStorage,
		concurrency:  2,
		sigPageLimit: 1000,
		maxBatchSize: 250,
		topHits:      5,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}

	return svc
}

func (s *service) Scan(ctx context.Context, wallet string, params ScanParams) (Report, error) {
	return s.ScanBatch(ctx, []string{wallet}, params)
}

// walletAddress exists so that each address runs through the same validation
// machinery as structured inputs.
type walletAddress struct {
	Address string `validate:"required,solana_address"`
}

func (s *service) ScanBatch(ctx context.Context, wallets []string, params ScanParams) (Report, error) {
	if err := validator.Validate(params); err != nil {
		return Report{}, err
	}

	set := types.NewOrderedSet[string]()
	for _, w := range wallets {
		if w = strings.TrimSpace(w); w != "" {
			set.Add(w)
		}
	}

	targets := set.ToSlice()
	if len(targets) == 0 {
		return Report{}, ErrNoWallets
	}
	if len(targets) > s.maxBatchSize {
		return Report{}, fmt.Errorf("%w: %d wallets, cap is %d", ErrBatchTooLarge, len(targets), s.maxBatchSize)
	}

	for _, w := range targets {
		if err := validator.Validate(walletAddress{Address: w}); err != nil {
			return Report{}, fmt.Errorf("invalid wallet address %q: %w", w, err)
		}
	}

	logger.Info(ctx, "starting scan",
		"wallets", len(targets),
		"source", params.Source,
		"minLamports", params.MinLamports,
		"window", params.Window.String(),
	)

	var (
		stopReason atomic.Pointer[string]
		started    atomic.Int64
	)

	shouldStop := func() bool {
		return stopReason.Load() != nil
	}

	worker := func(ctx context.Context, wallet string) *MatchResult {
		started.Add(1)

		match, err := s.evaluate(ctx, wallet, params)
		if err != nil {
			if errors.Is(err, ErrRateLimited) {
				reason := StopReasonRateLimit
				if stopReason.CompareAndSwap(nil, &reason) {
					logger.Warn(ctx, "upstream rate limited, stopping batch", "wallet", wallet)
				}
				return nil
			}

			logger.Error(ctx, "wallet evaluation failed", "wallet", wallet, "error", err)
			return nil
		}

		return match
	}

	results := runBounded(ctx, targets, s.concurrency, worker, shouldStop)

	hits := make([]MatchResult, 0, len(results))
	for _, match := range results {
		if match != nil {
			hits = append(hits, *match)
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].FundedLamports != hits[j].FundedLamports {
			return hits[i].FundedLamports > hits[j].FundedLamports
		}
		return hits[i].BalanceLamports > hits[j].BalanceLamports
	})

	report := Report{
		TotalMatches: len(hits),
		ScannedCount: len(targets),
	}

	if reason := stopReason.Load(); reason != nil {
		report.Stopped = true
		report.StopReason = *reason
		report.ScannedCount = int(started.Load())
	}

	if len(hits) > s.topHits {
		hits = hits[:s.topHits]
	}
	report.Hits = hits

	logger.Info(ctx, "scan finished",
		"scanned", report.ScannedCount,
		"matches", report.TotalMatches,
		"stopped", report.Stopped,
	)

	return report, nil
}

func (s *service) InvalidateWallets(ctx context.Context, wallets []string) (int, error) {
	set := types.NewOrderedSet[string]()
	for _, w := range wallets {
		if w = strings.TrimSpace(w); w != "" {
			set.Add(w)
		}
	}

	if set.Len() == 0 {
		return 0, ErrNoWallets
	}

	removed := 0
	for _, w := range set.ToSlice() {
		_, ok, err := s.factStorage.GetFact(ctx, w)
		if err != nil {
			return removed, fmt.Errorf("loading fact for %s: %w", w, err)
		}
		if !ok {
			continue
		}

		if err := s.factStorage.InvalidateFact(ctx, w); err != nil {
			return removed, fmt.Errorf("invalidating fact for %s: %w", w, err)
		}
		removed++
	}

	return removed, nil
}

func (s *service) InvalidateAll(ctx context.Context) error {
	return s.factStorage.InvalidateAllFacts(ctx)
}
