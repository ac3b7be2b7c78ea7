package scan

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
)

// Valid mainnet addresses reused across tests.
const (
	testSource  = "BmFdpraQhkiDQE6SnfG5omcA1VwzqfXrwtNYBwWTymy6"
	testSource2 = "5tzFkiKscXHK5ZXCGbXZxdw7gTjjD1mBwuoFbhUvuAi9"
	testWallet  = "9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM"
	testWallet2 = "4Nd1mBQtrMJVYVfKf2PJy9NZUZdTAsp7D4xWLs4gDB4T"
	testWallet3 = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"
	testWallet4 = "Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB"
)

type ledgerMock struct {
	mock.Mock
}

var _ Ledger = (*ledgerMock)(nil)

func (m *ledgerMock) GetSignatures(ctx context.Context, address string, limit int) ([]SignatureInfo, error) {
	args := m.Called(ctx, address, limit)
	if sigs, ok := args.Get(0).([]SignatureInfo); ok {
		return sigs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ledgerMock) GetTransaction(ctx context.Context, signature string) (*TransactionRecord, error) {
	args := m.Called(ctx, signature)
	if tx, ok := args.Get(0).(*TransactionRecord); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ledgerMock) GetBalance(ctx context.Context, address string) (uint64, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(uint64), args.Error(1)
}

// memFactStorage is an in-memory FactStorage safe for concurrent use.
type memFactStorage struct {
	mu    sync.Mutex
	facts map[string]Fact
}

var _ FactStorage = (*memFactStorage)(nil)

func newMemFactStorage() *memFactStorage {
	return &memFactStorage{facts: make(map[string]Fact)}
}

func (s *memFactStorage) GetFact(_ context.Context, address string) (Fact, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fact, ok := s.facts[address]
	return fact, ok, nil
}

func (s *memFactStorage) PutFact(_ context.Context, address string, fact Fact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.facts[address] = fact
	return nil
}

func (s *memFactStorage) InvalidateFact(_ context.Context, address string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.facts, address)
	return nil
}

func (s *memFactStorage) InvalidateAllFacts(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.facts = make(map[string]Fact)
	return nil
}

func ptr[T any](v T) *T {
	return &v
}

// fixedNow pins the service clock so window checks are deterministic.
var fixedNow = time.Unix(1_700_000_000, 0)

func withFixedNow() Option {
	return func(s *service) {
		s.now = func() time.Time { return fixedNow }
	}
}

// recentBlockTime returns a block time the given duration before the pinned
// clock.
func recentBlockTime(ago time.Duration) *int64 {
	return ptr(fixedNow.Add(-ago).Unix())
}

// fundingTx builds a transaction whose only instruction is a parsed native
// transfer.
func fundingTx(sig string, blockTime *int64, from, to string, lamports uint64) *TransactionRecord {
	return &TransactionRecord{
		Signature: sig,
		BlockTime: blockTime,
		Instructions: []Instruction{
			{
				Program:   "system",
				ProgramID: systemProgramID,
				Parsed: &ParsedInstruction{
					Type: "transfer",
					Info: TransferInfo{Source: from, Destination: to, Lamports: lamports},
				},
			},
		},
	}
}
