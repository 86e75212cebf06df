package testing

import (
	"context"
	"errors"
	"sync"

	"github.com/aristath/folio/internal/domain"
)

// MockLoader is a mock implementation of domain.TransactionLoader for testing
type MockLoader struct {
	mu    sync.RWMutex
	txs   []domain.Transaction
	err   error
	calls int
}

// NewMockLoader creates a new mock loader returning txs
func NewMockLoader(txs []domain.Transaction) *MockLoader {
	return &MockLoader{txs: txs}
}

// SetTransactions sets the transactions to return
func (m *MockLoader) SetTransactions(txs []domain.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txs = txs
}

// SetError sets the error to return
func (m *MockLoader) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Load returns the configured transactions
func (m *MockLoader) Load(_ context.Context) ([]domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	out := make([]domain.Transaction, len(m.txs))
	copy(out, m.txs)
	return out, nil
}

// Calls returns how many times Load was called
func (m *MockLoader) Calls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls
}

// MockPriceFeed is a mock implementation of domain.PriceFeed for testing.
// Tickers without a configured price fail with FailureNoData.
type MockPriceFeed struct {
	mu     sync.RWMutex
	prices map[string]float64
	failed map[string]domain.LookupFailure
	calls  map[string]int
}

// NewMockPriceFeed creates a new mock price feed
func NewMockPriceFeed() *MockPriceFeed {
	return &MockPriceFeed{
		prices: make(map[string]float64),
		failed: make(map[string]domain.LookupFailure),
		calls:  make(map[string]int),
	}
}

// SetPrice sets the close returned for a ticker
func (m *MockPriceFeed) SetPrice(ticker string, price float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prices[ticker] = price
	delete(m.failed, ticker)
}

// SetFailure makes lookups for a ticker fail
func (m *MockPriceFeed) SetFailure(ticker string, reason domain.LookupFailure) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failed[ticker] = reason
}

// LatestClose returns the configured quote
func (m *MockPriceFeed) LatestClose(_ context.Context, ticker string) domain.Quote {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[ticker]++
	if reason, ok := m.failed[ticker]; ok {
		return domain.QuoteFailed(reason, errors.New("mock failure"))
	}
	price, ok := m.prices[ticker]
	if !ok {
		return domain.QuoteFailed(domain.FailureNoData, errors.New("no mock price"))
	}
	return domain.QuoteOf(price)
}

// Calls returns how many lookups were made for a ticker
func (m *MockPriceFeed) Calls(ticker string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls[ticker]
}

// MockRateFeed is a mock implementation of domain.RateFeed for testing
type MockRateFeed struct {
	mu    sync.RWMutex
	rate  float64
	fail  domain.LookupFailure
	calls int
}

// NewMockRateFeed creates a mock rate feed returning rate
func NewMockRateFeed(rate float64) *MockRateFeed {
	return &MockRateFeed{rate: rate}
}

// SetFailure makes every lookup fail
func (m *MockRateFeed) SetFailure(reason domain.LookupFailure) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = reason
}

// Rate returns the configured rate
func (m *MockRateFeed) Rate(_ context.Context, _, _ string) domain.Quote {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.fail != domain.FailureNone {
		return domain.QuoteFailed(m.fail, errors.New("mock failure"))
	}
	return domain.QuoteOf(m.rate)
}

// Calls returns how many lookups were made
func (m *MockRateFeed) Calls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls
}
