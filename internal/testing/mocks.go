package testing

import (
	"context"
	"sync"

	"github.com/gagliardetto/solana-go"
)

// MockClient is an in-memory implementation of the distributor RPC client
type MockClient struct {
	mu sync.Mutex

	// Configurable return values
	Balances           map[solana.PublicKey]uint64
	RentExemptionValue uint64
	BlockhashValue     solana.Hash

	// Error responses
	BalanceError       error
	RentExemptionError error
	BlockhashError     error
	SendError          error
	ConfirmError       error

	// SendErrors are consumed one per SendTransaction call before SendError applies;
	// a nil entry lets that call succeed.
	SendErrors []error

	// Sent transactions tracking
	SentTransactions []*solana.Transaction

	// Call counters
	CallCounts map[string]int
}

// NewMockClient creates a new mock client with default values
func NewMockClient() *MockClient {
	return &MockClient{
		Balances:           make(map[solana.PublicKey]uint64),
		RentExemptionValue: 890_880,
		BlockhashValue:     solana.Hash{9, 9, 9},
		SentTransactions:   make([]*solana.Transaction, 0),
		CallCounts:         make(map[string]int),
	}
}

func (m *MockClient) incrementCallCount(method string) {
	m.CallCounts[method]++
}

// GetCallCount returns the number of times a method was called
func (m *MockClient) GetCallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CallCounts[method]
}

// TotalCalls returns the number of calls across all methods
func (m *MockClient) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.CallCounts {
		total += n
	}
	return total
}

// SetBalance sets the balance returned for account
func (m *MockClient) SetBalance(account solana.PublicKey, lamports uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Balances[account] = lamports
}

// GetBalance returns the configured balance, zero when unknown
func (m *MockClient) GetBalance(_ context.Context, account solana.PublicKey) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.incrementCallCount("GetBalance")
	if m.BalanceError != nil {
		return 0, m.BalanceError
	}
	return m.Balances[account], nil
}

// GetMinimumBalanceForRentExemption returns the configured rent-exempt minimum
func (m *MockClient) GetMinimumBalanceForRentExemption(_ context.Context, _ uint64) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.incrementCallCount("GetMinimumBalanceForRentExemption")
	if m.RentExemptionError != nil {
		return 0, m.RentExemptionError
	}
	return m.RentExemptionValue, nil
}

// LatestBlockhash returns the configured blockhash
func (m *MockClient) LatestBlockhash(_ context.Context) (solana.Hash, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.incrementCallCount("LatestBlockhash")
	if m.BlockhashError != nil {
		return solana.Hash{}, m.BlockhashError
	}
	return m.BlockhashValue, nil
}

// SendTransaction records tx and returns its signature
func (m *MockClient) SendTransaction(_ context.Context, tx *solana.Transaction) (solana.Signature, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.incrementCallCount("SendTransaction")

	if len(m.SendErrors) > 0 {
		err := m.SendErrors[0]
		m.SendErrors = m.SendErrors[1:]
		if err != nil {
			return solana.Signature{}, err
		}
	} else if m.SendError != nil {
		return solana.Signature{}, m.SendError
	}

	m.SentTransactions = append(m.SentTransactions, tx)
	return tx.Signatures[0], nil
}

// ConfirmTransaction returns the configured confirmation error
func (m *MockClient) ConfirmTransaction(_ context.Context, _ solana.Signature) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.incrementCallCount("ConfirmTransaction")
	return m.ConfirmError
}

// Transfers decodes every sent transaction
func (m *MockClient) Transfers() []Transfer {
	m.mu.Lock()
	defer m.mu.Unlock()
	transfers := make([]Transfer, 0, len(m.SentTransactions))
	for _, tx := range m.SentTransactions {
		if tr, err := DecodeTransfer(tx); err == nil {
			transfers = append(transfers, tr)
		}
	}
	return transfers
}
