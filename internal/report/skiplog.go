package report

import (
	"fmt"
	"os"
	"sync"

	"github.com/gagliardetto/solana-go"
)

// SkipLog appends accounts that lack the minimum balance to a text file.
// Each line is "<address>, <base58 secret>". The file is never read back.
type SkipLog struct {
	path string
	mu   sync.Mutex
}

// NewSkipLog creates a SkipLog writing to path
func NewSkipLog(path string) *SkipLog {
	return &SkipLog{path: path}
}

// Path returns the log file location
func (s *SkipLog) Path() string {
	return s.path
}

// Record appends one line for address
func (s *SkipLog) Record(address solana.PublicKey, secret string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open skip log: %w", err)
	}

	if _, err := fmt.Fprintf(file, "%s, %s\n", address, secret); err != nil {
		file.Close()
		return fmt.Errorf("failed to write skip log: %w", err)
	}

	return file.Close()
}
