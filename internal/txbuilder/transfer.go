package txbuilder

import (
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
)

var (
	ErrZeroAmount = errors.New("transfer amount must be greater than zero")
	ErrSameSource = errors.New("transfer destination equals source")
)

// Transfer describes a native SOL transfer
type Transfer struct {
	From     solana.PrivateKey
	To       solana.PublicKey
	Lamports uint64
}

// Build creates a System Program transfer against blockhash, paid and signed by the source
func Build(t Transfer, blockhash solana.Hash) (*solana.Transaction, error) {
	if t.Lamports == 0 {
		return nil, ErrZeroAmount
	}

	from := t.From.PublicKey()
	if from.Equals(t.To) {
		return nil, ErrSameSource
	}

	ix, err := system.NewTransferInstruction(t.Lamports, from, t.To).ValidateAndBuild()
	if err != nil {
		return nil, fmt.Errorf("failed to build transfer instruction: %w", err)
	}

	tx, err := solana.NewTransaction(
		[]solana.Instruction{ix},
		blockhash,
		solana.TransactionPayer(from),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(from) {
			return &t.From
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sign transfer: %w", err)
	}

	return tx, nil
}
