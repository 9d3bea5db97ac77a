package testing

import (
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
)

func TestGenerateTestKeys(t *testing.T) {
	keys := GenerateTestKeys(t, 5)
	if len(keys) != 5 {
		t.Errorf("Expected 5 keys, got %d", len(keys))
	}

	// Verify all keys are unique
	seen := make(map[solana.PublicKey]bool)
	for i, key := range keys {
		if seen[key.PublicKey()] {
			t.Errorf("Key %d has duplicate address", i)
		}
		seen[key.PublicKey()] = true
	}
}

func TestLamports(t *testing.T) {
	AssertEqual(t, Lamports(0.002), uint64(2_000_000))
	AssertEqual(t, Lamports(0.001199), uint64(1_199_000))
	AssertEqual(t, Lamports(1), solana.LAMPORTS_PER_SOL)
}

func TestDecodeTransfer(t *testing.T) {
	from := GenerateTestKey(t)
	to := RandomAddresses(t, 1)[0]

	ix := system.NewTransferInstruction(1_150_000, from.PublicKey(), to).Build()
	tx, err := solana.NewTransaction([]solana.Instruction{ix}, solana.Hash{1}, solana.TransactionPayer(from.PublicKey()))
	AssertNoError(t, err)
	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(from.PublicKey()) {
			return &from
		}
		return nil
	})
	AssertNoError(t, err)

	tr, err := DecodeTransfer(tx)
	AssertNoError(t, err)
	AssertEqual(t, tr.From, from.PublicKey())
	AssertEqual(t, tr.To, to)
	AssertEqual(t, tr.Lamports, uint64(1_150_000))
	AssertEqual(t, tr.Signature, tx.Signatures[0])

	_, err = DecodeTransfer(nil)
	AssertError(t, err)
}

func TestMockClient_SendErrors(t *testing.T) {
	m := NewMockClient()
	m.SendErrors = []error{errors.New("send failed"), nil}

	from := GenerateTestKey(t)
	ix := system.NewTransferInstruction(1, from.PublicKey(), RandomAddresses(t, 1)[0]).Build()
	tx, err := solana.NewTransaction([]solana.Instruction{ix}, solana.Hash{1}, solana.TransactionPayer(from.PublicKey()))
	AssertNoError(t, err)
	tx.Signatures = []solana.Signature{{1}}

	_, err = m.SendTransaction(t.Context(), tx)
	AssertError(t, err)
	sig, err := m.SendTransaction(t.Context(), tx)
	AssertNoError(t, err)
	AssertEqual(t, sig, solana.Signature{1})
	AssertEqual(t, m.GetCallCount("SendTransaction"), 2)
	AssertLen(t, m.SentTransactions, 1)
}
