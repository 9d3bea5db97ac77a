package txbuilder

import (
	"crypto/ed25519"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
)

func newKey(t *testing.T) solana.PrivateKey {
	t.Helper()
	key, err := solana.NewRandomPrivateKey()
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	return key
}

func TestBuild(t *testing.T) {
	from := newKey(t)
	to := newKey(t).PublicKey()
	blockhash := solana.Hash{1, 2, 3}

	tx, err := Build(Transfer{From: from, To: to, Lamports: 1_123_000}, blockhash)
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if len(tx.Signatures) != 1 {
		t.Fatalf("Signatures = %d, want 1", len(tx.Signatures))
	}
	if !tx.Message.AccountKeys[0].Equals(from.PublicKey()) {
		t.Errorf("fee payer = %s, want %s", tx.Message.AccountKeys[0], from.PublicKey())
	}
	if tx.Message.RecentBlockhash != blockhash {
		t.Errorf("RecentBlockhash = %s, want %s", tx.Message.RecentBlockhash, blockhash)
	}

	msg, err := tx.Message.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary() error: %v", err)
	}
	pub := from.PublicKey()
	if !ed25519.Verify(ed25519.PublicKey(pub[:]), msg, tx.Signatures[0][:]) {
		t.Error("signature does not verify against the source public key")
	}

	if len(tx.Message.Instructions) != 1 {
		t.Fatalf("Instructions = %d, want 1", len(tx.Message.Instructions))
	}
	ix := tx.Message.Instructions[0]
	program := tx.Message.AccountKeys[ix.ProgramIDIndex]
	if !program.Equals(solana.SystemProgramID) {
		t.Errorf("program = %s, want system program", program)
	}

	// system transfer: u32 variant index 2, u64 lamports, both little endian
	data := []byte(ix.Data)
	if len(data) != 12 {
		t.Fatalf("instruction data = %d bytes, want 12", len(data))
	}
	if v := binary.LittleEndian.Uint32(data[:4]); v != 2 {
		t.Errorf("instruction variant = %d, want 2", v)
	}
	if l := binary.LittleEndian.Uint64(data[4:]); l != 1_123_000 {
		t.Errorf("lamports = %d, want 1123000", l)
	}
	if dest := tx.Message.AccountKeys[ix.Accounts[1]]; !dest.Equals(to) {
		t.Errorf("destination = %s, want %s", dest, to)
	}
}

func TestBuild_Errors(t *testing.T) {
	from := newKey(t)

	_, err := Build(Transfer{From: from, To: newKey(t).PublicKey()}, solana.Hash{})
	if !errors.Is(err, ErrZeroAmount) {
		t.Errorf("Build() zero amount error = %v, want ErrZeroAmount", err)
	}

	_, err = Build(Transfer{From: from, To: from.PublicKey(), Lamports: 1}, solana.Hash{})
	if !errors.Is(err, ErrSameSource) {
		t.Errorf("Build() self transfer error = %v, want ErrSameSource", err)
	}
}
