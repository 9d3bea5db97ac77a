// Package testing provides test utilities and helpers for soldrip tests.
package testing

import (
	"encoding/binary"
	"fmt"
	"math"
	"testing"

	"github.com/gagliardetto/solana-go"
)

// TestMnemonic is a well-known test mnemonic (DO NOT use in production)
const TestMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

// Transfer is a decoded System Program transfer
type Transfer struct {
	From      solana.PublicKey
	To        solana.PublicKey
	Lamports  uint64
	Signature solana.Signature
}

// GenerateTestKey generates a random private key for testing
func GenerateTestKey(t *testing.T) solana.PrivateKey {
	t.Helper()
	key, err := solana.NewRandomPrivateKey()
	if err != nil {
		t.Fatalf("failed to generate test key: %v", err)
	}
	return key
}

// GenerateTestKeys generates multiple random private keys for testing
func GenerateTestKeys(t *testing.T, count int) []solana.PrivateKey {
	t.Helper()
	keys := make([]solana.PrivateKey, count)
	for i := range count {
		keys[i] = GenerateTestKey(t)
	}
	return keys
}

// RandomAddresses generates multiple random addresses for testing
func RandomAddresses(t *testing.T, count int) []solana.PublicKey {
	t.Helper()
	addrs := make([]solana.PublicKey, count)
	for i := range count {
		addrs[i] = GenerateTestKey(t).PublicKey()
	}
	return addrs
}

// Lamports converts SOL to lamports
func Lamports(sol float64) uint64 {
	return uint64(math.Round(sol * float64(solana.LAMPORTS_PER_SOL)))
}

// DecodeTransfer extracts the single System Program transfer carried by tx
func DecodeTransfer(tx *solana.Transaction) (Transfer, error) {
	if tx == nil || len(tx.Message.Instructions) != 1 || len(tx.Signatures) == 0 {
		return Transfer{}, fmt.Errorf("expected one instruction and a signature")
	}

	ix := tx.Message.Instructions[0]
	data := []byte(ix.Data)
	if len(data) != 12 || binary.LittleEndian.Uint32(data[:4]) != 2 {
		return Transfer{}, fmt.Errorf("instruction is not a system transfer")
	}
	if len(ix.Accounts) < 2 {
		return Transfer{}, fmt.Errorf("transfer instruction has %d accounts", len(ix.Accounts))
	}

	return Transfer{
		From:      tx.Message.AccountKeys[ix.Accounts[0]],
		To:        tx.Message.AccountKeys[ix.Accounts[1]],
		Lamports:  binary.LittleEndian.Uint64(data[4:]),
		Signature: tx.Signatures[0],
	}, nil
}

// AssertNoError fails the test if err is not nil
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error but got nil")
	}
}

// AssertEqual fails the test if got != want
func AssertEqual[T comparable](t *testing.T, got, want T) {
	t.Helper()
	if got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}

// AssertTrue fails the test if condition is false
func AssertTrue(t *testing.T, condition bool, msg string) {
	t.Helper()
	if !condition {
		t.Errorf("assertion failed: %s", msg)
	}
}

// AssertInRange fails the test if v is outside [min, max]
func AssertInRange[T ~int | ~int64 | ~uint64 | ~float64](t *testing.T, v, min, max T) {
	t.Helper()
	if v < min || v > max {
		t.Errorf("value %v outside [%v, %v]", v, min, max)
	}
}

// AssertLen fails the test if the slice length doesn't match
func AssertLen[T any](t *testing.T, slice []T, expectedLen int) {
	t.Helper()
	if len(slice) != expectedLen {
		t.Errorf("expected length %d, got %d", expectedLen, len(slice))
	}
}
