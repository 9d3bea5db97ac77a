package wallet

import (
	"encoding/hex"
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "privateKeys8.json")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write credential file: %v", err)
	}
	return path
}

func TestLoadCredentials(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		want      int
		wantErr   bool
		wantEmpty bool
	}{
		{name: "two secrets", content: `["a", "b"]`, want: 2},
		{name: "empty list", content: `[]`, wantErr: true, wantEmpty: true},
		{name: "null", content: `null`, wantErr: true, wantEmpty: true},
		{name: "object", content: `{"key": "a"}`, wantErr: true},
		{name: "not strings", content: `[1, 2]`, wantErr: true},
		{name: "malformed", content: `["a",`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			secrets, err := LoadCredentials(writeFile(t, tt.content))
			if (err != nil) != tt.wantErr {
				t.Fatalf("LoadCredentials() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantEmpty && !errors.Is(err, ErrNoCredentials) {
				t.Errorf("error = %v, want ErrNoCredentials", err)
			}
			if err == nil && len(secrets) != tt.want {
				t.Errorf("len(secrets) = %d, want %d", len(secrets), tt.want)
			}
		})
	}
}

func TestLoadCredentials_MissingFile(t *testing.T) {
	_, err := LoadCredentials(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Fatal("LoadCredentials() expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want os.ErrNotExist", err)
	}
}

func TestKeypairFromCredential_Base58(t *testing.T) {
	key, err := solana.NewRandomPrivateKey()
	if err != nil {
		t.Fatalf("NewRandomPrivateKey() error: %v", err)
	}

	kp, err := KeypairFromCredential("  " + key.String() + "\n")
	if err != nil {
		t.Fatalf("KeypairFromCredential() error: %v", err)
	}
	if !kp.PublicKey().Equals(key.PublicKey()) {
		t.Errorf("PublicKey() = %s, want %s", kp.PublicKey(), key.PublicKey())
	}
	if kp.Secret() != key.String() {
		t.Error("Secret() should round-trip the base58 secret key")
	}
}

func TestKeypairFromCredential_Invalid(t *testing.T) {
	key, _ := solana.NewRandomPrivateKey()
	other, _ := solana.NewRandomPrivateKey()

	// seed of one key glued to the public half of another
	mismatched := make([]byte, 64)
	copy(mismatched, key[:32])
	copy(mismatched[32:], other[32:])

	tests := []struct {
		name   string
		secret string
	}{
		{name: "empty", secret: "   "},
		{name: "not base58", secret: "0OIl0OIl"},
		{name: "short key", secret: solana.PrivateKey(key[:32]).String()},
		{name: "mismatched halves", secret: solana.PrivateKey(mismatched).String()},
		{name: "bad mnemonic", secret: "abandon abandon abandon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := KeypairFromCredential(tt.secret)
			if !errors.Is(err, ErrInvalidCredential) {
				t.Errorf("KeypairFromCredential() error = %v, want ErrInvalidCredential", err)
			}
		})
	}
}

func TestKeypairFromCredential_Mnemonic(t *testing.T) {
	kp1, err := KeypairFromCredential(testMnemonic)
	if err != nil {
		t.Fatalf("KeypairFromCredential() error: %v", err)
	}

	// extra whitespace between words is tolerated
	kp2, err := KeypairFromCredential("abandon  abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon\tabout")
	if err != nil {
		t.Fatalf("KeypairFromCredential() error: %v", err)
	}
	if !kp1.PublicKey().Equals(kp2.PublicKey()) {
		t.Error("same mnemonic should derive the same keypair")
	}

	kp3, err := KeypairFromMnemonic(testMnemonic, "m/44'/501'/1'/0'")
	if err != nil {
		t.Fatalf("KeypairFromMnemonic() error: %v", err)
	}
	if kp1.PublicKey().Equals(kp3.PublicKey()) {
		t.Error("different accounts should derive different keypairs")
	}

	// derived keys must survive the base58 path too
	kp4, err := KeypairFromCredential(kp1.Secret())
	if err != nil {
		t.Fatalf("KeypairFromCredential(secret) error: %v", err)
	}
	if !kp4.PublicKey().Equals(kp1.PublicKey()) {
		t.Error("derived secret key should decode to the same public key")
	}
}

func TestDeriveEd25519_SLIP10Vector(t *testing.T) {
	seed, _ := hex.DecodeString("000102030405060708090a0b0c0d0e0f")

	tests := []struct {
		path string
		want string
	}{
		{"m/0'", "68e0fe46dfb67e368c75379acec591dad19df3cde26e63b93a8e704f1dade7a3"},
		{"m/0'/1'", "b1d0bad404bf35da785a64ca1ac54b2617211d2777696fbffaf208f746ae84f2"},
		{"m/0'/1'/2'", "92a5b23c0b8a99e37d07df3fb9966917f5d06e02ddbd909c7e184371463e9fc9"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			key, err := deriveEd25519(seed, tt.path)
			if err != nil {
				t.Fatalf("deriveEd25519() error: %v", err)
			}
			if got := hex.EncodeToString(key); got != tt.want {
				t.Errorf("deriveEd25519(%s) = %s, want %s", tt.path, got, tt.want)
			}
		})
	}
}

func TestKeypairFromMnemonic_InvalidPath(t *testing.T) {
	kp, err := KeypairFromMnemonic(testMnemonic, "m/x'")
	if !errors.Is(err, ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential, got %v", err)
	}
	if kp != nil {
		t.Error("expected nil keypair for an invalid path")
	}
}

func TestDestinationCount(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	seen := make(map[int]bool)

	for i := 0; i < 2000; i++ {
		n := DestinationCount(rng, 108, 120)
		if n < 108 || n > 120 {
			t.Fatalf("DestinationCount() = %d, want within [108, 120]", n)
		}
		seen[n] = true
	}

	// both bounds are inclusive
	if !seen[108] || !seen[120] {
		t.Error("DestinationCount() never produced a bound value")
	}

	if n := DestinationCount(rng, 5, 5); n != 5 {
		t.Errorf("DestinationCount(5, 5) = %d, want 5", n)
	}
}

func TestGenerateDestinations(t *testing.T) {
	addrs, err := GenerateDestinations(25)
	if err != nil {
		t.Fatalf("GenerateDestinations() error: %v", err)
	}
	if len(addrs) != 25 {
		t.Fatalf("len = %d, want 25", len(addrs))
	}

	seen := make(map[solana.PublicKey]bool)
	for i, addr := range addrs {
		if addr.IsZero() {
			t.Errorf("address %d is zero", i)
		}
		if seen[addr] {
			t.Errorf("address %d is duplicated", i)
		}
		seen[addr] = true
	}
}
