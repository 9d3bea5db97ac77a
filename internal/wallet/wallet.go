package wallet

import (
	"crypto/ed25519"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/blocto/solana-go-sdk/pkg/hdwallet"
	"github.com/gagliardetto/solana-go"
	"github.com/tyler-smith/go-bip39"
)

// DerivationPath is the standard Solana wallet path used for seed phrases
const DerivationPath = "m/44'/501'/0'/0'"

var (
	ErrNoCredentials     = errors.New("credential file contains no keys")
	ErrInvalidCredential = errors.New("invalid credential")
)

// Keypair holds a source account's signing key
type Keypair struct {
	privateKey solana.PrivateKey
}

// PublicKey returns the account address
func (k *Keypair) PublicKey() solana.PublicKey {
	return k.privateKey.PublicKey()
}

// PrivateKey returns the 64-byte ed25519 secret key
func (k *Keypair) PrivateKey() solana.PrivateKey {
	return k.privateKey
}

// Secret returns the base58 encoding of the secret key
func (k *Keypair) Secret() string {
	return k.privateKey.String()
}

// LoadCredentials reads a JSON array of secrets from path
func LoadCredentials(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read credential file: %w", err)
	}

	var secrets []string
	if err := json.Unmarshal(data, &secrets); err != nil {
		return nil, fmt.Errorf("failed to parse credential file %s: %w", path, err)
	}
	if len(secrets) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoCredentials)
	}

	return secrets, nil
}

// KeypairFromCredential derives a keypair from a base58 secret key or a BIP39 seed phrase
func KeypairFromCredential(secret string) (*Keypair, error) {
	words := strings.Fields(secret)
	switch len(words) {
	case 0:
		return nil, fmt.Errorf("%w: empty secret", ErrInvalidCredential)
	case 1:
		return keypairFromBase58(words[0])
	default:
		return KeypairFromMnemonic(strings.Join(words, " "), DerivationPath)
	}
}

func keypairFromBase58(secret string) (*Keypair, error) {
	key, err := solana.PrivateKeyFromBase58(secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}
	if len(key) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("%w: secret key is %d bytes, want %d", ErrInvalidCredential, len(key), ed25519.PrivateKeySize)
	}

	// The trailing 32 bytes must be the public key of the leading seed.
	expected := ed25519.NewKeyFromSeed(key[:ed25519.SeedSize])
	if !expected.Equal(ed25519.PrivateKey(key)) {
		return nil, fmt.Errorf("%w: public key does not match secret key", ErrInvalidCredential)
	}

	return &Keypair{privateKey: key}, nil
}

// KeypairFromMnemonic derives the ed25519 keypair at path from a BIP39 seed phrase
func KeypairFromMnemonic(mnemonic, path string) (*Keypair, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, fmt.Errorf("%w: seed phrase is not a valid BIP39 mnemonic", ErrInvalidCredential)
	}

	seed := bip39.NewSeed(mnemonic, "")
	derived, err := deriveEd25519(seed, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCredential, err)
	}

	return &Keypair{privateKey: solana.PrivateKey(ed25519.NewKeyFromSeed(derived))}, nil
}

// deriveEd25519 walks a hardened SLIP-0010 path and returns the 32-byte private seed
func deriveEd25519(seed []byte, path string) ([]byte, error) {
	key, err := hdwallet.Derived(path, seed)
	if err != nil {
		return nil, fmt.Errorf("derivation path %q: %w", path, err)
	}
	return key.PrivateKey, nil
}

// DestinationCount draws a destination count uniformly from [min, max]
func DestinationCount(rng *rand.Rand, min, max int) int {
	if max <= min {
		return min
	}
	return min + rng.IntN(max-min+1)
}

// GenerateDestinations creates n fresh addresses whose private keys are discarded
func GenerateDestinations(n int) ([]solana.PublicKey, error) {
	addresses := make([]solana.PublicKey, 0, n)
	for i := 0; i < n; i++ {
		key, err := solana.NewRandomPrivateKey()
		if err != nil {
			return nil, fmt.Errorf("failed to generate destination %d: %w", i, err)
		}
		addresses = append(addresses, key.PublicKey())
	}
	return addresses, nil
}
