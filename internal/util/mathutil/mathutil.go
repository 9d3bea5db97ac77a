package mathutil

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/gagliardetto/solana-go"
)

var ErrOverflow = errors.New("value exceeds target type capacity")

// LamportsPerMicroSOL is the lamport size of the 6th decimal of one SOL
const LamportsPerMicroSOL uint64 = 1_000

// SOLToLamports converts a SOL amount to lamports, rounding to the nearest lamport
func SOLToLamports(sol float64) (uint64, error) {
	if math.IsNaN(sol) || sol < 0 {
		return 0, fmt.Errorf("negative or NaN amount %v cannot convert to lamports: %w", sol, ErrOverflow)
	}
	lamports := math.Round(sol * float64(solana.LAMPORTS_PER_SOL))
	if lamports >= math.MaxUint64 {
		return 0, fmt.Errorf("amount %v SOL overflows uint64 lamports: %w", sol, ErrOverflow)
	}
	return uint64(lamports), nil
}

// LamportsToSOL converts lamports to SOL
func LamportsToSOL(lamports uint64) float64 {
	return float64(lamports) / float64(solana.LAMPORTS_PER_SOL)
}

// FormatSOL renders lamports as a SOL decimal without trailing zeros
func FormatSOL(lamports uint64) string {
	return strconv.FormatFloat(LamportsToSOL(lamports), 'f', -1, 64)
}
