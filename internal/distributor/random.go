package distributor

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/0xmhha/soldrip/internal/util/mathutil"
)

// randomAmount draws a lamport amount from [MinAmount, MaxAmount] at 6-decimal SOL precision
func (d *Distributor) randomAmount() uint64 {
	return RandomAmount(d.rng, d.config.MinAmount, d.config.MaxAmount)
}

// randomDelay draws a whole-millisecond pause from [MinDelay, MaxDelay]
func (d *Distributor) randomDelay() time.Duration {
	return RandomDelay(d.rng, d.config.MinDelay, d.config.MaxDelay)
}

// RandomAmount draws uniformly from [min, max] rounded to 0.000001 SOL
func RandomAmount(rng *rand.Rand, min, max uint64) uint64 {
	if max <= min {
		return min
	}
	span := float64(max-min) / float64(mathutil.LamportsPerMicroSOL)
	steps := uint64(math.Round(rng.Float64() * span))
	amount := min + steps*mathutil.LamportsPerMicroSOL
	if amount > max {
		amount = max
	}
	return amount
}

// RandomDelay draws uniformly from [min, max] in whole milliseconds
func RandomDelay(rng *rand.Rand, min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	spanMs := (max - min).Milliseconds()
	return min + time.Duration(rng.Int64N(spanMs+1))*time.Millisecond
}

// SleepContext waits for d, returning early with ctx.Err() if ctx ends
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
