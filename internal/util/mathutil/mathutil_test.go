package mathutil

import (
	"errors"
	"math"
	"testing"
)

func TestSOLToLamports(t *testing.T) {
	tests := []struct {
		name    string
		sol     float64
		want    uint64
		wantErr bool
	}{
		{name: "transfer floor", sol: 0.0011, want: 1_100_000},
		{name: "transfer ceiling", sol: 0.001199, want: 1_199_000},
		{name: "rent fallback", sol: 0.001, want: 1_000_000},
		{name: "one SOL", sol: 1, want: 1_000_000_000},
		{name: "zero", sol: 0, want: 0},
		{name: "negative", sol: -0.5, wantErr: true},
		{name: "NaN", sol: math.NaN(), wantErr: true},
		{name: "too large", sol: 1e12, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SOLToLamports(tt.sol)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SOLToLamports(%v) error = %v, wantErr %v", tt.sol, err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, ErrOverflow) {
					t.Errorf("error should wrap ErrOverflow: %v", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("SOLToLamports(%v) = %d, want %d", tt.sol, got, tt.want)
			}
		})
	}
}

func TestFormatSOL(t *testing.T) {
	tests := []struct {
		lamports uint64
		want     string
	}{
		{1_100_000, "0.0011"},
		{1_123_000, "0.001123"},
		{1_000_000_000, "1"},
		{0, "0"},
	}

	for _, tt := range tests {
		if got := FormatSOL(tt.lamports); got != tt.want {
			t.Errorf("FormatSOL(%d) = %q, want %q", tt.lamports, got, tt.want)
		}
	}
}
