package distributor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/0xmhha/soldrip/internal/client"
	testutil "github.com/0xmhha/soldrip/internal/testing"
	"github.com/0xmhha/soldrip/internal/wallet"
)

func testKeypair(t *testing.T) *wallet.Keypair {
	t.Helper()
	kp, err := wallet.KeypairFromCredential(testutil.GenerateTestKey(t).String())
	testutil.AssertNoError(t, err)
	return kp
}

func TestTransfer_FirstAttempt(t *testing.T) {
	mock := testutil.NewMockClient()
	d, _, sleeper := newTestDistributor(mock, nil)
	kp := testKeypair(t)
	dest := testutil.RandomAddresses(t, 1)[0]

	var confirmed uint64
	d.WithCallbacks(&Callbacks{OnConfirmed: func(l uint64, _ time.Duration) { confirmed += l }})

	outcome := d.Transfer(context.Background(), kp, dest, 1_150_000)
	testutil.AssertEqual(t, outcome.Status, TransferConfirmed)
	testutil.AssertEqual(t, outcome.Attempts, 1)
	testutil.AssertNoError(t, outcome.Err)
	testutil.AssertEqual(t, confirmed, uint64(1_150_000))
	testutil.AssertLen(t, sleeper.sleeps, 0)

	transfers := mock.Transfers()
	testutil.AssertLen(t, transfers, 1)
	testutil.AssertEqual(t, transfers[0].Lamports, uint64(1_150_000))
	testutil.AssertEqual(t, transfers[0].To, dest)
}

func TestTransfer_RetryThenSuccess(t *testing.T) {
	mock := testutil.NewMockClient()
	mock.SendErrors = []error{errors.New("blockhash not found"), nil}
	d, _, sleeper := newTestDistributor(mock, nil)

	var attempts []int
	d.WithCallbacks(&Callbacks{OnAttempt: func(a int) { attempts = append(attempts, a) }})

	outcome := d.Transfer(context.Background(), testKeypair(t), testutil.RandomAddresses(t, 1)[0], 1_100_000)
	testutil.AssertEqual(t, outcome.Status, TransferConfirmed)
	testutil.AssertEqual(t, outcome.Attempts, 2)
	testutil.AssertLen(t, attempts, 2)
	testutil.AssertLen(t, sleeper.sleeps, 1)
	testutil.AssertEqual(t, sleeper.sleeps[0], 2*time.Second)
	testutil.AssertEqual(t, mock.GetCallCount("LatestBlockhash"), 2)
}

func TestTransfer_Exhausted(t *testing.T) {
	tests := []struct {
		name  string
		setup func(m *testutil.MockClient)
		want  error
	}{
		{
			name:  "send error",
			setup: func(m *testutil.MockClient) { m.SendError = errors.New("insufficient funds") },
		},
		{
			name:  "blockhash error",
			setup: func(m *testutil.MockClient) { m.BlockhashError = errors.New("node behind") },
		},
		{
			name:  "confirmation failure",
			setup: func(m *testutil.MockClient) { m.ConfirmError = client.ErrTransactionFailed },
			want:  client.ErrTransactionFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := testutil.NewMockClient()
			tt.setup(mock)
			d, _, sleeper := newTestDistributor(mock, nil)

			var failed error
			d.WithCallbacks(&Callbacks{OnFailed: func(err error) { failed = err }})

			outcome := d.Transfer(context.Background(), testKeypair(t), testutil.RandomAddresses(t, 1)[0], 1_100_000)
			testutil.AssertEqual(t, outcome.Status, TransferFailed)
			testutil.AssertEqual(t, outcome.Attempts, 3)
			testutil.AssertError(t, outcome.Err)
			testutil.AssertError(t, failed)
			if tt.want != nil && !errors.Is(outcome.Err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, outcome.Err)
			}

			// Pauses only separate attempts
			testutil.AssertLen(t, sleeper.sleeps, 2)
			for _, s := range sleeper.sleeps {
				testutil.AssertEqual(t, s, 2*time.Second)
			}
		})
	}
}

func TestTransfer_FailureInsideRun(t *testing.T) {
	mock := testutil.NewMockClient()
	mock.SendError = errors.New("rejected")
	key := testutil.GenerateTestKey(t)
	mock.SetBalance(key.PublicKey(), testutil.Lamports(0.01))

	d, _, sleeper := newTestDistributor(mock, nil)
	result, err := d.Run(context.Background(), []string{key.String()}, testutil.RandomAddresses(t, 2))
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, result.Count(TransferFailed), 2)
	testutil.AssertEqual(t, result.Attempts(), 6)
	testutil.AssertEqual(t, mock.GetCallCount("SendTransaction"), 6)

	// 2 retry pauses plus one inter-transfer delay per destination
	testutil.AssertLen(t, sleeper.sleeps, 6)
	testutil.AssertEqual(t, sleeper.sleeps[0], 2*time.Second)
	testutil.AssertEqual(t, sleeper.sleeps[1], 2*time.Second)
	testutil.AssertInRange(t, sleeper.sleeps[2], 500*time.Millisecond, 1500*time.Millisecond)
}

func TestTransfer_SingleAttemptConfig(t *testing.T) {
	mock := testutil.NewMockClient()
	mock.SendError = errors.New("rejected")
	cfg := DefaultConfig()
	cfg.MaxAttempts = 0
	d, _, sleeper := newTestDistributor(mock, cfg)

	outcome := d.Transfer(context.Background(), testKeypair(t), testutil.RandomAddresses(t, 1)[0], 1_100_000)
	testutil.AssertEqual(t, outcome.Attempts, 1)
	testutil.AssertLen(t, sleeper.sleeps, 0)
}
