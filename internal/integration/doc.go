// Package integration provides integration tests for soldrip.
//
// These tests run the distributor against a real Solana JSON-RPC endpoint.
// They skip themselves when no endpoint answers, so they are safe to keep
// in CI pipelines.
//
// # Running Integration Tests
//
// Read-only tests (rent exemption, balances, blockhash):
//
//	RPC_URL=http://localhost:8899 go test ./internal/integration/...
//
// Transfer tests (requires a funded account):
//
//	RPC_URL=http://localhost:8899 \
//	PRIVATE_KEY=<base58 secret key> \
//	go test ./internal/integration/...
//
// Skip integration tests in CI:
//
//	go test -short ./...
//
// # Environment Variables
//
//   - RPC_URL: RPC endpoint URL (default: http://localhost:8899)
//   - PRIVATE_KEY: base58 secret key or seed phrase of a funded account
//
// # Local Development
//
// A local validator from the Solana CLI works well:
//
//	solana-test-validator
//	solana airdrop 1 <address> --url http://localhost:8899
package integration
