package testing

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// RPCServer is a fake Solana JSON-RPC endpoint backed by httptest
type RPCServer struct {
	server *httptest.Server

	mu                 sync.Mutex
	balances           map[solana.PublicKey]uint64
	rentExemption      uint64
	failRent           bool
	sendFailures       int
	confirmationStatus string
	txErr              any
	transfers          []Transfer
	calls              map[string]int
}

type rpcRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcContext struct {
	Slot uint64 `json:"slot"`
}

// NewRPCServer starts a fake endpoint that confirms every transfer at "confirmed"
func NewRPCServer(t *testing.T) *RPCServer {
	t.Helper()
	s := &RPCServer{
		balances:           make(map[solana.PublicKey]uint64),
		rentExemption:      890_880,
		confirmationStatus: "confirmed",
		calls:              make(map[string]int),
	}
	s.server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.server.Close)
	return s
}

// URL returns the endpoint URL
func (s *RPCServer) URL() string {
	return s.server.URL
}

// SetBalance sets the balance reported for account
func (s *RPCServer) SetBalance(account solana.PublicKey, lamports uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[account] = lamports
}

// SetRentExemption sets the rent-exempt minimum
func (s *RPCServer) SetRentExemption(lamports uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rentExemption = lamports
}

// FailRentExemption makes getMinimumBalanceForRentExemption return an RPC error
func (s *RPCServer) FailRentExemption() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failRent = true
}

// FailSends makes the next n sendTransaction calls return an RPC error
func (s *RPCServer) FailSends(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sendFailures = n
}

// SetConfirmationStatus sets the status reported for every signature; "" reports unknown
func (s *RPCServer) SetConfirmationStatus(status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.confirmationStatus = status
}

// FailTransactions reports every signature as landed with the given error
func (s *RPCServer) FailTransactions(txErr any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txErr = txErr
}

// Transfers returns the transfers accepted by sendTransaction
func (s *RPCServer) Transfers() []Transfer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Transfer(nil), s.transfers...)
}

// CallCount returns how often method was called
func (s *RPCServer) CallCount(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}

// TotalCalls returns the number of RPC calls received
func (s *RPCServer) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.calls {
		total += n
	}
	return total
}

func (s *RPCServer) handle(w http.ResponseWriter, r *http.Request) {
	var req rpcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[req.Method]++

	switch req.Method {
	case "getBalance":
		var account solana.PublicKey
		if err := unmarshalParam(req.Params, 0, &account); err != nil {
			writeError(w, req.ID, -32602, err.Error())
			return
		}
		writeResult(w, req.ID, map[string]any{
			"context": rpcContext{Slot: 1},
			"value":   s.balances[account],
		})

	case "getMinimumBalanceForRentExemption":
		if s.failRent {
			writeError(w, req.ID, -32603, "rent exemption unavailable")
			return
		}
		writeResult(w, req.ID, s.rentExemption)

	case "getLatestBlockhash":
		writeResult(w, req.ID, map[string]any{
			"context": rpcContext{Slot: 1},
			"value": map[string]any{
				"blockhash":            solana.Hash{7, 7, 7}.String(),
				"lastValidBlockHeight": 1000,
			},
		})

	case "sendTransaction":
		if s.sendFailures > 0 {
			s.sendFailures--
			writeError(w, req.ID, -32002, "Transaction simulation failed: Blockhash not found")
			return
		}
		transfer, err := decodeSendParam(req.Params)
		if err != nil {
			writeError(w, req.ID, -32602, err.Error())
			return
		}
		s.transfers = append(s.transfers, transfer)
		writeResult(w, req.ID, transfer.Signature.String())

	case "getSignatureStatuses":
		var sigs []string
		if err := unmarshalParam(req.Params, 0, &sigs); err != nil {
			writeError(w, req.ID, -32602, err.Error())
			return
		}
		value := make([]any, len(sigs))
		for i := range sigs {
			if s.confirmationStatus == "" {
				continue
			}
			value[i] = map[string]any{
				"slot":               1,
				"confirmations":      nil,
				"err":                s.txErr,
				"confirmationStatus": s.confirmationStatus,
			}
		}
		writeResult(w, req.ID, map[string]any{
			"context": rpcContext{Slot: 1},
			"value":   value,
		})

	default:
		writeError(w, req.ID, -32601, "Method not found")
	}
}

func unmarshalParam(params []json.RawMessage, i int, v any) error {
	if i >= len(params) {
		return fmt.Errorf("missing param %d", i)
	}
	return json.Unmarshal(params[i], v)
}

func decodeSendParam(params []json.RawMessage) (Transfer, error) {
	var encoded string
	if err := unmarshalParam(params, 0, &encoded); err != nil {
		return Transfer{}, err
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return Transfer{}, err
	}
	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	if err != nil {
		return Transfer{}, err
	}
	return DecodeTransfer(tx)
}

func writeResult(w http.ResponseWriter, id json.RawMessage, result any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"result":  result,
	})
}

func writeError(w http.ResponseWriter, id json.RawMessage, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"error":   rpcError{Code: code, Message: message},
	})
}
