package chain

import (
	"encoding/json"
	"fmt"
)

// =============================================================================
// JSON-RPC Envelope
// =============================================================================

// RPCRequest is a JSON-RPC 2.0 request.
type RPCRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params,omitempty"`
	ID      int    `json:"id"`
}

// RPCResponse is a JSON-RPC 2.0 response.
type RPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError is a JSON-RPC 2.0 error object.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// rpcCodeNotFound is returned by the node for unknown transaction hashes.
const rpcCodeNotFound = -32001

// =============================================================================
// Invocation Types
// =============================================================================

// CallArgs describes a read-only contract invocation. Integer arguments and
// results travel as base-10 strings.
type CallArgs struct {
	To     string `json:"to"`
	Method string `json:"method"`
	Args   []any  `json:"args"`
}

// TxArgs describes a signed state-changing invocation.
type TxArgs struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Method    string `json:"method"`
	Args      []any  `json:"args"`
	Nonce     uint64 `json:"nonce"`
	Signature string `json:"signature"`
}

// Receipt reports the confirmation status of a submitted transaction.
type Receipt struct {
	Hash        string `json:"hash"`
	Status      string `json:"status"`
	BlockNumber uint64 `json:"blockNumber,omitempty"`
}

// Receipt status values reported by the node.
const (
	ReceiptStatusPending   = "pending"
	ReceiptStatusConfirmed = "confirmed"
	ReceiptStatusFailed    = "failed"
)
