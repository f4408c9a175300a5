// Package chain provides the gateway to the deployed credit contracts. The
// contracts are reached through a JSON-RPC node exposing a fixed method set:
// read-only invocations, signed state-changing invocations, and transaction
// receipts. This package is the only place holding the RPC endpoint and the
// signing credential; amounts cross its boundary as decimals, never as
// chain-scaled integers.
package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/nutcas3/tokenized-credit/internal/faults"
)

// Client speaks JSON-RPC 2.0 to the chain node. Request ids are unique per
// client so concurrent calls are distinguishable in node logs.
type Client struct {
	rpcURL     string
	httpClient *http.Client
	nextID     atomic.Int64
}

// ClientConfig holds client construction parameters.
type ClientConfig struct {
	RPCURL  string
	Timeout time.Duration
}

// NewClient creates a chain client. The RPC endpoint is required.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.RPCURL == "" {
		return nil, faults.NewConfiguration("RPC_URL")
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		rpcURL: cfg.RPCURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// =============================================================================
// Core RPC Methods
// =============================================================================

// Call makes a JSON-RPC call to the node.
func (c *Client) Call(ctx context.Context, method string, params []any) (json.RawMessage, error) {
	req := RPCRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      int(c.nextID.Add(1)),
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.rpcURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var rpcResp RPCResponse
	if err := json.Unmarshal(respBody, &rpcResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	if rpcResp.Error != nil {
		return nil, rpcResp.Error
	}

	return rpcResp.Result, nil
}

// CallContract performs a read-only contract invocation.
func (c *Client) CallContract(ctx context.Context, args CallArgs) (json.RawMessage, error) {
	return c.Call(ctx, "call", []any{args})
}

// SendTransaction submits a signed state-changing invocation and returns the
// transaction hash without waiting for confirmation.
func (c *Client) SendTransaction(ctx context.Context, tx TxArgs) (string, error) {
	result, err := c.Call(ctx, "sendtransaction", []any{tx})
	if err != nil {
		return "", err
	}

	var response struct {
		Hash string `json:"hash"`
	}
	if err := json.Unmarshal(result, &response); err != nil {
		return "", fmt.Errorf("unmarshal tx response: %w", err)
	}
	return response.Hash, nil
}

// GetTransactionReceipt returns the receipt for a transaction hash.
func (c *Client) GetTransactionReceipt(ctx context.Context, txHash string) (*Receipt, error) {
	result, err := c.Call(ctx, "gettransactionreceipt", []any{txHash})
	if err != nil {
		return nil, err
	}

	var receipt Receipt
	if err := json.Unmarshal(result, &receipt); err != nil {
		return nil, fmt.Errorf("unmarshal receipt: %w", err)
	}
	return &receipt, nil
}

// =============================================================================
// Confirmation Wait
// =============================================================================

// WaitForReceipt polls for a transaction receipt until it reports confirmed,
// or the context is done. An unknown hash or a pending receipt is treated as
// transient and retried until the context deadline expires.
func (c *Client) WaitForReceipt(ctx context.Context, txHash string, pollInterval time.Duration) (*Receipt, error) {
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			receipt, err := c.GetTransactionReceipt(ctx, txHash)
			if err != nil {
				if isNotFoundError(err) {
					continue
				}
				return nil, err
			}
			switch receipt.Status {
			case ReceiptStatusConfirmed:
				return receipt, nil
			case ReceiptStatusFailed:
				return nil, fmt.Errorf("transaction %s failed on-chain", txHash)
			default:
				// Still pending.
			}
		}
	}
}

// SendTransactionAndWait submits a signed invocation and blocks until the
// transaction is confirmed, up to waitTimeout. A confirmation that never
// arrives surfaces as ChainTimeout rather than hanging the caller.
func (c *Client) SendTransactionAndWait(ctx context.Context, tx TxArgs, pollInterval, waitTimeout time.Duration) (string, error) {
	txHash, err := c.SendTransaction(ctx, tx)
	if err != nil {
		return "", err
	}

	if waitTimeout <= 0 {
		waitTimeout = 2 * time.Minute
	}

	wctx, cancel := context.WithTimeout(ctx, waitTimeout)
	defer cancel()

	if _, err := c.WaitForReceipt(wctx, txHash, pollInterval); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", faults.NewChainTimeout(tx.Method, waitTimeout)
		}
		return "", fmt.Errorf("wait for %s confirmation: %w", tx.Method, err)
	}

	return txHash, nil
}

func isNotFoundError(err error) bool {
	var rpcErr *RPCError
	return errors.As(err, &rpcErr) && rpcErr.Code == rpcCodeNotFound
}
