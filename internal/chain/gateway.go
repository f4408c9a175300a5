package chain

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nutcas3/tokenized-credit/internal/config"
	"github.com/nutcas3/tokenized-credit/internal/credit"
	"github.com/nutcas3/tokenized-credit/internal/faults"
	"github.com/nutcas3/tokenized-credit/internal/metrics"
)

// =============================================================================
// Contract Gateway
// =============================================================================

// Gateway exposes typed call wrappers for the four deployed contracts: the
// loan ledger, tranche accounting, access control, and the stable token.
// Write calls are signed with the relay wallet and block until the
// transaction is confirmed.
type Gateway struct {
	client *Client
	wallet *Wallet

	ledger  string
	tranche string
	access  string
	stable  string

	pollInterval time.Duration
	waitTimeout  time.Duration
}

// NewGateway constructs the gateway from the shared configuration. Every
// connection parameter it depends on is validated here, so a misconfigured
// deployment fails at construction rather than midway through a request.
func NewGateway(cfg *config.Config) (*Gateway, error) {
	client, err := NewClient(ClientConfig{RPCURL: cfg.RPCURL, Timeout: cfg.HTTPTimeout})
	if err != nil {
		return nil, err
	}

	wallet, err := NewWallet(cfg.SigningKey)
	if err != nil {
		return nil, err
	}

	for field, value := range map[string]string{
		"CREDIT_POOL_ADDRESS":       cfg.LoanLedgerAddress,
		"TRANCHE_MANAGER_ADDRESS":   cfg.TrancheAddress,
		"ACCESS_CONTROLLER_ADDRESS": cfg.AccessControlAddress,
		"USDC_ADDRESS":              cfg.StableTokenAddress,
	} {
		if value == "" {
			return nil, faults.NewConfiguration(field)
		}
	}

	return &Gateway{
		client:       client,
		wallet:       wallet,
		ledger:       cfg.LoanLedgerAddress,
		tranche:      cfg.TrancheAddress,
		access:       cfg.AccessControlAddress,
		stable:       cfg.StableTokenAddress,
		pollInterval: cfg.TxPollInterval,
		waitTimeout:  cfg.TxWaitTimeout,
	}, nil
}

// SignerAddress returns the address of the relay's signing identity.
func (g *Gateway) SignerAddress() string { return g.wallet.Address() }

// spenderAddress maps an allowance target to its deployed address.
func (g *Gateway) spenderAddress(s credit.Spender) string {
	if s == credit.SpenderTrancheManager {
		return g.tranche
	}
	return g.ledger
}

// =============================================================================
// Call Helpers
// =============================================================================

// read performs a read-only invocation against a contract.
func (g *Gateway) read(ctx context.Context, to, method string, args ...any) (json.RawMessage, error) {
	if args == nil {
		args = []any{}
	}
	return g.client.CallContract(ctx, CallArgs{To: to, Method: method, Args: args})
}

// write signs a state-changing invocation and blocks until confirmation.
// The signed payload binds sender, target, method, arguments and nonce.
func (g *Gateway) write(ctx context.Context, to, method string, args ...any) (string, error) {
	if args == nil {
		args = []any{}
	}

	nonce := g.wallet.NextNonce()
	payload, err := json.Marshal(struct {
		From   string `json:"from"`
		To     string `json:"to"`
		Method string `json:"method"`
		Args   []any  `json:"args"`
		Nonce  uint64 `json:"nonce"`
	}{g.wallet.Address(), to, method, args, nonce})
	if err != nil {
		return "", err
	}

	signature, err := g.wallet.SignPayload(payload)
	if err != nil {
		return "", err
	}

	tx := TxArgs{
		From:      g.wallet.Address(),
		To:        to,
		Method:    method,
		Args:      args,
		Nonce:     nonce,
		Signature: signature,
	}

	start := time.Now()
	txHash, err := g.client.SendTransactionAndWait(ctx, tx, g.pollInterval, g.waitTimeout)
	metrics.RecordChainWrite(method, time.Since(start), err)
	return txHash, err
}
