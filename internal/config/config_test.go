package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ListenAddr != ":3000" {
		t.Errorf("ListenAddr = %s, want :3000", cfg.ListenAddr)
	}
	if cfg.TxWaitTimeout != 2*time.Minute {
		t.Errorf("TxWaitTimeout = %s, want 2m", cfg.TxWaitTimeout)
	}
	if cfg.TxPollInterval != 2*time.Second {
		t.Errorf("TxPollInterval = %s, want 2s", cfg.TxPollInterval)
	}
	if cfg.PinningBaseURL != "https://api.pinata.cloud" {
		t.Errorf("PinningBaseURL = %s", cfg.PinningBaseURL)
	}
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("RPC_URL", "http://localhost:8545")
	t.Setenv("CREDIT_POOL_ADDRESS", "0xledger")
	t.Setenv("TX_WAIT_TIMEOUT", "30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.RPCURL != "http://localhost:8545" {
		t.Errorf("RPCURL = %s", cfg.RPCURL)
	}
	if cfg.LoanLedgerAddress != "0xledger" {
		t.Errorf("LoanLedgerAddress = %s", cfg.LoanLedgerAddress)
	}
	if cfg.TxWaitTimeout != 30*time.Second {
		t.Errorf("TxWaitTimeout = %s, want 30s", cfg.TxWaitTimeout)
	}
}

func TestApplyContractsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "contracts.yaml")
	content := `
rpc_url: http://node:8545
contracts:
  loan_ledger: "0xaaa"
  tranche_manager: "0xbbb"
  access_controller: "0xccc"
  stable_token: "0xddd"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := &Config{RPCURL: "http://env:8545"}
	if err := cfg.ApplyContractsFile(path); err != nil {
		t.Fatalf("ApplyContractsFile() error = %v", err)
	}
	if cfg.RPCURL != "http://node:8545" {
		t.Errorf("RPCURL = %s, file should win", cfg.RPCURL)
	}
	if cfg.LoanLedgerAddress != "0xaaa" || cfg.TrancheAddress != "0xbbb" ||
		cfg.AccessControlAddress != "0xccc" || cfg.StableTokenAddress != "0xddd" {
		t.Errorf("contract addresses not applied: %+v", cfg)
	}
}

func TestApplyContractsFile_Missing(t *testing.T) {
	cfg := &Config{RPCURL: "http://env:8545"}
	if err := cfg.ApplyContractsFile(filepath.Join(t.TempDir(), "absent.yaml")); err != nil {
		t.Errorf("missing file should not error, got %v", err)
	}
	if cfg.RPCURL != "http://env:8545" {
		t.Errorf("RPCURL changed on missing file")
	}
}
