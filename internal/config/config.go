// Package config loads relay configuration from the environment, with an
// optional YAML overlay for deployed contract addresses. The configuration is
// built once at process start and passed by reference into each collaborator;
// collaborators validate the fields they need at construction time.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds every deployment parameter the relay reads. Missing values are
// not an error here; each collaborator rejects the absence of the fields it
// actually needs with a ConfigurationError.
type Config struct {
	ListenAddr string `env:"LISTEN_ADDR,default=:3000"`
	LogLevel   string `env:"LOG_LEVEL,default=info"`

	// Chain connection.
	RPCURL     string `env:"RPC_URL"`
	SigningKey string `env:"PRIVATE_KEY"`

	// Deployed contract addresses.
	LoanLedgerAddress    string `env:"CREDIT_POOL_ADDRESS"`
	TrancheAddress       string `env:"TRANCHE_MANAGER_ADDRESS"`
	AccessControlAddress string `env:"ACCESS_CONTROLLER_ADDRESS"`
	StableTokenAddress   string `env:"USDC_ADDRESS"`

	// Transaction confirmation bounds.
	TxWaitTimeout  time.Duration `env:"TX_WAIT_TIMEOUT,default=2m"`
	TxPollInterval time.Duration `env:"TX_POLL_INTERVAL,default=2s"`

	// Pinning service.
	PinningAPIKey     string `env:"PINATA_API_KEY"`
	PinningAPISecret  string `env:"PINATA_SECRET_API_KEY"`
	PinningBaseURL    string `env:"PINATA_BASE_URL,default=https://api.pinata.cloud"`
	PinningGatewayURL string `env:"PINATA_GATEWAY_URL,default=https://gateway.pinata.cloud"`

	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT,default=30s"`
}

// contractsFile is the optional YAML overlay shape.
type contractsFile struct {
	RPCURL    string `yaml:"rpc_url"`
	Contracts struct {
		LoanLedger    string `yaml:"loan_ledger"`
		Tranche       string `yaml:"tranche_manager"`
		AccessControl string `yaml:"access_controller"`
		StableToken   string `yaml:"stable_token"`
	} `yaml:"contracts"`
}

// Load reads a .env file if present, then decodes the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode environment: %w", err)
	}
	return &cfg, nil
}

// ApplyContractsFile overlays contract addresses from a YAML file. A missing
// file is not an error; environment values win only when the file omits a
// field.
func (c *Config) ApplyContractsFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read contracts file: %w", err)
	}

	var f contractsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("parse contracts file: %w", err)
	}

	if f.RPCURL != "" {
		c.RPCURL = f.RPCURL
	}
	if f.Contracts.LoanLedger != "" {
		c.LoanLedgerAddress = f.Contracts.LoanLedger
	}
	if f.Contracts.Tranche != "" {
		c.TrancheAddress = f.Contracts.Tranche
	}
	if f.Contracts.AccessControl != "" {
		c.AccessControlAddress = f.Contracts.AccessControl
	}
	if f.Contracts.StableToken != "" {
		c.StableTokenAddress = f.Contracts.StableToken
	}
	return nil
}
