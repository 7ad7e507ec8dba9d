package configloader

import (
	"fmt"
	"os"

	"aave_borrower/internal/domain/entity"

	"gopkg.in/yaml.v3"
)

// LoggingConfig holds logging-specific configurations.
type LoggingConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// RPCConfig holds the node connection settings.
type RPCConfig struct {
	URL                   string   `yaml:"url"`
	FallbackURLs          []string `yaml:"fallbackUrls"`
	ChainID               uint64   `yaml:"chainId"` // 0 means ask the node
	ConnectTimeoutSeconds int      `yaml:"connectTimeoutSeconds"`
	CallTimeoutSeconds    int      `yaml:"callTimeoutSeconds"`
	RateLimit             float64  `yaml:"rateLimit"` // requests per second
	Burst                 int      `yaml:"burst"`
	PollIntervalMillis    int      `yaml:"pollIntervalMillis"`
}

// AccountConfig says where the signing key comes from.
type AccountConfig struct {
	KeystorePath  string `yaml:"keystorePath"`
	PassphraseEnv string `yaml:"passphraseEnv"`
	PrivateKeyEnv string `yaml:"privateKeyEnv"`
}

// BorrowConfig holds the parameters of the borrow flow.
type BorrowConfig struct {
	Amount           string `yaml:"amount"`    // native currency, decimal
	SafetyBps        uint64 `yaml:"safetyBps"` // share of available capacity to borrow, in basis points
	InterestRateMode string `yaml:"interestRateMode"`
	ReferralCode     uint16 `yaml:"referralCode"`
	Repay            *bool  `yaml:"repay"`
}

// ShouldRepay reports whether the repay step runs. Defaults to true.
func (b BorrowConfig) ShouldRepay() bool {
	return b.Repay == nil || *b.Repay
}

// MetricsConfig holds the optional Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// ReportConfig selects how the run report is printed.
type ReportConfig struct {
	Format string `yaml:"format"` // "text" or "json"
}

// Config is the top-level configuration structure.
type Config struct {
	Logging  LoggingConfig              `yaml:"logging"`
	RPC      RPCConfig                  `yaml:"rpc"`
	Account  AccountConfig              `yaml:"account"`
	Borrow   BorrowConfig               `yaml:"borrow"`
	Networks []entity.NetworkDefinition `yaml:"networks"`
	Metrics  MetricsConfig              `yaml:"metrics"`
	Report   ReportConfig               `yaml:"report"`
}

// Load reads the YAML configuration file from the given path and unmarshals it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal config data from %s: %w", path, err)
	}
	return cfg, nil
}

// Parse unmarshals raw YAML and applies defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	if cfg.RPC.ConnectTimeoutSeconds <= 0 {
		cfg.RPC.ConnectTimeoutSeconds = 10
	}
	if cfg.RPC.CallTimeoutSeconds <= 0 {
		cfg.RPC.CallTimeoutSeconds = 30
	}
	if cfg.RPC.RateLimit <= 0 {
		cfg.RPC.RateLimit = 10
	}
	if cfg.RPC.Burst <= 0 {
		cfg.RPC.Burst = 5
	}
	if cfg.RPC.PollIntervalMillis <= 0 {
		cfg.RPC.PollIntervalMillis = 1000
	}

	if cfg.Account.PassphraseEnv == "" {
		cfg.Account.PassphraseEnv = "KEYSTORE_PASSPHRASE"
	}
	if cfg.Account.PrivateKeyEnv == "" {
		cfg.Account.PrivateKeyEnv = "PRIVATE_KEY"
	}

	if cfg.Borrow.Amount == "" {
		cfg.Borrow.Amount = "0.01"
	}
	if cfg.Borrow.SafetyBps == 0 {
		cfg.Borrow.SafetyBps = 9500 // 0.95
	}
	if cfg.Borrow.InterestRateMode == "" {
		cfg.Borrow.InterestRateMode = "variable"
	}

	if cfg.Report.Format == "" {
		cfg.Report.Format = "text"
	}
}

func (cfg *Config) validate() error {
	if cfg.RPC.URL == "" {
		return fmt.Errorf("rpc.url is required")
	}
	if _, ok := entity.ParseInterestRateMode(cfg.Borrow.InterestRateMode); !ok {
		return fmt.Errorf("borrow.interestRateMode %q is not one of stable, variable", cfg.Borrow.InterestRateMode)
	}
	if cfg.Borrow.SafetyBps >= 10000 {
		return fmt.Errorf("borrow.safetyBps must be below 10000, got %d", cfg.Borrow.SafetyBps)
	}
	switch cfg.Report.Format {
	case "text", "json":
	default:
		return fmt.Errorf("report.format %q is not one of text, json", cfg.Report.Format)
	}
	for i, n := range cfg.Networks {
		if n.ChainID == 0 {
			return fmt.Errorf("networks[%d]: chainId is required", i)
		}
	}
	return nil
}
