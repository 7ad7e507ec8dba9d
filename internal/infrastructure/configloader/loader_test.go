package configloader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("rpc:\n  url: http://127.0.0.1:8545\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 10, cfg.RPC.ConnectTimeoutSeconds)
	assert.Equal(t, 30, cfg.RPC.CallTimeoutSeconds)
	assert.Equal(t, float64(10), cfg.RPC.RateLimit)
	assert.Equal(t, 5, cfg.RPC.Burst)
	assert.Equal(t, 1000, cfg.RPC.PollIntervalMillis)
	assert.Equal(t, "0.01", cfg.Borrow.Amount)
	assert.Equal(t, uint64(9500), cfg.Borrow.SafetyBps)
	assert.Equal(t, "variable", cfg.Borrow.InterestRateMode)
	assert.True(t, cfg.Borrow.ShouldRepay())
	assert.Equal(t, "PRIVATE_KEY", cfg.Account.PrivateKeyEnv)
	assert.Equal(t, "KEYSTORE_PASSPHRASE", cfg.Account.PassphraseEnv)
	assert.Equal(t, "text", cfg.Report.Format)
}

func TestParseNetworksAndBorrow(t *testing.T) {
	raw := `
rpc:
  url: http://127.0.0.1:8545
  chainId: 31337
borrow:
  amount: "0.02"
  safetyBps: 9000
  interestRateMode: stable
  repay: false
networks:
  - chainId: 31337
    name: hardhat
    stableTokenAddress: "0x6B175474E89094C44Da98b954EedeAC495271d0F"
`
	cfg, err := Parse([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, uint64(31337), cfg.RPC.ChainID)
	assert.Equal(t, "0.02", cfg.Borrow.Amount)
	assert.Equal(t, uint64(9000), cfg.Borrow.SafetyBps)
	assert.False(t, cfg.Borrow.ShouldRepay())
	require.Len(t, cfg.Networks, 1)
	assert.Equal(t, "0x6B175474E89094C44Da98b954EedeAC495271d0F", cfg.Networks[0].StableTokenAddress)
}

func TestParseRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"missing rpc":    "borrow:\n  amount: \"1\"\n",
		"rate mode":      "rpc:\n  url: x\nborrow:\n  interestRateMode: fixed\n",
		"safety":         "rpc:\n  url: x\nborrow:\n  safetyBps: 10000\n",
		"report format":  "rpc:\n  url: x\nreport:\n  format: xml\n",
		"network chain":  "rpc:\n  url: x\nnetworks:\n  - name: nameless\n",
		"malformed yaml": "rpc: [",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(raw))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	assert.Error(t, err)
}
