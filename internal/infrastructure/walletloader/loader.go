package walletloader

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"os"
	"strings"

	"aave_borrower/internal/app/port"

	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Wallet is a signing account held in memory for the lifetime of the process.
type Wallet struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// NewWallet wraps a private key.
func NewWallet(key *ecdsa.PrivateKey) *Wallet {
	return &Wallet{key: key, address: crypto.PubkeyToAddress(key.PublicKey)}
}

// Address returns the account address.
func (w *Wallet) Address() common.Address { return w.address }

// PrivateKey returns the signing key.
func (w *Wallet) PrivateKey() *ecdsa.PrivateKey { return w.key }

// WalletLoader implements port.SignerProvider. A keystore file takes precedence over a raw key.
type WalletLoader struct {
	keystorePath  string
	passphraseEnv string
	privateKeyEnv string
	loggerInfo    func(msg string, args ...any)
}

// NewWalletLoader creates a new WalletLoader.
func NewWalletLoader(keystorePath, passphraseEnv, privateKeyEnv string, loggerInfo func(msg string, args ...any)) port.SignerProvider {
	return &WalletLoader{
		keystorePath:  keystorePath,
		passphraseEnv: passphraseEnv,
		privateKeyEnv: privateKeyEnv,
		loggerInfo:    loggerInfo,
	}
}

// GetSigner loads the signing account.
func (l *WalletLoader) GetSigner() (port.Signer, error) {
	if l.keystorePath != "" {
		w, err := l.fromKeystore()
		if err != nil {
			return nil, err
		}
		l.log("Signer loaded from keystore", "path", l.keystorePath, "address", w.Address().Hex())
		return w, nil
	}

	raw := strings.TrimSpace(os.Getenv(l.privateKeyEnv))
	if raw == "" {
		return nil, fmt.Errorf("no signer configured: set account.keystorePath or %s", l.privateKeyEnv)
	}
	w, err := ParsePrivateKey(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid private key in %s: %w", l.privateKeyEnv, err)
	}
	l.log("Signer loaded from environment", "variable", l.privateKeyEnv, "address", w.Address().Hex())
	return w, nil
}

func (l *WalletLoader) fromKeystore() (*Wallet, error) {
	keyJSON, err := os.ReadFile(l.keystorePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read keystore file %s: %w", l.keystorePath, err)
	}
	passphrase := os.Getenv(l.passphraseEnv)
	decrypted, err := keystore.DecryptKey(keyJSON, passphrase)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt keystore %s: %w", l.keystorePath, err)
	}
	return NewWallet(decrypted.PrivateKey), nil
}

func (l *WalletLoader) log(msg string, args ...any) {
	if l.loggerInfo != nil {
		l.loggerInfo(msg, args...)
	}
}

// ParsePrivateKey parses a hex private key with or without the 0x prefix.
func ParsePrivateKey(raw string) (*Wallet, error) {
	hexKey := strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(raw), "0x"), "0X")
	if hexKey == "" {
		return nil, errors.New("empty key")
	}
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, err
	}
	return NewWallet(key), nil
}
