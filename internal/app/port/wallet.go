package port

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/common"
)

// Signer is the account every transaction in a run is sent from.
type Signer interface {
	Address() common.Address
	PrivateKey() *ecdsa.PrivateKey
}

// SignerProvider loads the signing account.
type SignerProvider interface {
	GetSigner() (Signer, error)
}
