// Package casper holds the small pieces the oracle adds around casper-go-sdk: key file handling,
// contract addresses and CSPR amounts.
package casper

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/make-software/casper-go-sdk/types/key"
	"github.com/make-software/casper-go-sdk/types/keypair"
)

// Algorithm names a key scheme as accepted on the command line and printed in logs.
type Algorithm string

const (
	AlgorithmEd25519   Algorithm = "ed25519"
	AlgorithmSecp256k1 Algorithm = "secp256k1"
)

const (
	pemTypePKCS8 = "PRIVATE KEY"
	pemTypeSEC1  = "EC PRIVATE KEY"
)

// DeployTTL is the lifetime stamped on deploy headers.
const DeployTTL = 30 * time.Minute

// GenerateSecretKeyPEM creates a fresh secret key and encodes it the way casper-client keygen does.
func GenerateSecretKeyPEM(alg Algorithm) ([]byte, error) {
	switch alg {
	case AlgorithmEd25519:
		_, private, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, err
		}
		der, err := x509.MarshalPKCS8PrivateKey(private)
		if err != nil {
			return nil, err
		}
		return pem.EncodeToMemory(&pem.Block{Type: pemTypePKCS8, Bytes: der}), nil
	case AlgorithmSecp256k1:
		key, err := keypair.GeneratePrivateKey(keypair.SECP256K1)
		if err != nil {
			return nil, err
		}
		return key.ToPem()
	default:
		return nil, fmt.Errorf("unsupported key algorithm %q", alg)
	}
}

// ParseSecretKeyPEM parses a secret key as written by casper-client keygen: PKCS#8 for Ed25519 and
// SEC 1 for secp256k1.
func ParseSecretKeyPEM(data []byte) (keypair.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return keypair.PrivateKey{}, errors.New("no PEM block found")
	}
	switch block.Type {
	case pemTypePKCS8:
		parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return keypair.PrivateKey{}, fmt.Errorf("parsing PKCS#8 key: %w", err)
		}
		if _, ok := parsed.(ed25519.PrivateKey); !ok {
			return keypair.PrivateKey{}, fmt.Errorf("PKCS#8 key is %T, not ed25519", parsed)
		}
		return keypair.NewPrivateKeyFromPEM(data, keypair.ED25519)
	case pemTypeSEC1:
		return keypair.NewPrivateKeyFromPEM(data, keypair.SECP256K1)
	default:
		return keypair.PrivateKey{}, fmt.Errorf("unsupported PEM block type %q", block.Type)
	}
}

// KeyAlgorithm reads the scheme from the tag byte of a public key.
func KeyAlgorithm(pub keypair.PublicKey) Algorithm {
	switch pub.Bytes()[0] {
	case keypair.ED25519.Byte():
		return AlgorithmEd25519
	case keypair.SECP256K1.Byte():
		return AlgorithmSecp256k1
	default:
		return ""
	}
}

// RawPublicKeyHex is the hex of the key without its algorithm tag, 64 characters for Ed25519.
func RawPublicKeyHex(pub keypair.PublicKey) string {
	return hex.EncodeToString(pub.Bytes()[1:])
}

// ParsePublicKey parses a tagged public key as printed by casper-client. Trailing bytes are rejected.
func ParsePublicKey(s string) (keypair.PublicKey, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return keypair.PublicKey{}, errors.New("empty public key")
	}
	pub, err := keypair.NewPublicKey(s)
	if err != nil {
		return keypair.PublicKey{}, fmt.Errorf("invalid public key %q: %w", s, err)
	}
	if pub.ToHex() != s {
		return keypair.PublicKey{}, fmt.Errorf("invalid public key %q: unexpected length", s)
	}
	return pub, nil
}

// ParseContractHash decodes a contract hash with or without a "hash-" or "contract-" prefix.
func ParseContractHash(s string) (key.Hash, error) {
	contract, err := key.NewContract(strings.TrimSpace(s))
	if err != nil {
		return key.Hash{}, fmt.Errorf("invalid contract hash %q: %w", s, err)
	}
	return contract.Hash, nil
}

// ParseHash decodes a 64 character hex deploy or block hash.
func ParseHash(s string) (key.Hash, error) {
	h, err := key.NewHash(strings.TrimSpace(s))
	if err != nil {
		return key.Hash{}, fmt.Errorf("invalid hash %q: %w", s, err)
	}
	return h, nil
}
