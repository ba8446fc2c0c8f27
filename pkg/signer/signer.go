package signer

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"os"

	"github.com/make-software/casper-go-sdk/types"
	"github.com/make-software/casper-go-sdk/types/keypair"
	"github.com/rs/zerolog/log"

	"github.com/backit-onchain/oracle/pkg/casper"
	"github.com/backit-onchain/oracle/pkg/oracleerrors"
)

// ErrEphemeralKeyForbidden is returned when no usable key path is configured outside of development.
var ErrEphemeralKeyForbidden = errors.New(
	"no oracle secret key configured and ephemeral keys are not allowed in this environment")

type Params struct {
	SecretKeyPath  string
	AllowEphemeral bool
}

// Signer holds the oracle key pair. A Signer without a key is valid but refuses to sign.
// It is immutable after construction and safe for concurrent use.
type Signer struct {
	key       *keypair.PrivateKey
	ephemeral bool
	loadErr   error
}

// New loads the oracle key.
//
// A path whose file does not exist is treated as no path at all: an ephemeral Ed25519 key is
// generated if allowed, otherwise ErrEphemeralKeyForbidden is returned. A file that exists but
// cannot be read or parsed leaves the signer unconfigured, with the reason available from LoadError.
func New(ctx context.Context, params Params) (*Signer, error) {
	if params.SecretKeyPath == "" {
		return newEphemeral(ctx, params.AllowEphemeral)
	}

	data, err := os.ReadFile(params.SecretKeyPath)
	if errors.Is(err, os.ErrNotExist) {
		log.Ctx(ctx).Warn().Str("Path", params.SecretKeyPath).Msg("oracle secret key file does not exist")
		return newEphemeral(ctx, params.AllowEphemeral)
	}
	if err != nil {
		return unconfigured(ctx, oracleerrors.NewKeyLoadFailure(params.SecretKeyPath, err)), nil
	}

	key, err := casper.ParseSecretKeyPEM(data)
	if err != nil {
		return unconfigured(ctx, oracleerrors.NewKeyLoadFailure(params.SecretKeyPath, err)), nil
	}

	log.Ctx(ctx).Info().
		Str("Algorithm", string(casper.KeyAlgorithm(key.PublicKey()))).
		Str("PublicKey", casper.RawPublicKeyHex(key.PublicKey())).
		Msg("loaded oracle key")
	return &Signer{key: &key}, nil
}

func newEphemeral(ctx context.Context, allowed bool) (*Signer, error) {
	if !allowed {
		return nil, ErrEphemeralKeyForbidden
	}
	key, err := keypair.GeneratePrivateKey(keypair.ED25519)
	if err != nil {
		return nil, fmt.Errorf("generating ephemeral oracle key: %w", err)
	}
	log.Ctx(ctx).Warn().
		Str("PublicKey", casper.RawPublicKeyHex(key.PublicKey())).
		Msg("no oracle secret key configured, using an ephemeral key. Outcomes signed with it cannot be verified after restart")
	return &Signer{key: &key, ephemeral: true}, nil
}

func unconfigured(ctx context.Context, loadErr error) *Signer {
	log.Ctx(ctx).Error().Err(loadErr).Msg("oracle signer is unconfigured")
	return &Signer{loadErr: loadErr}
}

// NewFromKeyPair wraps an already loaded key pair.
func NewFromKeyPair(key keypair.PrivateKey) *Signer {
	return &Signer{key: &key}
}

// NewUnconfigured returns a signer without a key.
func NewUnconfigured() *Signer {
	return &Signer{}
}

func (s *Signer) IsConfigured() bool {
	return s.key != nil
}

func (s *Signer) IsEphemeral() bool {
	return s.ephemeral
}

// LoadError is the reason the configured key could not be loaded, if any.
func (s *Signer) LoadError() error {
	return s.loadErr
}

func (s *Signer) PublicKey() (keypair.PublicKey, bool) {
	if s.key == nil {
		return keypair.PublicKey{}, false
	}
	return s.key.PublicKey(), true
}

// PublicKeyHex returns the hex of the raw public key, 64 characters for Ed25519.
func (s *Signer) PublicKeyHex() (string, bool) {
	pub, ok := s.PublicKey()
	if !ok {
		return "", false
	}
	return casper.RawPublicKeyHex(pub), true
}

// AccountHex returns the algorithm tagged public key as used for Casper accounts and contracts.
func (s *Signer) AccountHex() (string, bool) {
	pub, ok := s.PublicKey()
	if !ok {
		return "", false
	}
	return pub.ToHex(), true
}

// SignOutcome signs the canonical JSON encoding of the outcome and returns the raw signature,
// without the algorithm tag.
func (s *Signer) SignOutcome(callID uint64, outcome bool, finalPrice *big.Int, timestamp int64) ([]byte, error) {
	sig, err := s.SignMessage(OutcomeMessage{
		CallID:     callID,
		Outcome:    outcome,
		FinalPrice: finalPrice,
		Timestamp:  timestamp,
	})
	if err != nil {
		return nil, err
	}
	return sig[1:], nil
}

// SignMessage returns the tagged signature over the message, as it would appear in a deploy approval.
func (s *Signer) SignMessage(msg OutcomeMessage) ([]byte, error) {
	if s.key == nil {
		return nil, oracleerrors.ErrSignerUnconfigured
	}
	return s.key.Sign(msg.CanonicalJSON())
}

// SignDeploy adds the oracle's approval to the deploy.
func (s *Signer) SignDeploy(d *types.Deploy) error {
	if s.key == nil {
		return oracleerrors.ErrSignerUnconfigured
	}
	return d.SignDeploy(*s.key)
}

// VerifyOutcome checks a raw signature returned by SignOutcome.
func VerifyOutcome(pub keypair.PublicKey, msg OutcomeMessage, signature []byte) error {
	if len(signature) == 0 {
		return keypair.ErrEmptySignature
	}
	tagged := append([]byte{pub.Bytes()[0]}, signature...)
	return pub.VerifySignature(msg.CanonicalJSON(), tagged)
}
