//go:build unit || !integration

package signer

import (
	"context"
	"encoding/hex"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/make-software/casper-go-sdk/types"
	"github.com/stretchr/testify/suite"

	"github.com/backit-onchain/oracle/pkg/casper"
	"github.com/backit-onchain/oracle/pkg/logger"
	"github.com/backit-onchain/oracle/pkg/oracleerrors"
)

type SignerSuite struct {
	suite.Suite
	ctx context.Context
	dir string
}

func TestSignerSuite(t *testing.T) {
	suite.Run(t, new(SignerSuite))
}

func (s *SignerSuite) SetupTest() {
	logger.ConfigureTestLogging(s.T())
	s.ctx = context.Background()
	s.dir = s.T().TempDir()
}

func (s *SignerSuite) TestEphemeralKeyPublicKeyIs64Hex() {
	signer, err := New(s.ctx, Params{AllowEphemeral: true})
	s.Require().NoError(err)
	s.True(signer.IsConfigured())
	s.True(signer.IsEphemeral())

	pub, ok := signer.PublicKeyHex()
	s.True(ok)
	s.Len(pub, 64)
	_, err = hex.DecodeString(pub)
	s.NoError(err)

	account, ok := signer.AccountHex()
	s.True(ok)
	s.Equal("01"+pub, account)
}

func (s *SignerSuite) TestEphemeralKeyForbidden() {
	_, err := New(s.ctx, Params{})
	s.ErrorIs(err, ErrEphemeralKeyForbidden)
}

func (s *SignerSuite) TestSignOutcomeIsDeterministicAndVerifiable() {
	signer, err := New(s.ctx, Params{AllowEphemeral: true})
	s.Require().NoError(err)

	sig1, err := signer.SignOutcome(1, true, big.NewInt(1500), 1_700_000_000)
	s.Require().NoError(err)
	sig2, err := signer.SignOutcome(1, true, big.NewInt(1500), 1_700_000_000)
	s.Require().NoError(err)
	s.Equal(sig1, sig2)
	s.Len(sig1, 64)

	pub, _ := signer.PublicKey()
	msg := OutcomeMessage{CallID: 1, Outcome: true, FinalPrice: big.NewInt(1500), Timestamp: 1_700_000_000}
	s.NoError(VerifyOutcome(pub, msg, sig1))

	msg.Outcome = false
	s.Error(VerifyOutcome(pub, msg, sig1))
}

func (s *SignerSuite) TestUnconfiguredSignerRefusesToSign() {
	signer := NewUnconfigured()
	_, ok := signer.PublicKeyHex()
	s.False(ok)

	_, err := signer.SignOutcome(1, true, big.NewInt(1), 1)
	s.ErrorIs(err, oracleerrors.ErrSignerUnconfigured)

	s.ErrorIs(signer.SignDeploy(&types.Deploy{}), oracleerrors.ErrSignerUnconfigured)
}

func (s *SignerSuite) TestMissingKeyFileFallsBackToEphemeralKey() {
	signer, err := New(s.ctx, Params{SecretKeyPath: filepath.Join(s.dir, "missing.pem"), AllowEphemeral: true})
	s.Require().NoError(err)
	s.True(signer.IsConfigured())
	s.True(signer.IsEphemeral())
	s.NoError(signer.LoadError())

	pub, ok := signer.PublicKeyHex()
	s.True(ok)
	s.Len(pub, 64)
}

func (s *SignerSuite) TestMissingKeyFileWithoutEphemeralIsForbidden() {
	signer, err := New(s.ctx, Params{SecretKeyPath: filepath.Join(s.dir, "missing.pem")})
	s.ErrorIs(err, ErrEphemeralKeyForbidden)
	s.Nil(signer)
}

func (s *SignerSuite) TestUnreadableKeyPathLeavesSignerUnconfigured() {
	signer, err := New(s.ctx, Params{SecretKeyPath: s.dir, AllowEphemeral: true})
	s.Require().NoError(err)
	s.False(signer.IsConfigured())
	s.False(signer.IsEphemeral())
	s.ErrorIs(signer.LoadError(), oracleerrors.ErrKeyLoadFailure)
}

func (s *SignerSuite) TestEphemeralKeysAreFresh() {
	first, err := New(s.ctx, Params{AllowEphemeral: true})
	s.Require().NoError(err)
	second, err := New(s.ctx, Params{AllowEphemeral: true})
	s.Require().NoError(err)

	firstHex, _ := first.PublicKeyHex()
	secondHex, _ := second.PublicKeyHex()
	s.NotEqual(firstHex, secondHex)
}

func (s *SignerSuite) TestDifferentKeysSignDifferently() {
	first, err := New(s.ctx, Params{AllowEphemeral: true})
	s.Require().NoError(err)
	second, err := New(s.ctx, Params{AllowEphemeral: true})
	s.Require().NoError(err)

	sig1, err := first.SignOutcome(3, true, big.NewInt(2500), 1_700_000_000)
	s.Require().NoError(err)
	sig2, err := second.SignOutcome(3, true, big.NewInt(2500), 1_700_000_000)
	s.Require().NoError(err)
	s.NotEqual(sig1, sig2)

	otherPub, _ := second.PublicKey()
	msg := OutcomeMessage{CallID: 3, Outcome: true, FinalPrice: big.NewInt(2500), Timestamp: 1_700_000_000}
	s.Error(VerifyOutcome(otherPub, msg, sig1))
}

func (s *SignerSuite) TestInvalidKeyFileLeavesSignerUnconfigured() {
	path := filepath.Join(s.dir, "secret_key.pem")
	s.Require().NoError(os.WriteFile(path, []byte("garbage"), 0600))

	signer, err := New(s.ctx, Params{SecretKeyPath: path, AllowEphemeral: true})
	s.Require().NoError(err)
	s.False(signer.IsConfigured())
	s.False(signer.IsEphemeral())
	s.ErrorIs(signer.LoadError(), oracleerrors.ErrKeyLoadFailure)
}

func (s *SignerSuite) TestLoadsGeneratedKeyFiles() {
	for _, algorithm := range []casper.Algorithm{casper.AlgorithmEd25519, casper.AlgorithmSecp256k1} {
		path := filepath.Join(s.dir, string(algorithm)+".pem")
		generated, err := GenerateKeyFile(path, algorithm)
		s.Require().NoError(err)

		info, err := os.Stat(path)
		s.Require().NoError(err)
		s.Equal(keyFilePerms, info.Mode().Perm())

		signer, err := New(s.ctx, Params{SecretKeyPath: path})
		s.Require().NoError(err)
		s.Require().True(signer.IsConfigured())
		s.NoError(signer.LoadError())

		pub, _ := signer.PublicKey()
		s.True(pub.Equals(generated.PublicKey()))
		s.Equal(algorithm, casper.KeyAlgorithm(pub))

		sig, err := signer.SignOutcome(9, false, big.NewInt(0), 42)
		s.Require().NoError(err)
		s.NoError(VerifyOutcome(pub, OutcomeMessage{CallID: 9, FinalPrice: big.NewInt(0), Timestamp: 42}, sig))
	}
}

func (s *SignerSuite) TestGenerateKeyFileDoesNotOverwrite() {
	path := filepath.Join(s.dir, "existing.pem")
	s.Require().NoError(os.WriteFile(path, []byte("keep me"), 0600))

	_, err := GenerateKeyFile(path, casper.AlgorithmEd25519)
	s.Error(err)

	data, err := os.ReadFile(path)
	s.Require().NoError(err)
	s.Equal("keep me", string(data))
}

func (s *SignerSuite) TestSignDeployAddsApproval() {
	signer, err := New(s.ctx, Params{AllowEphemeral: true})
	s.Require().NoError(err)

	pub, _ := signer.PublicKey()
	header := types.DefaultHeader()
	header.Account = pub
	header.ChainName = "casper-test"
	payment := types.StandardPayment(big.NewInt(1))
	d, err := types.MakeDeploy(header, payment, payment)
	s.Require().NoError(err)

	s.Require().NoError(signer.SignDeploy(d))
	s.Require().Len(d.Approvals, 1)
	s.True(d.Approvals[0].Signer.Equals(pub))
	valid, err := d.ValidateDeploy()
	s.Require().NoError(err)
	s.True(valid)
}

func TestCanonicalJSON(t *testing.T) {
	msg := OutcomeMessage{CallID: 7, Outcome: true, FinalPrice: big.NewInt(1500), Timestamp: 1_700_000_000}
	expected := `{"callId":7,"outcome":true,"finalPrice":"1500","timestamp":1700000000}`
	if got := string(msg.CanonicalJSON()); got != expected {
		t.Fatalf("unexpected canonical JSON: %s", got)
	}

	big256 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	msg = OutcomeMessage{CallID: 0, FinalPrice: big256}
	expected = `{"callId":0,"outcome":false,"finalPrice":"` + big256.String() + `","timestamp":0}`
	if got := string(msg.CanonicalJSON()); got != expected {
		t.Fatalf("unexpected canonical JSON: %s", got)
	}
}
