//go:build unit || !integration

package deploys

import (
	"encoding/json"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/make-software/casper-go-sdk/types"
	"github.com/make-software/casper-go-sdk/types/clvalue"
	"github.com/make-software/casper-go-sdk/types/clvalue/cltype"
	"github.com/make-software/casper-go-sdk/types/keypair"
	"github.com/stretchr/testify/suite"

	"github.com/backit-onchain/oracle/pkg/oracleerrors"
)

var (
	callRegistryHex   = strings.Repeat("11", 32)
	outcomeManagerHex = strings.Repeat("22", 32)
	fixedTime         = time.UnixMilli(1_700_000_000_000)
)

type BuilderSuite struct {
	suite.Suite
	builder *Builder
	sender  keypair.PublicKey
}

func TestBuilderSuite(t *testing.T) {
	suite.Run(t, new(BuilderSuite))
}

func (s *BuilderSuite) SetupTest() {
	s.builder = NewBuilder("casper-test", "hash-"+callRegistryHex, outcomeManagerHex)
	s.builder.Clock = func() time.Time { return fixedTime }

	secret, err := keypair.GeneratePrivateKey(keypair.ED25519)
	s.Require().NoError(err)
	s.sender = secret.PublicKey()
}

func (s *BuilderSuite) paymentAmount(d *types.Deploy) string {
	s.Require().NotNil(d.Payment.ModuleBytes)
	s.Empty(d.Payment.ModuleBytes.ModuleBytes)
	amount := s.arg(*d.Payment.ModuleBytes.Args, "amount")
	s.Equal(cltype.UInt512, amount.Type)
	return amount.UI512.Value().String()
}

func (s *BuilderSuite) session(d *types.Deploy) *types.StoredContractByHash {
	s.Require().NotNil(d.Session.StoredContractByHash)
	return d.Session.StoredContractByHash
}

func (s *BuilderSuite) arg(args types.Args, name string) clvalue.CLValue {
	a, err := args.Find(name)
	s.Require().NoError(err, name)
	value, err := a.Value()
	s.Require().NoError(err, name)
	return value
}

func (s *BuilderSuite) argNames(args *types.Args) []string {
	names := make([]string, 0, len(*args))
	for _, a := range *args {
		name, err := a.Name()
		s.Require().NoError(err)
		names = append(names, name)
	}
	return names
}

func (s *BuilderSuite) TestBuildCreateCall() {
	d, err := s.builder.BuildCreateCall(s.sender, 1_800_000_000, "0xtoken", "0xpair", "bafycid", big.NewInt(10_000_000_000))
	s.Require().NoError(err)

	s.Equal("15000000000", s.paymentAmount(d))
	session := s.session(d)
	s.Equal(EntryPointCreateCall, session.EntryPoint)
	s.Equal(callRegistryHex, session.Hash.ToHex())
	s.Equal([]string{"end_ts", "token_address", "pair_id", "ipfs_cid"}, s.argNames(session.Args))

	endTS := s.arg(*session.Args, "end_ts")
	s.Equal(cltype.UInt64, endTS.Type)
	s.Equal(uint64(1_800_000_000), endTS.UI64.Value())
	pair := s.arg(*session.Args, "pair_id")
	s.Equal(cltype.String, pair.Type)
	s.Equal("0xpair", pair.StringVal.String())
}

func (s *BuilderSuite) TestBuildStakeOnCall() {
	d, err := s.builder.BuildStakeOnCall(s.sender, 4, false, big.NewInt(2_000_000_000))
	s.Require().NoError(err)

	s.Equal("5000000000", s.paymentAmount(d))
	session := s.session(d)
	s.Equal(EntryPointStakeOnCall, session.EntryPoint)
	s.Equal(callRegistryHex, session.Hash.ToHex())
	s.Equal([]string{"call_id", "position"}, s.argNames(session.Args))

	position := s.arg(*session.Args, "position")
	s.Equal(cltype.Bool, position.Type)
	s.False(position.Bool.Value())
}

func (s *BuilderSuite) TestStakeTenCSPROnYes() {
	d, err := s.builder.BuildStakeOnCall(s.sender, 42, true, big.NewInt(10_000_000_000))
	s.Require().NoError(err)

	s.Equal("13000000000", s.paymentAmount(d))
	args := *s.session(d).Args
	callID := s.arg(args, "call_id")
	s.Equal(cltype.UInt64, callID.Type)
	s.Equal(uint64(42), callID.UI64.Value())
	s.True(s.arg(args, "position").Bool.Value())
}

func (s *BuilderSuite) TestBuildWithdrawPayout() {
	d, err := s.builder.BuildWithdrawPayout(s.sender, 4)
	s.Require().NoError(err)

	s.Equal("3000000000", s.paymentAmount(d))
	session := s.session(d)
	s.Equal(EntryPointWithdrawPayout, session.EntryPoint)
	s.Equal(outcomeManagerHex, session.Hash.ToHex())
	s.Equal([]string{"call_id"}, s.argNames(session.Args))
}

func (s *BuilderSuite) TestBuildSubmitOutcome() {
	d, err := s.builder.BuildSubmitOutcome(s.sender, 7, true, big.NewInt(1500))
	s.Require().NoError(err)

	s.Equal("5000000000", s.paymentAmount(d))
	session := s.session(d)
	s.Equal(EntryPointSubmitOutcome, session.EntryPoint)
	s.Equal(outcomeManagerHex, session.Hash.ToHex())
	s.Equal([]string{"call_id", "outcome", "final_price"}, s.argNames(session.Args))

	price := s.arg(*session.Args, "final_price")
	s.Equal(cltype.UInt256, price.Type)
	s.Equal("1500", price.UI256.Value().String())
}

func (s *BuilderSuite) TestHeaderDefaults() {
	d, err := s.builder.BuildWithdrawPayout(s.sender, 1)
	s.Require().NoError(err)

	s.Equal("casper-test", d.Header.ChainName)
	s.Equal(uint64(1), d.Header.GasPrice)
	s.Equal(30*time.Minute, time.Duration(d.Header.TTL))
	s.Equal(fixedTime.UnixMilli(), d.Header.Timestamp.ToTime().UnixMilli())
	s.True(d.Header.Account.Equals(s.sender))
	s.Empty(d.Approvals)

	valid, err := d.ValidateDeploy()
	s.Require().NoError(err)
	s.True(valid)
}

func (s *BuilderSuite) TestSameInputsSameHash() {
	a, err := s.builder.BuildSubmitOutcome(s.sender, 7, true, big.NewInt(1500))
	s.Require().NoError(err)
	b, err := s.builder.BuildSubmitOutcome(s.sender, 7, true, big.NewInt(1500))
	s.Require().NoError(err)
	s.Equal(a.Hash, b.Hash)

	c, err := s.builder.BuildSubmitOutcome(s.sender, 7, false, big.NewInt(1500))
	s.Require().NoError(err)
	s.NotEqual(a.Hash, c.Hash)
}

func (s *BuilderSuite) TestMissingContracts() {
	builder := NewBuilder("casper-test", "", "")

	_, err := builder.BuildCreateCall(s.sender, 1, "t", "p", "c", big.NewInt(1))
	s.ErrorIs(err, oracleerrors.ErrContractNotConfigured)
	_, err = builder.BuildStakeOnCall(s.sender, 1, true, big.NewInt(1))
	s.ErrorIs(err, oracleerrors.ErrContractNotConfigured)
	_, err = builder.BuildWithdrawPayout(s.sender, 1)
	s.ErrorIs(err, oracleerrors.ErrContractNotConfigured)
	_, err = builder.BuildSubmitOutcome(s.sender, 1, true, big.NewInt(1))
	s.ErrorIs(err, oracleerrors.ErrContractNotConfigured)
	s.False(builder.HasOutcomeManager())
}

func (s *BuilderSuite) TestInvalidContractAddress() {
	builder := NewBuilder("casper-test", "hash-nothex", outcomeManagerHex)
	_, err := builder.BuildStakeOnCall(s.sender, 1, true, big.NewInt(1))
	s.ErrorIs(err, oracleerrors.ErrContractNotConfigured)
}

func (s *BuilderSuite) TestRejectsBadAmounts() {
	_, err := s.builder.BuildStakeOnCall(s.sender, 1, true, big.NewInt(-1))
	s.Error(err)

	tooBig := new(big.Int).Lsh(big.NewInt(1), 256)
	_, err = s.builder.BuildSubmitOutcome(s.sender, 1, true, tooBig)
	s.Error(err)
}

func (s *BuilderSuite) TestContractHashSerializedWithoutPrefix() {
	d, err := s.builder.BuildStakeOnCall(s.sender, 1, true, big.NewInt(1))
	s.Require().NoError(err)

	raw, err := json.Marshal(d.Session)
	s.Require().NoError(err)
	s.Contains(string(raw), `"hash":"`+callRegistryHex+`"`)
	s.NotContains(string(raw), "hash-")
}

func (s *BuilderSuite) TestSignedDeployValidates() {
	secret, err := keypair.GeneratePrivateKey(keypair.ED25519)
	s.Require().NoError(err)
	d, err := s.builder.BuildSubmitOutcome(secret.PublicKey(), 9, false, big.NewInt(42))
	s.Require().NoError(err)
	s.Require().NoError(d.SignDeploy(secret))

	valid, err := d.ValidateDeploy()
	s.Require().NoError(err)
	s.True(valid)

	d.Header.ChainName = "casper"
	valid, err = d.ValidateDeploy()
	s.Require().NoError(err)
	s.False(valid)
}
