package deploys

import (
	"math/big"
	"time"

	"github.com/make-software/casper-go-sdk/types"
	"github.com/make-software/casper-go-sdk/types/clvalue"
	"github.com/make-software/casper-go-sdk/types/key"
	"github.com/make-software/casper-go-sdk/types/keypair"

	"github.com/backit-onchain/oracle/pkg/casper"
	"github.com/backit-onchain/oracle/pkg/oracleerrors"
)

const (
	EntryPointCreateCall     = "create_call"
	EntryPointStakeOnCall    = "stake_on_call"
	EntryPointWithdrawPayout = "withdraw_payout"
	EntryPointSubmitOutcome  = "submit_outcome"

	contractCallRegistry   = "call registry"
	contractOutcomeManager = "outcome manager"
)

// Gas surcharges in motes, added on top of any stake carried by the deploy.
var (
	CreateCallGas     = big.NewInt(5_000_000_000)
	StakeOnCallGas    = big.NewInt(3_000_000_000)
	WithdrawPayoutGas = big.NewInt(3_000_000_000)
	SubmitOutcomeGas  = big.NewInt(5_000_000_000)
)

// Clock returns the current time. Tests pin it to make deploy hashes reproducible.
type Clock func() time.Time

// Builder constructs unsigned deploys for the BackIT contracts on top of the SDK deploy types.
// It performs no I/O.
type Builder struct {
	ChainName      string
	CallRegistry   string
	OutcomeManager string
	TTL            time.Duration
	Clock          Clock
}

func NewBuilder(chainName, callRegistry, outcomeManager string) *Builder {
	return &Builder{
		ChainName:      chainName,
		CallRegistry:   callRegistry,
		OutcomeManager: outcomeManager,
		TTL:            casper.DeployTTL,
		Clock:          time.Now,
	}
}

// HasOutcomeManager reports whether submit_outcome and withdraw_payout deploys can be built.
func (b *Builder) HasOutcomeManager() bool {
	return b.OutcomeManager != ""
}

func (b *Builder) HasCallRegistry() bool {
	return b.CallRegistry != ""
}

// BuildCreateCall opens a new call, staking stake motes on it.
func (b *Builder) BuildCreateCall(
	sender keypair.PublicKey, endTS uint64, tokenAddress, pairID, ipfsCID string, stake *big.Int,
) (*types.Deploy, error) {
	args := (&types.Args{}).
		AddArgument("end_ts", *clvalue.NewCLUInt64(endTS)).
		AddArgument("token_address", *clvalue.NewCLString(tokenAddress)).
		AddArgument("pair_id", *clvalue.NewCLString(pairID)).
		AddArgument("ipfs_cid", *clvalue.NewCLString(ipfsCID))
	return b.build(sender, contractCallRegistry, b.CallRegistry, EntryPointCreateCall, args, stake, CreateCallGas)
}

// BuildStakeOnCall stakes on the YES (true) or NO (false) side of a call.
func (b *Builder) BuildStakeOnCall(
	sender keypair.PublicKey, callID uint64, position bool, stake *big.Int,
) (*types.Deploy, error) {
	args := (&types.Args{}).
		AddArgument("call_id", *clvalue.NewCLUInt64(callID)).
		AddArgument("position", clvalue.NewCLBool(position))
	return b.build(sender, contractCallRegistry, b.CallRegistry, EntryPointStakeOnCall, args, stake, StakeOnCallGas)
}

func (b *Builder) BuildWithdrawPayout(sender keypair.PublicKey, callID uint64) (*types.Deploy, error) {
	args := (&types.Args{}).
		AddArgument("call_id", *clvalue.NewCLUInt64(callID))
	return b.build(sender, contractOutcomeManager, b.OutcomeManager, EntryPointWithdrawPayout, args, nil, WithdrawPayoutGas)
}

// BuildSubmitOutcome settles a call. Only the authorised oracle account can execute it successfully.
func (b *Builder) BuildSubmitOutcome(
	sender keypair.PublicKey, callID uint64, outcome bool, finalPrice *big.Int,
) (*types.Deploy, error) {
	if finalPrice == nil || finalPrice.Sign() < 0 || finalPrice.BitLen() > 256 {
		return nil, oracleerrors.New(oracleerrors.BadRequest, "invalid final price: must fit an unsigned 256 bit integer")
	}
	args := (&types.Args{}).
		AddArgument("call_id", *clvalue.NewCLUInt64(callID)).
		AddArgument("outcome", clvalue.NewCLBool(outcome)).
		AddArgument("final_price", *clvalue.NewCLUInt256(finalPrice))
	return b.build(sender, contractOutcomeManager, b.OutcomeManager, EntryPointSubmitOutcome, args, nil, SubmitOutcomeGas)
}

func (b *Builder) build(
	sender keypair.PublicKey,
	contractName, contractAddress, entryPoint string,
	args *types.Args,
	stake, gas *big.Int,
) (*types.Deploy, error) {
	if contractAddress == "" {
		return nil, oracleerrors.NewContractNotConfigured(contractName)
	}
	contractHash, err := casper.ParseContractHash(contractAddress)
	if err != nil {
		return nil, oracleerrors.Wrap(oracleerrors.ContractNotConfigured, err,
			"%s contract address is invalid", contractName).WithDetail("contract", contractName)
	}
	if stake != nil && stake.Sign() < 0 {
		return nil, oracleerrors.New(oracleerrors.BadRequest, "stake must not be negative")
	}

	amount := new(big.Int).Set(gas)
	if stake != nil {
		amount.Add(amount, stake)
	}

	header := types.DefaultHeader()
	header.Account = sender
	header.ChainName = b.ChainName
	header.Timestamp = types.Timestamp(b.Clock().UTC().Truncate(time.Millisecond))
	if b.TTL > 0 {
		header.TTL = types.Duration(b.TTL)
	}

	// the node expects the bare hex hash, whatever prefix the address was configured with
	session := types.ExecutableDeployItem{
		StoredContractByHash: &types.StoredContractByHash{
			Hash:       key.ContractHash{Hash: contractHash},
			EntryPoint: entryPoint,
			Args:       args,
		},
	}
	return types.MakeDeploy(header, types.StandardPayment(amount), session)
}
