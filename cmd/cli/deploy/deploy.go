package deploy

import (
	"fmt"
	"math/big"
	"strconv"

	casper_types "github.com/make-software/casper-go-sdk/types"
	"github.com/make-software/casper-go-sdk/types/key"
	"github.com/make-software/casper-go-sdk/types/keypair"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/backit-onchain/oracle/cmd/util"
	"github.com/backit-onchain/oracle/cmd/util/output"
	"github.com/backit-onchain/oracle/pkg/casper"
	"github.com/backit-onchain/oracle/pkg/casper/rpc"
	"github.com/backit-onchain/oracle/pkg/config/types"
	"github.com/backit-onchain/oracle/pkg/deploys"
	"github.com/backit-onchain/oracle/pkg/signer"
)

type buildFunc func(b *deploys.Builder, sender keypair.PublicKey) (*casper_types.Deploy, error)

type deployOptions struct {
	sender string
	sign   bool
	submit bool
	output output.OutputOptions
}

type result struct {
	DeployHash key.Hash             `json:"deployHash"`
	Submitted  bool                 `json:"submitted"`
	Deploy     *casper_types.Deploy `json:"deploy"`
}

// NewCmd groups the commands that build call registry and outcome manager deploys.
func NewCmd() *cobra.Command {
	deployCmd := &cobra.Command{
		Use:   "deploy",
		Short: "Build, sign and submit BackIT contract deploys",
	}
	deployCmd.AddCommand(newCreateCallCmd())
	deployCmd.AddCommand(newStakeCmd())
	deployCmd.AddCommand(newWithdrawCmd())
	return deployCmd
}

func newCreateCallCmd() *cobra.Command {
	opts := &deployOptions{}
	var endTS uint64
	var token, pairID, ipfsCID, stake string
	cmd := &cobra.Command{
		Use:   "create-call",
		Short: "Build a deploy that opens a new call",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if pairID == "" {
				return fmt.Errorf("--pair is required")
			}
			motes, err := parseStake(stake)
			if err != nil {
				return err
			}
			return run(cmd, opts, func(b *deploys.Builder, sender keypair.PublicKey) (*casper_types.Deploy, error) {
				return b.BuildCreateCall(sender, endTS, token, pairID, ipfsCID, motes)
			})
		},
	}
	cmd.Flags().Uint64Var(&endTS, "end-ts", 0, "Unix time in seconds at which the call ends.")
	cmd.Flags().StringVar(&token, "token", "", "Token address the call is about.")
	cmd.Flags().StringVar(&pairID, "pair", "", "Price feed pair id of the token.")
	cmd.Flags().StringVar(&ipfsCID, "ipfs-cid", "", "IPFS CID of the call's thesis.")
	cmd.Flags().StringVar(&stake, "stake", "", "Initial stake in CSPR.")
	opts.register(cmd)
	return cmd
}

func newStakeCmd() *cobra.Command {
	opts := &deployOptions{}
	var position bool
	var stake string
	cmd := &cobra.Command{
		Use:   "stake <call id>",
		Short: "Build a deploy that stakes on a call",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			callID, err := parseCallID(args[0])
			if err != nil {
				return err
			}
			motes, err := parseStake(stake)
			if err != nil {
				return err
			}
			return run(cmd, opts, func(b *deploys.Builder, sender keypair.PublicKey) (*casper_types.Deploy, error) {
				return b.BuildStakeOnCall(sender, callID, position, motes)
			})
		},
	}
	cmd.Flags().BoolVar(&position, "yes", false, "Stake on YES. Stakes on NO when unset.")
	cmd.Flags().StringVar(&stake, "stake", "", "Stake in CSPR.")
	opts.register(cmd)
	return cmd
}

func newWithdrawCmd() *cobra.Command {
	opts := &deployOptions{}
	cmd := &cobra.Command{
		Use:   "withdraw <call id>",
		Short: "Build a deploy that withdraws the payout of a settled call",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			callID, err := parseCallID(args[0])
			if err != nil {
				return err
			}
			return run(cmd, opts, func(b *deploys.Builder, sender keypair.PublicKey) (*casper_types.Deploy, error) {
				return b.BuildWithdrawPayout(sender, callID)
			})
		},
	}
	opts.register(cmd)
	return cmd
}

func (o *deployOptions) register(cmd *cobra.Command) {
	o.output = output.OutputOptions{Format: output.JSONFormat, Pretty: true}
	fs := cmd.Flags()
	fs.StringVar(&o.sender, "sender", "", "Hex public key of the sending account. Defaults to the --key account.")
	fs.BoolVar(&o.sign, "sign", false, "Sign the deploy with --key.")
	fs.BoolVar(&o.submit, "submit", false, "Submit the signed deploy to the node. Implies --sign.")
	fs.BoolVar(&o.output.Pretty, "pretty", o.output.Pretty, "Pretty print the output.")
	fs.String(util.FlagKey, "", "Path to a secret key PEM file.")
	util.AddNodeFlags(fs)
	util.AddContractFlags(fs)
}

func run(cmd *cobra.Command, opts *deployOptions, build buildFunc) error {
	ctx := cmd.Context()
	cfg, err := util.LoadConfig(cmd)
	if err != nil {
		return err
	}

	var sgn *signer.Signer
	if opts.sign || opts.submit || opts.sender == "" {
		if sgn, err = loadSigner(cmd, cfg); err != nil {
			return err
		}
	}

	sender, err := senderKey(opts.sender, sgn)
	if err != nil {
		return err
	}

	builder := deploys.NewBuilder(cfg.Node.ChainName, cfg.Contracts.CallRegistry, cfg.Contracts.OutcomeManager)
	d, err := build(builder, sender)
	if err != nil {
		return err
	}

	res := result{DeployHash: d.Hash, Deploy: d}
	if opts.sign || opts.submit {
		if err = sgn.SignDeploy(d); err != nil {
			return err
		}
	}
	if opts.submit {
		node := rpc.NewClient(cfg.Node.RPCURL, cfg.Node.RequestTimeout.AsTimeDuration())
		if res.DeployHash, err = node.PutDeploy(ctx, *d); err != nil {
			return err
		}
		res.Submitted = true
		log.Ctx(ctx).Info().Str("DeployHash", res.DeployHash.String()).Msg("deploy submitted")
	}
	return output.OutputOne(cmd, nil, opts.output, res)
}

func loadSigner(cmd *cobra.Command, cfg types.Oracle) (*signer.Signer, error) {
	if cfg.Signer.SecretKeyPath == "" {
		return nil, fmt.Errorf("--%s is required to sign or to derive the sender", util.FlagKey)
	}
	sgn, err := signer.New(cmd.Context(), signer.Params{SecretKeyPath: cfg.Signer.SecretKeyPath})
	if err != nil {
		return nil, err
	}
	if !sgn.IsConfigured() {
		return nil, sgn.LoadError()
	}
	return sgn, nil
}

func senderKey(hex string, sgn *signer.Signer) (keypair.PublicKey, error) {
	if hex != "" {
		return casper.ParsePublicKey(hex)
	}
	pub, ok := sgn.PublicKey()
	if !ok {
		return keypair.PublicKey{}, fmt.Errorf("no sender account")
	}
	return pub, nil
}

func parseCallID(s string) (uint64, error) {
	callID, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid call id %q", s)
	}
	return callID, nil
}

func parseStake(cspr string) (*big.Int, error) {
	motes, err := casper.CSPRToMotes(cspr)
	if err != nil {
		return nil, fmt.Errorf("invalid --stake %q: %w", cspr, err)
	}
	if motes.Sign() <= 0 {
		return nil, fmt.Errorf("--stake must be positive")
	}
	return motes, nil
}
