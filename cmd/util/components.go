package util

import (
	"context"

	"github.com/backit-onchain/oracle/pkg/casper/rpc"
	"github.com/backit-onchain/oracle/pkg/config/types"
	"github.com/backit-onchain/oracle/pkg/deploys"
	"github.com/backit-onchain/oracle/pkg/pricefeed"
	"github.com/backit-onchain/oracle/pkg/settlement"
	"github.com/backit-onchain/oracle/pkg/signer"
)

// Components are the parts of the oracle shared by the CLI commands.
type Components struct {
	Signer    *signer.Signer
	Node      *rpc.Client
	Builder   *deploys.Builder
	Submitter *settlement.Submitter
	Prices    *pricefeed.Client
}

func NewComponents(ctx context.Context, cfg types.Oracle) (*Components, error) {
	sgn, err := signer.New(ctx, signer.Params{
		SecretKeyPath:  cfg.Signer.SecretKeyPath,
		AllowEphemeral: cfg.EphemeralKeyAllowed(),
	})
	if err != nil {
		return nil, err
	}
	node := rpc.NewClient(cfg.Node.RPCURL, cfg.Node.RequestTimeout.AsTimeDuration())
	builder := deploys.NewBuilder(cfg.Node.ChainName, cfg.Contracts.CallRegistry, cfg.Contracts.OutcomeManager)
	return &Components{
		Signer:    sgn,
		Node:      node,
		Builder:   builder,
		Submitter: settlement.NewSubmitter(sgn, builder, node),
		Prices: pricefeed.NewClient(pricefeed.Params{
			BaseURL: cfg.PriceFeed.BaseURL,
			Chain:   cfg.PriceFeed.Chain,
			Timeout: cfg.PriceFeed.Timeout.AsTimeDuration(),
		}),
	}, nil
}
