package outcome

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/backit-onchain/oracle/cmd/util"
	"github.com/backit-onchain/oracle/cmd/util/output"
	"github.com/backit-onchain/oracle/pkg/casper"
	"github.com/backit-onchain/oracle/pkg/settlement"
)

func NewSettleCmd() *cobra.Command {
	flags := &outcomeFlags{}
	var wait bool
	var waitTimeout time.Duration
	opts := output.OutputOptions{Format: output.JSONFormat, Pretty: true}
	settleCmd := &cobra.Command{
		Use:   "settle <call id>",
		Short: "Sign the outcome of a call and submit it to the outcome manager",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.request(args[0])
			if err != nil {
				return err
			}
			service, components, err := newService(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			record, err := service.Settle(ctx, req)
			if err != nil {
				return err
			}
			log.Ctx(ctx).Info().Str("DeployHash", record.DeployHash).Msg("outcome submitted")

			if wait {
				hash, err := casper.ParseHash(record.DeployHash)
				if err != nil {
					return err
				}
				waitCtx, cancel := context.WithTimeout(ctx, waitTimeout)
				defer cancel()
				spin, err := util.NewSpinner(cmd.ErrOrStderr(), "waiting for deploy "+hash.String())
				if err != nil {
					return err
				}
				record.Status = components.Submitter.WaitForDeploy(waitCtx, hash, time.Second, 15*time.Second)
				spin.Done(record.Status == settlement.StatusSuccess, "deploy "+record.Status.String())
			}
			return output.OutputOne(cmd, nil, opts, record)
		},
	}
	flags.register(settleCmd.Flags())
	settleCmd.Flags().BoolVar(&wait, "wait", false, "Wait for the deploy to be executed.")
	settleCmd.Flags().DurationVar(&waitTimeout, "wait-timeout", 5*time.Minute, "How long --wait waits for.")
	settleCmd.Flags().BoolVar(&opts.Pretty, "pretty", opts.Pretty, "Pretty print the output.")
	return settleCmd
}
