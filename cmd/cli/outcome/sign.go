package outcome

import (
	"encoding/hex"

	"github.com/spf13/cobra"

	"github.com/backit-onchain/oracle/cmd/util/output"
)

type signResult struct {
	Message   string `json:"message"`
	Signature string `json:"signature"`
	PublicKey string `json:"publicKey"`
}

func NewSignCmd() *cobra.Command {
	flags := &outcomeFlags{}
	opts := output.OutputOptions{Format: output.JSONFormat, Pretty: true}
	signCmd := &cobra.Command{
		Use:   "sign <call id>",
		Short: "Sign the outcome of a call without submitting it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.request(args[0])
			if err != nil {
				return err
			}
			service, _, err := newService(cmd)
			if err != nil {
				return err
			}
			signed, err := service.SignOutcome(cmd.Context(), req)
			if err != nil {
				return err
			}
			return output.OutputOne(cmd, nil, opts, signResult{
				Message:   string(signed.Message.CanonicalJSON()),
				Signature: hex.EncodeToString(signed.Signature),
				PublicKey: signed.PublicKey,
			})
		},
	}
	flags.register(signCmd.Flags())
	signCmd.Flags().BoolVar(&opts.Pretty, "pretty", opts.Pretty, "Pretty print the output.")
	return signCmd
}
