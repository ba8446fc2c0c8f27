package key

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/backit-onchain/oracle/cmd/util"
	"github.com/backit-onchain/oracle/cmd/util/output"
	"github.com/backit-onchain/oracle/pkg/casper"
	"github.com/backit-onchain/oracle/pkg/oracle"
	"github.com/backit-onchain/oracle/pkg/publicapi"
	"github.com/backit-onchain/oracle/pkg/signer"
)

func NewCmd() *cobra.Command {
	keyCmd := &cobra.Command{
		Use:   "key",
		Short: "Manage the oracle signing key",
	}
	keyCmd.AddCommand(newShowCmd())
	keyCmd.AddCommand(newGenerateCmd())
	keyCmd.AddCommand(newTokenCmd())
	return keyCmd
}

var keyColumns = []output.TableColumn[oracle.PublicKeyInfo]{
	{ColumnConfig: table.ColumnConfig{Name: "algorithm"}, Value: func(k oracle.PublicKeyInfo) string { return k.Algorithm }},
	{ColumnConfig: table.ColumnConfig{Name: "public key"}, Value: func(k oracle.PublicKeyInfo) string { return k.PublicKey }},
	{ColumnConfig: table.ColumnConfig{Name: "account"}, Value: func(k oracle.PublicKeyInfo) string { return k.Account }},
	{ColumnConfig: table.ColumnConfig{Name: "ephemeral"}, Value: func(k oracle.PublicKeyInfo) string { return fmt.Sprint(k.Ephemeral) }},
}

func newShowCmd() *cobra.Command {
	opts := output.OutputOptions{Format: output.TableFormat}
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the public key the oracle signs with",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := util.LoadConfig(cmd)
			if err != nil {
				return err
			}
			sgn, err := signer.New(cmd.Context(), signer.Params{
				SecretKeyPath:  cfg.Signer.SecretKeyPath,
				AllowEphemeral: cfg.EphemeralKeyAllowed(),
			})
			if err != nil {
				return err
			}
			if !sgn.IsConfigured() {
				return sgn.LoadError()
			}
			info, err := oracle.NewService(oracle.Params{Signer: sgn}).PublicKey()
			if err != nil {
				return err
			}
			return output.OutputOne(cmd, keyColumns, opts, info)
		},
	}
	showCmd.Flags().String(util.FlagKey, "", "Path to the oracle secret key PEM file.")
	showCmd.Flags().AddFlagSet(output.OutputFormatFlags(&opts))
	return showCmd
}

func newGenerateCmd() *cobra.Command {
	var algorithm string
	generateCmd := &cobra.Command{
		Use:   "generate <path>",
		Short: "Write a new secret key PEM file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			alg := casper.Algorithm(algorithm)
			switch alg {
			case casper.AlgorithmEd25519, casper.AlgorithmSecp256k1:
			default:
				return fmt.Errorf("unknown algorithm %q, expected ed25519 or secp256k1", algorithm)
			}
			key, err := signer.GenerateKeyFile(args[0], alg)
			if err != nil {
				return err
			}
			cmd.Printf("wrote %s key to %s\n", alg, args[0])
			cmd.Printf("public key: %s\n", key.PublicKey().ToHex())
			return nil
		},
	}
	generateCmd.Flags().StringVar(&algorithm, "algorithm", "ed25519", "Key algorithm: ed25519 or secp256k1.")
	return generateCmd
}

func newTokenCmd() *cobra.Command {
	var subject string
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the authenticated API endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := util.LoadConfig(cmd)
			if err != nil {
				return err
			}
			token, err := publicapi.GenerateToken(cfg.API.JWTSecret, subject)
			if err != nil {
				return err
			}
			cmd.Println(token)
			return nil
		},
	}
	tokenCmd.Flags().StringVar(&subject, "subject", "keeper", "Subject recorded in the token.")
	return tokenCmd
}
