package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"github.com/backit-onchain/oracle/cmd/cli/deploy"
	"github.com/backit-onchain/oracle/cmd/cli/key"
	"github.com/backit-onchain/oracle/cmd/cli/outcome"
	"github.com/backit-onchain/oracle/cmd/cli/price"
	"github.com/backit-onchain/oracle/cmd/cli/serve"
	"github.com/backit-onchain/oracle/cmd/cli/settlements"
	"github.com/backit-onchain/oracle/cmd/cli/version"
	"github.com/backit-onchain/oracle/cmd/util"
	"github.com/backit-onchain/oracle/pkg/system"
)

type spanKeyType struct{}

var spanKey = spanKeyType{}

func NewRootCmd() *cobra.Command {
	RootCmd := &cobra.Command{
		Use:           "backit-oracle",
		Short:         "BackIT prediction market oracle for Casper",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if err := util.ConfigureLogging(cmd); err != nil {
				return err
			}

			cm := system.NewCleanupManager()
			ctx = context.WithValue(ctx, util.SystemManagerKey, cm)

			var names []string
			root := cmd
			for ; root.HasParent(); root = root.Parent() {
				names = append([]string{root.Name()}, names...)
			}
			name := fmt.Sprintf("backit.%s", strings.Join(names, "."))
			ctx, span := system.NewRootSpan(ctx, system.GetTracer(), name)
			ctx = context.WithValue(ctx, spanKey, span)

			cmd.SetContext(ctx)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			if span, ok := ctx.Value(spanKey).(trace.Span); ok {
				span.End()
			}
			util.GetCleanupManager(ctx).Cleanup(ctx)
		},
	}
	util.AddRootFlags(RootCmd)

	RootCmd.AddCommand(serve.NewCmd())
	RootCmd.AddCommand(key.NewCmd())
	RootCmd.AddCommand(price.NewCmd())
	RootCmd.AddCommand(outcome.NewSignCmd())
	RootCmd.AddCommand(outcome.NewSettleCmd())
	RootCmd.AddCommand(outcome.NewStatusCmd())
	RootCmd.AddCommand(deploy.NewCmd())
	RootCmd.AddCommand(settlements.NewCmd())
	RootCmd.AddCommand(version.NewCmd())
	return RootCmd
}

// Execute loads .env files, runs the root command and exits non-zero on failure.
func Execute() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("failed to load .env file")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rootCmd := NewRootCmd()
	rootCmd.SetContext(ctx)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		cancel()
		util.Fatal(rootCmd, err, 1)
	}
}
