package outcome

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/backit-onchain/oracle/cmd/util"
	"github.com/backit-onchain/oracle/cmd/util/output"
	"github.com/backit-onchain/oracle/pkg/casper"
	"github.com/backit-onchain/oracle/pkg/casper/rpc"
	"github.com/backit-onchain/oracle/pkg/settlement"
)

type statusRow struct {
	DeployHash string                  `json:"deployHash"`
	Status     settlement.DeployStatus `json:"status"`
}

var statusColumns = []output.TableColumn[statusRow]{
	{ColumnConfig: table.ColumnConfig{Name: "deploy"}, Value: func(r statusRow) string { return r.DeployHash }},
	{ColumnConfig: table.ColumnConfig{Name: "status"}, Value: func(r statusRow) string { return r.Status.String() }},
}

func NewStatusCmd() *cobra.Command {
	opts := output.OutputOptions{Format: output.TableFormat}
	statusCmd := &cobra.Command{
		Use:   "status <deploy hash>...",
		Short: "Query the execution status of deploys",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := util.LoadConfig(cmd)
			if err != nil {
				return err
			}
			node := rpc.NewClient(cfg.Node.RPCURL, cfg.Node.RequestTimeout.AsTimeDuration())
			rows := make([]statusRow, 0, len(args))
			for _, arg := range args {
				hash, err := casper.ParseHash(arg)
				if err != nil {
					return fmt.Errorf("invalid deploy hash: %w", err)
				}
				rows = append(rows, statusRow{
					DeployHash: hash.String(),
					Status:     settlement.QueryDeployStatus(cmd.Context(), node, hash),
				})
			}
			return output.Output(cmd, statusColumns, opts, rows)
		},
	}
	util.AddNodeFlags(statusCmd.Flags())
	statusCmd.Flags().AddFlagSet(output.OutputFormatFlags(&opts))
	return statusCmd
}
