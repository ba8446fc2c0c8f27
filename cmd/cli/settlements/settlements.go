package settlements

import (
	"fmt"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/backit-onchain/oracle/cmd/util"
	"github.com/backit-onchain/oracle/cmd/util/output"
	"github.com/backit-onchain/oracle/pkg/settlement"
	"github.com/backit-onchain/oracle/pkg/store"
)

const shortHashLength = 12

func columns(wide bool) []output.TableColumn[store.Settlement] {
	return []output.TableColumn[store.Settlement]{
		{ColumnConfig: table.ColumnConfig{Name: "call"}, Value: func(s store.Settlement) string {
			return strconv.FormatUint(s.CallID, 10)
		}},
		{ColumnConfig: table.ColumnConfig{Name: "outcome"}, Value: func(s store.Settlement) string {
			if s.Outcome {
				return "YES"
			}
			return "NO"
		}},
		{ColumnConfig: table.ColumnConfig{Name: "final price"}, Value: func(s store.Settlement) string { return s.FinalPrice }},
		{ColumnConfig: table.ColumnConfig{Name: "deploy"}, Value: func(s store.Settlement) string {
			if wide || len(s.DeployHash) <= shortHashLength {
				return s.DeployHash
			}
			return s.DeployHash[:shortHashLength]
		}},
		{ColumnConfig: table.ColumnConfig{Name: "status"}, Value: func(s store.Settlement) string { return s.Status.String() }},
		{ColumnConfig: table.ColumnConfig{Name: "updated"}, Value: func(s store.Settlement) string {
			return s.UpdatedAt.Format(time.DateTime)
		}},
	}
}

// NewCmd lists the settlements recorded by a running oracle.
func NewCmd() *cobra.Command {
	opts := output.OutputOptions{Format: output.TableFormat}
	var status string
	query := store.SettlementQuery{}
	listCmd := &cobra.Command{
		Use:   "settlements",
		Short: "List outcome settlements recorded by the oracle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if status != "" {
				parsed, err := settlement.ParseDeployStatus(status)
				if err != nil {
					return err
				}
				query.Status = parsed
			}
			apiClient, err := util.GetAPIClient(cmd)
			if err != nil {
				return err
			}
			records, err := apiClient.Settlements(cmd.Context(), query)
			if err != nil {
				return err
			}
			return output.Output(cmd, columns(opts.Wide), opts, records)
		},
	}
	listCmd.Flags().StringVar(&status, "status", "", "Only list settlements with this deploy status.")
	listCmd.Flags().IntVar(&query.Limit, "limit", 0, "Maximum number of settlements to list.")
	listCmd.Flags().IntVar(&query.Offset, "offset", 0, "Number of settlements to skip.")
	listCmd.Flags().BoolVar(&query.SortReverse, "reverse", false, "List the oldest settlements first.")
	listCmd.Flags().AddFlagSet(output.OutputFormatFlags(&opts))
	listCmd.AddCommand(newGetCmd())
	return listCmd
}

func newGetCmd() *cobra.Command {
	opts := output.OutputOptions{Format: output.JSONFormat, Pretty: true}
	getCmd := &cobra.Command{
		Use:   "get <call id>",
		Short: "Show the settlement of a call",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			callID, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid call id %q", args[0])
			}
			apiClient, err := util.GetAPIClient(cmd)
			if err != nil {
				return err
			}
			record, err := apiClient.Settlement(cmd.Context(), callID)
			if err != nil {
				return err
			}
			return output.OutputOne(cmd, columns(true), opts, record)
		},
	}
	getCmd.Flags().AddFlagSet(output.OutputFormatFlags(&opts))
	return getCmd
}
