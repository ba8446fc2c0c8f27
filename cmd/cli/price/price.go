package price

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/backit-onchain/oracle/cmd/util"
	"github.com/backit-onchain/oracle/cmd/util/output"
	"github.com/backit-onchain/oracle/pkg/oracle"
	"github.com/backit-onchain/oracle/pkg/pricefeed"
)

type row struct {
	PairID string          `json:"pairId"`
	Quote  pricefeed.Quote `json:"quote"`
}

var columns = []output.TableColumn[row]{
	{ColumnConfig: table.ColumnConfig{Name: "pair"}, Value: func(r row) string { return r.PairID }},
	{ColumnConfig: table.ColumnConfig{Name: "price usd"}, Value: func(r row) string { return r.Quote.Price.String() }},
	{ColumnConfig: table.ColumnConfig{Name: "final price"}, Value: func(r row) string {
		return r.Quote.Scaled(oracle.PriceDecimals).String()
	}},
	{ColumnConfig: table.ColumnConfig{Name: "fresh"}, Value: func(r row) string { return fmt.Sprint(r.Quote.Fresh) }},
	{ColumnConfig: table.ColumnConfig{Name: "reason"}, Value: func(r row) string { return r.Quote.Reason }},
}

func NewCmd() *cobra.Command {
	var token string
	opts := output.OutputOptions{Format: output.TableFormat}
	priceCmd := &cobra.Command{
		Use:   "price <pair id>",
		Short: "Fetch the current USD price of a pair from the price feed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := util.LoadConfig(cmd)
			if err != nil {
				return err
			}
			client := pricefeed.NewClient(pricefeed.Params{
				BaseURL: cfg.PriceFeed.BaseURL,
				Chain:   cfg.PriceFeed.Chain,
				Timeout: cfg.PriceFeed.Timeout.AsTimeDuration(),
			})
			quote := client.FetchPrice(cmd.Context(), token, args[0])
			return output.OutputOne(cmd, columns, opts, row{PairID: args[0], Quote: quote})
		},
	}
	priceCmd.Flags().StringVar(&token, "token", "", "Token address, for logging only.")
	priceCmd.Flags().AddFlagSet(output.OutputFormatFlags(&opts))
	return priceCmd
}
