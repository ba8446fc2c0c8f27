package outcome

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/backit-onchain/oracle/cmd/util"
	"github.com/backit-onchain/oracle/pkg/oracle"
)

type outcomeFlags struct {
	outcome    bool
	finalPrice string
	token      string
	pairID     string
	timestamp  int64
	allowStale bool
}

func (f *outcomeFlags) register(fs *pflag.FlagSet) {
	fs.BoolVar(&f.outcome, "outcome", false, "Whether the call's prediction came true.")
	fs.StringVar(&f.finalPrice, "final-price", "", "On-chain final price as an integer. Fetched from the price feed when empty.")
	fs.StringVar(&f.token, "token", "", "Token address of the call.")
	fs.StringVar(&f.pairID, "pair", "", "Price feed pair id, used when --final-price is empty.")
	fs.Int64Var(&f.timestamp, "timestamp", 0, "Outcome timestamp in milliseconds. Defaults to now.")
	fs.BoolVar(&f.allowStale, "allow-stale", false, "Settle even when the price feed falls back to a stale price.")
	fs.String(util.FlagKey, "", "Path to the oracle secret key PEM file.")
	util.AddNodeFlags(fs)
	util.AddContractFlags(fs)
}

func (f *outcomeFlags) request(callIDArg string) (oracle.OutcomeRequest, error) {
	callID, err := strconv.ParseUint(callIDArg, 10, 64)
	if err != nil {
		return oracle.OutcomeRequest{}, fmt.Errorf("invalid call id %q", callIDArg)
	}
	req := oracle.OutcomeRequest{
		CallID:       callID,
		Outcome:      f.outcome,
		TokenAddress: f.token,
		PairID:       f.pairID,
		Timestamp:    f.timestamp,
		AllowStale:   f.allowStale,
	}
	if f.finalPrice != "" {
		price, err := oracle.ParseFinalPrice(f.finalPrice)
		if err != nil {
			return req, err
		}
		req.FinalPrice = price
	}
	return req, nil
}

// newService builds an oracle service backed by the configured settlement store.
func newService(cmd *cobra.Command) (*oracle.Service, *util.Components, error) {
	cfg, err := util.LoadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	components, err := util.NewComponents(cmd.Context(), cfg)
	if err != nil {
		return nil, nil, err
	}
	settlements, err := util.NewSettlementStore(cfg.Store)
	if err != nil {
		return nil, nil, err
	}
	util.GetCleanupManager(cmd.Context()).RegisterCallbackWithContext(settlements.Close)
	return oracle.NewService(oracle.Params{
		Prices:    components.Prices,
		Signer:    components.Signer,
		Submitter: components.Submitter,
		Store:     settlements,
	}), components, nil
}
