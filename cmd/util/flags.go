package util

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/backit-onchain/oracle/pkg/config"
	"github.com/backit-onchain/oracle/pkg/config/types"
	"github.com/backit-onchain/oracle/pkg/logger"
	"github.com/backit-onchain/oracle/pkg/system"
)

const (
	FlagConfig    = "config"
	FlagAPIURL    = "api-url"
	FlagToken     = "token"
	FlagLogMode   = "log-mode"
	FlagLogLevel  = "log-level"
	FlagNodeURL   = "node-url"
	FlagChainName = "chain-name"
	FlagKey       = "key"
)

// configFlagKeys maps command line flags onto config keys. Flags are bound only on the commands
// that declare them.
var configFlagKeys = map[string]string{
	FlagNodeURL:       "node.rpcurl",
	FlagChainName:     "node.chainname",
	FlagKey:           "signer.secretkeypath",
	FlagLogMode:       "logging.mode",
	FlagLogLevel:      "logging.level",
	"api-address":     "api.address",
	"events-url":      "node.eventsurl",
	"store-type":      "store.type",
	"store-dsn":       "store.dsn",
	"call-registry":   "contracts.callregistry",
	"outcome-manager": "contracts.outcomemanager",
}

// AddRootFlags registers the flags every command understands.
func AddRootFlags(cmd *cobra.Command) {
	fs := cmd.PersistentFlags()
	fs.StringSlice(FlagConfig, nil, "Config file(s) to load, later files override earlier ones.")
	fs.String(FlagAPIURL, envOr("BACKIT_API_URL", "http://localhost:8080"), "Base URL of a running oracle API.")
	fs.String(FlagToken, os.Getenv("BACKIT_API_TOKEN"), "Bearer token for authenticated API calls.")
	fs.String(FlagLogMode, envOr("LOG_TYPE", string(logger.LogModeDefault)), "Log format: 'default','json','combined','event'")
	fs.String(FlagLogLevel, envOr("LOG_LEVEL", "info"), "Log level: trace, debug, info, warn, error.")
}

// AddNodeFlags registers the flags needed to talk to a Casper node.
func AddNodeFlags(fs *pflag.FlagSet) {
	fs.String(FlagNodeURL, "", "Casper node JSON-RPC URL.")
	fs.String(FlagChainName, "", "Casper chain name, e.g. casper-test.")
}

// AddContractFlags registers the contract address flags.
func AddContractFlags(fs *pflag.FlagSet) {
	fs.String("call-registry", "", "Call registry contract hash.")
	fs.String("outcome-manager", "", "Outcome manager contract hash.")
}

func envOr(name, fallback string) string {
	if v, ok := os.LookupEnv(name); ok && v != "" {
		return v
	}
	return fallback
}

// LoadConfig loads the oracle config from the files, environment and flags of cmd, then applies
// its environment and logging settings.
func LoadConfig(cmd *cobra.Command) (types.Oracle, error) {
	paths, err := cmd.Flags().GetStringSlice(FlagConfig)
	if err != nil {
		return types.Oracle{}, err
	}

	bound := make(map[string]*pflag.Flag)
	for name, key := range configFlagKeys {
		if flag := cmd.Flags().Lookup(name); flag != nil {
			bound[key] = flag
		}
	}

	cfg, err := config.Load(config.WithPaths(paths...), config.WithFlags(bound))
	if err != nil {
		return cfg, err
	}

	system.SetEnvironment(system.Environment(cfg.Environment))
	mode, err := logger.ParseLogMode(cfg.Logging.Mode)
	if err != nil {
		return cfg, err
	}
	logger.ConfigureLogging(mode, cfg.Logging.Level)
	return cfg, nil
}

// ConfigureLogging applies the root logging flags.
func ConfigureLogging(cmd *cobra.Command) error {
	modeFlag, err := cmd.Flags().GetString(FlagLogMode)
	if err != nil {
		return err
	}
	mode, err := logger.ParseLogMode(strings.TrimSpace(modeFlag))
	if err != nil {
		return err
	}
	level, err := cmd.Flags().GetString(FlagLogLevel)
	if err != nil {
		return err
	}
	logger.ConfigureLogging(mode, level)
	return nil
}
