package config

import (
	"time"

	"github.com/backit-onchain/oracle/pkg/config/types"
)

const (
	Minute = types.Duration(time.Minute)
	Second = types.Duration(time.Second)
)

// Default is the default configuration for a local oracle talking to an nctl network.
var Default = types.Oracle{
	Environment: types.EnvironmentDevelopment,
	API: types.API{
		Address:        "0.0.0.0:8080",
		RequestTimeout: 30 * Second,
		RateLimit:      100,
	},
	Node: types.Node{
		RPCURL:         "http://localhost:7777/rpc",
		EventsURL:      "http://localhost:18101/events/main",
		ChainName:      "casper-test",
		RequestTimeout: 30 * Second,
	},
	PriceFeed: types.PriceFeed{
		BaseURL: "https://api.dexscreener.com",
		Chain:   "base",
		Timeout: 10 * Second,
	},
	Indexer: types.Indexer{
		Enabled:      true,
		MinBackoff:   Second,
		MaxBackoff:   Minute,
		MaxEventSize: "4MB",
	},
	Store: types.Store{
		Type: types.StoreTypeInMemory,
	},
	Intake: types.Intake{
		Queue:      "backit.settlements",
		Prefetch:   1,
		MinBackoff: 2 * Second,
		MaxBackoff: 5 * Minute,
	},
	Logging: types.Logging{
		Level: "info",
		Mode:  "default",
	},
}

// LegacyEnvironmentVariables binds the environment variable names used by earlier deployments
// of the oracle and its companion services. BACKIT_* names are always honoured as well.
var LegacyEnvironmentVariables = map[string][]string{
	"node.rpcurl":              {"BACKIT_NODE_RPCURL", "CASPER_NODE_URL", "CASPER_RPC_URL"},
	"node.eventsurl":           {"BACKIT_NODE_EVENTSURL", "CASPER_EVENTS_URL"},
	"node.chainname":           {"BACKIT_NODE_CHAINNAME", "CASPER_CHAIN_NAME"},
	"contracts.outcomemanager": {"BACKIT_CONTRACTS_OUTCOMEMANAGER", "OUTCOME_MANAGER_HASH"},
	"contracts.callregistry":   {"BACKIT_CONTRACTS_CALLREGISTRY", "CALL_REGISTRY_HASH"},
	"signer.secretkeypath":     {"BACKIT_SIGNER_SECRETKEYPATH", "ORACLE_SECRET_KEY_PATH"},
	"api.jwtsecret":            {"BACKIT_API_JWTSECRET", "JWT_SECRET"},
	"logging.level":            {"BACKIT_LOGGING_LEVEL", "LOG_LEVEL"},
	"logging.mode":             {"BACKIT_LOGGING_MODE", "LOG_TYPE"},
}
