package types

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog/log"
)

const (
	EnvironmentDevelopment = "development"
	EnvironmentTest        = "test"
	EnvironmentProduction  = "production"

	StoreTypeInMemory = "inmemory"
	StoreTypeSQLite   = "sqlite"
	StoreTypePostgres = "postgres"
)

type Oracle struct {
	Environment string    `yaml:"Environment,omitempty"`
	API         API       `yaml:"API,omitempty"`
	Node        Node      `yaml:"Node,omitempty"`
	Contracts   Contracts `yaml:"Contracts,omitempty"`
	Signer      Signer    `yaml:"Signer,omitempty"`
	PriceFeed   PriceFeed `yaml:"PriceFeed,omitempty"`
	Indexer     Indexer   `yaml:"Indexer,omitempty"`
	Store       Store     `yaml:"Store,omitempty"`
	Intake      Intake    `yaml:"Intake,omitempty"`
	Logging     Logging   `yaml:"Logging,omitempty"`
}

type API struct {
	// Address is the host:port the public API listens on.
	Address string `yaml:"Address,omitempty"`
	// JWTSecret signs and verifies bearer tokens for the mutating endpoints. Empty disables them.
	JWTSecret      string   `yaml:"JWTSecret,omitempty"`
	RequestTimeout Duration `yaml:"RequestTimeout,omitempty"`
	// RateLimit is the number of requests per second allowed per client.
	RateLimit float64 `yaml:"RateLimit,omitempty"`
}

type Node struct {
	RPCURL         string   `yaml:"RPCURL,omitempty"`
	EventsURL      string   `yaml:"EventsURL,omitempty"`
	ChainName      string   `yaml:"ChainName,omitempty"`
	RequestTimeout Duration `yaml:"RequestTimeout,omitempty"`
}

// Contracts holds the contract hashes, hex encoded with an optional "hash-" prefix.
type Contracts struct {
	CallRegistry   string `yaml:"CallRegistry,omitempty"`
	OutcomeManager string `yaml:"OutcomeManager,omitempty"`
}

type Signer struct {
	SecretKeyPath string `yaml:"SecretKeyPath,omitempty"`
	// AllowEphemeralKey permits generating a throwaway key when no SecretKeyPath is set.
	// Always allowed in the development environment.
	AllowEphemeralKey bool `yaml:"AllowEphemeralKey,omitempty"`
}

type PriceFeed struct {
	BaseURL string   `yaml:"BaseURL,omitempty"`
	Chain   string   `yaml:"Chain,omitempty"`
	Timeout Duration `yaml:"Timeout,omitempty"`
}

type Indexer struct {
	Enabled    bool     `yaml:"Enabled,omitempty"`
	MinBackoff Duration `yaml:"MinBackoff,omitempty"`
	MaxBackoff Duration `yaml:"MaxBackoff,omitempty"`
	// MaxEventSize bounds a single SSE line, e.g. "4MB".
	MaxEventSize string `yaml:"MaxEventSize,omitempty"`
	// TraceFile, when set, receives every processed deploy as a JSON line.
	TraceFile string `yaml:"TraceFile,omitempty"`
}

type Store struct {
	Type string `yaml:"Type,omitempty"`
	DSN  string `yaml:"DSN,omitempty"`
}

type Intake struct {
	Enabled  bool   `yaml:"Enabled,omitempty"`
	AMQPURI  string `yaml:"AMQPURI,omitempty"`
	Queue    string `yaml:"Queue,omitempty"`
	Prefetch int    `yaml:"Prefetch,omitempty"`
	// MinBackoff and MaxBackoff bound the delay between broker reconnects.
	MinBackoff Duration `yaml:"MinBackoff,omitempty"`
	MaxBackoff Duration `yaml:"MaxBackoff,omitempty"`
}

type Logging struct {
	Level string `yaml:"Level,omitempty"`
	Mode  string `yaml:"Mode,omitempty"`
}

// EphemeralKeyAllowed reports whether the signer may fall back to a generated key.
func (c Oracle) EphemeralKeyAllowed() bool {
	return c.Signer.AllowEphemeralKey || c.Environment == EnvironmentDevelopment || c.Environment == EnvironmentTest
}

// Validate returns every problem found in the config, not only the first one.
func (c Oracle) Validate() error {
	var result *multierror.Error

	switch c.Environment {
	case EnvironmentDevelopment, EnvironmentTest, EnvironmentProduction:
	default:
		result = multierror.Append(result, fmt.Errorf("Environment %q unknown. must be one of: %s",
			c.Environment, strings.Join([]string{EnvironmentDevelopment, EnvironmentTest, EnvironmentProduction}, ", ")))
	}

	if err := validateURL("Node.RPCURL", c.Node.RPCURL); err != nil {
		result = multierror.Append(result, err)
	}
	if c.Indexer.Enabled {
		if err := validateURL("Node.EventsURL", c.Node.EventsURL); err != nil {
			result = multierror.Append(result, err)
		}
		if c.Indexer.MinBackoff <= 0 || c.Indexer.MaxBackoff < c.Indexer.MinBackoff {
			result = multierror.Append(result, fmt.Errorf("Indexer backoff must satisfy 0 < MinBackoff <= MaxBackoff"))
		}
	}
	if c.Node.ChainName == "" {
		result = multierror.Append(result, fmt.Errorf("Node.ChainName cannot be empty"))
	}
	if err := validateURL("PriceFeed.BaseURL", c.PriceFeed.BaseURL); err != nil {
		result = multierror.Append(result, err)
	}

	switch c.Store.Type {
	case StoreTypeInMemory:
	case StoreTypeSQLite, StoreTypePostgres:
		if c.Store.DSN == "" {
			result = multierror.Append(result, fmt.Errorf("Store.DSN cannot be empty for store type %q", c.Store.Type))
		}
	default:
		result = multierror.Append(result, fmt.Errorf("Store.Type %q unknown. must be one of: %s",
			c.Store.Type, strings.Join([]string{StoreTypeInMemory, StoreTypeSQLite, StoreTypePostgres}, ", ")))
	}

	if c.Intake.Enabled {
		if c.Intake.AMQPURI == "" || c.Intake.Queue == "" {
			result = multierror.Append(result, fmt.Errorf("Intake.AMQPURI and Intake.Queue are required when intake is enabled"))
		}
		if c.Intake.MinBackoff <= 0 || c.Intake.MaxBackoff < c.Intake.MinBackoff {
			result = multierror.Append(result, fmt.Errorf("Intake backoff must satisfy 0 < MinBackoff <= MaxBackoff"))
		}
	}

	if c.Contracts.OutcomeManager == "" {
		log.Warn().Msg("no outcome manager contract configured, outcome submission is disabled")
	}

	return result.ErrorOrNil()
}

func validateURL(field, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s cannot be empty", field)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must be an http or https URL, got %q", field, raw)
	}
	return nil
}
