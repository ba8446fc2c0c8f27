package types

import (
	"time"
)

// Validatable is implemented by configuration sections that can check their own values.
type Validatable interface {
	Validate() error
}

// Duration is a time.Duration that reads and writes its textual form ("30s", "10m") in config files
// and environment variables.
type Duration time.Duration

func (d Duration) AsTimeDuration() time.Duration {
	return time.Duration(d)
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) String() string {
	return time.Duration(d).String()
}
