// Package config loads sncast settings from a snfoundry.toml manifest. Each
// profile lives under [sncast.<name>]; CLI flags take precedence over the
// manifest, which takes precedence over defaults.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const (
	DefaultProfile = "default"

	// Transactions are polled every 5s with a timeout of 300s, so 60 attempts.
	DefaultWaitTimeout       uint16 = 300
	DefaultWaitRetryInterval uint8  = 5
)

var (
	ErrProfileNotFound   = errors.New("profile not found in the manifest")
	ErrInvalidWaitParams = errors.New("invalid wait parameters")
	ErrMissingURL        = errors.New("RPC url not passed nor found in the manifest")
	ErrMissingAccount    = errors.New("account not passed nor found in the manifest")
)

// WaitParams bounds the post-submission receipt polling. Both values are in
// seconds, matching the manifest format.
type WaitParams struct {
	WaitTimeout       uint16 `mapstructure:"wait-timeout"`
	WaitRetryInterval uint8  `mapstructure:"wait-retry-interval"`
}

func (w WaitParams) Timeout() time.Duration {
	return time.Duration(w.WaitTimeout) * time.Second
}

func (w WaitParams) RetryInterval() time.Duration {
	return time.Duration(w.WaitRetryInterval) * time.Second
}

func (w WaitParams) Validate() error {
	if w.WaitRetryInterval == 0 {
		return fmt.Errorf("%w: retry interval must not be zero", ErrInvalidWaitParams)
	}
	if w.WaitTimeout < uint16(w.WaitRetryInterval) {
		return fmt.Errorf("%w: timeout %ds is smaller than the retry interval %ds",
			ErrInvalidWaitParams, w.WaitTimeout, w.WaitRetryInterval)
	}
	return nil
}

type Config struct {
	URL          string `mapstructure:"url"`
	Account      string `mapstructure:"account"`
	AccountsFile string `mapstructure:"accounts-file"`
	Keystore     string `mapstructure:"keystore"`

	WaitParams `mapstructure:",squash"`
}

// Default returns a config with no endpoint or account set and the standard
// wait parameters.
func Default() *Config {
	return &Config{
		WaitParams: WaitParams{
			WaitTimeout:       DefaultWaitTimeout,
			WaitRetryInterval: DefaultWaitRetryInterval,
		},
	}
}

// Load reads the given profile from a snfoundry.toml manifest.
func Load(manifestPath, profile string) (*Config, error) {
	if profile == "" {
		profile = DefaultProfile
	}

	v := viper.New()
	v.SetConfigFile(manifestPath)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read manifest %q: %w", manifestPath, err)
	}

	key := "sncast." + profile
	if !v.IsSet(key) {
		return nil, fmt.Errorf("%w: [%s] in %q", ErrProfileNotFound, key, manifestPath)
	}

	sub := v.Sub(key)
	sub.SetDefault("wait-timeout", DefaultWaitTimeout)
	sub.SetDefault("wait-retry-interval", DefaultWaitRetryInterval)

	cfg := Default()
	hook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
	))
	if err := sub.Unmarshal(cfg, hook); err != nil {
		return nil, fmt.Errorf("unmarshal profile [%s]: %w", key, err)
	}

	if err := cfg.WaitParams.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
