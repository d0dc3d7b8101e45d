// Package config loads process settings in the layered precedence
// original_source's crates/settings/src/lib.rs defines: built-in defaults,
// then config/default.<fmt>, then config/<RUN_MODE>.<fmt>, then
// APP__-prefixed, __-separated environment variables, each overriding the
// last. Implemented with spf13/viper, the idiomatic Go analogue of the
// Rust `config` crate usage the original takes this precedence chain from.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// ChainSettings is per-chain configuration: the RPC base URL, the node
// type, and optional auxiliary API keys (Ankr, block explorers).
type ChainSettings struct {
	URL           string `mapstructure:"url"`
	Node          string `mapstructure:"node"` // "default" or "archival"
	AnkrURL       string `mapstructure:"ankr_url"`
	AnkrKey       string `mapstructure:"ankr_key"`
	ExplorerURL   string `mapstructure:"explorer_url"`
	ExplorerKey   string `mapstructure:"explorer_key"`
	ExplorerShort string `mapstructure:"explorer_short"` // etherscan-family chain short name, e.g. "ETH", "BSC"
}

// ServerSettings is the HTTP façade's bind address.
type ServerSettings struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// TracingSettings configures the structured logger, mirroring
// original_source's TracingConfig field-for-field.
type TracingSettings struct {
	Level           string `mapstructure:"level"`
	JSON            bool   `mapstructure:"json"`
	Pretty          bool   `mapstructure:"pretty"`
	WithTarget      bool   `mapstructure:"with_target"`
	WithThreadIDs   bool   `mapstructure:"with_thread_ids"`
	WithThreadNames bool   `mapstructure:"with_thread_names"`
	WithFile        bool   `mapstructure:"with_file"`
	WithLineNumber  bool   `mapstructure:"with_line_number"`
	WithAnsi        bool   `mapstructure:"with_ansi"`
	Filter          string `mapstructure:"filter"`
}

// Settings is the fully resolved process configuration.
type Settings struct {
	Server  ServerSettings           `mapstructure:"server"`
	Tracing TracingSettings          `mapstructure:"tracing"`
	Chains  map[string]ChainSettings `mapstructure:"chains"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)

	v.SetDefault("tracing.level", "info")
	v.SetDefault("tracing.json", true)
	v.SetDefault("tracing.pretty", false)
	v.SetDefault("tracing.with_target", true)
	v.SetDefault("tracing.with_thread_ids", false)
	v.SetDefault("tracing.with_thread_names", false)
	v.SetDefault("tracing.with_file", false)
	v.SetDefault("tracing.with_line_number", false)
	v.SetDefault("tracing.with_ansi", false)
	v.SetDefault("tracing.filter", "")
}

// runMode reads RUN_MODE from the environment, defaulting to "dev" —
// matching original_source's Settings::new(), which selects
// config/{RUN_MODE}.<fmt> the same way.
func runMode() string {
	if m := os.Getenv("RUN_MODE"); m != "" {
		return m
	}
	return "dev"
}

// New loads settings from built-in defaults, config/default.<fmt>,
// config/<RUN_MODE>.<fmt>, and APP__-prefixed environment variables, in
// that overriding order.
func New() (*Settings, error) {
	return load("config")
}

func load(configDir string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("default")
	v.AddConfigPath(configDir)
	if err := v.ReadInConfig(); err != nil {
		if !isConfigNotFound(err) {
			return nil, fmt.Errorf("config: reading default config: %w", err)
		}
	}

	mode := runMode()
	v.SetConfigName(mode)
	if err := v.MergeInConfig(); err != nil {
		if !isConfigNotFound(err) {
			return nil, fmt.Errorf("config: reading %s config: %w", mode, err)
		}
	}

	// viper joins prefix and key with one "_", so "APP_" yields APP__SERVER__PORT.
	v.SetEnvPrefix("APP_")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	v.AutomaticEnv()

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return &settings, nil
}

func isConfigNotFound(err error) bool {
	_, ok := err.(viper.ConfigFileNotFoundError)
	return ok
}

// Dev returns an in-memory Settings preset suitable for local
// development, mirroring original_source's Settings::dev() convenience
// constructor — used by cmd/balanceapi when the loaded settings configure
// no chains.
func Dev() *Settings {
	v := viper.New()
	setDefaults(v)
	var s Settings
	_ = v.Unmarshal(&s)
	s.Chains = map[string]ChainSettings{
		"ethereum":   {URL: "https://eth.llamarpc.com", Node: "default"},
		"smartchain": {URL: "https://bsc-dataseed.binance.org", Node: "default"},
		"arbitrum":   {URL: "https://arb1.arbitrum.io/rpc", Node: "default"},
		"polygon":    {URL: "https://polygon-rpc.com", Node: "default"},
		"solana":     {URL: "https://api.mainnet-beta.solana.com", Node: "default"},
	}
	return &s
}
