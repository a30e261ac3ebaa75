// Package config loads the xAsset protocol's deployment configuration:
// the data directory, listen addresses, and the initial values seeded into
// the protocol's on-chain Config singleton on first run. It is grounded on
// the teacher's config.Load load-or-create-default idiom (config/config.go),
// generalized from node/P2P settings to this protocol's own bootstrap
// parameters.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the deployment-time configuration consumed by cmd/xassetctl.
// It seeds the on-chain singleton (core/types.Config) on first run; after
// Init, subsequent changes are made through native/access's admin-gated
// setters, not by editing this file.
type Config struct {
	ListenAddress string `toml:"ListenAddress"`
	DataDir       string `toml:"DataDir"`

	Name              string `toml:"Name"`
	Symbol            string `toml:"Symbol"`
	Decimals          uint32 `toml:"Decimals"`
	XLMSAC            string `toml:"XLMSAC"`
	XLMFeed           string `toml:"XLMFeed"`
	AssetFeed         string `toml:"AssetFeed"`
	PeggedSymbol      string `toml:"PeggedSymbol"`
	MinCollatRatioBps uint64 `toml:"MinCollatRatioBps"`
	InterestRateBps   uint64 `toml:"InterestRateBps"`
	Admin             string `toml:"Admin"`
}

// Load loads the configuration from path, writing a default file the first
// time it is invoked against a path that does not yet exist.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// createDefault writes and returns the default configuration, matching
// spec §3's default Config singleton values.
func createDefault(path string) (*Config, error) {
	cfg := &Config{
		ListenAddress:     ":8080",
		DataDir:           "./xasset-data",
		Name:              "xUSD",
		Symbol:            "xUSD",
		Decimals:          7,
		PeggedSymbol:      "USD",
		MinCollatRatioBps: 15000,
		InterestRateBps:   500,
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
