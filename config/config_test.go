package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
)

func TestLoadCreatesDefaultWhenMissing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "xassetctl.toml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Symbol != "xUSD" || cfg.MinCollatRatioBps != 15000 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Symbol != cfg.Symbol || reloaded.InterestRateBps != cfg.InterestRateBps {
		t.Fatalf("reloaded config mismatch: %+v vs %+v", reloaded, cfg)
	}
}

func TestLoadRespectsExistingOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "xassetctl.toml")
	if _, err := Load(path); err != nil {
		t.Fatalf("initial Load: %v", err)
	}

	custom := &Config{Name: "xEUR", Symbol: "xEUR", Decimals: 7, MinCollatRatioBps: 20000, InterestRateBps: 300}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create override: %v", err)
	}
	if err := toml.NewEncoder(f).Encode(custom); err != nil {
		f.Close()
		t.Fatalf("encode override: %v", err)
	}
	f.Close()

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if reloaded.Symbol != "xEUR" || reloaded.MinCollatRatioBps != 20000 {
		t.Fatalf("expected overridden config, got %+v", reloaded)
	}
}
