package config

import (
	"os"
	"path/filepath"
	"testing"
)

const (
	testPayTo    = "8fFnX9WYDpYZRMqq6PhC2xpckYKK1dJ2eZZTSGZ1sUgV"
	testFeePayer = "C7C8UuTfdtBqvLnRmVHaGMvbWkHjg2DmA8PcP9DEbJFp"
)

func TestLoadDefaultsWithEnvRequired(t *testing.T) {
	t.Setenv("X402_PAY_TO", testPayTo)
	t.Setenv("X402_FEE_PAYER", testFeePayer)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Listen != ":8080" {
		t.Errorf("expected default listen :8080, got %q", cfg.Listen)
	}
	if cfg.Network != "solana-devnet" {
		t.Errorf("expected default network solana-devnet, got %q", cfg.Network)
	}
	if cfg.PriceAtoms != 10_000 {
		t.Errorf("expected default price 10000 atoms, got %d", cfg.PriceAtoms)
	}
	if cfg.PayTo != testPayTo {
		t.Errorf("expected payTo from env, got %q", cfg.PayTo)
	}
}

func TestLoadRequiresAddresses(t *testing.T) {
	t.Setenv("X402_PAY_TO", "")
	t.Setenv("X402_FEE_PAYER", "")

	if _, err := Load(""); err == nil {
		t.Error("expected error when payTo is missing")
	}

	t.Setenv("X402_PAY_TO", testPayTo)
	if _, err := Load(""); err == nil {
		t.Error("expected error when feePayer is missing")
	}
}

func TestLoadFromFile(t *testing.T) {
	t.Setenv("X402_PAY_TO", "")
	t.Setenv("X402_FEE_PAYER", "")

	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
listen: ":9000"
network: solana
payTo: ` + testPayTo + `
feePayer: ` + testFeePayer + `
priceAtoms: 25000
facilitatorURL: https://facilitator.example.com
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Listen != ":9000" {
		t.Errorf("expected listen :9000, got %q", cfg.Listen)
	}
	if cfg.Network != "solana" {
		t.Errorf("expected network solana, got %q", cfg.Network)
	}
	if cfg.PriceAtoms != 25_000 {
		t.Errorf("expected 25000 atoms, got %d", cfg.PriceAtoms)
	}
	if cfg.FacilitatorURL != "https://facilitator.example.com" {
		t.Errorf("unexpected facilitator URL %q", cfg.FacilitatorURL)
	}
	// Keys the file omits keep their defaults.
	if cfg.Asset == "" {
		t.Error("expected the default asset to survive a partial file")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
listen: ":9000"
payTo: ` + testPayTo + `
feePayer: ` + testFeePayer + `
priceAtoms: 25000
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("X402_LISTEN", ":7777")
	t.Setenv("X402_PRICE_ATOMS", "5000")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Listen != ":7777" {
		t.Errorf("env must override the file, got listen %q", cfg.Listen)
	}
	if cfg.PriceAtoms != 5_000 {
		t.Errorf("env must override the file, got %d atoms", cfg.PriceAtoms)
	}
}

func TestMissingFileFallsBackToDefaults(t *testing.T) {
	t.Setenv("X402_PAY_TO", testPayTo)
	t.Setenv("X402_FEE_PAYER", testFeePayer)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("a missing config file must not be fatal: %v", err)
	}
	if cfg.Listen != ":8080" {
		t.Errorf("expected defaults, got listen %q", cfg.Listen)
	}
}

func TestMalformedFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("listen: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected a parse error for malformed YAML")
	}
}
