// Package config loads server configuration from an optional YAML file
// with environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds everything the server needs to advertise and settle
// payments.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen"`
	// Network is the x402 v1 network name ("solana" or "solana-devnet").
	Network string `yaml:"network"`
	// Asset is the SPL token mint payments are made in.
	Asset string `yaml:"asset"`
	// PayTo is the address receiving payments.
	PayTo string `yaml:"payTo"`
	// FeePayer is the facilitator's fee payer address advertised in
	// extra.feePayer.
	FeePayer string `yaml:"feePayer"`
	// FacilitatorURL is the facilitator service base URL.
	FacilitatorURL string `yaml:"facilitatorURL"`
	// PriceAtoms is the price per unlock in integer atoms of the asset.
	PriceAtoms uint64 `yaml:"priceAtoms"`
	// UnlockContentURL is the content URL served by /unlock.
	UnlockContentURL string `yaml:"unlockContentURL"`
}

// Defaults: devnet USDC, one cent per unlock.
func defaults() Config {
	return Config{
		Listen:           ":8080",
		Network:          "solana-devnet",
		Asset:            "4zMMC9srt5Ri5X14GAgXhaHii3GnPAEERYPJgZJDncDU",
		FacilitatorURL:   "https://facilitator.payai.network",
		PriceAtoms:       10_000,
		UnlockContentURL: "https://solana.com/docs",
	}
}

// Load reads the config file at path (skipped when path is empty or the
// file does not exist), then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// fall through to env overrides
		case err != nil:
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	applyEnv(&cfg)

	if cfg.PayTo == "" {
		return Config{}, fmt.Errorf("payTo is required (set X402_PAY_TO or the payTo config key)")
	}
	if cfg.FeePayer == "" {
		return Config{}, fmt.Errorf("feePayer is required (set X402_FEE_PAYER or the feePayer config key)")
	}

	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setString("X402_LISTEN", &cfg.Listen)
	setString("X402_NETWORK", &cfg.Network)
	setString("X402_ASSET", &cfg.Asset)
	setString("X402_PAY_TO", &cfg.PayTo)
	setString("X402_FEE_PAYER", &cfg.FeePayer)
	setString("X402_FACILITATOR_URL", &cfg.FacilitatorURL)
	setString("X402_UNLOCK_CONTENT_URL", &cfg.UnlockContentURL)

	if v := os.Getenv("X402_PRICE_ATOMS"); v != "" {
		if atoms, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.PriceAtoms = atoms
		}
	}
}
