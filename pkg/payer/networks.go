package payer

import (
	"fmt"

	"github.com/gagliardetto/solana-go/rpc"
)

// NetworkConfig maps an x402 v1 network name to its RPC endpoint and
// default asset mint.
type NetworkConfig struct {
	RPCURL      string
	USDCMint    string
	Description string
}

var supportedNetworks = map[string]NetworkConfig{
	"solana": {
		RPCURL:      rpc.MainNetBeta_RPC,
		USDCMint:    "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
		Description: "Solana mainnet-beta",
	},
	"solana-devnet": {
		RPCURL:      rpc.DevNet_RPC,
		USDCMint:    "4zMMC9srt5Ri5X14GAgXhaHii3GnPAEERYPJgZJDncDU",
		Description: "Solana devnet",
	},
}

// GetNetworkConfig resolves a v1 network name.
func GetNetworkConfig(network string) (NetworkConfig, error) {
	config, ok := supportedNetworks[network]
	if !ok {
		return NetworkConfig{}, fmt.Errorf("unsupported network: %s", network)
	}
	return config, nil
}

// IsValidNetwork reports whether the v1 network name is supported.
func IsValidNetwork(network string) bool {
	_, ok := supportedNetworks[network]
	return ok
}
