// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fhesdk

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
)

// Known FHE-capable networks by EVM chain id.
var networkNames = map[uint64]string{
	1:        "ethereum",
	11155111: "sepolia",
	8009:     "fhe-devnet",
	31337:    "localhost",
	96369:    "lux-mainnet",
	96368:    "lux-testnet",
}

// NetworkName returns the human-readable name for a chain id, or a
// "chain-<id>" placeholder for unknown networks.
func NetworkName(chainID *big.Int) string {
	if chainID == nil {
		return "unknown"
	}
	if chainID.IsUint64() {
		if name, ok := networkNames[chainID.Uint64()]; ok {
			return name
		}
	}
	return fmt.Sprintf("chain-%s", chainID)
}

// KnownNetworks returns a copy of the chain-id to network-name table.
func KnownNetworks() map[uint64]string {
	networks := make(map[uint64]string, len(networkNames))
	for id, name := range networkNames {
		networks[id] = name
	}
	return networks
}

// ParseAddress validates and parses a 0x-prefixed hex address.
func ParseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("not a hex address: %q", s)
	}
	return common.HexToAddress(s), nil
}

// HandleFromBytes converts a raw 32-byte handle, as returned by a contract,
// into the wide-integer form the decryption adapter takes.
func HandleFromBytes(handle [32]byte) *uint256.Int {
	return new(uint256.Int).SetBytes(handle[:])
}

// FormatHandle renders a handle as 0x-prefixed hex for logs and CLIs.
func FormatHandle(handle *uint256.Int) string {
	if handle == nil {
		return "0x0"
	}
	return handle.Hex()
}
