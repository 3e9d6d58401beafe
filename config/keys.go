// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

const (
	// Command line option keys
	ConfigFileKey = "config-file"
	VersionKey    = "version"
	HelpKey       = "help"

	// Top-level configuration keys
	RPCURLKey          = "rpc-url"
	GatewayURLKey      = "gateway-url"
	ContractAddressKey = "contract-address"
	ACLAddressKey      = "acl-address"
	ABIPathKey         = "abi-path"
	PrivateKeyKey      = "private-key"
	CacheSizeKey       = "cache-size"
)

const defaultCacheSize = 256
