// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"fmt"
	"strings"

	"github.com/luxfi/geth/common"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the CLI-facing configuration of one confidential contract
// deployment.
type Config struct {
	RPCURL          string `mapstructure:"rpc-url"`
	GatewayURL      string `mapstructure:"gateway-url"`
	ContractAddress string `mapstructure:"contract-address"`
	ACLAddress      string `mapstructure:"acl-address"`
	ABIPath         string `mapstructure:"abi-path"`
	PrivateKey      string `mapstructure:"private-key"`
	CacheSize       int    `mapstructure:"cache-size"`
}

// NewConfig builds and validates the configuration from a viper instance.
func NewConfig(v *viper.Viper) (Config, error) {
	cfg, err := BuildConfig(v)
	if err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("failed to validate configuration: %w", err)
	}
	return cfg, nil
}

// BuildViper binds flags and environment variables. All config keys may be
// provided via flag, environment variable, or the optional JSON config file.
func BuildViper(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.AutomaticEnv()
	// Map flag names to env var names. Flags are capitalized, and hyphens
	// are replaced with underscores.
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}

	if v.IsSet(ConfigFileKey) {
		v.SetConfigFile(v.GetString(ConfigFileKey))
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	return v, nil
}

func SetDefaultConfigValues(v *viper.Viper) {
	v.SetDefault(CacheSizeKey, defaultCacheSize)
}

// BuildConfig constructs the CLI config using Viper. Flags take precedence
// over config file values.
func BuildConfig(v *viper.Viper) (Config, error) {
	SetDefaultConfigValues(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal viper config: %w", err)
	}
	return cfg, nil
}

// Validate checks the required fields for a working session.
func (c *Config) Validate() error {
	if c.RPCURL == "" {
		return fmt.Errorf("%s is required", RPCURLKey)
	}
	if c.GatewayURL == "" {
		return fmt.Errorf("%s is required", GatewayURLKey)
	}
	if c.ContractAddress == "" {
		return fmt.Errorf("%s is required", ContractAddressKey)
	}
	if !common.IsHexAddress(c.ContractAddress) {
		return fmt.Errorf("%s is not a hex address: %q", ContractAddressKey, c.ContractAddress)
	}
	if c.ACLAddress != "" && !common.IsHexAddress(c.ACLAddress) {
		return fmt.Errorf("%s is not a hex address: %q", ACLAddressKey, c.ACLAddress)
	}
	if c.ABIPath == "" {
		return fmt.Errorf("%s is required", ABIPathKey)
	}
	return nil
}
