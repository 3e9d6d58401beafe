package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func testViper(t *testing.T, overrides map[string]string) *viper.Viper {
	t.Helper()
	v := viper.New()
	v.Set(RPCURLKey, "http://localhost:8545")
	v.Set(GatewayURLKey, "http://localhost:7077")
	v.Set(ContractAddressKey, "0x0000000000000000000000000000000000000042")
	v.Set(ABIPathKey, "contract.abi.json")
	for key, value := range overrides {
		v.Set(key, value)
	}
	return v
}

func TestNewConfig(t *testing.T) {
	cfg, err := NewConfig(testViper(t, nil))
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8545", cfg.RPCURL)
	require.Equal(t, defaultCacheSize, cfg.CacheSize)
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]string
		clear     string
		errSubstr string
	}{
		{name: "missing rpc url", clear: RPCURLKey, errSubstr: RPCURLKey},
		{name: "missing gateway url", clear: GatewayURLKey, errSubstr: GatewayURLKey},
		{name: "missing contract address", clear: ContractAddressKey, errSubstr: ContractAddressKey},
		{name: "missing abi path", clear: ABIPathKey, errSubstr: ABIPathKey},
		{
			name:      "malformed contract address",
			overrides: map[string]string{ContractAddressKey: "not-an-address"},
			errSubstr: "not a hex address",
		},
		{
			name:      "malformed acl address",
			overrides: map[string]string{ACLAddressKey: "0x123"},
			errSubstr: "not a hex address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := testViper(t, tt.overrides)
			if tt.clear != "" {
				v.Set(tt.clear, "")
			}
			_, err := NewConfig(v)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}
