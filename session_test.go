// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fhesdk

import (
	"context"
	"math/big"
	"testing"

	"github.com/luxfi/fhesdk/instance"
	"github.com/luxfi/fhesdk/signer"
	"github.com/luxfi/geth/accounts/abi/bind"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/core/types"
	"github.com/stretchr/testify/require"
)

const (
	testContractAddress = "0x1000000000000000000000000000000000000042"
	testABI             = `[
		{
			"name": "submitFeedback",
			"type": "function",
			"inputs": [
				{"name": "age", "type": "bytes32"},
				{"name": "rating", "type": "bytes32"},
				{"name": "duration", "type": "bytes32"},
				{"name": "inputProof", "type": "bytes"}
			],
			"outputs": []
		}
	]`

	// Well-known development key, safe to hardcode.
	testPrivateKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
)

// stubProvider counts chain-id resolutions so tests can assert that
// configuration validation never touches the network.
type stubProvider struct {
	bind.ContractBackend
	chainID      uint64
	chainIDCalls int
}

func (p *stubProvider) ChainID(context.Context) (*big.Int, error) {
	p.chainIDCalls++
	return new(big.Int).SetUint64(p.chainID), nil
}

func (p *stubProvider) TransactionReceipt(context.Context, common.Hash) (*types.Receipt, error) {
	return &types.Receipt{Status: types.ReceiptStatusSuccessful}, nil
}

func fakeConnect(_ context.Context, cfg instance.Config) (instance.Instance, error) {
	return NewFakeInstance(cfg.ChainID), nil
}

// newTestSession builds a fully initialized session on top of the fake
// instance and a stub provider.
func newTestSession(t *testing.T) (*Session, *stubProvider) {
	t.Helper()
	provider := &stubProvider{chainID: 31337}
	txSigner, err := signer.NewTxSigner(testPrivateKey)
	require.NoError(t, err)

	session, err := NewSession(context.Background(), Config{
		Provider:        provider,
		Signer:          txSigner,
		ContractAddress: testContractAddress,
		ABI:             testABI,
		Connect:         fakeConnect,
	})
	require.NoError(t, err)
	return session, provider
}

func TestNewSessionValidatesBeforeNetwork(t *testing.T) {
	testCases := []struct {
		name  string
		cfg   func(provider Provider) Config
		field string
	}{
		{
			name: "MissingProvider",
			cfg: func(Provider) Config {
				return Config{ContractAddress: testContractAddress, ABI: testABI, Connect: fakeConnect}
			},
			field: "Provider",
		},
		{
			name: "MissingContractAddress",
			cfg: func(provider Provider) Config {
				return Config{Provider: provider, ABI: testABI, Connect: fakeConnect}
			},
			field: "ContractAddress",
		},
		{
			name: "MalformedContractAddress",
			cfg: func(provider Provider) Config {
				return Config{Provider: provider, ContractAddress: "0xnothex", ABI: testABI, Connect: fakeConnect}
			},
			field: "ContractAddress",
		},
		{
			name: "MissingABI",
			cfg: func(provider Provider) Config {
				return Config{Provider: provider, ContractAddress: testContractAddress, Connect: fakeConnect}
			},
			field: "ABI",
		},
		{
			name: "MalformedABI",
			cfg: func(provider Provider) Config {
				return Config{Provider: provider, ContractAddress: testContractAddress, ABI: "not json", Connect: fakeConnect}
			},
			field: "ABI",
		},
		{
			name: "MalformedACLAddress",
			cfg: func(provider Provider) Config {
				return Config{Provider: provider, ContractAddress: testContractAddress, ABI: testABI, ACLAddress: "junk", Connect: fakeConnect}
			},
			field: "ACLAddress",
		},
		{
			name: "MissingGatewayURLForDefaultConnect",
			cfg: func(provider Provider) Config {
				return Config{Provider: provider, ContractAddress: testContractAddress, ABI: testABI}
			},
			field: "GatewayURL",
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			provider := &stubProvider{chainID: 31337}
			session, err := NewSession(context.Background(), testCase.cfg(provider))
			require.Nil(t, session)
			var cfgErr *ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			require.Equal(t, testCase.field, cfgErr.Field)
			require.Zero(t, provider.chainIDCalls)
		})
	}
}

func TestNewSession(t *testing.T) {
	session, provider := newTestSession(t)
	require.True(t, session.IsInitialized())
	require.Equal(t, 1, provider.chainIDCalls)
	require.Equal(t, big.NewInt(31337), session.ChainID())
	require.Equal(t, common.HexToAddress(testContractAddress), session.ContractAddress())
}

func TestNewSessionWithoutSigner(t *testing.T) {
	provider := &stubProvider{chainID: 31337}
	session, err := NewSession(context.Background(), Config{
		Provider:        provider,
		ContractAddress: testContractAddress,
		ABI:             testABI,
		Connect:         fakeConnect,
	})
	require.NoError(t, err)
	require.True(t, session.IsInitialized())

	// Encryption works without a signer; decryption does not.
	encrypted, err := session.EncryptUint8(context.Background(), 25)
	require.NoError(t, err)
	require.Len(t, encrypted.Handles, 1)

	_, err = session.DecryptOne(context.Background(), DecryptionRequest{
		Handle: HandleFromBytes(encrypted.Handles[0]),
	})
	require.ErrorIs(t, err, ErrNoSigner)
}

func TestTeardown(t *testing.T) {
	session, _ := newTestSession(t)
	session.Teardown()
	require.False(t, session.IsInitialized())

	_, err := session.EncryptUint8(context.Background(), 1)
	require.ErrorIs(t, err, ErrUninitializedClient)

	_, err = session.DecryptOne(context.Background(), DecryptionRequest{})
	require.ErrorIs(t, err, ErrUninitializedClient)
}
