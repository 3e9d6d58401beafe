// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package fhesdk is a thin client SDK for confidential smart contracts.
// It wraps the external FHE vendor library and the chain-interaction stack
// to encrypt plaintext values into ciphertext handles, submit them as
// contract call arguments, and decrypt handles returned by contracts.
package fhesdk

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync/atomic"

	"github.com/luxfi/fhesdk/instance"
	"github.com/luxfi/fhesdk/signer"
	"github.com/luxfi/geth/accounts/abi"
	"github.com/luxfi/geth/accounts/abi/bind"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/core/types"
	"github.com/luxfi/log"
)

// Provider is the narrow view of an RPC client the session needs.
// *ethclient.Client satisfies it.
type Provider interface {
	bind.ContractBackend
	ChainID(ctx context.Context) (*big.Int, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// ConnectFunc builds the FHE instance during session creation. The default
// is the gateway-backed instance.Connect; tests and custom vendor bindings
// may inject their own.
type ConnectFunc func(ctx context.Context, cfg instance.Config) (instance.Instance, error)

// Config enumerates everything a session binds together. Provider,
// ContractAddress, and ABI are required. Signer is required only for
// decryption and write operations.
type Config struct {
	Provider        Provider
	Signer          signer.Signer
	ContractAddress string
	ABI             string
	GatewayURL      string
	ACLAddress      string
	Logger          log.Logger
	Connect         ConnectFunc
}

// Session binds a provider, an optional signer, a typed contract binding,
// and an initialized FHE instance. All fields are set once at creation;
// only the initialized flag ever changes afterward, so a session is safe
// for concurrent read-only use.
type Session struct {
	provider    Provider
	signer      signer.Signer
	address     common.Address
	contract    *bind.BoundContract
	fhe         instance.Instance
	chainID     *big.Int
	log         log.Logger
	initialized atomic.Bool
}

// NewSession validates the configuration, resolves the provider's chain id,
// and performs the FHE instance handshake. This is the only slow
// initialization step in the SDK and must complete before any adapter call.
// Configuration is validated before any network access.
func NewSession(ctx context.Context, cfg Config) (*Session, error) {
	if cfg.Provider == nil {
		return nil, &ConfigurationError{Field: "Provider"}
	}
	if cfg.ContractAddress == "" {
		return nil, &ConfigurationError{Field: "ContractAddress"}
	}
	if !common.IsHexAddress(cfg.ContractAddress) {
		return nil, &ConfigurationError{Field: "ContractAddress", Reason: fmt.Sprintf("not a hex address: %q", cfg.ContractAddress)}
	}
	if cfg.ABI == "" {
		return nil, &ConfigurationError{Field: "ABI"}
	}
	if cfg.ACLAddress != "" && !common.IsHexAddress(cfg.ACLAddress) {
		return nil, &ConfigurationError{Field: "ACLAddress", Reason: fmt.Sprintf("not a hex address: %q", cfg.ACLAddress)}
	}
	connect := cfg.Connect
	if connect == nil {
		if cfg.GatewayURL == "" {
			return nil, &ConfigurationError{Field: "GatewayURL", Reason: "required by the default gateway instance"}
		}
		connect = func(ctx context.Context, icfg instance.Config) (instance.Instance, error) {
			return instance.Connect(ctx, icfg)
		}
	}

	// Parse the ABI into a typed binding up front so malformed fragments
	// fail at creation time, not at call time.
	parsedABI, err := abi.JSON(strings.NewReader(cfg.ABI))
	if err != nil {
		return nil, &ConfigurationError{Field: "ABI", Reason: err.Error()}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = log.NewLogger("fhesdk")
	}

	chainID, err := cfg.Provider.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve chain id: %w", err)
	}

	var requester common.Address
	if cfg.Signer != nil {
		requester = cfg.Signer.Address()
	}
	inst, err := connect(ctx, instance.Config{
		ChainID:    chainID.Uint64(),
		GatewayURL: cfg.GatewayURL,
		ACLAddress: common.HexToAddress(cfg.ACLAddress),
		Requester:  requester,
		Log:        logger,
	})
	if err != nil {
		return nil, fmt.Errorf("connect fhe instance: %w", err)
	}

	address := common.HexToAddress(cfg.ContractAddress)
	s := &Session{
		provider: cfg.Provider,
		signer:   cfg.Signer,
		address:  address,
		contract: bind.NewBoundContract(address, parsedABI, cfg.Provider, cfg.Provider, cfg.Provider),
		fhe:      inst,
		chainID:  chainID,
		log:      logger,
	}
	s.initialized.Store(true)

	logger.Info(
		"session created",
		log.String("network", NetworkName(chainID)),
		log.Stringer("contract", address),
	)
	return s, nil
}

// IsInitialized reports whether the session's FHE handshake completed and
// the session has not been torn down.
func (s *Session) IsInitialized() bool {
	return s.initialized.Load()
}

// Teardown marks the local instance handle unusable. It revokes nothing
// on chain.
func (s *Session) Teardown() {
	s.initialized.Store(false)
}

// ContractAddress returns the bound contract address.
func (s *Session) ContractAddress() common.Address {
	return s.address
}

// ChainID returns the chain the session was created against.
func (s *Session) ChainID() *big.Int {
	return new(big.Int).Set(s.chainID)
}

// userAddress is the identity encryption inputs and decryption requests are
// attributed to. Zero when the session has no signer.
func (s *Session) userAddress() common.Address {
	if s.signer == nil {
		return common.Address{}
	}
	return s.signer.Address()
}
