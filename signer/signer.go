// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package signer

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/luxfi/crypto"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/core/types"
)

// Signer signs transactions for one account.
type Signer interface {
	// SignTx signs a transaction for the given chain.
	SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error)

	// Address returns the account address.
	Address() common.Address
}

var _ Signer = (*TxSigner)(nil)

// TxSigner signs transactions with a local ECDSA private key.
type TxSigner struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// NewTxSigner creates a signer from a hex-encoded private key, with or
// without the 0x prefix.
func NewTxSigner(privateKeyHex string) (*TxSigner, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return &TxSigner{
		key:     key,
		address: common.PubkeyToAddress(key.PublicKey),
	}, nil
}

func (s *TxSigner) SignTx(tx *types.Transaction, chainID *big.Int) (*types.Transaction, error) {
	return types.SignTx(tx, types.LatestSignerForChainID(chainID), s.key)
}

func (s *TxSigner) Address() common.Address {
	return s.address
}
