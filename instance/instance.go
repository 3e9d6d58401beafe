// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package instance defines the boundary around the external FHE vendor
// library and its decryption gateway. Callers interact with an Instance
// as an opaque resource; its internals are never part of the SDK contract.
package instance

import (
	"context"
	"errors"

	"github.com/holiman/uint256"
	"github.com/luxfi/geth/common"
)

// ErrUnauthorized is returned when the gateway denies decryption because the
// requester lacks access-control permission for the handle.
var ErrUnauthorized = errors.New("requester not authorized to decrypt handle")

// EncryptedInput is the output of one builder finalization: ciphertext
// handles and the zero-knowledge proof attesting to exactly those handles.
// A proof must never be paired with handles from another call.
type EncryptedInput struct {
	Handles [][32]byte
	Proof   []byte
}

// Builder accumulates plaintext values for a single encrypted input.
// Values are appended in call order and the finalized handle order matches
// the append order exactly.
type Builder interface {
	Add8(value uint64) Builder
	Add16(value uint64) Builder
	Add32(value uint64) Builder
	Add64(value uint64) Builder
	Add128(value *uint256.Int) Builder
	Add256(value *uint256.Int) Builder

	// Encrypt finalizes the input, producing the handles and input proof.
	Encrypt(ctx context.Context) (*EncryptedInput, error)
}

// Instance is the initialized FHE vendor handle bound to one chain.
// Implementations must be safe for concurrent read-only use.
type Instance interface {
	// ChainID returns the chain the instance was initialized against.
	ChainID() uint64

	// CreateEncryptedInput starts a builder scoped to the destination
	// contract and the submitting user.
	CreateEncryptedInput(contract common.Address, user common.Address) Builder

	// Decrypt recovers the plaintext behind a handle through the gateway.
	// The gateway enforces the on-chain access-control list and fails with
	// ErrUnauthorized when the requester may not view the ciphertext.
	Decrypt(ctx context.Context, contract common.Address, handle *uint256.Int) (*uint256.Int, error)

	// Reencrypt re-encrypts the plaintext behind a handle under the
	// recipient's public key so it can be opened client side.
	Reencrypt(ctx context.Context, handle *uint256.Int, publicKey []byte, requester common.Address) ([]byte, error)
}
