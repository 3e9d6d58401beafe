// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fhesdk

import (
	"context"
	"errors"
	"math/big"

	"github.com/luxfi/fhesdk/instance"
	"github.com/luxfi/log"
)

// Input is one plaintext value to encrypt at a declared width.
type Input struct {
	Value *big.Int
	Width Width
}

// Uint64Input builds an Input from a host integer.
func Uint64Input(value uint64, w Width) Input {
	return Input{Value: new(big.Int).SetUint64(value), Width: w}
}

// EncryptOne encrypts a single value into a handle plus input proof.
func (s *Session) EncryptOne(ctx context.Context, input Input) (*instance.EncryptedInput, error) {
	return s.EncryptMany(ctx, []Input{input})
}

// EncryptMany encrypts a batch of values into one combined handle set and
// one proof covering all of them. Handle order corresponds index-for-index
// to input order; callers rely on this to map encrypted fields back to
// contract parameters.
func (s *Session) EncryptMany(ctx context.Context, inputs []Input) (*instance.EncryptedInput, error) {
	if !s.IsInitialized() {
		return nil, ErrUninitializedClient
	}
	if len(inputs) == 0 {
		return nil, errors.New("no inputs to encrypt")
	}

	builder := s.fhe.CreateEncryptedInput(s.address, s.userAddress())
	for _, input := range inputs {
		value, err := Encode(input.Value, input.Width)
		if err != nil {
			return nil, err
		}
		switch input.Width {
		case Uint8:
			builder.Add8(value.Uint64())
		case Uint16:
			builder.Add16(value.Uint64())
		case Uint32:
			builder.Add32(value.Uint64())
		case Uint64:
			builder.Add64(value.Uint64())
		case Uint128:
			builder.Add128(value)
		case Uint256:
			builder.Add256(value)
		}
	}

	encrypted, err := builder.Encrypt(ctx)
	if err != nil {
		return nil, &EncryptionFailedError{Err: err}
	}

	s.log.Debug(
		"encrypted input batch",
		log.Int("values", len(inputs)),
		log.Int("handles", len(encrypted.Handles)),
	)
	return encrypted, nil
}

// EncryptUint8 encrypts a single 8-bit value.
func (s *Session) EncryptUint8(ctx context.Context, value uint8) (*instance.EncryptedInput, error) {
	return s.EncryptOne(ctx, Uint64Input(uint64(value), Uint8))
}

// EncryptUint16 encrypts a single 16-bit value.
func (s *Session) EncryptUint16(ctx context.Context, value uint16) (*instance.EncryptedInput, error) {
	return s.EncryptOne(ctx, Uint64Input(uint64(value), Uint16))
}

// EncryptUint32 encrypts a single 32-bit value.
func (s *Session) EncryptUint32(ctx context.Context, value uint32) (*instance.EncryptedInput, error) {
	return s.EncryptOne(ctx, Uint64Input(uint64(value), Uint32))
}

// EncryptUint64 encrypts a single 64-bit value.
func (s *Session) EncryptUint64(ctx context.Context, value uint64) (*instance.EncryptedInput, error) {
	return s.EncryptOne(ctx, Uint64Input(value, Uint64))
}

// EncryptUint128 encrypts a single 128-bit value.
func (s *Session) EncryptUint128(ctx context.Context, value *big.Int) (*instance.EncryptedInput, error) {
	return s.EncryptOne(ctx, Input{Value: value, Width: Uint128})
}

// EncryptUint256 encrypts a single 256-bit value.
func (s *Session) EncryptUint256(ctx context.Context, value *big.Int) (*instance.EncryptedInput, error) {
	return s.EncryptOne(ctx, Input{Value: value, Width: Uint256})
}
