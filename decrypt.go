// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fhesdk

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/holiman/uint256"
	"github.com/luxfi/fhesdk/instance"
	"github.com/luxfi/geth/common"
)

// DecryptionRequest identifies one ciphertext to decrypt. User may be zero,
// in which case the session's signer is the requester; a non-zero User that
// does not match the signer is rejected before reaching the gateway.
type DecryptionRequest struct {
	Handle *uint256.Int
	User   common.Address
}

// DecryptionResult is one slot of a DecryptMany batch.
type DecryptionResult struct {
	Value *uint256.Int
	Err   error
}

// Decrypted reports whether the slot holds a plaintext.
func (r DecryptionResult) Decrypted() bool {
	return r.Err == nil
}

// DecryptOne recovers the plaintext behind a handle through the gateway.
// The gateway verifies the requester against the on-chain access-control
// list; denials surface as instance.ErrUnauthorized. Any other failure is
// wrapped as a DecryptionFailedError with the original message preserved.
// Transient gateway failures are not retried here; use utils.Retry around
// this call when that is wanted.
func (s *Session) DecryptOne(ctx context.Context, req DecryptionRequest) (*uint256.Int, error) {
	if !s.IsInitialized() {
		return nil, ErrUninitializedClient
	}
	if s.signer == nil {
		return nil, ErrNoSigner
	}
	if req.Handle == nil {
		return nil, &DecryptionFailedError{Err: errors.New("nil handle")}
	}
	if req.User != (common.Address{}) && req.User != s.signer.Address() {
		return nil, fmt.Errorf("%w: requester %s does not match session signer %s",
			instance.ErrUnauthorized, req.User, s.signer.Address())
	}

	value, err := s.fhe.Decrypt(ctx, s.address, req.Handle)
	if err != nil {
		if errors.Is(err, instance.ErrUnauthorized) {
			return nil, err
		}
		return nil, &DecryptionFailedError{Err: err}
	}
	return value, nil
}

// DecryptMany issues all requests concurrently and preserves request order
// in the result slice. A failure fails only its own slot; the remaining
// requests run to completion. Callers wanting all-or-nothing semantics must
// check every slot themselves.
func (s *Session) DecryptMany(ctx context.Context, reqs []DecryptionRequest) []DecryptionResult {
	results := make([]DecryptionResult, len(reqs))
	var wg sync.WaitGroup
	for i, req := range reqs {
		wg.Add(1)
		go func(i int, req DecryptionRequest) {
			defer wg.Done()
			value, err := s.DecryptOne(ctx, req)
			results[i] = DecryptionResult{Value: value, Err: err}
		}(i, req)
	}
	wg.Wait()
	return results
}

// CanDecrypt reports whether the session's signer may decrypt the handle.
// It is fail-soft: every error, authorization or otherwise, becomes false.
func (s *Session) CanDecrypt(ctx context.Context, handle *uint256.Int) bool {
	_, err := s.DecryptOne(ctx, DecryptionRequest{Handle: handle})
	return err == nil
}

// Reencrypt re-encrypts the plaintext behind a handle under the given
// public key so the caller can open it locally.
func (s *Session) Reencrypt(ctx context.Context, handle *uint256.Int, publicKey []byte) ([]byte, error) {
	if !s.IsInitialized() {
		return nil, ErrUninitializedClient
	}
	if s.signer == nil {
		return nil, ErrNoSigner
	}
	out, err := s.fhe.Reencrypt(ctx, handle, publicKey, s.signer.Address())
	if err != nil {
		if errors.Is(err, instance.ErrUnauthorized) {
			return nil, err
		}
		return nil, &DecryptionFailedError{Err: err}
	}
	return out, nil
}

// narrow checks a wide plaintext against a host-width bound. Narrowing is
// only safe because the contract schema guarantees the width the ciphertext
// was produced at; a larger plaintext means the caller asked for a narrower
// width than the value was encrypted at.
func narrow(value *uint256.Int, max uint64, width Width) (uint64, error) {
	if !value.IsUint64() || value.Uint64() > max {
		return 0, &DecryptionFailedError{
			Err: fmt.Errorf("plaintext %s exceeds %s", value.Dec(), width),
		}
	}
	return value.Uint64(), nil
}

// DecryptUint8 decrypts a handle known to hold an 8-bit value.
func (s *Session) DecryptUint8(ctx context.Context, handle *uint256.Int) (uint8, error) {
	value, err := s.DecryptOne(ctx, DecryptionRequest{Handle: handle})
	if err != nil {
		return 0, err
	}
	v, err := narrow(value, math.MaxUint8, Uint8)
	return uint8(v), err
}

// DecryptUint16 decrypts a handle known to hold a 16-bit value.
func (s *Session) DecryptUint16(ctx context.Context, handle *uint256.Int) (uint16, error) {
	value, err := s.DecryptOne(ctx, DecryptionRequest{Handle: handle})
	if err != nil {
		return 0, err
	}
	v, err := narrow(value, math.MaxUint16, Uint16)
	return uint16(v), err
}

// DecryptUint32 decrypts a handle known to hold a 32-bit value.
func (s *Session) DecryptUint32(ctx context.Context, handle *uint256.Int) (uint32, error) {
	value, err := s.DecryptOne(ctx, DecryptionRequest{Handle: handle})
	if err != nil {
		return 0, err
	}
	v, err := narrow(value, math.MaxUint32, Uint32)
	return uint32(v), err
}

// DecryptUint64 decrypts a handle known to hold a 64-bit value.
func (s *Session) DecryptUint64(ctx context.Context, handle *uint256.Int) (uint64, error) {
	value, err := s.DecryptOne(ctx, DecryptionRequest{Handle: handle})
	if err != nil {
		return 0, err
	}
	return narrow(value, math.MaxUint64, Uint64)
}
