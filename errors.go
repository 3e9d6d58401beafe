// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fhesdk

import (
	"errors"
	"fmt"
	"math/big"
)

var (
	// ErrUninitializedClient is returned by the adapters when the session's
	// FHE handshake never completed or the session was torn down.
	ErrUninitializedClient = errors.New("fhe client not initialized")

	// ErrNoSigner is returned by operations that require a signing identity
	// on a session that was created without one.
	ErrNoSigner = errors.New("session has no signer")
)

// OutOfRangeError is returned by the value encoder when a plaintext does not
// fit the closed range of its declared width.
type OutOfRangeError struct {
	Value *big.Int
	Width Width
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("value %s out of range for %s [0, %s]", e.Value, e.Width, e.Width.Max().Dec())
}

// ConfigurationError reports a missing or malformed required field in the
// session configuration. No partial session is ever returned alongside it.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("session config: missing required field %s", e.Field)
	}
	return fmt.Sprintf("session config: invalid field %s: %s", e.Field, e.Reason)
}

// EncryptionFailedError wraps an underlying FHE library or network failure
// during encrypted-input construction. The original message is preserved.
type EncryptionFailedError struct {
	Err error
}

func (e *EncryptionFailedError) Error() string {
	return fmt.Sprintf("encryption failed: %s", e.Err)
}

func (e *EncryptionFailedError) Unwrap() error {
	return e.Err
}

// DecryptionFailedError wraps an underlying gateway or network failure during
// decryption. Authorization denials are surfaced as instance.ErrUnauthorized
// instead, never wrapped here.
type DecryptionFailedError struct {
	Err error
}

func (e *DecryptionFailedError) Error() string {
	return fmt.Sprintf("decryption failed: %s", e.Err)
}

func (e *DecryptionFailedError) Unwrap() error {
	return e.Err
}
