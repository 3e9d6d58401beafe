// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fhesdk

import (
	"context"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	session, _ := newTestSession(t)
	ctx := context.Background()

	encrypted, err := session.EncryptUint8(ctx, 25)
	require.NoError(t, err)
	require.Len(t, encrypted.Handles, 1)
	require.NotEmpty(t, encrypted.Proof)

	value, err := session.DecryptUint8(ctx, HandleFromBytes(encrypted.Handles[0]))
	require.NoError(t, err)
	require.Equal(t, uint8(25), value)
}

func TestEncryptManyPreservesOrder(t *testing.T) {
	session, _ := newTestSession(t)
	ctx := context.Background()

	encrypted, err := session.EncryptMany(ctx, []Input{
		Uint64Input(1, Uint8),
		Uint64Input(9, Uint8),
		Uint64Input(120, Uint32),
		Uint64Input(5, Uint8),
	})
	require.NoError(t, err)
	require.Len(t, encrypted.Handles, 4)
	require.NotEmpty(t, encrypted.Proof)

	duration, err := session.DecryptUint32(ctx, HandleFromBytes(encrypted.Handles[2]))
	require.NoError(t, err)
	require.Equal(t, uint32(120), duration)

	rating, err := session.DecryptUint8(ctx, HandleFromBytes(encrypted.Handles[1]))
	require.NoError(t, err)
	require.Equal(t, uint8(9), rating)
}

func TestEncryptManyRejectsOutOfRange(t *testing.T) {
	session, _ := newTestSession(t)

	_, err := session.EncryptMany(context.Background(), []Input{
		Uint64Input(25, Uint8),
		Uint64Input(300, Uint8),
	})
	var oor *OutOfRangeError
	require.ErrorAs(t, err, &oor)
	require.Equal(t, Uint8, oor.Width)
}

func TestEncryptManyRejectsEmptyBatch(t *testing.T) {
	session, _ := newTestSession(t)
	_, err := session.EncryptMany(context.Background(), nil)
	require.Error(t, err)
}

func TestEncryptWideWidths(t *testing.T) {
	session, _ := newTestSession(t)
	ctx := context.Background()

	wide := new(big.Int).Lsh(big.NewInt(1), 100)
	encrypted, err := session.EncryptUint128(ctx, wide)
	require.NoError(t, err)

	value, err := session.DecryptOne(ctx, DecryptionRequest{
		Handle: HandleFromBytes(encrypted.Handles[0]),
	})
	require.NoError(t, err)
	require.Equal(t, wide, value.ToBig())

	_, err = session.EncryptUint128(ctx, new(big.Int).Lsh(big.NewInt(1), 128))
	var oor *OutOfRangeError
	require.ErrorAs(t, err, &oor)
}
