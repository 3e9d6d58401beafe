// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fhesdk

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeRange(t *testing.T) {
	widths := []Width{Uint8, Uint16, Uint32, Uint64, Uint128, Uint256}
	for _, w := range widths {
		t.Run(w.String(), func(t *testing.T) {
			max := w.Max().ToBig()

			encoded, err := Encode(big.NewInt(0), w)
			require.NoError(t, err)
			require.True(t, encoded.IsZero())

			encoded, err = Encode(max, w)
			require.NoError(t, err)
			require.Equal(t, max, encoded.ToBig())

			over := new(big.Int).Add(max, big.NewInt(1))
			_, err = Encode(over, w)
			var oor *OutOfRangeError
			require.ErrorAs(t, err, &oor)
			require.Equal(t, w, oor.Width)
		})
	}
}

func TestEncodeRejectsNegative(t *testing.T) {
	_, err := Encode(big.NewInt(-1), Uint64)
	var oor *OutOfRangeError
	require.ErrorAs(t, err, &oor)
}

func TestEncodeRejectsNil(t *testing.T) {
	_, err := Encode(nil, Uint8)
	require.Error(t, err)
}

func TestEncodeUnsupportedWidth(t *testing.T) {
	_, err := Encode(big.NewInt(1), Width(24))
	require.Error(t, err)
	require.False(t, Width(24).Supported())
}

func TestOutOfRangeErrorMessage(t *testing.T) {
	_, err := Encode(big.NewInt(300), Uint8)
	require.Error(t, err)
	require.Equal(t, "value 300 out of range for uint8 [0, 255]", err.Error())
}

func TestEncodeString(t *testing.T) {
	encoded, err := EncodeString("120", Uint32)
	require.NoError(t, err)
	require.Equal(t, uint64(120), encoded.Uint64())

	encoded, err = EncodeString("0xff", Uint8)
	require.NoError(t, err)
	require.Equal(t, uint64(255), encoded.Uint64())

	_, err = EncodeString("twelve", Uint8)
	require.Error(t, err)

	_, err = EncodeString("256", Uint8)
	var oor *OutOfRangeError
	require.ErrorAs(t, err, &oor)
}

func TestFits(t *testing.T) {
	require.True(t, Fits(big.NewInt(255), Uint8))
	require.False(t, Fits(big.NewInt(256), Uint8))
	require.False(t, Fits(big.NewInt(-1), Uint256))
	require.True(t, Fits(new(big.Int).Lsh(big.NewInt(1), 127), Uint128))
	require.False(t, Fits(new(big.Int).Lsh(big.NewInt(1), 128), Uint128))
}

func TestWidthMax(t *testing.T) {
	require.Equal(t, uint64(255), Uint8.Max().Uint64())
	require.Equal(t, uint64(65535), Uint16.Max().Uint64())
	require.Equal(t, "uint128", Uint128.String())
}

func TestNetworkName(t *testing.T) {
	require.Equal(t, "localhost", NetworkName(big.NewInt(31337)))
	require.Equal(t, "sepolia", NetworkName(big.NewInt(11155111)))
	require.Equal(t, "chain-555", NetworkName(big.NewInt(555)))
	require.Equal(t, "unknown", NetworkName(nil))
}

func TestHandleRoundTrip(t *testing.T) {
	var raw [32]byte
	raw[31] = 0x2a
	handle := HandleFromBytes(raw)
	require.Equal(t, uint64(42), handle.Uint64())
	require.Equal(t, "0x2a", FormatHandle(handle))
	require.Equal(t, "0x0", FormatHandle(nil))
}
