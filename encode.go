// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fhesdk

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
	"github.com/luxfi/math/set"
)

// Width is the bit width tag of an encrypted unsigned integer.
type Width uint16

const (
	Uint8   Width = 8
	Uint16  Width = 16
	Uint32  Width = 32
	Uint64  Width = 64
	Uint128 Width = 128
	Uint256 Width = 256
)

var supportedWidths = set.Of(Uint8, Uint16, Uint32, Uint64, Uint128, Uint256)

// Supported reports whether w is one of the encryptable widths.
func (w Width) Supported() bool {
	return supportedWidths.Contains(w)
}

// Max returns the largest value representable at width w, i.e. 2^w - 1.
func (w Width) Max() *uint256.Int {
	max := new(uint256.Int)
	if w >= 256 {
		return max.SetAllOne()
	}
	one := uint256.NewInt(1)
	return max.Lsh(one, uint(w)).SubUint64(max, 1)
}

func (w Width) String() string {
	return fmt.Sprintf("uint%d", uint16(w))
}

// Encode converts value to the wide-integer representation after checking it
// against the closed range [0, 2^w - 1]. Pure, no I/O.
func Encode(value *big.Int, w Width) (*uint256.Int, error) {
	if !w.Supported() {
		return nil, fmt.Errorf("unsupported encryption width %d", uint16(w))
	}
	if value == nil {
		return nil, fmt.Errorf("nil value for %s encode", w)
	}
	if value.Sign() < 0 {
		return nil, &OutOfRangeError{Value: value, Width: w}
	}
	v, overflow := uint256.FromBig(value)
	if overflow || v.Gt(w.Max()) {
		return nil, &OutOfRangeError{Value: value, Width: w}
	}
	return v, nil
}

// EncodeUint64 is Encode for host integers.
func EncodeUint64(value uint64, w Width) (*uint256.Int, error) {
	return Encode(new(big.Int).SetUint64(value), w)
}

// EncodeString parses a base-10 or 0x-prefixed hexadecimal numeric string and
// encodes it at width w.
func EncodeString(value string, w Width) (*uint256.Int, error) {
	base := 10
	digits := value
	if strings.HasPrefix(value, "0x") || strings.HasPrefix(value, "0X") {
		base = 16
		digits = value[2:]
	}
	parsed, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return nil, fmt.Errorf("not a numeric value: %q", value)
	}
	return Encode(parsed, w)
}

// Fits is the validity predicate behind Encode. It never returns an error.
func Fits(value *big.Int, w Width) bool {
	_, err := Encode(value, w)
	return err == nil
}
