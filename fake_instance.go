// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fhesdk

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"sync"

	"github.com/holiman/uint256"
	"github.com/luxfi/fhesdk/instance"
	"github.com/luxfi/geth/common"
)

// FakeInstance is a test implementation of instance.Instance backed by an
// in-memory plaintext store. Handles are deterministic content hashes, so
// encrypt/decrypt round trips work without a gateway.
type FakeInstance struct {
	mu         sync.Mutex
	chainID    uint64
	plaintexts map[[32]byte]*uint256.Int
	batches    uint64

	// Unauthorized forces every decryption to be denied.
	Unauthorized bool
}

var _ instance.Instance = (*FakeInstance)(nil)

// NewFakeInstance creates an empty fake bound to the given chain id.
func NewFakeInstance(chainID uint64) *FakeInstance {
	return &FakeInstance{
		chainID:    chainID,
		plaintexts: make(map[[32]byte]*uint256.Int),
	}
}

func (f *FakeInstance) ChainID() uint64 {
	return f.chainID
}

func (f *FakeInstance) CreateEncryptedInput(contract common.Address, user common.Address) instance.Builder {
	return &fakeBuilder{
		inst:     f,
		contract: contract,
		user:     user,
	}
}

func (f *FakeInstance) Decrypt(_ context.Context, _ common.Address, handle *uint256.Int) (*uint256.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Unauthorized {
		return nil, instance.ErrUnauthorized
	}
	value, ok := f.plaintexts[handle.Bytes32()]
	if !ok {
		return nil, errors.New("unknown handle")
	}
	return new(uint256.Int).Set(value), nil
}

func (f *FakeInstance) Reencrypt(_ context.Context, handle *uint256.Int, _ []byte, _ common.Address) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Unauthorized {
		return nil, instance.ErrUnauthorized
	}
	value, ok := f.plaintexts[handle.Bytes32()]
	if !ok {
		return nil, errors.New("unknown handle")
	}
	return value.Bytes(), nil
}

type fakeBuilder struct {
	inst     *FakeInstance
	contract common.Address
	user     common.Address
	values   []*uint256.Int
}

func (b *fakeBuilder) add(value *uint256.Int) instance.Builder {
	b.values = append(b.values, value)
	return b
}

func (b *fakeBuilder) Add8(value uint64) instance.Builder   { return b.add(uint256.NewInt(value)) }
func (b *fakeBuilder) Add16(value uint64) instance.Builder  { return b.add(uint256.NewInt(value)) }
func (b *fakeBuilder) Add32(value uint64) instance.Builder  { return b.add(uint256.NewInt(value)) }
func (b *fakeBuilder) Add64(value uint64) instance.Builder  { return b.add(uint256.NewInt(value)) }
func (b *fakeBuilder) Add128(value *uint256.Int) instance.Builder { return b.add(value) }
func (b *fakeBuilder) Add256(value *uint256.Int) instance.Builder { return b.add(value) }

func (b *fakeBuilder) Encrypt(context.Context) (*instance.EncryptedInput, error) {
	if len(b.values) == 0 {
		return nil, errors.New("no values appended to encrypted input")
	}

	b.inst.mu.Lock()
	defer b.inst.mu.Unlock()
	b.inst.batches++

	handles := make([][32]byte, len(b.values))
	proof := sha256.New()
	for i, value := range b.values {
		h := sha256.New()
		h.Write(b.contract.Bytes())
		h.Write(b.user.Bytes())
		var meta [16]byte
		binary.BigEndian.PutUint64(meta[0:8], b.inst.batches)
		binary.BigEndian.PutUint64(meta[8:16], uint64(i))
		h.Write(meta[:])
		valueBytes := value.Bytes32()
		h.Write(valueBytes[:])
		copy(handles[i][:], h.Sum(nil))

		b.inst.plaintexts[handles[i]] = new(uint256.Int).Set(value)
		proof.Write(handles[i][:])
	}

	return &instance.EncryptedInput{
		Handles: handles,
		Proof:   proof.Sum(nil),
	}, nil
}
