// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Command feedback demonstrates the full SDK flow against an in-memory
// FHE instance: encrypt a batch of survey fields, inspect the handles and
// proof a contract call would carry, then decrypt one field back.
package main

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"os"

	fhesdk "github.com/luxfi/fhesdk"
	"github.com/luxfi/fhesdk/instance"
	"github.com/luxfi/fhesdk/signer"
	"github.com/luxfi/geth/accounts/abi/bind"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/core/types"
)

const feedbackABI = `[
	{
		"name": "submitFeedback",
		"type": "function",
		"inputs": [
			{"name": "age", "type": "bytes32"},
			{"name": "rating", "type": "bytes32"},
			{"name": "duration", "type": "bytes32"},
			{"name": "inputProof", "type": "bytes"}
		],
		"outputs": []
	}
]`

// Well-known development key, safe to hardcode.
const devPrivateKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

// offlineProvider satisfies the session's provider interface without a node.
// The embedded backend is never touched because nothing here transacts.
type offlineProvider struct {
	bind.ContractBackend
}

func (offlineProvider) ChainID(context.Context) (*big.Int, error) {
	return big.NewInt(31337), nil
}

func (offlineProvider) TransactionReceipt(context.Context, common.Hash) (*types.Receipt, error) {
	return nil, errors.New("offline provider has no receipts")
}

func run() error {
	ctx := context.Background()

	txSigner, err := signer.NewTxSigner(devPrivateKey)
	if err != nil {
		return err
	}

	session, err := fhesdk.NewSession(ctx, fhesdk.Config{
		Provider:        offlineProvider{},
		Signer:          txSigner,
		ContractAddress: "0x1000000000000000000000000000000000000042",
		ABI:             feedbackABI,
		Connect: func(_ context.Context, cfg instance.Config) (instance.Instance, error) {
			return fhesdk.NewFakeInstance(cfg.ChainID), nil
		},
	})
	if err != nil {
		return err
	}
	defer session.Teardown()

	// One proof covers all three fields; handle order matches input order.
	encrypted, err := session.EncryptMany(ctx, []fhesdk.Input{
		fhesdk.Uint64Input(25, fhesdk.Uint8),   // age
		fhesdk.Uint64Input(9, fhesdk.Uint8),    // rating
		fhesdk.Uint64Input(120, fhesdk.Uint32), // session duration
	})
	if err != nil {
		return err
	}

	fmt.Printf("network: %s\n", fhesdk.NetworkName(session.ChainID()))
	for i, handle := range encrypted.Handles {
		fmt.Printf("handle[%d]: %s\n", i, fhesdk.FormatHandle(fhesdk.HandleFromBytes(handle)))
	}
	fmt.Printf("proof: %d bytes\n", len(encrypted.Proof))

	// A real deployment would now call
	// session.Transact(ctx, "submitFeedback", handles..., proof).

	duration, err := session.DecryptUint32(ctx, fhesdk.HandleFromBytes(encrypted.Handles[2]))
	if err != nil {
		return err
	}
	fmt.Printf("decrypted duration: %d\n", duration)
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "feedback: %s\n", err)
		os.Exit(1)
	}
}
