// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package fhesdk

import (
	"context"
	"time"

	"github.com/luxfi/fhesdk/utils"
	"github.com/luxfi/geth/accounts/abi/bind"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/core/types"
	"github.com/luxfi/log"
)

// Receipts depend on block inclusion, so the wait is bounded by total
// elapsed time rather than an attempt count.
const receiptWaitTimeout = 90 * time.Second

// Transact signs and broadcasts a state-changing contract call and waits
// for its receipt. Encrypted arguments are passed positionally: each handle
// as a [32]byte followed by the input proof as []byte, exactly as produced
// by the encryption adapter. Contract-level reverts are passed through
// unchanged from the chain-interaction stack.
func (s *Session) Transact(ctx context.Context, method string, args ...interface{}) (*types.Receipt, error) {
	if !s.IsInitialized() {
		return nil, ErrUninitializedClient
	}
	if s.signer == nil {
		return nil, ErrNoSigner
	}

	opts := &bind.TransactOpts{
		From: s.signer.Address(),
		Signer: func(addr common.Address, tx *types.Transaction) (*types.Transaction, error) {
			if addr != s.signer.Address() {
				return nil, bind.ErrNotAuthorized
			}
			return s.signer.SignTx(tx, s.chainID)
		},
		Context: ctx,
	}

	tx, err := s.contract.Transact(opts, method, args...)
	if err != nil {
		return nil, err
	}
	s.log.Info(
		"sent transaction",
		log.String("method", method),
		log.Stringer("txID", tx.Hash()),
	)
	return s.waitForReceipt(ctx, tx.Hash())
}

// Call executes a read-only contract call.
func (s *Session) Call(ctx context.Context, results *[]interface{}, method string, args ...interface{}) error {
	if !s.IsInitialized() {
		return ErrUninitializedClient
	}
	opts := &bind.CallOpts{
		From:    s.userAddress(),
		Context: ctx,
	}
	return s.contract.Call(opts, results, method, args...)
}

// waitForReceipt polls until the transaction is included or the wait budget
// runs out. Inclusion lag is the common transient here, so the poll rides
// the backoff helper.
func (s *Session) waitForReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	var receipt *types.Receipt
	err := utils.WithRetriesTimeout(func() error {
		r, err := s.provider.TransactionReceipt(ctx, txHash)
		if err != nil {
			return err
		}
		receipt = r
		return nil
	}, receiptWaitTimeout, s.log)
	if err != nil {
		s.log.Error(
			"failed to get transaction receipt",
			log.Stringer("txID", txHash),
			log.Err(err),
		)
		return nil, err
	}
	return receipt, nil
}
