// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"math/big"
	"os"
	"sort"
	"time"

	"github.com/holiman/uint256"
	"github.com/luxfi/fhesdk"
	"github.com/luxfi/fhesdk/cache"
	"github.com/luxfi/fhesdk/config"
	"github.com/luxfi/fhesdk/signer"
	"github.com/luxfi/fhesdk/utils"
	"github.com/luxfi/geth/common/hexutil"
	"github.com/luxfi/geth/ethclient"
	"github.com/luxfi/log"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "fhecli",
	Short: "FHE client SDK CLI",
	Long: `fhecli encrypts values for a confidential smart contract, submits
them as contract call arguments, and decrypts handles the contract returns.

Encryption and proof generation are delegated to the FHE gateway configured
with --gateway-url; decryption is authorized by the on-chain access-control
list for the key given with --private-key.`,
	Version: fmt.Sprintf("%s (built %s)", version, buildDate),
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String(config.ConfigFileKey, "", "optional JSON config file")
	pf.String(config.RPCURLKey, "", "chain RPC endpoint")
	pf.String(config.GatewayURLKey, "", "FHE gateway endpoint")
	pf.String(config.ContractAddressKey, "", "confidential contract address")
	pf.String(config.ACLAddressKey, "", "access-control-list contract address")
	pf.String(config.ABIPathKey, "", "path to the contract ABI JSON")
	pf.String(config.PrivateKeyKey, "", "hex private key for signing and decryption")
	pf.Int(config.CacheSizeKey, 0, "decrypted plaintext cache size")

	rootCmd.AddCommand(encryptCmd)
	rootCmd.AddCommand(decryptCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(networksCmd)
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	v, err := config.BuildViper(cmd.Flags())
	if err != nil {
		return config.Config{}, err
	}
	return config.NewConfig(v)
}

func newSession(cmd *cobra.Command, cfg config.Config, logger log.Logger) (*fhesdk.Session, error) {
	abiJSON, err := os.ReadFile(cfg.ABIPath)
	if err != nil {
		return nil, fmt.Errorf("read ABI: %w", err)
	}

	provider, err := ethclient.DialContext(cmd.Context(), cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("dial rpc endpoint: %w", err)
	}

	sessionCfg := fhesdk.Config{
		Provider:        provider,
		ContractAddress: cfg.ContractAddress,
		ABI:             string(abiJSON),
		GatewayURL:      cfg.GatewayURL,
		ACLAddress:      cfg.ACLAddress,
		Logger:          logger,
	}
	if cfg.PrivateKey != "" {
		sgnr, err := signer.NewTxSigner(cfg.PrivateKey)
		if err != nil {
			return nil, err
		}
		sessionCfg.Signer = sgnr
	}

	return fhesdk.NewSession(cmd.Context(), sessionCfg)
}

// parseInputs pairs --value and --width flags positionally.
func parseInputs(values []string, widths []uint) ([]fhesdk.Input, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("at least one --value is required")
	}
	if len(values) != len(widths) {
		return nil, fmt.Errorf("got %d values but %d widths", len(values), len(widths))
	}
	inputs := make([]fhesdk.Input, len(values))
	for i, raw := range values {
		width := fhesdk.Width(widths[i])
		encoded, err := fhesdk.EncodeString(raw, width)
		if err != nil {
			return nil, err
		}
		inputs[i] = fhesdk.Input{Value: encoded.ToBig(), Width: width}
	}
	return inputs, nil
}

var encryptCmd = &cobra.Command{
	Use:   "encrypt",
	Short: "Encrypt values into handles and an input proof",
	Long: `Encrypt one or more plaintext values against the configured contract.
Values and widths are paired positionally; handle order matches value order.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		values, _ := cmd.Flags().GetStringSlice("value")
		widths, _ := cmd.Flags().GetUintSlice("width")
		inputs, err := parseInputs(values, widths)
		if err != nil {
			return err
		}

		logger := log.NewLogger("fhecli")
		session, err := newSession(cmd, cfg, logger)
		if err != nil {
			return err
		}
		defer session.Teardown()

		encrypted, err := session.EncryptMany(cmd.Context(), inputs)
		if err != nil {
			return err
		}

		fmt.Printf("Encrypted %d value(s):\n", len(encrypted.Handles))
		for i, handle := range encrypted.Handles {
			fmt.Printf("  handle[%d]: %s\n", i, hexutil.Encode(handle[:]))
		}
		fmt.Printf("  inputProof: %s\n", hexutil.Encode(encrypted.Proof))
		return nil
	},
}

var decryptCmd = &cobra.Command{
	Use:   "decrypt",
	Short: "Decrypt ciphertext handles through the gateway",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		rawHandles, _ := cmd.Flags().GetStringSlice("handle")
		if len(rawHandles) == 0 {
			return fmt.Errorf("at least one --handle is required")
		}

		logger := log.NewLogger("fhecli")
		session, err := newSession(cmd, cfg, logger)
		if err != nil {
			return err
		}
		defer session.Teardown()

		plaintexts := cache.NewDecryptedCache(cfg.CacheSize)
		for _, raw := range rawHandles {
			handle, err := uint256.FromHex(raw)
			if err != nil {
				return fmt.Errorf("invalid handle %q: %w", raw, err)
			}
			// Tolerate transient gateway unavailability; an authorization
			// denial fails immediately on the last attempt like any other.
			value, err := plaintexts.Get(handle, func(h *uint256.Int) (*uint256.Int, error) {
				return utils.Retry(func() (*uint256.Int, error) {
					return session.DecryptOne(cmd.Context(), fhesdk.DecryptionRequest{Handle: h})
				}, 3, 100*time.Millisecond, logger)
			})
			if err != nil {
				fmt.Printf("  %s: error: %v\n", fhesdk.FormatHandle(handle), err)
				continue
			}
			fmt.Printf("  %s: %s\n", fhesdk.FormatHandle(handle), value.Dec())
		}
		return nil
	},
}

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Encrypt values and submit them as contract call arguments",
	Long: `Encrypt the given values and call the named contract method with the
resulting handles followed by the input proof, the argument shape used by
FHE contract bindings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		method, _ := cmd.Flags().GetString("method")
		if method == "" {
			return fmt.Errorf("--method is required")
		}
		values, _ := cmd.Flags().GetStringSlice("value")
		widths, _ := cmd.Flags().GetUintSlice("width")
		inputs, err := parseInputs(values, widths)
		if err != nil {
			return err
		}

		logger := log.NewLogger("fhecli")
		session, err := newSession(cmd, cfg, logger)
		if err != nil {
			return err
		}
		defer session.Teardown()

		encrypted, err := session.EncryptMany(cmd.Context(), inputs)
		if err != nil {
			return err
		}

		callArgs := make([]interface{}, 0, len(encrypted.Handles)+1)
		for _, handle := range encrypted.Handles {
			callArgs = append(callArgs, handle)
		}
		callArgs = append(callArgs, encrypted.Proof)

		receipt, err := session.Transact(cmd.Context(), method, callArgs...)
		if err != nil {
			return err
		}
		fmt.Printf("Transaction included:\n")
		fmt.Printf("  txID: %s\n", receipt.TxHash)
		fmt.Printf("  block: %s\n", receipt.BlockNumber)
		fmt.Printf("  status: %d\n", receipt.Status)
		return nil
	},
}

var networksCmd = &cobra.Command{
	Use:   "networks",
	Short: "List known FHE-capable networks",
	Run: func(cmd *cobra.Command, args []string) {
		networks := fhesdk.KnownNetworks()
		ids := make([]uint64, 0, len(networks))
		for id := range networks {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			fmt.Printf("  %-12s chainID=%s\n", networks[id], new(big.Int).SetUint64(id))
		}
	},
}

func init() {
	encryptCmd.Flags().StringSlice("value", nil, "plaintext value, repeatable")
	encryptCmd.Flags().UintSlice("width", nil, "bit width per value: 8, 16, 32, 64, 128, or 256")

	decryptCmd.Flags().StringSlice("handle", nil, "0x-prefixed ciphertext handle, repeatable")

	submitCmd.Flags().String("method", "", "contract method to call")
	submitCmd.Flags().StringSlice("value", nil, "plaintext value, repeatable")
	submitCmd.Flags().UintSlice("width", nil, "bit width per value")
}
