// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package instance

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/holiman/uint256"
	fhe "github.com/luxfi/fhe"
	"github.com/luxfi/geth/common"
	"github.com/luxfi/geth/common/hexutil"
	"github.com/luxfi/log"
)

// Config carries everything the default gateway-backed instance needs.
type Config struct {
	// ChainID of the network the bound contract lives on.
	ChainID uint64

	// GatewayURL is the base URL of the decryption gateway.
	GatewayURL string

	// ACLAddress is the on-chain access-control-list contract, when the
	// deployment uses a dedicated one. May be zero.
	ACLAddress common.Address

	// Requester is the identity decryption requests are issued as. May be
	// zero for encrypt-only instances.
	Requester common.Address

	// HTTPClient overrides the transport. Timeouts are inherited from it.
	HTTPClient *http.Client

	Log log.Logger
}

// GatewayInstance implements Instance against a remote gateway, producing
// ciphertexts locally with the vendor FHE library. All fields are set at
// Connect time and never mutated, so concurrent use is safe.
type GatewayInstance struct {
	chainID    uint64
	gatewayURL string
	acl        common.Address
	requester  common.Address
	client     *http.Client
	key        *fhe.ClientKey
	log        log.Logger
}

var _ Instance = (*GatewayInstance)(nil)

// Connect performs the network-bound handshake with the gateway: it fetches
// the public FHE key material for the chain and binds the vendor library to
// it. This is seconds-scale and must complete before any adapter call.
func Connect(ctx context.Context, cfg Config) (*GatewayInstance, error) {
	if cfg.GatewayURL == "" {
		return nil, errors.New("gateway URL required")
	}
	logger := cfg.Log
	if logger == nil {
		logger = log.NewLogger("fhe-instance")
	}
	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	inst := &GatewayInstance{
		chainID:    cfg.ChainID,
		gatewayURL: cfg.GatewayURL,
		acl:        cfg.ACLAddress,
		requester:  cfg.Requester,
		client:     client,
		log:        logger,
	}

	keyBytes, err := inst.fetchKeyMaterial(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch fhe key material: %w", err)
	}
	key, err := fhe.DeserializeClientKey(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("deserialize fhe key material: %w", err)
	}
	inst.key = key

	logger.Info(
		"connected fhe instance",
		log.Uint64("chainID", cfg.ChainID),
		log.String("gateway", cfg.GatewayURL),
	)
	return inst, nil
}

func (g *GatewayInstance) ChainID() uint64 {
	return g.chainID
}

func (g *GatewayInstance) CreateEncryptedInput(contract common.Address, user common.Address) Builder {
	return &inputBuilder{
		inst:     g,
		contract: contract,
		user:     user,
	}
}

// Decrypt asks the gateway for the plaintext behind the handle, scoped to
// the contract. A 401/403 from the gateway maps to ErrUnauthorized.
func (g *GatewayInstance) Decrypt(ctx context.Context, contract common.Address, handle *uint256.Int) (*uint256.Int, error) {
	var resp struct {
		Value string `json:"value"`
	}
	req := map[string]any{
		"chainId":  g.chainID,
		"contract": contract.Hex(),
		"handle":   handle.Hex(),
		"caller":   g.requester.Hex(),
	}
	if g.acl != (common.Address{}) {
		req["acl"] = g.acl.Hex()
	}
	if err := g.post(ctx, "/v1/decrypt", req, &resp); err != nil {
		return nil, err
	}
	value, err := uint256.FromHex(resp.Value)
	if err != nil {
		return nil, fmt.Errorf("gateway returned malformed plaintext %q: %w", resp.Value, err)
	}
	return value, nil
}

func (g *GatewayInstance) Reencrypt(ctx context.Context, handle *uint256.Int, publicKey []byte, requester common.Address) ([]byte, error) {
	var resp struct {
		Ciphertext hexutil.Bytes `json:"ciphertext"`
	}
	req := map[string]any{
		"chainId":   g.chainID,
		"handle":    handle.Hex(),
		"publicKey": hexutil.Encode(publicKey),
		"caller":    requester.Hex(),
	}
	if g.acl != (common.Address{}) {
		req["acl"] = g.acl.Hex()
	}
	if err := g.post(ctx, "/v1/reencrypt", req, &resp); err != nil {
		return nil, err
	}
	return resp.Ciphertext, nil
}

func (g *GatewayInstance) fetchKeyMaterial(ctx context.Context) ([]byte, error) {
	url := fmt.Sprintf("%s/v1/keys?chainId=%d", g.gatewayURL, g.chainID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	httpResp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()
	if httpResp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(httpResp.Body, 1024))
		return nil, fmt.Errorf("gateway status %d: %s", httpResp.StatusCode, bytes.TrimSpace(body))
	}
	var resp struct {
		ClientKey hexutil.Bytes `json:"clientKey"`
	}
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, err
	}
	return resp.ClientKey, nil
}

func (g *GatewayInstance) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.gatewayURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpResp, err := g.client.Do(httpReq)
	if err != nil {
		return err
	}
	defer httpResp.Body.Close()
	switch httpResp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	default:
		msg, _ := io.ReadAll(io.LimitReader(httpResp.Body, 1024))
		return fmt.Errorf("gateway status %d: %s", httpResp.StatusCode, bytes.TrimSpace(msg))
	}
	return json.NewDecoder(httpResp.Body).Decode(out)
}

type builderItem struct {
	value *uint256.Int
	bits  uint16
}

type inputBuilder struct {
	inst     *GatewayInstance
	contract common.Address
	user     common.Address
	items    []builderItem
}

func (b *inputBuilder) add(value *uint256.Int, bits uint16) Builder {
	b.items = append(b.items, builderItem{value: value, bits: bits})
	return b
}

func (b *inputBuilder) Add8(value uint64) Builder   { return b.add(uint256.NewInt(value), 8) }
func (b *inputBuilder) Add16(value uint64) Builder  { return b.add(uint256.NewInt(value), 16) }
func (b *inputBuilder) Add32(value uint64) Builder  { return b.add(uint256.NewInt(value), 32) }
func (b *inputBuilder) Add64(value uint64) Builder  { return b.add(uint256.NewInt(value), 64) }
func (b *inputBuilder) Add128(value *uint256.Int) Builder { return b.add(value, 128) }
func (b *inputBuilder) Add256(value *uint256.Int) Builder { return b.add(value, 256) }

// Encrypt produces one ciphertext per appended value, derives the handles,
// and obtains a single input proof from the gateway covering all of them.
// Handle order matches append order.
func (b *inputBuilder) Encrypt(ctx context.Context) (*EncryptedInput, error) {
	if len(b.items) == 0 {
		return nil, errors.New("no values appended to encrypted input")
	}
	if b.inst.key == nil {
		return nil, errors.New("instance has no encryption key")
	}

	handles := make([][32]byte, len(b.items))
	ciphertexts := make([]string, len(b.items))
	for i, item := range b.items {
		blob, err := b.encryptValue(item)
		if err != nil {
			return nil, fmt.Errorf("encrypt value %d: %w", i, err)
		}
		handles[i] = b.computeHandle(blob, i, item.bits)
		ciphertexts[i] = hexutil.Encode(blob)
	}

	var resp struct {
		Proof hexutil.Bytes `json:"proof"`
	}
	req := map[string]any{
		"chainId":     b.inst.chainID,
		"contract":    b.contract.Hex(),
		"caller":      b.user.Hex(),
		"ciphertexts": ciphertexts,
	}
	if b.inst.acl != (common.Address{}) {
		req["acl"] = b.inst.acl.Hex()
	}
	if err := b.inst.post(ctx, "/v1/inputs", req, &resp); err != nil {
		return nil, fmt.Errorf("prove encrypted input: %w", err)
	}
	if len(resp.Proof) == 0 {
		return nil, errors.New("gateway returned empty input proof")
	}

	return &EncryptedInput{Handles: handles, Proof: resp.Proof}, nil
}

// encryptValue encrypts the value in 64-bit limbs, least significant first,
// and concatenates the serialized ciphertexts into one blob.
func (b *inputBuilder) encryptValue(item builderItem) ([]byte, error) {
	limbs := int(item.bits) / 64
	if limbs == 0 {
		limbs = 1
	}
	bitLen := uint8(64)
	if item.bits < 64 {
		bitLen = uint8(item.bits)
	}

	var blob []byte
	for i := 0; i < limbs; i++ {
		ct, err := b.inst.key.Encrypt(item.value[i], bitLen)
		if err != nil {
			return nil, err
		}
		data, err := ct.Serialize()
		if err != nil {
			return nil, err
		}
		blob = append(blob, data...)
	}
	return blob, nil
}

// computeHandle derives the on-chain handle for a ciphertext by content
// hash, bound to the destination contract, submitting user, position, and
// width so identical plaintexts never collide across inputs.
func (b *inputBuilder) computeHandle(blob []byte, index int, bits uint16) [32]byte {
	h := sha256.New()
	h.Write(blob)
	h.Write(b.contract.Bytes())
	h.Write(b.user.Bytes())
	var meta [10]byte
	binary.BigEndian.PutUint64(meta[0:8], uint64(index))
	binary.BigEndian.PutUint16(meta[8:10], bits)
	h.Write(meta[:])
	var handle [32]byte
	copy(handle[:], h.Sum(nil))
	return handle
}
