// Package localkey is a development wallet bridge backed by a local ed25519
// key. It signs without user interaction and is intended for development and
// automated environments, never for end-user funds.
package localkey

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/stellarhub/defihub/internal/chain/contract"
	"github.com/stellarhub/defihub/internal/wallet"
)

// BridgeKind identifies this backend to the wallet manager.
const BridgeKind = "localkey"

// Signer implements wallet.Bridge with a local ed25519 key.
type Signer struct {
	priv      ed25519.PrivateKey
	address   string
	networkID string
}

// New creates a local signer from a hex-encoded 32-byte ed25519 seed.
// address is the Stellar account the key controls; networkID is the network
// passphrase the signer claims to be on.
func New(seedHex, address, networkID string) (*Signer, error) {
	seed, err := hex.DecodeString(seedHex)
	if err != nil {
		return nil, fmt.Errorf("invalid signer seed: %w", err)
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("signer seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	if address == "" {
		return nil, fmt.Errorf("signer address is required")
	}
	return &Signer{
		priv:      ed25519.NewKeyFromSeed(seed),
		address:   address,
		networkID: networkID,
	}, nil
}

// Kind implements wallet.Bridge
func (s *Signer) Kind() string { return BridgeKind }

// Available implements wallet.Bridge; a local key is always reachable.
func (s *Signer) Available(ctx context.Context) bool { return true }

// Connect implements wallet.Bridge without any user interaction.
func (s *Signer) Connect(ctx context.Context) (string, string, error) {
	return s.address, s.networkID, nil
}

// signedPayload is the wire form of a locally signed envelope.
type signedPayload struct {
	Tx         string `json:"tx"`
	PublicKey  string `json:"public_key"`
	Signature  string `json:"signature"`
	SignerKind string `json:"signer_kind"`
}

// Sign implements wallet.Bridge. The envelope must parse; signing a blob we
// cannot decode would hide builder bugs until on-chain rejection.
func (s *Signer) Sign(ctx context.Context, envelope string) (contract.SignedEnvelope, error) {
	if _, err := contract.DecodeEnvelope(envelope); err != nil {
		return "", fmt.Errorf("%w: %v", wallet.ErrSigningFailed, err)
	}

	sig := ed25519.Sign(s.priv, []byte(envelope))
	payload := signedPayload{
		Tx:         envelope,
		PublicKey:  base64.StdEncoding.EncodeToString(s.priv.Public().(ed25519.PublicKey)),
		Signature:  base64.StdEncoding.EncodeToString(sig),
		SignerKind: BridgeKind,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%w: %v", wallet.ErrSigningFailed, err)
	}
	return contract.SignedEnvelope(base64.StdEncoding.EncodeToString(data)), nil
}

// Disconnect implements wallet.Bridge
func (s *Signer) Disconnect() {}
