package contract

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Invocation is a single contract method call inside an envelope.
type Invocation struct {
	Contract string `json:"contract"`
	Method   string `json:"method"`
	Args     []Arg  `json:"args"`
}

// TimeBounds is the validity window of an envelope, unix seconds.
type TimeBounds struct {
	MinTime uint64 `json:"minTime"`
	MaxTime uint64 `json:"maxTime"`
}

// Envelope is an unsigned transaction. Immutable once built; the signed
// form produced by a wallet bridge is an opaque blob and the unsigned form
// is discarded after signing.
type Envelope struct {
	SourceAccount  string       `json:"sourceAccount"`
	SequenceNumber int64        `json:"sequenceNumber"`
	Operations     []Invocation `json:"operations"`
	Fee            uint32       `json:"fee"`
	TimeBounds     TimeBounds   `json:"timeBounds"`
}

// Encode serializes the envelope to the base64 wire form expected by the
// RPC endpoint and the wallet bridges.
func (e *Envelope) Encode() (string, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return "", fmt.Errorf("failed to encode envelope: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// DecodeEnvelope parses the base64 wire form back into an Envelope. Wallet
// bridges use it to present the invocation to the user before signing.
func DecodeEnvelope(encoded string) (*Envelope, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode envelope: %w", err)
	}
	var envelope Envelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse envelope: %w", err)
	}
	return &envelope, nil
}

// SignedEnvelope is an opaque signed transaction blob.
type SignedEnvelope string
