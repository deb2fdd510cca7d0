package contract

import (
	"fmt"
	"time"
)

const (
	// baseFee is the fixed fee in stroops per envelope.
	baseFee uint32 = 100
	// validityWindow bounds how long an envelope stays submittable.
	validityWindow = 5 * time.Minute
)

// methodSpec pins the contract method name and ordered argument types for
// one operation kind.
type methodSpec struct {
	name     string
	argTypes []ArgType
}

// The hub contract ABI. Order matters; changing an entry breaks wire
// compatibility with the deployed contract.
var methodTable = map[Kind]methodSpec{
	KindStake:    {"stake_blend", []ArgType{ArgAddress, ArgU128}},
	KindUnstake:  {"unstake_blend", []ArgType{ArgAddress, ArgU128}},
	KindSwap:     {"swap_tokens", []ArgType{ArgAddress, ArgAddress, ArgAddress, ArgU128, ArgU128, ArgU64}},
	KindSupply:   {"supply_to_blend", []ArgType{ArgAddress, ArgAddress, ArgU128, ArgBool}},
	KindWithdraw: {"withdraw_from_blend", []ArgType{ArgAddress, ArgAddress, ArgU128}},
	KindBorrow:   {"borrow_from_blend", []ArgType{ArgAddress, ArgAddress, ArgU128}},

	KindUserPosition: {"get_user_position", []ArgType{ArgAddress}},
	KindHealthStatus: {"get_health_status", []ArgType{ArgAddress}},
}

// MethodName returns the contract method a kind maps to.
func MethodName(kind Kind) (string, bool) {
	spec, ok := methodTable[kind]
	return spec.name, ok
}

// Builder constructs unsigned envelopes addressed to one hub contract.
// Construction is pure and synchronous; the caller supplies the
// source-account snapshot fetched from the network immediately prior.
type Builder struct {
	contractID string
}

// NewBuilder creates a builder targeting the given contract
func NewBuilder(contractID string) *Builder {
	return &Builder{contractID: contractID}
}

// Build turns an OperationRequest into an unsigned envelope. It validates
// argument shapes against the ABI but performs no amount conversion; amounts
// arrive already in base units.
func (b *Builder) Build(req OperationRequest, sourceAccount string, sequenceNumber int64, now time.Time) (*Envelope, error) {
	spec, ok := methodTable[req.Kind]
	if !ok {
		return nil, fmt.Errorf("unknown operation kind: %s", req.Kind)
	}

	if len(req.Args) != len(spec.argTypes) {
		return nil, fmt.Errorf("%s expects %d arguments, got %d", spec.name, len(spec.argTypes), len(req.Args))
	}
	for i, want := range spec.argTypes {
		if err := validateArg(req.Args[i], want, i); err != nil {
			return nil, fmt.Errorf("%s: %w", spec.name, err)
		}
	}

	if !isAddressShaped(sourceAccount) || sourceAccount == "native" {
		return nil, fmt.Errorf("source account is not address-shaped: %q", sourceAccount)
	}

	return &Envelope{
		SourceAccount:  sourceAccount,
		SequenceNumber: sequenceNumber + 1,
		Operations: []Invocation{{
			Contract: b.contractID,
			Method:   spec.name,
			Args:     req.Args,
		}},
		Fee: baseFee,
		TimeBounds: TimeBounds{
			MinTime: 0,
			MaxTime: uint64(now.Add(validityWindow).Unix()),
		},
	}, nil
}
