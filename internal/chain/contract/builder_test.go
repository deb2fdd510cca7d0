package contract

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testContract = "CDEVVU3G2CFH6LJQG6LLSCSIU2BNRWDSJMDA44OA64XFV4YNWG7T22IU"
	testUser     = "GBBD47IF6LWK7P7MDEVSCWR7DPUWV3NY3DTQEVFL4NAT4AQH3ZLLFLA5"
	testAsset    = "GCKFBEIYTKP5RDBKDC7QNURHCZGB2HMCQSZXEBT4OATXKBMUWQE5H7J4"
)

func TestBuilder_MethodTable(t *testing.T) {
	// The wire contract: one method name and one argument order per kind.
	cases := []struct {
		req    OperationRequest
		method string
		argc   int
	}{
		{StakeRequest(testUser, big.NewInt(100)), "stake_blend", 2},
		{UnstakeRequest(testUser, big.NewInt(100)), "unstake_blend", 2},
		{SwapRequest(testUser, testAsset, "native", big.NewInt(10), big.NewInt(9), 1700000000), "swap_tokens", 6},
		{SupplyRequest(testUser, testAsset, big.NewInt(100), true), "supply_to_blend", 4},
		{WithdrawRequest(testUser, testAsset, big.NewInt(100)), "withdraw_from_blend", 3},
		{BorrowRequest(testUser, testAsset, big.NewInt(100)), "borrow_from_blend", 3},
		{UserPositionRequest(testUser), "get_user_position", 1},
		{HealthStatusRequest(testUser), "get_health_status", 1},
	}

	builder := NewBuilder(testContract)
	now := time.Unix(1700000000, 0)

	for _, tc := range cases {
		t.Run(tc.method, func(t *testing.T) {
			envelope, err := builder.Build(tc.req, testUser, 41, now)
			require.NoError(t, err)
			require.Len(t, envelope.Operations, 1)

			op := envelope.Operations[0]
			assert.Equal(t, testContract, op.Contract)
			assert.Equal(t, tc.method, op.Method)
			assert.Len(t, op.Args, tc.argc)
		})
	}
}

func TestBuilder_SwapArgumentOrder(t *testing.T) {
	builder := NewBuilder(testContract)
	req := SwapRequest(testUser, testAsset, "native", big.NewInt(100000000), big.NewInt(99000000), 1700000300)

	envelope, err := builder.Build(req, testUser, 7, time.Unix(1700000000, 0))
	require.NoError(t, err)

	args := envelope.Operations[0].Args
	require.Len(t, args, 6)
	assert.Equal(t, Address(testUser), args[0])
	assert.Equal(t, Address(testAsset), args[1])
	assert.Equal(t, Address("native"), args[2])
	assert.Equal(t, ArgU128, args[3].Type)
	assert.Equal(t, big.NewInt(100000000), args[3].Num)
	assert.Equal(t, ArgU128, args[4].Type)
	assert.Equal(t, big.NewInt(99000000), args[4].Num)
	assert.Equal(t, ArgU64, args[5].Type)
	assert.Equal(t, big.NewInt(1700000300), args[5].Num)
}

func TestBuilder_EnvelopeFields(t *testing.T) {
	builder := NewBuilder(testContract)
	now := time.Unix(1700000000, 0)

	envelope, err := builder.Build(StakeRequest(testUser, big.NewInt(5)), testUser, 41, now)
	require.NoError(t, err)

	assert.Equal(t, testUser, envelope.SourceAccount)
	assert.Equal(t, int64(42), envelope.SequenceNumber, "sequence is the snapshot plus one")
	assert.Equal(t, uint32(100), envelope.Fee)
	assert.Equal(t, uint64(0), envelope.TimeBounds.MinTime)
	assert.Equal(t, uint64(1700000300), envelope.TimeBounds.MaxTime)
}

func TestBuilder_RejectsBadArguments(t *testing.T) {
	builder := NewBuilder(testContract)
	now := time.Now()

	t.Run("negative amount", func(t *testing.T) {
		_, err := builder.Build(StakeRequest(testUser, big.NewInt(-1)), testUser, 1, now)
		assert.Error(t, err)
	})

	t.Run("nil amount", func(t *testing.T) {
		_, err := builder.Build(StakeRequest(testUser, nil), testUser, 1, now)
		assert.Error(t, err)
	})

	t.Run("malformed address", func(t *testing.T) {
		_, err := builder.Build(StakeRequest("not-an-address", big.NewInt(1)), testUser, 1, now)
		assert.Error(t, err)
	})

	t.Run("lowercase address", func(t *testing.T) {
		_, err := builder.Build(BorrowRequest(testUser, "gabc", big.NewInt(1)), testUser, 1, now)
		assert.Error(t, err)
	})

	t.Run("bad source account", func(t *testing.T) {
		_, err := builder.Build(StakeRequest(testUser, big.NewInt(1)), "native", 1, now)
		assert.Error(t, err)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := builder.Build(OperationRequest{Kind: Kind("repay")}, testUser, 1, now)
		assert.Error(t, err)
	})
}

func TestEnvelope_EncodeDecodeRoundTrip(t *testing.T) {
	builder := NewBuilder(testContract)
	envelope, err := builder.Build(SupplyRequest(testUser, testAsset, big.NewInt(1000000), true), testUser, 3, time.Unix(1700000000, 0))
	require.NoError(t, err)

	encoded, err := envelope.Encode()
	require.NoError(t, err)

	decoded, err := DecodeEnvelope(encoded)
	require.NoError(t, err)
	assert.Equal(t, envelope.SourceAccount, decoded.SourceAccount)
	assert.Equal(t, envelope.SequenceNumber, decoded.SequenceNumber)
	require.Len(t, decoded.Operations, 1)
	assert.Equal(t, "supply_to_blend", decoded.Operations[0].Method)
	assert.Equal(t, 0, decoded.Operations[0].Args[2].Num.Cmp(big.NewInt(1000000)))
	assert.True(t, decoded.Operations[0].Args[3].Flag)
}

func TestDecodeEnvelope_Garbage(t *testing.T) {
	_, err := DecodeEnvelope("not-base64!!")
	assert.Error(t, err)

	_, err = DecodeEnvelope("bm90IGpzb24=") // "not json"
	assert.Error(t, err)
}
