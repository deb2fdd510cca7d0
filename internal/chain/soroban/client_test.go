package soroban_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellarhub/defihub/internal/chain/soroban"
	"github.com/stellarhub/defihub/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New("development", io.Discard)
}

type rpcCall struct {
	JSONRPC string            `json:"jsonrpc"`
	Method  string            `json:"method"`
	Params  map[string]string `json:"params"`
}

func rpcServer(t *testing.T, handle func(call rpcCall) (interface{}, *soroban.RPCError)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var call rpcCall
		require.NoError(t, json.NewDecoder(r.Body).Decode(&call))
		assert.Equal(t, "2.0", call.JSONRPC)

		result, rpcErr := handle(call)
		resp := map[string]interface{}{"jsonrpc": "2.0", "id": 1}
		if rpcErr != nil {
			resp["error"] = rpcErr
		} else {
			resp["result"] = result
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestClient_GetAccount(t *testing.T) {
	server := rpcServer(t, func(call rpcCall) (interface{}, *soroban.RPCError) {
		assert.Equal(t, "getAccount", call.Method)
		assert.Equal(t, "GABC", call.Params["address"])
		return map[string]interface{}{
			"address":        "GABC",
			"sequenceNumber": "123456789",
		}, nil
	})
	defer server.Close()

	client := soroban.NewClient(server.URL, testLogger())
	account, err := client.GetAccount(context.Background(), "GABC")
	require.NoError(t, err)
	assert.Equal(t, "GABC", account.Address)
	assert.Equal(t, int64(123456789), account.SequenceNumber)
}

func TestClient_SimulateTransaction_Failure(t *testing.T) {
	server := rpcServer(t, func(call rpcCall) (interface{}, *soroban.RPCError) {
		assert.Equal(t, "simulateTransaction", call.Method)
		assert.Equal(t, "AAAA-envelope", call.Params["transaction"])
		return map[string]interface{}{
			"error": "HostError: Error(Contract, #6) insufficient collateral",
		}, nil
	})
	defer server.Close()

	client := soroban.NewClient(server.URL, testLogger())
	sim, err := client.SimulateTransaction(context.Background(), "AAAA-envelope")
	require.NoError(t, err)
	assert.True(t, sim.Failed())
	assert.Contains(t, sim.Error, "insufficient collateral")
}

func TestClient_SendTransaction(t *testing.T) {
	server := rpcServer(t, func(call rpcCall) (interface{}, *soroban.RPCError) {
		assert.Equal(t, "sendTransaction", call.Method)
		return map[string]interface{}{
			"status": "PENDING",
			"hash":   "deadbeef",
		}, nil
	})
	defer server.Close()

	client := soroban.NewClient(server.URL, testLogger())
	send, err := client.SendTransaction(context.Background(), "signed-blob")
	require.NoError(t, err)
	assert.Equal(t, soroban.SendStatusPending, send.Status)
	assert.Equal(t, "deadbeef", send.Hash)
}

func TestClient_GetTransaction_Failed(t *testing.T) {
	server := rpcServer(t, func(call rpcCall) (interface{}, *soroban.RPCError) {
		assert.Equal(t, "getTransaction", call.Method)
		assert.Equal(t, "deadbeef", call.Params["hash"])
		return map[string]interface{}{
			"status":        "FAILED",
			"txHash":        "deadbeef",
			"resultMetaXdr": "meta-blob",
		}, nil
	})
	defer server.Close()

	client := soroban.NewClient(server.URL, testLogger())
	tx, err := client.GetTransaction(context.Background(), "deadbeef")
	require.NoError(t, err)
	assert.Equal(t, soroban.TxStatusFailed, tx.Status)
	assert.Equal(t, "meta-blob", tx.ResultMeta)
}

func TestClient_RPCError(t *testing.T) {
	server := rpcServer(t, func(call rpcCall) (interface{}, *soroban.RPCError) {
		return nil, &soroban.RPCError{Code: -32602, Message: "invalid params"}
	})
	defer server.Close()

	client := soroban.NewClient(server.URL, testLogger())
	_, err := client.GetAccount(context.Background(), "GABC")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid params")
}

func TestClient_RateLimitRetry(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"jsonrpc": "2.0", "id": 1,
			"result": map[string]interface{}{"address": "GABC", "sequenceNumber": "1"},
		})
	}))
	defer server.Close()

	client := soroban.NewClient(server.URL, testLogger())
	account, err := client.GetAccount(context.Background(), "GABC")
	require.NoError(t, err)
	assert.Equal(t, int64(1), account.SequenceNumber)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}
