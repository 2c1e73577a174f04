package jsonrpc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/verdantlabs/agora/pkg/errors"
)

func TestRequestIDRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"string id", `{"jsonrpc":"2.0","id":"abc","method":"tasks/send"}`, `"abc"`},
		{"number id", `{"jsonrpc":"2.0","id":42,"method":"tasks/send"}`, `42`},
		{"null id", `{"jsonrpc":"2.0","id":null,"method":"tasks/send"}`, `null`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var req Request
			require.NoError(t, json.Unmarshal([]byte(tc.raw), &req))
			assert.Equal(t, tc.want, string(req.ID))

			// The id must survive re-encoding byte for byte.
			out, err := json.Marshal(req)
			require.NoError(t, err)
			assert.Contains(t, string(out), `"id":`+tc.want)
		})
	}
}

func TestNewResponse(t *testing.T) {
	resp, err := NewResponse(json.RawMessage(`7`), map[string]string{"ok": "yes"})
	require.NoError(t, err)

	assert.Equal(t, Version, resp.JSONRPC)
	assert.Equal(t, `7`, string(resp.ID))
	assert.JSONEq(t, `{"ok":"yes"}`, string(resp.Result))
	assert.Nil(t, resp.Error)
}

func TestNewErrorResponseNormalisesNil(t *testing.T) {
	resp := NewErrorResponse(json.RawMessage(`"abc"`), nil)

	require.NotNil(t, resp.Error)
	assert.Equal(t, errors.ErrInternal.Code, resp.Error.Code)
}

func TestClientCall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer sekrit", r.Header.Get("Authorization"))

		var req Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, Version, req.JSONRPC)
		assert.Equal(t, "tasks/get", req.Method)
		assert.NotEmpty(t, req.ID)

		resp, err := NewResponse(req.ID, map[string]string{"id": "task-1"})
		require.NoError(t, err)
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	client := NewRPCClient(srv.URL)
	client.Token = "sekrit"

	var result map[string]string
	require.NoError(t, client.Call(context.Background(), "tasks/get", map[string]string{"id": "task-1"}, &result))
	assert.Equal(t, "task-1", result["id"])
}

func TestClientCallEnvelopeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		json.NewEncoder(w).Encode(NewErrorResponse(req.ID, errors.ErrTaskNotFound))
	}))
	defer srv.Close()

	client := NewRPCClient(srv.URL)

	err := client.Call(context.Background(), "tasks/get", nil, nil)
	require.Error(t, err)

	rpcErr, ok := AsRpcError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrTaskNotFound.Code, rpcErr.Code)
}

func TestClientCallUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewRPCClient(srv.URL)

	err := client.Call(context.Background(), "tasks/send", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unauthorized")
}
