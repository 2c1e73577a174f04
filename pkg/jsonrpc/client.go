package jsonrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/verdantlabs/agora/pkg/errors"
)

// DefaultCallTimeout bounds every outbound RPC.  A hop that has not answered
// by then is treated as failed, never waited on indefinitely.
const DefaultCallTimeout = 30 * time.Second

// RPCClient performs JSON-RPC 2.0 calls over HTTP POST.
type RPCClient struct {
	URL    string
	Client *http.Client

	// Token, when set, is sent as a bearer credential on every call.  The
	// discovery endpoints never require it.
	Token string
}

func NewRPCClient(url string) *RPCClient {
	return &RPCClient{
		URL: url,
		Client: &http.Client{
			Timeout: DefaultCallTimeout,
		},
	}
}

// Call issues a single request/response round-trip.  A fresh uuid request id
// is generated per call; the server must echo it unchanged.  Errors carried
// inside the envelope come back as *errors.RpcError so callers can tell a
// protocol failure apart from a transport one.
func (c *RPCClient) Call(
	ctx context.Context,
	method string,
	params any,
	result any,
) error {
	if c.Client == nil {
		c.Client = http.DefaultClient
	}

	payload, err := NewRequest(uuid.NewString(), method, params)

	if err != nil {
		return err
	}

	body, err := json.Marshal(payload)

	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))

	if err != nil {
		return err
	}

	httpReq.Header.Set("Content-Type", "application/json")

	if c.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.Client.Do(httpReq)

	if err != nil {
		return err
	}

	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("unauthorized: invalid or expired token")
	}

	var rpcResp Response

	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return err
	}

	if rpcResp.Error != nil {
		return rpcResp.Error
	}

	if result != nil && len(rpcResp.Result) > 0 {
		if err := json.Unmarshal(rpcResp.Result, result); err != nil {
			return err
		}
	}

	return nil
}

// AsRpcError unwraps err into an *errors.RpcError when the failure came from
// the remote envelope rather than the transport.
func AsRpcError(err error) (*errors.RpcError, bool) {
	rpcErr, ok := err.(*errors.RpcError)
	return rpcErr, ok
}
