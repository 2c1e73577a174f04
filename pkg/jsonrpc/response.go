package jsonrpc

import (
	"encoding/json"

	"github.com/verdantlabs/agora/pkg/errors"
)

// Version is the only protocol version this package speaks.
const Version = "2.0"

// Response is the wire-level JSON-RPC 2.0 response envelope.  Result is kept
// raw on the way in so callers can unmarshal into their own types.
type Response struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      json.RawMessage  `json:"id"`
	Result  json.RawMessage  `json:"result,omitempty"`
	Error   *errors.RpcError `json:"error,omitempty"`
}

// NewResponse wraps a result value for the given request id.
func NewResponse(id json.RawMessage, result any) (Response, error) {
	b, err := json.Marshal(result)
	if err != nil {
		return Response{}, err
	}

	return Response{
		JSONRPC: Version,
		ID:      id,
		Result:  b,
	}, nil
}

// NewErrorResponse wraps an RpcError for the given request id.  A nil error
// is normalised to ErrInternal so Code/Message are always present, and a nil
// id becomes an explicit null as JSON-RPC requires for unparsable requests.
func NewErrorResponse(id json.RawMessage, e *errors.RpcError) Response {
	if e == nil {
		e = errors.ErrInternal
	}

	if id == nil {
		id = json.RawMessage("null")
	}

	return Response{
		JSONRPC: Version,
		ID:      id,
		Error:   e,
	}
}
