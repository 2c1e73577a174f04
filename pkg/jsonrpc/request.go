package jsonrpc

import "encoding/json"

// Request is the wire-level JSON-RPC 2.0 request envelope.  ID and Params
// stay raw so that string, number and null identifiers all survive a
// round-trip unchanged.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"` // accepts string | number | null
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// NewRequest builds a request for the given method with marshalled params.
func NewRequest(id any, method string, params any) (Request, error) {
	req := Request{
		JSONRPC: Version,
		Method:  method,
	}

	if id != nil {
		b, err := json.Marshal(id)
		if err != nil {
			return Request{}, err
		}
		req.ID = b
	}

	if params != nil {
		b, err := json.Marshal(params)
		if err != nil {
			return Request{}, err
		}
		req.Params = b
	}

	return req, nil
}
