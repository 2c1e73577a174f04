package catalog

import "fmt"

// RegistrationError means the catalog answered but refused the card.
type RegistrationError struct {
	AgentName  string
	StatusCode int
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("catalog refused registration of %s (status %d)", e.AgentName, e.StatusCode)
}

// ConnectionError wraps a transport failure talking to the catalog.
type ConnectionError struct {
	Op  string
	Err error
}

func (e *ConnectionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("catalog %s: %v", e.Op, e.Err)
	}

	return fmt.Sprintf("catalog %s failed", e.Op)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// DecodingError means the catalog's payload was not what we expected.
type DecodingError struct {
	What string
	Err  error
}

func (e *DecodingError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.What, e.Err)
}

func (e *DecodingError) Unwrap() error {
	return e.Err
}

// NotFoundError means the catalog has no card under the requested name.
type NotFoundError struct {
	AgentName string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("agent not found: %s", e.AgentName)
}
