package rpc

import "fmt"

// TransportError is a network-level failure talking to the chain: a failed
// request, a non-200 response, or an undecodable body. Calls retry these up
// to the client's attempt budget before surfacing one.
type TransportError struct {
	Op     string // logical operation, e.g. "block_results"
	URL    string
	Status int // HTTP status, 0 when the request never completed
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("rpc %s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("rpc %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
