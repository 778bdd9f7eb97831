package gateway

import "fmt"

// NetworkError covers a rejected request or an undecodable non-2xx
// response. The raw error is logged by the caller, never shown to the
// user as the sole message.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// BusinessRuleError is a rule violation reported by the store in its
// response envelope (insufficient stock, invalid transition, ...). Its
// message is surfaced to the user verbatim.
type BusinessRuleError struct {
	Message string
}

func (e *BusinessRuleError) Error() string {
	return e.Message
}
