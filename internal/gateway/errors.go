package gateway

import (
	"errors"
	"fmt"

	"github.com/pixil98/ithoria-client/internal/protocol"
)

var (
	ErrTimeout      = errors.New("request timed out")
	ErrNotConnected = errors.New("transport not connected")
)

// CallError is a failure the server reported in a response envelope, as
// opposed to a transport or timeout failure on our side.
type CallError struct {
	Type    protocol.RequestType
	Message string
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s request failed: %s", e.Type, e.Message)
}
