package gateway

import (
	"context"

	"github.com/pixil98/ithoria-client/internal/protocol"
)

// Transport carries envelopes to the gateway server. Send publishes a
// correlated request; Notify publishes a one-way notice nobody answers.
type Transport interface {
	Send(ctx context.Context, req *protocol.Request) error
	Notify(ctx context.Context, n *protocol.Notice) error
}

// Resolver matches inbound responses to their waiting calls.
type Resolver interface {
	Resolve(correlationId string, resp *protocol.Response) bool
}
