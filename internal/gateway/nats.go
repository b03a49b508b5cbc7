package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/pixil98/ithoria-client/internal/protocol"
)

// NatsTransport is the production Transport. Requests go out on
// <prefix>.req.<type> with this client's inbox as the reply subject;
// responses come back on the inbox and are handed to the resolver.
//
// The connection's own request/reply helper is not used: correlation and
// timeout semantics belong to the Correlator, which also covers servers
// that answer from a different connection than the one that received the
// request.
type NatsTransport struct {
	url      string
	prefix   string
	inbox    string
	resolver Resolver

	mu    sync.RWMutex
	conn  *nats.Conn
	ready chan struct{}
}

type NatsTransportOpt func(*NatsTransport)

// WithInbox overrides the generated inbox subject.
func WithInbox(subject string) NatsTransportOpt {
	return func(t *NatsTransport) {
		t.inbox = subject
	}
}

func NewNatsTransport(url, prefix string, resolver Resolver, opts ...NatsTransportOpt) *NatsTransport {
	t := &NatsTransport{
		url:      url,
		prefix:   prefix,
		inbox:    fmt.Sprintf("%s.client.%s", prefix, uuid.New().String()),
		resolver: resolver,
		ready:    make(chan struct{}),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

func (t *NatsTransport) Start(ctx context.Context) error {
	conn, err := nats.Connect(t.url)
	if err != nil {
		return fmt.Errorf("connecting to gateway: %w", err)
	}

	sub, err := conn.Subscribe(t.inbox, t.handleResponse)
	if err != nil {
		conn.Close()
		return fmt.Errorf("subscribing to inbox: %w", err)
	}

	t.mu.Lock()
	t.conn = conn
	t.mu.Unlock()
	close(t.ready)

	slog.InfoContext(ctx, "gateway transport connected", "url", t.url, "inbox", t.inbox)

	<-ctx.Done()

	if err := sub.Unsubscribe(); err != nil {
		slog.WarnContext(ctx, "unsubscribing inbox", "error", err)
	}
	conn.Close()

	return nil
}

// WaitReady blocks until the transport has connected or ctx is done.
func (t *NatsTransport) WaitReady(ctx context.Context) error {
	select {
	case <-t.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *NatsTransport) Send(_ context.Context, req *protocol.Request) error {
	conn := t.connection()
	if conn == nil {
		return ErrNotConnected
	}

	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshalling request: %w", err)
	}

	return conn.PublishMsg(&nats.Msg{
		Subject: fmt.Sprintf("%s.req.%s", t.prefix, req.Type),
		Reply:   t.inbox,
		Data:    data,
	})
}

func (t *NatsTransport) Notify(_ context.Context, n *protocol.Notice) error {
	conn := t.connection()
	if conn == nil {
		return ErrNotConnected
	}

	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshalling notice: %w", err)
	}

	return conn.Publish(fmt.Sprintf("%s.notice.%s", t.prefix, n.Type), data)
}

func (t *NatsTransport) handleResponse(msg *nats.Msg) {
	var resp protocol.Response
	if err := json.Unmarshal(msg.Data, &resp); err != nil {
		slog.Warn("dropping malformed response", "error", err)
		return
	}

	if !t.resolver.Resolve(resp.CorrelationId, &resp) {
		slog.Debug("discarding late response", "type", resp.Type, "correlation_id", resp.CorrelationId)
	}
}

func (t *NatsTransport) connection() *nats.Conn {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.conn
}
