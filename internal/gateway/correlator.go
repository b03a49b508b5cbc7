// Package gateway talks to the authoritative Ithoria server. Requests are
// published fire-and-forget; the Correlator pairs each one with the
// asynchronous response carrying the same correlation id, or with a
// timeout when no response arrives.
package gateway

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pixil98/ithoria-client/internal/metrics"
	"github.com/pixil98/ithoria-client/internal/protocol"
)

// SendFunc publishes the request identified by correlationId. The
// Correlator registers the id before invoking it, so a response cannot
// outrun its pending entry.
type SendFunc func(correlationId string) error

type Correlator struct {
	mu      sync.Mutex
	pending map[string]*pendingCall
}

type pendingCall struct {
	reqType protocol.RequestType
	ch      chan *protocol.Response
}

func NewCorrelator() *Correlator {
	return &Correlator{
		pending: map[string]*pendingCall{},
	}
}

// Call runs one correlated round trip: register a fresh id, publish
// through send, then wait for the response, the timeout, or ctx. Every id
// is unique per call, so concurrent calls of the same request type cannot
// claim each other's responses. Exactly one of response and timeout
// consumes the pending entry.
func (c *Correlator) Call(ctx context.Context, rt protocol.RequestType, timeout time.Duration, send SendFunc) (*protocol.Response, error) {
	id := uuid.New().String()
	call := &pendingCall{
		reqType: rt,
		ch:      make(chan *protocol.Response, 1),
	}

	c.mu.Lock()
	c.pending[id] = call
	c.mu.Unlock()

	started := time.Now()

	if err := send(id); err != nil {
		c.take(id)
		metrics.ObserveRequest(rt.String(), "send_error", time.Since(started))
		return nil, fmt.Errorf("sending %s request: %w", rt, err)
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case resp := <-call.ch:
		metrics.ObserveRequest(rt.String(), resolveOutcome(resp), time.Since(started))
		return resp, nil

	case <-timer.C:
		if !c.take(id) {
			// A resolve claimed the call between the timer firing and the
			// table cleanup; its response wins.
			resp := <-call.ch
			metrics.ObserveRequest(rt.String(), resolveOutcome(resp), time.Since(started))
			return resp, nil
		}
		metrics.ObserveRequest(rt.String(), "timeout", time.Since(started))
		return nil, fmt.Errorf("awaiting %s response: %w after %s", rt, ErrTimeout, timeout)

	case <-ctx.Done():
		if !c.take(id) {
			resp := <-call.ch
			metrics.ObserveRequest(rt.String(), resolveOutcome(resp), time.Since(started))
			return resp, nil
		}
		metrics.ObserveRequest(rt.String(), "canceled", time.Since(started))
		return nil, ctx.Err()
	}
}

// Resolve hands a response to its waiting call. It reports false when no
// call with that id is pending anymore: already resolved, timed out, or
// never ours. Callers drop such responses.
func (c *Correlator) Resolve(correlationId string, resp *protocol.Response) bool {
	c.mu.Lock()
	call, ok := c.pending[correlationId]
	if ok {
		delete(c.pending, correlationId)
	}
	c.mu.Unlock()

	if !ok {
		return false
	}

	call.ch <- resp
	return true
}

// Pending reports how many calls are currently awaiting responses.
func (c *Correlator) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// take removes the pending entry for id, reporting whether the caller
// owned it. A false return means a concurrent Resolve won the entry and
// has delivered (or is about to deliver) its response.
func (c *Correlator) take(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.pending[id]; !ok {
		return false
	}
	delete(c.pending, id)
	return true
}

func resolveOutcome(resp *protocol.Response) string {
	if resp.Success {
		return "ok"
	}
	return "failed"
}
