package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/ithoria-client/internal/gateway"
	"github.com/pixil98/ithoria-client/internal/protocol"
)

type GatewayConfig struct {
	Url           string `json:"url"`
	SubjectPrefix string `json:"subject_prefix,omitempty"`

	// Timeouts overrides the per-request-type defaults, keyed by request
	// type name
	Timeouts map[string]string `json:"timeouts,omitempty"`
}

func (c *GatewayConfig) Validate() error {
	el := errors.NewErrorList()

	if c.Url == "" {
		el.Add(fmt.Errorf("gateway url is required"))
	}

	for rt, raw := range c.Timeouts {
		if !protocol.RequestType(rt).Valid() {
			el.Add(fmt.Errorf("unknown request type %q in timeouts", rt))
		}
		if _, err := time.ParseDuration(raw); err != nil {
			el.Add(fmt.Errorf("parsing timeout for %s: %w", rt, err))
		}
	}

	return el.Err()
}

func (c *GatewayConfig) prefix() string {
	if c.SubjectPrefix != "" {
		return c.SubjectPrefix
	}
	return "ithoria"
}

func (c *GatewayConfig) BuildTransport(resolver gateway.Resolver) *gateway.NatsTransport {
	return gateway.NewNatsTransport(c.Url, c.prefix(), resolver)
}

func (c *GatewayConfig) BuildClient(correlator *gateway.Correlator, transport gateway.Transport) (*gateway.Client, error) {
	var opts []gateway.ClientOpt
	for rt, raw := range c.Timeouts {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing timeout for %s: %w", rt, err)
		}
		opts = append(opts, gateway.WithTimeout(protocol.RequestType(rt), d))
	}

	return gateway.NewClient(correlator, transport, opts...), nil
}
