package command

import (
	"github.com/pixil98/ithoria-client/internal/metrics"
)

type MetricsConfig struct {
	// Port 0 disables the metrics endpoint
	Port uint16 `json:"port,omitempty"`
}

func (c *MetricsConfig) Validate() error {
	return nil
}

func (c *MetricsConfig) BuildServer() *metrics.Server {
	if c.Port == 0 {
		return nil
	}
	return metrics.NewServer(c.Port)
}
