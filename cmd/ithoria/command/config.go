package command

import (
	"fmt"

	"github.com/pixil98/go-errors"
)

type Config struct {
	Account AccountConfig `json:"account"`
	Gateway GatewayConfig `json:"gateway"`
	Zones   ZonesConfig   `json:"zones"`
	Session SessionConfig `json:"session"`
	Metrics MetricsConfig `json:"metrics"`
}

func (c *Config) Validate() error {
	el := errors.NewErrorList()

	el.Add(c.Account.Validate())
	el.Add(c.Gateway.Validate())
	el.Add(c.Zones.Validate())
	el.Add(c.Session.Validate())
	el.Add(c.Metrics.Validate())

	return el.Err()
}

type AccountConfig struct {
	Name     string `json:"name"`
	Password string `json:"password"`

	// Character picks which character to enter with; empty takes the
	// first on the account
	Character string `json:"character,omitempty"`
}

func (c *AccountConfig) Validate() error {
	el := errors.NewErrorList()

	if c.Name == "" {
		el.Add(fmt.Errorf("account name is required"))
	}
	if c.Password == "" {
		el.Add(fmt.Errorf("account password is required"))
	}

	return el.Err()
}
