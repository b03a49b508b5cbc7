package command

import (
	"fmt"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/ithoria-client/internal/session"
	"github.com/pixil98/ithoria-client/internal/storage"
	"github.com/pixil98/ithoria-client/internal/zone"
)

type SessionConfig struct {
	// DefaultZone is entered when the server has no zone on record for
	// the character
	DefaultZone string `json:"default_zone"`

	KeepaliveInterval string `json:"keepalive_interval,omitempty"`
	WaypointAttempts  int    `json:"waypoint_attempts,omitempty"`
	WaypointBackoff   string `json:"waypoint_backoff,omitempty"`
}

func (c *SessionConfig) Validate() error {
	el := errors.NewErrorList()

	if c.DefaultZone == "" {
		el.Add(fmt.Errorf("default_zone is required"))
	}
	if c.WaypointAttempts < 0 {
		el.Add(fmt.Errorf("waypoint_attempts must not be negative"))
	}
	for name, raw := range map[string]string{
		"keepalive_interval": c.KeepaliveInterval,
		"waypoint_backoff":   c.WaypointBackoff,
	} {
		if raw == "" {
			continue
		}
		if _, err := time.ParseDuration(raw); err != nil {
			el.Add(fmt.Errorf("parsing %s: %w", name, err))
		}
	}

	return el.Err()
}

func (c *SessionConfig) BuildOrchestrator(gw session.Gateway, registry *zone.Registry, specs storage.Storer[*zone.Spec]) (*session.Orchestrator, error) {
	opts := []session.OrchestratorOpt{session.WithZoneSpecs(specs)}

	if c.WaypointAttempts > 0 || c.WaypointBackoff != "" {
		attempts := c.WaypointAttempts
		if attempts == 0 {
			attempts = 3
		}
		backoff := 2 * time.Second
		if c.WaypointBackoff != "" {
			d, err := time.ParseDuration(c.WaypointBackoff)
			if err != nil {
				return nil, fmt.Errorf("parsing waypoint_backoff: %w", err)
			}
			backoff = d
		}
		opts = append(opts, session.WithWaypointRetry(attempts, backoff))
	}

	return session.NewOrchestrator(gw, registry, c.DefaultZone, opts...), nil
}

func (c *SessionConfig) BuildSession(gw session.Gateway, orch *session.Orchestrator, account AccountConfig, opts ...session.SessionOpt) (*session.Session, error) {
	if account.Character != "" {
		opts = append(opts, session.WithCharacter(account.Character))
	}
	if c.KeepaliveInterval != "" {
		d, err := time.ParseDuration(c.KeepaliveInterval)
		if err != nil {
			return nil, fmt.Errorf("parsing keepalive_interval: %w", err)
		}
		opts = append(opts, session.WithKeepalive(d))
	}

	return session.NewSession(gw, orch, account.Name, account.Password, opts...), nil
}
