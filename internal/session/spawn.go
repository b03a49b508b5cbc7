package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/pixil98/ithoria-client/internal/protocol"
	"github.com/pixil98/ithoria-client/internal/storage"
)

// fallbackWaypoint is asked for when neither the server nor the zone
// descriptor names one.
const fallbackWaypoint = "default"

type spawnPoint struct {
	pos          protocol.Position
	fromWaypoint bool
	suspect      bool
}

// resolveSpawn picks where the character appears. A persisted position wins
// unless the server asked for a waypoint. Waypoint lookups are retried, and
// every failure path degrades to the world origin rather than blocking
// entry. An origin result is always marked suspect so callers can surface
// it.
func (o *Orchestrator) resolveSpawn(ctx context.Context, info *protocol.ZoneInfo) spawnPoint {
	if info.Position != nil && !info.UseWaypoint {
		pos := *info.Position
		return spawnPoint{pos: pos, suspect: pos.IsOrigin()}
	}

	name := info.Waypoint
	if name == "" {
		name = o.defaultWaypoint(info.Zone)
	}

	for attempt := 1; attempt <= o.waypointAttempts; attempt++ {
		wp, err := o.gw.Waypoint(ctx, info.Zone, name)
		if err == nil {
			return spawnPoint{pos: wp.Position, fromWaypoint: true, suspect: wp.Position.IsOrigin()}
		}

		slog.WarnContext(ctx, "waypoint lookup failed",
			"zone", info.Zone,
			"waypoint", name,
			"attempt", attempt,
			"error", err,
		)

		if attempt == o.waypointAttempts {
			break
		}
		select {
		case <-time.After(o.waypointBackoff):
		case <-ctx.Done():
			return spawnPoint{suspect: true}
		}
	}

	return spawnPoint{suspect: true}
}

func (o *Orchestrator) defaultWaypoint(zoneName string) string {
	if o.specs != nil {
		if spec, ok := o.specs.Lookup(storage.Identifier(zoneName)); ok && spec.DefaultWaypoint != "" {
			return spec.DefaultWaypoint
		}
	}
	return fallbackWaypoint
}
