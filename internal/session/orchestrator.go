// Package session takes a logged-in account all the way into the world and
// keeps it there. The orchestrator owns the zone transition sequence; the
// session worker wraps it with login, character selection, and presence.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/ithoria-client/internal/metrics"
	"github.com/pixil98/ithoria-client/internal/protocol"
	"github.com/pixil98/ithoria-client/internal/storage"
	"github.com/pixil98/ithoria-client/internal/zone"
)

// Phase labels the steps of a zone transition, mostly for logging and tests.
type Phase string

const (
	PhaseZoneInfo    Phase = "zone_info"
	PhasePrepare     Phase = "prepare"
	PhaseUnloadStale Phase = "unload_stale"
	PhaseLoadTarget  Phase = "load_target"
	PhaseDone        Phase = "done"
	PhaseFailed      Phase = "failed"
)

// Orchestrator sequences a character's entry into a zone: ask the server
// where the character belongs, have the server prepare that zone, drop
// whatever is resident locally, load the target, and resolve a spawn point.
type Orchestrator struct {
	gw    Gateway
	zones *zone.Registry
	specs storage.Storer[*zone.Spec]

	defaultZone      string
	waypointAttempts int
	waypointBackoff  time.Duration
	phaseHook        func(Phase)
}

type OrchestratorOpt func(*Orchestrator)

// WithZoneSpecs lets spawn resolution consult zone descriptors for their
// default waypoint.
func WithZoneSpecs(specs storage.Storer[*zone.Spec]) OrchestratorOpt {
	return func(o *Orchestrator) {
		o.specs = specs
	}
}

func WithWaypointRetry(attempts int, backoff time.Duration) OrchestratorOpt {
	return func(o *Orchestrator) {
		o.waypointAttempts = attempts
		o.waypointBackoff = backoff
	}
}

// WithPhaseHook registers a callback invoked as each phase begins.
func WithPhaseHook(fn func(Phase)) OrchestratorOpt {
	return func(o *Orchestrator) {
		o.phaseHook = fn
	}
}

func NewOrchestrator(gw Gateway, zones *zone.Registry, defaultZone string, opts ...OrchestratorOpt) *Orchestrator {
	o := &Orchestrator{
		gw:               gw,
		zones:            zones,
		defaultZone:      defaultZone,
		waypointAttempts: 3,
		waypointBackoff:  2 * time.Second,
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// EnterResult describes where a character ended up after EnterZone.
type EnterResult struct {
	Zone              string
	Spawn             protocol.Position
	SpawnFromWaypoint bool
	SpawnSuspect      bool
}

// EnterZone moves a character into its zone. On a hard failure it returns a
// nil result. When only stale zones failed to unload it returns both the
// result and an error: the character is in the world, but content that
// should be gone is still resident.
func (o *Orchestrator) EnterZone(ctx context.Context, character protocol.CharacterSummary) (*EnterResult, error) {
	log := slog.With("character", character.Id)

	o.phase(PhaseZoneInfo)
	info, err := o.gw.PlayerZoneInfo(ctx, character.Id)
	if err != nil {
		log.WarnContext(ctx, "zone info unavailable, entering default zone", "error", err)
		info = &protocol.ZoneInfo{Zone: o.defaultZone, UseWaypoint: true}
	}
	if info.Zone == "" {
		info.Zone = o.defaultZone
	}
	target := info.Zone

	o.phase(PhasePrepare)
	prep, err := o.gw.ServerZoneLoad(ctx, character.Id, target)
	if err != nil {
		return nil, o.fail(fmt.Errorf("preparing zone %s: %w", target, err))
	}
	if !prep.Ready {
		return nil, o.fail(fmt.Errorf("server declined to prepare zone %s", target))
	}

	if err := o.zones.CheckTarget(target); err != nil {
		return nil, o.fail(fmt.Errorf("validating target zone: %w", err))
	}

	o.phase(PhaseUnloadStale)
	el := errors.NewErrorList()
	for _, name := range o.zones.StaleZones(target) {
		if err := o.zones.UnloadZone(ctx, name); err != nil {
			log.WarnContext(ctx, "stale zone unload failed", "zone", name, "error", err)
			el.Add(fmt.Errorf("unloading %s: %w", name, err))
		}
	}

	o.phase(PhaseLoadTarget)
	if err := o.zones.LoadZone(ctx, target); err != nil {
		el.Add(fmt.Errorf("loading %s: %w", target, err))
		return nil, o.fail(el.Err())
	}

	spawn := o.resolveSpawn(ctx, info)
	if spawn.suspect {
		log.WarnContext(ctx, "spawn position is the world origin", "zone", target)
	}

	res := &EnterResult{
		Zone:              target,
		Spawn:             spawn.pos,
		SpawnFromWaypoint: spawn.fromWaypoint,
		SpawnSuspect:      spawn.suspect,
	}

	// The target is resident either way, so the server hears about it
	// even when stale content lingers.
	if err := o.gw.ConfirmZoneEntered(ctx, character.Id, target, true); err != nil {
		log.WarnContext(ctx, "confirming zone entry", "error", err)
	}

	if err := el.Err(); err != nil {
		o.phase(PhaseFailed)
		metrics.CountTransition("degraded")
		return res, fmt.Errorf("entered %s with stale zones resident: %w", target, err)
	}

	o.phase(PhaseDone)
	metrics.CountTransition("ok")
	log.InfoContext(ctx, "entered zone",
		"zone", target,
		"spawn", spawn.pos.String(),
		"from_waypoint", spawn.fromWaypoint,
	)
	return res, nil
}

func (o *Orchestrator) fail(err error) error {
	o.phase(PhaseFailed)
	metrics.CountTransition("failed")
	return err
}

func (o *Orchestrator) phase(p Phase) {
	if o.phaseHook != nil {
		o.phaseHook(p)
	}
}
