package zone

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/ithoria-client/internal/metrics"
)

type Op string

const (
	OpLoad   Op = "load"
	OpUnload Op = "unload"
)

// OpEvent describes a completed load or unload.
type OpEvent struct {
	Zone string
	Op   Op
	Took time.Duration
}

type StateChangeFunc func(zone string, loaded bool)
type OpCompleteFunc func(OpEvent)

// Registry is the authoritative map of zone lifecycle state. All loading
// and unloading funnels through it so the rest of the client can trust two
// things: a zone is in exactly one state at a time, and at most one
// operation per zone is in flight.
//
// Two names are reserved. Protected zones (ZonePersistent by default) are
// rejected by every mutating operation. The front end zone may be unloaded
// like any other, but never registered, loaded, or targeted; its content is
// mounted by the engine boot path before the registry exists, so its
// initial state is adopted from the loader.
type Registry struct {
	loader ContentLoader

	mu    sync.Mutex
	zones map[string]State
	ops   map[string]*operation

	protected map[string]bool
	frontEnd  string

	subMu     sync.Mutex
	nextSubId int
	stateSubs map[int]StateChangeFunc
	opSubs    map[int]OpCompleteFunc
}

type operation struct {
	op      Op
	started time.Time
	done    chan struct{}
	err     error
}

type RegistryOpt func(*Registry)

// WithProtectedZones marks additional names as protected.
func WithProtectedZones(names ...string) RegistryOpt {
	return func(r *Registry) {
		for _, n := range names {
			r.protected[n] = true
		}
	}
}

// WithFrontEndZone overrides the reserved front end name.
func WithFrontEndZone(name string) RegistryOpt {
	return func(r *Registry) {
		r.frontEnd = name
	}
}

func NewRegistry(loader ContentLoader, opts ...RegistryOpt) *Registry {
	r := &Registry{
		loader:    loader,
		zones:     map[string]State{},
		ops:       map[string]*operation{},
		protected: map[string]bool{ZonePersistent: true},
		frontEnd:  ZoneMainMenu,
		stateSubs: map[int]StateChangeFunc{},
		opSubs:    map[int]OpCompleteFunc{},
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.frontEnd != "" {
		st := StateUnloaded
		if loader.IsLoaded(r.frontEnd) {
			st = StateLoaded
		}
		r.zones[r.frontEnd] = st
	}

	return r
}

// RegisterZone introduces a zone to the registry. The initial state is
// adopted from the loader so content mounted before registration is not
// reported as unloaded.
func (r *Registry) RegisterZone(name string) error {
	if name == "" {
		return fmt.Errorf("zone name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.protected[name] {
		slog.Warn("rejecting registration of protected zone", "zone", name)
		return ErrZoneProtected
	}
	if name == r.frontEnd {
		slog.Warn("rejecting registration of front end zone", "zone", name)
		return ErrZoneReserved
	}
	if _, ok := r.zones[name]; ok {
		return fmt.Errorf("%w: %s", ErrZoneExists, name)
	}

	st := StateUnloaded
	if r.loader.IsLoaded(name) {
		st = StateLoaded
	}
	r.zones[name] = st

	slog.Debug("zone registered", "zone", name, "state", st)
	return nil
}

// LoadZone brings a zone's content resident and blocks until the load
// finishes, fails, or ctx is done. Cancelling ctx abandons the wait only;
// the operation itself runs to completion and the state machine settles
// either way. Loading an already loaded zone is a no-op.
func (r *Registry) LoadZone(ctx context.Context, name string) error {
	op, err := r.begin(name, OpLoad)
	if err != nil || op == nil {
		return err
	}
	return r.wait(ctx, op)
}

// UnloadZone releases a zone's content. Semantics mirror LoadZone;
// unloading an already unloaded zone is a no-op.
func (r *Registry) UnloadZone(ctx context.Context, name string) error {
	op, err := r.begin(name, OpUnload)
	if err != nil || op == nil {
		return err
	}
	return r.wait(ctx, op)
}

// begin validates the request and starts the loader operation. A nil
// operation with nil error means the zone is already in the requested
// state.
func (r *Registry) begin(name string, kind Op) (*operation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.protected[name] {
		slog.Warn("rejecting operation on protected zone", "zone", name, "op", kind)
		return nil, ErrZoneProtected
	}
	if kind == OpLoad && name == r.frontEnd {
		slog.Warn("rejecting load of front end zone", "zone", name)
		return nil, ErrZoneReserved
	}

	st, ok := r.zones[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownZone, name)
	}
	if _, busy := r.ops[name]; busy {
		return nil, fmt.Errorf("%w: %s", ErrOperationInFlight, name)
	}

	if kind == OpLoad && st == StateLoaded {
		return nil, nil
	}
	if kind == OpUnload && st == StateUnloaded {
		return nil, nil
	}

	op := &operation{
		op:      kind,
		started: time.Now(),
		done:    make(chan struct{}),
	}
	r.ops[name] = op

	var h Handle
	if kind == OpLoad {
		r.zones[name] = StateLoading
		h = r.loader.BeginLoad(name)
	} else {
		r.zones[name] = StateUnloading
		h = r.loader.BeginUnload(name)
	}

	go r.finalize(name, op, h)

	return op, nil
}

// finalize settles the state machine once the loader reports in. It runs
// regardless of whether the initiating caller is still waiting.
func (r *Registry) finalize(name string, op *operation, h Handle) {
	<-h.Done()
	err := h.Err()

	r.mu.Lock()
	switch {
	case err != nil && op.op == OpLoad:
		r.zones[name] = StateUnloaded
	case err != nil && op.op == OpUnload:
		r.zones[name] = StateLoaded
	case op.op == OpLoad:
		r.zones[name] = StateLoaded
	default:
		r.zones[name] = StateUnloaded
	}
	delete(r.ops, name)
	r.mu.Unlock()

	op.err = err
	close(op.done)

	took := time.Since(op.started)
	if err != nil {
		slog.Warn("zone operation failed", "zone", name, "op", op.op, "took", took, "error", err)
		metrics.ObserveZoneOp(string(op.op), "error", took)
		return
	}

	slog.Info("zone operation complete", "zone", name, "op", op.op, "took", took)
	metrics.ObserveZoneOp(string(op.op), "ok", took)

	r.notifyStateChange(name, op.op == OpLoad)
	r.notifyOpComplete(OpEvent{Zone: name, Op: op.op, Took: took})
}

func (r *Registry) wait(ctx context.Context, op *operation) error {
	select {
	case <-op.done:
		return op.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TransitionToZone unloads every stale zone and loads the target. Stale
// unload failures are collected rather than aborting, so the target load
// always gets its chance; the returned error aggregates everything that
// went wrong.
func (r *Registry) TransitionToZone(ctx context.Context, target string) error {
	if err := r.CheckTarget(target); err != nil {
		return err
	}

	el := errors.NewErrorList()

	for _, name := range r.StaleZones(target) {
		if ctx.Err() != nil {
			el.Add(ctx.Err())
			return el.Err()
		}
		if err := r.UnloadZone(ctx, name); err != nil {
			el.Add(fmt.Errorf("unloading %s: %w", name, err))
		}
	}

	if err := r.LoadZone(ctx, target); err != nil {
		el.Add(fmt.Errorf("loading %s: %w", target, err))
	}

	return el.Err()
}

// CheckTarget reports whether name may be the destination of a transition
// or load.
func (r *Registry) CheckTarget(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.protected[name] {
		slog.Warn("rejecting protected zone as transition target", "zone", name)
		return ErrZoneProtected
	}
	if name == r.frontEnd {
		slog.Warn("rejecting front end zone as transition target", "zone", name)
		return ErrZoneReserved
	}
	if _, ok := r.zones[name]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownZone, name)
	}
	return nil
}

// StaleZones lists the loaded zones a transition to target would unload:
// everything loaded except the target and protected zones. The front end
// is included.
func (r *Registry) StaleZones(target string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var stale []string
	for name, st := range r.zones {
		if st != StateLoaded || name == target || r.protected[name] {
			continue
		}
		stale = append(stale, name)
	}

	sort.Strings(stale)
	return stale
}

func (r *Registry) IsZoneLoaded(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.zones[name] == StateLoaded
}

func (r *Registry) LoadedZones() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var loaded []string
	for name, st := range r.zones {
		if st == StateLoaded {
			loaded = append(loaded, name)
		}
	}

	sort.Strings(loaded)
	return loaded
}

func (r *Registry) ZoneState(name string) (State, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st, ok := r.zones[name]
	return st, ok
}

// OnStateChange subscribes to loaded/unloaded edges. Callbacks run on the
// completing operation's goroutine, so keep them quick. Returns an
// unsubscribe function.
func (r *Registry) OnStateChange(fn StateChangeFunc) func() {
	r.subMu.Lock()
	defer r.subMu.Unlock()

	id := r.nextSubId
	r.nextSubId++
	r.stateSubs[id] = fn

	return func() {
		r.subMu.Lock()
		defer r.subMu.Unlock()
		delete(r.stateSubs, id)
	}
}

// OnOpComplete subscribes to successful operation completions. Returns an
// unsubscribe function.
func (r *Registry) OnOpComplete(fn OpCompleteFunc) func() {
	r.subMu.Lock()
	defer r.subMu.Unlock()

	id := r.nextSubId
	r.nextSubId++
	r.opSubs[id] = fn

	return func() {
		r.subMu.Lock()
		defer r.subMu.Unlock()
		delete(r.opSubs, id)
	}
}

func (r *Registry) notifyStateChange(name string, loaded bool) {
	r.subMu.Lock()
	subs := make([]StateChangeFunc, 0, len(r.stateSubs))
	for _, fn := range r.stateSubs {
		subs = append(subs, fn)
	}
	r.subMu.Unlock()

	for _, fn := range subs {
		fn(name, loaded)
	}
}

func (r *Registry) notifyOpComplete(ev OpEvent) {
	r.subMu.Lock()
	subs := make([]OpCompleteFunc, 0, len(r.opSubs))
	for _, fn := range r.opSubs {
		subs = append(subs, fn)
	}
	r.subMu.Unlock()

	for _, fn := range subs {
		fn(ev)
	}
}
