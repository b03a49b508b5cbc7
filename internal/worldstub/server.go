// Package worldstub is an in-process Ithoria server good enough to run the
// client against. It answers every request type from JSON fixture stores
// and applies zone-entry notices back to them. The integration tests and
// the standalone worldstub binary both run it.
package worldstub

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/pixil98/ithoria-client/internal/storage"
)

// Stores bundles the fixture collections the stub serves from.
type Stores struct {
	Accounts    storage.Storer[*AccountSpec]
	Characters  storage.Storer[*CharacterSpec]
	Waypoints   storage.Storer[*WaypointSpec]
	Workbenches storage.Storer[*WorkbenchSpec]
}

type Server struct {
	ns    *server.Server
	conn  *nats.Conn
	ready chan struct{}

	stores Stores

	startupTimeout time.Duration
	host           string
	port           int
	prefix         string
	zoneLoadDelay  time.Duration
	motdTemplate   string

	mu       sync.Mutex
	lastSeen map[string]time.Time
}

type ServerOpt func(*Server)

func WithHost(host string) ServerOpt {
	return func(s *Server) {
		s.host = host
	}
}

// WithPort fixes the listen port. The default picks a random free port.
func WithPort(port int) ServerOpt {
	return func(s *Server) {
		s.port = port
	}
}

func WithPrefix(prefix string) ServerOpt {
	return func(s *Server) {
		s.prefix = prefix
	}
}

// WithZoneLoadDelay simulates the shard spinning up zone state before it
// reports ready.
func WithZoneLoadDelay(d time.Duration) ServerOpt {
	return func(s *Server) {
		s.zoneLoadDelay = d
	}
}

func WithMotd(tmpl string) ServerOpt {
	return func(s *Server) {
		s.motdTemplate = tmpl
	}
}

func NewServer(stores Stores, opts ...ServerOpt) (*Server, error) {
	s := &Server{
		stores:         stores,
		ready:          make(chan struct{}),
		startupTimeout: 10 * time.Second,
		host:           "127.0.0.1",
		port:           server.RANDOM_PORT,
		prefix:         "ithoria",
		zoneLoadDelay:  100 * time.Millisecond,
		motdTemplate:   defaultMotd,
		lastSeen:       map[string]time.Time{},
	}

	for _, opt := range opts {
		opt(s)
	}

	ns, err := server.NewServer(&server.Options{
		Host:   s.host,
		Port:   s.port,
		NoSigs: true, // Let the application handle signals
	})
	if err != nil {
		return nil, err
	}
	s.ns = ns

	return s, nil
}

func (s *Server) Start(ctx context.Context) error {
	s.ns.Start()

	if !s.ns.ReadyForConnections(s.startupTimeout) {
		return fmt.Errorf("nats server not ready for connections")
	}

	// Internal client connection for serving requests
	conn, err := nats.Connect(s.ns.ClientURL())
	if err != nil {
		return fmt.Errorf("creating internal nats connection: %w", err)
	}
	s.conn = conn

	reqSub, err := conn.Subscribe(s.prefix+".req.>", s.handleRequest)
	if err != nil {
		return fmt.Errorf("subscribing to requests: %w", err)
	}
	noticeSub, err := conn.Subscribe(s.prefix+".notice.>", s.handleNotice)
	if err != nil {
		return fmt.Errorf("subscribing to notices: %w", err)
	}

	close(s.ready)
	slog.InfoContext(ctx, "world stub listening", "addr", s.ns.Addr(), "prefix", s.prefix)

	<-ctx.Done()

	// Ignoring unsubscribe errors - the connection is closing anyway
	_ = reqSub.Unsubscribe()
	_ = noticeSub.Unsubscribe()
	conn.Close()
	s.ns.Shutdown()
	s.ns.WaitForShutdown()

	return nil
}

// WaitReady blocks until the stub is serving requests or ctx ends.
func (s *Server) WaitReady(ctx context.Context) error {
	select {
	case <-s.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ClientURL is the address clients should dial. With a random port it is
// only meaningful once Start has brought the listener up.
func (s *Server) ClientURL() string {
	return s.ns.ClientURL()
}

// LastSeen reports when a character last sent presence.
func (s *Server) LastSeen(characterId string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.lastSeen[characterId]
	return t, ok
}
