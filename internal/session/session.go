package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pixil98/ithoria-client/internal/protocol"
)

// Session is the worker that logs in, picks a character, enters the world
// through the orchestrator, and then keeps presence ticking until shutdown.
type Session struct {
	gw   Gateway
	orch *Orchestrator

	account   string
	password  string
	character string

	keepalive time.Duration
	gate      func(ctx context.Context) error
}

type SessionOpt func(*Session)

// WithCharacter selects a character by name instead of taking the first on
// the account.
func WithCharacter(name string) SessionOpt {
	return func(s *Session) {
		s.character = name
	}
}

// WithKeepalive sets the presence interval. Zero disables presence.
func WithKeepalive(d time.Duration) SessionOpt {
	return func(s *Session) {
		s.keepalive = d
	}
}

// WithReadyGate blocks session startup on gate, typically the transport's
// WaitReady. Workers start in no particular order; without the gate the
// first login can race the connection.
func WithReadyGate(gate func(ctx context.Context) error) SessionOpt {
	return func(s *Session) {
		s.gate = gate
	}
}

func NewSession(gw Gateway, orch *Orchestrator, account, password string, opts ...SessionOpt) *Session {
	s := &Session{
		gw:        gw,
		orch:      orch,
		account:   account,
		password:  password,
		keepalive: 30 * time.Second,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start runs the session until ctx is canceled. A hard failure anywhere
// before world entry ends the session with an error; a degraded entry is
// logged and the session carries on.
func (s *Session) Start(ctx context.Context) error {
	if s.gate != nil {
		if err := s.gate(ctx); err != nil {
			return fmt.Errorf("waiting for transport: %w", err)
		}
	}

	login, err := s.gw.Login(ctx, s.account, s.password)
	if err != nil {
		return fmt.Errorf("logging in: %w", err)
	}
	slog.InfoContext(ctx, "logged in", "account_id", login.AccountId)
	if login.Motd != "" {
		slog.InfoContext(ctx, "message of the day", "motd", login.Motd)
	}

	chars, err := s.gw.CharacterList(ctx, login.AccountId)
	if err != nil {
		return fmt.Errorf("fetching characters: %w", err)
	}
	char, err := s.pickCharacter(chars)
	if err != nil {
		return err
	}
	slog.InfoContext(ctx, "selected character", "character", char.Name, "level", char.Level)

	s.prefetch(ctx, login.AccountId, char.Id)

	res, err := s.orch.EnterZone(ctx, char)
	if err != nil {
		if res == nil {
			return fmt.Errorf("entering world: %w", err)
		}
		slog.WarnContext(ctx, "world entry degraded", "error", err)
	}
	slog.InfoContext(ctx, "in world",
		"zone", res.Zone,
		"spawn", res.Spawn.String(),
		"suspect_spawn", res.SpawnSuspect,
	)

	return s.keepAlive(ctx, char.Id)
}

func (s *Session) pickCharacter(chars []protocol.CharacterSummary) (protocol.CharacterSummary, error) {
	if len(chars) == 0 {
		return protocol.CharacterSummary{}, fmt.Errorf("account has no characters")
	}
	if s.character == "" {
		return chars[0], nil
	}
	for _, ch := range chars {
		if strings.EqualFold(ch.Name, s.character) {
			return ch, nil
		}
	}
	return protocol.CharacterSummary{}, fmt.Errorf("character %q not found on account", s.character)
}

// prefetch warms the account and character data the interface wants right
// after entry. Failures are logged, never fatal.
func (s *Session) prefetch(ctx context.Context, accountId, characterId string) {
	if _, err := s.gw.AccountInventory(ctx, accountId); err != nil {
		slog.WarnContext(ctx, "prefetching account inventory", "error", err)
	}
	if _, err := s.gw.CharacterInventory(ctx, characterId); err != nil {
		slog.WarnContext(ctx, "prefetching character inventory", "error", err)
	}
	if _, err := s.gw.WorkbenchList(ctx, accountId); err != nil {
		slog.WarnContext(ctx, "prefetching workbenches", "error", err)
	}
}
