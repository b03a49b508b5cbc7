package session

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
	"github.com/pixil98/ithoria-client/internal/protocol"
	"github.com/pixil98/ithoria-client/internal/zone"
)

func waitFor(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}

func newTestSession(t *testing.T, gw *fakeGateway, opts ...SessionOpt) *Session {
	t.Helper()
	orch, _, _ := newEntryFixture(t, gw, newStubLoader(zone.ZoneMainMenu))
	opts = append(opts, WithKeepalive(5*time.Millisecond))
	return NewSession(gw, orch, "elara", "hunter2", opts...)
}

func TestSession_Start(t *testing.T) {
	gw := &fakeGateway{
		characters: []protocol.CharacterSummary{
			{Id: "char-1", Name: "Elara", Level: 12},
			{Id: "char-2", Name: "Brom", Level: 3},
		},
		zoneInfo: &protocol.ZoneInfo{Zone: "IthoriaSouth", Position: &protocol.Position{X: 1, Y: 0, Z: 1}},
	}
	s := newTestSession(t, gw)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Start(ctx) }()

	waitFor(t, func() bool { return gw.presenceCount() >= 2 }, "presence never started ticking")
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("session did not stop after cancel")
	}

	// First character on the account was picked and prefetched
	testutil.AssertEqual(t, "character inventory fetches", gw.charInvCalls, []string{"char-1"})
	testutil.AssertEqual(t, "account inventory fetches", gw.acctInvCalls, 1)
	testutil.AssertEqual(t, "workbench fetches", gw.workbenchCalls, 1)
	testutil.AssertEqual(t, "confirms", gw.confirmCount(), 1)
}

func TestSession_Start_NamedCharacter(t *testing.T) {
	gw := &fakeGateway{
		characters: []protocol.CharacterSummary{
			{Id: "char-1", Name: "Elara"},
			{Id: "char-2", Name: "Brom"},
		},
		zoneInfo: &protocol.ZoneInfo{Zone: "IthoriaSouth", UseWaypoint: true},
	}
	s := newTestSession(t, gw, WithCharacter("brom"))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Start(ctx) }()

	waitFor(t, func() bool { return gw.confirmCount() >= 1 }, "never entered the world")
	cancel()
	<-errCh

	testutil.AssertEqual(t, "character inventory fetches", gw.charInvCalls, []string{"char-2"})
}

func TestSession_Start_LoginFails(t *testing.T) {
	gw := &fakeGateway{loginErr: fmt.Errorf("bad credentials")}
	s := newTestSession(t, gw)

	err := s.Start(context.Background())
	if err == nil || !strings.Contains(err.Error(), "logging in") {
		t.Fatalf("expected a login error, got %v", err)
	}
}

func TestSession_Start_NoCharacters(t *testing.T) {
	gw := &fakeGateway{}
	s := newTestSession(t, gw)

	err := s.Start(context.Background())
	if err == nil || !strings.Contains(err.Error(), "no characters") {
		t.Fatalf("expected a no-characters error, got %v", err)
	}
}

func TestSession_Start_EntryFailureEndsSession(t *testing.T) {
	gw := &fakeGateway{
		characters: []protocol.CharacterSummary{{Id: "char-1", Name: "Elara"}},
		zoneInfo:   &protocol.ZoneInfo{Zone: "IthoriaSouth", UseWaypoint: true},
		prepErr:    fmt.Errorf("shard down"),
	}
	s := newTestSession(t, gw)

	err := s.Start(context.Background())
	if err == nil || !strings.Contains(err.Error(), "entering world") {
		t.Fatalf("expected an entry error, got %v", err)
	}
	testutil.AssertEqual(t, "no presence after failed entry", gw.presenceCount(), 0)
}

// A degraded entry keeps the session alive.
func TestSession_Start_DegradedEntryContinues(t *testing.T) {
	loader := newStubLoader(zone.ZoneMainMenu, "IthoriaNorth")
	loader.unloadErrs["IthoriaNorth"] = fmt.Errorf("files busy")

	gw := &fakeGateway{
		characters: []protocol.CharacterSummary{{Id: "char-1", Name: "Elara"}},
		zoneInfo:   &protocol.ZoneInfo{Zone: "IthoriaSouth", UseWaypoint: true},
	}
	orch, reg, _ := newEntryFixture(t, gw, loader)
	if err := reg.RegisterZone("IthoriaNorth"); err != nil {
		t.Fatalf("registering zone: %v", err)
	}
	s := NewSession(gw, orch, "elara", "hunter2", WithKeepalive(5*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Start(ctx) }()

	waitFor(t, func() bool { return gw.presenceCount() >= 1 }, "session did not survive degraded entry")
	cancel()

	if err := <-errCh; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// Prefetch failures are cosmetic; the session still enters the world.
func TestSession_Start_PrefetchFailuresNonFatal(t *testing.T) {
	gw := &fakeGateway{
		characters:   []protocol.CharacterSummary{{Id: "char-1", Name: "Elara"}},
		zoneInfo:     &protocol.ZoneInfo{Zone: "IthoriaSouth", UseWaypoint: true},
		acctInvErr:   fmt.Errorf("no reply"),
		charInvErr:   fmt.Errorf("no reply"),
		workbenchErr: fmt.Errorf("no reply"),
	}
	s := newTestSession(t, gw)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Start(ctx) }()

	waitFor(t, func() bool { return gw.confirmCount() >= 1 }, "never entered the world")
	cancel()

	if err := <-errCh; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSession_PickCharacter(t *testing.T) {
	chars := []protocol.CharacterSummary{
		{Id: "char-1", Name: "Elara"},
		{Id: "char-2", Name: "Brom"},
	}

	for name, tt := range map[string]struct {
		want   string
		chars  []protocol.CharacterSummary
		expId  string
		expErr bool
	}{
		"default first":    {chars: chars, expId: "char-1"},
		"named":            {want: "Brom", chars: chars, expId: "char-2"},
		"case insensitive": {want: "ELARA", chars: chars, expId: "char-1"},
		"missing":          {want: "Zed", chars: chars, expErr: true},
		"empty list":       {expErr: true},
	} {
		t.Run(name, func(t *testing.T) {
			s := &Session{character: tt.want}
			ch, err := s.pickCharacter(tt.chars)
			if tt.expErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "character", ch.Id, tt.expId)
		})
	}
}
