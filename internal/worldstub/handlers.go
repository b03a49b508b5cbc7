package worldstub

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"sort"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/pixil98/ithoria-client/internal/protocol"
	"github.com/pixil98/ithoria-client/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

func (s *Server) handleRequest(msg *nats.Msg) {
	req := &protocol.Request{}
	if err := json.Unmarshal(msg.Data, req); err != nil {
		slog.Warn("discarding malformed request", "subject", msg.Subject, "error", err)
		return
	}
	if msg.Reply == "" {
		slog.Warn("discarding request with no reply inbox", "type", req.Type)
		return
	}

	resp := s.dispatch(req)

	data, err := json.Marshal(resp)
	if err != nil {
		slog.Error("marshalling response", "type", req.Type, "error", err)
		return
	}
	if err := s.conn.Publish(msg.Reply, data); err != nil {
		slog.Warn("publishing response", "type", req.Type, "error", err)
	}
}

func (s *Server) dispatch(req *protocol.Request) *protocol.Response {
	var (
		payload any
		err     error
	)

	switch req.Type {
	case protocol.RequestLogin:
		payload, err = s.handleLogin(req)
	case protocol.RequestCharacterList:
		payload, err = s.handleCharacterList(req)
	case protocol.RequestAccountInventory:
		payload, err = s.handleAccountInventory(req)
	case protocol.RequestCharacterInventory:
		payload, err = s.handleCharacterInventory(req)
	case protocol.RequestWorkbenchList:
		payload, err = s.handleWorkbenchList(req)
	case protocol.RequestPlayerZoneInfo:
		payload, err = s.handleZoneInfo(req)
	case protocol.RequestWaypoint:
		payload, err = s.handleWaypoint(req)
	case protocol.RequestServerZoneLoad:
		payload, err = s.handleZoneLoad(req)
	default:
		err = fmt.Errorf("unsupported request type %q", req.Type)
	}

	if err != nil {
		return protocol.NewErrorResponse(req, err.Error())
	}

	resp, err := protocol.NewResponse(req, payload)
	if err != nil {
		slog.Error("encoding response payload", "type", req.Type, "error", err)
		return protocol.NewErrorResponse(req, "internal error")
	}
	return resp
}

func (s *Server) handleLogin(req *protocol.Request) (*protocol.LoginResult, error) {
	var p protocol.LoginRequest
	if err := req.Decode(&p); err != nil {
		return nil, err
	}

	// Same answer for a missing account and a wrong password
	id := storage.Identifier(strings.ToLower(p.Account))
	account, ok := s.stores.Accounts.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(p.Password)); err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	slog.Info("account logged in", "account", id)
	return &protocol.LoginResult{
		AccountId: string(id),
		Motd:      s.renderMotd(p.Account, len(s.charactersFor(string(id)))),
	}, nil
}

func (s *Server) handleCharacterList(req *protocol.Request) (*protocol.CharacterList, error) {
	var p protocol.CharacterListRequest
	if err := req.Decode(&p); err != nil {
		return nil, err
	}

	return &protocol.CharacterList{Characters: s.charactersFor(p.AccountId)}, nil
}

func (s *Server) charactersFor(accountId string) []protocol.CharacterSummary {
	var chars []protocol.CharacterSummary
	for id, spec := range s.stores.Characters.GetAll() {
		if spec.Account != accountId {
			continue
		}
		chars = append(chars, protocol.CharacterSummary{
			Id:    string(id),
			Name:  spec.Name,
			Level: spec.Level,
			Zone:  spec.Zone,
		})
	}

	sort.Slice(chars, func(i, j int) bool { return chars[i].Name < chars[j].Name })
	return chars
}

func (s *Server) handleAccountInventory(req *protocol.Request) (*protocol.Inventory, error) {
	var p protocol.AccountInventoryRequest
	if err := req.Decode(&p); err != nil {
		return nil, err
	}

	account, ok := s.stores.Accounts.Lookup(storage.Identifier(p.AccountId))
	if !ok {
		return nil, fmt.Errorf("unknown account %s", p.AccountId)
	}
	return &protocol.Inventory{Items: account.Items}, nil
}

func (s *Server) handleCharacterInventory(req *protocol.Request) (*protocol.Inventory, error) {
	var p protocol.CharacterInventoryRequest
	if err := req.Decode(&p); err != nil {
		return nil, err
	}

	char, ok := s.stores.Characters.Lookup(storage.Identifier(p.CharacterId))
	if !ok {
		return nil, fmt.Errorf("unknown character %s", p.CharacterId)
	}
	return &protocol.Inventory{Items: char.Items}, nil
}

func (s *Server) handleWorkbenchList(req *protocol.Request) (*protocol.WorkbenchList, error) {
	var p protocol.WorkbenchListRequest
	if err := req.Decode(&p); err != nil {
		return nil, err
	}

	var wbs []protocol.WorkbenchRecord
	for id, spec := range s.stores.Workbenches.GetAll() {
		if spec.Account != p.AccountId {
			continue
		}
		wbs = append(wbs, protocol.WorkbenchRecord{Id: string(id), Name: spec.Name, Tier: spec.Tier})
	}

	sort.Slice(wbs, func(i, j int) bool { return wbs[i].Name < wbs[j].Name })
	return &protocol.WorkbenchList{Workbenches: wbs}, nil
}

func (s *Server) handleZoneInfo(req *protocol.Request) (*protocol.ZoneInfo, error) {
	var p protocol.ZoneInfoRequest
	if err := req.Decode(&p); err != nil {
		return nil, err
	}

	char, ok := s.stores.Characters.Lookup(storage.Identifier(p.CharacterId))
	if !ok {
		return nil, fmt.Errorf("unknown character %s", p.CharacterId)
	}
	return &protocol.ZoneInfo{
		Zone:        char.Zone,
		Position:    char.Position,
		UseWaypoint: char.UseWaypoint,
		Waypoint:    char.Waypoint,
	}, nil
}

func (s *Server) handleWaypoint(req *protocol.Request) (*protocol.WaypointResult, error) {
	var p protocol.WaypointRequest
	if err := req.Decode(&p); err != nil {
		return nil, err
	}

	wp, ok := s.stores.Waypoints.Lookup(WaypointId(p.Zone, p.Name))
	if !ok {
		return nil, fmt.Errorf("no waypoint %q in zone %s", p.Name, p.Zone)
	}
	return &protocol.WaypointResult{Name: wp.Name, Zone: wp.Zone, Position: wp.Position}, nil
}

func (s *Server) handleZoneLoad(req *protocol.Request) (*protocol.ZoneLoadResult, error) {
	var p protocol.ZoneLoadRequest
	if err := req.Decode(&p); err != nil {
		return nil, err
	}
	if p.Zone == "" {
		return nil, fmt.Errorf("zone load request names no zone")
	}

	// Pretend the shard needs a moment to hydrate the zone
	time.Sleep(s.zoneLoadDelay)

	slog.Info("zone prepared", "zone", p.Zone, "character", p.CharacterId)
	return &protocol.ZoneLoadResult{Zone: p.Zone, Ready: true}, nil
}

func (s *Server) handleNotice(msg *nats.Msg) {
	notice := &protocol.Notice{}
	if err := json.Unmarshal(msg.Data, notice); err != nil {
		slog.Warn("discarding malformed notice", "subject", msg.Subject, "error", err)
		return
	}

	switch notice.Type {
	case protocol.NoticeZoneEntered:
		s.applyZoneEntered(notice)
	case protocol.NoticePresence:
		s.mu.Lock()
		s.lastSeen[notice.CharacterId] = time.Now()
		s.mu.Unlock()
		slog.Debug("presence", "character", notice.CharacterId)
	default:
		slog.Warn("discarding unknown notice", "type", notice.Type)
	}
}

// applyZoneEntered moves the character record to its confirmed zone so the
// next zone info request answers with it.
func (s *Server) applyZoneEntered(notice *protocol.Notice) {
	if !notice.Success {
		slog.Warn("client reported failed zone entry", "character", notice.CharacterId, "zone", notice.Zone)
		return
	}

	id := storage.Identifier(notice.CharacterId)
	char, ok := s.stores.Characters.Lookup(id)
	if !ok {
		slog.Warn("zone entry for unknown character", "character", notice.CharacterId)
		return
	}

	// Request handlers may still be reading the stored record, so mutate
	// a copy and publish it through the store.
	updated := *char
	updated.Extensions = maps.Clone(char.Extensions)
	updated.Zone = notice.Zone
	if err := updated.Extensions.Set("last_entry", lastEntry{Zone: notice.Zone, At: time.Now().UTC()}); err != nil {
		slog.Warn("recording entry state", "character", notice.CharacterId, "error", err)
	}
	if err := s.stores.Characters.Save(id, &updated); err != nil {
		slog.Warn("persisting character zone", "character", notice.CharacterId, "error", err)
		return
	}
	slog.Info("character entered zone", "character", notice.CharacterId, "zone", notice.Zone)
}

// lastEntry is bookkeeping a live shard keeps per character; the stub keeps
// it too so fixtures show realistic state after a session.
type lastEntry struct {
	Zone string    `json:"zone"`
	At   time.Time `json:"at"`
}
