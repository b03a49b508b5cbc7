package gateway

import (
	"context"
	"time"

	"github.com/pixil98/ithoria-client/internal/protocol"
	"golang.org/x/text/unicode/norm"
)

// Client wraps the correlator and transport with one typed method per
// request type. Account and character names are NFC-normalized before they
// go on the wire so lookups don't depend on how the platform composed the
// input.
type Client struct {
	correlator *Correlator
	transport  Transport
	timeouts   map[protocol.RequestType]time.Duration
}

type ClientOpt func(*Client)

// WithTimeout overrides the default timeout for one request type.
func WithTimeout(rt protocol.RequestType, d time.Duration) ClientOpt {
	return func(c *Client) {
		c.timeouts[rt] = d
	}
}

func NewClient(correlator *Correlator, transport Transport, opts ...ClientOpt) *Client {
	c := &Client{
		correlator: correlator,
		transport:  transport,
		timeouts:   map[protocol.RequestType]time.Duration{},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) Login(ctx context.Context, account, password string) (*protocol.LoginResult, error) {
	var out protocol.LoginResult
	err := c.call(ctx, protocol.RequestLogin, &protocol.LoginRequest{
		Account:  norm.NFC.String(account),
		Password: password,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CharacterList(ctx context.Context, accountId string) ([]protocol.CharacterSummary, error) {
	var out protocol.CharacterList
	err := c.call(ctx, protocol.RequestCharacterList, &protocol.CharacterListRequest{
		AccountId: accountId,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Characters, nil
}

func (c *Client) AccountInventory(ctx context.Context, accountId string) (*protocol.Inventory, error) {
	var out protocol.Inventory
	err := c.call(ctx, protocol.RequestAccountInventory, &protocol.AccountInventoryRequest{
		AccountId: accountId,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CharacterInventory(ctx context.Context, characterId string) (*protocol.Inventory, error) {
	var out protocol.Inventory
	err := c.call(ctx, protocol.RequestCharacterInventory, &protocol.CharacterInventoryRequest{
		CharacterId: characterId,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) WorkbenchList(ctx context.Context, accountId string) ([]protocol.WorkbenchRecord, error) {
	var out protocol.WorkbenchList
	err := c.call(ctx, protocol.RequestWorkbenchList, &protocol.WorkbenchListRequest{
		AccountId: accountId,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Workbenches, nil
}

func (c *Client) PlayerZoneInfo(ctx context.Context, characterId string) (*protocol.ZoneInfo, error) {
	var out protocol.ZoneInfo
	err := c.call(ctx, protocol.RequestPlayerZoneInfo, &protocol.ZoneInfoRequest{
		CharacterId: characterId,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Waypoint(ctx context.Context, zoneName, waypointName string) (*protocol.WaypointResult, error) {
	var out protocol.WaypointResult
	err := c.call(ctx, protocol.RequestWaypoint, &protocol.WaypointRequest{
		Zone: zoneName,
		Name: waypointName,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ServerZoneLoad(ctx context.Context, characterId, zoneName string) (*protocol.ZoneLoadResult, error) {
	var out protocol.ZoneLoadResult
	err := c.call(ctx, protocol.RequestServerZoneLoad, &protocol.ZoneLoadRequest{
		CharacterId: characterId,
		Zone:        zoneName,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ConfirmZoneEntered reports the outcome of a world entry upstream. One
// way, best effort.
func (c *Client) ConfirmZoneEntered(ctx context.Context, characterId, zoneName string, ok bool) error {
	return c.transport.Notify(ctx, &protocol.Notice{
		Type:        protocol.NoticeZoneEntered,
		CharacterId: characterId,
		Zone:        zoneName,
		Success:     ok,
	})
}

// Presence announces the session is still alive.
func (c *Client) Presence(ctx context.Context, characterId string) error {
	return c.transport.Notify(ctx, &protocol.Notice{
		Type:        protocol.NoticePresence,
		CharacterId: characterId,
	})
}

func (c *Client) call(ctx context.Context, rt protocol.RequestType, payload, out any) error {
	resp, err := c.correlator.Call(ctx, rt, c.timeout(rt), func(correlationId string) error {
		req, err := protocol.NewRequest(correlationId, rt, payload)
		if err != nil {
			return err
		}
		return c.transport.Send(ctx, req)
	})
	if err != nil {
		return err
	}

	if !resp.Success {
		return &CallError{Type: rt, Message: resp.Error}
	}
	if out != nil {
		return resp.Decode(out)
	}
	return nil
}

func (c *Client) timeout(rt protocol.RequestType) time.Duration {
	if d, ok := c.timeouts[rt]; ok {
		return d
	}
	return rt.DefaultTimeout()
}
