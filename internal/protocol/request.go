// Package protocol defines the wire types exchanged with the Ithoria
// gateway server. Requests are fire-and-forget publishes carrying a
// correlation id; responses arrive asynchronously on the client's inbox
// and are matched back to their request by that id.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"
)

type RequestType string

const (
	RequestLogin              RequestType = "login"
	RequestCharacterList      RequestType = "character_list"
	RequestAccountInventory   RequestType = "account_inventory"
	RequestCharacterInventory RequestType = "character_inventory"
	RequestWorkbenchList      RequestType = "workbench_list"
	RequestPlayerZoneInfo     RequestType = "player_zone_info"
	RequestWaypoint           RequestType = "waypoint"
	RequestServerZoneLoad     RequestType = "server_zone_load"
)

func (rt RequestType) String() string {
	return string(rt)
}

func (rt RequestType) Valid() bool {
	switch rt {
	case RequestLogin, RequestCharacterList, RequestAccountInventory,
		RequestCharacterInventory, RequestWorkbenchList,
		RequestPlayerZoneInfo, RequestWaypoint, RequestServerZoneLoad:
		return true
	}
	return false
}

// DefaultTimeout returns how long a caller should wait for a response of
// this type. Zone preparation walks the server's own load pipeline, so it
// gets a longer budget than the lookup-style requests.
func (rt RequestType) DefaultTimeout() time.Duration {
	if rt == RequestServerZoneLoad {
		return 20 * time.Second
	}
	return 10 * time.Second
}

// Request is the envelope published to the gateway. Payload holds the
// type-specific body; it stays raw here so the envelope can be routed
// without knowing every body shape.
type Request struct {
	CorrelationId string          `json:"correlation_id"`
	Type          RequestType     `json:"type"`
	Payload       json.RawMessage `json:"payload,omitempty"`
}

func NewRequest(correlationId string, rt RequestType, payload any) (*Request, error) {
	req := &Request{
		CorrelationId: correlationId,
		Type:          rt,
	}

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshalling %s payload: %w", rt, err)
		}
		req.Payload = data
	}

	return req, nil
}

func (r *Request) Decode(v any) error {
	if len(r.Payload) == 0 {
		return fmt.Errorf("%s request has no payload", r.Type)
	}
	if err := json.Unmarshal(r.Payload, v); err != nil {
		return fmt.Errorf("unmarshalling %s payload: %w", r.Type, err)
	}
	return nil
}
