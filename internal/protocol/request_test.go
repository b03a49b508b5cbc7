package protocol

import (
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
)

func TestRequestType_DefaultTimeout(t *testing.T) {
	tests := map[string]struct {
		rt  RequestType
		exp time.Duration
	}{
		"login uses the standard window": {
			rt:  RequestLogin,
			exp: 10 * time.Second,
		},
		"waypoint uses the standard window": {
			rt:  RequestWaypoint,
			exp: 10 * time.Second,
		},
		"zone load gets the extended window": {
			rt:  RequestServerZoneLoad,
			exp: 20 * time.Second,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "timeout", tt.rt.DefaultTimeout(), tt.exp)
		})
	}
}

func TestRequestType_Valid(t *testing.T) {
	tests := map[string]struct {
		rt  RequestType
		exp bool
	}{
		"known type":   {rt: RequestCharacterList, exp: true},
		"empty type":   {rt: RequestType(""), exp: false},
		"unknown type": {rt: RequestType("teleport"), exp: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "valid", tt.rt.Valid(), tt.exp)
		})
	}
}

func TestNewRequest(t *testing.T) {
	req, err := NewRequest("abc-123", RequestLogin, &LoginRequest{Account: "elara"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "correlation id", req.CorrelationId, "abc-123")
	testutil.AssertEqual(t, "type", req.Type, RequestLogin)

	var body LoginRequest
	err = req.Decode(&body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "account", body.Account, "elara")
}

func TestNewRequest_NilPayload(t *testing.T) {
	req, err := NewRequest("abc-123", RequestCharacterList, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "payload length", len(req.Payload), 0)

	var body CharacterListRequest
	if err := req.Decode(&body); err == nil {
		t.Error("expected error decoding empty payload")
	}
}

func TestNewErrorResponse(t *testing.T) {
	req, err := NewRequest("abc-123", RequestWaypoint, &WaypointRequest{Zone: "IthoriaSouth"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp := NewErrorResponse(req, "no such waypoint")

	testutil.AssertEqual(t, "correlation id", resp.CorrelationId, "abc-123")
	testutil.AssertEqual(t, "type", resp.Type, RequestWaypoint)
	testutil.AssertEqual(t, "success", resp.Success, false)
	testutil.AssertEqual(t, "error", resp.Error, "no such waypoint")
}

func TestPosition_IsOrigin(t *testing.T) {
	tests := map[string]struct {
		pos Position
		exp bool
	}{
		"zero value":        {pos: Position{}, exp: true},
		"offset on x":       {pos: Position{X: 0.1}, exp: false},
		"offset on y and z": {pos: Position{Y: -3, Z: 12.5}, exp: false},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "is origin", tt.pos.IsOrigin(), tt.exp)
		})
	}
}
