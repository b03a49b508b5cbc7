package protocol

import (
	"encoding/json"
	"fmt"
)

// Response is the envelope the gateway publishes back to the client's
// inbox. CorrelationId echoes the originating request; a response whose id
// no longer has a waiter is dropped by the receiver.
type Response struct {
	CorrelationId string          `json:"correlation_id"`
	Type          RequestType     `json:"type"`
	Success       bool            `json:"success"`
	Error         string          `json:"error,omitempty"`
	Payload       json.RawMessage `json:"payload,omitempty"`
}

func NewResponse(req *Request, payload any) (*Response, error) {
	resp := &Response{
		CorrelationId: req.CorrelationId,
		Type:          req.Type,
		Success:       true,
	}

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshalling %s payload: %w", req.Type, err)
		}
		resp.Payload = data
	}

	return resp, nil
}

func NewErrorResponse(req *Request, msg string) *Response {
	return &Response{
		CorrelationId: req.CorrelationId,
		Type:          req.Type,
		Success:       false,
		Error:         msg,
	}
}

func (r *Response) Decode(v any) error {
	if len(r.Payload) == 0 {
		return fmt.Errorf("%s response has no payload", r.Type)
	}
	if err := json.Unmarshal(r.Payload, v); err != nil {
		return fmt.Errorf("unmarshalling %s payload: %w", r.Type, err)
	}
	return nil
}

const (
	NoticeZoneEntered = "zone_entered"
	NoticePresence    = "presence"
)

// Notice is a one-way upstream message. Nothing correlates it and nothing
// answers it; delivery is best effort.
type Notice struct {
	Type        string `json:"type"`
	CharacterId string `json:"character_id"`
	Zone        string `json:"zone,omitempty"`
	Success     bool   `json:"success,omitempty"`
}
