package myevents

import (
	"encoding/json"
	"fmt"
	"io"
)

// PushRequest is the payload that pubsub delivers on a push-subscription.
type PushRequest struct {
	Message      PushMessage `json:"message"`
	Subscription string      `json:"subscription"`
}

type PushMessage struct {
	Attributes map[string]string `json:"attributes,omitempty"`
	Data       []byte            `json:"data"`
	MessageID  string            `json:"messageId,omitempty"`
}

func ParseEventEnvelope(reader io.Reader) (EventEnvelope, error) {
	body, err := io.ReadAll(reader)
	if err != nil {
		return EventEnvelope{}, fmt.Errorf("error reading push-request: %s", err)
	}

	req := PushRequest{}
	err = json.Unmarshal(body, &req)
	if err != nil {
		return EventEnvelope{}, fmt.Errorf("error parsing push-request: %s", err)
	}

	envelope := EventEnvelope{}
	err = json.Unmarshal(req.Message.Data, &envelope)
	if err != nil {
		return EventEnvelope{}, fmt.Errorf("error parsing event-envelope: %s", err)
	}

	return envelope, nil
}
