package main

import (
	"encoding/json"
	"fmt"
)

// The wire format is JSON both ways. Inbound frames carry only "message";
// anything else in the object is ignored, and a missing field reads as "".
type inboundEnvelope struct {
	Message string `json:"message"`
}

type outboundEnvelope struct {
	Message  string `json:"message"`
	Username string `json:"username"`
}

// encodeEnvelope turns a raw inbound frame into the outbound payload stamped
// with the sender's username.
func encodeEnvelope(frame []byte, from identity) ([]byte, error) {
	var in inboundEnvelope
	if err := json.Unmarshal(frame, &in); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	return marshalOutbound(in.Message, from)
}

func marshalOutbound(message string, from identity) ([]byte, error) {
	out := outboundEnvelope{Message: message, Username: from.username()}
	text, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}
	return text, nil
}
