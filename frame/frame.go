// Package frame implements the envelope codec for gateway frames.
//
// Every frame is a JSON object whose "type" member names the event kind:
//
//	{"type":"Message","_id":"01H...","channel":"01H...","content":"hi"}
//
// Binary WebSocket frames carry the same JSON compressed with zstd.
package frame

import (
	"encoding/json"
	"errors"
	"fmt"
)

// MaxFrameLen bounds a decoded frame.
const MaxFrameLen = 4 * 1024 * 1024

// Client-to-server frame types.
const (
	TypeAuthenticate = "Authenticate"
	TypePing         = "Ping"
	TypeBeginTyping  = "BeginTyping"
	TypeEndTyping    = "EndTyping"
)

var (
	ErrNoKind        = errors.New("frame: missing type")
	ErrFrameTooLarge = errors.New("frame: exceeds maximum size")
	ErrEmpty         = errors.New("frame: empty")
)

// Frame is one decoded inbound frame: its kind and the full JSON object.
type Frame struct {
	Kind string
	Raw  json.RawMessage
}

type envelope struct {
	Type string `json:"type"`
}

// Decode parses data and extracts the kind discriminator. Raw keeps the
// whole object, including "type".
func Decode(data []byte) (Frame, error) {
	if len(data) == 0 {
		return Frame{}, ErrEmpty
	}
	if len(data) > MaxFrameLen {
		return Frame{}, ErrFrameTooLarge
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Frame{}, fmt.Errorf("frame: decode: %w", err)
	}
	if env.Type == "" {
		return Frame{}, ErrNoKind
	}
	raw := make(json.RawMessage, len(data))
	copy(raw, data)
	return Frame{Kind: env.Type, Raw: raw}, nil
}

// Unmarshal decodes the frame body into dest.
func (f Frame) Unmarshal(dest any) error {
	if err := json.Unmarshal(f.Raw, dest); err != nil {
		return fmt.Errorf("frame %s: %w", f.Kind, err)
	}
	return nil
}

// Encode serialises an outbound payload. v must marshal to a JSON object
// with a non-empty "type" member.
func Encode(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("frame: encode: %w", err)
	}
	if len(data) > MaxFrameLen {
		return nil, ErrFrameTooLarge
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil || env.Type == "" {
		return nil, ErrNoKind
	}
	return data, nil
}
