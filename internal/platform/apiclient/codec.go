package apiclient

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fxamacker/cbor/v2"
)

// Format selects the wire encoding for request and response bodies.
type Format string

const (
	FormatJSON Format = "json"
	FormatCBOR Format = "cbor"
)

// ParseFormat maps a config value onto a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatCBOR:
		return FormatCBOR, nil
	default:
		return "", fmt.Errorf("unsupported wire format %q", s)
	}
}

// envelope is the decoded outer shape of every response body with the
// payload left undecoded.
type envelope struct {
	Success   bool
	Message   string
	RequestID string
	Data      []byte
}

type codec interface {
	ContentType() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	splitEnvelope(body []byte) (envelope, error)
}

func codecFor(f Format) codec {
	if f == FormatCBOR {
		return cborCodec{}
	}
	return jsonCodec{}
}

type jsonCodec struct{}

func (jsonCodec) ContentType() string                { return "application/json" }
func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

func (jsonCodec) splitEnvelope(body []byte) (envelope, error) {
	var raw struct {
		Success   bool            `json:"success"`
		Message   string          `json:"message"`
		RequestID string          `json:"requestId"`
		Data      json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return envelope{}, err
	}
	data := []byte(raw.Data)
	if string(data) == "null" {
		data = nil
	}
	return envelope{Success: raw.Success, Message: raw.Message, RequestID: raw.RequestID, Data: data}, nil
}

type cborCodec struct{}

func (cborCodec) ContentType() string                { return "application/cbor" }
func (cborCodec) Marshal(v any) ([]byte, error)      { return cbor.Marshal(v) }
func (cborCodec) Unmarshal(data []byte, v any) error { return cbor.Unmarshal(data, v) }

func (cborCodec) splitEnvelope(body []byte) (envelope, error) {
	var raw struct {
		Success   bool            `json:"success"`
		Message   string          `json:"message"`
		RequestID string          `json:"requestId"`
		Data      cbor.RawMessage `json:"data"`
	}
	if err := cbor.Unmarshal(body, &raw); err != nil {
		return envelope{}, err
	}
	data := []byte(raw.Data)
	// 0xf6 is CBOR null.
	if len(data) == 1 && data[0] == 0xf6 {
		data = nil
	}
	return envelope{Success: raw.Success, Message: raw.Message, RequestID: raw.RequestID, Data: data}, nil
}
