package network

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ErrUnknownMessage is returned for inbound envelopes whose type the server
// does not accept.
var ErrUnknownMessage = errors.New("network: unknown message type")

const position = `{"type": "array", "items": {"type": "number"}, "minItems": 3, "maxItems": 3}`

var inboundSchemas = map[MessageType]string{
	MessageViewpoint: `{
		"type": "object",
		"required": ["position"],
		"properties": {"position": ` + position + `}
	}`,
	MessageTriggerEvent: `{
		"type": "object",
		"required": ["kind", "position", "radius", "intensity"],
		"properties": {
			"kind": {"enum": ["magical_explosion", "crystallized_terrain", "faction_influence", "natural_disaster"]},
			"position": ` + position + `,
			"radius": {"type": "number", "minimum": 0},
			"intensity": {"type": "number"}
		}
	}`,
	MessageChunkRequest: `{
		"type": "object",
		"required": ["x", "z"],
		"properties": {
			"x": {"type": "integer"},
			"z": {"type": "integer"}
		}
	}`,
}

// Validator checks inbound payloads against their message schema.
type Validator struct {
	schemas map[MessageType]*jsonschema.Schema
}

func NewValidator() (*Validator, error) {
	v := &Validator{schemas: make(map[MessageType]*jsonschema.Schema, len(inboundSchemas))}
	for msgType, src := range inboundSchemas {
		s, err := jsonschema.CompileString(string(msgType)+".schema.json", src)
		if err != nil {
			return nil, fmt.Errorf("compile %s schema: %w", msgType, err)
		}
		v.schemas[msgType] = s
	}
	return v, nil
}

// Validate returns ErrUnknownMessage for types without a schema and a
// descriptive error for payloads that do not match.
func (v *Validator) Validate(env Envelope) error {
	s, ok := v.schemas[env.Type]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMessage, env.Type)
	}
	if len(env.Payload) == 0 {
		return fmt.Errorf("%s: missing payload", env.Type)
	}
	dec := json.NewDecoder(bytes.NewReader(env.Payload))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("%s: decode payload: %w", env.Type, err)
	}
	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("%s: %w", env.Type, err)
	}
	return nil
}
