package remote

import (
	"github.com/vk/codephy/internal/lower"
	"github.com/zclconf/go-cty/cty"
)

// Event names emitted to the engine.
const (
	EventCreate    = "codephy:create"
	EventConnect   = "codephy:connect"
	EventAssembled = "codephy:assembled"
)

// CreateEvent is the payload of EventCreate.
type CreateEvent struct {
	Seq       int64          `json:"seq"`
	ID        string         `json:"id"`
	Kind      string         `json:"kind"`
	Type      string         `json:"type"`
	Generates string         `json:"generates"`
	Dimension int            `json:"dimension,omitempty"`
	Shape     map[string]any `json:"shape"`
	Value     any            `json:"value,omitempty"`
	Observed  any            `json:"observed,omitempty"`
}

// ConnectEvent is the payload of EventConnect. References are rendered as
// {"ref": id}.
type ConnectEvent struct {
	Seq    int64          `json:"seq"`
	ID     string         `json:"id"`
	Params map[string]any `json:"params"`
}

func plainMap(in map[string]cty.Value) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = lower.Plain(v)
	}
	return out
}

func createEvent(seq int64, req lower.CreateRequest) CreateEvent {
	return CreateEvent{
		Seq:       seq,
		ID:        req.ID,
		Kind:      req.Kind.String(),
		Type:      req.Type.String(),
		Generates: req.Generates.String(),
		Dimension: req.Dimension,
		Shape:     plainMap(req.Shape),
		Value:     lower.Plain(req.Value),
		Observed:  lower.Plain(req.Observed),
	}
}
