package typeahead

import (
	"fmt"
)

// Event and effect type tags used on the wire.
const (
	EventInput        = "input"
	EventKey          = "key"
	EventOutsideClick = "outside_click"
	EventSelectRow    = "select_row"
	EventPageHide     = "page_hide"

	EffectRender    = "render"
	EffectHighlight = "highlight"
	EffectClose     = "close"
	EffectNavigate  = "navigate"
)

// EventMessage is the JSON form of an Event.
type EventMessage struct {
	Type  string `json:"type" enum:"input,key,outside_click,select_row,page_hide" doc:"Event type"`
	Value string `json:"value,omitempty" doc:"Query text for input events"`
	Key   string `json:"key,omitempty" doc:"Key name for key events (ArrowDown, ArrowUp, Escape, Enter)"`
	Index int    `json:"index,omitempty" doc:"Row index for select_row events"`
}

// EffectMessage is the JSON form of an Effect.
type EffectMessage struct {
	Type        string       `json:"type" doc:"Effect type: render, highlight, close or navigate"`
	Rows        []Suggestion `json:"rows,omitempty" doc:"Rows to render"`
	Placeholder string       `json:"placeholder,omitempty" doc:"Placeholder row text when there are no rows"`
	Highlighted *int         `json:"highlighted,omitempty" doc:"Highlighted row index, -1 for none"`
	URL         string       `json:"url,omitempty" doc:"Navigation target"`
}

// Decode converts a wire message into an Event.
func (m EventMessage) Decode() (Event, error) {
	switch m.Type {
	case EventInput:
		return Input{Value: m.Value}, nil
	case EventKey:
		return Key{Name: m.Key}, nil
	case EventOutsideClick:
		return OutsideClick{}, nil
	case EventSelectRow:
		return SelectRow{Index: m.Index}, nil
	case EventPageHide:
		return PageHide{}, nil
	default:
		return nil, fmt.Errorf("unknown event type %q", m.Type)
	}
}

// EncodeEffects converts effects into wire messages.
func EncodeEffects(effects []Effect) []EffectMessage {
	out := make([]EffectMessage, 0, len(effects))
	for _, eff := range effects {
		switch e := eff.(type) {
		case Render:
			h := e.Highlighted
			out = append(out, EffectMessage{
				Type:        EffectRender,
				Rows:        e.Rows,
				Placeholder: e.Placeholder,
				Highlighted: &h,
			})
		case Highlight:
			h := e.Index
			out = append(out, EffectMessage{Type: EffectHighlight, Highlighted: &h})
		case Close:
			out = append(out, EffectMessage{Type: EffectClose})
		case Navigate:
			out = append(out, EffectMessage{Type: EffectNavigate, URL: e.URL})
		}
	}
	return out
}
