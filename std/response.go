package std

import (
	"encoding/json"
	"fmt"
)

// ReplyOn controls when the contract receives a reply for a SubMsg.
type ReplyOn string

const (
	ReplyAlways  ReplyOn = "always"
	ReplySuccess ReplyOn = "success"
	ReplyError   ReplyOn = "error"
	ReplyNever   ReplyOn = "never"
)

// Attribute is a key/value pair attached to the wasm event or a custom event.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Event is a custom event emitted by the contract.
type Event struct {
	Type       string      `json:"type"`
	Attributes []Attribute `json:"attributes"`
}

// NewEvent returns an event of the given type without attributes.
func NewEvent(typ string) Event { return Event{Type: typ, Attributes: []Attribute{}} }

// AddAttribute appends an attribute to the event.
func (e Event) AddAttribute(key, value string) Event {
	e.Attributes = append(e.Attributes, Attribute{Key: key, Value: value})
	return e
}

// SubMsg is a CosmosMsg with reply settings.
type SubMsg struct {
	ID       uint64    `json:"id"`
	Msg      CosmosMsg `json:"msg"`
	GasLimit *uint64   `json:"gas_limit"`
	ReplyOn  ReplyOn   `json:"reply_on"`
}

// NewSubMsg wraps msg so that no reply is requested.
func NewSubMsg(msg CosmosMsg) SubMsg { return SubMsg{Msg: msg, ReplyOn: ReplyNever} }

// UnmarshalJSON implements json.Unmarshaler, decoding the tagged message.
func (s *SubMsg) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID       uint64          `json:"id"`
		Msg      json.RawMessage `json:"msg"`
		GasLimit *uint64         `json:"gas_limit"`
		ReplyOn  ReplyOn         `json:"reply_on"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %w", ErrDeserialize, err)
	}
	msg, err := DecodeCosmosMsg(raw.Msg)
	if err != nil {
		return err
	}
	*s = SubMsg{ID: raw.ID, Msg: msg, GasLimit: raw.GasLimit, ReplyOn: raw.ReplyOn}
	return nil
}

// Response is the result of a successful instantiate or execute call.
type Response struct {
	Messages   []SubMsg    `json:"messages"`
	Attributes []Attribute `json:"attributes"`
	Events     []Event     `json:"events"`
	Data       Binary      `json:"data"`
}

// NewResponse returns an empty response.
func NewResponse() Response { return Response{} }

// AddAttribute appends an attribute to the wasm event.
func (r Response) AddAttribute(key, value string) Response {
	r.Attributes = append(r.Attributes, Attribute{Key: key, Value: value})
	return r
}

// AddAttributes appends several attributes to the wasm event.
func (r Response) AddAttributes(attrs ...Attribute) Response {
	r.Attributes = append(r.Attributes, attrs...)
	return r
}

// AddMessage appends a message that is dispatched without reply.
func (r Response) AddMessage(msg CosmosMsg) Response {
	r.Messages = append(r.Messages, NewSubMsg(msg))
	return r
}

// AddSubMessage appends a submessage.
func (r Response) AddSubMessage(msg SubMsg) Response {
	r.Messages = append(r.Messages, msg)
	return r
}

// AddEvent appends a custom event.
func (r Response) AddEvent(e Event) Response {
	r.Events = append(r.Events, e)
	return r
}

// SetData sets the data field returned to the caller.
func (r Response) SetData(data Binary) Response {
	r.Data = data
	return r
}

// Attribute returns the value of the first attribute named key.
func (r Response) Attribute(key string) (string, bool) {
	for _, a := range r.Attributes {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// MarshalJSON encodes empty lists as [] rather than null.
func (r Response) MarshalJSON() ([]byte, error) {
	type plain Response
	if r.Messages == nil {
		r.Messages = []SubMsg{}
	}
	if r.Attributes == nil {
		r.Attributes = []Attribute{}
	}
	if r.Events == nil {
		r.Events = []Event{}
	}
	return json.Marshal(plain(r))
}
