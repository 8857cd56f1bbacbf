package counter

import (
	"encoding/json"

	"github.com/cosmology-tech/cosmwasm-go/std"
)

// InstantiateMsg sets the initial count. The sender becomes the owner.
type InstantiateMsg struct {
	Count int32 `json:"count"`
}

// ExecuteMsg is one of Increment or Reset.
type ExecuteMsg interface{ isExecuteMsg() }

// Increment adds one to the count.
type Increment struct{}

// Reset sets the count. Only the owner may reset.
type Reset struct {
	Count int32 `json:"count"`
}

func (Increment) isExecuteMsg() {}
func (Reset) isExecuteMsg()     {}

// QueryMsg is GetCount.
type QueryMsg interface{ isQueryMsg() }

// GetCount returns the current count.
type GetCount struct{}

func (GetCount) isQueryMsg() {}

// CountResponse answers GetCount.
type CountResponse struct {
	Count int32 `json:"count"`
}

var executeMsgs = std.Union[ExecuteMsg]{
	Kind: "message",
	Cases: map[string]func(json.RawMessage) (ExecuteMsg, error){
		"increment": std.Case(func(m Increment) ExecuteMsg { return m }),
		"reset":     std.Case(func(m Reset) ExecuteMsg { return m }),
	},
}

var queryMsgs = std.Union[QueryMsg]{
	Kind: "query",
	Cases: map[string]func(json.RawMessage) (QueryMsg, error){
		"get_count": std.Case(func(m GetCount) QueryMsg { return m }),
	},
}
