package counter

import "github.com/cosmology-tech/cosmwasm-go/storage"

// State is the stored contract state.
type State struct {
	Owner string `json:"owner"`
	Count int32  `json:"count"`
}

var state = storage.NewItem[State]("state")
