package counter

import (
	"errors"

	"github.com/cosmology-tech/cosmwasm-go/entrypoint"
	"github.com/cosmology-tech/cosmwasm-go/std"
	"go.uber.org/zap"
)

// ErrUnauthorized is returned when someone other than the owner resets.
var ErrUnauthorized = errors.New("Unauthorized")

// Contract returns the counter handlers.
func Contract() entrypoint.Contract[InstantiateMsg, ExecuteMsg, QueryMsg] {
	return entrypoint.Contract[InstantiateMsg, ExecuteMsg, QueryMsg]{
		Instantiate:   Instantiate,
		Execute:       Execute,
		Query:         Query,
		DecodeExecute: executeMsgs.Decoder(),
		DecodeQuery:   queryMsgs.Decoder(),
	}
}

// Instantiate stores the initial count with the sender as owner.
func Instantiate(deps entrypoint.Deps, _ std.Env, info std.MessageInfo, msg InstantiateMsg) (std.Response, error) {
	if err := state.Save(deps.Storage, State{Owner: info.Sender, Count: msg.Count}); err != nil {
		return std.Response{}, err
	}
	deps.Logger.Debug("counter instantiated", zap.String("owner", info.Sender), zap.Int32("count", msg.Count))
	return std.NewResponse().
		AddAttribute("method", "instantiate").
		AddAttribute("owner", info.Sender), nil
}

// Execute dispatches ExecuteMsg.
func Execute(deps entrypoint.Deps, _ std.Env, info std.MessageInfo, msg ExecuteMsg) (std.Response, error) {
	switch m := msg.(type) {
	case Increment:
		return increment(deps)
	case Reset:
		return reset(deps, info, m.Count)
	default:
		return std.Response{}, errors.New("Unknown message")
	}
}

func increment(deps entrypoint.Deps) (std.Response, error) {
	s, err := state.Update(deps.Storage, func(s State) (State, error) {
		s.Count++
		return s, nil
	})
	if err != nil {
		return std.Response{}, err
	}
	deps.Logger.Debug("counter incremented", zap.Int32("count", s.Count))
	return std.NewResponse().AddAttribute("method", "increment"), nil
}

func reset(deps entrypoint.Deps, info std.MessageInfo, count int32) (std.Response, error) {
	_, err := state.Update(deps.Storage, func(s State) (State, error) {
		if info.Sender != s.Owner {
			return s, ErrUnauthorized
		}
		s.Count = count
		return s, nil
	})
	if err != nil {
		if errors.Is(err, ErrUnauthorized) {
			deps.Log.Warn("counter reset refused for " + info.Sender)
		}
		return std.Response{}, err
	}
	deps.Log.Info("counter reset")
	return std.NewResponse().AddAttribute("method", "reset"), nil
}

// Query dispatches QueryMsg.
func Query(deps entrypoint.Deps, _ std.Env, msg QueryMsg) (std.Binary, error) {
	switch msg.(type) {
	case GetCount:
		s, err := state.Load(deps.Storage)
		if err != nil {
			return nil, err
		}
		return std.ToBinary(CountResponse{Count: s.Count})
	default:
		return nil, errors.New("Unknown query")
	}
}
