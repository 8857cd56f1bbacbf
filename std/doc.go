/*
Package std holds the data types exchanged with a CosmWasm host and the
helpers contracts use to build them.

Env, MessageInfo, Coin and Timestamp describe the context of a call. Uint128
carries token amounts with checked arithmetic and encodes as a decimal
string. Binary is base64 in JSON; query results are JSON documents wrapped
in Binary, so they appear double encoded on the wire.

Messages are externally tagged unions. Union decodes them centrally and
rejects objects with zero or several variants, so contracts only switch on
Go types:

	var executeMsgs = std.Union[ExecuteMsg]{
		Kind: "message",
		Cases: map[string]func(json.RawMessage) (ExecuteMsg, error){
			"increment": std.Case(func(m Increment) ExecuteMsg { return m }),
			"reset":     std.Case(func(m Reset) ExecuteMsg { return m }),
		},
	}

ContractResult is the {"ok":...} / {"error":...} envelope. Response,
CosmosMsg and SubMsg describe what a successful execution asks the chain to
do next. Api and Querier expose the address, crypto and query imports.
*/
package std
