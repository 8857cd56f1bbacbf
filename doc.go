/*
Package sdk provides the core entry point and runtime configuration for
building CosmWasm contracts in Go.

New wires a contract to the module: it builds the typed host imports, a
logger writing through the debug import and an entrypoint.Dispatcher, and
registers the dispatcher with the exports the host calls. DefaultNamespace
is used when a namespace is not explicitly provided.

	func main() {}

	func init() {
		_, err := sdk.New(sdk.Config[InstantiateMsg, ExecuteMsg, QueryMsg]{
			Contract: counter.Contract(),
		})
		if err != nil {
			panic(err)
		}
	}

The packages below the root provide the pieces: region and memory for the
buffer protocol, imports for the host functions, std for the message types,
storage for typed state and entrypoint for dispatch.
*/
package sdk
