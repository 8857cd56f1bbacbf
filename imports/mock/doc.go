/*
Package mock provides an in-memory implementation of imports.Host for
testing contracts and SDK components without a chain.

Storage is an ordered map; iterators opened with DBScan see a snapshot of the
matching records. Addresses use bech32 with the configured prefix, and the
signature imports perform real secp256k1 and ed25519 verification.

# Basic Usage

	host := mock.New(mock.Config{Seed: map[string][]byte{"config": []byte(`{}`)}})
	value, found, err := host.DBRead([]byte("config"))

# Overriding Behavior

	host.OnRead([]byte("config")).ReturnError(errors.New("disk on fire"))
	host.OnQuery().ReturnValue([]byte(`{"ok":{"ok":"e30="}}`))

# Inspecting Calls

	for _, c := range host.Calls {
		// c.Op, c.Key, c.Value
	}

Debug output is collected in Logs. Abort records its message in Aborts and
panics with *AbortError, mirroring a host trap.
*/
package mock
