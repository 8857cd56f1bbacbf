//go:build !wasm

package imports

import (
	"errors"
	"testing"
)

func TestWasmOutsideWasm(t *testing.T) {
	defer func() {
		err, ok := recover().(error)
		if !ok || !errors.Is(err, ErrUnavailable) {
			t.Fatalf("expected ErrUnavailable panic, got %v", err)
		}
	}()
	Wasm().Debug(1)
}
