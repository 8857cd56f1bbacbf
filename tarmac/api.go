package tarmac

import (
	"errors"

	sdk "github.com/cosmology-tech/cosmwasm-go"
	"github.com/cosmology-tech/cosmwasm-go/std"
)

const (
	logCapability = "logging"
	fnDebug       = "Debug"
)

// ErrUnsupported is returned for Api calls the Tarmac host cannot serve.
var ErrUnsupported = errors.New("not supported by the tarmac host")

// Api is a std.Api for Tarmac. Debug messages go to the logging capability;
// address and signature calls fail with ErrUnsupported.
type Api struct {
	runtime  sdk.RuntimeConfig
	hostCall HostCall
}

var _ std.Api = (*Api)(nil)

// NewApi creates an Api.
func NewApi(config Config) *Api {
	config = config.withDefaults()
	return &Api{runtime: config.SDKConfig, hostCall: config.HostCall}
}

func (a *Api) AddrValidate(string) error                    { return ErrUnsupported }
func (a *Api) AddrCanonicalize(string) ([]byte, error)      { return nil, ErrUnsupported }
func (a *Api) AddrHumanize([]byte) (string, error)          { return "", ErrUnsupported }
func (a *Api) Secp256k1Verify(_, _, _ []byte) (bool, error) { return false, ErrUnsupported }

func (a *Api) Secp256k1RecoverPubkey(_, _ []byte, _ uint8) ([]byte, error) {
	return nil, ErrUnsupported
}

func (a *Api) Ed25519Verify(_, _, _ []byte) (bool, error) { return false, ErrUnsupported }

func (a *Api) Ed25519BatchVerify(_, _, _ [][]byte) (bool, error) { return false, ErrUnsupported }

// Debug sends message to the logging capability. Failures are ignored.
func (a *Api) Debug(message string) {
	_, _ = a.hostCall(a.runtime.Namespace, logCapability, fnDebug, []byte(message))
}
