package tarmac

import (
	"bytes"
	"errors"
	"regexp"

	proto "github.com/tarmac-project/protobuf-go/sdk/metrics"
)

const (
	metricsCapability = "metrics"
	fnCounter         = "counter"
	fnGauge           = "gauge"
	fnHistogram       = "histogram"
	actionInc         = "inc"
	actionDec         = "dec"
)

var (
	// ErrInvalidMetricName indicates a metric name the host would reject.
	ErrInvalidMetricName = errors.New("metric name is invalid")

	isMetricNameValid = regexp.MustCompile(`^[a-zA-Z0-9_:][a-zA-Z0-9_:]*$`)

	errorEnvelope = []byte(`{"error"`)
)

// Metrics emits entry point metrics through the metrics capability. Every
// emit is best effort; a failing host call never fails the contract call.
type Metrics struct {
	namespace string
	prefix    string
	hostCall  HostCall
}

// NewMetrics creates a Metrics whose names start with prefix.
func NewMetrics(config Config, prefix string) (*Metrics, error) {
	config = config.withDefaults()
	if prefix != "" && !isMetricNameValid.MatchString(prefix) {
		return nil, ErrInvalidMetricName
	}
	return &Metrics{namespace: config.SDKConfig.Namespace, prefix: prefix, hostCall: config.HostCall}, nil
}

func (m *Metrics) name(s string) string {
	if m.prefix == "" {
		return s
	}
	return m.prefix + "_" + s
}

// Counter increments the named counter.
func (m *Metrics) Counter(name string) {
	payload, err := (&proto.MetricsCounter{Name: m.name(name)}).MarshalVT()
	if err != nil {
		return
	}
	_, _ = m.hostCall(m.namespace, metricsCapability, fnCounter, payload)
}

// Gauge moves the named gauge up or down by one.
func (m *Metrics) Gauge(name string, up bool) {
	action := actionDec
	if up {
		action = actionInc
	}
	payload, err := (&proto.MetricsGauge{Name: m.name(name), Action: action}).MarshalVT()
	if err != nil {
		return
	}
	_, _ = m.hostCall(m.namespace, metricsCapability, fnGauge, payload)
}

// Observe records value in the named histogram.
func (m *Metrics) Observe(name string, value float64) {
	payload, err := (&proto.MetricsHistogram{Name: m.name(name), Value: value}).MarshalVT()
	if err != nil {
		return
	}
	_, _ = m.hostCall(m.namespace, metricsCapability, fnHistogram, payload)
}

// instrument wraps an entry point handler. It counts calls and error
// envelopes, tracks calls in flight and observes the envelope size.
func (m *Metrics) instrument(entry string, fn func([]byte) ([]byte, error)) func([]byte) ([]byte, error) {
	if m == nil {
		return fn
	}
	return func(b []byte) ([]byte, error) {
		m.Counter(entry + "_calls")
		m.Gauge("inflight", true)
		defer m.Gauge("inflight", false)

		out, err := fn(b)
		if err != nil || bytes.HasPrefix(out, errorEnvelope) {
			m.Counter(entry + "_errors")
		}
		m.Observe(entry+"_response_bytes", float64(len(out)))
		return out, err
	}
}
