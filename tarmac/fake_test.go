package tarmac

import (
	"errors"
	"fmt"
	"sort"

	sdkproto "github.com/tarmac-project/protobuf-go/sdk"
	proto "github.com/tarmac-project/protobuf-go/sdk/kvstore"
	metricsproto "github.com/tarmac-project/protobuf-go/sdk/metrics"
	pb "google.golang.org/protobuf/proto"
)

// fakeHost answers kvstore, logging and metrics host calls from memory.
type fakeHost struct {
	namespace string
	data      map[string][]byte
	logs      []string
	calls     []string
	metrics   []string
}

func newFakeHost(namespace string) *fakeHost {
	return &fakeHost{namespace: namespace, data: map[string][]byte{}}
}

func marshal(m pb.Message) []byte {
	b, err := pb.Marshal(m)
	if err != nil {
		panic(err)
	}
	return b
}

func (f *fakeHost) HostCall(namespace, capability, function string, payload []byte) ([]byte, error) {
	if namespace != f.namespace {
		return nil, fmt.Errorf("unexpected namespace %s", namespace)
	}
	f.calls = append(f.calls, capability+"/"+function)

	switch capability {
	case logCapability:
		f.logs = append(f.logs, string(payload))
		return nil, nil
	case metricsCapability:
		return nil, f.recordMetric(function, payload)
	case kvCapability:
	default:
		return nil, fmt.Errorf("unexpected capability %s", capability)
	}

	ok := &sdkproto.Status{Status: "OK", Code: 200}
	switch function {
	case fnGet:
		var req proto.KVStoreGet
		if err := pb.Unmarshal(payload, &req); err != nil {
			return nil, err
		}
		v, found := f.data[req.GetKey()]
		if !found {
			return marshal(&proto.KVStoreGetResponse{Status: &sdkproto.Status{Status: "NotFound", Code: 404}}), nil
		}
		return marshal(&proto.KVStoreGetResponse{Status: ok, Data: v}), nil
	case fnSet:
		var req proto.KVStoreSet
		if err := pb.Unmarshal(payload, &req); err != nil {
			return nil, err
		}
		f.data[req.GetKey()] = append([]byte(nil), req.GetData()...)
		return marshal(&proto.KVStoreSetResponse{Status: ok}), nil
	case fnDelete:
		var req proto.KVStoreDelete
		if err := pb.Unmarshal(payload, &req); err != nil {
			return nil, err
		}
		if _, found := f.data[req.GetKey()]; !found {
			return marshal(&proto.KVStoreDeleteResponse{Status: &sdkproto.Status{Status: "NotFound", Code: 404}}), nil
		}
		delete(f.data, req.GetKey())
		return marshal(&proto.KVStoreDeleteResponse{Status: ok}), nil
	case fnKeys:
		keys := make([]string, 0, len(f.data))
		for k := range f.data {
			keys = append(keys, k)
		}
		// The capability does not promise any order.
		sort.Sort(sort.Reverse(sort.StringSlice(keys)))
		return marshal(&proto.KVStoreKeysResponse{Status: ok, Keys: keys}), nil
	}
	return nil, errors.New("unexpected function " + function)
}

// recordMetric stores "kind name" for counters, "gauge name action" for
// gauges and "histogram name value" for histograms.
func (f *fakeHost) recordMetric(function string, payload []byte) error {
	switch function {
	case fnCounter:
		var m metricsproto.MetricsCounter
		if err := m.UnmarshalVT(payload); err != nil {
			return err
		}
		f.metrics = append(f.metrics, "counter "+m.GetName())
	case fnGauge:
		var m metricsproto.MetricsGauge
		if err := m.UnmarshalVT(payload); err != nil {
			return err
		}
		f.metrics = append(f.metrics, "gauge "+m.GetName()+" "+m.GetAction())
	case fnHistogram:
		var m metricsproto.MetricsHistogram
		if err := m.UnmarshalVT(payload); err != nil {
			return err
		}
		f.metrics = append(f.metrics, fmt.Sprintf("histogram %s %g", m.GetName(), m.GetValue()))
	default:
		return errors.New("unexpected metrics function " + function)
	}
	return nil
}
