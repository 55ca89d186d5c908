package lambdaapi

import (
	"context"
	"fmt"
	"sync"
)

type getResponse struct {
	cfg *FunctionConfig
	err error
}

type setResponse struct {
	err error
}

type invokeResponse struct {
	res *InvokeResult
	err error
}

// Stub is an in-memory API implementation for testing, driven by queues of
// canned responses consumed one per call. A single mutex guards the cursors
// so concurrent samplers draw a deterministic sequence.
type Stub struct {
	mu sync.Mutex

	gets    []getResponse
	sets    []setResponse
	invokes []invokeResponse

	// DefaultInvoke, when set, answers Invoke calls after the seeded queue
	// is exhausted.
	DefaultInvoke *InvokeResult

	GetCalls    int
	SetCalls    int
	InvokeCalls int

	// SetConfigs records the memory/timeout passed to each SetConfig call,
	// in order, for test assertions.
	SetConfigs []FunctionConfig
}

// NewStub creates an empty Stub. Every operation without a seeded response
// (or default) fails, so tests only exercise what they seed.
func NewStub() *Stub {
	return &Stub{}
}

// SeedGetConfig queues one GetConfig response.
func (s *Stub) SeedGetConfig(cfg *FunctionConfig, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets = append(s.gets, getResponse{cfg: cfg, err: err})
}

// SeedSetConfig queues one SetConfig response.
func (s *Stub) SeedSetConfig(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets = append(s.sets, setResponse{err: err})
}

// SeedInvoke queues one Invoke response.
func (s *Stub) SeedInvoke(res *InvokeResult, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invokes = append(s.invokes, invokeResponse{res: res, err: err})
}

// SeedInvokePayload queues a successful Invoke response with the given JSON
// payload.
func (s *Stub) SeedInvokePayload(payload string) {
	s.SeedInvoke(&InvokeResult{Payload: []byte(payload), StatusCode: 200}, nil)
}

func (s *Stub) GetConfig(_ context.Context, function string) (*FunctionConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.GetCalls++
	if len(s.gets) == 0 {
		return nil, fmt.Errorf("stub: no GetConfig response seeded for %s", function)
	}
	r := s.gets[0]
	s.gets = s.gets[1:]
	return r.cfg, r.err
}

func (s *Stub) SetConfig(_ context.Context, function string, memoryMB, timeoutMS int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SetCalls++
	s.SetConfigs = append(s.SetConfigs, FunctionConfig{MemoryMB: memoryMB, TimeoutMS: timeoutMS})
	if len(s.sets) == 0 {
		return fmt.Errorf("stub: no SetConfig response seeded for %s", function)
	}
	r := s.sets[0]
	s.sets = s.sets[1:]
	return r.err
}

func (s *Stub) Invoke(_ context.Context, function string, _ []byte) (*InvokeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.InvokeCalls++
	if len(s.invokes) == 0 {
		if s.DefaultInvoke != nil {
			return s.DefaultInvoke, nil
		}
		return nil, fmt.Errorf("stub: no Invoke response seeded for %s", function)
	}
	r := s.invokes[0]
	s.invokes = s.invokes[1:]
	return r.res, r.err
}
