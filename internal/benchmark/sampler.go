package benchmark

import (
	"context"
	"encoding/json"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/lambdatune/lambdatune/internal/lambdaapi"
)

// SampleResult is the outcome of a single invocation, immutable once
// produced. DurationMS is only meaningful when Success is true.
type SampleResult struct {
	Success    bool
	DurationMS int
	ColdStart  bool
	Err        string
}

// sampler runs one synchronous invocation at a time against the target and
// classifies the outcome. Retry policy lives in the collector, not here.
type sampler struct {
	api       lambdaapi.API
	function  string
	payload   []byte
	timeoutMS int
	logger    *log.Entry
}

// sample invokes the target once. The response payload must be a JSON
// object with an integer "remaining_time" (milliseconds left on the
// function's execution clock); duration is the configured timeout minus
// that. "cold_start" is optional and defaults to false.
func (s *sampler) sample(ctx context.Context) SampleResult {
	res, err := s.api.Invoke(ctx, s.function, s.payload)
	if err != nil {
		return s.failure(fmt.Errorf("%w (%s): %v", ErrInvoke, s.function, err))
	}
	if res.FunctionError != "" {
		return s.failure(fmt.Errorf("%w (%s): function error %s", ErrInvoke, s.function, res.FunctionError))
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(res.Payload, &fields); err != nil || fields == nil {
		return s.failure(fmt.Errorf("%w: payload is not a JSON object", ErrPayloadShape))
	}

	var remaining int
	rawRemaining, ok := fields["remaining_time"]
	if !ok || json.Unmarshal(rawRemaining, &remaining) != nil {
		return s.failure(fmt.Errorf("%w: no integer \"remaining_time\" in payload", ErrPayloadShape))
	}

	coldStart := false
	if raw, ok := fields["cold_start"]; ok {
		_ = json.Unmarshal(raw, &coldStart)
	}

	return SampleResult{
		Success:    true,
		DurationMS: s.timeoutMS - remaining,
		ColdStart:  coldStart,
	}
}

func (s *sampler) failure(err error) SampleResult {
	s.logger.Warn(err)
	return SampleResult{Err: err.Error()}
}
