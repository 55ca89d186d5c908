package main

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/aws/aws-lambda-go/lambda"
	log "github.com/sirupsen/logrus"

	"github.com/lambdatune/lambdatune/internal/benchmark"
	"github.com/lambdatune/lambdatune/internal/lambdaapi"
)

// response is the envelope returned to the caller. Status follows HTTP
// semantics so API-gateway style callers can branch on it.
type response struct {
	Status  int               `json:"status"`
	Results *benchmark.Report `json:"results,omitempty"`
	Errors  []string          `json:"errors"`
}

func handler(ctx context.Context, event json.RawMessage) (response, error) {
	// Log the raw event for debugging and audit purposes.
	log.WithField("event", string(event)).Info("received benchmark event")

	cfg, err := benchmark.ParseEvent(event)
	if err != nil {
		return response{Status: 400, Errors: []string{err.Error()}}, nil
	}
	if cfg.Verbose {
		log.SetLevel(log.DebugLevel)
	}

	api, err := lambdaapi.New(ctx, "")
	if err != nil {
		log.Error(err)
		return response{Status: 500, Errors: []string{"sorry, there was an internal error"}}, nil
	}

	sess := benchmark.NewSession(api, cfg)
	report, publicErrors, err := sess.Run(ctx)
	if err != nil {
		if errors.Is(err, benchmark.ErrConfigSave) {
			return response{Status: 500, Errors: []string{err.Error()}}, nil
		}
		log.Error(err)
		return response{Status: 500, Errors: []string{"sorry, there was an internal error"}}, nil
	}

	resp := response{Status: 200, Results: report, Errors: publicErrors}
	log.WithFields(log.Fields{
		"run_id":        sess.RunID(),
		"public_errors": len(publicErrors),
	}).Info("benchmark run finished")
	return resp, nil
}

func main() {
	lambda.Start(handler)
}
