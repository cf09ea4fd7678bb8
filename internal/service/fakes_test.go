package service

import (
	"context"
	"errors"
	"sync"

	"disease-predictor-be/internal/entity"
	"disease-predictor-be/internal/repository/contract"
	"disease-predictor-be/pkg/events"
	"disease-predictor-be/pkg/inference"
)

type stubPredictor struct {
	mu     sync.Mutex
	result *inference.Result
	err    error
	calls  []entity.Features
}

func (p *stubPredictor) Predict(_ context.Context, features entity.Features) (*inference.Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, append(entity.Features(nil), features...))
	if p.err != nil {
		return nil, p.err
	}
	r := *p.result
	return &r, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

var errStoreDown = errors.New("connection refused")

// flakyUsers delegates to a real repository but can fail appends or lookups.
type flakyUsers struct {
	contract.UserRepository
	failAppend bool
	failFind   bool
}

func (r *flakyUsers) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	if r.failFind {
		return nil, errStoreDown
	}
	return r.UserRepository.FindByUsername(ctx, username)
}

func (r *flakyUsers) AppendPrediction(ctx context.Context, username string, record *entity.PredictionRecord) error {
	if r.failAppend {
		return errStoreDown
	}
	return r.UserRepository.AppendPrediction(ctx, username, record)
}

// flakySessions fails deletes on demand.
type flakySessions struct {
	contract.SessionRepository
	failDelete bool
}

func (r *flakySessions) Delete(ctx context.Context, id string) error {
	if r.failDelete {
		return errStoreDown
	}
	return r.SessionRepository.Delete(ctx, id)
}
