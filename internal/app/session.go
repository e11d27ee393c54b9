package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/heartcheck/internal/adapters/notify"
	"github.com/okian/heartcheck/internal/domain/form"
	"github.com/okian/heartcheck/internal/domain/prediction"
	"github.com/okian/heartcheck/pkg/metrics"
)

// Session is one form instance's view of its submissions: whether a
// request is loading, the current result, and the lifecycle state.
//
// Submissions are not de-duplicated. Each Submit issues its own request and
// the session stays loading until all of them have settled.
type Session struct {
	svc       *Service
	predictor Predictor
	notifier  notify.Notifier

	mu       sync.Mutex
	state    prediction.State
	inFlight int
	result   *prediction.Response
}

// Submit validates the holder and, when it is valid, sends one prediction
// request. Validation failures are returned as *form.ValidationError and
// are also left on the holder; nothing is sent in that case. Endpoint
// failures raise exactly one error notification, keep the previous result
// and are returned wrapped in ErrPrediction.
func (s *Session) Submit(ctx context.Context, h *form.Holder) (prediction.Response, error) {
	if errs := h.Validate(); !errs.Valid() {
		s.svc.recordValidation(errs)
		return prediction.Response{}, errs.Err()
	}

	features, errs := h.Record().Features()
	if !errs.Valid() {
		h.Reject(errs)
		s.svc.recordValidation(errs)
		return prediction.Response{}, errs.Err()
	}

	s.begin()
	resp, err := s.predictor.Predict(ctx, features)
	s.settle(ctx, resp, err)

	if err != nil {
		return prediction.Response{}, fmt.Errorf("%w: %w", ErrPrediction, err)
	}
	return resp, nil
}

func (s *Session) begin() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inFlight == 0 {
		s.state, _ = s.state.Transition(prediction.StateLoading)
	}
	s.inFlight++
	metrics.IncInFlight()
}

func (s *Session) settle(ctx context.Context, resp prediction.Response, err error) {
	s.mu.Lock()
	s.inFlight--
	metrics.DecInFlight()

	next := prediction.StateDisplayed
	if err != nil {
		next = prediction.StateErrorNotified
	} else {
		r := resp
		s.result = &r
	}
	if s.inFlight == 0 {
		s.state, _ = s.state.Transition(next)
	}
	s.mu.Unlock()

	s.svc.recordSettled(err == nil)
	if err != nil {
		s.notifier.Notify(ctx, "Error: "+err.Error(), notify.LevelError)
	}
}

// Loading reports whether a request is in flight.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight > 0
}

// State returns the lifecycle state.
func (s *Session) State() prediction.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Result returns the current result, if any request has succeeded.
func (s *Session) Result() (prediction.Response, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return prediction.Response{}, false
	}
	return *s.result, true
}

// Restore seeds the current result, e.g. with the result shown by the
// previous page render. It does not change the state.
func (s *Session) Restore(resp prediction.Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := resp
	s.result = &r
}
