// Package prediction describes the wire contract of the remote prediction
// endpoint and the lifecycle of a single submission.
package prediction

import (
	"errors"
	"fmt"
)

// Literal classifications returned by the endpoint.
const (
	TextHealthy   = "The person does not have heart disease"
	TextUnhealthy = "The person has heart disease"
)

// Request is the body POSTed to the endpoint.
type Request struct {
	InputData []float64 `json:"input_data"`
}

// Response is the body returned by the endpoint. Error is only set by
// failing backends and is never part of a successful result.
type Response struct {
	Prediction string `json:"prediction"`
	Error      string `json:"error,omitempty"`
}

// Outcome is the rendered interpretation of a Response.
type Outcome string

// Outcomes. OutcomeUnknown renders neither result panel.
const (
	OutcomeUnknown   Outcome = "unknown"
	OutcomeHealthy   Outcome = "healthy"
	OutcomeUnhealthy Outcome = "unhealthy"
)

// Classify maps a prediction string to its outcome. Only the two exact
// literals are recognised.
func Classify(prediction string) Outcome {
	switch prediction {
	case TextHealthy:
		return OutcomeHealthy
	case TextUnhealthy:
		return OutcomeUnhealthy
	default:
		return OutcomeUnknown
	}
}

// Outcome classifies r.
func (r Response) Outcome() Outcome { return Classify(r.Prediction) }

// State is the phase of one submission cycle.
type State string

// States.
const (
	StateIdle          State = "idle"
	StateLoading       State = "loading"
	StateDisplayed     State = "displayed"
	StateErrorNotified State = "error_notified"
)

// ErrInvalidTransition is returned for moves the lifecycle does not allow.
var ErrInvalidTransition = errors.New("invalid state transition")

// Transition returns the state reached by moving from s to next. A new
// submission may start from any state except loading; loading ends in
// either displayed or error_notified.
func (s State) Transition(next State) (State, error) {
	ok := false
	switch next {
	case StateLoading:
		ok = s != StateLoading
	case StateDisplayed, StateErrorNotified:
		ok = s == StateLoading
	}
	if !ok {
		return s, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s, next)
	}
	return next, nil
}
