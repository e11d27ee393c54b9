// Package service wires form submission to the prediction endpoint and
// implements the dependencies required by the HTTP adapters.
package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/heartcheck/internal/adapters/notify"
	"github.com/okian/heartcheck/internal/adapters/predictor"
	"github.com/okian/heartcheck/internal/config"
	"github.com/okian/heartcheck/internal/domain/form"
	"github.com/okian/heartcheck/internal/domain/prediction"
	"github.com/okian/heartcheck/pkg/logger"
	"github.com/okian/heartcheck/pkg/metrics"
)

// Sentinel error kinds for this package.
var (
	ErrNotStarted = errors.New("service not started")
	ErrPrediction = errors.New("prediction failed")
)

// Submission results, used as metric labels.
const (
	resultDisplayed        = "displayed"
	resultErrorNotified    = "error_notified"
	resultValidationFailed = "validation_failed"
)

// Predictor is the remote endpoint a session submits to.
type Predictor interface {
	Predict(ctx context.Context, features form.Features) (prediction.Response, error)
}

// Service holds what every submission shares: the endpoint client, the
// base notifier and the counters behind /stats.
type Service struct {
	mu sync.RWMutex

	// Core components
	predictor Predictor
	notifier  notify.Notifier

	// Configuration
	predictURL string
	timeout    time.Duration

	// State
	started bool

	// Counters
	submissions      atomic.Int64
	displayed        atomic.Int64
	errorNotified    atomic.Int64
	validationFailed atomic.Int64

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithPredictURL sets the endpoint used when no Predictor is injected.
func WithPredictURL(url string) Option {
	return func(s *Service) {
		if url != "" {
			s.predictURL = url
		}
	}
}

// WithRequestTimeout bounds each prediction call. Zero means no bound.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.timeout = d
		}
	}
}

// WithPredictor injects the endpoint client.
func WithPredictor(p Predictor) Option {
	return func(s *Service) {
		if p != nil {
			s.predictor = p
		}
	}
}

// WithNotifier sets the notifier every session reports to in addition to
// its own.
func WithNotifier(n notify.Notifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		predictURL: config.DefaultPredictURL,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the components that were not injected.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Named("service")
	}
	if s.notifier == nil {
		s.notifier = notify.NewLog(s.logger)
	}
	if s.predictor == nil {
		s.predictor = predictor.New(s.predictURL,
			predictor.WithTimeout(s.timeout),
			predictor.WithLogger(s.logger.Named("predictor")),
		)
	}

	s.started = true
	s.logger.Info(ctx, "prediction service started",
		logger.String("predict_url", s.predictURL),
		logger.Duration("request_timeout", s.timeout),
	)
	return nil
}

// Stop marks the service as stopped. In-flight submissions are not
// cancelled.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "prediction service stopped")
}

// NewSession starts a submission session. Notifications raised by the
// session go to the service notifier and to each of extra.
func (s *Service) NewSession(extra ...notify.Notifier) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return nil, ErrNotStarted
	}
	n := make(notify.Multi, 0, len(extra)+1)
	n = append(n, s.notifier)
	n = append(n, extra...)
	return &Session{
		svc:       s,
		predictor: s.predictor,
		notifier:  n,
		state:     prediction.StateIdle,
	}, nil
}

func (s *Service) recordValidation(errs form.ValidationErrors) {
	s.validationFailed.Add(1)
	metrics.RecordSubmission(resultValidationFailed)
	for f := range errs {
		metrics.RecordValidationFailure(string(f))
	}
}

func (s *Service) recordSettled(ok bool) {
	s.submissions.Add(1)
	if ok {
		s.displayed.Add(1)
		metrics.RecordSubmission(resultDisplayed)
		return
	}
	s.errorNotified.Add(1)
	metrics.RecordSubmission(resultErrorNotified)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"started":          s.started,
		"predictUrl":       s.predictURL,
		"requestTimeoutMs": s.timeout.Milliseconds(),
		"submissions":      s.submissions.Load(),
		"displayed":        s.displayed.Load(),
		"errorNotified":    s.errorNotified.Load(),
		"validationFailed": s.validationFailed.Load(),
	}
}
