// Package queryservice implements the downstream QueryService external
// collaborator: forwarding an uploaded MTB file, and instructing deletion
// of a patient's record, over HTTP, with a circuit breaker and a
// request-rate limiter guarding the remote dependency.
package queryservice

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/dnpm-intake/mtbvalidate/internal/domain"
)

// QueryService exposes two operations: send(Upload(file)),
// send(Delete(patient.id)).
type QueryService interface {
	Upload(ctx context.Context, file domain.MTBFile) error
	Delete(ctx context.Context, patient domain.PatientID) error
}

// Config configures the HTTP client.
type Config struct {
	BaseURL     string
	Timeout     time.Duration
	RateLimit   rate.Limit
	RateBurst   int
	MaxRequests uint32
	Interval    time.Duration
	BreakerOpen time.Duration
}

// HTTPClient is the production QueryService, wrapping net/http in a rate
// limiter and a gobreaker circuit breaker so a struggling downstream
// service degrades the pipeline instead of cascading failures into it.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	log     *logrus.Logger
}

// NewHTTPClient builds an HTTPClient from cfg.
func NewHTTPClient(cfg Config, logger *logrus.Logger) *HTTPClient {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "query-service",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.BreakerOpen,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(logrus.Fields{"breaker": name, "from": from, "to": to}).Warn("query service circuit breaker state change")
		},
	})

	return &HTTPClient{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(cfg.RateLimit, cfg.RateBurst),
		breaker: breaker,
		log:     logger,
	}
}

// Upload forwards file to the query service.
func (c *HTTPClient) Upload(ctx context.Context, file domain.MTBFile) error {
	payload, err := json.Marshal(file)
	if err != nil {
		return fmt.Errorf("queryservice: marshal mtb file: %w", err)
	}
	_, err = c.do(ctx, http.MethodPost, "/mtbfile", payload)
	if err != nil {
		c.log.WithFields(logrus.Fields{"patient": file.Patient.ID, "error": err}).Error("forwarding mtb file failed")
		return err
	}
	return nil
}

// Delete instructs the query service to remove its record for patient.
func (c *HTTPClient) Delete(ctx context.Context, patient domain.PatientID) error {
	path := fmt.Sprintf("/patient/%s", patient)
	_, err := c.do(ctx, http.MethodDelete, path, nil)
	if err != nil {
		c.log.WithFields(logrus.Fields{"patient": patient, "error": err}).Error("query service delete failed")
		return err
	}
	return nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("queryservice: rate limiter: %w", err)
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("queryservice: building request: %w", err)
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("queryservice: request failed: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 300 {
			return nil, fmt.Errorf("queryservice: unexpected status %d", resp.StatusCode)
		}
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}
	return result.([]byte), nil
}
