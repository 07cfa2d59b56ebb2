package queryservice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/dnpm-intake/mtbvalidate/internal/domain"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel)
	return logger
}

func newTestClient(t *testing.T, server *httptest.Server) *HTTPClient {
	t.Helper()
	return NewHTTPClient(Config{
		BaseURL:     server.URL,
		Timeout:     2 * time.Second,
		RateLimit:   rate.Inf,
		RateBurst:   1,
		MaxRequests: 1,
		Interval:    time.Second,
		BreakerOpen: time.Second,
	}, testLogger())
}

func TestHTTPClient_UploadSuccess(t *testing.T) {
	var gotMethod, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	file := domain.MTBFile{Patient: domain.Patient{ID: "P1", Gender: domain.GenderMale}}

	err := client.Upload(context.Background(), file)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/mtbfile", gotPath)
}

func TestHTTPClient_DeleteSuccess(t *testing.T) {
	var gotMethod, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	err := client.Delete(context.Background(), domain.PatientID("P1"))
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/patient/P1", gotPath)
}

func TestHTTPClient_UploadServerErrorPropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	file := domain.MTBFile{Patient: domain.Patient{ID: "P1", Gender: domain.GenderMale}}

	err := client.Upload(context.Background(), file)
	assert.Error(t, err)
}

func TestHTTPClient_BreakerOpensAfterRepeatedFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server)
	patient := domain.PatientID("P1")

	for i := 0; i < 5; i++ {
		_ = client.Delete(context.Background(), patient)
	}

	err := client.Delete(context.Background(), patient)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}
