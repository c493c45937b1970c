package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/streamhub/accounts/internal/logging"
)

func TestRecordHTTPRequest(t *testing.T) {
	HTTPRequestsTotal.Reset()
	HTTPRequestDuration.Reset()

	RecordHTTPRequest("POST", "/api/v1/users/login", "200", 0.042)

	counter := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("POST", "/api/v1/users/login", "200"))
	if counter != 1.0 {
		t.Errorf("Expected counter to be 1.0, got %f", counter)
	}
}

func TestLoginAttemptCounters(t *testing.T) {
	LoginAttemptsTotal.Reset()

	LoginAttemptsTotal.WithLabelValues("success").Inc()
	LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
	LoginAttemptsTotal.WithLabelValues("success").Inc()

	success := testutil.ToFloat64(LoginAttemptsTotal.WithLabelValues("success"))
	if success != 2.0 {
		t.Errorf("Expected success counter to be 2.0, got %f", success)
	}

	invalid := testutil.ToFloat64(LoginAttemptsTotal.WithLabelValues("invalid_credentials"))
	if invalid != 1.0 {
		t.Errorf("Expected invalid_credentials counter to be 1.0, got %f", invalid)
	}
}

func TestCacheCounters(t *testing.T) {
	CacheHitsTotal.Reset()
	CacheMissesTotal.Reset()

	RecordCacheHit("channel_profile")
	RecordCacheMiss("channel_profile")
	RecordCacheHit("channel_profile")

	hits := testutil.ToFloat64(CacheHitsTotal.WithLabelValues("channel_profile"))
	if hits != 2.0 {
		t.Errorf("Expected hits to be 2.0, got %f", hits)
	}

	misses := testutil.ToFloat64(CacheMissesTotal.WithLabelValues("channel_profile"))
	if misses != 1.0 {
		t.Errorf("Expected misses to be 1.0, got %f", misses)
	}
}

func TestServerServesScrapeAndHealth(t *testing.T) {
	logger, err := logging.NewDefaultLogger()
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	srv := NewServer(0, logger)

	w := httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("Expected health status 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	srv.server.Handler.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Errorf("Expected metrics status 200, got %d", w.Code)
	}
}
