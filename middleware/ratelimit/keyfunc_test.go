package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func request(path, remote string, header map[string]string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "http://example"+path, nil)
	r.RemoteAddr = remote
	for k, v := range header {
		r.Header.Set(k, v)
	}
	return r
}

func TestDefaultKeyFunc_PrefersHeaderWhenSet(t *testing.T) {
	fn := DefaultKeyFunc(KeyOptions{Header: "X-Client"})

	r := request("/api/ac-rate", "10.0.0.1:1234", map[string]string{"X-Client": " client-123 "})
	assert.Equal(t, "client-123", fn(r))
}

func TestDefaultKeyFunc_TrustXForwardedForSkipsGarbage(t *testing.T) {
	fn := DefaultKeyFunc(KeyOptions{TrustXFF: true})

	r := request("/api/ac-rate", "10.0.0.9:5555", map[string]string{"X-Forwarded-For": "unknown, 1.2.3.4, 5.6.7.8"})
	assert.Equal(t, "1.2.3.4", fn(r))

	r = request("/api/ac-rate", "10.0.0.9:5555", map[string]string{"X-Forwarded-For": "not-an-ip"})
	assert.Equal(t, "10.0.0.9", fn(r))
}

func TestDefaultKeyFunc_IgnoresXForwardedForWhenUntrusted(t *testing.T) {
	fn := DefaultKeyFunc(KeyOptions{})

	r := request("/api/ac-rate", "10.0.0.9:5555", map[string]string{"X-Forwarded-For": "1.2.3.4"})
	assert.Equal(t, "10.0.0.9", fn(r))
}

func TestDefaultKeyFunc_FallsBackToRawRemoteAddr(t *testing.T) {
	fn := DefaultKeyFunc(KeyOptions{})

	assert.Equal(t, "unix-socket", fn(request("/api/ac-rate", "unix-socket", nil)))
	assert.Equal(t, "unknown", fn(request("/api/ac-rate", "", nil)))
}

func TestDefaultKeyFunc_ProbePathsAreExempt(t *testing.T) {
	fn := DefaultKeyFunc(KeyOptions{Header: "X-Client"})

	for _, p := range []string{"/healthz", "/metrics", "/stats"} {
		assert.Empty(t, fn(request(p, "10.0.0.1:1234", map[string]string{"X-Client": "c"})), p)
	}

	none := DefaultKeyFunc(KeyOptions{ExemptPaths: []string{}})
	assert.Equal(t, "10.0.0.1", none(request("/healthz", "10.0.0.1:1234", nil)))
}

func TestRetryAfterSeconds_RoundsUp(t *testing.T) {
	assert.Equal(t, 1, retryAfterSeconds(0))
	assert.Equal(t, 1, retryAfterSeconds(200*time.Millisecond))
	assert.Equal(t, 1, retryAfterSeconds(time.Second))
	assert.Equal(t, 3, retryAfterSeconds(2500*time.Millisecond))
}
