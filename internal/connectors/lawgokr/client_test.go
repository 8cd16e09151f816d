package lawgokr

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roeum-labs/lawcrawl/internal/core/domain"
)

// testRate keeps the token bucket out of the way in tests.
const testRate = 1000.0

func TestClientGet_Success(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("<html>ok</html>"))
	}))
	defer srv.Close()

	c := NewClient(WithRate(testRate), WithRetries(0))
	body, err := c.Get(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Equal(t, "<html>ok</html>", string(body))
	assert.Equal(t, DefaultUserAgent, gotUA)
}

func TestClientGet_RetriesServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte("recovered"))
	}))
	defer srv.Close()

	c := NewClient(WithRate(testRate), WithRetries(2))
	body, err := c.Get(context.Background(), srv.URL)

	require.NoError(t, err)
	assert.Equal(t, "recovered", string(body))
	assert.Equal(t, int32(2), calls.Load())
}

func TestClientGet_NoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(WithRate(testRate), WithRetries(3))
	_, err := c.Get(context.Background(), srv.URL)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrFetch)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClientGet_ExhaustedRetriesWrapErrFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(WithRate(testRate), WithRetries(0))
	_, err := c.Get(context.Background(), srv.URL)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrFetch)
	assert.Contains(t, err.Error(), "502")
}

func TestClientGet_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(WithRate(testRate), WithRetries(0))
	_, err := c.Get(ctx, "http://127.0.0.1:0/unreachable")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
