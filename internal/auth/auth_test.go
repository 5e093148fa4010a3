package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticVerifier(t *testing.T) {
	verifier := NewStatic([]string{"alpha", "beta", ""})

	identity, err := verifier.Verify(context.Background(), "alpha")
	require.NoError(t, err)
	assert.Equal(t, "static", identity.Subject)

	_, err = verifier.Verify(context.Background(), "gamma")
	assert.ErrorIs(t, err, ErrInvalidToken)

	// The empty string must never be a valid token.
	_, err = verifier.Verify(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestHTTPVerifierActiveToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"active":true,"subject":"user-42"}`))
	}))
	defer srv.Close()

	verifier := NewHTTPVerifier(srv.URL, time.Second)
	identity, err := verifier.Verify(context.Background(), "token-value")
	require.NoError(t, err)
	assert.Equal(t, "user-42", identity.Subject)
}

func TestHTTPVerifierRejections(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"unauthorized status", http.StatusUnauthorized, ""},
		{"forbidden status", http.StatusForbidden, ""},
		{"inactive token", http.StatusOK, `{"active":false,"reason":"revoked"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			verifier := NewHTTPVerifier(srv.URL, time.Second)
			_, err := verifier.Verify(context.Background(), "token-value")
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestHTTPVerifierProviderErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal", http.StatusInternalServerError)
	}))
	defer srv.Close()

	verifier := NewHTTPVerifier(srv.URL, time.Second)
	_, err := verifier.Verify(context.Background(), "token-value")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidToken, "provider failures must stay distinguishable from rejections")

	unreachable := NewHTTPVerifier("http://127.0.0.1:1", 200*time.Millisecond)
	_, err = unreachable.Verify(context.Background(), "token-value")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidToken)
}

func TestCachedVerifierRemembersSuccess(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"active":true,"subject":"user-42"}`))
	}))
	defer srv.Close()

	cached := NewCached(NewHTTPVerifier(srv.URL, time.Second), time.Minute)

	for range 3 {
		identity, err := cached.Verify(context.Background(), "token-value")
		require.NoError(t, err)
		assert.Equal(t, "user-42", identity.Subject)
	}
	assert.EqualValues(t, 1, calls.Load())
}

func TestCachedVerifierExpiry(t *testing.T) {
	inner := NewStatic([]string{"alpha"})
	cached := NewCached(inner, time.Minute)

	current := time.Unix(1_700_000_000, 0)
	cached.now = func() time.Time { return current }

	_, err := cached.Verify(context.Background(), "alpha")
	require.NoError(t, err)

	current = current.Add(2 * time.Minute)
	_, err = cached.Verify(context.Background(), "alpha")
	require.NoError(t, err)
}

func TestCachedVerifierNeverCachesRejections(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	cached := NewCached(NewHTTPVerifier(srv.URL, time.Second), time.Minute)

	for range 2 {
		_, err := cached.Verify(context.Background(), "bad-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
	assert.EqualValues(t, 2, calls.Load(), "rejections must hit the provider every time")
}
