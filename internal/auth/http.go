package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPVerifier delegates token verification to the hosted auth provider's
// introspection endpoint.
type HTTPVerifier struct {
	// URL is the verification endpoint.
	URL string
	// Timeout is the HTTP timeout.
	Timeout time.Duration

	client *http.Client
}

type verifyRequest struct {
	// Token is the bearer token under verification.
	Token string `json:"token"`
}

type verifyResponse struct {
	// Active reports whether the token is valid.
	Active bool `json:"active"`
	// Subject identifies the token owner.
	Subject string `json:"subject,omitempty"`
	// Reason provides additional context on rejection.
	Reason string `json:"reason,omitempty"`
}

// NewHTTPVerifier creates a verifier against the given endpoint.
func NewHTTPVerifier(url string, timeout time.Duration) *HTTPVerifier {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPVerifier{
		URL:     url,
		Timeout: timeout,
		client:  &http.Client{Timeout: timeout},
	}
}

// Verify implements Verifier.
func (v *HTTPVerifier) Verify(ctx context.Context, token string) (Identity, error) {
	body, err := json.Marshal(verifyRequest{Token: token})
	if err != nil {
		return Identity{}, fmt.Errorf("encode verify request: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, v.URL, bytes.NewReader(body))
	if err != nil {
		return Identity{}, fmt.Errorf("build verify request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(request)
	if err != nil {
		return Identity{}, fmt.Errorf("auth provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return Identity{}, ErrInvalidToken
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return Identity{}, fmt.Errorf("auth provider status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var parsed verifyResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return Identity{}, fmt.Errorf("invalid auth provider response: %w", err)
	}
	if !parsed.Active {
		return Identity{}, ErrInvalidToken
	}
	return Identity{Subject: parsed.Subject}, nil
}
