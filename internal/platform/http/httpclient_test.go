package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClient(t *testing.T) {
	t.Parallel()

	client := NewHTTPClient(3*time.Second, 8)

	assert.Equal(t, 3*time.Second, client.Timeout)
	ua, ok := client.Transport.(*userAgentTransport)
	require.True(t, ok, "transport should set a user agent")
	base, ok := ua.base.(*http.Transport)
	require.True(t, ok)
	assert.Equal(t, 8, base.MaxIdleConnsPerHost)
}

func TestNewHTTPClient_UserAgent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{"default user agent", "", DefaultUserAgent},
		{"caller user agent preserved", "custom/1.0", "custom/1.0"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := make(chan string, 1)
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got <- r.Header.Get("User-Agent")
			}))
			defer server.Close()

			req, err := http.NewRequest(http.MethodGet, server.URL, nil)
			require.NoError(t, err)
			if tt.header != "" {
				req.Header.Set("User-Agent", tt.header)
			}

			res, err := NewHTTPClient(time.Second, 0).Do(req)
			require.NoError(t, err)
			_ = res.Body.Close()

			assert.Equal(t, tt.want, <-got)
		})
	}
}
