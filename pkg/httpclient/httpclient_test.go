package httpclient

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsShared(t *testing.T) {
	a := Default()
	b := Default()
	assert.Same(t, a, b)
}

func TestNewAppliesDefaults(t *testing.T) {
	c := New(Config{})
	assert.Equal(t, 30*time.Second, c.Timeout)

	transport, ok := c.Transport.(*http.Transport)
	require.True(t, ok)
	assert.Equal(t, 100, transport.MaxIdleConns)
	assert.True(t, transport.TLSClientConfig.InsecureSkipVerify == false,
		"zero config must not skip TLS verification unless asked")
}

func TestNewDoesNotFollowRedirectsByDefault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/start" {
			http.Redirect(w, r, "/end", http.StatusMovedPermanently)
			return
		}
		w.WriteHeader(http.StatusTeapot)
	}))
	defer srv.Close()

	c := New(Config{})
	resp, err := c.Get(srv.URL + "/start")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMovedPermanently, resp.StatusCode)

	c = New(Config{FollowRedirects: true})
	resp, err = c.Get(srv.URL + "/start")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusTeapot, resp.StatusCode)
}

func TestWithTimeout(t *testing.T) {
	cfg := WithTimeout(5 * time.Second)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.True(t, cfg.InsecureSkipVerify)
}

func TestWithProxy(t *testing.T) {
	cfg := WithProxy("http://127.0.0.1:8080")
	assert.Equal(t, "http://127.0.0.1:8080", cfg.Proxy)

	transport := New(cfg).Transport.(*http.Transport)
	assert.NotNil(t, transport.Proxy)
}
