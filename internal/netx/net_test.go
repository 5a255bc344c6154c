package netx

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsReachable(t *testing.T) {
	t.Run("listening server", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer ts.Close()

		ok := IsReachable(context.Background(), ts.URL, time.Second)
		assert.True(t, ok)
	})

	t.Run("closed port", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		addr := ts.URL
		ts.Close()

		ok := IsReachable(context.Background(), addr, 200*time.Millisecond)
		assert.False(t, ok)
	})

	t.Run("garbage URL", func(t *testing.T) {
		ok := IsReachable(context.Background(), "://not a url", time.Second)
		assert.False(t, ok)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer ts.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		ok := IsReachable(ctx, ts.URL, time.Second)
		assert.False(t, ok)
	})
}

func TestHostPort(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "explicit port", in: "http://127.0.0.1:8080", want: "127.0.0.1:8080"},
		{name: "default http port", in: "http://example.com", want: "example.com:80"},
		{name: "default https port", in: "https://example.com", want: "example.com:443"},
		{name: "bare host port", in: "127.0.0.1:9000", want: "127.0.0.1:9000"},
		{name: "no host at all", in: "/just/a/path", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := hostPort(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsReachable_BareAddr(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	assert.True(t, IsReachable(context.Background(), ln.Addr().String(), time.Second))
}
