package catalog_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/library/internal/catalog"
	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/pkg/circuit_breaker"
)

const domCasmurro = `{"kind":"books#volumes","totalItems":1,"items":[{"volumeInfo":{"title":"Dom Casmurro","authors":["Machado de Assis"]}}]}`

func TestClient_SearchByTitle(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		status    int
		body      string
		wantQuery string
		wantBody  string
		wantErr   error
	}{
		{
			name:      "ok",
			status:    http.StatusOK,
			body:      domCasmurro,
			wantQuery: "intitle:Dom Casmurro",
			wantBody:  domCasmurro,
		},
		{
			name:      "empty listing",
			status:    http.StatusOK,
			body:      `{"kind":"books#volumes","totalItems":0}`,
			wantQuery: "intitle:Dom Casmurro",
			wantErr:   errs.ErrNoVolumes,
		},
		{
			name:      "not found",
			status:    http.StatusNotFound,
			body:      `{}`,
			wantQuery: "intitle:Dom Casmurro",
			wantErr:   errs.ErrNotFound,
		},
		{
			name:      "upstream error",
			status:    http.StatusBadGateway,
			body:      `oops`,
			wantQuery: "intitle:Dom Casmurro",
			wantErr:   errs.ErrCatalogUnavailable,
		},
		{
			name:      "invalid json",
			status:    http.StatusOK,
			body:      `{"totalItems":`,
			wantQuery: "intitle:Dom Casmurro",
			wantErr:   errs.ErrUnavailable,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/volumes", r.URL.Path)
				assert.Equal(t, tt.wantQuery, r.URL.Query().Get("q"))
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := catalog.NewClient(catalog.Config{URL: srv.URL + "/"}, zap.NewNop())
			data, err := c.SearchByTitle(context.Background(), "Dom Casmurro")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantBody, string(data))
		})
	}
}

func TestClient_SearchByTitle_breaker(t *testing.T) {
	t.Parallel()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := catalog.NewClient(catalog.Config{URL: srv.URL, APIKey: "secret"}, zap.NewNop())
	for i := 0; i < 10; i++ {
		_, err := c.SearchByTitle(context.Background(), "Helena")
		require.ErrorIs(t, err, errs.ErrCatalogUnavailable)
	}
	require.Equal(t, circuit_breaker.Open, c.CB().State())

	_, err := c.SearchByTitle(context.Background(), "Helena")
	require.ErrorIs(t, err, errs.ErrCatalogUnavailable)
	require.Equal(t, int32(10), hits.Load(), "an open breaker does not reach the catalog")
}

func TestClient_SearchByTitle_notFoundKeepsBreakerClosed(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := catalog.NewClient(catalog.Config{URL: srv.URL}, zap.NewNop())
	for i := 0; i < 30; i++ {
		_, err := c.SearchByTitle(context.Background(), "missing")
		require.ErrorIs(t, err, errs.ErrNotFound)
	}
	require.Equal(t, circuit_breaker.Closed, c.CB().State())
}

func TestClient_SearchByTitle_apiKeyHeader(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "s3cr3t-key", r.Header.Get("X-Goog-Api-Key"))
		assert.NotContains(t, r.URL.RawQuery, "s3cr3t-key")
		_, _ = w.Write([]byte(domCasmurro))
	}))
	defer srv.Close()

	c := catalog.NewClient(catalog.Config{URL: srv.URL, APIKey: "s3cr3t-key"}, zap.NewNop())
	data, err := c.SearchByTitle(context.Background(), "Dom Casmurro")
	require.NoError(t, err)
	require.Equal(t, domCasmurro, string(data))
}

func TestClient_SearchByTitle_cancelledKeepsBreakerClosed(t *testing.T) {
	t.Parallel()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := catalog.NewClient(catalog.Config{URL: srv.URL}, zap.NewNop())
	for i := 0; i < 15; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		_, err := c.SearchByTitle(ctx, "Helena")
		cancel()
		require.ErrorIs(t, err, context.DeadlineExceeded)
	}
	require.Equal(t, circuit_breaker.Closed, c.CB().State())

	before := hits.Load()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.SearchByTitle(ctx, "Helena")
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, before, hits.Load(), "a cancelled search does not reach the catalog")
}
