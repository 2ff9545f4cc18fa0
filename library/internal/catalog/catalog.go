package catalog

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/library-management/library/internal/errs"
	"github.com/Astemirdum/library-management/pkg/circuit_breaker"
)

// maxBodySize caps the volumes listing read from the catalog.
const maxBodySize = 4 << 20

// apiKeyHeader carries the key instead of the query string, so request URLs
// in transport errors never contain it.
const apiKeyHeader = "X-Goog-Api-Key"

type Config struct {
	URL     string        `envconfig:"CATALOG_URL" default:"https://www.googleapis.com/books/v1"`
	APIKey  string        `envconfig:"CATALOG_API_KEY" json:"-"`
	Timeout time.Duration `envconfig:"CATALOG_TIMEOUT" default:"10s"`
}

// Client looks books up in a Google Books compatible catalog.
type Client struct {
	log    *zap.Logger
	client *http.Client
	cfg    Config
	cb     circuit_breaker.CircuitBreaker
}

func NewClient(cfg Config, log *zap.Logger) *Client {
	return &Client{
		log:    log.Named("catalog"),
		client: &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
		cb:     circuit_breaker.New(20, 5*time.Second, 0.5, 2),
	}
}

func (c *Client) CB() circuit_breaker.CircuitBreaker {
	return c.cb
}

// SearchByTitle returns the raw volumes listing for title.
// A 404 or an empty listing is reported as errs.ErrNoVolumes and does not
// count as a catalog failure. Neither does a cancelled ctx.
func (c *Client) SearchByTitle(ctx context.Context, title string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var (
		data     []byte
		notFound bool
		ctxErr   error
	)
	err := c.cb.Call(func() error {
		body, statusCode, err := c.volumes(ctx, title)
		if err != nil {
			if ctxErr = ctx.Err(); ctxErr != nil {
				return nil
			}
			return err
		}
		switch {
		case statusCode == http.StatusNotFound:
			notFound = true
			return nil
		case statusCode >= http.StatusInternalServerError:
			return errors.Errorf("catalog answered %d", statusCode)
		case statusCode != http.StatusOK:
			return errors.Errorf("catalog answered %d: %s", statusCode, body)
		}
		if !jsoniter.Valid(body) {
			return errors.New("catalog answered invalid json")
		}
		data = body
		return nil
	})
	if ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		c.log.Warn("search by title", zap.String("title", title), zap.Error(err))
		return nil, errs.ErrCatalogUnavailable
	}
	if notFound || jsoniter.Get(data, "totalItems").ToInt() == 0 {
		return nil, errs.ErrNoVolumes
	}
	return data, nil
}

func (c *Client) volumes(ctx context.Context, title string) ([]byte, int, error) {
	q := url.Values{"q": []string{"intitle:" + title}}
	u := strings.TrimSuffix(c.cfg.URL, "/") + "/volumes?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set(apiKeyHeader, c.cfg.APIKey)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, 0, err
	}
	return data, resp.StatusCode, nil
}
