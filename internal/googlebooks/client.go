package googlebooks

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/5w1tchy/library-api/internal/config"
	"github.com/5w1tchy/library-api/internal/errs"
	"github.com/5w1tchy/library-api/internal/models"
)

const (
	MinQueryLen       = 3
	MaxResultsCeiling = 40
	DefaultMaxResults = 10
	DefaultTimeout    = 10 * time.Second
)

var errRateLimited = errors.Wrap(errs.ErrExternalUnavailable, "local rate limit")

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	timeout    time.Duration
	ceiling    int
	limiter    *rate.Limiter
	log        *zap.Logger
}

func New(cfg config.GoogleBooks, log *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ceiling := cfg.MaxResults
	if ceiling <= 0 || ceiling > MaxResultsCeiling {
		ceiling = MaxResultsCeiling
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RPS > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RPS), burst)
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		timeout:    timeout,
		ceiling:    ceiling,
		limiter:    limiter,
		log:        log.Named("googlebooks"),
	}
}

// Search returns normalized suggestions for query. It never fails: a short query,
// a provider error, a timeout or a malformed payload all yield an empty list.
func (c *Client) Search(ctx context.Context, query string, maxResults int) []models.BookSuggestion {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinQueryLen {
		return []models.BookSuggestion{}
	}

	items, err := c.fetch(ctx, query, c.clamp(maxResults))
	if err != nil {
		c.log.Warn("search failed", zap.String("query", query), zap.Error(err))
		return []models.BookSuggestion{}
	}
	return normalize(items)
}

func (c *Client) clamp(n int) int {
	if n <= 0 {
		n = DefaultMaxResults
	}
	if n > c.ceiling {
		n = c.ceiling
	}
	return n
}

func (c *Client) fetch(ctx context.Context, query string, maxResults int) ([]volume, error) {
	if !c.limiter.Allow() {
		return nil, errRateLimited
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", strconv.Itoa(maxResults))
	params.Set("printType", "books")
	params.Set("projection", "lite")
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(errs.ErrExternalUnavailable, err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrapf(errs.ErrExternalUnavailable, "status %d", resp.StatusCode)
	}

	var body volumesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errors.Wrap(errs.ErrExternalUnavailable, "decode: "+err.Error())
	}
	return body.Items, nil
}
