// Package foodapi is a client for the food analysis backend: a multipart
// image upload comes back as a predicted food class with confidence and a
// nutrition payload.
package foodapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/platewise/foodscan-cli/internal/model"
)

const defaultBaseURL = "http://localhost:8000"

// Client analyzes food images against the remote backend.
type Client interface {
	Analyze(ctx context.Context, filename string, image io.Reader) (*model.AnalysisResult, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default backend base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimiter overrides the default request rate limiter.
func WithRateLimiter(l *rate.Limiter) Option {
	return func(c *httpClient) {
		c.limiter = l
	}
}

type httpClient struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	now     func() time.Time
}

// NewClient creates a backend client. Timeouts live here, on the transport
// to the backend, not in the history layer.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter: rate.NewLimiter(2, 2),
		now:     time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) Analyze(ctx context.Context, filename string, image io.Reader) (*model.AnalysisResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "foodapi: rate limit wait")
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, eris.Wrap(err, "foodapi: create form file")
	}
	if _, err := io.Copy(part, image); err != nil {
		return nil, eris.Wrap(err, "foodapi: read image")
	}
	if err := w.Close(); err != nil {
		return nil, eris.Wrap(err, "foodapi: finalize form")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze", &buf)
	if err != nil {
		return nil, eris.Wrap(err, "foodapi: create request")
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "foodapi: send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "foodapi: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("foodapi: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	var result model.AnalysisResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, eris.Wrap(err, "foodapi: unmarshal response")
	}
	if result.PredictedClass == "" {
		return nil, eris.New("foodapi: response missing predicted_class")
	}
	if result.Timestamp.IsZero() {
		result.Timestamp = c.now().UTC()
	}

	return &result, nil
}
