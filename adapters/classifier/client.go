package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"newsdesk/domain/prediction"
	"newsdesk/internal/errors"

	"github.com/tidwall/gjson"
)

const (
	defaultBaseURL      = "http://localhost:5000"
	defaultPredictError = "Prediction failed. Please try again."
	maxBodyBytes        = 4 << 20
)

// Client talks to the classifier REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets the backend base URL.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a classifier client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Health calls GET /api/health.
func (c *Client) Health(ctx context.Context) (*prediction.Health, error) {
	body, status, err := c.do(ctx, http.MethodGet, "/api/health", nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, statusError("health", status, body)
	}
	var health prediction.Health
	if err := json.Unmarshal(body, &health); err != nil {
		return nil, errors.ExternalServiceError("classifier", fmt.Errorf("decode health: %w", err))
	}
	return &health, nil
}

// ModelInfo calls GET /api/model-info. The payload is treated as opaque; only
// the fields shown on the about page are pulled out.
func (c *Client) ModelInfo(ctx context.Context) (*prediction.ModelInfo, error) {
	body, status, err := c.do(ctx, http.MethodGet, "/api/model-info", nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, statusError("model-info", status, body)
	}
	if !gjson.ValidBytes(body) {
		return nil, errors.ExternalServiceError("classifier", fmt.Errorf("model-info is not valid JSON"))
	}

	doc := gjson.ParseBytes(body)
	info := &prediction.ModelInfo{
		Raw:               json.RawMessage(append([]byte(nil), body...)),
		Status:            doc.Get("status").String(),
		Type:              doc.Get("type").String(),
		MaxWords:          doc.Get("max_words").Int(),
		MaxSequenceLength: doc.Get("max_sequence_length").Int(),
		Accuracy:          doc.Get("architecture.accuracy").String(),
	}
	doc.Get("architecture.layers").ForEach(func(_, layer gjson.Result) bool {
		info.Layers = append(info.Layers, prediction.ModelLayer{
			Name:   layer.Get("name").String(),
			Params: layer.Get("params").String(),
		})
		return true
	})
	return info, nil
}

// History calls GET /api/history and returns records in backend order.
func (c *Client) History(ctx context.Context) ([]prediction.Record, error) {
	body, status, err := c.do(ctx, http.MethodGet, "/api/history", nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, statusError("history", status, body)
	}
	var resp prediction.HistoryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.ExternalServiceError("classifier", fmt.Errorf("decode history: %w", err))
	}
	if resp.History == nil {
		return []prediction.Record{}, nil
	}
	return resp.History, nil
}

// Predict calls POST /api/predict. A response with success=false, or a
// non-2xx status, becomes an APPLICATION_ERROR carrying the backend message.
func (c *Client) Predict(ctx context.Context, req prediction.PredictRequest) (*prediction.PredictResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "encode predict request")
	}

	body, status, err := c.do(ctx, http.MethodPost, "/api/predict", payload)
	if err != nil {
		return nil, err
	}

	var resp prediction.PredictResponse
	if decodeErr := json.Unmarshal(body, &resp); decodeErr != nil {
		if status < 200 || status > 299 {
			return nil, statusError("predict", status, body)
		}
		return nil, errors.ExternalServiceError("classifier", fmt.Errorf("decode prediction: %w", decodeErr))
	}

	if !resp.Success || status < 200 || status > 299 {
		msg := resp.Error
		if msg == "" {
			msg = defaultPredictError
		}
		return nil, errors.ApplicationError(msg)
	}
	if resp.Prediction == nil {
		return nil, errors.ExternalServiceError("classifier", fmt.Errorf("prediction missing from successful response"))
	}

	verdict := resp.Prediction.WithDefaults()
	resp.Prediction = &verdict
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, int, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, 0, errors.Wrapf(err, "build %s %s", method, path)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, errors.NetworkError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, resp.StatusCode, errors.NetworkError(fmt.Errorf("read %s: %w", path, err))
	}
	return body, resp.StatusCode, nil
}

// statusError builds the error for a non-2xx response, preferring the
// backend's own "error" or "message" field when the body has one.
func statusError(endpoint string, status int, body []byte) error {
	detail := ""
	if gjson.ValidBytes(body) {
		detail = gjson.GetBytes(body, "error").String()
		if detail == "" {
			detail = gjson.GetBytes(body, "message").String()
		}
	}
	if detail == "" {
		detail = http.StatusText(status)
	}
	return errors.ExternalServiceError("classifier", fmt.Errorf("%s returned %d: %s", endpoint, status, detail))
}
