package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"disease-predictor-be/internal/entity"
	"disease-predictor-be/pkg/utils"

	"github.com/cenkalti/backoff/v5"
)

const (
	DefaultURL         = "http://127.0.0.1:5000/predict"
	DefaultTimeout     = 10 * time.Second
	DefaultMaxAttempts = 2
	retryWait          = 200 * time.Millisecond
	maxErrorBody       = 512
)

type HTTPClient struct {
	URL         string
	Timeout     time.Duration
	MaxAttempts uint
	client      *http.Client
}

func NewHTTPClient(url string, timeout time.Duration, maxAttempts int) *HTTPClient {
	if url == "" {
		url = DefaultURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &HTTPClient{
		URL:         url,
		Timeout:     timeout,
		MaxAttempts: uint(maxAttempts),
		client:      &http.Client{},
	}
}

type predictRequest struct {
	InputData entity.Features `json:"input_data"`
}

type predictResponse struct {
	Prediction json.RawMessage `json:"prediction"`
	Message    *string         `json:"message"`
}

func unavailable(format string, args ...any) error {
	return fmt.Errorf("%w: %s", entity.ErrInferenceUnavailable, fmt.Sprintf(format, args...))
}

func (c *HTTPClient) Predict(ctx context.Context, features entity.Features) (*Result, error) {
	body, err := json.Marshal(predictRequest{InputData: features})
	if err != nil {
		return nil, unavailable("encode request: %v", err)
	}

	res, err := backoff.Retry(ctx, func() (*Result, error) {
		return c.attempt(ctx, body)
	},
		backoff.WithBackOff(backoff.NewConstantBackOff(retryWait)),
		backoff.WithMaxTries(c.MaxAttempts),
	)
	if err != nil {
		return nil, unavailable("%v", err)
	}
	return res, nil
}

// attempt performs one bounded call. Errors wrapped in backoff.Permanent
// are not retried.
func (c *HTTPClient) attempt(ctx context.Context, body []byte) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(body))
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := string(bodyBytes)
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		statusErr := fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(snippet))
		if resp.StatusCode >= 500 {
			return nil, statusErr
		}
		return nil, backoff.Permanent(statusErr)
	}

	result, err := decodeResponse(bodyBytes)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	return result, nil
}

func decodeResponse(raw []byte) (*Result, error) {
	var pr predictResponse
	if err := json.Unmarshal(raw, &pr); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(pr.Prediction) == 0 {
		return nil, fmt.Errorf("response has no prediction")
	}
	if pr.Message == nil {
		return nil, fmt.Errorf("response has no message")
	}

	// The label may arrive as a number or as a numeric string.
	text := string(pr.Prediction)
	var s string
	if err := json.Unmarshal(pr.Prediction, &s); err == nil {
		text = s
	}
	label, ok := utils.ParseLooseInt(text)
	if !ok {
		return nil, fmt.Errorf("prediction %s is not an integer", string(pr.Prediction))
	}
	return &Result{Label: label, Message: *pr.Message}, nil
}
