package ideogram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

const defaultBaseURL = "https://api.ideogram.ai"

// maxErrorBody caps how much of a failed response is kept for error details.
const maxErrorBody = 8 << 10

type Options struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client talks to the Ideogram image generation API.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *slog.Logger
}

func New(opts Options) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = ModelV2
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Client{
		apiKey:     opts.APIKey,
		baseURL:    baseURL,
		model:      model,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Model returns the model identifier sent when a request leaves it empty.
func (c *Client) Model() string { return c.model }

// Generate issues a single /generate call. A non-2xx answer is returned as
// *APIError carrying the provider's response body.
func (c *Client) Generate(ctx context.Context, req ImageRequest) (ImageResponse, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return ImageResponse{}, errors.New("prompt is empty")
	}
	if req.Model == "" {
		req.Model = c.model
	}
	if req.AspectRatio == "" {
		req.AspectRatio = AspectRatioSquare
	}
	if req.MagicPromptOption == "" {
		req.MagicPromptOption = MagicPromptAuto
	}

	body, err := json.Marshal(generateRequest{ImageRequest: req})
	if err != nil {
		return ImageResponse{}, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate", bytes.NewReader(body))
	if err != nil {
		return ImageResponse{}, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Api-Key", c.apiKey)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return ImageResponse{}, fmt.Errorf("request: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(httpResp.Body, maxErrorBody))
		c.logger.Error("ideogram response not ok", "status", httpResp.StatusCode, "body", strings.TrimSpace(string(raw)))
		return ImageResponse{}, &APIError{
			StatusCode: httpResp.StatusCode,
			Status:     httpResp.Status,
			Body:       strings.TrimSpace(string(raw)),
		}
	}

	var decoded ImageResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&decoded); err != nil {
		return ImageResponse{}, fmt.Errorf("decode response: %w", err)
	}

	return decoded, nil
}
