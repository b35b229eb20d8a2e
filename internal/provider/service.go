package provider

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// requestTimeout bounds every inference HTTP call. Multi-image vision
// payloads against a cold model can take minutes; there is no retry, the
// scheduler's next run is the retry.
const requestTimeout = 5 * time.Minute

// ServiceClient talks to a same-machine inference service speaking the
// Ollama generate API.
type ServiceClient struct {
	baseURL    string
	model      string
	thinking   bool
	httpClient *http.Client
	log        *zap.Logger
}

// NewServiceClient creates a local-service provider for the given model.
// thinking controls the per-request reasoning flag: some models default to
// verbose reasoning traces that must be suppressed for throwaway calls.
func NewServiceClient(baseURL, model string, thinking bool, log *zap.Logger) *ServiceClient {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	return &ServiceClient{
		baseURL:    baseURL,
		model:      model,
		thinking:   thinking,
		httpClient: &http.Client{Timeout: requestTimeout},
		log:        log,
	}
}

// generateRequest is the service's generate request body.
type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Images  []string        `json:"images,omitempty"` // base64 PNG
	Format  json.RawMessage `json:"format,omitempty"` // JSON Schema
	Stream  bool            `json:"stream"`
	Think   bool            `json:"think"`
	Options map[string]any  `json:"options,omitempty"`
}

// generateResponse is the service's non-streaming response body.
type generateResponse struct {
	Response string `json:"response"`
	Thinking string `json:"thinking"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}

func (c *ServiceClient) generate(ctx context.Context, req generateRequest) (*generateResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("inference service request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inference service error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var genResp generateResponse
	if err := json.Unmarshal(respBody, &genResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w (body: %s)", err, Excerpt(string(respBody)))
	}
	if genResp.Error != "" {
		return nil, fmt.Errorf("inference service error: %s", genResp.Error)
	}
	return &genResp, nil
}

// Generate implements Provider.
func (c *ServiceClient) Generate(ctx context.Context, prompt string, temperature float64) (string, error) {
	resp, err := c.generate(ctx, generateRequest{
		Model:   c.model,
		Prompt:  prompt,
		Think:   c.thinking,
		Options: map[string]any{"temperature": temperature},
	})
	if err != nil {
		return "", err
	}
	response, _ := CleanResponse(resp.Response)
	return response, nil
}

// GenerateStructured implements Provider using the service's native
// schema-constrained format support.
func (c *ServiceClient) GenerateStructured(ctx context.Context, prompt string, schema *Schema, temperature float64) (string, error) {
	format, err := schema.JSON()
	if err != nil {
		return "", fmt.Errorf("failed to serialize schema: %w", err)
	}

	resp, err := c.generate(ctx, generateRequest{
		Model:   c.model,
		Prompt:  prompt,
		Format:  format,
		Think:   c.thinking,
		Options: map[string]any{"temperature": temperature},
	})
	if err != nil {
		return "", err
	}
	if resp.Thinking != "" {
		c.log.Debug("model thinking", zap.String("model", c.model), zap.Int("thinking_len", len(resp.Thinking)))
	}
	response, _ := CleanResponse(resp.Response)
	return response, nil
}

// GenerateWithVision implements Provider.
func (c *ServiceClient) GenerateWithVision(ctx context.Context, prompt string, images [][]byte, temperature float64) (*VisionResult, error) {
	encoded := make([]string, 0, len(images))
	for _, img := range images {
		encoded = append(encoded, base64.StdEncoding.EncodeToString(img))
	}

	resp, err := c.generate(ctx, generateRequest{
		Model:   c.model,
		Prompt:  prompt,
		Images:  encoded,
		Think:   c.thinking,
		Options: map[string]any{"temperature": temperature},
	})
	if err != nil {
		return nil, err
	}

	response, inlineThinking := CleanResponse(resp.Response)
	thinking := resp.Thinking
	if thinking == "" {
		thinking = inlineThinking
	}
	return &VisionResult{Response: response, Thinking: thinking}, nil
}
