package provider

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"go.uber.org/zap"
)

// RemoteClient talks to a hosted chat-completions API (OpenRouter wire
// format). The credential comes from the environment; a missing key is a
// configuration error at construction time, not a runtime fault.
type RemoteClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	log        *zap.Logger
}

// APIKeyEnv names the environment variable holding the remote credential.
const APIKeyEnv = "OPENROUTER_API_KEY"

// NewRemoteClient creates a remote-api provider for the given model.
func NewRemoteClient(baseURL, model string, log *zap.Logger) (*RemoteClient, error) {
	apiKey := os.Getenv(APIKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("remote provider requires %s to be set", APIKeyEnv)
	}
	if baseURL == "" {
		baseURL = "https://openrouter.ai/api/v1"
	}
	return &RemoteClient{
		apiKey:     apiKey,
		baseURL:    baseURL,
		model:      model,
		httpClient: &http.Client{Timeout: requestTimeout},
		log:        log,
	}, nil
}

// contentPart is one element of a multi-part chat message.
type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

// chatMessage is a chat message whose content is either a plain string or
// a list of parts.
type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *RemoteClient) chat(ctx context.Context, messages []chatMessage, temperature float64) (string, error) {
	req := chatRequest{Model: c.model, Messages: messages, Temperature: temperature}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w (body: %s)", err, Excerpt(string(respBody)))
	}
	if chatResp.Error != nil {
		return "", fmt.Errorf("API error: %s", chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return chatResp.Choices[0].Message.Content, nil
}

// Generate implements Provider.
func (c *RemoteClient) Generate(ctx context.Context, prompt string, temperature float64) (string, error) {
	raw, err := c.chat(ctx, []chatMessage{{Role: "user", Content: prompt}}, temperature)
	if err != nil {
		return "", err
	}
	response, _ := CleanResponse(raw)
	return response, nil
}

// GenerateStructured implements Provider. The hosted API has no universal
// schema enforcement across models, so the default prompt-append strategy
// is used.
func (c *RemoteClient) GenerateStructured(ctx context.Context, prompt string, schema *Schema, temperature float64) (string, error) {
	return structuredViaPrompt(func(p string) (string, error) {
		return c.Generate(ctx, p, temperature)
	}, prompt, schema)
}

// GenerateWithVision implements Provider, passing images as data-URI
// parts of a single user message.
func (c *RemoteClient) GenerateWithVision(ctx context.Context, prompt string, images [][]byte, temperature float64) (*VisionResult, error) {
	parts := []contentPart{{Type: "text", Text: prompt}}
	for _, img := range images {
		parts = append(parts, contentPart{
			Type:     "image_url",
			ImageURL: &imageURL{URL: "data:image/png;base64," + base64.StdEncoding.EncodeToString(img)},
		})
	}

	raw, err := c.chat(ctx, []chatMessage{{Role: "user", Content: parts}}, temperature)
	if err != nil {
		return nil, err
	}
	response, thinking := CleanResponse(raw)
	return &VisionResult{Response: response, Thinking: thinking}, nil
}
