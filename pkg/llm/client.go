package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultEndpoint is the Hugging Face router's OpenAI-compatible
	// chat-completions endpoint.
	DefaultEndpoint = "https://router.huggingface.co/v1/chat/completions"

	// DefaultModel favors instruction-following precision over creativity.
	DefaultModel = "Qwen/Qwen2.5-72B-Instruct"

	// DefaultTimeout is generous because the router may queue requests.
	DefaultTimeout = 120 * time.Second

	defaultMaxTokens   = 1024
	defaultTemperature = 0.1
)

// Options configures a Client. Zero fields fall back to the package
// defaults; APIKey is required by the endpoint but not validated here.
type Options struct {
	Endpoint    string
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// Client calls an OpenAI-wire-format chat-completions endpoint over HTTP.
type Client struct {
	endpoint    string
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	client      *http.Client
}

func New(opts Options) *Client {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = defaultMaxTokens
	}
	if opts.Temperature <= 0 {
		opts.Temperature = defaultTemperature
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Client{
		endpoint:    opts.Endpoint,
		apiKey:      opts.APIKey,
		model:       opts.Model,
		maxTokens:   opts.MaxTokens,
		temperature: opts.Temperature,
		client:      &http.Client{Timeout: opts.Timeout},
	}
}

// Chat sends the prompt as a single user turn and returns the raw reply
// text. No retries; a failure fails the calling entry's analysis.
func (c *Client) Chat(prompt string) (string, error) {
	body := map[string]interface{}{
		"model": c.model,
		"messages": []map[string]string{{
			"role":    "user",
			"content": prompt,
		}},
		"max_tokens":  c.maxTokens,
		"temperature": c.temperature,
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest("POST", c.endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("model request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read model response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &RequestError{Status: resp.StatusCode, Body: truncateBody(string(respBytes))}
	}

	// OpenAI-compatible chat response shape.
	var chatResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBytes, &chatResp); err != nil {
		return "", &ResponseFormatError{Body: truncateBody(string(respBytes))}
	}
	if chatResp.Error.Message != "" {
		return "", &RequestError{Status: resp.StatusCode, Body: chatResp.Error.Message}
	}
	if len(chatResp.Choices) == 0 {
		return "", &ResponseFormatError{Body: truncateBody(string(respBytes))}
	}
	return chatResp.Choices[0].Message.Content, nil
}

// GetModel returns the model id this client sends requests for.
func (c *Client) GetModel() string {
	return c.model
}
