// Package llm implements the matching judge against an OpenAI-compatible
// chat completions endpoint.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const systemPrompt = "You are a lost-and-found matching assistant. " +
	"Decide whether the following two item reports describe the same physical object. " +
	"Answer with a single word: yes or no."

// Client calls the chat completions API. The zero value is not usable; build
// one with NewClient.
type Client struct {
	baseURL    string
	token      string
	model      string
	httpClient *http.Client
}

func NewClient(baseURL, token, model string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
		model:      model,
		httpClient: &http.Client{},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
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
	} `json:"choices"`
}

// Judge asks the model whether a lost report and a found report describe the
// same item. The lost description always comes first in the prompt. Timeouts
// and cancellation come from ctx.
func (c *Client) Judge(ctx context.Context, lostDesc, foundDesc string) (bool, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: fmt.Sprintf("Lost item: %s\nFound item: %s", lostDesc, foundDesc)},
		},
		Temperature: 0,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return false, fmt.Errorf("failed to encode judge request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return false, fmt.Errorf("failed to build judge request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("judge call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("judge call returned status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return false, fmt.Errorf("failed to decode judge response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return false, fmt.Errorf("judge response contained no choices")
	}

	verdict := strings.ToLower(strings.TrimSpace(parsed.Choices[0].Message.Content))
	return strings.HasPrefix(verdict, "yes"), nil
}
