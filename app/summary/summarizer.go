package summary

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
	"time"

	"github.com/sourcingdesk/newsdesk/app/news"
)

// ErrEmptyCompletion is returned when the service answers successfully but
// with no usable text.
var ErrEmptyCompletion = errors.New("summary service returned empty completion")

// ServiceError reports a non-success HTTP response from the summary service.
type ServiceError struct {
	StatusCode int
	Body       string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("summary service HTTP %d: %s", e.StatusCode, e.Body)
}

// Summarizer produces a short natural-language digest for a list of items.
type Summarizer interface {
	Summarize(ctx context.Context, items []news.Item, instructions string) (string, error)
	Enabled() bool
}

// Client calls an OpenAI-compatible chat-completions endpoint. With no API
// key the client is disabled and callers use the local fallback instead.
type Client struct {
	apiURL     string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewClient(apiURL, apiKey, model string) *Client {
	return &Client{
		apiURL:     apiURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

const defaultInstructions = `Summarize these sourcing and trade news headlines in 3-4 sentences for a retail sourcing dashboard. Be factual and concise, no hype.`

func (c *Client) Summarize(ctx context.Context, items []news.Item, instructions string) (string, error) {
	if !c.Enabled() {
		return "", errors.New("summary service not configured")
	}
	if instructions == "" {
		instructions = defaultInstructions
	}

	var prompt strings.Builder
	prompt.WriteString(instructions)
	prompt.WriteString("\n\nHeadlines:\n")
	for _, item := range items {
		fmt.Fprintf(&prompt, "- %s (%s)\n", item.Title, item.Source)
	}

	text, err := c.call(ctx, prompt.String())
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyCompletion
	}

	return text, nil
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *Client) call(ctx context.Context, prompt string) (string, error) {
	body, _ := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})

	req, err := http.NewRequestWithContext(ctx, "POST", c.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("summary service request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", &ServiceError{StatusCode: resp.StatusCode, Body: string(b)}
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", err
	}
	if len(cr.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	return cr.Choices[0].Message.Content, nil
}

// Digest never fails: a disabled client, a service error, or an empty
// completion all substitute the deterministic local fallback. The read and
// refresh paths are never blocked on the summary service.
func Digest(ctx context.Context, s Summarizer, items []news.Item, instructions string) string {
	if len(items) == 0 {
		return ""
	}

	if s == nil || !s.Enabled() {
		return Fallback(items)
	}

	text, err := s.Summarize(ctx, items, instructions)
	if err != nil {
		slog.Warn("Summary service failed, using local fallback", "error", err)
		return Fallback(items)
	}

	return text
}
