// Package llm provides a thin client over hosted text-generation APIs and a
// synthesizer that asks one of them for a candidate string-DSL program
// directly, bypassing enumeration. It is a peer collaborator of pkg/synth,
// not a dependency of it.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
)

// Provider selects which hosted API Chat talks to.
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
)

// Client sends prompts to a hosted LLM and returns raw text. With no API key
// configured it falls back to a mock response so callers can exercise the
// rest of the pipeline offline.
type Client struct {
	provider     Provider
	anthropicKey string
	openaiKey    string
	anthropicURL string
	openaiURL    string
	claudeModel  string
	gptModel     string
	httpClient   *http.Client
}

// New creates a Client, picking a provider from whichever API key is present
// in the environment (OpenAI preferred when both are set).
func New() *Client {
	c := &Client{
		anthropicKey: os.Getenv("ANTHROPIC_API_KEY"),
		openaiKey:    os.Getenv("OPENAI_API_KEY"),
		anthropicURL: "https://api.anthropic.com/v1",
		openaiURL:    "https://api.openai.com/v1",
		claudeModel:  "claude-sonnet-4-20250514",
		gptModel:     "gpt-4o",
		httpClient:   http.DefaultClient,
	}

	if c.openaiKey != "" {
		c.provider = ProviderOpenAI
	} else if c.anthropicKey != "" {
		c.provider = ProviderAnthropic
	}

	return c
}

func (c *Client) SetProvider(p Provider) { c.provider = p }
func (c *Client) GetProvider() Provider  { return c.provider }
func (c *Client) HasAPIKey() bool        { return c.openaiKey != "" || c.anthropicKey != "" }

func (c *Client) ProviderName() string {
	switch c.provider {
	case ProviderOpenAI:
		return "ChatGPT (" + c.gptModel + ")"
	case ProviderAnthropic:
		return "Claude (" + c.claudeModel + ")"
	default:
		return "mock (no API key)"
	}
}

// systemPrompt fixes the DSL grammar the model must answer within; it is
// prepended to every request regardless of provider.
const systemPrompt = `You are a program-synthesis assistant for a small string transformation DSL.

Grammar (one expression per line of your answer, most likely first):
  InputString
  StringLiteral("...")
  Concatenate(A, B)
  Substring(A, start, end)
  ToUpper(A)
  ToLower(A)
  Capitalize(A)
  Strip(A)
  Replace(A, Old, New)
  Repeat(A, n)
  SplitThenTake(A, Delim, index)

A, B, Old, New, Delim are themselves expressions in this grammar (commonly
InputString or StringLiteral("...")). Respond with exactly one expression
that, given the input of each example, produces the example's expected
output. Do not explain your answer.`

// BuildPrompt embeds the DSL grammar and the caller's examples into one
// request body.
func BuildPrompt(examples [][2]string) string {
	var b bytes.Buffer
	b.WriteString(systemPrompt)
	b.WriteString("\n\nExamples:\n")
	for _, ex := range examples {
		fmt.Fprintf(&b, "  %q -> %q\n", ex[0], ex[1])
	}
	b.WriteString("\nExpression:")
	return b.String()
}

// Chat sends prompt to the configured provider and returns its raw text
// response.
func (c *Client) Chat(ctx context.Context, prompt string) (string, error) {
	switch c.provider {
	case ProviderOpenAI:
		if c.openaiKey == "" {
			return c.mockResponse(), nil
		}
		return c.chatOpenAI(ctx, prompt)
	case ProviderAnthropic:
		if c.anthropicKey == "" {
			return c.mockResponse(), nil
		}
		return c.chatAnthropic(ctx, prompt)
	default:
		return c.mockResponse(), nil
	}
}

func (c *Client) chatOpenAI(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"model": c.gptModel,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": prompt},
		},
		"max_tokens": 256,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.openaiURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.openaiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("openai API error %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("empty response from openai")
	}
	return result.Choices[0].Message.Content, nil
}

func (c *Client) chatAnthropic(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"model":      c.claudeModel,
		"max_tokens": 256,
		"system":     systemPrompt,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.anthropicURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.anthropicKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("anthropic API error %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if len(result.Content) == 0 {
		return "", fmt.Errorf("empty response from anthropic")
	}
	return result.Content[0].Text, nil
}

// mockResponse lets callers exercise the pipeline with no API key set.
func (c *Client) mockResponse() string {
	return `ToLower(Replace(Strip(InputString), StringLiteral(" "), StringLiteral("-")))`
}
