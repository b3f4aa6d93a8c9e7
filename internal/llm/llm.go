// Package llm is the gateway to the hosted OpenAI-compatible API used
// by handlers: chat completions (plain and vision), embeddings, and
// audio transcription. Calls carry the bearer credential read at
// startup; there is no retry and no streaming.
package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"sort"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the hosted proxy endpoint.
	DefaultBaseURL = "https://api.aiproxy.xyz/v1"
	// DefaultChatModel is used for chat and vision completions.
	DefaultChatModel = "gpt-4o-mini"
	// DefaultEmbeddingModel is used for text embeddings.
	DefaultEmbeddingModel = "text-embedding-3-small"
	// DefaultAudioModel is used for audio transcription.
	DefaultAudioModel = "whisper-1"
)

// Config configures the gateway client. Zero fields other than Token
// fall back to the package defaults.
type Config struct {
	BaseURL        string
	Token          string
	ChatModel      string
	EmbeddingModel string
	AudioModel     string
}

// Client issues requests against an OpenAI-compatible API.
type Client struct {
	baseURL        string
	token          string
	chatModel      string
	embeddingModel string
	audioModel     string
	http           *http.Client
}

// New builds a client. The token is held for the process lifetime and
// never logged. The HTTP client bounds connection setup but sets no
// overall request deadline: a slow completion holds its request open.
func New(cfg Config) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	chatModel := cfg.ChatModel
	if chatModel == "" {
		chatModel = DefaultChatModel
	}
	embeddingModel := cfg.EmbeddingModel
	if embeddingModel == "" {
		embeddingModel = DefaultEmbeddingModel
	}
	audioModel := cfg.AudioModel
	if audioModel == "" {
		audioModel = DefaultAudioModel
	}

	return &Client{
		baseURL:        baseURL,
		token:          cfg.Token,
		chatModel:      chatModel,
		embeddingModel: embeddingModel,
		audioModel:     audioModel,
		http: &http.Client{
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				ForceAttemptHTTP2:   true,
				MaxIdleConns:        100,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Chat sends a single-message conversation and returns the first
// reply's text content.
func (c *Client) Chat(ctx context.Context, prompt string) (string, error) {
	return c.chat(ctx, chatMessage{Role: "user", Content: prompt})
}

type visionPart struct {
	Type     string           `json:"type"`
	Text     string           `json:"text,omitempty"`
	ImageURL *visionImagePart `json:"image_url,omitempty"`
}

type visionImagePart struct {
	URL string `json:"url"`
}

// ChatVision sends a prompt alongside a PNG image encoded as a base64
// data URI, for handlers that read task inputs out of images.
func (c *Client) ChatVision(ctx context.Context, prompt string, png []byte) (string, error) {
	parts := []visionPart{
		{Type: "text", Text: prompt},
		{Type: "image_url", ImageURL: &visionImagePart{
			URL: "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
		}},
	}
	return c.chat(ctx, chatMessage{Role: "user", Content: parts})
}

func (c *Client) chat(ctx context.Context, msg chatMessage) (string, error) {
	req := chatRequest{
		Model:    c.chatModel,
		Messages: []chatMessage{msg},
	}

	var decoded chatResponse
	if err := c.postJSON(ctx, "/chat/completions", req, &decoded); err != nil {
		return "", err
	}
	if len(decoded.Choices) == 0 {
		return "", fmt.Errorf("chat completion response missing choices")
	}
	content := decoded.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("chat completion response empty")
	}
	return content, nil
}

// ExtractJSON asks the model to answer with one JSON object and
// unmarshals the reply into v. The reply is not validated beyond
// unmarshalling: a malformed reply surfaces as this function's error.
func (c *Client) ExtractJSON(ctx context.Context, prompt string, v any) error {
	reply, err := c.Chat(ctx, prompt+"\nReply with a single JSON object and nothing else.")
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(stripFences(reply)), v); err != nil {
		return fmt.Errorf("parse model reply as JSON: %w", err)
	}
	return nil
}

// stripFences removes a surrounding markdown code fence, which models
// add to JSON replies despite instructions.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 {
		s = s[i+1:] // drop the language tag line
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

type embeddingsRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingsResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

// Embeddings returns one vector per input, in input order.
func (c *Client) Embeddings(ctx context.Context, inputs []string) ([][]float64, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("embeddings require at least one input")
	}

	req := embeddingsRequest{Model: c.embeddingModel, Input: inputs}
	var decoded embeddingsResponse
	if err := c.postJSON(ctx, "/embeddings", req, &decoded); err != nil {
		return nil, err
	}
	if len(decoded.Data) != len(inputs) {
		return nil, fmt.Errorf("embeddings response has %d vectors, want %d", len(decoded.Data), len(inputs))
	}

	sort.Slice(decoded.Data, func(i, j int) bool {
		return decoded.Data[i].Index < decoded.Data[j].Index
	})
	vectors := make([][]float64, len(decoded.Data))
	for i, d := range decoded.Data {
		vectors[i] = d.Embedding
	}
	return vectors, nil
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

// Transcribe uploads audio as multipart form data and returns the
// transcription text.
func (c *Client) Transcribe(ctx context.Context, filename string, audio io.Reader) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("build multipart body: %w", err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return "", fmt.Errorf("read audio: %w", err)
	}
	if err := mw.WriteField("model", c.audioModel); err != nil {
		return "", fmt.Errorf("build multipart body: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("build multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/audio/transcriptions", &body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("transcription failed: %s", responseError(resp))
	}

	var decoded transcriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode transcription response: %w", err)
	}
	return decoded.Text, nil
}

// postJSON marshals payload, posts it to path, and decodes the JSON
// response into out.
func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s: %s", strings.TrimPrefix(path, "/"), responseError(resp))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// responseError summarizes a non-2xx response, truncating the body.
func responseError(resp *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	snippet := strings.TrimSpace(string(body))
	if snippet == "" {
		return fmt.Sprintf("status %s", resp.Status)
	}
	return fmt.Sprintf("status %s: %s", resp.Status, snippet)
}
