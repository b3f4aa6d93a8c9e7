// Package testutil provides shared test helpers for agentd tests.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/dwarakesh2005/llm-automation-agent/internal/llm"
)

// FakeGateway is an in-process stand-in for the model gateway. It serves
// the chat completion, embeddings, and transcription endpoints with canned
// replies so tests never touch the network.
type FakeGateway struct {
	srv *httptest.Server

	mu         sync.Mutex
	chatReply  func(prompt string) string
	embeddings func(inputs []string) [][]float64
	transcript string
	prompts    []string
}

// NewFakeGateway starts a fake gateway and registers its shutdown with t.
// By default chat requests get "ok", embeddings requests get identical unit
// vectors, and transcription requests get an empty string.
func NewFakeGateway(t *testing.T) *FakeGateway {
	t.Helper()

	g := &FakeGateway{
		chatReply: func(string) string { return "ok" },
		embeddings: func(inputs []string) [][]float64 {
			vecs := make([][]float64, len(inputs))
			for i := range vecs {
				vecs[i] = []float64{1, 0, 0}
			}
			return vecs
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/chat/completions", g.handleChat)
	mux.HandleFunc("/embeddings", g.handleEmbeddings)
	mux.HandleFunc("/audio/transcriptions", g.handleTranscribe)
	g.srv = httptest.NewServer(mux)
	t.Cleanup(g.srv.Close)
	return g
}

// URL returns the gateway base URL, suitable for llm.Config.BaseURL.
func (g *FakeGateway) URL() string {
	return g.srv.URL
}

// Client returns an llm.Client pointed at the fake gateway.
func (g *FakeGateway) Client() *llm.Client {
	return llm.New(llm.Config{BaseURL: g.srv.URL, Token: "test-token"})
}

// SetChatReply installs fn as the chat responder. fn receives the prompt
// text; for vision requests that is the text part of the message.
func (g *FakeGateway) SetChatReply(fn func(prompt string) string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.chatReply = fn
}

// SetEmbeddings installs fn as the embeddings responder.
func (g *FakeGateway) SetEmbeddings(fn func(inputs []string) [][]float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.embeddings = fn
}

// SetTranscript sets the reply for transcription requests.
func (g *FakeGateway) SetTranscript(text string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.transcript = text
}

// Prompts returns a copy of the chat prompts seen so far.
func (g *FakeGateway) Prompts() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.prompts...)
}

func (g *FakeGateway) handleChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Messages []struct {
			Content any `json:"content"`
		} `json:"messages"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	prompt := ""
	if len(req.Messages) > 0 {
		prompt = promptText(req.Messages[len(req.Messages)-1].Content)
	}

	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)
	reply := g.chatReply(prompt)
	g.mu.Unlock()

	writeJSON(w, map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": reply}},
		},
	})
}

func (g *FakeGateway) handleEmbeddings(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Input []string `json:"input"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	g.mu.Lock()
	vecs := g.embeddings(req.Input)
	g.mu.Unlock()

	data := make([]map[string]any, len(vecs))
	for i, v := range vecs {
		data[i] = map[string]any{"index": i, "embedding": v}
	}
	writeJSON(w, map[string]any{"data": data})
}

func (g *FakeGateway) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	g.mu.Lock()
	text := g.transcript
	g.mu.Unlock()

	writeJSON(w, map[string]any{"text": text})
}

// promptText extracts the text of a chat message content field, which is
// either a plain string or a list of typed parts.
func promptText(content any) string {
	switch c := content.(type) {
	case string:
		return c
	case []any:
		var parts []string
		for _, p := range c {
			m, ok := p.(map[string]any)
			if !ok {
				continue
			}
			if s, ok := m["text"].(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "\n")
	}
	return ""
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
