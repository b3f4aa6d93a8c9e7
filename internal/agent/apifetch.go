package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
)

// fetchAPI asks the model for the URL and query parameters named in the
// task, GETs the endpoint, and writes the pretty-printed JSON response to
// api_response.json.
func (a *Agent) fetchAPI(ctx context.Context, taskText string) (string, error) {
	var params struct {
		URL    string         `json:"url"`
		Params map[string]any `json:"params"`
	}
	prompt := "Extract the API URL and parameters from: " + taskText
	if err := a.llm.ExtractJSON(ctx, prompt, &params); err != nil {
		return "", err
	}
	if params.URL == "" {
		return "", errors.New("task does not name an API URL")
	}

	u, err := url.Parse(params.URL)
	if err != nil {
		return "", fmt.Errorf("parse API URL %q: %w", params.URL, err)
	}
	q := u.Query()
	for k, v := range params.Params {
		q.Set(k, fmt.Sprint(v))
	}
	u.RawQuery = q.Encode()

	body, err := fetchBody(ctx, u.String())
	if err != nil {
		return "", err
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("API response is not JSON: %w", err)
	}
	pretty, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode API response: %w", err)
	}

	if err := os.WriteFile(a.box.Path("api_response.json"), pretty, 0o644); err != nil {
		return "", fmt.Errorf("write api_response.json: %w", err)
	}
	return "API data fetched and saved", nil
}
