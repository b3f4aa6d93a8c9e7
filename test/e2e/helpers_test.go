//go:build e2e

// Package e2e exercises the assembled agentd stack over real HTTP: a
// server on a loopback port dispatching to an agent whose sandbox is a
// temp directory and whose model gateway is an in-process fake.
package e2e

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/dwarakesh2005/llm-automation-agent/internal/agent"
	"github.com/dwarakesh2005/llm-automation-agent/internal/sandbox"
	"github.com/dwarakesh2005/llm-automation-agent/internal/server"
	"github.com/dwarakesh2005/llm-automation-agent/internal/testutil"
)

// taskResult mirrors the result object inside the /run envelope.
type taskResult struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// runEnvelope mirrors a /run response body. Error is set only on the
// 400 rejection shape.
type runEnvelope struct {
	Status string     `json:"status"`
	Result taskResult `json:"result"`
	Error  string     `json:"error"`
}

// startAgent assembles the full stack and returns the server base URL,
// the sandbox, and the fake gateway for scripting model replies.
func startAgent(t *testing.T) (string, *sandbox.Dir, *testutil.FakeGateway) {
	t.Helper()

	box := testutil.NewSandbox(t)
	gw := testutil.NewFakeGateway(t)
	ag := agent.New(box, gw.Client(), "user@example.com")

	srv := server.New("127.0.0.1:0", ag, box, nil)
	if err := srv.Start(); err != nil {
		t.Fatalf("start server: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Stop(ctx)
	})

	return "http://" + srv.ListenAddr(), box, gw
}

// postRun submits one task and decodes the response envelope.
func postRun(t *testing.T, baseURL, taskText string) (int, runEnvelope) {
	t.Helper()

	u := baseURL + "/run?task=" + url.QueryEscape(taskText)
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, u, nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST /run: %v", err)
	}
	defer resp.Body.Close()

	var env runEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode /run response: %v", err)
	}
	return resp.StatusCode, env
}

// getRead fetches a file through /read and returns the status and raw body.
func getRead(t *testing.T, baseURL, path string) (int, string) {
	t.Helper()

	resp, err := http.Get(baseURL + "/read?path=" + url.QueryEscape(path))
	if err != nil {
		t.Fatalf("GET /read: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode, string(body)
}

// mustRunSuccess submits a task and fails the test unless both the
// envelope and the handler report success.
func mustRunSuccess(t *testing.T, baseURL, taskText string) taskResult {
	t.Helper()

	code, env := postRun(t, baseURL, taskText)
	if code != http.StatusOK {
		t.Fatalf("POST /run status = %d, body %+v", code, env)
	}
	if env.Status != "success" || env.Result.Status != "success" {
		t.Fatalf("task %q failed: %+v", taskText, env)
	}
	return env.Result
}
