package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dwarakesh2005/llm-automation-agent/internal/audit"
	"github.com/dwarakesh2005/llm-automation-agent/internal/sandbox"
	"github.com/dwarakesh2005/llm-automation-agent/internal/task"
	"github.com/dwarakesh2005/llm-automation-agent/internal/testutil"
)

// stubDispatcher implements Dispatcher and records the tasks it ran.
type stubDispatcher struct {
	mu     sync.Mutex
	tasks  []string
	result task.Result
}

func (d *stubDispatcher) Execute(_ context.Context, taskText string) task.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.tasks = append(d.tasks, taskText)
	return d.result
}

func (d *stubDispatcher) executed() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.tasks...)
}

func (d *stubDispatcher) setResult(r task.Result) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.result = r
}

// startTestServer starts a server over a fresh sandbox and stub
// dispatcher, and stops it when the test finishes.
func startTestServer(t *testing.T, auditLogger *audit.Logger) (string, *stubDispatcher, *sandbox.Dir) {
	t.Helper()

	box := testutil.NewSandbox(t)
	disp := &stubDispatcher{result: task.Success("done")}

	srv := New("127.0.0.1:0", disp, box, auditLogger)
	if err := srv.Start(); err != nil {
		t.Fatalf("failed to start server: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Stop(ctx)
	})

	return "http://" + srv.ListenAddr(), disp, box
}

// do issues a request with no body and returns the response.
func do(t *testing.T, method, rawURL string) *http.Response {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), method, rawURL, http.NoBody)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

// runURL builds a POST /run URL with the task text as a query parameter.
func runURL(baseURL, taskText string) string {
	q := url.Values{}
	if taskText != "" {
		q.Set("task", taskText)
	}
	return baseURL + "/run?" + q.Encode()
}

func TestServer_StartStop(t *testing.T) {
	box := testutil.NewSandbox(t)
	srv := New("127.0.0.1:0", &stubDispatcher{}, box, nil)

	if err := srv.Start(); err != nil {
		t.Fatalf("failed to start server: %v", err)
	}

	if srv.ListenAddr() == "" {
		t.Fatal("expected non-empty listen address")
	}

	// Starting again should fail
	if err := srv.Start(); err == nil {
		t.Error("expected error when starting already running server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Stop(ctx); err != nil {
		t.Fatalf("failed to stop server: %v", err)
	}

	// Stopping again should be idempotent
	if err := srv.Stop(ctx); err != nil {
		t.Fatalf("expected no error when stopping already stopped server: %v", err)
	}
}

func TestServer_DefaultAddr(t *testing.T) {
	srv := New("", &stubDispatcher{}, nil, nil)
	if srv.Addr != DefaultAddr {
		t.Errorf("Addr = %q, want %q", srv.Addr, DefaultAddr)
	}
}

func TestServer_Root(t *testing.T) {
	baseURL, _, _ := startTestServer(t, nil)

	resp := do(t, http.MethodGet, baseURL+"/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body messageResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if want := "LLM Automation Agent API is running"; body.Message != want {
		t.Errorf("message = %q, want %q", body.Message, want)
	}
}

func TestServer_RunRejections(t *testing.T) {
	baseURL, disp, _ := startTestServer(t, nil)

	tests := []struct {
		name          string
		task          string
		expectedError string
	}{
		{"missing task", "", "Task description is required"},
		{"parent traversal", "summarize ../secret.txt", "Invalid path access"},
		{"absolute path outside sandbox", "/etc/passwd looks interesting", "Invalid path access"},
		{"delete keyword", "delete the old entries", "File deletion not allowed"},
		{"remove keyword any case", "REMOVE stale logs", "File deletion not allowed"},
		{"rm as a word", "run rm on the output dir", "File deletion not allowed"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := do(t, http.MethodPost, runURL(baseURL, tc.task))
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}

			var errResp errorResponse
			if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
				t.Fatalf("failed to decode error response: %v", err)
			}
			if errResp.Error != tc.expectedError {
				t.Errorf("error = %q, want %q", errResp.Error, tc.expectedError)
			}
		})
	}

	// No rejected task may reach the dispatcher.
	if got := disp.executed(); len(got) != 0 {
		t.Errorf("dispatcher ran %d tasks, want 0: %v", len(got), got)
	}
}

func TestServer_RunDispatches(t *testing.T) {
	baseURL, disp, _ := startTestServer(t, nil)

	const taskText = "count the wednesdays in dates.txt"
	resp := do(t, http.MethodPost, runURL(baseURL, taskText))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body runResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Status != "success" {
		t.Errorf("status field = %q, want %q", body.Status, "success")
	}
	if body.Result.Status != task.StatusSuccess {
		t.Errorf("result.status = %q, want %q", body.Result.Status, task.StatusSuccess)
	}
	if body.Result.Message != "done" {
		t.Errorf("result.message = %q, want %q", body.Result.Message, "done")
	}

	if got := disp.executed(); len(got) != 1 || got[0] != taskText {
		t.Errorf("dispatcher ran %v, want exactly [%q]", got, taskText)
	}
}

func TestServer_RunLeadingSandboxPathAccepted(t *testing.T) {
	baseURL, disp, box := startTestServer(t, nil)

	taskText := box.Path("dates.txt") + " has dates, count the wednesdays"
	resp := do(t, http.MethodPost, runURL(baseURL, taskText))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if got := disp.executed(); len(got) != 1 {
		t.Errorf("dispatcher ran %d tasks, want 1", len(got))
	}
}

func TestServer_RunHandlerFailureStaysHTTP200(t *testing.T) {
	baseURL, disp, _ := startTestServer(t, nil)
	disp.setResult(task.Errorf("dates.txt: no such file"))

	resp := do(t, http.MethodPost, runURL(baseURL, "count the wednesdays"))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body runResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Result.Status != task.StatusError {
		t.Errorf("result.status = %q, want %q", body.Result.Status, task.StatusError)
	}
	if body.Result.Message != "dates.txt: no such file" {
		t.Errorf("result.message = %q, want the handler diagnostic", body.Result.Message)
	}
}

func TestServer_Read(t *testing.T) {
	baseURL, _, box := startTestServer(t, nil)
	path := testutil.WriteFile(t, box, "output.txt", "line one\nline two\n")

	resp := do(t, http.MethodGet, baseURL+"/read?path="+url.QueryEscape(path))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/plain; charset=utf-8" {
		t.Errorf("Content-Type = %q, want text/plain; charset=utf-8", ct)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	if string(data) != "line one\nline two\n" {
		t.Errorf("body = %q, want exact file content", data)
	}
}

func TestServer_ReadRejections(t *testing.T) {
	baseURL, _, box := startTestServer(t, nil)

	tests := []struct {
		name           string
		path           string
		expectedStatus int
		expectedError  string
	}{
		{"missing path", "", http.StatusBadRequest, "File path is required"},
		{"parent traversal", box.Path("x") + "/../../etc/passwd", http.StatusBadRequest, "Invalid path access"},
		{"outside sandbox", "/etc/passwd", http.StatusBadRequest, "Invalid path access"},
		{"relative path", "output.txt", http.StatusBadRequest, "Invalid path access"},
		{"absent file", box.Path("missing.txt"), http.StatusNotFound, "File not found"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			u := baseURL + "/read"
			if tc.path != "" {
				u += "?path=" + url.QueryEscape(tc.path)
			}
			resp := do(t, http.MethodGet, u)
			if resp.StatusCode != tc.expectedStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tc.expectedStatus)
			}

			var errResp errorResponse
			if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
				t.Fatalf("failed to decode error response: %v", err)
			}
			if errResp.Error != tc.expectedError {
				t.Errorf("error = %q, want %q", errResp.Error, tc.expectedError)
			}
		})
	}
}

func TestServer_MethodNotAllowed(t *testing.T) {
	baseURL, disp, _ := startTestServer(t, nil)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/run"},
		{http.MethodPost, "/read"},
		{http.MethodDelete, "/"},
	}

	for _, tc := range tests {
		resp := do(t, tc.method, baseURL+tc.path)
		if resp.StatusCode != http.StatusMethodNotAllowed {
			t.Errorf("%s %s: status = %d, want 405", tc.method, tc.path, resp.StatusCode)
		}
	}

	if got := disp.executed(); len(got) != 0 {
		t.Errorf("dispatcher ran %d tasks, want 0", len(got))
	}
}

func TestServer_UnknownRouteNotFound(t *testing.T) {
	baseURL, _, _ := startTestServer(t, nil)

	resp := do(t, http.MethodGet, baseURL+"/metrics")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

// syncBuffer is an io.Writer safe for concurrent use from the server
// goroutine and assertions on the test goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestServer_AuditTrail(t *testing.T) {
	var buf syncBuffer

	baseURL, _, box := startTestServer(t, audit.NewLogger(&buf))
	path := testutil.WriteFile(t, box, "notes.txt", "hello")

	do(t, http.MethodPost, runURL(baseURL, "count the wednesdays"))
	do(t, http.MethodPost, runURL(baseURL, "delete everything"))
	do(t, http.MethodGet, baseURL+"/read?path="+url.QueryEscape(path))

	log := buf.String()
	for _, want := range []string{
		"TASK RECEIVED",
		"TASK COMPLETED",
		"TASK REJECTED",
		`reason="File deletion not allowed"`,
		"FILE READ",
		"kind=count_dates",
		"status=success",
	} {
		if !strings.Contains(log, want) {
			t.Errorf("audit log missing %q:\n%s", want, log)
		}
	}
}
