// Package agent executes classified automation tasks. Each task kind is
// bound to one handler; handlers operate on files under a sandboxed
// directory tree, shell out to CLI tools, and call the model gateway for
// the steps that need language understanding.
package agent

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/dwarakesh2005/llm-automation-agent/internal/alog"
	"github.com/dwarakesh2005/llm-automation-agent/internal/llm"
	"github.com/dwarakesh2005/llm-automation-agent/internal/sandbox"
	"github.com/dwarakesh2005/llm-automation-agent/internal/task"
)

// HandlerFunc executes one kind of task. It returns a human-readable
// success message, or an error to be reported verbatim to the caller.
type HandlerFunc func(ctx context.Context, taskText string) (string, error)

// Agent dispatches task descriptions to their handlers. All collaborators
// are injected at construction; handlers never reach for globals.
type Agent struct {
	box   *sandbox.Dir
	llm   *llm.Client
	email string

	handlers map[task.Kind]HandlerFunc
}

// New builds an Agent operating on box, using client for model calls and
// email as the identity argument for generated data.
func New(box *sandbox.Dir, client *llm.Client, email string) *Agent {
	a := &Agent{box: box, llm: client, email: email}
	a.handlers = map[task.Kind]HandlerFunc{
		task.KindInstall:         a.installTools,
		task.KindFormat:          a.formatMarkdown,
		task.KindCountDates:      a.countDates,
		task.KindSortContacts:    a.sortContacts,
		task.KindRecentLogs:      a.recentLogs,
		task.KindMarkdownIndex:   a.indexMarkdown,
		task.KindEmailSender:     a.extractEmailSender,
		task.KindCreditCard:      a.extractCardNumber,
		task.KindSimilarComments: a.similarComments,
		task.KindTicketSales:     a.ticketSales,
		task.KindAPIFetch:        a.fetchAPI,
		task.KindGit:             a.cloneAndCommit,
		task.KindSQLQuery:        a.runSQL,
		task.KindScrape:          a.scrapePage,
		task.KindImage:           a.compressImage,
		task.KindAudio:           a.transcribeAudio,
		task.KindMarkdownHTML:    a.renderMarkdown,
		task.KindCSVFilter:       a.filterCSV,
	}
	return a
}

// Execute classifies taskText and runs the matching handler. Every failure
// is folded into the returned Result: an unrecognized task yields an error
// result without side effects, and a handler error yields an error result
// carrying the error text. Handlers return errors rather than converting
// them; this is the only place that conversion happens.
func (a *Agent) Execute(ctx context.Context, taskText string) task.Result {
	kind := task.Classify(taskText)
	handler, ok := a.handlers[kind]
	if !ok {
		return task.Errorf("Task type not recognized")
	}

	alog.Debug("agent: dispatching %s task", kind)
	msg, err := handler(ctx, taskText)
	if err != nil {
		alog.Warn("agent: %s task failed: %v", kind, err)
		return task.Errorf("%s", err.Error())
	}
	alog.Info("agent: %s task done: %s", kind, msg)
	return task.Success("%s", msg)
}

// resolveInput maps a task-supplied file reference to an absolute path
// inside the sandbox. Relative names are joined to the sandbox root;
// absolute paths must already resolve under it.
func (a *Agent) resolveInput(name string) (string, error) {
	if !filepath.IsAbs(name) {
		name = a.box.Path(name)
	}
	return a.box.Resolve(name)
}

// webClient issues outbound fetches for handlers. It sets no overall
// deadline; cancellation comes from the request context.
var webClient = &http.Client{}

// fetchBody GETs rawURL and returns the response body. Any status other
// than 200 is an error.
func fetchBody(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", rawURL, err)
	}
	resp, err := webClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: unexpected status %s", rawURL, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body of %s: %w", rawURL, err)
	}
	return body, nil
}

var urlRE = regexp.MustCompile(`https?://[^\s"'<>]+`)

// firstURL returns the first http(s) URL in text, or "".
func firstURL(text string) string {
	return urlRE.FindString(text)
}

// firstFileToken returns the first whitespace-separated token in text that
// ends with one of the given extensions, with surrounding punctuation
// trimmed. Returns "" when no token matches.
func firstFileToken(text string, exts ...string) string {
	for _, tok := range strings.Fields(text) {
		tok = strings.Trim(tok, `"'(),;:`)
		lower := strings.ToLower(tok)
		for _, ext := range exts {
			if strings.HasSuffix(lower, ext) {
				return tok
			}
		}
	}
	return ""
}
