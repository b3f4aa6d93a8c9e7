package agent

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/net/html"
)

// scrapePage fetches the page named in the task and writes its title and
// visible text to scraped.txt. The URL is taken literally from the task
// when present; otherwise the model is asked for it.
func (a *Agent) scrapePage(ctx context.Context, taskText string) (string, error) {
	rawURL := firstURL(taskText)
	if rawURL == "" {
		var params struct {
			URL string `json:"url"`
		}
		prompt := "Extract the web page URL from: " + taskText
		if err := a.llm.ExtractJSON(ctx, prompt, &params); err != nil {
			return "", err
		}
		rawURL = params.URL
	}
	if rawURL == "" {
		return "", errors.New("task does not name a URL to scrape")
	}

	body, err := fetchBody(ctx, rawURL)
	if err != nil {
		return "", err
	}

	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parse HTML: %w", err)
	}

	title := pageTitle(doc)
	text := visibleText(doc)

	var sb strings.Builder
	if title != "" {
		sb.WriteString(title)
		sb.WriteString("\n\n")
	}
	sb.WriteString(text)

	if err := os.WriteFile(a.box.Path("scraped.txt"), []byte(sb.String()), 0o644); err != nil {
		return "", fmt.Errorf("write scraped.txt: %w", err)
	}
	return "Scraped " + rawURL, nil
}

// pageTitle returns the text of the document's <title> element, or "".
func pageTitle(doc *html.Node) string {
	var title string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if title != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "title" {
			if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
				title = strings.TrimSpace(n.FirstChild.Data)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return title
}

// visibleText collects the document's text content, skipping script and
// style elements and collapsing runs of whitespace to single spaces.
func visibleText(doc *html.Node) string {
	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return strings.Join(strings.Fields(sb.String()), " ")
}
