package agent

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
)

// similarComments embeds every line of comments.txt in one gateway call,
// finds the pair with the highest cosine similarity, and writes the two
// comments in file order to comments-similar.txt.
func (a *Agent) similarComments(ctx context.Context, taskText string) (string, error) {
	data, err := os.ReadFile(a.box.Path("comments.txt"))
	if err != nil {
		return "", fmt.Errorf("read comments.txt: %w", err)
	}

	var comments []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			comments = append(comments, line)
		}
	}
	if len(comments) < 2 {
		return "", errors.New("comments.txt needs at least two comments")
	}

	vecs, err := a.llm.Embeddings(ctx, comments)
	if err != nil {
		return "", err
	}

	bestI, bestJ := 0, 1
	best := math.Inf(-1)
	for i := 0; i < len(vecs); i++ {
		for j := i + 1; j < len(vecs); j++ {
			if sim := cosine(vecs[i], vecs[j]); sim > best {
				best, bestI, bestJ = sim, i, j
			}
		}
	}

	out := comments[bestI] + "\n" + comments[bestJ]
	if err := os.WriteFile(a.box.Path("comments-similar.txt"), []byte(out), 0o644); err != nil {
		return "", fmt.Errorf("write comments-similar.txt: %w", err)
	}
	return "Most similar pair of comments written", nil
}

// cosine computes cosine similarity. A zero vector has similarity 0 with
// everything.
func cosine(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
