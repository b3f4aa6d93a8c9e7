package agent

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// transcribeAudio sends the MP3 named in the task (default audio.mp3) to
// the transcription endpoint and writes the text beside it, with the .mp3
// extension replaced by .txt.
func (a *Agent) transcribeAudio(ctx context.Context, taskText string) (string, error) {
	name := firstFileToken(taskText, ".mp3")
	if name == "" {
		name = "audio.mp3"
	}
	src, err := a.resolveInput(name)
	if err != nil {
		return "", err
	}

	f, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	text, err := a.llm.Transcribe(ctx, filepath.Base(src), f)
	if err != nil {
		return "", err
	}

	dst := strings.TrimSuffix(src, filepath.Ext(src)) + ".txt"
	if err := os.WriteFile(dst, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("write transcript: %w", err)
	}
	return "Audio transcribed to " + dst, nil
}
