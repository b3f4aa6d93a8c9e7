package agent

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// extractEmailSender asks the model for the sender address in email.txt
// and writes it to email-sender.txt.
func (a *Agent) extractEmailSender(ctx context.Context, taskText string) (string, error) {
	data, err := os.ReadFile(a.box.Path("email.txt"))
	if err != nil {
		return "", fmt.Errorf("read email.txt: %w", err)
	}

	prompt := "Extract the sender's email address from this email message. Reply with the address only.\n\n" + string(data)
	reply, err := a.llm.Chat(ctx, prompt)
	if err != nil {
		return "", err
	}

	addr := strings.TrimSpace(reply)
	if err := os.WriteFile(a.box.Path("email-sender.txt"), []byte(addr), 0o644); err != nil {
		return "", fmt.Errorf("write email-sender.txt: %w", err)
	}
	return "Sender email address extracted", nil
}
