package agent

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// extractCardNumber asks the model to read the card number out of
// credit_card.png and writes it, digits only, to credit-card.txt.
func (a *Agent) extractCardNumber(ctx context.Context, taskText string) (string, error) {
	img, err := os.ReadFile(a.box.Path("credit_card.png"))
	if err != nil {
		return "", fmt.Errorf("read credit_card.png: %w", err)
	}

	prompt := "Extract the credit card number from this image. Reply with the number only."
	reply, err := a.llm.ChatVision(ctx, prompt, img)
	if err != nil {
		return "", err
	}

	number := strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(reply))
	if err := os.WriteFile(a.box.Path("credit-card.txt"), []byte(number), 0o644); err != nil {
		return "", fmt.Errorf("write credit-card.txt: %w", err)
	}
	return "Card number extracted", nil
}
