package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// sortContacts sorts the contact records in contacts.json by last name,
// then first name, and writes the result to contacts-sorted.json. Records
// are kept as raw objects so fields beyond the sort keys survive.
func (a *Agent) sortContacts(ctx context.Context, taskText string) (string, error) {
	data, err := os.ReadFile(a.box.Path("contacts.json"))
	if err != nil {
		return "", fmt.Errorf("read contacts.json: %w", err)
	}

	var contacts []map[string]any
	if err := json.Unmarshal(data, &contacts); err != nil {
		return "", fmt.Errorf("parse contacts.json: %w", err)
	}

	sort.SliceStable(contacts, func(i, j int) bool {
		li, _ := contacts[i]["last_name"].(string)
		lj, _ := contacts[j]["last_name"].(string)
		if li != lj {
			return li < lj
		}
		fi, _ := contacts[i]["first_name"].(string)
		fj, _ := contacts[j]["first_name"].(string)
		return fi < fj
	})

	sorted, err := json.Marshal(contacts)
	if err != nil {
		return "", fmt.Errorf("encode sorted contacts: %w", err)
	}
	if err := os.WriteFile(a.box.Path("contacts-sorted.json"), sorted, 0o644); err != nil {
		return "", fmt.Errorf("write contacts-sorted.json: %w", err)
	}
	return fmt.Sprintf("Sorted %d contacts", len(contacts)), nil
}
