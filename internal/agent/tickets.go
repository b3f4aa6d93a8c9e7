package agent

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"

	_ "modernc.org/sqlite"
)

// ticketSales sums the revenue of Gold tickets in ticket-sales.db and
// writes the total to ticket-sales-gold.txt.
func (a *Agent) ticketSales(ctx context.Context, taskText string) (string, error) {
	dbPath := a.box.Path("ticket-sales.db")
	if _, err := os.Stat(dbPath); err != nil {
		return "", fmt.Errorf("open ticket-sales.db: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return "", fmt.Errorf("open ticket-sales.db: %w", err)
	}
	defer db.Close()

	var total sql.NullFloat64
	query := "SELECT SUM(units * price) FROM tickets WHERE type = 'Gold'"
	if err := db.QueryRowContext(ctx, query).Scan(&total); err != nil {
		return "", fmt.Errorf("query ticket sales: %w", err)
	}

	value := strconv.FormatFloat(total.Float64, 'f', -1, 64)
	if err := os.WriteFile(a.box.Path("ticket-sales-gold.txt"), []byte(value), 0o644); err != nil {
		return "", fmt.Errorf("write ticket-sales-gold.txt: %w", err)
	}
	return "Gold ticket sales total: " + value, nil
}
