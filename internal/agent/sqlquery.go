package agent

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	_ "modernc.org/sqlite"
)

// runSQL runs the query named in the task against a SQLite database under
// the sandbox and writes all rows as a JSON array to sql_result.json.
func (a *Agent) runSQL(ctx context.Context, taskText string) (string, error) {
	var params struct {
		Database string `json:"database"`
		Query    string `json:"query"`
	}
	prompt := "Extract the database file path and the SQL query from: " + taskText
	if err := a.llm.ExtractJSON(ctx, prompt, &params); err != nil {
		return "", err
	}
	if params.Database == "" {
		return "", errors.New("task does not name a database file")
	}
	if params.Query == "" {
		return "", errors.New("task does not contain a SQL query")
	}

	dbPath, err := a.resolveInput(params.Database)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(dbPath); err != nil {
		return "", fmt.Errorf("open database: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return "", fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, params.Query)
	if err != nil {
		return "", fmt.Errorf("run query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return "", fmt.Errorf("read columns: %w", err)
	}

	results := []map[string]any{}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return "", fmt.Errorf("scan row: %w", err)
		}
		row := make(map[string]any, len(cols))
		for i, col := range cols {
			v := vals[i]
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			row[col] = v
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("iterate rows: %w", err)
	}

	data, err := json.Marshal(results)
	if err != nil {
		return "", fmt.Errorf("encode rows: %w", err)
	}
	if err := os.WriteFile(a.box.Path("sql_result.json"), data, 0o644); err != nil {
		return "", fmt.Errorf("write sql_result.json: %w", err)
	}
	return fmt.Sprintf("Query returned %d rows", len(results)), nil
}
