package agent

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// filterCSV keeps the rows of a CSV file whose named column equals the
// value named in the task and writes them as a JSON array of objects to
// csv_filtered.json. The model extracts the file, column, and value; the
// file defaults to data.csv when the model omits it.
func (a *Agent) filterCSV(ctx context.Context, taskText string) (string, error) {
	var params struct {
		File   string `json:"file"`
		Column string `json:"column"`
		Value  string `json:"value"`
	}
	prompt := "Extract the CSV file path, the column name, and the value to filter on from: " + taskText
	if err := a.llm.ExtractJSON(ctx, prompt, &params); err != nil {
		return "", err
	}
	if params.File == "" {
		params.File = "data.csv"
	}
	if params.Column == "" {
		return "", errors.New("task does not name a column to filter on")
	}

	src, err := a.resolveInput(params.File)
	if err != nil {
		return "", err
	}
	f, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("open CSV: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return "", fmt.Errorf("read CSV header: %w", err)
	}

	col := -1
	for i, name := range header {
		if name == params.Column {
			col = i
			break
		}
	}
	if col == -1 {
		return "", fmt.Errorf("column %q not found in %s", params.Column, params.File)
	}

	matches := []map[string]string{}
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("read CSV row: %w", err)
		}
		if record[col] != params.Value {
			continue
		}
		row := make(map[string]string, len(header))
		for i, name := range header {
			row[name] = record[i]
		}
		matches = append(matches, row)
	}

	data, err := json.Marshal(matches)
	if err != nil {
		return "", fmt.Errorf("encode filtered rows: %w", err)
	}
	if err := os.WriteFile(a.box.Path("csv_filtered.json"), data, 0o644); err != nil {
		return "", fmt.Errorf("write csv_filtered.json: %w", err)
	}
	return fmt.Sprintf("Filtered %d matching rows", len(matches)), nil
}
