package console

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dryflow/dryflow/pkg/styles"
	"github.com/dryflow/dryflow/pkg/tty"
)

// TableConfig describes a table to render. Rows whose cell count differs
// from the header count are padded or truncated to fit.
type TableConfig struct {
	Title     string
	Headers   []string
	Rows      [][]string
	ShowTotal bool
	TotalRow  []string
}

// RenderTable renders a plain-text table with aligned columns. An empty
// config renders as an empty string.
func RenderTable(config TableConfig) string {
	if len(config.Headers) == 0 && len(config.Rows) == 0 {
		return ""
	}

	widths := columnWidths(config)

	var b strings.Builder
	if config.Title != "" {
		title := config.Title
		if tty.IsStderrTerminal() {
			title = styles.Bold.Render(title)
		}
		b.WriteString(title)
		b.WriteString("\n")
	}

	if len(config.Headers) > 0 {
		b.WriteString(renderRow(config.Headers, widths))
		b.WriteString(renderSeparator(widths))
	}

	for _, row := range config.Rows {
		b.WriteString(renderRow(row, widths))
	}

	if config.ShowTotal && len(config.TotalRow) > 0 {
		b.WriteString(renderSeparator(widths))
		b.WriteString(renderRow(config.TotalRow, widths))
	}

	return b.String()
}

// RenderTableAsJSON renders the table rows as a JSON array of objects
// keyed by snake_cased header names.
func RenderTableAsJSON(config TableConfig) (string, error) {
	if len(config.Headers) == 0 {
		return "[]", nil
	}

	keys := make([]string, len(config.Headers))
	for i, h := range config.Headers {
		keys[i] = headerToKey(h)
	}

	records := make([]map[string]string, 0, len(config.Rows))
	for _, row := range config.Rows {
		record := make(map[string]string, len(keys))
		for i, key := range keys {
			if i < len(row) {
				record[key] = row[i]
			} else {
				record[key] = ""
			}
		}
		records = append(records, record)
	}

	out, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal table as JSON: %w", err)
	}
	return string(out), nil
}

func headerToKey(header string) string {
	key := strings.ToLower(strings.TrimSpace(header))
	key = strings.ReplaceAll(key, " ", "_")
	return key
}

func columnWidths(config TableConfig) []int {
	cols := len(config.Headers)
	for _, row := range config.Rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	if config.ShowTotal && len(config.TotalRow) > cols {
		cols = len(config.TotalRow)
	}

	widths := make([]int, cols)
	measure := func(row []string) {
		for i, cell := range row {
			if w := len([]rune(cell)); w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(config.Headers)
	for _, row := range config.Rows {
		measure(row)
	}
	if config.ShowTotal {
		measure(config.TotalRow)
	}
	return widths
}

func renderRow(row []string, widths []int) string {
	cells := make([]string, len(widths))
	for i := range widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		cells[i] = cell + strings.Repeat(" ", widths[i]-len([]rune(cell)))
	}
	return strings.TrimRight(strings.Join(cells, "  "), " ") + "\n"
}

func renderSeparator(widths []int) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat("-", w)
	}
	return strings.Join(parts, "  ") + "\n"
}
