package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dryflow/dryflow/pkg/logger"
)

var locatorLog = logger.New("parser:locator")

// blockSpan bounds a YAML block inside the source: the half-open line
// range [start, end) and the indentation its entries sit at. indent is
// -1 until the first entry fixes it.
type blockSpan struct {
	start  int
	end    int
	indent int
}

// LocateInstancePath resolves a schema instance location (map keys and
// sequence indexes, as reported by jsonschema) to a 1-based line/column
// in the YAML source. When a segment cannot be found the position of
// the deepest resolved node is returned; an empty or unresolvable path
// maps to 1:1.
func LocateInstancePath(content []byte, tokens []string) (line, column int) {
	line, column = 1, 1
	if len(tokens) == 0 {
		return line, column
	}

	lines := strings.Split(string(content), "\n")
	span := blockSpan{start: 0, end: len(lines), indent: -1}

	for _, token := range tokens {
		l, c, next, ok := descend(lines, span, token)
		if !ok {
			locatorLog.Printf("Path segment %q not found, reporting deepest match at %d:%d", token, line, column)
			return line, column
		}
		line, column = l, c
		span = next
	}
	return line, column
}

// descend finds one path segment inside the block. Numeric tokens are
// treated as sequence indexes when the block holds a sequence,
// otherwise as mapping keys.
func descend(lines []string, span blockSpan, token string) (line, column int, next blockSpan, ok bool) {
	if idx, err := strconv.Atoi(token); err == nil && blockIsSequence(lines, span) {
		return descendIndex(lines, span, idx)
	}
	return descendKey(lines, span, token)
}

// blockIsSequence reports whether the first entry of the block is a
// sequence item.
func blockIsSequence(lines []string, span blockSpan) bool {
	for i := span.start; i < span.end && i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		return strings.HasPrefix(trimmed, "- ") || trimmed == "-"
	}
	return false
}

// descendKey locates "key:" among the block's entries and returns the
// span of its value block.
func descendKey(lines []string, span blockSpan, key string) (line, column int, next blockSpan, ok bool) {
	keyPattern := regexp.MustCompile(`^` + regexp.QuoteMeta(key) + `\s*:`)

	for i := span.start; i < span.end && i < len(lines); i++ {
		raw := lines[i]
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		indent := indentOf(raw)
		if span.indent == -1 {
			span.indent = indent
		}
		if indent < span.indent {
			break
		}
		if indent > span.indent || !keyPattern.MatchString(trimmed) {
			continue
		}

		next = blockSpan{start: i + 1, end: blockEnd(lines, i+1, span.end, indent), indent: -1}
		return i + 1, indent + 1, next, true
	}
	return 0, 0, blockSpan{}, false
}

// descendIndex locates the idx-th sequence item of the block. The dash
// is blanked out so the item's inline keys ("- run: ...") scan as a
// plain mapping on the next descent.
func descendIndex(lines []string, span blockSpan, idx int) (line, column int, next blockSpan, ok bool) {
	count := 0
	for i := span.start; i < span.end && i < len(lines); i++ {
		raw := lines[i]
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		indent := indentOf(raw)
		if span.indent == -1 {
			span.indent = indent
		}
		if indent < span.indent {
			break
		}
		if indent > span.indent || !strings.HasPrefix(trimmed, "-") {
			continue
		}

		if count < idx {
			count++
			continue
		}

		lines[i] = raw[:indent] + " " + raw[indent+1:]
		next = blockSpan{start: i, end: blockEnd(lines, i+1, span.end, indent), indent: -1}
		return i + 1, indent + 1, next, true
	}
	return 0, 0, blockSpan{}, false
}

// blockEnd returns the exclusive end of a block whose entries are
// indented deeper than parentIndent.
func blockEnd(lines []string, start, limit, parentIndent int) int {
	for i := start; i < limit && i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if indentOf(lines[i]) <= parentIndent {
			return i
		}
	}
	if limit > len(lines) {
		return len(lines)
	}
	return limit
}

func indentOf(line string) int {
	return len(line) - len(strings.TrimLeft(line, " \t"))
}

// ContextLines returns the source lines surrounding a 1-based error
// line, starting one line above it, for use as CompilerError context.
func ContextLines(content []byte, line int) []string {
	if line < 1 {
		line = 1
	}
	lines := strings.Split(string(content), "\n")

	start := line - 2 // 0-based index of the line above the error
	if start < 0 {
		start = 0
	}
	end := line + 1 // exclusive, one line below the error
	if end > len(lines) {
		end = len(lines)
	}
	if start >= end {
		return nil
	}
	return lines[start:end]
}
