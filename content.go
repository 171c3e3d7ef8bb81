package scopecrawl

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// fullTextLabel separates the numeric excerpt from the full page text.
const fullTextLabel = "\n\nFull Page Text:\n"

// NumericLines returns the lines of text that contain a standalone digit run,
// in their original order, joined with newlines.
// Digits embedded in a larger word (e.g. "abc123", "café5") do not count.
// Digits and letters are matched in any script, so "वर्ष २०२४" qualifies.
func NumericLines(text string) string {
	var lines []string
	for _, line := range splitLines(text) {
		if hasStandaloneNumber(line) {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// hasStandaloneNumber reports whether line holds a run of decimal digits
// with no word character directly before or after it.
func hasStandaloneNumber(line string) bool {
	prev := ' '
	for i := 0; i < len(line); {
		r, size := utf8.DecodeRuneInString(line[i:])
		if !unicode.IsDigit(r) || isWordRune(prev) {
			prev = r
			i += size
			continue
		}
		// Consume the digit run.
		j := i
		for j < len(line) {
			r, size = utf8.DecodeRuneInString(line[j:])
			if !unicode.IsDigit(r) {
				break
			}
			j += size
		}
		if j == len(line) {
			return true
		}
		next, _ := utf8.DecodeRuneInString(line[j:])
		if !isWordRune(next) {
			return true
		}
		prev = next
		i = j
	}
	return false
}

// isWordRune reports whether r is part of a word: a letter, number or
// combining mark in any script, or an underscore.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsMark(r)
}

// splitLines splits text at every line boundary Python's str.splitlines
// recognises, treating "\r\n" as one break. A trailing break does not
// produce an empty final line.
func splitLines(text string) []string {
	var lines []string
	start := 0
	for i, r := range text {
		if !isLineBreak(r) {
			continue
		}
		if r == '\n' && i > 0 && text[i-1] == '\r' {
			start = i + 1
			continue
		}
		lines = append(lines, text[start:i])
		start = i + utf8.RuneLen(r)
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

// BuildContent assembles record content from a page's visible text:
// the numeric lines first, then the labeled full text.
func BuildContent(text string) string {
	return strings.TrimSpace(NumericLines(text) + fullTextLabel + text)
}

// NewRecord builds the record for an extracted page.
func NewRecord(res *ExtractResult) *Record {
	return &Record{
		Title:   res.Title,
		Content: BuildContent(res.Text),
	}
}

// SearchRecords returns the records whose content contains query,
// ignoring case. An empty query matches nothing.
func SearchRecords(records []*Record, query string) []*Record {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	var matches []*Record
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Content), query) {
			matches = append(matches, r)
		}
	}
	return matches
}
