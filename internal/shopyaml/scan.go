// Package shopyaml reads and writes the plugin's restricted YAML subset.
//
// The grammars are line-oriented and indentation is matched against exact
// column constants per grammar, not relative indent levels. A line whose
// column does not equal the expected constant for its section is silently
// skipped or routed elsewhere; nothing here returns a parse error. This
// mirrors how the plugin itself reads hand-edited config files and must not
// be tightened.
package shopyaml

import (
	"strconv"
	"strings"
)

// indentWidth returns the column of the first non-space character.
func indentWidth(s string) int {
	n := 0
	for n < len(s) && s[n] == ' ' {
		n++
	}
	return n
}

// skippable reports whether a trimmed line is blank or a comment. These are
// ignored in every section of every grammar.
func skippable(trimmed string) bool {
	return trimmed == "" || strings.HasPrefix(trimmed, "#")
}

// splitKeyValue splits a trimmed "key: value" or "key:" mapping line.
// ok is false for anything else (including bare sequence entries).
func splitKeyValue(s string) (key, value string, ok bool) {
	if i := strings.Index(s, ": "); i >= 0 {
		return s[:i], strings.TrimSpace(s[i+2:]), true
	}
	if strings.HasSuffix(s, ":") {
		return strings.TrimSuffix(s, ":"), "", true
	}
	return "", "", false
}

// unquote strips one pair of surrounding single or double quotes. There is
// deliberately no escape-sequence processing beyond that.
func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// dashValue returns the scalar after a leading "-" sequence marker. An entry
// that is empty after the dash is returned as "" (blank lore spacer lines
// are kept, not dropped).
func dashValue(trimmed string) string {
	return unquote(strings.TrimSpace(trimmed[1:]))
}

func parseFloatOr(s string, fallback float64) float64 {
	f, err := strconv.ParseFloat(unquote(s), 64)
	if err != nil {
		return fallback
	}
	return f
}

func parseIntOr(s string, fallback int) int {
	n, err := strconv.Atoi(unquote(s))
	if err != nil {
		// Tolerate "3.0" style values.
		f, ferr := strconv.ParseFloat(unquote(s), 64)
		if ferr != nil {
			return fallback
		}
		return int(f)
	}
	return n
}

func parseBoolOr(s string, fallback bool) bool {
	switch unquote(s) {
	case "true":
		return true
	case "false":
		return false
	}
	return fallback
}

// content returns a line's column and its trimmed content.
func content(raw string) (int, string) {
	col := indentWidth(raw)
	return col, strings.TrimRight(raw[col:], " \t")
}

// splitLines splits raw input into lines, tolerating CRLF endings.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
