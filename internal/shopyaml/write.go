package shopyaml

import (
	"sort"
	"strconv"
	"strings"

	"github.com/Drallee/genius-shop-editor/internal/model"
)

// Serializer output is canonical: display strings are single-quoted, tokens
// (materials, enchantment names) are bare, booleans render as true/false and
// numbers as plain digits. Optional fields are omitted entirely when falsy.
// The same document always renders to byte-identical text, which the editor
// relies on to skip no-op saves.

func quote(s string) string {
	return "'" + s + "'"
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

type writer struct {
	b strings.Builder
}

func (w *writer) line(indent int, text string) {
	w.b.WriteString(strings.Repeat(" ", indent))
	w.b.WriteString(text)
	w.b.WriteByte('\n')
}

func (w *writer) kv(indent int, key, rendered string) {
	w.line(indent, key+": "+rendered)
}

func (w *writer) String() string {
	return w.b.String()
}

// sortedKeys returns map keys in lexicographic order, for deterministic output.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// sortedAmountKeys orders amount-group keys numerically where possible, with
// non-numeric keys after, lexicographically.
func sortedAmountKeys(m map[string]model.AmountButton) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, aerr := strconv.Atoi(keys[i])
		b, berr := strconv.Atoi(keys[j])
		switch {
		case aerr == nil && berr == nil:
			return a < b
		case aerr == nil:
			return true
		case berr == nil:
			return false
		default:
			return keys[i] < keys[j]
		}
	})
	return keys
}

// indentBlock shifts every non-empty line of text right by n spaces. Used by
// the legacy combined-file serializer, whose sections are the split-file
// documents nested one level deeper.
func indentBlock(text string, n int) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = pad + l
		}
	}
	return strings.Join(lines, "\n")
}
