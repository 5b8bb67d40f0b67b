package pipeline

import (
	"strings"

	"github.com/sqlsage/sqlsage/internal/errors"
)

// writeKeywords are statement words that disqualify a query from execution,
// matched as whole words against the lowercased statement text
var writeKeywords = []string{
	"insert", "update", "delete", "drop", "alter", "create", "truncate",
	"replace", "merge", "grant", "revoke", "attach", "detach", "vacuum",
	"pragma", "copy", "call", "exec", "execute", "set", "install", "load",
}

// ExtractSQL normalizes a raw model completion into a bare statement:
// surrounding whitespace and markdown code fences are stripped and a trailing
// semicolon is removed
func ExtractSQL(completion string) string {
	trimmed := strings.TrimSpace(completion)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```sql")
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(trimmed, "```")
		trimmed = strings.TrimSpace(trimmed)
	}

	return strings.TrimSpace(strings.TrimSuffix(trimmed, ";"))
}

// EnsureReadOnly rejects statements that are not plain read queries. The
// check is lexical, not a parse: the statement must start with SELECT or
// WITH, must be a single statement, and must not mention a write or DDL
// keyword as a word. Keywords inside string literals are rejected too, which
// over-rejects a few legitimate reads in exchange for a much simpler guard
func EnsureReadOnly(query string) error {
	normalized := strings.ToLower(strings.TrimSpace(query))
	normalized = strings.TrimSpace(strings.TrimSuffix(normalized, ";"))

	if normalized == "" {
		return errors.New(errors.ErrTypeGeneration, "empty query")
	}

	if strings.Contains(normalized, ";") {
		return errors.New(errors.ErrTypeGeneration, "multi-statement queries are not allowed")
	}

	if !strings.HasPrefix(normalized, "select") && !strings.HasPrefix(normalized, "with") {
		return errors.Newf(errors.ErrTypeGeneration, "only read queries are allowed, got %q", firstWord(normalized))
	}

	for _, keyword := range writeKeywords {
		if containsWord(normalized, keyword) {
			return errors.Newf(errors.ErrTypeGeneration, "query contains disallowed keyword %q", keyword)
		}
	}

	return nil
}

func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}

	return fields[0]
}

func containsWord(s, word string) bool {
	for start := 0; ; {
		idx := strings.Index(s[start:], word)
		if idx < 0 {
			return false
		}

		idx += start
		before := idx == 0 || !isWordChar(s[idx-1])
		after := idx+len(word) == len(s) || !isWordChar(s[idx+len(word)])

		if before && after {
			return true
		}

		start = idx + len(word)
	}
}

func isWordChar(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= '0' && b <= '9')
}
