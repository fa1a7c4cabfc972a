package core

import "strings"

// EscapeFunc escapes text for embedding inside a quoted SQL string literal.
type EscapeFunc func(string) string

var mysqlEscaper = strings.NewReplacer(
	"\\", "\\\\",
	"\x00", "\\0",
	"\n", "\\n",
	"\r", "\\r",
	"'", "\\'",
	`"`, `\"`,
	"\x1a", "\\Z",
)

// Escape escapes text with MySQL string rules: backslash, NUL, newline,
// carriage return, both quote characters and Ctrl-Z get a backslash prefix.
func Escape(s string) string {
	return mysqlEscaper.Replace(s)
}

// Unescape removes backslash escapes. It is meant for text produced by
// Escape or Format, never for values read back from a database.
func Unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(s) {
			break
		}
		if s[i] == '0' {
			b.WriteByte(0)
		} else {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// Backquote wraps name in back-quotes without further checks.
func Backquote(name string) string {
	return "`" + name + "`"
}

// QuoteIdentifier escapes a possibly dotted identifier (table.column) and
// back-quotes every segment that needs it. The wildcard and plain
// alphanumeric names that do not start with a digit are left bare.
func QuoteIdentifier(name string) string {
	parts := strings.Split(Escape(name), ".")
	for i, p := range parts {
		if p == "*" || isBareIdentifier(p) {
			continue
		}
		parts[i] = Backquote(p)
	}
	return strings.Join(parts, ".")
}

func isBareIdentifier(s string) bool {
	if s == "" || isDigit(s[0]) {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !isDigit(c) && !(c >= 'a' && c <= 'z') && !(c >= 'A' && c <= 'Z') {
			return false
		}
	}
	return true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
