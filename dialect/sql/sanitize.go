package sql

import (
	"regexp"
	"strings"
)

// strictIdentRe is the identifier grammar surfaced to callers of ValidIdent:
// a leading letter followed by letters, digits, or underscores.
var strictIdentRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// ValidIdent reports whether s conforms to the strict identifier grammar
// `^[A-Za-z][A-Za-z0-9_]*$`. Callers that want reject-on-invalid semantics
// should check this before passing a name to the builders; the builders
// themselves strip disallowed characters instead (see Ident).
func ValidIdent(s string) bool {
	return s != "" && len(s) <= 128 && strictIdentRe.MatchString(s)
}

// stripIdent removes every character outside [A-Za-z0-9_].
func stripIdent(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_':
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// Ident sanitizes a table or column name and wraps it in the quoting
// delimiter. Disallowed characters are stripped rather than rejected. The
// wildcard `*` passes through unchanged, and a name containing exactly one
// dot is treated as a table.column pair with each side sanitized
// independently (the right side may be `*`).
//
// A name that sanitizes to the empty string is an ArgumentError: emitting an
// empty quoted identifier would only defer the failure to the engine with a
// far less useful message.
func (b *Builder) Ident(name string) (string, error) {
	if name == "*" {
		return "*", nil
	}
	if strings.Count(name, ".") == 1 {
		parts := strings.SplitN(name, ".", 2)
		table, err := b.Ident(parts[0])
		if err != nil {
			return "", err
		}
		column, err := b.Ident(parts[1])
		if err != nil {
			return "", err
		}
		return table + "." + column, nil
	}
	clean := stripIdent(name)
	if clean == "" {
		return "", argErr("identifier %q contains no allowed characters", name)
	}
	return b.quote(clean), nil
}

// idents sanitizes a list of names and returns them joined with ", ".
func (b *Builder) idents(names []string) (string, error) {
	quoted := make([]string, len(names))
	for i, name := range names {
		ident, err := b.Ident(name)
		if err != nil {
			return "", err
		}
		quoted[i] = ident
	}
	return strings.Join(quoted, ", "), nil
}

// quote wraps an already-sanitized identifier in the dialect delimiter.
// Both supported engines accept the backtick.
func (b *Builder) quote(ident string) string {
	return "`" + ident + "`"
}

// escapeString escapes a string value for embedding as quoted SQL text.
// Single quotes are doubled and backslashes escaped for MySQL compatibility.
func escapeString(s string) string {
	if !strings.ContainsAny(s, `'\`) {
		return s
	}
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "'", "''")
	return s
}

// quoteLiteral renders a literal-position argument as quoted SQL text.
// This is the narrow trust boundary of the expression library: literal
// arguments are escaped, not parameter-bound, so callers must not forward
// untrusted input here.
func quoteLiteral(s string) string {
	return "'" + escapeString(s) + "'"
}
