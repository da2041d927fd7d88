package parser

import (
	"strings"
	"unicode"
)

const fence = "```"

// stripCodeFence removes a markdown fence pair wrapping the whole text, including an
// info string such as "json" on the opening line. A lone opening or closing fence is
// left untouched.
func stripCodeFence(s string) string {
	if len(s) < 2*len(fence) || !strings.HasPrefix(s, fence) || !strings.HasSuffix(s, fence) {
		return s
	}
	body := s[len(fence) : len(s)-len(fence)]
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		if isInfoString(strings.TrimSpace(body[:nl])) {
			body = body[nl+1:]
		}
	} else {
		body = strings.TrimLeftFunc(body, unicode.IsLetter)
	}
	return strings.TrimSpace(body)
}

func isInfoString(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '_' && r != '+' {
			return false
		}
	}
	return true
}

var pythonLiterals = [...][2]string{
	{"None", "null"},
	{"True", "true"},
	{"False", "false"},
}

// normalizeQuotes rewrites single-quoted strings as double-quoted JSON strings and bare
// Python literals as JSON literals. Text inside double-quoted strings is copied as is,
// so apostrophes there survive.
func normalizeQuotes(s string) string {
	const (
		outside = iota
		inDouble
		inSingle
	)
	var b strings.Builder
	b.Grow(len(s) + 8)
	state := outside

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch state {
		case inDouble:
			b.WriteByte(c)
			if c == '\\' && i+1 < len(s) {
				i++
				b.WriteByte(s[i])
			} else if c == '"' {
				state = outside
			}
		case inSingle:
			switch c {
			case '\\':
				if i+1 < len(s) {
					i++
					if s[i] == '\'' {
						b.WriteByte('\'')
					} else {
						b.WriteByte('\\')
						b.WriteByte(s[i])
					}
				}
			case '"':
				b.WriteString(`\"`)
			case '\'':
				b.WriteByte('"')
				state = outside
			default:
				b.WriteByte(c)
			}
		default:
			switch c {
			case '"':
				state = inDouble
				b.WriteByte(c)
			case '\'':
				state = inSingle
				b.WriteByte('"')
			default:
				if lit, n := pythonLiteralAt(s, i); n > 0 {
					b.WriteString(lit)
					i += n - 1
					continue
				}
				b.WriteByte(c)
			}
		}
	}
	return b.String()
}

func pythonLiteralAt(s string, i int) (string, int) {
	if i > 0 && isIdentByte(s[i-1]) {
		return "", 0
	}
	for _, pl := range pythonLiterals {
		word := pl[0]
		if !strings.HasPrefix(s[i:], word) {
			continue
		}
		if end := i + len(word); end < len(s) && isIdentByte(s[end]) {
			continue
		}
		return pl[1], len(word)
	}
	return "", 0
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
