package report

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// SanitizeTerminal replaces control characters and invalid UTF-8 in s with
// visible escapes so a descriptor target cannot inject terminal sequences or
// break table columns. Tabs and newlines are escaped as well.
//   - "hi\x1b[31m" -> `hi\x1b[31m`
//   - "a\tb"       -> `a\tb`
//   - "bad\xff"    -> `bad\xff`
func SanitizeTerminal(s string) string {
	clean := true
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if (r == utf8.RuneError && size == 1) || unicode.IsControl(r) {
			clean = false
			break
		}
		i += size
	}
	if clean {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 8)
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == utf8.RuneError && size == 1:
			fmt.Fprintf(&b, `\x%02x`, s[i])
		case r == '\t':
			b.WriteString(`\t`)
		case r == '\n':
			b.WriteString(`\n`)
		case unicode.IsControl(r) && r <= 0xff:
			fmt.Fprintf(&b, `\x%02x`, r)
		case unicode.IsControl(r):
			fmt.Fprintf(&b, `\u%04x`, r)
		default:
			b.WriteString(s[i : i+size])
		}
		i += size
	}
	return b.String()
}
