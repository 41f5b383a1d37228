package meta

import (
	"os"
	"strings"
	"unicode"
)

const envPrefix = "${env."

// expandEnvExpr replaces ${env.NAME} with the NAME environment variable ("" when unset).
// An expression without a closing brace is kept verbatim, as is a prefix followed by an invalid name.
func expandEnvExpr(text string) string {
	if !strings.Contains(text, envPrefix) {
		return text
	}
	var b strings.Builder
	rest := text
	for {
		before, after, found := strings.Cut(rest, envPrefix)
		b.WriteString(before)
		if !found {
			return b.String()
		}
		name, tail, closed := strings.Cut(after, "}")
		if !closed {
			b.WriteString(envPrefix)
			b.WriteString(after)
			return b.String()
		}
		if !isEnvName(name) {
			b.WriteString(envPrefix)
			rest = after
			continue
		}
		b.WriteString(os.Getenv(name))
		rest = tail
	}
}

func isEnvName(name string) bool {
	for _, r := range name {
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			return false
		}
	}
	return true
}
