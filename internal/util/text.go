package util

import "strings"

// Truncate clips s to at most max runes, appending an ellipsis marker when
// clipping occurred. max values below 4 degrade to a hard cut.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max < 4 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

// ClampLines joins lines separated by newline, dropping trailing lines once
// the accumulated length would exceed maxTotal. Earlier lines win since they
// are assumed more recent / relevant by the caller's ordering.
func ClampLines(lines []string, maxTotal int) string {
	var b strings.Builder
	for _, line := range lines {
		if b.Len()+len(line)+1 > maxTotal {
			break
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
	}
	return b.String()
}
