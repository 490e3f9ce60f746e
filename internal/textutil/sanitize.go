package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// fileNameReplacer replaces filesystem-unsafe characters with safe alternatives.
var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileName replaces filesystem-unsafe characters in a filename.
// Slashes, backslashes, colons, and asterisks become dashes; other unsafe
// characters are removed. The result is trimmed of leading/trailing whitespace.
func SanitizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return strings.TrimSpace(fileNameReplacer.Replace(name))
}

// SanitizeStem reduces raw text to a single filename-safe stem: unsafe and
// control characters are dropped, only the first whitespace-delimited token is
// kept, and its first rune is upper-cased with interior casing preserved.
// Input that cleans to nothing yields fallback verbatim. The fallback is a
// fixed point, so SanitizeStem(SanitizeStem(x, f), f) == SanitizeStem(x, f)
// for every input.
func SanitizeStem(raw, fallback string) string {
	cleaned := strings.Map(dropControl, fileNameReplacer.Replace(raw))
	fields := strings.Fields(cleaned)
	if len(fields) == 0 {
		return fallback
	}
	token := strings.Trim(fields[0], "-_.")
	if token == "" {
		return fallback
	}
	if strings.EqualFold(token, fallback) {
		return fallback
	}
	return capitalizeFirst(token)
}

func dropControl(r rune) rune {
	if unicode.IsControl(r) {
		return -1
	}
	return r
}

func capitalizeFirst(token string) string {
	first, size := utf8.DecodeRuneInString(token)
	if first == utf8.RuneError && size <= 1 {
		return token
	}
	upper := unicode.ToUpper(first)
	if upper == first {
		return token
	}
	return string(upper) + token[size:]
}

// TruncateRunes returns at most max runes of s, cut on a rune boundary.
func TruncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

// Preview collapses whitespace runs in s to single spaces and truncates the
// result to max runes for log lines, appending an ellipsis when cut.
func Preview(s string, max int) string {
	collapsed := strings.Join(strings.Fields(s), " ")
	if max <= 0 || utf8.RuneCountInString(collapsed) <= max {
		return collapsed
	}
	return TruncateRunes(collapsed, max) + "..."
}
