package templates

import (
	"strings"
	"text/template"
	"unicode"
)

// funcMap returns the helpers available in template bodies. All of them are
// pure string transforms; anything time- or environment-dependent would make
// regenerated bodies hash differently and defeat drift detection.
func funcMap() template.FuncMap {
	return template.FuncMap{
		"upper":  strings.ToUpper,
		"lower":  strings.ToLower,
		"pascal": toPascal,
		"camel":  toCamel,
		"snake":  toSnake,
		"kebab":  toKebab,
	}
}

// splitWords breaks an identifier into lowercase words. Delimiters are
// non-alphanumeric runs and lower-to-upper case boundaries.
func splitWords(s string) []string {
	var words []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			words = append(words, strings.ToLower(current.String()))
			current.Reset()
		}
	}

	var prev rune
	for _, r := range s {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			flush()
		case unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)):
			flush()
			current.WriteRune(r)
		default:
			current.WriteRune(r)
		}
		prev = r
	}
	flush()

	return words
}

func toPascal(s string) string {
	var sb strings.Builder
	for _, w := range splitWords(s) {
		sb.WriteString(strings.ToUpper(w[:1]) + w[1:])
	}
	return sb.String()
}

func toCamel(s string) string {
	pascal := toPascal(s)
	if pascal == "" {
		return ""
	}
	return strings.ToLower(pascal[:1]) + pascal[1:]
}

func toSnake(s string) string {
	return strings.Join(splitWords(s), "_")
}

func toKebab(s string) string {
	return strings.Join(splitWords(s), "-")
}
