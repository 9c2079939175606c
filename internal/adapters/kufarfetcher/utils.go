package kufarfetcher

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// normalizeLabel очищает и стандартизирует название города/района
// из параметров объявления: без пробелов по краям, первая буква заглавная.
func normalizeLabel(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ""
	}

	runes := []rune(strings.ToLower(trimmed))
	caser := cases.Upper(language.Russian) // правила для русского/белорусского

	firstUpper := []rune(caser.String(string(runes[0])))
	runes[0] = firstUpper[0]

	return string(runes)
}
