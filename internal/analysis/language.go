package analysis

import "unicode"

// DetectLanguage guesses the interview language from transcript text. Covers
// the languages the result store partitions by: Cyrillic script means ru,
// Polish diacritics mean pl, any other Latin text means en. Empty or
// undecidable text returns "".
func DetectLanguage(text string) string {
	var cyrillic, polish, latin int
	for _, r := range text {
		switch {
		case unicode.Is(unicode.Cyrillic, r):
			cyrillic++
		case isPolishDiacritic(r):
			polish++
			latin++
		case unicode.Is(unicode.Latin, r):
			latin++
		}
	}
	if cyrillic == 0 && latin == 0 {
		return ""
	}
	if cyrillic > latin {
		return "ru"
	}
	// a handful of diacritics is a strong Polish signal
	if polish > 0 && polish*200 >= latin {
		return "pl"
	}
	return "en"
}

func isPolishDiacritic(r rune) bool {
	switch r {
	case 'ą', 'ć', 'ę', 'ł', 'ń', 'ó', 'ś', 'ź', 'ż',
		'Ą', 'Ć', 'Ę', 'Ł', 'Ń', 'Ó', 'Ś', 'Ź', 'Ż':
		return true
	}
	return false
}
